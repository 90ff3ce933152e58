package typecheck

import (
	"cflat/checker-go/pkg/ast"
	"cflat/checker-go/pkg/types"
)

// Environment is Gamma: a mapping from identifier to type. A function's
// local scope extends the program-wide base by chaining a child
// Environment rather than mutating the base, so the base can be reused
// unchanged across every function in the program.
type Environment struct {
	parent  *Environment
	symbols map[string]types.Type
}

// NewEnvironment creates an environment with an optional parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{parent: parent, symbols: make(map[string]types.Type)}
}

// Define binds a name to a type in the current scope.
func (e *Environment) Define(name string, t types.Type) {
	e.symbols[name] = t
}

// Lookup searches the scope chain, nearest first.
func (e *Environment) Lookup(name string) (types.Type, bool) {
	if t, ok := e.symbols[name]; ok {
		return t, true
	}
	if e.parent != nil {
		return e.parent.Lookup(name)
	}
	return nil, false
}

// Extend returns a child environment.
func (e *Environment) Extend() *Environment {
	return NewEnvironment(e)
}

// Delta maps struct name to its field-name-to-type mapping.
type Delta map[string]map[string]types.Type

// constructGamma builds the program-wide Gamma: externs bind to a bare
// function type (callable directly), and every function except main binds
// to a pointer-to-function type. main is deliberately left out, whether it
// names an extern or a function definition, so it can only be referenced
// through the syntactic callee check in FunCall, never stored or called
// indirectly.
func constructGamma(externs []*ast.Extern, functions []*ast.FunctionDef) *Environment {
	gamma := NewEnvironment(nil)
	for _, ext := range externs {
		if ext.Name == "main" {
			continue
		}
		gamma.Define(ext.Name, types.Fn{Params: ext.ParamTypes, Ret: ext.Ret})
	}
	for _, fn := range functions {
		if fn.Name == "main" {
			continue
		}
		params := make([]types.Type, len(fn.Params))
		for i, p := range fn.Params {
			params[i] = p.Type
		}
		gamma.Define(fn.Name, types.Ptr{Pointee: types.Fn{Params: params, Ret: fn.Ret}})
	}
	return gamma
}

// constructDelta builds the program-wide struct field environment. Later
// fields silently shadow earlier same-named ones here; StructDef's own
// check is what enforces field-name uniqueness.
func constructDelta(structs []*ast.StructDef) Delta {
	delta := make(Delta, len(structs))
	for _, s := range structs {
		fields := make(map[string]types.Type, len(s.Fields))
		for _, f := range s.Fields {
			fields[f.Name] = f.Type
		}
		delta[s.Name] = fields
	}
	return delta
}
