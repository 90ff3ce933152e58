// Package typecheck implements the static checker: environment
// construction, expression and statement typing, definite-return
// analysis, and the top-level struct/function/program checks.
package typecheck

import (
	"cflat/checker-go/pkg/ast"
	"cflat/checker-go/pkg/types"
)

// Checker holds the environments built once per program and threads them
// through every node check. A single Checker checks exactly one program.
type Checker struct {
	gamma *Environment
	delta Delta
}

// New returns a checker ready to check a program.
func New() *Checker {
	return &Checker{}
}

// Check runs the full top-level check: verify global name uniqueness,
// build Gamma and Delta, verify the main signature, then check every
// struct and every function in declaration order. It stops and returns the
// first *TypeError encountered.
func (c *Checker) Check(program *ast.Program) error {
	if err := checkGlobalNamesUnique(program); err != nil {
		return err
	}

	c.gamma = constructGamma(program.Externs, program.Functions)
	c.delta = constructDelta(program.Structs)

	if err := checkMainSignature(program); err != nil {
		return err
	}

	for _, s := range program.Structs {
		if err := c.checkStructDef(s); err != nil {
			return err
		}
	}
	for _, f := range program.Functions {
		if err := c.checkFunctionDef(f); err != nil {
			return err
		}
	}
	return nil
}

// checkGlobalNamesUnique verifies structs, externs, and functions (main
// included) all share one namespace with no collisions. main is not given
// any special exemption here: a struct or extern named main, or two
// functions both named main, are collisions like any other.
// checkMainSignature separately enforces that the surviving main has the
// right signature.
func checkGlobalNamesUnique(program *ast.Program) error {
	seen := make(map[string]bool)
	for _, s := range program.Structs {
		if seen[s.Name] {
			return typeErrorf("Duplicate name: %s", s.Name)
		}
		seen[s.Name] = true
	}
	for _, e := range program.Externs {
		if seen[e.Name] {
			return typeErrorf("Duplicate name: %s", e.Name)
		}
		seen[e.Name] = true
	}
	for _, f := range program.Functions {
		if seen[f.Name] {
			return typeErrorf("Duplicate name: %s", f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}

func checkMainSignature(program *ast.Program) error {
	for _, f := range program.Functions {
		if f.Name != "main" {
			continue
		}
		if len(f.Params) == 0 && types.Eq(f.Ret, types.Int{}) {
			return nil
		}
		return typeErrorf("function 'main' exists but has wrong type, should be '() -> int'")
	}
	return typeErrorf("no 'main' function with type '() -> int' exists")
}

// checkStructDef enforces a non-empty field list, valid field types, and
// unique field names within the struct.
func (c *Checker) checkStructDef(s *ast.StructDef) error {
	if len(s.Fields) == 0 {
		return typeErrorf("empty struct %s", s.Name)
	}
	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if types.IsNil(f.Type) || types.IsStruct(f.Type) || types.IsFn(f.Type) {
			return typeErrorf("invalid type %s for struct field %s::%s", types.Render(f.Type), s.Name, f.Name)
		}
		if seen[f.Name] {
			return typeErrorf("Duplicate field name '%s' in struct '%s'", f.Name, s.Name)
		}
		seen[f.Name] = true
	}
	return nil
}

// checkFunctionDef builds the local Gamma' from the program-wide Gamma
// plus parameters and locals, verifies their types and uniqueness, then
// checks the body and requires it to definitely return.
func (c *Checker) checkFunctionDef(f *ast.FunctionDef) error {
	local := c.gamma.Extend()
	seen := make(map[string]bool)

	for _, p := range f.Params {
		if types.IsNil(p.Type) || types.IsStruct(p.Type) || types.IsFn(p.Type) {
			return typeErrorf("invalid type %s for variable %s in function %s", types.Render(p.Type), p.Name, f.Name)
		}
		if seen[p.Name] {
			return typeErrorf("Duplicate parameter/local name '%s' in function '%s'", p.Name, f.Name)
		}
		seen[p.Name] = true
		local.Define(p.Name, p.Type)
	}
	for _, l := range f.Locals {
		if types.IsNil(l.Type) || types.IsStruct(l.Type) || types.IsFn(l.Type) {
			return typeErrorf("invalid type %s for variable %s in function %s", types.Render(l.Type), l.Name, f.Name)
		}
		if seen[l.Name] {
			return typeErrorf("Duplicate parameter/local name '%s' in function '%s'", l.Name, f.Name)
		}
		seen[l.Name] = true
		local.Define(l.Name, l.Type)
	}

	if f.Body == nil || len(f.Body.List) == 0 {
		return typeErrorf("function %s has an empty body", f.Name)
	}

	definitelyReturns, err := checkStmts(local, c.delta, f.Ret, false, f.Body)
	if err != nil {
		return err
	}
	if !definitelyReturns {
		return typeErrorf("function %s may not execute a return", f.Name)
	}
	return nil
}
