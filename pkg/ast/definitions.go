package ast

import "cflat/checker-go/pkg/types"

// Decl is a name:type pair, used for struct fields, function parameters,
// and function locals.
type Decl struct {
	Name string
	Type types.Type
}

// StructDef declares a heap-allocated struct type and its fields.
type StructDef struct {
	Name   string
	Fields []Decl
}

// Extern declares an externally-provided function known only by signature.
// Externs are usable as a direct function value (types.Fn), not a
// pointer-to-function, unlike internally-defined functions.
type Extern struct {
	Name       string
	ParamTypes []types.Type
	Ret        types.Type
}

// FunctionDef is a top-level function definition.
type FunctionDef struct {
	Name   string
	Params []Decl
	Ret    types.Type
	Locals []Decl
	Body   *Stmts
}

// Program is the root of the AST: three ordered, independently-named lists.
type Program struct {
	Structs   []*StructDef
	Externs   []*Extern
	Functions []*FunctionDef
}
