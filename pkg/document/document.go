// Package document decodes the JSON tagged-tree input format into a
// pkg/ast.Program. It performs no type checking: malformed input produces a
// *DecodeError, a distinct error kind from typecheck's diagnostics, so a
// driver can tell "this file isn't a program" apart from "this program is
// ill-typed".
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"cflat/checker-go/pkg/ast"
	"cflat/checker-go/pkg/types"
)

// DecodeError reports a structurally malformed document: a missing field,
// a wrong JSON shape, an unrecognized tag. It is never raised for a
// well-formed but ill-typed program; that is typecheck's job.
type DecodeError struct {
	Msg string
}

func (e *DecodeError) Error() string { return e.Msg }

func errf(format string, args ...any) error {
	return &DecodeError{Msg: fmt.Sprintf(format, args...)}
}

// Load reads and decodes a tree-document file into a Program.
func Load(path string) (*ast.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errf("read %s: %v", path, err)
	}
	return Decode(data)
}

// Decode parses JSON bytes and builds a Program from the tagged tree.
func Decode(data []byte) (*ast.Program, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, errf("parse document: %v", err)
	}
	return decodeProgram(raw)
}

func decodeProgram(raw any) (*ast.Program, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, errf("program must be an object, got %T", raw)
	}
	structs, err := decodeList(m["structs"], decodeStructDef)
	if err != nil {
		return nil, err
	}
	externs, err := decodeList(m["externs"], decodeExtern)
	if err != nil {
		return nil, err
	}
	functions, err := decodeList(m["functions"], decodeFunctionDef)
	if err != nil {
		return nil, err
	}
	return &ast.Program{Structs: structs, Externs: externs, Functions: functions}, nil
}

func decodeList[T any](raw any, decodeOne func(any) (T, error)) ([]T, error) {
	arr, ok := raw.([]any)
	if raw != nil && !ok {
		return nil, errf("expected an array, got %T", raw)
	}
	out := make([]T, 0, len(arr))
	for _, item := range arr {
		v, err := decodeOne(item)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func decodeStructDef(raw any) (*ast.StructDef, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, errf("struct definition must be an object, got %T", raw)
	}
	name, ok := m["name"].(string)
	if !ok {
		return nil, errf("struct definition is missing a string 'name'")
	}
	fields, err := decodeList(m["fields"], decodeDecl)
	if err != nil {
		return nil, errf("struct %q: %v", name, err)
	}
	return &ast.StructDef{Name: name, Fields: fields}, nil
}

func decodeExtern(raw any) (*ast.Extern, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, errf("extern must be an object, got %T", raw)
	}
	name, ok := m["name"].(string)
	if !ok {
		return nil, errf("extern is missing a string 'name'")
	}
	t, err := decodeType(m["typ"])
	if err != nil {
		return nil, errf("extern %q: %v", name, err)
	}
	fn, ok := t.(types.Fn)
	if !ok {
		return nil, errf("extern %q: 'typ' must be a function type", name)
	}
	return &ast.Extern{Name: name, ParamTypes: fn.Params, Ret: fn.Ret}, nil
}

func decodeFunctionDef(raw any) (*ast.FunctionDef, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, errf("function definition must be an object, got %T", raw)
	}
	name, ok := m["name"].(string)
	if !ok {
		return nil, errf("function definition is missing a string 'name'")
	}
	params, err := decodeList(m["prms"], decodeDecl)
	if err != nil {
		return nil, errf("function %q: %v", name, err)
	}
	ret, err := decodeType(m["rettyp"])
	if err != nil {
		return nil, errf("function %q: %v", name, err)
	}
	locals, err := decodeList(m["locals"], decodeDecl)
	if err != nil {
		return nil, errf("function %q: %v", name, err)
	}
	bodyStmt, err := decodeStmt(m["stmts"])
	if err != nil {
		return nil, errf("function %q: %v", name, err)
	}
	body, ok := bodyStmt.(*ast.Stmts)
	if !ok {
		return nil, errf("function %q: body did not decode to a statement sequence", name)
	}
	return &ast.FunctionDef{Name: name, Params: params, Ret: ret, Locals: locals, Body: body}, nil
}

func decodeDecl(raw any) (ast.Decl, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return ast.Decl{}, errf("declaration must be an object, got %T", raw)
	}
	name, ok := m["name"].(string)
	if !ok {
		return ast.Decl{}, errf("declaration is missing a string 'name'")
	}
	t, err := decodeType(m["typ"])
	if err != nil {
		return ast.Decl{}, errf("declaration %q: %v", name, err)
	}
	return ast.Decl{Name: name, Type: t}, nil
}

// --- Types ---

func decodeType(raw any) (types.Type, error) {
	switch v := raw.(type) {
	case string:
		return decodeTypeTag(v)
	case map[string]any:
		if kind, ok := v["kind"].(string); ok {
			return decodeTypeTag(kind)
		}
		if name, ok := v["Struct"]; ok {
			s, ok := name.(string)
			if !ok {
				return nil, errf("Struct type name must be a string, got %T", name)
			}
			return types.Struct{Name: s}, nil
		}
		if inner, ok := v["Ptr"]; ok {
			t, err := decodeType(inner)
			if err != nil {
				return nil, err
			}
			return types.Ptr{Pointee: t}, nil
		}
		if inner, ok := v["Array"]; ok {
			t, err := decodeType(inner)
			if err != nil {
				return nil, err
			}
			return types.Array{Elem: t}, nil
		}
		if inner, ok := v["Fn"]; ok {
			arr, ok := inner.([]any)
			if !ok || len(arr) != 2 {
				return nil, errf("Fn type must be [[params...], ret]")
			}
			paramsRaw, ok := arr[0].([]any)
			if !ok {
				return nil, errf("Fn parameter list must be an array")
			}
			params := make([]types.Type, 0, len(paramsRaw))
			for _, p := range paramsRaw {
				pt, err := decodeType(p)
				if err != nil {
					return nil, err
				}
				params = append(params, pt)
			}
			ret, err := decodeType(arr[1])
			if err != nil {
				return nil, err
			}
			return types.Fn{Params: params, Ret: ret}, nil
		}
		return nil, errf("unrecognized type node %v", v)
	default:
		return nil, errf("type node must be a string or object, got %T", raw)
	}
}

func decodeTypeTag(tag string) (types.Type, error) {
	switch tag {
	case "Int":
		return types.Int{}, nil
	case "Nil":
		return types.Nil{}, nil
	default:
		return nil, errf("unrecognized type tag %q", tag)
	}
}

// --- Places ---

func decodePlace(raw any) (ast.Place, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, errf("place node must be an object, got %T", raw)
	}
	if name, ok := obj["Id"]; ok {
		s, ok := name.(string)
		if !ok {
			return nil, errf("Id name must be a string, got %T", name)
		}
		return ast.NewId(s), nil
	}
	if inner, ok := obj["Deref"]; ok {
		e, err := decodeExp(inner)
		if err != nil {
			return nil, err
		}
		return ast.NewDeref(e), nil
	}
	if inner, ok := obj["ArrayAccess"]; ok {
		m, ok := inner.(map[string]any)
		if !ok {
			return nil, errf("ArrayAccess payload must be an object, got %T", inner)
		}
		arr, err := decodeExp(m["array"])
		if err != nil {
			return nil, err
		}
		idx, err := decodeExp(m["idx"])
		if err != nil {
			return nil, err
		}
		return ast.NewArrayAccess(arr, idx), nil
	}
	if inner, ok := obj["FieldAccess"]; ok {
		m, ok := inner.(map[string]any)
		if !ok {
			return nil, errf("FieldAccess payload must be an object, got %T", inner)
		}
		ptr, err := decodeExp(m["ptr"])
		if err != nil {
			return nil, err
		}
		field, ok := m["field"].(string)
		if !ok {
			return nil, errf("FieldAccess field must be a string")
		}
		return ast.NewFieldAccess(ptr, field), nil
	}
	return nil, errf("unrecognized place node %v", obj)
}

// --- Expressions ---

func decodeExp(raw any) (ast.Exp, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, errf("expression node must be an object, got %T", raw)
	}
	if val, ok := obj["Num"]; ok {
		n, err := decodeInt(val)
		if err != nil {
			return nil, errf("Num: %v", err)
		}
		return ast.NewNum(n), nil
	}
	if _, ok := obj["Nil"]; ok {
		return ast.NewNilExp(), nil
	}
	if inner, ok := obj["Select"]; ok {
		m, ok := inner.(map[string]any)
		if !ok {
			return nil, errf("Select payload must be an object")
		}
		guard, err := decodeExp(m["guard"])
		if err != nil {
			return nil, err
		}
		tt, err := decodeExp(m["tt"])
		if err != nil {
			return nil, err
		}
		ff, err := decodeExp(m["ff"])
		if err != nil {
			return nil, err
		}
		return ast.NewSelect(guard, tt, ff), nil
	}
	if inner, ok := obj["UnOp"]; ok {
		arr, ok := inner.([]any)
		if !ok || len(arr) != 2 {
			return nil, errf("UnOp payload must be [op, exp]")
		}
		op, err := decodeUnaryOp(arr[0])
		if err != nil {
			return nil, err
		}
		e, err := decodeExp(arr[1])
		if err != nil {
			return nil, err
		}
		return ast.NewUnOp(op, e), nil
	}
	if inner, ok := obj["BinOp"]; ok {
		m, ok := inner.(map[string]any)
		if !ok {
			return nil, errf("BinOp payload must be an object")
		}
		opRaw, _ := m["op"].(string)
		op, err := decodeBinaryOp(opRaw)
		if err != nil {
			return nil, err
		}
		l, err := decodeExp(m["left"])
		if err != nil {
			return nil, err
		}
		r, err := decodeExp(m["right"])
		if err != nil {
			return nil, err
		}
		return ast.NewBinOp(op, l, r), nil
	}
	if inner, ok := obj["NewSingle"]; ok {
		t, err := decodeType(inner)
		if err != nil {
			return nil, err
		}
		return ast.NewNewSingle(t), nil
	}
	if inner, ok := obj["NewArray"]; ok {
		arr, ok := inner.([]any)
		if !ok || len(arr) != 2 {
			return nil, errf("NewArray payload must be [type, size]")
		}
		t, err := decodeType(arr[0])
		if err != nil {
			return nil, err
		}
		size, err := decodeExp(arr[1])
		if err != nil {
			return nil, err
		}
		return ast.NewNewArray(t, size), nil
	}
	if inner, ok := obj["Call"]; ok {
		call, err := decodeFunCall(inner)
		if err != nil {
			return nil, err
		}
		return ast.NewCallExp(call), nil
	}
	if inner, ok := obj["Val"]; ok {
		p, err := decodePlace(inner)
		if err != nil {
			return nil, err
		}
		return ast.NewVal(p), nil
	}
	// A bare place tag in expression position is implicitly Val(place).
	if p, err := decodePlace(obj); err == nil {
		return ast.NewVal(p), nil
	}
	return nil, errf("unrecognized expression node %v", obj)
}

func decodeFunCall(raw any) (*ast.FunCall, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, errf("call payload must be an object, got %T", raw)
	}
	callee, err := decodeExp(m["callee"])
	if err != nil {
		return nil, errf("call: %v", err)
	}
	args, err := decodeList(m["args"], decodeExp)
	if err != nil {
		return nil, errf("call: %v", err)
	}
	return &ast.FunCall{Callee: callee, Args: args}, nil
}

func decodeUnaryOp(raw any) (ast.UnaryOp, error) {
	s, ok := raw.(string)
	if !ok {
		return "", errf("unary operator must be a string, got %T", raw)
	}
	switch s {
	case "Neg":
		return ast.Neg, nil
	case "Not":
		return ast.Not, nil
	default:
		return "", errf("unrecognized unary operator %q", s)
	}
}

func decodeBinaryOp(s string) (ast.BinaryOp, error) {
	switch s {
	case "Add":
		return ast.Add, nil
	case "Sub":
		return ast.Sub, nil
	case "Mul":
		return ast.Mul, nil
	case "Div":
		return ast.Div, nil
	case "And":
		return ast.And, nil
	case "Or":
		return ast.Or, nil
	case "Eq":
		return ast.Eq, nil
	case "NotEq":
		return ast.NotEq, nil
	case "Lt":
		return ast.Lt, nil
	case "Lte":
		return ast.Lte, nil
	case "Gt":
		return ast.Gt, nil
	case "Gte":
		return ast.Gte, nil
	default:
		return "", errf("unrecognized binary operator %q", s)
	}
}

func decodeInt(raw any) (int64, error) {
	switch v := raw.(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, errf("invalid integer literal %q", v.String())
		}
		return n, nil
	case float64:
		return int64(v), nil
	default:
		return 0, errf("expected a number, got %T", raw)
	}
}

// --- Statements ---

func decodeStmt(raw any) (ast.Stmt, error) {
	switch v := raw.(type) {
	case []any:
		list := make([]ast.Stmt, 0, len(v))
		for _, item := range v {
			s, err := decodeStmt(item)
			if err != nil {
				return nil, err
			}
			list = append(list, s)
		}
		return ast.NewStmts(list), nil
	case string:
		switch v {
		case "Break":
			return ast.NewBreak(), nil
		case "Continue":
			return ast.NewContinue(), nil
		default:
			return nil, errf("unrecognized statement tag %q", v)
		}
	case map[string]any:
		return decodeStmtObject(v)
	case nil:
		return nil, errf("statement node is missing")
	default:
		return nil, errf("statement node must be an array, string, or object, got %T", raw)
	}
}

func decodeStmtObject(v map[string]any) (ast.Stmt, error) {
	if inner, ok := v["Assign"]; ok {
		arr, ok := inner.([]any)
		if !ok || len(arr) != 2 {
			return nil, errf("Assign payload must be [place, exp]")
		}
		p, err := decodePlace(arr[0])
		if err != nil {
			return nil, err
		}
		e, err := decodeExp(arr[1])
		if err != nil {
			return nil, err
		}
		return ast.NewAssign(p, e), nil
	}
	if inner, ok := v["Call"]; ok {
		call, err := decodeFunCall(inner)
		if err != nil {
			return nil, err
		}
		return ast.NewCallStmt(call), nil
	}
	if inner, ok := v["If"]; ok {
		m, ok := inner.(map[string]any)
		if !ok {
			return nil, errf("If payload must be an object")
		}
		guard, err := decodeExp(m["guard"])
		if err != nil {
			return nil, err
		}
		then, err := decodeStmt(m["tt"])
		if err != nil {
			return nil, err
		}
		var els ast.Stmt
		if ff, ok := m["ff"]; ok && ff != nil {
			els, err = decodeStmt(ff)
			if err != nil {
				return nil, err
			}
		}
		return ast.NewIf(guard, then, els), nil
	}
	if inner, ok := v["While"]; ok {
		arr, ok := inner.([]any)
		if !ok || len(arr) != 2 {
			return nil, errf("While payload must be [guard, body]")
		}
		guard, err := decodeExp(arr[0])
		if err != nil {
			return nil, err
		}
		body, err := decodeStmt(arr[1])
		if err != nil {
			return nil, err
		}
		return ast.NewWhile(guard, body), nil
	}
	if inner, ok := v["Return"]; ok {
		if inner == nil {
			return ast.NewReturn(nil), nil
		}
		e, err := decodeExp(inner)
		if err != nil {
			return nil, err
		}
		return ast.NewReturn(e), nil
	}
	if inner, ok := v["Stmts"]; ok {
		arr, ok := inner.([]any)
		if !ok {
			return nil, errf("Stmts payload must be an array")
		}
		list := make([]ast.Stmt, 0, len(arr))
		for _, item := range arr {
			s, err := decodeStmt(item)
			if err != nil {
				return nil, err
			}
			list = append(list, s)
		}
		return ast.NewStmts(list), nil
	}
	return nil, errf("unrecognized statement node %v", v)
}
