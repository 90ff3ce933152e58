package typecheck

import (
	"cflat/checker-go/pkg/ast"
	"cflat/checker-go/pkg/render"
	"cflat/checker-go/pkg/types"
)

// checkPlace types a place (an l-value), per the rules for Id, Deref,
// ArrayAccess, and FieldAccess.
func checkPlace(env *Environment, delta Delta, p ast.Place) (types.Type, error) {
	switch v := p.(type) {
	case *ast.Id:
		t, ok := env.Lookup(v.Name)
		if !ok {
			return nil, typeErrorf("id %s does not exist in this scope", v.Name)
		}
		return t, nil
	case *ast.Deref:
		return checkDeref(env, delta, v)
	case *ast.ArrayAccess:
		return checkArrayAccess(env, delta, v)
	case *ast.FieldAccess:
		return checkFieldAccess(env, delta, v)
	default:
		return nil, typeErrorf("unrecognized place node %T", p)
	}
}

func checkDeref(env *Environment, delta Delta, d *ast.Deref) (types.Type, error) {
	pointee, err := checkExp(env, delta, d.Exp)
	if err != nil {
		return nil, err
	}
	if ptr, ok := pointee.(types.Ptr); ok {
		return ptr.Pointee, nil
	}
	return nil, typeErrorf("non-pointer type %s for dereference '%s'", types.Render(pointee), render.Node(d.Exp)+".*")
}

func checkArrayAccess(env *Environment, delta Delta, a *ast.ArrayAccess) (types.Type, error) {
	arrType, err := checkExp(env, delta, a.Array)
	if err != nil {
		return nil, err
	}
	idxType, err := checkExp(env, delta, a.Index)
	if err != nil {
		return nil, err
	}
	if !types.Eq(idxType, types.Int{}) {
		return nil, typeErrorf("non-int index type %s for array access '%s'", types.Render(idxType), render.Node(a))
	}
	if arr, ok := arrType.(types.Array); ok {
		return arr.Elem, nil
	}
	return nil, typeErrorf("non-array type %s for array access '%s'", types.Render(arrType), render.Node(a))
}

func checkFieldAccess(env *Environment, delta Delta, f *ast.FieldAccess) (types.Type, error) {
	baseType, err := checkExp(env, delta, f.Ptr)
	if err != nil {
		return nil, err
	}
	ptr, ok := baseType.(types.Ptr)
	if !ok {
		return nil, typeErrorf("<%s> is not a struct pointer type in field access '%s'", types.Render(baseType), render.Node(f))
	}
	st, ok := ptr.Pointee.(types.Struct)
	if !ok {
		return nil, typeErrorf("pointer type <%s> does not point to a struct in field access '%s'", types.Render(baseType), render.Node(f))
	}
	fields, ok := delta[st.Name]
	if !ok {
		return nil, typeErrorf("non-existent struct type %s in field access '%s'", st.Name, render.Node(f))
	}
	t, ok := fields[f.Field]
	if !ok {
		return nil, typeErrorf("non-existent field %s::%s in field access '%s'", st.Name, f.Field, render.Node(f))
	}
	return t, nil
}

// checkExp types an expression. Unless stated otherwise each sub-expression
// is typed by recursive call.
func checkExp(env *Environment, delta Delta, e ast.Exp) (types.Type, error) {
	switch v := e.(type) {
	case *ast.Val:
		return checkPlace(env, delta, v.Place)
	case *ast.Num:
		if v.Value < 0 {
			return nil, typeErrorf("negative number %d is not allowed", v.Value)
		}
		return types.Int{}, nil
	case *ast.NilExp:
		return types.Nil{}, nil
	case *ast.Select:
		return checkSelect(env, delta, v)
	case *ast.UnOp:
		return checkUnOp(env, delta, v)
	case *ast.BinOp:
		return checkBinOp(env, delta, v)
	case *ast.NewSingle:
		return checkNewSingle(delta, v)
	case *ast.NewArray:
		return checkNewArray(env, delta, v)
	case *ast.CallExp:
		return checkFunCall(env, delta, v.Call)
	default:
		return nil, typeErrorf("unrecognized expression node %T", e)
	}
}

func checkSelect(env *Environment, delta Delta, s *ast.Select) (types.Type, error) {
	guardType, err := checkExp(env, delta, s.Guard)
	if err != nil {
		return nil, err
	}
	if !types.Eq(guardType, types.Int{}) {
		return nil, typeErrorf("non-int type %s for select guard '%s'", types.Render(guardType), render.Node(s.Guard))
	}
	ttType, err := checkExp(env, delta, s.Tt)
	if err != nil {
		return nil, err
	}
	ffType, err := checkExp(env, delta, s.Ff)
	if err != nil {
		return nil, err
	}
	if !types.Eq(ttType, ffType) {
		return nil, typeErrorf("incompatible types %s vs %s in select branches '%s' vs '%s'",
			types.Render(ttType), types.Render(ffType), render.Node(s.Tt), render.Node(s.Ff))
	}
	return types.PickNonNil(ttType, ffType), nil
}

func checkUnOp(env *Environment, delta Delta, u *ast.UnOp) (types.Type, error) {
	operandType, err := checkExp(env, delta, u.Exp)
	if err != nil {
		return nil, err
	}
	if !types.Eq(operandType, types.Int{}) {
		return nil, typeErrorf("non-int operand type %s in unary op '%s'", types.Render(operandType), render.Node(u))
	}
	return types.Int{}, nil
}

func checkBinOp(env *Environment, delta Delta, b *ast.BinOp) (types.Type, error) {
	leftType, err := checkExp(env, delta, b.Left)
	if err != nil {
		return nil, err
	}
	rightType, err := checkExp(env, delta, b.Right)
	if err != nil {
		return nil, err
	}
	if b.Op == ast.Eq || b.Op == ast.NotEq {
		if !types.Eq(leftType, rightType) {
			return nil, typeErrorf("incompatible types %s vs %s in binary op '%s'", types.Render(leftType), types.Render(rightType), render.Node(b))
		}
		if types.IsStruct(leftType) || types.IsFn(leftType) {
			return nil, typeErrorf("invalid type %s used in binary op '%s'", types.Render(leftType), render.Node(b))
		}
		if types.IsStruct(rightType) || types.IsFn(rightType) {
			return nil, typeErrorf("invalid type %s used in binary op '%s'", types.Render(rightType), render.Node(b))
		}
		return types.Int{}, nil
	}
	if !types.Eq(leftType, types.Int{}) {
		return nil, typeErrorf("non-int type %s for left operand of binary op '%s'", types.Render(leftType), render.Node(b))
	}
	if !types.Eq(rightType, types.Int{}) {
		return nil, typeErrorf("right operand of binary op '%s' has type %s, should be int", render.Node(b), types.Render(rightType))
	}
	return types.Int{}, nil
}

func checkNewSingle(delta Delta, n *ast.NewSingle) (types.Type, error) {
	if types.IsNil(n.Type) || types.IsFn(n.Type) {
		return nil, typeErrorf("invalid type used for allocation '%s'", render.Node(n))
	}
	if st, ok := n.Type.(types.Struct); ok {
		if _, ok := delta[st.Name]; !ok {
			return nil, typeErrorf("allocating non-existent struct type '%s'", render.Node(n))
		}
	}
	return types.Ptr{Pointee: n.Type}, nil
}

func checkNewArray(env *Environment, delta Delta, n *ast.NewArray) (types.Type, error) {
	amtType, err := checkExp(env, delta, n.Size)
	if err != nil {
		return nil, err
	}
	if !types.Eq(amtType, types.Int{}) {
		return nil, typeErrorf("non-int type %s used for second argument of allocation '%s'", types.Render(amtType), render.Node(n))
	}
	if types.IsNil(n.Type) || types.IsFn(n.Type) || types.IsStruct(n.Type) {
		return nil, typeErrorf("invalid type used for first argument of allocation '%s'", render.Node(n))
	}
	return types.Array{Elem: n.Type}, nil
}

// checkFunCall types a call shared by CallExp and CallStmt. The
// callee-is-main check is purely syntactic and runs before the callee is
// typed at all: because every internal function except main is entered
// into Gamma as ptr(fn(...)) and main is not entered into Gamma at all,
// this syntactic test is the only way "main" can ever be caught — an
// indirect call through a function-pointer variable can never name it.
func checkFunCall(env *Environment, delta Delta, c *ast.FunCall) (types.Type, error) {
	if name, ok := directIDName(c.Callee); ok && name == "main" {
		return nil, typeErrorf("trying to call 'main'")
	}

	calleeType, err := checkExp(env, delta, c.Callee)
	if err != nil {
		return nil, err
	}

	var fn types.Fn
	switch t := calleeType.(type) {
	case types.Fn:
		fn = t
	case types.Ptr:
		f, ok := t.Pointee.(types.Fn)
		if !ok {
			return nil, typeErrorf("trying to call type %s as function pointer in call '%s'", types.Render(calleeType), render.Node(c))
		}
		fn = f
	default:
		return nil, typeErrorf("trying to call type %s as function pointer in call '%s'", types.Render(calleeType), render.Node(c))
	}

	if len(c.Args) != len(fn.Params) {
		return nil, typeErrorf("incorrect number of arguments (%d vs %d) in call '%s'", len(c.Args), len(fn.Params), render.Node(c))
	}
	for i, arg := range c.Args {
		argType, err := checkExp(env, delta, arg)
		if err != nil {
			return nil, err
		}
		if !types.Eq(argType, fn.Params[i]) {
			return nil, typeErrorf("incompatible argument type %s vs parameter type %s for argument '%s' in call '%s'",
				types.Render(argType), types.Render(fn.Params[i]), render.Node(arg), render.Node(c))
		}
	}
	return fn.Ret, nil
}

// directIDName reports the identifier name if e is syntactically Val(Id),
// the form a direct, unindirected call takes (an Id is a Place, so in
// expression position it always appears wrapped in Val).
func directIDName(e ast.Exp) (string, bool) {
	if id, ok := e.(*ast.Val); ok {
		if direct, ok := id.Place.(*ast.Id); ok {
			return direct.Name, true
		}
	}
	return "", false
}
