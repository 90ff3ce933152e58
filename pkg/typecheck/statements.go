package typecheck

import (
	"cflat/checker-go/pkg/ast"
	"cflat/checker-go/pkg/render"
	"cflat/checker-go/pkg/types"
)

// checkStmt types a statement and reports whether it definitely returns.
// It takes the enclosing function's declared return type and whether the
// statement sits inside a loop.
func checkStmt(env *Environment, delta Delta, retType types.Type, inLoop bool, s ast.Stmt) (bool, error) {
	switch v := s.(type) {
	case *ast.Stmts:
		return checkStmts(env, delta, retType, inLoop, v)
	case *ast.Assign:
		return checkAssign(env, delta, v)
	case *ast.CallStmt:
		if _, err := checkFunCall(env, delta, v.Call); err != nil {
			return false, err
		}
		return false, nil
	case *ast.If:
		return checkIf(env, delta, retType, inLoop, v)
	case *ast.While:
		return checkWhile(env, delta, retType, v)
	case *ast.Return:
		return checkReturn(env, delta, retType, v)
	case *ast.Break:
		if !inLoop {
			return false, typeErrorf("break outside loop")
		}
		return false, nil
	case *ast.Continue:
		if !inLoop {
			return false, typeErrorf("continue outside loop")
		}
		return false, nil
	default:
		return false, typeErrorf("unrecognized statement node %T", s)
	}
}

// checkStmts folds over the sequence. A sequence definitely returns iff any
// child definitely returns; children after that point are still checked
// for type errors (dead-code bugs are real bugs) but no longer affect the
// verdict.
func checkStmts(env *Environment, delta Delta, retType types.Type, inLoop bool, stmts *ast.Stmts) (bool, error) {
	definitelyReturns := false
	for _, stmt := range stmts.List {
		ret, err := checkStmt(env, delta, retType, inLoop, stmt)
		if err != nil {
			return false, err
		}
		if !definitelyReturns {
			definitelyReturns = ret
		}
	}
	return definitelyReturns, nil
}

func checkAssign(env *Environment, delta Delta, a *ast.Assign) (bool, error) {
	lhsType, err := checkPlace(env, delta, a.Place)
	if err != nil {
		return false, err
	}
	rhsType, err := checkExp(env, delta, a.Exp)
	if err != nil {
		return false, err
	}
	if types.IsStruct(lhsType) || types.IsFn(lhsType) || types.IsNil(lhsType) {
		return false, typeErrorf("invalid type %s for left-hand side of assignment '%s = %s'",
			types.Render(lhsType), render.Node(a.Place), render.Node(a.Exp))
	}
	if !types.Eq(lhsType, rhsType) {
		return false, typeErrorf("incompatible types %s vs %s for assignment '%s = %s'",
			types.Render(lhsType), types.Render(rhsType), render.Node(a.Place), render.Node(a.Exp))
	}
	return false, nil
}

func checkIf(env *Environment, delta Delta, retType types.Type, inLoop bool, i *ast.If) (bool, error) {
	guardType, err := checkExp(env, delta, i.Guard)
	if err != nil {
		return false, err
	}
	if !types.Eq(guardType, types.Int{}) {
		return false, typeErrorf("non-int type %s for if guard '%s'", types.Render(guardType), render.Node(i.Guard))
	}
	thenReturns, err := checkStmt(env, delta, retType, inLoop, i.Then)
	if err != nil {
		return false, err
	}
	elseReturns := false
	if i.Else != nil {
		elseReturns, err = checkStmt(env, delta, retType, inLoop, i.Else)
		if err != nil {
			return false, err
		}
	}
	return thenReturns && elseReturns, nil
}

// checkWhile checks the body with inLoop forced true; the loop itself
// never definitely returns because the body might not execute.
func checkWhile(env *Environment, delta Delta, retType types.Type, w *ast.While) (bool, error) {
	guardType, err := checkExp(env, delta, w.Guard)
	if err != nil {
		return false, err
	}
	if !types.Eq(guardType, types.Int{}) {
		return false, typeErrorf("non-int type %s for while guard '%s'", types.Render(guardType), render.Node(w.Guard))
	}
	if _, err := checkStmt(env, delta, retType, true, w.Body); err != nil {
		return false, err
	}
	return false, nil
}

func checkReturn(env *Environment, delta Delta, retType types.Type, r *ast.Return) (bool, error) {
	if r.Exp == nil {
		return false, typeErrorf("return statement requires an expression in this function")
	}
	expType, err := checkExp(env, delta, r.Exp)
	if err != nil {
		return false, err
	}
	if !types.Eq(expType, retType) {
		return false, typeErrorf("incompatible return type %s for 'return %s', should be %s",
			types.Render(expType), render.Node(r.Exp), types.Render(retType))
	}
	return true, nil
}
