// Package render turns an AST node back into Cflat surface syntax, for use
// exclusively in diagnostic messages. It performs no checks and is total:
// every node in pkg/ast has a rendering. Precedence classes, lowest to
// highest: Select (ternary), BinOp (one flat class for every binary
// operator), unary prefix (-, not), postfix/call (.*, [..], .field, call),
// atoms (Id, Num, nil, new T, [T; n], wrapped place).
package render

import (
	"strconv"
	"strings"

	"cflat/checker-go/pkg/ast"
	"cflat/checker-go/pkg/types"
)

// Node renders any AST node, or a *ast.FunCall (which is not itself a Node,
// since CallExp and CallStmt share it rather than each defining their own
// callee+args shape), to its surface form.
func Node(n any) string {
	switch v := n.(type) {
	case ast.Place:
		return place(v)
	case ast.Exp:
		return exp(v)
	case *ast.FunCall:
		return funCall(v)
	default:
		return "<unrenderable>"
	}
}

func place(p ast.Place) string {
	switch v := p.(type) {
	case *ast.Id:
		return v.Name
	case *ast.Deref:
		return deref(v)
	case *ast.ArrayAccess:
		return arrayAccess(v)
	case *ast.FieldAccess:
		return fieldAccess(v)
	default:
		return "<unrenderable place>"
	}
}

func exp(e ast.Exp) string {
	switch v := e.(type) {
	case *ast.Val:
		return place(v.Place)
	case *ast.Num:
		return strconv.FormatInt(v.Value, 10)
	case *ast.NilExp:
		return "nil"
	case *ast.Select:
		return selectExp(v)
	case *ast.UnOp:
		return unOp(v)
	case *ast.BinOp:
		return binOp(v)
	case *ast.NewSingle:
		return "new " + types.Render(v.Type)
	case *ast.NewArray:
		return newArray(v)
	case *ast.CallExp:
		return funCall(v.Call)
	default:
		return "<unrenderable exp>"
	}
}

// isLowPrecedence holds for the two node kinds whose printed form can be
// ambiguous when nested directly inside another expression without
// parentheses: BinOp (flat precedence, so a nested BinOp under a unary
// prefix needs wrapping) and Select (lower precedence than everything).
func isLowPrecedence(e ast.Exp) bool {
	switch e.(type) {
	case *ast.BinOp, *ast.Select:
		return true
	default:
		return false
	}
}

// rewriteSelectOperand re-renders a BinOp with its left and/or right
// operand parenthesized if that operand is itself a bare Select. This is
// the "Select-inside-BinOp" rewrite applied where a BinOp is nested inside
// another construct (a Select's guard, a NewArray's size, an ArrayAccess's
// index, a BinOp's right operand): flattening "a ? b : c and d ? e : f"
// into one un-parenthesized BinOp would be ambiguous, so the offending
// Select child is wrapped.
func rewriteSelectOperand(b *ast.BinOp) string {
	left := exp(b.Left)
	right := exp(b.Right)
	if _, ok := b.Left.(*ast.Select); ok {
		left = "(" + left + ")"
	}
	if _, ok := b.Right.(*ast.Select); ok {
		right = "(" + right + ")"
	}
	return left + " " + b.Op.Symbol() + " " + right
}

func binOp(b *ast.BinOp) string {
	left := exp(b.Left)
	right := exp(b.Right)
	// A BinOp never wraps itself or a BinOp operand (one flat precedence
	// class), but a Select operand binds more loosely than any binary
	// operator, so it is parenthesized. A right operand that is itself a
	// BinOp with Select children is re-rendered with those Selects wrapped.
	if isSelect(b.Left) {
		left = "(" + left + ")"
	}
	if isSelect(b.Right) {
		right = "(" + right + ")"
	}
	if rb, ok := b.Right.(*ast.BinOp); ok {
		if isSelect(rb.Left) || isSelect(rb.Right) {
			right = rewriteSelectOperand(rb)
		}
	}
	return left + " " + b.Op.Symbol() + " " + right
}

func isSelect(e ast.Exp) bool {
	_, ok := e.(*ast.Select)
	return ok
}

func selectExp(s *ast.Select) string {
	guard := exp(s.Guard)
	if gb, ok := s.Guard.(*ast.BinOp); ok {
		if isSelect(gb.Left) || isSelect(gb.Right) {
			guard = rewriteSelectOperand(gb)
		}
	}
	tt := exp(s.Tt)
	if isSelect(s.Tt) {
		tt = "(" + tt + ")"
	}
	ff := exp(s.Ff)
	if isSelect(s.Ff) {
		ff = "(" + ff + ")"
	}
	return guard + " ? " + tt + " : " + ff
}

func unOp(u *ast.UnOp) string {
	var opStr string
	switch u.Op {
	case ast.Neg:
		opStr = "-"
	case ast.Not:
		opStr = "not "
	default:
		opStr = string(u.Op)
	}
	inner := exp(u.Exp)
	if isLowPrecedence(u.Exp) {
		return opStr + "(" + inner + ")"
	}
	return opStr + inner
}

func deref(d *ast.Deref) string {
	inner := exp(d.Exp)

	// Unwrap Val to see the underlying Place, if any, so we can detect
	// "dereferencing a whole ArrayAccess/FieldAccess" and show that the
	// dereference applies to the entire place rather than just its suffix.
	var underlyingPlace ast.Place
	if val, ok := d.Exp.(*ast.Val); ok {
		underlyingPlace = val.Place
	}

	needsParens := isLowPrecedence(d.Exp)
	if _, ok := d.Exp.(*ast.Val); ok {
		switch underlyingPlace.(type) {
		case *ast.ArrayAccess, *ast.FieldAccess:
			needsParens = true
		}
	}
	switch d.Exp.(type) {
	case *ast.NewArray, *ast.NewSingle:
		needsParens = true
	}

	if needsParens {
		return "(" + inner + ").*"
	}
	return inner + ".*"
}

func arrayAccess(a *ast.ArrayAccess) string {
	arr := exp(a.Array)
	if isSelect(a.Array) {
		arr = "(" + arr + ")"
	}
	idx := exp(a.Index)
	if ib, ok := a.Index.(*ast.BinOp); ok && isSelect(ib.Right) {
		idx = rewriteSelectOperand(ib)
	}
	return arr + "[" + idx + "]"
}

func fieldAccess(f *ast.FieldAccess) string {
	base := exp(f.Ptr)
	if isSelect(f.Ptr) {
		base = "(" + base + ")"
	}
	return base + "." + f.Field
}

func newArray(n *ast.NewArray) string {
	size := exp(n.Size)
	if sb, ok := n.Size.(*ast.BinOp); ok && (isSelect(sb.Left) || isSelect(sb.Right)) {
		size = rewriteSelectOperand(sb)
	}
	return "[" + types.Render(n.Type) + "; " + size + "]"
}

func funCall(c *ast.FunCall) string {
	callee := exp(c.Callee)
	if isLowPrecedence(c.Callee) {
		callee = "(" + callee + ")"
	}
	var args []string
	for _, a := range c.Args {
		args = append(args, exp(a))
	}
	return callee + "(" + strings.Join(args, ", ") + ")"
}
