package sema

import (
	"plexilc/internal/ast"
	"plexilc/internal/diag"
	"plexilc/internal/types"
)

// assume asks expression id to take type target. The node's type changes
// only on success. Untyped expressions adopt the target with a WARNING,
// except undeclared commands and states, which were already reported.
// Expressions already typed Error succeed silently to avoid cascades.
func (u *Unit) assume(id ast.NodeID, target types.Type) bool {
	n := u.node(id)
	if n == nil {
		return false
	}
	if n.Type == types.Error {
		return true
	}
	if n.Kind == ast.KindArrayLiteral && target.Kind == types.KindArray {
		return u.assumeArrayLiteral(id, target)
	}
	hint := types.NotLiteral
	switch {
	case n.Kind == ast.KindIntLiteral && (n.LitValue == "0" || n.LitValue == "1"):
		hint = types.LiteralBit
	case n.Kind.IsLiteral():
		hint = types.LiteralOther
	}
	t, outcome := types.Assume(u.typeOf(id), target, hint)
	switch outcome {
	case types.Internal:
		u.fatalf(diag.InternalBadTypeRequest, id, "Internal error: %s cannot be requested of %s", target, u.ExprText(id))
		return false
	case types.Failed:
		return false
	case types.AnyCoerced:
		if !u.undeclaredReference(id) {
			u.warnf(diag.TypeAnyCoercion, id, "Expression %s of unknown type is assumed to be %s", u.ExprText(id), target)
		}
	case types.Widened:
		if n.Kind == ast.KindIntLiteral && target.Kind == types.KindBoolean {
			n.LitValue = map[string]string{"0": "false", "1": "true"}[n.LitValue]
		}
	}
	n.Type = t
	return true
}

// undeclaredReference reports commands and lookups whose declaration is missing.
func (u *Unit) undeclaredReference(id ast.NodeID) bool {
	n := u.node(id)
	switch n.Kind {
	case ast.KindCommand, ast.KindLookup:
		return !n.Decl.IsValid()
	}
	return false
}

// assumeArrayLiteral coerces each element, reporting every element that fails.
func (u *Unit) assumeArrayLiteral(id ast.NodeID, target types.Type) bool {
	n := u.node(id)
	elem := target.ElemType()
	if elem.Kind == types.KindAny {
		return true
	}
	ok := true
	for i, e := range n.Children {
		if !u.assume(e, elem) {
			u.errorf(diag.TypeArrayElement, e, "Element %d of array literal has type %s, expected %s", i+1, u.typeOf(e), elem)
			ok = false
		}
	}
	if ok {
		n.Type = target
	}
	return ok
}

// assumeNumeric requires an arithmetic operand, giving untyped ones Real.
func (u *Unit) assumeNumeric(id ast.NodeID) bool {
	t := u.typeOf(id)
	switch {
	case t == types.Error || t.IsArithmetic():
		return true
	case t.Kind == types.KindAny:
		return u.assume(id, types.Real)
	}
	return false
}
