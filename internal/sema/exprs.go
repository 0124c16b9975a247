package sema

import (
	"fmt"
	"strconv"
	"strings"

	"plexilc/internal/ast"
	"plexilc/internal/diag"
	"plexilc/internal/scope"
	"plexilc/internal/syntax"
	"plexilc/internal/types"
)

// bindArrayLiteral infers the element type as the join of the element types.
func (u *Unit) bindArrayLiteral(id ast.NodeID, sc ast.ScopeID) {
	n := u.node(id)
	u.bindChildren(id, sc)
	n.MaxSize = int64(len(n.Children))
	elem := types.Any
	bits := true
	for _, e := range n.Children {
		k := u.kind(e)
		if !k.IsLiteral() || k == ast.KindArrayLiteral {
			u.errorf(diag.TypeArrayElement, e, "Array literal element %s is not a scalar literal", u.ExprText(e))
			n.Type = types.UnknownArray
			return
		}
		et := u.typeOf(e)
		isBit := k == ast.KindIntLiteral && (u.node(e).LitValue == "0" || u.node(e).LitValue == "1")
		j, ok := types.Join(elem, et)
		switch {
		case ok:
		case elem.Kind == types.KindBoolean && isBit:
			j, ok = types.Boolean, true
		case elem.Kind == types.KindInteger && et.Kind == types.KindBoolean && bits:
			j, ok = types.Boolean, true
		}
		if !ok {
			u.errorf(diag.TypeArrayElement, e, "Element of %s array literal has inconsistent type %s", elem, et)
			n.Type = types.UnknownArray
			return
		}
		if et.Kind == types.KindInteger && !isBit {
			bits = false
		}
		elem = j
	}
	for _, e := range n.Children {
		u.assume(e, elem)
	}
	n.Type = types.ArrayOf(elem)
}

// bindVariableRef resolves a name through the scope chain.
func (u *Unit) bindVariableRef(id ast.NodeID, sc ast.ScopeID) {
	n := u.node(id)
	v := u.Table.FindVariable(sc, n.Text)
	if !v.IsValid() {
		u.errorf(diag.ResUndeclaredVariable, id, "Variable %q is not declared", n.Text)
		n.Type = types.Error
		return
	}
	vr := u.Table.Var(v)
	n.Var, n.Type, n.MaxSize = v, vr.Type, vr.MaxSize
	if vr.IsAssignable() {
		n.Set(ast.FlagAssignable)
	} else {
		n.Set(ast.FlagReadOnly)
	}
}

// bindLookup resolves a literal state name and checks the argument count.
// An undeclared state is a WARNING and the lookup stays untyped.
func (u *Unit) bindLookup(id ast.NodeID, sc ast.ScopeID) {
	if !u.need(id, 1) {
		return
	}
	n := u.node(id)
	u.bindChildren(id, sc)
	n.Type = types.Any
	first := n.Children[0]
	if u.kind(first) != ast.KindStateName {
		return
	}
	name := u.text(u.child(first, 0))
	d := u.Table.LookupState(name)
	if !d.IsValid() {
		u.warnf(diag.ResUndeclaredState, first, "State name %q has not been declared", name)
		return
	}
	n.Decl = d
	decl := u.Table.Decl(d)
	if r := u.Table.Var(decl.Return); r != nil {
		n.Type, n.MaxSize = r.Type, r.MaxSize
	}
	u.checkArgCount(id, decl, u.argsOf(id))
}

// LookupTolerance returns the tolerance expression of a lookup, if any.
func (u *Unit) LookupTolerance(id ast.NodeID) ast.NodeID {
	for i, c := range u.children(id) {
		if i > 0 && u.kind(c) != ast.KindArgumentList {
			return c
		}
	}
	return ast.NoNodeID
}

var nodeVarTypes = map[syntax.Tag]types.Type{
	syntax.TagNodeStateVariable:     types.NodeState,
	syntax.TagNodeOutcomeVariable:   types.NodeOutcome,
	syntax.TagNodeFailureVariable:   types.NodeFailure,
	syntax.TagCommandHandleVariable: types.CommandHandle,
}

func (u *Unit) bindNodeVar(id ast.NodeID, sc ast.ScopeID) {
	u.node(id).Type = nodeVarTypes[u.tag(id)]
	u.bindChildren(id, sc)
}

// checkNodeRef verifies that a named node reference resolves from its scope.
func (u *Unit) checkNodeRef(ref ast.NodeID) {
	n := u.node(ref)
	if n == nil || n.Tag != syntax.TagNCName {
		return
	}
	sc := u.node(n.Parent).Scope
	if !u.Table.IsNodeIDReachable(sc, n.Text) {
		u.errorf(diag.ResNodeUnreachable, ref, "Node %q is not reachable from here", n.Text)
		return
	}
	if !u.Table.IsNodeIDUnique(sc, n.Text) {
		u.errorf(diag.ResNodeAmbiguous, ref, "Node reference %q is ambiguous", n.Text)
	}
}

var arithOps = map[syntax.Tag]types.ArithOp{
	syntax.TagPlus:     types.OpAdd,
	syntax.TagMinus:    types.OpSub,
	syntax.TagAsterisk: types.OpMul,
	syntax.TagSlash:    types.OpDiv,
	syntax.TagPercent:  types.OpMod,
	syntax.TagMax:      types.OpMax,
	syntax.TagMin:      types.OpMin,
}

// checkArith folds the operand types left to right. Untyped operands adopt
// the type of the other side.
func (u *Unit) checkArith(id ast.NodeID) {
	n := u.node(id)
	op := arithOps[n.Tag]
	if !u.need(id, 2) {
		return
	}
	acc := u.typeOf(n.Children[0])
	for i, c := range n.Children[1:] {
		t := u.typeOf(c)
		if acc == types.Error || t == types.Error {
			n.Type = types.Error
			return
		}
		switch {
		case acc.Kind == types.KindAny && t.Kind != types.KindAny:
			if i == 0 && u.assume(n.Children[0], t) {
				acc = t
			}
		case t.Kind == types.KindAny && acc.Kind != types.KindAny:
			if u.assume(c, acc) {
				t = acc
			}
		}
		r, ok := types.ArithmeticResult(op, acc, t)
		if !ok {
			u.errorf(diag.TypeOperand, id, "Operands to the %s operator have inconsistent types", u.label(id))
			n.Type = types.Error
			return
		}
		acc = r
	}
	n.Type = acc
}

func (u *Unit) checkNegate(id ast.NodeID) {
	n := u.node(id)
	c := u.child(id, 0)
	t := u.typeOf(c)
	switch {
	case t == types.Error:
		n.Type = types.Error
	case t.Kind == types.KindAny:
		u.assume(c, types.Real)
		n.Type = u.typeOf(c)
	case t.IsArithmetic() || t.Kind == types.KindDuration:
		n.Type = t
	default:
		u.errorf(diag.TypeOperand, id, "The operand to the %s operator is not numeric", u.label(id))
		n.Type = types.Error
	}
}

// checkFunction types the one-operand built-in functions.
func (u *Unit) checkFunction(id ast.NodeID) {
	n := u.node(id)
	if !u.need(id, 1) {
		return
	}
	c := n.Children[0]
	t := u.typeOf(c)
	if t == types.Error {
		n.Type = types.Error
		return
	}
	fail := func(what string) {
		u.errorf(diag.TypeOperand, id, "The operand to the %s operator is not %s", u.label(id), what)
		n.Type = types.Error
	}
	switch n.Tag {
	case syntax.TagAbs:
		if t.Kind == types.KindDuration {
			n.Type = t
			return
		}
		if !u.assumeNumeric(c) {
			fail("numeric")
			return
		}
		n.Type = u.typeOf(c)
	case syntax.TagSqrt:
		if !u.assumeNumeric(c) {
			fail("numeric")
			return
		}
		n.Type = types.Real
	case syntax.TagCeil, syntax.TagFloor, syntax.TagRound, syntax.TagTrunc:
		if !u.assumeNumeric(c) {
			fail("numeric")
			return
		}
		n.Type = u.typeOf(c)
	case syntax.TagRealToInt:
		if !u.assumeNumeric(c) {
			fail("numeric")
			return
		}
		n.Type = types.Integer
	case syntax.TagStrlen:
		if !u.assume(c, types.String) {
			fail("a String")
			return
		}
		n.Type = types.Integer
	case syntax.TagIsKnown:
		if t.Kind == types.KindVoid {
			fail("a value")
			return
		}
		n.Type = types.Boolean
	case syntax.TagArraySize, syntax.TagArrayMaxSize, syntax.TagAllKnown, syntax.TagAnyKnown:
		if !t.IsArray() && t.Kind != types.KindAny {
			fail("an array")
			return
		}
		n.Type = types.Integer
		if n.Tag == syntax.TagAllKnown || n.Tag == syntax.TagAnyKnown {
			n.Type = types.Boolean
		}
	default:
		u.fatalf(diag.InternalUnhandledKind, id, "Unknown function %s", n.Tag)
	}
}

// CompareFamily returns the comparison family chosen for a Compare node.
func (u *Unit) CompareFamily(id ast.NodeID) types.Family {
	fam, _ := types.Comparable(u.typeOf(u.child(id, 0)), u.typeOf(u.child(id, 1)))
	return fam
}

func (u *Unit) checkCompare(id ast.NodeID) {
	n := u.node(id)
	n.Type = types.Boolean
	if !u.need(id, 2) {
		return
	}
	a, b := n.Children[0], n.Children[1]
	ta, tb := u.typeOf(a), u.typeOf(b)
	if ta == types.Error || tb == types.Error {
		return
	}
	switch {
	case ta.Kind == types.KindAny && tb.Kind != types.KindAny:
		u.assume(a, tb)
	case tb.Kind == types.KindAny && ta.Kind != types.KindAny:
		u.assume(b, ta)
	case ta.Kind == types.KindBoolean && tb.Kind == types.KindInteger:
		u.assume(b, types.Boolean)
	case tb.Kind == types.KindBoolean && ta.Kind == types.KindInteger:
		u.assume(a, types.Boolean)
	}
	ta, tb = u.typeOf(a), u.typeOf(b)
	if ta.Kind == types.KindAny && tb.Kind == types.KindAny {
		return
	}
	ok := false
	switch n.Tag {
	case syntax.TagEquals, syntax.TagNotEquals:
		_, ok = types.Comparable(ta, tb)
	default:
		ok = types.Ordered(ta, tb)
	}
	if !ok {
		u.errorf(diag.TypeComparison, id, "Operands to the %s operator have incomparable types %s and %s", u.label(id), ta, tb)
	}
}

func (u *Unit) checkLogical(id ast.NodeID) {
	n := u.node(id)
	n.Type = types.Boolean
	for _, c := range n.Children {
		if !u.assume(c, types.Boolean) {
			u.errorf(diag.TypeOperand, c, "Operand to the %s operator is not a Boolean expression", u.label(id))
		}
	}
}

// checkArrayRef requires an array operand and an Integer index.
func (u *Unit) checkArrayRef(id ast.NodeID) {
	n := u.node(id)
	if !u.need(id, 2) {
		return
	}
	base, idx := n.Children[0], n.Children[1]
	bt := u.typeOf(base)
	switch {
	case bt == types.Error:
		n.Type = types.Error
	case bt.Kind == types.KindAny || bt.Kind == types.KindUnknownArray:
		n.Type = types.Any
	case bt.Kind != types.KindArray:
		u.errorf(diag.TypeNotArray, base, "Array reference to non-array expression %s", u.ExprText(base))
		n.Type = types.Error
	default:
		n.Type = bt.ElemType()
	}
	if u.node(base).Has(ast.FlagAssignable) {
		n.Set(ast.FlagAssignable)
	}
	if !u.assume(idx, types.Integer) {
		u.errorf(diag.TypeIndex, idx, "Array index %s is not an Integer expression", u.ExprText(idx))
		return
	}
	if u.kind(idx) == ast.KindIntLiteral {
		i, _ := strconv.ParseInt(u.node(idx).LitValue, 10, 64)
		if size := u.node(base).MaxSize; i < 0 || (size >= 0 && i >= size) {
			u.errorf(diag.TypeIndex, idx, "Array index %d is out of bounds for %s", i, u.ExprText(base))
		}
	}
}

// checkLookup checks the state name, argument types and tolerance.
func (u *Unit) checkLookup(id ast.NodeID) {
	n := u.node(id)
	first := u.child(id, 0)
	if u.kind(first) != ast.KindStateName {
		if !u.assume(first, types.String) {
			u.errorf(diag.TypeMismatch, first, "State name expression is not a String expression")
		}
	}
	name := u.text(u.child(first, 0))
	if d := u.Table.Decl(n.Decl); d != nil {
		u.checkArgTypes(d, u.argsOf(id), func(i int, arg ast.NodeID, want types.Type) {
			u.errorf(diag.TypeArgumentType, arg, "Parameter %d to state %q has type %s, instead of expected type %s",
				i, name, u.typeOf(arg), want)
		})
	}
	if tol := u.LookupTolerance(id); tol != ast.NoNodeID {
		if n.Type.Kind == types.KindAny {
			u.assumeNumeric(tol)
		} else if !u.assume(tol, n.Type) {
			u.errorf(diag.TypeTolerance, tol, "Tolerance supplied for state %q has type %s, instead of state's return type %s",
				name, u.typeOf(tol), n.Type)
		}
	}
}

// checkArgTypes assumes each argument to its parameter's type; arguments
// matched by a wildcard are left alone.
func (u *Unit) checkArgTypes(d *scope.Decl, args []ast.NodeID, fail func(i int, arg ast.NodeID, want types.Type)) {
	for i, a := range args {
		if i >= len(d.Params) {
			return
		}
		p := u.Table.Var(d.Params[i])
		if !u.assume(a, p.Type) {
			fail(i+1, a, p.Type)
		}
	}
}

// ExprText renders an expression compactly for messages.
func (u *Unit) ExprText(id ast.NodeID) string {
	n := u.node(id)
	if n == nil {
		return ""
	}
	switch n.Kind {
	case ast.KindStringLiteral:
		return fmt.Sprintf("%q", n.LitValue)
	case ast.KindDateLiteral, ast.KindDurationLiteral:
		return fmt.Sprintf("%s(%q)", n.Tag.DefaultText(), n.LitValue)
	case ast.KindIntLiteral, ast.KindRealLiteral, ast.KindBoolLiteral, ast.KindInternalLiteral:
		if n.LitValue != "" {
			return n.LitValue
		}
		return n.Text
	case ast.KindVariableRef, ast.KindNodeRef:
		return u.label(id)
	case ast.KindArrayRef:
		return fmt.Sprintf("%s[%s]", u.ExprText(u.child(id, 0)), u.ExprText(u.child(id, 1)))
	case ast.KindArrayLiteral:
		return "#(" + u.joinExprs(n.Children, " ") + ")"
	case ast.KindArith, ast.KindCompare, ast.KindLogical:
		if n.Tag == syntax.TagMax || n.Tag == syntax.TagMin {
			return u.label(id) + "(" + u.joinExprs(n.Children, ", ") + ")"
		}
		return u.joinExprs(n.Children, " "+u.label(id)+" ")
	case ast.KindNegate, ast.KindNot:
		return u.label(id) + u.ExprText(u.child(id, 0))
	case ast.KindFunction:
		return u.label(id) + "(" + u.joinExprs(n.Children, ", ") + ")"
	case ast.KindLookup:
		return u.label(id) + "(" + u.joinExprs(u.children(id), ", ") + ")"
	case ast.KindStateName, ast.KindCommandName:
		return u.text(u.child(id, 0))
	case ast.KindArgumentList:
		return u.joinExprs(n.Children, ", ")
	case ast.KindCommand:
		return u.ExprText(u.child(id, 0)) + "(" + u.joinExprs(u.argsOf(id), ", ") + ")"
	case ast.KindNodeVar:
		return u.ExprText(u.child(id, 0)) + "." + u.label(id)
	case ast.KindTimepoint:
		return u.ExprText(u.child(id, 0)) + "." + u.ExprText(u.child(id, 1)) + "." + u.label(u.child(id, 2))
	}
	return u.label(id)
}

func (u *Unit) joinExprs(ids []ast.NodeID, sep string) string {
	parts := make([]string, 0, len(ids))
	for _, c := range ids {
		parts = append(parts, u.ExprText(c))
	}
	return strings.Join(parts, sep)
}
