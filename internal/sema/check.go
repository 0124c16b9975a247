package sema

import (
	"plexilc/internal/ast"
	"plexilc/internal/diag"
	"plexilc/internal/scope"
	"plexilc/internal/syntax"
	"plexilc/internal/types"
)

// Check walks the tree bottom-up so every child's type is final before its
// parent's constraints are checked.
func Check(u *Unit) {
	u.check(u.Tree.Root)
}

func (u *Unit) check(id ast.NodeID) {
	n := u.node(id)
	if n == nil || u.stopped {
		return
	}
	for _, c := range n.Children {
		u.check(c)
		if u.stopped {
			return
		}
	}
	switch n.Kind {
	case ast.KindPlan, ast.KindGlobalDecls, ast.KindCommandDecl, ast.KindStateDecl, ast.KindMutexDecl,
		ast.KindReturnSpec, ast.KindParameters, ast.KindParamSpec, ast.KindArrayParamSpec, ast.KindWildcard,
		ast.KindLibraryInterface, ast.KindLibraryParam, ast.KindInitialValue, ast.KindTypeName, ast.KindName,
		ast.KindAction, ast.KindComment, ast.KindInterfaceDecl, ast.KindVarDecls, ast.KindUsing,
		ast.KindResourceOption, ast.KindPriority, ast.KindCommandName, ast.KindArgumentList, ast.KindAliases,
		ast.KindAlias, ast.KindPair, ast.KindChecked, ast.KindElseIf, ast.KindElse,
		ast.KindIntLiteral, ast.KindRealLiteral, ast.KindBoolLiteral, ast.KindStringLiteral,
		ast.KindDateLiteral, ast.KindDurationLiteral, ast.KindInternalLiteral, ast.KindArrayLiteral,
		ast.KindVariableRef, ast.KindStateName, ast.KindTimepointKeyword:
		// typed during early binding or checked by the parent
	case ast.KindLibraryDecl:
		u.checkLibraryDecl(id)
	case ast.KindBlock:
		u.checkBlock(id)
	case ast.KindVarDecl, ast.KindArrayVarDecl:
		u.checkVarDecl(id)
	case ast.KindCondition:
		u.checkBoolean(u.child(id, 0), "%s expression is not Boolean", u.label(id))
	case ast.KindResource:
		u.checkResource(id)
	case ast.KindAssignment:
		u.checkAssignment(id)
	case ast.KindCommand:
		u.checkCommand(id)
	case ast.KindLibraryCall:
		u.checkLibraryCall(id)
	case ast.KindUpdate:
		u.checkUpdate(id)
	case ast.KindWait:
		u.checkTimeout(id, "Wait", u.child(id, 0), u.child(id, 1))
	case ast.KindSyncCommand:
		_, timeout, tolerance := u.SyncOptions(id)
		u.checkTimeout(id, "SynchronousCommand", timeout, tolerance)
	case ast.KindIf:
		u.checkIf(id)
	case ast.KindWhile:
		u.checkBoolean(u.child(id, 0), "While condition is not a Boolean expression")
	case ast.KindFor:
		u.checkFor(id)
	case ast.KindOnCommand:
		if !u.assume(u.child(id, 0), types.String) {
			u.errorf(diag.TypeMismatch, u.child(id, 0), "OnCommand name is not a String expression")
		}
	case ast.KindOnMessage:
		if !u.assume(u.child(id, 0), types.String) {
			u.errorf(diag.TypeMismatch, u.child(id, 0), "OnMessage name is not a String expression")
		}
	case ast.KindArrayRef:
		u.checkArrayRef(id)
	case ast.KindArith:
		u.checkArith(id)
	case ast.KindNegate:
		u.checkNegate(id)
	case ast.KindFunction:
		u.checkFunction(id)
	case ast.KindCompare:
		u.checkCompare(id)
	case ast.KindLogical, ast.KindNot:
		u.checkLogical(id)
	case ast.KindLookup:
		u.checkLookup(id)
	case ast.KindNodeVar, ast.KindTimepoint:
		u.checkNodeRef(u.child(id, 0))
	case ast.KindNodeRef:
		// resolved by its NodeVar or Timepoint
	default:
		u.fatalf(diag.InternalUnhandledKind, id, "Checking does not handle node kind %s", n.Kind)
	}
}

func (u *Unit) checkBoolean(id ast.NodeID, format string, args ...interface{}) {
	if id == ast.NoNodeID {
		return
	}
	if !u.assume(id, types.Boolean) {
		u.errorf(diag.TypeConditionNotBoolean, id, format, args...)
	}
}

// BodyActions returns the child nodes of a block.
func (u *Unit) BodyActions(block ast.NodeID) []ast.NodeID {
	var out []ast.NodeID
	for _, c := range u.children(block) {
		if u.kind(c) == ast.KindAction {
			out = append(out, c)
		}
	}
	return out
}

// IsCommandNode reports a block whose only child node is a command.
func (u *Unit) IsCommandNode(block ast.NodeID) bool {
	actions := u.BodyActions(block)
	if len(actions) != 1 {
		return false
	}
	return u.NodeType(u.Body(actions[0])) == "Command"
}

// checkBlock rejects repeated conditions and misplaced resources.
func (u *Unit) checkBlock(id ast.NodeID) {
	name := u.nodeName(id)
	seen := make(map[syntax.Tag]bool)
	var resource ast.NodeID
	for _, c := range u.children(id) {
		switch u.kind(c) {
		case ast.KindCondition:
			if seen[u.tag(c)] {
				u.errorf(diag.StructDuplicateCondition, c, "In node %s: Multiple %q conditions specified", name, u.label(c))
			}
			seen[u.tag(c)] = true
		case ast.KindResource:
			if resource == ast.NoNodeID {
				resource = c
			}
		}
	}
	if resource != ast.NoNodeID && !u.IsCommandNode(id) {
		u.errorf(diag.StructResourceNotCommand, resource,
			"In node %s: The \"Resource\" keyword is only valid for Command actions", name)
	}
}

// checkVarDecl checks an initial value against its variable's declaration.
func (u *Unit) checkVarDecl(id ast.NodeID) {
	n := u.node(id)
	v := u.Table.Var(n.Var)
	if v == nil || v.Init == ast.NoNodeID {
		return
	}
	if !u.assume(v.Init, v.Type) {
		u.errorf(diag.DeclInitialValueType, v.Init,
			"Initial value for variable %q has type %s, but the variable is declared as %s", v.Name, u.typeOf(v.Init), v.Type)
		return
	}
	if v.IsArray() && v.MaxSize >= 0 {
		if size := u.node(v.Init).MaxSize; size > v.MaxSize {
			u.errorf(diag.DeclInitialValueSize, v.Init,
				"Initial value for array %q has %d elements, but its maximum size is %d", v.Name, size, v.MaxSize)
		}
	}
}

func (u *Unit) checkResource(id ast.NodeID) {
	name := u.child(id, 0)
	if !u.assume(name, types.String) {
		u.errorf(diag.TypeResource, name, "Resource name is not a String expression")
	}
	for _, opt := range u.children(id)[1:] {
		val := u.child(opt, 0)
		switch u.tag(opt) {
		case syntax.TagReleaseAtTermination:
			if !u.assume(val, types.Boolean) {
				u.errorf(diag.TypeResource, val, "Resource ReleaseAtTermination value is not a Boolean expression")
			}
		case syntax.TagUpperBound:
			if !u.assumeNumeric(val) {
				u.errorf(diag.TypeResource, val, "Resource UpperBound value is not a numeric expression")
			}
		case syntax.TagPriority:
			if !u.assumeNumeric(val) {
				u.errorf(diag.TypeResource, val, "Resource Priority value is not a numeric expression")
			}
		}
	}
}

// checkAssignment checks the right side against the left side's type and,
// for arrays, their maximum sizes.
func (u *Unit) checkAssignment(id ast.NodeID) {
	lhs, rhs := u.child(id, 0), u.child(id, 1)
	lt := u.typeOf(lhs)
	if lt == types.Error || u.typeOf(rhs) == types.Error {
		return
	}
	if u.typeOf(rhs).Kind == types.KindVoid {
		u.errorf(diag.TypeAssignVoid, rhs, "Expression or command has no return value")
		return
	}
	u.assume(rhs, lt)
	rt := u.typeOf(rhs)
	if !(lt == rt || (lt.Kind == types.KindReal && rt.IsArithmetic()) || lt.Kind == types.KindAny) {
		u.errorf(diag.TypeAssignMismatch, rhs, "Cannot assign expression of type %s to %q of type %s", rt, u.ExprText(lhs), lt)
		return
	}
	if lt.IsArray() {
		lmax, rmax := u.maxSizeOf(lhs), u.maxSizeOf(rhs)
		if lmax >= 0 && rmax >= 0 && lmax < rmax {
			u.errorf(diag.TypeArraySize, rhs, "Can't assign an array of max size %d to an array variable of max size %d", rmax, lmax)
		}
	}
}

// maxSizeOf is the declared maximum size behind an array-valued expression, -1 if unknown.
func (u *Unit) maxSizeOf(id ast.NodeID) int64 {
	n := u.node(id)
	switch n.Kind {
	case ast.KindVariableRef, ast.KindArrayLiteral, ast.KindLookup, ast.KindCommand:
		return n.MaxSize
	}
	return -1
}

// checkCommand checks a computed name and the argument types.
func (u *Unit) checkCommand(id ast.NodeID) {
	n := u.node(id)
	first := u.child(id, 0)
	if u.kind(first) != ast.KindCommandName {
		if !u.assume(first, types.String) {
			u.errorf(diag.TypeCommandName, first, "Command name expression is not a string expression")
		}
		return
	}
	d := u.Table.Decl(n.Decl)
	if d == nil {
		return
	}
	u.checkArgTypes(d, u.argsOf(id), func(i int, arg ast.NodeID, want types.Type) {
		u.errorf(diag.TypeArgumentType, arg, "Parameter %d of command %q has type %s, but expected %s",
			i, d.Name, u.typeOf(arg), want)
	})
}

// checkLibraryCall checks alias values against the library's parameter types.
func (u *Unit) checkLibraryCall(id ast.NodeID) {
	d := u.Table.Decl(u.node(id).Decl)
	if d == nil {
		return
	}
	for _, a := range u.children(u.child(id, 1)) {
		p := u.Table.Var(u.node(a).Var)
		if p == nil {
			continue
		}
		val := u.child(a, 1)
		if !u.assume(val, p.Type) {
			u.errorf(diag.TypeArgumentType, val, "Alias %q of library node %q has type %s, but the parameter is declared %s",
				p.Name, d.Name, u.typeOf(val), p.Type)
		}
	}
}

func (u *Unit) checkUpdate(id ast.NodeID) {
	for _, p := range u.children(id) {
		val := u.child(p, 1)
		switch t := u.typeOf(val); t.Kind {
		case types.KindVoid:
			u.errorf(diag.TypeAssignVoid, val, "Update value for %q has no value", u.text(u.child(p, 0)))
		case types.KindAny:
			u.warnf(diag.TypeAnyCoercion, val, "Update value for %q has unknown type", u.text(u.child(p, 0)))
		}
	}
}

// checkTimeout validates a Wait or SynchronousCommand timeout and tolerance.
// A tolerance must be a literal or a simple variable.
func (u *Unit) checkTimeout(id ast.NodeID, what string, timeout, tolerance ast.NodeID) {
	if timeout == ast.NoNodeID {
		return
	}
	tt := u.typeOf(timeout)
	if tt == types.Error {
		return
	}
	if types.ClassifyTimeout(tt) == types.TimeoutInvalid {
		if !(tt.Kind == types.KindAny && u.assume(timeout, types.Duration)) {
			u.errorf(diag.TypeTimeout, timeout, "The timeout argument to %s, %q, is not a Duration or number", what, u.ExprText(timeout))
			return
		}
		tt = u.typeOf(timeout)
	}
	if tolerance == ast.NoNodeID {
		return
	}
	want := "Real"
	if tt.Kind == types.KindDuration {
		want = "Duration"
	}
	k := u.kind(tolerance)
	simple := k.IsLiteral() || k == ast.KindVariableRef
	if k.IsLiteral() {
		target := types.Real
		if tt.Kind == types.KindDuration {
			target = types.Duration
		}
		u.assume(tolerance, target)
	}
	if !simple || !types.TimeoutCompatible(tt, u.typeOf(tolerance)) {
		u.errorf(diag.TypeTolerance, tolerance, "The tolerance argument to %s, %q, is not a %s value or variable.",
			what, u.ExprText(tolerance), want)
	}
}

func (u *Unit) checkIf(id ast.NodeID) {
	u.checkBoolean(u.child(id, 0), "If condition is not a Boolean expression")
	for _, c := range u.children(id) {
		if u.kind(c) == ast.KindElseIf {
			u.checkBoolean(u.child(c, 0), "ElseIf condition is not a Boolean expression")
		}
	}
}

func (u *Unit) checkFor(id ast.NodeID) {
	decl, cond, update := u.child(id, 0), u.child(id, 1), u.child(id, 2)
	u.checkBoolean(cond, "For loop condition is not a Boolean expression")
	v := u.Table.Var(u.node(decl).Var)
	if v == nil || v.Kind != scope.VarLoop {
		return
	}
	if !u.assume(update, v.Type) {
		u.errorf(diag.TypeMismatch, update, "For loop update expression has type %s, but the loop variable %q is %s",
			u.typeOf(update), v.Name, v.Type)
	}
}
