package sema

import (
	"plexilc/internal/ast"
	"plexilc/internal/diag"
)

// arity bounds the number of children of a kind. max < 0 is unbounded.
type arity struct{ min, max int }

var arities = map[ast.Kind]arity{
	ast.KindPlan:           {1, 2},
	ast.KindCommandDecl:    {1, 3},
	ast.KindStateDecl:      {1, 3},
	ast.KindLibraryDecl:    {1, 2},
	ast.KindMutexDecl:      {1, -1},
	ast.KindReturnSpec:     {0, 1},
	ast.KindArrayParamSpec: {2, 3},
	ast.KindLibraryParam:   {2, 4},
	ast.KindInitialValue:   {1, 1},

	ast.KindAction:         {1, 2},
	ast.KindComment:        {1, 1},
	ast.KindVarDecls:       {1, -1},
	ast.KindVarDecl:        {2, 3},
	ast.KindArrayVarDecl:   {3, 4},
	ast.KindUsing:          {1, -1},
	ast.KindCondition:      {1, 1},
	ast.KindResource:       {1, -1},
	ast.KindResourceOption: {1, 1},
	ast.KindPriority:       {1, 1},

	ast.KindAssignment:  {2, 2},
	ast.KindCommand:     {1, 2},
	ast.KindCommandName: {1, 1},
	ast.KindLibraryCall: {1, 2},
	ast.KindAlias:       {2, 2},
	ast.KindPair:        {2, 2},
	ast.KindWait:        {1, 2},
	ast.KindSyncCommand: {1, 4},
	ast.KindIf:          {2, -1},
	ast.KindElseIf:      {2, 2},
	ast.KindElse:        {1, 1},
	ast.KindWhile:       {2, 2},
	ast.KindFor:         {4, 4},
	ast.KindOnCommand:   {2, 3},
	ast.KindOnMessage:   {2, 2},

	ast.KindDateLiteral:     {1, 1},
	ast.KindDurationLiteral: {1, 1},
	ast.KindArrayRef:        {2, 2},
	ast.KindArith:           {2, 2},
	ast.KindNegate:          {1, 1},
	ast.KindFunction:        {1, 1},
	ast.KindCompare:         {2, 2},
	ast.KindLogical:         {2, -1},
	ast.KindNot:             {1, 1},
	ast.KindLookup:          {1, 3},
	ast.KindStateName:       {1, 1},
	ast.KindNodeVar:         {1, 1},
	ast.KindTimepoint:       {3, 3},
}

// actionSlot is the child index that must hold an Action; -1 is the last child.
var actionSlot = map[ast.Kind]int{
	ast.KindIf:        1,
	ast.KindElseIf:    1,
	ast.KindElse:      0,
	ast.KindWhile:     1,
	ast.KindFor:       3,
	ast.KindOnCommand: -1,
	ast.KindOnMessage: 1,
}

// checkShapes validates every node before binding starts and reports
// whether the tree is well formed.
func (u *Unit) checkShapes() bool {
	ok := true
	u.Tree.Walk(u.Tree.Root, func(id ast.NodeID) bool {
		if ok && !u.wellFormed(id) {
			ok = false
		}
		return ok
	})
	return ok
}

// wellFormed reports a FATAL when id does not have the shape its kind
// takes in the input grammar.
func (u *Unit) wellFormed(id ast.NodeID) bool {
	k := u.kind(id)
	got := u.Tree.ChildCount(id)
	if a, ok := arities[k]; ok && (got < a.min || (a.max >= 0 && got > a.max)) {
		switch {
		case a.max < 0:
			u.fatalf(diag.InternalMalformedTree, id, "%s node has %d children, expected at least %d", k, got, a.min)
		case a.min == a.max:
			u.fatalf(diag.InternalMalformedTree, id, "%s node has %d children, expected %d", k, got, a.min)
		default:
			u.fatalf(diag.InternalMalformedTree, id, "%s node has %d children, expected %d to %d", k, got, a.min, a.max)
		}
		return false
	}
	if slot, ok := actionSlot[k]; ok {
		if slot < 0 {
			slot = got - 1
		}
		if c := u.child(id, slot); u.kind(c) != ast.KindAction {
			u.fatalf(diag.InternalMalformedTree, id, "%s node expects an action at child %d, found %s", k, slot, u.kind(c))
			return false
		}
	}
	return true
}
