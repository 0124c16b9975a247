package scope

import (
	"fmt"

	"plexilc/internal/ast"
	"plexilc/internal/diag"
)

// AddChildID registers a child node id in scope. Reuse is an ERROR with a NOTE
// at the earlier use; the first registration is kept.
func (t *Table) AddChildID(scope ast.ScopeID, name string, nameNode ast.NodeID) bool {
	s := t.Scope(scope)
	if s == nil || name == "" {
		return false
	}
	if prev, dup := s.childIDs[name]; dup {
		t.report(diag.SevError, diag.DeclDuplicateNodeID, nameNode,
			fmt.Sprintf("Node ID %q is already used in this context", name)).
			WithNote(t.at(prev), fmt.Sprintf("Node ID %q previously used here", name)).
			Emit()
		return false
	}
	s.childIDs[name] = nameNode
	s.childOrder = append(s.childOrder, name)
	return true
}

// ChildIDNode returns the node that registered name in scope.
func (t *Table) ChildIDNode(scope ast.ScopeID, name string) ast.NodeID {
	if s := t.Scope(scope); s != nil {
		return s.childIDs[name]
	}
	return ast.NoNodeID
}

func (t *Table) IsChildID(scope ast.ScopeID, name string) bool {
	s := t.Scope(scope)
	if s == nil || name == "" {
		return false
	}
	_, ok := s.childIDs[name]
	return ok
}

func (t *Table) IsLocalID(scope ast.ScopeID, name string) bool {
	s := t.Scope(scope)
	if s == nil || name == "" {
		return false
	}
	if name == s.NodeName {
		return true
	}
	return t.IsChildID(scope, name)
}

func (t *Table) IsSiblingID(scope ast.ScopeID, name string) bool {
	s := t.Scope(scope)
	if s == nil {
		return false
	}
	return t.IsChildID(s.Parent, name)
}

func (t *Table) IsAncestorID(scope ast.ScopeID, name string) bool {
	return t.ancestorScope(scope, name).IsValid()
}

func (t *Table) ancestorScope(scope ast.ScopeID, name string) ast.ScopeID {
	s := t.Scope(scope)
	if s == nil {
		return ast.NoScopeID
	}
	for p := s.Parent; p.IsValid(); p = t.Scope(p).Parent {
		if t.Scope(p).NodeName == name {
			return p
		}
	}
	return ast.NoScopeID
}

func (t *Table) childScope(scope ast.ScopeID, name string) ast.ScopeID {
	s := t.Scope(scope)
	if s == nil {
		return ast.NoScopeID
	}
	for _, c := range s.Children {
		if t.Scope(c).NodeName == name {
			return c
		}
	}
	return ast.NoScopeID
}

// IsNodeIDReachable reports whether a node reference to name resolves from scope:
// the id is local to scope or to any ancestor scope.
func (t *Table) IsNodeIDReachable(scope ast.ScopeID, name string) bool {
	for s := scope; s.IsValid(); s = t.Scope(s).Parent {
		if t.IsLocalID(s, name) {
			return true
		}
	}
	return false
}

// IsNodeIDUnique reports whether a node reference to name from scope is unambiguous
// among the node itself, its ancestors, its children and its siblings.
func (t *Table) IsNodeIDUnique(scope ast.ScopeID, name string) bool {
	s := t.Scope(scope)
	if s == nil {
		return true
	}
	var found ast.ScopeID
	self := false
	if name == s.NodeName {
		found = scope
		self = true
	}
	if t.IsAncestorID(scope, name) {
		if found.IsValid() {
			return false
		}
		found = t.ancestorScope(scope, name)
	}
	if t.IsChildID(scope, name) {
		if found.IsValid() {
			return false
		}
		// NoScopeID when the child owns no scope, e.g. an Assignment
		found = t.childScope(scope, name)
	}
	if t.IsSiblingID(scope, name) && found.IsValid() && !self {
		return false
	}
	return true
}
