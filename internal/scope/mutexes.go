package scope

import (
	"fmt"

	"plexilc/internal/ast"
	"plexilc/internal/diag"
)

// AddMutex declares name in scope. Redeclaring in the Global Table is a WARNING,
// in a node an ERROR; both carry a NOTE at the first declaration, which is kept.
func (t *Table) AddMutex(scope ast.ScopeID, name string, nameNode ast.NodeID) ast.MutexID {
	s := t.Scope(scope)
	if s == nil {
		return ast.NoMutexID
	}
	if prev := t.LocalMutex(scope, name); prev.IsValid() {
		sev, code := diag.SevError, diag.DeclDuplicateMutex
		if s.Global {
			sev, code = diag.SevWarning, diag.DeclMutexRedeclared
		}
		t.report(sev, code, nameNode, fmt.Sprintf("Mutex %q is already declared", name)).
			WithNote(t.at(t.Mutex(prev).Decl), fmt.Sprintf("Mutex %q previously declared here", name)).
			Emit()
		return prev
	}
	id := t.Mutexes.New(Mutex{Name: name, Decl: nameNode, Scope: scope})
	s.Mutexes = append(s.Mutexes, id)
	return id
}

// LocalMutex finds name among the mutexes declared in scope itself.
func (t *Table) LocalMutex(scope ast.ScopeID, name string) ast.MutexID {
	s := t.Scope(scope)
	if s == nil {
		return ast.NoMutexID
	}
	for _, id := range s.Mutexes {
		if t.Mutex(id).Name == name {
			return id
		}
	}
	return ast.NoMutexID
}

// GetMutex resolves name from scope up to and including the Global Table.
func (t *Table) GetMutex(scope ast.ScopeID, name string) ast.MutexID {
	for s := scope; s.IsValid(); s = t.Scope(s).Parent {
		if id := t.LocalMutex(s, name); id.IsValid() {
			return id
		}
	}
	return ast.NoMutexID
}

// ContextUsing returns the scope, from scope upwards, whose node already uses m.
// The search stops below the Global Table.
func (t *Table) ContextUsing(scope ast.ScopeID, m ast.MutexID) ast.ScopeID {
	for id := scope; id.IsValid(); {
		s := t.Scope(id)
		if s.Global {
			return ast.NoScopeID
		}
		for _, u := range s.Using {
			if u == m {
				return id
			}
		}
		id = s.Parent
	}
	return ast.NoScopeID
}

// UseMutex resolves name and records its use by scope.
// Undeclared, already used here and already used by an ancestor are ERRORs.
func (t *Table) UseMutex(scope ast.ScopeID, name string, nameNode ast.NodeID) ast.MutexID {
	m := t.GetMutex(scope, name)
	if !m.IsValid() {
		t.report(diag.SevError, diag.ResUndeclaredMutex, nameNode,
			fmt.Sprintf("Mutex %q is not declared", name)).Emit()
		return ast.NoMutexID
	}
	if user := t.ContextUsing(scope, m); user.IsValid() {
		if user == scope {
			t.report(diag.SevError, diag.ResMutexInUse, nameNode,
				fmt.Sprintf("Mutex %q is already used by this node", name)).Emit()
		} else {
			t.report(diag.SevError, diag.ResMutexInUseByAncestor, nameNode,
				fmt.Sprintf("Mutex %q is already used by ancestor node %s", name, t.Scope(user).NodeName)).Emit()
		}
		return m
	}
	t.AddUsing(scope, m)
	return m
}

// AddUsing records that the node of scope uses m.
func (t *Table) AddUsing(scope ast.ScopeID, m ast.MutexID) {
	if s := t.Scope(scope); s != nil {
		s.Using = append(s.Using, m)
	}
}
