package scope

import (
	"fmt"

	"plexilc/internal/ast"
	"plexilc/internal/diag"
)

// DeclareVariable adds v to scope after checking the name against the scope:
// a duplicate is an ERROR with a NOTE at the earlier declaration and is not added;
// hiding an inherited variable is a WARNING.
func (t *Table) DeclareVariable(scope ast.ScopeID, v Var, nameNode ast.NodeID) ast.VarID {
	if !t.CheckVariableName(scope, v.Name, nameNode, true) {
		return ast.NoVarID
	}
	return t.addVar(scope, v)
}

// DeclareInterfaceVariable adds an In/InOut declaration; only local duplicates are checked.
func (t *Table) DeclareInterfaceVariable(scope ast.ScopeID, v Var, nameNode ast.NodeID) ast.VarID {
	if !t.CheckVariableName(scope, v.Name, nameNode, false) {
		return ast.NoVarID
	}
	return t.addVar(scope, v)
}

// CheckVariableName reports conflicts of name within scope and returns false on a duplicate.
func (t *Table) CheckVariableName(scope ast.ScopeID, name string, nameNode ast.NodeID, warnShadow bool) bool {
	ok := true
	if existing := t.FindLocal(scope, name); existing.IsValid() {
		t.report(diag.SevError, diag.DeclDuplicateVariable, nameNode,
			fmt.Sprintf("Variable name %q is already declared in this context", name)).
			WithNote(t.at(t.Var(existing).Decl), fmt.Sprintf("Variable %q previously declared here", name)).
			Emit()
		ok = false
	}
	if warnShadow && t.FindInherited(scope, name).IsValid() {
		t.report(diag.SevWarning, diag.DeclShadowedVariable, nameNode,
			fmt.Sprintf("Local variable %q shadows an inherited variable", name)).Emit()
	}
	return ok
}

func (t *Table) addVar(scope ast.ScopeID, v Var) ast.VarID {
	s := t.Scope(scope)
	if s == nil {
		return ast.NoVarID
	}
	v.Scope = scope
	id := t.Vars.New(v)
	s.Vars = append(s.Vars, id)
	return id
}

// NewParameter allocates a declaration parameter that belongs to no scope.
func (t *Table) NewParameter(v Var) ast.VarID {
	return t.Vars.New(v)
}

// FindLocal looks name up in scope only.
func (t *Table) FindLocal(scope ast.ScopeID, name string) ast.VarID {
	s := t.Scope(scope)
	if s == nil {
		return ast.NoVarID
	}
	for _, id := range s.Vars {
		if t.Var(id).Name == name {
			return id
		}
	}
	return ast.NoVarID
}

// FindInherited returns the nearest declaration of name in the ancestors of scope.
func (t *Table) FindInherited(scope ast.ScopeID, name string) ast.VarID {
	s := t.Scope(scope)
	if s == nil {
		return ast.NoVarID
	}
	for p := s.Parent; p.IsValid(); p = t.Scope(p).Parent {
		if id := t.FindLocal(p, name); id.IsValid() {
			return id
		}
	}
	return ast.NoVarID
}

// FindVariable resolves name from scope outwards.
func (t *Table) FindVariable(scope ast.ScopeID, name string) ast.VarID {
	if id := t.FindLocal(scope, name); id.IsValid() {
		return id
	}
	return t.FindInherited(scope, name)
}

// NodeVariables partitions the variables of scope into local, In and InOut lists.
func (t *Table) NodeVariables(scope ast.ScopeID) (local, in, inOut []ast.VarID) {
	s := t.Scope(scope)
	if s == nil {
		return nil, nil, nil
	}
	for _, id := range s.Vars {
		v := t.Var(id)
		switch {
		case v.IsLocal():
			local = append(local, id)
		case v.Kind == VarInOut:
			inOut = append(inOut, id)
		default:
			in = append(in, id)
		}
	}
	return local, in, inOut
}
