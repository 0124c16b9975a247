package scope

import (
	"fmt"

	"plexilc/internal/ast"
	"plexilc/internal/diag"
)

func (t *Table) namespace(c DeclCategory) map[string]ast.DeclID {
	switch c {
	case DeclCommand:
		return t.commands
	case DeclState:
		return t.states
	default:
		return t.libraries
	}
}

// Declare records a global declaration. An identical redeclaration is a WARNING,
// a conflicting one an ERROR; in both cases the first declaration wins.
func (t *Table) Declare(d Decl, nameNode ast.NodeID) ast.DeclID {
	ns := t.namespace(d.Category)
	if prev, ok := ns[d.Name]; ok {
		prevDecl := t.Decl(prev)
		note := fmt.Sprintf("%s %q previously declared here", d.Category, d.Name)
		if t.sameSignature(prevDecl, &d) {
			t.report(diag.SevWarning, diag.DeclDuplicateGlobal, nameNode,
				fmt.Sprintf("%s %q is already declared", d.Category, d.Name)).
				WithNote(t.at(prevDecl.Node), note).Emit()
		} else {
			t.report(diag.SevError, diag.DeclConflictingGlobal, nameNode,
				fmt.Sprintf("%s %q is redeclared with a different signature", d.Category, d.Name)).
				WithNote(t.at(prevDecl.Node), note).Emit()
		}
		return prev
	}
	id := t.Decls.New(d)
	ns[d.Name] = id
	t.order = append(t.order, id)
	return id
}

func (t *Table) DeclareCommand(d Decl, nameNode ast.NodeID) ast.DeclID {
	d.Category = DeclCommand
	return t.Declare(d, nameNode)
}

func (t *Table) DeclareState(d Decl, nameNode ast.NodeID) ast.DeclID {
	d.Category = DeclState
	return t.Declare(d, nameNode)
}

func (t *Table) DeclareLibrary(d Decl, nameNode ast.NodeID) ast.DeclID {
	d.Category = DeclLibrary
	return t.Declare(d, nameNode)
}

func (t *Table) LookupCommand(name string) ast.DeclID { return t.commands[name] }
func (t *Table) LookupState(name string) ast.DeclID   { return t.states[name] }
func (t *Table) LookupLibrary(name string) ast.DeclID { return t.libraries[name] }

// Declarations returns every accepted global declaration in source order.
func (t *Table) Declarations() []ast.DeclID { return t.order }

// ParamByName returns the parameter of d named name.
func (t *Table) ParamByName(d *Decl, name string) ast.VarID {
	for _, p := range d.Params {
		if t.Var(p).Name == name {
			return p
		}
	}
	return ast.NoVarID
}

func (t *Table) sameSignature(a, b *Decl) bool {
	if a.Wildcard != b.Wildcard || len(a.Params) != len(b.Params) {
		return false
	}
	if !t.sameVar(a.Return, b.Return, false) {
		return false
	}
	for i := range a.Params {
		if !t.sameVar(a.Params[i], b.Params[i], a.Category == DeclLibrary) {
			return false
		}
	}
	return true
}

func (t *Table) sameVar(a, b ast.VarID, byName bool) bool {
	va, vb := t.Var(a), t.Var(b)
	if va == nil || vb == nil {
		return va == nil && vb == nil
	}
	if va.Type != vb.Type || va.MaxSize != vb.MaxSize || va.Kind != vb.Kind {
		return false
	}
	return !byName || va.Name == vb.Name
}
