package scope

import (
	"fmt"
	"strings"

	"github.com/xlab/treeprint"

	"plexilc/internal/ast"
)

// Dump renders the scope tree from the Global Table down, with each
// scope's variables, mutexes and used mutexes.
func (t *Table) Dump() string {
	root := treeprint.New()
	t.dumpScope(root, t.Global)
	for _, d := range t.order {
		decl := t.Decl(d)
		var params []string
		for _, p := range decl.Params {
			params = append(params, t.varLabel(p))
		}
		if decl.Wildcard {
			params = append(params, "...")
		}
		label := fmt.Sprintf("%s %s(%s)", decl.Category, decl.Name, strings.Join(params, ", "))
		if decl.Return.IsValid() {
			label += " -> " + t.Var(decl.Return).Type.String()
		}
		root.AddNode(label)
	}
	return root.String()
}

func (t *Table) dumpScope(parent treeprint.Tree, id ast.ScopeID) {
	s := t.Scope(id)
	name := s.NodeName
	if s.Global {
		name = "<global>"
	}
	branch := parent.AddBranch(name)
	for _, v := range s.Vars {
		branch.AddNode(t.varLabel(v))
	}
	for _, m := range s.Mutexes {
		branch.AddNode("mutex " + t.Mutex(m).Name)
	}
	for _, m := range s.Using {
		branch.AddNode("using " + t.Mutex(m).Name)
	}
	for _, c := range s.Children {
		t.dumpScope(branch, c)
	}
}

func (t *Table) varLabel(id ast.VarID) string {
	v := t.Var(id)
	label := v.Type.String() + " " + v.Name
	if v.Type.IsArray() {
		label = fmt.Sprintf("%s[%d]", label, v.MaxSize)
	}
	if v.Kind != VarLocal {
		label = v.Kind.String() + " " + label
	}
	return label
}
