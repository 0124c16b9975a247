package ast

import (
	"fmt"
	"strings"

	"github.com/xlab/treeprint"

	"plexilc/internal/types"
)

// Dump renders the subtree under id as an indented tree.
func (t *Tree) Dump(id NodeID) string {
	if t.Node(id) == nil {
		return ""
	}
	v := &dumpVisitor{tree: t, trees: []treeprint.Tree{treeprint.New()}}
	v.visit(id)
	return v.trees[0].String()
}

type dumpVisitor struct {
	tree  *Tree
	trees []treeprint.Tree
}

func (v *dumpVisitor) visit(id NodeID) {
	n := v.tree.Node(id)
	branch := v.trees[len(v.trees)-1].AddBranch(label(n))
	v.trees = append(v.trees, branch)
	for _, c := range n.Children {
		v.visit(c)
	}
	v.trees[len(v.trees)-1] = nil
	v.trees = v.trees[:len(v.trees)-1]
}

func label(n *Node) string {
	var sb strings.Builder
	sb.WriteString(n.Kind.String())
	if n.Text != "" && n.Text != n.Tag.DefaultText() {
		fmt.Fprintf(&sb, " %q", n.Text)
	} else if n.Kind == KindBlock || n.Kind == KindCondition || n.Kind == KindArith {
		sb.WriteString(" " + n.Tag.String())
	}
	if n.NodeName != "" {
		fmt.Fprintf(&sb, " id=%s", n.NodeName)
	}
	if n.Type != types.Invalid {
		fmt.Fprintf(&sb, " : %s", n.Type)
	}
	if n.Pos.IsValid() {
		fmt.Fprintf(&sb, " @%s", n.Pos)
	}
	return sb.String()
}
