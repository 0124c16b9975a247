// Package rewrite simplifies a checked tree before emission: nested chains
// of one associative operator become a single n-ary node and double
// negations disappear.
package rewrite

import (
	"plexilc/internal/ast"
	"plexilc/internal/diag"
	"plexilc/internal/syntax"
	"plexilc/internal/types"
)

// Stats counts the rewrites applied to one tree.
type Stats struct {
	Flattened int
	Negations int
}

// Total is the number of rewrites of any kind.
func (s Stats) Total() int { return s.Flattened + s.Negations }

// Run rewrites tree in place. A bag holding an ERROR leaves it untouched.
func Run(tree *ast.Tree, bag *diag.Bag) Stats {
	if bag != nil && bag.HasErrors() {
		return Stats{}
	}
	r := rewriter{tree: tree}
	r.visit(tree.Root)
	return r.stats
}

type rewriter struct {
	tree  *ast.Tree
	stats Stats
}

func (r *rewriter) visit(id ast.NodeID) {
	n := r.tree.Node(id)
	if n == nil {
		return
	}
	for _, c := range n.Children {
		r.visit(c)
	}
	changed := r.foldNegations(n)
	if associative(n) && r.flatten(id, n) {
		changed = true
	}
	if changed {
		r.tree.Invalidate(id)
	}
}

// associative reports AND, OR, ADD, MUL and Concat nodes.
func associative(n *ast.Node) bool {
	switch n.Kind {
	case ast.KindLogical:
		return n.Tag == syntax.TagAnd || n.Tag == syntax.TagOr
	case ast.KindArith:
		return n.Tag == syntax.TagPlus || n.Tag == syntax.TagAsterisk
	}
	return false
}

// sameChain reports whether child continues parent's chain. Addition and
// string concatenation share a tag and are kept apart.
func sameChain(parent, child *ast.Node) bool {
	if child.Kind != parent.Kind || child.Tag != parent.Tag {
		return false
	}
	if parent.Kind == ast.KindArith {
		return (parent.Type.Kind == types.KindString) == (child.Type.Kind == types.KindString)
	}
	return true
}

// flatten splices the operands of same-operator children into n.
func (r *rewriter) flatten(id ast.NodeID, n *ast.Node) bool {
	var out []ast.NodeID
	spliced := false
	for _, c := range n.Children {
		cn := r.tree.Node(c)
		if cn == nil || !sameChain(n, cn) {
			out = append(out, c)
			continue
		}
		for _, g := range cn.Children {
			r.tree.Node(g).Parent = id
			out = append(out, g)
		}
		cn.Children = nil
		spliced = true
		r.stats.Flattened++
	}
	if spliced {
		n.Children = out
	}
	return spliced
}

// foldNegations replaces each child of the form NOT(NOT(x)) with x.
func (r *rewriter) foldNegations(n *ast.Node) bool {
	changed := false
	for i, c := range n.Children {
		for {
			inner, ok := r.doubleNegation(c)
			if !ok {
				break
			}
			r.tree.Node(inner).Parent = r.tree.Node(c).Parent
			c = inner
			n.Children[i] = c
			changed = true
			r.stats.Negations++
		}
	}
	return changed
}

func (r *rewriter) doubleNegation(id ast.NodeID) (ast.NodeID, bool) {
	if r.tree.Kind(id) != ast.KindNot {
		return ast.NoNodeID, false
	}
	inner := r.tree.Child(id, 0)
	if r.tree.Kind(inner) != ast.KindNot {
		return ast.NoNodeID, false
	}
	x := r.tree.Child(inner, 0)
	return x, x != ast.NoNodeID
}
