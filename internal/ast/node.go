package ast

import (
	"github.com/beevik/etree"

	"plexilc/internal/source"
	"plexilc/internal/syntax"
	"plexilc/internal/types"
)

// Flags carries per-node facts discovered during analysis.
type Flags uint8

const (
	// FlagAssignable marks expressions that may appear on the left of an assignment.
	FlagAssignable Flags = 1 << iota
	// FlagReadOnly marks references to In interface or loop variables.
	FlagReadOnly
	// FlagGenerated marks nodes synthesized after parsing.
	FlagGenerated
	// FlagPlanParam marks interface declarations that became plan parameters.
	FlagPlanParam
)

// Node is one AST node. Children keep source order.
type Node struct {
	Kind     Kind
	Tag      syntax.Tag
	Text     string
	Pos      source.Pos
	Parent   NodeID
	Children []NodeID

	Type  types.Type
	Scope ScopeID
	Var   VarID
	Decl  DeclID
	Mutex MutexID

	// NodeName is the node id of an Action, explicit or generated.
	NodeName string
	Explicit bool

	// LitValue is the canonical text of a literal as emitted.
	LitValue string
	// MaxSize of an array-typed declaration or literal, -1 when not applicable.
	MaxSize int64

	Rendered *etree.Element
	Flags    Flags
}

func (n *Node) Has(f Flags) bool { return n.Flags&f != 0 }
func (n *Node) Set(f Flags)      { n.Flags |= f }

// Tree owns every node of one compiled plan.
type Tree struct {
	File  source.FileID
	Nodes *Arena[Node]
	Root  NodeID
}

// NewTree creates an empty tree for file.
func NewTree(file source.FileID, capHint uint) *Tree {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Tree{File: file, Nodes: NewArena[Node](capHint)}
}

// New allocates a node and links it under parent.
func (t *Tree) New(kind Kind, tag syntax.Tag, text string, pos source.Pos, parent NodeID) NodeID {
	id := NodeID(t.Nodes.Allocate(Node{
		Kind:    kind,
		Tag:     tag,
		Text:    text,
		Pos:     pos,
		Parent:  parent,
		Type:    types.Invalid,
		MaxSize: -1,
	}))
	if p := t.Node(parent); p != nil {
		p.Children = append(p.Children, id)
	}
	return id
}

// Node returns the node for id or nil.
func (t *Tree) Node(id NodeID) *Node {
	return t.Nodes.Get(uint32(id))
}

// Len is the number of allocated nodes.
func (t *Tree) Len() int { return int(t.Nodes.Len()) }

// Kind returns the kind of id, KindInvalid for none.
func (t *Tree) Kind(id NodeID) Kind {
	if n := t.Node(id); n != nil {
		return n.Kind
	}
	return KindInvalid
}

// Child returns the i-th child of id or NoNodeID.
func (t *Tree) Child(id NodeID, i int) NodeID {
	n := t.Node(id)
	if n == nil || i < 0 || i >= len(n.Children) {
		return NoNodeID
	}
	return n.Children[i]
}

// ChildCount returns the number of children of id.
func (t *Tree) ChildCount(id NodeID) int {
	if n := t.Node(id); n != nil {
		return len(n.Children)
	}
	return 0
}

// Loc returns the source location of id; without a position only the file is set.
func (t *Tree) Loc(id NodeID) source.Location {
	n := t.Node(id)
	if n == nil {
		return source.Location{File: t.File}
	}
	return source.At(t.File, n.Pos)
}

// Walk visits id and its subtree in pre-order; returning false skips children.
func (t *Tree) Walk(id NodeID, fn func(NodeID) bool) {
	n := t.Node(id)
	if n == nil || !fn(id) {
		return
	}
	for _, c := range n.Children {
		t.Walk(c, fn)
	}
}

// Ancestor returns the nearest ancestor of id of the given kind.
func (t *Tree) Ancestor(id NodeID, kind Kind) NodeID {
	for n := t.Node(id); n != nil; n = t.Node(n.Parent) {
		if n.Parent != NoNodeID && t.Kind(n.Parent) == kind {
			return n.Parent
		}
	}
	return NoNodeID
}

// Invalidate drops memoized XML on id and its ancestors.
func (t *Tree) Invalidate(id NodeID) {
	for n := t.Node(id); n != nil; n = t.Node(n.Parent) {
		n.Rendered = nil
	}
}
