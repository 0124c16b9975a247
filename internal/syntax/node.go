package syntax

// Node is one parsed grammar-rule instance.
// Line is 1-based; Col is 0-based. Line == 0 means the parser supplied no position.
type Node struct {
	Tag      Tag     `msgpack:"t"`
	Text     string  `msgpack:"x,omitempty"`
	Line     uint32  `msgpack:"l,omitempty"`
	Col      uint32  `msgpack:"c,omitempty"`
	Children []*Node `msgpack:"k,omitempty"`
}

// New builds a node with the tag's default text.
func New(tag Tag, children ...*Node) *Node {
	return &Node{Tag: tag, Text: tag.DefaultText(), Children: children}
}

// Leaf builds a childless node carrying text.
func Leaf(tag Tag, text string) *Node {
	return &Node{Tag: tag, Text: text}
}

// At sets the position and returns n.
func (n *Node) At(line, col uint32) *Node {
	n.Line, n.Col = line, col
	return n
}

// Child returns the i-th child or nil.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// HasPos reports whether the node carries a source position.
func (n *Node) HasPos() bool { return n != nil && n.Line > 0 }

// Walk visits n and its descendants in pre-order; returning false skips children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Count returns the number of nodes in the subtree.
func (n *Node) Count() int {
	total := 0
	n.Walk(func(*Node) bool { total++; return true })
	return total
}
