package syntax

import (
	"io"
	"strconv"
	"strings"
)

// Write renders n in the textual form accepted by Read, one node per line.
// Text equal to the tag's default is omitted.
func Write(w io.Writer, n *Node) error {
	var sb strings.Builder
	writeNode(&sb, n, 0)
	sb.WriteByte('\n')
	_, err := io.WriteString(w, sb.String())
	return err
}

// String renders n on a single line.
func (n *Node) String() string {
	var sb strings.Builder
	writeNode(&sb, n, -1)
	return sb.String()
}

func writeNode(sb *strings.Builder, n *Node, depth int) {
	if n == nil {
		return
	}
	sb.WriteByte('(')
	sb.WriteString(n.Tag.String())
	if n.Text != n.Tag.DefaultText() {
		sb.WriteByte('=')
		sb.WriteString(quoteText(n.Text))
	}
	if n.Line > 0 {
		sb.WriteByte('@')
		sb.WriteString(strconv.FormatUint(uint64(n.Line), 10))
		sb.WriteByte(':')
		sb.WriteString(strconv.FormatUint(uint64(n.Col), 10))
	}
	for _, child := range n.Children {
		if depth < 0 {
			sb.WriteByte(' ')
			writeNode(sb, child, -1)
			continue
		}
		sb.WriteByte('\n')
		sb.WriteString(strings.Repeat("  ", depth+1))
		writeNode(sb, child, depth+1)
	}
	sb.WriteByte(')')
}

func quoteText(s string) string {
	if s == "" {
		return `""`
	}
	for i := 0; i < len(s); i++ {
		if !isBareTextByte(s[i]) || s[i] == '\\' || s[i] >= 0x80 {
			return strconv.Quote(s)
		}
	}
	return s
}
