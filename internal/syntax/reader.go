package syntax

import (
	"fmt"
	"strconv"
	"strings"

	"plexilc/internal/source"
)

// ReadError is a malformed tree-text error with its position in the input.
type ReadError struct {
	Line, Col uint32
	Msg       string
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

// cursor walks the textual tree form byte by byte, tracking line/column.
type cursor struct {
	src  []byte
	off  int
	line uint32
	col  uint32
}

func (c *cursor) eof() bool { return c.off >= len(c.src) }

func (c *cursor) peek() byte {
	if c.eof() {
		return 0
	}
	return c.src[c.off]
}

func (c *cursor) bump() byte {
	if c.eof() {
		return 0
	}
	b := c.src[c.off]
	c.off++
	if b == '\n' {
		c.line++
		c.col = 1
	} else {
		c.col++
	}
	return b
}

func (c *cursor) errorf(format string, args ...any) *ReadError {
	return &ReadError{Line: c.line, Col: c.col, Msg: fmt.Sprintf(format, args...)}
}

// skipTrivia skips whitespace and ';' line comments.
func (c *cursor) skipTrivia() {
	for !c.eof() {
		switch b := c.peek(); {
		case b == ';':
			for !c.eof() && c.peek() != '\n' {
				c.bump()
			}
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			c.bump()
		default:
			return
		}
	}
}

// Read parses one tree in textual form from a source file.
func Read(f *source.File) (*Node, error) {
	return ReadBytes(f.Content)
}

// ReadString parses one tree in textual form.
func ReadString(s string) (*Node, error) {
	return ReadBytes([]byte(s))
}

// ReadBytes parses exactly one tree; trailing non-trivia input is an error.
//
//	(TAG[=text][@line:col] child...)
func ReadBytes(src []byte) (*Node, error) {
	c := &cursor{src: src, line: 1, col: 1}
	c.skipTrivia()
	if c.eof() {
		return nil, c.errorf("empty input")
	}
	n, err := c.readNode()
	if err != nil {
		return nil, err
	}
	c.skipTrivia()
	if !c.eof() {
		return nil, c.errorf("unexpected %q after tree", c.peek())
	}
	return n, nil
}

func (c *cursor) readNode() (*Node, error) {
	if c.peek() != '(' {
		return nil, c.errorf("expected '(', found %q", c.peek())
	}
	c.bump()
	c.skipTrivia()

	name := c.scanWhile(isTagByte)
	if name == "" {
		return nil, c.errorf("missing tag")
	}
	tag, ok := ParseTag(name)
	if !ok {
		return nil, c.errorf("unknown tag %q", name)
	}
	n := &Node{Tag: tag, Text: tag.DefaultText()}

	if c.peek() == '=' {
		c.bump()
		text, err := c.readText()
		if err != nil {
			return nil, err
		}
		n.Text = text
	}
	if c.peek() == '@' {
		c.bump()
		if err := c.readPos(n); err != nil {
			return nil, err
		}
	}

	for {
		c.skipTrivia()
		switch c.peek() {
		case ')':
			c.bump()
			return n, nil
		case '(':
			child, err := c.readNode()
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
		case 0:
			if c.eof() {
				return nil, c.errorf("unterminated %s", tag)
			}
			return nil, c.errorf("unexpected NUL byte")
		default:
			return nil, c.errorf("unexpected %q in %s", c.peek(), tag)
		}
	}
}

func (c *cursor) readText() (string, error) {
	if c.peek() != '"' {
		text := c.scanWhile(isBareTextByte)
		if text == "" {
			return "", c.errorf("missing text after '='")
		}
		return text, nil
	}
	start := c.off
	c.bump()
	for {
		if c.eof() || c.peek() == '\n' {
			return "", c.errorf("unterminated quoted text")
		}
		b := c.bump()
		if b == '\\' {
			c.bump()
			continue
		}
		if b == '"' {
			break
		}
	}
	text, err := strconv.Unquote(string(c.src[start:c.off]))
	if err != nil {
		return "", c.errorf("bad quoted text: %v", err)
	}
	return text, nil
}

func (c *cursor) readPos(n *Node) error {
	line, err := c.readUint("line")
	if err != nil {
		return err
	}
	if c.peek() != ':' {
		return c.errorf("expected ':' in position")
	}
	c.bump()
	col, err := c.readUint("column")
	if err != nil {
		return err
	}
	n.Line, n.Col = line, col
	return nil
}

func (c *cursor) readUint(what string) (uint32, error) {
	digits := c.scanWhile(func(b byte) bool { return b >= '0' && b <= '9' })
	if digits == "" {
		return 0, c.errorf("missing %s number", what)
	}
	v, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return 0, c.errorf("bad %s number %q", what, digits)
	}
	return uint32(v), nil
}

func (c *cursor) scanWhile(ok func(byte) bool) string {
	var sb strings.Builder
	for !c.eof() && ok(c.peek()) {
		sb.WriteByte(c.bump())
	}
	return sb.String()
}

func isTagByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func isBareTextByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '(', ')', '@', '"', ';':
		return false
	}
	return b != 0
}
