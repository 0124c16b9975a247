package syntax

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"plexilc/internal/source"
)

// BinaryExt is the extension of msgpack-encoded tree files.
const BinaryExt = ".plb"

// IsBinary reports whether path names a msgpack-encoded tree.
func IsBinary(path string) bool {
	return strings.EqualFold(filepath.Ext(path), BinaryExt)
}

// Load adds path to fs, keeping binary trees byte for byte.
func Load(fs *source.FileSet, path string) (source.FileID, error) {
	if IsBinary(path) {
		return fs.LoadRaw(path)
	}
	return fs.Load(path)
}

// Decode parses f with the codec its extension selects.
func Decode(f *source.File) (*Node, error) {
	if IsBinary(f.Path) {
		return Unmarshal(f.Content)
	}
	return Read(f)
}

// Marshal encodes a tree in msgpack for parsers that hand trees over in binary.
func Marshal(n *Node) ([]byte, error) {
	data, err := msgpack.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("encode tree: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a msgpack tree and validates every tag.
func Unmarshal(data []byte) (*Node, error) {
	var n Node
	if err := msgpack.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("decode tree: %w", err)
	}
	if err := validate(&n); err != nil {
		return nil, fmt.Errorf("decode tree: %w", err)
	}
	return &n, nil
}

func validate(n *Node) error {
	if !n.Tag.IsValid() {
		return fmt.Errorf("unknown tag %d at %d:%d", uint16(n.Tag), n.Line, n.Col)
	}
	for i, c := range n.Children {
		if c == nil {
			return fmt.Errorf("nil child %d of %s at %d:%d", i, n.Tag, n.Line, n.Col)
		}
		if err := validate(c); err != nil {
			return err
		}
	}
	return nil
}
