package source

import "fmt"

type (
	// FileID uniquely identifies a source file within a FileSet. Zero means no file.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

// NoFileID marks a location that is not attached to any file.
const NoFileID FileID = 0

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
	// FileRaw marks content loaded byte for byte, such as binary trees.
	FileRaw
)

// IsValid reports whether id refers to a real file.
func (id FileID) IsValid() bool { return id != NoFileID }

// File captures metadata and content for a single compiled input.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	Hash    [32]byte
	Flags   FileFlags
}

// Pos is a position as reported by the parser: 1-based line, 0-based column.
// A zero line means the position is unknown.
type Pos struct {
	Line uint32
	Col  uint32
}

// IsValid reports whether the position carries a line number.
func (p Pos) IsValid() bool { return p.Line > 0 }

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Location ties a position to a file.
type Location struct {
	File FileID
	Pos  Pos
}

// At builds a Location for the file.
func At(file FileID, pos Pos) Location {
	return Location{File: file, Pos: pos}
}
