package diagfmt

import "plexilc/internal/source"

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAsGiven prints the path stored in the FileSet.
	PathModeAsGiven PathMode = iota
	PathModeBasename
)

// TextOpts configures the one-line-per-diagnostic text output.
type TextOpts struct {
	Color     bool
	PathMode  PathMode
	ShowCodes bool
	ShowNotes bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	PathMode     PathMode
	Max          int // trims the output, not the Bag
	IncludeNotes bool
}

// PathResolver maps file IDs to display paths. *source.FileSet satisfies it.
type PathResolver interface {
	Path(id source.FileID) string
}
