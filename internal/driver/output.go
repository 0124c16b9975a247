package driver

import (
	"path/filepath"
	"strings"
)

const (
	// ExtendedExt is the extension of Extended-dialect output.
	ExtendedExt = "epx"
	// CoreExt is the extension of Core PLEXIL output.
	CoreExt = "plx"
)

// OutputOptions choose which files are written and where.
type OutputOptions struct {
	// File is the exact Core output path; valid for a single input only.
	File string
	// Dir replaces an absolute result directory and prefixes a relative one.
	Dir string
	// WriteEPX keeps the Extended document next to the Core one.
	WriteEPX bool
	// EPXOnly writes the Extended document and skips translation.
	EPXOnly bool
	// SemanticsOnly writes nothing.
	SemanticsOnly bool
	Pretty        bool
}

// OutputPath returns where the output with extension ext for input goes,
// or "" when the options say that output is not written.
func (o OutputOptions) OutputPath(input, ext string) string {
	if o.SemanticsOnly {
		return ""
	}
	switch ext {
	case ExtendedExt:
		if !o.WriteEPX && !o.EPXOnly {
			return ""
		}
	case CoreExt:
		if o.EPXOnly {
			return ""
		}
	}
	var dir, name string
	if o.File != "" {
		dir = filepath.Dir(o.File)
		name = filepath.Base(o.File)
		if ext == ExtendedExt {
			name = ReplaceExt(name, ext)
		}
	} else {
		dir = filepath.Dir(input)
		name = ReplaceExt(filepath.Base(input), ext)
	}
	if o.Dir != "" {
		if filepath.IsAbs(dir) {
			dir = o.Dir
		} else {
			dir = filepath.Join(o.Dir, dir)
		}
	}
	return filepath.Join(dir, name)
}

// ReplaceExt swaps the extension of name, or appends one when it has none.
func ReplaceExt(name, ext string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if base == "" {
		base = name
	}
	return base + "." + ext
}
