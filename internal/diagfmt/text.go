package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"plexilc/internal/diag"
	"plexilc/internal/source"
)

var severityColor = map[diag.Severity]*color.Color{
	diag.SevNote:    color.New(color.FgCyan),
	diag.SevWarning: color.New(color.FgYellow, color.Bold),
	diag.SevError:   color.New(color.FgRed, color.Bold),
	diag.SevFatal:   color.New(color.FgMagenta, color.Bold),
}

// Text writes every diagnostic of bag as `SEVERITY: file:line:col: message`,
// in the order recorded. Notes follow their diagnostic as NOTE lines.
func Text(w io.Writer, bag *diag.Bag, paths PathResolver, opts TextOpts) error {
	if bag == nil {
		return nil
	}
	for _, d := range bag.Items() {
		if err := writeLine(w, d.Severity, d.Code, d.Primary, d.Message, paths, opts); err != nil {
			return err
		}
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			if err := writeLine(w, diag.SevNote, diag.UnknownCode, n.Loc, n.Msg, paths, opts); err != nil {
				return err
			}
		}
	}
	if dropped := bag.Dropped(); dropped > 0 {
		if _, err := fmt.Fprintf(w, "... %d more diagnostics not shown\n", dropped); err != nil {
			return err
		}
	}
	return nil
}

// Line renders one diagnostic without colour or notes.
func Line(d diag.Diagnostic, paths PathResolver) string {
	return formatLine(d.Severity.String(), d.Code, d.Primary, d.Message, paths, TextOpts{})
}

func writeLine(w io.Writer, sev diag.Severity, code diag.Code, loc source.Location, msg string, paths PathResolver, opts TextOpts) error {
	label := sev.String()
	if opts.Color {
		if c, ok := severityColor[sev]; ok {
			label = c.Sprint(label)
		}
	}
	_, err := io.WriteString(w, formatLine(label, code, loc, msg, paths, opts)+"\n")
	return err
}

func formatLine(label string, code diag.Code, loc source.Location, msg string, paths PathResolver, opts TextOpts) string {
	var sb strings.Builder
	sb.WriteString(label)
	if opts.ShowCodes && code != diag.UnknownCode {
		sb.WriteString(" ")
		sb.WriteString(code.ID())
	}
	sb.WriteString(": ")
	if file := displayPath(loc.File, paths, opts.PathMode); file != "" {
		sb.WriteString(file)
		if loc.Pos.IsValid() {
			fmt.Fprintf(&sb, ":%d:%d", loc.Pos.Line, loc.Pos.Col)
		}
		sb.WriteString(": ")
	}
	sb.WriteString(msg)
	return sb.String()
}

func displayPath(id source.FileID, paths PathResolver, mode PathMode) string {
	if paths == nil || !id.IsValid() {
		return ""
	}
	p := paths.Path(id)
	if mode == PathModeBasename && p != "" {
		return filepath.Base(p)
	}
	return p
}
