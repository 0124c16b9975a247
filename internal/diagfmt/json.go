package diagfmt

import (
	"encoding/json"
	"io"

	"plexilc/internal/diag"
	"plexilc/internal/source"
)

// LocationJSON is a file position for JSON output.
type LocationJSON struct {
	File string `json:"file,omitempty"`
	Line uint32 `json:"line,omitempty"`
	Col  uint32 `json:"col,omitempty"`
}

// NoteJSON is an attached note for JSON output.
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// DiagnosticJSON is one diagnostic for JSON output.
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// DiagnosticsOutput is the JSON root object.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	MaxSeverity string           `json:"max_severity"`
}

func makeLocation(loc source.Location, paths PathResolver, mode PathMode) LocationJSON {
	out := LocationJSON{File: displayPath(loc.File, paths, mode)}
	if loc.Pos.IsValid() {
		out.Line = loc.Pos.Line
		out.Col = loc.Pos.Col
	}
	return out
}

// BuildDiagnosticsOutput converts a bag into its JSON model, preserving order.
func BuildDiagnosticsOutput(bag *diag.Bag, paths PathResolver, opts JSONOpts) DiagnosticsOutput {
	out := DiagnosticsOutput{Diagnostics: []DiagnosticJSON{}, MaxSeverity: diag.SevNone.String()}
	if bag == nil {
		return out
	}
	out.MaxSeverity = bag.MaxSeverity().String()
	for _, d := range bag.Items() {
		if opts.Max > 0 && len(out.Diagnostics) >= opts.Max {
			break
		}
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Location: makeLocation(d.Primary, paths, opts.PathMode),
		}
		if opts.IncludeNotes {
			for _, n := range d.Notes {
				dj.Notes = append(dj.Notes, NoteJSON{Message: n.Msg, Location: makeLocation(n.Loc, paths, opts.PathMode)})
			}
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	out.Count = len(out.Diagnostics)
	return out
}

// JSON writes the bag as an indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, paths PathResolver, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(bag, paths, opts))
}
