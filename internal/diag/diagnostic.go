package diag

import "plexilc/internal/source"

// Note is a secondary location attached to a diagnostic.
type Note struct {
	Loc source.Location
	Msg string
}

// Diagnostic is an immutable record of one finding.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Location
	Notes    []Note
}

func New(sev Severity, code Code, primary source.Location, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func (d Diagnostic) WithNote(loc source.Location, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Loc: loc, Msg: msg})
	return d
}
