package diag

// Severity defines the importance of a diagnostic. Values are totally ordered.
type Severity int8

const (
	// SevNone is the "no diagnostics" sentinel returned by Bag.MaxSeverity.
	SevNone Severity = iota - 1
	// SevNote is a supplementary cross-reference ("previously declared here").
	SevNote
	// SevWarning marks legal but suspicious constructs.
	SevWarning
	// SevError marks invalid input; output is not produced.
	SevError
	// SevFatal marks a violated internal invariant; the current pass stops.
	SevFatal
)

func (s Severity) String() string {
	switch s {
	case SevNone:
		return "NONE"
	case SevNote:
		return "NOTE"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	case SevFatal:
		return "FATAL"
	}
	return "UNKNOWN"
}

// ExitStatus converts a maximum severity into a process status: 0 when
// nothing reached ERROR, 1 for ERROR and 2 for FATAL.
func ExitStatus(max Severity) int {
	switch {
	case max >= SevFatal:
		return 2
	case max == SevError:
		return 1
	}
	return 0
}
