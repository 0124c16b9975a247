// Package diag defines the diagnostic model shared by every compiler pass.
//
// A Diagnostic is an immutable record {Severity, Code, Message, Primary
// location, Notes}. Severity is totally ordered: NOTE < WARNING < ERROR <
// FATAL. Passes never abort on a semantic problem; they report through a
// Reporter (usually a BagReporter, optionally behind a DedupReporter) and
// continue with a placeholder value. FATAL is reserved for broken internal
// invariants and may stop the current pass.
//
// A Bag keeps diagnostics in discovery order. It does not sort: the early
// bind pass visits nodes top-down and the check pass bottom-up, and the
// interleaving of the two is the order users see. MaxSeverity reports the
// outcome of a compilation; ExitStatus turns it into a process status.
//
// Formatting lives in internal/diagfmt.
package diag
