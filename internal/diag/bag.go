package diag

// Bag accumulates diagnostics in discovery order. It never reorders.
type Bag struct {
	items   []Diagnostic
	max     int
	maxSev  Severity
	dropped int
}

// NewBag creates a bag holding at most max diagnostics; max <= 0 means unbounded.
func NewBag(max int) *Bag {
	capHint := max
	if capHint <= 0 || capHint > 64 {
		capHint = 64
	}
	return &Bag{
		items:  make([]Diagnostic, 0, capHint),
		max:    max,
		maxSev: SevNone,
	}
}

// Add records d. It never fails: past the limit the diagnostic is counted
// as dropped but still contributes to MaxSeverity.
func (b *Bag) Add(d Diagnostic) bool {
	if d.Severity > b.maxSev {
		b.maxSev = d.Severity
	}
	if b.max > 0 && len(b.items) >= b.max {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

// MaxSeverity returns the highest severity seen, or SevNone.
func (b *Bag) MaxSeverity() Severity {
	return b.maxSev
}

// HasErrors reports whether an ERROR or FATAL was recorded.
func (b *Bag) HasErrors() bool {
	return b.maxSev >= SevError
}

// HasFatal reports whether a FATAL was recorded.
func (b *Bag) HasFatal() bool {
	return b.maxSev >= SevFatal
}

// HasWarnings reports whether anything at WARNING or above was recorded.
func (b *Bag) HasWarnings() bool {
	return b.maxSev >= SevWarning
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Dropped returns how many diagnostics exceeded the limit.
func (b *Bag) Dropped() int {
	return b.dropped
}

// Items returns the diagnostics in the order recorded.
// The returned slice aliases the bag; do not modify it.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Count returns the number of stored diagnostics with exactly severity sev.
func (b *Bag) Count(sev Severity) int {
	n := 0
	for i := range b.items {
		if b.items[i].Severity == sev {
			n++
		}
	}
	return n
}

// Merge appends other's diagnostics after b's, preserving both orders.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	for _, d := range other.items {
		b.Add(d)
	}
	b.dropped += other.dropped
	if other.maxSev > b.maxSev {
		b.maxSev = other.maxSev
	}
}
