package driver

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"plexilc/internal/diag"
)

// Summary describes a finished batch in one line, e.g.
// "3 files compiled (1 cached), 2 failed; wrote 4 files, 12 kB in 35ms".
func (b *Batch) Summary(elapsed time.Duration) string {
	var failed, cached, written int
	var size uint64
	for i := range b.Results {
		r := &b.Results[i]
		if r.Err != nil || r.MaxSeverity() >= diag.SevError {
			failed++
		}
		if r.Cached {
			cached++
		}
		written += len(r.Written)
		size += uint64(r.Bytes)
	}
	var sb strings.Builder
	sb.WriteString(english.Plural(len(b.Results), "file", ""))
	sb.WriteString(" compiled")
	if cached > 0 {
		fmt.Fprintf(&sb, " (%d cached)", cached)
	}
	if failed > 0 {
		fmt.Fprintf(&sb, ", %d failed", failed)
	}
	if written > 0 {
		fmt.Fprintf(&sb, "; wrote %s, %s", english.Plural(written, "file", ""), humanize.Bytes(size))
	}
	fmt.Fprintf(&sb, " in %s", elapsed.Round(time.Millisecond))
	return sb.String()
}
