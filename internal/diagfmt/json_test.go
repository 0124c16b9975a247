package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plexilc/internal/diag"
	"plexilc/internal/source"
)

func TestJSONOutput(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("plans/demo.ptree", nil)
	bag := diag.NewBag(0)
	r := diag.BagReporter{Bag: bag}
	diag.ReportError(r, diag.ResUndeclaredVariable, source.At(id, source.Pos{Line: 2, Col: 4}), `Variable "x" is not declared`).Emit()
	diag.ReportWarning(r, diag.DeclShadowedVariable, source.At(id, source.Pos{Line: 5, Col: 0}),
		`Local variable "y" shadows an inherited variable`).
		WithNote(source.At(id, source.Pos{Line: 1, Col: 0}), "here").
		Emit()

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, bag, fs, JSONOpts{PathMode: PathModeBasename, IncludeNotes: true}))

	var out DiagnosticsOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, 2, out.Count)
	assert.Equal(t, "ERROR", out.MaxSeverity)
	assert.Equal(t, LocationJSON{File: "demo.ptree", Line: 2, Col: 4}, out.Diagnostics[0].Location)
	assert.Equal(t, diag.ResUndeclaredVariable.ID(), out.Diagnostics[0].Code)
	require.Len(t, out.Diagnostics[1].Notes, 1)
	assert.Equal(t, "here", out.Diagnostics[1].Notes[0].Message)
}

func TestJSONMax(t *testing.T) {
	bag := diag.NewBag(0)
	r := diag.BagReporter{Bag: bag}
	for i := 0; i < 3; i++ {
		diag.ReportNote(r, diag.UnknownCode, source.Location{}, "n").Emit()
	}
	out := BuildDiagnosticsOutput(bag, nil, JSONOpts{Max: 2})
	assert.Equal(t, 2, out.Count)
	assert.Equal(t, "NOTE", out.MaxSeverity)
	assert.Empty(t, out.Diagnostics[0].Location.File)
}

func TestJSONNilBag(t *testing.T) {
	out := BuildDiagnosticsOutput(nil, nil, JSONOpts{})
	assert.Zero(t, out.Count)
	assert.NotNil(t, out.Diagnostics)
}
