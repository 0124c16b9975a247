package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"plexilc/internal/logger"
)

func write(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFullFile(t *testing.T) {
	dir := t.TempDir()
	path := write(t, dir, `
[output]
dir = "build"
pretty = true
write_epx = true

[translate]
command = ["xsltproc", "{xsl}", "-"]
stylesheet = "/opt/plexil/Extended.xsl"

[log]
level = "debug"
format = "json"

[compile]
jobs = 4
max_diagnostics = 50
rewrite = false
`)
	got, err := Load(path)
	require.NoError(t, err)
	want := Config{
		Output:    Output{Dir: filepath.Join(dir, "build"), Pretty: true, WriteEPX: true},
		Translate: Translate{Command: []string{"xsltproc", "{xsl}", "-"}, Stylesheet: "/opt/plexil/Extended.xsl"},
		Log:       logger.Config{Format: "json", Level: zapcore.DebugLevel},
		Compile:   Compile{Jobs: 4, MaxDiagnostics: 50, Rewrite: false, Cache: true},
		Path:      path,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestUnknownKeysRejected(t *testing.T) {
	path := write(t, t.TempDir(), `
[output]
pretty = true
colour = "always"

[extra]
x = 1
`)
	_, err := Load(path)
	require.ErrorIs(t, err, ErrUnknownKeys)
	assert.Contains(t, err.Error(), "output.colour")
	assert.Contains(t, err.Error(), "extra")
}

func TestInvalidValues(t *testing.T) {
	for name, body := range map[string]string{
		"negative jobs":  "[compile]\njobs = -1\n",
		"bad log format": "[log]\nformat = \"xml\"\n",
		"exclusive":      "[output]\nepx_only = true\nsemantics_only = true\n",
		"syntax":         "[output\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(write(t, t.TempDir(), body))
			assert.Error(t, err)
		})
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	path := write(t, root, "[compile]\njobs = 2\n")
	nested := filepath.Join(root, "plans", "deep")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, ok, err := Find(nested)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, path, found)

	cfg, err := Discover(nested)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Compile.Jobs)
	assert.True(t, cfg.Compile.Rewrite, "defaults survive partial files")
}

func TestDiscoverDefaults(t *testing.T) {
	dir := t.TempDir()
	if _, ok, _ := Find(dir); ok {
		t.Skip("a plexilc.toml exists above the temp directory")
	}
	cfg, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
