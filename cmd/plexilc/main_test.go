package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cleanPlan = `
(PLEXIL
  (ACTION (NCNAME=Root@1:0)
    (LBRACE
      (VARIABLE_DECLARATIONS (VARIABLE_DECLARATION (INTEGER_KYWD) (NCNAME=x@2:14) (INT=1)))
      (ACTION (ASSIGNMENT (NCNAME=x@3:2) (INT=3))))))`

const brokenPlan = `
(PLEXIL
  (ACTION (NCNAME=Root@1:0)
    (LBRACE
      (ACTION (ASSIGNMENT (NCNAME=missing@2:2) (INT=1))))))`

type cli struct {
	dir    string
	config string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "plexilc.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("[compile]\ncache = false\n\n[log]\nlevel = \"error\"\n"), 0o644))
	return &cli{dir: dir, config: cfg}
}

func (c *cli) plan(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(c.dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func (c *cli) run(args ...string) (int, string, string) {
	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	args = append(args, "--config", c.config, "--color", "off")
	code := run(root, args)
	return code, stdout.String(), stderr.String()
}

func TestCompileWritesCore(t *testing.T) {
	c := newCLI(t)
	plan := c.plan(t, "plan.pli", cleanPlan)
	code, _, stderr := c.run("compile", "--ui", "off", "-w", plan)
	require.Equal(t, 0, code, stderr)
	assert.FileExists(t, filepath.Join(c.dir, "plan.plx"))
	assert.FileExists(t, filepath.Join(c.dir, "plan.epx"))
	assert.Contains(t, stderr, "1 file compiled")
}

func TestCompileToOutDir(t *testing.T) {
	c := newCLI(t)
	plan := c.plan(t, "plan.pli", cleanPlan)
	out := filepath.Join(c.dir, "out")
	code, _, stderr := c.run("compile", "--ui", "off", "--quiet", "-d", out, plan)
	require.Equal(t, 0, code, stderr)
	assert.FileExists(t, filepath.Join(out, "plan.plx"))
	assert.Empty(t, stderr)
}

func TestCheckReportsErrors(t *testing.T) {
	c := newCLI(t)
	bad := c.plan(t, "bad.pli", brokenPlan)
	c.plan(t, "good.pli", cleanPlan)
	code, _, stderr := c.run("check", "--ui", "off", c.dir)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "ERROR: "+filepath.ToSlash(bad)+":2:2:")
	assert.Contains(t, stderr, "missing")
	assert.NoFileExists(t, filepath.Join(c.dir, "good.plx"))
}

func TestJSONDiagnostics(t *testing.T) {
	c := newCLI(t)
	bad := c.plan(t, "bad.pli", brokenPlan)
	code, stdout, _ := c.run("check", "--ui", "off", "--format", "json", bad)
	assert.Equal(t, 1, code)
	var reports []fileReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, bad, reports[0].Path)
	assert.Equal(t, "ERROR", reports[0].Diagnostics.MaxSeverity)
}

func TestExitStatusFollowsSeverity(t *testing.T) {
	c := newCLI(t)
	shadow := c.plan(t, "shadow.pli", `
(PLEXIL
  (ACTION (NCNAME=Root@1:0)
    (LBRACE
      (VARIABLE_DECLARATIONS (VARIABLE_DECLARATION (INTEGER_KYWD) (NCNAME=x@2:14)))
      (ACTION (NCNAME=Inner@3:2)
        (LBRACE
          (VARIABLE_DECLARATIONS (VARIABLE_DECLARATION (INTEGER_KYWD) (NCNAME=x@4:16)))
          (ACTION (ASSIGNMENT (NCNAME=x@5:4) (INT=3))))))))`)
	code, _, stderr := c.run("compile", "--ui", "off", shadow)
	assert.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, "WARNING: ")
	assert.FileExists(t, filepath.Join(c.dir, "shadow.plx"))

	malformed := c.plan(t, "malformed.pli", `(PLEXIL (ACTION (WHILE_KYWD (TRUE_KYWD))))`)
	code, _, stderr = c.run("compile", "--ui", "off", malformed)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "FATAL: ")
	assert.NoFileExists(t, filepath.Join(c.dir, "malformed.plx"))
}

func TestOutputFileRejectsManyInputs(t *testing.T) {
	c := newCLI(t)
	a := c.plan(t, "a.pli", cleanPlan)
	b := c.plan(t, "b.pli", cleanPlan)
	code, _, stderr := c.run("compile", "--ui", "off", "-o", filepath.Join(c.dir, "x.plx"), a, b)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "single input")
}

func TestDump(t *testing.T) {
	c := newCLI(t)
	plan := c.plan(t, "plan.pli", cleanPlan)
	code, stdout, stderr := c.run("dump", "--scopes", plan)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Assignment")
	assert.Contains(t, stdout, "<global>")
	assert.Contains(t, stdout, "Integer x")
}

func TestVersionJSON(t *testing.T) {
	c := newCLI(t)
	code, stdout, _ := c.run("version", "--format", "json")
	require.Equal(t, 0, code)
	var payload versionPayload
	require.NoError(t, json.Unmarshal([]byte(stdout), &payload))
	assert.Equal(t, "plexilc", payload.Tool)
	assert.NotEmpty(t, payload.Version)
}

func TestBadFlags(t *testing.T) {
	c := newCLI(t)
	plan := c.plan(t, "plan.pli", cleanPlan)
	code, _, stderr := c.run("compile", "--format", "xml", plan)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "unsupported format")

	code, _, _ = c.run("compile", "--log-level", "loud", plan)
	assert.Equal(t, 2, code)
}

func TestCollectInputs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pli", "sub/a.pli", "notes.txt"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, nil, 0o644))
	}
	got, err := collectInputs([]string{dir, "missing.pli"})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "b.pli"), filepath.Join(dir, "sub", "a.pli"), "missing.pli"}, got)
}

func TestReadColorMode(t *testing.T) {
	for in, want := range map[string]colorMode{"": colorAuto, "AUTO": colorAuto, "on": colorOn, "never": colorOff} {
		got, err := readColorMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := readColorMode("sometimes")
	assert.Error(t, err)
}
