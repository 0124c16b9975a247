package version

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func withVersion(t *testing.T, v, commit, date string) {
	t.Helper()
	origVersion, origCommit, origDate, origNoColor := Version, GitCommit, BuildDate, color.NoColor
	Version, GitCommit, BuildDate = v, commit, date
	color.NoColor = true
	t.Cleanup(func() {
		Version, GitCommit, BuildDate, color.NoColor = origVersion, origCommit, origDate, origNoColor
	})
}

func TestDefaultVersion(t *testing.T) {
	assert.NotEmpty(t, Version)
}

func TestColoredWithoutColor(t *testing.T) {
	withVersion(t, "1.2.3-rc1", "", "")
	assert.Equal(t, "1.2.3-rc1", Colored())
}

func TestColoredKeepsUnusualVersions(t *testing.T) {
	withVersion(t, "nightly", "", "")
	assert.Equal(t, "nightly", Colored())
}

func TestColoredWithColor(t *testing.T) {
	withVersion(t, "1.2.3", "", "")
	color.NoColor = false
	got := Colored()
	assert.Contains(t, got, "\x1b[")
	assert.NotEqual(t, "1.2.3", got)
}

func TestLong(t *testing.T) {
	withVersion(t, "1.2.3", "abc123def456", "2024-01-15T10:30:00Z")
	assert.Equal(t, "plexilc 1.2.3 (abc123def456) built 2024-01-15T10:30:00Z", Long())

	GitCommit, BuildDate = "", ""
	assert.Equal(t, "plexilc 1.2.3", Long())
}
