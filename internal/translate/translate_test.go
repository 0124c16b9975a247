package translate

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"plexilc/internal/logger"
)

func TestPlaceholderSubstitution(t *testing.T) {
	c, err := NewCommand([]string{"xsltproc", "{xsl}", "-", "--param", "x={xsl}"}, "/opt/Extended.xsl")
	require.NoError(t, err)
	assert.Equal(t, []string{"xsltproc", "/opt/Extended.xsl", "-", "--param", "x=/opt/Extended.xsl"}, c.Args())
	assert.Equal(t, "xsltproc", c.Name())
}

func TestEmptyCommand(t *testing.T) {
	_, err := NewCommand(nil, "")
	assert.ErrorIs(t, err, ErrNoCommand)
	_, err = NewCommand([]string{" "}, "")
	assert.ErrorIs(t, err, ErrNoCommand)
}

func TestCommandPipesStdinToStdout(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available")
	}
	c, err := NewCommand([]string{"cat"}, "")
	require.NoError(t, err)
	out, err := c.Translate(context.Background(), []byte("<PlexilPlan/>"))
	require.NoError(t, err)
	assert.Equal(t, "<PlexilPlan/>", string(out))
}

func TestCommandFailureIncludesStderr(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	c, err := NewCommand([]string{"sh", "-c", "echo bad stylesheet >&2; exit 3"}, "")
	require.NoError(t, err)
	_, err = c.Translate(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad stylesheet")
}

func TestIdentityWarns(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	ctx := logger.NewContextWithLogger(context.Background(), zap.New(core))
	tr, err := New(ctx, nil, "")
	require.NoError(t, err)
	assert.Equal(t, "identity", tr.Name())
	assert.Equal(t, 1, logs.Len())

	in := []byte("<x/>")
	out, err := tr.Translate(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	out[0] = 'y'
	assert.Equal(t, byte('<'), in[0])
}
