package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestJSONLoggerHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Config{Format: "json", Level: zapcore.InfoLevel})
	log.Debug("hidden")
	log.Info("compiled", zap.String("file", "a.pli"))
	require.NoError(t, log.Sync())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "compiled", entry["msg"])
	assert.Equal(t, "a.pli", entry["file"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestContextRoundTrip(t *testing.T) {
	log := zap.NewExample()
	ctx := NewContextWithLogger(context.Background(), log)
	assert.Same(t, log, FromContext(ctx))
	assert.NotNil(t, FromContext(context.Background()))
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, NewConfig().Validate())
	assert.NoError(t, Config{Format: "json"}.Validate())
	assert.Error(t, Config{Format: "xml"}.Validate())
}
