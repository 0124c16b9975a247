package logger

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// Config selects the log encoder ("console" or "json") and the minimum level.
type Config struct {
	Format string        `toml:"format"`
	Level  zapcore.Level `toml:"level"`
}

// NewConfig returns the defaults: console output at warn level.
func NewConfig() Config {
	return Config{
		Format: "console",
		Level:  zapcore.WarnLevel,
	}
}

// Validate rejects unknown formats.
func (c Config) Validate() error {
	switch c.Format {
	case "", "console", "json":
		return nil
	}
	return fmt.Errorf("unknown log format %q", c.Format)
}
