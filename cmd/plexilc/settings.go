package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"plexilc/internal/config"
	"plexilc/internal/logger"
)

// settings are the configuration file merged with persistent flags.
type settings struct {
	cfg     config.Config
	log     *zap.Logger
	color   bool
	quiet   bool
	timings bool
}

type colorMode string

const (
	colorAuto colorMode = "auto"
	colorOn   colorMode = "on"
	colorOff  colorMode = "off"
)

func readColorMode(value string) (colorMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return colorAuto, nil
	case "on", "always":
		return colorOn, nil
	case "off", "never":
		return colorOff, nil
	default:
		return "", fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

func useColor(mode colorMode, f *os.File) bool {
	switch mode {
	case colorOn:
		return true
	case colorOff:
		return false
	default:
		return isTerminal(f)
	}
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	flags := cmd.Root().PersistentFlags()
	path, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}
	var cfg config.Config
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.Discover(".")
	}
	if err != nil {
		return nil, err
	}

	if flags.Changed("max-diagnostics") {
		if cfg.Compile.MaxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("log-level") {
		level, err := flags.GetString("log-level")
		if err != nil {
			return nil, err
		}
		if cfg.Log.Level, err = zapcore.ParseLevel(level); err != nil {
			return nil, fmt.Errorf("invalid --log-level: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &settings{cfg: cfg}
	if s.quiet, err = flags.GetBool("quiet"); err != nil {
		return nil, err
	}
	if s.timings, err = flags.GetBool("timings"); err != nil {
		return nil, err
	}
	colorFlag, err := flags.GetString("color")
	if err != nil {
		return nil, err
	}
	mode, err := readColorMode(colorFlag)
	if err != nil {
		return nil, err
	}
	s.color = useColor(mode, os.Stderr)
	color.NoColor = !s.color

	s.log = logger.New(cmd.ErrOrStderr(), cfg.Log)
	if cfg.Path != "" {
		s.log.Debug("loaded configuration", zap.String("path", cfg.Path))
	}
	return s, nil
}

// context returns the command context carrying the settings' logger.
func (s *settings) context(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logger.NewContextWithLogger(ctx, s.log)
}
