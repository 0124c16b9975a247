// Package config loads plexilc.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"plexilc/internal/logger"
)

// FileName is the configuration file looked up from the working directory.
const FileName = "plexilc.toml"

// ErrUnknownKeys reports keys in the file that no setting consumes.
var ErrUnknownKeys = errors.New("unknown configuration keys")

// Config is the decoded configuration file.
type Config struct {
	Output    Output        `toml:"output"`
	Translate Translate     `toml:"translate"`
	Log       logger.Config `toml:"log"`
	Compile   Compile       `toml:"compile"`

	// Path is the file the configuration was read from; empty for defaults.
	Path string `toml:"-"`
}

type Output struct {
	Dir           string `toml:"dir"`
	Pretty        bool   `toml:"pretty"`
	WriteEPX      bool   `toml:"write_epx"`
	EPXOnly       bool   `toml:"epx_only"`
	SemanticsOnly bool   `toml:"semantics_only"`
}

type Translate struct {
	// Command is argv of the Extended to Core translator; "{xsl}" is
	// replaced by Stylesheet.
	Command    []string `toml:"command"`
	Stylesheet string   `toml:"stylesheet"`
}

type Compile struct {
	Jobs           int  `toml:"jobs"`
	MaxDiagnostics int  `toml:"max_diagnostics"`
	Rewrite        bool `toml:"rewrite"`
	Cache          bool `toml:"cache"`
}

// Default returns the settings used when no file is found.
func Default() Config {
	return Config{
		Log:     logger.NewConfig(),
		Compile: Compile{Rewrite: true, Cache: true},
	}
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Compile.Jobs < 0 {
		return fmt.Errorf("compile.jobs must not be negative, got %d", c.Compile.Jobs)
	}
	if c.Compile.MaxDiagnostics < 0 {
		return fmt.Errorf("compile.max_diagnostics must not be negative, got %d", c.Compile.MaxDiagnostics)
	}
	if c.Output.EPXOnly && c.Output.SemanticsOnly {
		return errors.New("output.epx_only and output.semantics_only are exclusive")
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

// Find walks up from startDir to locate plexilc.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes path over the defaults. Relative paths in the file are
// resolved against the file's directory.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: %w: %s", path, ErrUnknownKeys, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	base := filepath.Dir(path)
	cfg.Output.Dir = resolve(base, cfg.Output.Dir)
	cfg.Translate.Stylesheet = resolve(base, cfg.Translate.Stylesheet)
	cfg.Path = path
	return cfg, nil
}

// Discover loads the nearest plexilc.toml above startDir, or the defaults.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
