// Package translate turns an Extended-dialect document into Core PLEXIL.
package translate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"plexilc/internal/logger"
)

// StylesheetPlaceholder in a command argument is replaced by the stylesheet path.
const StylesheetPlaceholder = "{xsl}"

// ErrNoCommand is returned by NewCommand for an empty argv.
var ErrNoCommand = errors.New("translate: empty command")

// Translator converts one Extended document to Core.
type Translator interface {
	Translate(ctx context.Context, epx []byte) ([]byte, error)
	Name() string
}

// Command runs an external program with the Extended document on stdin and
// reads Core from stdout.
type Command struct {
	argv []string
}

// NewCommand substitutes stylesheet into argv. argv[0] is the program.
func NewCommand(argv []string, stylesheet string) (*Command, error) {
	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		return nil, ErrNoCommand
	}
	args := make([]string, len(argv))
	for i, a := range argv {
		args[i] = strings.ReplaceAll(a, StylesheetPlaceholder, stylesheet)
	}
	return &Command{argv: args}, nil
}

// Args returns the resolved command line.
func (c *Command) Args() []string { return append([]string(nil), c.argv...) }

func (c *Command) Name() string { return c.argv[0] }

func (c *Command) Translate(ctx context.Context, epx []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.argv[0], c.argv[1:]...)
	cmd.Stdin = bytes.NewReader(epx)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	logger.FromContext(ctx).Debug("running translator", zap.Strings("argv", c.argv))
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", c.argv[0], err, msg)
		}
		return nil, fmt.Errorf("%s: %w", c.argv[0], err)
	}
	return stdout.Bytes(), nil
}

// Identity copies the Extended document unchanged.
type Identity struct{}

func (Identity) Name() string { return "identity" }

func (Identity) Translate(_ context.Context, epx []byte) ([]byte, error) {
	return append([]byte(nil), epx...), nil
}

// New returns a Command for a non-empty argv and Identity otherwise, warning
// through the context logger that Core output equals Extended output.
func New(ctx context.Context, argv []string, stylesheet string) (Translator, error) {
	if len(argv) == 0 {
		logger.FromContext(ctx).Warn("no translator configured; Core output is a copy of the Extended output")
		return Identity{}, nil
	}
	return NewCommand(argv, stylesheet)
}
