package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"plexilc/internal/prof"
	"plexilc/internal/version"
)

// exitError carries a process exit status out of a command.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "plexilc",
		Short:         "PLEXIL plan compiler",
		Long:          `plexilc checks PLEXIL plan trees and writes Extended and Core PLEXIL XML`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	root.PersistentFlags().Bool("timings", false, "show timing information")
	root.PersistentFlags().Int("max-diagnostics", 0, "maximum number of diagnostics kept per file (0 = no limit)")
	root.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error)")
	root.PersistentFlags().String("config", "", "path to plexilc.toml (default: search upwards)")
	root.PersistentFlags().String("cpuprofile", "", "write a CPU profile to this file")
	root.PersistentFlags().String("memprofile", "", "write a heap profile to this file on exit")
	root.PersistentFlags().String("trace", "", "write a runtime trace to this file")

	root.AddCommand(newCompileCmd(), newCheckCmd(), newDumpCmd(), newVersionCmd())
	return root
}

func main() {
	os.Exit(run(newRootCmd(), os.Args[1:]))
}

func run(root *cobra.Command, args []string) int {
	root.SetArgs(args)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var session *prof.Session
	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		flags := cmd.Root().PersistentFlags()
		var opts prof.Options
		var err error
		if opts.CPU, err = flags.GetString("cpuprofile"); err != nil {
			return err
		}
		if opts.Mem, err = flags.GetString("memprofile"); err != nil {
			return err
		}
		if opts.Trace, err = flags.GetString("trace"); err != nil {
			return err
		}
		session, err = prof.Start(opts)
		return err
	}
	err := root.ExecuteContext(ctx)
	if stopErr := session.Stop(); stopErr != nil {
		fmt.Fprintf(root.ErrOrStderr(), "plexilc: profiling: %v\n", stopErr)
	}
	if err == nil {
		return 0
	}
	var exit exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	fmt.Fprintf(root.ErrOrStderr(), "plexilc: %v\n", err)
	return 2
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
