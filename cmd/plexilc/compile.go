package main

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"plexilc/internal/buildpipeline"
	"plexilc/internal/compiler"
	"plexilc/internal/diag"
	"plexilc/internal/diagfmt"
	"plexilc/internal/driver"
	"plexilc/internal/syntax"
	"plexilc/internal/translate"
	"plexilc/internal/version"
)

// PlanExt is the extension of textual plan trees picked up from directories.
// Binary trees (syntax.BinaryExt) are picked up too.
const PlanExt = ".pli"

type compileFlags struct {
	output        string
	outDir        string
	writeEPX      bool
	epxOnly       bool
	semanticsOnly bool
	pretty        bool
	jobs          int
	noCache       bool
	format        string
	ui            string
}

func (f *compileFlags) register(cmd *cobra.Command, outputs bool) {
	if outputs {
		cmd.Flags().StringVarP(&f.output, "output", "o", "", "write Core output to this file (single input only)")
		cmd.Flags().StringVarP(&f.outDir, "out-dir", "d", "", "write output files under this directory")
		cmd.Flags().BoolVarP(&f.writeEPX, "write-epx", "w", false, "also write the Extended PLEXIL file")
		cmd.Flags().BoolVarP(&f.epxOnly, "epx-only", "e", false, "write the Extended PLEXIL file and skip translation")
		cmd.Flags().BoolVarP(&f.semanticsOnly, "semantics-only", "m", false, "check only; write nothing")
		cmd.Flags().BoolVarP(&f.pretty, "pretty", "p", false, "indent XML output")
		cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "do not read or write the compile cache")
	}
	cmd.Flags().IntVarP(&f.jobs, "jobs", "j", 0, "max parallel compilations (0 = config or GOMAXPROCS)")
	cmd.Flags().StringVar(&f.format, "format", "text", "diagnostics format (text|json)")
	cmd.Flags().StringVar(&f.ui, "ui", "auto", "progress display (auto|on|off)")
}

func newCompileCmd() *cobra.Command {
	var f compileFlags
	cmd := &cobra.Command{
		Use:   "compile [flags] <plan.pli|directory>...",
		Short: "Check plans and write Extended and Core PLEXIL",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args, &f)
		},
	}
	f.register(cmd, true)
	return cmd
}

func newCheckCmd() *cobra.Command {
	var f compileFlags
	cmd := &cobra.Command{
		Use:   "check [flags] <plan.pli|directory>...",
		Short: "Report diagnostics without writing output",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.semanticsOnly = true
			f.noCache = true
			return runBatch(cmd, args, &f)
		},
	}
	f.register(cmd, false)
	return cmd
}

// collectInputs expands directories to the plan files below them.
func collectInputs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			// Missing files are reported per file by the driver.
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && (strings.HasSuffix(path, PlanExt) || syntax.IsBinary(path)) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

func (f *compileFlags) outputOptions(s *settings) driver.OutputOptions {
	o := driver.OutputOptions{
		File:          f.output,
		Dir:           s.cfg.Output.Dir,
		WriteEPX:      f.writeEPX || s.cfg.Output.WriteEPX,
		EPXOnly:       f.epxOnly || s.cfg.Output.EPXOnly,
		SemanticsOnly: f.semanticsOnly || s.cfg.Output.SemanticsOnly,
		Pretty:        f.pretty || s.cfg.Output.Pretty,
	}
	if f.outDir != "" {
		o.Dir = f.outDir
	}
	return o
}

func runBatch(cmd *cobra.Command, args []string, f *compileFlags) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = s.log.Sync() }()
	switch f.format {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported format %q (must be text or json)", f.format)
	}
	mode, err := readColorMode(f.ui)
	if err != nil {
		return fmt.Errorf("--ui: %w", err)
	}

	ctx := s.context(cmd)
	files, err := collectInputs(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no %s files found", PlanExt)
	}

	copts := compiler.DefaultOptions()
	copts.Rewrite = s.cfg.Compile.Rewrite
	copts.MaxDiagnostics = s.cfg.Compile.MaxDiagnostics
	opts := driver.Options{
		Compile: copts,
		Output:  f.outputOptions(s),
		Jobs:    s.cfg.Compile.Jobs,
		Version: version.Version,
	}
	if f.jobs > 0 {
		opts.Jobs = f.jobs
	}
	if opts.Output.EPXOnly && opts.Output.SemanticsOnly {
		return fmt.Errorf("--epx-only and --semantics-only are exclusive")
	}
	if !opts.Output.EPXOnly && !opts.Output.SemanticsOnly {
		if opts.Translator, err = translate.New(ctx, s.cfg.Translate.Command, s.cfg.Translate.Stylesheet); err != nil {
			return err
		}
	}
	if s.cfg.Compile.Cache && !f.noCache {
		if opts.Cache, err = driver.OpenCache("plexilc"); err != nil {
			s.log.Warn("compile cache disabled", zap.Error(err))
		}
	}

	start := time.Now()
	var batch *driver.Batch
	if !s.quiet && useColor(mode, os.Stderr) && len(files) > 1 {
		batch, err = runWithUI(ctx, cmd.ErrOrStderr(), "compiling", files, opts)
	} else {
		batch, err = driver.CompileFiles(ctx, files, opts)
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if err := printDiagnostics(cmd, batch, s, f.format); err != nil {
		return err
	}
	if s.timings {
		printTimings(cmd.ErrOrStderr(), batch)
	}
	if !s.quiet && f.format == "text" {
		fmt.Fprintln(cmd.ErrOrStderr(), batch.Summary(elapsed))
	}
	if code := diag.ExitStatus(batch.MaxSeverity()); code != 0 {
		return exitError{code: code}
	}
	return nil
}

type fileReport struct {
	Path        string                    `json:"path"`
	Cached      bool                      `json:"cached,omitempty"`
	Written     []string                  `json:"written,omitempty"`
	Diagnostics diagfmt.DiagnosticsOutput `json:"diagnostics"`
}

func printDiagnostics(cmd *cobra.Command, batch *driver.Batch, s *settings, format string) error {
	if format == "json" {
		reports := make([]fileReport, 0, len(batch.Results))
		for i := range batch.Results {
			r := &batch.Results[i]
			reports = append(reports, fileReport{
				Path:        r.Path,
				Cached:      r.Cached,
				Written:     r.Written,
				Diagnostics: diagfmt.BuildDiagnosticsOutput(r.Bag, batch.Files, diagfmt.JSONOpts{IncludeNotes: true}),
			})
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}
	opts := diagfmt.TextOpts{Color: s.color, ShowNotes: true}
	for i := range batch.Results {
		if err := diagfmt.Text(cmd.ErrOrStderr(), batch.Results[i].Bag, batch.Files, opts); err != nil {
			return err
		}
	}
	return nil
}

func printTimings(w io.Writer, batch *driver.Batch) {
	for i := range batch.Results {
		r := &batch.Results[i]
		fmt.Fprintf(w, "%s:", r.Path)
		for _, stage := range buildpipeline.Stages {
			if r.Timings.Has(stage) {
				fmt.Fprintf(w, " %s=%s", stage, r.Timings.Duration(stage).Round(time.Microsecond))
			}
		}
		fmt.Fprintln(w)
		if r.Result != nil && r.Result.Timer != nil {
			fmt.Fprint(w, r.Result.Timer.Summary())
		}
	}
}
