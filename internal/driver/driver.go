// Package driver compiles batches of plan files: it loads inputs, runs the
// compiler in parallel, translates to Core and writes output files.
package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"plexilc/internal/buildpipeline"
	"plexilc/internal/compiler"
	"plexilc/internal/diag"
	"plexilc/internal/emit"
	"plexilc/internal/logger"
	"plexilc/internal/source"
	"plexilc/internal/syntax"
	"plexilc/internal/translate"
)

// ErrOutputFileWithManyInputs rejects an exact output path for a batch.
var ErrOutputFileWithManyInputs = errors.New("an output file name can only be given for a single input")

// Options configure a batch compile.
type Options struct {
	Compile    compiler.Options
	Output     OutputOptions
	Jobs       int
	Translator translate.Translator
	// Cache is optional; nil disables caching.
	Cache *Cache
	// Progress is optional.
	Progress buildpipeline.ProgressSink
	// Version salts cache keys.
	Version string
}

// FileResult is the outcome for one input.
type FileResult struct {
	Path   string
	FileID source.FileID
	Bag    *diag.Bag
	// Result is nil for cache hits and for files that failed to load.
	Result *compiler.Result
	// Written lists output files in the order they were written.
	Written []string
	Bytes   int64
	Cached  bool
	Timings buildpipeline.Timings
	// Err holds I/O failures; semantic problems live in Bag.
	Err error
}

// MaxSeverity is the highest severity reported for the file.
func (r *FileResult) MaxSeverity() diag.Severity {
	if r.Bag == nil {
		return diag.SevNone
	}
	return r.Bag.MaxSeverity()
}

// Batch holds all results in sorted path order.
type Batch struct {
	Files   *source.FileSet
	Results []FileResult
}

// MaxSeverity is the highest severity over every file.
func (b *Batch) MaxSeverity() diag.Severity {
	top := diag.SevNone
	for i := range b.Results {
		if s := b.Results[i].MaxSeverity(); s > top {
			top = s
		}
	}
	return top
}

// Err combines the I/O errors of every file.
func (b *Batch) Err() error {
	var err error
	for i := range b.Results {
		err = multierr.Append(err, b.Results[i].Err)
	}
	return err
}

// CompileFiles compiles every path. Per-file failures are recorded in the
// results and do not stop the batch; the error is for cancellation and
// invalid options.
func CompileFiles(ctx context.Context, paths []string, opts Options) (*Batch, error) {
	if opts.Output.File != "" && len(paths) > 1 {
		return nil, ErrOutputFileWithManyInputs
	}
	files := append([]string(nil), paths...)
	sort.Strings(files)

	// FileSet is not safe for concurrent use; load up front.
	fileSet := source.NewFileSet()
	ids := make([]source.FileID, len(files))
	loadErrs := make([]error, len(files))
	for i, path := range files {
		ids[i], loadErrs[i] = syntax.Load(fileSet, path)
	}

	batch := &Batch{Files: fileSet, Results: make([]FileResult, len(files))}
	if len(files) == 0 {
		return batch, nil
	}
	buildpipeline.Queued(opts.Progress, files)

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if opts.Translator == nil {
		opts.Translator = translate.Identity{}
	}

	// Results indices are unique per goroutine; no mutex needed.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := &batch.Results[i]
			res.Path = files[i]
			res.FileID = ids[i]
			res.Bag = diag.NewBag(opts.Compile.MaxDiagnostics)
			if loadErrs[i] != nil {
				res.Err = loadErrs[i]
				diag.ReportError(diag.BagReporter{Bag: res.Bag}, diag.IOReadFile, source.Location{},
					fmt.Sprintf("cannot read %s: %v", files[i], loadErrs[i])).Emit()
				buildpipeline.Report(opts.Progress, res.Path, buildpipeline.StageRead, buildpipeline.StatusError, loadErrs[i], 0)
				return nil
			}
			return compileFile(gctx, fileSet.Get(ids[i]), res, &opts)
		})
	}
	return batch, g.Wait()
}

type stageClock struct {
	res   *FileResult
	sink  buildpipeline.ProgressSink
	stage buildpipeline.Stage
	start time.Time
}

func (c *stageClock) enter(stage buildpipeline.Stage) {
	c.leave()
	c.stage, c.start = stage, time.Now()
	buildpipeline.Report(c.sink, c.res.Path, stage, buildpipeline.StatusWorking, nil, 0)
}

func (c *stageClock) leave() {
	if c.stage != "" {
		c.res.Timings.Add(c.stage, time.Since(c.start))
		c.stage = ""
	}
}

func (c *stageClock) finish() {
	stage := c.stage
	c.leave()
	status := buildpipeline.StatusDone
	if c.res.Err != nil || c.res.Bag.HasErrors() {
		status = buildpipeline.StatusError
	}
	buildpipeline.Report(c.sink, c.res.Path, stage, status, c.res.Err, c.res.Timings.Sum())
}

func compileFile(ctx context.Context, file *source.File, res *FileResult, opts *Options) error {
	log := logger.FromContext(ctx).With(zap.String("file", res.Path))
	reporter := diag.BagReporter{Bag: res.Bag}
	clock := &stageClock{res: res, sink: opts.Progress}
	defer clock.finish()

	clock.enter(buildpipeline.StageRead)
	key := CacheKey(file.Content, cacheSettings(res.Path, opts)...)
	if entry, ok, err := opts.Cache.Get(key); err != nil {
		log.Warn("ignoring unreadable cache entry", zap.Error(err))
	} else if ok {
		log.Debug("cache hit", zap.Uint64("key", key))
		res.Cached = true
		restoreDiagnostics(res.Bag, entry.Diagnostics, file.ID)
		writeOutputs(res, opts, entry.Extended, entry.Core, clock)
		return nil
	}

	tree, err := syntax.Decode(file)
	if err != nil {
		diag.ReportError(reporter, diag.IOParseTree, source.At(file.ID, source.Pos{}), err.Error()).Emit()
		return nil
	}

	clock.enter(buildpipeline.StageAnalyze)
	copts := opts.Compile
	copts.FileName = res.Path
	if opts.Output.SemanticsOnly {
		copts.SemanticsOnly = true
	}
	cres, err := compiler.Compile(logger.NewContextWithLogger(ctx, log), file.ID, tree, copts)
	if err != nil {
		return err
	}
	res.Result = cres
	res.Bag.Merge(cres.Bag)

	var epx, plx []byte
	if cres.Doc != nil && cres.OK() {
		clock.enter(buildpipeline.StageEmit)
		var buf bytes.Buffer
		if err := emit.Write(&buf, cres.Doc, opts.Output.Pretty); err != nil {
			return err
		}
		epx = buf.Bytes()
		if !opts.Output.EPXOnly {
			clock.enter(buildpipeline.StageTranslate)
			plx, err = opts.Translator.Translate(ctx, epx)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				diag.ReportError(reporter, diag.IOTranslate, source.Location{},
					fmt.Sprintf("translator %s failed: %v", opts.Translator.Name(), err)).Emit()
				plx = nil
			}
		}
	}

	if opts.Cache != nil && !res.Bag.HasFatal() {
		entry := &CacheEntry{
			Key:         key,
			Path:        res.Path,
			MaxSeverity: int8(res.Bag.MaxSeverity()),
			Diagnostics: cacheDiagnostics(res.Bag.Items(), file.ID),
			Extended:    epx,
			Core:        plx,
			Created:     time.Now().UTC(),
		}
		if err := opts.Cache.Put(entry); err != nil {
			log.Warn("cannot store cache entry", zap.Error(err))
		}
	}
	writeOutputs(res, opts, epx, plx, clock)
	return nil
}

// cacheSettings lists the inputs besides file content that shape the output.
func cacheSettings(path string, opts *Options) []string {
	o := opts.Output
	settings := []string{
		opts.Version,
		path,
		strconv.FormatBool(opts.Compile.Rewrite),
		strconv.FormatBool(o.Pretty),
		strconv.FormatBool(o.EPXOnly),
		strconv.FormatBool(o.SemanticsOnly),
		strconv.Itoa(opts.Compile.MaxDiagnostics),
	}
	if opts.Translator != nil {
		settings = append(settings, opts.Translator.Name())
		if c, ok := opts.Translator.(interface{ Args() []string }); ok {
			settings = append(settings, strings.Join(c.Args(), "\x1f"))
		}
	}
	return settings
}

// writeOutputs writes the documents unless the file has an ERROR or FATAL.
func writeOutputs(res *FileResult, opts *Options, epx, plx []byte, clock *stageClock) {
	if res.Bag.HasErrors() {
		return
	}
	outputs := []struct {
		ext  string
		data []byte
	}{
		{ExtendedExt, epx},
		{CoreExt, plx},
	}
	for _, out := range outputs {
		path := opts.Output.OutputPath(res.Path, out.ext)
		if path == "" || out.data == nil {
			continue
		}
		clock.enter(buildpipeline.StageWrite)
		if err := writeFile(path, out.data); err != nil {
			res.Err = multierr.Append(res.Err, err)
			diag.ReportError(diag.BagReporter{Bag: res.Bag}, diag.IOWriteFile, source.Location{}, err.Error()).Emit()
			continue
		}
		res.Written = append(res.Written, path)
		res.Bytes += int64(len(out.data))
	}
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
