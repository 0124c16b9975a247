// Package compiler runs the passes over one plan tree: build, early-bind,
// check, rewrite and emit.
package compiler

import (
	"context"
	"fmt"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"plexilc/internal/ast"
	"plexilc/internal/diag"
	"plexilc/internal/emit"
	"plexilc/internal/logger"
	"plexilc/internal/observ"
	"plexilc/internal/rewrite"
	"plexilc/internal/scope"
	"plexilc/internal/sema"
	"plexilc/internal/source"
	"plexilc/internal/syntax"
)

// Options configure one compilation.
type Options struct {
	// FileName is written to the PlexilPlan FileName attribute.
	FileName string
	// MaxDiagnostics bounds the bag; 0 keeps everything.
	MaxDiagnostics int
	// Rewrite enables operator chain flattening after a clean check.
	Rewrite bool
	// SemanticsOnly skips emission.
	SemanticsOnly bool
	Hints         scope.Hints
}

// DefaultOptions enables rewriting.
func DefaultOptions() Options { return Options{Rewrite: true} }

// Result is the outcome of one compilation. Doc is nil when emission did
// not run or a FATAL diagnostic was reported.
type Result struct {
	Bag         *diag.Bag
	Doc         *etree.Document
	MaxSeverity diag.Severity
	Timer       *observ.Timer
	Unit        *sema.Unit
	Rewrites    rewrite.Stats
}

// OK reports whether the result is free of ERROR and FATAL diagnostics.
func (r *Result) OK() bool { return r.MaxSeverity < diag.SevError }

// Compile analyses tree and, unless a FATAL stops it, renders the
// Extended-dialect document. Semantic problems are diagnostics in the
// result; the error is only for cancellation.
func Compile(ctx context.Context, file source.FileID, tree *syntax.Node, opts Options) (*Result, error) {
	if tree == nil {
		return nil, fmt.Errorf("compile: nil tree")
	}
	log := logger.FromContext(ctx).With(zap.String("file", opts.FileName))
	res := &Result{Bag: diag.NewBag(opts.MaxDiagnostics), Timer: observ.NewTimer()}
	defer func() { res.MaxSeverity = res.Bag.MaxSeverity() }()

	phase := res.Timer.Begin("build")
	var t *ast.Tree
	guarded(res.Bag, "build", func() { t = ast.Build(tree, file, diag.BagReporter{Bag: res.Bag}) })
	if res.Bag.HasFatal() {
		res.Timer.End(phase, "")
		return res, nil
	}
	res.Timer.End(phase, fmt.Sprintf("%d nodes", t.Len()))
	log.Debug("built tree", zap.Int("nodes", t.Len()))

	u := sema.NewUnit(t, res.Bag, sema.Options{Hints: opts.Hints})
	res.Unit = u
	steps := []struct {
		name string
		run  func(*sema.Unit)
	}{
		{"bind", sema.EarlyBind},
		{"check", sema.Check},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		phase = res.Timer.Begin(step.name)
		guarded(res.Bag, step.name, func() { step.run(u) })
		res.Timer.End(phase, "")
		log.Debug("pass finished", zap.String("pass", step.name), zap.Int("diagnostics", res.Bag.Len()))
		if u.Stopped() || res.Bag.HasFatal() {
			return res, nil
		}
	}

	if opts.Rewrite && !res.Bag.HasErrors() {
		phase = res.Timer.Begin("rewrite")
		guarded(res.Bag, "rewrite", func() { res.Rewrites = rewrite.Run(t, res.Bag) })
		res.Timer.End(phase, fmt.Sprintf("%d rewrites", res.Rewrites.Total()))
	}
	if opts.SemanticsOnly {
		return res, nil
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	if res.Bag.HasFatal() {
		return res, nil
	}
	phase = res.Timer.Begin("emit")
	var doc *etree.Document
	guarded(res.Bag, "emit", func() { doc = emit.Document(u, opts.FileName) })
	res.Timer.End(phase, "")
	if res.Bag.HasFatal() {
		log.Debug("emission stopped by a fatal diagnostic")
		return res, nil
	}
	res.Doc = doc
	log.Debug("compiled", append(res.Timer.Fields(), zap.Stringer("max_severity", res.Bag.MaxSeverity()))...)
	return res, nil
}

// guarded runs one pass, recording a panic as a FATAL diagnostic.
func guarded(bag *diag.Bag, pass string, run func()) {
	defer func() {
		if r := recover(); r != nil {
			bag.Add(diag.New(diag.SevFatal, diag.InternalPanic, source.Location{},
				fmt.Sprintf("Internal error in the %s pass: %v", pass, r)))
		}
	}()
	run()
}
