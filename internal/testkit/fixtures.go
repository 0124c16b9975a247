package testkit

import (
	"testing"

	"plexilc/internal/ast"
	"plexilc/internal/diag"
	"plexilc/internal/sema"
	"plexilc/internal/source"
	"plexilc/internal/syntax"
)

// FixtureFile is the file id given to fixtures.
const FixtureFile source.FileID = 1

// Analyze reads src, builds the tree and runs both semantic passes.
func Analyze(tb testing.TB, src string) (*sema.Unit, *diag.Bag) {
	tb.Helper()
	root, err := syntax.ReadString(src)
	if err != nil {
		tb.Fatalf("read fixture: %v", err)
	}
	bag := diag.NewBag(0)
	tree := ast.Build(root, FixtureFile, diag.BagReporter{Bag: bag})
	u := sema.NewUnit(tree, bag, sema.Options{})
	sema.Analyze(u)
	return u, bag
}

// MustAnalyze is Analyze that fails the test on any ERROR or FATAL.
func MustAnalyze(tb testing.TB, src string) *sema.Unit {
	tb.Helper()
	u, bag := Analyze(tb, src)
	if bag.HasErrors() {
		tb.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	return u
}

// Messages lists the messages in bag in report order.
func Messages(bag *diag.Bag) []string {
	items := bag.Items()
	out := make([]string, len(items))
	for i, d := range items {
		out[i] = d.Message
	}
	return out
}
