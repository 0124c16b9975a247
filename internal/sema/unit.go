// Package sema runs the two analysis passes over a plan: early-bind
// (pre-order, declarations and scopes) and check (post-order, types and
// structural constraints).
package sema

import (
	"fmt"

	"plexilc/internal/ast"
	"plexilc/internal/diag"
	"plexilc/internal/scope"
	"plexilc/internal/source"
	"plexilc/internal/syntax"
	"plexilc/internal/types"
)

// Options configure a semantic pass over one plan.
type Options struct {
	Hints scope.Hints
	// Reporter receives every diagnostic in addition to the unit's Bag.
	Reporter diag.Reporter
}

// Unit is the state of one compilation: the tree, its scope table and the
// diagnostics collected so far.
type Unit struct {
	Tree  *ast.Tree
	Table *scope.Table
	Bag   *diag.Bag
	File  source.FileID
	Opts  Options

	reporter diag.Reporter
	stopped  bool
}

// NewUnit prepares a unit for tree. A nil bag gets an unbounded one.
func NewUnit(tree *ast.Tree, bag *diag.Bag, opts Options) *Unit {
	if bag == nil {
		bag = diag.NewBag(0)
	}
	u := &Unit{Tree: tree, Bag: bag, File: tree.File, Opts: opts}
	u.reporter = &fatalWatch{next: diag.BagReporter{Bag: bag}, tee: opts.Reporter, unit: u}
	u.Table = scope.NewTable(opts.Hints, tree, u.reporter)
	return u
}

// Reporter returns the sink that records into the unit's bag.
func (u *Unit) Reporter() diag.Reporter { return u.reporter }

// Stopped reports whether a FATAL diagnostic ended the current pass.
func (u *Unit) Stopped() bool { return u.stopped || u.Bag.HasFatal() }

// Resume clears the stop flag so a later pass may run.
func (u *Unit) Resume() { u.stopped = false }

// fatalWatch forwards diagnostics and stops the pass on the first FATAL.
type fatalWatch struct {
	next diag.Reporter
	tee  diag.Reporter
	unit *Unit
}

func (w *fatalWatch) Report(code diag.Code, sev diag.Severity, primary source.Location, msg string, notes []diag.Note) {
	w.next.Report(code, sev, primary, msg, notes)
	if w.tee != nil {
		w.tee.Report(code, sev, primary, msg, notes)
	}
	if sev >= diag.SevFatal {
		w.unit.stopped = true
	}
}

// Analyze runs early-bind then check. Check is skipped after a FATAL.
func Analyze(u *Unit) {
	EarlyBind(u)
	if u.Stopped() {
		return
	}
	Check(u)
}

func (u *Unit) node(id ast.NodeID) *ast.Node { return u.Tree.Node(id) }

func (u *Unit) child(id ast.NodeID, i int) ast.NodeID { return u.Tree.Child(id, i) }

func (u *Unit) children(id ast.NodeID) []ast.NodeID {
	if n := u.node(id); n != nil {
		return n.Children
	}
	return nil
}

func (u *Unit) kind(id ast.NodeID) ast.Kind { return u.Tree.Kind(id) }

func (u *Unit) text(id ast.NodeID) string {
	if n := u.node(id); n != nil {
		return n.Text
	}
	return ""
}

// typeOf returns the recorded type of an expression, Error when absent.
func (u *Unit) typeOf(id ast.NodeID) types.Type {
	n := u.node(id)
	if n == nil || !n.Type.IsValid() {
		return types.Error
	}
	return n.Type
}

func (u *Unit) setType(id ast.NodeID, t types.Type) {
	if n := u.node(id); n != nil {
		n.Type = t
	}
}

func (u *Unit) loc(id ast.NodeID) source.Location { return u.Tree.Loc(id) }

func (u *Unit) report(sev diag.Severity, code diag.Code, at ast.NodeID, format string, args ...interface{}) *diag.ReportBuilder {
	return diag.NewReportBuilder(u.reporter, sev, code, u.loc(at), fmt.Sprintf(format, args...))
}

func (u *Unit) errorf(code diag.Code, at ast.NodeID, format string, args ...interface{}) {
	u.report(diag.SevError, code, at, format, args...).Emit()
}

func (u *Unit) warnf(code diag.Code, at ast.NodeID, format string, args ...interface{}) {
	u.report(diag.SevWarning, code, at, format, args...).Emit()
}

func (u *Unit) fatalf(code diag.Code, at ast.NodeID, format string, args ...interface{}) {
	u.report(diag.SevFatal, code, at, format, args...).Emit()
}

// need reports a malformed tree when id has fewer than n children.
func (u *Unit) need(id ast.NodeID, n int) bool {
	if u.Tree.ChildCount(id) >= n {
		return true
	}
	u.fatalf(diag.InternalMalformedTree, id, "%s node has %d children, expected at least %d",
		u.kind(id), u.Tree.ChildCount(id), n)
	return false
}

// actionOf returns the Action that owns a body node, NoNodeID otherwise.
func (u *Unit) actionOf(body ast.NodeID) ast.NodeID {
	n := u.node(body)
	if n == nil || u.kind(n.Parent) != ast.KindAction {
		return ast.NoNodeID
	}
	return n.Parent
}

// nodeName is the id of the plan node a scope-opening body belongs to.
func (u *Unit) nodeName(body ast.NodeID) string {
	if a := u.node(u.actionOf(body)); a != nil {
		return a.NodeName
	}
	return ""
}

func (u *Unit) tag(id ast.NodeID) syntax.Tag {
	if n := u.node(id); n != nil {
		return n.Tag
	}
	return syntax.TagInvalid
}
