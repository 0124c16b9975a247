package scope

import (
	"fmt"

	"plexilc/internal/ast"
	"plexilc/internal/diag"
	"plexilc/internal/source"
)

// Locator resolves AST nodes to source locations for diagnostics.
type Locator interface {
	Loc(id ast.NodeID) source.Location
}

// Hints provide optional capacity suggestions for the table arenas.
type Hints struct{ Scopes, Vars uint32 }

// Table owns the scope tree of one compilation. Its root scope is the Global Table.
type Table struct {
	Scopes  *Scopes
	Vars    *Vars
	Mutexes *Mutexes
	Decls   *Decls
	Global  ast.ScopeID

	loc       Locator
	reporter  diag.Reporter
	commands  map[string]ast.DeclID
	states    map[string]ast.DeclID
	libraries map[string]ast.DeclID
	order     []ast.DeclID
	generated int
}

// NewTable builds a table with an empty Global Table scope.
func NewTable(h Hints, loc Locator, r diag.Reporter) *Table {
	t := &Table{
		Scopes:    NewScopes(h.Scopes),
		Vars:      NewVars(h.Vars),
		Mutexes:   NewMutexes(0),
		Decls:     NewDecls(0),
		loc:       loc,
		reporter:  r,
		commands:  make(map[string]ast.DeclID),
		states:    make(map[string]ast.DeclID),
		libraries: make(map[string]ast.DeclID),
	}
	t.Global = t.Scopes.New(ast.NoScopeID, "", ast.NoNodeID, true)
	return t
}

// NewScope opens a scope for the plan node named nodeName.
func (t *Table) NewScope(parent ast.ScopeID, nodeName string, node ast.NodeID) ast.ScopeID {
	return t.Scopes.New(parent, nodeName, node, false)
}

// Scope returns the scope for id.
func (t *Table) Scope(id ast.ScopeID) *Scope { return t.Scopes.Get(id) }

// Var returns the variable for id.
func (t *Table) Var(id ast.VarID) *Var { return t.Vars.Get(id) }

// Mutex returns the mutex for id.
func (t *Table) Mutex(id ast.MutexID) *Mutex { return t.Mutexes.Get(id) }

// Decl returns the global declaration for id.
func (t *Table) Decl(id ast.DeclID) *Decl { return t.Decls.Get(id) }

// IsRoot reports the scope of the plan's top-level node.
func (t *Table) IsRoot(id ast.ScopeID) bool {
	s := t.Scope(id)
	if s == nil || s.Global {
		return false
	}
	p := t.Scope(s.Parent)
	return p != nil && p.Global
}

// GenerateNodeID returns a fresh "<prefix>__<n>" id from the table's counter.
func (t *Table) GenerateNodeID(prefix string) string {
	id := fmt.Sprintf("%s__%d", prefix, t.generated)
	t.generated++
	return id
}

func (t *Table) at(id ast.NodeID) source.Location {
	if t.loc == nil {
		return source.Location{}
	}
	return t.loc.Loc(id)
}

func (t *Table) report(sev diag.Severity, code diag.Code, at ast.NodeID, msg string) *diag.ReportBuilder {
	return diag.NewReportBuilder(t.reporter, sev, code, t.at(at), msg)
}
