package scope

import (
	"fmt"

	"fortio.org/safecast"

	"plexilc/internal/ast"
)

// DeclCategory distinguishes the global declaration namespaces.
type DeclCategory uint8

const (
	DeclCommand DeclCategory = iota
	DeclState
	DeclLibrary
)

func (c DeclCategory) String() string {
	switch c {
	case DeclCommand:
		return "Command"
	case DeclState:
		return "Lookup"
	case DeclLibrary:
		return "Library node"
	default:
		return "invalid"
	}
}

// Decl is a global command, state or library node declaration.
type Decl struct {
	Category DeclCategory
	Name     string
	Params   []ast.VarID
	// Return is NoVarID for commands without a return value and for libraries.
	Return   ast.VarID
	Wildcard bool
	Node     ast.NodeID
}

// Decls stores declarations; index 0 is reserved for NoDeclID.
type Decls struct {
	data []Decl
}

func NewDecls(capacity uint32) *Decls {
	if capacity == 0 {
		capacity = 16
	}
	return &Decls{data: make([]Decl, 1, capacity+1)}
}

func (ds *Decls) New(d Decl) ast.DeclID {
	value, err := safecast.Conv[uint32](len(ds.data))
	if err != nil {
		panic(fmt.Errorf("decls arena overflow: %w", err))
	}
	ds.data = append(ds.data, d)
	return ast.DeclID(value)
}

func (ds *Decls) Get(id ast.DeclID) *Decl {
	if !id.IsValid() || int(id) >= len(ds.data) {
		return nil
	}
	return &ds.data[id]
}

func (ds *Decls) Len() int { return len(ds.data) - 1 }
