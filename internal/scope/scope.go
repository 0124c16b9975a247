// Package scope holds the scope tree of a plan and its Global Table:
// variables, mutexes, node ids and the command, state and library declarations.
package scope

import (
	"fmt"

	"fortio.org/safecast"

	"plexilc/internal/ast"
)

// Scope is the naming context of one plan node, or the Global Table.
type Scope struct {
	Parent ast.ScopeID
	// NodeName is the id of the Action that owns the scope; empty for the Global Table.
	NodeName string
	Node     ast.NodeID
	Global   bool

	Vars     []ast.VarID
	Mutexes  []ast.MutexID
	Using    []ast.MutexID
	Children []ast.ScopeID

	childIDs   map[string]ast.NodeID
	childOrder []string
}

// ChildIDs returns the registered child node ids in registration order.
func (s *Scope) ChildIDs() []string { return s.childOrder }

// Scopes stores every scope of a table; index 0 is reserved for NoScopeID.
type Scopes struct {
	data []Scope
}

// NewScopes creates an arena with an optional capacity hint.
func NewScopes(capacity uint32) *Scopes {
	if capacity == 0 {
		capacity = 32
	}
	return &Scopes{data: make([]Scope, 1, capacity+1)}
}

// New allocates a scope under parent.
func (s *Scopes) New(parent ast.ScopeID, nodeName string, node ast.NodeID, global bool) ast.ScopeID {
	value, err := safecast.Conv[uint32](len(s.data))
	if err != nil {
		panic(fmt.Errorf("scopes arena overflow: %w", err))
	}
	id := ast.ScopeID(value)
	s.data = append(s.data, Scope{
		Parent:   parent,
		NodeName: nodeName,
		Node:     node,
		Global:   global,
		childIDs: make(map[string]ast.NodeID),
	})
	if p := s.Get(parent); p != nil {
		p.Children = append(p.Children, id)
	}
	return id
}

// Get returns the scope pointer or nil if the ID is invalid.
func (s *Scopes) Get(id ast.ScopeID) *Scope {
	if !id.IsValid() || int(id) >= len(s.data) {
		return nil
	}
	return &s.data[id]
}

// Len reports the number of scopes excluding the sentinel.
func (s *Scopes) Len() int { return len(s.data) - 1 }
