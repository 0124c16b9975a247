// Package testkit holds helpers shared by package tests: fixture
// compilation and structural invariant checks over trees and scopes.
package testkit

import (
	"bytes"
	"fmt"

	"fortio.org/safecast"

	"plexilc/internal/ast"
	"plexilc/internal/scope"
	"plexilc/internal/source"
)

// CheckTreeInvariants verifies the nodes reachable from the root:
// 1) every child's Parent points back at the node listing it
// 2) no node is reachable twice
// 3) every child id refers to an allocated node
func CheckTreeInvariants(tree *ast.Tree) error {
	if tree == nil {
		return fmt.Errorf("nil tree")
	}
	if tree.Node(tree.Root) == nil {
		return fmt.Errorf("root %d is not allocated", tree.Root)
	}
	seen := make(map[ast.NodeID]bool, tree.Len())
	var err error
	tree.Walk(tree.Root, func(id ast.NodeID) bool {
		if err != nil {
			return false
		}
		if seen[id] {
			err = fmt.Errorf("node %d is reachable twice", id)
			return false
		}
		seen[id] = true
		for _, c := range tree.Node(id).Children {
			cn := tree.Node(c)
			if cn == nil {
				err = fmt.Errorf("node %d lists unallocated child %d", id, c)
				return false
			}
			if cn.Parent != id {
				err = fmt.Errorf("%s node %d has parent %d, listed under %d", cn.Kind, c, cn.Parent, id)
				return false
			}
		}
		return true
	})
	return err
}

// CheckPositions verifies that every known position lies inside the file.
func CheckPositions(tree *ast.Tree, sf *source.File) error {
	if tree == nil || sf == nil {
		return fmt.Errorf("nil tree or file")
	}
	lines, err := safecast.Conv[uint32](bytes.Count(sf.Content, []byte("\n")) + 1)
	if err != nil {
		return fmt.Errorf("line count overflow: %w", err)
	}
	var bad error
	tree.Walk(tree.Root, func(id ast.NodeID) bool {
		if p := tree.Node(id).Pos; p.IsValid() && p.Line > lines && bad == nil {
			bad = fmt.Errorf("node %d at %s is past the last line %d", id, p, lines)
		}
		return bad == nil
	})
	return bad
}

// CheckScopeInvariants verifies the scope arena:
// 1) each listed child scope names its parent
// 2) each variable belongs to the scope listing it
// 3) only the Global Table is global and it has no parent
func CheckScopeInvariants(t *scope.Table) error {
	if t == nil {
		return fmt.Errorf("nil table")
	}
	for i := 1; i <= t.Scopes.Len(); i++ {
		value, err := safecast.Conv[uint32](i)
		if err != nil {
			return err
		}
		id := ast.ScopeID(value)
		s := t.Scope(id)
		if s.Global != (id == t.Global) {
			return fmt.Errorf("scope %d: global flag %v disagrees with the table", id, s.Global)
		}
		if s.Global && s.Parent != ast.NoScopeID {
			return fmt.Errorf("global scope %d has parent %d", id, s.Parent)
		}
		for _, c := range s.Children {
			if cs := t.Scope(c); cs == nil || cs.Parent != id {
				return fmt.Errorf("scope %d lists child %d that does not point back", id, c)
			}
		}
		for _, v := range s.Vars {
			if vv := t.Var(v); vv == nil || vv.Scope != id {
				return fmt.Errorf("scope %d lists variable %d owned elsewhere", id, v)
			}
		}
	}
	return nil
}
