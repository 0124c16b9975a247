// Package fuzztests houses Go fuzz harnesses for the front end: the tree
// reader and the full compile of a tree. They guard against panics and
// against trees left structurally broken by the passes.
//
// Depends on internal/source, internal/syntax, internal/compiler and
// internal/testkit.
package fuzztests
