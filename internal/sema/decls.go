package sema

import (
	"fmt"
	"strconv"

	"plexilc/internal/ast"
	"plexilc/internal/diag"
	"plexilc/internal/scope"
	"plexilc/internal/syntax"
	"plexilc/internal/types"
)

// typeForTag maps a type keyword to its type.
func typeForTag(tag syntax.Tag) (types.Type, bool) {
	if !tag.IsTypeKeyword() {
		return types.Invalid, false
	}
	return types.ParseName(tag.DefaultText())
}

// sizeOf binds an INT size leaf and returns its value; -1 when absent or invalid.
func (u *Unit) sizeOf(id ast.NodeID, sc ast.ScopeID) int64 {
	n := u.node(id)
	if n == nil || n.Kind != ast.KindIntLiteral {
		return -1
	}
	u.bind(id, sc)
	v, err := strconv.ParseInt(n.LitValue, 10, 64)
	if err != nil {
		return -1
	}
	return v
}

// paramShape is the decoded form of one parameter descriptor.
type paramShape struct {
	name     string
	nameNode ast.NodeID
	typ      types.Type
	maxSize  int64
	wildcard bool
	valid    bool
}

// decodeParam reads (typeKw NCNAME?), (ARRAY_TYPE typeKw INT NCNAME?) or ELLIPSIS.
func (u *Unit) decodeParam(spec ast.NodeID) paramShape {
	n := u.node(spec)
	out := paramShape{maxSize: -1}
	switch n.Kind {
	case ast.KindWildcard:
		out.wildcard, out.valid = true, true
		return out
	case ast.KindParamSpec:
		t, ok := typeForTag(n.Tag)
		out.typ, out.valid = t, ok
		if c := u.child(spec, 0); u.kind(c) == ast.KindName {
			out.name, out.nameNode = u.text(c), c
		}
	case ast.KindArrayParamSpec:
		elem, ok := typeForTag(u.tag(u.child(spec, 0)))
		out.valid = ok && (elem.IsDeclarable() || elem.Kind == types.KindAny)
		out.typ = types.ArrayOf(elem)
		out.maxSize = u.sizeOf(u.child(spec, 1), n.Scope)
		if out.maxSize < 0 && u.kind(u.child(spec, 1)) == ast.KindIntLiteral {
			u.errorf(diag.DeclNegativeArraySize, spec, "Array size must not be negative")
		}
		if c := u.child(spec, 2); u.kind(c) == ast.KindName {
			out.name, out.nameNode = u.text(c), c
		}
	}
	if out.nameNode == ast.NoNodeID {
		out.nameNode = spec
	}
	n.Type = out.typ
	n.MaxSize = out.maxSize
	return out
}

// bindParameters declares the descriptors under a PARAMETERS node as
// declaration parameters.
func (u *Unit) bindParameters(params ast.NodeID) (vars []ast.VarID, wildcard bool) {
	specs := u.children(params)
	seen := make(map[string]bool, len(specs))
	for i, spec := range specs {
		u.node(spec).Scope = u.Table.Global
		p := u.decodeParam(spec)
		if p.wildcard {
			if i != len(specs)-1 {
				u.errorf(diag.DeclWildcardNotLast, spec, "Wildcard (ellipsis) parameter must be the last parameter")
				continue
			}
			wildcard = true
			continue
		}
		if !p.valid {
			u.errorf(diag.DeclInvalidParameter, spec, "Invalid parameter descriptor %q", u.label(spec))
			p.name, p.typ = fmt.Sprintf("INVALID_PARM_%d", i), types.Any
		}
		if p.name != "" {
			if seen[p.name] {
				u.errorf(diag.DeclDuplicateParameter, p.nameNode, "Parameter name %q was used more than once", p.name)
			}
			seen[p.name] = true
		}
		v := u.Table.NewParameter(scope.Var{
			Name: p.name, Type: p.typ, MaxSize: p.maxSize, Kind: scope.VarParam, Decl: spec,
		})
		u.node(spec).Var = v
		vars = append(vars, v)
	}
	return vars, wildcard
}

// bindGlobalDecl handles command and state declarations.
func (u *Unit) bindGlobalDecl(id ast.NodeID) {
	n := u.node(id)
	if !u.need(id, 1) {
		return
	}
	nameNode := n.Children[0]
	d := scope.Decl{Category: scope.DeclCommand, Name: u.text(nameNode), Node: id}
	if n.Kind == ast.KindStateDecl {
		d.Category = scope.DeclState
	}
	for _, c := range n.Children[1:] {
		u.node(c).Scope = n.Scope
		switch u.kind(c) {
		case ast.KindReturnSpec:
			spec := u.child(c, 0)
			if spec == ast.NoNodeID {
				continue
			}
			u.node(spec).Scope = n.Scope
			p := u.decodeParam(spec)
			if !p.valid || p.wildcard {
				u.errorf(diag.DeclInvalidParameter, spec, "Invalid return type descriptor %q", u.label(spec))
				continue
			}
			d.Return = u.Table.NewParameter(scope.Var{
				Name: p.name, Type: p.typ, MaxSize: p.maxSize, Kind: scope.VarParam, Decl: spec,
			})
			u.node(spec).Var = d.Return
		case ast.KindParameters:
			d.Params, d.Wildcard = u.bindParameters(c)
		default:
			u.fatalf(diag.InternalMalformedTree, c, "Unexpected child %s in %s declaration", u.kind(c), d.Category)
			return
		}
	}
	if d.Category == scope.DeclState && !d.Return.IsValid() {
		u.errorf(diag.DeclInvalidParameter, id, "State %q has no return type", d.Name)
	}
	n.Decl = u.Table.Declare(d, nameNode)
}

// bindLibraryDecl handles (LIBRARY_NODE_DECLARATION NCNAME (LIBRARY_INTERFACE lparm*)?).
func (u *Unit) bindLibraryDecl(id ast.NodeID) {
	n := u.node(id)
	if !u.need(id, 1) {
		return
	}
	nameNode := n.Children[0]
	d := scope.Decl{Category: scope.DeclLibrary, Name: u.text(nameNode), Node: id}
	if iface := u.child(id, 1); iface != ast.NoNodeID {
		u.node(iface).Scope = n.Scope
		seen := make(map[string]bool)
		for _, lp := range u.children(iface) {
			if v := u.bindLibraryParam(lp, n.Scope, seen); v.IsValid() {
				d.Params = append(d.Params, v)
			}
		}
	}
	n.Decl = u.Table.Declare(d, nameNode)
}

// bindLibraryParam reads ((IN_KYWD|IN_OUT_KYWD) typeKw NCNAME INT? (INITIAL_VALUE expr)?).
func (u *Unit) bindLibraryParam(lp ast.NodeID, sc ast.ScopeID, seen map[string]bool) ast.VarID {
	n := u.node(lp)
	n.Scope = sc
	if n.Kind != ast.KindLibraryParam || !u.need(lp, 2) {
		u.fatalf(diag.InternalMalformedTree, lp, "Unexpected child %s in library interface", n.Kind)
		return ast.NoVarID
	}
	kind := scope.VarIn
	if n.Tag == syntax.TagInOut {
		kind = scope.VarInOut
	}
	typ, ok := typeForTag(u.tag(n.Children[0]))
	if !ok {
		u.errorf(diag.DeclInvalidParameter, lp, "Invalid parameter descriptor %q", u.label(n.Children[0]))
		typ = types.Any
	}
	nameNode := n.Children[1]
	name := u.text(nameNode)
	maxSize := int64(-1)
	init := ast.NoNodeID
	for _, c := range n.Children[2:] {
		switch u.kind(c) {
		case ast.KindIntLiteral:
			maxSize = u.sizeOf(c, sc)
			if maxSize < 0 {
				u.errorf(diag.DeclNegativeArraySize, c, "Array maximum size must not be negative")
			}
			typ = types.ArrayOf(typ)
		case ast.KindInitialValue:
			u.node(c).Scope = sc
			init = u.child(c, 0)
			u.bind(init, sc)
		}
	}
	if seen[name] {
		u.errorf(diag.DeclDuplicateParameter, nameNode, "Library parameter name %q was used more than once", name)
	}
	seen[name] = true
	if kind == scope.VarInOut && init != ast.NoNodeID {
		u.errorf(diag.DeclInOutDefault, init, "InOut parameter %q may not have a default value", name)
		init = ast.NoNodeID
	}
	v := u.Table.NewParameter(scope.Var{
		Name: name, Type: typ, MaxSize: maxSize, Kind: kind, Decl: lp, Init: init,
	})
	n.Var, n.Type, n.MaxSize = v, typ, maxSize
	return v
}

// checkLibraryDecl verifies default values against their parameter types.
func (u *Unit) checkLibraryDecl(id ast.NodeID) {
	d := u.Table.Decl(u.node(id).Decl)
	if d == nil || d.Node != id {
		return
	}
	for _, pid := range d.Params {
		p := u.Table.Var(pid)
		if p.Init == ast.NoNodeID {
			continue
		}
		if !u.assume(p.Init, p.Type) {
			u.errorf(diag.DeclInitialValueType, p.Init,
				"Default value for library parameter %q has type %s, but the parameter is declared as %s",
				p.Name, u.typeOf(p.Init), p.Type)
		}
	}
}

// bindMutexDecl declares each name of (MUTEX_KYWD NCNAME+) in sc.
func (u *Unit) bindMutexDecl(id ast.NodeID, sc ast.ScopeID) {
	for _, c := range u.children(id) {
		n := u.node(c)
		n.Scope = sc
		n.Mutex = u.Table.AddMutex(sc, n.Text, c)
	}
}

// bindUsing records (USING_KYWD NCNAME+) against sc.
func (u *Unit) bindUsing(id ast.NodeID, sc ast.ScopeID) {
	u.node(id).Scope = sc
	for _, c := range u.children(id) {
		n := u.node(c)
		n.Scope = sc
		n.Mutex = u.Table.UseMutex(sc, n.Text, c)
	}
}

// label is the node's text, or its tag's default text.
func (u *Unit) label(id ast.NodeID) string {
	n := u.node(id)
	if n == nil {
		return ""
	}
	if n.Text != "" {
		return n.Text
	}
	return n.Tag.DefaultText()
}
