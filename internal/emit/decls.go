package emit

import (
	"github.com/beevik/etree"

	"plexilc/internal/ast"
	"plexilc/internal/syntax"
)

func (e *Emitter) globalDecls(id ast.NodeID) *etree.Element {
	el := e.located("GlobalDeclarations", id)
	for _, c := range e.children(id) {
		if e.kind(c) == ast.KindMutexDecl {
			for _, m := range e.children(c) {
				el.AddChild(e.declareMutex(m))
			}
			continue
		}
		e.add(el, c)
	}
	return el
}

// commandOrStateDecl renders <CommandDeclaration> or <StateDeclaration>.
func (e *Emitter) commandOrStateDecl(id ast.NodeID) *etree.Element {
	tag := "CommandDeclaration"
	if e.kind(id) == ast.KindStateDecl {
		tag = "StateDeclaration"
	}
	el := e.located(tag, id)
	textElement(el, "Name", e.node(e.child(id, 0)).Text)
	for _, c := range e.children(id)[1:] {
		switch e.kind(c) {
		case ast.KindReturnSpec:
			if spec := e.child(c, 0); spec != ast.NoNodeID {
				e.paramSpec(el.CreateElement("Return"), spec)
			}
		case ast.KindParameters:
			for _, spec := range e.children(c) {
				if e.kind(spec) == ast.KindWildcard {
					el.CreateElement("AnyParameters")
					continue
				}
				e.paramSpec(el.CreateElement("Parameter"), spec)
			}
		}
	}
	return el
}

// paramSpec fills <Name>?<Type><MaxSize>? from a bound descriptor.
func (e *Emitter) paramSpec(el *etree.Element, spec ast.NodeID) {
	n := e.node(spec)
	for _, c := range n.Children {
		if e.kind(c) == ast.KindName {
			textElement(el, "Name", e.node(c).Text)
		}
	}
	typ := n.Type
	if typ.IsArray() {
		typ = typ.ElemType()
	}
	textElement(el, "Type", typ.String())
	if n.Type.IsArray() && n.MaxSize >= 0 {
		textElement(el, "MaxSize", itoa(n.MaxSize))
	}
}

// libraryDecl renders <LibraryNodeDeclaration> with one In or InOut
// wrapper per parameter, in declaration order.
func (e *Emitter) libraryDecl(id ast.NodeID) *etree.Element {
	el := e.located("LibraryNodeDeclaration", id)
	textElement(el, "Name", e.node(e.child(id, 0)).Text)
	iface := e.child(id, 1)
	if iface == ast.NoNodeID {
		return el
	}
	ie := el.CreateElement("Interface")
	for _, lp := range e.children(iface) {
		n := e.node(lp)
		dir := ie.CreateElement(directionName(n.Tag))
		tag, typ := "DeclareVariable", n.Type
		if typ.IsArray() {
			tag, typ = "DeclareArray", typ.ElemType()
		}
		decl := dir.CreateElement(tag)
		e.locate(decl, lp)
		textElement(decl, "Name", e.node(e.child(lp, 1)).Text)
		textElement(decl, "Type", typ.String())
		if n.Type.IsArray() {
			textElement(decl, "MaxSize", itoa(n.MaxSize))
		}
		for _, c := range n.Children[2:] {
			if e.kind(c) == ast.KindInitialValue && n.Tag != syntax.TagInOut {
				e.initialValue(decl, e.child(c, 0), n.Type)
			}
		}
	}
	return el
}
