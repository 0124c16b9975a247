// Package emit renders a checked plan as an Extended-dialect XML document.
//
// Every node renders at most once; the element is memoized on the AST node
// so that a parent may hoist or splice a child's fragment after the fact.
package emit

import (
	"fmt"
	"io"
	"strconv"

	"github.com/beevik/etree"

	"plexilc/internal/ast"
	"plexilc/internal/diag"
	"plexilc/internal/sema"
	"plexilc/internal/types"
)

// Emitter renders the nodes of one unit.
type Emitter struct {
	u    *sema.Unit
	tree *ast.Tree
}

func New(u *sema.Unit) *Emitter {
	return &Emitter{u: u, tree: u.Tree}
}

// Document builds <PlexilPlan FileName=...> holding the global
// declarations and the root node.
func (e *Emitter) Document(fileName string) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	plan := doc.CreateElement("PlexilPlan")
	plan.CreateAttr("FileName", fileName)
	for _, c := range e.children(e.tree.Root) {
		if el := e.Render(c); el != nil {
			plan.AddChild(el)
		}
	}
	return doc
}

// Document is a shorthand for New(u).Document(fileName).
func Document(u *sema.Unit, fileName string) *etree.Document {
	return New(u).Document(fileName)
}

// Write serialises doc, indented by two spaces when pretty.
func Write(w io.Writer, doc *etree.Document, pretty bool) error {
	if pretty {
		doc.Indent(2)
	} else {
		doc.Unindent()
	}
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write plan document: %w", err)
	}
	return nil
}

// Render returns the element for id, building it on first use.
func (e *Emitter) Render(id ast.NodeID) *etree.Element {
	n := e.tree.Node(id)
	if n == nil {
		return nil
	}
	if n.Rendered == nil {
		n.Rendered = e.build(id)
	}
	return n.Rendered
}

func (e *Emitter) build(id ast.NodeID) *etree.Element {
	n := e.node(id)
	switch n.Kind {
	case ast.KindGlobalDecls:
		return e.globalDecls(id)
	case ast.KindCommandDecl, ast.KindStateDecl:
		return e.commandOrStateDecl(id)
	case ast.KindLibraryDecl:
		return e.libraryDecl(id)
	case ast.KindAction:
		return e.action(id)
	case ast.KindBlock:
		return e.block(id)
	case ast.KindComment:
		return e.comment(id)
	case ast.KindCondition:
		el := e.located(n.Text, id)
		e.add(el, e.child(id, 0))
		return el
	case ast.KindPriority:
		el := e.located("Priority", id)
		el.SetText(e.node(e.child(id, 0)).LitValue)
		return el
	case ast.KindResource:
		return e.resource(id)
	case ast.KindAssignment:
		return e.assignment(id)
	case ast.KindCommand:
		return e.command(id)
	case ast.KindArgumentList:
		el := e.located("Arguments", id)
		e.addAll(el, e.children(id))
		return el
	case ast.KindLibraryCall:
		return e.libraryCall(id)
	case ast.KindUpdate:
		return e.update(id)
	case ast.KindWait:
		return e.wait(id)
	case ast.KindSyncCommand:
		return e.syncCommand(id)
	case ast.KindIf:
		return e.ifNode(id)
	case ast.KindWhile:
		return e.while(id)
	case ast.KindFor:
		return e.forNode(id)
	case ast.KindOnCommand:
		return e.onCommand(id)
	case ast.KindOnMessage:
		return e.onMessage(id)
	case ast.KindIntLiteral, ast.KindRealLiteral, ast.KindBoolLiteral, ast.KindStringLiteral,
		ast.KindDateLiteral, ast.KindDurationLiteral, ast.KindInternalLiteral:
		return e.literal(id)
	case ast.KindArrayLiteral:
		return e.arrayLiteral(id, e.node(id).Type.ElemType().String())
	case ast.KindVariableRef:
		el := e.located(e.declaredType(id).ElementPrefix()+"Variable", id)
		el.SetText(n.Text)
		return el
	case ast.KindArrayRef:
		return e.arrayRef(id)
	case ast.KindArith, ast.KindNegate, ast.KindFunction, ast.KindCompare, ast.KindLogical, ast.KindNot:
		return e.operator(id)
	case ast.KindLookup:
		return e.lookup(id)
	case ast.KindNodeVar:
		return e.nodeVar(id)
	case ast.KindTimepoint:
		return e.timepoint(id)
	case ast.KindPlan, ast.KindMutexDecl, ast.KindReturnSpec, ast.KindParameters, ast.KindParamSpec,
		ast.KindArrayParamSpec, ast.KindWildcard, ast.KindLibraryInterface, ast.KindLibraryParam,
		ast.KindInitialValue, ast.KindTypeName, ast.KindName, ast.KindInterfaceDecl, ast.KindVarDecls,
		ast.KindVarDecl, ast.KindArrayVarDecl, ast.KindUsing, ast.KindResourceOption, ast.KindCommandName,
		ast.KindAliases, ast.KindAlias, ast.KindPair, ast.KindChecked, ast.KindElseIf, ast.KindElse,
		ast.KindStateName, ast.KindTimepointKeyword, ast.KindNodeRef:
		e.fatal(id, "%s has no XML form of its own", n.Kind)
	default:
		e.fatal(id, "Emitting does not handle node kind %s", n.Kind)
	}
	return nil
}

func (e *Emitter) fatal(id ast.NodeID, format string, args ...interface{}) {
	diag.ReportFatal(e.u.Reporter(), diag.InternalEmit, e.tree.Loc(id), fmt.Sprintf(format, args...)).Emit()
}

func (e *Emitter) node(id ast.NodeID) *ast.Node { return e.tree.Node(id) }

// declaredType is the type a variable reference was declared with. Widening
// changes only the expression type.
func (e *Emitter) declaredType(id ast.NodeID) types.Type {
	n := e.node(id)
	if n.Var.IsValid() {
		if v := e.u.Table.Var(n.Var); v != nil {
			return v.Type
		}
	}
	return n.Type
}

func (e *Emitter) child(id ast.NodeID, i int) ast.NodeID { return e.tree.Child(id, i) }

func (e *Emitter) kind(id ast.NodeID) ast.Kind { return e.tree.Kind(id) }

func (e *Emitter) children(id ast.NodeID) []ast.NodeID {
	if n := e.node(id); n != nil {
		return n.Children
	}
	return nil
}

// locate sets LineNo and ColNo from id's position, if it has one.
func (e *Emitter) locate(el *etree.Element, id ast.NodeID) {
	n := e.node(id)
	if n == nil || n.Pos.Line == 0 {
		return
	}
	el.CreateAttr("LineNo", strconv.FormatUint(uint64(n.Pos.Line), 10))
	el.CreateAttr("ColNo", strconv.FormatUint(uint64(n.Pos.Col), 10))
}

// located creates a detached element carrying id's position.
func (e *Emitter) located(tag string, id ast.NodeID) *etree.Element {
	el := etree.NewElement(tag)
	e.locate(el, id)
	return el
}

// add appends the rendering of id to el, skipping absent nodes.
func (e *Emitter) add(el *etree.Element, id ast.NodeID) {
	if c := e.Render(id); c != nil {
		el.AddChild(c)
	}
}

func (e *Emitter) addAll(el *etree.Element, ids []ast.NodeID) {
	for _, id := range ids {
		e.add(el, id)
	}
}

// wrap appends <tag>rendering of id</tag> to el.
func (e *Emitter) wrap(el *etree.Element, tag string, id ast.NodeID) *etree.Element {
	w := el.CreateElement(tag)
	e.add(w, id)
	return w
}

func textElement(parent *etree.Element, tag, text string) *etree.Element {
	el := parent.CreateElement(tag)
	el.SetText(text)
	return el
}

// insertBefore places child before mark, or last when mark is nil.
func insertBefore(parent, child, mark *etree.Element) {
	if mark == nil {
		parent.AddChild(child)
		return
	}
	parent.InsertChildAt(mark.Index(), child)
}
