package emit

import (
	"strconv"

	"github.com/beevik/etree"

	"plexilc/internal/ast"
	"plexilc/internal/syntax"
	"plexilc/internal/types"
)

func itoa(v int64) string { return strconv.FormatInt(v, 10) }

var internalValueNames = map[syntax.Tag]string{
	syntax.TagNodeStateValue:     "NodeStateValue",
	syntax.TagNodeOutcomeValue:   "NodeOutcomeValue",
	syntax.TagNodeFailureValue:   "NodeFailureValue",
	syntax.TagCommandHandleValue: "NodeCommandHandleValue",
}

// literal renders <TypeValue>; literals carry no locators.
func (e *Emitter) literal(id ast.NodeID) *etree.Element {
	n := e.node(id)
	name := n.Type.ElementPrefix() + "Value"
	if n.Kind == ast.KindInternalLiteral {
		name = internalValueNames[n.Tag]
	}
	el := etree.NewElement(name)
	el.SetText(n.LitValue)
	return el
}

func (e *Emitter) arrayLiteral(id ast.NodeID, elem string) *etree.Element {
	el := etree.NewElement("ArrayValue")
	el.CreateAttr("Type", elem)
	e.addAll(el, e.children(id))
	return el
}

func (e *Emitter) arrayRef(id ast.NodeID) *etree.Element {
	el := e.located("ArrayElement", id)
	e.add(el, e.child(id, 0))
	e.wrap(el, "Index", e.child(id, 1))
	return el
}

var operatorNames = map[syntax.Tag]string{
	syntax.TagMinus:        "SUB",
	syntax.TagAsterisk:     "MUL",
	syntax.TagSlash:        "DIV",
	syntax.TagPercent:      "MOD",
	syntax.TagMax:          "MAX",
	syntax.TagMin:          "MIN",
	syntax.TagUnaryMinus:   "SUB",
	syntax.TagAbs:          "ABS",
	syntax.TagSqrt:         "SQRT",
	syntax.TagCeil:         "CEIL",
	syntax.TagFloor:        "FLOOR",
	syntax.TagRound:        "ROUND",
	syntax.TagTrunc:        "TRUNC",
	syntax.TagRealToInt:    "RealToInteger",
	syntax.TagStrlen:       "STRLEN",
	syntax.TagIsKnown:      "IsKnown",
	syntax.TagArraySize:    "ArraySize",
	syntax.TagArrayMaxSize: "ArrayMaxSize",
	syntax.TagAllKnown:     "AllElementsKnown",
	syntax.TagAnyKnown:     "AnyElementsKnown",
	syntax.TagLess:         "LT",
	syntax.TagLessEq:       "LE",
	syntax.TagGreater:      "GT",
	syntax.TagGreaterEq:    "GE",
	syntax.TagAnd:          "AND",
	syntax.TagOr:           "OR",
	syntax.TagXor:          "XOR",
	syntax.TagNot:          "NOT",
}

// operatorName maps an operator node to its element name.
func (e *Emitter) operatorName(id ast.NodeID) string {
	n := e.node(id)
	switch n.Tag {
	case syntax.TagPlus:
		if n.Type.Kind == types.KindString {
			return "Concat"
		}
		return "ADD"
	case syntax.TagEquals:
		return "EQ" + e.u.CompareFamily(id).Suffix()
	case syntax.TagNotEquals:
		return "NE" + e.u.CompareFamily(id).Suffix()
	}
	if name, ok := operatorNames[n.Tag]; ok {
		return name
	}
	return n.Text
}

func (e *Emitter) operator(id ast.NodeID) *etree.Element {
	el := e.located(e.operatorName(id), id)
	e.addAll(el, e.children(id))
	return el
}

// lookup renders <LookupNow|LookupOnChange|Lookup>.
func (e *Emitter) lookup(id ast.NodeID) *etree.Element {
	el := e.located(e.node(id).Text, id)
	first := e.child(id, 0)
	name := el.CreateElement("Name")
	if e.kind(first) == ast.KindStateName {
		textElement(name, "StringValue", e.node(e.child(first, 0)).Text)
	} else {
		e.add(name, first)
	}
	if tol := e.u.LookupTolerance(id); tol != ast.NoNodeID {
		e.wrap(el, "Tolerance", tol)
	}
	for _, c := range e.children(id)[1:] {
		if e.kind(c) == ast.KindArgumentList {
			e.add(el, c)
		}
	}
	return el
}

var nodeVarNames = map[syntax.Tag]string{
	syntax.TagNodeStateVariable:     "NodeStateVariable",
	syntax.TagNodeOutcomeVariable:   "NodeOutcomeVariable",
	syntax.TagNodeFailureVariable:   "NodeFailureVariable",
	syntax.TagCommandHandleVariable: "NodeCommandHandleVariable",
}

func (e *Emitter) nodeVar(id ast.NodeID) *etree.Element {
	el := e.located(nodeVarNames[e.node(id).Tag], id)
	el.AddChild(e.nodeRef(e.child(id, 0)))
	return el
}

// nodeRef renders <NodeId> for a name, <NodeRef dir=...> for Self and Parent.
func (e *Emitter) nodeRef(id ast.NodeID) *etree.Element {
	n := e.node(id)
	switch n.Tag {
	case syntax.TagSelf:
		el := etree.NewElement("NodeRef")
		el.CreateAttr("dir", "self")
		return el
	case syntax.TagParent:
		el := etree.NewElement("NodeRef")
		el.CreateAttr("dir", "parent")
		return el
	}
	el := etree.NewElement("NodeId")
	el.SetText(n.Text)
	return el
}

func (e *Emitter) timepoint(id ast.NodeID) *etree.Element {
	el := e.located("NodeTimepointValue", id)
	el.AddChild(e.nodeRef(e.child(id, 0)))
	textElement(el, "NodeStateValue", e.node(e.child(id, 1)).Text)
	textElement(el, "Timepoint", e.node(e.child(id, 2)).Text)
	return el
}
