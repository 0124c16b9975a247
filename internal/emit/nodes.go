package emit

import (
	"github.com/beevik/etree"

	"plexilc/internal/ast"
	"plexilc/internal/syntax"
	"plexilc/internal/types"
)

// action renders the body and puts the node id in front of it, unless the
// body already carries one from a hoisted child.
func (e *Emitter) action(id ast.NodeID) *etree.Element {
	body := e.u.Body(id)
	el := e.Render(body)
	if el == nil {
		return nil
	}
	if first := firstChildElement(el); first != nil && first.Tag == "NodeId" {
		return el
	}
	nodeID := etree.NewElement("NodeId")
	nodeID.SetText(e.node(id).NodeName)
	el.InsertChildAt(0, nodeID)
	e.locate(el, id)
	return el
}

func firstChildElement(el *etree.Element) *etree.Element {
	if kids := el.ChildElements(); len(kids) > 0 {
		return kids[0]
	}
	return nil
}

// simpleBodies are the bodies a one-action block collapses into.
var simpleBodies = map[ast.Kind]bool{
	ast.KindAssignment:  true,
	ast.KindCommand:     true,
	ast.KindUpdate:      true,
	ast.KindLibraryCall: true,
	ast.KindIf:          true,
	ast.KindFor:         true,
	ast.KindWhile:       true,
	ast.KindOnCommand:   true,
	ast.KindOnMessage:   true,
	ast.KindSyncCommand: true,
}

// isSimple reports whether the block hoists its only action in place of
// a Sequence wrapper.
func (e *Emitter) isSimple(id ast.NodeID, actions []ast.NodeID) bool {
	n := e.node(id)
	if n.Tag == syntax.TagConcurrence || n.Tag == syntax.TagUncheckedSequence || len(actions) != 1 {
		return false
	}
	inner := e.node(actions[0])
	if outer := e.node(n.Parent); outer != nil && outer.Kind == ast.KindAction && outer.Explicit && inner.Explicit {
		return false
	}
	return simpleBodies[e.kind(e.u.Body(actions[0]))]
}

// block renders a block, collapsing it into its only action where allowed,
// then inserts the node header in front of the body.
func (e *Emitter) block(id ast.NodeID) *etree.Element {
	n := e.node(id)
	var (
		comment, iface, decls, usings, conds, resources, actions []ast.NodeID
		priority                                                 = ast.NoNodeID
	)
	for _, c := range n.Children {
		switch e.kind(c) {
		case ast.KindComment:
			comment = append(comment, c)
		case ast.KindInterfaceDecl:
			iface = append(iface, c)
		case ast.KindVarDecls, ast.KindMutexDecl:
			decls = append(decls, c)
		case ast.KindUsing:
			usings = append(usings, c)
		case ast.KindCondition:
			conds = append(conds, c)
		case ast.KindResource:
			resources = append(resources, c)
		case ast.KindPriority:
			if priority == ast.NoNodeID {
				priority = c
			}
		case ast.KindAction:
			actions = append(actions, c)
		}
	}

	var el, bodyStart *etree.Element
	switch {
	case len(actions) == 0:
		el = etree.NewElement("Node")
		el.CreateAttr("NodeType", "Empty")
	case e.isSimple(id, actions):
		if e.node(actions[0]).Explicit {
			el = e.Render(actions[0])
			if kids := el.ChildElements(); len(kids) > 1 {
				bodyStart = kids[1]
			}
		} else {
			el = e.Render(e.u.Body(actions[0]))
			bodyStart = firstChildElement(el)
		}
	default:
		name := n.Text
		if n.Tag == syntax.TagBrace {
			name = "Sequence"
		}
		el = etree.NewElement(name)
		e.addAll(el, actions)
		bodyStart = firstChildElement(el)
	}
	if el == nil {
		return nil
	}
	e.locate(el, id)

	var header []*etree.Element
	for _, c := range comment {
		header = append(header, e.Render(c))
	}
	if len(iface) > 0 {
		header = append(header, e.interfaceXML(iface))
	}
	if len(decls) > 0 {
		vd := etree.NewElement("VariableDeclarations")
		for _, d := range decls {
			for _, x := range e.declarations(d) {
				vd.AddChild(x)
			}
		}
		header = append(header, vd)
	}
	for _, c := range usings {
		um := e.located("UsingMutex", c)
		for _, m := range e.children(c) {
			textElement(um, "Name", e.node(m).Text)
		}
		header = append(header, um)
	}
	for _, c := range conds {
		header = append(header, e.Render(c))
	}
	if priority != ast.NoNodeID {
		header = append(header, e.Render(priority))
	}
	for _, h := range header {
		if h != nil {
			insertBefore(el, h, bodyStart)
		}
	}

	if len(resources) > 0 && e.u.IsCommandNode(id) {
		if cmd := el.FindElement(".//NodeBody/Command"); cmd != nil {
			list := etree.NewElement("ResourceList")
			e.addAll(list, resources)
			cmd.InsertChildAt(0, list)
		}
	}
	return el
}

func (e *Emitter) comment(id ast.NodeID) *etree.Element {
	el := etree.NewElement("Comment")
	if s := e.node(e.child(id, 0)); s != nil {
		el.SetText(s.LitValue)
	}
	return el
}

// interfaceXML groups In declarations before InOut declarations.
func (e *Emitter) interfaceXML(groups []ast.NodeID) *etree.Element {
	el := etree.NewElement("Interface")
	for _, tag := range []syntax.Tag{syntax.TagIn, syntax.TagInOut} {
		var dir *etree.Element
		for _, g := range groups {
			if e.node(g).Tag != tag {
				continue
			}
			if dir == nil {
				dir = el.CreateElement(directionName(tag))
			}
			for _, d := range e.children(g) {
				dir.AddChild(e.declareVariable(d))
			}
		}
	}
	return el
}

func directionName(tag syntax.Tag) string {
	if tag == syntax.TagInOut {
		return "InOut"
	}
	return "In"
}

// declarations renders a VARIABLE_DECLARATIONS group or a Mutex statement.
func (e *Emitter) declarations(id ast.NodeID) []*etree.Element {
	var out []*etree.Element
	if e.kind(id) == ast.KindMutexDecl {
		for _, m := range e.children(id) {
			out = append(out, e.declareMutex(m))
		}
		return out
	}
	for _, d := range e.children(id) {
		out = append(out, e.declareVariable(d))
	}
	return out
}

func (e *Emitter) declareMutex(name ast.NodeID) *etree.Element {
	el := e.located("DeclareMutex", name)
	textElement(el, "Name", e.node(name).Text)
	return el
}

// declareVariable renders a variable declaration from its bound shape.
func (e *Emitter) declareVariable(id ast.NodeID) *etree.Element {
	n := e.node(id)
	tag := "DeclareVariable"
	typ := n.Type
	if typ.IsArray() {
		tag = "DeclareArray"
		typ = typ.ElemType()
	}
	el := e.located(tag, id)
	textElement(el, "Name", e.node(e.child(id, 1)).Text)
	textElement(el, "Type", typ.String())
	rest := n.Children[2:]
	if n.Kind == ast.KindArrayVarDecl {
		textElement(el, "MaxSize", itoa(n.MaxSize))
		if len(rest) > 0 {
			rest = rest[1:]
		}
	}
	if len(rest) > 0 {
		e.initialValue(el, rest[0], n.Type)
	}
	return el
}

// initialValue appends <InitialValue>; array literals take the declared
// element type.
func (e *Emitter) initialValue(el *etree.Element, init ast.NodeID, declared types.Type) {
	iv := el.CreateElement("InitialValue")
	if e.kind(init) == ast.KindArrayLiteral && declared.IsArray() {
		iv.AddChild(e.arrayLiteral(init, declared.ElemType().String()))
		return
	}
	e.add(iv, init)
}

func (e *Emitter) resource(id ast.NodeID) *etree.Element {
	el := e.located("Resource", id)
	e.wrap(el, "ResourceName", e.child(id, 0))
	opts := map[syntax.Tag]ast.NodeID{}
	for _, c := range e.children(id)[1:] {
		if _, dup := opts[e.node(c).Tag]; !dup {
			opts[e.node(c).Tag] = e.child(c, 0)
		}
	}
	for _, o := range []struct {
		tag  syntax.Tag
		name string
	}{
		{syntax.TagPriority, "ResourcePriority"},
		{syntax.TagUpperBound, "ResourceUpperBound"},
		{syntax.TagReleaseAtTermination, "ResourceReleaseAtTermination"},
	} {
		if expr, ok := opts[o.tag]; ok {
			e.wrap(el, o.name, expr)
		}
	}
	return el
}

// plexilNode starts <Node NodeType=...><NodeBody><tag/></NodeBody>.
func (e *Emitter) plexilNode(id ast.NodeID, nodeType, tag string) (node, inner *etree.Element) {
	node = e.located("Node", id)
	node.CreateAttr("NodeType", nodeType)
	inner = node.CreateElement("NodeBody").CreateElement(tag)
	return node, inner
}

func rhsName(t types.Type) string {
	switch {
	case t.Kind == types.KindBoolean:
		return "BooleanRHS"
	case t.Kind == types.KindString:
		return "StringRHS"
	case t.IsArray():
		return "ArrayRHS"
	}
	return "NumericRHS"
}

func (e *Emitter) assignment(id ast.NodeID) *etree.Element {
	lhs, rhs := e.child(id, 0), e.child(id, 1)
	if e.kind(rhs) == ast.KindCommand {
		el := e.Render(rhs)
		if el == nil {
			return nil
		}
		if cmd := el.FindElement("./NodeBody/Command"); cmd != nil {
			mark := cmd.SelectElement("Name")
			insertBefore(cmd, e.Render(lhs), mark)
			e.locate(cmd, lhs)
		}
		e.locate(el, id)
		return el
	}
	el, assign := e.plexilNode(id, "Assignment", "Assignment")
	e.locate(assign, lhs)
	e.add(assign, lhs)
	t := e.node(lhs).Type
	if t.Kind == types.KindAny || t.Kind == types.KindError {
		t = e.node(rhs).Type
	}
	e.wrap(assign, rhsName(t), rhs)
	return el
}

func (e *Emitter) command(id ast.NodeID) *etree.Element {
	el, cmd := e.plexilNode(id, "Command", "Command")
	nameNode := e.child(id, 0)
	e.locate(cmd, nameNode)
	name := cmd.CreateElement("Name")
	if e.kind(nameNode) == ast.KindCommandName {
		textElement(name, "StringValue", e.node(e.child(nameNode, 0)).Text)
	} else {
		e.add(name, nameNode)
	}
	for _, c := range e.children(id)[1:] {
		e.add(cmd, c)
	}
	return el
}

func (e *Emitter) libraryCall(id ast.NodeID) *etree.Element {
	el, call := e.plexilNode(id, "LibraryNodeCall", "LibraryNodeCall")
	e.locate(call, id)
	textElement(call, "NodeId", e.node(e.child(id, 0)).Text)
	if aliases := e.child(id, 1); aliases != ast.NoNodeID {
		for _, a := range e.children(aliases) {
			alias := call.CreateElement("Alias")
			textElement(alias, "NodeParameter", e.node(e.child(a, 0)).Text)
			e.add(alias, e.child(a, 1))
		}
	}
	return el
}

func (e *Emitter) update(id ast.NodeID) *etree.Element {
	el, upd := e.plexilNode(id, "Update", "Update")
	e.locate(upd, id)
	for _, p := range e.children(id) {
		pair := e.located("Pair", p)
		textElement(pair, "Name", e.node(e.child(p, 0)).Text)
		e.add(pair, e.child(p, 1))
		upd.AddChild(pair)
	}
	return el
}

func (e *Emitter) wait(id ast.NodeID) *etree.Element {
	el := e.located("Wait", id)
	e.wrap(el, "Units", e.child(id, 0))
	if tol := e.child(id, 1); tol != ast.NoNodeID {
		e.wrap(el, "Tolerance", tol)
	}
	return el
}

func (e *Emitter) syncCommand(id ast.NodeID) *etree.Element {
	el := e.located("SynchronousCommand", id)
	checked, timeout, tolerance := e.u.SyncOptions(id)
	if checked {
		el.CreateElement("Checked")
	}
	if timeout != ast.NoNodeID {
		t := e.wrap(el, "Timeout", timeout)
		if tolerance != ast.NoNodeID {
			e.wrap(t, "Tolerance", tolerance)
		}
	}
	if wrapped := e.Render(e.child(id, 0)); wrapped != nil {
		if cmd := wrapped.FindElement("./NodeBody/Command"); cmd != nil {
			el.AddChild(cmd)
		}
	}
	return el
}

func (e *Emitter) ifNode(id ast.NodeID) *etree.Element {
	el := e.located("If", id)
	e.wrap(el, "Condition", e.child(id, 0))
	e.wrap(el, "Then", e.child(id, 1))
	for _, c := range e.children(id)[2:] {
		switch e.kind(c) {
		case ast.KindElseIf:
			elif := e.located("ElseIf", c)
			e.wrap(elif, "Condition", e.child(c, 0))
			e.wrap(elif, "Then", e.child(c, 1))
			el.AddChild(elif)
		case ast.KindElse:
			e.wrap(el, "Else", e.child(c, 0))
		}
	}
	return el
}

func (e *Emitter) while(id ast.NodeID) *etree.Element {
	el := e.located("While", id)
	e.wrap(el, "Condition", e.child(id, 0))
	e.wrap(el, "Action", e.child(id, 1))
	return el
}

func (e *Emitter) forNode(id ast.NodeID) *etree.Element {
	el := e.located("For", id)
	el.CreateElement("LoopVariable").AddChild(e.declareVariable(e.child(id, 0)))
	e.wrap(el, "Condition", e.child(id, 1))
	e.wrap(el, "LoopVariableUpdate", e.child(id, 2))
	e.wrap(el, "Action", e.child(id, 3))
	return el
}

func (e *Emitter) onCommand(id ast.NodeID) *etree.Element {
	el := e.located("OnCommand", id)
	var action ast.NodeID
	var params []*etree.Element
	for _, c := range e.children(id)[1:] {
		switch e.kind(c) {
		case ast.KindParameters:
			for _, spec := range e.children(c) {
				if p := e.parameterDecl(spec); p != nil {
					params = append(params, p)
				}
			}
		case ast.KindAction:
			action = c
		}
	}
	if len(params) > 0 {
		vd := el.CreateElement("VariableDeclarations")
		for _, p := range params {
			vd.AddChild(p)
		}
	}
	e.wrap(el, "Name", e.child(id, 0))
	e.add(el, action)
	return el
}

// parameterDecl declares one named OnCommand parameter.
func (e *Emitter) parameterDecl(spec ast.NodeID) *etree.Element {
	n := e.node(spec)
	var name string
	for _, c := range n.Children {
		if e.kind(c) == ast.KindName {
			name = e.node(c).Text
		}
	}
	if name == "" || n.Kind == ast.KindWildcard {
		return nil
	}
	tag, typ := "DeclareVariable", n.Type
	if typ.IsArray() {
		tag, typ = "DeclareArray", typ.ElemType()
	}
	el := e.located(tag, spec)
	textElement(el, "Name", name)
	textElement(el, "Type", typ.String())
	if n.Type.IsArray() {
		textElement(el, "MaxSize", itoa(n.MaxSize))
	}
	return el
}

func (e *Emitter) onMessage(id ast.NodeID) *etree.Element {
	el := e.located("OnMessage", id)
	e.wrap(el, "Message", e.child(id, 0))
	e.add(el, e.child(id, 1))
	return el
}
