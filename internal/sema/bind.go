package sema

import (
	"plexilc/internal/ast"
	"plexilc/internal/diag"
	"plexilc/internal/scope"
	"plexilc/internal/syntax"
	"plexilc/internal/types"
)

// EarlyBind walks the tree top-down: it opens scopes, registers node ids,
// declares variables, mutexes and global declarations, types literals and
// resolves variable, command, state and library references. A tree that
// breaks the input grammar gets one FATAL and is not bound.
func EarlyBind(u *Unit) {
	if !u.checkShapes() {
		return
	}
	u.bind(u.Tree.Root, u.Table.Global)
}

// bind records sc as the node's scope and dispatches on its kind. Kinds that
// open a scope overwrite Node.Scope with the scope they opened.
func (u *Unit) bind(id ast.NodeID, sc ast.ScopeID) {
	n := u.node(id)
	if n == nil || u.stopped {
		return
	}
	n.Scope = sc
	switch n.Kind {
	case ast.KindPlan, ast.KindGlobalDecls, ast.KindArgumentList, ast.KindCondition,
		ast.KindResourceOption, ast.KindComment, ast.KindElseIf, ast.KindElse,
		ast.KindArrayRef, ast.KindArith, ast.KindNegate, ast.KindFunction, ast.KindCompare,
		ast.KindLogical, ast.KindNot:
		u.bindChildren(id, sc)
	case ast.KindCommandDecl, ast.KindStateDecl:
		u.bindGlobalDecl(id)
	case ast.KindLibraryDecl:
		u.bindLibraryDecl(id)
	case ast.KindMutexDecl:
		u.bindMutexDecl(id, sc)
	case ast.KindUsing:
		u.bindUsing(id, sc)
	case ast.KindReturnSpec, ast.KindParameters, ast.KindParamSpec, ast.KindArrayParamSpec,
		ast.KindWildcard, ast.KindLibraryInterface, ast.KindLibraryParam, ast.KindInitialValue,
		ast.KindTypeName, ast.KindName, ast.KindCommandName, ast.KindAliases, ast.KindAlias,
		ast.KindPair, ast.KindChecked, ast.KindTimepointKeyword, ast.KindNodeRef:
		// read by the enclosing construct
	case ast.KindAction:
		u.bindAction(id, sc)
	case ast.KindBlock:
		u.bindBlock(id, sc)
	case ast.KindInterfaceDecl:
		u.bindInterface(id, sc)
	case ast.KindVarDecls:
		u.bindChildren(id, sc)
	case ast.KindVarDecl, ast.KindArrayVarDecl:
		u.bindLocalVar(id, sc, scope.VarLocal)
	case ast.KindResource:
		u.bindResource(id, sc)
	case ast.KindPriority:
		u.bindPriority(id, sc)
	case ast.KindAssignment:
		u.bindAssignment(id, sc)
	case ast.KindCommand:
		u.bindCommand(id, sc)
	case ast.KindLibraryCall:
		u.bindLibraryCall(id, sc)
	case ast.KindUpdate:
		u.bindUpdate(id, sc)
	case ast.KindWait:
		u.bindChildren(id, sc)
	case ast.KindSyncCommand:
		u.bindSyncCommand(id, sc)
	case ast.KindIf, ast.KindWhile, ast.KindOnMessage:
		u.bindChildren(id, u.openScope(id, sc))
	case ast.KindFor:
		u.bindFor(id, sc)
	case ast.KindOnCommand:
		u.bindOnCommand(id, sc)
	case ast.KindIntLiteral, ast.KindRealLiteral, ast.KindBoolLiteral, ast.KindStringLiteral,
		ast.KindDateLiteral, ast.KindDurationLiteral, ast.KindInternalLiteral:
		u.bindLiteral(id)
	case ast.KindArrayLiteral:
		u.bindArrayLiteral(id, sc)
	case ast.KindVariableRef:
		u.bindVariableRef(id, sc)
	case ast.KindLookup:
		u.bindLookup(id, sc)
	case ast.KindStateName:
		n.Type = types.StateName
	case ast.KindNodeVar:
		u.bindNodeVar(id, sc)
	case ast.KindTimepoint:
		n.Type = types.Real
		u.bindChildren(id, sc)
	default:
		u.fatalf(diag.InternalUnhandledKind, id, "Early binding does not handle node kind %s", n.Kind)
	}
}

func (u *Unit) bindChildren(id ast.NodeID, sc ast.ScopeID) {
	for _, c := range u.children(id) {
		u.bind(c, sc)
	}
}

// openScope creates the scope of a scope-opening body, named by its Action.
func (u *Unit) openScope(id ast.NodeID, parent ast.ScopeID) ast.ScopeID {
	sc := u.Table.NewScope(parent, u.nodeName(id), id)
	u.node(id).Scope = sc
	return sc
}

// bindAction names the plan node, then binds its body in the same scope.
func (u *Unit) bindAction(id ast.NodeID, sc ast.ScopeID) {
	n := u.node(id)
	if !u.need(id, 1) {
		return
	}
	body := n.Children[0]
	if u.kind(body) == ast.KindName {
		if !u.need(id, 2) {
			return
		}
		n.NodeName, n.Explicit = u.text(body), true
		u.Table.AddChildID(sc, n.NodeName, body)
		body = n.Children[1]
	} else {
		n.NodeName = u.Table.GenerateNodeID(u.NodeType(body))
	}
	if !u.kind(body).IsBody() {
		u.fatalf(diag.InternalMalformedTree, body, "Unexpected %s as the body of a node", u.kind(body))
		return
	}
	u.bind(body, sc)
	if !n.Explicit {
		n.Pos = u.node(body).Pos
	}
}

// Body returns the body of an Action.
func (u *Unit) Body(action ast.NodeID) ast.NodeID {
	c := u.child(action, 0)
	if u.kind(c) == ast.KindName {
		return u.child(action, 1)
	}
	return c
}

// NodeType is the Extended-dialect node type of a body, also the prefix of
// generated node ids.
func (u *Unit) NodeType(body ast.NodeID) string {
	n := u.node(body)
	if n == nil {
		return "Empty"
	}
	switch n.Kind {
	case ast.KindBlock:
		if n.Tag == syntax.TagBrace {
			return "Block"
		}
		return n.Tag.DefaultText()
	case ast.KindAssignment:
		if u.kind(u.child(body, 1)) == ast.KindCommand {
			return "Command"
		}
		return "Assignment"
	case ast.KindCommand:
		return "Command"
	case ast.KindLibraryCall:
		return "LibraryNodeCall"
	case ast.KindUpdate:
		return "Update"
	case ast.KindWait:
		return "Wait"
	case ast.KindSyncCommand:
		return "SynchronousCommand"
	case ast.KindIf:
		return "If"
	case ast.KindWhile:
		return "While"
	case ast.KindFor:
		return "For"
	case ast.KindOnCommand:
		return "OnCommand"
	case ast.KindOnMessage:
		return "OnMessage"
	}
	return n.Kind.String()
}

// bindBlock partitions the block's items. Declarations come first, then
// Using clauses, then conditions, resources and priority, then child nodes,
// so every child sees its ancestors' variables and mutex claims.
func (u *Unit) bindBlock(id ast.NodeID, parent ast.ScopeID) {
	sc := u.openScope(id, parent)
	items := u.children(id)
	var usings, attrs, actions []ast.NodeID
	priorities := 0
	for i, c := range items {
		switch u.kind(c) {
		case ast.KindComment:
			if i != 0 {
				u.fatalf(diag.InternalMalformedTree, c, "Unexpected child %s in block", u.label(c))
				return
			}
			u.bind(c, sc)
		case ast.KindInterfaceDecl, ast.KindVarDecls, ast.KindMutexDecl:
			u.bind(c, sc)
		case ast.KindUsing:
			usings = append(usings, c)
		case ast.KindCondition, ast.KindResource:
			attrs = append(attrs, c)
		case ast.KindPriority:
			priorities++
			if priorities == 2 {
				u.errorf(diag.StructDuplicatePriority, c, "In node %s: Multiple Priority attributes", u.nodeName(id))
			}
			attrs = append(attrs, c)
		case ast.KindAction:
			actions = append(actions, c)
		default:
			u.fatalf(diag.InternalMalformedTree, c, "Unexpected child %s in block", u.label(c))
			return
		}
		if u.stopped {
			return
		}
	}
	for _, group := range [][]ast.NodeID{usings, attrs, actions} {
		for _, c := range group {
			u.bind(c, sc)
		}
	}
}

// varShape decodes (VARIABLE_DECLARATION typeKw NCNAME expr?) and
// (ARRAY_VARIABLE_DECLARATION typeKw NCNAME INT expr?).
func (u *Unit) varShape(id ast.NodeID, sc ast.ScopeID) (name string, nameNode ast.NodeID, typ types.Type, maxSize int64, init ast.NodeID, ok bool) {
	n := u.node(id)
	maxSize = -1
	if !u.need(id, 2) {
		return
	}
	typ, valid := typeForTag(u.tag(n.Children[0]))
	if !valid {
		u.fatalf(diag.InternalMalformedTree, n.Children[0], "Expected a type keyword, found %s", u.label(n.Children[0]))
		return
	}
	u.node(n.Children[0]).Scope = sc
	nameNode = n.Children[1]
	u.node(nameNode).Scope = sc
	name = u.text(nameNode)
	rest := n.Children[2:]
	if n.Kind == ast.KindArrayVarDecl {
		if len(rest) == 0 {
			u.fatalf(diag.InternalMalformedTree, id, "Array declaration of %q has no size", name)
			return
		}
		maxSize = u.sizeOf(rest[0], sc)
		if maxSize < 0 {
			u.errorf(diag.DeclNegativeArraySize, rest[0], "Array size must not be negative")
		}
		typ = types.ArrayOf(typ)
		rest = rest[1:]
	}
	if len(rest) > 0 {
		init = rest[0]
		u.bind(init, sc)
	}
	n.Type, n.MaxSize = typ, maxSize
	return name, nameNode, typ, maxSize, init, true
}

// bindLocalVar declares a local or loop variable after binding its initializer.
func (u *Unit) bindLocalVar(id ast.NodeID, sc ast.ScopeID, kind scope.VarKind) ast.VarID {
	name, nameNode, typ, maxSize, init, ok := u.varShape(id, sc)
	if !ok {
		return ast.NoVarID
	}
	v := u.Table.DeclareVariable(sc, scope.Var{
		Name: name, Type: typ, MaxSize: maxSize, Kind: kind, Decl: id, Init: init,
	}, nameNode)
	u.node(id).Var = v
	return v
}

// bindInterface declares (IN_KYWD vdecl*) or (IN_OUT_KYWD vdecl*) in sc.
func (u *Unit) bindInterface(id ast.NodeID, sc ast.ScopeID) {
	kind := scope.VarIn
	if u.tag(id) == syntax.TagInOut {
		kind = scope.VarInOut
	}
	for _, c := range u.children(id) {
		u.node(c).Scope = sc
		name, nameNode, typ, maxSize, init, ok := u.varShape(c, sc)
		if !ok {
			return
		}
		link := u.Table.FindInherited(sc, name)
		switch {
		case link.IsValid():
			inherited := u.Table.Var(link)
			if inherited.Type != typ && inherited.Type.Kind != types.KindAny {
				u.errorf(diag.DeclInterfaceMismatch, nameNode,
					"Interface variable %q is declared %s, but the inherited variable has type %s",
					name, typ, inherited.Type)
			}
			if kind == scope.VarInOut && !inherited.IsAssignable() {
				u.errorf(diag.DeclInterfaceReadOnly, nameNode,
					"InOut interface variable %q refers to a read-only variable", name)
			}
		case u.Table.IsRoot(sc):
			u.node(c).Set(ast.FlagPlanParam)
		default:
			u.errorf(diag.DeclInterfaceUnbound, nameNode,
				"Interface variable %q is not declared in any enclosing node", name)
		}
		v := u.Table.DeclareInterfaceVariable(sc, scope.Var{
			Name: name, Type: typ, MaxSize: maxSize, Kind: kind, Decl: c, Init: init, Link: link,
		}, nameNode)
		u.node(c).Var = v
	}
}

// bindResource checks option uniqueness within one Resource statement.
func (u *Unit) bindResource(id ast.NodeID, sc ast.ScopeID) {
	if !u.need(id, 1) {
		return
	}
	seen := make(map[syntax.Tag]bool)
	for i, c := range u.children(id) {
		if i > 0 {
			if u.kind(c) != ast.KindResourceOption {
				u.fatalf(diag.InternalMalformedTree, c, "Unexpected child %s in Resource", u.label(c))
				return
			}
			if seen[u.tag(c)] {
				u.errorf(diag.StructDuplicateResourceOption, c,
					"The %s keyword may only appear once per Resource statement", u.label(c))
			}
			seen[u.tag(c)] = true
		}
		u.bind(c, sc)
	}
}

func (u *Unit) bindPriority(id ast.NodeID, sc ast.ScopeID) {
	if !u.need(id, 1) {
		return
	}
	c := u.child(id, 0)
	u.bind(c, sc)
	if u.kind(c) != ast.KindIntLiteral || u.tag(c) == syntax.TagNegInt {
		u.errorf(diag.StructBadPriority, c, "Priority must be a non-negative integer")
	}
}

// bindAssignment resolves both sides and checks the left side is assignable.
// With a command on the right the node takes the command's position.
func (u *Unit) bindAssignment(id ast.NodeID, sc ast.ScopeID) {
	if !u.need(id, 2) {
		return
	}
	n := u.node(id)
	lhs, rhs := n.Children[0], n.Children[1]
	u.bind(lhs, sc)
	u.bind(rhs, sc)
	u.checkAssignable(lhs)
	if u.kind(rhs) == ast.KindCommand {
		n.Pos = u.node(rhs).Pos
	} else {
		n.Pos = u.node(lhs).Pos
	}
}

// checkAssignable reports a left-hand side that may not be assigned.
func (u *Unit) checkAssignable(id ast.NodeID) {
	n := u.node(id)
	if n.Has(ast.FlagAssignable) || n.Type == types.Error {
		return
	}
	switch n.Kind {
	case ast.KindVariableRef:
		v := u.Table.Var(n.Var)
		switch {
		case v == nil:
		case v.Kind == scope.VarLoop:
			u.errorf(diag.TypeNotAssignable, id, "Loop variable %q may not be assigned", v.Name)
		case v.Kind == scope.VarIn:
			u.errorf(diag.TypeNotAssignable, id, "In interface variable %q is read-only", v.Name)
		default:
			u.errorf(diag.TypeNotAssignable, id, "Variable %q may not be assigned", v.Name)
		}
	case ast.KindArrayRef:
		if base := u.node(u.child(id, 0)); base != nil && base.Type != types.Error {
			u.errorf(diag.TypeNotAssignable, id, "Array element %s may not be assigned", u.ExprText(id))
		}
	default:
		u.errorf(diag.TypeNotAssignable, id, "%s is not assignable", u.ExprText(id))
	}
}

// isAssignable reports expressions that may stand where a value is written.
func (u *Unit) isAssignable(id ast.NodeID) bool {
	n := u.node(id)
	return n != nil && n.Has(ast.FlagAssignable)
}

// bindCommand resolves a literal command name and checks the argument count.
func (u *Unit) bindCommand(id ast.NodeID, sc ast.ScopeID) {
	if !u.need(id, 1) {
		return
	}
	n := u.node(id)
	nameNode := n.Children[0]
	for _, c := range n.Children[1:] {
		u.bind(c, sc)
	}
	if u.kind(nameNode) != ast.KindCommandName {
		u.bind(nameNode, sc)
		n.Type = types.Any
		return
	}
	u.node(nameNode).Scope = sc
	name := u.text(u.child(nameNode, 0))
	d := u.Table.LookupCommand(name)
	if !d.IsValid() {
		u.errorf(diag.ResUndeclaredCommand, nameNode, "Command %q is not defined", name)
		n.Type = types.Any
		return
	}
	n.Decl = d
	decl := u.Table.Decl(d)
	n.Type = types.Void
	if r := u.Table.Var(decl.Return); r != nil {
		n.Type, n.MaxSize = r.Type, r.MaxSize
	}
	u.checkArgCount(id, decl, u.argsOf(id))
}

// argsOf returns the expressions of a node's ARGUMENT_LIST child.
func (u *Unit) argsOf(id ast.NodeID) []ast.NodeID {
	for _, c := range u.children(id) {
		if u.kind(c) == ast.KindArgumentList {
			return u.children(c)
		}
	}
	return nil
}

// checkArgCount matches the number of supplied arguments against a command
// or state declaration. A trailing wildcard accepts any extra arguments.
func (u *Unit) checkArgCount(id ast.NodeID, d *scope.Decl, args []ast.NodeID) {
	want, got := len(d.Params), len(args)
	if got == want || (d.Wildcard && got >= want) {
		return
	}
	verb, noun := "expects", "Command"
	if d.Category == scope.DeclState {
		verb, noun = "requires", "State name"
	}
	switch {
	case want == 0:
		u.errorf(diag.TypeArgumentCount, id, "%s %q %s 0 parameters, but %d were supplied", noun, d.Name, verb, got)
	case got == 0:
		u.errorf(diag.TypeArgumentCount, id, "%s %q %s %d parameters, but none were supplied", noun, d.Name, verb, want)
	default:
		u.errorf(diag.TypeArgumentCount, id, "%s %q %s %d parameters, but %d were supplied", noun, d.Name, verb, want, got)
	}
}

// bindLibraryCall opens the call's scope, resolves the library and matches
// aliases to its parameters by name.
func (u *Unit) bindLibraryCall(id ast.NodeID, parent ast.ScopeID) {
	if !u.need(id, 1) {
		return
	}
	sc := u.openScope(id, parent)
	n := u.node(id)
	nameNode := n.Children[0]
	u.node(nameNode).Scope = sc
	lib := u.text(nameNode)
	u.Table.AddChildID(sc, lib, nameNode)

	var aliases []ast.NodeID
	if al := u.child(id, 1); al != ast.NoNodeID {
		u.node(al).Scope = sc
		aliases = u.children(al)
	}
	seen := make(map[string]bool, len(aliases))
	for _, a := range aliases {
		u.node(a).Scope = sc
		if !u.need(a, 2) {
			return
		}
		pname := u.text(u.child(a, 0))
		u.node(u.child(a, 0)).Scope = sc
		if seen[pname] {
			u.errorf(diag.ResDuplicateAlias, a, "Alias %q appears more than once in call to library node %q", pname, lib)
		}
		seen[pname] = true
		u.bind(u.child(a, 1), sc)
	}

	d := u.Table.LookupLibrary(lib)
	if !d.IsValid() {
		u.errorf(diag.ResUndeclaredLibrary, nameNode, "Library node %q is not declared", lib)
		return
	}
	n.Decl = d
	decl := u.Table.Decl(d)
	if len(decl.Params) == 0 {
		if len(aliases) > 0 {
			u.errorf(diag.TypeArgumentCount, id, "Library node %q expects 0 arguments, but %d were supplied", lib, len(aliases))
		}
		return
	}
	for _, a := range aliases {
		pname := u.text(u.child(a, 0))
		p := u.Table.ParamByName(decl, pname)
		if !p.IsValid() {
			u.errorf(diag.ResUnknownParameter, a, "Library node %q has no parameter named %q", lib, pname)
			continue
		}
		u.node(a).Var = p
		val := u.child(a, 1)
		if u.Table.Var(p).Kind == scope.VarInOut && !u.isAssignable(val) {
			u.errorf(diag.TypeNotAssignable, val,
				"InOut parameter %q of library node %q must be aliased to an assignable expression", pname, lib)
		}
	}
	var missing []string
	for _, pid := range decl.Params {
		p := u.Table.Var(pid)
		if !seen[p.Name] && p.Init == ast.NoNodeID {
			missing = append(missing, p.Name)
		}
	}
	if len(missing) > 0 {
		u.errorf(diag.ResMissingParameters, id, "Library node %q required parameter(s) %s were not supplied",
			lib, joinNames(missing))
	}
}

func joinNames(names []string) string {
	out := ""
	for i, s := range names {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}

// bindUpdate binds (UPDATE_KYWD (PAIR NCNAME expr)*) and rejects repeated names.
func (u *Unit) bindUpdate(id ast.NodeID, sc ast.ScopeID) {
	seen := make(map[string]bool)
	for _, p := range u.children(id) {
		u.node(p).Scope = sc
		if !u.need(p, 2) {
			return
		}
		name := u.text(u.child(p, 0))
		if seen[name] {
			u.errorf(diag.StructDuplicateUpdate, p, "Update name %q is used more than once", name)
		}
		seen[name] = true
		u.bind(u.child(p, 1), sc)
	}
}

// bindSyncCommand binds the wrapped command or assignment and its options.
func (u *Unit) bindSyncCommand(id ast.NodeID, sc ast.ScopeID) {
	if !u.need(id, 1) {
		return
	}
	first := u.child(id, 0)
	if k := u.kind(first); k != ast.KindCommand && k != ast.KindAssignment {
		u.fatalf(diag.InternalMalformedTree, first, "SynchronousCommand wraps %s instead of a command", k)
		return
	}
	if u.kind(first) == ast.KindAssignment && u.kind(u.child(first, 1)) != ast.KindCommand {
		u.errorf(diag.TypeMismatch, first, "SynchronousCommand requires a command")
	}
	exprs := 0
	for _, c := range u.children(id) {
		if c != first && u.kind(c) != ast.KindChecked {
			exprs++
			if exprs > 2 {
				u.fatalf(diag.InternalMalformedTree, c, "Unexpected child %s in SynchronousCommand", u.label(c))
				return
			}
		}
		u.bind(c, sc)
	}
}

// SyncOptions splits the children of a SynchronousCommand.
func (u *Unit) SyncOptions(id ast.NodeID) (checked bool, timeout, tolerance ast.NodeID) {
	for i, c := range u.children(id) {
		switch {
		case i == 0:
		case u.kind(c) == ast.KindChecked:
			checked = true
		case timeout == ast.NoNodeID:
			timeout = c
		default:
			tolerance = c
		}
	}
	return checked, timeout, tolerance
}

// bindFor declares the loop variable in the loop's own scope.
func (u *Unit) bindFor(id ast.NodeID, parent ast.ScopeID) {
	if !u.need(id, 4) {
		return
	}
	sc := u.openScope(id, parent)
	n := u.node(id)
	decl := n.Children[0]
	u.node(decl).Scope = sc
	if u.kind(decl) != ast.KindVarDecl {
		u.fatalf(diag.InternalMalformedTree, decl, "For loop variable must be a simple declaration")
		return
	}
	v := u.bindLocalVar(decl, sc, scope.VarLoop)
	if lv := u.Table.Var(v); lv != nil && !lv.Type.IsArithmetic() {
		u.errorf(diag.StructBadLoopVariable, decl, "For loop variable %q must be Integer or Real, not %s", lv.Name, lv.Type)
	}
	for _, c := range n.Children[1:] {
		u.bind(c, sc)
	}
}

// bindOnCommand declares the handler's parameters as variables of its scope.
func (u *Unit) bindOnCommand(id ast.NodeID, parent ast.ScopeID) {
	if !u.need(id, 2) {
		return
	}
	sc := u.openScope(id, parent)
	for _, c := range u.children(id) {
		if u.kind(c) != ast.KindParameters {
			u.bind(c, sc)
			continue
		}
		u.node(c).Scope = sc
		for i, spec := range u.children(c) {
			u.node(spec).Scope = sc
			p := u.decodeParam(spec)
			switch {
			case p.wildcard:
				u.errorf(diag.DeclInvalidParameter, spec, "OnCommand parameters may not include a wildcard")
				continue
			case !p.valid:
				u.errorf(diag.DeclInvalidParameter, spec, "Invalid parameter descriptor %q", u.label(spec))
				continue
			case p.name == "":
				u.errorf(diag.DeclInvalidParameter, spec, "OnCommand parameter %d has no name", i+1)
				continue
			}
			u.node(spec).Var = u.Table.DeclareVariable(sc, scope.Var{
				Name: p.name, Type: p.typ, MaxSize: p.maxSize, Kind: scope.VarLocal, Decl: spec,
			}, p.nameNode)
		}
	}
}
