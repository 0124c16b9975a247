package ast

import (
	"fmt"

	"plexilc/internal/diag"
	"plexilc/internal/source"
	"plexilc/internal/syntax"
)

// Build converts a parsed tree into a Tree, one AST node per tree node.
// A tag that maps to no kind is reported FATAL and its subtree is skipped.
func Build(root *syntax.Node, file source.FileID, r diag.Reporter) *Tree {
	t := NewTree(file, uint(root.Count()))
	b := builder{tree: t, reporter: r}
	t.Root = b.node(root, syntax.TagInvalid, 0, NoNodeID)
	return t
}

type builder struct {
	tree     *Tree
	reporter diag.Reporter
}

func (b *builder) node(n *syntax.Node, parent syntax.Tag, index int, parentID NodeID) NodeID {
	kind := KindOf(n.Tag, parent, index)
	pos := source.Pos{Line: n.Line, Col: n.Col}
	if kind == KindInvalid {
		if b.reporter != nil {
			diag.ReportFatal(b.reporter, diag.InternalMalformedTree, source.At(b.tree.File, pos),
				fmt.Sprintf("Unexpected tree element %s", n.Tag)).Emit()
		}
		return NoNodeID
	}
	id := b.tree.New(kind, n.Tag, n.Text, pos, parentID)
	for i, c := range n.Children {
		b.node(c, n.Tag, i, id)
	}
	return id
}

// KindOf maps a tag to its kind given the parent's tag and the child's index.
func KindOf(tag, parent syntax.Tag, index int) Kind {
	switch tag {
	case syntax.TagPlexil:
		return KindPlan
	case syntax.TagGlobalDeclarations:
		return KindGlobalDecls
	case syntax.TagCommandDeclaration:
		return KindCommandDecl
	case syntax.TagStateDeclaration:
		return KindStateDecl
	case syntax.TagLibraryNodeDeclaration:
		return KindLibraryDecl
	case syntax.TagMutex:
		return KindMutexDecl
	case syntax.TagReturns:
		return KindReturnSpec
	case syntax.TagParameters:
		return KindParameters
	case syntax.TagArrayType:
		return KindArrayParamSpec
	case syntax.TagEllipsis:
		return KindWildcard
	case syntax.TagLibraryInterface:
		return KindLibraryInterface
	case syntax.TagInitialValue:
		return KindInitialValue
	case syntax.TagAnyType, syntax.TagBooleanType, syntax.TagIntegerType, syntax.TagRealType,
		syntax.TagStringType, syntax.TagDateType, syntax.TagDurationType:
		if parent == syntax.TagParameters || parent == syntax.TagReturns {
			return KindParamSpec
		}
		return KindTypeName
	case syntax.TagAction:
		return KindAction
	case syntax.TagNCName:
		return nameKind(parent, index)
	case syntax.TagBrace, syntax.TagSequence, syntax.TagConcurrence, syntax.TagUncheckedSequence, syntax.TagTry:
		return KindBlock
	case syntax.TagComment:
		return KindComment
	case syntax.TagIn, syntax.TagInOut:
		if parent == syntax.TagLibraryInterface {
			return KindLibraryParam
		}
		return KindInterfaceDecl
	case syntax.TagVariableDeclarations:
		return KindVarDecls
	case syntax.TagVariableDeclaration:
		return KindVarDecl
	case syntax.TagArrayVariableDeclaration:
		return KindArrayVarDecl
	case syntax.TagUsing:
		return KindUsing
	case syntax.TagStartCondition, syntax.TagEndCondition, syntax.TagInvariantCondition, syntax.TagPostCondition,
		syntax.TagPreCondition, syntax.TagRepeatCondition, syntax.TagSkipCondition, syntax.TagExitCondition:
		return KindCondition
	case syntax.TagResource:
		return KindResource
	case syntax.TagUpperBound, syntax.TagReleaseAtTermination:
		return KindResourceOption
	case syntax.TagPriority:
		if parent == syntax.TagResource {
			return KindResourceOption
		}
		return KindPriority
	case syntax.TagAssignment:
		return KindAssignment
	case syntax.TagCommand:
		return KindCommand
	case syntax.TagCommandName:
		return KindCommandName
	case syntax.TagArgumentList:
		return KindArgumentList
	case syntax.TagLibraryCall:
		return KindLibraryCall
	case syntax.TagAliases:
		return KindAliases
	case syntax.TagAlias:
		return KindAlias
	case syntax.TagUpdate:
		return KindUpdate
	case syntax.TagPair:
		return KindPair
	case syntax.TagWait:
		return KindWait
	case syntax.TagSynchronousCommand:
		return KindSyncCommand
	case syntax.TagChecked:
		return KindChecked
	case syntax.TagIf:
		return KindIf
	case syntax.TagElseIf:
		return KindElseIf
	case syntax.TagElse:
		return KindElse
	case syntax.TagWhile:
		return KindWhile
	case syntax.TagFor:
		return KindFor
	case syntax.TagOnCommand:
		return KindOnCommand
	case syntax.TagOnMessage:
		return KindOnMessage
	case syntax.TagInt, syntax.TagNegInt:
		return KindIntLiteral
	case syntax.TagDouble, syntax.TagNegDouble:
		return KindRealLiteral
	case syntax.TagTrue, syntax.TagFalse:
		return KindBoolLiteral
	case syntax.TagString:
		return KindStringLiteral
	case syntax.TagDateLiteral:
		return KindDateLiteral
	case syntax.TagDurationLiteral:
		return KindDurationLiteral
	case syntax.TagNodeStateValue, syntax.TagNodeOutcomeValue, syntax.TagNodeFailureValue, syntax.TagCommandHandleValue:
		return KindInternalLiteral
	case syntax.TagArrayLiteral:
		return KindArrayLiteral
	case syntax.TagArrayRef:
		return KindArrayRef
	case syntax.TagPlus, syntax.TagMinus, syntax.TagAsterisk, syntax.TagSlash, syntax.TagPercent,
		syntax.TagMax, syntax.TagMin:
		return KindArith
	case syntax.TagUnaryMinus:
		return KindNegate
	case syntax.TagAbs, syntax.TagSqrt, syntax.TagCeil, syntax.TagFloor, syntax.TagRound, syntax.TagTrunc,
		syntax.TagRealToInt, syntax.TagStrlen, syntax.TagIsKnown, syntax.TagArraySize, syntax.TagArrayMaxSize,
		syntax.TagAllKnown, syntax.TagAnyKnown:
		return KindFunction
	case syntax.TagEquals, syntax.TagNotEquals, syntax.TagLess, syntax.TagLessEq, syntax.TagGreater, syntax.TagGreaterEq:
		return KindCompare
	case syntax.TagAnd, syntax.TagOr, syntax.TagXor:
		return KindLogical
	case syntax.TagNot:
		return KindNot
	case syntax.TagLookup, syntax.TagLookupNow, syntax.TagLookupOnChange:
		return KindLookup
	case syntax.TagStateName:
		return KindStateName
	case syntax.TagNodeStateVariable, syntax.TagNodeOutcomeVariable, syntax.TagNodeFailureVariable,
		syntax.TagCommandHandleVariable:
		return KindNodeVar
	case syntax.TagNodeTimepointValue:
		return KindTimepoint
	case syntax.TagStart, syntax.TagEnd:
		return KindTimepointKeyword
	case syntax.TagSelf, syntax.TagParent:
		return KindNodeRef
	}
	return KindInvalid
}

func nameKind(parent syntax.Tag, index int) Kind {
	switch parent {
	case syntax.TagNodeStateVariable, syntax.TagNodeOutcomeVariable, syntax.TagNodeFailureVariable,
		syntax.TagCommandHandleVariable, syntax.TagNodeTimepointValue:
		return KindNodeRef
	case syntax.TagAlias, syntax.TagPair:
		if index == 0 {
			return KindName
		}
		return KindVariableRef
	case syntax.TagCommandDeclaration, syntax.TagStateDeclaration, syntax.TagLibraryNodeDeclaration,
		syntax.TagMutex, syntax.TagAction, syntax.TagArrayType, syntax.TagIn, syntax.TagInOut,
		syntax.TagVariableDeclaration, syntax.TagArrayVariableDeclaration, syntax.TagUsing,
		syntax.TagCommandName, syntax.TagLibraryCall, syntax.TagStateName,
		syntax.TagAnyType, syntax.TagBooleanType, syntax.TagIntegerType, syntax.TagRealType,
		syntax.TagStringType, syntax.TagDateType, syntax.TagDurationType:
		return KindName
	}
	return KindVariableRef
}
