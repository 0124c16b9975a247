package ast

import "fmt"

// Kind is the closed set of AST node kinds.
type Kind uint8

const (
	KindInvalid Kind = iota

	// Plan structure and global declarations
	KindPlan
	KindGlobalDecls
	KindCommandDecl
	KindStateDecl
	KindLibraryDecl
	KindMutexDecl
	KindReturnSpec
	KindParameters
	KindParamSpec
	KindArrayParamSpec
	KindWildcard
	KindLibraryInterface
	KindLibraryParam
	KindInitialValue
	KindTypeName
	KindName

	// Nodes and their attributes
	KindAction
	KindBlock
	KindComment
	KindInterfaceDecl
	KindVarDecls
	KindVarDecl
	KindArrayVarDecl
	KindUsing
	KindCondition
	KindResource
	KindResourceOption
	KindPriority

	// Action bodies
	KindAssignment
	KindCommand
	KindCommandName
	KindArgumentList
	KindLibraryCall
	KindAliases
	KindAlias
	KindUpdate
	KindPair
	KindWait
	KindSyncCommand
	KindChecked
	KindIf
	KindElseIf
	KindElse
	KindWhile
	KindFor
	KindOnCommand
	KindOnMessage

	// Expressions
	KindIntLiteral
	KindRealLiteral
	KindBoolLiteral
	KindStringLiteral
	KindDateLiteral
	KindDurationLiteral
	KindInternalLiteral
	KindArrayLiteral
	KindVariableRef
	KindArrayRef
	KindArith
	KindNegate
	KindFunction
	KindCompare
	KindLogical
	KindNot
	KindLookup
	KindStateName
	KindNodeVar
	KindTimepoint
	KindTimepointKeyword
	KindNodeRef

	kindCount
)

var kindNames = [kindCount]string{
	KindInvalid:          "Invalid",
	KindPlan:             "Plan",
	KindGlobalDecls:      "GlobalDecls",
	KindCommandDecl:      "CommandDecl",
	KindStateDecl:        "StateDecl",
	KindLibraryDecl:      "LibraryDecl",
	KindMutexDecl:        "MutexDecl",
	KindReturnSpec:       "ReturnSpec",
	KindParameters:       "Parameters",
	KindParamSpec:        "ParamSpec",
	KindArrayParamSpec:   "ArrayParamSpec",
	KindWildcard:         "Wildcard",
	KindLibraryInterface: "LibraryInterface",
	KindLibraryParam:     "LibraryParam",
	KindInitialValue:     "InitialValue",
	KindTypeName:         "TypeName",
	KindName:             "Name",
	KindAction:           "Action",
	KindBlock:            "Block",
	KindComment:          "Comment",
	KindInterfaceDecl:    "InterfaceDecl",
	KindVarDecls:         "VarDecls",
	KindVarDecl:          "VarDecl",
	KindArrayVarDecl:     "ArrayVarDecl",
	KindUsing:            "Using",
	KindCondition:        "Condition",
	KindResource:         "Resource",
	KindResourceOption:   "ResourceOption",
	KindPriority:         "Priority",
	KindAssignment:       "Assignment",
	KindCommand:          "Command",
	KindCommandName:      "CommandName",
	KindArgumentList:     "ArgumentList",
	KindLibraryCall:      "LibraryCall",
	KindAliases:          "Aliases",
	KindAlias:            "Alias",
	KindUpdate:           "Update",
	KindPair:             "Pair",
	KindWait:             "Wait",
	KindSyncCommand:      "SyncCommand",
	KindChecked:          "Checked",
	KindIf:               "If",
	KindElseIf:           "ElseIf",
	KindElse:             "Else",
	KindWhile:            "While",
	KindFor:              "For",
	KindOnCommand:        "OnCommand",
	KindOnMessage:        "OnMessage",
	KindIntLiteral:       "IntLiteral",
	KindRealLiteral:      "RealLiteral",
	KindBoolLiteral:      "BoolLiteral",
	KindStringLiteral:    "StringLiteral",
	KindDateLiteral:      "DateLiteral",
	KindDurationLiteral:  "DurationLiteral",
	KindInternalLiteral:  "InternalLiteral",
	KindArrayLiteral:     "ArrayLiteral",
	KindVariableRef:      "VariableRef",
	KindArrayRef:         "ArrayRef",
	KindArith:            "Arith",
	KindNegate:           "Negate",
	KindFunction:         "Function",
	KindCompare:          "Compare",
	KindLogical:          "Logical",
	KindNot:              "Not",
	KindLookup:           "Lookup",
	KindStateName:        "StateName",
	KindNodeVar:          "NodeVar",
	KindTimepoint:        "Timepoint",
	KindTimepointKeyword: "TimepointKeyword",
	KindNodeRef:          "NodeRef",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Kinds returns every valid kind.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := KindInvalid + 1; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// IsLiteral reports kinds whose value is fixed at compile time.
func (k Kind) IsLiteral() bool {
	return k >= KindIntLiteral && k <= KindArrayLiteral
}

// IsExpr reports kinds that produce a value.
func (k Kind) IsExpr() bool {
	return k >= KindIntLiteral && k <= KindTimepoint
}

// IsBody reports kinds that may appear as the body of an Action.
func (k Kind) IsBody() bool {
	switch k {
	case KindBlock, KindAssignment, KindCommand, KindLibraryCall, KindUpdate, KindWait,
		KindSyncCommand, KindIf, KindWhile, KindFor, KindOnCommand, KindOnMessage:
		return true
	}
	return false
}

// OpensScope reports bodies that introduce a fresh scope.
func (k Kind) OpensScope() bool {
	switch k {
	case KindBlock, KindIf, KindWhile, KindFor, KindOnCommand, KindOnMessage, KindLibraryCall:
		return true
	}
	return false
}
