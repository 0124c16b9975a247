package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// Declarations
	DeclDuplicateVariable  Code = 1001
	DeclShadowedVariable   Code = 1002
	DeclDuplicateNodeID    Code = 1003
	DeclDuplicateMutex     Code = 1004
	DeclMutexRedeclared    Code = 1005
	DeclDuplicateParameter Code = 1006
	DeclWildcardNotLast    Code = 1007
	DeclNegativeArraySize  Code = 1008
	DeclInvalidParameter   Code = 1009
	DeclDuplicateGlobal    Code = 1010
	DeclConflictingGlobal  Code = 1011
	DeclInterfaceMismatch  Code = 1012
	DeclInterfaceReadOnly  Code = 1013
	DeclInterfaceUnbound   Code = 1014
	DeclInitialValueType   Code = 1015
	DeclInitialValueSize   Code = 1016
	DeclInOutDefault       Code = 1017
	DeclPreviousHere       Code = 1099

	// Name resolution
	ResUndeclaredVariable   Code = 2001
	ResUndeclaredCommand    Code = 2002
	ResUndeclaredState      Code = 2003
	ResUndeclaredLibrary    Code = 2004
	ResUndeclaredMutex      Code = 2005
	ResNodeUnreachable      Code = 2006
	ResNodeAmbiguous        Code = 2007
	ResMutexInUse           Code = 2008
	ResMutexInUseByAncestor Code = 2009
	ResUnknownParameter     Code = 2010
	ResDuplicateAlias       Code = 2011
	ResMissingParameters    Code = 2012

	// Types
	TypeMismatch            Code = 3001
	TypeAssignVoid          Code = 3002
	TypeAssignMismatch      Code = 3003
	TypeArraySize           Code = 3004
	TypeNotAssignable       Code = 3005
	TypeArgumentCount       Code = 3006
	TypeArgumentType        Code = 3007
	TypeConditionNotBoolean Code = 3008
	TypeOperand             Code = 3009
	TypeIndex               Code = 3010
	TypeNotArray            Code = 3011
	TypeArrayElement        Code = 3012
	TypeAnyCoercion         Code = 3013
	TypeCommandName         Code = 3014
	TypeTimeout             Code = 3015
	TypeTolerance           Code = 3016
	TypeResource            Code = 3017
	TypeComparison          Code = 3018

	// Node structure
	StructDuplicateCondition      Code = 4001
	StructDuplicatePriority       Code = 4002
	StructResourceNotCommand      Code = 4003
	StructDuplicateResourceOption Code = 4004
	StructBadPriority             Code = 4005
	StructDuplicateUpdate         Code = 4006
	StructBadLoopVariable         Code = 4007

	// Literals
	LitBadInteger  Code = 5001
	LitBadReal     Code = 5002
	LitBadString   Code = 5003
	LitBadDate     Code = 5004
	LitBadDuration Code = 5005
	LitBadInternal Code = 5006

	// Input and output
	IOReadFile  Code = 6001
	IOParseTree Code = 6002
	IOTranslate Code = 6003
	IOWriteFile Code = 6004

	// Internal invariants
	InternalUnhandledKind  Code = 9001
	InternalMalformedTree  Code = 9002
	InternalBadTypeRequest Code = 9003
	InternalEmit           Code = 9004
	InternalPanic          Code = 9005
)

var codeDescription = map[Code]string{
	UnknownCode: "Unknown error",

	DeclDuplicateVariable:  "Variable declared twice in one scope",
	DeclShadowedVariable:   "Local variable shadows an inherited one",
	DeclDuplicateNodeID:    "Node identifier reused among siblings",
	DeclDuplicateMutex:     "Mutex declared twice in one scope",
	DeclMutexRedeclared:    "Global mutex redeclared",
	DeclDuplicateParameter: "Parameter name repeated",
	DeclWildcardNotLast:    "Wildcard parameter is not last",
	DeclNegativeArraySize:  "Negative array size",
	DeclInvalidParameter:   "Invalid parameter descriptor",
	DeclDuplicateGlobal:    "Global declaration repeated",
	DeclConflictingGlobal:  "Conflicting global declaration",
	DeclInterfaceMismatch:  "Interface variable type mismatch",
	DeclInterfaceReadOnly:  "InOut interface bound to read-only variable",
	DeclInterfaceUnbound:   "Interface variable has no binding",
	DeclInitialValueType:   "Initial value type mismatch",
	DeclInitialValueSize:   "Initial value exceeds array size",
	DeclInOutDefault:       "InOut parameter with default value",
	DeclPreviousHere:       "Previous declaration",

	ResUndeclaredVariable:   "Undeclared variable",
	ResUndeclaredCommand:    "Undeclared command",
	ResUndeclaredState:      "Undeclared state",
	ResUndeclaredLibrary:    "Undeclared library node",
	ResUndeclaredMutex:      "Undeclared mutex",
	ResNodeUnreachable:      "Node identifier not reachable",
	ResNodeAmbiguous:        "Node identifier ambiguous",
	ResMutexInUse:           "Mutex already used by this node",
	ResMutexInUseByAncestor: "Mutex already used by an ancestor",
	ResUnknownParameter:     "Unknown library parameter",
	ResDuplicateAlias:       "Alias repeated in library call",
	ResMissingParameters:    "Required library parameters missing",

	TypeMismatch:            "Type mismatch",
	TypeAssignVoid:          "Assignment of a value-less expression",
	TypeAssignMismatch:      "Assignment type mismatch",
	TypeArraySize:           "Array size mismatch",
	TypeNotAssignable:       "Expression is not assignable",
	TypeArgumentCount:       "Wrong number of arguments",
	TypeArgumentType:        "Argument type mismatch",
	TypeConditionNotBoolean: "Condition is not Boolean",
	TypeOperand:             "Invalid operand type",
	TypeIndex:               "Array index is not an Integer",
	TypeNotArray:            "Indexed expression is not an array",
	TypeArrayElement:        "Inconsistent array literal element",
	TypeAnyCoercion:         "Implicit coercion of an untyped expression",
	TypeCommandName:         "Command name is not a String",
	TypeTimeout:             "Invalid timeout",
	TypeTolerance:           "Invalid tolerance",
	TypeResource:            "Invalid resource option value",
	TypeComparison:          "Incomparable operands",

	StructDuplicateCondition:      "Condition specified twice",
	StructDuplicatePriority:       "Priority specified twice",
	StructResourceNotCommand:      "Resource outside a Command node",
	StructDuplicateResourceOption: "Resource option repeated",
	StructBadPriority:             "Invalid priority",
	StructDuplicateUpdate:         "Update name repeated",
	StructBadLoopVariable:         "Invalid loop variable",

	LitBadInteger:  "Malformed Integer literal",
	LitBadReal:     "Malformed Real literal",
	LitBadString:   "Malformed String literal",
	LitBadDate:     "Malformed Date literal",
	LitBadDuration: "Malformed Duration literal",
	LitBadInternal: "Unknown internal value",

	IOReadFile:  "Input file could not be read",
	IOParseTree: "Input tree is malformed",
	IOTranslate: "Extended to Core translation failed",
	IOWriteFile: "Output file could not be written",

	InternalUnhandledKind:  "Unhandled node kind",
	InternalMalformedTree:  "Malformed input tree",
	InternalBadTypeRequest: "Illegal type request",
	InternalEmit:           "Emitter invariant violated",
	InternalPanic:          "Compiler pass crashed",
}

// ID returns the stable short identifier, e.g. "TYP3003".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("DCL%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("RES%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("TYP%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("STR%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("LIT%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 9000:
		return fmt.Sprintf("INT%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return c.ID()
}
