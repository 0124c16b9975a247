// Package syntax defines the parsed tree handed over by the external parser:
// grammar-rule tags, source positions, raw text and ordered children.
package syntax

import "fmt"

// Tag is a grammar-rule tag.
type Tag uint16

const (
	TagInvalid Tag = iota

	// Plan and global declarations
	TagPlexil
	TagGlobalDeclarations
	TagCommandDeclaration
	TagStateDeclaration
	TagLibraryNodeDeclaration
	TagMutex
	TagReturns
	TagParameters
	TagArrayType
	TagEllipsis
	TagLibraryInterface
	TagInitialValue

	// Type keywords
	TagAnyType
	TagBooleanType
	TagIntegerType
	TagRealType
	TagStringType
	TagDateType
	TagDurationType

	// Nodes
	TagAction
	TagNCName
	TagBrace
	TagSequence
	TagConcurrence
	TagUncheckedSequence
	TagTry
	TagComment
	TagIn
	TagInOut
	TagVariableDeclarations
	TagVariableDeclaration
	TagArrayVariableDeclaration
	TagUsing
	TagStartCondition
	TagEndCondition
	TagInvariantCondition
	TagPostCondition
	TagPreCondition
	TagRepeatCondition
	TagSkipCondition
	TagExitCondition
	TagResource
	TagUpperBound
	TagReleaseAtTermination
	TagPriority

	// Actions
	TagAssignment
	TagCommand
	TagCommandName
	TagArgumentList
	TagLibraryCall
	TagAliases
	TagAlias
	TagUpdate
	TagPair
	TagWait
	TagSynchronousCommand
	TagChecked
	TagIf
	TagElseIf
	TagElse
	TagWhile
	TagFor
	TagOnCommand
	TagOnMessage

	// Literals
	TagInt
	TagNegInt
	TagDouble
	TagNegDouble
	TagTrue
	TagFalse
	TagString
	TagDateLiteral
	TagDurationLiteral
	TagNodeStateValue
	TagNodeOutcomeValue
	TagNodeFailureValue
	TagCommandHandleValue
	TagArrayLiteral

	// Expressions
	TagArrayRef
	TagPlus
	TagMinus
	TagAsterisk
	TagSlash
	TagPercent
	TagUnaryMinus
	TagAbs
	TagSqrt
	TagCeil
	TagFloor
	TagRound
	TagTrunc
	TagRealToInt
	TagMax
	TagMin
	TagStrlen
	TagIsKnown
	TagArraySize
	TagArrayMaxSize
	TagAllKnown
	TagAnyKnown
	TagEquals
	TagNotEquals
	TagLess
	TagLessEq
	TagGreater
	TagGreaterEq
	TagAnd
	TagOr
	TagXor
	TagNot
	TagLookup
	TagLookupNow
	TagLookupOnChange
	TagStateName
	TagNodeStateVariable
	TagNodeOutcomeVariable
	TagNodeFailureVariable
	TagCommandHandleVariable
	TagNodeTimepointValue
	TagStart
	TagEnd
	TagSelf
	TagParent

	tagCount
)

type tagInfo struct {
	name string // name in the textual tree form
	text string // default lexical text
}

var tagTable = [tagCount]tagInfo{
	TagInvalid: {"INVALID", ""},

	TagPlexil:                 {"PLEXIL", "PlexilPlan"},
	TagGlobalDeclarations:     {"GLOBAL_DECLARATIONS", "GlobalDeclarations"},
	TagCommandDeclaration:     {"COMMAND_DECLARATION", "CommandDeclaration"},
	TagStateDeclaration:       {"STATE_DECLARATION", "StateDeclaration"},
	TagLibraryNodeDeclaration: {"LIBRARY_NODE_DECLARATION", "LibraryNodeDeclaration"},
	TagMutex:                  {"MUTEX_KYWD", "Mutex"},
	TagReturns:                {"RETURNS_KYWD", "Return"},
	TagParameters:             {"PARAMETERS", "Parameters"},
	TagArrayType:              {"ARRAY_TYPE", "Array"},
	TagEllipsis:               {"ELLIPSIS", "..."},
	TagLibraryInterface:       {"LIBRARY_INTERFACE", "Interface"},
	TagInitialValue:           {"INITIAL_VALUE", "InitialValue"},

	TagAnyType:      {"ANY_KYWD", "Any"},
	TagBooleanType:  {"BOOLEAN_KYWD", "Boolean"},
	TagIntegerType:  {"INTEGER_KYWD", "Integer"},
	TagRealType:     {"REAL_KYWD", "Real"},
	TagStringType:   {"STRING_KYWD", "String"},
	TagDateType:     {"DATE_KYWD", "Date"},
	TagDurationType: {"DURATION_KYWD", "Duration"},

	TagAction:                   {"ACTION", "Action"},
	TagNCName:                   {"NCNAME", ""},
	TagBrace:                    {"LBRACE", "{"},
	TagSequence:                 {"SEQUENCE_KYWD", "Sequence"},
	TagConcurrence:              {"CONCURRENCE_KYWD", "Concurrence"},
	TagUncheckedSequence:        {"UNCHECKED_SEQUENCE_KYWD", "UncheckedSequence"},
	TagTry:                      {"TRY_KYWD", "Try"},
	TagComment:                  {"COMMENT_KYWD", "Comment"},
	TagIn:                       {"IN_KYWD", "In"},
	TagInOut:                    {"IN_OUT_KYWD", "InOut"},
	TagVariableDeclarations:     {"VARIABLE_DECLARATIONS", "VariableDeclarations"},
	TagVariableDeclaration:      {"VARIABLE_DECLARATION", "DeclareVariable"},
	TagArrayVariableDeclaration: {"ARRAY_VARIABLE_DECLARATION", "DeclareArray"},
	TagUsing:                    {"USING_KYWD", "Using"},
	TagStartCondition:           {"START_CONDITION_KYWD", "StartCondition"},
	TagEndCondition:             {"END_CONDITION_KYWD", "EndCondition"},
	TagInvariantCondition:       {"INVARIANT_CONDITION_KYWD", "InvariantCondition"},
	TagPostCondition:            {"POST_CONDITION_KYWD", "PostCondition"},
	TagPreCondition:             {"PRE_CONDITION_KYWD", "PreCondition"},
	TagRepeatCondition:          {"REPEAT_CONDITION_KYWD", "RepeatCondition"},
	TagSkipCondition:            {"SKIP_CONDITION_KYWD", "SkipCondition"},
	TagExitCondition:            {"EXIT_CONDITION_KYWD", "ExitCondition"},
	TagResource:                 {"RESOURCE_KYWD", "Resource"},
	TagUpperBound:               {"UPPER_BOUND_KYWD", "UpperBound"},
	TagReleaseAtTermination:     {"RELEASE_AT_TERM_KYWD", "ReleaseAtTermination"},
	TagPriority:                 {"PRIORITY_KYWD", "Priority"},

	TagAssignment:         {"ASSIGNMENT", "Assignment"},
	TagCommand:            {"COMMAND", "Command"},
	TagCommandName:        {"COMMAND_KYWD", "Command"},
	TagArgumentList:       {"ARGUMENT_LIST", "Arguments"},
	TagLibraryCall:        {"LIBRARY_CALL_KYWD", "LibraryCall"},
	TagAliases:            {"ALIASES", "Aliases"},
	TagAlias:              {"ALIAS", "Alias"},
	TagUpdate:             {"UPDATE_KYWD", "Update"},
	TagPair:               {"PAIR", "Pair"},
	TagWait:               {"WAIT_KYWD", "Wait"},
	TagSynchronousCommand: {"SYNCHRONOUS_COMMAND_KYWD", "SynchronousCommand"},
	TagChecked:            {"CHECKED_KYWD", "Checked"},
	TagIf:                 {"IF_KYWD", "If"},
	TagElseIf:             {"ELSEIF_KYWD", "ElseIf"},
	TagElse:               {"ELSE_KYWD", "Else"},
	TagWhile:              {"WHILE_KYWD", "While"},
	TagFor:                {"FOR_KYWD", "For"},
	TagOnCommand:          {"ON_COMMAND_KYWD", "OnCommand"},
	TagOnMessage:          {"ON_MESSAGE_KYWD", "OnMessage"},

	TagInt:                {"INT", "0"},
	TagNegInt:             {"NEG_INT", "0"},
	TagDouble:             {"DOUBLE", "0.0"},
	TagNegDouble:          {"NEG_DOUBLE", "0.0"},
	TagTrue:               {"TRUE_KYWD", "true"},
	TagFalse:              {"FALSE_KYWD", "false"},
	TagString:             {"STRING", `""`},
	TagDateLiteral:        {"DATE_LITERAL", "Date"},
	TagDurationLiteral:    {"DURATION_LITERAL", "Duration"},
	TagNodeStateValue:     {"NODE_STATE_KYWD", ""},
	TagNodeOutcomeValue:   {"NODE_OUTCOME_KYWD", ""},
	TagNodeFailureValue:   {"NODE_FAILURE_KYWD", ""},
	TagCommandHandleValue: {"NODE_COMMAND_HANDLE_KYWD", ""},
	TagArrayLiteral:       {"ARRAY_LITERAL", "#("},

	TagArrayRef:              {"ARRAY_REF", "["},
	TagPlus:                  {"PLUS", "+"},
	TagMinus:                 {"MINUS", "-"},
	TagAsterisk:              {"ASTERISK", "*"},
	TagSlash:                 {"SLASH", "/"},
	TagPercent:               {"PERCENT", "%"},
	TagUnaryMinus:            {"UNARY_MINUS", "-"},
	TagAbs:                   {"ABS_KYWD", "abs"},
	TagSqrt:                  {"SQRT_KYWD", "sqrt"},
	TagCeil:                  {"CEIL_KYWD", "ceil"},
	TagFloor:                 {"FLOOR_KYWD", "floor"},
	TagRound:                 {"ROUND_KYWD", "round"},
	TagTrunc:                 {"TRUNC_KYWD", "trunc"},
	TagRealToInt:             {"REAL_TO_INT_KYWD", "real_to_int"},
	TagMax:                   {"MAX_KYWD", "max"},
	TagMin:                   {"MIN_KYWD", "min"},
	TagStrlen:                {"STRLEN_KYWD", "strlen"},
	TagIsKnown:               {"IS_KNOWN_KYWD", "isKnown"},
	TagArraySize:             {"ARRAY_SIZE_KYWD", "arraySize"},
	TagArrayMaxSize:          {"ARRAY_MAX_SIZE_KYWD", "arrayMaxSize"},
	TagAllKnown:              {"ALL_KNOWN_KYWD", "allKnown"},
	TagAnyKnown:              {"ANY_KNOWN_KYWD", "anyKnown"},
	TagEquals:                {"DEQUALS", "=="},
	TagNotEquals:             {"NEQUALS", "!="},
	TagLess:                  {"LESS", "<"},
	TagLessEq:                {"LEQ", "<="},
	TagGreater:               {"GREATER", ">"},
	TagGreaterEq:             {"GEQ", ">="},
	TagAnd:                   {"AND_KYWD", "&&"},
	TagOr:                    {"OR_KYWD", "||"},
	TagXor:                   {"XOR_KYWD", "XOR"},
	TagNot:                   {"NOT_KYWD", "!"},
	TagLookup:                {"LOOKUP_KYWD", "Lookup"},
	TagLookupNow:             {"LOOKUP_NOW_KYWD", "LookupNow"},
	TagLookupOnChange:        {"LOOKUP_ON_CHANGE_KYWD", "LookupOnChange"},
	TagStateName:             {"STATE_NAME", "StateName"},
	TagNodeStateVariable:     {"NODE_STATE_VARIABLE", "state"},
	TagNodeOutcomeVariable:   {"NODE_OUTCOME_VARIABLE", "outcome"},
	TagNodeFailureVariable:   {"NODE_FAILURE_VARIABLE", "failure"},
	TagCommandHandleVariable: {"NODE_COMMAND_HANDLE_VARIABLE", "command_handle"},
	TagNodeTimepointValue:    {"NODE_TIMEPOINT_VALUE", "timepoint"},
	TagStart:                 {"START_KYWD", "START"},
	TagEnd:                   {"END_KYWD", "END"},
	TagSelf:                  {"SELF_KYWD", "Self"},
	TagParent:                {"PARENT_KYWD", "Parent"},
}

var tagByName = func() map[string]Tag {
	m := make(map[string]Tag, tagCount)
	for i := TagInvalid + 1; i < tagCount; i++ {
		m[tagTable[i].name] = i
	}
	return m
}()

func (t Tag) String() string {
	if t < tagCount {
		return tagTable[t].name
	}
	return fmt.Sprintf("Tag(%d)", uint16(t))
}

// DefaultText is the lexical text a parser would attach to a keyword tag.
func (t Tag) DefaultText() string {
	if t < tagCount {
		return tagTable[t].text
	}
	return ""
}

// IsValid reports whether t is a known, non-sentinel tag.
func (t Tag) IsValid() bool { return t > TagInvalid && t < tagCount }

// ParseTag maps a textual tag name to its Tag.
func ParseTag(name string) (Tag, bool) {
	t, ok := tagByName[name]
	return t, ok
}

// IsTypeKeyword reports the parameter/variable type keywords.
func (t Tag) IsTypeKeyword() bool { return t >= TagAnyType && t <= TagDurationType }

// IsCondition reports the eight node condition keywords.
func (t Tag) IsCondition() bool { return t >= TagStartCondition && t <= TagExitCondition }

// IsBlock reports the block-introducing tags.
func (t Tag) IsBlock() bool { return t >= TagBrace && t <= TagTry }

// Count is the number of valid tags.
func Count() int { return int(tagCount) - 1 }

// All returns every valid tag in declaration order.
func All() []Tag {
	out := make([]Tag, 0, tagCount-1)
	for t := TagInvalid + 1; t < tagCount; t++ {
		out = append(out, t)
	}
	return out
}
