// Package types implements the closed type lattice of the plan language and
// the single coercion table every check in the compiler goes through.
package types

import "fmt"

// Kind enumerates the lattice members. Arrays use KindArray with an element kind.
type Kind uint8

const (
	KindInvalid Kind = iota
	// Sentinels
	KindAny
	KindVoid
	KindError
	KindUnknownArray
	// User scalars
	KindBoolean
	KindInteger
	KindReal
	KindString
	KindDate
	KindDuration
	// Internal scalars
	KindStateName
	KindNodeState
	KindNodeOutcome
	KindNodeFailure
	KindCommandHandle
	// Composite
	KindArray
)

var kindNames = [...]string{
	KindInvalid:       "Invalid",
	KindAny:           "Any",
	KindVoid:          "Void",
	KindError:         "Error",
	KindUnknownArray:  "UnknownArray",
	KindBoolean:       "Boolean",
	KindInteger:       "Integer",
	KindReal:          "Real",
	KindString:        "String",
	KindDate:          "Date",
	KindDuration:      "Duration",
	KindStateName:     "StateName",
	KindNodeState:     "NodeState",
	KindNodeOutcome:   "NodeOutcome",
	KindNodeFailure:   "NodeFailure",
	KindCommandHandle: "NodeCommandHandle",
	KindArray:         "Array",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Type is a lattice member. Elem is set only for KindArray.
type Type struct {
	Kind Kind
	Elem Kind
}

var (
	Invalid       = Type{Kind: KindInvalid}
	Any           = Type{Kind: KindAny}
	Void          = Type{Kind: KindVoid}
	Error         = Type{Kind: KindError}
	UnknownArray  = Type{Kind: KindUnknownArray}
	Boolean       = Type{Kind: KindBoolean}
	Integer       = Type{Kind: KindInteger}
	Real          = Type{Kind: KindReal}
	String        = Type{Kind: KindString}
	Date          = Type{Kind: KindDate}
	Duration      = Type{Kind: KindDuration}
	StateName     = Type{Kind: KindStateName}
	NodeState     = Type{Kind: KindNodeState}
	NodeOutcome   = Type{Kind: KindNodeOutcome}
	NodeFailure   = Type{Kind: KindNodeFailure}
	CommandHandle = Type{Kind: KindCommandHandle}
)

// ArrayOf returns the array type with element elem. Non-scalar elements give UnknownArray.
func ArrayOf(elem Type) Type {
	if !elem.IsScalar() && elem.Kind != KindAny {
		return UnknownArray
	}
	return Type{Kind: KindArray, Elem: elem.Kind}
}

// ElemType returns the element type of an array, or Invalid.
func (t Type) ElemType() Type {
	if t.Kind != KindArray {
		return Invalid
	}
	return Type{Kind: t.Elem}
}

func (t Type) String() string {
	if t.Kind == KindArray {
		return t.Elem.String() + " array"
	}
	return t.Kind.String()
}

// ElementPrefix is the name used to build XML element names such as
// IntegerValue or ArrayVariable.
func (t Type) ElementPrefix() string {
	if t.IsArray() {
		return "Array"
	}
	return t.Kind.String()
}

// IsValid reports whether t is anything but the zero value.
func (t Type) IsValid() bool { return t.Kind != KindInvalid }

// IsArray reports whether t is a concrete or unknown array.
func (t Type) IsArray() bool { return t.Kind == KindArray || t.Kind == KindUnknownArray }

// IsScalar reports whether t is a user or internal scalar.
func (t Type) IsScalar() bool { return t.Kind >= KindBoolean && t.Kind <= KindCommandHandle }

// IsNumeric reports Integer, Real, Date and Duration.
func (t Type) IsNumeric() bool {
	switch t.Kind {
	case KindInteger, KindReal, KindDate, KindDuration:
		return true
	}
	return false
}

// IsArithmetic reports Integer and Real only.
func (t Type) IsArithmetic() bool { return t.Kind == KindInteger || t.Kind == KindReal }

// IsTemporal reports Date and Duration.
func (t Type) IsTemporal() bool { return t.Kind == KindDate || t.Kind == KindDuration }

// IsInternal reports node-introspection kinds.
func (t Type) IsInternal() bool { return t.Kind >= KindStateName && t.Kind <= KindCommandHandle }

// IsSentinel reports Any, Void, Error and UnknownArray.
func (t Type) IsSentinel() bool { return t.Kind >= KindAny && t.Kind <= KindUnknownArray }

// IsDeclarable reports whether variables or parameters may have this element type.
func (t Type) IsDeclarable() bool {
	switch t.Kind {
	case KindBoolean, KindInteger, KindReal, KindString, KindDate, KindDuration:
		return true
	}
	return false
}

var byName = map[string]Type{
	"Any":      Any,
	"Boolean":  Boolean,
	"Integer":  Integer,
	"Real":     Real,
	"String":   String,
	"Date":     Date,
	"Duration": Duration,
}

// ParseName maps a type keyword to its type.
func ParseName(name string) (Type, bool) {
	t, ok := byName[name]
	return t, ok
}

// Scalars lists every scalar member in lattice order.
func Scalars() []Type {
	out := make([]Type, 0, KindCommandHandle-KindBoolean+1)
	for k := KindBoolean; k <= KindCommandHandle; k++ {
		out = append(out, Type{Kind: k})
	}
	return out
}

// All lists the sentinels, the scalars and one array per scalar.
func All() []Type {
	out := []Type{Any, Void, Error, UnknownArray}
	out = append(out, Scalars()...)
	for _, s := range Scalars() {
		out = append(out, ArrayOf(s))
	}
	return out
}
