package types

// ArithOp enumerates arithmetic operators with type rules.
type ArithOp uint8

const (
	OpAdd ArithOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpMax
	OpMin
)

func (op ArithOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpMax:
		return "max"
	case OpMin:
		return "min"
	}
	return "?"
}

// ArithmeticResult returns the result type of a op b. Any operands are
// expected to have been coerced by the caller beforehand; Any with Any gives Any.
func ArithmeticResult(op ArithOp, a, b Type) (Type, bool) {
	if a.Kind == KindAny && b.Kind == KindAny {
		return Any, true
	}
	if a.IsArithmetic() && b.IsArithmetic() {
		if a.Kind == KindInteger && b.Kind == KindInteger {
			return Integer, true
		}
		return Real, true
	}
	if op == OpAdd && a.Kind == KindString && b.Kind == KindString {
		return String, true
	}
	return temporalResult(op, a, b)
}

// temporal arithmetic: Date +- Duration, Date - Date, Duration scaling.
func temporalResult(op ArithOp, a, b Type) (Type, bool) {
	switch op {
	case OpAdd:
		switch {
		case a.Kind == KindDate && b.Kind == KindDuration, a.Kind == KindDuration && b.Kind == KindDate:
			return Date, true
		case a.Kind == KindDuration && b.Kind == KindDuration:
			return Duration, true
		}
	case OpSub:
		switch {
		case a.Kind == KindDate && b.Kind == KindDate:
			return Duration, true
		case a.Kind == KindDate && b.Kind == KindDuration:
			return Date, true
		case a.Kind == KindDuration && b.Kind == KindDuration:
			return Duration, true
		}
	case OpMul:
		switch {
		case a.Kind == KindDuration && b.IsArithmetic(), a.IsArithmetic() && b.Kind == KindDuration:
			return Duration, true
		}
	case OpDiv:
		switch {
		case a.Kind == KindDuration && b.IsArithmetic():
			return Duration, true
		case a.Kind == KindDuration && b.Kind == KindDuration:
			return Real, true
		}
	case OpMax, OpMin:
		if a == b && a.IsTemporal() {
			return a, true
		}
	}
	return Error, false
}

// Family names the comparison operator variant used for two operands.
type Family uint8

const (
	FamilyNone Family = iota
	FamilyNumeric
	FamilyString
	FamilyBoolean
	FamilyInternal
	FamilyArray
)

// Suffix is appended to EQ/NE element names.
func (f Family) Suffix() string {
	switch f {
	case FamilyNumeric:
		return "Numeric"
	case FamilyString:
		return "String"
	case FamilyBoolean:
		return "Boolean"
	case FamilyInternal:
		return "Internal"
	case FamilyArray:
		return "Array"
	}
	return ""
}

// Comparable returns the family for an equality test between a and b.
func Comparable(a, b Type) (Family, bool) {
	switch {
	case a.IsArithmetic() && b.IsArithmetic():
		return FamilyNumeric, true
	case a.IsTemporal() && a == b:
		return FamilyNumeric, true
	case a.Kind == KindString && b.Kind == KindString:
		return FamilyString, true
	case a.Kind == KindBoolean && b.Kind == KindBoolean:
		return FamilyBoolean, true
	case a.IsInternal() && a == b:
		return FamilyInternal, true
	case a.Kind == KindArray && a == b:
		return FamilyArray, true
	}
	return FamilyNone, false
}

// Ordered reports whether a and b may be compared with < <= > >=.
func Ordered(a, b Type) bool {
	fam, ok := Comparable(a, b)
	return ok && fam == FamilyNumeric
}

// TimeoutFamily classifies a timeout or wait duration expression.
type TimeoutFamily uint8

const (
	TimeoutInvalid TimeoutFamily = iota
	TimeoutDuration
	TimeoutNumeric
)

// ClassifyTimeout returns how a timeout of type t is interpreted.
func ClassifyTimeout(t Type) TimeoutFamily {
	switch {
	case t.Kind == KindDuration:
		return TimeoutDuration
	case t.IsArithmetic():
		return TimeoutNumeric
	}
	return TimeoutInvalid
}

// TimeoutCompatible reports whether a tolerance of type tol fits a timeout of type timeout.
func TimeoutCompatible(timeout, tol Type) bool {
	switch ClassifyTimeout(timeout) {
	case TimeoutDuration:
		return tol.Kind == KindDuration
	case TimeoutNumeric:
		return tol.IsArithmetic()
	}
	return false
}
