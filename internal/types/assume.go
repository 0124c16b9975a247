package types

// Outcome classifies the result of Assume.
type Outcome uint8

const (
	// Same: the type already matches (or the target is Any).
	Same Outcome = iota
	// Widened: silent promotion (Integer to Real, literal 0/1 to Boolean).
	Widened
	// AnyCoerced: an untyped expression adopted the target; callers warn.
	AnyCoerced
	// Failed: the coercion is illegal.
	Failed
	// Internal: the request itself is illegal (Void, Error or UnknownArray target).
	Internal
)

func (o Outcome) String() string {
	switch o {
	case Same:
		return "same"
	case Widened:
		return "widened"
	case AnyCoerced:
		return "any-coerced"
	case Failed:
		return "failed"
	case Internal:
		return "internal"
	}
	return "unknown"
}

// OK reports whether the outcome lets the expression take the returned type.
func (o Outcome) OK() bool { return o <= AnyCoerced }

// LiteralHint tells Assume what is known about the expression's lexical value.
type LiteralHint uint8

const (
	NotLiteral LiteralHint = iota
	// LiteralBit marks an Integer literal whose text is exactly 0 or 1.
	LiteralBit
	// LiteralOther marks any other literal.
	LiteralOther
)

// Assume decides whether an expression of type current can be used where
// target is required. On failure the returned type is current, unchanged.
func Assume(current, target Type, hint LiteralHint) (Type, Outcome) {
	switch target.Kind {
	case KindInvalid, KindVoid, KindError, KindUnknownArray:
		return current, Internal
	case KindAny:
		return current, Same
	}
	if current.Kind == KindAny {
		return target, AnyCoerced
	}
	if current == target {
		return current, Same
	}
	switch {
	case current.Kind == KindInteger && target.Kind == KindReal:
		return target, Widened
	case current.Kind == KindInteger && target.Kind == KindBoolean && hint == LiteralBit:
		return target, Widened
	case current.Kind == KindArray && target.Kind == KindArray && current.Elem == KindAny:
		// empty array literal
		return target, Widened
	}
	return current, Failed
}

// Join computes the common type of two array literal elements.
func Join(a, b Type) (Type, bool) {
	switch {
	case a == b:
		return a, true
	case a.Kind == KindAny:
		return b, true
	case b.Kind == KindAny:
		return a, true
	case a.IsArithmetic() && b.IsArithmetic():
		return Real, true
	}
	return UnknownArray, false
}
