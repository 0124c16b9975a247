package types

import "testing"

func TestAssumeTable(t *testing.T) {
	tests := []struct {
		name    string
		current Type
		target  Type
		hint    LiteralHint
		want    Type
		outcome Outcome
	}{
		{"target any", Integer, Any, NotLiteral, Integer, Same},
		{"current any", Any, String, NotLiteral, String, AnyCoerced},
		{"same", Real, Real, NotLiteral, Real, Same},
		{"int widens to real", Integer, Real, NotLiteral, Real, Widened},
		{"real never narrows", Real, Integer, NotLiteral, Real, Failed},
		{"bit literal to boolean", Integer, Boolean, LiteralBit, Boolean, Widened},
		{"other literal to boolean", Integer, Boolean, LiteralOther, Integer, Failed},
		{"variable int to boolean", Integer, Boolean, NotLiteral, Integer, Failed},
		{"boolean to integer", Boolean, Integer, NotLiteral, Boolean, Failed},
		{"duration vs real", Duration, Real, NotLiteral, Duration, Failed},
		{"void target", Integer, Void, NotLiteral, Integer, Internal},
		{"error target", Integer, Error, NotLiteral, Integer, Internal},
		{"unknown array target", ArrayOf(Integer), UnknownArray, NotLiteral, ArrayOf(Integer), Internal},
		{"empty array literal", ArrayOf(Any), ArrayOf(String), NotLiteral, ArrayOf(String), Widened},
		{"array no widening", ArrayOf(Integer), ArrayOf(Real), NotLiteral, ArrayOf(Integer), Failed},
		{"error current", Error, Integer, NotLiteral, Error, Failed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, outcome := Assume(tt.current, tt.target, tt.hint)
			if got != tt.want || outcome != tt.outcome {
				t.Fatalf("Assume(%v, %v) = (%v, %v), want (%v, %v)",
					tt.current, tt.target, got, outcome, tt.want, tt.outcome)
			}
		})
	}
}

func TestAssumeDeterministicAndTotal(t *testing.T) {
	hints := []LiteralHint{NotLiteral, LiteralBit, LiteralOther}
	for _, cur := range All() {
		for _, target := range All() {
			for _, h := range hints {
				t1, o1 := Assume(cur, target, h)
				t2, o2 := Assume(cur, target, h)
				if t1 != t2 || o1 != o2 {
					t.Fatalf("non-deterministic for %v -> %v", cur, target)
				}
				if !o1.OK() && t1 != cur {
					t.Fatalf("failed coercion %v -> %v changed type to %v", cur, target, t1)
				}
				if o1 > Internal {
					t.Fatalf("unknown outcome %v", o1)
				}
			}
		}
	}
}

func TestJoin(t *testing.T) {
	if got, ok := Join(Integer, Real); !ok || got != Real {
		t.Fatalf("Join(Integer, Real) = %v, %v", got, ok)
	}
	if got, ok := Join(Real, Integer); !ok || got != Real {
		t.Fatalf("Join(Real, Integer) = %v, %v", got, ok)
	}
	if got, ok := Join(Any, String); !ok || got != String {
		t.Fatalf("Join(Any, String) = %v, %v", got, ok)
	}
	if got, ok := Join(String, Boolean); ok || got != UnknownArray {
		t.Fatalf("Join(String, Boolean) = %v, %v", got, ok)
	}
}

func TestNamesAndPredicates(t *testing.T) {
	if ArrayOf(Integer).String() != "Integer array" {
		t.Fatalf("got %q", ArrayOf(Integer).String())
	}
	if ArrayOf(Void) != UnknownArray {
		t.Fatal("array of sentinel must be UnknownArray")
	}
	if CommandHandle.String() != "NodeCommandHandle" || CommandHandle.ElementPrefix() != "NodeCommandHandle" {
		t.Fatal("command handle naming")
	}
	if ArrayOf(Real).ElementPrefix() != "Array" || ArrayOf(Real).ElemType() != Real {
		t.Fatal("array element prefix")
	}
	if !Date.IsNumeric() || Date.IsArithmetic() || !Duration.IsTemporal() {
		t.Fatal("temporal predicates")
	}
	if n := len(Scalars()); n != 11 {
		t.Fatalf("want 11 scalars, got %d", n)
	}
	for _, s := range Scalars() {
		if !s.IsScalar() || s.IsSentinel() {
			t.Fatalf("%v misclassified", s)
		}
	}
	if got, ok := ParseName("Duration"); !ok || got != Duration {
		t.Fatal("ParseName")
	}
	if _, ok := ParseName("Float"); ok {
		t.Fatal("unknown names must fail")
	}
}
