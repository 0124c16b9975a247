package types

import "testing"

func TestArithmeticResult(t *testing.T) {
	tests := []struct {
		op   ArithOp
		a, b Type
		want Type
		ok   bool
	}{
		{OpAdd, Integer, Integer, Integer, true},
		{OpAdd, Integer, Real, Real, true},
		{OpDiv, Integer, Integer, Integer, true},
		{OpAdd, String, String, String, true},
		{OpSub, String, String, Error, false},
		{OpAdd, Date, Duration, Date, true},
		{OpSub, Date, Date, Duration, true},
		{OpMul, Duration, Integer, Duration, true},
		{OpDiv, Duration, Duration, Real, true},
		{OpMax, Date, Date, Date, true},
		{OpAdd, Boolean, Integer, Error, false},
		{OpAdd, Any, Any, Any, true},
	}
	for _, tt := range tests {
		got, ok := ArithmeticResult(tt.op, tt.a, tt.b)
		if got != tt.want || ok != tt.ok {
			t.Errorf("%v %s %v = (%v, %v), want (%v, %v)", tt.a, tt.op, tt.b, got, ok, tt.want, tt.ok)
		}
	}
}

func TestComparable(t *testing.T) {
	tests := []struct {
		a, b Type
		fam  Family
		ok   bool
	}{
		{Integer, Real, FamilyNumeric, true},
		{Date, Date, FamilyNumeric, true},
		{Date, Duration, FamilyNone, false},
		{String, String, FamilyString, true},
		{Boolean, Boolean, FamilyBoolean, true},
		{NodeState, NodeState, FamilyInternal, true},
		{NodeState, NodeOutcome, FamilyNone, false},
		{ArrayOf(Integer), ArrayOf(Integer), FamilyArray, true},
		{String, Integer, FamilyNone, false},
	}
	for _, tt := range tests {
		fam, ok := Comparable(tt.a, tt.b)
		if fam != tt.fam || ok != tt.ok {
			t.Errorf("Comparable(%v, %v) = (%v, %v)", tt.a, tt.b, fam, ok)
		}
	}
	if Ordered(String, String) {
		t.Error("strings are not ordered")
	}
	if !Ordered(Integer, Real) {
		t.Error("numbers are ordered")
	}
}

func TestTimeoutCompatible(t *testing.T) {
	if !TimeoutCompatible(Duration, Duration) || TimeoutCompatible(Duration, Real) {
		t.Error("duration timeouts need duration tolerances")
	}
	if !TimeoutCompatible(Integer, Real) || !TimeoutCompatible(Real, Integer) {
		t.Error("numeric timeouts accept numeric tolerances")
	}
	if TimeoutCompatible(String, String) {
		t.Error("strings are not timeouts")
	}
	if ClassifyTimeout(Date) != TimeoutInvalid {
		t.Error("dates are not timeouts")
	}
}
