package diag

import (
	"testing"

	"plexilc/internal/source"
)

func loc(line uint32) source.Location {
	return source.Location{File: 1, Pos: source.Pos{Line: line}}
}

func TestBagKeepsDiscoveryOrder(t *testing.T) {
	b := NewBag(0)
	r := BagReporter{Bag: b}
	ReportError(r, TypeMismatch, loc(9), "late line first").Emit()
	ReportWarning(r, DeclShadowedVariable, loc(1), "early line second").Emit()
	ReportNote(r, DeclPreviousHere, loc(5), "third").Emit()

	items := b.Items()
	if len(items) != 3 {
		t.Fatalf("want 3 items, got %d", len(items))
	}
	want := []string{"late line first", "early line second", "third"}
	for i, w := range want {
		if items[i].Message != w {
			t.Errorf("item %d = %q, want %q", i, items[i].Message, w)
		}
	}
}

func TestMaxSeverity(t *testing.T) {
	b := NewBag(0)
	if b.MaxSeverity() != SevNone {
		t.Fatalf("empty bag max = %v", b.MaxSeverity())
	}
	if ExitStatus(b.MaxSeverity()) != 0 {
		t.Fatal("no diagnostics must exit 0")
	}
	r := BagReporter{Bag: b}
	ReportWarning(r, TypeAnyCoercion, loc(1), "w").Emit()
	if b.HasErrors() || !b.HasWarnings() {
		t.Fatal("warning must not count as error")
	}
	ReportFatal(r, InternalUnhandledKind, source.Location{}, "boom").Emit()
	ReportError(r, TypeMismatch, loc(2), "e").Emit()
	if b.MaxSeverity() != SevFatal || !b.HasFatal() {
		t.Fatalf("max = %v", b.MaxSeverity())
	}
	if ExitStatus(b.MaxSeverity()) != 2 {
		t.Fatalf("exit = %d", ExitStatus(b.MaxSeverity()))
	}
}

func TestBagLimitStillTracksSeverity(t *testing.T) {
	b := NewBag(1)
	b.Add(New(SevWarning, TypeAnyCoercion, loc(1), "kept"))
	if b.Add(New(SevError, TypeMismatch, loc(2), "dropped")) {
		t.Fatal("second add must be dropped")
	}
	if b.Len() != 1 || b.Dropped() != 1 {
		t.Fatalf("len=%d dropped=%d", b.Len(), b.Dropped())
	}
	if !b.HasErrors() {
		t.Fatal("dropped error must still raise max severity")
	}
}

func TestSeverityOrder(t *testing.T) {
	order := []Severity{SevNone, SevNote, SevWarning, SevError, SevFatal}
	for i := 1; i < len(order); i++ {
		if order[i-1] >= order[i] {
			t.Fatalf("%v must be below %v", order[i-1], order[i])
		}
	}
	if SevFatal.String() != "FATAL" || SevNote.String() != "NOTE" {
		t.Fatal("unexpected severity names")
	}
}

func TestBuilderEmitsOnce(t *testing.T) {
	b := NewBag(0)
	rb := ReportError(BagReporter{Bag: b}, DeclDuplicateVariable, loc(3), "dup").
		WithNote(loc(1), "previous")
	rb.Emit()
	rb.Emit()
	if b.Len() != 1 {
		t.Fatalf("len = %d", b.Len())
	}
	if got := b.Items()[0].Notes; len(got) != 1 || got[0].Msg != "previous" {
		t.Fatalf("notes = %+v", got)
	}
}

func TestDedupReporter(t *testing.T) {
	b := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: b})
	for range 3 {
		ReportWarning(r, TypeAnyCoercion, loc(4), "same").Emit()
	}
	ReportWarning(r, TypeAnyCoercion, loc(5), "same").Emit()
	if b.Len() != 2 {
		t.Fatalf("len = %d, want 2", b.Len())
	}
}

func TestCodeIDs(t *testing.T) {
	cases := map[Code]string{
		DeclDuplicateVariable: "DCL1001",
		ResMissingParameters:  "RES2012",
		TypeAssignMismatch:    "TYP3003",
		StructBadPriority:     "STR4005",
		LitBadDate:            "LIT5004",
		IOWriteFile:           "IO6004",
		InternalUnhandledKind: "INT9001",
	}
	for c, want := range cases {
		if c.ID() != want {
			t.Errorf("%d.ID() = %s, want %s", c, c.ID(), want)
		}
		if c.Title() == codeDescription[UnknownCode] {
			t.Errorf("%s has no description", want)
		}
	}
}
