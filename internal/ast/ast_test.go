package ast

import (
	"strings"
	"testing"

	"plexilc/internal/diag"
	"plexilc/internal/source"
	"plexilc/internal/syntax"
)

func TestKindOfCoversEveryKind(t *testing.T) {
	parents := []syntax.Tag{
		syntax.TagInvalid, syntax.TagParameters, syntax.TagLibraryInterface,
		syntax.TagResource, syntax.TagAlias, syntax.TagNodeStateVariable,
	}
	seen := make(map[Kind]bool)
	for _, tag := range syntax.All() {
		k := KindOf(tag, syntax.TagInvalid, 0)
		if k == KindInvalid {
			t.Fatalf("tag %s maps to no kind", tag)
		}
		for _, p := range parents {
			seen[KindOf(tag, p, 0)] = true
		}
	}
	for _, k := range Kinds() {
		if !seen[k] {
			t.Fatalf("kind %s is produced by no tag", k)
		}
	}
}

func TestBuildMapsContextDependentTags(t *testing.T) {
	root, err := syntax.ReadString(`
(PLEXIL
  (GLOBAL_DECLARATIONS
    (COMMAND_DECLARATION (NCNAME=c@1:8) (PARAMETERS (INTEGER_KYWD (NCNAME=n)) (ELLIPSIS))))
  (ACTION (NCNAME=Root@2:0)
    (LBRACE@2:6
      (VARIABLE_DECLARATIONS (VARIABLE_DECLARATION (INTEGER_KYWD) (NCNAME=x@3:10) (INT=3)))
      (ACTION (ASSIGNMENT@4:2 (NCNAME=x@4:2) (PLUS (NCNAME=x) (INT=1))))
      (ACTION (UPDATE_KYWD (PAIR (NCNAME=k) (NCNAME=x)))))))`)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	bag := diag.NewBag(0)
	tree := Build(root, source.FileID(1), diag.BagReporter{Bag: bag})
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if tree.Len() != root.Count() {
		t.Fatalf("expected %d nodes, got %d", root.Count(), tree.Len())
	}

	kinds := make(map[string][]Kind)
	tree.Walk(tree.Root, func(id NodeID) bool {
		n := tree.Node(id)
		if n.Tag == syntax.TagNCName {
			kinds[n.Text] = append(kinds[n.Text], n.Kind)
		}
		return true
	})
	want := map[string][]Kind{
		"c":    {KindName},
		"n":    {KindName},
		"Root": {KindName},
		"x":    {KindName, KindVariableRef, KindVariableRef, KindVariableRef},
		"k":    {KindName},
	}
	for name, ks := range want {
		got := kinds[name]
		if len(got) != len(ks) {
			t.Fatalf("%s: expected kinds %v, got %v", name, ks, got)
		}
		for i := range ks {
			if got[i] != ks[i] {
				t.Fatalf("%s[%d]: expected %s, got %s", name, i, ks[i], got[i])
			}
		}
	}

	decl := tree.Child(tree.Child(tree.Root, 0), 0)
	params := tree.Child(decl, 1)
	if tree.Kind(tree.Child(params, 0)) != KindParamSpec || tree.Kind(tree.Child(params, 1)) != KindWildcard {
		t.Fatalf("unexpected parameter kinds")
	}

	action := tree.Child(tree.Root, 1)
	block := tree.Child(action, 1)
	if tree.Kind(block) != KindBlock {
		t.Fatalf("expected block, got %s", tree.Kind(block))
	}
	loc := tree.Loc(block)
	if loc.File != 1 || loc.Pos.Line != 2 || loc.Pos.Col != 6 {
		t.Fatalf("unexpected block location %+v", loc)
	}
	if got := tree.Ancestor(tree.Child(block, 1), KindAction); got != action {
		t.Fatalf("expected enclosing action %d, got %d", action, got)
	}
}

func TestBuildRejectsInvalidTag(t *testing.T) {
	root := syntax.New(syntax.TagPlexil, &syntax.Node{Tag: syntax.TagInvalid, Line: 7, Col: 1})
	bag := diag.NewBag(0)
	tree := Build(root, source.FileID(1), diag.BagReporter{Bag: bag})
	if !bag.HasFatal() {
		t.Fatalf("expected a FATAL diagnostic")
	}
	if tree.ChildCount(tree.Root) != 0 {
		t.Fatalf("invalid subtree must be skipped")
	}
}

func TestDump(t *testing.T) {
	root := syntax.New(syntax.TagPlexil,
		syntax.New(syntax.TagAction, syntax.New(syntax.TagWait, syntax.Leaf(syntax.TagInt, "5").At(1, 5))))
	tree := Build(root, source.FileID(1), nil)
	out := tree.Dump(tree.Root)
	for _, want := range []string{"Plan", "Action", "Wait", `IntLiteral "5" @1:5`} {
		if !strings.Contains(out, want) {
			t.Fatalf("dump missing %q:\n%s", want, out)
		}
	}
}
