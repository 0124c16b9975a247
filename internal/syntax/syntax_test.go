package syntax

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTagTableIsComplete(t *testing.T) {
	seen := make(map[string]Tag)
	for _, tag := range All() {
		name := tag.String()
		if name == "" || strings.HasPrefix(name, "Tag(") {
			t.Fatalf("tag %d has no name", tag)
		}
		if prev, dup := seen[name]; dup {
			t.Fatalf("tag name %q used by %d and %d", name, prev, tag)
		}
		seen[name] = tag
		got, ok := ParseTag(name)
		if !ok || got != tag {
			t.Fatalf("ParseTag(%q) = %v, %v; want %v", name, got, ok, tag)
		}
	}
	if len(seen) != Count() {
		t.Fatalf("expected %d tags, got %d", Count(), len(seen))
	}
	if _, ok := ParseTag("INVALID"); ok {
		t.Fatalf("INVALID must not parse")
	}
}

func TestReadBasicTree(t *testing.T) {
	src := `
; a tiny plan
(PLEXIL@1:0
  (ACTION@1:0
    (NCNAME=Root@1:0)
    (LBRACE@1:6
      (COMMENT_KYWD@2:2 (STRING="\"hello\""@2:10)))))`
	n, err := ReadString(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Tag != TagPlexil || n.Text != "PlexilPlan" {
		t.Fatalf("unexpected root %v %q", n.Tag, n.Text)
	}
	action := n.Child(0)
	if action.Tag != TagAction || len(action.Children) != 2 {
		t.Fatalf("unexpected action %s", action)
	}
	if id := action.Child(0); id.Text != "Root" || id.Line != 1 || id.Col != 0 {
		t.Fatalf("unexpected id %+v", id)
	}
	block := action.Child(1)
	if block.Tag != TagBrace || block.Text != "{" || block.Col != 6 {
		t.Fatalf("unexpected block %+v", block)
	}
	str := block.Child(0).Child(0)
	if str.Text != `"hello"` || str.Line != 2 || str.Col != 10 {
		t.Fatalf("unexpected string leaf %+v", str)
	}
	if n.Count() != 6 {
		t.Fatalf("expected 6 nodes, got %d", n.Count())
	}
}

func TestReadWithoutPositions(t *testing.T) {
	n, err := ReadString("(PLUS (INT=1) (INT=2))")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.HasPos() || n.Child(0).HasPos() {
		t.Fatalf("expected no positions")
	}
	if n.Text != "+" || n.Child(1).Text != "2" {
		t.Fatalf("unexpected texts %q %q", n.Text, n.Child(1).Text)
	}
}

func TestReadErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"empty", "  ; nothing\n", "empty input"},
		{"unknown tag", "(FROB)", `unknown tag "FROB"`},
		{"unterminated", "(PLEXIL (ACTION)", "unterminated PLEXIL"},
		{"trailing", "(INT=1) (INT=2)", "after tree"},
		{"bad position", "(INT=1@x)", "missing line number"},
		{"bare atom child", "(PLUS 1 2)", "unexpected '1'"},
		{"unterminated quote", "(STRING=\"abc\n)", "unterminated quoted text"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadString(tc.src)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	tree := New(TagPlexil,
		New(TagAction,
			Leaf(TagNCName, "Main").At(3, 0),
			New(TagAssignment,
				Leaf(TagNCName, "x").At(4, 2),
				New(TagPlus, Leaf(TagInt, "1"), Leaf(TagString, `"a b(c)"`)).At(4, 6),
			).At(4, 2),
		).At(3, 0),
	).At(1, 0)

	var buf bytes.Buffer
	if err := Write(&buf, tree); err != nil {
		t.Fatalf("write: %v", err)
	}
	back, err := ReadString(buf.String())
	if err != nil {
		t.Fatalf("read back: %v\n%s", err, buf.String())
	}
	if diff := cmp.Diff(tree, back); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	oneLine, err := ReadString(tree.String())
	if err != nil {
		t.Fatalf("read single line: %v", err)
	}
	if diff := cmp.Diff(tree, oneLine); diff != "" {
		t.Fatalf("single line mismatch (-want +got):\n%s", diff)
	}
}

func TestMsgpackCodec(t *testing.T) {
	tree := New(TagPlexil, New(TagAction, New(TagWait, Leaf(TagInt, "5").At(2, 7)).At(2, 2)))
	data, err := Marshal(tree)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(tree, back); diff != "" {
		t.Fatalf("codec mismatch (-want +got):\n%s", diff)
	}

	bad, err := Marshal(&Node{Tag: Tag(9999)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if _, err := Unmarshal(bad); err == nil || !strings.Contains(err.Error(), "unknown tag") {
		t.Fatalf("expected unknown tag error, got %v", err)
	}
}
