package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("plan.ptree", []byte("(PLEXIL)"), 0)
	if id1 != 1 {
		t.Errorf("Expected first FileID to be 1, got %d", id1)
	}
	id2 := fs.Add("plan.ptree", []byte("(PLEXIL (ACTION))"), 0)
	if id2 != 2 {
		t.Errorf("Expected second FileID to be 2, got %d", id2)
	}

	latestID, exists := fs.GetLatest("plan.ptree")
	if !exists || latestID != id2 {
		t.Errorf("Expected latest ID %d, got %d (exists=%v)", id2, latestID, exists)
	}
	if string(fs.Get(id1).Content) != "(PLEXIL)" {
		t.Errorf("old version lost: %q", fs.Get(id1).Content)
	}
	if fs.Get(id1).Hash == fs.Get(id2).Hash {
		t.Error("different contents must hash differently")
	}
	if fs.Len() != 2 {
		t.Errorf("Len = %d, want 2", fs.Len())
	}
}

func TestFileSetNoFile(t *testing.T) {
	fs := NewFileSet()
	if fs.Get(NoFileID) != nil {
		t.Fatal("sentinel must not resolve to a file")
	}
	if fs.Path(42) != "" {
		t.Fatal("unknown id must have an empty path")
	}
}

func TestLoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.ptree")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBF(A\r\n B)"), 0o600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "(A\n B)" {
		t.Errorf("content = %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("flags = %b", f.Flags)
	}
}

func TestPosValidity(t *testing.T) {
	if (Pos{}).IsValid() {
		t.Error("zero position must be invalid")
	}
	p := Pos{Line: 3, Col: 7}
	if !p.IsValid() || p.String() != "3:7" {
		t.Errorf("unexpected %v", p)
	}
}
