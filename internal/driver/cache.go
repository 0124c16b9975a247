package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/multierr"

	"plexilc/internal/diag"
	"plexilc/internal/source"
)

// Current schema version - increment when CacheEntry format changes
const cacheSchemaVersion uint16 = 1

// Cache stores compiled outputs keyed by a hash of the input and options.
// Thread-safe for concurrent access.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// CacheEntry is one cached compilation.
type CacheEntry struct {
	Schema      uint16
	Key         uint64
	Path        string
	MaxSeverity int8
	Diagnostics []CachedDiagnostic
	Extended    []byte
	Core        []byte
	Created     time.Time
}

// CachedDiagnostic is a diagnostic without its file id; InFile marks
// locations that belonged to the compiled file.
type CachedDiagnostic struct {
	Severity int8
	Code     int
	Message  string
	InFile   bool
	Line     uint32
	Col      uint32
	Notes    []CachedNote
}

type CachedNote struct {
	Message string
	InFile  bool
	Line    uint32
	Col     uint32
}

// OpenCache initializes a cache under the user cache directory.
func OpenCache(app string) (*Cache, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return nil, err
	}
	return OpenCacheDir(filepath.Join(base, app))
}

// OpenCacheDir initializes a cache rooted at dir.
func OpenCacheDir(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// Dir is the cache root.
func (c *Cache) Dir() string { return c.dir }

// CacheKey hashes the file content together with everything that changes
// the produced bytes.
func CacheKey(content []byte, settings ...string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(strconv.Itoa(int(cacheSchemaVersion)))
	for _, s := range settings {
		_, _ = d.WriteString("\x00")
		_, _ = d.WriteString(s)
	}
	_, _ = d.WriteString("\x00")
	_, _ = d.Write(content)
	return d.Sum64()
}

func (c *Cache) pathFor(key uint64) string {
	return filepath.Join(c.dir, "plans", fmt.Sprintf("%016x.mp", key))
}

// Put serializes and writes an entry; the file is replaced atomically.
func (c *Cache) Put(entry *CacheEntry) (err error) {
	if c == nil || entry == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	entry.Schema = cacheSchemaVersion
	p := c.pathFor(entry.Key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			err = multierr.Append(err, os.Remove(tmp))
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(entry); err != nil {
		return multierr.Append(err, f.Close())
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

// Get reads the entry for key. A missing entry or an entry written with
// another schema is a miss.
func (c *Cache) Get(key uint64) (*CacheEntry, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var entry CacheEntry
	if err := msgpack.Unmarshal(data, &entry); err != nil {
		return nil, false, fmt.Errorf("decode cache entry %016x: %w", key, err)
	}
	if entry.Schema != cacheSchemaVersion || entry.Key != key {
		return nil, false, nil
	}
	return &entry, true, nil
}

// DropAll removes every cached entry.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return multierr.Append(os.RemoveAll(old), os.MkdirAll(c.dir, 0o755))
}

func cacheDiagnostics(items []diag.Diagnostic, file source.FileID) []CachedDiagnostic {
	out := make([]CachedDiagnostic, 0, len(items))
	for _, d := range items {
		cd := CachedDiagnostic{
			Severity: int8(d.Severity),
			Code:     int(d.Code),
			Message:  d.Message,
			InFile:   d.Primary.File == file && file.IsValid(),
			Line:     d.Primary.Pos.Line,
			Col:      d.Primary.Pos.Col,
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, CachedNote{
				Message: n.Msg,
				InFile:  n.Loc.File == file && file.IsValid(),
				Line:    n.Loc.Pos.Line,
				Col:     n.Loc.Pos.Col,
			})
		}
		out = append(out, cd)
	}
	return out
}

// restoreDiagnostics replays cached diagnostics into bag against file.
func restoreDiagnostics(bag *diag.Bag, cached []CachedDiagnostic, file source.FileID) {
	loc := func(inFile bool, line, col uint32) source.Location {
		l := source.Location{Pos: source.Pos{Line: line, Col: col}}
		if inFile {
			l.File = file
		}
		return l
	}
	for _, cd := range cached {
		d := diag.New(diag.Severity(cd.Severity), diag.Code(cd.Code), loc(cd.InFile, cd.Line, cd.Col), cd.Message)
		for _, n := range cd.Notes {
			d = d.WithNote(loc(n.InFile, n.Line, n.Col), n.Message)
		}
		bag.Add(d)
	}
}
