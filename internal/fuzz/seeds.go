package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10
	maxFuzzInput = 256 << 10
)

var builtinSeeds = []string{
	``,
	`(PLEXIL)`,
	`(PLEXIL (ACTION (NCNAME=Root) (LBRACE)))`,
	`(PLEXIL (ACTION (ASSIGNMENT (NCNAME=x) (INT=1))))`,
	`(PLEXIL (ACTION (NCNAME=R@1:0) (LBRACE (START_CONDITION_KYWD (AND_KYWD (TRUE_KYWD) (FALSE_KYWD))))))`,
	`(PLEXIL (GLOBAL_DECLARATIONS (COMMAND_DECLARATION (NCNAME=c) (PARAMETERS (INTEGER_KYWD) (ELLIPSIS))))` +
		` (ACTION (COMMAND (COMMAND_KYWD (NCNAME=c)) (ARGUMENT_LIST (INT=1) (STRING="\"s\"")))))`,
	`(STRING="\"unterminated)`,
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".pli" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clamp(src, maxSeedBytes))
		return nil
	})
}

func clamp(src []byte, limit int) []byte {
	if len(src) <= limit {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:limit]...)
}
