package testutil

import (
	"os"
	"path/filepath"
)

// TempDir creates a temporary directory for testing that will be removed
// after the test finishes. Symlinks in the path of the directory are
// resolved.
func TempDir(c Cleanuper) string {
	dir, err := os.MkdirTemp("", "mdtreetest")
	if err != nil {
		panic(err)
	}
	dir, err = filepath.EvalSymlinks(dir)
	if err != nil {
		panic(err)
	}
	c.Cleanup(func() {
		err := os.RemoveAll(dir)
		if err != nil {
			panic(err)
		}
	})
	return dir
}
