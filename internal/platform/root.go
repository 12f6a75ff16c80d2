package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigFiles are the config file names looked up in a catalog root, in order.
var ConfigFiles = []string{".snipcat.yaml", ".snipcat.yml", ".snipcat.json"}

// FindRoot looks upwards from startDir for a catalog root indicator:
// a config file, the .snipcat system directory, or a .git directory.
// It returns the absolute path of the first directory that has one.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if isRoot(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("root not found")
}

func isRoot(dir string) bool {
	for _, name := range ConfigFiles {
		if hasFile(dir, name) {
			return true
		}
	}
	return hasFile(dir, ".snipcat") || hasFile(dir, ".git")
}

func hasFile(dir, name string) bool {
	path := filepath.Join(dir, name)
	_, err := os.Stat(path)
	return err == nil
}
