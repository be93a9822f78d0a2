package local

import (
	"path/filepath"
	"runtime"
	"strings"
)

const selfPath = "/src/shared/config/local/project_root.go"

// ProjectRoot resolves the repository root from this file's location, for
// development runs started from anywhere in the tree.
func ProjectRoot() string {
	_, filePath, _, ok := runtime.Caller(0)
	if !ok {
		panic("Failed to call runtime.Caller")
	}

	filePath = filepath.ToSlash(filePath)
	if !strings.HasSuffix(filePath, selfPath) {
		panic("project_root.go has moved, update selfPath")
	}

	return filepath.FromSlash(strings.TrimSuffix(filePath, selfPath))
}

func DataDir() string {
	return filepath.Join(ProjectRoot(), "data")
}
