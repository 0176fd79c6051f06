package platform

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/inkwell/pkg/api"
)

// IsDevRun reports whether the process was built by `go run` or `go test`.
func IsDevRun() bool {
	return api.IsDevRun()
}

// ResolveStateDir determines where the session is persisted.
// An empty dir means userDir. When forceTemp is set the directory is
// re-rooted under the system temp dir so that `go run` and `go test` never
// touch the real session.
func ResolveStateDir(dir, userDir string, forceTemp bool) string {
	if dir == "" {
		dir = userDir
	}
	if !forceTemp {
		return dir
	}

	// Already inside the temp dir (t.TempDir() or explicit intent).
	clean := filepath.Clean(dir)
	rel, err := filepath.Rel(os.TempDir(), clean)
	if dir != "" && err == nil && !strings.HasPrefix(rel, "..") {
		return clean
	}

	sub := filepath.Base(clean)
	if dir == "" || sub == "." || sub == string(os.PathSeparator) {
		sub = "default"
	}
	return filepath.Join(os.TempDir(), "inkwell-dev", sub)
}
