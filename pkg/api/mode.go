package api

import (
	"fmt"
	"os"
	"strings"
)

// Mode selects which deployment the client talks to.
type Mode string

const (
	ModeDevelopment Mode = "development"
	ModeProduction  Mode = "production"
)

// DevelopmentURL is the local backend started by the development setup.
const DevelopmentURL = "http://localhost:8000"

// ParseMode accepts the long names and the usual short forms ("dev", "prod").
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dev", "development", "local":
		return ModeDevelopment, nil
	case "prod", "production":
		return ModeProduction, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want development or production)", s)
	}
}

// DefaultMode is development for binaries built by `go run` or `go test`,
// production otherwise.
func DefaultMode() Mode {
	if IsDevRun() {
		return ModeDevelopment
	}
	return ModeProduction
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
// It relies on the fact that these commands build binaries in temporary directories.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}

	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(os.TempDir())) {
		return true
	}

	if strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe") {
		return true
	}

	return false
}
