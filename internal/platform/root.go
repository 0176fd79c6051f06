package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// ProjectConfigFile is the name of the project-level config file.
	ProjectConfigFile = ".inkwell.yaml"
	// AppDir is the directory name under the user config dir.
	AppDir = "inkwell"
	// UserConfigFile is the name of the user-level config file.
	UserConfigFile = "config.yaml"
)

// Loader loads configuration with layered precedence:
//  1. defaults
//  2. user config (~/.config/inkwell/config.yaml)
//  3. project config (.inkwell.yaml in the working directory or a parent)
//  4. INKWELL_* environment variables
type Loader struct {
	logger  *slog.Logger
	userDir string
	workDir string
	getenv  func(string) string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLoaderUserDir overrides the user config directory.
func WithLoaderUserDir(dir string) LoaderOption {
	return func(l *Loader) { l.userDir = dir }
}

// WithWorkDir overrides where the project config search starts.
func WithWorkDir(dir string) LoaderOption {
	return func(l *Loader) { l.workDir = dir }
}

// WithGetenv replaces os.Getenv.
func WithGetenv(fn func(string) string) LoaderOption {
	return func(l *Loader) { l.getenv = fn }
}

// NewLoader creates a configuration loader.
func NewLoader(logger *slog.Logger, opts ...LoaderOption) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	l := &Loader{logger: logger, getenv: os.Getenv}
	for _, opt := range opts {
		opt(l)
	}
	if l.userDir == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			l.userDir = filepath.Join(dir, AppDir)
		}
	}
	if l.workDir == "" {
		l.workDir, _ = os.Getwd()
	}
	return l
}

// UserConfigPath returns the user-level config file path.
func (l *Loader) UserConfigPath() string {
	if l.userDir == "" {
		return ""
	}
	return filepath.Join(l.userDir, UserConfigFile)
}

// UserDir returns the user config directory.
func (l *Loader) UserDir() string {
	return l.userDir
}

// Load builds the effective configuration. It is validated when a client is
// built from it, so a broken file can still be shown and fixed.
func (l *Loader) Load() (*Config, error) {
	config := DefaultConfig()

	if path := l.UserConfigPath(); path != "" {
		if userConfig, err := LoadFromFile(path); err == nil {
			l.logger.Debug("loaded user config", "path", path)
			config.Merge(userConfig)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	if l.workDir != "" {
		if root, err := FindRoot(l.workDir); err == nil {
			path := filepath.Join(root, ProjectConfigFile)
			projectConfig, err := LoadFromFile(path)
			if err != nil {
				return nil, err
			}
			l.logger.Debug("loaded project config", "path", path)
			config.Merge(projectConfig)
		}
	}

	config.ApplyEnv(l.getenv)
	return config, nil
}

// EnsureUserConfig writes the defaults to the user config file unless it exists.
// It reports whether a file was created.
func (l *Loader) EnsureUserConfig() (bool, error) {
	path := l.UserConfigPath()
	if path == "" {
		return false, fmt.Errorf("no user config directory")
	}
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := DefaultConfig().SaveToFile(path); err != nil {
		return false, err
	}
	l.logger.Info("created default user config", "path", path)
	return true, nil
}

// FindRoot looks upwards from startDir for a directory holding ProjectConfigFile.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, ProjectConfigFile) {
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

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
