package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/inkwell/pkg/core"
)

// FilePerm is the mode of persisted state files. The token is a credential.
const FilePerm os.FileMode = 0600

// Config holds the configuration for the filesystem state store.
type Config struct {
	// Dir is the directory holding one file per key.
	Dir    string
	Logger *slog.Logger
	// ErrorHandler receives runtime watcher failures that are otherwise only logged.
	ErrorHandler func(error)
}

// Store implements core.StateStore with one file per key.
// Writes go through a temp file and a rename so a reader never sees a torn value.
type Store struct {
	Dir    string
	config Config

	mu            sync.RWMutex
	watcherActive bool
	lastWrite     *time.Time
}

// NewStore creates a store rooted at config.Dir.
func NewStore(config Config) *Store {
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Store{Dir: config.Dir, config: config}
}

// Initialize ensures the state directory exists.
func (s *Store) Initialize(ctx context.Context) error {
	if s.Dir == "" {
		return fmt.Errorf("state directory is not set")
	}
	if err := os.MkdirAll(s.Dir, 0700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	return nil
}

// fileName maps a key to its file. The user record is JSON.
func fileName(key string) string {
	if key == core.KeyUser {
		return key + ".json"
	}
	return key
}

// keyOf is the inverse of fileName. It returns "" for files that are not keys.
func keyOf(name string) string {
	base := filepath.Base(name)
	if strings.HasPrefix(base, TempFilePrefix) {
		return ""
	}
	switch base {
	case fileName(core.KeyToken):
		return core.KeyToken
	case fileName(core.KeyUser):
		return core.KeyUser
	}
	return ""
}

func (s *Store) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.Dir, fileName(key)), nil
}

// Get implements core.StateStore.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, true, nil
}

// Set implements core.StateStore.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := s.Initialize(ctx); err != nil {
		return err
	}
	if err := replaceFile(p, value); err != nil {
		return err
	}
	s.recordWrite()
	s.config.Logger.Debug("state written", "key", key)
	return nil
}

// Delete implements core.StateStore.
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	var errs []error
	for _, key := range keys {
		p, err := s.path(key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("failed to remove %s: %w", key, err))
		}
	}
	s.recordWrite()
	return errors.Join(errs...)
}

func (s *Store) recordWrite() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.lastWrite = &now
}

var _ core.StateStore = (*Store)(nil)
var _ core.Watchable = (*Store)(nil)
