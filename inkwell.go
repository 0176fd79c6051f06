package inkwell

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aretw0/inkwell/internal/platform"
	"github.com/aretw0/inkwell/pkg/core"
)

// --- Types ---

// Client is a wired session manager, API client and state store.
type Client = platform.Client

// Config is the client configuration.
type Config = platform.Config

// Note is a server-confirmed note.
type Note = core.Note

// Draft is the editable part of a note.
type Draft = core.Draft

// --- Configuration ---

// Option defines a functional option for configuring the client.
type Option = platform.Option

// WithConfig uses config instead of loading one from disk and environment.
func WithConfig(config *Config) Option {
	return platform.WithConfig(config)
}

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStateStore injects a custom session store.
func WithStateStore(store core.StateStore) Option {
	return platform.WithStateStore(store)
}

// WithHTTPClient sets the transport used for every request.
func WithHTTPClient(hc *http.Client) Option {
	return platform.WithHTTPClient(hc)
}

// WithForceTemp forces the state directory into the system temp dir (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety controls the sandbox applied when running via `go run`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return platform.DefaultConfig()
}

// LoadConfig builds the layered configuration (defaults, user file, project
// file, environment).
func LoadConfig(logger *slog.Logger) (*Config, error) {
	return platform.NewLoader(logger).Load()
}

// --- Factory ---

// New creates a client and restores any persisted session.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	return platform.New(ctx, opts...)
}

// --- Safety & Utils ---

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}
