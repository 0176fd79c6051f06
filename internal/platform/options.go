package platform

import (
	"log/slog"
	"net/http"

	"github.com/aretw0/inkwell/pkg/core"
)

// options holds the internal configuration for building a Client.
type options struct {
	config       *Config
	store        core.StateStore
	httpClient   *http.Client
	logger       *slog.Logger
	userDir      string
	forceTemp    bool
	devSafety    bool
	errorHandler func(error)
}

// Option defines a functional option for configuring the client.
type Option func(*options)

func defaultOptions() *options {
	return &options{devSafety: true}
}

// WithConfig uses config instead of loading one.
func WithConfig(config *Config) Option {
	return func(o *options) {
		o.config = config
	}
}

// WithStateStore injects a session store (e.g. memory.Store), skipping the
// filesystem adapter.
func WithStateStore(store core.StateStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithHTTPClient sets the transport used for every request.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithUserDir overrides the user config directory (config file and default state dir).
func WithUserDir(dir string) Option {
	return func(o *options) {
		o.userDir = dir
	}
}

// WithForceTemp forces the state directory into the system temp dir.
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithDevSafety controls the sandbox applied when running via `go run`.
// By default the session is persisted under the temp dir in that case.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}

// WithWatcherErrorHandler registers a callback for state watcher failures.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}
