// Package platform wires configuration, the session store, the API client and
// the session manager into a ready-to-use Client.
package platform

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/introspection"

	"github.com/aretw0/inkwell/pkg/adapters/fs"
	"github.com/aretw0/inkwell/pkg/api"
	"github.com/aretw0/inkwell/pkg/core"
	"github.com/aretw0/inkwell/pkg/notes"
	"github.com/aretw0/inkwell/pkg/session"
)

// Client is a fully wired inkwell client.
type Client struct {
	Config   *Config
	Mode     api.Mode
	StateDir string // empty when the store was injected
	State    core.StateStore
	API      *api.Client
	Session  *session.Manager

	logger *slog.Logger
}

// New builds a client and restores any persisted session.
//
//	c, err := platform.New(platform.WithLogger(logger))
func New(ctx context.Context, opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	config := o.config
	if config == nil {
		var err error
		config, err = NewLoader(logger, WithLoaderUserDir(o.userDir)).Load()
		if err != nil {
			return nil, err
		}
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	mode, _ := config.Mode()
	baseURL, err := config.BaseURL()
	if err != nil {
		return nil, err
	}

	c := &Client{Config: config, Mode: mode, logger: logger}

	c.State = o.store
	if c.State == nil {
		userDir := o.userDir
		if userDir == "" {
			userDir = NewLoader(logger).UserDir()
		}
		useTemp := o.forceTemp || (IsDevRun() && o.devSafety)
		c.StateDir = ResolveStateDir(config.State.Dir, userDir, useTemp)
		if c.StateDir == "" {
			return nil, fmt.Errorf("no state directory: set state.dir or %s", EnvStateDir)
		}
		if useTemp {
			logger.Debug("running in SAFE mode (dev sandbox enabled)", "state_dir", c.StateDir)
		}

		store := fs.NewStore(fs.Config{Dir: c.StateDir, Logger: logger, ErrorHandler: o.errorHandler})
		if err := store.Initialize(ctx); err != nil {
			return nil, err
		}
		c.State = store
	}

	hc := o.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: config.API.Timeout}
	}

	// The API client reads its token from the manager, which needs the
	// client as its authenticator. Break the cycle with a late-bound source.
	tokens := &lateToken{}
	c.API = api.New(baseURL,
		api.WithHTTPClient(hc),
		api.WithTokenSource(tokens),
		api.WithLogger(logger),
	)
	c.Session = session.NewManager(c.API, c.State, session.WithLogger(logger))
	tokens.src = c.Session

	if err := c.Session.Restore(ctx); err != nil {
		return nil, err
	}

	logger.Debug("client ready", "mode", mode, "api", baseURL, "authenticated", c.Session.IsAuthenticated())
	return c, nil
}

// Notes returns a fresh notes store for one view.
func (c *Client) Notes() *notes.Store {
	return notes.NewStore(c.API, notes.WithLogger(c.logger))
}

// RequireAuth returns an *core.AuthError when no session is held.
func (c *Client) RequireAuth() error {
	if !c.Session.IsAuthenticated() {
		return &core.AuthError{Message: "Not logged in"}
	}
	return nil
}

// Components lists the introspectable parts of the client.
func (c *Client) Components(extra ...introspection.Component) []introspection.Component {
	out := []introspection.Component{c.Session}
	if comp, ok := c.State.(introspection.Component); ok {
		out = append(out, comp)
	}
	return append(out, extra...)
}

type lateToken struct {
	src api.TokenSource
}

func (l *lateToken) Token() string {
	if l.src == nil {
		return ""
	}
	return l.src.Token()
}
