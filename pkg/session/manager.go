// Package session owns the authenticated identity of the client.
//
// A Manager holds the access token and the current user, persists both through
// a core.StateStore and hands the token to the transport through api.TokenSource.
// Its lifecycle is init -> Restore -> [authenticated] <-> Logout.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aretw0/inkwell/pkg/api"
	"github.com/aretw0/inkwell/pkg/core"
)

// Authenticator is the part of the API the manager talks to.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
	Signup(ctx context.Context, username, email, password string) (core.Account, error)
}

// Fallback messages when the server gives no detail.
const (
	msgLoginFailed  = "Login failed"
	msgSignupFailed = "Signup failed"
)

// Manager is the session owner.
type Manager struct {
	auth   Authenticator
	store  core.StateStore
	logger *slog.Logger

	mu        sync.RWMutex
	current   core.Session
	restored  bool
	listeners []func(core.Session)
}

// Option defines a functional option for configuring the Manager.
type Option func(*Manager)

// WithLogger sets the logger for the manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a manager with an empty session. Call Restore to load
// a persisted one.
func NewManager(auth Authenticator, store core.StateStore, opts ...Option) *Manager {
	m := &Manager{auth: auth, store: store}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.New(slog.DiscardHandler)
	}
	return m
}

// Login authenticates and stores the resulting session.
// On failure the current session is left untouched.
func (m *Manager) Login(ctx context.Context, email, password string) (core.User, error) {
	token, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return core.User{}, authError(err, msgLoginFailed)
	}
	if token == "" {
		return core.User{}, &core.AuthError{Message: msgLoginFailed, Err: errors.New("no access token in response")}
	}

	// The server only returns a token; the user record is derived from the email.
	user := core.UserFromEmail(email)
	if err := m.persist(ctx, token, user); err != nil {
		return core.User{}, err
	}

	m.set(core.Session{Token: token, User: user, ExpiresAt: tokenExpiry(token)}, false)

	m.logger.Info("logged in", "email", email)
	return user, nil
}

// Signup registers an account and logs in with the same credentials.
func (m *Manager) Signup(ctx context.Context, username, email, password string) (core.Account, error) {
	acc, err := m.auth.Signup(ctx, username, email, password)
	if err != nil {
		return core.Account{}, authError(err, msgSignupFailed)
	}
	m.logger.Info("account created", "username", acc.Username)

	if _, err := m.Login(ctx, email, password); err != nil {
		return acc, err
	}
	return acc, nil
}

// Logout drops the session. It never fails: persisted keys that cannot be
// removed are logged and the in-memory session is cleared regardless.
func (m *Manager) Logout() {
	if err := m.store.Delete(context.Background(), core.KeyToken, core.KeyUser); err != nil {
		m.logger.Warn("failed to clear persisted session", "error", err)
	}
	m.set(core.Session{}, false)
	m.logger.Info("logged out")
}

// Restore loads the persisted session. Corrupt or partial state is cleared
// and treated as logged out; only a failing read is reported.
func (m *Manager) Restore(ctx context.Context) error {
	sess, err := m.load(ctx)

	var corrupt *core.CorruptStateError
	if errors.As(err, &corrupt) {
		m.logger.Warn("discarding corrupt session state", "error", err)
		if delErr := m.store.Delete(ctx, core.KeyToken, core.KeyUser); delErr != nil {
			m.logger.Warn("failed to clear corrupt session state", "error", delErr)
		}
		sess, err = core.Session{}, nil
	}
	if err != nil {
		return err
	}

	m.set(sess, true)

	if !sess.IsZero() && sess.Expired(time.Now()) {
		m.logger.Warn("restored session token has expired", "email", sess.User.Email, "expired_at", sess.ExpiresAt)
	}
	return nil
}

// OnChange registers fn to run whenever the signed-in identity changes:
// a login, a logout, or a restore or reload that yields another session.
// fn runs on the goroutine that made the change.
func (m *Manager) OnChange(fn func(core.Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// set replaces the in-memory session and notifies listeners if the identity
// changed.
func (m *Manager) set(sess core.Session, restored bool) {
	m.mu.Lock()
	changed := sess.Token != m.current.Token || sess.User != m.current.User
	m.current = sess
	if restored {
		m.restored = true
	}
	listeners := append(([]func(core.Session))(nil), m.listeners...)
	m.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range listeners {
		fn(sess)
	}
}

func (m *Manager) load(ctx context.Context) (core.Session, error) {
	token, hasToken, err := m.store.Get(ctx, core.KeyToken)
	if err != nil {
		return core.Session{}, fmt.Errorf("failed to read session token: %w", err)
	}
	raw, hasUser, err := m.store.Get(ctx, core.KeyUser)
	if err != nil {
		return core.Session{}, fmt.Errorf("failed to read session user: %w", err)
	}

	switch {
	case !hasToken && !hasUser:
		return core.Session{}, nil
	case !hasToken:
		return core.Session{}, &core.CorruptStateError{Key: core.KeyToken, Err: errors.New("user without token")}
	case !hasUser:
		return core.Session{}, &core.CorruptStateError{Key: core.KeyUser, Err: errors.New("token without user")}
	}

	var user core.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return core.Session{}, &core.CorruptStateError{Key: core.KeyUser, Err: err}
	}
	if len(token) == 0 {
		return core.Session{}, &core.CorruptStateError{Key: core.KeyToken, Err: errors.New("empty token")}
	}

	return core.Session{Token: string(token), User: user, ExpiresAt: tokenExpiry(string(token))}, nil
}

func (m *Manager) persist(ctx context.Context, token string, user core.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := m.store.Set(ctx, core.KeyToken, []byte(token)); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	if err := m.store.Set(ctx, core.KeyUser, raw); err != nil {
		// Keep the pair invariant: no token without a user.
		_ = m.store.Delete(ctx, core.KeyToken)
		return fmt.Errorf("failed to persist user: %w", err)
	}
	return nil
}

// IsAuthenticated is true iff a user is present in memory.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.User != (core.User{})
}

// Current returns the session and whether one is present.
func (m *Manager) Current() (core.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current, !m.current.IsZero()
}

// Token implements api.TokenSource.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Token
}

var _ api.TokenSource = (*Manager)(nil)

// authError maps a transport failure into the message shown to the user.
func authError(err error, fallback string) error {
	ae := &core.AuthError{Message: fallback, Err: err}
	if se, ok := api.AsStatus(err); ok {
		ae.Status = se.Status
		if se.Detail != "" {
			ae.Message = se.Detail
		}
	}
	return ae
}

// tokenExpiry reads the exp claim without verifying the signature.
// The client cannot verify it and only uses it for display and warnings.
func tokenExpiry(token string) *time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	t := exp.Time
	return &t
}
