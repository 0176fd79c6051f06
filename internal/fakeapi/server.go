// Package fakeapi is an in-memory implementation of the notes backend contract.
// It exists so the client packages can be tested end to end over real HTTP.
package fakeapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/golang-jwt/jwt/v5"

	"github.com/aretw0/inkwell/pkg/core"
)

// TokenTTL matches the access token lifetime of the real backend.
const TokenTTL = 30 * time.Minute

type account struct {
	core.Account
	password string
}

type failure struct {
	status int
	detail string
}

// Server holds users and notes in memory.
type Server struct {
	mu       sync.Mutex
	secret   []byte
	accounts map[string]*account    // by email
	notes    map[string][]core.Note // by account id, insertion order
	seq      int
	fail     *failure

	requests atomic.Int64
	lastAuth atomic.Value
}

// New creates an empty backend.
func New() *Server {
	return &Server{
		secret:   []byte("fakeapi-secret"),
		accounts: make(map[string]*account),
		notes:    make(map[string][]core.Note),
	}
}

// NewTestServer starts the backend on a local listener that is closed with the test.
func NewTestServer(tb testing.TB) (*Server, *httptest.Server) {
	tb.Helper()
	s := New()
	ts := httptest.NewServer(s.Handler())
	tb.Cleanup(ts.Close)
	return s, ts
}

// Handler returns the HTTP router implementing the contract.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.count)
	r.Use(s.injectFailure)

	r.Post("/auth/signup", s.signup)
	r.Post("/auth/login", s.login)

	r.Route("/notes", func(r chi.Router) {
		r.Use(s.authenticate)
		r.Get("/", s.listNotes)
		r.Post("/", s.createNote)
		r.Get("/{id}", s.getNote)
		r.Put("/{id}", s.updateNote)
		r.Delete("/{id}", s.deleteNote)
	})
	return r
}

// Requests returns how many requests reached the server.
func (s *Server) Requests() int64 {
	return s.requests.Load()
}

// LastAuthorization returns the Authorization header of the latest request.
func (s *Server) LastAuthorization() string {
	v, _ := s.lastAuth.Load().(string)
	return v
}

// FailNext makes the next request fail with the given status and detail.
func (s *Server) FailNext(status int, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = &failure{status: status, detail: detail}
}

// Seed stores a note for the account registered under email, bypassing HTTP.
func (s *Server) Seed(email string, n core.Note) (core.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[email]
	if !ok {
		return core.Note{}, fmt.Errorf("unknown account %q", email)
	}
	s.seq++
	n.ID = fmt.Sprintf("%024x", s.seq)
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	s.notes[acc.ID] = append(s.notes[acc.ID], n)
	return n, nil
}

// IssueToken signs an access token for subject with the given lifetime.
func (s *Server) IssueToken(subject string, ttl time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		s.lastAuth.Store(r.Header.Get("Authorization"))
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		f := s.fail
		s.fail = nil
		s.mu.Unlock()
		if f != nil {
			writeError(w, r, f.status, f.detail)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, r *http.Request, status int, detail string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"detail": detail})
}

func (s *Server) accountByID(id string) (*account, bool) {
	for _, acc := range s.accounts {
		if acc.ID == id {
			return acc, true
		}
	}
	return nil, false
}

// parseBearer validates the token and returns its subject.
func (s *Server) parseBearer(header string) (string, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return "", fmt.Errorf("missing bearer token")
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
