package fakeapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"

	"github.com/aretw0/inkwell/pkg/core"
)

type ctxKey string

const accountKey ctxKey = "account"

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "invalid request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[req.Email]; ok {
		writeError(w, r, http.StatusBadRequest, "Email already registered")
		return
	}
	for _, acc := range s.accounts {
		if acc.Username == req.Username {
			writeError(w, r, http.StatusBadRequest, "Username already taken")
			return
		}
	}

	s.seq++
	acc := &account{
		Account:  core.Account{ID: fmt.Sprintf("%024x", s.seq), Username: req.Username, Email: req.Email},
		password: req.Password,
	}
	s.accounts[req.Email] = acc
	render.JSON(w, r, acc.Account)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "invalid request")
		return
	}

	s.mu.Lock()
	acc, ok := s.accounts[req.Email]
	s.mu.Unlock()
	if !ok || acc.password != req.Password {
		writeError(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := s.IssueToken(acc.ID, TokenTTL)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to issue token")
		return
	}
	render.JSON(w, r, map[string]string{"access_token": token, "token_type": "bearer"})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, err := s.parseBearer(r.Header.Get("Authorization"))
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, "Invalid token")
			return
		}
		s.mu.Lock()
		_, ok := s.accountByID(subject)
		s.mu.Unlock()
		if !ok {
			writeError(w, r, http.StatusUnauthorized, "User not found")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), accountKey, subject)))
	})
}

func accountID(r *http.Request) string {
	id, _ := r.Context().Value(accountKey).(string)
	return id
}

func (s *Server) listNotes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	notes := append([]core.Note{}, s.notes[accountID(r)]...)
	s.mu.Unlock()
	render.JSON(w, r, notes)
}

func (s *Server) createNote(w http.ResponseWriter, r *http.Request) {
	var d core.Draft
	if err := render.DecodeJSON(r.Body, &d); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "invalid request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	now := time.Now().UTC()
	n := core.Note{
		ID:        fmt.Sprintf("%024x", s.seq),
		Title:     d.Title,
		Content:   d.Content,
		Color:     d.Color,
		Tag:       d.Tag,
		CreatedAt: now,
		UpdatedAt: &now,
	}
	owner := accountID(r)
	s.notes[owner] = append(s.notes[owner], n)
	render.JSON(w, r, n)
}

func (s *Server) getNote(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(accountID(r), chi.URLParam(r, "id"))
	if i < 0 {
		writeError(w, r, http.StatusNotFound, "Note not found")
		return
	}
	render.JSON(w, r, s.notes[accountID(r)][i])
}

func (s *Server) updateNote(w http.ResponseWriter, r *http.Request) {
	var d core.Draft
	if err := render.DecodeJSON(r.Body, &d); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "invalid request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	owner := accountID(r)
	i := s.find(owner, chi.URLParam(r, "id"))
	if i < 0 {
		writeError(w, r, http.StatusNotFound, "Note not found")
		return
	}
	now := time.Now().UTC()
	n := s.notes[owner][i]
	n.Title, n.Content, n.Color, n.Tag = d.Title, d.Content, d.Color, d.Tag
	n.UpdatedAt = &now
	s.notes[owner][i] = n
	render.JSON(w, r, n)
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	owner := accountID(r)
	i := s.find(owner, chi.URLParam(r, "id"))
	if i < 0 {
		writeError(w, r, http.StatusNotFound, "Note not found")
		return
	}
	s.notes[owner] = append(s.notes[owner][:i], s.notes[owner][i+1:]...)
	render.JSON(w, r, map[string]string{"message": "Note deleted successfully"})
}

func (s *Server) find(owner, id string) int {
	for i, n := range s.notes[owner] {
		if n.ID == id {
			return i
		}
	}
	return -1
}
