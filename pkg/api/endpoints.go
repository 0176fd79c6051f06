package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/aretw0/inkwell/pkg/core"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges credentials for an access token (POST /auth/login).
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out tokenResponse
	err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   credentials{Email: email, Password: password},
	}, &out)
	if err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

// Signup registers a new account (POST /auth/signup).
func (c *Client) Signup(ctx context.Context, username, email, password string) (core.Account, error) {
	var out core.Account
	err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/auth/signup",
		Body:   registration{Username: username, Email: email, Password: password},
	}, &out)
	return out, err
}

// ListNotes returns every note of the current user (GET /notes).
func (c *Client) ListNotes(ctx context.Context) ([]core.Note, error) {
	var out []core.Note
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/notes"}, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i] = out[i].Normalize()
	}
	return out, nil
}

// GetNote returns a single note (GET /notes/{id}).
func (c *Client) GetNote(ctx context.Context, id string) (core.Note, error) {
	var out core.Note
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: notePath(id)}, &out); err != nil {
		return core.Note{}, err
	}
	return out.Normalize(), nil
}

// CreateNote creates a note and returns the canonical record (POST /notes).
func (c *Client) CreateNote(ctx context.Context, d core.Draft) (core.Note, error) {
	var out core.Note
	if err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/notes", Body: d}, &out); err != nil {
		return core.Note{}, err
	}
	return out.Normalize(), nil
}

// UpdateNote replaces a note and returns the updated record (PUT /notes/{id}).
func (c *Client) UpdateNote(ctx context.Context, id string, d core.Draft) (core.Note, error) {
	var out core.Note
	if err := c.Do(ctx, Request{Method: http.MethodPut, Path: notePath(id), Body: d}, &out); err != nil {
		return core.Note{}, err
	}
	return out.Normalize(), nil
}

// DeleteNote removes a note (DELETE /notes/{id}).
func (c *Client) DeleteNote(ctx context.Context, id string) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: notePath(id)}, nil)
}

func notePath(id string) string {
	return "/notes/" + url.PathEscape(id)
}
