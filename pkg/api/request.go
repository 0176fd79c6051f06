package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Request describes one call against the notes API, independent of any session.
type Request struct {
	Method    string
	Path      string
	Body      any
	RequestID string
}

// BuildRequest turns a request description into an *http.Request.
// The bearer header is attached iff token is non-empty; nothing else about the
// session leaks into the request.
func BuildRequest(ctx context.Context, baseURL, token string, spec Request) (*http.Request, error) {
	if spec.Method == "" {
		spec.Method = http.MethodGet
	}
	if !strings.HasPrefix(spec.Path, "/") {
		spec.Path = "/" + spec.Path
	}

	var body io.Reader
	if spec.Body != nil {
		data, err := json.Marshal(spec.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, spec.Method, strings.TrimRight(baseURL, "/")+spec.Path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if spec.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if spec.RequestID != "" {
		req.Header.Set(HeaderRequestID, spec.RequestID)
	}
	return req, nil
}
