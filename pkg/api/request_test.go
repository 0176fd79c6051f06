package api_test

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/inkwell/pkg/api"
	"github.com/aretw0/inkwell/pkg/core"
)

func TestBuildRequest_AttachesBearerOnlyWithToken(t *testing.T) {
	ctx := context.Background()

	req, err := api.BuildRequest(ctx, "http://example.test/", "abc", api.Request{Method: http.MethodGet, Path: "/notes"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", req.Header.Get("Authorization"))
	assert.Equal(t, "http://example.test/notes", req.URL.String())

	req, err = api.BuildRequest(ctx, "http://example.test", "", api.Request{Path: "notes"})
	require.NoError(t, err)
	assert.Empty(t, req.Header.Get("Authorization"))
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/notes", req.URL.Path)
}

func TestBuildRequest_EncodesBody(t *testing.T) {
	req, err := api.BuildRequest(context.Background(), "http://example.test", "", api.Request{
		Method:    http.MethodPost,
		Path:      "/notes",
		Body:      core.Draft{Title: "t", Content: "c", Color: core.ColorGreen},
		RequestID: "req-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Equal(t, "req-1", req.Header.Get(api.HeaderRequestID))

	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"t","content":"c","color":"green"}`, string(body))
}

func TestBuildRequest_Deterministic(t *testing.T) {
	r := api.Request{Method: http.MethodDelete, Path: "/notes/1", RequestID: "x"}
	a, err := api.BuildRequest(context.Background(), "http://h", "tok", r)
	require.NoError(t, err)
	b, err := api.BuildRequest(context.Background(), "http://h", "tok", r)
	require.NoError(t, err)

	assert.Equal(t, a.URL.String(), b.URL.String())
	assert.Equal(t, a.Header, b.Header)
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]api.Mode{
		"dev":         api.ModeDevelopment,
		"Development": api.ModeDevelopment,
		"prod":        api.ModeProduction,
		" production": api.ModeProduction,
	} {
		got, err := api.ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := api.ParseMode("staging")
	assert.Error(t, err)
}

func TestDefaultMode_UnderGoTest(t *testing.T) {
	// Test binaries end in .test, so they count as development runs.
	assert.True(t, api.IsDevRun())
	assert.Equal(t, api.ModeDevelopment, api.DefaultMode())
}
