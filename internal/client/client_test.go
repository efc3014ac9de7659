package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chupakbra/mmgroups/internal/config"
	"github.com/chupakbra/mmgroups/internal/logging"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(&config.InstanceConfig{URL: srv.URL, Token: "tok"}, WithLogger(logging.Discard()))
	require.NoError(t, err)
	return c
}

func TestNewValidation(t *testing.T) {
	_, err := New(&config.InstanceConfig{Token: "x"})
	assert.ErrorContains(t, err, "URL is not set")

	_, err = New(&config.InstanceConfig{URL: "https://chat"})
	assert.ErrorContains(t, err, "no access token")
}

func TestNewAppendsAPIPath(t *testing.T) {
	for _, in := range []string{"https://chat.example.com", "https://chat.example.com/", "https://chat.example.com/api/v4"} {
		c, err := New(&config.InstanceConfig{URL: in, Token: "x"})
		require.NoError(t, err)
		assert.Equal(t, "https://chat.example.com/api/v4", c.BaseURL(), in)
	}
}

func TestGetSendsHeadersAndDecodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v4/groups", r.URL.Path)
		assert.Equal(t, "custom", r.URL.Query().Get("source"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
		assert.NoError(t, err, "request id must be a uuid")
		fmt.Fprint(w, `[{"id":"g1","name":"eng"}]`)
	})

	var out []map[string]string
	err := c.Get(context.Background(), "/groups", url.Values{"source": {"custom"}}, &out)
	require.NoError(t, err)
	assert.Equal(t, "eng", out[0]["name"])
}

func TestPostSendsBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"user_ids":["u1"]}`, string(body))
		w.WriteHeader(http.StatusCreated)
	})
	require.NoError(t, c.Post(context.Background(), "/groups/g1/members", []byte(`{"user_ids":["u1"]}`), nil))
}

func TestAppErrorDecoding(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"id":"app.custom_group.unique_name","message":"Group name is not unique.","request_id":"r1","status_code":400}`)
	})

	err := c.Put(context.Background(), "/groups/g1/patch", []byte(`{}`), nil)
	require.Error(t, err)

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "app.custom_group.unique_name", appErr.ServerErrorID())
	assert.Equal(t, "r1", appErr.RequestID)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	assert.Contains(t, err.Error(), "Group name is not unique.")
}

func TestAppErrorNonJSONBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "<html>bad gateway</html>")
	})
	err := c.Get(context.Background(), "/system/ping", nil, nil)

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadGateway, appErr.StatusCode)
	assert.Empty(t, appErr.ID)
}

func TestStatusHelpers(t *testing.T) {
	wrapped := fmt.Errorf("listing: %w", &AppError{StatusCode: http.StatusNotFound})
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsUnauthorized(wrapped))
	assert.True(t, IsUnauthorized(&AppError{StatusCode: http.StatusUnauthorized}))
	assert.True(t, IsForbidden(&AppError{StatusCode: http.StatusForbidden}))
	assert.False(t, IsNotFound(fmt.Errorf("plain")))
}

func TestDecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	})
	var out map[string]any
	err := c.Get(context.Background(), "/users/me", nil, &out)
	assert.ErrorContains(t, err, "decoding GET /users/me response")
}
