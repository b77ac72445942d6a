package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// APIClient drives an http.Handler the way a browser client would, with an
// optional bearer token.
type APIClient struct {
	t       *testing.T
	handler http.Handler
	Token   string
}

// NewAPIClient creates a client for handler.
func NewAPIClient(t *testing.T, handler http.Handler) *APIClient {
	return &APIClient{t: t, handler: handler}
}

// As returns a copy of the client that sends token.
func (c *APIClient) As(token string) *APIClient {
	cp := *c
	cp.Token = token
	return &cp
}

// Do sends a request. body is JSON-encoded when it is not nil.
func (c *APIClient) Do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err, "Failed to marshal request body")
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	return w
}

// Envelope is the response body every API route writes.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// DecodeEnvelope parses the response body.
func DecodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "Failed to parse response: %s", w.Body.String())
	return env
}

// DecodeData requires a successful response with the given status and
// decodes its data into T.
func DecodeData[T any](t *testing.T, w *httptest.ResponseRecorder, status int) T {
	t.Helper()
	require.Equal(t, status, w.Code, "Unexpected status, body: %s", w.Body.String())

	env := DecodeEnvelope(t, w)
	require.True(t, env.Success, "Expected success, body: %s", w.Body.String())

	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out), "Failed to decode data")
	return out
}

// ErrorCode requires an error response with the given status and returns
// its code.
func ErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int) string {
	t.Helper()
	require.Equal(t, status, w.Code, "Unexpected status, body: %s", w.Body.String())

	env := DecodeEnvelope(t, w)
	require.False(t, env.Success)
	require.NotNil(t, env.Error, "Expected an error object")
	return env.Error.Code
}
