// Package testutil provides helpers shared by the black-box test suites.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Envelope mirrors the JSON envelope of every API response
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *EnvelopeError  `json:"error,omitempty"`
	Meta    *EnvelopeMeta   `json:"meta,omitempty"`
}

// EnvelopeError is the error part of an envelope
type EnvelopeError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Reason    string `json:"reason"`
}

// EnvelopeMeta is the pagination part of an envelope
type EnvelopeMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// Result is one recorded exchange
type Result struct {
	Status   int
	Header   http.Header
	Body     []byte
	Envelope Envelope
}

// ErrorCode returns the envelope error code, or "" on success
func (r *Result) ErrorCode() string {
	if r.Envelope.Error == nil {
		return ""
	}
	return r.Envelope.Error.Code
}

// ErrorReason returns the envelope error reason, or ""
func (r *Result) ErrorReason() string {
	if r.Envelope.Error == nil {
		return ""
	}
	return r.Envelope.Error.Reason
}

// Decode unmarshals the envelope data into v
func (r *Result) Decode(t testing.TB, v any) {
	t.Helper()
	require.NotEmpty(t, r.Envelope.Data, "response has no data: %s", r.Body)
	require.NoError(t, json.Unmarshal(r.Envelope.Data, v))
}

// APIClient sends JSON requests to an in-process handler
type APIClient struct {
	handler http.Handler
	token   string
}

// NewAPIClient creates an anonymous client
func NewAPIClient(handler http.Handler) *APIClient {
	return &APIClient{handler: handler}
}

// As returns a copy of the client that sends token as bearer credential
func (c *APIClient) As(token string) *APIClient {
	return &APIClient{handler: c.handler, token: token}
}

// Do performs a request. headers are name/value pairs.
func (c *APIClient) Do(t testing.TB, method, path string, body any, headers ...string) *Result {
	t.Helper()
	require.True(t, len(headers)%2 == 0, "headers must be name/value pairs")

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for i := 0; i < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)

	res := &Result{Status: w.Code, Header: w.Header(), Body: w.Body.Bytes()}
	if len(res.Body) > 0 {
		require.NoError(t, json.Unmarshal(res.Body, &res.Envelope), "body is not an envelope: %s", res.Body)
	}
	return res
}

// Get performs a GET request
func (c *APIClient) Get(t testing.TB, path string) *Result {
	t.Helper()
	return c.Do(t, http.MethodGet, path, nil)
}

// Post performs a POST request with a JSON body
func (c *APIClient) Post(t testing.TB, path string, body any, headers ...string) *Result {
	t.Helper()
	return c.Do(t, http.MethodPost, path, body, headers...)
}

// Delete performs a DELETE request
func (c *APIClient) Delete(t testing.TB, path string) *Result {
	t.Helper()
	return c.Do(t, http.MethodDelete, path, nil)
}
