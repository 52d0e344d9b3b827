package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"eventpages/internal/delivery/http/helpers"
	"eventpages/internal/delivery/http/middleware"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// newJSONRequest builds a request with a JSON body and the given path values.
func newJSONRequest(t *testing.T, method, target string, body any, pathValues map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	return req
}

// asUser sets the authenticated user on the request context.
func asUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(middleware.SetUserID(req.Context(), userID))
}

// decodeEnvelope decodes the standard response envelope, with Data left as raw JSON.
func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (json.RawMessage, *helpers.APIError) {
	t.Helper()
	var envelope struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	return envelope.Data, envelope.Error
}
