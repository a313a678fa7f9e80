package model

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClient_Summarize(t *testing.T) {
	var gotReq inferenceRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/models/facebook/bart-large-cnn", r.URL.Path)
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"summary_text":"  a tidy summary  "}]`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "secret", "facebook/bart-large-cnn", 1024, newTestLogger())
	require.NoError(t, err)

	got, err := client.Summarize(context.Background(), "some article text", 50, 150)
	require.NoError(t, err)
	require.Equal(t, "a tidy summary", got)

	require.Equal(t, "some article text", gotReq.Inputs)
	require.Equal(t, 50, gotReq.Parameters.MinLength)
	require.Equal(t, 150, gotReq.Parameters.MaxLength)
	require.False(t, gotReq.Parameters.DoSample)
}

func TestClient_SummarizeRejectsInvalidBounds(t *testing.T) {
	client, err := NewClient("http://localhost", "", "any-model", 0, newTestLogger())
	require.NoError(t, err)

	_, err = client.Summarize(context.Background(), "text", 150, 150)
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid token bounds")
}

func TestClient_SummarizeSurfacesUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"model loading"}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "", "any-model", 1024, newTestLogger())
	require.NoError(t, err)

	_, err = client.Summarize(context.Background(), "text", 10, 100)
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=503")
	require.Contains(t, err.Error(), "model loading")
}

func TestClient_SummarizeRejectsEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "", "any-model", 1024, newTestLogger())
	require.NoError(t, err)

	_, err = client.Summarize(context.Background(), "text", 10, 100)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no candidates")
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient("", "", "model", 0, newTestLogger())
	require.Error(t, err)

	_, err = NewClient("http://localhost", "", "  ", 0, newTestLogger())
	require.Error(t, err)
}

func TestClient_TruncateHeuristic(t *testing.T) {
	client := &Client{window: 10, logger: newTestLogger()}

	short := "fits within the window"
	require.Equal(t, short, client.truncateToWindow(short))

	long := strings.Repeat("word ", 40)
	got := client.truncateToWindow(long)
	require.LessOrEqual(t, len(got), client.window*approxCharsPerToken)
	require.False(t, strings.HasSuffix(got, " wo"), "cut should land on a word boundary")

	multibyte := strings.Repeat("日本語テキスト", 10)
	got = client.truncateToWindow(multibyte)
	require.True(t, utf8.ValidString(got), "cut must not split a rune")
	require.True(t, strings.HasPrefix(multibyte, got))
}
