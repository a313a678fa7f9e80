package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/digestly/internal/domain/summary"
	"github.com/yanqian/digestly/internal/infra/config"
	apperrors "github.com/yanqian/digestly/pkg/errors"
)

func TestRouter_SummarizeSuccess(t *testing.T) {
	res := summary.Result{
		Summary:         "• A short summary.",
		Format:          summary.FormatBulletPoints,
		OriginalLength:  120,
		SummaryLength:   18,
		ChunksProcessed: 1,
		DetailLevel:     summary.DetailMedium,
	}
	svc := &stubService{
		summarizeFn: func(ctx context.Context, req summary.Request) (summary.Result, error) {
			require.Equal(t, "hello world", req.Text)
			require.Equal(t, "bullet_points", req.Format)
			return res, nil
		},
	}

	recorder := performRequest("/api/v1/summaries", `{"text":"hello world","format":"bullet_points"}`, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got summary.Result
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, res, got)
}

func TestRouter_SummarizeInvalidJSON(t *testing.T) {
	svc := &stubService{}

	recorder := performRequest("/api/v1/summaries", `{"text":123}`, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
	require.NotEmpty(t, errBody["error"]["message"])
}

func TestRouter_SummarizeInvalidInput(t *testing.T) {
	svc := &stubService{
		summarizeFn: func(ctx context.Context, req summary.Request) (summary.Result, error) {
			return summary.Result{}, apperrors.Wrap("invalid_input", "text must be at least 50 characters after cleaning", nil)
		},
	}

	recorder := performRequest("/api/v1/summaries", `{"text":"hi"}`, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "invalid_input", errBody["error"]["code"])
	require.Contains(t, errBody["error"]["message"], "at least 50 characters")
}

func TestRouter_SummarizeModelUnavailable(t *testing.T) {
	svc := &stubService{
		summarizeFn: func(ctx context.Context, req summary.Request) (summary.Result, error) {
			return summary.Result{}, apperrors.Wrap("model_unavailable", "no summarization model available", nil)
		},
	}

	recorder := performRequest("/api/v1/summaries", `{"text":"some text"}`, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "model_unavailable", errBody["error"]["code"])
}

func TestRouter_SummarizePipelineFailure(t *testing.T) {
	upstream := errors.New("inference failed: status=503 body=internal backend detail")
	svc := &stubService{
		summarizeFn: func(ctx context.Context, req summary.Request) (summary.Result, error) {
			return summary.Result{}, apperrors.Wrap("summarize_failed", "summarization pipeline produced no result", upstream)
		},
	}

	recorder := performRequest("/api/v1/summaries", `{"text":"some text"}`, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusInternalServerError, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "summarize_failed", errBody["error"]["code"])
	require.Equal(t, "summarization failed", errBody["error"]["message"])
	require.NotContains(t, recorder.Body.String(), "internal backend detail")
}

func TestRouter_Healthz(t *testing.T) {
	svc := &stubService{}
	server := newRouterUnderTest(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status string   `json:"status"`
		Models []string `json:"models"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "ok", body.Status)
	require.Equal(t, []string{"general", "simplified"}, body.Models)
}

func TestRouter_RequestIDHeader(t *testing.T) {
	svc := &stubService{}
	server := newRouterUnderTest(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	require.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func performRequest(path, body string, server *http.Server) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func newRouterUnderTest(t *testing.T, svc summary.Service) *http.Server {
	t.Helper()
	handler := NewSummaryHandler(svc, stubRegistry{keys: []string{"general", "simplified"}}, newTestLogger())
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
	return NewRouter(cfg, handler)
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type stubService struct {
	summarizeFn func(ctx context.Context, req summary.Request) (summary.Result, error)
}

func (s *stubService) Summarize(ctx context.Context, req summary.Request) (summary.Result, error) {
	if s.summarizeFn != nil {
		return s.summarizeFn(ctx, req)
	}
	return summary.Result{}, nil
}

type stubRegistry struct {
	keys []string
}

func (r stubRegistry) Model(key string) (summary.Model, bool) { return nil, false }

func (r stubRegistry) Keys() []string { return r.keys }

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}
