package model

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

const (
	defaultWindowTokens = 1024
	encodingName        = "cl100k_base"

	// Fallback when the tokenizer is unavailable.
	approxCharsPerToken = 4
)

// inferenceRequest is the payload sent to a hosted summarization model.
type inferenceRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters inferenceParameters `json:"parameters"`
}

type inferenceParameters struct {
	MinLength int  `json:"min_length"`
	MaxLength int  `json:"max_length"`
	DoSample  bool `json:"do_sample"`
}

type inferenceCandidate struct {
	SummaryText string `json:"summary_text"`
}

// Client performs HTTP requests against one summarization model.
type Client struct {
	baseURL    string
	apiKey     string
	modelID    string
	window     int
	httpClient *http.Client
	encoder    *tiktoken.Tiktoken
	logger     *slog.Logger
}

// NewClient constructs a client for a single model id. The model has a fixed
// input window; overlong inputs are truncated before each call.
func NewClient(baseURL, apiKey, modelID string, window int, logger *slog.Logger) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("model base url cannot be empty")
	}
	if strings.TrimSpace(modelID) == "" {
		return nil, errors.New("model id cannot be empty")
	}
	if window <= 0 {
		window = defaultWindowTokens
	}

	encoder, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		logger.Warn("tokenizer unavailable, truncating by character heuristic", "model", modelID, "error", err)
		encoder = nil
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		modelID: modelID,
		window:  window,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		encoder: encoder,
		logger:  logger.With("component", "model.client", "model", modelID),
	}, nil
}

// Summarize runs one blocking inference call. It rejects invalid bounds
// before going over the wire.
func (c *Client) Summarize(ctx context.Context, text string, minTokens, maxTokens int) (string, error) {
	if minTokens >= maxTokens {
		return "", fmt.Errorf("invalid token bounds: min %d >= max %d", minTokens, maxTokens)
	}

	payload, err := json.Marshal(inferenceRequest{
		Inputs: c.truncateToWindow(text),
		Parameters: inferenceParameters{
			MinLength: minTokens,
			MaxLength: maxTokens,
			DoSample:  false,
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode inference request: %w", err)
	}

	endpoint := c.baseURL + "/models/" + c.modelID
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build inference request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request inference: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", fmt.Errorf("inference failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var candidates []inferenceCandidate
	if err := json.NewDecoder(resp.Body).Decode(&candidates); err != nil {
		return "", fmt.Errorf("decode inference response: %w", err)
	}
	if len(candidates) == 0 {
		return "", errors.New("model returned no candidates")
	}
	return strings.TrimSpace(candidates[0].SummaryText), nil
}

// truncateToWindow bounds the input to the model's fixed window: by token
// count when the tokenizer is loaded, by a chars-per-token heuristic
// otherwise.
func (c *Client) truncateToWindow(text string) string {
	if c.encoder != nil {
		tokens := c.encoder.Encode(text, nil, nil)
		if len(tokens) <= c.window {
			return text
		}
		c.logger.Debug("input exceeds model window, truncating", "tokens", len(tokens), "window", c.window)
		return c.encoder.Decode(tokens[:c.window])
	}

	limit := c.window * approxCharsPerToken
	if len(text) <= limit {
		return text
	}
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	cut := text[:limit]
	if idx := strings.LastIndex(cut, " "); idx > limit/2 {
		cut = cut[:idx]
	}
	return cut
}
