package summary

import (
	"context"
	"fmt"
	"time"

	"github.com/yanqian/digestly/pkg/metrics"
)

// Format selects the presentation style of the final summary.
type Format string

const (
	FormatBulletPoints Format = "bullet_points"
	FormatTLDR         Format = "tldr"
	FormatSimplified   Format = "simplified"
	FormatDetailed     Format = "detailed"
)

// ParseFormat validates a wire-level format string. An empty value selects
// the bullet list default.
func ParseFormat(raw string) (Format, error) {
	switch Format(raw) {
	case FormatBulletPoints, FormatTLDR, FormatSimplified, FormatDetailed:
		return Format(raw), nil
	case "":
		return FormatBulletPoints, nil
	}
	return "", fmt.Errorf("unknown format %q", raw)
}

// DetailLevel controls the target summary length ratio and whether the
// reduce pass may run.
type DetailLevel string

const (
	DetailLow    DetailLevel = "low"
	DetailMedium DetailLevel = "medium"
	DetailHigh   DetailLevel = "high"
)

// ParseDetailLevel validates a wire-level detail level. An empty value
// selects medium.
func ParseDetailLevel(raw string) (DetailLevel, error) {
	switch DetailLevel(raw) {
	case DetailLow, DetailMedium, DetailHigh:
		return DetailLevel(raw), nil
	case "":
		return DetailMedium, nil
	}
	return "", fmt.Errorf("unknown detail level %q", raw)
}

// Request represents the incoming summarization payload.
type Request struct {
	Text        string `json:"text"`
	Format      string `json:"format,omitempty"`
	MaxLength   int    `json:"max_length,omitempty"`
	MinLength   int    `json:"min_length,omitempty"`
	DetailLevel string `json:"detail_level,omitempty"`
}

// SummaryParams is the model-facing length budget derived for one request.
type SummaryParams struct {
	MinTokens         int
	MaxTokens         int
	TargetLengthChars int
}

// ChunkOutcome records the result of summarizing a single chunk: either a
// summary or the reason the chunk produced none.
type ChunkOutcome struct {
	Index      int
	Summary    string
	SkipReason string
}

// Skipped reports whether the chunk produced no usable summary.
func (o ChunkOutcome) Skipped() bool {
	return o.SkipReason != ""
}

// Result is the final response for one summarization request.
type Result struct {
	Summary         string                 `json:"summary"`
	Format          Format                 `json:"format"`
	OriginalLength  int                    `json:"original_length"`
	SummaryLength   int                    `json:"summary_length"`
	ChunksProcessed int                    `json:"chunks_processed"`
	DetailLevel     DetailLevel            `json:"detail_level"`
	Usage           *metrics.PipelineUsage `json:"usage,omitempty"`
}

// Model is the opaque inference capability behind the pipeline. It has a
// fixed input window and rejects invalid bounds (min >= max), so callers
// must never pass such bounds.
type Model interface {
	Summarize(ctx context.Context, text string, minTokens, maxTokens int) (string, error)
}

// Registry resolves model keys to loaded inference capabilities. It is
// populated once at startup and read-only afterwards.
type Registry interface {
	Model(key string) (Model, bool)
	Keys() []string
}

// Offload executes a blocking model call on a bounded worker pool and
// returns the result to the caller.
type Offload interface {
	Submit(ctx context.Context, call func(context.Context) (string, error)) (string, error)
}

// Store caches finished results keyed by request fingerprint.
type Store interface {
	Get(ctx context.Context, key string) (Result, bool, error)
	Save(ctx context.Context, key string, res Result, ttl time.Duration) error
}

// Config configures model selection and result caching.
type Config struct {
	GeneralModelKey    string
	SimplifiedModelKey string
	CacheTTL           time.Duration
}
