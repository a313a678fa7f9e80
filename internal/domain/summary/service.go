package summary

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	apperrors "github.com/yanqian/digestly/pkg/errors"
	"github.com/yanqian/digestly/pkg/metrics"
)

// Pipeline thresholds and budgets.
const (
	minInputLength = 50

	directPathMax    = 8_000
	chunkSizeDivisor = 2_500
	minPlannedChunks = 15
	maxPlannedChunks = 30
	mapMinChunkLen   = 100

	chunkTargetMin      = 150
	chunkTargetMax      = 400
	chunkMaxTokensCeil  = 200
	chunkMinTokensFloor = 20

	combinedReduceGate = 8_000
	reduceTargetFloor  = 5_000
	reduceMaxTokens    = 400
	reduceMinTokens    = 100

	fallbackWindow    = 3_000
	fallbackMinTokens = 40
	fallbackMaxTokens = 150
)

// Service exposes the summarization pipeline.
type Service interface {
	Summarize(ctx context.Context, req Request) (Result, error)
}

type service struct {
	cfg      Config
	registry Registry
	offload  Offload
	store    Store
	logger   *slog.Logger
}

// NewService is a wire provider for the summarization pipeline.
func NewService(cfg Config, registry Registry, offload Offload, store Store, logger *slog.Logger) Service {
	return &service{
		cfg:      cfg,
		registry: registry,
		offload:  offload,
		store:    store,
		logger:   logger.With("component", "summary.service"),
	}
}

func (s *service) Summarize(ctx context.Context, req Request) (Result, error) {
	format, err := ParseFormat(req.Format)
	if err != nil {
		return Result{}, apperrors.Wrap("invalid_input", "unsupported format", err)
	}
	level, err := ParseDetailLevel(req.DetailLevel)
	if err != nil {
		return Result{}, apperrors.Wrap("invalid_input", "unsupported detail level", err)
	}

	clean := Preprocess(req.Text)
	if len(clean) < minInputLength {
		return Result{}, apperrors.Wrap("invalid_input", fmt.Sprintf("text must be at least %d characters after cleaning", minInputLength), nil)
	}

	key := cacheKey(clean, format, level, req.MaxLength, req.MinLength)
	if s.store != nil {
		if cached, ok, cacheErr := s.store.Get(ctx, key); cacheErr == nil && ok {
			s.logger.Debug("summary cache hit", "format", format, "detail_level", level)
			return cached, nil
		} else if cacheErr != nil {
			s.logger.Warn("summary cache lookup failed", "error", cacheErr)
		}
	}

	params := CalculateParams(len(clean), level, req.MaxLength, req.MinLength)
	model, err := s.selectModel(format, len(clean))
	if err != nil {
		return Result{}, apperrors.Wrap("model_unavailable", "no summarization model available", err)
	}

	usage := &metrics.PipelineUsage{}
	var raw string
	if len(clean) <= directPathMax {
		raw, err = s.summarizeDirect(ctx, model, clean, params, usage)
	} else {
		raw, err = s.summarizeHierarchical(ctx, model, clean, level, usage)
	}
	if err != nil {
		return Result{}, apperrors.Wrap("summarize_failed", "summarization pipeline produced no result", err)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Result{}, apperrors.Wrap("summarize_failed", "summarization pipeline produced no result", nil)
	}

	final := FormatSummary(raw, format)
	res := Result{
		Summary:         final,
		Format:          format,
		OriginalLength:  len(req.Text),
		SummaryLength:   len(final),
		ChunksProcessed: usage.ChunksSummarized,
		DetailLevel:     level,
		Usage:           usage,
	}

	if s.store != nil {
		if saveErr := s.store.Save(ctx, key, res, s.cfg.CacheTTL); saveErr != nil {
			s.logger.Warn("summary cache save failed", "error", saveErr)
		}
	}
	return res, nil
}

// summarizeDirect handles inputs that fit a single model call.
func (s *service) summarizeDirect(ctx context.Context, model Model, text string, params SummaryParams, usage *metrics.PipelineUsage) (string, error) {
	words := len(strings.Fields(text))
	safeMax := minInt(params.MaxTokens, maxInt(50, words/2))
	safeMin := maxInt(10, minInt(safeMax-20, params.MinTokens))
	if safeMin >= safeMax {
		// The model rejects min >= max outright; repair rather than fail.
		safeMax = safeMin + 50
	}

	usage.ModelCalls++
	out, err := s.invoke(ctx, model, text, safeMin, safeMax)
	if err != nil {
		return "", err
	}
	usage.ChunksSummarized = 1
	return strings.TrimSpace(out), nil
}

// summarizeHierarchical runs the map-reduce pipeline for long inputs:
// per-chunk summarization, single-space combination, and an optional
// second-pass reduction.
func (s *service) summarizeHierarchical(ctx context.Context, model Model, text string, level DetailLevel, usage *metrics.PipelineUsage) (string, error) {
	chunkCount := clampInt(len(text)/chunkSizeDivisor, minPlannedChunks, maxPlannedChunks)
	chunks := PlanChunks(text, chunkCount)
	if len(chunks) < 3 && len(text) > forceSplitGate {
		// Second safety valve: very large inputs must decompose adequately.
		size := len(text) / maxInt(10, chunkCount/2)
		chunks = splitFixed(text, size)
	}
	usage.ChunksPlanned = len(chunks)

	outcomes := make([]ChunkOutcome, 0, len(chunks))
	for i, chunk := range chunks {
		outcomes = append(outcomes, s.summarizeChunk(ctx, model, i, chunk, usage))
	}

	var combined strings.Builder
	for _, outcome := range outcomes {
		if outcome.Skipped() {
			usage.ChunksSkipped++
			continue
		}
		if combined.Len() > 0 {
			combined.WriteByte(' ')
		}
		combined.WriteString(outcome.Summary)
		usage.ChunksSummarized++
	}

	if usage.ChunksSummarized == 0 {
		s.logger.Warn("all chunk summaries failed, falling back to head of input", "chunks", len(chunks))
		head := text
		if len(head) > fallbackWindow {
			head = head[:runeStart(head, fallbackWindow)]
		}
		usage.ModelCalls++
		out, err := s.invoke(ctx, model, head, fallbackMinTokens, fallbackMaxTokens)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(out), nil
	}

	merged := combined.String()
	if len(merged) > combinedReduceGate && level != DetailHigh {
		finalTarget := maxInt(reduceTargetFloor, len(merged)/2)
		maxTok := minInt(reduceMaxTokens, finalTarget/charsPerToken)
		minTok := reduceMinTokens
		if minTok >= maxTok {
			maxTok = minTok + repairDelta
		}
		usage.ModelCalls++
		reduced, err := s.invoke(ctx, model, merged, minTok, maxTok)
		if err != nil {
			s.logger.Warn("reduce pass failed, returning combined chunk summaries", "error", err)
			return merged, nil
		}
		usage.ReducePass = true
		return strings.TrimSpace(reduced), nil
	}
	return merged, nil
}

// summarizeChunk applies the per-chunk budget and converts a failure into a
// skipped outcome so the pipeline continues.
func (s *service) summarizeChunk(ctx context.Context, model Model, idx int, chunk string, usage *metrics.PipelineUsage) ChunkOutcome {
	if len(chunk) <= mapMinChunkLen {
		return ChunkOutcome{Index: idx, SkipReason: "chunk below minimum length"}
	}

	target := clampInt(len(chunk)/charsPerToken, chunkTargetMin, chunkTargetMax)
	maxTok := minInt(chunkMaxTokensCeil, target/4)
	minTok := maxInt(chunkMinTokensFloor, maxTok/3)

	usage.ModelCalls++
	out, err := s.invoke(ctx, model, chunk, minTok, maxTok)
	if err != nil {
		s.logger.Warn("chunk summarization failed, skipping", "chunk", idx, "error", err)
		return ChunkOutcome{Index: idx, SkipReason: err.Error()}
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return ChunkOutcome{Index: idx, SkipReason: "model returned empty summary"}
	}
	return ChunkOutcome{Index: idx, Summary: out}
}

func (s *service) invoke(ctx context.Context, model Model, text string, minTokens, maxTokens int) (string, error) {
	return s.offload.Submit(ctx, func(callCtx context.Context) (string, error) {
		return model.Summarize(callCtx, text, minTokens, maxTokens)
	})
}

// selectModel picks a model key from format and text scale: the alternate
// style model only serves simplified requests at direct-path scale.
func (s *service) selectModel(format Format, length int) (Model, error) {
	key := s.cfg.GeneralModelKey
	if format == FormatSimplified && length <= directPathMax && s.cfg.SimplifiedModelKey != "" {
		key = s.cfg.SimplifiedModelKey
	}
	if m, ok := s.registry.Model(key); ok {
		return m, nil
	}
	for _, k := range s.registry.Keys() {
		if m, ok := s.registry.Model(k); ok {
			return m, nil
		}
	}
	return nil, errors.New("model registry is empty")
}

func cacheKey(clean string, format Format, level DetailLevel, maxLength, minLength int) string {
	h := md5.New()
	io.WriteString(h, clean)
	fmt.Fprintf(h, "|%s|%s|%d|%d", format, level, maxLength, minLength)
	return "summary:" + hex.EncodeToString(h.Sum(nil))
}
