package model

import (
	"errors"
	"log/slog"

	"github.com/yanqian/digestly/internal/domain/summary"
)

// Entry describes one model to load at startup.
type Entry struct {
	Key   string
	Model string
}

// Registry maps model keys to loaded inference clients. It is built once
// during startup and immutable afterwards, so it is shared across requests
// without locking.
type Registry struct {
	models map[string]summary.Model
	keys   []string
}

// NewRegistry loads each configured entry. Entries that fail to load are
// logged and skipped; an empty registry is an error because the service
// cannot summarize anything without a model.
func NewRegistry(baseURL, apiKey string, window int, entries []Entry, logger *slog.Logger) (*Registry, error) {
	log := logger.With("component", "model.registry")

	models := make(map[string]summary.Model, len(entries))
	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Key == "" {
			log.Error("model entry has no key, skipping", "model", entry.Model)
			continue
		}
		if _, dup := models[entry.Key]; dup {
			log.Error("duplicate model key, skipping", "key", entry.Key, "model", entry.Model)
			continue
		}
		client, err := NewClient(baseURL, apiKey, entry.Model, window, logger)
		if err != nil {
			log.Error("model failed to load, skipping", "key", entry.Key, "model", entry.Model, "error", err)
			continue
		}
		models[entry.Key] = client
		keys = append(keys, entry.Key)
		log.Info("model registered", "key", entry.Key, "model", entry.Model)
	}

	if len(models) == 0 {
		return nil, errors.New("no summarization models could be loaded")
	}
	return &Registry{models: models, keys: keys}, nil
}

// Model resolves a key to its inference client.
func (r *Registry) Model(key string) (summary.Model, bool) {
	m, ok := r.models[key]
	return m, ok
}

// Keys returns the registered model keys in registration order.
func (r *Registry) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

var _ summary.Registry = (*Registry)(nil)
