package summarystore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/digestly/internal/domain/summary"
)

// ValkeyStore caches summaries in a Valkey-compatible database so repeated
// requests for the same document skip the pipeline across replicas.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "digestly"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// Get implements summary.Store.
func (s *ValkeyStore) Get(ctx context.Context, key string) (summary.Result, bool, error) {
	cmd := s.client.B().Get().Key(s.key(key)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return summary.Result{}, false, nil
		}
		return summary.Result{}, false, err
	}
	var res summary.Result
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		return summary.Result{}, false, err
	}
	return res, true, nil
}

// Save caches the result with optional TTL.
func (s *ValkeyStore) Save(ctx context.Context, key string, res summary.Result, ttl time.Duration) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.key(key)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) key(key string) string {
	return s.prefix + ":" + key
}

var _ summary.Store = (*ValkeyStore)(nil)
