package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/digestly/internal/domain/summary"
	"github.com/yanqian/digestly/internal/infra/config"
	"github.com/yanqian/digestly/internal/infra/model"
	"github.com/yanqian/digestly/internal/infra/pool"
	"github.com/yanqian/digestly/internal/infra/summarystore"
)

func provideSummaryConfig(cfg *config.Config) summary.Config {
	return summary.Config{
		GeneralModelKey:    cfg.Summary.GeneralModelKey,
		SimplifiedModelKey: cfg.Summary.SimplifiedModelKey,
		CacheTTL:           cfg.Summary.CacheTTL,
	}
}

func provideRegistry(cfg *config.Config, logger *slog.Logger) (*model.Registry, error) {
	entries := make([]model.Entry, 0, len(cfg.Models.Entries))
	for _, e := range cfg.Models.Entries {
		entries = append(entries, model.Entry{Key: e.Key, Model: e.Model})
	}
	return model.NewRegistry(cfg.Models.BaseURL, cfg.Models.APIKey, cfg.Models.WindowTokens, entries, logger)
}

func providePool(cfg *config.Config, logger *slog.Logger) *pool.Pool {
	return pool.New(cfg.Pool.Workers, cfg.Pool.QueueSize, cfg.Pool.CallTimeout, logger)
}

func provideSummaryStore(cfg *config.Config, logger *slog.Logger) summary.Store {
	if cfg.Cache.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return summarystore.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return summarystore.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
		} else {
			logger.Info("valkey summary cache enabled", "addr", cfg.Cache.Addr)
			return summarystore.NewValkeyStore(client, "digestly")
		}
	}
	return summarystore.NewMemoryStore()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Cache.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Cache.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Cache.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}
