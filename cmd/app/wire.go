//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/digestly/internal/bootstrap"
	"github.com/yanqian/digestly/internal/domain/summary"
	"github.com/yanqian/digestly/internal/infra/config"
	"github.com/yanqian/digestly/internal/infra/model"
	"github.com/yanqian/digestly/internal/infra/pool"
	httpiface "github.com/yanqian/digestly/internal/interface/http"
	"github.com/yanqian/digestly/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideSummaryConfig,
		provideRegistry,
		providePool,
		provideSummaryStore,
		summary.NewService,
		wire.Bind(new(summary.Registry), new(*model.Registry)),
		wire.Bind(new(summary.Offload), new(*pool.Pool)),
		httpiface.NewSummaryHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
