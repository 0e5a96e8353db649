//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/outfitcast/internal/bootstrap"
	"github.com/yanqian/outfitcast/internal/domain/credential"
	"github.com/yanqian/outfitcast/internal/domain/outfit"
	"github.com/yanqian/outfitcast/internal/infra/config"
	httpiface "github.com/yanqian/outfitcast/internal/interface/http"
	"github.com/yanqian/outfitcast/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideOutfitConfig,
		provideForecastSource,
		providePlaceStore,
		providePlaceResolver,
		provideCredentialConfig,
		provideCredentialRepository,
		provideKeyResolver,
		credential.NewService,
		outfit.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
