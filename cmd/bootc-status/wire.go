//go:build wireinject

package main

import (
	"context"
	"log/slog"

	"github.com/google/wire"
	"github.com/onkernel/bootc-status/cmd/bootc-status/config"
	"github.com/onkernel/bootc-status/lib/providers"
	"github.com/onkernel/bootc-status/lib/status"
)

// application struct to hold initialized components
type application struct {
	Ctx      context.Context
	Logger   *slog.Logger
	Config   *config.Config
	Reporter *status.Reporter
}

// initializeApp is the injector function
func initializeApp() (*application, func(), error) {
	panic(wire.Build(
		providers.ProvideContext,
		providers.ProvideConfig,
		providers.ProvideLogger,
		providers.ProvidePaths,
		providers.ProvideMeterProvider,
		providers.ProvideTracerProvider,
		providers.ProvideStatusMetrics,
		providers.ProvideReporter,
		wire.Struct(new(application), "*"),
	))
}
