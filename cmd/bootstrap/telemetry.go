package bootstrap

import (
	"context"

	"park-and-ride/internal/infra/telemetry"
	"park-and-ride/internal/pkg/config"

	"go.uber.org/fx"
)

var TelemetryModule = fx.Module("telemetry",
	fx.Provide(
		NewTelemetryProvider,
		NewHTTPMetrics,
	),
)

func NewTelemetryProvider(lc fx.Lifecycle, cfg config.Config) (*telemetry.Provider, error) {
	provider, err := telemetry.NewProvider(context.Background(), cfg.Telemetry)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: provider.Shutdown,
	})

	return provider, nil
}

func NewHTTPMetrics(cfg config.Config) *telemetry.HTTPMetrics {
	return telemetry.NewHTTPMetrics(cfg.Lot.Rows * cfg.Lot.Cols)
}
