package runner

import (
	"context"

	"trade_console/internal/modules/config"
	gwservice "trade_console/internal/modules/gateway/service"
	healthsvc "trade_console/internal/modules/health/service"
	streamsvc "trade_console/internal/modules/stream/service"
	"trade_console/internal/notify"
	"trade_console/internal/view"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			func(
				cfg *config.Config,
				gw *gwservice.Client,
				alerter notify.Alerter,
				health *healthsvc.State,
				push chan streamsvc.Event,
				presenter view.Presenter,
			) *Scheduler {
				return New(cfg, gw, alerter, health, push, presenter)
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, s *Scheduler, ctx context.Context) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go s.Run(ctx)
					return nil
				},
			})
		}),
	)
}
