package stream

import (
	"context"

	"trade_console/internal/modules/stream/service"

	"go.uber.org/fx"
)

// Module поднимает пуш-подписку на торговый сервис.
func Module() fx.Option {
	return fx.Module("stream",
		fx.Provide(
			service.NewClient,
			func() chan service.Event {
				// общий буфер для пуш-событий
				return make(chan service.Event, 256)
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, c *service.Client, out chan service.Event, ctx context.Context) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go c.Start(ctx, out)
					return nil
				},
			})
		}),
	)
}
