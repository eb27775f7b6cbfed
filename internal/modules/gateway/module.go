package gateway

import (
	"trade_console/internal/modules/gateway/service"

	"go.uber.org/fx"
)

// Module — HTTP-клиент торгового сервиса.
func Module() fx.Option {
	return fx.Module("gateway",
		fx.Provide(
			service.NewClient,
		),
	)
}
