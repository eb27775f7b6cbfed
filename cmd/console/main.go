package main

import (
	"context"
	"log"
	"os"

	"trade_console/internal/modules/config"
	"trade_console/internal/modules/gateway"
	"trade_console/internal/modules/health"
	"trade_console/internal/modules/stream"
	"trade_console/internal/notify"
	"trade_console/internal/runner"
	"trade_console/internal/view"
	"trade_console/pkg/logger"
	"trade_console/pkg/tracing"

	"go.uber.org/fx"
)

func main() {
	teardown, err := logger.Init()
	if err != nil {
		log.Fatal(err)
	}
	defer teardown()
	logger.SetServiceName("trade_console")
	tracing.SetServiceName("trade_console")

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
			// Алерты: если TELEGRAM_* нет — используем stdout
			func(cfg *config.Config) notify.Alerter {
				if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != 0 {
					if tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID); err == nil {
						return tg
					}
				}
				return notify.NewStdout()
			},
			func() view.Presenter {
				return view.NewTerminal()
			},
		),
		config.Module(),
		health.Module(),
		gateway.Module(),
		stream.Module(),
		runner.Module(),
		fx.Invoke(initTracing),
		fx.Invoke(runInput),
	)
	app.Run()
}

func initTracing(lc fx.Lifecycle, cfg *config.Config) {
	if cfg.Jaeger.Host == "" {
		return
	}
	_, closeTracer, err := tracing.InitTracer(tracing.Config{
		Host: cfg.Jaeger.Host,
		Port: cfg.Jaeger.Port,
	})
	if err != nil {
		logger.Error("jaeger init failed: %v", err)
		return
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			closeTracer()
			return nil
		},
	})
}

func runInput(lc fx.Lifecycle, sh fx.Shutdowner, s *runner.Scheduler, ctx context.Context) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			// выход через Shutdowner, чтобы отработали OnStop-хуки
			go readCommands(ctx, s, os.Stdin, func() { _ = sh.Shutdown() })
			return nil
		},
	})
}
