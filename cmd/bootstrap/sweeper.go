package bootstrap

import (
	"context"
	"log/slog"

	"ticketline/internal/pkg/config"
	"ticketline/internal/sweeper"
	"ticketline/internal/usecase/commands"

	"go.uber.org/fx"
)

var SweeperModule = fx.Module("sweeper",
	fx.Provide(
		NewSweeper,
	),
	fx.Invoke(StartSweeper),
)

func NewSweeper(mc commands.MaintenanceCommands, cfg config.Config, logger *slog.Logger) *sweeper.Sweeper {
	return sweeper.New(mc, cfg.Sweeper.Interval, logger)
}

func StartSweeper(lc fx.Lifecycle, s *sweeper.Sweeper) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go s.Start(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})
}
