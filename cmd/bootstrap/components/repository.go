package components

import (
	"ticketline/internal/infra/readstore"
	repo_impl "ticketline/internal/infra/repository"
	"ticketline/internal/infra/uow"
	"ticketline/internal/usecase/queries"
	"ticketline/internal/usecase/shared"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		uow.NewPostgresUoW,
		// Repositories the use cases read through outside a transaction.
		fx.Annotate(
			repo_impl.NewOrderRepository,
			fx.As(new(shared.OrderRepository)),
		),
		fx.Annotate(
			repo_impl.NewHoldRepository,
			fx.As(new(shared.HoldRepository)),
		),
		// Read-side stores for queries
		fx.Annotate(
			readstore.NewOrderReadStore,
			fx.As(new(queries.OrderReadStore)),
		),
		fx.Annotate(
			readstore.NewSessionReadStore,
			fx.As(new(queries.SessionReadStore)),
		),
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(queries.UserReadStore)),
		),
	),
)
