package components

import (
	"ticketline/internal/infra/gateway/issuer"
	"ticketline/internal/infra/gateway/payment"
	"ticketline/internal/usecase/commands"

	"go.uber.org/fx"
)

var GatewayModule = fx.Module("gateway",
	fx.Provide(
		fx.Annotate(
			payment.NewClient,
			fx.As(new(commands.PaymentGateway)),
		),
		fx.Annotate(
			issuer.NewClient,
			fx.As(new(commands.TicketIssuer)),
		),
	),
)
