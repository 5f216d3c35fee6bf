package components

import (
	"ticketline/internal/handler"
	"ticketline/internal/handler/api"
	"ticketline/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewSessionHandler,
		api.NewHoldHandler,
		api.NewOrderHandler,
		api.NewWebhookHandler,
		middleware.NewAuthMiddleware,
		func(
			auth *api.AuthHandler,
			session *api.SessionHandler,
			hold *api.HoldHandler,
			order *api.OrderHandler,
			webhook *api.WebhookHandler,
		) handler.Handlers {
			return handler.Handlers{
				Auth:    auth,
				Session: session,
				Hold:    hold,
				Order:   order,
				Webhook: webhook,
			}
		},
	),
	fx.Invoke(handler.NewRouter),
)
