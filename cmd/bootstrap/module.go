package bootstrap

import (
	"ticketline/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	JWTModule,
	components.RepositoryModule,
	components.GatewayModule,
	components.UseCaseModule,
	components.HandlerModule,
	SweeperModule,
)
