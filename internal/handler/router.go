package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"ticketline/internal/handler/api"
	"ticketline/internal/handler/middleware"
	"ticketline/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Auth    *api.AuthHandler
	Session *api.SessionHandler
	Hold    *api.HoldHandler
	Order   *api.OrderHandler
	Webhook *api.WebhookHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, handlers Handlers, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, handlers, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, handlers Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// The provider authenticates out of band; webhooks stay outside /api.
	engine.POST("/webhooks/payment", handlers.Webhook.PaymentWebhook)

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/register", Handler: handlers.Auth.Register},
				{Method: http.MethodPost, Path: "/login", Handler: handlers.Auth.Login},
			})
		}

		sessions := apiGroup.Group("/sessions")
		{
			addRoutes(sessions, []route{
				{Method: http.MethodGet, Path: "", Handler: handlers.Session.ListSessions},
				{Method: http.MethodGet, Path: "/:id/seats", Handler: handlers.Session.SeatMap},
				{Method: http.MethodGet, Path: "/:id/categories", Handler: handlers.Session.Categories},
			})

			authRequired := sessions.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodGet, Path: "/:id/holds", Handler: handlers.Session.ListHolds},
			})
		}

		holds := apiGroup.Group("/holds")
		holds.Use(authMiddleware.RequireAuth())
		{
			addRoutes(holds, []route{
				{Method: http.MethodPost, Path: "/seats", Handler: handlers.Hold.ReserveSeats},
				{Method: http.MethodPost, Path: "/general", Handler: handlers.Hold.ReserveGeneral},
				{Method: http.MethodPost, Path: "/checkout", Handler: handlers.Hold.Checkout},
				{Method: http.MethodDelete, Path: "/:id", Handler: handlers.Hold.ReleaseHold},
			})
		}

		orders := apiGroup.Group("/orders")
		orders.Use(authMiddleware.RequireAuth())
		{
			addRoutes(orders, []route{
				{Method: http.MethodGet, Path: "", Handler: handlers.Order.ListOrders},
				{Method: http.MethodGet, Path: "/:id", Handler: handlers.Order.GetOrder},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: handlers.Order.CancelOrder},
				{Method: http.MethodPost, Path: "/:id/payment", Handler: handlers.Order.StartPayment},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
