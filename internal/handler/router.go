package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"park-and-ride/internal/handler/api"
	"park-and-ride/internal/handler/middleware"
	"park-and-ride/internal/infra/telemetry"
	"park-and-ride/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Auth    *api.AuthHandler
	Booking *api.BookingHandler
	Lot     *api.LotHandler
	QR      *api.QRHandler
	Payment *api.PaymentHandler
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	logger *middleware.Logger,
	metrics *telemetry.HTTPMetrics,
) {
	setupMiddleware(engine, cfg, logger, metrics)
	setupRoutes(engine, handlers, authMiddleware, metrics)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger, metrics *telemetry.HTTPMetrics) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	engine.Use(middleware.Metrics(metrics))
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.NewRateLimiter(cfg.RateLimit).Middleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware, metrics *telemetry.HTTPMetrics) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	auth := engine.Group("/auth")
	{
		addRoutes(auth, []route{
			{Method: http.MethodPost, Path: "/register", Handler: h.Auth.Register},
			{Method: http.MethodPost, Path: "/login", Handler: h.Auth.Login},
			{Method: http.MethodGet, Path: "/me", Handler: h.Auth.Me, Mw: []gin.HandlerFunc{authMiddleware.RequireAuth()}},
		})
	}

	protected := engine.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		addRoutes(protected, []route{
			{Method: http.MethodPost, Path: "/book", Handler: h.Booking.Book},
			{Method: http.MethodPost, Path: "/cancel", Handler: h.Booking.Cancel},
			{Method: http.MethodGet, Path: "/occupancy", Handler: h.Booking.Occupancy},
			{Method: http.MethodGet, Path: "/slot-occupied", Handler: h.Booking.SlotOccupied},
			{Method: http.MethodPost, Path: "/find-slot", Handler: h.Booking.FindSlot},
			{Method: http.MethodGet, Path: "/free-slots", Handler: h.Booking.FreeSlots},
			{Method: http.MethodGet, Path: "/lots", Handler: h.Lot.List},
			{Method: http.MethodGet, Path: "/qr/verify", Handler: h.QR.Verify},
			{Method: http.MethodGet, Path: "/qr/image", Handler: h.QR.Image},
		})
	}

	payments := engine.Group("/payments")
	{
		addRoutes(payments, []route{
			{Method: http.MethodPost, Path: "/create-intent", Handler: h.Payment.CreateIntent},
			{Method: http.MethodPost, Path: "/confirm", Handler: h.Payment.Confirm},
		})
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
