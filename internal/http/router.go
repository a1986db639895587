package http

import (
	"log/slog"
	"time"

	"github.com/geocoder89/postboard/internal/auth"
	"github.com/geocoder89/postboard/internal/http/handlers"
	"github.com/geocoder89/postboard/internal/http/middlewares"
	"github.com/geocoder89/postboard/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxFormBytes = 64 << 10

type RouterDeps struct {
	Env            string
	Auth           handlers.Authenticator
	Sessions       *middlewares.Sessions
	RequestTimeout time.Duration
	Checks         map[string]handlers.Check
	IsShuttingDown func() bool
	Prom           *observability.Prom
	// Gatherer backs /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

func NewRouter(log *slog.Logger, deps RouterDeps) *gin.Engine {
	if deps.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(otelgin.Middleware("postboard"))
	r.Use(middlewares.RequestLogger(log))
	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.MaxBodyBytes(maxFormBytes))

	// health
	h := handlers.NewHealthHandler(deps.Checks, deps.IsShuttingDown)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// Routes
	authHandler := handlers.NewAuthHandler(deps.Auth, deps.Sessions, deps.RequestTimeout, log)
	pages := handlers.NewPagesHandler(deps.Sessions)

	web := r.Group("/")
	web.Use(deps.Sessions.Middleware())
	{
		guest := middlewares.RedirectIfAuthenticated(string(auth.RedirectHome))

		web.GET("/register", guest, pages.Register)
		web.POST("/register", authHandler.Register)
		web.GET("/login", guest, pages.Login)
		web.POST("/login", authHandler.Login)
		web.POST("/logout", authHandler.Logout)

		web.GET("/", middlewares.RequireLogin(deps.Sessions, string(auth.RedirectLogin)), pages.Home)
	}

	return r
}
