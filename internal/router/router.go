package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-classnav-api/internal/handler"
	"github.com/noah-isme/sma-classnav-api/internal/middleware"
	"github.com/noah-isme/sma-classnav-api/pkg/config"
	"github.com/noah-isme/sma-classnav-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-classnav-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-classnav-api/pkg/middleware/requestid"
)

// Params groups everything the HTTP surface depends on.
type Params struct {
	Config     *config.Config
	Logger     *zap.Logger
	Tokens     middleware.TokenValidator
	Requests   middleware.RequestObserver
	Navigation *handler.NavigationHandler
	Metrics    *handler.MetricsHandler
}

// New builds the gin engine with public operational routes and the JWT protected
// navigation routes under the configured API prefix.
func New(p Params) *gin.Engine {
	if p.Config.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(corsmiddleware.New(p.Config.CORS.AllowedOrigins))
	if p.Config.Metrics.Enabled && p.Requests != nil {
		r.Use(middleware.Metrics(p.Requests))
	}

	r.GET("/health", p.Metrics.Health)
	r.GET("/ready", p.Metrics.Ready)
	if p.Config.Metrics.Enabled {
		r.GET("/metrics", p.Metrics.Prometheus)
		r.GET("/metrics/summary", p.Metrics.Summary)
	}

	if p.Config.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(p.Config.APIPrefix)
	api.Use(middleware.JWT(p.Tokens), middleware.WithResponseMeta())
	{
		nav := api.Group("/navigation")
		nav.GET("", p.Navigation.Sidebar)
		nav.GET("/breadcrumbs", p.Navigation.Breadcrumbs)
		nav.GET("/export", p.Navigation.Export)
		nav.POST("/refresh", p.Navigation.Refresh)
	}

	return r
}
