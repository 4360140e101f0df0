package v1

import (
	"html/template"
	"net/http"
	"time"

	"github.com/CTNinc/keinomori-summerlp2025/config"
	"github.com/CTNinc/keinomori-summerlp2025/internal/delivery/http/middleware"
	"github.com/CTNinc/keinomori-summerlp2025/internal/delivery/http/page"
	"github.com/CTNinc/keinomori-summerlp2025/internal/delivery/http/response"
	"github.com/CTNinc/keinomori-summerlp2025/internal/domain"
	"github.com/CTNinc/keinomori-summerlp2025/pkg/apperror"
	"github.com/CTNinc/keinomori-summerlp2025/pkg/metrics"
	"github.com/CTNinc/keinomori-summerlp2025/web"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	inquiryPath   = "/v1/inquiry"
	swaggerPrefix = "/v1/swagger/"
)

type RouterDeps struct {
	InquiryUC domain.InquiryUsecase
	TokenUC   domain.TokenUsecase
	Config    *config.Config
	Logger    zerolog.Logger
	// Redis backs the rate limiter; nil keeps counters in memory
	Redis *goredis.Client
	// Templates for the form pages; nil skips the page routes
	Templates *template.Template
	Location  *time.Location
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	cfg := deps.Config

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins, cfg.GinMode != gin.ReleaseMode)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.LoggingMiddleware(deps.Logger))
	r.Use(middleware.SecurityHeadersMiddleware(cfg.GinMode == gin.ReleaseMode, swaggerPrefix))
	r.Use(middleware.ErrorHandler())

	r.NoMethod(func(c *gin.Context) {
		log := middleware.Logger(c)
		log.Warn().Msg("request rejected: method not allowed")
		if c.Request.URL.Path == inquiryPath {
			metrics.RecordSubmission(metrics.OutcomeRejectedMethod)
		}
		_ = c.Error(apperror.MethodNotAllowed(MessageBadRequest))
	})
	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "ページが見つかりません。", nil)
	})

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	// Public routes
	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second
	submitLimit := middleware.RateLimitMiddleware(middleware.InquiryRateLimitConfig(cfg.RateLimitInquiryThreshold, window, deps.Redis))
	// shared by every route that issues a token
	tokenLimit := middleware.RateLimitMiddleware(middleware.TokenRateLimitConfig(cfg.RateLimitTokenThreshold, window, deps.Redis))
	NewInquiryHandler(v1, deps.InquiryUC, deps.TokenUC, cfg.InquirySuccessRedirect, Guards{
		Submit: []gin.HandlerFunc{submitLimit},
		Token:  []gin.HandlerFunc{tokenLimit},
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if deps.Templates != nil {
		r.SetHTMLTemplate(deps.Templates)
		r.StaticFS("/static", web.Static())
		page.NewPageHandler(r.Group("", tokenLimit), deps.TokenUC, deps.InquiryUC, page.Options{
			SiteName:   cfg.SiteName,
			CarTypes:   cfg.CarTypes,
			Stores:     cfg.Stores,
			VisitTimes: cfg.VisitTimes,
			Location:   deps.Location,
		})
	}

	return r
}
