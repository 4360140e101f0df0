package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/CTNinc/keinomori-summerlp2025/config"
	_ "github.com/CTNinc/keinomori-summerlp2025/docs" // Important for Swagger
	v1 "github.com/CTNinc/keinomori-summerlp2025/internal/delivery/http/v1"
	"github.com/CTNinc/keinomori-summerlp2025/internal/token"
	"github.com/CTNinc/keinomori-summerlp2025/internal/usecase"
	"github.com/CTNinc/keinomori-summerlp2025/pkg/email"
	"github.com/CTNinc/keinomori-summerlp2025/pkg/logger"
	"github.com/CTNinc/keinomori-summerlp2025/pkg/redis"
	"github.com/CTNinc/keinomori-summerlp2025/pkg/validation"
	"github.com/CTNinc/keinomori-summerlp2025/web"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// @title           Kei no Mori Inquiry API
// @version         1.0
// @description     Visit inquiry form backend for the Kei no Mori summer campaign.
// @host            localhost:8080
// @BasePath        /v1
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	appLog := logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	appLog.Info().Str("port", cfg.Port).Msg("Starting inquiry service")
	gin.SetMode(cfg.GinMode)

	loc, err := time.LoadLocation(cfg.SiteTimezone)
	if err != nil {
		appLog.Warn().Err(err).Str("timezone", cfg.SiteTimezone).Msg("Unknown timezone, using local time")
		loc = time.Local
	}

	// 3. Setup Redis (optional)
	var redisClient *goredis.Client
	startCtx, cancelStart := context.WithTimeout(context.Background(), 10*time.Second)
	redisClient, err = redis.Connect(startCtx, redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword})
	cancelStart()
	switch {
	case errors.Is(err, redis.ErrNotConfigured):
		redisClient = nil
	case err != nil:
		appLog.Warn().Err(err).Msg("Redis unavailable, using in-memory token store and rate limits")
		redisClient = nil
	default:
		appLog.Info().Msg("Redis connected")
		defer redisClient.Close()
	}

	// 4. Setup Token Store
	var store token.Store
	switch {
	case cfg.TokenMode == "presence":
		store = token.PresenceStore{}
	case redisClient != nil:
		store = token.NewRedisStore(redisClient)
	default:
		store = token.NewMemoryStore()
	}

	// 5. Setup Email Service
	var sender email.Sender
	if cfg.MailDriver == "log" {
		sender = email.NewLogSender(appLog)
	} else {
		smtpSender := email.NewSMTPSender(email.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
		})
		if !smtpSender.IsConfigured() {
			appLog.Warn().Msg("Email service not fully configured - inquiries will fail")
		}
		sender = smtpSender
	}

	staffTo, err := email.ParseAddressList(cfg.InquiryMailTo)
	if err != nil {
		appLog.Fatal().Err(err).Msg("Invalid INQUIRY_MAIL_TO")
	}
	staffCc, err := email.ParseAddressList(cfg.InquiryMailCc)
	if err != nil {
		appLog.Fatal().Err(err).Msg("Invalid INQUIRY_MAIL_CC")
	}

	// 6. Setup UseCases
	inquiryUC := usecase.NewInquiryUsecase(sender, validation.New(), usecase.InquiryMailConfig{
		SiteName:       cfg.SiteName,
		CompanyAddress: cfg.CompanyAddress,
		CompanyTel:     cfg.CompanyTel,
		From:           email.Address{Name: cfg.MailFromName, Email: cfg.MailFromAddress},
		StaffTo:        staffTo,
		StaffCc:        staffCc,
		SendTimeout:    cfg.MailSendTimeout,
		Location:       loc,
	}, appLog)
	tokenUC := usecase.NewTokenUsecase(store, cfg.TokenTTL)

	templates, err := web.Templates()
	if err != nil {
		appLog.Fatal().Err(err).Msg("Failed to parse page templates")
	}

	// 7. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		InquiryUC: inquiryUC,
		TokenUC:   tokenUC,
		Config:    cfg,
		Logger:    appLog,
		Redis:     redisClient,
		Templates: templates,
		Location:  loc,
	})

	// 8. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Error().Err(err).Msg("Listen failed")
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info().Msg("Shutting down server...")

	// In-flight submissions may still be waiting on the mail relay
	ctx, cancel := context.WithTimeout(context.Background(), cfg.MailSendTimeout*2+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLog.Error().Err(err).Msg("Server forced to shutdown")
	}

	appLog.Info().Msg("Server exiting")
}
