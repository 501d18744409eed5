package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	_ "cardpolicy/docs" // swagger docs

	"cardpolicy/internal/cache"
	"cardpolicy/internal/config"
	"cardpolicy/internal/db"
	"cardpolicy/internal/handler"
	"cardpolicy/internal/logger"
	"cardpolicy/internal/network"
	"cardpolicy/internal/repository"
	"cardpolicy/internal/router"
	"cardpolicy/internal/service"
	"cardpolicy/internal/tracing"
)

// @title Card Policy API
// @version 1.0
// @description Programmable spending policy for virtual cards, enforced on real-time authorization.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if _, err := tracing.InitTracing(tracing.Config{
		Enabled:     cfg.TracingEnabled,
		Endpoint:    cfg.TracingEndpoint,
		Environment: cfg.Environment,
	}); err != nil {
		zlog.Fatal("tracing init", zap.Error(err))
	}

	loc, err := cfg.Location()
	if err != nil {
		zlog.Fatal("rules timezone", zap.Error(err))
	}
	zlog.Info("evaluating time rules and spend windows", zap.String("timezone", loc.String()))

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		zlog.Fatal("database init", zap.Error(err))
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		zlog.Fatal("database handle", zap.Error(err))
	}

	if cfg.ResetDB {
		zlog.Warn("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			zlog.Fatal("reset database", zap.Error(err))
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		zlog.Fatal("migrate", zap.Error(err))
	}

	cacheClient := cache.New(cache.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
		Prefix:   "cardpolicy:",
	})
	defer func() { _ = cacheClient.Close() }()

	// Initialize repositories
	cardRepo := repository.NewCardRepository(gormDB)
	ruleRepo := repository.NewRuleRepository(gormDB)
	decisionRepo := repository.NewDecisionRepository(gormDB)

	// Initialize the card network collaborator
	stripeClient := network.NewStripeClient(cfg.StripeSecretKey, nil)
	webhookParser := network.NewWebhookParser(cfg.StripeWebhookSecret)

	// Initialize services
	lookup := service.NewCardLookup(cardRepo, ruleRepo, cacheClient, cfg.CardCacheTTL, zlog)
	spend := service.NewSpendAggregator(decisionRepo, loc, time.Now)
	evaluator := service.NewRuleEvaluator(spend, loc, time.Now)
	recorder := service.NewDecisionRecorder(decisionRepo, zlog)
	authService := service.NewAuthorizationService(lookup, evaluator, recorder, stripeClient, zlog)
	cardService := service.NewCardService(cardRepo, decisionRepo, spend, stripeClient, lookup)
	ruleService := service.NewRuleService(cardRepo, ruleRepo)

	e := echo.New()
	e.HideBanner = true

	// Register routes
	router.Register(e, cfg, zlog, router.Handlers{
		Webhook: handler.NewWebhookHandler(webhookParser, authService, zlog),
		Card:    handler.NewCardHandler(cardService),
		Rule:    handler.NewRuleHandler(ruleService),
		Health:  handler.NewHealthHandler(sqlDB, cacheClient.Ping, zlog),
	})

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		zlog.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(ctx); err != nil {
			zlog.Error("server shutdown", zap.Error(err))
		}
		if err := tracing.Shutdown(ctx); err != nil {
			zlog.Error("tracing shutdown", zap.Error(err))
		}
	}()

	addr := ":" + cfg.ServerPort
	zlog.Info("starting server", zap.String("addr", addr))
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		zlog.Fatal("server start", zap.Error(err))
	}
}
