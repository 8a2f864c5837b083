package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appfinance "github.com/Ethics03/shiv-odoo/internal/application/finance"
	"github.com/Ethics03/shiv-odoo/internal/domain/shared"
	"github.com/Ethics03/shiv-odoo/internal/infrastructure/cache"
	"github.com/Ethics03/shiv-odoo/internal/infrastructure/config"
	"github.com/Ethics03/shiv-odoo/internal/infrastructure/logger"
	"github.com/Ethics03/shiv-odoo/internal/infrastructure/payment"
	"github.com/Ethics03/shiv-odoo/internal/infrastructure/persistence"
	"github.com/Ethics03/shiv-odoo/internal/interfaces/http/handler"
	"github.com/Ethics03/shiv-odoo/internal/interfaces/http/middleware"
	"github.com/Ethics03/shiv-odoo/internal/interfaces/http/router"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	log.Info("starting shiv accounts backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.App.Port))

	db, err := persistence.NewDatabase(cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()

	repos := persistence.NewRepositorySet(db.DB)
	uow := persistence.NewUnitOfWork(db.DB)

	idempotency := newIdempotencyStore(cfg, log)
	defer idempotency.Close()

	gateway := payment.NewRazorpayGateway(payment.Config{
		BaseURL:   cfg.Gateway.BaseURL,
		KeyID:     cfg.Gateway.KeyID,
		KeySecret: cfg.Gateway.KeySecret,
		Timeout:   cfg.Gateway.Timeout,
	}, log)

	registry := appfinance.NewRegistryService(repos, log)
	ledger := appfinance.NewLedgerService(uow, log)
	settlements := appfinance.NewSettlementService(uow, appfinance.SettlementSettings{
		ProRataAllocation: cfg.Settlement.ProRataAllocation,
	}, log)
	broker := appfinance.NewOrderBrokerService(gateway, repos, uow, cfg.Gateway.Currency, log)
	callback := appfinance.NewCallbackService(gateway, repos, settlements, idempotency,
		cfg.Settlement.IdempotencyTTL, log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(
		logger.GinLogger(log),
		logger.GinRecovery(log),
		middleware.RequestID(),
		middleware.Actor(),
	)

	router.NewRouter(engine).
		Register(handler.NewSystemHandler()).
		Register(handler.NewAccountHandler(registry)).
		Register(handler.NewLedgerHandler(ledger)).
		Register(handler.NewPaymentHandler(broker, callback)).
		Setup()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}

// newIdempotencyStore prefers redis when enabled so duplicate callback
// suppression survives restarts, falling back to the in-process store.
func newIdempotencyStore(cfg *config.Config, log *zap.Logger) shared.IdempotencyStore {
	if cfg.Redis.Enabled {
		store, err := cache.NewRedisIdempotencyStore(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn("redis unavailable, using in-memory idempotency store", zap.Error(err))
		} else {
			log.Info("redis idempotency store connected", zap.String("addr", cfg.Redis.Addr()))
			return store
		}
	}
	return cache.NewInMemoryIdempotencyStore()
}
