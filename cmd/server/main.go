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

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hanifmaliki/shopcore/config"
	"github.com/hanifmaliki/shopcore/pkg/broker"
	"github.com/hanifmaliki/shopcore/pkg/cache"
	"github.com/hanifmaliki/shopcore/pkg/database/postgres"
	"github.com/hanifmaliki/shopcore/pkg/logger"
	"github.com/hanifmaliki/shopcore/pkg/metrics"

	cartRepoPkg "github.com/hanifmaliki/shopcore/internal/cart/repository"

	invRepoPkg "github.com/hanifmaliki/shopcore/internal/inventory/repository"
	invUCPkg "github.com/hanifmaliki/shopcore/internal/inventory/usecase"

	orderRepoPkg "github.com/hanifmaliki/shopcore/internal/order/repository"
	orderUCPkg "github.com/hanifmaliki/shopcore/internal/order/usecase"

	"github.com/hanifmaliki/shopcore/internal/payment"
	payHandlerPkg "github.com/hanifmaliki/shopcore/internal/payment/handler"
	payRepoPkg "github.com/hanifmaliki/shopcore/internal/payment/repository"
	payUCPkg "github.com/hanifmaliki/shopcore/internal/payment/usecase"

	"github.com/hanifmaliki/shopcore/internal/shipping"
	voucherRepoPkg "github.com/hanifmaliki/shopcore/internal/voucher/repository"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	appLogger, err := logger.NewZapLogger(&logger.ZapLoggerConfig{
		IsDevelopment:     cfg.Server.AppEnv == "dev",
		Level:             cfg.Logger.Level,
		Encoding:          cfg.Logger.Encoding,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	})
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer appLogger.Sync()

	db, err := postgres.NewPsqlDB(&cfg.Postgres)
	if err != nil {
		appLogger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient := cache.NewRedisClient(&cfg.Redis)
	defer redisClient.Close()

	producer := broker.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer producer.Close()

	// Repositories
	invRepo := invRepoPkg.NewPGRepository(db)
	cartRepo := cartRepoPkg.NewPGRepository(db)
	voucherRepo := voucherRepoPkg.NewPGRepository(db)
	orderRepo := orderRepoPkg.NewPGRepository(db)
	payLogRepo := payRepoPkg.NewPGRepository(db)

	// External collaborators
	rateClient := shipping.NewHTTPClient(&cfg.Shipping, appLogger)
	gateway := payment.NewHTTPGateway(&cfg.Payment)

	// Usecases
	invUC := invUCPkg.NewInventoryUseCase(invRepo, redisClient, appLogger)
	orderUC := orderUCPkg.NewOrderUseCase(orderRepo, cartRepo, voucherRepo, invUC, rateClient, gateway, producer, appLogger)
	webhookUC := payUCPkg.NewWebhookUseCase(payLogRepo, orderUC, &cfg.Payment, appLogger)

	webhookHandler := payHandlerPkg.NewWebhookHandler(webhookUC, appLogger)

	mux := http.NewServeMux()
	mux.HandleFunc("/webhooks/payment", webhookHandler.HandleNotification)
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	server := &http.Server{
		Addr:         cfg.Server.HTTPPort,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		appLogger.Info("starting HTTP server", zap.String("addr", cfg.Server.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
