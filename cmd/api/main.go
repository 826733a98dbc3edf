package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storefront-core/internal/analytics"
	"storefront-core/internal/checkout"
	"storefront-core/internal/config"
	"storefront-core/internal/db"
	"storefront-core/internal/events"
	"storefront-core/internal/httpserver"
	"storefront-core/internal/payment"
	"storefront-core/internal/pricing"
	customerrepo "storefront-core/internal/repository/customer"
	devicecartrepo "storefront-core/internal/repository/devicecart"
	orderrepo "storefront-core/internal/repository/order"
	usercartrepo "storefront-core/internal/repository/usercart"
	identitysvc "storefront-core/internal/service/identity"
	"storefront-core/internal/session"
)

func main() {
	cfg := config.FromEnv()
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	bus := events.NewBus(logger)
	defer bus.Close()

	localStore := devicecartrepo.NewRedis(redisClient)
	remoteStore := usercartrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool)
	customerRepo := customerrepo.NewPostgres(dbpool)

	bridge := session.NewBridge(localStore, remoteStore, logger)
	if err := bridge.Run(ctx, bus); err != nil {
		logger.Fatal("start persistence bridge", zap.Error(err))
	}

	tracker := analytics.NewTracker(logger)
	if err := tracker.Run(ctx, bus); err != nil {
		logger.Fatal("start analytics tracker", zap.Error(err))
	}

	identityService := identitysvc.New(customerRepo)
	sessions := session.NewManager(bridge, bus, logger)
	sessions.Attach(identityService)

	provider, err := buildPaymentProvider(cfg)
	if err != nil {
		logger.Fatal("init payment provider", zap.Error(err))
	}

	orchestrator := checkout.New(orderRepo, provider, bridge, bus, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Identity: identityService,
		Sessions: sessions,
		Checkout: orchestrator,
		Orders:   orderRepo,
		Promos:   pricing.DefaultPromoTable(),
	})
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting http server", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}

func buildPaymentProvider(cfg config.Config) (payment.Provider, error) {
	switch cfg.PaymentProvider {
	case "stripe":
		return payment.NewStripeProvider(cfg.StripeAPIKey)
	default:
		return payment.NewSimulated(), nil
	}
}
