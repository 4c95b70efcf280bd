package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fishmart-be/internal/auth"
	"fishmart-be/internal/config"
	"fishmart-be/internal/dashboard"
	"fishmart-be/internal/db"
	"fishmart-be/internal/logger"
	"fishmart-be/internal/metrics"
	"fishmart-be/internal/middleware"
	"fishmart-be/internal/order"
	"fishmart-be/internal/product"
	"fishmart-be/internal/shop"
	"fishmart-be/internal/transport"
	"fishmart-be/internal/user"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	initDBFunc      = db.InitDB
	startServerFunc = startServer
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.AppEnv, cfg.LogLevel); err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return auth.ErrMissingSecret
		}
		logger.L().Warn("JWT_SECRET is empty; every token will be rejected")
	}

	database := initDBFunc(cfg)
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := newServer(ctx, cfg, database)

	logger.L().Info("server starting",
		zap.String("port", cfg.AppPort),
		zap.String("env", cfg.AppEnv),
		zap.String("checkout_mode", cfg.CheckoutMode),
	)
	return startServerFunc(ctx, ":"+cfg.AppPort, handler)
}

func checkoutMode(cfg *config.Config) order.CheckoutMode {
	if cfg.CheckoutMode == config.CheckoutAtomic {
		return order.CheckoutAtomic
	}
	return order.CheckoutSequential
}

// newServer wires repositories, services and middleware into one handler.
// Background work started here stops when ctx is done.
func newServer(ctx context.Context, cfg *config.Config, database *sql.DB) http.Handler {
	// prices go out as JSON numbers, as clients expect
	decimal.MarshalJSONWithoutQuotes = true

	counters := &metrics.Checkout{}

	productSvc := product.NewService(product.NewRepository(database))
	shopSvc := shop.NewService(shop.NewRepository(database))
	userSvc := user.NewService(user.NewRepository(database))
	orderSvc := order.NewService(
		order.NewRepository(database),
		productSvc,
		userSvc,
		checkoutMode(cfg),
		counters,
	)
	dashSvc := dashboard.NewService(productSvc, orderSvc, shopSvc, counters)

	tokens := auth.NewTokenManager(cfg.JWTSecret, auth.DefaultTokenTTL)
	limiter := middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)
	go limiter.Cleanup(ctx, time.Minute)

	h := transport.NewHandler(productSvc, shopSvc, orderSvc, userSvc, dashSvc)
	router := transport.NewRouter(h,
		middleware.AuthMiddleware(tokens, userSvc),
		limiter.Middleware,
	)

	return logger.RequestID(
		middleware.LoggingMiddleware(
			middleware.CORS(cfg.CORSOrigin)(router),
		),
	)
}

// startServer serves until ctx is done, then drains in-flight requests.
func startServer(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
