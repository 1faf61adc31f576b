package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/verdant-oils/storefront-backend/api/routes"
	"github.com/verdant-oils/storefront-backend/internal/cart"
	"github.com/verdant-oils/storefront-backend/internal/catalog"
	"github.com/verdant-oils/storefront-backend/internal/customers"
	"github.com/verdant-oils/storefront-backend/internal/orders"
	"github.com/verdant-oils/storefront-backend/internal/otp"
	"github.com/verdant-oils/storefront-backend/internal/payments"
	pkgauth "github.com/verdant-oils/storefront-backend/pkg/auth"
	"github.com/verdant-oils/storefront-backend/pkg/config"
	"github.com/verdant-oils/storefront-backend/pkg/logger"
	"github.com/verdant-oils/storefront-backend/pkg/metrics"
	"github.com/verdant-oils/storefront-backend/pkg/razorpay"
	"github.com/verdant-oils/storefront-backend/pkg/redis"
	"github.com/verdant-oils/storefront-backend/pkg/woocommerce"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	commerceClient, err := woocommerce.NewClient(cfg.Commerce)
	if err != nil {
		logg.Error(context.Background(), "failed to create commerce client", err)
		os.Exit(1)
	}

	razorpayClient, err := razorpay.NewClient(context.Background(), cfg.Razorpay, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create razorpay client", err)
		os.Exit(1)
	}

	sessions, err := pkgauth.NewSessionManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	cartStore, err := cart.NewSessionStore(redisClient, cfg.Checkout.CartTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}

	catalogSvc, err := catalog.NewService(commerceClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	customersSvc, err := customers.NewService(commerceClient, logg, cfg.Checkout.GuestEmailDomain)
	if err != nil {
		logg.Error(context.Background(), "failed to create customers service", err)
		os.Exit(1)
	}

	otpSvc, err := otp.NewService(redisClient, logg, cfg.OTP.TTL, cfg.OTP.CodeLength)
	if err != nil {
		logg.Error(context.Background(), "failed to create otp service", err)
		os.Exit(1)
	}

	ordersSvc, err := orders.NewService(commerceClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	paymentsSvc, err := payments.NewService(commerceClient, razorpayClient, logg, cfg.Checkout)
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":          cfg.App.Env,
		"addr":         addr,
		"gateway_env":  razorpayClient.Environment(),
		"commerce_api": cfg.Commerce.APIVersion,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			Redis:       redisClient,
			Commerce:    commerceClient,
			HTTPMetrics: httpMetrics,
			Sessions:    sessions,
			CartStore:   cartStore,
			Catalog:     catalogSvc,
			Customers:   customersSvc,
			OTP:         otpSvc,
			Orders:      ordersSvc,
			Payments:    paymentsSvc,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
