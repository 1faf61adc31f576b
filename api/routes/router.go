package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/verdant-oils/storefront-backend/api/controllers"
	"github.com/verdant-oils/storefront-backend/api/middleware"
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
	"github.com/verdant-oils/storefront-backend/pkg/redis"
	"github.com/verdant-oils/storefront-backend/pkg/woocommerce"
)

// Deps carries everything the router wires together.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Redis       *redis.Client
	Commerce    *woocommerce.Client
	HTTPMetrics *metrics.HTTPMetrics
	Sessions    *pkgauth.SessionManager
	CartStore   *cart.SessionStore
	Catalog     catalog.Service
	Customers   customers.Service
	OTP         otp.Service
	Orders      orders.Service
	Payments    payments.Service
	MetricsHTTP http.Handler
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, deps.HTTPMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	otpPolicy := middleware.NewAuthRateLimitPolicy(
		"otp",
		cfg.AuthRateLimit.OTPWindow,
		cfg.AuthRateLimit.OTPIPLimit,
		cfg.AuthRateLimit.OTPPhoneLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Redis, deps.Commerce))
	})

	metricsHandler := deps.MetricsHTTP
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", controllers.CatalogProducts(deps.Catalog, logg))
			r.Get("/products/{slug}", controllers.CatalogProductBySlug(deps.Catalog, logg))
			r.Get("/products/{productId}/variations", controllers.CatalogVariations(deps.Catalog, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Post("/quote", controllers.CartQuote(logg))
			r.Get("/{sessionId}", controllers.CartFetch(deps.CartStore, logg))
			r.Put("/{sessionId}", controllers.CartSave(deps.CartStore, logg))
			r.Delete("/{sessionId}", controllers.CartDelete(deps.CartStore, logg))
		})

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
				Post("/google", controllers.AuthGoogle(deps.Customers, deps.Sessions, logg))
			r.With(middleware.AuthRateLimit(otpPolicy, deps.Redis, logg)).
				Post("/otp/send", controllers.AuthOTPSend(deps.OTP, cfg, logg))
			r.With(middleware.AuthRateLimit(otpPolicy, deps.Redis, logg)).
				Post("/otp/verify", controllers.AuthOTPVerify(deps.OTP, deps.Customers, deps.Sessions, logg))
			r.Post("/logout", controllers.AuthLogout(deps.Sessions, cfg.JWT, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(cfg.JWT, deps.Sessions, logg))
			r.Get("/account/orders", controllers.AccountOrders(deps.Customers, logg))
		})

		// Checkout serves guests and logged-in customers alike; identity
		// is attached only when a valid token is presented.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalSession(cfg.JWT, deps.Sessions, logg))
			r.Use(middleware.Idempotency(deps.Redis, logg))
			r.Post("/checkout", controllers.Checkout(deps.Payments, deps.CartStore, cfg, logg))
		})

		r.Post("/payments/razorpay/callback", controllers.RazorpayCallback(deps.Payments, cfg.Checkout, logg))
		r.Post("/orders/track", controllers.TrackOrder(deps.Orders, logg))
	})

	return r
}
