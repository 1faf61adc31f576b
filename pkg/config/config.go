package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	Redis         RedisConfig
	Commerce      CommerceConfig
	Razorpay      RazorpayConfig
	JWT           JWTConfig
	AuthRateLimit AuthRateLimitConfig
	OTP           OTPConfig
	Checkout      CheckoutConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VERDANT_APP_ENV" required:"true"`
	Port         string `envconfig:"VERDANT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VERDANT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VERDANT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type RedisConfig struct {
	URL          string        `envconfig:"VERDANT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VERDANT_REDIS_ADDR"`
	Password     string        `envconfig:"VERDANT_REDIS_PASSWORD"`
	DB           int           `envconfig:"VERDANT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VERDANT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VERDANT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VERDANT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VERDANT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VERDANT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CommerceConfig holds the WooCommerce REST credentials. Every call shares
// the single configured timeout; there is no per-operation override.
type CommerceConfig struct {
	SiteURL        string        `envconfig:"VERDANT_COMMERCE_SITE_URL" required:"true"`
	ConsumerKey    string        `envconfig:"VERDANT_COMMERCE_CONSUMER_KEY" required:"true"`
	ConsumerSecret string        `envconfig:"VERDANT_COMMERCE_CONSUMER_SECRET" required:"true"`
	APIVersion     string        `envconfig:"VERDANT_COMMERCE_API_VERSION" default:"wc/v3"`
	Timeout        time.Duration `envconfig:"VERDANT_COMMERCE_TIMEOUT" default:"60s"`
}

type RazorpayConfig struct {
	KeyID     string        `envconfig:"VERDANT_RAZORPAY_KEY_ID" required:"true"`
	KeySecret string        `envconfig:"VERDANT_RAZORPAY_KEY_SECRET" required:"true"`
	Env       string        `envconfig:"VERDANT_RAZORPAY_ENV" default:"test"`
	Timeout   time.Duration `envconfig:"VERDANT_RAZORPAY_TIMEOUT" default:"30s"`
}

// Environment returns the normalized Razorpay environment (test/live).
func (r RazorpayConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(r.Env))
	if env == "" {
		return "test"
	}
	return env
}

type JWTConfig struct {
	Secret            string `envconfig:"VERDANT_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"VERDANT_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"VERDANT_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"VERDANT_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"VERDANT_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"VERDANT_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	OTPWindow       time.Duration `envconfig:"VERDANT_AUTH_RATE_LIMIT_OTP_WINDOW" default:"5m"`
	OTPPhoneLimit   int           `envconfig:"VERDANT_AUTH_RATE_LIMIT_OTP_PHONE_LIMIT" default:"3"`
	OTPIPLimit      int           `envconfig:"VERDANT_AUTH_RATE_LIMIT_OTP_IP_LIMIT" default:"20"`
}

type OTPConfig struct {
	TTL        time.Duration `envconfig:"VERDANT_OTP_TTL" default:"5m"`
	CodeLength int           `envconfig:"VERDANT_OTP_CODE_LENGTH" default:"6"`
}

type CheckoutConfig struct {
	Currency           string        `envconfig:"VERDANT_CHECKOUT_CURRENCY" default:"INR"`
	CallbackBaseURL    string        `envconfig:"VERDANT_CHECKOUT_CALLBACK_BASE_URL" required:"true"`
	SuccessRedirectURL string        `envconfig:"VERDANT_CHECKOUT_SUCCESS_URL" required:"true"`
	ErrorRedirectURL   string        `envconfig:"VERDANT_CHECKOUT_ERROR_URL" required:"true"`
	GuestEmailDomain   string        `envconfig:"VERDANT_CHECKOUT_GUEST_EMAIL_DOMAIN" default:"customers.verdantoils.in"`
	CartTTL            time.Duration `envconfig:"VERDANT_CHECKOUT_CART_TTL" default:"720h"`
	AllowCOD           bool          `envconfig:"VERDANT_CHECKOUT_ALLOW_COD" default:"true"`
}
