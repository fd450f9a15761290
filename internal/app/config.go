package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// AuthConfig controls bearer token issuance and validation for a service.
type AuthConfig struct {
	Secret     string        `usage:"HMAC secret for bearer tokens" flag:"auth-secret"`
	Username   string        `default:"service" usage:"Service account username"`
	Password   string        `usage:"Service account password"`
	AccessTTL  time.Duration `default:"5m"  usage:"Access token lifetime" flag:"access-ttl"`
	RefreshTTL time.Duration `default:"24h" usage:"Refresh token lifetime" flag:"refresh-ttl"`
}

// RateLimitConfig controls the per-client fixed window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// UpstreamConfig points the orders service at the articles service.
type UpstreamConfig struct {
	URL      string        `usage:"Base URL of the articles service" flag:"articles-url"`
	TokenURL string        `default:"" usage:"Token endpoint, defaults to <articles-url>/api/token/" flag:"articles-token-url"`
	Username string        `usage:"Credentials for the articles service token endpoint" flag:"articles-username"`
	Password string        `usage:"Credentials for the articles service token endpoint" flag:"articles-password"`
	Timeout  time.Duration `default:"0s" usage:"Per-call timeout for upstream requests, 0 disables" flag:"articles-timeout"`
}

// ArticlesConfig holds the articles service configuration, loadable from
// environment variables (ARTICLES_ prefix), flags, or YAML config files.
type ArticlesConfig struct {
	Addr        string `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL string `usage:"PostgreSQL connection URL (ARTICLES_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	Auth        AuthConfig
	RateLimit   RateLimitConfig
	CORS        CORSConfig
	Graceful    GracefulConfig
}

// OrdersConfig holds the orders service configuration, loadable from
// environment variables (ORDERS_ prefix), flags, or YAML config files.
type OrdersConfig struct {
	Addr        string `default:"0.0.0.0:8081" usage:"API server listen address"`
	DatabaseURL string `usage:"PostgreSQL connection URL (ORDERS_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	Auth        AuthConfig
	Articles    UpstreamConfig
	RateLimit   RateLimitConfig
	CORS        CORSConfig
	Graceful    GracefulConfig
}

func load(cfg any, envPrefix string, files ...string) error {
	loader := aconfig.LoaderFor(cfg, aconfig.Config{
		EnvPrefix: envPrefix,
		Files:     files,
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	return loader.Load()
}

// LoadArticlesConfig loads the articles service configuration and applies
// platform defaults.
func LoadArticlesConfig() (*ArticlesConfig, error) {
	var cfg ArticlesConfig
	if err := load(&cfg, "ARTICLES", "articles.yaml", "/etc/centribal/articles.yaml"); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.DatabaseURL = platformDatabaseURL(cfg.DatabaseURL)
	cfg.Addr = platformAddr(cfg.Addr, "0.0.0.0:8080")

	if cfg.DatabaseURL == "" {
		return nil, errors.New("database URL is required: set ARTICLES_DATABASE_URL or DATABASE_URL")
	}
	if cfg.Auth.Secret == "" {
		return nil, errors.New("auth secret is required: set ARTICLES_AUTH_SECRET")
	}
	if cfg.Auth.Password == "" {
		return nil, errors.New("auth password is required: set ARTICLES_AUTH_PASSWORD")
	}
	return &cfg, nil
}

// LoadOrdersConfig loads the orders service configuration and applies
// platform defaults.
func LoadOrdersConfig() (*OrdersConfig, error) {
	var cfg OrdersConfig
	if err := load(&cfg, "ORDERS", "orders.yaml", "/etc/centribal/orders.yaml"); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.DatabaseURL = platformDatabaseURL(cfg.DatabaseURL)
	cfg.Addr = platformAddr(cfg.Addr, "0.0.0.0:8081")

	if cfg.DatabaseURL == "" {
		return nil, errors.New("database URL is required: set ORDERS_DATABASE_URL or DATABASE_URL")
	}
	if cfg.Auth.Secret == "" {
		return nil, errors.New("auth secret is required: set ORDERS_AUTH_SECRET")
	}
	if cfg.Auth.Password == "" {
		return nil, errors.New("auth password is required: set ORDERS_AUTH_PASSWORD")
	}
	if cfg.Articles.URL == "" {
		return nil, errors.New("articles service URL is required: set ORDERS_ARTICLES_URL")
	}
	return &cfg, nil
}

// platformDatabaseURL maps the standard DATABASE_URL variable used by hosting
// platforms to the service configuration.
func platformDatabaseURL(current string) string {
	if current != "" {
		return current
	}
	return os.Getenv("DATABASE_URL")
}

// platformAddr maps the standard PORT variable to the listen address when the
// address was left at its default.
func platformAddr(current, def string) string {
	if port := os.Getenv("PORT"); port != "" && current == def {
		return "0.0.0.0:" + port
	}
	return current
}
