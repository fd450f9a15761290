package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	"github.com/arturoguardor/centribal/db"
	"github.com/arturoguardor/centribal/internal/auth"
	"github.com/arturoguardor/centribal/internal/handler"
	"github.com/arturoguardor/centribal/internal/storage/postgres"
	"github.com/arturoguardor/centribal/pkg/health"
)

// RunArticles creates all articles service dependencies, starts the HTTP
// server, and handles graceful shutdown. It is the single wiring point for
// the service.
func RunArticles(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *ArticlesConfig) error {
	lg.Info("Initializing articles service", zap.String("addr", cfg.Addr))

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool, db.ArticlesSchema); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	healthSvc := health.New()
	healthSvc.AddReadinessCheck("postgres", 5*time.Second, func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	issuer := auth.NewIssuer([]byte(cfg.Auth.Secret), cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	articles := postgres.NewArticleRepository(pool)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.POST("/api/token/", auth.TokenHandler(issuer, auth.Credentials{
		Username: cfg.Auth.Username,
		Password: cfg.Auth.Password,
	}))
	engine.POST("/api/token/refresh/", auth.RefreshHandler(issuer))

	protected := engine.Group("/", auth.RequireAuth(issuer))
	handler.NewArticleHandler(articles).Register(protected)

	return serve(ctx, lg, m, serverParams{
		name:      "articles-api",
		addr:      cfg.Addr,
		api:       engine,
		health:    healthSvc,
		rateLimit: cfg.RateLimit,
		cors:      cfg.CORS,
		graceful:  cfg.Graceful,
	})
}
