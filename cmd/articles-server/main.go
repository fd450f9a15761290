package main

import (
	"context"

	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	appkg "github.com/arturoguardor/centribal/internal/app"
)

func main() {
	app.Run(func(ctx context.Context, lg *zap.Logger, m *app.Telemetry) error {
		cfg, err := appkg.LoadArticlesConfig()
		if err != nil {
			return err
		}
		return appkg.RunArticles(ctx, lg, m, cfg)
	})
}
