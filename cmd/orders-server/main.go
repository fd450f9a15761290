package main

import (
	"context"

	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	appkg "github.com/arturoguardor/centribal/internal/app"
)

func main() {
	app.Run(func(ctx context.Context, lg *zap.Logger, m *app.Telemetry) error {
		cfg, err := appkg.LoadOrdersConfig()
		if err != nil {
			return err
		}
		return appkg.RunOrders(ctx, lg, m, cfg)
	})
}
