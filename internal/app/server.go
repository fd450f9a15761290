package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/arturoguardor/centribal/pkg/health"
	"github.com/arturoguardor/centribal/pkg/httpmiddleware"
)

// serverParams bundles what both services need to expose their HTTP surface.
type serverParams struct {
	name      string
	addr      string
	api       http.Handler
	health    *health.Health
	rateLimit RateLimitConfig
	cors      CORSConfig
	graceful  GracefulConfig
}

// serve mounts the probe endpoints and the instrumented API handler on one
// http.Server, runs it, and drains on context cancellation.
func serve(ctx context.Context, lg *zap.Logger, m *app.Telemetry, p serverParams) error {
	api := otelhttp.NewHandler(p.api, p.name,
		otelhttp.WithTracerProvider(m.TracerProvider()),
		otelhttp.WithMeterProvider(m.MeterProvider()),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", p.health.LiveEndpoint)
	mux.HandleFunc("/readyz", p.health.ReadyEndpoint)
	mux.Handle("/", api)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              p.addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     p.cors.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization"},
				AllowCredentials: p.cors.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimit(ctx, httpmiddleware.RateLimitConfig{
				Max:    p.rateLimit.Max,
				Window: p.rateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: stop advertising readiness, wait for load balancers
	// to notice, then drain in-flight requests.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		p.health.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", p.graceful.ReadinessDelay))
		time.Sleep(p.graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), p.graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", p.graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		p.health.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", p.addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
