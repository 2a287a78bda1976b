package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forgewatch/forgewatch/internal/adapters/http/api"
	"github.com/forgewatch/forgewatch/internal/adapters/ingest"
	"github.com/forgewatch/forgewatch/internal/adapters/publish"
	app "github.com/forgewatch/forgewatch/internal/app"
	"github.com/forgewatch/forgewatch/internal/config"
	"github.com/forgewatch/forgewatch/internal/simulate"
	"github.com/forgewatch/forgewatch/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	source, err := buildSource(ctx, cfg)
	if err != nil {
		os.Stderr.WriteString("failed to build stream source: " + err.Error() + "\n")
		return
	}

	svc := app.New(
		app.WithLogger(log),
		app.WithSource(source),
		app.WithDecisionConfig(cfg.DecisionConfig()),
		app.WithHistoryCapacity(cfg.HistoryCapacity),
		app.WithPublishBuffer(cfg.PublishBuffer),
		app.WithTickInterval(time.Duration(cfg.TickIntervalMS)*time.Millisecond),
	)

	// Attach the console consumer before the stream starts so no result
	// is published past it.
	results, err := svc.Subscribe("console")
	if err != nil {
		os.Stderr.WriteString("failed to subscribe console consumer: " + err.Error() + "\n")
		return
	}
	go consumeResults(ctx, results, log)

	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// HTTP mux and routes.
	mux := http.NewServeMux()
	api.NewServer(svc).Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// The read surface stays up after the stream drains so history and
	// decisions remain queryable; only a signal ends the process.
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// buildSource selects the stream source: a prepared file when configured,
// a seeded synthetic stream otherwise.
func buildSource(ctx context.Context, cfg *config.Config) (ingest.Source, error) {
	if cfg.StreamCSV != "" {
		return ingest.NewCSVSource(cfg.StreamCSV)
	}
	return simulate.New().Source(ctx, cfg.SyntheticUnits), nil
}

// consumeResults drains published results and logs each decision.
func consumeResults(ctx context.Context, results <-chan publish.Result, log logger.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case r, ok := <-results:
			if !ok {
				return
			}
			log.Info(ctx, "decision",
				logger.Uint64("unit_id", r.Decision.UnitID),
				logger.String("action", string(r.Decision.Action)),
				logger.Int("priority", r.Decision.Priority),
				logger.Float64("expected_cost", r.Decision.ExpectedCost),
				logger.Float64("failure_prob", r.Outputs.FailureProb),
				logger.Float64("rul_minutes", r.Outputs.RULMinutes))
		}
	}
}
