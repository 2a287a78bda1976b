package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/forgewatch/forgewatch/internal/simulate"
	"github.com/forgewatch/forgewatch/pkg/logger"
)

// Default configuration constants.
const (
	defaultUnits   = 1000
	defaultSeed    = 1
	defaultRecent  = 50
	defaultTimeout = 2 * time.Minute
)

func main() {
	var (
		units  = flag.Int("units", defaultUnits, "Number of synthetic units to generate")
		seed   = flag.Int64("seed", defaultSeed, "Generator seed; equal seeds give equal streams")
		output = flag.String("output", "stream.csv", "Output file for the generated stream")
		url    = flag.String("url", "", "Base URL of a running service to verify (skipped when empty)")
		recent = flag.Int("recent", defaultRecent, "Number of recent history entries to verify")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get().Named("streamgen")

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	gen := simulate.New(simulate.WithSeed(*seed))
	records := gen.Generate(ctx, *units)
	if err := simulate.WriteCSVFile(*output, records); err != nil {
		log.Error(ctx, "failed to write stream file", logger.Error(err))
		os.Exit(1)
	}
	log.Info(ctx, "stream file written",
		logger.String("run_id", gen.RunID()),
		logger.String("output", *output),
		logger.Int("units", len(records)))

	if *url == "" {
		return
	}

	// Optional verification against a running pipeline.
	verifier := simulate.NewVerifier(*url)
	if err := verifier.CheckHealth(ctx); err != nil {
		log.Error(ctx, "service health check failed", logger.Error(err))
		os.Exit(1)
	}
	entries, err := verifier.FetchRecent(ctx, *recent)
	if err != nil {
		log.Error(ctx, "failed to fetch recent history", logger.Error(err))
		os.Exit(1)
	}
	if err := verifier.VerifyRecent(ctx, entries); err != nil {
		log.Error(ctx, "history verification failed", logger.Error(err))
		os.Exit(1)
	}
	log.Info(ctx, "verification completed", logger.Int("entries", len(entries)))
}
