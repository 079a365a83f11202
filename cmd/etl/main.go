package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/water-quality-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/water-quality-etl/internal/adapter/wqp"
	"github.com/couchcryptid/water-quality-etl/internal/config"
	"github.com/couchcryptid/water-quality-etl/internal/observability"
	"github.com/couchcryptid/water-quality-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := wqp.NewClient(cfg.BaseURL, cfg.Timeout, logger)
	exporter := csvfile.NewWriter(logger)

	p := pipeline.New(client, exporter, logger, metrics, pipeline.Options{
		Sites:                    cfg.Sites,
		LongCSVPath:              cfg.LongCSVPath,
		WideCSVPath:              cfg.WideCSVPath,
		MaxSampleDepth:           cfg.MaxSampleDepth,
		SubstituteDetectionLimit: cfg.SubstituteDetectionLimit,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := p.Run(ctx)
	if err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}

	logger.Info("done",
		"observations", summary.ObservationsFetched,
		"stations", summary.SitesFetched,
		"excluded", summary.ExcludedUnrecognized+summary.ExcludedUnmapped,
		"non_numeric", summary.NonNumericValues,
		"aggregates", summary.Aggregates,
		"wide_records", summary.WideRecords,
		"long_csv", cfg.LongCSVPath,
		"wide_csv", cfg.WideCSVPath,
	)
}
