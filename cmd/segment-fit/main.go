package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/artifact"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/database"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/dataset"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/fit"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/logging"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/segment"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/shutdown"
)

type Config struct {
	Data        string        `env:"SEGMENT_FIT_DATA,default=data/marketing_campaign_final.csv"`
	Comma       string        `env:"SEGMENT_FIT_COMMA,default=,"`
	Segments    string        `env:"SEGMENT_FIT_SEGMENTS"`
	Output      string        `env:"SEGMENT_ARTIFACTS_FILE,default=artifacts.db"`
	OpenTimeout time.Duration `env:"SEGMENT_ARTIFACTS_OPEN_TIMEOUT,default=5s"`
}

func main() {
	ctx, done := shutdown.New()
	defer done()

	logger := logging.FromContext(ctx)
	if err := run(ctx, os.Args[1:]); err != nil {
		done()
		logger.Fatal(err)
	}
}

func run(ctx context.Context, args []string) error {
	logger := logging.FromContext(ctx)

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return fmt.Errorf("process env: %w", err)
	}

	fs := flag.NewFlagSet("segment-fit", flag.ContinueOnError)
	fs.StringVar(&cfg.Data, "data", cfg.Data, "customer CSV to train on")
	fs.StringVar(&cfg.Comma, "comma", cfg.Comma, "CSV field separator")
	fs.StringVar(&cfg.Segments, "segments", cfg.Segments, "TOML segments file, built-in segments when empty")
	fs.StringVar(&cfg.Output, "out", cfg.Output, "artifact store to write")
	if err := fs.Parse(args); err != nil {
		return err
	}

	comma := []rune(cfg.Comma)
	if len(comma) != 1 {
		return fmt.Errorf("comma must be a single character, got %q", cfg.Comma)
	}

	fitCfg := fit.DefaultConfig()
	if cfg.Segments != "" {
		loaded, err := fit.LoadConfig(cfg.Segments)
		if err != nil {
			return fmt.Errorf("load segments: %w", err)
		}
		fitCfg = loaded
	}

	f, err := os.Open(cfg.Data)
	if err != nil {
		return fmt.Errorf("open customers: %w", err)
	}
	customers, err := dataset.ReadCustomers(f, comma[0])
	f.Close()
	if err != nil {
		return fmt.Errorf("read customers %s: %w", cfg.Data, err)
	}
	logger.Infof("fitting %d segments on %d customers", len(fitCfg.Segments), len(customers))

	bundle, err := fit.Fit(ctx, fitCfg, customers)
	if err != nil {
		return fmt.Errorf("fit: %w", err)
	}
	// Refuse to write what the server would refuse to load.
	if _, err := segment.New(bundle); err != nil {
		return fmt.Errorf("fitted bundle: %w", err)
	}

	db, err := database.NewFromEnv(ctx, &database.Config{
		FileName:    cfg.Output,
		OpenTimeout: cfg.OpenTimeout,
	})
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	if err := artifact.New(db).Save(ctx, bundle); err != nil {
		return fmt.Errorf("save artifacts: %w", err)
	}
	logger.Infof("wrote artifacts %s to %s", bundle.Manifest.ID, cfg.Output)
	return nil
}
