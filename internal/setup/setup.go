// Package setup turns a service config into the environment it runs with.
package setup

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/artifact"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/database"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/harness"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/logging"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/observability"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/segment"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/session"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/srvenv"
)

// DatabaseConfigProvider configures the artifact store. The pipeline is
// loaded from it.
type DatabaseConfigProvider interface {
	DatabaseConfig() *database.Config
}

type SessionConfigProvider interface {
	SessionConfig() *session.Config
}

type ObservabilityConfigProvider interface {
	MetricsNamespaceName() string
}

type HarnessConfigProvider interface {
	HarnessParallelism() int
}

// Setup loads an optional .env file, processes config from the environment
// and builds every component config provides for. Components built before a
// failure are closed.
func Setup(ctx context.Context, config interface{}) (env *srvenv.SrvEnv, err error) {
	logger := logging.FromContext(ctx)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	var opts []srvenv.Option
	defer func() {
		if err != nil {
			_ = srvenv.New(opts...).Close(ctx)
		}
	}()

	if provider, ok := config.(DatabaseConfigProvider); ok {
		logger.Info("configuring artifact store")
		db, err := database.NewFromEnv(ctx, provider.DatabaseConfig())
		if err != nil {
			return nil, fmt.Errorf("unable to open artifact store: %w", err)
		}
		opts = append(opts, srvenv.WithDatabase(db))

		logger.Info("loading pipeline")
		pipeline, err := ProvidePipelineFor(db)(ctx)
		if err != nil {
			return nil, fmt.Errorf("unable to build pipeline: %w", err)
		}
		opts = append(opts, srvenv.WithPipeline(pipeline))
	}

	if provider, ok := config.(SessionConfigProvider); ok {
		logger.Infof("configuring %s session store", provider.SessionConfig().Backend)
		store, err := session.NewFromConfig(ctx, provider.SessionConfig())
		if err != nil {
			return nil, fmt.Errorf("unable to open session store: %w", err)
		}
		opts = append(opts, srvenv.WithSessions(store))
	}

	if provider, ok := config.(ObservabilityConfigProvider); ok {
		logger.Info("configuring metrics exporter")
		exporter, err := observability.NewExporter(provider.MetricsNamespaceName())
		if err != nil {
			return nil, fmt.Errorf("unable to create metrics exporter: %w", err)
		}
		opts = append(opts, srvenv.WithExporter(exporter))
	}

	if provider, ok := config.(HarnessConfigProvider); ok {
		opts = append(opts, srvenv.WithHarness(harness.New(harness.WithParallelism(provider.HarnessParallelism()))))
	}

	return srvenv.New(opts...), nil
}

// ProvidePipelineFor loads the artifact bundle from db and freezes it into
// a pipeline.
func ProvidePipelineFor(db *database.DB) segment.ProvideFn {
	return func(ctx context.Context) (*segment.Pipeline, error) {
		bundle, err := artifact.New(db).Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load artifacts: %w", err)
		}
		return segment.New(bundle)
	}
}
