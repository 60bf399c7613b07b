package config

import (
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/compare"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/database"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/insights"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/predict"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/session"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/setup"
)

var (
	_ setup.DatabaseConfigProvider      = (*Config)(nil)
	_ setup.SessionConfigProvider       = (*Config)(nil)
	_ setup.ObservabilityConfigProvider = (*Config)(nil)
	_ setup.HarnessConfigProvider       = (*Config)(nil)
)

// Config is the environment of segment-srv.
type Config struct {
	SrvAddr          string `envconfig:"SEGMENT_ADDR" default:":8787"`
	GRPCAddr         string `envconfig:"SEGMENT_GRPC_ADDR" default:":8788"`
	MaxConns         int    `envconfig:"SEGMENT_MAX_CONNS" default:"512"`
	MetricsNamespace string `envconfig:"SEGMENT_METRICS_NAMESPACE" default:"segment"`
	Database         database.Config
	Session          session.Config
	Predict          predict.Config
	Insights         insights.Config
	Compare          compare.Config
}

func (c *Config) DatabaseConfig() *database.Config {
	return &c.Database
}

func (c *Config) SessionConfig() *session.Config {
	return &c.Session
}

func (c *Config) MetricsNamespaceName() string {
	return c.MetricsNamespace
}

func (c *Config) HarnessParallelism() int {
	return c.Compare.Parallelism
}
