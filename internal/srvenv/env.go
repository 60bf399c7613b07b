package srvenv

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/database"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/harness"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/observability"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/segment"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/session"
)

type Option func(*SrvEnv) *SrvEnv

func New(opts ...Option) *SrvEnv {
	env := &SrvEnv{}
	for _, f := range opts {
		env = f(env)
	}

	return env
}

type SrvEnv struct {
	database *database.DB
	pipeline *segment.Pipeline
	sessions session.Store
	exporter *observability.Exporter
	harness  *harness.Harness
}

func (s *SrvEnv) Database() *database.DB {
	return s.database
}

func (s *SrvEnv) Pipeline() *segment.Pipeline {
	return s.pipeline
}

func (s *SrvEnv) Sessions() session.Store {
	return s.sessions
}

func (s *SrvEnv) Exporter() *observability.Exporter {
	return s.exporter
}

func (s *SrvEnv) Harness() *harness.Harness {
	return s.harness
}

func WithDatabase(db *database.DB) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.database = db
		return s
	}
}

func WithPipeline(p *segment.Pipeline) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.pipeline = p
		return s
	}
}

func WithSessions(store session.Store) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.sessions = store
		return s
	}
}

func WithExporter(e *observability.Exporter) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.exporter = e
		return s
	}
}

func WithHarness(h *harness.Harness) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.harness = h
		return s
	}
}

// Close releases everything the environment holds. The pipeline is read
// only and needs no cleanup.
func (s *SrvEnv) Close(ctx context.Context) error {
	if s == nil {
		return nil
	}

	var err error
	if s.exporter != nil {
		s.exporter.Close()
	}
	if s.sessions != nil {
		if cerr := s.sessions.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("close session store: %w", cerr))
		}
	}
	if s.database != nil {
		err = multierr.Append(err, s.database.Close(ctx))
	}
	return err
}
