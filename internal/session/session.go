// Package session keeps the last prediction made for each caller.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/segment"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Header carries the caller's session id. Prediction requests without it get
// a fresh id, echoed in the response.
const Header = "X-Session-ID"

var ErrNotFound = errors.New("no prediction for session")

type Config struct {
	Backend       string        `envconfig:"SEGMENT_SESSION_BACKEND" default:"memory"`
	TTL           time.Duration `envconfig:"SEGMENT_SESSION_TTL" default:"24h"`
	RedisAddr     string        `envconfig:"SEGMENT_REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string        `envconfig:"SEGMENT_REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"SEGMENT_REDIS_DB" default:"0"`
	RedisPrefix   string        `envconfig:"SEGMENT_REDIS_PREFIX" default:"segment:session:"`
}

// Entry is the last prediction of a session and the features it was made
// from.
type Entry struct {
	Features   segment.Features   `json:"features"`
	Prediction segment.Prediction `json:"prediction"`
	At         time.Time          `json:"at"`
}

type Store interface {
	Save(ctx context.Context, id string, e Entry) error
	// Load returns ErrNotFound when the session has no live entry.
	Load(ctx context.Context, id string) (Entry, error)
	Close() error
}

// NewFromConfig opens the configured backend.
func NewFromConfig(ctx context.Context, cfg *Config) (Store, error) {
	switch cfg.Backend {
	case BackendMemory, "":
		return NewMemory(cfg.TTL), nil
	case BackendRedis:
		return DialRedis(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}
}
