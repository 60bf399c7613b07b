package compare

import (
	"time"
)

type Config struct {
	RequestTimeout time.Duration `envconfig:"SEGMENT_COMPARE_REQUEST_TIMEOUT" default:"60s"`
	MaxPoints      int           `envconfig:"SEGMENT_COMPARE_MAX_POINTS" default:"5000"`
	Parallelism    int           `envconfig:"SEGMENT_COMPARE_PARALLELISM" default:"4"`
}
