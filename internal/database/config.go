package database

import "time"

type Config struct {
	FileName    string        `envconfig:"SEGMENT_ARTIFACTS_FILE" default:"artifacts.db"`
	ReadOnly    bool          `envconfig:"SEGMENT_ARTIFACTS_READONLY" default:"true"`
	OpenTimeout time.Duration `envconfig:"SEGMENT_ARTIFACTS_OPEN_TIMEOUT" default:"5s"`
}
