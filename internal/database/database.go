package database

import (
	"context"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/logging"
)

type DB struct {
	DB *bolt.DB
}

func NewFromEnv(ctx context.Context, config *Config) (*DB, error) {
	logger := logging.FromContext(ctx)
	logger.Infof("opening artifact store %s (read only: %v)", config.FileName, config.ReadOnly)

	db, err := bolt.Open(config.FileName, 0600, &bolt.Options{
		Timeout:  config.OpenTimeout,
		ReadOnly: config.ReadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("open artifact store %s: %w", config.FileName, err)
	}

	return &DB{DB: db}, nil
}

func (db *DB) Close(ctx context.Context) error {
	logger := logging.FromContext(ctx)
	logger.Infof("closing artifact store")

	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("close artifact store: %w", err)
	}

	return nil
}
