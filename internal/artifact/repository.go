package artifact

import (
	"context"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/database"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/errs"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/logging"
)

const bucketName = "artifacts"

const (
	KeyManifest        = "manifest"
	KeyScaler          = "scaler"
	KeyReducer         = "reducer"
	KeyAssigner        = "assigner"
	KeyMapping         = "mapping"
	KeyRecommendations = "recommendations"
)

func New(db *database.DB) *Repository {
	return &Repository{db: db}
}

// Repository reads and writes bundles in the artifacts bucket.
type Repository struct {
	db *database.DB
}

func (r *Repository) entries(b *Bundle) []struct {
	key string
	val interface{}
} {
	return []struct {
		key string
		val interface{}
	}{
		{KeyManifest, b.Manifest},
		{KeyScaler, b.Scaler},
		{KeyReducer, b.Reducer},
		{KeyAssigner, b.Assigner},
		{KeyMapping, b.Mapping},
		{KeyRecommendations, b.Recommendations},
	}
}

// Save writes every artifact of b in one transaction. Incomplete bundles are
// rejected.
func (r *Repository) Save(ctx context.Context, b *Bundle) error {
	if missing := b.missing(); len(missing) > 0 {
		return errs.Configuration("bundle", "missing artifacts %v", missing)
	}

	encoded := make(map[string][]byte)
	for _, e := range r.entries(b) {
		data, err := encode(e.val)
		if err != nil {
			return fmt.Errorf("encode %s: %w", e.key, err)
		}
		encoded[e.key] = data
	}

	if err := r.db.DB.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		for key, data := range encoded {
			if err := bucket.Put([]byte(key), data); err != nil {
				return fmt.Errorf("put %s: %w", key, err)
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("save bundle: %w", err)
	}

	logging.FromContext(ctx).Infof("saved artifact bundle %s", b.Manifest.ID)
	return nil
}

// Load reads a bundle. Absent artifacts are reported together as a
// *errs.ConfigurationError. Load does not check mutual consistency; see
// Bundle.Validate.
func (r *Repository) Load(ctx context.Context) (*Bundle, error) {
	b := &Bundle{
		Manifest:        &Manifest{},
		Scaler:          &Scaler{},
		Reducer:         &Reducer{},
		Assigner:        &Assigner{},
		Mapping:         &ClusterMapping{},
		Recommendations: &Recommendations{},
	}

	var missing []string
	if err := r.db.DB.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		for _, e := range r.entries(b) {
			var data []byte
			if bucket != nil {
				data = bucket.Get([]byte(e.key))
			}
			if data == nil {
				missing = append(missing, e.key)
				continue
			}
			if err := decode(data, e.val); err != nil {
				return errs.Configuration(e.key, "corrupt artifact: %v", err)
			}
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("load bundle: %w", err)
	}

	if len(missing) > 0 {
		return nil, errs.Configuration("bundle", "missing artifacts %v", missing)
	}

	logging.FromContext(ctx).Infof("loaded artifact bundle %s created %s", b.Manifest.ID, b.Manifest.Created())
	return b, nil
}
