package setup_test

import (
	"context"
	"errors"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/artifact"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/config"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/database"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/errs"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/fit"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/segment"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/setup"
)

func customers() []segment.Features {
	rnd := rand.New(rand.NewSource(11))
	out := make([]segment.Features, 0, 60)
	for i := 0; i < 30; i++ {
		out = append(out,
			segment.Features{
				Income: 90000 + rnd.Float64()*10000, WineSpend: 800 + rnd.Float64()*100, MeatSpend: 600 + rnd.Float64()*100,
				FishSpend: 150, WebVisits: 2, Age: 55, Campaigns: 2, PurchaseFrequency: 24,
			},
			segment.Features{
				Income: 30000 + rnd.Float64()*10000, KidsAtHome: 2, WineSpend: rnd.Float64() * 40,
				MeatSpend: rnd.Float64() * 20, FishSpend: 5, WebVisits: 9, Age: 30, PurchaseFrequency: 4,
			},
		)
	}
	return out
}

func writeArtifacts(t *testing.T, bundle *artifact.Bundle) string {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "artifacts.db")

	db, err := database.NewFromEnv(ctx, &database.Config{FileName: path, OpenTimeout: time.Second})
	require.NoError(t, err)
	defer db.Close(ctx)

	if bundle != nil {
		require.NoError(t, artifact.New(db).Save(ctx, bundle))
	}
	return path
}

func TestSetup(t *testing.T) {
	ctx := context.Background()
	bundle, err := fit.Fit(ctx, fit.DefaultConfig(), customers())
	require.NoError(t, err)
	t.Setenv("SEGMENT_ARTIFACTS_FILE", writeArtifacts(t, bundle))
	t.Setenv("SEGMENT_COMPARE_MAX_POINTS", "100")

	var cfg config.Config
	env, err := setup.Setup(ctx, &cfg)
	require.NoError(t, err)
	defer env.Close(ctx)

	assert.Equal(t, ":8787", cfg.SrvAddr)
	assert.Equal(t, 100, cfg.Compare.MaxPoints)
	assert.True(t, cfg.Database.ReadOnly)
	require.NotNil(t, env.Database())
	require.NotNil(t, env.Pipeline())
	require.NotNil(t, env.Sessions())
	require.NotNil(t, env.Exporter())
	require.NotNil(t, env.Harness())
	assert.Equal(t, bundle.Manifest.ID, env.Pipeline().Manifest().ID)

	pred, err := env.Pipeline().Predict(segment.Features{
		Income: 95000, WineSpend: 850, MeatSpend: 650, FishSpend: 150, WebVisits: 2, Age: 55, Campaigns: 2, PurchaseFrequency: 24,
	})
	require.NoError(t, err)
	assert.Equal(t, "Luxury Shopper", pred.Segment)
}

func TestSetup_Errors(t *testing.T) {
	tests := []struct {
		name          string
		path          func(t *testing.T) string
		sessions      string
		configuration bool
	}{
		{
			name: "no_store",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.db") },
		},
		{
			name:          "empty_store",
			path:          func(t *testing.T) string { return writeArtifacts(t, nil) },
			configuration: true,
		},
		{
			name: "unknown_session_backend",
			path: func(t *testing.T) string {
				bundle, err := fit.Fit(context.Background(), fit.DefaultConfig(), customers())
				require.NoError(t, err)
				return writeArtifacts(t, bundle)
			},
			sessions: "memcached",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Setenv("SEGMENT_ARTIFACTS_FILE", test.path(t))
			t.Setenv("SEGMENT_ARTIFACTS_OPEN_TIMEOUT", "100ms")
			if test.sessions != "" {
				t.Setenv("SEGMENT_SESSION_BACKEND", test.sessions)
			}

			var cfg config.Config
			env, err := setup.Setup(context.Background(), &cfg)
			require.Error(t, err)
			assert.Nil(t, env)
			if test.configuration {
				assert.True(t, errors.Is(err, errs.ErrConfiguration), "compute Setup, got: %v, expected: configuration error", err)
			}
		})
	}
}
