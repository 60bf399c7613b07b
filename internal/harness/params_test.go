package harness

import (
	"errors"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/cluster"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/errs"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/geom"
)

func TestDecodeConfigs(t *testing.T) {
	seven := int64(7)
	tests := []struct {
		name        string
		input       string
		expected    map[string]cluster.Params
		expectedErr bool
	}{
		{
			name: "all",
			input: `
[kmeans]
clusters = 4
seed = 7

[dbscan]
eps = 0.3
min_samples = 4
metric = "manhattan"

[agglomerative]
clusters = 2

[gmm]
components = 2
seed = 7
tolerance = 0.01
`,
			expected: map[string]cluster.Params{
				cluster.KMeans:        &cluster.KMeansParams{Clusters: 4, Seed: &seven},
				cluster.DBSCAN:        &cluster.DBSCANParams{Eps: 0.3, MinSamples: 4, Metric: geom.MetricManhattan},
				cluster.Agglomerative: &cluster.AgglomerativeParams{Clusters: 2},
				cluster.GMM:           &cluster.GMMParams{Components: 2, Seed: &seven, Tolerance: 0.01},
			},
		},
		{
			name:     "subset",
			input:    "[dbscan]\neps = 1.5\nmin_samples = 2\n",
			expected: map[string]cluster.Params{cluster.DBSCAN: &cluster.DBSCANParams{Eps: 1.5, MinSamples: 2}},
		},
		{name: "unknown_algorithm", input: "[spectral]\nclusters = 2\n", expectedErr: true},
		{name: "unknown_parameter", input: "[kmeans]\nk = 2\nseed = 1\n", expectedErr: true},
		{name: "wrong_type", input: "[dbscan]\neps = \"wide\"\n", expectedErr: true},
		{name: "malformed", input: "[kmeans\n", expectedErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			configs, err := DecodeConfigs(strings.NewReader(test.input))
			if test.expectedErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errs.ErrValidation), "decode configs, got: %v, expected: validation error", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expected, configs, spew.Sdump(configs))
		})
	}
}

func TestDefaultConfigs(t *testing.T) {
	configs := DefaultConfigs()
	require.Len(t, configs, len(cluster.Names()))
	for name, p := range configs {
		assert.NoError(t, cluster.Validate(name, p))
	}
}
