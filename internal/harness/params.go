package harness

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"

	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/cluster"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/errs"
)

const defaultSeed int64 = 42

// DefaultConfigs is the parameter set the comparison runs with when none is
// given: three clusters for the partitioning algorithms, eps 0.5 and five
// samples for DBSCAN, seed 42 wherever randomness is involved.
func DefaultConfigs() map[string]cluster.Params {
	kmeansSeed, gmmSeed := defaultSeed, defaultSeed
	return map[string]cluster.Params{
		cluster.KMeans:        &cluster.KMeansParams{Clusters: 3, Seed: &kmeansSeed},
		cluster.DBSCAN:        &cluster.DBSCANParams{Eps: 0.5, MinSamples: 5},
		cluster.Agglomerative: &cluster.AgglomerativeParams{Clusters: 3},
		cluster.GMM:           &cluster.GMMParams{Components: 3, Seed: &gmmSeed},
	}
}

// DecodeConfigs reads one TOML table per algorithm, keyed by algorithm
// name. Unknown algorithms and unknown keys are validation errors; the
// values themselves are checked by Compare.
func DecodeConfigs(r io.Reader) (map[string]cluster.Params, error) {
	var raw map[string]toml.Primitive
	md, err := toml.NewDecoder(r).Decode(&raw)
	if err != nil {
		return nil, errs.Invalid("params", "", fmt.Sprintf("decode toml: %v", err))
	}

	var problems []errs.Problem
	configs := make(map[string]cluster.Params, len(raw))
	for name, prim := range raw {
		p, err := cluster.ParamsFor(name)
		if err != nil {
			problems = append(problems, errs.Problem{Field: name, Reason: "unknown algorithm"})
			continue
		}
		if err := md.PrimitiveDecode(prim, p); err != nil {
			problems = append(problems, errs.Problem{Field: name, Reason: err.Error()})
			continue
		}
		configs[name] = p
	}

	for _, key := range md.Undecoded() {
		if len(key) < 2 {
			continue
		}
		if _, ok := configs[key[0]]; ok {
			problems = append(problems, errs.Problem{Field: key.String(), Reason: "unknown parameter"})
		}
	}

	if len(problems) > 0 {
		return nil, errs.Validation("params", problems...)
	}
	return configs, nil
}
