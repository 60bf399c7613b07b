package artifact

import (
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/errs"
)

// Bundle is the full set of artifacts an inference pipeline needs. It is
// never modified after loading.
type Bundle struct {
	Manifest        *Manifest
	Scaler          *Scaler
	Reducer         *Reducer
	Assigner        *Assigner
	Mapping         *ClusterMapping
	Recommendations *Recommendations
}

// Validate checks that every artifact is present and that they chain:
// schema -> scaler -> reducer -> assigner -> mapping -> recommendations.
func (b *Bundle) Validate(schema []string) error {
	if b == nil {
		return errs.Configuration("bundle", "no artifacts loaded")
	}
	missing := b.missing()
	if len(missing) > 0 {
		return errs.Configuration("bundle", "missing artifacts %v", missing)
	}

	if !sameSchema(b.Manifest.Schema, schema) {
		return errs.Configuration(KeyManifest, "schema %v does not match features %v", b.Manifest.Schema, schema)
	}
	if b.Manifest.ScalerKind != "" && b.Manifest.ScalerKind != b.Scaler.Kind {
		return errs.Configuration(KeyManifest, "scaler kind %q, stored scaler is %q", b.Manifest.ScalerKind, b.Scaler.Kind)
	}

	if err := b.Scaler.validate(); err != nil {
		return errs.Configuration(KeyScaler, "%v", err)
	}
	if b.Scaler.Dims() != len(schema) {
		return errs.Configuration(KeyScaler, "scales %d features, schema has %d", b.Scaler.Dims(), len(schema))
	}

	if err := b.Reducer.validate(); err != nil {
		return errs.Configuration(KeyReducer, "%v", err)
	}
	if int(b.Reducer.Inputs) != b.Scaler.Dims() {
		return errs.Configuration(KeyReducer, "takes %d inputs, scaler produces %d", b.Reducer.Inputs, b.Scaler.Dims())
	}

	if err := b.Assigner.validate(); err != nil {
		return errs.Configuration(KeyAssigner, "%v", err)
	}
	if b.Assigner.Dims() != int(b.Reducer.Rank) {
		return errs.Configuration(KeyAssigner, "centroids have %d values, reducer produces %d", b.Assigner.Dims(), b.Reducer.Rank)
	}

	if err := b.Mapping.validate(); err != nil {
		return errs.Configuration(KeyMapping, "%v", err)
	}
	for _, id := range b.Assigner.ClusterIDs() {
		if _, ok := b.Mapping.Segment(id); !ok {
			return errs.Configuration(KeyMapping, "cluster %d has no segment label", id)
		}
	}
	for _, segment := range b.Mapping.Segments() {
		if _, ok := b.Recommendations.For(segment); !ok {
			return errs.Configuration(KeyRecommendations, "segment %q has no recommendation", segment)
		}
	}
	return nil
}

func (b *Bundle) missing() []string {
	var missing []string
	if b.Manifest == nil {
		missing = append(missing, KeyManifest)
	}
	if b.Scaler == nil {
		missing = append(missing, KeyScaler)
	}
	if b.Reducer == nil {
		missing = append(missing, KeyReducer)
	}
	if b.Assigner == nil {
		missing = append(missing, KeyAssigner)
	}
	if b.Mapping == nil {
		missing = append(missing, KeyMapping)
	}
	if b.Recommendations == nil {
		missing = append(missing, KeyRecommendations)
	}
	return missing
}

func sameSchema(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
