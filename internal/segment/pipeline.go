// Package segment turns one customer's features into a segment label and a
// marketing recommendation using a frozen artifact bundle.
package segment

import (
	"context"

	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/artifact"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/errs"
)

type Prediction struct {
	Cluster        int    `json:"cluster"`
	Segment        string `json:"segment"`
	Recommendation string `json:"recommendation"`
}

type SegmentInfo struct {
	Segment        string `json:"segment"`
	Recommendation string `json:"recommendation"`
}

// ProvideFn builds a pipeline from wherever the artifacts live.
type ProvideFn func(ctx context.Context) (*Pipeline, error)

// Pipeline is safe for concurrent use; it only reads its bundle.
type Pipeline struct {
	bundle *artifact.Bundle
}

// New checks that the bundle fits the feature schema and is internally
// consistent.
func New(bundle *artifact.Bundle) (*Pipeline, error) {
	if err := bundle.Validate(FeatureNames); err != nil {
		return nil, err
	}
	return &Pipeline{bundle: bundle}, nil
}

// Predict validates f, scales, reduces and assigns it, then looks up the
// segment label and its recommendation.
func (p *Pipeline) Predict(f Features) (Prediction, error) {
	if err := f.Validate(); err != nil {
		return Prediction{}, err
	}

	scaled, err := p.bundle.Scaler.Transform(f.Vector())
	if err != nil {
		return Prediction{}, errs.Configuration(artifact.KeyScaler, "%v", err)
	}
	reduced, err := p.bundle.Reducer.Transform(scaled)
	if err != nil {
		return Prediction{}, errs.Configuration(artifact.KeyReducer, "%v", err)
	}
	id, err := p.bundle.Assigner.Predict(reduced)
	if err != nil {
		return Prediction{}, errs.Configuration(artifact.KeyAssigner, "%v", err)
	}

	label, ok := p.bundle.Mapping.Segment(id)
	if !ok {
		return Prediction{}, errs.Configuration(artifact.KeyMapping, "cluster %d has no segment label", id)
	}
	text, ok := p.bundle.Recommendations.For(label)
	if !ok {
		return Prediction{}, errs.Configuration(artifact.KeyRecommendations, "segment %q has no recommendation", label)
	}

	return Prediction{Cluster: id, Segment: label, Recommendation: text}, nil
}

// Segments lists every segment the pipeline can produce with its
// recommendation.
func (p *Pipeline) Segments() []SegmentInfo {
	labels := p.bundle.Mapping.Segments()
	out := make([]SegmentInfo, 0, len(labels))
	for _, l := range labels {
		text, _ := p.bundle.Recommendations.For(l)
		out = append(out, SegmentInfo{Segment: l, Recommendation: text})
	}
	return out
}

// ExplainedVariance is the variance of each reduced dimension.
func (p *Pipeline) ExplainedVariance() []float64 {
	return p.bundle.Reducer.ExplainedVariance()
}

func (p *Pipeline) Manifest() artifact.Manifest {
	return *p.bundle.Manifest
}
