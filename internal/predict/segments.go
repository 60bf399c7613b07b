package predict

import (
	"context"
	"net/http"
	"time"

	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/artifact"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/httputil"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/segment"
)

type Catalog interface {
	Segments() []segment.SegmentInfo
	Manifest() artifact.Manifest
	ExplainedVariance() []float64
}

type manifestView struct {
	ID                string    `json:"id"`
	CreatedAt         time.Time `json:"created_at"`
	Schema            []string  `json:"schema"`
	ScalerKind        string    `json:"scaler"`
	Note              string    `json:"note,omitempty"`
	ExplainedVariance []float64 `json:"explained_variance"`
}

type segmentsResponse struct {
	Segments []segment.SegmentInfo `json:"segments"`
	Manifest manifestView          `json:"manifest"`
}

// NewSegmentsHandler lists the segments the pipeline can predict.
func NewSegmentsHandler(cfg *Config, catalog Catalog) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), cfg.RequestTimeout)
		defer cancel()

		if !httputil.AllowMethod(ctx, w, r, http.MethodGet) {
			return
		}

		m := catalog.Manifest()
		httputil.RespJSON(ctx, w, http.StatusOK, segmentsResponse{
			Segments: catalog.Segments(),
			Manifest: manifestView{
				ID:                m.ID,
				CreatedAt:         m.Created(),
				Schema:            m.Schema,
				ScalerKind:        m.ScalerKind,
				Note:              m.Note,
				ExplainedVariance: catalog.ExplainedVariance(),
			},
		})
	})
}
