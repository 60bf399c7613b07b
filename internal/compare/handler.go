// Package compare serves the clustering comparison harness over HTTP.
package compare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/google/uuid"

	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/cluster"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/errs"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/harness"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/httputil"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/logging"
)

type Comparer interface {
	Compare(ctx context.Context, points [][]float64, configs map[string]cluster.Params) ([]harness.Result, error)
}

type request struct {
	Points     [][]float64                `json:"points"`
	Algorithms map[string]json.RawMessage `json:"algorithms"`
}

type result struct {
	Algorithm        string         `json:"algorithm"`
	DisplayName      string         `json:"display_name"`
	Params           cluster.Params `json:"params"`
	Labels           []int          `json:"labels,omitempty"`
	Silhouette       harness.Score  `json:"silhouette"`
	Sizes            map[int]int    `json:"sizes,omitempty"`
	TotalClusters    int            `json:"total_clusters"`
	NonNoiseClusters int            `json:"non_noise_clusters"`
	DurationMillis   float64        `json:"duration_ms"`
	Error            string         `json:"error,omitempty"`
}

type response struct {
	Run     string   `json:"run"`
	Results []result `json:"results"`
}

func NewHandler(cfg *Config, comparer Comparer) (http.Handler, error) {
	s := &handler{
		comparer: comparer,
		cfg:      cfg,
	}
	return s, nil
}

type handler struct {
	comparer Comparer
	cfg      *Config
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req request
	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()
	logger := logging.FromContext(ctx)

	if !httputil.AllowMethod(ctx, w, r, http.MethodPost) {
		return
	}
	if !httputil.DecodeJSON(ctx, w, r, &req) {
		return
	}

	if h.cfg.MaxPoints > 0 && len(req.Points) > h.cfg.MaxPoints {
		httputil.RespBadRequest(ctx, w, "too many points, max allowed is %d", h.cfg.MaxPoints)
		return
	}

	configs, err := decodeParams(req.Algorithms)
	if err != nil {
		httputil.RespError(ctx, w, err)
		return
	}

	run := uuid.New().String()
	logger.Infof("compare run %s: %d points, %d algorithms", run, len(req.Points), len(configs))

	results, err := h.comparer.Compare(ctx, req.Points, configs)
	if err != nil {
		httputil.RespError(ctx, w, err)
		return
	}

	resp := response{Run: run, Results: make([]result, 0, len(results))}
	for _, res := range results {
		out := result{
			Algorithm:        res.Algorithm,
			DisplayName:      res.DisplayName,
			Params:           res.Params,
			Labels:           res.Labels,
			Silhouette:       res.Score,
			Sizes:            res.Sizes,
			TotalClusters:    res.TotalClusters,
			NonNoiseClusters: res.NonNoiseClusters,
			DurationMillis:   float64(res.Duration.Microseconds()) / 1000,
		}
		if res.Err != nil {
			out.Error = res.Err.Error()
		}
		resp.Results = append(resp.Results, out)
	}
	httputil.RespJSON(ctx, w, http.StatusOK, resp)
}

// decodeParams decodes each algorithm's raw parameters into its typed set.
func decodeParams(raw map[string]json.RawMessage) (map[string]cluster.Params, error) {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	var problems []errs.Problem
	configs := make(map[string]cluster.Params, len(raw))
	for _, name := range names {
		p, err := cluster.ParamsFor(name)
		if err != nil {
			problems = append(problems, errs.Problem{Field: name, Reason: "unknown algorithm"})
			continue
		}
		d := json.NewDecoder(bytes.NewReader(raw[name]))
		d.DisallowUnknownFields()
		if err := d.Decode(p); err != nil {
			problems = append(problems, errs.Problem{Field: name, Reason: fmt.Sprintf("invalid parameters: %v", err)})
			continue
		}
		configs[name] = p
	}

	if len(problems) > 0 {
		return nil, errs.Validation("compare", problems...)
	}
	return configs, nil
}
