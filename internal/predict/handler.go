// Package predict serves the inference pipeline over HTTP.
package predict

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/httputil"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/logging"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/observability"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/segment"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/session"
)

type Predictor interface {
	Predict(f segment.Features) (segment.Prediction, error)
}

type response struct {
	Session string `json:"session"`
	segment.Prediction
}

func NewHandler(cfg *Config, predictor Predictor, sessions session.Store) (http.Handler, error) {
	return &handler{
		cfg:       cfg,
		predictor: predictor,
		sessions:  sessions,
	}, nil
}

type handler struct {
	cfg       *Config
	predictor Predictor
	sessions  session.Store
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()
	logger := logging.FromContext(ctx)

	if !httputil.AllowMethod(ctx, w, r, http.MethodPost) {
		return
	}

	var features segment.Features
	if !httputil.DecodeJSON(ctx, w, r, &features) {
		return
	}

	start := time.Now()
	pred, err := h.predictor.Predict(features)
	if err != nil {
		httputil.RespError(ctx, w, err)
		return
	}
	observability.RecordPrediction(ctx, pred.Segment, time.Since(start))

	id := r.Header.Get(session.Header)
	if id == "" {
		id = uuid.New().String()
	}
	entry := session.Entry{Features: features, Prediction: pred, At: time.Now().UTC()}
	if err := h.sessions.Save(ctx, id, entry); err != nil {
		logger.Errorf("store prediction for session %s: %v", id, err)
	}

	logger.Debugf("session %s predicted as %s (cluster %d)", id, pred.Segment, pred.Cluster)
	w.Header().Set(session.Header, id)
	httputil.RespJSON(ctx, w, http.StatusOK, response{Session: id, Prediction: pred})
}
