// Package insights serves the spending summary of a session's last
// prediction.
package insights

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/httputil"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/segment"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/session"
)

type Config struct {
	RequestTimeout time.Duration `envconfig:"SEGMENT_INSIGHTS_REQUEST_TIMEOUT" default:"5s"`
}

type response struct {
	Session     string    `json:"session"`
	PredictedAt time.Time `json:"predicted_at"`
	segment.Insights
}

func NewHandler(cfg *Config, sessions session.Store) (http.Handler, error) {
	return &handler{cfg: cfg, sessions: sessions}, nil
}

type handler struct {
	cfg      *Config
	sessions session.Store
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()

	if !httputil.AllowMethod(ctx, w, r, http.MethodGet) {
		return
	}

	id := r.URL.Query().Get("session")
	if id == "" {
		id = r.Header.Get(session.Header)
	}
	if id == "" {
		httputil.RespBadRequest(ctx, w, "session is required")
		return
	}

	entry, err := h.sessions.Load(ctx, id)
	if errors.Is(err, session.ErrNotFound) {
		httputil.RespNotFound(ctx, w, "no prediction yet for session %s, predict a segment first", id)
		return
	}
	if err != nil {
		httputil.RespInternalError(ctx, w, "load session %s: %v", id, err)
		return
	}

	httputil.RespJSON(ctx, w, http.StatusOK, response{
		Session:     id,
		PredictedAt: entry.At,
		Insights:    segment.NewInsights(entry.Features, entry.Prediction),
	})
}
