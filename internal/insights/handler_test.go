package insights

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/segment"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/session"
)

type brokenStore struct {
	session.Store
}

func (brokenStore) Load(context.Context, string) (session.Entry, error) {
	return session.Entry{}, errors.New("connection refused")
}

func TestHandler(t *testing.T) {
	store := session.NewMemory(time.Hour)
	entry := session.Entry{
		Features:   segment.Features{Income: 50000, WineSpend: 200, MeatSpend: 100, FishSpend: 100, WebVisits: 5, Age: 35},
		Prediction: segment.Prediction{Cluster: 0, Segment: "Luxury Shopper", Recommendation: "vip"},
		At:         time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Save(context.Background(), "abc", entry))

	tests := []struct {
		name   string
		method string
		target string
		header string
		store  session.Store
		status int
	}{
		{name: "query", method: http.MethodGet, target: "/insights?session=abc", status: http.StatusOK},
		{name: "header", method: http.MethodGet, target: "/insights", header: "abc", status: http.StatusOK},
		{name: "unknown_session", method: http.MethodGet, target: "/insights?session=zzz", status: http.StatusNotFound},
		{name: "no_session", method: http.MethodGet, target: "/insights", status: http.StatusBadRequest},
		{name: "wrong_method", method: http.MethodPost, target: "/insights?session=abc", status: http.StatusMethodNotAllowed},
		{name: "store_error", method: http.MethodGet, target: "/insights?session=abc", store: brokenStore{}, status: http.StatusInternalServerError},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := test.store
			if s == nil {
				s = store
			}
			h, err := NewHandler(&Config{RequestTimeout: time.Second}, s)
			require.NoError(t, err)

			r := httptest.NewRequest(test.method, test.target, nil)
			if test.header != "" {
				r.Header.Set(session.Header, test.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			require.Equal(t, test.status, w.Code, w.Body.String())
			if test.status != http.StatusOK {
				return
			}

			var resp response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "abc", resp.Session)
			assert.Equal(t, "Luxury Shopper", resp.Segment)
			assert.Equal(t, float64(50000), resp.Income)
			assert.Equal(t, entry.At, resp.PredictedAt)
			require.Len(t, resp.Distribution, 3)
			assert.InDelta(t, 0.5, resp.Distribution[0].Share, 1e-12)
			assert.InDelta(t, 400, resp.TotalSpending, 1e-12)
		})
	}
}
