package server

import (
	"context"
	"net/http"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/httputil"
)

// HandleHealth answers ok while ctx is alive and 503 once shutdown began.
func HandleHealth(ctx context.Context) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ctx.Err() != nil {
			httputil.RespJSON(r.Context(), w, http.StatusServiceUnavailable, map[string]string{"status": "shutting down"})
			return
		}
		httputil.RespJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// NewHealthGRPC returns a grpc server exposing the standard health service
// with service marked serving. The status flips to not serving when ctx is
// done.
func NewHealthGRPC(ctx context.Context, service string) *grpc.Server {
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(service, healthpb.HealthCheckResponse_SERVING)

	go func() {
		<-ctx.Done()
		hs.Shutdown()
	}()

	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	return srv
}
