package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/buildinfo"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/compare"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/config"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/insights"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/logging"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/predict"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/server"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/setup"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/shutdown"
)

func main() {
	_, _ = fmt.Fprint(os.Stdout, buildinfo.Graffiti)
	_, _ = fmt.Fprintf(
		os.Stdout,
		"%s: %s, %s\n",
		buildinfo.Info.Name(),
		buildinfo.Info.Time(),
		buildinfo.Info.Tag(),
	)

	ctx, done := shutdown.New()
	defer done()

	logger := logging.FromContext(ctx)
	if err := run(ctx); err != nil {
		done()
		logger.Fatal(err)
	}
}

func run(ctx context.Context) error {
	logger := logging.FromContext(ctx)
	cfg := config.Config{}
	env, err := setup.Setup(ctx, &cfg)
	if err != nil {
		return fmt.Errorf("setup.Setup: %w", err)
	}
	defer func() {
		if err := env.Close(context.Background()); err != nil {
			logger.Errorf("close environment: %v", err)
		}
	}()

	logger.Infof("build context %s", buildinfo.Info.Context())

	m := env.Pipeline().Manifest()
	logger.Infof("serving artifacts %s (%s scaler, %d segments)", m.ID, m.ScalerKind, len(env.Pipeline().Segments()))

	predictHandler, err := predict.NewHandler(&cfg.Predict, env.Pipeline(), env.Sessions())
	if err != nil {
		return fmt.Errorf("predict.NewHandler: %w", err)
	}
	insightsHandler, err := insights.NewHandler(&cfg.Insights, env.Sessions())
	if err != nil {
		return fmt.Errorf("insights.NewHandler: %w", err)
	}
	compareHandler, err := compare.NewHandler(&cfg.Compare, env.Harness())
	if err != nil {
		return fmt.Errorf("compare.NewHandler: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/predict", predictHandler)
	mux.Handle("/insights", insightsHandler)
	mux.Handle("/segments", predict.NewSegmentsHandler(&cfg.Predict, env.Pipeline()))
	mux.Handle("/compare", compareHandler)
	mux.Handle("/health", server.HandleHealth(ctx))
	mux.Handle("/metrics", env.Exporter())

	httpSrv, err := server.New(cfg.SrvAddr, cfg.MaxConns)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}
	grpcSrv, err := server.New(cfg.GRPCAddr, 0)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpSrv.ServeHTTPHandler(gctx, mux)
	})
	g.Go(func() error {
		return grpcSrv.ServeGRPC(gctx, server.NewHealthGRPC(gctx, buildinfo.Info.Name()))
	})
	return g.Wait()
}
