package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/sethvargo/go-envconfig"

	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/cluster"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/dataset"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/harness"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/logging"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/shutdown"
)

type Config struct {
	Data          string `env:"SEGMENT_COMPARE_DATA,default=data/marketing_campaign_final.csv"`
	Comma         string `env:"SEGMENT_COMPARE_COMMA,default=,"`
	Params        string `env:"SEGMENT_COMPARE_PARAMS"`
	Components    int    `env:"SEGMENT_COMPARE_COMPONENTS,default=2"`
	Parallelism   int    `env:"SEGMENT_COMPARE_PARALLELISM,default=4"`
	Synthetic     bool   `env:"SEGMENT_COMPARE_SYNTHETIC,default=true"`
	SyntheticSize int    `env:"SEGMENT_COMPARE_SYNTHETIC_SIZE,default=100"`
	SyntheticSeed uint32 `env:"SEGMENT_COMPARE_SYNTHETIC_SEED,default=0"`
	JSON          bool   `env:"SEGMENT_COMPARE_JSON,default=false"`
}

func main() {
	ctx, done := shutdown.New()
	defer done()

	logger := logging.FromContext(ctx)
	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		done()
		logger.Fatal(err)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	logger := logging.FromContext(ctx)

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return fmt.Errorf("process env: %w", err)
	}

	fs := flag.NewFlagSet("segment-compare", flag.ContinueOnError)
	fs.StringVar(&cfg.Data, "data", cfg.Data, "customer CSV to cluster")
	fs.StringVar(&cfg.Comma, "comma", cfg.Comma, "CSV field separator")
	fs.StringVar(&cfg.Params, "params", cfg.Params, "TOML file with one table per algorithm")
	fs.IntVar(&cfg.Components, "components", cfg.Components, "principal components to project onto")
	fs.IntVar(&cfg.Parallelism, "parallelism", cfg.Parallelism, "algorithms run at once")
	fs.BoolVar(&cfg.Synthetic, "synthetic", cfg.Synthetic, "fall back to random points when the CSV cannot be used")
	fs.BoolVar(&cfg.JSON, "json", cfg.JSON, "print results as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	comma := []rune(cfg.Comma)
	if len(comma) != 1 {
		return fmt.Errorf("comma must be a single character, got %q", cfg.Comma)
	}

	configs := harness.DefaultConfigs()
	if cfg.Params != "" {
		f, err := os.Open(cfg.Params)
		if err != nil {
			return fmt.Errorf("open params: %w", err)
		}
		configs, err = harness.DecodeConfigs(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("params %s: %w", cfg.Params, err)
		}
	}

	points, loaded, err := dataset.Load(dataset.LoadConfig{
		Path:           cfg.Data,
		Comma:          comma[0],
		Components:     cfg.Components,
		AllowSynthetic: cfg.Synthetic,
		SyntheticSize:  cfg.SyntheticSize,
		SyntheticSeed:  cfg.SyntheticSeed,
	})
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	if loaded {
		logger.Infof("loaded %s: %d points in %d dimensions", cfg.Data, len(points), cfg.Components)
	} else {
		logger.Warnf("could not use %s, comparing on %d synthetic points", cfg.Data, len(points))
	}

	results, err := harness.New(harness.WithParallelism(cfg.Parallelism)).Compare(ctx, points, configs)
	if err != nil {
		return fmt.Errorf("compare: %w", err)
	}

	if cfg.JSON {
		return printJSON(out, results)
	}
	return printResults(out, results)
}

type jsonResult struct {
	Algorithm        string         `json:"algorithm"`
	Params           cluster.Params `json:"params"`
	Silhouette       harness.Score  `json:"silhouette"`
	Sizes            map[int]int    `json:"sizes,omitempty"`
	TotalClusters    int            `json:"total_clusters"`
	NonNoiseClusters int            `json:"non_noise_clusters"`
	Error            string         `json:"error,omitempty"`
}

func printJSON(out io.Writer, results []harness.Result) error {
	view := make([]jsonResult, 0, len(results))
	for _, r := range results {
		jr := jsonResult{
			Algorithm:        r.Algorithm,
			Params:           r.Params,
			Silhouette:       r.Score,
			Sizes:            r.Sizes,
			TotalClusters:    r.TotalClusters,
			NonNoiseClusters: r.NonNoiseClusters,
		}
		if r.Err != nil {
			jr.Error = r.Err.Error()
		}
		view = append(view, jr)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}

func printResults(out io.Writer, results []harness.Result) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ALGORITHM\tPARAMETERS\tSILHOUETTE\tCLUSTERS\tNON-NOISE\tSIZES")
	for _, r := range results {
		params, err := json.Marshal(r.Params)
		if err != nil {
			return fmt.Errorf("marshal %s params: %w", r.Algorithm, err)
		}
		if r.Err != nil {
			fmt.Fprintf(tw, "%s\t%s\tfailed: %v\t\t\t\n", r.DisplayName, params, r.Err)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
			r.DisplayName, params, r.Score, r.TotalClusters, r.NonNoiseClusters, sizes(r.Sizes))
	}
	return tw.Flush()
}

func sizes(m map[int]int) string {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		label := fmt.Sprint(id)
		if id == cluster.Noise {
			label = "noise"
		}
		parts = append(parts, fmt.Sprintf("%s:%d", label, m[id]))
	}
	return strings.Join(parts, " ")
}
