package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"

	"firestige.xyz/wirefp/internal/config"
	"firestige.xyz/wirefp/internal/engine"
	"firestige.xyz/wirefp/internal/log"
	"firestige.xyz/wirefp/internal/metrics"
	"firestige.xyz/wirefp/internal/pipeline"
	"firestige.xyz/wirefp/internal/sink"
	"firestige.xyz/wirefp/internal/source/file"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a pcap or pcapng file",
	Long: `Read a capture file and write one record per identified packet.

Records go to stdout unless output.path or --output names a file, which is
rotated according to output.rotation. With --summary each record holds the
fingerprint type, string and status, the server name, ALPNs and user agent
instead; --format text prints those summaries as "key: value" blocks.

Examples:
  wirefp analyze -r capture.pcap
  wirefp analyze -r capture.pcapng --metadata --output records.json
  wirefp analyze -r capture.pcap --format protobuf --engine ./engine.so
  wirefp analyze -r capture.pcap --summary --format text`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configFile)
		if err != nil {
			exitWithError("failed to load config", err)
		}
		applyAnalyzeFlags(cmd, cfg)
		if err := cfg.ValidateAndApplyDefaults(); err != nil {
			exitWithError("invalid configuration", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runAnalyze(ctx, cfg, analyzeOpts, os.Stdout, os.Stderr)
	},
}

type analyzeOptions struct {
	readFile   string
	enginePath string
	metadata   bool
	summary    bool
	workers    int
	limit      int
	output     string
	format     string
}

var analyzeOpts analyzeOptions

func init() {
	f := analyzeCmd.Flags()
	f.StringVarP(&analyzeOpts.readFile, "read", "r", "", "capture file to read (required)")
	f.StringVar(&analyzeOpts.enginePath, "engine", "", "engine plugin to bind instead of the builtin engine")
	f.BoolVar(&analyzeOpts.metadata, "metadata", false, "include protocol metadata in records")
	f.BoolVar(&analyzeOpts.summary, "summary", false, "write fingerprint summaries instead of full records")
	f.IntVarP(&analyzeOpts.workers, "workers", "w", 0, "analysis workers (0 = GOMAXPROCS)")
	f.IntVarP(&analyzeOpts.limit, "limit", "n", 0, "stop after this many packets (0 = all)")
	f.StringVarP(&analyzeOpts.output, "output", "o", "", "output file (default stdout)")
	f.StringVar(&analyzeOpts.format, "format", "", "output format: json, protobuf or text (text needs --summary)")
	analyzeCmd.MarkFlagRequired("read")
}

// applyAnalyzeFlags overlays explicitly set flags onto cfg.
func applyAnalyzeFlags(cmd *cobra.Command, cfg *config.GlobalConfig) {
	f := cmd.Flags()
	if f.Changed("metadata") {
		cfg.Analysis.OutputMetadata = analyzeOpts.metadata
	}
	if f.Changed("summary") {
		cfg.Output.Summary = analyzeOpts.summary
	}
	if f.Changed("workers") {
		cfg.Pipeline.Workers = analyzeOpts.workers
	}
	if f.Changed("limit") {
		cfg.Pipeline.ReadLimit = analyzeOpts.limit
	}
	if f.Changed("output") {
		cfg.Output.Path = analyzeOpts.output
	}
	if f.Changed("format") {
		cfg.Output.Format = analyzeOpts.format
	}
}

func runAnalyze(ctx context.Context, cfg *config.GlobalConfig, opts analyzeOptions, stdout, stderr io.Writer) error {
	logger := log.GetLogger()

	api, err := bindEngine(opts.enginePath)
	if err != nil {
		return err
	}

	src, err := file.Open(opts.readFile)
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := sink.Open(cfg.Output, stdout)
	if err != nil {
		return err
	}
	defer out.Close()

	if cfg.Metrics.Enabled {
		srv := metrics.NewServer(cfg.Metrics.Listen, cfg.Metrics.Path)
		if err := srv.Start(ctx); err != nil {
			return err
		}
		defer func() {
			if err := srv.Stop(context.Background()); err != nil {
				logger.WithError(err).Warn("metrics server stop failed")
			}
		}()
	}

	var analysisOpts map[string]any
	if err := mapstructure.Decode(cfg.Analysis, &analysisOpts); err != nil {
		return fmt.Errorf("encode analysis options: %w", err)
	}

	p, err := pipeline.NewBuilder().
		WithSource(src).
		WithEngine(api).
		WithSink(out).
		WithAnalysisOptions(analysisOpts).
		WithWorkers(cfg.Pipeline.Workers).
		WithReadLimit(cfg.Pipeline.ReadLimit).
		WithMetadata(cfg.Analysis.OutputMetadata).
		WithSummary(cfg.Output.Summary).
		Build()
	if err != nil {
		return err
	}
	if err := p.Run(ctx); err != nil {
		return err
	}

	s := p.Stats()
	fmt.Fprintf(stderr, "%s: %d packets, %d records written\n", opts.readFile, s.Received, s.Written)
	return nil
}

func bindEngine(path string) (*engine.API, error) {
	if path == "" {
		return engine.BindBuiltin(), nil
	}
	return engine.BindPlugin(path)
}
