package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rakeshcr92/InsiderNet/internal/di"
	"github.com/rakeshcr92/InsiderNet/pkg/config"
)

// newRootCmd creates the root command
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "insidernet",
		Short: "InsiderNet feature and label pipeline",
		Long: `InsiderNet turns daily price bars, social posts and search-interest trends
for a ticker into one aligned feature table plus forward-looking labels.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "config/config.yaml", "Configuration file path")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

type runFlags struct {
	lookahead  int
	threshold  float64
	basis      string
	trendQuery string
	table      string
	format     string
	out        string
}

// newRunCmd runs the pipeline once and writes one table.
func newRunCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run [TICKER]",
		Short: "Run the pipeline once for a ticker",
		Long: `Run the pipeline once and write the result table.
Example: insidernet run AAPL --lookahead=5 --volatility-threshold=0.02 --table=labeled`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.Pipeline.Ticker = args[0]
			}
			flags := cmd.Flags()
			if flags.Changed("lookahead") {
				cfg.Pipeline.Lookahead = f.lookahead
			}
			if flags.Changed("volatility-threshold") {
				cfg.Pipeline.VolatilityThreshold = &f.threshold
			}
			if flags.Changed("basis") {
				cfg.Pipeline.VolatilityBasis = f.basis
			}
			if flags.Changed("trend-query") {
				cfg.Pipeline.TrendQuery = f.trendQuery
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("validate config: %w", err)
			}
			return runOnce(cmd.Context(), cfg, f, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&f.lookahead, "lookahead", 0, "Trading rows ahead for labels (overrides pipeline.lookahead)")
	cmd.Flags().Float64Var(&f.threshold, "volatility-threshold", 0, "Forward volatility label threshold (overrides pipeline.volatility_threshold)")
	cmd.Flags().StringVar(&f.basis, "basis", "", "Forward volatility basis: absolute or relative")
	cmd.Flags().StringVar(&f.trendQuery, "trend-query", "", "Trend query to keep")
	cmd.Flags().StringVar(&f.table, "table", tableLabeled, "Table to write: features, labels or labeled")
	cmd.Flags().StringVar(&f.format, "format", formatJSON, "Output format: json or csv")
	cmd.Flags().StringVarP(&f.out, "out", "o", "-", "Output file, - for stdout")

	return cmd
}

func runOnce(ctx context.Context, cfg *config.Config, f runFlags, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	pipeline, cleanup, err := di.InitializePipeline(cfg)
	if err != nil {
		return fmt.Errorf("initialize pipeline: %w", err)
	}
	defer cleanup()

	res, err := pipeline.Run(ctx, di.PipelineDefaults(cfg))
	if err != nil {
		return err
	}
	for stage, msg := range res.Errors {
		fmt.Fprintf(os.Stderr, "warning: %s degraded: %s\n", stage, msg)
	}

	return writeOutput(stdout, f.out, res, f.table, f.format)
}

// newServeCmd runs the Kafka request worker until interrupted.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Consume pipeline requests from Kafka",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("validate config: %w", err)
			}
			if err := cfg.RequireKafka(); err != nil {
				return err
			}

			app, cleanup, err := di.InitializeApp(cfg)
			if err != nil {
				return fmt.Errorf("app initialization failed: %w", err)
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.Run(ctx)
		},
	}
}

// newConfigCmd creates the config command
func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file and environment overrides",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("validate config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "config ok: env=%s source=%s sink=%s\n",
				cfg.Environment, cfg.Source.Type, cfg.Sink.Type)
			return nil
		},
	})

	return configCmd
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Read(path)
}
