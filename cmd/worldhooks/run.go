package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"worldhooks/internal/config"
	"worldhooks/internal/engine"
	"worldhooks/internal/export"
)

var (
	runSource   string
	runOut      string
	runRegistry string
	runParallel int
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Classify the record store and export world hooks",
		RunE:  runRun,
	}
	cmd.Flags().StringVar(&runSource, "source", "", "Record store DSN (overrides config)")
	cmd.Flags().StringVar(&runOut, "out", "", "Output directory (overrides config)")
	cmd.Flags().StringVar(&runRegistry, "registry", "", "Name registry file (overrides config)")
	cmd.Flags().IntVar(&runParallel, "parallel", 0, "Max concurrent cluster extractions (overrides config)")
	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadProjectConfig("worldhooks.yaml")
	if err != nil {
		return err
	}
	if runSource != "" {
		cfg.Source.DSN = runSource
	}
	if runOut != "" {
		cfg.Output.Dir = runOut
	}
	if runRegistry != "" {
		cfg.Registry = runRegistry
	}
	if runParallel > 0 {
		cfg.Parallelism = runParallel
	}

	registry, err := config.LoadRegistry(cfg.Registry)
	if err != nil {
		return err
	}

	lexicons := config.DefaultLexicons()
	if cfg.Lexicons != "" {
		lexicons, err = config.LoadLexicons(cfg.Lexicons)
		if err != nil {
			return err
		}
	}

	src, err := openSource(ctx, cfg.Source.DSN)
	if err != nil {
		return err
	}
	defer src.Close(ctx)

	result, err := engine.Run(ctx, registry, lexicons, src, export.New(cfg.Output.Dir), engine.Options{
		Parallelism: cfg.Parallelism,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, "Extraction complete.")
	fmt.Fprintf(os.Stdout, "  Records scanned:    %d\n", result.Records)
	fmt.Fprintf(os.Stdout, "  Skipped empty:      %d\n", result.Counters.Empty)
	fmt.Fprintf(os.Stdout, "  Structured:         %d\n", result.Counters.Structured)
	fmt.Fprintf(os.Stdout, "  Free text:          %d\n", result.Counters.FreeText)
	fmt.Fprintf(os.Stdout, "  Unclustered:        %d\n", result.Counters.Unclustered)
	fmt.Fprintf(os.Stdout, "  Clusters:           %d\n", result.Clusters)
	fmt.Fprintf(os.Stdout, "  Entities written:   %d\n", result.EntitiesWritten)
	fmt.Fprintf(os.Stdout, "  Structured written: %d\n", result.StructuredWritten)

	if len(result.Failures) > 0 {
		fmt.Fprintf(os.Stdout, "\nExtraction failures (%d):\n", len(result.Failures))
		for _, failure := range result.Failures {
			fmt.Fprintf(os.Stdout, "  - %s/%s: %s\n", failure.Category, failure.Cluster, failure.Reason)
		}
	}

	return nil
}
