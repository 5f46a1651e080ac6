package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"worldhooks/internal/config"
	"worldhooks/internal/export"
)

var inspectOut string

func inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print a run's manifest counters and failures",
		RunE:  runInspect,
	}
	cmd.Flags().StringVar(&inspectOut, "out", "", "Export directory to inspect (overrides config)")
	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	dir := inspectOut
	if dir == "" {
		cfg, err := config.LoadProjectConfig("worldhooks.yaml")
		if err != nil {
			return err
		}
		dir = cfg.Output.Dir
	}

	manifest, err := export.ReadManifest(dir)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Files:         %d\n", len(manifest.Files))
	fmt.Fprintf(os.Stdout, "Clusters:      %d\n", manifest.Clusters)
	fmt.Fprintf(os.Stdout, "Skipped empty: %d\n", manifest.Counters.Empty)
	fmt.Fprintf(os.Stdout, "Structured:    %d\n", manifest.Counters.Structured)
	fmt.Fprintf(os.Stdout, "Free text:     %d\n", manifest.Counters.FreeText)
	fmt.Fprintf(os.Stdout, "Unclustered:   %d\n", manifest.Counters.Unclustered)

	if len(manifest.Failures) > 0 {
		fmt.Fprintf(os.Stdout, "\nFailures (%d):\n", len(manifest.Failures))
		for _, failure := range manifest.Failures {
			fmt.Fprintf(os.Stdout, "  - %s/%s: %s\n", failure.Category, failure.Cluster, failure.Reason)
		}
	}

	return nil
}
