package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	var projectName string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new worldhooks project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(projectName) == "" {
				return fmt.Errorf("--name is required")
			}
			return runInit(projectName)
		},
	}
	cmd.Flags().StringVar(&projectName, "name", "", "Project name")
	return cmd
}

func runInit(projectName string) error {
	configPath := "worldhooks.yaml"
	registryPath := "registry.yaml"
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	}
	if _, err := os.Stat(registryPath); err == nil {
		return fmt.Errorf("%s already exists", registryPath)
	}

	configContents := fmt.Sprintf("project: %s\nversion: 1\n\nsource:\n  dsn: sqlite://./records.db\n\noutput:\n  dir: ./export\n\nregistry: registry.yaml\nparallelism: 0\n", projectName)
	registryContents := "version: 1\n\nregions:\n  - Mistwood\n\nsettlements:\n  - Village of Ashamar\n\nfactions:\n  - The Gray Wardens\n\ndungeons:\n  - Hollow Crypt\n"

	if err := os.WriteFile(configPath, []byte(configContents), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", configPath, err)
	}
	if err := os.WriteFile(registryPath, []byte(registryContents), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", registryPath, err)
	}

	return nil
}
