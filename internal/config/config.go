package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type ProjectConfig struct {
	Project     string       `yaml:"project"`
	Version     int          `yaml:"version"`
	Source      SourceConfig `yaml:"source"`
	Output      OutputConfig `yaml:"output"`
	Registry    string       `yaml:"registry"`
	Lexicons    string       `yaml:"lexicons"`
	Parallelism int          `yaml:"parallelism"`
}

type SourceConfig struct {
	DSN string `yaml:"dsn"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return &cfg, nil
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	if strings.TrimSpace(cfg.Source.DSN) == "" {
		return fmt.Errorf("source dsn is required")
	}
	if strings.TrimSpace(cfg.Output.Dir) == "" {
		return fmt.Errorf("output dir is required")
	}
	if strings.TrimSpace(cfg.Registry) == "" {
		return fmt.Errorf("registry path is required")
	}
	if cfg.Parallelism < 0 {
		return fmt.Errorf("parallelism must not be negative")
	}
	return nil
}
