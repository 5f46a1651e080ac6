package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category identifies one of the four kinds of world entities the engine
// classifies. The values double as directory and file name components in
// exported artifacts, so they stay lowercase.
type Category string

const (
	CategoryRegion     Category = "region"
	CategorySettlement Category = "settlement"
	CategoryFaction    Category = "faction"
	CategoryDungeon    Category = "dungeon"
)

// Categories lists every category in declaration order. All per-category
// iteration in the engine follows this order so output is reproducible.
var Categories = []Category{
	CategoryRegion,
	CategorySettlement,
	CategoryFaction,
	CategoryDungeon,
}

func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryRegion:
		return CategoryRegion, nil
	case CategorySettlement:
		return CategorySettlement, nil
	case CategoryFaction:
		return CategoryFaction, nil
	case CategoryDungeon:
		return CategoryDungeon, nil
	default:
		return "", fmt.Errorf("unknown category: %q", s)
	}
}

// NameRegistry is the fixed catalog of canonical entity names, per category.
// It is loaded once at startup and never mutated during a run.
type NameRegistry struct {
	names map[Category][]string
}

type registryFile struct {
	Version     int      `yaml:"version"`
	Regions     []string `yaml:"regions"`
	Settlements []string `yaml:"settlements"`
	Factions    []string `yaml:"factions"`
	Dungeons    []string `yaml:"dungeons"`
}

func LoadRegistry(path string) (*NameRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading registry: %w", err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("loading registry: %w", err)
	}
	if file.Version != 1 {
		return nil, fmt.Errorf("loading registry: unsupported version: %d", file.Version)
	}

	registry, err := NewRegistry(map[Category][]string{
		CategoryRegion:     file.Regions,
		CategorySettlement: file.Settlements,
		CategoryFaction:    file.Factions,
		CategoryDungeon:    file.Dungeons,
	})
	if err != nil {
		return nil, fmt.Errorf("loading registry: %w", err)
	}
	return registry, nil
}

// NewRegistry validates and indexes the supplied name lists. Declaration
// order within each category is preserved; clustering tie-breaks depend on it.
func NewRegistry(names map[Category][]string) (*NameRegistry, error) {
	registry := &NameRegistry{names: make(map[Category][]string, len(Categories))}
	for _, category := range Categories {
		seen := make(map[string]struct{})
		list := make([]string, 0, len(names[category]))
		for i, name := range names[category] {
			if strings.TrimSpace(name) == "" {
				return nil, fmt.Errorf("%s name %d is empty", category, i)
			}
			key := strings.ToLower(name)
			if _, exists := seen[key]; exists {
				return nil, fmt.Errorf("duplicate %s name: %s", category, name)
			}
			seen[key] = struct{}{}
			list = append(list, name)
		}
		registry.names[category] = list
	}
	return registry, nil
}

// Names returns the canonical names for a category in declaration order.
// The returned slice must not be modified.
func (r *NameRegistry) Names(category Category) []string {
	return r.names[category]
}

func (r *NameRegistry) Len() int {
	total := 0
	for _, list := range r.names {
		total += len(list)
	}
	return total
}
