package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"worldhooks/internal/aggregate"
	"worldhooks/internal/config"
)

// The read side serves consumers of a completed run: the MCP server and the
// inspect command. It only ever reads what the Exporter wrote.

func ReadManifest(dir string) (*Manifest, error) {
	var manifest Manifest
	if err := readJSON(filepath.Join(dir, "manifest.json"), &manifest); err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return &manifest, nil
}

func ReadEntity(dir string, category config.Category, name string) (*Entity, error) {
	path := filepath.Join(dir, "entities", string(category), SafeName(name)+".json")
	var entity Entity
	if err := readJSON(path, &entity); err != nil {
		return nil, fmt.Errorf("reading entity %s: %w", name, err)
	}
	return &entity, nil
}

func ReadSummary(dir string, category config.Category) (*aggregate.Summary, error) {
	var summary aggregate.Summary
	if err := readJSON(filepath.Join(dir, "summaries", string(category)+".json"), &summary); err != nil {
		return nil, fmt.Errorf("reading summary %s: %w", category, err)
	}
	return &summary, nil
}

// ListEntities returns every exported entity, optionally filtered to one
// category, sorted by category then name.
func ListEntities(dir string, category string) ([]Entity, error) {
	categories := config.Categories
	if category != "" {
		parsed, err := config.ParseCategory(category)
		if err != nil {
			return nil, err
		}
		categories = []config.Category{parsed}
	}

	var entities []Entity
	for _, cat := range categories {
		catDir := filepath.Join(dir, "entities", string(cat))
		items, err := os.ReadDir(catDir)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("listing entities: %w", err)
		}
		for _, item := range items {
			if item.IsDir() || filepath.Ext(item.Name()) != ".json" {
				continue
			}
			var entity Entity
			if err := readJSON(filepath.Join(catDir, item.Name()), &entity); err != nil {
				return nil, fmt.Errorf("listing entities: %w", err)
			}
			entities = append(entities, entity)
		}
	}

	sort.Slice(entities, func(i, j int) bool {
		if entities[i].Category != entities[j].Category {
			return entities[i].Category < entities[j].Category
		}
		return entities[i].Name < entities[j].Name
	})
	return entities, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
