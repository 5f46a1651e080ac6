package mcp

import (
	"context"
	"testing"

	"worldhooks/internal/aggregate"
	"worldhooks/internal/config"
	"worldhooks/internal/export"
	"worldhooks/internal/extract"
	"worldhooks/internal/record"
)

func newFixtureServer(t *testing.T) (*Server, *export.Exporter) {
	t.Helper()
	dir := t.TempDir()
	exporter := export.New(dir)
	if err := exporter.EnsureLayout(); err != nil {
		t.Fatalf("ensuring layout: %v", err)
	}
	return NewServer(dir, "test"), exporter
}

func TestGetEntityHooks(t *testing.T) {
	server, exporter := newFixtureServer(t)
	if _, err := exporter.WriteEntity(export.Entity{
		Name:       "Mistwood",
		Category:   "region",
		WorldHooks: extract.Hooks{"dominantBiome": "forest", "hasRivers": true},
		Confidence: 0.9,
	}); err != nil {
		t.Fatalf("writing entity: %v", err)
	}

	_, output, err := server.handleGetEntityHooks(context.Background(), nil,
		GetEntityHooksInput{Name: "Mistwood", Category: "region"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Name != "Mistwood" || output.Confidence != 0.9 {
		t.Fatalf("unexpected output: %+v", output)
	}
	if output.WorldHooks["dominantBiome"] != "forest" || output.WorldHooks["hasRivers"] != true {
		t.Fatalf("unexpected hooks: %#v", output.WorldHooks)
	}
}

func TestGetEntityHooks_BadInput(t *testing.T) {
	server, _ := newFixtureServer(t)

	if _, _, err := server.handleGetEntityHooks(context.Background(), nil,
		GetEntityHooksInput{Category: "region"}); err == nil {
		t.Fatalf("expected error for missing name")
	}
	if _, _, err := server.handleGetEntityHooks(context.Background(), nil,
		GetEntityHooksInput{Name: "Mistwood", Category: "castle"}); err == nil {
		t.Fatalf("expected error for unknown category")
	}
	if _, _, err := server.handleGetEntityHooks(context.Background(), nil,
		GetEntityHooksInput{Name: "Missing", Category: "region"}); err == nil {
		t.Fatalf("expected error for unknown entity")
	}
}

func TestListEntitiesTool(t *testing.T) {
	server, exporter := newFixtureServer(t)
	fixtures := []export.Entity{
		{Name: "Mistwood", Category: "region", WorldHooks: extract.Hooks{}, Confidence: 0.9},
		{Name: "Hollow Crypt", Category: "dungeon", WorldHooks: extract.Hooks{}, Confidence: 0.5},
		{Name: "Ashamar", Category: "dungeon", WorldHooks: extract.Hooks{}, Confidence: 0.1},
	}
	for _, entity := range fixtures {
		if _, err := exporter.WriteEntity(entity); err != nil {
			t.Fatalf("writing %s: %v", entity.Name, err)
		}
	}

	t.Run("unfiltered", func(t *testing.T) {
		_, output, err := server.handleListEntities(context.Background(), nil, ListEntitiesInput{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(output.Entities) != 3 {
			t.Fatalf("expected 3 entities, got %+v", output)
		}
	})

	t.Run("category filter", func(t *testing.T) {
		_, output, err := server.handleListEntities(context.Background(), nil,
			ListEntitiesInput{Category: "dungeon"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(output.Entities) != 2 || output.Entities[0].Name != "Ashamar" {
			t.Fatalf("unexpected filtered output: %+v", output)
		}
	})
}

func TestGetCategorySummary(t *testing.T) {
	server, exporter := newFixtureServer(t)
	summary := aggregate.Build(config.CategoryRegion, []aggregate.ClusterResult{{
		Name:       "Mistwood",
		Hooks:      extract.Hooks{"dominantBiome": "forest", "hasRivers": true},
		Confidence: 0.8,
	}})
	if _, err := exporter.WriteSummary(summary); err != nil {
		t.Fatalf("writing summary: %v", err)
	}

	_, output, err := server.handleGetCategorySummary(context.Background(), nil,
		GetCategorySummaryInput{Category: "region"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Category != "region" || output.ClusterCount != 1 {
		t.Fatalf("unexpected output: %+v", output)
	}
	if output.DominantValueHistogram["dominantBiome=forest"] != 1 {
		t.Fatalf("unexpected histogram: %#v", output.DominantValueHistogram)
	}

	if _, _, err := server.handleGetCategorySummary(context.Background(), nil,
		GetCategorySummaryInput{Category: "castle"}); err == nil {
		t.Fatalf("expected error for unknown category")
	}
}

func TestGetManifest(t *testing.T) {
	server, exporter := newFixtureServer(t)
	manifest := &export.Manifest{
		Files:    []string{"entities/region/mistwood.json", "manifest.json"},
		Counters: record.Snapshot{FreeText: 2, Unclustered: 1},
		Clusters: 1,
		Failures: []export.Failure{{Cluster: "Hollow Crypt", Category: "dungeon", Reason: "boom"}},
	}
	if _, err := exporter.WriteManifest(manifest); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}

	_, output, err := server.handleGetManifest(context.Background(), nil, GetManifestInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Files) != 2 || output.Clusters != 1 {
		t.Fatalf("unexpected output: %+v", output)
	}
	if output.Counters.FreeText != 2 || output.Counters.Unclustered != 1 {
		t.Fatalf("unexpected counters: %+v", output.Counters)
	}
	if len(output.Failures) != 1 || output.Failures[0].Reason != "boom" {
		t.Fatalf("unexpected failures: %#v", output.Failures)
	}
}
