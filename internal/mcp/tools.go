package mcp

import (
	"context"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"worldhooks/internal/aggregate"
	"worldhooks/internal/config"
	"worldhooks/internal/export"
	"worldhooks/internal/record"
)

type GetEntityHooksInput struct {
	Name     string `json:"name" jsonschema:"entity name"`
	Category string `json:"category" jsonschema:"region, settlement, faction, or dungeon"`
}

type ListEntitiesInput struct {
	Category string `json:"category,omitempty" jsonschema:"optional category filter"`
}

type GetCategorySummaryInput struct {
	Category string `json:"category" jsonschema:"region, settlement, faction, or dungeon"`
}

type GetManifestInput struct{}

type EntityOutput struct {
	Name       string         `json:"name"`
	Category   string         `json:"category"`
	WorldHooks map[string]any `json:"worldHooks"`
	Confidence float64        `json:"confidence"`
}

type EntitySummaryOutput struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

type ListEntitiesOutput struct {
	Entities []EntitySummaryOutput `json:"entities"`
}

type CategorySummaryOutput struct {
	Category               string             `json:"category"`
	ClusterCount           int                `json:"clusterCount"`
	VocabFrequency         map[string]int     `json:"vocabFrequency"`
	DominantValueHistogram map[string]int     `json:"dominantValueHistogram"`
	Averages               map[string]float64 `json:"averages"`
	DerivedRules           map[string]any     `json:"derivedRules"`
}

type ManifestOutput struct {
	Files    []string        `json:"files"`
	Counters record.Snapshot `json:"counters"`
	Clusters int             `json:"clusters"`
	Failures []FailureOutput `json:"failures"`
}

type FailureOutput struct {
	Cluster  string `json:"cluster"`
	Category string `json:"category"`
	Reason   string `json:"reason"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_entity_hooks",
		Description: "Retrieve the world hooks for one exported entity",
	}, s.handleGetEntityHooks)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_entities",
		Description: "List exported entities with optional category filter",
	}, s.handleListEntities)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_category_summary",
		Description: "Return the rollup statistics for one category",
	}, s.handleGetCategorySummary)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_manifest",
		Description: "Return the run manifest with files and counters",
	}, s.handleGetManifest)
}

func (s *Server) handleGetEntityHooks(ctx context.Context, req *sdk.CallToolRequest, input GetEntityHooksInput) (*sdk.CallToolResult, EntityOutput, error) {
	if input.Name == "" {
		return nil, EntityOutput{}, fmt.Errorf("name is required")
	}
	category, err := config.ParseCategory(input.Category)
	if err != nil {
		return nil, EntityOutput{}, err
	}
	entity, err := export.ReadEntity(s.dir, category, input.Name)
	if err != nil {
		return nil, EntityOutput{}, err
	}
	return nil, entityOutputFromExport(entity), nil
}

func (s *Server) handleListEntities(ctx context.Context, req *sdk.CallToolRequest, input ListEntitiesInput) (*sdk.CallToolResult, ListEntitiesOutput, error) {
	entities, err := export.ListEntities(s.dir, input.Category)
	if err != nil {
		return nil, ListEntitiesOutput{}, err
	}

	output := make([]EntitySummaryOutput, 0, len(entities))
	for _, entity := range entities {
		output = append(output, EntitySummaryOutput{
			Name:       entity.Name,
			Category:   entity.Category,
			Confidence: entity.Confidence,
		})
	}
	return nil, ListEntitiesOutput{Entities: output}, nil
}

func (s *Server) handleGetCategorySummary(ctx context.Context, req *sdk.CallToolRequest, input GetCategorySummaryInput) (*sdk.CallToolResult, CategorySummaryOutput, error) {
	category, err := config.ParseCategory(input.Category)
	if err != nil {
		return nil, CategorySummaryOutput{}, err
	}
	summary, err := export.ReadSummary(s.dir, category)
	if err != nil {
		return nil, CategorySummaryOutput{}, err
	}
	return nil, summaryOutputFromExport(summary), nil
}

func (s *Server) handleGetManifest(ctx context.Context, req *sdk.CallToolRequest, input GetManifestInput) (*sdk.CallToolResult, ManifestOutput, error) {
	manifest, err := export.ReadManifest(s.dir)
	if err != nil {
		return nil, ManifestOutput{}, err
	}

	failures := make([]FailureOutput, 0, len(manifest.Failures))
	for _, failure := range manifest.Failures {
		failures = append(failures, FailureOutput(failure))
	}
	return nil, ManifestOutput{
		Files:    append([]string{}, manifest.Files...),
		Counters: manifest.Counters,
		Clusters: manifest.Clusters,
		Failures: failures,
	}, nil
}

func entityOutputFromExport(entity *export.Entity) EntityOutput {
	if entity == nil {
		return EntityOutput{}
	}
	hooks := map[string]any{}
	for key, value := range entity.WorldHooks {
		hooks[key] = value
	}
	return EntityOutput{
		Name:       entity.Name,
		Category:   entity.Category,
		WorldHooks: hooks,
		Confidence: entity.Confidence,
	}
}

func summaryOutputFromExport(summary *aggregate.Summary) CategorySummaryOutput {
	if summary == nil {
		return CategorySummaryOutput{}
	}
	return CategorySummaryOutput{
		Category:               summary.Category,
		ClusterCount:           summary.ClusterCount,
		VocabFrequency:         summary.VocabFrequency,
		DominantValueHistogram: summary.DominantValueHistogram,
		Averages:               summary.Averages,
		DerivedRules:           summary.DerivedRules,
	}
}
