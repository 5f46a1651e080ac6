package extract

import (
	"reflect"
	"testing"

	"worldhooks/internal/cluster"
	"worldhooks/internal/config"
	"worldhooks/internal/record"
)

func factionRegistry(t *testing.T) *config.NameRegistry {
	t.Helper()
	registry, err := config.NewRegistry(map[config.Category][]string{
		config.CategoryRegion:     {"Mistwood"},
		config.CategorySettlement: {"Village of Dokar", "Ashamar"},
		config.CategoryFaction:    {"The Red Snakes"},
	})
	if err != nil {
		t.Fatalf("building registry: %v", err)
	}
	return registry
}

func factionCluster(name, content string) *cluster.Cluster {
	return &cluster.Cluster{
		Name:     name,
		Category: config.CategoryFaction,
		Members:  []record.Raw{{ID: "f1", Content: content}},
	}
}

func TestFactionExtract(t *testing.T) {
	extractor := NewFaction(config.DefaultLexicons(), factionRegistry(t))

	t.Run("home settlement and member count", func(t *testing.T) {
		hooks, confidence := extractor.Extract(factionCluster("The Red Snakes",
			"The Red Snakes operate out of Village of Dokar. 40 members."))

		if hooks["homeSettlement"] != "Village of Dokar" {
			t.Fatalf("expected Village of Dokar, got %v", hooks["homeSettlement"])
		}
		if hooks["memberCount"] != 40 {
			t.Fatalf("expected 40 members, got %v", hooks["memberCount"])
		}
		if confidence <= 0 || confidence > 1 {
			t.Fatalf("confidence out of range: %v", confidence)
		}
	})

	t.Run("earliest mentioned settlement wins", func(t *testing.T) {
		hooks, _ := extractor.Extract(factionCluster("The Red Snakes",
			"Founded in Ashamar, long before the move to Village of Dokar."))
		if hooks["homeSettlement"] != "Ashamar" {
			t.Fatalf("expected Ashamar, got %v", hooks["homeSettlement"])
		}
	})

	t.Run("hostility, territories, and influence", func(t *testing.T) {
		hooks, _ := extractor.Extract(factionCluster("The Red Snakes",
			"The Red Snakes raid caravans out of Village of Dokar with 40 members; the gang claims the Silver Hills territory across Mistwood."))

		if hooks["hostility"] != "hostile" {
			t.Fatalf("expected hostile, got %v", hooks["hostility"])
		}
		if !reflect.DeepEqual(hooks["territories"], []string{"Silver Hills"}) {
			t.Fatalf("unexpected territories: %#v", hooks["territories"])
		}
		if !reflect.DeepEqual(hooks["operatingPlaces"], []string{"Village of Dokar", "Mistwood"}) {
			t.Fatalf("unexpected operating places: %#v", hooks["operatingPlaces"])
		}
		// 40 members bucket (2) + one territory + hostile weight (2).
		if hooks["influenceScore"] != 5 {
			t.Fatalf("expected influence 5, got %v", hooks["influenceScore"])
		}
	})

	t.Run("recruitment focus from taxonomy", func(t *testing.T) {
		hooks, _ := extractor.Extract(factionCluster("The Red Snakes",
			"Every cutpurse and smuggler in the valley answers to them."))
		if hooks["recruitmentFocus"] != "criminal" {
			t.Fatalf("expected criminal, got %v", hooks["recruitmentFocus"])
		}
	})

	t.Run("no evidence keeps the full key set and neutral defaults", func(t *testing.T) {
		hooks, _ := extractor.Extract(factionCluster("The Red Snakes", "x"))
		for key := range emptyFactionHooks() {
			if _, ok := hooks[key]; !ok {
				t.Fatalf("missing key %q", key)
			}
		}
		if hooks["hostility"] != "neutral" || hooks["homeSettlement"] != "" {
			t.Fatalf("unexpected defaults: %v %v", hooks["hostility"], hooks["homeSettlement"])
		}
		// No members, no territories, neutral weight.
		if hooks["influenceScore"] != 1 {
			t.Fatalf("expected influence 1, got %v", hooks["influenceScore"])
		}
	})
}
