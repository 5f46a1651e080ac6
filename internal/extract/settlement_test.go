package extract

import (
	"reflect"
	"testing"

	"worldhooks/internal/cluster"
	"worldhooks/internal/config"
	"worldhooks/internal/record"
)

func settlementCluster(name, content string) *cluster.Cluster {
	return &cluster.Cluster{
		Name:     name,
		Category: config.CategorySettlement,
		Members:  []record.Raw{{ID: "s1", Content: content}},
	}
}

func TestSettlementExtract(t *testing.T) {
	extractor := NewSettlement(config.DefaultLexicons())

	t.Run("walled river town", func(t *testing.T) {
		hooks, confidence := extractor.Extract(settlementCluster("Dokar",
			"The walled town of Dokar stands above the river ford. Market stalls crowd its lanes."))

		if hooks["scaleHint"] != "town" {
			t.Fatalf("expected town, got %v", hooks["scaleHint"])
		}
		if hooks["hasWalls"] != true {
			t.Fatalf("expected hasWalls")
		}
		if hooks["riverAdjacent"] != true {
			t.Fatalf("expected riverAdjacent")
		}
		if hooks["hasHarbor"] != false || hooks["roadHub"] != false {
			t.Fatalf("unexpected harbor or road flags")
		}
		if hooks["marketSize"] != "medium" {
			t.Fatalf("expected medium market, got %v", hooks["marketSize"])
		}
		if confidence <= 0 || confidence > 1 {
			t.Fatalf("confidence out of range: %v", confidence)
		}
	})

	t.Run("gate count takes the first adjacent integer", func(t *testing.T) {
		hooks, _ := extractor.Extract(settlementCluster("Dokar",
			"Its rampart is pierced by 3 gates; the records also mention 9 gates on older maps."))
		if hooks["gateCount"] != 3 {
			t.Fatalf("expected 3, got %v", hooks["gateCount"])
		}
	})

	t.Run("gate count reads trailing integers too", func(t *testing.T) {
		hooks, _ := extractor.Extract(settlementCluster("Dokar", "gates: 5"))
		if hooks["gateCount"] != 5 {
			t.Fatalf("expected 5, got %v", hooks["gateCount"])
		}
	})

	t.Run("harbor names capture the following proper noun run", func(t *testing.T) {
		hooks, _ := extractor.Extract(settlementCluster("Meran",
			"Ships winter at Port Meran; the smaller Harbor of Gull Rock floods in spring. Port Meran never freezes."))
		want := []string{"Meran", "Gull Rock"}
		if !reflect.DeepEqual(hooks["harborNames"], want) {
			t.Fatalf("unexpected harbor names: %#v", hooks["harborNames"])
		}
	})

	t.Run("biome bias lists mentioned biomes", func(t *testing.T) {
		hooks, _ := extractor.Extract(settlementCluster("Dokar",
			"Between the swamp and the hills, with desert caravans arriving weekly."))
		want := []string{"hills", "swamp", "desert"}
		if !reflect.DeepEqual(hooks["biomeBias"], want) {
			t.Fatalf("unexpected biome bias: %#v", hooks["biomeBias"])
		}
	})

	t.Run("heavy infrastructure upgrades the size word one step", func(t *testing.T) {
		hooks, _ := extractor.Extract(settlementCluster("Dokar",
			"A village with walls, a harbor, a river ford, a trade road, and a grand market behind 2 gates."))
		if hooks["scaleHint"] != "town" {
			t.Fatalf("expected upgrade to town, got %v", hooks["scaleHint"])
		}
		if hooks["marketSize"] != "large" {
			t.Fatalf("expected large market, got %v", hooks["marketSize"])
		}
	})

	t.Run("no evidence keeps the full key set", func(t *testing.T) {
		hooks, _ := extractor.Extract(settlementCluster("Ghost", "x"))
		for key := range emptySettlementHooks() {
			if _, ok := hooks[key]; !ok {
				t.Fatalf("missing key %q", key)
			}
		}
		if hooks["scaleHint"] != "hamlet" || hooks["marketSize"] != "none" {
			t.Fatalf("unexpected defaults: %v %v", hooks["scaleHint"], hooks["marketSize"])
		}
	})
}
