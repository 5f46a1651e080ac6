package extract

import (
	"regexp"
	"strings"

	"worldhooks/internal/cluster"
	"worldhooks/internal/config"
	"worldhooks/internal/record"
)

var harborMention = regexp.MustCompile(`\b(?:harbor|harbour|port)s?\b`)

// Region derives geography hooks. Hard statistics (river and trail segments)
// come only from hex cells tagged with the region's name; free-text members
// contribute biome keyword mentions when no cell data exists.
type Region struct {
	lexicons *config.Lexicons
	cells    map[string][]record.HexCell
}

func NewRegion(lexicons *config.Lexicons, cells []record.HexCell) *Region {
	byRegion := make(map[string][]record.HexCell)
	for _, cell := range cells {
		ref := strings.ToLower(strings.TrimSpace(cell.RegionRef))
		if ref == "" {
			continue
		}
		byRegion[ref] = append(byRegion[ref], cell)
	}
	return &Region{lexicons: lexicons, cells: byRegion}
}

func (x *Region) Category() config.Category {
	return config.CategoryRegion
}

func emptyRegionHooks() Hooks {
	return Hooks{
		"dominantBiome": "none",
		"hasRivers":     false,
		"hasTrails":     false,
		"harborCount":   0,
		"hasBorders":    false,
		"riverSegments": 0,
		"trailSegments": 0,
	}
}

func (x *Region) Extract(c *cluster.Cluster) (Hooks, float64) {
	hooks := emptyRegionHooks()
	lower := strings.ToLower(c.Text())
	ev := &evidence{}

	cells := x.cells[strings.ToLower(c.Name)]
	riverSegments, trailSegments := 0, 0
	for _, cell := range cells {
		riverSegments += len(cell.Rivers)
		trailSegments += len(cell.Trails)
	}
	hooks["riverSegments"] = riverSegments
	hooks["trailSegments"] = trailSegments
	hooks["hasRivers"] = riverSegments > 0
	hooks["hasTrails"] = trailSegments > 0

	hooks["dominantBiome"] = x.dominantBiome(cells, lower)

	harborCount := len(harborMention.FindAllString(lower, -1))
	hooks["harborCount"] = harborCount
	hooks["hasBorders"] = strings.Contains(lower, "border")

	ev.add(len(cells))
	if hooks["dominantBiome"] != "none" {
		ev.add(2)
	}
	if harborCount > 0 {
		ev.add(1)
	}
	if hooks["hasBorders"].(bool) {
		ev.add(1)
	}
	if len(c.Members) > 0 {
		ev.add(1)
	}
	ev.penalize(countNegatives(lower, x.lexicons.Negative[config.CategoryRegion]))

	return hooks, ev.confidence()
}

// dominantBiome prefers hex-cell evidence; biome keyword mentions in free
// text only decide when no tagged cell exists. Ties resolve by the biome
// table's declaration order.
func (x *Region) dominantBiome(cells []record.HexCell, lower string) string {
	counts := make(map[string]int)
	if len(cells) > 0 {
		for _, cell := range cells {
			counts[cell.Biome]++
		}
	} else {
		for _, biome := range x.lexicons.Biomes {
			if n := countWord(lower, biome); n > 0 {
				counts[biome] = n
			}
		}
	}

	best, bestCount := "none", 0
	for _, biome := range x.lexicons.Biomes {
		if counts[biome] > bestCount {
			best, bestCount = biome, counts[biome]
		}
	}
	return best
}
