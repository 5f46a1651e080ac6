package extract

import (
	"regexp"
	"strings"

	"worldhooks/internal/cluster"
	"worldhooks/internal/config"
)

var (
	gateCountPattern  = regexp.MustCompile(`(?i)\b(\d+)\s+gates?\b|\bgates?\W{0,3}(\d+)\b`)
	harborNamePattern = regexp.MustCompile(`\b(?:[Hh]arbor|[Hh]arbour|[Pp]ort)\s+(?:of\s+)?((?:[A-Z][a-z']+)(?:\s+[A-Z][a-z']+)*)`)
)

var marketNames = []string{"none", "small", "medium", "large"}

// Settlement derives urban hooks: a size class from explicit scale words
// plus an infrastructure score, and keyword-driven flags for walls, water
// access, and trade.
type Settlement struct {
	lexicons *config.Lexicons
}

func NewSettlement(lexicons *config.Lexicons) *Settlement {
	return &Settlement{lexicons: lexicons}
}

func (x *Settlement) Category() config.Category {
	return config.CategorySettlement
}

func emptySettlementHooks() Hooks {
	return Hooks{
		"scaleHint":     "hamlet",
		"hasWalls":      false,
		"hasHarbor":     false,
		"riverAdjacent": false,
		"roadHub":       false,
		"gateCount":     0,
		"marketSize":    "none",
		"harborNames":   []string{},
		"biomeBias":     []string{},
	}
}

func (x *Settlement) Extract(c *cluster.Cluster) (Hooks, float64) {
	hooks := emptySettlementHooks()
	text := c.Text()
	lower := strings.ToLower(text)
	ev := &evidence{}

	hasWalls := containsAny(lower, "wall", "fortification", "rampart")
	hasHarbor := containsAny(lower, "harbor", "harbour", "dock", "quay")
	riverAdjacent := containsAny(lower, "river", "ford", "bridge")
	roadHub := containsAny(lower, "trail", "path", "road")
	hooks["hasWalls"] = hasWalls
	hooks["hasHarbor"] = hasHarbor
	hooks["riverAdjacent"] = riverAdjacent
	hooks["roadHub"] = roadHub

	gateCount := firstGroupInt(gateCountPattern, text)
	hooks["gateCount"] = gateCount

	marketRank := 0
	for word, rank := range x.lexicons.MarketRanks {
		if strings.Contains(lower, word) && rank > marketRank {
			marketRank = rank
		}
	}
	if marketRank >= 0 && marketRank < len(marketNames) {
		hooks["marketSize"] = marketNames[marketRank]
	}

	names := flattenMatches(harborNamePattern.FindAllStringSubmatch(text, -1))
	hooks["harborNames"] = dedupe(names)

	bias := make([]string, 0, len(x.lexicons.Biomes))
	for _, biome := range x.lexicons.Biomes {
		if countWord(lower, biome) > 0 {
			bias = append(bias, biome)
		}
	}
	hooks["biomeBias"] = bias

	scalePoints := 0
	for word, points := range x.lexicons.ScalePoints {
		if countWord(lower, word) > 0 && points > scalePoints {
			scalePoints = points
		}
	}
	infra := 0
	for _, present := range []bool{hasWalls, hasHarbor, riverAdjacent, roadHub, gateCount > 0, marketRank > 0} {
		if present {
			infra++
		}
	}
	hooks["scaleHint"] = scaleHint(scalePoints, infra)

	if scalePoints > 0 {
		ev.add(2)
	}
	ev.add(infra)
	if len(names) > 0 {
		ev.add(1)
	}
	if len(bias) > 0 {
		ev.add(1)
	}
	ev.penalize(countNegatives(lower, x.lexicons.Negative[config.CategorySettlement]))

	return hooks, ev.confidence()
}

var scaleNames = []string{"hamlet", "hamlet", "village", "town", "city", "metropolis"}

// scaleHint combines the explicit size-word rank with the infrastructure
// score. A size word sets the base class and four or more infrastructure
// signals upgrade it one step; without a size word the infrastructure score
// alone decides.
func scaleHint(scalePoints, infra int) string {
	rank := scalePoints
	if rank == 0 {
		switch {
		case infra <= 1:
			rank = 1
		case infra <= 3:
			rank = 2
		case infra <= 4:
			rank = 3
		case infra <= 5:
			rank = 4
		default:
			rank = 5
		}
	} else if infra >= 4 && rank < len(scaleNames)-1 {
		rank++
	}
	return scaleNames[rank]
}

func containsAny(lower string, words ...string) bool {
	for _, word := range words {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}
