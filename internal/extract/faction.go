package extract

import (
	"regexp"
	"strings"

	"worldhooks/internal/cluster"
	"worldhooks/internal/config"
)

var (
	memberCountPattern = regexp.MustCompile(`(?i)\b(\d+)\s+members?\b|\bmembers?\W{0,3}(\d+)\b`)

	// Two shapes on purpose: the first has a single capture group, the
	// second captures around the keyword. flattenMatches levels both.
	territoryAfterPattern  = regexp.MustCompile(`\b(?:[Cc]ontrols|[Cc]laims)\s+(?:the\s+)?((?:[A-Z][a-z']+)(?:\s+(?:of|the|[A-Z][a-z']+))*)`)
	territoryBeforePattern = regexp.MustCompile(`\b((?:[A-Z][a-z']+)(?:\s+[A-Z][a-z']+)*)\s+(?:[Tt]erritory)\b`)
)

// Faction derives organisational hooks: where a faction lives and operates
// (resolved against the name registry), how hostile it reads, and a coarse
// influence score.
type Faction struct {
	lexicons *config.Lexicons
	registry *config.NameRegistry
}

func NewFaction(lexicons *config.Lexicons, registry *config.NameRegistry) *Faction {
	return &Faction{lexicons: lexicons, registry: registry}
}

func (x *Faction) Category() config.Category {
	return config.CategoryFaction
}

func emptyFactionHooks() Hooks {
	return Hooks{
		"homeSettlement":   "",
		"operatingPlaces":  []string{},
		"hostility":        "neutral",
		"recruitmentFocus": "general",
		"memberCount":      0,
		"territories":      []string{},
		"influenceScore":   0,
	}
}

func (x *Faction) Extract(c *cluster.Cluster) (Hooks, float64) {
	hooks := emptyFactionHooks()
	text := c.Text()
	lower := strings.ToLower(text)
	ev := &evidence{}

	home := x.firstSettlement(lower)
	hooks["homeSettlement"] = home

	places := make([]string, 0, 4)
	for _, category := range []config.Category{config.CategorySettlement, config.CategoryRegion} {
		for _, name := range x.registry.Names(category) {
			if strings.Contains(lower, strings.ToLower(name)) {
				places = append(places, name)
			}
		}
	}
	hooks["operatingPlaces"] = dedupe(places)

	hostility := x.hostility(lower)
	hooks["hostility"] = hostility

	focus := "general"
	for _, entry := range x.lexicons.Recruitment {
		if countWord(lower, entry.Word) > 0 {
			focus = entry.Class
			break
		}
	}
	hooks["recruitmentFocus"] = focus

	memberCount := firstGroupInt(memberCountPattern, text)
	hooks["memberCount"] = memberCount

	territories := flattenMatches(territoryAfterPattern.FindAllStringSubmatch(text, -1))
	territories = append(territories, flattenMatches(territoryBeforePattern.FindAllStringSubmatch(text, -1))...)
	territories = dedupe(territories)
	hooks["territories"] = territories

	hooks["influenceScore"] = memberBucket(memberCount) + len(territories) + hostilityWeight(hostility)

	if home != "" {
		ev.add(2)
	}
	ev.add(len(places))
	if memberCount > 0 {
		ev.add(2)
	}
	ev.add(len(territories))
	if focus != "general" {
		ev.add(1)
	}
	ev.penalize(countNegatives(lower, x.lexicons.Negative[config.CategoryFaction]))

	return hooks, ev.confidence()
}

// firstSettlement returns the registered settlement mentioned earliest in
// the text; ties on position fall to registry order.
func (x *Faction) firstSettlement(lower string) string {
	best, bestPos := "", -1
	for _, name := range x.registry.Names(config.CategorySettlement) {
		pos := strings.Index(lower, strings.ToLower(name))
		if pos < 0 {
			continue
		}
		if bestPos < 0 || pos < bestPos {
			best, bestPos = name, pos
		}
	}
	return best
}

// hostility scans the sentiment lexicon in declaration order and keeps the
// highest-weight match.
func (x *Faction) hostility(lower string) string {
	level, weight := "neutral", 0
	for _, entry := range x.lexicons.Hostility {
		if entry.Weight > weight && countWord(lower, entry.Word) > 0 {
			level, weight = entry.Level, entry.Weight
		}
	}
	return level
}

func memberBucket(count int) int {
	switch {
	case count <= 0:
		return 0
	case count <= 20:
		return 1
	case count <= 100:
		return 2
	default:
		return 3
	}
}

func hostilityWeight(level string) int {
	switch level {
	case "hostile":
		return 2
	case "neutral":
		return 1
	default:
		return 0
	}
}
