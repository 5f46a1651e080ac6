package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"worldhooks/internal/cluster"
	"worldhooks/internal/config"
)

var (
	// Structured encounter markup: one encounter per "#encounter" line with
	// key=value attributes. The CR fallback below only runs when a cluster
	// has none of these lines.
	encounterLinePattern = regexp.MustCompile(`(?m)^#encounter\b(.*)$`)
	encounterCRPattern   = regexp.MustCompile(`\bcr=(\d+(?:/\d+)?)`)
	encounterBossPattern = regexp.MustCompile(`\bboss="([^"]+)"|\bboss=(\S+)`)

	// Plain-text CR notation, integer or fractional, single or ranged:
	// "CR 3", "CR 1/2", "CR 5-7".
	crNotationPattern = regexp.MustCompile(`(?i)\bCR\s*(\d+(?:/\d+)?)(?:\s*-\s*(\d+(?:/\d+)?))?`)

	bossNamePattern = regexp.MustCompile(`\b((?:[A-Z][a-z']+\s+)+)(?:Boss|Chief|Lord|Queen|King)\b`)

	artObjectPattern = regexp.MustCompile(`\bart objects?\b`)
)

var wealthNames = []string{"poor", "modest", "comfortable", "rich"}

// Dungeon derives delve hooks: a type hint scored from the type lexicon, a
// horror intensity, challenge ratings from markup or plain text, treasure
// wealth, and the spatial and room-graph signals the generator turns into
// layouts.
type Dungeon struct {
	lexicons *config.Lexicons
}

func NewDungeon(lexicons *config.Lexicons) *Dungeon {
	return &Dungeon{lexicons: lexicons}
}

func (x *Dungeon) Category() config.Category {
	return config.CategoryDungeon
}

func emptyDungeonHooks() Hooks {
	return Hooks{
		"typeHint":           "none",
		"horrorIntensity":    0.0,
		"maxChallengeRating": 0.0,
		"encounterCount":     0,
		"bossNames":          []string{},
		"wealthClassification": "poor",
		"spatialHooks": Hooks{
			"entrances": []string{},
			"approach":  []string{},
			"exitTypes": []string{},
			"depthHint": "shallow",
		},
		"roomGraphSignals": Hooks{
			"roomCountEstimate": 0,
			"hasHub":            false,
			"hasLoops":          false,
			"hasDeadEnds":       false,
			"gateSignals":       []string{},
		},
	}
}

func (x *Dungeon) Extract(c *cluster.Cluster) (Hooks, float64) {
	hooks := emptyDungeonHooks()
	text := c.Text()
	lower := strings.ToLower(text)
	normalized := x.normalizeSpelling(lower)
	ev := &evidence{}

	typeHint := x.typeHint(strings.ToLower(c.Name), normalized)
	hooks["typeHint"] = typeHint
	if typeHint != "none" {
		ev.add(2)
	}

	horrorHits := 0
	for _, word := range x.lexicons.HorrorWords {
		horrorHits += countWord(normalized, word)
	}
	hooks["horrorIntensity"] = clamp01(float64(horrorHits) * 0.05)
	if horrorHits > 0 {
		ev.add(1)
	}

	maxCR, encounters, bosses := x.encounters(text)
	hooks["maxChallengeRating"] = maxCR
	hooks["encounterCount"] = encounters
	bosses = append(bosses, extractBossNames(text)...)
	hooks["bossNames"] = dedupe(bosses)
	if encounters > 0 {
		ev.add(2)
	}

	hooks["wealthClassification"] = x.wealth(normalized)

	entrances := tagHits(normalized, x.lexicons.EntranceTags)
	approach := tagHits(normalized, x.lexicons.ApproachTags)
	exits := tagHits(normalized, x.lexicons.ExitTags)
	hooks["spatialHooks"] = Hooks{
		"entrances": entrances,
		"approach":  approach,
		"exitTypes": exits,
		"depthHint": depthHint(normalized),
	}
	ev.add(len(entrances) + len(approach) + len(exits))

	gates := tagHits(normalized, x.lexicons.GateTags)
	hooks["roomGraphSignals"] = Hooks{
		"roomCountEstimate": roomCountEstimate(normalized),
		"hasHub":            containsAny(normalized, "hub", "central chamber"),
		"hasLoops":          containsAny(normalized, "loop", "circular"),
		"hasDeadEnds":       strings.Contains(normalized, "dead end"),
		"gateSignals":       gates,
	}
	ev.add(len(gates))

	ev.penalize(countNegatives(lower, x.lexicons.Negative[config.CategoryDungeon]))

	return hooks, ev.confidence()
}

// normalizeSpelling rewrites known misspellings and variants onto their
// canonical forms so the horror lexicon only needs one spelling per word.
func (x *Dungeon) normalizeSpelling(lower string) string {
	out := lower
	for from, to := range x.lexicons.SpellingFixes {
		out = wordPattern(from).ReplaceAllString(out, to)
	}
	return out
}

// typeHint scores each lexicon type: a hit in the cluster name is worth two
// content mentions. Ties resolve by lexicon order.
func (x *Dungeon) typeHint(lowerName, normalized string) string {
	best, bestScore := "none", 0
	for _, typ := range x.lexicons.DungeonTypes {
		score := countWord(normalized, typ)
		if strings.Contains(lowerName, typ) {
			score += 2
		}
		if score > bestScore {
			best, bestScore = typ, score
		}
	}
	return best
}

// encounters parses embedded encounter markup first; only when no markup
// exists does it fall back to scanning plain-text CR notation. Every parsed
// CR bound counts as one candidate, so a range contributes two.
func (x *Dungeon) encounters(text string) (float64, int, []string) {
	lines := encounterLinePattern.FindAllStringSubmatch(text, -1)
	if len(lines) > 0 {
		maxCR := 0.0
		var bosses []string
		for _, line := range lines {
			attrs := line[1]
			if m := encounterCRPattern.FindStringSubmatch(strings.ToLower(attrs)); m != nil {
				if cr, ok := parseCR(m[1]); ok && cr > maxCR {
					maxCR = cr
				}
			}
			bosses = append(bosses, flattenMatches(encounterBossPattern.FindAllStringSubmatch(attrs, -1))...)
		}
		return maxCR, len(lines), bosses
	}

	maxCR, candidates := 0.0, 0
	for _, match := range crNotationPattern.FindAllStringSubmatch(text, -1) {
		for _, group := range match[1:] {
			if group == "" {
				continue
			}
			cr, ok := parseCR(group)
			if !ok {
				continue
			}
			candidates++
			if cr > maxCR {
				maxCR = cr
			}
		}
	}
	return maxCR, candidates, nil
}

func parseCR(s string) (float64, bool) {
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err1 := strconv.Atoi(num)
		d, err2 := strconv.Atoi(den)
		if err1 != nil || err2 != nil || d == 0 {
			return 0, false
		}
		return float64(n) / float64(d), true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return float64(n), true
}

func extractBossNames(text string) []string {
	var names []string
	for _, run := range flattenMatches(bossNamePattern.FindAllStringSubmatch(text, -1)) {
		names = append(names, strings.TrimSpace(run))
	}
	return names
}

// wealth buckets treasure mentions, then upgrades one step when the rarity
// lookup reaches "rare" or at least two art objects are described.
func (x *Dungeon) wealth(normalized string) string {
	treasure := 0
	for _, word := range []string{"gold", "treasure", "hoard", "gem", "jewel", "coin"} {
		treasure += countWord(normalized, word)
	}

	tier := 0
	switch {
	case treasure == 0:
		tier = 0
	case treasure <= 2:
		tier = 1
	case treasure <= 5:
		tier = 2
	default:
		tier = 3
	}

	maxRarity := -1
	for word, rank := range x.lexicons.RarityRanks {
		if strings.Contains(normalized, word) && rank > maxRarity {
			maxRarity = rank
		}
	}
	artObjects := len(artObjectPattern.FindAllString(normalized, -1))
	if (maxRarity >= 2 || artObjects >= 2) && tier < len(wealthNames)-1 {
		tier++
	}
	return wealthNames[tier]
}

// tagHits maps keyword table hits onto their tags, deduplicated and sorted
// so output is stable regardless of map iteration order.
func tagHits(normalized string, table map[string]string) []string {
	set := make(map[string]struct{})
	for keyword, tag := range table {
		if strings.Contains(normalized, keyword) {
			set[tag] = struct{}{}
		}
	}
	tags := make([]string, 0, len(set))
	for tag := range set {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

func depthHint(normalized string) string {
	if containsAny(normalized, "third level", "deep caverns", "abyssal") {
		return "deep"
	}
	if containsAny(normalized, "second level", "sublevel") {
		return "mid"
	}
	return "shallow"
}

var roomLabelPattern = regexp.MustCompile(`\b(?:room|area|chamber)\s+(\d+)\b`)

// roomCountEstimate counts distinct numbered room labels, floored at the
// literal occurrence count of "room ".
func roomCountEstimate(normalized string) int {
	labels := make(map[string]struct{})
	for _, match := range roomLabelPattern.FindAllStringSubmatch(normalized, -1) {
		labels[match[0]] = struct{}{}
	}
	estimate := len(labels)
	if floor := strings.Count(normalized, "room "); floor > estimate {
		estimate = floor
	}
	return estimate
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
