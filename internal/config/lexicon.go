package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Lexicons holds every keyword table the extractors match against. The
// tables are data, not code: extractors receive a *Lexicons and never embed
// vocabulary of their own, so campaigns with different naming conventions can
// override any table from a YAML file without touching extraction logic.
type Lexicons struct {
	// Biomes is the closed set of biome tokens recognised in both hex-cell
	// documents and free text, in histogram tie-break order.
	Biomes []string `yaml:"biomes"`

	// DungeonTypes is scored against cluster names and content to pick a
	// dungeon's typeHint.
	DungeonTypes []string `yaml:"dungeon_types"`

	// HorrorWords feed horrorIntensity after spelling normalization. Entries
	// are singular; word matching covers the plural form, so listing both
	// would double-count a single mention.
	HorrorWords   []string          `yaml:"horror_words"`
	SpellingFixes map[string]string `yaml:"spelling_fixes"`

	// RarityRanks orders treasure rarity words; rank 3 and above upgrades a
	// dungeon's wealth classification.
	RarityRanks map[string]int `yaml:"rarity_ranks"`

	// Hostility entries are scanned in order; the highest-weight match wins.
	Hostility []HostilityEntry `yaml:"hostility"`

	// Recruitment entries map keyword hits to a recruitment class, first
	// match wins.
	Recruitment []RecruitmentEntry `yaml:"recruitment"`

	// Keyword-to-tag tables for dungeon spatial hooks and room-graph gates.
	EntranceTags map[string]string `yaml:"entrance_tags"`
	ApproachTags map[string]string `yaml:"approach_tags"`
	ExitTags     map[string]string `yaml:"exit_tags"`
	GateTags     map[string]string `yaml:"gate_tags"`

	// MarketRanks maps market keywords to none(0)/small(1)/medium(2)/large(3).
	MarketRanks map[string]int `yaml:"market_ranks"`

	// ScalePoints score explicit settlement size words; combined with the
	// infrastructure score to pick a scaleHint.
	ScalePoints map[string]int `yaml:"scale_points"`

	// Negative words subtract from a category's confidence when present.
	Negative map[Category][]string `yaml:"negative"`
}

type HostilityEntry struct {
	Word   string `yaml:"word"`
	Level  string `yaml:"level"` // hostile, neutral, or peaceful
	Weight int    `yaml:"weight"`
}

type RecruitmentEntry struct {
	Word  string `yaml:"word"`
	Class string `yaml:"class"`
}

// DefaultLexicons returns the built-in tables. Callers may replace individual
// tables wholesale via LoadLexicons; the defaults are never mutated.
func DefaultLexicons() *Lexicons {
	return &Lexicons{
		Biomes: []string{"plains", "forest", "hills", "mountains", "swamp", "desert", "water"},
		DungeonTypes: []string{
			"crypt", "lair", "temple", "shrine", "tomb", "hideout", "catacombs",
			"vault", "labyrinth", "sanctum", "keep", "fortress", "mine", "grotto",
			"sewers", "stronghold", "bowel", "caverns",
		},
		HorrorWords: []string{
			"forsaken", "cursed", "haunted", "dread", "rot", "rotting", "corpse",
			"bone", "blood", "shadow", "whisper", "scream", "unholy",
			"defiled", "gray", "cold", "dead", "lurking", "writhing",
		},
		SpellingFixes: map[string]string{
			"foresaken": "forsaken",
			"grey":      "gray",
			"cursd":     "cursed",
			"hauntd":    "haunted",
		},
		RarityRanks: map[string]int{
			"common":    0,
			"uncommon":  1,
			"rare":      2,
			"very rare": 3,
			"legendary": 4,
		},
		Hostility: []HostilityEntry{
			{Word: "slaughter", Level: "hostile", Weight: 5},
			{Word: "raid", Level: "hostile", Weight: 4},
			{Word: "ambush", Level: "hostile", Weight: 4},
			{Word: "attack", Level: "hostile", Weight: 3},
			{Word: "extort", Level: "hostile", Weight: 3},
			{Word: "enemy", Level: "hostile", Weight: 2},
			{Word: "bandit", Level: "hostile", Weight: 2},
			{Word: "protect", Level: "peaceful", Weight: 3},
			{Word: "charity", Level: "peaceful", Weight: 3},
			{Word: "heal", Level: "peaceful", Weight: 2},
			{Word: "ally", Level: "peaceful", Weight: 2},
			{Word: "trade", Level: "neutral", Weight: 1},
			{Word: "smuggle", Level: "neutral", Weight: 1},
		},
		Recruitment: []RecruitmentEntry{
			{Word: "thief", Class: "criminal"},
			{Word: "thieves", Class: "criminal"},
			{Word: "smuggler", Class: "criminal"},
			{Word: "cutpurse", Class: "criminal"},
			{Word: "mercenary", Class: "martial"},
			{Word: "soldier", Class: "martial"},
			{Word: "warrior", Class: "martial"},
			{Word: "sellsword", Class: "martial"},
			{Word: "acolyte", Class: "religious"},
			{Word: "priest", Class: "religious"},
			{Word: "zealot", Class: "religious"},
			{Word: "apprentice", Class: "arcane"},
			{Word: "mage", Class: "arcane"},
			{Word: "wizard", Class: "arcane"},
			{Word: "merchant", Class: "mercantile"},
			{Word: "trader", Class: "mercantile"},
		},
		EntranceTags: map[string]string{
			"cave":          "cave-mouth",
			"tunnel":        "tunnel",
			"sinkhole":      "sinkhole",
			"ruined temple": "ruined-temple-portal",
			"mine shaft":    "mine-shaft",
			"catacomb":      "catacomb-stair",
			"sewer":         "sewer-inlet",
		},
		ApproachTags: map[string]string{
			"river":    "riverbank",
			"ford":     "riverbank",
			"bridge":   "riverbank",
			"trail":    "trail",
			"path":     "trail",
			"road":     "trail",
			"bog":      "swamp-trail",
			"marsh":    "swamp-trail",
			"swamp":    "swamp-trail",
			"cliff":    "sea-cliff",
			"sea cave": "sea-cliff",
			"pass":     "mountain-pass",
			"ridge":    "mountain-pass",
		},
		ExitTags: map[string]string{
			"secret door":   "secret-door",
			"back entrance": "escape-tunnel",
			"escape tunnel": "escape-tunnel",
		},
		GateTags: map[string]string{
			"locked door":   "locked-doors",
			"portcullis":    "portcullis",
			"puzzle":        "puzzle-seals",
			"rune seal":     "puzzle-seals",
			"magic barrier": "arcane-barrier",
		},
		MarketRanks: map[string]int{
			"trading post":  1,
			"market stall":  1,
			"market square": 2,
			"market":        2,
			"bazaar":        3,
			"grand market":  3,
		},
		ScalePoints: map[string]int{
			"hamlet":     1,
			"village":    2,
			"town":       3,
			"city":       4,
			"metropolis": 5,
			"sprawling":  4,
			"bustling":   3,
			"tiny":       1,
		},
		Negative: map[Category][]string{
			CategoryRegion:     {"interior room", "guild charter"},
			CategorySettlement: {"uninhabited", "abandoned ruin"},
			CategoryFaction:    {"disbanded", "extinct order"},
			CategoryDungeon:    {"market day", "festival"},
		},
	}
}

// LoadLexicons reads table overrides from a YAML file and merges them onto
// the defaults. A table present in the file replaces the default table
// wholesale; absent tables keep their defaults.
func LoadLexicons(path string) (*Lexicons, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading lexicons: %w", err)
	}

	var overrides Lexicons
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("loading lexicons: %w", err)
	}

	merged := DefaultLexicons()
	if len(overrides.Biomes) > 0 {
		merged.Biomes = overrides.Biomes
	}
	if len(overrides.DungeonTypes) > 0 {
		merged.DungeonTypes = overrides.DungeonTypes
	}
	if len(overrides.HorrorWords) > 0 {
		merged.HorrorWords = overrides.HorrorWords
	}
	if len(overrides.SpellingFixes) > 0 {
		merged.SpellingFixes = overrides.SpellingFixes
	}
	if len(overrides.RarityRanks) > 0 {
		merged.RarityRanks = overrides.RarityRanks
	}
	if len(overrides.Hostility) > 0 {
		merged.Hostility = overrides.Hostility
	}
	if len(overrides.Recruitment) > 0 {
		merged.Recruitment = overrides.Recruitment
	}
	if len(overrides.EntranceTags) > 0 {
		merged.EntranceTags = overrides.EntranceTags
	}
	if len(overrides.ApproachTags) > 0 {
		merged.ApproachTags = overrides.ApproachTags
	}
	if len(overrides.ExitTags) > 0 {
		merged.ExitTags = overrides.ExitTags
	}
	if len(overrides.GateTags) > 0 {
		merged.GateTags = overrides.GateTags
	}
	if len(overrides.MarketRanks) > 0 {
		merged.MarketRanks = overrides.MarketRanks
	}
	if len(overrides.ScalePoints) > 0 {
		merged.ScalePoints = overrides.ScalePoints
	}
	if len(overrides.Negative) > 0 {
		merged.Negative = overrides.Negative
	}

	if err := validateLexicons(merged); err != nil {
		return nil, fmt.Errorf("loading lexicons: %w", err)
	}
	return merged, nil
}

// validateLexicons bounds the rank tables. The extractors index fixed name
// tables by these values, so an out-of-range override must fail at load time
// rather than surface as a per-cluster extraction failure.
func validateLexicons(l *Lexicons) error {
	for word, points := range l.ScalePoints {
		if points < 1 || points > 5 {
			return fmt.Errorf("scale point for %q must be between 1 and 5, got %d", word, points)
		}
	}
	for word, rank := range l.MarketRanks {
		if rank < 0 || rank > 3 {
			return fmt.Errorf("market rank for %q must be between 0 and 3, got %d", word, rank)
		}
	}
	for _, entry := range l.Hostility {
		switch entry.Level {
		case "hostile", "neutral", "peaceful":
		default:
			return fmt.Errorf("hostility level for %q must be hostile, neutral, or peaceful, got %q", entry.Word, entry.Level)
		}
	}
	return nil
}

// IsBiome reports whether token is one of the recognised biome tokens.
func (l *Lexicons) IsBiome(token string) bool {
	for _, biome := range l.Biomes {
		if biome == token {
			return true
		}
	}
	return false
}
