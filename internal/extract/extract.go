package extract

import (
	"regexp"
	"strconv"
	"strings"
	"sync"

	"worldhooks/internal/cluster"
	"worldhooks/internal/config"
)

// Hooks is one entity's world_hooks structure. Every category has a fixed
// key set; the keys are always present, even when no evidence was found.
// Downstream consumers (the prompt generator and the world loader) rely on
// that shape being stable.
type Hooks map[string]any

// Extractor is the common contract of the four category extractors: turn a
// cluster into hooks plus a confidence score in [0,1].
type Extractor interface {
	Category() config.Category
	Extract(c *cluster.Cluster) (Hooks, float64)
}

// EmptyHooks returns the category's complete key set with zero values. Used
// for clusters whose extraction failed and for shape-checking in tests.
func EmptyHooks(category config.Category) Hooks {
	switch category {
	case config.CategoryRegion:
		return emptyRegionHooks()
	case config.CategorySettlement:
		return emptySettlementHooks()
	case config.CategoryFaction:
		return emptyFactionHooks()
	case config.CategoryDungeon:
		return emptyDungeonHooks()
	default:
		return Hooks{}
	}
}

// evidence accumulates integer rule weights so confidence does not depend on
// floating-point summation order when extraction runs in parallel.
type evidence struct {
	positive int
	negative int
}

func (e *evidence) add(weight int) {
	if weight > 0 {
		e.positive += weight
	}
}

func (e *evidence) penalize(weight int) {
	if weight > 0 {
		e.negative += weight
	}
}

// confidence maps accumulated weights to [0,1]. Each positive unit is worth
// 0.1 and each negative unit costs 0.15, clipped at both ends.
func (e *evidence) confidence() float64 {
	score := 0.1*float64(e.positive) - 0.15*float64(e.negative)
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func countNegatives(lower string, words []string) int {
	hits := 0
	for _, word := range words {
		if strings.Contains(lower, strings.ToLower(word)) {
			hits++
		}
	}
	return hits
}

// flattenMatches normalizes FindAllStringSubmatch output into a flat list of
// captured strings. Patterns with one capture group and patterns with
// several both come out as plain strings, so callers never branch on group
// shape.
func flattenMatches(matches [][]string) []string {
	var out []string
	for _, match := range matches {
		for _, group := range match[1:] {
			group = strings.TrimSpace(group)
			if group != "" {
				out = append(out, group)
			}
		}
	}
	return out
}

// firstGroupInt returns the first integer captured by any group of the
// pattern's first match, or 0 when nothing matches.
func firstGroupInt(re *regexp.Regexp, text string) int {
	match := re.FindStringSubmatch(text)
	if match == nil {
		return 0
	}
	for _, group := range match[1:] {
		if group == "" {
			continue
		}
		n, err := strconv.Atoi(group)
		if err == nil {
			return n
		}
	}
	return 0
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		key := strings.ToLower(value)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, value)
	}
	return out
}

func countWord(lower, word string) int {
	re := wordPattern(word)
	return len(re.FindAllString(lower, -1))
}

var wordPatterns sync.Map

// wordPattern caches compiled whole-word patterns. Extraction may run in
// parallel across clusters, hence the sync.Map.
func wordPattern(word string) *regexp.Regexp {
	if re, ok := wordPatterns.Load(word); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(word)) + `s?\b`)
	wordPatterns.Store(word, re)
	return re
}
