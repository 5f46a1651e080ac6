// Package aggregate computes per-category rollups over finalized world
// hooks: vocabulary histograms, dominant-value histograms, numeric averages,
// and a derived-rules block for biasing downstream procedural generation.
package aggregate

import (
	"fmt"
	"sort"

	"worldhooks/internal/config"
	"worldhooks/internal/extract"
)

// ClusterResult is one finalized cluster as seen by the aggregator. Hooks
// are immutable by this point; Build only reads them.
type ClusterResult struct {
	Name       string
	Hooks      extract.Hooks
	Confidence float64
}

// Summary is the per-category rollup. A category with zero clusters gets an
// empty but fully shaped summary: all maps non-nil, all counts zero.
type Summary struct {
	Category               string             `json:"category"`
	ClusterCount           int                `json:"clusterCount"`
	VocabFrequency         map[string]int     `json:"vocabFrequency"`
	DominantValueHistogram map[string]int     `json:"dominantValueHistogram"`
	Averages               map[string]float64 `json:"averages"`
	DerivedRules           map[string]any     `json:"derivedRules"`
}

func Build(category config.Category, results []ClusterResult) Summary {
	summary := Summary{
		Category:               string(category),
		ClusterCount:           len(results),
		VocabFrequency:         map[string]int{},
		DominantValueHistogram: map[string]int{},
		Averages:               map[string]float64{},
		DerivedRules:           map[string]any{},
	}

	sums := map[string]float64{}
	counts := map[string]int{}

	for _, result := range results {
		walkHooks("", result.Hooks, &summary, sums, counts)
		sums["confidence"] += result.Confidence
		counts["confidence"]++
	}

	for field, sum := range sums {
		summary.Averages[field] = round4(sum / float64(counts[field]))
	}

	deriveRules(category, results, &summary)
	return summary
}

// walkHooks folds one hooks structure into the rollup accumulators. Scalar
// strings land in the dominant-value histogram, string lists in the
// vocabulary table, numerics in the running sums, and booleans as 0/1 so
// their average reads as a share.
func walkHooks(prefix string, hooks extract.Hooks, summary *Summary, sums map[string]float64, counts map[string]int) {
	for key, value := range hooks {
		field := key
		if prefix != "" {
			field = prefix + "." + key
		}
		switch v := value.(type) {
		case string:
			summary.DominantValueHistogram[field+"="+v]++
		case []string:
			for _, item := range v {
				summary.VocabFrequency[field+"="+item]++
			}
		case bool:
			counts[field]++
			if v {
				sums[field]++
			}
		case int:
			sums[field] += float64(v)
			counts[field]++
		case float64:
			sums[field] += v
			counts[field]++
		case extract.Hooks:
			walkHooks(field, v, summary, sums, counts)
		}
	}
}

// deriveRules emits category-specific generation biases on top of the
// generic tables.
func deriveRules(category config.Category, results []ClusterResult, summary *Summary) {
	switch category {
	case config.CategoryRegion:
		riverBiomes := map[string]struct{}{}
		withRivers := 0
		for _, result := range results {
			if hasRivers, _ := result.Hooks["hasRivers"].(bool); hasRivers {
				withRivers++
				if biome, _ := result.Hooks["dominantBiome"].(string); biome != "" && biome != "none" {
					riverBiomes[biome] = struct{}{}
				}
			}
		}
		summary.DerivedRules["biomesWithRivers"] = sortedKeys(riverBiomes)
		summary.DerivedRules["riverLikelihood"] = share(withRivers, len(results))
	case config.CategorySettlement:
		walled := 0
		for _, result := range results {
			if hasWalls, _ := result.Hooks["hasWalls"].(bool); hasWalls {
				walled++
			}
		}
		summary.DerivedRules["preferredScale"] = dominantValue(results, "scaleHint")
		summary.DerivedRules["walledShare"] = share(walled, len(results))
	case config.CategoryFaction:
		summary.DerivedRules["dominantHostility"] = dominantValue(results, "hostility")
	case config.CategoryDungeon:
		summary.DerivedRules["preferredType"] = dominantValue(results, "typeHint")
		horror := 0.0
		for _, result := range results {
			if intensity, ok := result.Hooks["horrorIntensity"].(float64); ok {
				horror += intensity
			}
		}
		summary.DerivedRules["meanHorror"] = shareFloat(horror, len(results))
	}
}

// dominantValue returns the most frequent value of a scalar string field;
// ties break lexicographically for reproducible output.
func dominantValue(results []ClusterResult, field string) string {
	freq := map[string]int{}
	for _, result := range results {
		if value, ok := result.Hooks[field].(string); ok && value != "" {
			freq[value]++
		}
	}
	best, bestCount := "", 0
	for _, value := range sortedKeys(toSet(freq)) {
		if freq[value] > bestCount {
			best, bestCount = value, freq[value]
		}
	}
	return best
}

func toSet(freq map[string]int) map[string]struct{} {
	set := make(map[string]struct{}, len(freq))
	for key := range freq {
		set[key] = struct{}{}
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func share(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return round4(float64(n) / float64(total))
}

func shareFloat(sum float64, total int) float64 {
	if total == 0 {
		return 0
	}
	return round4(sum / float64(total))
}

// round4 keeps rollup ratios stable across platforms for byte-identical
// exports.
func round4(v float64) float64 {
	s := fmt.Sprintf("%.4f", v)
	var out float64
	fmt.Sscanf(s, "%f", &out)
	return out
}
