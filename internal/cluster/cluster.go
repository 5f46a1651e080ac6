package cluster

import (
	"strings"

	"worldhooks/internal/config"
	"worldhooks/internal/record"
)

// Ref identifies one cluster: a (category, canonical name) pair.
type Ref struct {
	Category config.Category
	Name     string
}

// Cluster is the set of free-text records believed to describe one named
// world object. Members keep arrival order.
type Cluster struct {
	Name     string
	Category config.Category
	Members  []record.Raw
}

// Text returns the concatenated content of all members, the input every
// feature extractor works on.
func (c *Cluster) Text() string {
	var b strings.Builder
	for i, member := range c.Members {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(member.Content)
	}
	return b.String()
}

type candidate struct {
	name  string
	lower string
	index int
}

// Engine assigns free-text records to the clusters of the canonical names
// they mention. Name matching is case-insensitive substring containment.
// Within a category, a matching name that is itself a substring of a longer
// matching name is skipped for that record (longest-name-wins); remaining
// same-length conflicts resolve by registry declaration order. Assignment is
// fully deterministic for a fixed registry.
type Engine struct {
	candidates map[config.Category][]candidate
}

func NewEngine(registry *config.NameRegistry) *Engine {
	engine := &Engine{candidates: make(map[config.Category][]candidate, len(config.Categories))}
	for _, category := range config.Categories {
		names := registry.Names(category)
		list := make([]candidate, 0, len(names))
		for i, name := range names {
			list = append(list, candidate{name: name, lower: strings.ToLower(name), index: i})
		}
		engine.candidates[category] = list
	}
	return engine
}

// Assign returns every cluster the record belongs to, one per matched name.
// An empty result means the record is unclustered. A record may match names
// in several categories at once; each category is resolved independently.
func (e *Engine) Assign(content string) []Ref {
	lower := strings.ToLower(content)

	var refs []Ref
	for _, category := range config.Categories {
		matched := make([]candidate, 0, 2)
		for _, cand := range e.candidates[category] {
			if strings.Contains(lower, cand.lower) {
				matched = append(matched, cand)
			}
		}
		for _, ref := range resolve(matched) {
			refs = append(refs, Ref{Category: category, Name: ref})
		}
	}
	return refs
}

// resolve drops matches shadowed by a longer match containing them and
// orders survivors by length descending, then registry order. The sort is a
// stable insertion over the registry-ordered input, so equal lengths keep
// declaration order.
func resolve(matched []candidate) []string {
	survivors := make([]candidate, 0, len(matched))
	for _, cand := range matched {
		shadowed := false
		for _, other := range matched {
			if other.lower == cand.lower {
				continue
			}
			if len(other.lower) > len(cand.lower) && strings.Contains(other.lower, cand.lower) {
				shadowed = true
				break
			}
		}
		if !shadowed {
			survivors = append(survivors, cand)
		}
	}

	ordered := make([]candidate, 0, len(survivors))
	for _, cand := range survivors {
		pos := len(ordered)
		for i, existing := range ordered {
			if len(cand.lower) > len(existing.lower) {
				pos = i
				break
			}
		}
		ordered = append(ordered[:pos], append([]candidate{cand}, ordered[pos:]...)...)
	}

	names := make([]string, 0, len(ordered))
	for _, cand := range ordered {
		names = append(names, cand.name)
	}
	return names
}

// Set accumulates clusters during routing. Clusters are created lazily on
// first match and iterated in creation order, which is input order and
// therefore reproducible.
type Set struct {
	clusters map[Ref]*Cluster
	order    []Ref
}

func NewSet() *Set {
	return &Set{clusters: make(map[Ref]*Cluster)}
}

func (s *Set) Add(ref Ref, raw record.Raw) {
	c, ok := s.clusters[ref]
	if !ok {
		c = &Cluster{Name: ref.Name, Category: ref.Category}
		s.clusters[ref] = c
		s.order = append(s.order, ref)
	}
	c.Members = append(c.Members, raw)
}

// ByCategory returns the category's clusters in creation order.
func (s *Set) ByCategory(category config.Category) []*Cluster {
	var out []*Cluster
	for _, ref := range s.order {
		if ref.Category == category {
			out = append(out, s.clusters[ref])
		}
	}
	return out
}

func (s *Set) Len() int {
	return len(s.order)
}
