package record

import (
	"strings"

	"worldhooks/internal/config"
)

// Kind is the router's verdict for one record.
type Kind int

const (
	KindEmpty Kind = iota
	KindStructured
	KindFreeText
)

// Routed is the router output: exactly one of the payload fields is set,
// matching Kind. Downstream stages trust the verdict and never re-sniff.
type Routed struct {
	Kind       Kind
	Structured *Structured
	Raw        Raw
}

// Router classifies raw records once, at the head of the pipeline. It never
// fails: malformed structured content falls through to the free-text path
// and empty content is dropped with a counter bump.
type Router struct {
	lexicons *config.Lexicons
	counters *Counters
}

func NewRouter(lexicons *config.Lexicons, counters *Counters) *Router {
	return &Router{lexicons: lexicons, counters: counters}
}

func (r *Router) Route(raw Raw) Routed {
	if strings.TrimSpace(raw.Content) == "" {
		r.counters.Empty.Add(1)
		return Routed{Kind: KindEmpty, Raw: raw}
	}

	doc, err := ParseStructured(raw, r.lexicons)
	if err == nil {
		r.counters.Structured.Add(1)
		return Routed{Kind: KindStructured, Structured: doc, Raw: raw}
	}

	r.counters.FreeText.Add(1)
	return Routed{Kind: KindFreeText, Raw: raw}
}
