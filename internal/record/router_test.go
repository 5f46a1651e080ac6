package record

import (
	"errors"
	"testing"

	"worldhooks/internal/config"
)

func newTestRouter() (*Router, *Counters) {
	counters := &Counters{}
	return NewRouter(config.DefaultLexicons(), counters), counters
}

func TestRoute(t *testing.T) {
	t.Run("whitespace content is dropped with only the empty counter", func(t *testing.T) {
		router, counters := newTestRouter()
		routed := router.Route(Raw{ID: "r1", Content: "  \n\t "})
		if routed.Kind != KindEmpty {
			t.Fatalf("expected KindEmpty, got %v", routed.Kind)
		}
		snap := counters.Snapshot()
		if snap.Empty != 1 || snap.Structured != 0 || snap.FreeText != 0 {
			t.Fatalf("unexpected counters: %+v", snap)
		}
	})

	t.Run("hex document is decoded", func(t *testing.T) {
		router, counters := newTestRouter()
		routed := router.Route(Raw{ID: "r2", Content: `{"kind":"hex","x":3,"y":-1,"biome":"forest","rivers":[0,3],"trails":[],"region":"Mistwood"}`})
		if routed.Kind != KindStructured {
			t.Fatalf("expected KindStructured, got %v", routed.Kind)
		}
		cell := routed.Structured.Hex
		if cell == nil {
			t.Fatalf("expected decoded hex cell")
		}
		if cell.X != 3 || cell.Y != -1 || cell.Biome != "forest" || cell.RegionRef != "Mistwood" {
			t.Fatalf("unexpected cell: %+v", cell)
		}
		if counters.Snapshot().Structured != 1 {
			t.Fatalf("expected structured counter bump")
		}
	})

	t.Run("opaque structured document keeps its payload verbatim", func(t *testing.T) {
		router, _ := newTestRouter()
		content := `{"kind":"note","body":"the archivist's marginalia"}`
		routed := router.Route(Raw{ID: "r3", Content: content})
		if routed.Kind != KindStructured {
			t.Fatalf("expected KindStructured, got %v", routed.Kind)
		}
		if routed.Structured.Hex != nil {
			t.Fatalf("opaque document must not decode a hex cell")
		}
		if string(routed.Structured.Payload) != content {
			t.Fatalf("payload not verbatim: %s", routed.Structured.Payload)
		}
	})

	t.Run("hex with unknown biome falls through to free text", func(t *testing.T) {
		router, counters := newTestRouter()
		routed := router.Route(Raw{ID: "r4", Content: `{"kind":"hex","x":0,"y":0,"biome":"lava","rivers":[],"trails":[]}`})
		if routed.Kind != KindFreeText {
			t.Fatalf("expected fallback to free text, got %v", routed.Kind)
		}
		if counters.Snapshot().FreeText != 1 {
			t.Fatalf("expected free-text counter bump")
		}
	})

	t.Run("hex with out-of-range edge falls through to free text", func(t *testing.T) {
		router, _ := newTestRouter()
		routed := router.Route(Raw{ID: "r5", Content: `{"kind":"hex","x":0,"y":0,"biome":"plains","rivers":[6],"trails":[]}`})
		if routed.Kind != KindFreeText {
			t.Fatalf("expected fallback to free text, got %v", routed.Kind)
		}
	})

	t.Run("broken json is free text", func(t *testing.T) {
		router, _ := newTestRouter()
		routed := router.Route(Raw{ID: "r6", Content: `{"kind": "hex", unterminated`})
		if routed.Kind != KindFreeText {
			t.Fatalf("expected free text, got %v", routed.Kind)
		}
	})

	t.Run("json without kind is free text", func(t *testing.T) {
		router, _ := newTestRouter()
		routed := router.Route(Raw{ID: "r7", Content: `{"x": 1}`})
		if routed.Kind != KindFreeText {
			t.Fatalf("expected free text, got %v", routed.Kind)
		}
	})
}

func TestParseStructured(t *testing.T) {
	lexicons := config.DefaultLexicons()

	t.Run("plain prose", func(t *testing.T) {
		_, err := ParseStructured(Raw{ID: "p1", Content: "The road winds north."}, lexicons)
		if !errors.Is(err, ErrNotStructured) {
			t.Fatalf("expected ErrNotStructured, got %v", err)
		}
	})

	t.Run("invalid hex reports ErrInvalidHex", func(t *testing.T) {
		_, err := ParseStructured(Raw{ID: "p2", Content: `{"kind":"hex","biome":"glass"}`}, lexicons)
		if !errors.Is(err, ErrInvalidHex) {
			t.Fatalf("expected ErrInvalidHex, got %v", err)
		}
	})
}
