package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"worldhooks/internal/config"
)

// Raw is one record as read from the store: an opaque identifier and a
// content blob that has not been classified yet.
type Raw struct {
	ID      string
	Content string
}

var (
	ErrNotStructured = errors.New("content is not a structured document")
	ErrInvalidHex    = errors.New("invalid hex cell document")
)

// Structured is a record whose content parsed as a self-describing JSON
// document. Hex cells are decoded; every other kind is carried verbatim.
type Structured struct {
	ID      string
	Kind    string
	Hex     *HexCell
	Payload json.RawMessage
}

// HexCell is the one structured document the engine interprets: a single
// cell of the hex map. Rivers and Trails list which of the six edges carry
// that feature.
type HexCell struct {
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Biome     string `json:"biome"`
	Feature   string `json:"feature,omitempty"`
	Rivers    []int  `json:"rivers"`
	Trails    []int  `json:"trails"`
	RegionRef string `json:"region,omitempty"`
	Label     string `json:"label,omitempty"`
}

type structuredHeader struct {
	Kind string `json:"kind"`
}

// ParseStructured attempts to interpret a record's content as a structured
// document. Content that is not a JSON object carrying a "kind" field
// returns ErrNotStructured; a hex document with invalid fields returns
// ErrInvalidHex. Both tell the router to fall back to free text.
func ParseStructured(raw Raw, lexicons *config.Lexicons) (*Structured, error) {
	trimmed := strings.TrimSpace(raw.Content)
	if !strings.HasPrefix(trimmed, "{") {
		return nil, ErrNotStructured
	}

	var header structuredHeader
	if err := json.Unmarshal([]byte(trimmed), &header); err != nil {
		return nil, ErrNotStructured
	}
	if strings.TrimSpace(header.Kind) == "" {
		return nil, ErrNotStructured
	}

	doc := &Structured{
		ID:      raw.ID,
		Kind:    header.Kind,
		Payload: json.RawMessage(trimmed),
	}

	if header.Kind != "hex" {
		return doc, nil
	}

	var cell HexCell
	if err := json.Unmarshal([]byte(trimmed), &cell); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}
	if err := validateHexCell(&cell, lexicons); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}
	doc.Hex = &cell
	return doc, nil
}

func validateHexCell(cell *HexCell, lexicons *config.Lexicons) error {
	if !lexicons.IsBiome(cell.Biome) {
		return fmt.Errorf("unknown biome: %q", cell.Biome)
	}
	if err := validateEdges(cell.Rivers); err != nil {
		return fmt.Errorf("rivers: %w", err)
	}
	if err := validateEdges(cell.Trails); err != nil {
		return fmt.Errorf("trails: %w", err)
	}
	return nil
}

func validateEdges(edges []int) error {
	for _, edge := range edges {
		if edge < 0 || edge > 5 {
			return fmt.Errorf("edge %d out of range", edge)
		}
	}
	return nil
}
