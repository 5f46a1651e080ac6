// Package export writes the engine's artifacts: one JSON file per finalized
// cluster, one rollup per category, verbatim structured blobs, and a
// manifest of everything written. Output is idempotent: unchanged inputs
// reproduce byte-identical files.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"worldhooks/internal/aggregate"
	"worldhooks/internal/config"
	"worldhooks/internal/extract"
	"worldhooks/internal/record"
)

// Entity is the per-cluster artifact shape shared with the downstream
// prompt generator and world loader.
type Entity struct {
	Name       string        `json:"name"`
	Category   string        `json:"category"`
	WorldHooks extract.Hooks `json:"worldHooks"`
	Confidence float64       `json:"confidence"`
}

// Failure records one isolated per-cluster extraction failure.
type Failure struct {
	Cluster  string `json:"cluster"`
	Category string `json:"category"`
	Reason   string `json:"reason"`
}

// Manifest enumerates every file a run wrote, plus run-level counters and
// any recorded extraction failures. Files are sorted so re-runs are
// byte-identical.
type Manifest struct {
	Files    []string        `json:"files"`
	Counters record.Snapshot `json:"counters"`
	Clusters int             `json:"clusters"`
	Failures []Failure       `json:"failures"`
}

type Exporter struct {
	dir string
}

func New(dir string) *Exporter {
	return &Exporter{dir: dir}
}

// EnsureLayout creates the output directory tree. Failure here is fatal for
// the run.
func (e *Exporter) EnsureLayout() error {
	dirs := []string{
		filepath.Join(e.dir, "summaries"),
		filepath.Join(e.dir, "structured"),
	}
	for _, category := range config.Categories {
		dirs = append(dirs, filepath.Join(e.dir, "entities", string(category)))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output layout: %w", err)
		}
	}
	return nil
}

// WriteEntity writes one finalized cluster and returns the path relative to
// the output dir, for the manifest.
func (e *Exporter) WriteEntity(entity Entity) (string, error) {
	rel := filepath.Join("entities", entity.Category, SafeName(entity.Name)+".json")
	if err := e.writeJSON(rel, entity); err != nil {
		return "", fmt.Errorf("writing entity %s: %w", entity.Name, err)
	}
	return rel, nil
}

func (e *Exporter) WriteSummary(summary aggregate.Summary) (string, error) {
	rel := filepath.Join("summaries", summary.Category+".json")
	if err := e.writeJSON(rel, summary); err != nil {
		return "", fmt.Errorf("writing summary %s: %w", summary.Category, err)
	}
	return rel, nil
}

// WriteStructured stores an opaque structured record verbatim, named by its
// own identifier.
func (e *Exporter) WriteStructured(doc *record.Structured) (string, error) {
	rel := filepath.Join("structured", SafeName(doc.ID)+".json")
	payload := append([]byte(nil), doc.Payload...)
	payload = append(payload, '\n')
	if err := e.writeFile(rel, payload); err != nil {
		return "", fmt.Errorf("writing structured record %s: %w", doc.ID, err)
	}
	return rel, nil
}

func (e *Exporter) WriteManifest(manifest *Manifest) (string, error) {
	sort.Strings(manifest.Files)
	if manifest.Failures == nil {
		manifest.Failures = []Failure{}
	}
	rel := "manifest.json"
	if err := e.writeJSON(rel, manifest); err != nil {
		return "", fmt.Errorf("writing manifest: %w", err)
	}
	return rel, nil
}

func (e *Exporter) writeJSON(rel string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return e.writeFile(rel, append(data, '\n'))
}

func (e *Exporter) writeFile(rel string, data []byte) error {
	return os.WriteFile(filepath.Join(e.dir, rel), data, 0o644)
}

// SafeName maps an entity name or record id onto a filesystem-safe file
// stem: lowercase, runs of anything outside [a-z0-9] collapsed to single
// dashes.
func SafeName(name string) string {
	lower := strings.ToLower(name)
	var b strings.Builder
	lastDash := true
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "unnamed"
	}
	return out
}
