// Package labels maps topic ids to curated human-readable labels, categories
// and category colors.
//
// Topic numbering comes from a trained model and changes whenever the model
// is retrained, so a registry is only valid for the run it was curated
// against. Version identifies that run.
package labels

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/internalerr"
)

// Fallbacks for ids and categories the registry does not know.
const (
	OtherCategory = "Other"
	OtherColor    = "#CCCCCC"
)

// Entry is the curated description of one topic.
type Entry struct {
	Label    string
	Category string
}

// Registry is immutable once built.
type Registry struct {
	version string
	entries map[int]Entry
	colors  map[string]string
}

// New builds a registry from copies of entries and colors.
func New(version string, entries map[int]Entry, colors map[string]string) *Registry {
	r := &Registry{
		version: version,
		entries: make(map[int]Entry, len(entries)),
		colors:  make(map[string]string, len(colors)),
	}
	for id, e := range entries {
		r.entries[id] = e
	}
	for c, hex := range colors {
		r.colors[c] = hex
	}
	return r
}

// Version identifies the model run the registry was curated for.
func (r *Registry) Version() string { return r.version }

// LabelFor returns the curated label or "Topic <id>".
func (r *Registry) LabelFor(id int) string {
	if e, ok := r.entries[id]; ok && e.Label != "" {
		return e.Label
	}
	return fmt.Sprintf("Topic %d", id)
}

// CategoryFor returns the curated category or "Other".
func (r *Registry) CategoryFor(id int) string {
	if e, ok := r.entries[id]; ok && e.Category != "" {
		return e.Category
	}
	return OtherCategory
}

// ColorFor returns the category color or the neutral fallback.
func (r *Registry) ColorFor(category string) string {
	if c, ok := r.colors[category]; ok {
		return c
	}
	return OtherColor
}

// IDs returns the curated topic ids in ascending order.
func (r *Registry) IDs() []int {
	ids := make([]int, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Categories returns the categories with the ids they group, ids ascending.
func (r *Registry) Categories() map[string][]int {
	out := make(map[string][]int)
	for _, id := range r.IDs() {
		c := r.CategoryFor(id)
		out[c] = append(out[c], id)
	}
	return out
}

// Unknown returns the ids from ids that have no curated entry, ignoring
// the outlier topic. A non-empty result means the registry needs re-curation
// for this run.
func (r *Registry) Unknown(ids []int) []int {
	var out []int
	for _, id := range ids {
		if id < 0 {
			continue
		}
		if _, ok := r.entries[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// Remap returns a registry for a retrained model. mapping sends old topic
// ids to new ones; entries without a mapping are dropped. Colors carry over.
func (r *Registry) Remap(version string, mapping map[int]int) *Registry {
	entries := make(map[int]Entry, len(mapping))
	for oldID, newID := range mapping {
		if e, ok := r.entries[oldID]; ok && newID >= 0 {
			entries[newID] = e
		}
	}
	return New(version, entries, r.colors)
}

// With returns a copy of the registry with entries added or replaced.
func (r *Registry) With(entries map[int]Entry) *Registry {
	merged := make(map[int]Entry, len(r.entries)+len(entries))
	for id, e := range r.entries {
		merged[id] = e
	}
	for id, e := range entries {
		merged[id] = e
	}
	return New(r.version, merged, r.colors)
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type fileTopic struct {
	ID       int    `yaml:"id"`
	Label    string `yaml:"label"`
	Category string `yaml:"category"`
}

type fileFormat struct {
	Version string            `yaml:"version"`
	Topics  []fileTopic       `yaml:"topics"`
	Colors  map[string]string `yaml:"colors"`
}

// LoadYAML reads a registry file.
//
// Expected format:
//
//	version: run-2024-05
//	topics:
//	  - id: 0
//	    label: "Healthcare: Medication Access"
//	    category: Healthcare
//	colors:
//	  Healthcare: "#FF9999"
func LoadYAML(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read labels %s: %w", path, err)
	}

	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse labels %s: %w", path, err)
	}

	entries := make(map[int]Entry, len(f.Topics))
	for _, t := range f.Topics {
		if _, dup := entries[t.ID]; dup {
			return nil, fmt.Errorf("labels %s: duplicate topic id %d: %w", path, t.ID, internalerr.ErrInvalidConfig)
		}
		if t.ID < 0 {
			return nil, fmt.Errorf("labels %s: negative topic id %d: %w", path, t.ID, internalerr.ErrInvalidConfig)
		}
		entries[t.ID] = Entry{Label: strings.TrimSpace(t.Label), Category: strings.TrimSpace(t.Category)}
	}
	for category, hex := range f.Colors {
		if !hexColor.MatchString(hex) {
			return nil, fmt.Errorf("labels %s: color %q for %s: %w", path, hex, category, internalerr.ErrInvalidConfig)
		}
	}
	return New(f.Version, entries, f.Colors), nil
}

// Encode renders the registry in the LoadYAML format.
func (r *Registry) Encode() ([]byte, error) {
	var f fileFormat
	f.Version = r.version
	for _, id := range r.IDs() {
		e := r.entries[id]
		f.Topics = append(f.Topics, fileTopic{ID: id, Label: e.Label, Category: e.Category})
	}
	f.Colors = r.colors
	return yaml.Marshal(f)
}
