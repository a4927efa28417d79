package lexicon

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lexicon maps inflected Spanish forms to their lemma:
// "medicamentos" -> "medicamento", "migran" -> "migrar".
//
// A lemma always maps to itself, so applying Normalize twice gives the same
// token as applying it once unless two groups claim each other's lemma.
type Lexicon struct {
	// lemma -> all forms (lemma first)
	groups map[string][]string

	// form -> lemma
	reverseIndex map[string]string
}

// New creates an empty lexicon.
func New() *Lexicon {
	return &Lexicon{
		groups:       make(map[string][]string),
		reverseIndex: make(map[string]string),
	}
}

// LoadFromYAML loads lemma groups from a YAML file.
//
// Expected format:
//
//	lemmas:
//	  - lemma: medicamento
//	    forms: [medicamentos]
//	  - lemma: migrar
//	    forms: [migran, migra, migraron]
func LoadFromYAML(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config struct {
		Lemmas []struct {
			Lemma string   `yaml:"lemma"`
			Forms []string `yaml:"forms"`
		} `yaml:"lemmas"`
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse lexicon %s: %w", path, err)
	}

	lex := New()
	for _, entry := range config.Lemmas {
		if strings.TrimSpace(entry.Lemma) == "" {
			continue
		}
		lex.AddGroup(entry.Lemma, entry.Forms)
	}
	return lex, nil
}

// AddGroup registers forms of lemma. Re-adding a lemma replaces its forms.
func (l *Lexicon) AddGroup(lemma string, forms []string) {
	lemma = strings.ToLower(strings.TrimSpace(lemma))

	if old, exists := l.groups[lemma]; exists {
		for _, f := range old {
			delete(l.reverseIndex, f)
		}
	}

	normalized := []string{lemma}
	seen := map[string]bool{lemma: true}
	for _, f := range forms {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && !seen[f] {
			normalized = append(normalized, f)
			seen[f] = true
		}
	}

	l.groups[lemma] = normalized
	for _, f := range normalized {
		l.reverseIndex[f] = lemma
	}
}

// Normalize returns the lemma of token, or token itself when unknown.
func (l *Lexicon) Normalize(token string) string {
	if lemma, ok := l.reverseIndex[token]; ok {
		return lemma
	}
	return token
}

// Forms returns every form of the lemma token belongs to.
func (l *Lexicon) Forms(token string) []string {
	if lemma, ok := l.reverseIndex[token]; ok {
		return l.groups[lemma]
	}
	return []string{token}
}

// Len returns the number of lemma groups.
func (l *Lexicon) Len() int { return len(l.groups) }

// Map returns a copy of the lexicon with every lemma and form passed through fn.
func (l *Lexicon) Map(fn func(string) string) *Lexicon {
	out := New()
	lemmas := make([]string, 0, len(l.groups))
	for lemma := range l.groups {
		lemmas = append(lemmas, lemma)
	}
	sort.Strings(lemmas)
	for _, lemma := range lemmas {
		forms := make([]string, 0, len(l.groups[lemma]))
		for _, f := range l.groups[lemma][1:] {
			forms = append(forms, fn(f))
		}
		out.AddGroup(fn(lemma), forms)
	}
	return out
}
