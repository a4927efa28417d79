package stoplist

import (
	"sort"
)

// Manager holds the stop-word set and the keep set that overrides it.
// It is read-only after construction; extend it through NewManager or Map.
type Manager struct {
	stops map[string]Reason
	keep  map[string]struct{}
}

// Reason explains why a token is a stopword
type Reason struct {
	Fixed       bool    // part of the curated list
	HighDF      bool    // high document frequency
	HighEntropy bool    // uniform distribution across regions
	IDF         float64 // inverse document frequency
	CatEntropy  float64 // normalized entropy across regions
}

// NewManager creates a manager seeded with stops; keep words are never treated as stops.
func NewManager(initialStops, keep []string) *Manager {
	m := &Manager{
		stops: make(map[string]Reason, len(initialStops)),
		keep:  make(map[string]struct{}, len(keep)),
	}
	for _, s := range initialStops {
		m.stops[s] = Reason{Fixed: true}
	}
	for _, k := range keep {
		m.keep[k] = struct{}{}
	}
	return m
}

// Default returns the Spanish stop list with its keep overrides.
func Default() *Manager {
	return NewManager(Spanish(), SpanishKeep())
}

// IsStop checks if a token is a stopword
func (m *Manager) IsStop(token string) bool {
	if _, kept := m.keep[token]; kept {
		return false
	}
	_, ok := m.stops[token]
	return ok
}

// IsKeep reports whether token is protected from stop-word removal.
func (m *Manager) IsKeep(token string) bool {
	_, ok := m.keep[token]
	return ok
}

// All returns all stopwords, sorted.
func (m *Manager) All() []string {
	result := make([]string, 0, len(m.stops))
	for s := range m.stops {
		result = append(result, s)
	}
	sort.Strings(result)
	return result
}

// KeepWords returns the keep set, sorted.
func (m *Manager) KeepWords() []string {
	result := make([]string, 0, len(m.keep))
	for s := range m.keep {
		result = append(result, s)
	}
	sort.Strings(result)
	return result
}

// Map returns a new manager with every stop and keep word passed through fn.
func (m *Manager) Map(fn func(string) string) *Manager {
	out := &Manager{
		stops: make(map[string]Reason, len(m.stops)),
		keep:  make(map[string]struct{}, len(m.keep)),
	}
	for s, r := range m.stops {
		if t := fn(s); t != "" {
			out.stops[t] = r
		}
	}
	for k := range m.keep {
		if t := fn(k); t != "" {
			out.keep[t] = struct{}{}
		}
	}
	return out
}

// Stats holds statistics for candidate evaluation
type Stats struct {
	Token      string
	DF         int64
	DFPercent  float64
	IDF        float64
	CatEntropy float64
}

// Candidate represents a candidate stopword
type Candidate struct {
	Token  string
	Reason Reason
	Score  float64 // confidence score
}

// SuggestCandidates suggests tokens that behave like stopwords in a corpus:
// frequent everywhere and evenly spread across regions. Existing stops and
// keep words are never suggested. Candidates come back by score, highest first.
func (m *Manager) SuggestCandidates(stats []Stats, thresholds Thresholds) []Candidate {
	var candidates []Candidate

	for _, s := range stats {
		if m.IsStop(s.Token) || m.IsKeep(s.Token) {
			continue
		}

		reason := Reason{
			HighDF:      s.DFPercent > thresholds.DFPercent,
			HighEntropy: s.CatEntropy > thresholds.CatEntropy,
			IDF:         s.IDF,
			CatEntropy:  s.CatEntropy,
		}
		if !reason.HighDF || !reason.HighEntropy {
			continue
		}
		candidates = append(candidates, Candidate{
			Token:  s.Token,
			Reason: reason,
			Score:  (s.DFPercent/100.0 + s.CatEntropy) / 2.0,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Token < candidates[j].Token
	})
	return candidates
}

// Thresholds defines criteria for stopword identification
type Thresholds struct {
	DFPercent  float64 // e.g., 30% - appears in 30% of documents
	CatEntropy float64 // e.g., 0.8 - high entropy across regions
}

// DefaultThresholds returns the thresholds used by the audit tool.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DFPercent:  30.0,
		CatEntropy: 0.8,
	}
}
