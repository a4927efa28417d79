// Package analysis aggregates the joined table into cross-tabulations,
// topic quality metrics and representative responses.
package analysis

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/survey"
)

// Dimension is a survey attribute topics can be cross-tabulated against.
type Dimension string

const (
	ByRegion Dimension = "region"
	ByGroup  Dimension = "group"
)

func (d Dimension) of(r survey.Row) string {
	if d == ByGroup {
		return r.Group
	}
	return r.Region
}

// Analyzer aggregates rows of the joined table.
type Analyzer struct {
	totalRows   int64
	topicCounts map[int]int64
	byRegion    map[string]map[int]int64
	byGroup     map[string]map[int]int64
	probs       map[int][]float64
	responses   map[int]map[string]struct{}
}

// NewAnalyzer creates an empty analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		topicCounts: make(map[int]int64),
		byRegion:    make(map[string]map[int]int64),
		byGroup:     make(map[string]map[int]int64),
		probs:       make(map[int][]float64),
		responses:   make(map[int]map[string]struct{}),
	}
}

// Process consumes one row.
func (a *Analyzer) Process(r survey.Row) {
	a.totalRows++
	a.topicCounts[r.TopicID]++
	increment(a.byRegion, r.Region, r.TopicID)
	increment(a.byGroup, r.Group, r.TopicID)
	if r.HasProbability {
		a.probs[r.TopicID] = append(a.probs[r.TopicID], r.Probability)
	}
	if a.responses[r.TopicID] == nil {
		a.responses[r.TopicID] = make(map[string]struct{})
	}
	a.responses[r.TopicID][r.Response] = struct{}{}
}

// ProcessTable consumes every row of t.
func (a *Analyzer) ProcessTable(t survey.Table) {
	for _, r := range t {
		a.Process(r)
	}
}

func increment(m map[string]map[int]int64, key string, topic int) {
	if m[key] == nil {
		m[key] = make(map[int]int64)
	}
	m[key][topic]++
}

// Stats exposes the aggregated counts.
type Stats struct {
	TotalRows   int64
	TopicCounts map[int]int64
	ByRegion    map[string]map[int]int64
	ByGroup     map[string]map[int]int64
	Probs       map[int][]float64
	Unique      map[int]int
}

// Snapshot returns a copy of the accumulated statistics.
func (a *Analyzer) Snapshot() Stats {
	s := Stats{
		TotalRows:   a.totalRows,
		TopicCounts: make(map[int]int64, len(a.topicCounts)),
		ByRegion:    copyNested(a.byRegion),
		ByGroup:     copyNested(a.byGroup),
		Probs:       make(map[int][]float64, len(a.probs)),
		Unique:      make(map[int]int, len(a.responses)),
	}
	for t, c := range a.topicCounts {
		s.TopicCounts[t] = c
	}
	for t, p := range a.probs {
		s.Probs[t] = append([]float64(nil), p...)
	}
	for t, set := range a.responses {
		s.Unique[t] = len(set)
	}
	return s
}

func copyNested(in map[string]map[int]int64) map[string]map[int]int64 {
	out := make(map[string]map[int]int64, len(in))
	for k, inner := range in {
		out[k] = make(map[int]int64, len(inner))
		for t, c := range inner {
			out[k][t] = c
		}
	}
	return out
}

// Topics returns the topic ids seen, ascending, outliers included.
func (s Stats) Topics() []int {
	ids := make([]int, 0, len(s.TopicCounts))
	for id := range s.TopicCounts {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// CrossTab is a topic-by-level contingency table.
type CrossTab struct {
	Dimension Dimension
	// Levels are the row labels, sorted.
	Levels []string
	// Topics are the column ids, ascending, outliers included.
	Topics []int
	// Counts[i][j] counts rows with Levels[i] and Topics[j].
	Counts [][]int64
	// Proportions holds Counts normalized per row. Rows without documents are all zero.
	Proportions [][]float64
	// Empty lists levels that had no documents.
	Empty []string
}

// CrossTab builds the table for dim. Extra levels, such as every region
// the survey was run in, are included even when no row mentions them.
func (s Stats) CrossTab(dim Dimension, levels ...string) CrossTab {
	src := s.ByRegion
	if dim == ByGroup {
		src = s.ByGroup
	}

	set := make(map[string]struct{}, len(src)+len(levels))
	for l := range src {
		set[l] = struct{}{}
	}
	for _, l := range levels {
		set[l] = struct{}{}
	}
	ct := CrossTab{Dimension: dim, Topics: s.Topics()}
	for l := range set {
		ct.Levels = append(ct.Levels, l)
	}
	sort.Strings(ct.Levels)

	ct.Counts = make([][]int64, len(ct.Levels))
	ct.Proportions = make([][]float64, len(ct.Levels))
	for i, level := range ct.Levels {
		counts := make([]int64, len(ct.Topics))
		props := make([]float64, len(ct.Topics))
		var total int64
		for j, topic := range ct.Topics {
			counts[j] = src[level][topic]
			total += counts[j]
		}
		if total == 0 {
			ct.Empty = append(ct.Empty, level)
		} else {
			for j := range counts {
				props[j] = float64(counts[j]) / float64(total)
			}
		}
		ct.Counts[i] = counts
		ct.Proportions[i] = props
	}
	return ct
}

// Quality summarizes one topic.
type Quality struct {
	TopicID int
	Size    int64
	// MeanProbability is only meaningful when HasProbability is set.
	MeanProbability float64
	HasProbability  bool
	// Diversity is unique responses over size.
	Diversity float64
}

// Quality returns per-topic metrics, ascending topic id, outliers included.
func (s Stats) Quality() []Quality {
	var out []Quality
	for _, id := range s.Topics() {
		q := Quality{TopicID: id, Size: s.TopicCounts[id]}
		if p := s.Probs[id]; len(p) > 0 {
			q.MeanProbability = stat.Mean(p, nil)
			q.HasProbability = true
		}
		if q.Size > 0 {
			q.Diversity = float64(s.Unique[id]) / float64(q.Size)
		}
		out = append(out, q)
	}
	return out
}

// Analyze processes a whole table and returns its statistics.
func Analyze(t survey.Table) Stats {
	a := NewAnalyzer()
	a.ProcessTable(t)
	return a.Snapshot()
}
