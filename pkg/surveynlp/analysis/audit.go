package analysis

import (
	"math"
	"sort"

	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/stoplist"
)

// TokenAudit collects document frequency and region spread of cleaned
// tokens. It backs the stop-list audit: tokens that appear in many answers
// from every region carry little topical signal.
type TokenAudit struct {
	totalDocs  int64
	tokenDF    map[string]int64
	tokenCats  map[string]map[string]int64
	categories map[string]struct{}
}

// NewTokenAudit creates an empty audit.
func NewTokenAudit() *TokenAudit {
	return &TokenAudit{
		tokenDF:    make(map[string]int64),
		tokenCats:  make(map[string]map[string]int64),
		categories: make(map[string]struct{}),
	}
}

// Process consumes one document's tokens and its category (the region).
func (a *TokenAudit) Process(tokens []string, category string) {
	a.totalDocs++
	if category != "" {
		a.categories[category] = struct{}{}
	}

	seen := make(map[string]struct{})
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		a.tokenDF[tok]++
		if category == "" {
			continue
		}
		if a.tokenCats[tok] == nil {
			a.tokenCats[tok] = make(map[string]int64)
		}
		a.tokenCats[tok][category]++
	}
}

// TotalDocs returns the number of processed documents.
func (a *TokenAudit) TotalDocs() int64 { return a.totalDocs }

// StopwordStats converts the audit into stoplist statistics, sorted by DF descending then token.
func (a *TokenAudit) StopwordStats() []stoplist.Stats {
	var out []stoplist.Stats
	if a.totalDocs == 0 {
		return out
	}
	for tok, df := range a.tokenDF {
		out = append(out, stoplist.Stats{
			Token:      tok,
			DF:         df,
			DFPercent:  100 * float64(df) / float64(a.totalDocs),
			IDF:        math.Log(float64(a.totalDocs) / (1 + float64(df))),
			CatEntropy: entropy(a.tokenCats[tok], len(a.categories)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DF != out[j].DF {
			return out[i].DF > out[j].DF
		}
		return out[i].Token < out[j].Token
	})
	return out
}

// entropy is the Shannon entropy of counts normalized by the maximum
// possible over n categories, so a token spread evenly over every region
// scores 1.
func entropy(counts map[string]int64, n int) float64 {
	if len(counts) == 0 || n < 2 {
		return 0
	}
	var total float64
	for _, c := range counts {
		total += float64(c)
	}
	if total == 0 {
		return 0
	}
	var h float64
	for _, c := range counts {
		p := float64(c) / total
		if p > 0 {
			h -= p * math.Log2(p)
		}
	}
	return h / math.Log2(float64(n))
}
