package cluster

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/e-gun/nlp"
)

// DefaultKeywords is the number of keywords kept per topic.
const DefaultKeywords = 10

// Keywords ranks the terms of each topic with class-based TF-IDF: the
// documents of a topic are concatenated into one class document, and a term
// weighs tf(t,c)/|c| * log(1 + A/f(t)) where A is the average class length
// and f(t) the term frequency over all classes. Outlier documents are ignored.
func Keywords(docs []string, labels []int, topN int) (map[int][]string, error) {
	if len(docs) != len(labels) {
		return nil, fmt.Errorf("keywords: %d docs, %d labels", len(docs), len(labels))
	}
	if topN <= 0 {
		topN = DefaultKeywords
	}

	byTopic := make(map[int][]string)
	for i, l := range labels {
		if l < 0 || docs[i] == "" {
			continue
		}
		byTopic[l] = append(byTopic[l], docs[i])
	}
	if len(byTopic) == 0 {
		return map[int][]string{}, nil
	}

	ids := make([]int, 0, len(byTopic))
	for id := range byTopic {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	classes := make([]string, len(ids))
	for c, id := range ids {
		classes[c] = strings.Join(byTopic[id], " ")
	}

	vectoriser := nlp.NewCountVectoriser()
	counts, err := vectoriser.FitTransform(classes...)
	if err != nil {
		return nil, fmt.Errorf("keywords: count terms: %w", err)
	}
	terms, nClasses := counts.Dims()

	vocab := make([]string, len(vectoriser.Vocabulary))
	for term, idx := range vectoriser.Vocabulary {
		if idx < len(vocab) {
			vocab[idx] = term
		}
	}

	classLen := make([]float64, nClasses)
	termFreq := make([]float64, terms)
	total := 0.0
	for t := 0; t < terms; t++ {
		for c := 0; c < nClasses; c++ {
			v := counts.At(t, c)
			classLen[c] += v
			termFreq[t] += v
			total += v
		}
	}
	avg := total / float64(nClasses)

	type weighted struct {
		term   string
		weight float64
	}
	out := make(map[int][]string, len(ids))
	for c, id := range ids {
		if classLen[c] == 0 {
			out[id] = nil
			continue
		}
		var ws []weighted
		for t := 0; t < terms; t++ {
			tf := counts.At(t, c)
			if tf == 0 || termFreq[t] == 0 {
				continue
			}
			w := tf / classLen[c] * math.Log(1+avg/termFreq[t])
			ws = append(ws, weighted{term: vocab[t], weight: w})
		}
		sort.Slice(ws, func(i, j int) bool {
			if ws[i].weight != ws[j].weight {
				return ws[i].weight > ws[j].weight
			}
			return ws[i].term < ws[j].term
		})
		if len(ws) > topN {
			ws = ws[:topN]
		}
		words := make([]string, len(ws))
		for i, w := range ws {
			words[i] = w.term
		}
		out[id] = words
	}
	return out, nil
}
