package analysis

import (
	"sort"

	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/survey"
)

// TopicMatch pairs a topic of a previous run with one of the current run.
type TopicMatch struct {
	Previous int
	Current  int
	Jaccard  float64
	Shared   []string
}

// MatchTopics greedily pairs topics of two runs by keyword overlap, best
// overlap first. Each topic is used at most once; pairs below minJaccard are
// dropped. Retraining renumbers topics, and the matches tell which curated
// labels can be carried over to the new numbering.
func MatchTopics(prev, curr []survey.TopicInfo, minJaccard float64) []TopicMatch {
	var candidates []TopicMatch
	for _, p := range prev {
		for _, c := range curr {
			shared, j := jaccard(p.Words, c.Words)
			if j <= 0 || j < minJaccard {
				continue
			}
			candidates = append(candidates, TopicMatch{Previous: p.TopicID, Current: c.TopicID, Jaccard: j, Shared: shared})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Jaccard != b.Jaccard {
			return a.Jaccard > b.Jaccard
		}
		if a.Previous != b.Previous {
			return a.Previous < b.Previous
		}
		return a.Current < b.Current
	})

	usedPrev := make(map[int]bool)
	usedCurr := make(map[int]bool)
	var out []TopicMatch
	for _, m := range candidates {
		if usedPrev[m.Previous] || usedCurr[m.Current] {
			continue
		}
		usedPrev[m.Previous] = true
		usedCurr[m.Current] = true
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Previous < out[j].Previous })
	return out
}

func jaccard(a, b []string) ([]string, float64) {
	setA := make(map[string]struct{}, len(a))
	for _, w := range a {
		setA[w] = struct{}{}
	}
	union := make(map[string]struct{}, len(a)+len(b))
	for w := range setA {
		union[w] = struct{}{}
	}
	var shared []string
	seenB := make(map[string]struct{}, len(b))
	for _, w := range b {
		if _, dup := seenB[w]; dup {
			continue
		}
		seenB[w] = struct{}{}
		union[w] = struct{}{}
		if _, ok := setA[w]; ok {
			shared = append(shared, w)
		}
	}
	if len(union) == 0 {
		return nil, 0
	}
	sort.Strings(shared)
	return shared, float64(len(shared)) / float64(len(union))
}
