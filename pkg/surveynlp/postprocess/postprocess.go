// Package postprocess joins engine output with the survey records and
// derives the per-topic tables.
package postprocess

import (
	"fmt"
	"sort"
	"strings"

	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/internalerr"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/survey"
)

const (
	DefaultTopNWords = 5
	DefaultTopN      = 3
)

// Assign joins records and assignments by position.
func Assign(records []survey.CleanedRecord, assignments []survey.Assignment) (survey.Table, error) {
	if len(records) != len(assignments) {
		return nil, fmt.Errorf("assign: %d records, %d assignments: %w",
			len(records), len(assignments), internalerr.ErrLengthMismatch)
	}
	table := make(survey.Table, len(records))
	for i := range records {
		table[i] = survey.Row{CleanedRecord: records[i], Assignment: assignments[i]}
	}
	return table, nil
}

// BuildTopicInfo returns one entry per topic with keywords, in ascending id
// order. The outlier topic is never reported. Topics with keywords but no
// rows get a zero count.
func BuildTopicInfo(keywords map[int][]string, table survey.Table, topNWords int) []survey.TopicInfo {
	if topNWords <= 0 {
		topNWords = DefaultTopNWords
	}

	ids := make([]int, 0, len(keywords))
	for id := range keywords {
		if id != survey.OutlierTopic {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	infos := make([]survey.TopicInfo, 0, len(ids))
	for _, id := range ids {
		words := keywords[id]
		if len(words) > topNWords {
			words = words[:topNWords]
		}
		infos = append(infos, survey.NewTopicInfo(id, words, table.Count(id)))
	}
	return infos
}

// Ranking tells how rows were ordered within a topic.
type Ranking int

const (
	// ByProbability means every row had a probability.
	ByProbability Ranking = iota
	// Mixed means scored rows came first and unscored rows followed in input order.
	Mixed
	// ByInputOrder means no row had a probability.
	ByInputOrder
)

func (r Ranking) String() string {
	switch r {
	case ByProbability:
		return "probability"
	case Mixed:
		return "mixed"
	default:
		return "input-order"
	}
}

// Rank orders rows by probability, highest first. The sort is stable so
// equal probabilities keep input order. Rows without a probability are
// placed after scored rows, in input order.
func Rank(rows []survey.Row) ([]survey.Row, Ranking) {
	out := append([]survey.Row(nil), rows...)
	scored := 0
	for _, r := range out {
		if r.HasProbability {
			scored++
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.HasProbability != b.HasProbability {
			return a.HasProbability
		}
		return a.HasProbability && a.Probability > b.Probability
	})

	switch {
	case scored == len(out):
		return out, ByProbability
	case scored == 0:
		return out, ByInputOrder
	}
	return out, Mixed
}

// worse returns the weaker of two rankings.
func worse(a, b Ranking) Ranking {
	if a > b {
		return a
	}
	return b
}

// Summarize joins the topN best ranked responses of every topic with " | ".
// The outlier topic is skipped and topics come in ascending id order. The
// returned Ranking is the weakest one used across topics, so callers can
// tell when summaries did not rank by probability.
func Summarize(table survey.Table, topN int) ([]survey.TopicSummary, Ranking) {
	if topN <= 0 {
		topN = DefaultTopN
	}
	ranking := ByProbability
	var out []survey.TopicSummary
	for _, id := range table.TopicIDs() {
		if id == survey.OutlierTopic {
			continue
		}
		rows, r := Rank(table.Rows(id))
		ranking = worse(ranking, r)
		if len(rows) > topN {
			rows = rows[:topN]
		}
		parts := make([]string, len(rows))
		for i, row := range rows {
			parts[i] = row.Response
		}
		out = append(out, survey.TopicSummary{TopicID: id, Summary: strings.Join(parts, survey.SummarySeparator)})
	}
	return out, ranking
}
