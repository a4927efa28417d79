package analysis

import (
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/postprocess"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/survey"
)

// Representatives returns the topN best ranked responses of every
// non-outlier topic, ascending topic id, using the same ordering as
// topic summaries.
func Representatives(t survey.Table, topN int) ([]survey.Representative, postprocess.Ranking) {
	if topN <= 0 {
		topN = postprocess.DefaultTopN
	}
	ranking := postprocess.ByProbability
	var out []survey.Representative
	for _, id := range t.TopicIDs() {
		if id == survey.OutlierTopic {
			continue
		}
		rows, r := postprocess.Rank(t.Rows(id))
		if r > ranking {
			ranking = r
		}
		if len(rows) > topN {
			rows = rows[:topN]
		}
		for _, row := range rows {
			out = append(out, survey.Representative{
				TopicID:        id,
				Response:       row.Response,
				Probability:    row.Probability,
				HasProbability: row.HasProbability,
			})
		}
	}
	return out, ranking
}
