package analysis

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/labels"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/survey"
)

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// WriteCrossTab writes one row per level: the level, its document total and
// the proportion of each topic. A total of 0 marks a level without documents.
func WriteCrossTab(w io.Writer, ct CrossTab) error {
	cw := csv.NewWriter(w)
	head := []string{string(ct.Dimension), "Total"}
	for _, id := range ct.Topics {
		head = append(head, strconv.Itoa(id))
	}
	if err := cw.Write(head); err != nil {
		return err
	}
	for i, level := range ct.Levels {
		var total int64
		for _, c := range ct.Counts[i] {
			total += c
		}
		line := []string{level, strconv.FormatInt(total, 10)}
		for _, p := range ct.Proportions[i] {
			line = append(line, formatFloat(p))
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteQuality writes the per-topic metrics with registry labels. A nil
// registry uses the built-in one.
func WriteQuality(w io.Writer, q []Quality, reg *labels.Registry) error {
	if reg == nil {
		reg = labels.Default()
	}
	cw := csv.NewWriter(w)
	head := []string{survey.ColTopic, "Label", "Category", "Size", "Mean_Probability", "Diversity"}
	if err := cw.Write(head); err != nil {
		return err
	}
	for _, m := range q {
		label, category := reg.LabelFor(m.TopicID), reg.CategoryFor(m.TopicID)
		if m.TopicID == survey.OutlierTopic {
			label, category = "Outliers", ""
		}
		line := []string{
			strconv.Itoa(m.TopicID),
			label,
			category,
			strconv.FormatInt(m.Size, 10),
			survey.FormatProbability(m.MeanProbability, m.HasProbability),
			formatFloat(m.Diversity),
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
