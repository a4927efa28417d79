package postprocess

import (
	"errors"
	"testing"

	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/internalerr"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/survey"
)

func records(responses ...string) []survey.CleanedRecord {
	out := make([]survey.CleanedRecord, len(responses))
	for i, r := range responses {
		out[i] = survey.CleanedRecord{Record: survey.Record{Response: r}, ResponseClean: r}
	}
	return out
}

func TestAssign(t *testing.T) {
	table, err := Assign(records("a", "b"), []survey.Assignment{survey.Scored(1, 0.5), survey.Unscored(-1)})
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if table[0].Response != "a" || table[0].TopicID != 1 || table[1].TopicID != -1 {
		t.Fatalf("unexpected table %+v", table)
	}
}

func TestAssignLengthMismatch(t *testing.T) {
	_, err := Assign(records("a", "b", "c"), []survey.Assignment{survey.Scored(0, 1)})
	if !errors.Is(err, internalerr.ErrLengthMismatch) {
		t.Fatalf("expected length mismatch, got %v", err)
	}
}

func TestBuildTopicInfo(t *testing.T) {
	table, _ := Assign(records("a", "b", "c", "d"), []survey.Assignment{
		survey.Scored(0, 0.9), survey.Scored(0, 0.8), survey.Scored(2, 0.4), survey.Scored(-1, 0),
	})
	keywords := map[int][]string{
		2:  {"luz"},
		0:  {"agua", "potable", "acceso", "falta", "barrio", "rio", "pozo"},
		-1: {"ruido"},
		7:  {"huerfano"},
	}
	infos := BuildTopicInfo(keywords, table, 0)
	if len(infos) != 3 {
		t.Fatalf("expected 3 topics, got %+v", infos)
	}
	if infos[0].TopicID != 0 || infos[1].TopicID != 2 || infos[2].TopicID != 7 {
		t.Fatalf("topics not in ascending order: %+v", infos)
	}
	if infos[0].TopWords != "agua, potable, acceso, falta, barrio" || infos[0].Count != 2 {
		t.Fatalf("unexpected topic 0 %+v", infos[0])
	}
	if infos[2].Count != 0 {
		t.Fatalf("topic without rows should count 0, got %d", infos[2].Count)
	}

	total := 0
	for _, ti := range infos {
		total += ti.Count
	}
	if total+table.Outliers() != len(table) {
		t.Fatalf("counts %d + outliers %d != rows %d", total, table.Outliers(), len(table))
	}
}

func TestSummarizeOrdersByProbability(t *testing.T) {
	table, _ := Assign(records("a", "b", "c"), []survey.Assignment{
		survey.Scored(0, 0.5), survey.Scored(0, 0.9), survey.Scored(1, 0.99),
	})
	got, ranking := Summarize(table, 2)
	if ranking != ByProbability {
		t.Fatalf("expected probability ranking, got %v", ranking)
	}
	if len(got) != 2 || got[0].Summary != "b | a" || got[1].Summary != "c" {
		t.Fatalf("unexpected summaries %+v", got)
	}
}

func TestSummarizeTiesKeepInputOrder(t *testing.T) {
	table, _ := Assign(records("x", "y", "z", "w"), []survey.Assignment{
		survey.Scored(3, 0.7), survey.Scored(3, 0.7), survey.Scored(3, 0.7), survey.Scored(-1, 0),
	})
	got, _ := Summarize(table, 3)
	if len(got) != 1 || got[0].TopicID != 3 || got[0].Summary != "x | y | z" {
		t.Fatalf("unexpected summaries %+v", got)
	}
}

func TestSummarizeWithoutProbabilities(t *testing.T) {
	table, _ := Assign(records("a", "b", "c"), []survey.Assignment{
		survey.Unscored(0), survey.Unscored(0), survey.Scored(1, 0.2),
	})
	got, ranking := Summarize(table, 5)
	if ranking != ByInputOrder {
		t.Fatalf("expected input-order ranking to be reported, got %v", ranking)
	}
	if got[0].Summary != "a | b" {
		t.Fatalf("unexpected summary %q", got[0].Summary)
	}
}

func TestRankMixed(t *testing.T) {
	rows := []survey.Row{
		{CleanedRecord: records("u")[0], Assignment: survey.Unscored(0)},
		{CleanedRecord: records("s")[0], Assignment: survey.Scored(0, 0.1)},
	}
	got, ranking := Rank(rows)
	if ranking != Mixed {
		t.Fatalf("expected mixed ranking, got %v", ranking)
	}
	if got[0].Response != "s" || got[1].Response != "u" {
		t.Fatalf("scored rows should come first: %+v", got)
	}
	if rows[0].Response != "u" {
		t.Fatalf("Rank must not reorder its input")
	}
}
