package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/internalerr"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/survey"
)

func TestCheckLengthMismatch(t *testing.T) {
	r := Result{Assignments: []survey.Assignment{survey.Scored(0, 1)}}
	if err := r.Check(2); !errors.Is(err, internalerr.ErrLengthMismatch) {
		t.Fatalf("expected length mismatch, got %v", err)
	}

	r = Result{Assignments: []survey.Assignment{survey.Scored(0, 1)}, Embeddings: [][]float64{{1}, {2}}}
	if err := r.Check(1); !errors.Is(err, internalerr.ErrLengthMismatch) {
		t.Fatalf("expected embedding mismatch, got %v", err)
	}
}

func TestCheckPrunesKeywords(t *testing.T) {
	r := Result{
		Assignments: []survey.Assignment{survey.Scored(0, 0.9), survey.Unscored(survey.OutlierTopic)},
		Keywords: map[int][]string{
			-1: {"ruido"},
			0:  {"agua"},
			5:  {"nunca", "asignado"},
		},
	}
	if err := r.Check(2); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(r.Keywords) != 1 || r.Keywords[0][0] != "agua" {
		t.Fatalf("unexpected keywords %v", r.Keywords)
	}
}

func TestCompactExpand(t *testing.T) {
	docs := []string{"agua", "", "luz", ""}
	kept, index := Compact(docs)
	if len(kept) != 2 || kept[1] != "luz" || index[1] != 2 {
		t.Fatalf("unexpected compaction %v %v", kept, index)
	}

	assignments, embeddings := Expand(len(docs), index,
		[]survey.Assignment{survey.Scored(1, 0.5), survey.Scored(0, 0.7)},
		[][]float64{{1, 0}, {0, 1}})

	if assignments[0].TopicID != 1 || assignments[2].TopicID != 0 {
		t.Fatalf("assignments not restored: %+v", assignments)
	}
	for _, i := range []int{1, 3} {
		if !assignments[i].IsOutlier() || assignments[i].HasProbability {
			t.Fatalf("empty doc %d should be an unscored outlier: %+v", i, assignments[i])
		}
		if embeddings[i] != nil {
			t.Fatalf("empty doc %d should have no embedding", i)
		}
	}
	if embeddings[2][1] != 1 {
		t.Fatalf("embeddings not restored: %v", embeddings)
	}
}

func TestCheckRejectsProbabilityOutOfRange(t *testing.T) {
	for _, p := range []float64{-0.1, 1.5, math.NaN()} {
		r := Result{Assignments: []survey.Assignment{survey.Scored(0, 0.5), survey.Scored(1, p)}}
		if err := r.Check(2); !errors.Is(err, internalerr.ErrInvalidInput) {
			t.Errorf("probability %v: expected ErrInvalidInput, got %v", p, err)
		}
	}

	r := Result{Assignments: []survey.Assignment{survey.Scored(0, 0), survey.Scored(1, 1), survey.Unscored(survey.OutlierTopic)}}
	if err := r.Check(3); err != nil {
		t.Fatalf("bounds are inclusive: %v", err)
	}
}
