// Package engine defines the contract between the pipeline and a topic model.
package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/internalerr"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/survey"
)

// Engine assigns each document to a topic.
// Implementations may be embedding + clustering models, LDA, or test fakes.
type Engine interface {
	// Name identifies the engine in logs and run archives.
	Name() string

	// Infer returns one assignment per document, in input order.
	// Empty documents are assigned the outlier topic without a probability.
	Infer(ctx context.Context, docs []string) (Result, error)
}

// Result is the output of one Infer call.
type Result struct {
	// Assignments is index aligned with the documents.
	Assignments []survey.Assignment

	// Keywords holds ranked keywords for each assigned, non-outlier topic.
	Keywords map[int][]string

	// Embeddings optionally holds one vector per document; rows for
	// documents the engine did not embed are nil.
	Embeddings [][]float64
}

// Check verifies that r is aligned with n documents and that every
// probability lies in [0, 1]. It drops keyword entries for the outlier
// topic or for topics no document was assigned to.
func (r *Result) Check(n int) error {
	if len(r.Assignments) != n {
		return fmt.Errorf("engine returned %d assignments for %d documents: %w",
			len(r.Assignments), n, internalerr.ErrLengthMismatch)
	}
	if r.Embeddings != nil && len(r.Embeddings) != n {
		return fmt.Errorf("engine returned %d embeddings for %d documents: %w",
			len(r.Embeddings), n, internalerr.ErrLengthMismatch)
	}

	assigned := make(map[int]bool)
	for i, a := range r.Assignments {
		if a.HasProbability && (math.IsNaN(a.Probability) || a.Probability < 0 || a.Probability > 1) {
			return fmt.Errorf("engine returned probability %v for document %d: %w",
				a.Probability, i, internalerr.ErrInvalidInput)
		}
		assigned[a.TopicID] = true
	}
	for id := range r.Keywords {
		if id == survey.OutlierTopic || !assigned[id] {
			delete(r.Keywords, id)
		}
	}
	if r.Keywords == nil {
		r.Keywords = make(map[int][]string)
	}
	return nil
}

// Compact returns the non-empty documents and, for each of them, its index
// in docs. Engines model the compacted slice and expand results with Expand.
func Compact(docs []string) ([]string, []int) {
	kept := make([]string, 0, len(docs))
	index := make([]int, 0, len(docs))
	for i, d := range docs {
		if d == "" {
			continue
		}
		kept = append(kept, d)
		index = append(index, i)
	}
	return kept, index
}

// Expand places compacted assignments and embeddings back at their original
// positions. Positions not in index get the outlier topic without probability.
func Expand(n int, index []int, assignments []survey.Assignment, embeddings [][]float64) ([]survey.Assignment, [][]float64) {
	outA := make([]survey.Assignment, n)
	for i := range outA {
		outA[i] = survey.Unscored(survey.OutlierTopic)
	}
	var outE [][]float64
	if embeddings != nil {
		outE = make([][]float64, n)
	}
	for j, i := range index {
		outA[i] = assignments[j]
		if outE != nil && j < len(embeddings) {
			outE[i] = embeddings[j]
		}
	}
	return outA, outE
}
