// Package enginetest provides a deterministic engine for tests.
package enginetest

import (
	"context"

	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/engine"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/survey"
)

// Fake returns canned results. When Assign is set it is called per document,
// otherwise Assignments is returned as is (which may be misaligned on purpose).
type Fake struct {
	Assign      func(doc string) survey.Assignment
	Assignments []survey.Assignment
	Keywords    map[int][]string
	Embeddings  [][]float64
	Err         error

	// Calls records the documents of every Infer call.
	Calls [][]string
}

// Name returns "fake".
func (f *Fake) Name() string { return "fake" }

// Infer implements engine.Engine.
func (f *Fake) Infer(ctx context.Context, docs []string) (engine.Result, error) {
	f.Calls = append(f.Calls, append([]string(nil), docs...))
	if f.Err != nil {
		return engine.Result{}, f.Err
	}

	assignments := f.Assignments
	if f.Assign != nil {
		assignments = make([]survey.Assignment, len(docs))
		for i, d := range docs {
			assignments[i] = f.Assign(d)
		}
	}

	keywords := make(map[int][]string, len(f.Keywords))
	for id, words := range f.Keywords {
		keywords[id] = append([]string(nil), words...)
	}
	return engine.Result{Assignments: assignments, Keywords: keywords, Embeddings: f.Embeddings}, nil
}
