// Package lda is a topic engine based on latent Dirichlet allocation.
package lda

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"github.com/e-gun/nlp"
	"gonum.org/v1/gonum/mat"

	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/engine"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/survey"
)

const (
	DefaultTopics     = 8
	DefaultIterations = 50
	DefaultKeywords   = 10
)

// Engine fits an LDA model per run and assigns every document its dominant topic.
type Engine struct {
	Topics     int
	Iterations int
	Keywords   int
	// MinProbability sends documents whose dominant topic weighs less to the outlier topic.
	MinProbability float64
}

// New returns an engine with the default settings.
func New() *Engine {
	return &Engine{Topics: DefaultTopics, Iterations: DefaultIterations, Keywords: DefaultKeywords}
}

// Name returns "lda:<topics>".
func (e *Engine) Name() string { return fmt.Sprintf("lda:%d", e.Topics) }

// Infer implements engine.Engine.
func (e *Engine) Infer(ctx context.Context, docs []string) (engine.Result, error) {
	kept, index := engine.Compact(docs)
	if len(kept) == 0 {
		assignments, _ := engine.Expand(len(docs), nil, nil, nil)
		return engine.Result{Assignments: assignments, Keywords: map[int][]string{}}, nil
	}

	docsOverTopics, topicsOverWords, vocab, err := e.model(kept)
	if err != nil {
		return engine.Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return engine.Result{}, err
	}

	topics, nDocs := docsOverTopics.Dims()
	assignments := make([]survey.Assignment, nDocs)
	dists := make([][]float64, nDocs)
	for d := 0; d < nDocs; d++ {
		dists[d] = mat.Col(nil, d, docsOverTopics)
		best, weight := 0, -1.0
		for t := 0; t < topics; t++ {
			if dists[d][t] > weight {
				best, weight = t, dists[d][t]
			}
		}
		if weight < e.MinProbability {
			best = survey.OutlierTopic
		}
		assignments[d] = survey.Scored(best, weight)
	}

	keywords := topWords(topicsOverWords, vocab, e.keywords())
	full, embeddings := engine.Expand(len(docs), index, assignments, dists)
	res := engine.Result{Assignments: full, Keywords: keywords, Embeddings: embeddings}
	if err := res.Check(len(docs)); err != nil {
		return engine.Result{}, err
	}
	return res, nil
}

func (e *Engine) keywords() int {
	if e.Keywords <= 0 {
		return DefaultKeywords
	}
	return e.Keywords
}

// model builds the lda model for the corpus
func (e *Engine) model(corpus []string) (mat.Matrix, mat.Matrix, []string, error) {
	topics := e.Topics
	if topics <= 0 {
		topics = DefaultTopics
	}
	iterations := e.Iterations
	if iterations <= 0 {
		iterations = DefaultIterations
	}

	vectoriser := nlp.NewCountVectoriser()
	lda := nlp.NewLatentDirichletAllocation(topics)
	lda.Processes = runtime.NumCPU()
	lda.Iterations = iterations
	lda.TransformationPasses = max(iterations/2, 1)

	pipeline := nlp.NewPipeline(vectoriser, lda)
	docsOverTopics, err := pipeline.FitTransform(corpus...)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("model topics: %w", err)
	}

	vocab := make([]string, len(vectoriser.Vocabulary))
	for k, v := range vectoriser.Vocabulary {
		if v < len(vocab) {
			vocab[v] = k
		}
	}
	return docsOverTopics, lda.Components(), vocab, nil
}

// topWords returns the highest weighted words of every topic.
func topWords(topicsOverWords mat.Matrix, vocab []string, n int) map[int][]string {
	rows, cols := topicsOverWords.Dims()
	out := make(map[int][]string, rows)
	for t := 0; t < rows; t++ {
		idx := make([]int, 0, cols)
		for w := 0; w < cols && w < len(vocab); w++ {
			if topicsOverWords.At(t, w) > 0 {
				idx = append(idx, w)
			}
		}
		sort.Slice(idx, func(i, j int) bool {
			wi, wj := topicsOverWords.At(t, idx[i]), topicsOverWords.At(t, idx[j])
			if wi != wj {
				return wi > wj
			}
			return vocab[idx[i]] < vocab[idx[j]]
		})
		if len(idx) > n {
			idx = idx[:n]
		}
		words := make([]string, len(idx))
		for i, w := range idx {
			words[i] = vocab[w]
		}
		out[t] = words
	}
	return out
}
