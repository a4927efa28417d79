// Package embedcluster is the default topic engine: sentence embeddings
// clustered by density, with class-based TF-IDF keywords.
package embedcluster

import (
	"context"
	"fmt"

	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/engine"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/engine/cluster"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/engine/embed"
)

// Engine embeds documents, clusters them and names the clusters.
type Engine struct {
	Embedder embed.Embedder
	Params   cluster.Params
	Keywords int
}

// New creates an engine with default clustering parameters.
func New(e embed.Embedder) *Engine {
	return &Engine{Embedder: e, Params: cluster.DefaultParams(), Keywords: cluster.DefaultKeywords}
}

// Name returns "cluster(<embedder>)".
func (e *Engine) Name() string { return "cluster(" + e.Embedder.Name() + ")" }

// Infer implements engine.Engine.
func (e *Engine) Infer(ctx context.Context, docs []string) (engine.Result, error) {
	kept, index := engine.Compact(docs)
	if len(kept) == 0 {
		assignments, _ := engine.Expand(len(docs), nil, nil, nil)
		return engine.Result{Assignments: assignments, Keywords: map[int][]string{}}, nil
	}

	if err := e.Embedder.Prepare(ctx, kept); err != nil {
		return engine.Result{}, fmt.Errorf("prepare embedder: %w", err)
	}
	vectors, err := e.Embedder.EmbedBatch(ctx, kept)
	if err != nil {
		return engine.Result{}, fmt.Errorf("embed documents: %w", err)
	}
	if len(vectors) != len(kept) {
		return engine.Result{}, fmt.Errorf("embedder returned %d vectors for %d documents", len(vectors), len(kept))
	}

	assignments := cluster.DBSCAN(vectors, e.Params)
	keywords, err := cluster.Keywords(kept, cluster.Labels(assignments), e.Keywords)
	if err != nil {
		return engine.Result{}, err
	}

	full, embeddings := engine.Expand(len(docs), index, assignments, vectors)
	res := engine.Result{Assignments: full, Keywords: keywords, Embeddings: embeddings}
	if err := res.Check(len(docs)); err != nil {
		return engine.Result{}, err
	}
	return res, nil
}
