package embed

import (
	"context"
	"fmt"

	"github.com/e-gun/nlp"
	"gonum.org/v1/gonum/mat"
)

// DefaultLSADimensions is the target size of LSA vectors.
const DefaultLSADimensions = 32

// LSA embeds documents by projecting their TF-IDF vectors onto the leading
// singular vectors of the corpus term-document matrix.
type LSA struct {
	target   int
	dims     int
	pipeline *nlp.Pipeline
}

// NewLSA creates an LSA embedder producing at most dims dimensions.
func NewLSA(dims int) *LSA {
	if dims <= 0 {
		dims = DefaultLSADimensions
	}
	return &LSA{target: dims}
}

// Name returns "lsa:<dims>".
func (l *LSA) Name() string { return fmt.Sprintf("lsa:%d", l.target) }

// Dimensions returns the fitted dimensionality; it is clamped to the corpus rank.
func (l *LSA) Dimensions() int { return l.dims }

// Prepare fits the vocabulary, TF-IDF weights and SVD on corpus.
func (l *LSA) Prepare(ctx context.Context, corpus []string) error {
	if len(corpus) == 0 {
		return fmt.Errorf("lsa: empty corpus")
	}

	vectoriser := nlp.NewCountVectoriser()
	counts, err := vectoriser.FitTransform(corpus...)
	if err != nil {
		return fmt.Errorf("lsa: count terms: %w", err)
	}
	terms, docs := counts.Dims()
	if terms == 0 {
		return fmt.Errorf("lsa: empty vocabulary")
	}

	k := min(l.target, terms, docs)
	pipeline := nlp.NewPipeline(vectoriser, nlp.NewTfidfTransformer(), nlp.NewTruncatedSVD(k))
	if _, err := pipeline.FitTransform(corpus...); err != nil {
		return fmt.Errorf("lsa: fit: %w", err)
	}
	l.pipeline = pipeline
	l.dims = k
	return ctx.Err()
}

// EmbedBatch projects texts into the fitted space.
func (l *LSA) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if l.pipeline == nil {
		return nil, fmt.Errorf("lsa: Prepare must be called before EmbedBatch")
	}

	result := make([][]float64, len(texts))
	nonEmpty := make([]string, 0, len(texts))
	indexMap := make([]int, 0, len(texts))
	for i, t := range texts {
		if t != "" {
			nonEmpty = append(nonEmpty, t)
			indexMap = append(indexMap, i)
		}
	}
	if len(nonEmpty) == 0 {
		return result, nil
	}

	projected, err := l.pipeline.Transform(nonEmpty...)
	if err != nil {
		return nil, fmt.Errorf("lsa: transform: %w", err)
	}
	for j, i := range indexMap {
		result[i] = mat.Col(nil, j, projected)
	}
	return result, ctx.Err()
}
