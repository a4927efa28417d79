// Package embed provides text-to-vector embedders for the clustering engine.
//
// Two families are supported:
//   - OpenAI-compatible embedding APIs (ollama, openai, openrouter, custom)
//     serving sentence-transformer models such as all-MiniLM-L6-v2
//   - a local latent semantic analysis embedder that needs no network
package embed

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// DefaultModel is the sentence embedding model requested from remote providers.
const DefaultModel = "all-MiniLM-L6-v2"

// Embedder generates embedding vectors from text.
type Embedder interface {
	// Name identifies the embedder, e.g. "lsa:32" or "ollama/all-minilm".
	Name() string

	// Prepare lets corpus-fitted embedders learn from the documents before
	// EmbedBatch is called. Pretrained embedders ignore it.
	Prepare(ctx context.Context, corpus []string) error

	// EmbedBatch returns one vector per text. Empty texts yield nil vectors.
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)

	// Dimensions returns the vector size, or 0 before the first call.
	Dimensions() int
}

// Parse builds an embedder from a flag value: "lsa", "lsa:<dims>" or "provider/model".
func Parse(flag string) (Embedder, error) {
	flag = strings.TrimSpace(flag)
	if flag == "" || flag == "lsa" {
		return NewLSA(DefaultLSADimensions), nil
	}
	if rest, ok := strings.CutPrefix(flag, "lsa:"); ok {
		dims, err := strconv.Atoi(rest)
		if err != nil || dims <= 0 {
			return nil, fmt.Errorf("invalid lsa dimensions %q", rest)
		}
		return NewLSA(dims), nil
	}

	config, err := ParseEmbedFlag(flag)
	if err != nil {
		return nil, err
	}
	return NewClient(config)
}
