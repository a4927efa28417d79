package config

import (
	"fmt"
	"strings"

	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/engine"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/engine/cluster"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/engine/embed"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/engine/embedcluster"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/engine/lda"
)

// EmbedFlag returns the embedder flag with the configured model filled in
// when only a provider is named, e.g. "ollama" -> "ollama/all-MiniLM-L6-v2".
func (e EngineConfig) EmbedFlag() string {
	flag := strings.TrimSpace(e.Embed)
	if flag == "" || flag == "lsa" || strings.HasPrefix(flag, "lsa:") || strings.Contains(flag, "/") {
		return flag
	}
	model := e.Model
	if model == "" {
		model = embed.DefaultModel
	}
	return flag + "/" + model
}

// BuildEngine constructs the configured topic engine.
func BuildEngine(cfg EngineConfig) (engine.Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Kind {
	case EngineLDA:
		return &lda.Engine{
			Topics:         cfg.Topics,
			Iterations:     cfg.Iterations,
			Keywords:       cfg.Keywords,
			MinProbability: cfg.MinProbability,
		}, nil
	default:
		embedder, err := embed.Parse(cfg.EmbedFlag())
		if err != nil {
			return nil, fmt.Errorf("build embedder: %w", err)
		}
		return &embedcluster.Engine{
			Embedder: embedder,
			Params:   cluster.Params{Eps: cfg.Eps, MinClusterSize: cfg.MinClusterSize},
			Keywords: cfg.Keywords,
		}, nil
	}
}
