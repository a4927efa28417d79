// Package config loads run settings and the YAML resources the normalizer
// and label registry are built from.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/engine/cluster"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/engine/embed"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/engine/lda"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/internalerr"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/postprocess"
)

// Engine kinds.
const (
	EngineCluster = "cluster"
	EngineLDA     = "lda"
)

// Config holds every setting of a pipeline run.
type Config struct {
	Input      string `yaml:"input"`
	OutputDir  string `yaml:"output_dir"`
	VisualsDir string `yaml:"visuals_dir"`
	TopNWords  int    `yaml:"top_n_words"`
	TopN       int    `yaml:"top_n"`
	Render     bool   `yaml:"render"`

	// Regions and Groups list every level the survey covered. Cross-tabs
	// include them even when no response mentions them. Empty means only
	// the levels seen in the data.
	Regions []string `yaml:"regions"`
	Groups  []string `yaml:"groups"`

	Stoplist    string `yaml:"stoplist"`
	Lexicon     string `yaml:"lexicon"`
	Labels      string `yaml:"labels"`
	FoldAccents bool   `yaml:"fold_accents"`

	// Archive is the sqlite path of the run archive; empty disables archiving.
	Archive string `yaml:"archive"`

	Engine EngineConfig `yaml:"engine"`
}

// EngineConfig selects and tunes the topic engine.
type EngineConfig struct {
	Kind string `yaml:"kind"`

	// cluster engine
	Embed          string  `yaml:"embed"`
	Model          string  `yaml:"model"`
	Eps            float64 `yaml:"eps"`
	MinClusterSize int     `yaml:"min_cluster_size"`

	// lda engine
	Topics         int     `yaml:"topics"`
	Iterations     int     `yaml:"iterations"`
	MinProbability float64 `yaml:"min_probability"`

	Keywords int `yaml:"keywords"`
}

// Default returns the documented defaults.
func Default() Config {
	params := cluster.DefaultParams()
	return Config{
		Input:       "data/raw/survey_data.csv",
		OutputDir:   "outputs",
		VisualsDir:  "visuals",
		TopNWords:   postprocess.DefaultTopNWords,
		TopN:        postprocess.DefaultTopN,
		Render:      true,
		FoldAccents: true,
		Engine: EngineConfig{
			Kind:           EngineCluster,
			Embed:          "lsa",
			Model:          embed.DefaultModel,
			Eps:            params.Eps,
			MinClusterSize: params.MinClusterSize,
			Topics:         lda.DefaultTopics,
			Iterations:     lda.DefaultIterations,
			Keywords:       cluster.DefaultKeywords,
		},
	}
}

// LoadFile reads a YAML config on top of the defaults and validates it.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w: %v", path, internalerr.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// SplitList parses a comma separated flag value, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", internalerr.ErrInvalidConfig, fmt.Sprintf(format, args...))
	}
	if c.Input == "" {
		return invalid("input is required")
	}
	if c.OutputDir == "" {
		return invalid("output_dir is required")
	}
	if c.Render && c.VisualsDir == "" {
		return invalid("visuals_dir is required when render is on")
	}
	if c.TopNWords <= 0 {
		return invalid("top_n_words must be positive, got %d", c.TopNWords)
	}
	if c.TopN <= 0 {
		return invalid("top_n must be positive, got %d", c.TopN)
	}
	for _, levels := range [][]string{c.Regions, c.Groups} {
		for _, l := range levels {
			if strings.TrimSpace(l) == "" {
				return invalid("regions and groups must not contain blank names")
			}
		}
	}
	return c.Engine.Validate()
}

// Validate checks the engine section.
func (e EngineConfig) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: engine: %s", internalerr.ErrInvalidConfig, fmt.Sprintf(format, args...))
	}
	if e.Keywords <= 0 {
		return invalid("keywords must be positive")
	}
	switch e.Kind {
	case EngineCluster:
		if e.Eps <= 0 || e.Eps > 2 {
			return invalid("eps must be in (0, 2], got %v", e.Eps)
		}
		if e.MinClusterSize < 1 {
			return invalid("min_cluster_size must be at least 1")
		}
	case EngineLDA:
		if e.Topics < 1 {
			return invalid("topics must be at least 1")
		}
		if e.Iterations < 1 {
			return invalid("iterations must be at least 1")
		}
		if e.MinProbability < 0 || e.MinProbability > 1 {
			return invalid("min_probability must be in [0, 1]")
		}
	default:
		return invalid("unknown kind %q (want %s or %s)", e.Kind, EngineCluster, EngineLDA)
	}
	return nil
}
