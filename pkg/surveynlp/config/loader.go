package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/internalerr"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/labels"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/lexicon"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/normalize"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/stoplist"
)

// Stoplist is the stop-word file format. Terms and keep words extend the
// built-in Spanish lists unless Replace is set.
type Stoplist struct {
	Replace     bool     `yaml:"replace"`
	Terms       []string `yaml:"terms"`
	Keep        []string `yaml:"keep"`
	Boilerplate []string `yaml:"boilerplate"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}

	return &sl, nil
}

// Manager builds the stop-word manager described by the file.
func (s *Stoplist) Manager() *stoplist.Manager {
	if s.Replace {
		return stoplist.NewManager(s.Terms, s.Keep)
	}
	terms := append(stoplist.Spanish(), s.Terms...)
	keep := append(stoplist.SpanishKeep(), s.Keep...)
	return stoplist.NewManager(terms, keep)
}

// Loader loads all configuration files and constructs components
type Loader struct {
	StoplistPath string
	LexiconPath  string
	LabelsPath   string
	FoldAccents  bool
}

// Components holds all loaded configuration components
type Components struct {
	Normalizer *normalize.Normalizer
	Registry   *labels.Registry
}

// NewLoader returns a loader for the paths named in cfg.
func NewLoader(cfg Config) *Loader {
	return &Loader{
		StoplistPath: cfg.Stoplist,
		LexiconPath:  cfg.Lexicon,
		LabelsPath:   cfg.Labels,
		FoldAccents:  cfg.FoldAccents,
	}
}

// Load reads all configuration files and returns initialized components.
// Empty paths fall back to the built-in Spanish resources.
func (l *Loader) Load() (*Components, error) {
	opts := normalize.Options{FoldAccents: l.FoldAccents}

	if l.StoplistPath != "" {
		sl, err := LoadStoplist(l.StoplistPath)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		opts.Stoplist = sl.Manager()
		if len(sl.Boilerplate) > 0 {
			opts.Boilerplate = sl.Boilerplate
		}
	}

	if l.LexiconPath != "" {
		lex, err := lexicon.LoadFromYAML(l.LexiconPath)
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
		opts.Lexicon = lex
	}

	norm, err := normalize.New(opts)
	if err != nil {
		return nil, fmt.Errorf("build normalizer: %w: %v", internalerr.ErrInvalidConfig, err)
	}

	comp := &Components{Normalizer: norm}
	if l.LabelsPath != "" {
		reg, err := labels.LoadYAML(l.LabelsPath)
		if err != nil {
			return nil, fmt.Errorf("load labels: %w", err)
		}
		comp.Registry = reg
	} else {
		comp.Registry = labels.Default()
	}

	return comp, nil
}
