package main

import (
	"flag"
	"io"
	"log"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/artifacts"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/config"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/survey"
)

func main() {
	var (
		input       = flag.String("input", "data/raw/survey_data.csv", "Raw survey CSV or JSONL")
		output      = flag.String("output", "data/processed/survey_data_clean.csv", "Cleaned CSV path")
		stoplistCfg = flag.String("stoplist", "", "Stoplist YAML (default: built-in Spanish list)")
		lexiconCfg  = flag.String("lexicon", "", "Lemma lexicon YAML (optional)")
		noFold      = flag.Bool("no-fold", false, "Keep accents")
		lang        = flag.String("lang", "es", "Language tag for number formatting")
	)
	flag.Parse()

	tag, err := language.Parse(*lang)
	if err != nil {
		log.Fatalf("--lang: %v", err)
	}
	loader := config.Loader{
		StoplistPath: *stoplistCfg,
		LexiconPath:  *lexiconCfg,
		FoldAccents:  !*noFold,
	}
	components, err := loader.Load()
	if err != nil {
		log.Fatalf("load configs: %v", err)
	}

	ds, err := survey.Load(*input)
	if err != nil {
		log.Fatalf("load input: %v", err)
	}

	cleaned := components.Normalizer.CleanAll(ds.Raw())
	empty := 0
	for _, r := range cleaned {
		if r.ResponseClean == "" {
			empty++
		}
	}

	err = artifacts.Write(*output, func(w io.Writer) error {
		return survey.WriteDataset(w, cleaned, true)
	})
	if err != nil {
		log.Fatalf("write: %v", err)
	}

	p := message.NewPrinter(tag)
	p.Printf("cleaned %d responses (%d empty after cleaning) -> %s\n", len(cleaned), empty, *output)
}
