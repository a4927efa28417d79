package main

import (
	"flag"
	"io"
	"log"

	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/artifacts"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/survey"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/synth"
)

func main() {
	var (
		output = flag.String("output", "data/raw/survey_data.csv", "Output CSV path")
		n      = flag.Int("n", synth.DefaultSize, "Number of responses")
		seed   = flag.Int64("seed", 42, "Random seed")
	)
	flag.Parse()

	if *n <= 0 {
		log.Fatal("--n must be positive")
	}

	raw := synth.Default().Generate(*n, *seed)
	records := make([]survey.CleanedRecord, len(raw))
	for i, r := range raw {
		records[i] = survey.CleanedRecord{Record: r}
	}

	err := artifacts.Write(*output, func(w io.Writer) error {
		return survey.WriteDataset(w, records, false)
	})
	if err != nil {
		log.Fatalf("write dataset: %v", err)
	}
	log.Printf("wrote %d responses to %s", len(records), *output)
}
