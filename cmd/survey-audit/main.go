package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/analysis"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/config"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/stoplist"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/survey"
)

type report struct {
	TotalDocs          int64                   `json:"total_docs"`
	EmptyDocs          int                     `json:"empty_docs"`
	StopwordCandidates []stoplistCandidateJSON `json:"stopword_candidates"`
	HighDFTokens       []highDFEntry           `json:"high_df_tokens"`
}

type stoplistCandidateJSON struct {
	Token string  `json:"token"`
	Score float64 `json:"score"`
}

type highDFEntry struct {
	Token     string  `json:"token"`
	DFPercent float64 `json:"df_percent"`
	Entropy   float64 `json:"entropy"`
}

func main() {
	var (
		input       = flag.String("input", "data/raw/survey_data.csv", "Survey CSV or JSONL")
		stoplistCfg = flag.String("stoplist", "", "Stoplist YAML (default: built-in Spanish list)")
		lexiconCfg  = flag.String("lexicon", "", "Lemma lexicon YAML (optional)")
		by          = flag.String("by", "region", "Spread dimension for entropy: region or group")
		limit       = flag.Int("limit", 20, "High-DF tokens to report")
		minDF       = flag.Float64("min-df", stoplist.DefaultThresholds().DFPercent, "Minimum document frequency percent for candidates")
		minEntropy  = flag.Float64("min-entropy", stoplist.DefaultThresholds().CatEntropy, "Minimum normalized entropy for candidates")
	)
	flag.Parse()

	if *by != "region" && *by != "group" {
		log.Fatal("--by must be region or group")
	}

	loader := config.Loader{StoplistPath: *stoplistCfg, LexiconPath: *lexiconCfg, FoldAccents: true}
	components, err := loader.Load()
	if err != nil {
		log.Fatalf("load configs: %v", err)
	}
	manager := stoplist.Default()
	if *stoplistCfg != "" {
		sl, err := config.LoadStoplist(*stoplistCfg)
		if err != nil {
			log.Fatalf("load stoplist: %v", err)
		}
		manager = sl.Manager()
	}

	ds, err := survey.Load(*input)
	if err != nil {
		log.Fatalf("load docs: %v", err)
	}
	records := ds.Records
	if !ds.Cleaned {
		records = components.Normalizer.CleanAll(ds.Raw())
	}

	audit := analysis.NewTokenAudit()
	empty := 0
	for _, r := range records {
		tokens := strings.Fields(r.ResponseClean)
		if len(tokens) == 0 {
			empty++
			continue
		}
		category := r.Region
		if *by == "group" {
			category = r.Group
		}
		audit.Process(tokens, category)
	}

	stats := audit.StopwordStats()
	rep := report{TotalDocs: audit.TotalDocs(), EmptyDocs: empty}
	rep.HighDFTokens = topHighDF(stats, *limit)

	thresholds := stoplist.Thresholds{DFPercent: *minDF, CatEntropy: *minEntropy}
	for _, cand := range manager.SuggestCandidates(stats, thresholds) {
		rep.StopwordCandidates = append(rep.StopwordCandidates, stoplistCandidateJSON{
			Token: cand.Token,
			Score: cand.Score,
		})
	}

	out, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		log.Fatalf("marshal report: %v", err)
	}
	fmt.Println(string(out))
}

func topHighDF(stats []stoplist.Stats, limit int) []highDFEntry {
	sorted := append([]stoplist.Stats(nil), stats...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].DFPercent != sorted[j].DFPercent {
			return sorted[i].DFPercent > sorted[j].DFPercent
		}
		return sorted[i].Token < sorted[j].Token
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	out := make([]highDFEntry, 0, len(sorted))
	for _, stat := range sorted {
		out = append(out, highDFEntry{
			Token:     stat.Token,
			DFPercent: stat.DFPercent,
			Entropy:   stat.CatEntropy,
		})
	}
	return out
}
