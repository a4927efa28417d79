package main

import (
	"context"
	"flag"
	"io"
	"log"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/afbeltranr/surveyNLP-policylab/internal/llm"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/analysis"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/artifacts"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/labels"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/store"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/store/sqlite"
)

func main() {
	var (
		archive    = flag.String("archive", "", "SQLite run archive (required)")
		limit      = flag.Int("limit", 20, "Runs to list")
		prev       = flag.String("prev", "", "Run id the label registry was curated for")
		curr       = flag.String("curr", "", "Run id to carry labels over to")
		minJaccard = flag.Float64("min-jaccard", 0.2, "Minimum keyword overlap for a topic match")
		labelsPath = flag.String("labels", "", "Registry curated for -prev (default: built-in)")
		labelsOut  = flag.String("labels-out", "", "Write the remapped registry for -curr here")
		lang       = flag.String("lang", "es", "Language tag for number formatting")
		llmBase    = flag.String("llm-base", "", "Optional: OpenAI-compatible API root (e.g. http://localhost:8080/v1/) to draft labels for unmatched topics")
		llmModel   = flag.String("llm-model", "", "Optional: chat model for label drafts")
		llmAPIKey  = flag.String("llm-api-key", "", "Optional: API key for the chat endpoint")
	)
	flag.Parse()

	tag, err := language.Parse(*lang)
	if err != nil {
		log.Fatalf("--lang: %v", err)
	}
	if *archive == "" {
		log.Fatal("--archive required")
	}
	if (*prev == "") != (*curr == "") {
		log.Fatal("--prev and --curr go together")
	}

	ctx := context.Background()
	st, err := sqlite.OpenSQLite(ctx, *archive)
	if err != nil {
		log.Fatalf("open archive: %v", err)
	}
	defer st.Close()

	p := message.NewPrinter(tag)

	if *prev == "" {
		runs, err := st.ListRuns(ctx, *limit)
		if err != nil {
			log.Fatalf("list runs: %v", err)
		}
		for _, r := range runs {
			p.Printf("%s  %s  %-22s docs=%d topics=%d outliers=%d registry=%s\n",
				r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Engine, r.Docs, r.Topics, r.Outliers, r.RegistryVersion)
		}
		return
	}

	before, err := st.LoadRun(ctx, *prev)
	if err != nil {
		log.Fatalf("load %s: %v", *prev, err)
	}
	after, err := st.LoadRun(ctx, *curr)
	if err != nil {
		log.Fatalf("load %s: %v", *curr, err)
	}

	reg := labels.Default()
	if *labelsPath != "" {
		if reg, err = labels.LoadYAML(*labelsPath); err != nil {
			log.Fatalf("load labels: %v", err)
		}
	}

	matches := analysis.MatchTopics(before.Topics, after.Topics, *minJaccard)
	mapping := make(map[int]int, len(matches))
	for _, m := range matches {
		mapping[m.Previous] = m.Current
		p.Printf("%3d -> %3d  jaccard=%.2f  %-40s shared=%v\n", m.Previous, m.Current, m.Jaccard, reg.LabelFor(m.Previous), m.Shared)
	}
	p.Printf("%d of %d topics matched\n", len(matches), len(after.Topics))

	if *labelsOut == "" {
		return
	}
	next := reg.Remap(after.Run.ID, mapping)
	next = draftLabels(ctx, next, after, reg, *llmBase, *llmModel, *llmAPIKey)
	data, err := next.Encode()
	if err != nil {
		log.Fatalf("encode labels: %v", err)
	}
	if err := artifacts.Write(*labelsOut, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	}); err != nil {
		log.Fatalf("write labels: %v", err)
	}
	log.Printf("wrote remapped registry to %s; review unmatched topics before use", *labelsOut)
}

// draftLabels asks the chat endpoint for labels of topics the remapped
// registry does not cover. Failures are logged and the topic stays unlabeled.
func draftLabels(ctx context.Context, reg *labels.Registry, run store.Archive, curated *labels.Registry, baseURL, model, apiKey string) *labels.Registry {
	if baseURL == "" || model == "" {
		return reg
	}
	ids := make([]int, len(run.Topics))
	for i, t := range run.Topics {
		ids[i] = t.TopicID
	}
	missing := reg.Unknown(ids)
	if len(missing) == 0 {
		return reg
	}

	categories := make([]string, 0)
	for c := range curated.Categories() {
		if c != labels.OtherCategory {
			categories = append(categories, c)
		}
	}
	sort.Strings(categories)

	reps, _ := analysis.Representatives(run.Rows, 3)
	byTopic := make(map[int][]string)
	for _, r := range reps {
		byTopic[r.TopicID] = append(byTopic[r.TopicID], r.Response)
	}

	client := &llm.Client{BaseURL: baseURL, Model: model, APIKey: apiKey}
	drafts := make(map[int]labels.Entry)
	for _, t := range run.Topics {
		if !contains(missing, t.TopicID) {
			continue
		}
		entry, err := client.SuggestLabel(ctx, t, byTopic[t.TopicID], categories)
		if err != nil {
			log.Printf("draft label for topic %d: %v", t.TopicID, err)
			continue
		}
		entry.Label = "DRAFT " + entry.Label
		drafts[t.TopicID] = entry
	}
	return reg.With(drafts)
}

func contains(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
