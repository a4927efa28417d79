// Package surveynlp runs the survey topic pipeline: clean the responses,
// infer topics, join and summarize, analyze, then write every artifact in
// one all-or-none batch.
package surveynlp

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/analysis"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/artifacts"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/engine"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/internalerr"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/labels"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/normalize"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/postprocess"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/render"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/store"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/survey"
)

// Output file names.
const (
	TopicInfoFile       = "topic_info.csv"
	TableFile           = "df_with_topics.csv"
	SummariesFile       = "topic_summaries.csv"
	RepresentativesFile = "representative_responses.csv"
	QualityFile         = "topic_quality.csv"
	RegionFile          = "topic_region.csv"
	GroupFile           = "topic_group.csv"
	CleanFile           = "survey_data_clean.csv"
)

// Options configures a Pipeline
type Options struct {
	Normalizer *normalize.Normalizer
	Engine     engine.Engine
	Registry   *labels.Registry
	// Store archives runs; nil disables archiving.
	Store  store.Store
	Logger *log.Logger

	TopNWords int
	TopN      int

	// Regions and Groups name every level the survey covered so that
	// cross-tabs list levels without responses.
	Regions []string
	Groups  []string
}

// Pipeline is the survey topic pipeline
type Pipeline struct {
	norm      *normalize.Normalizer
	eng       engine.Engine
	registry  *labels.Registry
	store     store.Store
	log       *log.Logger
	topNWords int
	topN      int
	regions   []string
	groups    []string
	ids       *store.IDSource
	now       func() time.Time
}

// New creates a Pipeline. Only the engine is required.
func New(opts Options) (*Pipeline, error) {
	if opts.Engine == nil {
		return nil, fmt.Errorf("pipeline: %w: engine is required", internalerr.ErrInvalidConfig)
	}
	p := &Pipeline{
		norm:      opts.Normalizer,
		eng:       opts.Engine,
		registry:  opts.Registry,
		store:     opts.Store,
		log:       opts.Logger,
		topNWords: opts.TopNWords,
		topN:      opts.TopN,
		regions:   opts.Regions,
		groups:    opts.Groups,
		ids:       store.NewIDSource(),
		now:       time.Now,
	}
	if p.norm == nil {
		p.norm = normalize.Default()
	}
	if p.registry == nil {
		p.registry = labels.Default()
	}
	if p.log == nil {
		p.log = log.Default()
	}
	if p.topNWords <= 0 {
		p.topNWords = postprocess.DefaultTopNWords
	}
	if p.topN <= 0 {
		p.topN = postprocess.DefaultTopN
	}
	return p, nil
}

// Close releases the archive store, if any.
func (p *Pipeline) Close() error {
	if p.store == nil {
		return nil
	}
	return p.store.Close()
}

// Registry returns the label registry in use.
func (p *Pipeline) Registry() *labels.Registry { return p.registry }

// Clean normalizes every response.
func (p *Pipeline) Clean(records []survey.Record) []survey.CleanedRecord {
	return p.norm.CleanAll(records)
}

// Result holds everything one run produced.
type Result struct {
	RunID     string
	CreatedAt time.Time
	Engine    string
	Input     string

	Table      survey.Table
	Topics     []survey.TopicInfo
	Embeddings [][]float64

	Summaries             []survey.TopicSummary
	SummaryRanking        postprocess.Ranking
	Representatives       []survey.Representative
	RepresentativeRanking postprocess.Ranking

	Stats   analysis.Stats
	Regions analysis.CrossTab
	Groups  analysis.CrossTab
	Quality []analysis.Quality

	// Unknown lists assigned topic ids the registry has no label for.
	Unknown []int
}

// Model runs cleaning (unless the dataset is already clean), inference,
// post-processing and analysis. Nothing is written.
func (p *Pipeline) Model(ctx context.Context, ds survey.Dataset) (*Result, error) {
	records := ds.Records
	if !ds.Cleaned {
		records = p.Clean(ds.Raw())
	}

	docs := make([]string, len(records))
	empty := 0
	for i, r := range records {
		docs[i] = r.ResponseClean
		if r.ResponseClean == "" {
			empty++
		}
	}
	p.log.Printf("stage=clean docs=%d empty=%d precleaned=%t", len(docs), empty, ds.Cleaned)

	started := p.now()
	out, err := p.eng.Infer(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("infer with %s: %w", p.eng.Name(), err)
	}
	if err := out.Check(len(docs)); err != nil {
		return nil, fmt.Errorf("infer with %s: %w", p.eng.Name(), err)
	}

	table, err := postprocess.Assign(records, out.Assignments)
	if err != nil {
		return nil, err
	}
	for _, id := range table.TopicIDs() {
		if _, ok := out.Keywords[id]; !ok && id != survey.OutlierTopic {
			p.log.Printf("stage=postprocess warning=%q topic=%d", "topic without keywords", id)
			out.Keywords[id] = nil
		}
	}

	res := &Result{
		RunID:      p.ids.Next(started),
		CreatedAt:  started,
		Engine:     p.eng.Name(),
		Table:      table,
		Topics:     postprocess.BuildTopicInfo(out.Keywords, table, p.topNWords),
		Embeddings: out.Embeddings,
	}
	p.log.Printf("stage=infer run=%s engine=%s topics=%d outliers=%d elapsed=%s",
		res.RunID, res.Engine, len(res.Topics), table.Outliers(), p.now().Sub(started).Round(time.Millisecond))

	res.Summaries, res.SummaryRanking = postprocess.Summarize(table, p.topN)
	res.Representatives, res.RepresentativeRanking = analysis.Representatives(table, p.topN)
	if res.SummaryRanking != postprocess.ByProbability {
		p.log.Printf("stage=summarize warning=%q ranking=%s", "confidence ranking unavailable for some topics", res.SummaryRanking)
	}

	res.Stats = analysis.Analyze(table)
	res.Regions = res.Stats.CrossTab(analysis.ByRegion, p.regions...)
	res.Groups = res.Stats.CrossTab(analysis.ByGroup, p.groups...)
	res.Quality = res.Stats.Quality()
	if len(res.Regions.Empty) > 0 || len(res.Groups.Empty) > 0 {
		p.log.Printf("stage=analyze empty_regions=%v empty_groups=%v", res.Regions.Empty, res.Groups.Empty)
	}

	ids := make([]int, len(res.Topics))
	for i, t := range res.Topics {
		ids[i] = t.TopicID
	}
	res.Unknown = p.registry.Unknown(ids)
	if len(res.Unknown) > 0 {
		p.log.Printf("stage=labels warning=%q registry=%s ids=%v",
			"topic ids missing from registry", p.registry.Version(), res.Unknown)
	}
	return res, nil
}

// Layout says where a run's artifacts go.
type Layout struct {
	OutputDir  string
	VisualsDir string
	// Render adds the HTML charts.
	Render bool
	// IncludeClean also writes the cleaned dataset.
	IncludeClean bool
}

type artifact struct {
	name  string
	write func(io.Writer) error
}

// Write renders every artifact and commits them together. Either all
// files are written or none are.
func (p *Pipeline) Write(ctx context.Context, res *Result, layout Layout) ([]string, error) {
	if layout.OutputDir == "" {
		return nil, fmt.Errorf("write: %w: output dir is required", internalerr.ErrInvalidConfig)
	}
	batch := artifacts.NewBatch()
	out := layout.OutputDir

	files := []artifact{
		{TopicInfoFile, func(w io.Writer) error { return survey.WriteTopicInfo(w, res.Topics) }},
		{TableFile, func(w io.Writer) error { return survey.WriteTable(w, res.Table) }},
		{SummariesFile, func(w io.Writer) error { return survey.WriteSummaries(w, res.Summaries) }},
		{RepresentativesFile, func(w io.Writer) error { return survey.WriteRepresentatives(w, res.Representatives) }},
		{QualityFile, func(w io.Writer) error { return analysis.WriteQuality(w, res.Quality, p.registry) }},
		{RegionFile, func(w io.Writer) error { return analysis.WriteCrossTab(w, res.Regions) }},
		{GroupFile, func(w io.Writer) error { return analysis.WriteCrossTab(w, res.Groups) }},
	}
	if layout.IncludeClean {
		records := make([]survey.CleanedRecord, len(res.Table))
		for i, r := range res.Table {
			records[i] = r.CleanedRecord
		}
		files = append(files, artifact{CleanFile, func(w io.Writer) error { return survey.WriteDataset(w, records, true) }})
	}
	for _, f := range files {
		if err := batch.Add(out, f.name, f.write); err != nil {
			return nil, err
		}
	}

	if layout.Render {
		if layout.VisualsDir == "" {
			return nil, fmt.Errorf("write: %w: visuals dir is required to render", internalerr.ErrInvalidConfig)
		}
		r := render.New(batch, layout.VisualsDir, p.registry)
		if err := r.All(render.Input{
			Stats:      res.Stats,
			Regions:    res.Regions,
			Groups:     res.Groups,
			Quality:    res.Quality,
			Topics:     res.Topics,
			Table:      res.Table,
			Embeddings: res.Embeddings,
		}); err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	paths, err := batch.Commit()
	if err != nil {
		return nil, err
	}
	p.log.Printf("stage=write run=%s files=%d output=%s visuals=%s", res.RunID, len(paths), out, layout.VisualsDir)
	return paths, nil
}

// Archive stores the run when a store is configured.
func (p *Pipeline) Archive(ctx context.Context, res *Result) error {
	if p.store == nil {
		return nil
	}
	a := store.Archive{
		Run: store.Run{
			ID:              res.RunID,
			CreatedAt:       res.CreatedAt,
			Engine:          res.Engine,
			Input:           res.Input,
			RegistryVersion: p.registry.Version(),
			Docs:            len(res.Table),
			Topics:          len(res.Topics),
			Outliers:        res.Table.Outliers(),
		},
		Topics: res.Topics,
		Rows:   res.Table,
	}
	if err := p.store.SaveRun(ctx, a); err != nil {
		return fmt.Errorf("archive run %s: %w", res.RunID, err)
	}
	p.log.Printf("stage=archive run=%s", res.RunID)
	return nil
}

// Run loads input, models it, writes the artifacts and archives the run.
// Any failure before the commit leaves the output directories untouched.
func (p *Pipeline) Run(ctx context.Context, input string, layout Layout) (*Result, error) {
	ds, err := survey.Load(input)
	if err != nil {
		return nil, fmt.Errorf("load input: %w", err)
	}
	res, err := p.Model(ctx, ds)
	if err != nil {
		return nil, err
	}
	res.Input = input
	if _, err := p.Write(ctx, res, layout); err != nil {
		return nil, err
	}
	if err := p.Archive(ctx, res); err != nil {
		return res, err
	}
	return res, nil
}
