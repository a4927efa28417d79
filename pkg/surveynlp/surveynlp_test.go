package surveynlp

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/engine/enginetest"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/internalerr"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/postprocess"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/render"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/store/memstore"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/survey"
)

func quietLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func cleanedDataset(responses ...string) survey.Dataset {
	ds := survey.Dataset{Cleaned: true}
	regions := []string{"Andina", "Caribe", "Pacifica"}
	for i, r := range responses {
		ds.Records = append(ds.Records, survey.CleanedRecord{
			Record:        survey.Record{Region: regions[i%len(regions)], Group: "Mujeres", Question: "Q1", Response: r},
			ResponseClean: r,
		})
	}
	return ds
}

func scoredFake() *enginetest.Fake {
	table := map[string]survey.Assignment{
		"a": survey.Scored(0, 0.5),
		"b": survey.Scored(0, 0.9),
		"c": survey.Scored(1, 0.99),
	}
	return &enginetest.Fake{
		Assign:   func(doc string) survey.Assignment { return table[doc] },
		Keywords: map[int][]string{0: {"agua", "luz", "gas", "vias", "salud", "empleo"}, 1: {"escuela"}},
	}
}

func newPipeline(t *testing.T, opts Options) *Pipeline {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = quietLogger()
	}
	p, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestModelSummarizesByProbability(t *testing.T) {
	p := newPipeline(t, Options{Engine: scoredFake()})

	res, err := p.Model(context.Background(), cleanedDataset("a", "b", "c"))
	if err != nil {
		t.Fatalf("Model: %v", err)
	}
	if len(res.Table) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(res.Table))
	}
	if len(res.Topics) != 2 || res.Topics[0].Count != 2 || len(res.Topics[0].Words) != 5 {
		t.Fatalf("unexpected topic info %+v", res.Topics)
	}
	if res.Summaries[0].Summary != "b | a" {
		t.Errorf("topic 0 summary = %q, want %q", res.Summaries[0].Summary, "b | a")
	}
	if res.SummaryRanking != postprocess.ByProbability {
		t.Errorf("unexpected ranking %s", res.SummaryRanking)
	}
	if res.RunID == "" || res.Engine != "fake" {
		t.Errorf("run metadata missing: id=%q engine=%q", res.RunID, res.Engine)
	}
}

func TestModelCleansRawInput(t *testing.T) {
	fake := &enginetest.Fake{Assign: func(string) survey.Assignment { return survey.Scored(0, 1) }}
	p := newPipeline(t, Options{Engine: fake})

	ds := survey.Dataset{Records: []survey.CleanedRecord{
		{Record: survey.Record{Region: "Andina", Response: "No hay agua en la casa"}},
		{Record: survey.Record{Region: "Andina", Response: "¡¿...?!"}},
	}}
	res, err := p.Model(context.Background(), ds)
	if err != nil {
		t.Fatalf("Model: %v", err)
	}
	got := fake.Calls[0]
	if got[0] != "no agua casa" || got[1] != "" {
		t.Fatalf("engine saw %q", got)
	}
	if res.Table[0].ResponseClean != "no agua casa" {
		t.Errorf("cleaned text not joined: %q", res.Table[0].ResponseClean)
	}
}

func TestModelReportsUnscoredRanking(t *testing.T) {
	fake := &enginetest.Fake{
		Assign:   func(string) survey.Assignment { return survey.Unscored(0) },
		Keywords: map[int][]string{0: {"agua"}},
	}
	p := newPipeline(t, Options{Engine: fake})

	res, err := p.Model(context.Background(), cleanedDataset("x", "y", "z", "w"))
	if err != nil {
		t.Fatalf("Model: %v", err)
	}
	if res.SummaryRanking != postprocess.ByInputOrder || res.RepresentativeRanking != postprocess.ByInputOrder {
		t.Fatalf("expected input-order ranking, got %s/%s", res.SummaryRanking, res.RepresentativeRanking)
	}
	if res.Summaries[0].Summary != "x | y | z" {
		t.Errorf("unexpected fallback summary %q", res.Summaries[0].Summary)
	}
}

func TestModelAddsTopicInfoForTopicsWithoutKeywords(t *testing.T) {
	fake := &enginetest.Fake{Assign: func(string) survey.Assignment { return survey.Scored(7, 0.4) }}
	p := newPipeline(t, Options{Engine: fake})

	res, err := p.Model(context.Background(), cleanedDataset("x"))
	if err != nil {
		t.Fatalf("Model: %v", err)
	}
	if len(res.Topics) != 1 || res.Topics[0].TopicID != 7 || res.Topics[0].Count != 1 {
		t.Fatalf("expected one entry for topic 7, got %+v", res.Topics)
	}
	if len(res.Unknown) != 0 {
		t.Errorf("topic 7 is in the default registry, got unknown %v", res.Unknown)
	}
}

func TestWriteProducesEveryArtifact(t *testing.T) {
	root := t.TempDir()
	p := newPipeline(t, Options{Engine: scoredFake()})
	res, err := p.Model(context.Background(), cleanedDataset("a", "b", "c"))
	if err != nil {
		t.Fatalf("Model: %v", err)
	}

	layout := Layout{
		OutputDir:  filepath.Join(root, "outputs"),
		VisualsDir: filepath.Join(root, "visuals"),
		Render:     true,
	}
	paths, err := p.Write(context.Background(), res, layout)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	for _, name := range []string{TopicInfoFile, TableFile, SummariesFile, RepresentativesFile, QualityFile, RegionFile, GroupFile} {
		if _, err := os.Stat(filepath.Join(layout.OutputDir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	for _, name := range []string{render.FileTopicDistribution, render.WordCloudFile(0), render.WordCloudFile(1)} {
		if _, err := os.Stat(filepath.Join(layout.VisualsDir, name)); err != nil {
			t.Errorf("missing chart %s: %v", name, err)
		}
	}
	if len(paths) < 7 {
		t.Errorf("expected at least 7 paths, got %d", len(paths))
	}

	info, err := survey.ReadTopicInfo(filepath.Join(layout.OutputDir, TopicInfoFile))
	if err != nil {
		t.Fatalf("ReadTopicInfo: %v", err)
	}
	if len(info) != 2 || info[0].TopWords != res.Topics[0].TopWords || info[0].Count != 2 {
		t.Errorf("topic info did not round-trip: %+v", info)
	}

	summaries, err := os.ReadFile(filepath.Join(layout.OutputDir, SummariesFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(summaries), "0,b | a") {
		t.Errorf("summaries file: %s", summaries)
	}
}

func TestEngineFailureWritesNothing(t *testing.T) {
	root := t.TempDir()
	input := filepath.Join(root, "survey.csv")
	if err := os.WriteFile(input, []byte("region,group,question,response\nAndina,Mujeres,Q1,Falta agua\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	boom := errors.New("engine exploded")
	p := newPipeline(t, Options{Engine: &enginetest.Fake{Err: boom}})

	out := filepath.Join(root, "outputs")
	_, err := p.Run(context.Background(), input, Layout{OutputDir: out})
	if !errors.Is(err, boom) {
		t.Fatalf("expected engine error, got %v", err)
	}
	if _, err := os.Stat(out); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("output dir should not exist after failure: %v", err)
	}
}

func TestMisalignedEngineAborts(t *testing.T) {
	root := t.TempDir()
	fake := &enginetest.Fake{Assignments: []survey.Assignment{survey.Scored(0, 1), survey.Scored(0, 1)}}
	p := newPipeline(t, Options{Engine: fake})

	_, err := p.Model(context.Background(), cleanedDataset("a", "b", "c"))
	if !errors.Is(err, internalerr.ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
	if entries, _ := os.ReadDir(root); len(entries) != 0 {
		t.Fatalf("nothing should be written")
	}
}

func TestRunMissingInput(t *testing.T) {
	p := newPipeline(t, Options{Engine: scoredFake()})
	_, err := p.Run(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), Layout{OutputDir: t.TempDir()})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestRunArchives(t *testing.T) {
	root := t.TempDir()
	input := filepath.Join(root, "survey.csv")
	content := "region,group,question,response,response_clean\nAndina,Mujeres,Q1,A,a\nCaribe,Jovenes,Q1,B,b\nCaribe,Jovenes,Q2,C,c\n"
	if err := os.WriteFile(input, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	st := memstore.New()
	p := newPipeline(t, Options{Engine: scoredFake(), Store: st})

	res, err := p.Run(context.Background(), input, Layout{OutputDir: filepath.Join(root, "out")})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	a, err := st.LoadRun(context.Background(), res.RunID)
	if err != nil {
		t.Fatalf("LoadRun: %v", err)
	}
	if a.Run.Docs != 3 || a.Run.Topics != 2 || a.Run.Input != input {
		t.Errorf("unexpected archived header %+v", a.Run)
	}
	if a.Run.RegistryVersion != p.Registry().Version() {
		t.Errorf("registry version not archived: %q", a.Run.RegistryVersion)
	}
}

func TestNewRequiresEngine(t *testing.T) {
	if _, err := New(Options{}); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}
