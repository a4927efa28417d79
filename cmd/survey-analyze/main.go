package main

import (
	"flag"
	"io"
	"log"
	"path/filepath"

	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/analysis"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/artifacts"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/config"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/labels"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/postprocess"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/render"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/survey"
)

func main() {
	var (
		outputDir  = flag.String("output-dir", "outputs", "Directory holding df_with_topics.csv and topic_info.csv")
		visualsDir = flag.String("visuals-dir", "visuals", "Directory for charts")
		labelsPath = flag.String("labels", "", "Label registry YAML (default: built-in)")
		topN       = flag.Int("top-n", postprocess.DefaultTopN, "Representative responses per topic")
		noRender   = flag.Bool("no-render", false, "Skip the HTML charts")
		regionList = flag.String("regions", "", "Comma separated regions the survey covered, listed in cross-tabs even when empty")
		groupList  = flag.String("groups", "", "Comma separated groups the survey covered, listed in cross-tabs even when empty")
	)
	flag.Parse()

	reg := labels.Default()
	if *labelsPath != "" {
		var err error
		if reg, err = labels.LoadYAML(*labelsPath); err != nil {
			log.Fatalf("load labels: %v", err)
		}
	}

	table, err := survey.ReadTable(filepath.Join(*outputDir, surveynlp.TableFile))
	if err != nil {
		log.Fatalf("read table: %v", err)
	}
	topics, err := survey.ReadTopicInfo(filepath.Join(*outputDir, surveynlp.TopicInfoFile))
	if err != nil {
		log.Fatalf("read topic info: %v", err)
	}

	stats := analysis.Analyze(table)
	regions := stats.CrossTab(analysis.ByRegion, config.SplitList(*regionList)...)
	groups := stats.CrossTab(analysis.ByGroup, config.SplitList(*groupList)...)
	quality := stats.Quality()
	reps, ranking := analysis.Representatives(table, *topN)
	if ranking != postprocess.ByProbability {
		log.Printf("warning: representatives ranked by %s, probabilities missing", ranking)
	}

	batch := artifacts.NewBatch()
	add := func(name string, write func(io.Writer) error) {
		if err := batch.Add(*outputDir, name, write); err != nil {
			log.Fatalf("render %s: %v", name, err)
		}
	}
	add(surveynlp.RepresentativesFile, func(w io.Writer) error { return survey.WriteRepresentatives(w, reps) })
	add(surveynlp.QualityFile, func(w io.Writer) error { return analysis.WriteQuality(w, quality, reg) })
	add(surveynlp.RegionFile, func(w io.Writer) error { return analysis.WriteCrossTab(w, regions) })
	add(surveynlp.GroupFile, func(w io.Writer) error { return analysis.WriteCrossTab(w, groups) })

	if !*noRender {
		r := render.New(batch, *visualsDir, reg)
		err := r.All(render.Input{
			Stats:   stats,
			Regions: regions,
			Groups:  groups,
			Quality: quality,
			Topics:  topics,
			Table:   table,
		})
		if err != nil {
			log.Fatalf("render: %v", err)
		}
	}

	paths, err := batch.Commit()
	if err != nil {
		log.Fatalf("write: %v", err)
	}
	if unknown := reg.Unknown(table.TopicIDs()); len(unknown) > 0 {
		log.Printf("warning: registry %s has no labels for topics %v", reg.Version(), unknown)
	}
	log.Printf("wrote %d files", len(paths))
}
