package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"golang.org/x/text/message"

	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/config"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/store"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/store/sqlite"
)

func main() {
	fs, opts := newFlagSet(os.Args[0])
	_ = fs.Parse(os.Args[1:])

	cfg, err := resolve(fs, opts)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	components, err := config.NewLoader(cfg).Load()
	if err != nil {
		log.Fatalf("load configs: %v", err)
	}

	eng, err := config.BuildEngine(cfg.Engine)
	if err != nil {
		log.Fatalf("build engine: %v", err)
	}

	var st store.Store
	if cfg.Archive != "" {
		st, err = sqlite.OpenSQLite(ctx, cfg.Archive)
		if err != nil {
			log.Fatalf("open archive: %v", err)
		}
	}

	pipeline, err := surveynlp.New(surveynlp.Options{
		Normalizer: components.Normalizer,
		Engine:     eng,
		Registry:   components.Registry,
		Store:      st,
		TopNWords:  cfg.TopNWords,
		TopN:       cfg.TopN,
		Regions:    cfg.Regions,
		Groups:     cfg.Groups,
	})
	if err != nil {
		log.Fatalf("pipeline: %v", err)
	}
	defer pipeline.Close()

	res, err := pipeline.Run(ctx, cfg.Input, surveynlp.Layout{
		OutputDir:    cfg.OutputDir,
		VisualsDir:   cfg.VisualsDir,
		Render:       cfg.Render,
		IncludeClean: opts.writeClean,
	})
	if err != nil {
		log.Fatalf("run: %v", err)
	}

	p := message.NewPrinter(opts.tag)
	p.Printf("run %s: %d responses, %d topics, %d outliers\n", res.RunID, len(res.Table), len(res.Topics), res.Table.Outliers())
	for _, ti := range res.Topics {
		p.Printf("  %3d  %-45s %6d  %s\n", ti.TopicID, components.Registry.LabelFor(ti.TopicID), ti.Count, ti.TopWords)
	}
	if len(res.Unknown) > 0 {
		p.Printf("registry %s has no labels for topics %v; re-curate it for this run\n", components.Registry.Version(), res.Unknown)
	}
}
