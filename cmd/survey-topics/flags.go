package main

import (
	"flag"
	"fmt"

	"golang.org/x/text/language"

	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/config"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/internalerr"
)

type options struct {
	configPath string
	lang       string
	writeClean bool
	noRender   bool

	input      string
	outputDir  string
	visualsDir string
	topNWords  int
	topN       int
	engine     string
	embed      string
	model      string
	eps        float64
	minCluster int
	topics     int
	labels     string
	stoplist   string
	lexicon    string
	archive    string
	noFold     bool
	regions    string
	groups     string

	// tag is lang, parsed by resolve.
	tag language.Tag
}

func newFlagSet(name string) (*flag.FlagSet, *options) {
	def := config.Default()
	o := &options{}
	fs := flag.NewFlagSet(name, flag.ExitOnError)

	fs.StringVar(&o.configPath, "config", "", "YAML config file (optional)")
	fs.StringVar(&o.lang, "lang", "es", "Language tag for number formatting in the summary")
	fs.BoolVar(&o.writeClean, "write-clean", false, "Also write the cleaned dataset to the output dir")
	fs.BoolVar(&o.noRender, "no-render", false, "Skip the HTML charts")

	fs.StringVar(&o.input, "input", def.Input, "Survey CSV or JSONL file")
	fs.StringVar(&o.outputDir, "output-dir", def.OutputDir, "Directory for CSV outputs")
	fs.StringVar(&o.visualsDir, "visuals-dir", def.VisualsDir, "Directory for charts")
	fs.IntVar(&o.topNWords, "top-n-words", def.TopNWords, "Keywords per topic")
	fs.IntVar(&o.topN, "top-n", def.TopN, "Responses per topic summary")
	fs.StringVar(&o.engine, "engine", def.Engine.Kind, "Topic engine: cluster or lda")
	fs.StringVar(&o.embed, "embed", def.Engine.Embed, "Embedder: lsa, lsa:<dims> or provider[/model]")
	fs.StringVar(&o.model, "model", def.Engine.Model, "Embedding model when -embed names only a provider")
	fs.Float64Var(&o.eps, "eps", def.Engine.Eps, "Cluster radius in cosine distance")
	fs.IntVar(&o.minCluster, "min-cluster-size", def.Engine.MinClusterSize, "Minimum cluster size")
	fs.IntVar(&o.topics, "topics", def.Engine.Topics, "Number of LDA topics")
	fs.StringVar(&o.labels, "labels", "", "Label registry YAML (default: built-in)")
	fs.StringVar(&o.stoplist, "stoplist", "", "Stoplist YAML (default: built-in Spanish list)")
	fs.StringVar(&o.lexicon, "lexicon", "", "Lemma lexicon YAML (optional)")
	fs.StringVar(&o.archive, "archive", "", "SQLite run archive (optional)")
	fs.BoolVar(&o.noFold, "no-fold", false, "Keep accents when normalizing")
	fs.StringVar(&o.regions, "regions", "", "Comma separated regions the survey covered, listed in cross-tabs even when empty")
	fs.StringVar(&o.groups, "groups", "", "Comma separated groups the survey covered, listed in cross-tabs even when empty")
	return fs, o
}

// resolve layers defaults, the config file and the flags that were set
// explicitly, in that order.
func resolve(fs *flag.FlagSet, o *options) (config.Config, error) {
	tag, err := language.Parse(o.lang)
	if err != nil {
		return config.Config{}, fmt.Errorf("%w: -lang %q: %v", internalerr.ErrInvalidConfig, o.lang, err)
	}
	o.tag = tag

	cfg := config.Default()
	if o.configPath != "" {
		if cfg, err = config.LoadFile(o.configPath); err != nil {
			return config.Config{}, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Input = o.input
		case "output-dir":
			cfg.OutputDir = o.outputDir
		case "visuals-dir":
			cfg.VisualsDir = o.visualsDir
		case "top-n-words":
			cfg.TopNWords = o.topNWords
		case "top-n":
			cfg.TopN = o.topN
		case "no-render":
			cfg.Render = !o.noRender
		case "engine":
			cfg.Engine.Kind = o.engine
		case "embed":
			cfg.Engine.Embed = o.embed
		case "model":
			cfg.Engine.Model = o.model
		case "eps":
			cfg.Engine.Eps = o.eps
		case "min-cluster-size":
			cfg.Engine.MinClusterSize = o.minCluster
		case "topics":
			cfg.Engine.Topics = o.topics
		case "labels":
			cfg.Labels = o.labels
		case "stoplist":
			cfg.Stoplist = o.stoplist
		case "lexicon":
			cfg.Lexicon = o.lexicon
		case "archive":
			cfg.Archive = o.archive
		case "no-fold":
			cfg.FoldAccents = !o.noFold
		case "regions":
			cfg.Regions = config.SplitList(o.regions)
		case "groups":
			cfg.Groups = config.SplitList(o.groups)
		}
	})

	return cfg, cfg.Validate()
}
