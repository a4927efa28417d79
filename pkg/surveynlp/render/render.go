// Package render draws the analysis results as self-contained HTML charts.
// Every chart has a toolbox button to export it as PNG.
package render

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/analysis"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/labels"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/survey"
)

// Output file names.
const (
	FileTopicDistribution = "topic_distribution.html"
	FileRegionHeatmap     = "region_topic_heatmap.html"
	FileGroupDistribution = "group_topic_distribution.html"
	FileQualityMetrics    = "topic_quality_metrics.html"
	FileCategories        = "topic_categories.html"
	FileTopicMap          = "topic_map.html"
)

// WordCloudFile returns the file name of the word cloud of topic id.
func WordCloudFile(id int) string { return fmt.Sprintf("wordcloud_topic_%d.html", id) }

const (
	chartWidth  = "1000px"
	chartHeight = "600px"
)

// Sink receives rendered files.
type Sink interface {
	Add(dir, name string, write func(io.Writer) error) error
}

// Renderer writes charts for one run into dir.
type Renderer struct {
	sink     Sink
	dir      string
	registry *labels.Registry
}

// New creates a renderer. A nil registry means labels.Default.
func New(sink Sink, dir string, registry *labels.Registry) *Renderer {
	if registry == nil {
		registry = labels.Default()
	}
	return &Renderer{sink: sink, dir: dir, registry: registry}
}

// Input carries everything the charts are drawn from.
type Input struct {
	Stats      analysis.Stats
	Regions    analysis.CrossTab
	Groups     analysis.CrossTab
	Quality    []analysis.Quality
	Topics     []survey.TopicInfo
	Table      survey.Table
	Embeddings [][]float64
}

// All renders every chart. The topic map is skipped when no embeddings are available.
func (r *Renderer) All(in Input) error {
	steps := []func() error{
		func() error { return r.TopicDistribution(in.Stats) },
		func() error { return r.RegionHeatmap(in.Regions) },
		func() error { return r.GroupDistribution(in.Groups) },
		func() error { return r.QualityMetrics(in.Quality) },
		func() error { return r.Categories(in.Stats) },
		func() error { return r.WordClouds(in.Topics) },
	}
	if hasEmbeddings(in.Embeddings) {
		steps = append(steps, func() error { return r.TopicMap(in.Table, in.Embeddings) })
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) write(name string, chart components.Charter) error {
	page := components.NewPage()
	page.PageTitle = name
	page.AddCharts(chart)
	return r.sink.Add(r.dir, name, page.Render)
}

func (r *Renderer) writePage(name string, page *components.Page) error {
	page.PageTitle = name
	return r.sink.Add(r.dir, name, page.Render)
}

func (r *Renderer) label(id int) string {
	if id == survey.OutlierTopic {
		return "Outliers"
	}
	return fmt.Sprintf("%d %s", id, r.registry.LabelFor(id))
}

func (r *Renderer) color(id int) string {
	return r.registry.ColorFor(r.registry.CategoryFor(id))
}

func globals(title, subtitle string) []charts.GlobalOpts {
	save := opts.ToolBoxFeatureSaveAsImage{Show: true, Type: "png", Name: title, Title: "Save as PNG"}
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithToolboxOpts(opts.Toolbox{Show: true, Feature: &opts.ToolBoxFeature{SaveAsImage: &save}}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
	}
}

func round(v float64) float64 { return math.Round(v*1000) / 1000 }

func hasEmbeddings(e [][]float64) bool {
	for _, v := range e {
		if len(v) > 0 {
			return true
		}
	}
	return false
}
