package render

import (
	"fmt"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/analysis"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/survey"
)

// TopicDistribution draws document counts per topic, colored by category.
func (r *Renderer) TopicDistribution(stats analysis.Stats) error {
	ids := stats.Topics()
	x := make([]string, len(ids))
	data := make([]opts.BarData, len(ids))
	for i, id := range ids {
		x[i] = r.label(id)
		data[i] = opts.BarData{
			Name:      x[i],
			Value:     stats.TopicCounts[id],
			ItemStyle: &opts.ItemStyle{Color: r.color(id)},
		}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(append(globals("Topic distribution", fmt.Sprintf("%d responses", stats.TotalRows)),
		charts.WithXAxisOpts(opts.XAxis{Name: "Topic", AxisLabel: &opts.AxisLabel{Show: true, Rotate: 30}}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Responses"}),
	)...)
	bar.SetXAxis(x).AddSeries("responses", data)
	return r.write(FileTopicDistribution, bar)
}

// RegionHeatmap draws the row-normalized topic share per region.
func (r *Renderer) RegionHeatmap(ct analysis.CrossTab) error {
	x := make([]string, len(ct.Topics))
	for j, id := range ct.Topics {
		x[j] = r.label(id)
	}
	var data []opts.HeatMapData
	for i := range ct.Levels {
		for j := range ct.Topics {
			data = append(data, opts.HeatMapData{Value: [3]interface{}{j, i, round(ct.Proportions[i][j])}})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(append(globals("Topic share by region", "rows sum to 1"),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", SplitArea: &opts.SplitArea{Show: true}, AxisLabel: &opts.AxisLabel{Show: true, Rotate: 30}}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: ct.Levels, SplitArea: &opts.SplitArea{Show: true}}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: true,
			Min:        0,
			Max:        1,
			InRange:    &opts.VisualMapInRange{Color: []string{"#f7fbff", "#6baed6", "#08306b"}},
		}),
	)...)
	hm.SetXAxis(x).AddSeries("share", data)
	return r.write(FileRegionHeatmap, hm)
}

// GroupDistribution draws one stacked bar per population group.
func (r *Renderer) GroupDistribution(ct analysis.CrossTab) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(append(globals("Topic share by population group", "rows sum to 1"),
		charts.WithLegendOpts(opts.Legend{Show: true, Top: "bottom"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Share", Max: 1}),
	)...)
	bar.SetXAxis(ct.Levels)
	for j, id := range ct.Topics {
		data := make([]opts.BarData, len(ct.Levels))
		for i := range ct.Levels {
			data[i] = opts.BarData{Value: round(ct.Proportions[i][j])}
		}
		bar.AddSeries(r.label(id), data,
			charts.WithBarChartOpts(opts.BarChart{Stack: "share"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: r.color(id)}),
		)
	}
	return r.write(FileGroupDistribution, bar)
}

// QualityMetrics draws size, mean probability and diversity per topic on one page.
func (r *Renderer) QualityMetrics(q []analysis.Quality) error {
	x := make([]string, len(q))
	size := make([]opts.BarData, len(q))
	prob := make([]opts.BarData, len(q))
	div := make([]opts.BarData, len(q))
	for i, m := range q {
		x[i] = r.label(m.TopicID)
		size[i] = opts.BarData{Value: m.Size}
		if m.HasProbability {
			prob[i] = opts.BarData{Value: round(m.MeanProbability)}
		} else {
			prob[i] = opts.BarData{Value: "-"}
		}
		div[i] = opts.BarData{Value: round(m.Diversity)}
	}

	page := components.NewPage()
	for _, panel := range []struct {
		title string
		data  []opts.BarData
	}{
		{"Topic size", size},
		{"Mean topic probability", prob},
		{"Lexical diversity", div},
	} {
		bar := charts.NewBar()
		bar.SetGlobalOptions(append(globals(panel.title, ""),
			charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Show: true, Rotate: 30}}),
		)...)
		bar.SetXAxis(x).AddSeries(panel.title, panel.data)
		page.AddCharts(bar)
	}
	return r.writePage(FileQualityMetrics, page)
}

// Categories draws the share of responses per curated category.
func (r *Renderer) Categories(stats analysis.Stats) error {
	totals := make(map[string]int64)
	for id, n := range stats.TopicCounts {
		if id == survey.OutlierTopic {
			continue
		}
		totals[r.registry.CategoryFor(id)] += n
	}
	names := make([]string, 0, len(totals))
	for c := range totals {
		names = append(names, c)
	}
	sort.Strings(names)

	data := make([]opts.PieData, len(names))
	for i, c := range names {
		data[i] = opts.PieData{Name: c, Value: totals[c], ItemStyle: &opts.ItemStyle{Color: r.registry.ColorFor(c)}}
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(append(globals("Responses by category", "registry "+r.registry.Version()),
		charts.WithLegendOpts(opts.Legend{Show: true, Top: "bottom"}),
	)...)
	pie.AddSeries("categories", data)
	return r.write(FileCategories, pie)
}

// WordClouds draws one word cloud per topic. Keywords are ranked, so a
// word's size falls with its rank.
func (r *Renderer) WordClouds(topics []survey.TopicInfo) error {
	for _, ti := range topics {
		data := make([]opts.WordCloudData, len(ti.Words))
		for i, w := range ti.Words {
			data[i] = opts.WordCloudData{Name: w, Value: len(ti.Words) - i}
		}
		wc := charts.NewWordCloud()
		wc.SetGlobalOptions(globals(r.label(ti.TopicID), fmt.Sprintf("%d responses", ti.Count))...)
		wc.AddSeries("keywords", data, charts.WithWorldCloudChartOpts(opts.WordCloudChart{
			SizeRange: []float32{14, 80},
			Shape:     "circle",
		}))
		if err := r.write(WordCloudFile(ti.TopicID), wc); err != nil {
			return err
		}
	}
	return nil
}
