package render

import (
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/survey"
)

// TopicMap projects document embeddings onto their first two principal
// components and draws one scatter series per topic.
func (r *Renderer) TopicMap(table survey.Table, embeddings [][]float64) error {
	points, rows := Project2D(embeddings)
	if points == nil {
		return nil
	}

	byTopic := make(map[int][]opts.ScatterData)
	for k, i := range rows {
		if i >= len(table) {
			continue
		}
		id := table[i].TopicID
		byTopic[id] = append(byTopic[id], opts.ScatterData{
			Name:       table[i].Response,
			Value:      []interface{}{round(points[k][0]), round(points[k][1])},
			SymbolSize: 8,
		})
	}
	ids := make([]int, 0, len(byTopic))
	for id := range byTopic {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	sc := charts.NewScatter()
	sc.SetGlobalOptions(append(globals("Topic map", "first two principal components of document embeddings"),
		charts.WithLegendOpts(opts.Legend{Show: true, Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "PC1", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "PC2", Type: "value"}),
	)...)
	for _, id := range ids {
		sc.AddSeries(r.label(id), byTopic[id], charts.WithItemStyleOpts(opts.ItemStyle{Color: r.color(id)}))
	}
	return r.write(FileTopicMap, sc)
}

// Project2D returns 2-D PCA coordinates for the non-empty embeddings that
// share the most common dimensionality, and the index of each projected row.
// It returns nil when fewer than two such rows exist.
func Project2D(embeddings [][]float64) ([][2]float64, []int) {
	dims := make(map[int]int)
	for _, v := range embeddings {
		if len(v) > 0 {
			dims[len(v)]++
		}
	}
	d, best := 0, 0
	for dim, n := range dims {
		if n > best || (n == best && dim > d) {
			d, best = dim, n
		}
	}
	if best < 2 {
		return nil, nil
	}

	var rows []int
	flat := make([]float64, 0, best*d)
	for i, v := range embeddings {
		if len(v) == d {
			rows = append(rows, i)
			flat = append(flat, v...)
		}
	}
	data := mat.NewDense(len(rows), d, flat)

	// center columns
	for j := 0; j < d; j++ {
		col := mat.Col(nil, j, data)
		mean := stat.Mean(col, nil)
		for i := range col {
			data.Set(i, j, col[i]-mean)
		}
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(data, nil); !ok {
		return nil, nil
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	vr, vc := vecs.Dims()
	k := min(2, vc)
	if k == 0 {
		return nil, nil
	}

	var proj mat.Dense
	proj.Mul(data, vecs.Slice(0, vr, 0, k))

	points := make([][2]float64, len(rows))
	for i := range rows {
		points[i][0] = proj.At(i, 0)
		if k > 1 {
			points[i][1] = proj.At(i, 1)
		}
	}
	return points, rows
}
