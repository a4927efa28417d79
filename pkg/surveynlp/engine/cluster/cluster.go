// Package cluster groups document embeddings into topics with density-based
// clustering on cosine distance.
package cluster

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/survey"
)

// Params controls DBSCAN.
type Params struct {
	// Eps is the cosine-distance radius of a neighbourhood.
	Eps float64
	// MinClusterSize is the minimum neighbourhood size (self included) of a core point.
	MinClusterSize int
}

// DefaultParams returns the settings used for short survey answers.
func DefaultParams() Params {
	return Params{Eps: 0.35, MinClusterSize: 5}
}

const (
	unvisited = -2
	noise     = survey.OutlierTopic
)

// DBSCAN clusters vectors and returns one assignment per vector. Noise
// points are outliers with probability 0; members carry their cosine
// similarity to the cluster centroid. Cluster ids are ordered by size,
// largest first, ties broken by the position of the first member.
func DBSCAN(vectors [][]float64, p Params) []survey.Assignment {
	if p.MinClusterSize < 1 {
		p.MinClusterSize = 1
	}
	unit := normalized(vectors)
	n := len(unit)

	labels := make([]int, n)
	for i := range labels {
		labels[i] = unvisited
	}

	next := 0
	for i := 0; i < n; i++ {
		if labels[i] != unvisited {
			continue
		}
		neighbours := regionQuery(unit, i, p.Eps)
		if len(neighbours) < p.MinClusterSize {
			labels[i] = noise
			continue
		}

		id := next
		next++
		labels[i] = id
		queue := append([]int(nil), neighbours...)
		for len(queue) > 0 {
			j := queue[0]
			queue = queue[1:]
			if labels[j] == noise {
				labels[j] = id // border point
			}
			if labels[j] != unvisited {
				continue
			}
			labels[j] = id
			if more := regionQuery(unit, j, p.Eps); len(more) >= p.MinClusterSize {
				queue = append(queue, more...)
			}
		}
	}

	labels = renumber(labels)
	return score(unit, labels)
}

// Labels extracts the topic ids of assignments.
func Labels(assignments []survey.Assignment) []int {
	out := make([]int, len(assignments))
	for i, a := range assignments {
		out[i] = a.TopicID
	}
	return out
}

func normalized(vectors [][]float64) [][]float64 {
	out := make([][]float64, len(vectors))
	for i, v := range vectors {
		u := append([]float64(nil), v...)
		if norm := floats.Norm(u, 2); norm > 0 {
			floats.Scale(1/norm, u)
		}
		out[i] = u
	}
	return out
}

// cosineDistance expects unit vectors.
func cosineDistance(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}
	return 1 - floats.Dot(a, b)
}

func regionQuery(unit [][]float64, i int, eps float64) []int {
	var out []int
	for j := range unit {
		if cosineDistance(unit[i], unit[j]) <= eps {
			out = append(out, j)
		}
	}
	return out
}

func renumber(labels []int) []int {
	type group struct {
		id, size, first int
	}
	groups := make(map[int]*group)
	for i, l := range labels {
		if l < 0 {
			continue
		}
		g, ok := groups[l]
		if !ok {
			g = &group{id: l, first: i}
			groups[l] = g
		}
		g.size++
	}

	ordered := make([]*group, 0, len(groups))
	for _, g := range groups {
		ordered = append(ordered, g)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].size != ordered[j].size {
			return ordered[i].size > ordered[j].size
		}
		return ordered[i].first < ordered[j].first
	})

	remap := make(map[int]int, len(ordered))
	for newID, g := range ordered {
		remap[g.id] = newID
	}
	out := make([]int, len(labels))
	for i, l := range labels {
		if l < 0 {
			out[i] = noise
			continue
		}
		out[i] = remap[l]
	}
	return out
}

func score(unit [][]float64, labels []int) []survey.Assignment {
	centroids := make(map[int][]float64)
	for i, l := range labels {
		if l < 0 || len(unit[i]) == 0 {
			continue
		}
		c, ok := centroids[l]
		if !ok {
			c = make([]float64, len(unit[i]))
			centroids[l] = c
		}
		if len(c) == len(unit[i]) {
			floats.Add(c, unit[i])
		}
	}
	for _, c := range centroids {
		if norm := floats.Norm(c, 2); norm > 0 {
			floats.Scale(1/norm, c)
		}
	}

	out := make([]survey.Assignment, len(labels))
	for i, l := range labels {
		if l < 0 {
			out[i] = survey.Scored(noise, 0)
			continue
		}
		sim := 1 - cosineDistance(unit[i], centroids[l])
		out[i] = survey.Scored(l, clamp01(sim))
	}
	return out
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
