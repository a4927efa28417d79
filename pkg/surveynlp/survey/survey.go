// Package survey holds the record types shared by every pipeline stage and
// the CSV/JSONL codecs for the files those stages exchange.
package survey

import (
	"sort"
	"strings"
)

// OutlierTopic is the topic id for documents that belong to no topic.
const OutlierTopic = -1

// Record is one raw survey response.
type Record struct {
	Region   string `json:"region"`
	Group    string `json:"group"`
	Question string `json:"question"`
	Response string `json:"response"`
}

// CleanedRecord is a Record plus its normalized response.
type CleanedRecord struct {
	Record
	ResponseClean string `json:"response_clean"`
}

// Assignment is the topic chosen for one document. Probability is only
// meaningful when HasProbability is set; engines that cannot score a document
// leave it unset instead of reporting zero.
type Assignment struct {
	TopicID        int
	Probability    float64
	HasProbability bool
}

// IsOutlier reports whether the assignment carries the outlier sentinel.
func (a Assignment) IsOutlier() bool { return a.TopicID == OutlierTopic }

// Scored returns an assignment with a probability.
func Scored(topic int, p float64) Assignment {
	return Assignment{TopicID: topic, Probability: p, HasProbability: true}
}

// Unscored returns an assignment without a probability.
func Unscored(topic int) Assignment {
	return Assignment{TopicID: topic}
}

// Row is one line of the joined table.
type Row struct {
	CleanedRecord
	Assignment
}

// Table is the joined output of the pipeline, one row per input record.
type Table []Row

// TopicIDs returns the distinct topic ids in ascending order, outliers included.
func (t Table) TopicIDs() []int {
	seen := make(map[int]struct{})
	for _, r := range t {
		seen[r.TopicID] = struct{}{}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Count returns the number of rows assigned to topic.
func (t Table) Count(topic int) int {
	n := 0
	for _, r := range t {
		if r.TopicID == topic {
			n++
		}
	}
	return n
}

// Rows returns the rows assigned to topic, in table order.
func (t Table) Rows(topic int) []Row {
	var out []Row
	for _, r := range t {
		if r.TopicID == topic {
			out = append(out, r)
		}
	}
	return out
}

// Outliers returns how many rows carry the outlier sentinel.
func (t Table) Outliers() int { return t.Count(OutlierTopic) }

// TopWordsSeparator joins keywords in TopicInfo.TopWords.
const TopWordsSeparator = ", "

// SummarySeparator joins responses in a topic summary.
const SummarySeparator = " | "

// TopicInfo describes one topic for reporting.
type TopicInfo struct {
	TopicID  int
	Words    []string
	TopWords string
	Count    int
}

// NewTopicInfo builds a TopicInfo whose display string joins words.
func NewTopicInfo(id int, words []string, count int) TopicInfo {
	w := append([]string(nil), words...)
	return TopicInfo{TopicID: id, Words: w, TopWords: strings.Join(w, TopWordsSeparator), Count: count}
}

// TopicSummary is the textual digest of one topic.
type TopicSummary struct {
	TopicID int
	Summary string
}

// Representative is one high-probability response for a topic.
type Representative struct {
	TopicID        int
	Response       string
	Probability    float64
	HasProbability bool
}

// Dataset is the content of an input file. Cleaned is true when the file
// already carried a response_clean column.
type Dataset struct {
	Records []CleanedRecord
	Cleaned bool
}

// Raw returns the raw records of the dataset.
func (d Dataset) Raw() []Record {
	out := make([]Record, len(d.Records))
	for i, r := range d.Records {
		out[i] = r.Record
	}
	return out
}
