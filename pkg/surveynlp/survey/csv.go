package survey

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/internalerr"
)

// Column names of the exchanged CSV files.
const (
	ColRegion        = "region"
	ColGroup         = "group"
	ColQuestion      = "question"
	ColResponse      = "response"
	ColResponseClean = "response_clean"
	ColTopic         = "Topic"
	ColProbability   = "Topic_Probability"
	ColTopWords      = "Top_Words"
	ColCount         = "Count"
	ColSummary       = "Summary"
	ColResponseOut   = "Response"
	ColProbOut       = "Probability"
)

var recordColumns = []string{ColRegion, ColGroup, ColQuestion, ColResponse}

// header maps lowercased, trimmed column names to their index.
type header map[string]int

func newHeader(cols []string) header {
	h := make(header, len(cols))
	for i, c := range cols {
		// strip a UTF-8 BOM left by spreadsheet exports
		c = strings.TrimPrefix(c, "\ufeff")
		h[strings.ToLower(strings.TrimSpace(c))] = i
	}
	return h
}

func (h header) require(path string, cols ...string) error {
	for _, c := range cols {
		if _, ok := h[strings.ToLower(c)]; !ok {
			return fmt.Errorf("%s: missing column %q: %w", path, c, internalerr.ErrSchemaMismatch)
		}
	}
	return nil
}

func (h header) has(col string) bool {
	_, ok := h[strings.ToLower(col)]
	return ok
}

func (h header) get(row []string, col string) string {
	i, ok := h[strings.ToLower(col)]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// readCSV loads the whole file and checks that every row matches the header width.
func readCSV(path string) (header, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("%s: empty file: %w", path, internalerr.ErrSchemaMismatch)
	}

	h := newHeader(rows[0])
	body := rows[1:]
	for i, row := range body {
		if len(row) != len(rows[0]) {
			return nil, nil, fmt.Errorf("%s line %d: %d fields, header has %d: %w",
				path, i+2, len(row), len(rows[0]), internalerr.ErrSchemaMismatch)
		}
	}
	return h, body, nil
}

// ReadDataset reads a raw or cleaned survey CSV.
func ReadDataset(path string) (Dataset, error) {
	h, rows, err := readCSV(path)
	if err != nil {
		return Dataset{}, err
	}
	if err := h.require(path, recordColumns...); err != nil {
		return Dataset{}, err
	}

	ds := Dataset{Cleaned: h.has(ColResponseClean), Records: make([]CleanedRecord, 0, len(rows))}
	for _, row := range rows {
		ds.Records = append(ds.Records, CleanedRecord{
			Record:        recordFrom(h, row),
			ResponseClean: h.get(row, ColResponseClean),
		})
	}
	return ds, nil
}

func recordFrom(h header, row []string) Record {
	return Record{
		Region:   h.get(row, ColRegion),
		Group:    h.get(row, ColGroup),
		Question: h.get(row, ColQuestion),
		Response: h.get(row, ColResponse),
	}
}

// WriteDataset writes records, with the response_clean column when withClean is set.
func WriteDataset(w io.Writer, records []CleanedRecord, withClean bool) error {
	cw := csv.NewWriter(w)
	head := append([]string(nil), recordColumns...)
	if withClean {
		head = append(head, ColResponseClean)
	}
	if err := cw.Write(head); err != nil {
		return err
	}
	for _, r := range records {
		line := []string{r.Region, r.Group, r.Question, r.Response}
		if withClean {
			line = append(line, r.ResponseClean)
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatProbability renders a probability for CSV output; absent values are empty.
func FormatProbability(p float64, ok bool) string {
	if !ok {
		return ""
	}
	return strconv.FormatFloat(p, 'f', -1, 64)
}

func parseProbability(s string) (float64, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	p, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, err
	}
	return p, true, nil
}

// WriteTable writes the joined table: the record columns followed by Topic and Topic_Probability.
func WriteTable(w io.Writer, table Table) error {
	cw := csv.NewWriter(w)
	head := append(append([]string(nil), recordColumns...), ColResponseClean, ColTopic, ColProbability)
	if err := cw.Write(head); err != nil {
		return err
	}
	for _, r := range table {
		line := []string{
			r.Region, r.Group, r.Question, r.Response, r.ResponseClean,
			strconv.Itoa(r.TopicID),
			FormatProbability(r.Probability, r.HasProbability),
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadTable reads a file written by WriteTable.
func ReadTable(path string) (Table, error) {
	h, rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if err := h.require(path, append(recordColumns, ColTopic)...); err != nil {
		return nil, err
	}

	table := make(Table, 0, len(rows))
	for i, row := range rows {
		topic, err := strconv.Atoi(strings.TrimSpace(h.get(row, ColTopic)))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: topic: %w", path, i+2, internalerr.ErrSchemaMismatch)
		}
		p, ok, err := parseProbability(h.get(row, ColProbability))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: probability: %w", path, i+2, internalerr.ErrSchemaMismatch)
		}
		table = append(table, Row{
			CleanedRecord: CleanedRecord{Record: recordFrom(h, row), ResponseClean: h.get(row, ColResponseClean)},
			Assignment:    Assignment{TopicID: topic, Probability: p, HasProbability: ok},
		})
	}
	return table, nil
}

// WriteTopicInfo writes Topic, Top_Words, Count.
func WriteTopicInfo(w io.Writer, infos []TopicInfo) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{ColTopic, ColTopWords, ColCount}); err != nil {
		return err
	}
	for _, ti := range infos {
		if err := cw.Write([]string{strconv.Itoa(ti.TopicID), ti.TopWords, strconv.Itoa(ti.Count)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadTopicInfo reads a file written by WriteTopicInfo. TopWords is kept
// verbatim; Words is derived by splitting it.
func ReadTopicInfo(path string) ([]TopicInfo, error) {
	h, rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if err := h.require(path, ColTopic, ColTopWords, ColCount); err != nil {
		return nil, err
	}

	infos := make([]TopicInfo, 0, len(rows))
	for i, row := range rows {
		id, err := strconv.Atoi(strings.TrimSpace(h.get(row, ColTopic)))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: topic: %w", path, i+2, internalerr.ErrSchemaMismatch)
		}
		count, err := strconv.Atoi(strings.TrimSpace(h.get(row, ColCount)))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: count: %w", path, i+2, internalerr.ErrSchemaMismatch)
		}
		top := h.get(row, ColTopWords)
		var words []string
		if top != "" {
			words = strings.Split(top, TopWordsSeparator)
		}
		infos = append(infos, TopicInfo{TopicID: id, Words: words, TopWords: top, Count: count})
	}
	return infos, nil
}

// WriteSummaries writes Topic, Summary.
func WriteSummaries(w io.Writer, summaries []TopicSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{ColTopic, ColSummary}); err != nil {
		return err
	}
	for _, s := range summaries {
		if err := cw.Write([]string{strconv.Itoa(s.TopicID), s.Summary}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRepresentatives writes Topic, Response, Probability.
func WriteRepresentatives(w io.Writer, reps []Representative) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{ColTopic, ColResponseOut, ColProbOut}); err != nil {
		return err
	}
	for _, r := range reps {
		line := []string{strconv.Itoa(r.TopicID), r.Response, FormatProbability(r.Probability, r.HasProbability)}
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
