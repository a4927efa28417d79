package survey

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
)

// ReadJSONL loads records from a JSON-lines export. Malformed lines are
// skipped with a warning; a file without any valid record is an error.
func ReadJSONL(path string) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("read file %s: %w", path, err)
	}

	var ds Dataset
	cleaned := true
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var raw struct {
			Record
			ResponseClean *string `json:"response_clean"`
		}
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			log.Printf("Warning: skipping malformed JSON at line %d in %s: %v", i+1, path, err)
			continue
		}
		rec := CleanedRecord{Record: raw.Record}
		if raw.ResponseClean != nil {
			rec.ResponseClean = *raw.ResponseClean
		} else {
			cleaned = false
		}
		ds.Records = append(ds.Records, rec)
	}

	if len(ds.Records) == 0 {
		return Dataset{}, fmt.Errorf("no valid records found in %s", path)
	}
	ds.Cleaned = cleaned
	return ds, nil
}

// Load reads a dataset, choosing the codec by file extension.
func Load(path string) (Dataset, error) {
	if strings.HasSuffix(strings.ToLower(path), ".jsonl") {
		return ReadJSONL(path)
	}
	return ReadDataset(path)
}
