package survey

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/internalerr"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestReadDatasetRaw(t *testing.T) {
	path := writeFile(t, "raw.csv", "region,group,question,response\n"+
		"Pacifico,Mujeres,\"¿Qué necesidades prioritarias existen en su comunidad?\",Falta de acceso al agua potable\n"+
		"Caribe,Jovenes,q,\"Nos sentimos abandonados, personalmente hablando\"\n")

	ds, err := ReadDataset(path)
	if err != nil {
		t.Fatalf("ReadDataset: %v", err)
	}
	if ds.Cleaned {
		t.Fatalf("expected raw dataset")
	}
	if len(ds.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(ds.Records))
	}
	if ds.Records[1].Response != "Nos sentimos abandonados, personalmente hablando" {
		t.Fatalf("unexpected response %q", ds.Records[1].Response)
	}
	if ds.Records[0].Region != "Pacifico" || ds.Records[0].Group != "Mujeres" {
		t.Fatalf("unexpected record %+v", ds.Records[0])
	}
}

func TestReadDatasetMissingColumn(t *testing.T) {
	path := writeFile(t, "bad.csv", "region,group,question\nA,B,C\n")
	_, err := ReadDataset(path)
	if !errors.Is(err, internalerr.ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch, got %v", err)
	}
}

func TestReadDatasetMissingFile(t *testing.T) {
	_, err := ReadDataset(filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestReadDatasetShortRow(t *testing.T) {
	path := writeFile(t, "short.csv", "region,group,question,response\nA,B,C\n")
	if _, err := ReadDataset(path); !errors.Is(err, internalerr.ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch, got %v", err)
	}
}

func TestTableRoundTrip(t *testing.T) {
	table := Table{
		{CleanedRecord: CleanedRecord{Record: Record{"R1", "G1", "Q1", "agua, luz"}, ResponseClean: "agua luz"}, Assignment: Scored(0, 0.75)},
		{CleanedRecord: CleanedRecord{Record: Record{"R2", "G2", "Q2", "nada"}}, Assignment: Unscored(OutlierTopic)},
	}
	var buf bytes.Buffer
	if err := WriteTable(&buf, table); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	path := writeFile(t, "df_with_topics.csv", buf.String())

	got, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].Response != "agua, luz" || got[0].TopicID != 0 || !got[0].HasProbability || got[0].Probability != 0.75 {
		t.Fatalf("unexpected first row %+v", got[0])
	}
	if got[1].HasProbability || !got[1].IsOutlier() {
		t.Fatalf("unexpected second row %+v", got[1])
	}
}

func TestTopicInfoRoundTrip(t *testing.T) {
	infos := []TopicInfo{
		NewTopicInfo(0, []string{"agua", "potable", "acceso"}, 12),
		NewTopicInfo(3, []string{"empleo"}, 0),
		NewTopicInfo(4, nil, 2),
	}
	var buf bytes.Buffer
	if err := WriteTopicInfo(&buf, infos); err != nil {
		t.Fatalf("WriteTopicInfo: %v", err)
	}
	got, err := ReadTopicInfo(writeFile(t, "topic_info.csv", buf.String()))
	if err != nil {
		t.Fatalf("ReadTopicInfo: %v", err)
	}
	if len(got) != len(infos) {
		t.Fatalf("expected %d rows, got %d", len(infos), len(got))
	}
	for i := range infos {
		if got[i].TopicID != infos[i].TopicID || got[i].Count != infos[i].Count || got[i].TopWords != infos[i].TopWords {
			t.Errorf("row %d: got %+v want %+v", i, got[i], infos[i])
		}
		if len(got[i].Words) != len(infos[i].Words) {
			t.Errorf("row %d: words %v want %v", i, got[i].Words, infos[i].Words)
		}
	}
	if got[0].TopWords != "agua, potable, acceso" {
		t.Fatalf("unexpected display string %q", got[0].TopWords)
	}
}

func TestWriteSummariesAndRepresentatives(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummaries(&buf, []TopicSummary{{TopicID: 1, Summary: "a | b"}}); err != nil {
		t.Fatalf("WriteSummaries: %v", err)
	}
	if buf.String() != "Topic,Summary\n1,a | b\n" {
		t.Fatalf("unexpected summaries csv %q", buf.String())
	}

	buf.Reset()
	reps := []Representative{{TopicID: 2, Response: "x", Probability: 0.5, HasProbability: true}, {TopicID: 2, Response: "y"}}
	if err := WriteRepresentatives(&buf, reps); err != nil {
		t.Fatalf("WriteRepresentatives: %v", err)
	}
	if buf.String() != "Topic,Response,Probability\n2,x,0.5\n2,y,\n" {
		t.Fatalf("unexpected representatives csv %q", buf.String())
	}
}

func TestReadJSONL(t *testing.T) {
	path := writeFile(t, "survey.jsonl",
		`{"region":"Andina","group":"Mujeres","question":"q","response":"No hay empleo local"}`+"\n"+
			"not json\n"+
			`{"region":"Caribe","group":"Jovenes","question":"q","response":"Viviendas en mal estado"}`+"\n")

	ds, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ds.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(ds.Records))
	}
	if ds.Cleaned {
		t.Fatalf("records without response_clean should not count as cleaned")
	}
	if ds.Records[1].Region != "Caribe" {
		t.Fatalf("unexpected record %+v", ds.Records[1])
	}
}

func TestTableHelpers(t *testing.T) {
	table := Table{
		{Assignment: Scored(2, 0.1)},
		{Assignment: Unscored(OutlierTopic)},
		{Assignment: Scored(0, 0.2)},
		{Assignment: Scored(2, 0.3)},
	}
	ids := table.TopicIDs()
	if len(ids) != 3 || ids[0] != -1 || ids[1] != 0 || ids[2] != 2 {
		t.Fatalf("unexpected ids %v", ids)
	}
	if table.Count(2) != 2 || table.Outliers() != 1 {
		t.Fatalf("unexpected counts")
	}
}
