package artifacts

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func text(s string) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	}
}

func TestCommitWritesAll(t *testing.T) {
	root := t.TempDir()
	b := NewBatch()
	if err := b.Add(filepath.Join(root, "outputs"), "topic_info.csv", text("Topic,Top_Words,Count\n")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := b.Add(filepath.Join(root, "visuals"), "topic_map.html", text("<html></html>")); err != nil {
		t.Fatalf("Add: %v", err)
	}

	paths, err := b.Commit()
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 paths, got %v", paths)
	}
	data, err := os.ReadFile(filepath.Join(root, "outputs", "topic_info.csv"))
	if err != nil || string(data) != "Topic,Top_Words,Count\n" {
		t.Fatalf("unexpected content %q (%v)", data, err)
	}
	assertNoTemps(t, filepath.Join(root, "outputs"))
}

func TestRenderErrorStopsBeforeDisk(t *testing.T) {
	root := t.TempDir()
	b := NewBatch()
	boom := errors.New("boom")
	err := b.Add(root, "bad.csv", func(io.Writer) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected render error, got %v", err)
	}
	if b.Len() != 0 {
		t.Fatalf("failed entry must not be queued")
	}
}

func TestCommitIsAllOrNone(t *testing.T) {
	root := t.TempDir()
	good := filepath.Join(root, "outputs")
	blocker := filepath.Join(root, "visuals")
	// a regular file where a directory is expected makes staging fail
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	b := NewBatch()
	_ = b.Add(good, "topic_info.csv", text("a"))
	_ = b.Add(good, "df_with_topics.csv", text("b"))
	_ = b.Add(blocker, "chart.html", text("c"))

	if _, err := b.Commit(); err == nil {
		t.Fatalf("expected commit failure")
	}
	entries, err := os.ReadDir(good)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no files after failed commit, found %d", len(entries))
	}
}

func TestAddRejectsDuplicates(t *testing.T) {
	b := NewBatch()
	if err := b.Add("d", "f", text("1")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := b.Add("d", "f", text("2")); err == nil {
		t.Fatalf("expected duplicate error")
	}
}

func assertNoTemps(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".csv" {
			t.Fatalf("leftover file %s", e.Name())
		}
	}
}

func TestWriteSingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "raw", "survey_data.csv")
	if err := Write(path, text("region\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "region\n" {
		t.Fatalf("unexpected content %q (%v)", data, err)
	}
}

func TestCommitKeepsOldFilesWhenLaterTargetIsDirectory(t *testing.T) {
	root := t.TempDir()
	first := filepath.Join(root, "a.csv")
	if err := os.WriteFile(first, []byte("old"), 0o644); err != nil {
		t.Fatalf("write a.csv: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(root, "b.csv", "inner"), 0o755); err != nil {
		t.Fatalf("mkdir b.csv: %v", err)
	}

	b := NewBatch()
	_ = b.Add(root, "a.csv", text("new"))
	_ = b.Add(root, "b.csv", text("new"))
	if _, err := b.Commit(); err == nil {
		t.Fatalf("expected commit failure")
	}

	data, err := os.ReadFile(first)
	if err != nil || string(data) != "old" {
		t.Fatalf("a.csv replaced by failed commit: %q (%v)", data, err)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected only a.csv and b.csv, found %d entries", len(entries))
	}
}

func TestCommitReplacesExistingFiles(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "topic_info.csv")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	b := NewBatch()
	_ = b.Add(root, "topic_info.csv", text("new"))
	if _, err := b.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "new" {
		t.Fatalf("unexpected content %q (%v)", data, err)
	}
	assertNoTemps(t, root)
}
