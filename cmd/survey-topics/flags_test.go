package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/internalerr"
)

func parse(t *testing.T, args ...string) (*options, error) {
	t.Helper()
	fs, o := newFlagSet("survey-topics")
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse: %v", err)
	}
	_, err := resolve(fs, o)
	return o, err
}

func TestResolveDefaults(t *testing.T) {
	fs, o := newFlagSet("survey-topics")
	_ = fs.Parse(nil)
	cfg, err := resolve(fs, o)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Input != "data/raw/survey_data.csv" || !cfg.Render || !cfg.FoldAccents {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "output_dir: from-file\ntop_n: 4\nengine:\n  kind: lda\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	fs, o := newFlagSet("survey-topics")
	if err := fs.Parse([]string{"-config", path, "-top-n", "2", "-no-render"}); err != nil {
		t.Fatal(err)
	}
	cfg, err := resolve(fs, o)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.OutputDir != "from-file" {
		t.Errorf("file value lost: %q", cfg.OutputDir)
	}
	if cfg.TopN != 2 {
		t.Errorf("flag should win over file, got top_n=%d", cfg.TopN)
	}
	if cfg.Engine.Kind != "lda" {
		t.Errorf("unset flag must not reset file value, got %q", cfg.Engine.Kind)
	}
	if cfg.Render {
		t.Error("-no-render should disable rendering")
	}
}

func TestResolveRejectsBadFlags(t *testing.T) {
	if _, err := parse(t, "-top-n-words", "0"); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if _, err := parse(t, "-engine", "bertopic"); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestResolveLevelsDefaultToNone(t *testing.T) {
	fs, o := newFlagSet("survey-topics")
	_ = fs.Parse(nil)
	cfg, err := resolve(fs, o)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(cfg.Regions) != 0 || len(cfg.Groups) != 0 {
		t.Fatalf("expected no extra levels, got regions=%v groups=%v", cfg.Regions, cfg.Groups)
	}
}

func TestResolveLevelsFromFileAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "regions: [Norte, Sur, Oriente]\ngroups: [Mujeres]\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	fs, o := newFlagSet("survey-topics")
	if err := fs.Parse([]string{"-config", path, "-groups", "Jovenes, Mayores,"}); err != nil {
		t.Fatal(err)
	}
	cfg, err := resolve(fs, o)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(cfg.Regions) != 3 || cfg.Regions[2] != "Oriente" {
		t.Errorf("regions from file lost: %v", cfg.Regions)
	}
	if len(cfg.Groups) != 2 || cfg.Groups[0] != "Jovenes" || cfg.Groups[1] != "Mayores" {
		t.Errorf("-groups should replace the file list, got %v", cfg.Groups)
	}
}

func TestResolveRejectsBadLanguage(t *testing.T) {
	if _, err := parse(t, "-lang", "not a tag!"); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	o, err := parse(t, "-lang", "es-CO")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if o.tag.String() != "es-CO" {
		t.Fatalf("tag = %s", o.tag)
	}
}
