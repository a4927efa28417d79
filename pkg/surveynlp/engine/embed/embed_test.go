package embed

import (
	"context"
	"testing"
)

func TestParseEmbedFlag(t *testing.T) {
	t.Setenv("SURVEYNLP_EMBED_ENDPOINT", "")
	t.Setenv("SURVEYNLP_EMBED_API_KEY", "")

	cfg, err := ParseEmbedFlag("openrouter/sentence-transformers/all-MiniLM-L6-v2")
	if err != nil {
		t.Fatalf("ParseEmbedFlag: %v", err)
	}
	if cfg.Provider != "openrouter" || cfg.Model != "sentence-transformers/all-MiniLM-L6-v2" {
		t.Fatalf("unexpected config %+v", cfg)
	}

	cfg, err = ParseEmbedFlag("ollama/")
	if err != nil {
		t.Fatalf("ParseEmbedFlag: %v", err)
	}
	if cfg.Model != DefaultModel {
		t.Fatalf("expected default model, got %q", cfg.Model)
	}

	if _, err := ParseEmbedFlag("nomodel"); err == nil {
		t.Fatalf("expected error for missing provider separator")
	}
	if _, err := ParseEmbedFlag("acme/model"); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

func TestParseEnvOverride(t *testing.T) {
	t.Setenv("SURVEYNLP_EMBED_ENDPOINT", "http://embed.local/v1/")
	t.Setenv("SURVEYNLP_EMBED_API_KEY", "secret")
	cfg, err := ParseEmbedFlag("custom/minilm")
	if err != nil {
		t.Fatalf("ParseEmbedFlag: %v", err)
	}
	if cfg.BaseURL != "http://embed.local/v1/" || cfg.APIKey != "secret" {
		t.Fatalf("env overrides ignored: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRequiresKey(t *testing.T) {
	cfg := &EmbedConfig{Provider: "openai", Model: "m", BaseURL: "https://x/", TimeoutSecs: 1}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected missing key error")
	}
	cfg.Provider = "ollama"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("ollama needs no key: %v", err)
	}
}

func TestParseLSA(t *testing.T) {
	e, err := Parse("lsa:4")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if e.Name() != "lsa:4" {
		t.Fatalf("unexpected name %q", e.Name())
	}
	if _, err := Parse("lsa:zero"); err == nil {
		t.Fatalf("expected error for bad dimensions")
	}
}

func TestLSAEmbedsCorpus(t *testing.T) {
	corpus := []string{
		"falta agua potable",
		"agua potable acceso",
		"cortes luz frecuentes",
		"luz cortes barrio",
		"empleo local jovenes",
		"jovenes migran empleo",
	}
	lsa := NewLSA(3)
	ctx := context.Background()
	if err := lsa.Prepare(ctx, corpus); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if lsa.Dimensions() != 3 {
		t.Fatalf("expected 3 dimensions, got %d", lsa.Dimensions())
	}

	vectors, err := lsa.EmbedBatch(ctx, append([]string{""}, corpus...))
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	if len(vectors) != len(corpus)+1 {
		t.Fatalf("expected %d vectors, got %d", len(corpus)+1, len(vectors))
	}
	if vectors[0] != nil {
		t.Fatalf("empty text should have no vector")
	}
	for i, v := range vectors[1:] {
		if len(v) != 3 {
			t.Fatalf("vector %d has %d dimensions", i, len(v))
		}
	}
}

func TestLSARequiresPrepare(t *testing.T) {
	if _, err := NewLSA(2).EmbedBatch(context.Background(), []string{"agua"}); err == nil {
		t.Fatalf("expected error before Prepare")
	}
}
