package embed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// EmbedConfig holds embedding provider configuration.
type EmbedConfig struct {
	Provider    string // "ollama", "openai", "openrouter", "custom"
	Model       string
	BaseURL     string // API base, e.g. http://localhost:11434/v1/
	APIKey      string
	MaxRetries  int // default: 3
	TimeoutSecs int // per-request timeout (default: 60)
	BatchSize   int // texts per request (default: 64)
}

// ParseEmbedFlag parses "provider/model". Model names may contain slashes,
// as in "openrouter/sentence-transformers/all-MiniLM-L6-v2".
func ParseEmbedFlag(flag string) (*EmbedConfig, error) {
	provider, model, ok := strings.Cut(flag, "/")
	if !ok {
		return nil, fmt.Errorf("invalid embed format: expected 'provider/model', got %q", flag)
	}
	if provider == "" {
		return nil, fmt.Errorf("empty provider in embed flag: %q", flag)
	}
	if model == "" {
		model = DefaultModel
	}

	config := &EmbedConfig{
		Provider:    provider,
		Model:       model,
		MaxRetries:  3,
		TimeoutSecs: 60,
		BatchSize:   64,
	}

	switch provider {
	case "ollama":
		config.BaseURL = "http://localhost:11434/v1/"
	case "openai":
		config.BaseURL = "https://api.openai.com/v1/"
		config.APIKey = os.Getenv("OPENAI_API_KEY")
	case "openrouter":
		config.BaseURL = "https://openrouter.ai/api/v1/"
		config.APIKey = os.Getenv("OPENROUTER_API_KEY")
	case "custom":
	default:
		return nil, fmt.Errorf("unknown provider %q. Supported: ollama, openai, openrouter, custom", provider)
	}

	if endpoint := os.Getenv("SURVEYNLP_EMBED_ENDPOINT"); endpoint != "" {
		config.BaseURL = endpoint
	}
	if apiKey := os.Getenv("SURVEYNLP_EMBED_API_KEY"); apiKey != "" {
		config.APIKey = apiKey
	}
	return config, nil
}

// Validate checks if the embedding configuration is complete.
func (c *EmbedConfig) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is required (set SURVEYNLP_EMBED_ENDPOINT)")
	}
	if c.Provider != "ollama" && c.APIKey == "" {
		return fmt.Errorf("API key is required for provider %q (set via environment variable)", c.Provider)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	if c.TimeoutSecs <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

// Client embeds text through an OpenAI-compatible /embeddings endpoint.
type Client struct {
	config     EmbedConfig
	api        *openai.Client
	dimensions int
}

// NewClient creates a new embedding client with the given configuration.
func NewClient(config *EmbedConfig) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 64
	}

	opts := []option.RequestOption{
		option.WithBaseURL(config.BaseURL),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(time.Duration(config.TimeoutSecs) * time.Second),
	}
	if config.APIKey != "" {
		opts = append(opts, option.WithAPIKey(config.APIKey))
	} else {
		// the SDK insists on a key; local servers ignore it
		opts = append(opts, option.WithAPIKey("ollama"))
	}
	api := openai.NewClient(opts...)

	return &Client{config: *config, api: &api}, nil
}

// Name returns provider/model.
func (c *Client) Name() string { return c.config.Provider + "/" + c.config.Model }

// Prepare is a no-op for pretrained models.
func (c *Client) Prepare(ctx context.Context, corpus []string) error { return nil }

// Dimensions returns the dimensionality seen in the last response.
func (c *Client) Dimensions() int { return c.dimensions }

// EmbedBatch embeds texts in batches, skipping empty ones.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	result := make([][]float64, len(texts))

	nonEmpty := make([]string, 0, len(texts))
	indexMap := make([]int, 0, len(texts))
	for i, text := range texts {
		if strings.TrimSpace(text) != "" {
			nonEmpty = append(nonEmpty, text)
			indexMap = append(indexMap, i)
		}
	}

	for start := 0; start < len(nonEmpty); start += c.config.BatchSize {
		end := min(start+c.config.BatchSize, len(nonEmpty))
		vectors, err := c.callWithRetry(ctx, nonEmpty[start:end])
		if err != nil {
			return nil, err
		}
		for i, v := range vectors {
			result[indexMap[start+i]] = v
		}
	}
	return result, nil
}

func (c *Client) callWithRetry(ctx context.Context, batch []string) ([][]float64, error) {
	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		vectors, err := c.attempt(ctx, batch)
		if err == nil {
			return vectors, nil
		}
		lastErr = err
		if attempt == c.config.MaxRetries || !retryable(err) {
			break
		}

		// 1s, 2s, 4s
		backoff := time.Duration(1<<attempt) * time.Second
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
	return nil, fmt.Errorf("embedding failed after %d attempts: %w", c.config.MaxRetries+1, lastErr)
}

func (c *Client) attempt(ctx context.Context, batch []string) ([][]float64, error) {
	resp, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: batch},
		Model: openai.EmbeddingModel(c.config.Model),
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) != len(batch) {
		return nil, fmt.Errorf("provider returned %d embeddings for %d texts", len(resp.Data), len(batch))
	}

	data := resp.Data
	sort.Slice(data, func(i, j int) bool { return data[i].Index < data[j].Index })
	vectors := make([][]float64, len(data))
	for i, d := range data {
		vectors[i] = d.Embedding
	}
	if len(vectors) > 0 {
		c.dimensions = len(vectors[0])
	}
	return vectors, nil
}

func retryable(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "connection refused")
}
