// Package llm asks an OpenAI-compatible chat endpoint to draft labels for
// topics the curated registry does not cover yet.
package llm

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/labels"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/survey"
)

// Client calls an OpenAI-compatible chat completion endpoint. BaseURL is
// the API root, such as https://api.openai.com/v1/ or a local server's /v1/.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string

	HTTPClient *http.Client
}

// SuggestLabel drafts a label and category for one topic from its keywords
// and a few representative answers. Categories are restricted to the ones
// in categories; anything else comes back as labels.OtherCategory.
func (c *Client) SuggestLabel(ctx context.Context, topic survey.TopicInfo, responses []string, categories []string) (labels.Entry, error) {
	system := "You label topics found in Spanish public-policy survey answers. " +
		"Reply with exactly one line: <Area>: <short English label>|<category>."
	out, err := c.Chat(ctx, system, formatPrompt(topic, responses, categories))
	if err != nil {
		return labels.Entry{}, err
	}
	return parseSuggestion(out, categories)
}

func (c *Client) Chat(ctx context.Context, system, user string) (string, error) {
	if c.BaseURL == "" || c.Model == "" {
		return "", fmt.Errorf("llm: base URL and model required")
	}
	api := c.api()
	resp, err := api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})
	if err != nil {
		return "", fmt.Errorf("llm: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) api() openai.Client {
	apiKey := c.APIKey
	if apiKey == "" {
		// the SDK insists on a key; local servers ignore it
		apiKey = "local"
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return openai.NewClient(
		option.WithBaseURL(c.BaseURL),
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
	)
}

func formatPrompt(topic survey.TopicInfo, responses []string, categories []string) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Topic %d (%d answers)\nKeywords: %s\nAnswers:\n", topic.TopicID, topic.Count, topic.TopWords)
	for idx, r := range responses {
		fmt.Fprintf(&buf, "%d. %s\n", idx+1, r)
	}
	fmt.Fprintf(&buf, "\nCategories: %s\n", strings.Join(categories, ", "))
	return buf.String()
}

func parseSuggestion(out string, categories []string) (labels.Entry, error) {
	line := strings.TrimSpace(out)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	label, category, _ := strings.Cut(line, "|")
	label = strings.Trim(strings.TrimSpace(label), `"`)
	if label == "" {
		return labels.Entry{}, fmt.Errorf("llm: no label in %q", out)
	}

	category = strings.TrimSpace(category)
	entry := labels.Entry{Label: label, Category: labels.OtherCategory}
	for _, c := range categories {
		if strings.EqualFold(c, category) {
			entry.Category = c
			break
		}
	}
	return entry, nil
}
