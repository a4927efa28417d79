package llm

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/survey"
)

type roundTrip func(*http.Request) *http.Response

func (rt roundTrip) RoundTrip(req *http.Request) (*http.Response, error) {
	return rt(req), nil
}

func reply(t *testing.T, content string, check func(body string)) *Client {
	return replyStatus(t, http.StatusOK, content, check)
}

func replyStatus(t *testing.T, status int, content string, check func(body string)) *Client {
	t.Helper()
	return &Client{
		BaseURL: "https://api.test/v1/",
		Model:   "gpt-test",
		HTTPClient: &http.Client{
			Transport: roundTrip(func(req *http.Request) *http.Response {
				if req.URL.Path != "/v1/chat/completions" {
					t.Errorf("unexpected path %s", req.URL.Path)
				}
				body, _ := io.ReadAll(req.Body)
				if check != nil {
					check(string(body))
				}
				header := make(http.Header)
				header.Set("Content-Type", "application/json")
				return &http.Response{
					StatusCode: status,
					Body:       io.NopCloser(strings.NewReader(content)),
					Header:     header,
					Request:    req,
				}
			}),
		},
	}
}

func TestSuggestLabelSuccess(t *testing.T) {
	client := reply(t, `{"choices":[{"message":{"role":"assistant","content":"Infrastructure: Road Access|infrastructure\nextra"}}]}`,
		func(body string) {
			if !strings.Contains(body, "vias, carretera") {
				t.Fatalf("expected keywords in payload: %s", body)
			}
		})

	topic := survey.NewTopicInfo(3, []string{"vias", "carretera"}, 12)
	entry, err := client.SuggestLabel(context.Background(), topic, []string{"Las vias estan destruidas"}, []string{"Infrastructure", "Economy"})
	if err != nil {
		t.Fatalf("SuggestLabel: %v", err)
	}
	if entry.Label != "Infrastructure: Road Access" || entry.Category != "Infrastructure" {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestSuggestLabelUnknownCategory(t *testing.T) {
	client := reply(t, `{"choices":[{"message":{"role":"assistant","content":"Culture: Festivals|Culture"}}]}`, nil)
	entry, err := client.SuggestLabel(context.Background(), survey.NewTopicInfo(1, nil, 1), nil, []string{"Social"})
	if err != nil {
		t.Fatalf("SuggestLabel: %v", err)
	}
	if entry.Category != "Other" {
		t.Fatalf("expected fallback category, got %q", entry.Category)
	}
}

func TestSuggestLabelError(t *testing.T) {
	client := replyStatus(t, http.StatusBadRequest, `{"error":{"message":"bad","type":"invalid_request_error"}}`, nil)
	if _, err := client.SuggestLabel(context.Background(), survey.NewTopicInfo(0, nil, 0), nil, nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestChat(t *testing.T) {
	client := reply(t, `{"choices":[{"message":{"role":"assistant","content":"hi"}}]}`, nil)
	out, err := client.Chat(context.Background(), "system", "user prompt")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if out != "hi" {
		t.Fatalf("unexpected chat output %s", out)
	}
}

func TestChatRequiresConfig(t *testing.T) {
	if _, err := (&Client{}).Chat(context.Background(), "s", "u"); err == nil {
		t.Fatal("expected error without base URL and model")
	}
}

func TestChatEmptyChoices(t *testing.T) {
	client := reply(t, `{"id":"x","choices":[]}`, nil)
	if _, err := client.Chat(context.Background(), "s", "u"); err == nil {
		t.Fatal("expected error for a reply without choices")
	}
}
