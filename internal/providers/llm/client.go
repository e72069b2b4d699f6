// Package llm implements the language-model boundary: an OpenAI-compatible
// chat-completions client issuing the pipeline's structured prompts.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Config controls the client.
type Config struct {
	// BaseURL is the API root, e.g. http://127.0.0.1:1234/v1.
	BaseURL string
	// APIKey is sent as a bearer token. Local hosts often accept anything.
	APIKey string
	// Model names the model to run completions against.
	Model string
	// Timeout bounds each request.
	Timeout time.Duration
}

// Client talks to a locally hosted OpenAI-compatible endpoint.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

// New constructs a Client.
func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

const webifyPrompt = `Convert the following word into a list of Web 2.0 style SaaS name by removing a single vowel each time. Return the output as a JS string array. If there is only one result make sure the array has only one element. Do not output any text other than the array

word: %s`

// Webify asks the model for vowel-elided variants of word.
func (c *Client) Webify(ctx context.Context, word string) ([]string, error) {
	content, err := c.complete(ctx, fmt.Sprintf(webifyPrompt, word), stringArraySchema("webified"))
	if err != nil {
		return nil, err
	}
	return parseWordList(content)
}

const synonymsPrompt = `Find synonyms for the provided word. Provide at least 10 synonyms. Return the output as a JS string array. If there is only one result make sure the array has only one element. Do not output any text other than the array

word: %s`

// Synonyms asks the model for synonym words.
func (c *Client) Synonyms(ctx context.Context, word string) ([]string, error) {
	content, err := c.complete(ctx, fmt.Sprintf(synonymsPrompt, word), stringArraySchema("synonyms"))
	if err != nil {
		return nil, err
	}
	return parseWordList(content)
}

const ratePrompt = `Given the following word, rate its potential for a good product/business name. This should include how easy it would be to pronounce for an english speaker and how easy it would be to spell. Output the rating as a number between 0 and 100 where 0 is bad and 100 is good.

word: %s`

// Rate asks the model to score word in [0,100].
func (c *Client) Rate(ctx context.Context, word string) (float64, error) {
	content, err := c.complete(ctx, fmt.Sprintf(ratePrompt, word), ratingSchema())
	if err != nil {
		return 0, err
	}
	var parsed struct {
		Rating *float64 `json:"rating"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return 0, fmt.Errorf("parse rating response: %w", err)
	}
	if parsed.Rating == nil {
		return 0, fmt.Errorf("rating response missing rating field")
	}
	return *parsed.Rating, nil
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat json.RawMessage `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) complete(ctx context.Context, prompt string, responseFormat json.RawMessage) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:          c.cfg.Model,
		Messages:       []chatMessage{{Role: "user", Content: prompt}},
		ResponseFormat: responseFormat,
	})
	if err != nil {
		return "", fmt.Errorf("encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(c.cfg.BaseURL, "/")+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion request: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read completion response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion response has no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// parseWordList re-parses the model's structured output, keeping only
// non-empty single-word strings in lowercase. Non-string entries and
// entries containing whitespace are discarded.
func parseWordList(content string) ([]string, error) {
	var entries []any
	if err := json.Unmarshal([]byte(content), &entries); err != nil {
		return nil, fmt.Errorf("parse word list: %w", err)
	}
	list := make([]string, 0, len(entries))
	for _, entry := range entries {
		word, ok := entry.(string)
		if !ok {
			continue
		}
		word = strings.ToLower(word)
		if word == "" || strings.ContainsAny(word, " \t\n") {
			continue
		}
		list = append(list, word)
	}
	return list, nil
}

func stringArraySchema(name string) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{
		"type": "json_schema",
		"json_schema": {
			"name": %q,
			"strict": true,
			"schema": {"type": "array", "items": {"type": "string"}}
		}
	}`, name))
}

func ratingSchema() json.RawMessage {
	return json.RawMessage(`{
		"type": "json_schema",
		"json_schema": {
			"name": "rating",
			"strict": true,
			"schema": {
				"type": "object",
				"properties": {"rating": {"type": "number"}},
				"required": ["rating"]
			}
		}
	}`)
}
