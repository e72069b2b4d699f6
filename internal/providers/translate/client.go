// Package translate implements the translation provider client.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://translate.google.com"

// Config controls the client.
type Config struct {
	// BaseURL overrides the provider endpoint, mainly for tests.
	BaseURL string
	// Timeout bounds each request.
	Timeout time.Duration
}

// Client calls the single-phrase translation endpoint.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// New constructs a Client.
func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// Translate returns the raw translated text for word in the target
// language. Responses whose shape does not match the documented nested
// array are a provider error: the client fails closed rather than guess.
func (c *Client) Translate(ctx context.Context, word, languageCode string) (string, error) {
	endpoint := fmt.Sprintf(
		"%s/translate_a/single?client=gtx&sl=en&tl=%s&dt=t&q=%s",
		c.baseURL, url.QueryEscape(languageCode), url.QueryEscape(word),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build translate request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate %q to %s: %w", word, languageCode, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate %q to %s: status %d", word, languageCode, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read translate response: %w", err)
	}

	text, err := decodeFirstLeaf(body)
	if err != nil {
		return "", fmt.Errorf("translate %q to %s: %w", word, languageCode, err)
	}
	return text, nil
}

// decodeFirstLeaf walks the provider's nested-array response down to its
// first string leaf: payload[0][0][0].
func decodeFirstLeaf(body []byte) (string, error) {
	var payload []json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("unexpected response shape: %w", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("unexpected response shape: empty payload")
	}

	var sentences []json.RawMessage
	if err := json.Unmarshal(payload[0], &sentences); err != nil {
		return "", fmt.Errorf("unexpected response shape: %w", err)
	}
	if len(sentences) == 0 {
		return "", fmt.Errorf("unexpected response shape: no sentences")
	}

	var leaf []json.RawMessage
	if err := json.Unmarshal(sentences[0], &leaf); err != nil {
		return "", fmt.Errorf("unexpected response shape: %w", err)
	}
	if len(leaf) == 0 {
		return "", fmt.Errorf("unexpected response shape: empty sentence")
	}

	var text string
	if err := json.Unmarshal(leaf[0], &text); err != nil {
		return "", fmt.Errorf("unexpected response shape: %w", err)
	}
	return text, nil
}
