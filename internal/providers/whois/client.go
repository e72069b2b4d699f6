// Package whois implements the Cloudflare Intel WHOIS availability client.
package whois

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

const defaultBaseURL = "https://api.cloudflare.com/client/v4"

// Config controls the client.
type Config struct {
	// BaseURL overrides the API root, mainly for tests.
	BaseURL string
	// APIToken is the bearer token.
	APIToken string
	// AccountID scopes the intel endpoint.
	AccountID string
	// Timeout bounds each request.
	Timeout time.Duration
}

// Client queries WHOIS records through the intel endpoint.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

// New constructs a Client.
func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
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

type intelResponse struct {
	Success bool `json:"success"`
	Errors  []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
	Result struct {
		// Found is a pointer so a missing field defaults to registered,
		// the conservative reading.
		Found *bool `json:"found"`
	} `json:"result"`
}

// Registered reports whether a WHOIS record exists for domain. Any error is
// an inconclusive lookup; callers map it to the unknown availability state.
func (c *Client) Registered(ctx context.Context, domain string) (bool, error) {
	endpoint := fmt.Sprintf("%s/accounts/%s/intel/whois?domain=%s",
		c.cfg.BaseURL, url.PathEscape(c.cfg.AccountID), url.QueryEscape(domain))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("build whois request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("whois %s: %w", domain, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("whois %s: status %d", domain, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return false, fmt.Errorf("read whois response: %w", err)
	}

	var parsed intelResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return false, fmt.Errorf("decode whois response: %w", err)
	}
	if !parsed.Success {
		msg := "unspecified error"
		if len(parsed.Errors) > 0 {
			msg = parsed.Errors[0].Message
		}
		return false, fmt.Errorf("whois %s: provider error: %s", domain, msg)
	}
	if parsed.Result.Found == nil {
		return true, nil
	}
	return *parsed.Result.Found, nil
}
