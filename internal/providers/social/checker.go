// Package social checks handle availability across social platforms.
package social

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// Platform is one profile URL pattern to probe.
type Platform struct {
	Name string
	// URLFormat receives the handle as its single argument.
	URLFormat string
}

// DefaultPlatforms are the platforms probed when none are configured.
var DefaultPlatforms = []Platform{
	{Name: "github", URLFormat: "https://github.com/%s"},
	{Name: "gitlab", URLFormat: "https://gitlab.com/%s"},
	{Name: "twitter", URLFormat: "https://twitter.com/%s"},
	{Name: "linkedin", URLFormat: "https://linkedin.com/in/%s"},
}

// Result is one platform's availability verdict.
type Result struct {
	Platform  string
	URL       string
	Available bool
}

// Checker probes profile URLs; a 404 means the handle is free.
type Checker struct {
	platforms []Platform
	http      *http.Client
	logger    *zap.Logger
}

// New constructs a Checker. A nil platform list selects DefaultPlatforms.
func New(platforms []Platform, timeout time.Duration, logger *zap.Logger) *Checker {
	if len(platforms) == 0 {
		platforms = DefaultPlatforms
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checker{
		platforms: platforms,
		http:      &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

// Check probes every platform for name. Request failures read as "taken",
// the conservative verdict for a pass-through check.
func (c *Checker) Check(ctx context.Context, name string) []Result {
	results := make([]Result, 0, len(c.platforms))
	for _, platform := range c.platforms {
		profileURL := fmt.Sprintf(platform.URLFormat, url.PathEscape(name))
		results = append(results, Result{
			Platform:  platform.Name,
			URL:       profileURL,
			Available: c.probe(ctx, profileURL),
		})
	}
	return results
}

func (c *Checker) probe(ctx context.Context, profileURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, profileURL, nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("social probe failed", zap.String("url", profileURL), zap.Error(err))
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode == http.StatusNotFound
}

// AllAvailable reports whether every probed platform came back free.
func AllAvailable(results []Result) bool {
	for _, r := range results {
		if !r.Available {
			return false
		}
	}
	return len(results) > 0
}
