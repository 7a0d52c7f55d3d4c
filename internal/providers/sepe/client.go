// Package sepe talks to the formative-specialty catalog endpoint that knows
// the certificate level for a specialty code.
package sepe

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cursos-madrid/internal/enrich"
	"cursos-madrid/internal/httpx"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client

	// Retry keeps the per-record lookups cheap to fail: a handful of
	// attempts, not the long feed-download schedule.
	Retry httpx.RetryConfig
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second, // per request
		},
		Retry: httpx.RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   400 * time.Millisecond,
			MaxDelay:    5 * time.Second,
			Retry5xx:    true,
		},
	}
}

// specialtyResponse is the relevant slice of the endpoint's payload. The
// level comes back as "nivel"; the detail URL is optional.
type specialtyResponse struct {
	Codigo string `json:"codigo"`
	Nivel  string `json:"nivel"`
	URL    string `json:"url"`
}

// SpecialtyLevel resolves one normalized code. A non-success status or a
// response without a nivel field is an error for this record only; the
// caller decides what that means for the batch.
func (c *Client) SpecialtyLevel(ctx context.Context, code string) (enrich.Result, error) {
	var out specialtyResponse
	err := httpx.DoJSON(ctx, c.HTTP, func(ctx context.Context) (*http.Request, error) {
		endpoint := fmt.Sprintf("%s/especialidades/%s", c.BaseURL, url.PathEscape(code))
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}, &out, c.Retry)
	if err != nil {
		return enrich.Result{}, fmt.Errorf("sepe: lookup %s: %w", code, err)
	}

	level := strings.TrimSpace(out.Nivel)
	if level == "" {
		return enrich.Result{}, fmt.Errorf("sepe: lookup %s: response has no nivel", code)
	}
	return enrich.Result{Level: level, DetailURL: strings.TrimSpace(out.URL)}, nil
}
