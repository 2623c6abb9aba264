// Package fetch performs single authenticated HTTP calls against provider
// APIs. It never retries and never classifies HTTP errors: backoff and
// failure accounting live entirely in the scheduler.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/Vodeneev/fairline/internal/providers"
)

const userAgent = "fairline/1.0 (+https://github.com/Vodeneev/fairline)"

// Response is the outcome of one upstream call. Status is set for every
// HTTP-level response, including errors; only transport failures return a
// Go error instead.
type Response struct {
	Status int
	Body   []byte
	Header http.Header
}

// Client is safe for concurrent use across providers.
type Client struct {
	httpClient *http.Client
}

// NewClient builds a client with per-request timeout. Transport compression
// is disabled because we advertise and decode gzip/br/zstd ourselves.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DisableCompression = true
	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// Fetch performs one GET against prov's endpoint. Network failure returns
// (nil, err); non-2xx responses come back as a normal Response. The
// diagnostic log line never contains the API key.
func (c *Client) Fetch(ctx context.Context, prov providers.Provider, endpoint string) (*Response, error) {
	if prov.Host == "" {
		return nil, fmt.Errorf("provider %s: host is empty", prov.ID)
	}

	reqURL, err := buildURL(prov, endpoint)
	if err != nil {
		return nil, fmt.Errorf("provider %s: %w", prov.ID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("provider %s: new request: %w", prov.ID, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, br, zstd")
	req.Header.Set("User-Agent", userAgent)
	if prov.AuthMethod == providers.AuthHeader && prov.AuthParam != "" {
		req.Header.Set(prov.AuthParam, os.Getenv(prov.KeyEnvVar))
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("provider fetch failed",
			"provider", prov.ID,
			"url", redactURL(reqURL, prov),
			"error", err,
		)
		return nil, fmt.Errorf("provider %s: %w", prov.ID, err)
	}
	defer resp.Body.Close()

	body, err := readBodyDecode(resp)
	if err != nil {
		return nil, fmt.Errorf("provider %s: read body: %w", prov.ID, err)
	}

	slog.Debug("provider fetch",
		"provider", prov.ID,
		"url", redactURL(reqURL, prov),
		"status", resp.StatusCode,
		"bytes", len(body),
		"took", time.Since(start),
	)

	return &Response{
		Status: resp.StatusCode,
		Body:   body,
		Header: resp.Header,
	}, nil
}

func buildURL(prov providers.Provider, endpoint string) (string, error) {
	host := prov.Host
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	u, err := url.Parse(host + "/" + strings.TrimPrefix(endpoint, "/"))
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if prov.AuthMethod == providers.AuthQuery && prov.AuthParam != "" {
		q := u.Query()
		q.Set(prov.AuthParam, os.Getenv(prov.KeyEnvVar))
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// redactURL replaces the auth query value so keys never reach the logs.
// Header auth never appears in a URL.
func redactURL(rawURL string, prov providers.Provider) string {
	if prov.AuthMethod != providers.AuthQuery || prov.AuthParam == "" {
		return rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	if q.Has(prov.AuthParam) {
		q.Set(prov.AuthParam, "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
