// Package geoip resolves client IP addresses to country names through an
// ipapi-compatible HTTP API.
package geoip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"leadportal_backend/platform/config"
)

const (
	defaultBaseURL = "https://ipapi.co"
	defaultTimeout = 5 * time.Second
)

// ErrNoCountry is returned when the API answers without a country name.
var ErrNoCountry = errors.New("geoip: no country in response")

type lookupResponse struct {
	CountryName string `json:"country_name"`
	Error       bool   `json:"error"`
	Reason      string `json:"reason"`
}

// Client performs one lookup per call. It does not retry.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client from configuration.
func New(cfg config.GeoIPConfig) *Client {
	baseURL := strings.TrimRight(cfg.GetGeoIPBaseURL(), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.GetGeoIPTimeout()
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// LookupCountry returns the country name for ip.
func (c *Client) LookupCountry(ctx context.Context, ip string) (string, error) {
	reqURL := fmt.Sprintf("%s/%s/json/", c.baseURL, url.PathEscape(ip))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "LeadPortal/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("geoip request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("geoip upstream error: %d", resp.StatusCode)
	}

	var payload lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("geoip decode: %w", err)
	}
	if payload.Error {
		return "", fmt.Errorf("geoip lookup rejected: %s", payload.Reason)
	}

	country := strings.TrimSpace(payload.CountryName)
	if country == "" {
		return "", ErrNoCountry
	}
	return country, nil
}
