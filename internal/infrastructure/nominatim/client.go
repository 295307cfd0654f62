// Package nominatim geocodes addresses with the OpenStreetMap Nominatim search API.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mcdlocator/backend/internal/domain"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://nominatim.openstreetmap.org"
	DefaultUserAgent = "mcd-geocoder/1.0"
)

// Config holds Nominatim client configuration
type Config struct {
	BaseURL   string
	UserAgent string
	// Interval between requests; the public service allows one per second
	Interval time.Duration
}

// Client implements domain.Geocoder
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	rateLimiter *rate.Limiter
	logger      zerolog.Logger
}

var _ domain.Geocoder = (*Client)(nil)

// NewClient creates a new Nominatim client
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Second
	}

	return &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		baseURL:     baseURL,
		userAgent:   userAgent,
		rateLimiter: rate.NewLimiter(rate.Every(interval), 1),
		logger:      logger.With().Str("component", "nominatim").Logger(),
	}
}

type place struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode returns the coordinates of the best match for address
func (c *Client) Geocode(ctx context.Context, address string) (float64, float64, error) {
	if strings.TrimSpace(address) == "" {
		return 0, 0, domain.ErrAddressNotFound
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return 0, 0, fmt.Errorf("rate limiter error: %w", err)
	}

	params := url.Values{}
	params.Add("q", address)
	params.Add("format", "json")
	params.Add("limit", "1")
	reqURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", domain.ErrGeocoderFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, 0, fmt.Errorf("%w: status %d: %s", domain.ErrGeocoderFailure, resp.StatusCode, string(body))
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return 0, 0, fmt.Errorf("%w: failed to decode response: %v", domain.ErrGeocoderFailure, err)
	}
	if len(places) == 0 {
		return 0, 0, fmt.Errorf("%w: %q", domain.ErrAddressNotFound, address)
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad latitude %q", domain.ErrGeocoderFailure, places[0].Lat)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad longitude %q", domain.ErrGeocoderFailure, places[0].Lon)
	}

	c.logger.Debug().Str("address", address).Str("match", places[0].DisplayName).Msg("geocoded")
	return lat, lon, nil
}
