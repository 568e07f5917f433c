package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"
	defaultGeoURL  = "https://api.openweathermap.org/geo/1.0/direct"

	// SourcePrimary tags payloads served by the weather-by-name endpoint,
	// SourceGeocoded those served via the geocoding fallback.
	SourcePrimary  = "openweathermap"
	SourceGeocoded = "openweathermap-geo"

	requestTimeout = 10 * time.Second
)

// ErrNotConfigured is returned before any network call when no provider
// credential is configured. Weather features degrade; chat is unaffected.
var ErrNotConfigured = errors.New("weather: provider credential not configured")

// ProviderError carries the upstream status and body for server-side
// diagnostics. Handlers must not leak it to clients.
type ProviderError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("weather: provider call failed: %v", e.Err)
	}
	return fmt.Sprintf("weather: provider returned %d: %s", e.StatusCode, e.Body)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Payload is the normalized weather shape served to clients and cached.
type Payload struct {
	City        string   `json:"city"`
	Temperature *float64 `json:"temperature"`
	Condition   string   `json:"condition"`
	Icon        string   `json:"icon,omitempty"`
	Timestamp   string   `json:"timestamp"`
	Source      string   `json:"source"`
}

type providerResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp *float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}

type geocodeResult struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Client talks to the upstream weather and geocoding endpoints. Base URLs
// are overridable so tests can point it at a local server.
type Client struct {
	apiKey     string
	baseURL    string
	geoURL     string
	httpClient *http.Client
	now        func() time.Time
}

func NewClient(apiKey, baseURL, geoURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if geoURL == "" {
		geoURL = defaultGeoURL
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		geoURL:     geoURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		now:        time.Now,
	}
}

// FetchByCity resolves current weather for a city name. A 404 from the
// primary endpoint triggers the geocoding fallback; any other failure, or a
// fallback that also fails, surfaces as *ProviderError.
func (c *Client) FetchByCity(ctx context.Context, city string) (Payload, error) {
	if c.apiKey == "" {
		return Payload{}, ErrNotConfigured
	}

	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	status, body, err := c.getJSON(ctx, c.baseURL+"?"+q.Encode())
	if err != nil {
		return Payload{}, &ProviderError{Err: err}
	}

	if status == http.StatusNotFound {
		if payload, geoErr := c.fetchByGeocode(ctx, city); geoErr == nil {
			return payload, nil
		}
	}
	if status != http.StatusOK {
		return Payload{}, &ProviderError{StatusCode: status, Body: string(body)}
	}

	var pr providerResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return Payload{}, &ProviderError{StatusCode: status, Body: string(body), Err: err}
	}
	return c.normalize(city, pr, SourcePrimary), nil
}

// fetchByGeocode resolves the city to coordinates and fetches weather by
// lat/lon. Only called after the primary endpoint reported not-found.
func (c *Client) fetchByGeocode(ctx context.Context, city string) (Payload, error) {
	q := url.Values{}
	q.Set("q", city)
	q.Set("limit", "1")
	q.Set("appid", c.apiKey)

	status, body, err := c.getJSON(ctx, c.geoURL+"?"+q.Encode())
	if err != nil {
		return Payload{}, err
	}
	if status != http.StatusOK {
		return Payload{}, fmt.Errorf("geocode returned %d", status)
	}

	var results []geocodeResult
	if err := json.Unmarshal(body, &results); err != nil {
		return Payload{}, err
	}
	if len(results) == 0 {
		return Payload{}, fmt.Errorf("geocode found no match for %q", city)
	}

	wq := url.Values{}
	wq.Set("lat", strconv.FormatFloat(results[0].Lat, 'f', -1, 64))
	wq.Set("lon", strconv.FormatFloat(results[0].Lon, 'f', -1, 64))
	wq.Set("appid", c.apiKey)
	wq.Set("units", "metric")

	status, body, err = c.getJSON(ctx, c.baseURL+"?"+wq.Encode())
	if err != nil {
		return Payload{}, err
	}
	if status != http.StatusOK {
		return Payload{}, fmt.Errorf("weather by coordinates returned %d", status)
	}

	var pr providerResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return Payload{}, err
	}
	return c.normalize(city, pr, SourceGeocoded), nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

func (c *Client) normalize(city string, pr providerResponse, source string) Payload {
	p := Payload{
		City:        pr.Name,
		Temperature: pr.Main.Temp,
		Condition:   "Unknown",
		Timestamp:   c.now().UTC().Format(time.RFC3339),
		Source:      source,
	}
	if p.City == "" {
		p.City = city
	}
	if len(pr.Weather) > 0 {
		if d := pr.Weather[0].Description; d != "" {
			p.Condition = d
		}
		p.Icon = pr.Weather[0].Icon
	}
	return p
}
