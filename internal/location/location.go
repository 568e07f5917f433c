package location

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	defaultCountriesURL = "https://restcountries.com/v3.1/all?fields=name,cca2"
	defaultCitiesURL    = "https://countriesnow.space/api/v0.1/countries/cities"

	// Country and city lists change rarely and the upstreams are free,
	// unauthenticated services; cache for a week.
	cacheTTL       = 7 * 24 * time.Hour
	requestTimeout = 10 * time.Second
)

type Country struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type City struct {
	Name string `json:"name"`
}

type countriesEntry struct {
	data      []Country
	fetchedAt time.Time
}

type citiesEntry struct {
	data      []City
	fetchedAt time.Time
}

// Service proxies the country and city lookup providers used by the
// identity form. Provider failures never propagate: callers always get a
// list, possibly empty, and the failure is logged.
type Service struct {
	httpClient   *http.Client
	countriesURL string
	citiesURL    string
	now          func() time.Time

	mu        sync.Mutex
	countries countriesEntry
	cities    map[string]citiesEntry
}

func NewService(countriesURL, citiesURL string) *Service {
	if countriesURL == "" {
		countriesURL = defaultCountriesURL
	}
	if citiesURL == "" {
		citiesURL = defaultCitiesURL
	}
	return &Service{
		httpClient:   &http.Client{Timeout: requestTimeout},
		countriesURL: countriesURL,
		citiesURL:    citiesURL,
		now:          time.Now,
		cities:       make(map[string]citiesEntry),
	}
}

// Countries returns the sorted country list, from cache when fresh.
func (s *Service) Countries(ctx context.Context) []Country {
	s.mu.Lock()
	cached := s.countries
	s.mu.Unlock()
	if cached.data != nil && s.now().Sub(cached.fetchedAt) < cacheTTL {
		return cached.data
	}

	fetched, err := s.fetchCountries(ctx)
	if err != nil {
		log.Printf("[LOCATION]: countries fetch failed: %v", err)
		if cached.data != nil {
			return cached.data
		}
		return []Country{}
	}

	s.mu.Lock()
	s.countries = countriesEntry{data: fetched, fetchedAt: s.now()}
	s.mu.Unlock()
	return fetched
}

// Cities returns the sorted city list for a country, from cache when
// fresh. Any provider failure yields an empty list.
func (s *Service) Cities(ctx context.Context, country string) []City {
	key := strings.ToLower(strings.TrimSpace(country))

	s.mu.Lock()
	cached, ok := s.cities[key]
	s.mu.Unlock()
	if ok && s.now().Sub(cached.fetchedAt) < cacheTTL {
		return cached.data
	}

	fetched, err := s.fetchCities(ctx, country)
	if err != nil {
		log.Printf("[LOCATION]: cities fetch for %q failed: %v", country, err)
		if ok {
			return cached.data
		}
		return []City{}
	}

	s.mu.Lock()
	s.cities[key] = citiesEntry{data: fetched, fetchedAt: s.now()}
	s.mu.Unlock()
	return fetched
}

func (s *Service) fetchCountries(ctx context.Context) ([]Country, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.countriesURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode}
	}

	var raw []struct {
		Name struct {
			Common string `json:"common"`
		} `json:"name"`
		Code string `json:"cca2"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	countries := make([]Country, 0, len(raw))
	for _, c := range raw {
		countries = append(countries, Country{Name: c.Name.Common, Code: c.Code})
	}
	sort.Slice(countries, func(i, j int) bool {
		return countries[i].Name < countries[j].Name
	})
	return countries, nil
}

func (s *Service) fetchCities(ctx context.Context, country string) ([]City, error) {
	body, err := json.Marshal(map[string]string{"country": country})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.citiesURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode}
	}

	var raw struct {
		Data []string `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	cities := make([]City, 0, len(raw.Data))
	for _, name := range raw.Data {
		cities = append(cities, City{Name: name})
	}
	sort.Slice(cities, func(i, j int) bool {
		return cities[i].Name < cities[j].Name
	})
	return cities, nil
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("provider returned %d", e.code)
}
