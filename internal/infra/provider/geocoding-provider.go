package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"astro-connector/internal/domain/dto"
	"astro-connector/internal/domain/entities"
	"astro-connector/internal/infra/logger"
)

// cityFallbacks covers the places most profiles are created with, so that
// profile creation survives a geocoding outage.
var cityFallbacks = map[string]entities.Coordinates{
	"mumbai":    {Latitude: 19.0760, Longitude: 72.8777, Timezone: "Asia/Kolkata", City: "Mumbai", Country: "India"},
	"delhi":     {Latitude: 28.7041, Longitude: 77.1025, Timezone: "Asia/Kolkata", City: "Delhi", Country: "India"},
	"bengaluru": {Latitude: 12.9716, Longitude: 77.5946, Timezone: "Asia/Kolkata", City: "Bengaluru", Country: "India"},
	"bangalore": {Latitude: 12.9716, Longitude: 77.5946, Timezone: "Asia/Kolkata", City: "Bengaluru", Country: "India"},
	"chennai":   {Latitude: 13.0827, Longitude: 80.2707, Timezone: "Asia/Kolkata", City: "Chennai", Country: "India"},
	"kolkata":   {Latitude: 22.5726, Longitude: 88.3639, Timezone: "Asia/Kolkata", City: "Kolkata", Country: "India"},
	"hyderabad": {Latitude: 17.3850, Longitude: 78.4867, Timezone: "Asia/Kolkata", City: "Hyderabad", Country: "India"},
	"pune":      {Latitude: 18.5204, Longitude: 73.8567, Timezone: "Asia/Kolkata", City: "Pune", Country: "India"},
	"ahmedabad": {Latitude: 23.0225, Longitude: 72.5714, Timezone: "Asia/Kolkata", City: "Ahmedabad", Country: "India"},
	"jaipur":    {Latitude: 26.9124, Longitude: 75.7873, Timezone: "Asia/Kolkata", City: "Jaipur", Country: "India"},
	"lucknow":   {Latitude: 26.8467, Longitude: 80.9462, Timezone: "Asia/Kolkata", City: "Lucknow", Country: "India"},
}

type GeocodingProvider struct {
	Logger     *logger.Logger
	HttpClient *http.Client
	BaseURL    string
}

// NewGeocodingProvider builds the geocoding client. timeout bounds every
// lookup (default 10s when zero).
func NewGeocodingProvider(log *logger.Logger, baseURL string, timeout time.Duration) *GeocodingProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GeocodingProvider{
		Logger:     log,
		HttpClient: &http.Client{Timeout: timeout},
		BaseURL:    baseURL,
	}
}

// Resolve looks up coordinates for a place name. On any upstream failure it
// falls back to the static city table before surfacing ErrLocationNotFound.
func (gp *GeocodingProvider) Resolve(ctx context.Context, place string) (entities.Coordinates, error) {
	coords, err := gp.lookup(ctx, place)
	if err == nil {
		return coords, nil
	}

	gp.Logger.Warn(fmt.Sprintf("Geocoding lookup failed for %q, trying fallback table: %v", place, err))
	if fallback, ok := cityFallbacks[strings.ToLower(strings.TrimSpace(place))]; ok {
		return fallback, nil
	}

	return entities.Coordinates{}, fmt.Errorf("%w: %s", ErrLocationNotFound, place)
}

func (gp *GeocodingProvider) lookup(ctx context.Context, place string) (entities.Coordinates, error) {
	if gp.BaseURL == "" {
		return entities.Coordinates{}, fmt.Errorf("geocoding service not configured")
	}

	reqURL := fmt.Sprintf("%s/geocode?place=%s", gp.BaseURL, url.QueryEscape(place))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return entities.Coordinates{}, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := gp.HttpClient.Do(req)
	if err != nil {
		return entities.Coordinates{}, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return entities.Coordinates{}, fmt.Errorf("unexpected HTTP status: %s", res.Status)
	}

	var geocode dto.GeocodeResponse
	if err := json.NewDecoder(res.Body).Decode(&geocode); err != nil {
		return entities.Coordinates{}, fmt.Errorf("failed to decode response body: %w", err)
	}
	if len(geocode.Results) == 0 {
		return entities.Coordinates{}, fmt.Errorf("no results for %q", place)
	}

	first := geocode.Results[0]
	return entities.Coordinates{
		Latitude:  first.Latitude,
		Longitude: first.Longitude,
		Timezone:  first.Timezone,
		City:      first.City,
		Country:   first.Country,
	}, nil
}
