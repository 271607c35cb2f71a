package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"astro-connector/internal/domain/entities"
	"astro-connector/internal/infra/logger"
)

type AstrologyProvider struct {
	Logger     *logger.Logger
	HttpClient *http.Client
	BaseURL    string
	APIKey     string
}

func NewAstrologyProvider(log *logger.Logger, baseURL, apiKey string, timeout time.Duration) *AstrologyProvider {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &AstrologyProvider{
		Logger:     log,
		HttpClient: &http.Client{Timeout: timeout},
		BaseURL:    baseURL,
		APIKey:     apiKey,
	}
}

// Fetch requests one dataset per required key. Failure of a single key is
// recorded in that key's result instead of failing the whole fetch; the
// returned error is non-nil only when every key failed.
func (ap *AstrologyProvider) Fetch(ctx context.Context, birth entities.BirthDetails, keys []entities.DataKey) (map[entities.DataKey]entities.DataResult, error) {
	results := make(map[entities.DataKey]entities.DataResult, len(keys))
	failures := 0

	for _, key := range keys {
		payload, err := ap.fetchOne(ctx, birth, key)
		if err != nil {
			ap.Logger.Warn(fmt.Sprintf("Astrology fetch failed for key %s: %v", key, err))
			results[key] = entities.DataResult{Error: err.Error()}
			failures++
			continue
		}
		results[key] = entities.DataResult{Payload: payload}
	}

	if len(keys) > 0 && failures == len(keys) {
		return results, fmt.Errorf("astrology provider: all %d datasets failed", failures)
	}
	return results, nil
}

func (ap *AstrologyProvider) fetchOne(ctx context.Context, birth entities.BirthDetails, key entities.DataKey) (map[string]interface{}, error) {
	if ap.BaseURL == "" {
		return nil, fmt.Errorf("astrology service not configured")
	}

	body, err := json.Marshal(map[string]interface{}{
		"date":      birth.Date,
		"time":      birth.Time,
		"latitude":  birth.Coordinates.Latitude,
		"longitude": birth.Coordinates.Longitude,
		"timezone":  birth.Coordinates.Timezone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	reqURL := fmt.Sprintf("%s/v1/%s", ap.BaseURL, key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", ap.APIKey))

	res, err := ap.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected HTTP status: %s", res.Status)
	}

	var payload map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}
	return payload, nil
}
