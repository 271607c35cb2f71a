package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"astro-connector/internal/domain/dto"
	"astro-connector/internal/infra/logger"
)

type GenerationProvider struct {
	Logger     *logger.Logger
	HttpClient *http.Client
	BaseURL    string
	APIKey     string
}

func NewGenerationProvider(log *logger.Logger, baseURL, apiKey string, timeout time.Duration) *GenerationProvider {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GenerationProvider{
		Logger:     log,
		HttpClient: &http.Client{Timeout: timeout},
		BaseURL:    baseURL,
		APIKey:     apiKey,
	}
}

// Generate sends the user question and the composed context to the text
// generation service and returns the reply text.
func (gp *GenerationProvider) Generate(ctx context.Context, query string, promptContext string, overview bool) (string, error) {
	if gp.BaseURL == "" {
		return "", fmt.Errorf("%w: service not configured", ErrGenerationUnavailable)
	}

	mode := "question"
	if overview {
		mode = "overview"
	}

	payload := dto.GenerationRequest{
		QueryText:      query,
		MessageContext: promptContext,
		Mode:           mode,
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		gp.Logger.Error(fmt.Sprintf("Failed to marshal payload: %s", err.Error()))
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, gp.BaseURL+"/query", bytes.NewBuffer(payloadBytes))
	if err != nil {
		gp.Logger.Error(fmt.Sprintf("Failed to create HTTP request: %s", err.Error()))
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if gp.APIKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", gp.APIKey))
	}

	res, err := gp.HttpClient.Do(req)
	if err != nil {
		gp.Logger.Error(fmt.Sprintf("Failed to send POST request: %s", err.Error()))
		return "", fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		gp.Logger.Error(fmt.Sprintf("Failed to read response body: %s", err.Error()))
		return "", fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
	}

	if res.StatusCode != http.StatusOK {
		gp.Logger.Error(fmt.Sprintf("Generation service returned an error. Status: %d, Body: %s", res.StatusCode, string(body)))
		return "", fmt.Errorf("%w: status %d", ErrGenerationUnavailable, res.StatusCode)
	}

	var generation dto.GenerationResponse
	if err := json.Unmarshal(body, &generation); err != nil {
		gp.Logger.Error(fmt.Sprintf("Failed to unmarshal response body: %s", err.Error()))
		return "", fmt.Errorf("%w: malformed payload", ErrGenerationUnavailable)
	}
	if generation.Response == "" {
		return "", fmt.Errorf("%w: empty response", ErrGenerationUnavailable)
	}

	return generation.Response, nil
}
