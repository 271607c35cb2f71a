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

// PaymentGatewayProvider creates orders at the payment gateway over its
// basic-auth REST API. Signature verification happens locally in the
// payment service, not here.
type PaymentGatewayProvider struct {
	Logger     *logger.Logger
	HttpClient *http.Client
	BaseURL    string
	KeyID      string
	KeySecret  string
}

func NewPaymentGatewayProvider(log *logger.Logger, baseURL, keyID, keySecret string, timeout time.Duration) *PaymentGatewayProvider {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &PaymentGatewayProvider{
		Logger:     log,
		HttpClient: &http.Client{Timeout: timeout},
		BaseURL:    baseURL,
		KeyID:      keyID,
		KeySecret:  keySecret,
	}
}

// CreateOrder registers an order with the gateway and returns the gateway
// order id. Amount is in minor units (paise for INR).
func (pg *PaymentGatewayProvider) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (string, error) {
	if pg.BaseURL == "" {
		return "", fmt.Errorf("%w: gateway not configured", ErrGatewayUnavailable)
	}

	payload := dto.GatewayOrderRequest{
		Amount:   amountMinor,
		Currency: currency,
		Receipt:  receipt,
		Notes:    notes,
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		pg.Logger.Error(fmt.Sprintf("Failed to marshal payload: %s", err.Error()))
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, pg.BaseURL+"/v1/orders", bytes.NewBuffer(payloadBytes))
	if err != nil {
		pg.Logger.Error(fmt.Sprintf("Failed to create HTTP request: %s", err.Error()))
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(pg.KeyID, pg.KeySecret)

	res, err := pg.HttpClient.Do(req)
	if err != nil {
		pg.Logger.Error(fmt.Sprintf("HTTP request failed: %s", err.Error()))
		return "", fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(res.Body)
		pg.Logger.Error(fmt.Sprintf("Gateway returned an error. Status: %d, Body: %s", res.StatusCode, string(body)))
		return "", fmt.Errorf("%w: status %d", ErrGatewayUnavailable, res.StatusCode)
	}

	var order dto.GatewayOrderResponse
	if err := json.NewDecoder(res.Body).Decode(&order); err != nil {
		pg.Logger.Error(fmt.Sprintf("Failed to decode response body: %s", err.Error()))
		return "", fmt.Errorf("%w: malformed payload", ErrGatewayUnavailable)
	}
	if order.ID == "" {
		return "", fmt.Errorf("%w: empty order id", ErrGatewayUnavailable)
	}

	return order.ID, nil
}
