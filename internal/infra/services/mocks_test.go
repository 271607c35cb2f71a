package services

import (
	"context"
	"errors"

	"astro-connector/internal/domain/entities"
)

// --- provider mocks ---

type mockGeocoder struct {
	resolveFn func(ctx context.Context, place string) (entities.Coordinates, error)
}

func (m *mockGeocoder) Resolve(ctx context.Context, place string) (entities.Coordinates, error) {
	if m.resolveFn != nil {
		return m.resolveFn(ctx, place)
	}
	return entities.Coordinates{
		Latitude:  19.0760,
		Longitude: 72.8777,
		Timezone:  "Asia/Kolkata",
		City:      "Mumbai",
		Country:   "India",
	}, nil
}

type mockAstro struct {
	fetchFn func(ctx context.Context, birth entities.BirthDetails, keys []entities.DataKey) (map[entities.DataKey]entities.DataResult, error)
	calls   int
}

func (m *mockAstro) Fetch(ctx context.Context, birth entities.BirthDetails, keys []entities.DataKey) (map[entities.DataKey]entities.DataResult, error) {
	m.calls++
	if m.fetchFn != nil {
		return m.fetchFn(ctx, birth, keys)
	}
	results := make(map[entities.DataKey]entities.DataResult, len(keys))
	for _, key := range keys {
		results[key] = entities.DataResult{Payload: map[string]interface{}{"ok": true}}
	}
	return results, nil
}

type mockGenerator struct {
	generateFn func(ctx context.Context, query, promptContext string, overview bool) (string, error)
	calls      int
	lastPrompt string
}

func (m *mockGenerator) Generate(ctx context.Context, query, promptContext string, overview bool) (string, error) {
	m.calls++
	m.lastPrompt = promptContext
	if m.generateFn != nil {
		return m.generateFn(ctx, query, promptContext, overview)
	}
	return "The stars favor you.", nil
}

type mockGateway struct {
	createFn func(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (string, error)
	calls    int
}

func (m *mockGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (string, error) {
	m.calls++
	if m.createFn != nil {
		return m.createFn(ctx, amountMinor, currency, receipt, notes)
	}
	return "order_test_123", nil
}

var errUpstreamDown = errors.New("upstream down")
