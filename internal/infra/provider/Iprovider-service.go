package provider

import (
	"context"
	"errors"

	"astro-connector/internal/domain/entities"
)

var (
	// ErrLocationNotFound means neither the geocoding service nor the
	// static fallback table could resolve the place name.
	ErrLocationNotFound = errors.New("location not found")
	// ErrGenerationUnavailable covers non-success status or malformed
	// payload from the text generation service.
	ErrGenerationUnavailable = errors.New("generation service unavailable")
	// ErrGatewayUnavailable covers payment gateway transport failures.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)

type IGeocodingProvider interface {
	Resolve(ctx context.Context, place string) (entities.Coordinates, error)
}

type IAstrologyProvider interface {
	Fetch(ctx context.Context, birth entities.BirthDetails, keys []entities.DataKey) (map[entities.DataKey]entities.DataResult, error)
}

type IGenerationProvider interface {
	Generate(ctx context.Context, query string, promptContext string, overview bool) (string, error)
}

type IPaymentGateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (string, error)
}
