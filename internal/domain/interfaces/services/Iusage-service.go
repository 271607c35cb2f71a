package Iservices

import (
	"context"

	"astro-connector/internal/domain/entities"
)

// IUsageService is the per-user monetized usage ledger.
type IUsageService interface {
	Get(ctx context.Context, userID string) (entities.UsageState, error)
	Save(ctx context.Context, usage entities.UsageState) error
	ApplyPayment(ctx context.Context, userID string, plan entities.Plan, paymentID string) (entities.UsageState, error)
}
