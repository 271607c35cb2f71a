package services

import (
	"context"
	"testing"

	"astro-connector/internal/domain/entities"
	"astro-connector/internal/infra/logger"
	"astro-connector/internal/infra/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUsage() *UsageService {
	return NewUsageService(logger.NewNop(), repository.NewMemoryStore[entities.UsageState]())
}

func TestUsageGetCreatesZeroState(t *testing.T) {
	ctx := context.Background()
	svc := newTestUsage()

	usage, err := svc.Get(ctx, "new-user")
	require.NoError(t, err)
	assert.Equal(t, "new-user", usage.UserID)
	assert.Zero(t, usage.FreeQuestionsUsed)
	assert.False(t, usage.IsPremium)
	assert.False(t, usage.HasReceivedOverview)
}

func TestApplyPaymentGrantsEntitlement(t *testing.T) {
	ctx := context.Background()
	svc := newTestUsage()

	plan := entities.Plan{Type: "standard", Questions: 25}
	usage, err := svc.ApplyPayment(ctx, "user-1", plan, "pay_abc")
	require.NoError(t, err)

	assert.True(t, usage.IsPremium)
	assert.Equal(t, "standard", usage.PlanType)
	assert.Equal(t, 25, usage.RemainingQuestions)
	assert.Equal(t, "pay_abc", usage.PaymentID)
	require.NotNil(t, usage.PurchasedAt)
}

func TestApplyPaymentIdempotentForSamePaymentID(t *testing.T) {
	ctx := context.Background()
	svc := newTestUsage()

	plan := entities.Plan{Type: "basic", Questions: 10}
	first, err := svc.ApplyPayment(ctx, "user-1", plan, "pay_abc")
	require.NoError(t, err)

	// Simulate the user consuming part of the allowance before a replayed
	// verification arrives.
	first.RemainingQuestions = 4
	require.NoError(t, svc.Save(ctx, first))

	second, err := svc.ApplyPayment(ctx, "user-1", plan, "pay_abc")
	require.NoError(t, err)
	assert.Equal(t, 4, second.RemainingQuestions, "replayed payment must not refill the allowance")
}

func TestApplyPaymentNewPaymentUpgrades(t *testing.T) {
	ctx := context.Background()
	svc := newTestUsage()

	_, err := svc.ApplyPayment(ctx, "user-1", entities.Plan{Type: "basic", Questions: 10}, "pay_1")
	require.NoError(t, err)

	usage, err := svc.ApplyPayment(ctx, "user-1", entities.Plan{Type: "premium", Questions: 60}, "pay_2")
	require.NoError(t, err)
	assert.Equal(t, "premium", usage.PlanType)
	assert.Equal(t, 60, usage.RemainingQuestions)
}
