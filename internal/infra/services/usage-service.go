package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"astro-connector/internal/domain/entities"
	Irepository "astro-connector/internal/domain/interfaces/repository"
	"astro-connector/internal/infra/logger"
)

// UsageService is the per-user monetized usage ledger. Get never fails for
// an unknown user: the zero state is created on first access. IsPremium is
// monotonic; there is no downgrade or expiry path.
type UsageService struct {
	Logger *logger.Logger
	store  Irepository.Store[entities.UsageState]
	now    func() time.Time
}

func NewUsageService(log *logger.Logger, store Irepository.Store[entities.UsageState]) *UsageService {
	return &UsageService{Logger: log, store: store, now: time.Now}
}

func (us *UsageService) Get(ctx context.Context, userID string) (entities.UsageState, error) {
	usage, err := us.store.Find(ctx, userID)
	if err == nil {
		return usage, nil
	}
	if !errors.Is(err, Irepository.ErrNotFound) {
		return entities.UsageState{}, err
	}

	usage = entities.UsageState{UserID: userID}
	if err := us.store.Save(ctx, userID, usage); err != nil {
		return entities.UsageState{}, err
	}
	return usage, nil
}

func (us *UsageService) Save(ctx context.Context, usage entities.UsageState) error {
	return us.store.Save(ctx, usage.UserID, usage)
}

// ApplyPayment grants the premium entitlement. Re-applying the same payment
// id is a no-op so a reprocessed verification cannot double-grant allowance.
func (us *UsageService) ApplyPayment(ctx context.Context, userID string, plan entities.Plan, paymentID string) (entities.UsageState, error) {
	usage, err := us.Get(ctx, userID)
	if err != nil {
		return entities.UsageState{}, err
	}

	if usage.IsPremium && usage.PaymentID == paymentID {
		us.Logger.Info(fmt.Sprintf("Payment %s already applied for user %s, skipping", paymentID, userID))
		return usage, nil
	}

	purchasedAt := us.now()
	usage.IsPremium = true
	usage.PlanType = plan.Type
	usage.TotalQuestions = plan.Questions
	usage.RemainingQuestions = plan.Questions
	usage.PurchasedAt = &purchasedAt
	usage.PaymentID = paymentID

	if err := us.store.Save(ctx, userID, usage); err != nil {
		return entities.UsageState{}, err
	}

	us.Logger.Info(fmt.Sprintf("Premium entitlement granted to user %s (plan %s, %d questions)", userID, plan.Type, plan.Questions))
	return usage, nil
}
