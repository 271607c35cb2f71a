package Iservices

import (
	"context"

	"astro-connector/internal/domain/dto"
	"astro-connector/internal/domain/entities"
)

// IPaymentService owns the order lifecycle and entitlement grant.
type IPaymentService interface {
	Plans() []entities.Plan
	CreateOrder(ctx context.Context, userID, planType string, notes map[string]string) (entities.Order, error)
	VerifyPayment(ctx context.Context, req dto.VerifyPaymentRequest) (entities.Payment, entities.Order, error)
	HandleFailure(ctx context.Context, orderID, code, description string)
	ValidateWebhook(rawBody []byte, signature string) bool
	ProcessWebhook(ctx context.Context, event dto.WebhookEvent) error
}
