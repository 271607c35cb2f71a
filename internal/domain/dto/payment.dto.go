package dto

import "astro-connector/internal/domain/entities"

type CreateOrderRequest struct {
	UserID   string            `json:"user_id"`
	PlanType string            `json:"plan_type"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type CreateOrderResponse struct {
	Order entities.Order `json:"order"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}

type VerifyPaymentResponse struct {
	Payment entities.Payment `json:"payment"`
	Order   entities.Order   `json:"order"`
}

type PaymentFailureRequest struct {
	OrderID     string `json:"order_id"`
	Code        string `json:"code,omitempty"`
	Description string `json:"description,omitempty"`
}

type PlansResponse struct {
	Plans []entities.Plan `json:"plans"`
}

// WebhookEvent is the gateway notification envelope. Unknown event types
// are acknowledged and ignored.
type WebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		OrderID   string `json:"order_id"`
		PaymentID string `json:"payment_id"`
	} `json:"payload"`
}
