package entities

import "time"

type OrderStatus string

const (
	OrderCreated OrderStatus = "created"
	OrderPaid    OrderStatus = "paid"
	OrderFailed  OrderStatus = "failed"
)

// Plan describes a purchasable question allowance.
type Plan struct {
	Type        string `json:"type" bson:"type"`
	Name        string `json:"name" bson:"name"`
	Questions   int    `json:"questions" bson:"questions"`
	AmountMinor int64  `json:"amount_minor" bson:"amount_minor"`
	Currency    string `json:"currency" bson:"currency"`
}

// Order is the local record of a gateway order. It is keyed by the gateway
// order id and transitions created -> paid exactly once, or created ->
// failed any number of times.
type Order struct {
	ID          string      `json:"id" bson:"_id"`
	UserID      string      `json:"user_id" bson:"user_id"`
	Plan        Plan        `json:"plan" bson:"plan"`
	Status      OrderStatus `json:"status" bson:"status"`
	ErrorDetail string      `json:"error_detail,omitempty" bson:"error_detail,omitempty"`
	CreatedAt   time.Time   `json:"created_at" bson:"created_at"`
}

// Payment exists only for an order whose signature verification succeeded.
type Payment struct {
	ID         string    `json:"id" bson:"_id"`
	OrderID    string    `json:"order_id" bson:"order_id"`
	Status     string    `json:"status" bson:"status"`
	VerifiedAt time.Time `json:"verified_at" bson:"verified_at"`
}
