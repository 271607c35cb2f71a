package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"astro-connector/internal/domain/dto"
	"astro-connector/internal/domain/entities"
	Irepository "astro-connector/internal/domain/interfaces/repository"
	Iservices "astro-connector/internal/domain/interfaces/services"
	"astro-connector/internal/infra/logger"
	"astro-connector/internal/infra/provider"
	"astro-connector/internal/util"

	"github.com/google/uuid"
)

var (
	ErrInvalidPlan       = errors.New("invalid plan type")
	ErrOrderNotFound     = errors.New("order not found")
	ErrSignatureMismatch = errors.New("payment signature mismatch")
)

// plans is the fixed catalog of purchasable allowances. Amounts are in
// paise.
var plans = []entities.Plan{
	{Type: "basic", Name: "Basic", Questions: 10, AmountMinor: 9900, Currency: "INR"},
	{Type: "standard", Name: "Standard", Questions: 25, AmountMinor: 19900, Currency: "INR"},
	{Type: "premium", Name: "Premium", Questions: 60, AmountMinor: 39900, Currency: "INR"},
	{Type: "report", Name: "Full Report", Questions: 5, AmountMinor: 49900, Currency: "INR"},
}

// PaymentService owns the order lifecycle (create -> verify -> settle) and
// the entitlement grant. Settlement takes the per-user keyed mutex shared
// with the conversation engine, so the usage ledger write cannot interleave
// with an in-flight message's own usage save.
type PaymentService struct {
	Logger        *logger.Logger
	gateway       provider.IPaymentGateway
	orders        Irepository.Store[entities.Order]
	payments      Irepository.Store[entities.Payment]
	usage         Iservices.IUsageService
	keySecret     string
	webhookSecret string
	locks         *util.KeyedMutex
	now           func() time.Time
}

func NewPaymentService(
	log *logger.Logger,
	gateway provider.IPaymentGateway,
	orders Irepository.Store[entities.Order],
	payments Irepository.Store[entities.Payment],
	usage Iservices.IUsageService,
	keySecret string,
	webhookSecret string,
	locks *util.KeyedMutex,
) *PaymentService {
	return &PaymentService{
		Logger:        log,
		gateway:       gateway,
		orders:        orders,
		payments:      payments,
		usage:         usage,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
		locks:         locks,
		now:           time.Now,
	}
}

func (ps *PaymentService) Plans() []entities.Plan {
	result := make([]entities.Plan, len(plans))
	copy(result, plans)
	return result
}

func (ps *PaymentService) planByType(planType string) (entities.Plan, bool) {
	for _, plan := range plans {
		if plan.Type == planType {
			return plan, true
		}
	}
	return entities.Plan{}, false
}

// CreateOrder registers a gateway order for the given plan and stores the
// local record with status created.
func (ps *PaymentService) CreateOrder(ctx context.Context, userID, planType string, notes map[string]string) (entities.Order, error) {
	plan, ok := ps.planByType(planType)
	if !ok {
		return entities.Order{}, fmt.Errorf("%w: %s", ErrInvalidPlan, planType)
	}

	if notes == nil {
		notes = map[string]string{}
	}
	notes["user_id"] = userID
	notes["plan_type"] = plan.Type

	receipt := "rcpt_" + uuid.NewString()
	gatewayOrderID, err := ps.gateway.CreateOrder(ctx, plan.AmountMinor, plan.Currency, receipt, notes)
	if err != nil {
		ps.Logger.Error(fmt.Sprintf("Gateway order creation failed for user %s: %v", userID, err))
		return entities.Order{}, err
	}

	order := entities.Order{
		ID:        gatewayOrderID,
		UserID:    userID,
		Plan:      plan,
		Status:    entities.OrderCreated,
		CreatedAt: ps.now(),
	}
	if err := ps.orders.Save(ctx, order.ID, order); err != nil {
		return entities.Order{}, err
	}

	ps.Logger.Info(fmt.Sprintf("Order %s created for user %s (plan %s)", order.ID, userID, plan.Type))
	return order, nil
}

// VerifyPayment recomputes the HMAC signature over "orderId|paymentId" and,
// on match, settles the order and grants the entitlement. Re-verifying an
// already-paid order returns the stored payment without granting again.
func (ps *PaymentService) VerifyPayment(ctx context.Context, req dto.VerifyPaymentRequest) (entities.Payment, entities.Order, error) {
	order, err := ps.orders.Find(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, Irepository.ErrNotFound) {
			paymentsVerified.WithLabelValues("order_not_found").Inc()
			return entities.Payment{}, entities.Order{}, fmt.Errorf("%w: %s", ErrOrderNotFound, req.OrderID)
		}
		return entities.Payment{}, entities.Order{}, err
	}

	ps.locks.Lock(order.UserID)
	defer ps.locks.Unlock(order.UserID)

	// Re-read inside the critical section; a concurrent verify of the same
	// order may have settled it while we waited for the lock.
	order, err = ps.orders.Find(ctx, req.OrderID)
	if err != nil {
		return entities.Payment{}, entities.Order{}, err
	}

	expected := ps.signPayment(req.OrderID, req.PaymentID)
	if !hmac.Equal([]byte(expected), []byte(req.Signature)) {
		// Security-relevant: a mismatch means a forged or corrupted
		// verification attempt.
		ps.Logger.Warn(fmt.Sprintf("Payment signature mismatch for order %s, payment %s", req.OrderID, req.PaymentID))
		paymentsVerified.WithLabelValues("signature_mismatch").Inc()
		return entities.Payment{}, entities.Order{}, ErrSignatureMismatch
	}

	if order.Status == entities.OrderPaid {
		payment, err := ps.payments.Find(ctx, req.PaymentID)
		if err != nil {
			return entities.Payment{}, entities.Order{}, err
		}
		ps.Logger.Info(fmt.Sprintf("Order %s already paid, returning stored payment", order.ID))
		return payment, order, nil
	}

	payment := entities.Payment{
		ID:         req.PaymentID,
		OrderID:    order.ID,
		Status:     "captured",
		VerifiedAt: ps.now(),
	}
	if err := ps.payments.Save(ctx, payment.ID, payment); err != nil {
		return entities.Payment{}, entities.Order{}, err
	}

	order.Status = entities.OrderPaid
	order.ErrorDetail = ""
	if err := ps.orders.Save(ctx, order.ID, order); err != nil {
		return entities.Payment{}, entities.Order{}, err
	}

	if _, err := ps.usage.ApplyPayment(ctx, order.UserID, order.Plan, payment.ID); err != nil {
		return entities.Payment{}, entities.Order{}, err
	}

	paymentsVerified.WithLabelValues("captured").Inc()
	ps.Logger.Info(fmt.Sprintf("Payment %s captured for order %s (user %s)", payment.ID, order.ID, order.UserID))
	return payment, order, nil
}

// HandleFailure marks an order failed with the gateway's error detail.
// Unknown orders are a no-op; failure is not terminal and a later verify
// attempt may still succeed.
func (ps *PaymentService) HandleFailure(ctx context.Context, orderID, code, description string) {
	order, err := ps.orders.Find(ctx, orderID)
	if err != nil {
		ps.Logger.Warn(fmt.Sprintf("Payment failure reported for unknown order %s, ignoring", orderID))
		return
	}
	if order.Status == entities.OrderPaid {
		ps.Logger.Warn(fmt.Sprintf("Payment failure reported for already-paid order %s, ignoring", orderID))
		return
	}

	order.Status = entities.OrderFailed
	order.ErrorDetail = fmt.Sprintf("%s: %s", code, description)
	if err := ps.orders.Save(ctx, order.ID, order); err != nil {
		ps.Logger.Error(fmt.Sprintf("Failed to record payment failure for order %s: %v", orderID, err))
		return
	}
	paymentsVerified.WithLabelValues("failed").Inc()
}

// ValidateWebhook recomputes the HMAC over the raw body with the webhook
// secret.
func (ps *PaymentService) ValidateWebhook(rawBody []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(ps.webhookSecret))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ProcessWebhook acknowledges known gateway events and ignores the rest.
// Settlement happens in VerifyPayment; the webhook is informational.
func (ps *PaymentService) ProcessWebhook(ctx context.Context, event dto.WebhookEvent) error {
	switch event.Event {
	case "payment.captured", "order.paid":
		ps.Logger.Info(fmt.Sprintf("Webhook: %s for order %s", event.Event, event.Payload.OrderID))
	case "payment.failed":
		ps.Logger.Info(fmt.Sprintf("Webhook: payment failed for order %s", event.Payload.OrderID))
	default:
		ps.Logger.Debug(fmt.Sprintf("Webhook: ignoring unknown event type %q", event.Event))
	}
	return nil
}

func (ps *PaymentService) signPayment(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(ps.keySecret))
	fmt.Fprintf(mac, "%s|%s", orderID, paymentID)
	return hex.EncodeToString(mac.Sum(nil))
}
