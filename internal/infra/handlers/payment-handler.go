package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"astro-connector/internal/domain/dto"
	Iservices "astro-connector/internal/domain/interfaces/services"
	"astro-connector/internal/infra/logger"
	"astro-connector/internal/infra/provider"
	"astro-connector/internal/infra/services"
)

// webhookSignatureHeader carries the gateway's HMAC over the raw body.
const webhookSignatureHeader = "X-Webhook-Signature"

type PaymentHandlers struct {
	Logger         *logger.Logger
	PaymentService Iservices.IPaymentService
}

func NewPaymentHandlers(log *logger.Logger, payment Iservices.IPaymentService) *PaymentHandlers {
	return &PaymentHandlers{Logger: log, PaymentService: payment}
}

// GetPlans handles GET /api/plans.
func (th *PaymentHandlers) GetPlans(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.PlansResponse{Plans: th.PaymentService.Plans()})
}

// CreateOrder handles POST /api/payment/order.
func (th *PaymentHandlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()

	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	order, err := th.PaymentService.CreateOrder(r.Context(), req.UserID, req.PlanType, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPlan):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, provider.ErrGatewayUnavailable):
			th.Logger.Error(fmt.Sprintf("Order creation failed at gateway: %v", err))
			writeError(w, http.StatusBadGateway, "payment gateway unavailable")
		default:
			th.Logger.Error(fmt.Sprintf("Order creation failed: %v", err))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, dto.CreateOrderResponse{Order: order})
}

// VerifyPayment handles POST /api/payment/verify.
func (th *PaymentHandlers) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()

	payment, order, err := th.PaymentService.VerifyPayment(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrSignatureMismatch):
			writeError(w, http.StatusBadRequest, "signature verification failed")
		default:
			th.Logger.Error(fmt.Sprintf("Payment verification failed: %v", err))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.VerifyPaymentResponse{Payment: payment, Order: order})
}

// ReportFailure handles POST /api/payment/failure.
func (th *PaymentHandlers) ReportFailure(w http.ResponseWriter, r *http.Request) {
	var req dto.PaymentFailureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()

	th.PaymentService.HandleFailure(r.Context(), req.OrderID, req.Code, req.Description)
	w.WriteHeader(http.StatusNoContent)
}

// Webhook handles POST /api/payment/webhook. The raw body is needed for
// signature validation, so it is read before decoding.
func (th *PaymentHandlers) Webhook(w http.ResponseWriter, r *http.Request) {
	rawBody, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}
	defer r.Body.Close()

	if !th.PaymentService.ValidateWebhook(rawBody, r.Header.Get(webhookSignatureHeader)) {
		th.Logger.Warn("Webhook rejected: signature validation failed")
		writeError(w, http.StatusUnauthorized, "invalid webhook signature")
		return
	}

	var event dto.WebhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		writeError(w, http.StatusBadRequest, "invalid webhook payload")
		return
	}

	if err := th.PaymentService.ProcessWebhook(r.Context(), event); err != nil {
		th.Logger.Error(fmt.Sprintf("Webhook processing failed: %v", err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("EVENT_RECEIVED"))
}
