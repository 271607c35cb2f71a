package routes

import (
	"encoding/json"
	"net/http"

	"astro-connector/internal/infra/handlers"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Routes struct {
	Mux             *mux.Router
	HttpHandler     *handlers.HttpHandlers
	PaymentHandlers *handlers.PaymentHandlers
}

func NewRoutes(mux *mux.Router, httpHandler *handlers.HttpHandlers, paymentHandlers *handlers.PaymentHandlers) *Routes {
	return &Routes{Mux: mux, HttpHandler: httpHandler, PaymentHandlers: paymentHandlers}
}

func (r *Routes) Init() {
	api := r.Mux.PathPrefix("/api").Subrouter()

	api.HandleFunc("/profile", r.HttpHandler.CreateProfile).Methods(http.MethodPost)
	api.HandleFunc("/chat", r.HttpHandler.Chat).Methods(http.MethodPost)
	api.HandleFunc("/usage/{userId}", r.HttpHandler.GetUsage).Methods(http.MethodGet)
	api.HandleFunc("/session/{sessionId}", r.HttpHandler.GetSession).Methods(http.MethodGet)

	api.HandleFunc("/plans", r.PaymentHandlers.GetPlans).Methods(http.MethodGet)
	api.HandleFunc("/payment/order", r.PaymentHandlers.CreateOrder).Methods(http.MethodPost)
	api.HandleFunc("/payment/verify", r.PaymentHandlers.VerifyPayment).Methods(http.MethodPost)
	api.HandleFunc("/payment/failure", r.PaymentHandlers.ReportFailure).Methods(http.MethodPost)
	api.HandleFunc("/payment/webhook", r.PaymentHandlers.Webhook).Methods(http.MethodPost)

	r.Mux.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.Mux.HandleFunc("/healthCheck", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods(http.MethodGet)
}
