package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"astro-connector/internal/domain/dto"
	Iservices "astro-connector/internal/domain/interfaces/services"
	"astro-connector/internal/infra/logger"
	"astro-connector/internal/infra/provider"
	"astro-connector/internal/infra/services"

	"github.com/gorilla/mux"
)

// HttpHandlers serves the profile, chat and snapshot endpoints.
type HttpHandlers struct {
	Logger              *logger.Logger
	ConversationService Iservices.IConversationService
	UsageService        Iservices.IUsageService
}

func NewHttpHandlers(log *logger.Logger, conversation Iservices.IConversationService, usage Iservices.IUsageService) *HttpHandlers {
	return &HttpHandlers{Logger: log, ConversationService: conversation, UsageService: usage}
}

// CreateProfile handles POST /api/profile.
func (th *HttpHandlers) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()

	profile, err := th.ConversationService.CreateProfile(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, provider.ErrLocationNotFound):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			th.Logger.Error(fmt.Sprintf("Profile creation failed: %v", err))
			writeError(w, http.StatusBadGateway, "profile creation failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, dto.ProfileResponse{
		UserID:      profile.ID,
		Coordinates: profile.Birth.Coordinates,
	})
}

// Chat handles POST /api/chat.
func (th *HttpHandlers) Chat(w http.ResponseWriter, r *http.Request) {
	var req dto.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()

	resp, err := th.ConversationService.HandleMessage(r.Context(), req.UserID, req.SessionID, req.Message)
	if err != nil {
		var quota *services.QuotaExceededError
		switch {
		case errors.As(err, &quota):
			writeJSON(w, http.StatusPaymentRequired, dto.QuotaResponse{
				Error:             "free question limit reached",
				FreeQuestionsUsed: quota.Used,
				FreeQuestionLimit: quota.Limit,
				PaymentRequired:   true,
			})
		case errors.Is(err, services.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrUserNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrGenerationFailed):
			th.Logger.Error(fmt.Sprintf("Chat generation failed: %v", err))
			writeError(w, http.StatusBadGateway, "the astrologer is unavailable, please try again")
		default:
			th.Logger.Error(fmt.Sprintf("Chat failed: %v", err))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetUsage handles GET /api/usage/{userId}.
func (th *HttpHandlers) GetUsage(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	usage, err := th.UsageService.Get(r.Context(), userID)
	if err != nil {
		th.Logger.Error(fmt.Sprintf("Usage lookup failed for %s: %v", userID, err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, dto.UsageResponse{Usage: usage})
}

// GetSession handles GET /api/session/{sessionId}.
func (th *HttpHandlers) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	session, err := th.ConversationService.GetSession(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		th.Logger.Error(fmt.Sprintf("Session lookup failed for %s: %v", sessionID, err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, dto.SessionResponse{Session: session})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
