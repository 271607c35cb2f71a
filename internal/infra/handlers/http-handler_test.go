package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"astro-connector/internal/domain/dto"
	"astro-connector/internal/domain/entities"
	"astro-connector/internal/infra/logger"
	"astro-connector/internal/infra/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockConversation struct {
	createProfileFn func(ctx context.Context, req dto.ProfileRequest) (entities.UserProfile, error)
	handleMessageFn func(ctx context.Context, userID, sessionID, text string) (dto.ChatResponse, error)
	getSessionFn    func(ctx context.Context, sessionID string) (entities.Session, error)
}

func (m *mockConversation) CreateProfile(ctx context.Context, req dto.ProfileRequest) (entities.UserProfile, error) {
	return m.createProfileFn(ctx, req)
}

func (m *mockConversation) HandleMessage(ctx context.Context, userID, sessionID, text string) (dto.ChatResponse, error) {
	return m.handleMessageFn(ctx, userID, sessionID, text)
}

func (m *mockConversation) GetSession(ctx context.Context, sessionID string) (entities.Session, error) {
	return m.getSessionFn(ctx, sessionID)
}

type mockUsage struct {
	getFn func(ctx context.Context, userID string) (entities.UsageState, error)
}

func (m *mockUsage) Get(ctx context.Context, userID string) (entities.UsageState, error) {
	return m.getFn(ctx, userID)
}

func (m *mockUsage) Save(ctx context.Context, usage entities.UsageState) error { return nil }

func (m *mockUsage) ApplyPayment(ctx context.Context, userID string, plan entities.Plan, paymentID string) (entities.UsageState, error) {
	return entities.UsageState{}, nil
}

func postJSON(t *testing.T, handler http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestCreateProfileReturnsCreated(t *testing.T) {
	conversation := &mockConversation{
		createProfileFn: func(ctx context.Context, req dto.ProfileRequest) (entities.UserProfile, error) {
			return entities.UserProfile{
				ID: "user-1",
				Birth: entities.BirthDetails{
					Coordinates: entities.Coordinates{Latitude: 19.0760, Longitude: 72.8777},
				},
			}, nil
		},
	}
	th := NewHttpHandlers(logger.NewNop(), conversation, &mockUsage{})

	rec := postJSON(t, th.CreateProfile, dto.ProfileRequest{FullName: "Asha"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.ProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "user-1", resp.UserID)
	assert.Equal(t, 19.0760, resp.Coordinates.Latitude)
}

func TestCreateProfileValidationError(t *testing.T) {
	conversation := &mockConversation{
		createProfileFn: func(ctx context.Context, req dto.ProfileRequest) (entities.UserProfile, error) {
			return entities.UserProfile{}, services.ErrValidation
		},
	}
	th := NewHttpHandlers(logger.NewNop(), conversation, &mockUsage{})

	rec := postJSON(t, th.CreateProfile, dto.ProfileRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatReturnsPaymentRequiredOnQuota(t *testing.T) {
	conversation := &mockConversation{
		handleMessageFn: func(ctx context.Context, userID, sessionID, text string) (dto.ChatResponse, error) {
			return dto.ChatResponse{}, &services.QuotaExceededError{Used: 10, Limit: 10}
		},
	}
	th := NewHttpHandlers(logger.NewNop(), conversation, &mockUsage{})

	rec := postJSON(t, th.Chat, dto.ChatRequest{UserID: "user-1", Message: "hello"})
	require.Equal(t, http.StatusPaymentRequired, rec.Code)

	var resp dto.QuotaResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.PaymentRequired)
	assert.Equal(t, 10, resp.FreeQuestionsUsed)
	assert.Equal(t, 10, resp.FreeQuestionLimit)
}

func TestChatUnknownUser(t *testing.T) {
	conversation := &mockConversation{
		handleMessageFn: func(ctx context.Context, userID, sessionID, text string) (dto.ChatResponse, error) {
			return dto.ChatResponse{}, services.ErrUserNotFound
		},
	}
	th := NewHttpHandlers(logger.NewNop(), conversation, &mockUsage{})

	rec := postJSON(t, th.Chat, dto.ChatRequest{UserID: "nobody", Message: "hello"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChatGenerationFailure(t *testing.T) {
	conversation := &mockConversation{
		handleMessageFn: func(ctx context.Context, userID, sessionID, text string) (dto.ChatResponse, error) {
			return dto.ChatResponse{}, services.ErrGenerationFailed
		},
	}
	th := NewHttpHandlers(logger.NewNop(), conversation, &mockUsage{})

	rec := postJSON(t, th.Chat, dto.ChatRequest{UserID: "user-1", Message: "hello"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGetUsageByPathVariable(t *testing.T) {
	usage := &mockUsage{
		getFn: func(ctx context.Context, userID string) (entities.UsageState, error) {
			return entities.UsageState{UserID: userID, FreeQuestionsUsed: 4}, nil
		},
	}
	th := NewHttpHandlers(logger.NewNop(), &mockConversation{}, usage)

	router := mux.NewRouter()
	router.HandleFunc("/api/usage/{userId}", th.GetUsage).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, "/api/usage/user-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.UsageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "user-1", resp.Usage.UserID)
	assert.Equal(t, 4, resp.Usage.FreeQuestionsUsed)
}

func TestGetSessionNotFound(t *testing.T) {
	conversation := &mockConversation{
		getSessionFn: func(ctx context.Context, sessionID string) (entities.Session, error) {
			return entities.Session{}, services.ErrSessionNotFound
		},
	}
	th := NewHttpHandlers(logger.NewNop(), conversation, &mockUsage{})

	router := mux.NewRouter()
	router.HandleFunc("/api/session/{sessionId}", th.GetSession).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, "/api/session/s1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
