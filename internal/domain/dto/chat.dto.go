package dto

import "astro-connector/internal/domain/entities"

type ProfileRequest struct {
	FullName   string `json:"full_name"`
	Gender     string `json:"gender"`
	BirthDate  string `json:"birth_date"`
	BirthTime  string `json:"birth_time"`
	BirthPlace string `json:"birth_place"`
}

type ProfileResponse struct {
	UserID      string               `json:"user_id"`
	Coordinates entities.Coordinates `json:"coordinates"`
}

type ChatRequest struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type ChatResponse struct {
	Reply             string  `json:"reply"`
	Intent            string  `json:"intent"`
	Confidence        float64 `json:"confidence"`
	FreeQuestionsLeft int     `json:"free_questions_left"`
	IsPremium         bool    `json:"is_premium"`
}

// QuotaResponse is returned with HTTP 402 when the free limit is reached.
type QuotaResponse struct {
	Error             string `json:"error"`
	FreeQuestionsUsed int    `json:"free_questions_used"`
	FreeQuestionLimit int    `json:"free_question_limit"`
	PaymentRequired   bool   `json:"payment_required"`
}

type UsageResponse struct {
	Usage entities.UsageState `json:"usage"`
}

type SessionResponse struct {
	Session entities.Session `json:"session"`
}
