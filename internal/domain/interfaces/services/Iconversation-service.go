package Iservices

import (
	"context"

	"astro-connector/internal/domain/dto"
	"astro-connector/internal/domain/entities"
)

// IConversationService is the core boundary consumed by the HTTP layer.
type IConversationService interface {
	CreateProfile(ctx context.Context, req dto.ProfileRequest) (entities.UserProfile, error)
	HandleMessage(ctx context.Context, userID, sessionID, text string) (dto.ChatResponse, error)
	GetSession(ctx context.Context, sessionID string) (entities.Session, error)
}
