package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
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
	ErrValidation       = errors.New("invalid input")
	ErrUserNotFound     = errors.New("user not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrGenerationFailed = errors.New("generation failed")
)

// QuotaExceededError signals that the free limit is reached and payment is
// required. It is an expected, user-facing condition, not a hard failure.
type QuotaExceededError struct {
	Used  int
	Limit int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("free question limit reached (%d/%d), payment required", e.Used, e.Limit)
}

// ConversationService orchestrates classifier, usage gate, data cache,
// context composer, and the generation provider for every inbound message.
// Mutations of a user's usage state and a session's log are serialized
// through a keyed mutex shared with the payment service, so a payment
// settling mid-message cannot be overwritten by the engine's own save.
// Distinct users proceed in parallel.
type ConversationService struct {
	Logger     *logger.Logger
	users      Irepository.Store[entities.UserProfile]
	sessions   Irepository.Store[entities.Session]
	usage      Iservices.IUsageService
	classifier *IntentClassifier
	cache      *CacheService
	composer   *ContextService
	geocoder   provider.IGeocodingProvider
	generator  provider.IGenerationProvider
	locks      *util.KeyedMutex
	now        func() time.Time
}

func NewConversationService(
	log *logger.Logger,
	users Irepository.Store[entities.UserProfile],
	sessions Irepository.Store[entities.Session],
	usage Iservices.IUsageService,
	classifier *IntentClassifier,
	cache *CacheService,
	composer *ContextService,
	geocoder provider.IGeocodingProvider,
	generator provider.IGenerationProvider,
	locks *util.KeyedMutex,
) *ConversationService {
	return &ConversationService{
		Logger:     log,
		users:      users,
		sessions:   sessions,
		usage:      usage,
		classifier: classifier,
		cache:      cache,
		composer:   composer,
		geocoder:   geocoder,
		generator:  generator,
		locks:      locks,
		now:        time.Now,
	}
}

// CreateProfile validates and geocodes the submitted birth data and creates
// an immutable profile plus its zero usage state. Re-submission produces a
// new profile id.
func (cs *ConversationService) CreateProfile(ctx context.Context, req dto.ProfileRequest) (entities.UserProfile, error) {
	if strings.TrimSpace(req.FullName) == "" ||
		strings.TrimSpace(req.BirthDate) == "" ||
		strings.TrimSpace(req.BirthTime) == "" ||
		strings.TrimSpace(req.BirthPlace) == "" {
		return entities.UserProfile{}, fmt.Errorf("%w: full_name, birth_date, birth_time and birth_place are required", ErrValidation)
	}

	coords, err := cs.geocoder.Resolve(ctx, req.BirthPlace)
	if err != nil {
		return entities.UserProfile{}, err
	}

	profile := entities.UserProfile{
		ID:       uuid.NewString(),
		FullName: req.FullName,
		Gender:   req.Gender,
		Birth: entities.BirthDetails{
			Date:        req.BirthDate,
			Time:        req.BirthTime,
			Place:       req.BirthPlace,
			Coordinates: coords,
		},
		CreatedAt: cs.now(),
	}

	if err := cs.users.Save(ctx, profile.ID, profile); err != nil {
		return entities.UserProfile{}, err
	}
	if _, err := cs.usage.Get(ctx, profile.ID); err != nil {
		return entities.UserProfile{}, err
	}

	cs.Logger.Info(fmt.Sprintf("Profile %s created for %s (born in %s)", profile.ID, profile.FullName, coords.City))
	return profile, nil
}

// HandleMessage runs the full pipeline for one inbound message. The free
// quota is consumed on attempt: a failed generation call still spends a
// question, matching the original product behavior.
func (cs *ConversationService) HandleMessage(ctx context.Context, userID, sessionID, text string) (dto.ChatResponse, error) {
	if strings.TrimSpace(text) == "" {
		return dto.ChatResponse{}, fmt.Errorf("%w: message is empty", ErrValidation)
	}

	profile, err := cs.users.Find(ctx, userID)
	if err != nil {
		if errors.Is(err, Irepository.ErrNotFound) {
			return dto.ChatResponse{}, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}
		return dto.ChatResponse{}, err
	}

	cs.locks.Lock(userID)
	defer cs.locks.Unlock(userID)

	classification := cs.classifier.Classify(text)

	usage, err := cs.usage.Get(ctx, userID)
	if err != nil {
		return dto.ChatResponse{}, err
	}

	chargeable := true
	switch {
	case classification.IsGeneralOverview && !usage.HasReceivedOverview:
		// One comprehensive reading per user is free of quota.
		chargeable = false
		usage.HasReceivedOverview = true
	case !usage.IsPremium && usage.FreeQuestionsUsed >= entities.FreeQuestionLimit:
		messagesHandled.WithLabelValues(classification.Intent, "quota_exceeded").Inc()
		return dto.ChatResponse{}, &QuotaExceededError{Used: usage.FreeQuestionsUsed, Limit: entities.FreeQuestionLimit}
	case !usage.IsPremium:
		usage.FreeQuestionsUsed++
	}

	if err := cs.usage.Save(ctx, usage); err != nil {
		return dto.ChatResponse{}, err
	}

	session, err := cs.loadOrCreateSession(ctx, userID, sessionID)
	if err != nil {
		return dto.ChatResponse{}, err
	}

	entry, err := cs.cache.GetOrRefresh(ctx, userID, classification.RequiredData, profile.Birth)
	if err != nil {
		return dto.ChatResponse{}, err
	}

	promptContext := cs.composer.Compose(profile, usage, session, classification, entry)

	reply, err := cs.generator.Generate(ctx, text, promptContext, classification.IsGeneralOverview)
	if err != nil {
		cs.Logger.Error(fmt.Sprintf("Generation failed for user %s: %v", userID, err))
		messagesHandled.WithLabelValues(classification.Intent, "generation_failed").Inc()
		return dto.ChatResponse{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	reply = cs.composer.PostFilter(reply)

	session.AppendExchange(entities.Exchange{
		UserText:   text,
		ReplyText:  reply,
		Intent:     classification.Intent,
		Confidence: classification.Confidence,
		Timestamp:  cs.now(),
	})
	usage.TotalQuestions++

	if err := cs.sessions.Save(ctx, session.ID, session); err != nil {
		return dto.ChatResponse{}, err
	}
	if err := cs.usage.Save(ctx, usage); err != nil {
		return dto.ChatResponse{}, err
	}

	if chargeable {
		messagesHandled.WithLabelValues(classification.Intent, "answered").Inc()
	} else {
		messagesHandled.WithLabelValues(classification.Intent, "free_overview").Inc()
	}

	return dto.ChatResponse{
		Reply:             reply,
		Intent:            classification.Intent,
		Confidence:        classification.Confidence,
		FreeQuestionsLeft: usage.FreeQuestionsLeft(),
		IsPremium:         usage.IsPremium,
	}, nil
}

// GetSession returns the current session snapshot.
func (cs *ConversationService) GetSession(ctx context.Context, sessionID string) (entities.Session, error) {
	session, err := cs.sessions.Find(ctx, sessionID)
	if err != nil {
		if errors.Is(err, Irepository.ErrNotFound) {
			return entities.Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return entities.Session{}, err
	}
	return session, nil
}

func (cs *ConversationService) loadOrCreateSession(ctx context.Context, userID, sessionID string) (entities.Session, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	session, err := cs.sessions.Find(ctx, sessionID)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, Irepository.ErrNotFound) {
		return entities.Session{}, err
	}

	now := cs.now()
	return entities.Session{
		ID:           sessionID,
		UserID:       userID,
		StartedAt:    now,
		LastActivity: now,
	}, nil
}
