package services

import (
	"testing"
	"time"

	"astro-connector/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProfile() entities.UserProfile {
	return entities.UserProfile{
		ID:       "user-1",
		FullName: "Asha",
		Gender:   "female",
		Birth:    testBirth,
	}
}

func TestComposeIsDeterministic(t *testing.T) {
	composer := NewContextService()

	session := entities.Session{ID: "s1", UserID: "user-1"}
	session.AppendExchange(entities.Exchange{
		UserText: "hello", ReplyText: "welcome", Timestamp: time.Unix(1700000000, 0),
	})

	usage := entities.UsageState{UserID: "user-1", FreeQuestionsUsed: 3}
	classification := Classification{Intent: "marriage", Confidence: 0.67}
	entry := entities.CacheEntry{
		Payload: map[entities.DataKey]entities.DataResult{
			entities.DataPlanets: {Payload: map[string]interface{}{"sun": "pisces"}},
		},
	}

	first := composer.Compose(testProfile(), usage, session, classification, entry)
	second := composer.Compose(testProfile(), usage, session, classification, entry)
	assert.Equal(t, first, second)

	assert.Contains(t, first, "Asha")
	assert.Contains(t, first, "free (3/10 free questions used)")
	assert.Contains(t, first, "marriage")
	assert.Contains(t, first, "User: hello")
}

func TestComposeContainsYearDirective(t *testing.T) {
	composer := NewContextService()

	prompt := composer.Compose(testProfile(), entities.UsageState{}, entities.Session{}, Classification{Intent: "general"}, entities.CacheEntry{})
	assert.Contains(t, prompt, `answer "2025" exactly`)
}

func TestComposeDegradedEntry(t *testing.T) {
	composer := NewContextService()

	prompt := composer.Compose(testProfile(), entities.UsageState{}, entities.Session{},
		Classification{Intent: "general"}, entities.CacheEntry{Degraded: true})
	assert.Contains(t, prompt, "Astrology data: unavailable")
}

func TestComposeLargePayloadListsKeysOnly(t *testing.T) {
	composer := NewContextService()

	big := make(map[string]interface{})
	for i := 0; i < 200; i++ {
		big[string(rune('a'+i%26))+"-field-"+string(rune('0'+i%10))] = "a long filler value to push the payload over the inline limit"
	}
	entry := entities.CacheEntry{
		Payload: map[entities.DataKey]entities.DataResult{
			entities.DataKundli:  {Payload: big},
			entities.DataPlanets: {Payload: big},
		},
	}

	prompt := composer.Compose(testProfile(), entities.UsageState{}, entities.Session{}, Classification{Intent: "general"}, entry)
	require.Contains(t, prompt, "Astrology data available for: kundli, planets")
	assert.NotContains(t, prompt, "filler value")
}

func TestComposePremiumTierLine(t *testing.T) {
	composer := NewContextService()

	usage := entities.UsageState{IsPremium: true, PlanType: "standard"}
	prompt := composer.Compose(testProfile(), usage, entities.Session{}, Classification{Intent: "general"}, entities.CacheEntry{})
	assert.Contains(t, prompt, "Tier: premium (standard plan)")
}

func TestPostFilterYearCorrections(t *testing.T) {
	composer := NewContextService()

	in := "The current year is 2023, and as of 2024 Saturn transits your sign."
	out := composer.PostFilter(in)
	assert.Equal(t, "The current year is 2025, and as of 2025 Saturn transits your sign.", out)
}
