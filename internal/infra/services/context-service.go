package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"astro-connector/internal/domain/entities"
)

const (
	// currentYearDirective pins the model to the authoritative current
	// year. Injected into every prompt so date questions are answered
	// consistently regardless of the model's training cutoff.
	currentYearDirective = `The authoritative current year is 2025. If asked about the current year or date, answer "2025" exactly.`

	// maxInlinePayloadBytes caps how much serialized astrology data goes
	// into the prompt verbatim; above this only the key listing is sent.
	maxInlinePayloadBytes = 2000

	contextTailLines = 6
)

// yearCorrections is the defensive post-filter applied to generated text.
// The prompt directive above is the primary mechanism; this only cleans up
// replies that slipped through with a stale year.
var yearCorrections = []struct {
	pattern     string
	replacement string
}{
	{"current year is 2023", "current year is 2025"},
	{"current year is 2024", "current year is 2025"},
	{"year 2023 is the current", "year 2025 is the current"},
	{"as of 2023", "as of 2025"},
	{"as of 2024", "as of 2025"},
}

// ContextService deterministically assembles the generation prompt from
// profile, usage tier, cached astrology data, recent conversation, and the
// classification. No external calls; identical inputs produce identical
// output.
type ContextService struct{}

func NewContextService() *ContextService {
	return &ContextService{}
}

func (cs *ContextService) Compose(
	profile entities.UserProfile,
	usage entities.UsageState,
	session entities.Session,
	classification Classification,
	entry entities.CacheEntry,
) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Profile: %s, %s, born %s %s in %s (%.4f, %.4f, %s)\n",
		profile.FullName,
		profile.Gender,
		profile.Birth.Date,
		profile.Birth.Time,
		profile.Birth.Place,
		profile.Birth.Coordinates.Latitude,
		profile.Birth.Coordinates.Longitude,
		profile.Birth.Coordinates.Timezone,
	)

	if usage.IsPremium {
		fmt.Fprintf(&b, "Tier: premium (%s plan)\n", usage.PlanType)
	} else {
		fmt.Fprintf(&b, "Tier: free (%d/%d free questions used)\n",
			usage.FreeQuestionsUsed, entities.FreeQuestionLimit)
	}

	b.WriteString(cs.renderAstroData(entry))

	if tail := session.ContextTail(contextTailLines); len(tail) > 0 {
		b.WriteString("Recent conversation:\n")
		b.WriteString(strings.Join(tail, "\n"))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Question intent: %s (confidence %.2f, complex=%t)\n",
		classification.Intent, classification.Confidence, classification.IsComplex)

	b.WriteString(currentYearDirective)
	b.WriteString("\n")

	return b.String()
}

func (cs *ContextService) renderAstroData(entry entities.CacheEntry) string {
	if entry.Degraded || len(entry.Payload) == 0 {
		return "Astrology data: unavailable for this turn\n"
	}

	serialized, err := json.Marshal(entry.Payload)
	if err != nil || len(serialized) > maxInlinePayloadBytes {
		keys := make([]string, 0, len(entry.Payload))
		for key := range entry.Payload {
			keys = append(keys, string(key))
		}
		// Stable order for reproducibility.
		sort.Strings(keys)
		return fmt.Sprintf("Astrology data available for: %s\n", strings.Join(keys, ", "))
	}

	return fmt.Sprintf("Astrology data: %s\n", serialized)
}

// PostFilter applies the year-correction rule table to generated text.
func (cs *ContextService) PostFilter(text string) string {
	for _, rule := range yearCorrections {
		text = strings.ReplaceAll(text, rule.pattern, rule.replacement)
	}
	return text
}
