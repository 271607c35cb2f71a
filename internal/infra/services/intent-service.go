package services

import (
	"strings"
	"unicode"

	"astro-connector/internal/domain/entities"
)

const (
	IntentGeneralOverview = "general_overview"
	IntentGeneral         = "general"

	complexTokenThreshold = 10
)

// Classification is the outcome of classifying one user question.
type Classification struct {
	Intent            string
	Confidence        float64
	RequiredData      []entities.DataKey
	IsGeneralOverview bool
	IsComplex         bool
}

type intentDef struct {
	name     string
	keywords []string
	required []entities.DataKey
}

// intentTable order matters: score ties keep the first entry, and "general"
// is the fallback when nothing matches.
var intentTable = []intentDef{
	{
		name:     "marriage",
		keywords: []string{"marriage", "marry", "married", "wedding", "spouse", "husband", "wife", "shaadi"},
		required: []entities.DataKey{entities.DataPlanets, entities.DataMangalDosha, entities.DataNakshatra},
	},
	{
		name:     "career",
		keywords: []string{"career", "job", "work", "promotion", "business", "profession"},
		required: []entities.DataKey{entities.DataPlanets, entities.DataMahadasha},
	},
	{
		name:     "money",
		keywords: []string{"money", "wealth", "finance", "financial", "income", "property"},
		required: []entities.DataKey{entities.DataPlanets, entities.DataYogas},
	},
	{
		name:     "health",
		keywords: []string{"health", "illness", "disease", "surgery", "recovery"},
		required: []entities.DataKey{entities.DataPlanets, entities.DataMahadasha},
	},
	{
		name:     "love",
		keywords: []string{"love", "relationship", "partner", "romance", "breakup", "crush"},
		required: []entities.DataKey{entities.DataPlanets, entities.DataNakshatra},
	},
	{
		name:     "family",
		keywords: []string{"family", "children", "child", "parents", "mother", "father"},
		required: []entities.DataKey{entities.DataPlanets, entities.DataKundli},
	},
	{
		name:     IntentGeneral,
		keywords: []string{"life", "future", "destiny", "luck", "fortune"},
		required: []entities.DataKey{entities.DataBirthDetails, entities.DataPlanets},
	},
}

var (
	generalTerms  = []string{"general", "overall", "complete", "full"}
	overviewTerms = []string{"overview", "reading"}

	overviewRequiredData = []entities.DataKey{
		entities.DataBirthDetails,
		entities.DataKundli,
		entities.DataPlanets,
		entities.DataMahadasha,
		entities.DataNakshatra,
		entities.DataMangalDosha,
		entities.DataYogas,
	}
)

// IntentClassifier maps free text to an intent and the datasets that intent
// needs. It is pure and deterministic for a given keyword table.
type IntentClassifier struct{}

func NewIntentClassifier() *IntentClassifier {
	return &IntentClassifier{}
}

func (ic *IntentClassifier) Classify(text string) Classification {
	lowered := strings.ToLower(text)
	isComplex := len(strings.Fields(text)) > complexTokenThreshold

	if containsAny(lowered, generalTerms) && containsAny(lowered, overviewTerms) {
		return Classification{
			Intent:            IntentGeneralOverview,
			Confidence:        1.0,
			RequiredData:      overviewRequiredData,
			IsGeneralOverview: true,
			IsComplex:         isComplex,
		}
	}

	best := intentTable[len(intentTable)-1] // general
	bestScore := 0.0

	for _, def := range intentTable {
		score := 0.0
		for _, keyword := range def.keywords {
			if !strings.Contains(lowered, keyword) {
				continue
			}
			if containsWholeWord(lowered, keyword) {
				score += 2
			} else {
				score += 1
			}
		}
		// Normalize by keyword-list length so intents with long lists do
		// not dominate.
		score /= float64(len(def.keywords))

		if score > bestScore {
			best = def
			bestScore = score
		}
	}

	confidence := bestScore
	if confidence > 1.0 {
		confidence = 1.0
	}

	return Classification{
		Intent:       best.name,
		Confidence:   confidence,
		RequiredData: best.required,
		IsComplex:    isComplex,
	}
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// containsWholeWord reports whether keyword occurs in text with
// non-alphanumeric characters (or the text edges) on both sides.
func containsWholeWord(text, keyword string) bool {
	for from := 0; ; {
		idx := strings.Index(text[from:], keyword)
		if idx < 0 {
			return false
		}
		start := from + idx
		end := start + len(keyword)

		before := start == 0 || !isWordChar(rune(text[start-1]))
		after := end == len(text) || !isWordChar(rune(text[end]))
		if before && after {
			return true
		}
		from = start + 1
	}
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
