package entities

import (
	"sort"
	"strings"
	"time"
)

// DataKey names a dataset served by the astrology data provider.
type DataKey string

const (
	DataBirthDetails DataKey = "birth_details"
	DataPlanets      DataKey = "planets"
	DataMahadasha    DataKey = "mahadasha"
	DataNakshatra    DataKey = "nakshatra"
	DataMangalDosha  DataKey = "mangal_dosha"
	DataYogas        DataKey = "yogas"
	DataKundli       DataKey = "kundli"
)

// DataResult is the per-key outcome of a provider fetch. Partial failure is
// expected: a key either carries a payload or an error string, never both.
type DataResult struct {
	Payload map[string]interface{} `json:"payload,omitempty" bson:"payload,omitempty"`
	Error   string                 `json:"error,omitempty" bson:"error,omitempty"`
}

// CacheEntry is one cached provider response. An entry older than the
// expiry window is stale; a degraded entry carries no payload and marks a
// refresh failure with no prior data to fall back on.
type CacheEntry struct {
	Key       string                 `json:"key" bson:"_id"`
	Payload   map[DataKey]DataResult `json:"payload" bson:"payload"`
	FetchedAt time.Time              `json:"fetched_at" bson:"fetched_at"`
	Degraded  bool                   `json:"degraded" bson:"degraded"`
}

// CacheKey joins a user id with the sorted required data keys.
func CacheKey(userID string, keys []DataKey) string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = string(k)
	}
	sort.Strings(names)
	return userID + "|" + strings.Join(names, ",")
}
