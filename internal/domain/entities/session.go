package entities

import (
	"strings"
	"time"
)

const (
	// MaxSessionExchanges bounds the retained message list per session.
	MaxSessionExchanges = 10
	// MaxContextLines bounds the rolling textual context window.
	MaxContextLines = 20
)

// Exchange is a single user question and the generated reply.
type Exchange struct {
	UserText   string    `json:"user_text" bson:"user_text"`
	ReplyText  string    `json:"reply_text" bson:"reply_text"`
	Intent     string    `json:"intent" bson:"intent"`
	Confidence float64   `json:"confidence" bson:"confidence"`
	Timestamp  time.Time `json:"timestamp" bson:"timestamp"`
}

// Session holds the conversation history for one user session. It is
// created lazily on the first message and lives for the process lifetime.
type Session struct {
	ID           string     `json:"id" bson:"_id"`
	UserID       string     `json:"user_id" bson:"user_id"`
	Exchanges    []Exchange `json:"exchanges" bson:"exchanges"`
	Context      string     `json:"context" bson:"context"`
	QueryCount   int        `json:"query_count" bson:"query_count"`
	StartedAt    time.Time  `json:"started_at" bson:"started_at"`
	LastActivity time.Time  `json:"last_activity" bson:"last_activity"`
}

// AppendExchange records a completed exchange, evicting the oldest entries
// once the retention bounds are exceeded and refreshing the rolling context
// window from the retained tail.
func (s *Session) AppendExchange(ex Exchange) {
	s.Exchanges = append(s.Exchanges, ex)
	if len(s.Exchanges) > MaxSessionExchanges {
		s.Exchanges = s.Exchanges[len(s.Exchanges)-MaxSessionExchanges:]
	}

	lines := strings.Split(s.Context, "\n")
	lines = append(lines, "User: "+ex.UserText, "Astrologer: "+ex.ReplyText)
	if len(lines) > MaxContextLines {
		lines = lines[len(lines)-MaxContextLines:]
	}
	s.Context = strings.TrimPrefix(strings.Join(lines, "\n"), "\n")

	s.QueryCount++
	s.LastActivity = ex.Timestamp
}

// ContextTail returns the last n lines of the rolling context window.
func (s *Session) ContextTail(n int) []string {
	if s.Context == "" {
		return nil
	}
	lines := strings.Split(s.Context, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
