// Package conversation tracks per-session dialogue state: rolling
// topic and entity sets, intent and sentiment history, and a bounded
// flow log of recent turns.
package conversation

import (
	"time"

	"venbot/internal/analyzer"
	"venbot/internal/textutil"
)

const (
	maxTopics   = 10
	maxEntities = 20
	maxFlow     = 50
)

// FlowEntry records a single turn in the conversation flow log.
type FlowEntry struct {
	Timestamp time.Time           `json:"timestamp"`
	Message   string              `json:"message"`
	IsBot     bool                `json:"is_bot"`
	Intent    analyzer.Intent     `json:"intent,omitempty"`
	Sentiment *analyzer.Sentiment `json:"sentiment,omitempty"`
}

// Context holds the evolving state of one conversation session.
type Context struct {
	MessageCount     int                  `json:"message_count"`
	UserMessageCount int                  `json:"user_message_count"`
	BotMessageCount  int                  `json:"bot_message_count"`
	Topics           []string             `json:"topics"`
	Entities         []analyzer.Entity    `json:"entities"`
	IntentHistory    []analyzer.Intent    `json:"intent_history"`
	SentimentHistory []analyzer.Sentiment `json:"sentiment_history"`
	Flow             []FlowEntry          `json:"flow"`
	LastIntent       analyzer.Intent      `json:"last_intent,omitempty"`
	LastSentiment    *analyzer.Sentiment  `json:"last_sentiment,omitempty"`
	LastEntities     []analyzer.Entity    `json:"last_entities,omitempty"`
	LastInteraction  time.Time            `json:"last_interaction"`
	StartTime        time.Time            `json:"start_time"`
	UserName         string               `json:"user_name,omitempty"`
	UserAge          int                  `json:"user_age,omitempty"`
}

// Manager mutates conversation contexts as turns arrive.
type Manager struct {
	now func() time.Time
}

// NewManager returns a Manager using the given clock. A nil clock
// falls back to time.Now.
func NewManager(now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}

	return &Manager{now: now}
}

// Update records one turn in the context. User turns carry an
// analysis and feed the topic, entity, and history state; bot turns
// pass a nil analysis and only advance the counters and flow log.
func (m *Manager) Update(c *Context, message string, an *analyzer.Analysis, isBot bool) {
	now := m.now()
	if c.StartTime.IsZero() {
		c.StartTime = now
	}

	c.MessageCount++
	c.LastInteraction = now

	entry := FlowEntry{
		Timestamp: now,
		Message:   textutil.Truncate(message, 100),
		IsBot:     isBot,
	}

	if isBot {
		c.BotMessageCount++
	} else {
		c.UserMessageCount++

		if an != nil {
			entry.Intent = an.Intent
			s := an.Sentiment
			entry.Sentiment = &s

			c.Topics = appendBounded(c.Topics, an.Keywords, maxTopics)
			c.Entities = appendEntities(c.Entities, an.Entities, maxEntities)
			c.IntentHistory = append(c.IntentHistory, an.Intent)
			c.SentimentHistory = append(c.SentimentHistory, an.Sentiment)

			c.LastIntent = an.Intent
			c.LastSentiment = &s
			c.LastEntities = an.Entities
		}
	}

	c.Flow = append(c.Flow, entry)
	if len(c.Flow) > maxFlow {
		c.Flow = c.Flow[len(c.Flow)-maxFlow:]
	}
}

// appendBounded adds new unique values in order and keeps the most
// recent limit entries.
func appendBounded(existing, incoming []string, limit int) []string {
	seen := make(map[string]bool, len(existing))
	for _, v := range existing {
		seen[v] = true
	}

	for _, v := range incoming {
		if seen[v] {
			continue
		}

		seen[v] = true
		existing = append(existing, v)
	}

	if len(existing) > limit {
		existing = existing[len(existing)-limit:]
	}

	return existing
}

// appendEntities adds entities unique by text and type, keeping the
// most recent limit entries.
func appendEntities(existing, incoming []analyzer.Entity, limit int) []analyzer.Entity {
	type key struct {
		text string
		typ  string
	}

	seen := make(map[key]bool, len(existing))
	for _, e := range existing {
		seen[key{e.Text, e.Type}] = true
	}

	for _, e := range incoming {
		k := key{e.Text, e.Type}
		if seen[k] {
			continue
		}

		seen[k] = true
		existing = append(existing, e)
	}

	if len(existing) > limit {
		existing = existing[len(existing)-limit:]
	}

	return existing
}
