package conversation

import (
	"sort"
	"time"

	"venbot/internal/analyzer"
)

// FrequencyCount pairs a value with how often it occurred.
type FrequencyCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Summary is a condensed view of a conversation context.
type Summary struct {
	TotalMessages int               `json:"total_messages"`
	UserMessages  int               `json:"user_messages"`
	BotMessages   int               `json:"bot_messages"`
	MainTopics    []FrequencyCount  `json:"main_topics"`
	CommonIntents []FrequencyCount  `json:"common_intents"`
	Sentiment     map[string]int    `json:"sentiment_distribution"`
	Entities      []analyzer.Entity `json:"entities"`
	Recent        []FlowEntry       `json:"recent_flow"`
	StartTime     time.Time         `json:"start_time"`
	Duration      time.Duration     `json:"duration"`
}

// Summarize builds a Summary from the context at the given moment.
func (m *Manager) Summarize(c *Context) Summary {
	now := m.now()

	s := Summary{
		TotalMessages: c.MessageCount,
		UserMessages:  c.UserMessageCount,
		BotMessages:   c.BotMessageCount,
		MainTopics:    topCounts(c.Topics, 5),
		Sentiment:     map[string]int{},
		StartTime:     c.StartTime,
	}

	if !c.StartTime.IsZero() {
		s.Duration = now.Sub(c.StartTime)
	}

	intents := make([]string, len(c.IntentHistory))
	for i, in := range c.IntentHistory {
		intents[i] = string(in)
	}
	s.CommonIntents = topCounts(intents, 5)

	for _, sent := range c.SentimentHistory {
		s.Sentiment[sent.Category]++
	}

	entities := c.Entities
	if len(entities) > 10 {
		entities = entities[len(entities)-10:]
	}
	s.Entities = append([]analyzer.Entity(nil), entities...)

	recent := c.Flow
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}
	s.Recent = append([]FlowEntry(nil), recent...)

	return s
}

// topCounts ranks values by frequency, breaking ties by first
// occurrence so repeated runs over the same history agree.
func topCounts(values []string, limit int) []FrequencyCount {
	counts := make(map[string]int, len(values))
	order := make(map[string]int, len(values))
	var uniq []string

	for i, v := range values {
		if counts[v] == 0 {
			order[v] = i
			uniq = append(uniq, v)
		}
		counts[v]++
	}

	sort.SliceStable(uniq, func(i, j int) bool {
		if counts[uniq[i]] != counts[uniq[j]] {
			return counts[uniq[i]] > counts[uniq[j]]
		}

		return order[uniq[i]] < order[uniq[j]]
	})

	if len(uniq) > limit {
		uniq = uniq[:limit]
	}

	out := make([]FrequencyCount, len(uniq))
	for i, v := range uniq {
		out[i] = FrequencyCount{Value: v, Count: counts[v]}
	}

	return out
}
