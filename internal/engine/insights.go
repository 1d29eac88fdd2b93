package engine

import (
	"fmt"
	"strings"

	"venbot/internal/analyzer"
	"venbot/internal/conversation"
)

// IntentPattern describes how varied the user's intents have been.
type IntentPattern struct {
	Pattern    string `json:"pattern"`
	MostCommon string `json:"most_common"`
	Variety    int    `json:"intent_variety"`
}

// Insights is a derived read on a conversation: engagement, mood
// direction, and what to do next.
type Insights struct {
	ConversationLength int           `json:"conversation_length"`
	EngagementLevel    string        `json:"engagement_level"`
	TopicDiversity     int           `json:"topic_diversity"`
	SentimentTrend     string        `json:"sentiment_trend"`
	IntentPattern      IntentPattern `json:"intent_patterns"`
	Recommendations    []string      `json:"recommendations"`
}

// Insights analyzes the session and returns its summary together
// with derived insights.
func (e *Engine) Insights(userID, chatID string) (conversation.Summary, Insights, bool) {
	key := conversation.SessionKey(userID, chatID)
	mu := e.sessionLock(key)
	mu.Lock()
	defer mu.Unlock()

	c, ok := e.contexts.Get(key)
	if !ok {
		return conversation.Summary{}, Insights{}, false
	}

	summary := e.conv.Summarize(c)

	recentSentiments := lastN(c.SentimentHistory, 10)
	recentIntents := lastN(c.IntentHistory, 10)

	ins := Insights{
		ConversationLength: c.MessageCount,
		EngagementLevel:    engagementLevel(c.MessageCount),
		TopicDiversity:     len(c.Topics),
		SentimentTrend:     sentimentTrend(recentSentiments),
		IntentPattern:      intentPattern(recentIntents),
		Recommendations:    recommendations(c, recentIntents),
	}

	return summary, ins, true
}

func engagementLevel(totalMessages int) string {
	switch {
	case totalMessages > 20:
		return "Very High"
	case totalMessages > 15:
		return "High"
	case totalMessages > 10:
		return "Medium"
	case totalMessages > 5:
		return "Low"
	default:
		return "Very Low"
	}
}

func sentimentTrend(sentiments []analyzer.Sentiment) string {
	if len(sentiments) == 0 {
		return "Neutral"
	}

	counts := map[string]int{}
	for _, s := range sentiments {
		counts[s.Category]++
	}

	positive := counts[analyzer.SentimentPositive]
	negative := counts[analyzer.SentimentNegative]
	neutral := counts[analyzer.SentimentNeutral]

	switch {
	case positive > negative && positive > neutral:
		return "Improving"
	case negative > positive && negative > neutral:
		return "Declining"
	default:
		return "Stable"
	}
}

func intentPattern(intents []analyzer.Intent) IntentPattern {
	if len(intents) == 0 {
		return IntentPattern{Pattern: "None", MostCommon: "None"}
	}

	counts := map[analyzer.Intent]int{}
	for _, in := range intents {
		counts[in]++
	}

	// Most common, first occurrence breaking ties.
	var most analyzer.Intent
	best := 0
	for _, in := range intents {
		if counts[in] > best {
			best = counts[in]
			most = in
		}
	}

	var pattern string
	switch {
	case len(counts) == 1:
		pattern = "Consistent"
	case len(counts) <= 3:
		pattern = "Focused"
	default:
		pattern = "Diverse"
	}

	return IntentPattern{Pattern: pattern, MostCommon: string(most), Variety: len(counts)}
}

func recommendations(c *conversation.Context, recentIntents []analyzer.Intent) []string {
	var recs []string

	if len(c.Topics) > 0 {
		recent := lastN(c.Topics, 3)
		recs = append(recs, fmt.Sprintf("Continue exploring topics like: %s", strings.Join(recent, ", ")))
	}

	positive, negative := 0, 0
	for _, s := range c.SentimentHistory {
		switch s.Category {
		case analyzer.SentimentPositive:
			positive++
		case analyzer.SentimentNegative:
			negative++
		}
	}
	if negative > positive {
		recs = append(recs, "Consider asking more positive or neutral questions")
	}

	questions := 0
	for _, in := range recentIntents {
		if in == analyzer.IntentQuestion {
			questions++
		}
	}
	if questions > 0 && float64(questions) > float64(len(recentIntents))*0.7 {
		recs = append(recs, "You're asking great questions! Keep exploring")
	}

	if len(recs) == 0 {
		recs = append(recs, "Keep the conversation flowing naturally")
	}

	return recs
}

func lastN[T any](s []T, n int) []T {
	if len(s) > n {
		return s[len(s)-n:]
	}

	return s
}
