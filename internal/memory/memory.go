// Package memory keeps long-lived per-user state across
// conversations: a bounded history of exchanges, extracted personal
// preferences, and accumulated interests.
package memory

import (
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"venbot/internal/analyzer"
	"venbot/internal/conversation"
	"venbot/internal/textutil"
)

const (
	maxConversations = 100
	maxInterests     = 50
)

// ConversationSummary is one remembered exchange.
type ConversationSummary struct {
	Timestamp   time.Time       `json:"timestamp"`
	UserMessage string          `json:"user_message"`
	BotResponse string          `json:"bot_response"`
	Intent      analyzer.Intent `json:"intent,omitempty"`
	Sentiment   string          `json:"sentiment,omitempty"`
	Topics      []string        `json:"topics,omitempty"`
}

// Preferences holds personal details extracted from user messages.
type Preferences struct {
	Name     string   `json:"name,omitempty"`
	Age      int      `json:"age,omitempty"`
	Location string   `json:"location,omitempty"`
	Likes    []string `json:"likes,omitempty"`
}

// UserMemory is everything remembered about one user.
type UserMemory struct {
	UserID          string                `json:"user_id"`
	Conversations   []ConversationSummary `json:"conversations"`
	Preferences     Preferences           `json:"preferences"`
	Interests       []string              `json:"interests"`
	LastInteraction time.Time             `json:"last_interaction"`
}

var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`my name is (\w+)`),
	regexp.MustCompile(`i'm called (\w+)`),
	regexp.MustCompile(`call me (\w+)`),
	regexp.MustCompile(`i am (\w+)`),
	regexp.MustCompile(`i'm (\w+)`),
}

var agePatterns = []*regexp.Regexp{
	regexp.MustCompile(`i am (\d+) years? old`),
	regexp.MustCompile(`i'm (\d+) years? old`),
	regexp.MustCompile(`(\d+) years? old`),
	regexp.MustCompile(`age (\d+)`),
}

var locationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`i live in ([^.!?]+)`),
	regexp.MustCompile(`i'm from ([^.!?]+)`),
	regexp.MustCompile(`location ([^.!?]+)`),
}

var likePatterns = []*regexp.Regexp{
	regexp.MustCompile(`i love (\w+)`),
	regexp.MustCompile(`i like (\w+)`),
	regexp.MustCompile(`favorite (\w+)`),
	regexp.MustCompile(`love (\w+)`),
}

// Manager owns all user memories. Safe for concurrent use.
type Manager struct {
	mu     sync.RWMutex
	users  map[string]*UserMemory
	now    func() time.Time
	logger *slog.Logger
}

// NewManager creates an empty memory store. A nil clock falls back to
// time.Now.
func NewManager(now func() time.Time, logger *slog.Logger) *Manager {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Manager{
		users:  make(map[string]*UserMemory),
		now:    now,
		logger: logger.With("component", "memory"),
	}
}

// Update records one exchange for the user and refreshes extracted
// preferences from the user message.
func (m *Manager) Update(userID, userMessage, botResponse string, c *conversation.Context) {
	if userID == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	um, ok := m.users[userID]
	if !ok {
		um = &UserMemory{UserID: userID}
		m.users[userID] = um
	}

	um.LastInteraction = m.now()

	summary := ConversationSummary{
		Timestamp:   um.LastInteraction,
		UserMessage: textutil.Truncate(userMessage, 100),
		BotResponse: textutil.Truncate(botResponse, 100),
	}

	if c != nil {
		summary.Intent = c.LastIntent
		if c.LastSentiment != nil {
			summary.Sentiment = c.LastSentiment.Category
		}

		topics := c.Topics
		if len(topics) > 5 {
			topics = topics[len(topics)-5:]
		}
		summary.Topics = append([]string(nil), topics...)

		um.Interests = mergeBounded(um.Interests, c.Topics, maxInterests)
	}

	um.Conversations = append(um.Conversations, summary)
	if len(um.Conversations) > maxConversations {
		um.Conversations = um.Conversations[len(um.Conversations)-maxConversations:]
	}

	m.extractPersonalInfo(userMessage, um)
}

// Get returns a copy of the user's memory, so callers cannot mutate
// shared state.
func (m *Manager) Get(userID string) (UserMemory, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	um, ok := m.users[userID]
	if !ok {
		return UserMemory{}, false
	}

	out := *um
	out.Conversations = append([]ConversationSummary(nil), um.Conversations...)
	out.Interests = append([]string(nil), um.Interests...)
	out.Preferences.Likes = append([]string(nil), um.Preferences.Likes...)

	return out, true
}

// Forget removes everything remembered about the user.
func (m *Manager) Forget(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.users, userID)
}

// extractPersonalInfo scans the message for name, age, location, and
// likes. Within each category the first matching pattern wins.
func (m *Manager) extractPersonalInfo(message string, um *UserMemory) {
	lower := strings.ToLower(message)

	for _, re := range namePatterns {
		if match := re.FindStringSubmatch(lower); match != nil {
			um.Preferences.Name = titleCase(match[1])

			break
		}
	}

	for _, re := range agePatterns {
		if match := re.FindStringSubmatch(lower); match != nil {
			if age, err := strconv.Atoi(match[1]); err == nil {
				um.Preferences.Age = age
			}

			break
		}
	}

	for _, re := range locationPatterns {
		if match := re.FindStringSubmatch(lower); match != nil {
			um.Preferences.Location = strings.TrimSpace(match[1])

			break
		}
	}

	if strings.Contains(lower, "favorite") || strings.Contains(lower, "love") || strings.Contains(lower, "like") {
		for _, re := range likePatterns {
			if match := re.FindStringSubmatch(lower); match != nil {
				um.Preferences.Likes = mergeBounded(um.Preferences.Likes, []string{match[1]}, maxInterests)

				break
			}
		}
	}
}

// mergeBounded adds new unique values in order and keeps the most
// recent limit entries.
func mergeBounded(existing, incoming []string, limit int) []string {
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

func titleCase(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}
