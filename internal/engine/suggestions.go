package engine

import (
	"venbot/internal/analyzer"
	"venbot/internal/conversation"
)

var suggestionExtras = map[analyzer.Intent][]string{
	analyzer.IntentGreeting: {
		"Hello! How can I help you today? 😊",
		"Hi there! What would you like to know? 👋",
		"Greetings! How may I assist you? 🌟",
	},
	analyzer.IntentQuestion: {
		"That's a great question! Let me help you with that. 🤔",
		"I'd be happy to answer that for you! 💭",
		"Interesting question! Here's what I know about that. 📚",
	},
	analyzer.IntentTime: {
		"Let me check the current time for you! ⏰",
		"I'll get the time right now! 🕐",
		"Here's the current time! 📅",
	},
}

// SuggestedResponses offers up to five candidate replies for a
// message: the reply the engine would give, plus intent-specific
// variations. The conversation context is not modified.
func (e *Engine) SuggestedResponses(userID, chatID, message string) []string {
	key := conversation.SessionKey(userID, chatID)
	mu := e.sessionLock(key)
	mu.Lock()
	defer mu.Unlock()

	// Work on a copy so generating a candidate cannot write extracted
	// details back into the live context.
	var scratch *conversation.Context
	if c, ok := e.contexts.Get(key); ok {
		cp := *c
		scratch = &cp
	}

	an := e.analyzer.Analyze(message)
	base := e.responder.Generate(message, an, scratch)

	candidates := append([]string{base}, suggestionExtras[an.Intent]...)

	seen := make(map[string]bool, len(candidates))
	unique := make([]string, 0, len(candidates))
	for _, s := range candidates {
		if seen[s] {
			continue
		}

		seen[s] = true
		unique = append(unique, s)
	}

	if len(unique) > 5 {
		unique = unique[:5]
	}

	return unique
}
