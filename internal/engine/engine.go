// Package engine wires message analysis, response selection, and the
// two memory tiers into the conversational core. One Engine serves
// all sessions; turns within a session are serialized.
package engine

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"venbot/internal/analyzer"
	"venbot/internal/conversation"
	"venbot/internal/knowledge"
	"venbot/internal/memory"
	"venbot/internal/responder"
)

const apology = "I'm sorry, I encountered an error while processing your message. Please try again."

// Reply is the engine's answer to one user message.
type Reply struct {
	Text               string              `json:"text"`
	Timestamp          time.Time           `json:"timestamp"`
	Intent             analyzer.Intent     `json:"intent,omitempty"`
	Sentiment          *analyzer.Sentiment `json:"sentiment,omitempty"`
	Entities           []analyzer.Entity   `json:"entities,omitempty"`
	ConversationLength int                 `json:"conversation_length"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithNow replaces the wall clock.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithStore replaces the conversation context store.
func WithStore(s conversation.Store) Option {
	return func(e *Engine) { e.contexts = s }
}

// WithResponder replaces the response generator.
func WithResponder(r *responder.Responder) Option {
	return func(e *Engine) { e.responder = r }
}

// Engine is the conversational core. Safe for concurrent use.
type Engine struct {
	analyzer  *analyzer.Analyzer
	responder *responder.Responder
	contexts  conversation.Store
	conv      *conversation.Manager
	memories  *memory.Manager
	now       func() time.Time
	logger    *slog.Logger

	locks sync.Map // session key -> *sync.Mutex
}

// New creates an Engine over the given knowledge base.
func New(kb *knowledge.Base, logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	e := &Engine{
		analyzer:  analyzer.New(logger),
		responder: responder.New(kb, logger),
		contexts:  conversation.NewCacheStore(0),
		now:       time.Now,
		logger:    logger.With("component", "engine"),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.conv = conversation.NewManager(e.now)
	e.memories = memory.NewManager(e.now, logger)

	return e
}

// Respond analyzes the message, generates a reply, and updates both
// the conversation context and, for identified users, the long-term
// user memory. It never panics outward; failures yield an apology.
func (e *Engine) Respond(userID, chatID, message string) (reply Reply) {
	defer func() {
		if rec := recover(); rec != nil {
			e.logger.Error("respond failed", "panic", rec)
			reply = Reply{Text: apology, Timestamp: e.now()}
		}
	}()

	key := conversation.SessionKey(userID, chatID)
	mu := e.sessionLock(key)
	mu.Lock()
	defer mu.Unlock()

	c, ok := e.contexts.Get(key)
	if !ok {
		c = &conversation.Context{}
	}

	an := e.analyzer.Analyze(message)

	e.conv.Update(c, message, &an, false)
	text := e.responder.Generate(message, an, c)
	e.conv.Update(c, text, nil, true)
	e.contexts.Put(key, c)

	if userID != "" {
		e.memories.Update(userID, message, text, c)
	}

	s := an.Sentiment

	return Reply{
		Text:               text,
		Timestamp:          e.now(),
		Intent:             an.Intent,
		Sentiment:          &s,
		Entities:           an.Entities,
		ConversationLength: c.MessageCount,
	}
}

// Summary reports the state of one conversation session.
func (e *Engine) Summary(userID, chatID string) (conversation.Summary, bool) {
	key := conversation.SessionKey(userID, chatID)
	mu := e.sessionLock(key)
	mu.Lock()
	defer mu.Unlock()

	c, ok := e.contexts.Get(key)
	if !ok {
		return conversation.Summary{}, false
	}

	return e.conv.Summarize(c), true
}

// Memory returns the long-term memory for an identified user.
func (e *Engine) Memory(userID string) (memory.UserMemory, bool) {
	return e.memories.Get(userID)
}

// ClearContext drops the conversation context for a session. User
// memory is unaffected.
func (e *Engine) ClearContext(userID, chatID string) {
	key := conversation.SessionKey(userID, chatID)
	mu := e.sessionLock(key)
	mu.Lock()
	defer mu.Unlock()

	e.contexts.Delete(key)
}

// PruneStale removes contexts idle longer than maxIdle and reports
// how many were dropped.
func (e *Engine) PruneStale(maxIdle time.Duration) int {
	cutoff := e.now().Add(-maxIdle)
	pruned := 0

	for _, key := range e.contexts.Keys() {
		mu := e.sessionLock(key)
		mu.Lock()

		if c, ok := e.contexts.Get(key); ok && c.LastInteraction.Before(cutoff) {
			e.contexts.Delete(key)
			pruned++
		}

		mu.Unlock()
	}

	return pruned
}

func (e *Engine) sessionLock(key string) *sync.Mutex {
	v, _ := e.locks.LoadOrStore(key, &sync.Mutex{})

	return v.(*sync.Mutex)
}
