// Package responder turns an analyzed message into a reply. Replies
// come from intent-specific handlers backed by the knowledge base,
// with a neutral fallback pool when nothing matches.
package responder

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"venbot/internal/analyzer"
	"venbot/internal/conversation"
	"venbot/internal/knowledge"
	"venbot/internal/mathexpr"
)

// Clock supplies the current time, so time and date replies can be
// pinned in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ZoneResolver maps timezone names to locations.
type ZoneResolver interface {
	Load(name string) (*time.Location, error)
}

type stdZones struct{}

func (stdZones) Load(name string) (*time.Location, error) {
	return time.LoadLocation(name)
}

const (
	timeLayout = "03:04 PM"
	dateLayout = "Monday, January 02, 2006"

	apology = "I'm sorry, I encountered an error while processing your message. Please try again."
)

var baseGreetings = []string{
	"Hello! How are you today? 😊",
	"Hi there! Nice to meet you! 👋",
	"Hey! How can I help you? 😄",
	"Greetings! What's on your mind? 🌟",
}

var positiveGreetings = []string{
	"Hello! You seem to be in a great mood! 😊✨",
	"Hi there! Your positive energy is contagious! 🌟",
}

var negativeGreetings = []string{
	"Hello! I'm here to help brighten your day! ☀️",
	"Hi there! Let's turn that frown upside down! 😊",
}

var fallbacks = []string{
	"That's interesting! Tell me more about it. 😊",
	"I'd love to learn more about that! What would you like to know? 🤔",
	"That's a great topic! How can I help you explore it further? 🌟",
	"Interesting! What aspects would you like to discuss? 💭",
}

var (
	mathCleanRe = regexp.MustCompile(`[^0-9+\-*/()^.\s]`)
	nameRe      = regexp.MustCompile(`(?i)(?:my name is|i'm called)\s+([a-zA-Z]+)`)
	ageRe       = regexp.MustCompile(`(?i)(\d+)\s*years?\s*old`)
)

// Option configures a Responder.
type Option func(*Responder)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(r *Responder) { r.clock = c }
}

// WithZones replaces the timezone resolver.
func WithZones(z ZoneResolver) Option {
	return func(r *Responder) { r.zones = z }
}

// WithRand seeds reply selection deterministically.
func WithRand(rng *rand.Rand) Option {
	return func(r *Responder) { r.rng = rng }
}

// Responder generates reply text for analyzed messages.
type Responder struct {
	kb     *knowledge.Base
	clock  Clock
	zones  ZoneResolver
	logger *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Responder over the given knowledge base.
func New(kb *knowledge.Base, logger *slog.Logger, opts ...Option) *Responder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := &Responder{
		kb:     kb,
		clock:  SystemClock{},
		zones:  stdZones{},
		logger: logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Generate produces the reply for a message. The conversation context
// may be nil; when present, personal details extracted from the
// message are written back to it. Generate never panics outward; an
// internal failure yields a fixed apology.
func (r *Responder) Generate(message string, an analyzer.Analysis, c *conversation.Context) (reply string) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("response generation failed", "panic", rec)
			reply = apology
		}
	}()

	switch an.Intent {
	case analyzer.IntentGreeting:
		return r.greeting(an.Sentiment)
	case analyzer.IntentTime:
		return r.timeReply()
	case analyzer.IntentDate:
		return r.dateReply()
	case analyzer.IntentMath:
		return r.mathReply(message)
	case analyzer.IntentTranslation:
		return "I can help you with translations! Please specify the text and target language. For example: 'Translate hello to Spanish' 🌍"
	case analyzer.IntentInformation:
		return r.information(an.Keywords)
	case analyzer.IntentPersonal:
		return r.personalInfo(message, c)
	}

	return r.knowledgeReply(message, an.Keywords)
}

// TimeIn reports the current time in the named timezone.
func (r *Responder) TimeIn(name string) string {
	loc, err := r.zones.Load(name)
	if err != nil {
		r.logger.Error("unknown timezone", "name", name, "error", err)

		return fmt.Sprintf("Sorry, I couldn't get the time for %s.", name)
	}

	now := r.clock.Now().In(loc)

	return fmt.Sprintf("In %s, it's %s on %s. ⏰", name, now.Format(timeLayout), now.Format(dateLayout))
}

// WeatherFor returns the fixed placeholder for weather requests; no
// weather backend is wired.
func (r *Responder) WeatherFor(location string) string {
	return fmt.Sprintf("I'd be happy to tell you about the weather in %s! However, I need to integrate with a weather service to provide current information. 🌤️", location)
}

func (r *Responder) greeting(s analyzer.Sentiment) string {
	pool := baseGreetings
	switch s.Category {
	case analyzer.SentimentPositive:
		pool = append(append([]string{}, pool...), positiveGreetings...)
	case analyzer.SentimentNegative:
		pool = append(append([]string{}, pool...), negativeGreetings...)
	}

	return r.pick(pool)
}

func (r *Responder) timeReply() string {
	now := r.clock.Now()

	return fmt.Sprintf("It's currently %s on %s. ⏰", now.Format(timeLayout), now.Format(dateLayout))
}

func (r *Responder) dateReply() string {
	return fmt.Sprintf("Today is %s. 📅", r.clock.Now().Format(dateLayout))
}

func (r *Responder) mathReply(message string) string {
	expr := strings.TrimSpace(mathCleanRe.ReplaceAllString(message, ""))

	result, err := mathexpr.Evaluate(expr)
	if err != nil {
		r.logger.Error("failed to solve expression", "expr", expr, "error", err)

		return "I'm sorry, I couldn't solve that mathematical expression. Please try a simpler equation."
	}

	return fmt.Sprintf("The answer is %s. 🧮", formatNumber(result))
}

// formatNumber drops the fraction for whole results so "2+2" answers
// with 4 rather than 4.000000.
func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}

	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (r *Responder) information(keywords []string) string {
	for _, kw := range keywords {
		if replies, ok := r.kb.Search(kw); ok {
			return r.pick(replies)
		}
	}

	return "I'd be happy to help you learn about that! Could you provide more specific details about what you'd like to know? 🤔"
}

func (r *Responder) personalInfo(message string, c *conversation.Context) string {
	if m := nameRe.FindStringSubmatch(message); m != nil {
		if c != nil {
			c.UserName = m[1]
		}

		return fmt.Sprintf("Nice to meet you, %s! I'll remember your name. 😊", m[1])
	}

	if m := ageRe.FindStringSubmatch(message); m != nil {
		age, err := strconv.Atoi(m[1])
		if err == nil {
			if c != nil {
				c.UserAge = age
			}

			return fmt.Sprintf("Got it! You're %d years old. 🎂", age)
		}
	}

	return "I'm here to help! What would you like to know? 😊"
}

func (r *Responder) knowledgeReply(message string, keywords []string) string {
	if replies, ok := r.kb.MatchMessage(message); ok {
		return r.pick(replies)
	}

	for _, kw := range keywords {
		if replies, ok := r.kb.Search(kw); ok {
			return r.pick(replies)
		}
	}

	return r.pick(fallbacks)
}

func (r *Responder) pick(pool []string) string {
	if len(pool) == 0 {
		return apology
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return pool[r.rng.Intn(len(pool))]
}
