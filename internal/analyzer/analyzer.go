// Package analyzer turns a raw user message into a structured analysis
// record: intent, sentiment, entities, keywords, language tag, and complexity
// metrics. Analyze never fails; every extraction degrades to a safe default.
package analyzer

import (
	"io"
	"log/slog"
	"math"
	"strings"
	"unicode"

	"github.com/abadojack/whatlanggo"

	"venbot/internal/textutil"
)

const maxKeywords = 10

// Analyzer performs rule-based message analysis. It is stateless and safe
// for concurrent use.
type Analyzer struct {
	logger *slog.Logger
}

// New creates an Analyzer.
func New(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Analyzer{logger: logger.With("component", "analyzer")}
}

// Analyze produces a complete analysis record for message. It has no side
// effects and always returns a fully populated record.
func (a *Analyzer) Analyze(message string) Analysis {
	return Analysis{
		Intent:     a.detectIntent(message),
		Sentiment:  a.analyzeSentiment(message),
		Entities:   a.extractEntities(message),
		Keywords:   a.extractKeywords(message),
		Language:   a.detectLanguage(message),
		Complexity: a.assessComplexity(message),
	}
}

// intentRules is the fixed, ordered rule list for intent detection. Matching
// is substring containment on the lower-cased message and first-match-wins:
// a message carrying both a greeting word and a question word is a greeting.
var intentRules = []struct {
	intent   Intent
	keywords []string
}{
	{IntentGreeting, []string{"hi", "hello", "hey", "good morning", "good afternoon", "good evening"}},
	{IntentQuestion, []string{"what", "how", "why", "when", "where", "who", "which"}},
	{IntentTime, []string{"time", "clock", "hour", "minute"}},
	{IntentDate, []string{"date", "day", "today", "tomorrow", "yesterday"}},
}

var mathSymbols = "+-*/=()"

var lateIntentRules = []struct {
	intent   Intent
	keywords []string
}{
	{IntentTranslation, []string{"translate", "in spanish", "to french", "in german"}},
	{IntentInformation, []string{"tell me about", "what is", "who is", "search for"}},
	{IntentPersonal, []string{"my name", "i am", "i'm", "i live in"}},
}

func (a *Analyzer) detectIntent(message string) Intent {
	lower := strings.ToLower(message)

	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.intent
			}
		}
	}

	if strings.ContainsAny(message, mathSymbols) {
		return IntentMath
	}

	for _, rule := range lateIntentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.intent
			}
		}
	}

	return IntentGeneral
}

func (a *Analyzer) extractEntities(message string) []Entity {
	words := textutil.Words(message)
	var entities []Entity

	// Capitalized tokens are treated as potential person names.
	for _, word := range words {
		runes := []rune(word)
		if len(runes) > 1 && unicode.IsUpper(runes[0]) && !textutil.IsStopword(word) {
			entities = append(entities, Entity{Text: word, Type: EntityPerson, Confidence: 0.7})
		}
	}

	for _, word := range words {
		if isNumeric(word) {
			entities = append(entities, Entity{Text: word, Type: EntityNumber, Confidence: 1.0})
		}
	}

	// A capitalized token right after a place preposition is also a location.
	for i, word := range words {
		switch strings.ToLower(word) {
		case "in", "at", "from", "to":
			if i+1 < len(words) {
				next := []rune(words[i+1])
				if len(next) > 0 && unicode.IsUpper(next[0]) {
					entities = append(entities, Entity{Text: words[i+1], Type: EntityLocation, Confidence: 0.6})
				}
			}
		}
	}

	return entities
}

func isNumeric(word string) bool {
	stripped := strings.NewReplacer(".", "", ",", "").Replace(word)
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func (a *Analyzer) extractKeywords(message string) []string {
	words := textutil.Words(strings.ToLower(message))

	keywords := make([]string, 0, len(words))
	for _, word := range words {
		if textutil.IsStopword(word) || len([]rune(word)) <= 2 {
			continue
		}
		keywords = append(keywords, textutil.Lemmatize(word))
	}

	keywords = textutil.Unique(keywords)
	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	return keywords
}

func (a *Analyzer) detectLanguage(message string) string {
	info := whatlanggo.Detect(message)
	code := info.Lang.Iso6391()
	if code == "" || !info.IsReliable() {
		return "en"
	}
	return code
}

func (a *Analyzer) assessComplexity(message string) Complexity {
	words := textutil.Words(message)
	sentences := textutil.Sentences(message)

	var avgWordLength, avgSentenceLength float64
	if len(words) > 0 {
		total := 0
		for _, w := range words {
			total += len([]rune(w))
		}
		avgWordLength = float64(total) / float64(len(words))
	}
	if len(sentences) > 0 {
		avgSentenceLength = float64(len(words)) / float64(len(sentences))
	}

	avgWordLength = round2(avgWordLength)
	avgSentenceLength = round2(avgSentenceLength)

	level := "low"
	switch {
	case avgSentenceLength > 20 || avgWordLength > 6:
		level = "high"
	case avgSentenceLength > 15 || avgWordLength > 5:
		level = "medium"
	}

	return Complexity{
		WordCount:         len(words),
		SentenceCount:     len(sentences),
		AvgWordLength:     avgWordLength,
		AvgSentenceLength: avgSentenceLength,
		Level:             level,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
