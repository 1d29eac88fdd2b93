// Package knowledge provides the trigger->responses knowledge base consulted
// by the response selector. The base is loaded once at startup from a JSON
// file mapping category -> trigger -> candidate responses, falling back to a
// built-in default set when the file is missing, and is read-only afterwards.
package knowledge

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
)

// Base is an immutable category -> trigger -> responses mapping. Categories
// and triggers are scanned in sorted order so lookups are deterministic.
type Base struct {
	categories []string
	entries    map[string]map[string][]string
	logger     *slog.Logger
}

// New builds a Base from an already-parsed mapping.
func New(entries map[string]map[string][]string, logger *slog.Logger) *Base {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	categories := make([]string, 0, len(entries))
	for category := range entries {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	return &Base{
		categories: categories,
		entries:    entries,
		logger:     logger.With("component", "knowledge"),
	}
}

// Default returns the built-in knowledge base used when no file is available.
func Default(logger *slog.Logger) *Base {
	return New(map[string]map[string][]string{
		"basic_conversation": {
			"hi":    {"Hello! How are you today? 😊", "Hi there! Nice to meet you! 👋"},
			"hello": {"Hello! How are you today? 😊", "Hi there! Nice to meet you! 👋"},
			"help":  {"I can help you with various tasks!", "How can I assist you today?"},
		},
		"time_queries": {
			"what time":    {"Let me get the current time for you!", "I'll check the time!"},
			"current time": {"Here's the current time!", "Let me tell you the time!"},
		},
	}, logger)
}

// Load reads a knowledge base from the JSON file at path. A missing file is
// not an error: the built-in default set is returned instead. A file that
// exists but cannot be parsed is an error.
func Load(path string, logger *slog.Logger) (*Base, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("Knowledge base file not found, using default knowledge base", "path", path)
			return Default(logger), nil
		}
		return nil, fmt.Errorf("failed to read knowledge base %s: %w", path, err)
	}

	var entries map[string]map[string][]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge base %s: %w", path, err)
	}

	base := New(entries, logger)
	logger.Info("Knowledge base loaded", "path", path, "categories", len(base.categories))
	return base, nil
}

// Categories returns the category names in scan order.
func (b *Base) Categories() []string {
	out := make([]string, len(b.categories))
	copy(out, b.categories)
	return out
}

// Search returns the candidate responses of the first trigger that contains
// keyword as a substring, scanning categories and triggers in order.
func (b *Base) Search(keyword string) ([]string, bool) {
	keyword = strings.ToLower(keyword)
	for _, category := range b.categories {
		for _, trigger := range sortedTriggers(b.entries[category]) {
			if strings.Contains(strings.ToLower(trigger), keyword) {
				return b.entries[category][trigger], true
			}
		}
	}
	return nil, false
}

// MatchMessage returns the candidate responses of the first trigger that
// appears verbatim inside the lower-cased message.
func (b *Base) MatchMessage(message string) ([]string, bool) {
	message = strings.ToLower(message)
	for _, category := range b.categories {
		for _, trigger := range sortedTriggers(b.entries[category]) {
			if strings.Contains(message, strings.ToLower(trigger)) {
				return b.entries[category][trigger], true
			}
		}
	}
	return nil, false
}

func sortedTriggers(triggers map[string][]string) []string {
	out := make([]string, 0, len(triggers))
	for trigger := range triggers {
		out = append(out, trigger)
	}
	sort.Strings(out)
	return out
}
