// Package textutil_test tests the textutil package
package textutil_test

import (
	"reflect"
	"testing"

	"venbot/internal/textutil"
)

func TestWords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "simple sentence",
			input:    "Hello, world!",
			expected: []string{"Hello", "world"},
		},
		{
			name:     "decimal number kept intact",
			input:    "pi is 3.14 roughly",
			expected: []string{"pi", "is", "3.14", "roughly"},
		},
		{
			name:     "thousands separator kept intact",
			input:    "over 1,000 users",
			expected: []string{"over", "1,000", "users"},
		},
		{
			name:     "contractions kept intact",
			input:    "I'm sure you don't mind",
			expected: []string{"I'm", "sure", "you", "don't", "mind"},
		},
		{
			name:     "trailing punctuation stripped",
			input:    "Really? Yes.",
			expected: []string{"Really", "Yes"},
		},
		{
			name:     "empty input",
			input:    "",
			expected: []string{},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := textutil.Words(tc.input)
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("Words(%q) = %v, want %v", tc.input, got, tc.expected)
			}
		})
	}
}

func TestSentences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "two sentences", input: "Hello there. How are you?", expected: 2},
		{name: "no terminator", input: "just a fragment", expected: 1},
		{name: "exclamations", input: "Wow! Amazing! Great!", expected: 3},
		{name: "empty", input: "", expected: 0},
		{name: "only punctuation", input: "?!.", expected: 0},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := textutil.Sentences(tc.input)
			if len(got) != tc.expected {
				t.Errorf("Sentences(%q) returned %d sentences (%v), want %d", tc.input, len(got), got, tc.expected)
			}
		})
	}
}

func TestIsStopword(t *testing.T) {
	t.Parallel()

	for _, word := range []string{"the", "The", "is", "and", "i'm"} {
		if !textutil.IsStopword(word) {
			t.Errorf("IsStopword(%q) = false, want true", word)
		}
	}
	for _, word := range []string{"weather", "python", "sun"} {
		if textutil.IsStopword(word) {
			t.Errorf("IsStopword(%q) = true, want false", word)
		}
	}
}

func TestLemmatize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"cats", "cat"},
		{"cities", "city"},
		{"classes", "class"},
		{"boxes", "box"},
		{"wishes", "wish"},
		{"glass", "glass"},
		{"bus", "bus"},
		{"analysis", "analysis"},
		{"dog", "dog"},
	}

	for _, tc := range tests {
		tc := tc
		if got := textutil.Lemmatize(tc.input); got != tc.expected {
			t.Errorf("Lemmatize(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestUnique(t *testing.T) {
	t.Parallel()

	got := textutil.Unique([]string{"a", "b", "a", "c", "b", "a"})
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Unique = %v, want %v", got, want)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	if got := textutil.Truncate("short", 100); got != "short" {
		t.Errorf("Truncate(short) = %q", got)
	}

	long := ""
	for i := 0; i < 120; i++ {
		long += "x"
	}
	got := textutil.Truncate(long, 100)
	if len([]rune(got)) != 103 {
		t.Errorf("Truncate returned %d runes, want 103", len([]rune(got)))
	}
	if got[100:] != "..." {
		t.Errorf("Truncate did not append ellipsis: %q", got[95:])
	}
}
