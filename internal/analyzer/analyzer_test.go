// Package analyzer_test tests the analyzer package
package analyzer_test

import (
	"reflect"
	"testing"

	"venbot/internal/analyzer"
)

func TestDetectIntentOrdering(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected analyzer.Intent
	}{
		{name: "plain greeting", input: "hello there", expected: analyzer.IntentGreeting},
		{name: "greeting beats question", input: "hello, what can you do", expected: analyzer.IntentGreeting},
		{name: "greeting beats personal info", input: "Hi, my name is Sam", expected: analyzer.IntentGreeting},
		{name: "wh question", input: "why would anyone nap so much", expected: analyzer.IntentQuestion},
		{name: "information request", input: "tell me about dinosaurs", expected: analyzer.IntentInformation},
		{name: "time query", input: "got a clock around", expected: analyzer.IntentTime},
		{name: "date query", input: "can you remember about yesterday", expected: analyzer.IntentDate},
		{name: "math symbols", input: "2 + 2", expected: analyzer.IntentMath},
		{name: "translation request", input: "please translate dog", expected: analyzer.IntentTranslation},
		{name: "personal info alone", input: "My name is Sam", expected: analyzer.IntentPersonal},
		{name: "default", input: "bananas are yellow", expected: analyzer.IntentGeneral},
	}

	a := analyzer.New(nil)
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := a.Analyze(tc.input)
			if got.Intent != tc.expected {
				t.Errorf("intent of %q = %s, want %s", tc.input, got.Intent, tc.expected)
			}
		})
	}
}

func TestSentimentCategories(t *testing.T) {
	t.Parallel()

	a := analyzer.New(nil)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "positive", input: "pizza tastes wonderful, truly excellent", expected: "positive"},
		{name: "negative", input: "traffic felt terrible, truly awful", expected: "negative"},
		{name: "neutral no sentiment words", input: "bananas grow near rivers", expected: "neutral"},
		{name: "empty", input: "", expected: "neutral"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := a.Analyze(tc.input).Sentiment
			if got.Category != tc.expected {
				t.Errorf("sentiment of %q = %+v, want category %s", tc.input, got, tc.expected)
			}
			if got.Polarity < -1 || got.Polarity > 1 {
				t.Errorf("polarity %v out of range", got.Polarity)
			}
			if got.Subjectivity < 0 || got.Subjectivity > 1 {
				t.Errorf("subjectivity %v out of range", got.Subjectivity)
			}
		})
	}
}

func TestExtractEntities(t *testing.T) {
	t.Parallel()

	a := analyzer.New(nil)
	got := a.Analyze("Sam moved to Paris carrying 3 bags")

	var persons, numbers, locations []string
	for _, e := range got.Entities {
		switch e.Type {
		case analyzer.EntityPerson:
			persons = append(persons, e.Text)
			if e.Confidence != 0.7 {
				t.Errorf("person confidence = %v, want 0.7", e.Confidence)
			}
		case analyzer.EntityNumber:
			numbers = append(numbers, e.Text)
			if e.Confidence != 1.0 {
				t.Errorf("number confidence = %v, want 1.0", e.Confidence)
			}
		case analyzer.EntityLocation:
			locations = append(locations, e.Text)
			if e.Confidence != 0.6 {
				t.Errorf("location confidence = %v, want 0.6", e.Confidence)
			}
		}
	}

	if !reflect.DeepEqual(persons, []string{"Sam", "Paris"}) {
		t.Errorf("persons = %v, want [Sam Paris]", persons)
	}
	if !reflect.DeepEqual(numbers, []string{"3"}) {
		t.Errorf("numbers = %v, want [3]", numbers)
	}
	// "Paris" follows "to", so it is tagged both PERSON and LOCATION.
	if !reflect.DeepEqual(locations, []string{"Paris"}) {
		t.Errorf("locations = %v, want [Paris]", locations)
	}
}

func TestExtractKeywords(t *testing.T) {
	t.Parallel()

	a := analyzer.New(nil)

	t.Run("filters and lemmatizes", func(t *testing.T) {
		t.Parallel()
		got := a.Analyze("The cats chased the dogs across sunny gardens").Keywords
		want := []string{"cat", "chased", "dog", "across", "sunny", "garden"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("keywords = %v, want %v", got, want)
		}
	})

	t.Run("idempotent and capped at ten", func(t *testing.T) {
		t.Parallel()
		input := "alpha bravo charlie delta echoes foxtrot golf hotel india juliet kilo lima"
		first := a.Analyze(input).Keywords
		second := a.Analyze(input).Keywords
		if !reflect.DeepEqual(first, second) {
			t.Errorf("keyword extraction not idempotent: %v vs %v", first, second)
		}
		if len(first) > 10 {
			t.Errorf("keywords length %d exceeds cap of 10", len(first))
		}
	})

	t.Run("duplicates removed in first-occurrence order", func(t *testing.T) {
		t.Parallel()
		got := a.Analyze("weather weather sunny weather sunny").Keywords
		want := []string{"weather", "sunny"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("keywords = %v, want %v", got, want)
		}
	})
}

func TestAssessComplexity(t *testing.T) {
	t.Parallel()

	a := analyzer.New(nil)

	t.Run("empty message short-circuits to zero", func(t *testing.T) {
		t.Parallel()
		got := a.Analyze("").Complexity
		if got.WordCount != 0 || got.SentenceCount != 0 {
			t.Errorf("counts = %d/%d, want 0/0", got.WordCount, got.SentenceCount)
		}
		if got.AvgWordLength != 0 || got.AvgSentenceLength != 0 {
			t.Errorf("averages = %v/%v, want 0/0", got.AvgWordLength, got.AvgSentenceLength)
		}
		if got.Level != "low" {
			t.Errorf("level = %s, want low", got.Level)
		}
	})

	t.Run("short message is low", func(t *testing.T) {
		t.Parallel()
		got := a.Analyze("Cats nap a lot.").Complexity
		if got.Level != "low" {
			t.Errorf("level = %s, want low (complexity %+v)", got.Level, got)
		}
	})

	t.Run("long words raise the level", func(t *testing.T) {
		t.Parallel()
		got := a.Analyze("Antidisestablishmentarianism characterizes longwinded vocabulary.").Complexity
		if got.Level != "high" {
			t.Errorf("level = %s, want high (complexity %+v)", got.Level, got)
		}
	})
}

func TestDetectLanguageDefaultsToEnglish(t *testing.T) {
	t.Parallel()

	a := analyzer.New(nil)
	if got := a.Analyze("ok").Language; got == "" {
		t.Error("language tag should never be empty")
	}
	if got := a.Analyze("").Language; got != "en" {
		t.Errorf("language of empty message = %q, want en", got)
	}
}
