// Package textutil provides the lexical helpers used by the message analyzer:
// word and sentence tokenization, stopword filtering, a small rule-based
// lemmatizer, and order-preserving de-duplication.
package textutil

import (
	"strings"
	"unicode"
)

// tokenRune reports whether r may appear inside a word token. Periods and
// commas are kept so numeric tokens like "3.14" and "1,000" survive intact;
// they are trimmed from token edges afterwards.
func tokenRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '.' || r == ','
}

// Words splits text into word tokens, preserving case.
func Words(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool { return !tokenRune(r) })

	words := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,'")
		if f != "" {
			words = append(words, f)
		}
	}
	return words
}

// Sentences splits text into sentences on terminal punctuation. Text without
// a terminator counts as a single sentence.
func Sentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// IsStopword reports whether word (in any case) is an English stopword.
func IsStopword(word string) bool {
	_, ok := stopwords[strings.ToLower(word)]
	return ok
}

// Lemmatize reduces a lower-cased word to a base noun form using simple
// suffix rules (plural stripping only, matching the analyzer's needs).
func Lemmatize(word string) string {
	switch {
	case strings.HasSuffix(word, "sses"):
		return strings.TrimSuffix(word, "es")
	case strings.HasSuffix(word, "ies") && len(word) > 4:
		return strings.TrimSuffix(word, "ies") + "y"
	case strings.HasSuffix(word, "xes") || strings.HasSuffix(word, "zes") ||
		strings.HasSuffix(word, "ches") || strings.HasSuffix(word, "shes"):
		return strings.TrimSuffix(word, "es")
	case strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss") &&
		!strings.HasSuffix(word, "us") && !strings.HasSuffix(word, "is") && len(word) > 3:
		return strings.TrimSuffix(word, "s")
	default:
		return word
	}
}

// Unique removes duplicates from items preserving first-occurrence order.
func Unique(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	unique := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		unique = append(unique, item)
	}
	return unique
}

// Truncate shortens s to at most n runes, appending an ellipsis when
// truncation happened.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

var stopwords = func() map[string]struct{} {
	words := []string{
		"i", "me", "my", "myself", "we", "our", "ours", "ourselves", "you",
		"you're", "you've", "you'll", "you'd", "your", "yours", "yourself",
		"yourselves", "he", "him", "his", "himself", "she", "she's", "her",
		"hers", "herself", "it", "it's", "its", "itself", "they", "them",
		"their", "theirs", "themselves", "what", "which", "who", "whom",
		"this", "that", "that'll", "these", "those", "am", "is", "are", "was",
		"were", "be", "been", "being", "have", "has", "had", "having", "do",
		"does", "did", "doing", "a", "an", "the", "and", "but", "if", "or",
		"because", "as", "until", "while", "of", "at", "by", "for", "with",
		"about", "against", "between", "into", "through", "during", "before",
		"after", "above", "below", "to", "from", "up", "down", "in", "out",
		"on", "off", "over", "under", "again", "further", "then", "once",
		"here", "there", "when", "where", "why", "how", "all", "any", "both",
		"each", "few", "more", "most", "other", "some", "such", "no", "nor",
		"not", "only", "own", "same", "so", "than", "too", "very", "s", "t",
		"can", "will", "just", "don", "don't", "should", "should've", "now",
		"d", "ll", "m", "o", "re", "ve", "y", "ain", "aren", "aren't",
		"couldn", "couldn't", "didn", "didn't", "doesn", "doesn't", "hadn",
		"hadn't", "hasn", "hasn't", "haven", "haven't", "isn", "isn't", "ma",
		"mightn", "mightn't", "mustn", "mustn't", "needn", "needn't", "shan",
		"shan't", "shouldn", "shouldn't", "wasn", "wasn't", "weren",
		"weren't", "won", "won't", "wouldn", "wouldn't", "i'm", "i've",
		"i'll", "i'd",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}()
