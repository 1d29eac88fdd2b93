package analyzer

import "strings"

// valence is the lexicon entry for a sentiment-bearing word.
type valence struct {
	polarity     float64
	subjectivity float64
}

// analyzeSentiment scores a message against the valence lexicon. Polarity is
// the mean polarity of matched tokens, subjectivity the mean subjectivity.
// A message with no sentiment-bearing tokens is neutral with zero scores.
func (a *Analyzer) analyzeSentiment(message string) Sentiment {
	tokens := strings.Fields(strings.ToLower(message))

	var polarity, subjectivity float64
	matched := 0
	negate := false
	for _, token := range tokens {
		token = strings.Trim(token, ".,!?;:\"'()")
		if token == "not" || token == "never" || strings.HasSuffix(token, "n't") {
			negate = true
			continue
		}
		v, ok := lexicon[token]
		if !ok {
			continue
		}
		p := v.polarity
		if negate {
			p = -p
			negate = false
		}
		polarity += p
		subjectivity += v.subjectivity
		matched++
	}

	s := Sentiment{Category: SentimentNeutral}
	if matched > 0 {
		s.Polarity = clamp(polarity/float64(matched), -1, 1)
		s.Subjectivity = clamp(subjectivity/float64(matched), 0, 1)
	}

	switch {
	case s.Polarity > 0.3:
		s.Category = SentimentPositive
	case s.Polarity < -0.3:
		s.Category = SentimentNegative
	}
	return s
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// lexicon is a compact valence word list in the spirit of pattern-based
// sentiment scorers: polarity in [-1,1], subjectivity in [0,1].
var lexicon = map[string]valence{
	"amazing":       {0.8, 0.9},
	"awesome":       {1.0, 1.0},
	"beautiful":     {0.85, 1.0},
	"best":          {1.0, 0.3},
	"better":        {0.5, 0.5},
	"brilliant":     {0.9, 0.9},
	"cool":          {0.35, 0.65},
	"delicious":     {1.0, 1.0},
	"excellent":     {1.0, 1.0},
	"excited":       {0.45, 0.85},
	"fantastic":     {0.9, 0.9},
	"fun":           {0.5, 0.6},
	"glad":          {0.5, 1.0},
	"good":          {0.7, 0.6},
	"great":         {0.8, 0.75},
	"happy":         {0.8, 1.0},
	"helpful":       {0.5, 0.5},
	"incredible":    {0.9, 0.9},
	"interesting":   {0.5, 0.5},
	"like":          {0.4, 0.4},
	"love":          {0.5, 0.6},
	"lovely":        {0.7, 0.8},
	"nice":          {0.6, 1.0},
	"perfect":       {1.0, 1.0},
	"pleasant":      {0.7, 0.8},
	"wonderful":     {1.0, 1.0},
	"angry":         {-0.5, 1.0},
	"annoying":      {-0.6, 0.8},
	"awful":         {-1.0, 1.0},
	"bad":           {-0.7, 0.67},
	"boring":        {-0.6, 0.8},
	"broken":        {-0.4, 0.4},
	"disappointing": {-0.6, 0.7},
	"dreadful":      {-0.9, 0.9},
	"hate":          {-0.8, 0.9},
	"horrible":      {-1.0, 1.0},
	"miserable":     {-0.8, 0.9},
	"pathetic":      {-0.8, 0.9},
	"poor":          {-0.4, 0.6},
	"sad":           {-0.5, 1.0},
	"stupid":        {-0.8, 0.9},
	"terrible":      {-1.0, 1.0},
	"ugly":          {-0.7, 0.9},
	"unhappy":       {-0.6, 1.0},
	"useless":       {-0.5, 0.6},
	"worse":         {-0.6, 0.7},
	"worst":         {-1.0, 1.0},
	"wrong":         {-0.5, 0.5},
}
