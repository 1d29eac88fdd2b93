package analyzer

// Intent is the coarse category of user purpose.
type Intent string

const (
	IntentGreeting    Intent = "greeting"
	IntentQuestion    Intent = "question"
	IntentTime        Intent = "time_query"
	IntentDate        Intent = "date_query"
	IntentMath        Intent = "math_query"
	IntentTranslation Intent = "translation_request"
	IntentInformation Intent = "information_request"
	IntentPersonal    Intent = "personal_info"
	IntentGeneral     Intent = "general_conversation"
)

// Sentiment category labels.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Entity type labels.
const (
	EntityPerson   = "PERSON"
	EntityNumber   = "NUMBER"
	EntityLocation = "LOCATION"
)

// Sentiment holds the lexicon-derived polarity and subjectivity of a message.
// Polarity is in [-1,1], subjectivity in [0,1]. Category is positive when
// polarity > 0.3, negative when polarity < -0.3, neutral otherwise.
type Sentiment struct {
	Polarity     float64 `json:"polarity"`
	Subjectivity float64 `json:"subjectivity"`
	Category     string  `json:"category"`
}

// Entity is a heuristically extracted named entity. A single token may carry
// multiple entity tags; de-duplication happens downstream.
type Entity struct {
	Text       string  `json:"text"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

// Complexity describes how elaborate a message is.
type Complexity struct {
	WordCount         int     `json:"word_count"`
	SentenceCount     int     `json:"sentence_count"`
	AvgWordLength     float64 `json:"avg_word_length"`
	AvgSentenceLength float64 `json:"avg_sentence_length"`
	Level             string  `json:"level"`
}

// Analysis is the complete structured record produced for one message.
type Analysis struct {
	Intent     Intent     `json:"intent"`
	Sentiment  Sentiment  `json:"sentiment"`
	Entities   []Entity   `json:"entities"`
	Keywords   []string   `json:"keywords"`
	Language   string     `json:"language"`
	Complexity Complexity `json:"complexity"`
}
