package domain

// Option represents a possible answer for a question. IDs are opaque but
// unique within their question.
type Option struct {
	ID      int    `json:"id"`
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Question models an MCQ question with exactly one correct option and a
// per-question time budget.
type Question struct {
	Text        string   `json:"text"`
	TimeSeconds int      `json:"timeSeconds"` // defaults to 30 if zero
	Options     []Option `json:"options"`
}

// Quiz is an ordered collection of questions.
type Quiz struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// OptionView is an option as shown to players: correctness withheld.
type OptionView struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// QuestionView is the public payload broadcast when a question opens.
type QuestionView struct {
	Index       int          `json:"index"`
	Total       int          `json:"total"`
	Text        string       `json:"text"`
	Options     []OptionView `json:"options"`
	TimeSeconds int          `json:"timeSeconds"`
}

// PlayerResult is the per-player outcome of a single closed question.
type PlayerResult struct {
	Name    string `json:"name"`
	Correct bool   `json:"correct"`
	Points  int    `json:"points"`
}

// QuestionResults summarizes a closed question.
type QuestionResults struct {
	CorrectOptionID int            `json:"correctOptionId"`
	Results         []PlayerResult `json:"results"`
}

// AnswerOutcome records how a player fared on one question.
type AnswerOutcome struct {
	Correct bool `json:"correct"`
	Points  int  `json:"points"`
}

// Standing is one leaderboard row. Last carries the outcome of the most
// recently closed question when one exists.
type Standing struct {
	Name  string         `json:"name"`
	Score int            `json:"score"`
	Last  *AnswerOutcome `json:"last,omitempty"`
}
