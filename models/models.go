
package models

import (
	"time"
)

// Unresolved is the correct-index sentinel for questions whose answer-key
// cell could not be mapped to an option. It is data, not an error: a bank
// may load with any number of unresolved questions.
const Unresolved = -1

// Question is one validated record from the question source.
type Question struct {
	ID           int      `json:"id"`
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"` // Unresolved (-1) or 0..len(Options)-1
	// Raw and cleaned answer-key cells, kept for the diagnostics view.
	RawAnswerKey     string `json:"raw_answer_key,omitempty"`
	CleanedAnswerKey string `json:"cleaned_answer_key,omitempty"`
}

// Resolved reports whether the question carries a usable correct index.
func (q Question) Resolved() bool {
	return q.CorrectIndex != Unresolved
}

// CorrectOption returns the text of the correct option, or nil if unresolved.
func (q Question) CorrectOption() *string {
	if q.CorrectIndex == Unresolved || q.CorrectIndex >= len(q.Options) {
		return nil
	}
	return &q.Options[q.CorrectIndex]
}

// Bank is the full ordered question collection from the most recent
// successful fetch. Replaced wholesale on refresh, never mutated in place.
type Bank struct {
	Questions []Question `json:"questions"`
	FetchedAt time.Time  `json:"fetched_at"`
}

// ColumnMap names the source-sheet columns the bank builder reads.
// Injectable so a drift in the sheet layout is a configuration change.
type ColumnMap struct {
	QuestionText int   `yaml:"question_text" json:"question_text"`
	AnswerKey    int   `yaml:"answer_key" json:"answer_key"`
	Options      []int `yaml:"options" json:"options"`
}

// DefaultColumnMap matches the source sheet's widest layout:
// [unused, question, answer key, option 1..6].
func DefaultColumnMap() ColumnMap {
	return ColumnMap{
		QuestionText: 1,
		AnswerKey:    2,
		Options:      []int{3, 4, 5, 6, 7, 8},
	}
}

// QuestionView is a question as shown to a client: no correct index and no
// answer-key cells, so playing sessions never leak the key.
type QuestionView struct {
	ID      int      `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// View strips a question down to its client-visible fields.
func (q Question) View() QuestionView {
	return QuestionView{ID: q.ID, Text: q.Text, Options: q.Options}
}

// SearchResult is one hit of the free-text search mode: the stem plus only
// the correct option (or nothing when the answer is unresolved).
type SearchResult struct {
	ID            int     `json:"id"`
	Text          string  `json:"text"`
	CorrectOption *string `json:"correct_option"`
}

// Diagnostic is the read-only projection of one unresolved answer, for the
// data-quality view.
type Diagnostic struct {
	QuestionID       int    `json:"question_id"`
	Text             string `json:"text"`
	RawAnswerKey     string `json:"raw_answer_key"`
	CleanedAnswerKey string `json:"cleaned_answer_key"`
	OptionCount      int    `json:"option_count"`
}

// LoginRequest for the allow-list gate.
type LoginRequest struct {
	Email string `json:"email" binding:"required"`
}

// LoginResponse carries the issued session token.
type LoginResponse struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// ReviewStartRequest for opening a review session.
type ReviewStartRequest struct {
	Order       string `json:"order" binding:"required,oneof=random sequential"`
	StartOffset int    `json:"start_offset"`
}

// ReviewSelectRequest records the user's pending pick.
type ReviewSelectRequest struct {
	OptionIndex *int `json:"option_index" binding:"required"`
}

// ReviewView is the client-facing snapshot of a review session.
type ReviewView struct {
	SessionID string       `json:"session_id"`
	Position  int          `json:"position"`
	Total     int          `json:"total"`
	Question  QuestionView `json:"question"`
	Selection *int         `json:"selection"`
	Feedback  string       `json:"feedback"`
}

// ExamStartResponse for a freshly started exam.
type ExamStartResponse struct {
	SessionID        string         `json:"session_id"`
	Questions        []QuestionView `json:"questions"`
	RemainingSeconds int            `json:"remaining_seconds"`
}

// ExamAnswerRequest upserts one answer while the exam is playing.
type ExamAnswerRequest struct {
	QuestionID  int  `json:"question_id" binding:"required"`
	OptionIndex *int `json:"option_index" binding:"required"`
}

// ExamStatusResponse for polling a running or finished exam.
type ExamStatusResponse struct {
	Status           string `json:"status"`
	AnsweredCount    int    `json:"answered_count"`
	RemainingCount   int    `json:"remaining_count"`
	RemainingSeconds int    `json:"remaining_seconds"`
}

// ExamResultResponse is the deferred score after submit.
type ExamResultResponse struct {
	Score int `json:"score"`
	Total int `json:"total"`
}
