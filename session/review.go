// --- qamaster-server/session/review.go ---
package session

import (
	"errors"
	"math/rand"

	"qamaster-server/models"
)

// Order selects how a review queue is arranged.
type Order string

const (
	OrderRandom     Order = "random"
	OrderSequential Order = "sequential"
)

// Feedback is the per-question reveal state of a review session.
type Feedback string

const (
	FeedbackNone      Feedback = "none"
	FeedbackCorrect   Feedback = "correct"
	FeedbackIncorrect Feedback = "incorrect"
)

var (
	ErrNoQuestions    = errors.New("no questions loaded")
	ErrInvalidOption  = errors.New("option index out of range")
	ErrAlreadyChecked = errors.New("feedback already revealed for this question")
	ErrNoSelection    = errors.New("no option selected")
)

// Review is the untimed practice session: a frozen queue of questions, a
// cursor, and the pending selection/feedback for the current position. It
// holds its own queue and never touches the shared bank.
type Review struct {
	queue     []models.Question
	position  int
	selection *int
	feedback  Feedback
}

// StartReview opens a session over the given questions. Random order takes a
// fresh shuffled permutation and always begins at position 0; sequential
// order keeps the bank order and clamps startOffset into the valid range, so
// a review is resumable from an arbitrary remembered offset.
func StartReview(questions []models.Question, order Order, startOffset int, r *rand.Rand) (*Review, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	var queue []models.Question
	position := 0
	if order == OrderRandom {
		queue = Shuffle(r, questions)
	} else {
		queue = make([]models.Question, len(questions))
		copy(queue, questions)
		position = clamp(startOffset, 0, len(queue)-1)
	}

	return &Review{
		queue:    queue,
		position: position,
		feedback: FeedbackNone,
	}, nil
}

// Current returns the question at the cursor.
func (s *Review) Current() models.Question {
	return s.queue[s.position]
}

func (s *Review) Position() int { return s.position }

func (s *Review) Total() int { return len(s.queue) }

// Selection returns the pending option index, or nil when none is recorded.
func (s *Review) Selection() *int { return s.selection }

func (s *Review) Feedback() Feedback { return s.feedback }

// Select records the user's pending pick for the current question. Valid
// only before feedback is revealed; does not advance the cursor.
func (s *Review) Select(optionIndex int) error {
	if s.feedback != FeedbackNone {
		return ErrAlreadyChecked
	}
	if optionIndex < 0 || optionIndex >= len(s.Current().Options) {
		return ErrInvalidOption
	}
	idx := optionIndex
	s.selection = &idx
	return nil
}

// Check reveals feedback for the recorded selection. An unresolved question
// can never grade as correct.
func (s *Review) Check() error {
	if s.feedback != FeedbackNone {
		return ErrAlreadyChecked
	}
	if s.selection == nil {
		return ErrNoSelection
	}
	q := s.Current()
	if q.Resolved() && *s.selection == q.CorrectIndex {
		s.feedback = FeedbackCorrect
	} else {
		s.feedback = FeedbackIncorrect
	}
	return nil
}

// Next advances the cursor and clears selection and feedback. At the last
// position it reports the queue exhausted instead of moving; the caller then
// drops the session back to the menu.
func (s *Review) Next() (exhausted bool) {
	if s.position >= len(s.queue)-1 {
		return true
	}
	s.position++
	s.reset()
	return false
}

// Previous moves the cursor back one question, clearing selection and
// feedback. No-op at position 0.
func (s *Review) Previous() {
	if s.position == 0 {
		return
	}
	s.position--
	s.reset()
}

func (s *Review) reset() {
	s.selection = nil
	s.feedback = FeedbackNone
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
