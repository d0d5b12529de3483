// --- qamaster-server/session/exam.go ---
package session

import (
	"errors"
	"math/rand"

	"qamaster-server/models"
)

// ExamStatus is the one-directional lifecycle of a timed exam.
type ExamStatus string

const (
	// StatusIntro is the pre-start screen. No stored exam is ever in it:
	// clients render it whenever they hold no exam session, and StartExam
	// creates sessions already playing.
	StatusIntro    ExamStatus = "intro"
	StatusPlaying  ExamStatus = "playing"
	StatusFinished ExamStatus = "finished"
)

var (
	ErrExamNotPlaying   = errors.New("exam is not playing")
	ErrExamNotFinished  = errors.New("exam is not finished")
	ErrQuestionNotInSet = errors.New("question is not part of this exam")
)

// Exam is the timed mock-exam session: a fixed random question set picked at
// start, an answer map keyed by question id, and a countdown that
// auto-submits at zero. All questions are presented at once; there is no
// cursor to advance.
type Exam struct {
	questions []models.Question
	byID      map[int]models.Question
	answers   map[int]int
	remaining int
	status    ExamStatus
}

// StartExam selects min(size, len(questions)) questions via shuffle-then-take
// and opens a playing session with a full time budget. A finished exam is
// never resumed; callers start a brand-new session, which discards all prior
// answers and draws a fresh random set.
func StartExam(questions []models.Question, size, budgetSeconds int, r *rand.Rand) (*Exam, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	if size > len(questions) {
		size = len(questions)
	}
	picked := Shuffle(r, questions)[:size]

	byID := make(map[int]models.Question, len(picked))
	for _, q := range picked {
		byID[q.ID] = q
	}

	return &Exam{
		questions: picked,
		byID:      byID,
		answers:   make(map[int]int),
		remaining: budgetSeconds,
		status:    StatusPlaying,
	}, nil
}

// Questions returns the fixed question set in presentation order.
func (e *Exam) Questions() []models.Question { return e.questions }

func (e *Exam) Status() ExamStatus { return e.status }

func (e *Exam) Remaining() int { return e.remaining }

func (e *Exam) AnsweredCount() int { return len(e.answers) }

// Answer upserts the chosen option for a question. Allowed only while
// playing; answering again overwrites, absent entries stay "unanswered".
func (e *Exam) Answer(questionID, optionIndex int) error {
	if e.status != StatusPlaying {
		return ErrExamNotPlaying
	}
	q, ok := e.byID[questionID]
	if !ok {
		return ErrQuestionNotInSet
	}
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return ErrInvalidOption
	}
	e.answers[questionID] = optionIndex
	return nil
}

// Tick decrements the countdown by one second. The scheduler calls it once
// per elapsed second while the exam is playing; hitting zero auto-submits.
func (e *Exam) Tick() {
	if e.status != StatusPlaying {
		return
	}
	e.remaining--
	if e.remaining <= 0 {
		e.remaining = 0
		e.Submit()
	}
}

// Submit finishes the exam regardless of completeness and stops the
// countdown. Idempotent: submitting a finished exam changes nothing.
func (e *Exam) Submit() {
	if e.status != StatusPlaying {
		return
	}
	e.status = StatusFinished
}

// Score counts, over the question set, the answers matching the resolved
// correct index. Valid only once finished. Unanswered questions and
// questions with an unresolved key never count.
func (e *Exam) Score() (int, error) {
	if e.status != StatusFinished {
		return 0, ErrExamNotFinished
	}
	score := 0
	for _, q := range e.questions {
		if !q.Resolved() {
			continue
		}
		if chosen, ok := e.answers[q.ID]; ok && chosen == q.CorrectIndex {
			score++
		}
	}
	return score, nil
}
