// --- qamaster-server/session/store.go ---
package session

import (
	"errors"
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"qamaster-server/models"
)

var ErrSessionNotFound = errors.New("session not found")

// Store holds the live sessions in memory, keyed by opaque id. Each identity
// owns at most one review session and one exam session; starting a new one
// replaces the old, which is what keeps a single countdown running per user.
// Sessions are exclusive state, so the store is the only concurrency
// boundary around them.
type Store struct {
	mu            sync.Mutex
	rng           *rand.Rand
	reviews       map[string]*reviewEntry
	exams         map[string]*examEntry
	reviewByOwner map[string]string
	examByOwner   map[string]string
}

type reviewEntry struct {
	owner string
	sess  *Review
}

type examEntry struct {
	owner string
	sess  *Exam
}

// NewStore builds an empty session store around the given random source.
func NewStore(rng *rand.Rand) *Store {
	return &Store{
		rng:           rng,
		reviews:       map[string]*reviewEntry{},
		exams:         map[string]*examEntry{},
		reviewByOwner: map[string]string{},
		examByOwner:   map[string]string{},
	}
}

// StartReview opens a review session for owner, replacing any existing one.
func (s *Store) StartReview(owner string, questions []models.Question, order Order, startOffset int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := StartReview(questions, order, startOffset, s.rng)
	if err != nil {
		return "", err
	}

	if old, ok := s.reviewByOwner[owner]; ok {
		delete(s.reviews, old)
	}
	id := uuid.NewString()
	s.reviews[id] = &reviewEntry{owner: owner, sess: sess}
	s.reviewByOwner[owner] = id
	return id, nil
}

// WithReview runs fn against the owner's review session under the store
// lock. An unknown id and an id owned by someone else are indistinguishable
// to the caller.
func (s *Store) WithReview(id, owner string, fn func(*Review) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.reviews[id]
	if !ok || e.owner != owner {
		return ErrSessionNotFound
	}
	return fn(e.sess)
}

// EndReview drops a review session, e.g. once its queue is exhausted.
func (s *Store) EndReview(id, owner string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.reviews[id]
	if !ok || e.owner != owner {
		return
	}
	delete(s.reviews, id)
	delete(s.reviewByOwner, e.owner)
}

// StartExam opens an exam session for owner, replacing any existing one. The
// replaced session leaves the tick loop with it, so its countdown stops.
func (s *Store) StartExam(owner string, questions []models.Question, size, budgetSeconds int) (string, *Exam, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := StartExam(questions, size, budgetSeconds, s.rng)
	if err != nil {
		return "", nil, err
	}

	if old, ok := s.examByOwner[owner]; ok {
		delete(s.exams, old)
	}
	id := uuid.NewString()
	s.exams[id] = &examEntry{owner: owner, sess: sess}
	s.examByOwner[owner] = id
	return id, sess, nil
}

// WithExam runs fn against the owner's exam session under the store lock.
func (s *Store) WithExam(id, owner string, fn func(*Exam) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.exams[id]
	if !ok || e.owner != owner {
		return ErrSessionNotFound
	}
	return fn(e.sess)
}

// Tick advances every playing exam countdown by one second. Driven by a
// single scheduler goroutine; finished exams ignore the tick.
func (s *Store) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.exams {
		e.sess.Tick()
	}
}
