package session

import (
	"errors"
	"math/rand"
	"testing"
)

func newTestStore() *Store {
	return NewStore(rand.New(rand.NewSource(1)))
}

func TestStoreOwnership(t *testing.T) {
	s := newTestStore()
	qs := sampleQuestions(5)

	id, err := s.StartReview("alice@example.com", qs, OrderSequential, 0)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.WithReview(id, "alice@example.com", func(r *Review) error { return nil }); err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}
	if err := s.WithReview(id, "bob@example.com", func(r *Review) error { return nil }); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("foreign lookup should be indistinguishable from missing, got %v", err)
	}
	if err := s.WithReview("nope", "alice@example.com", func(r *Review) error { return nil }); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("unknown id should not resolve, got %v", err)
	}
}

func TestStoreReplacesExamPerOwner(t *testing.T) {
	s := newTestStore()
	qs := sampleQuestions(30)

	firstID, _, err := s.StartExam("alice@example.com", qs, 10, 1800)
	if err != nil {
		t.Fatal(err)
	}
	secondID, _, err := s.StartExam("alice@example.com", qs, 10, 1800)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.WithExam(firstID, "alice@example.com", func(e *Exam) error { return nil }); !errors.Is(err, ErrSessionNotFound) {
		t.Fatal("replaced exam session should be gone")
	}
	if err := s.WithExam(secondID, "alice@example.com", func(e *Exam) error { return nil }); err != nil {
		t.Fatalf("new exam session missing: %v", err)
	}
}

func TestStoreTickReachesOnlyLiveExams(t *testing.T) {
	s := newTestStore()
	qs := sampleQuestions(5)

	_, first, err := s.StartExam("alice@example.com", qs, 5, 100)
	if err != nil {
		t.Fatal(err)
	}
	id, second, err := s.StartExam("bob@example.com", qs, 5, 100)
	if err != nil {
		t.Fatal(err)
	}

	// Replace alice's exam; the dropped one must stop counting down.
	_, replacement, err := s.StartExam("alice@example.com", qs, 5, 100)
	if err != nil {
		t.Fatal(err)
	}

	s.Tick()
	s.Tick()

	if first.Remaining() != 100 {
		t.Fatalf("replaced exam still ticking: %d", first.Remaining())
	}
	if second.Remaining() != 98 || replacement.Remaining() != 98 {
		t.Fatalf("live exams at %d and %d, want 98", second.Remaining(), replacement.Remaining())
	}

	// A finished exam stays in the store for scoring but ignores ticks.
	if err := s.WithExam(id, "bob@example.com", func(e *Exam) error {
		e.Submit()
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	s.Tick()
	if second.Remaining() != 98 {
		t.Fatalf("finished exam ticked down to %d", second.Remaining())
	}
}

func TestStoreEndReview(t *testing.T) {
	s := newTestStore()
	id, err := s.StartReview("alice@example.com", sampleQuestions(2), OrderRandom, 0)
	if err != nil {
		t.Fatal(err)
	}

	s.EndReview(id, "bob@example.com") // foreign end is a no-op
	if err := s.WithReview(id, "alice@example.com", func(r *Review) error { return nil }); err != nil {
		t.Fatal("foreign EndReview removed the session")
	}

	s.EndReview(id, "alice@example.com")
	if err := s.WithReview(id, "alice@example.com", func(r *Review) error { return nil }); !errors.Is(err, ErrSessionNotFound) {
		t.Fatal("session should be gone after EndReview")
	}
}
