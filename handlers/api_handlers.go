// --- qamaster-server/handlers/api_handlers.go ---
package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"qamaster-server/bank"
	"qamaster-server/config"
	"qamaster-server/middleware"
	"qamaster-server/models"
	"qamaster-server/session"
	"qamaster-server/source"
)

// Login checks the submitted email against a freshly fetched allow-list and
// issues a session token on success.
// POST /api/v1/login
func Login(auth *source.Authorizer, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
			return
		}

		allowed, err := auth.Authorize(c.Request.Context(), email)
		if err != nil {
			// A list we could not fetch is not a denial; report it as such.
			log.Printf("Allow-list check failed for %s: %v", email, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "could not verify the access list, try again"})
			return
		}
		if !allowed {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "this email has no access"})
			return
		}

		token, err := middleware.IssueToken(email, cfg.Auth.JWTSigningKey, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
		if err != nil {
			log.Printf("Error issuing token for %s: %v", email, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue session token"})
			return
		}
		c.JSON(http.StatusOK, models.LoginResponse{Email: email, Token: token})
	}
}

// RefreshBank re-fetches the question source and swaps in the new bank.
// POST /api/v1/refresh
func RefreshBank(loader *source.Loader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := loader.Refresh(c.Request.Context()); err != nil {
			switch {
			case errors.Is(err, source.ErrEmptyBank):
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": source.ErrEmptyBank.Error()})
			case errors.Is(err, source.ErrSourceUnavailable):
				log.Printf("Question source refresh failed: %v", err)
				c.JSON(http.StatusBadGateway, gin.H{"error": "question source unavailable, previous bank kept"})
			default:
				log.Printf("Unexpected refresh error: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "refresh failed"})
			}
			return
		}
		b := loader.Bank()
		c.JSON(http.StatusOK, gin.H{"questions": len(b.Questions), "fetched_at": b.FetchedAt})
	}
}

// SearchQuestions filters the bank by a case-insensitive substring of the
// question text. Each hit carries only the correct option.
// GET /api/v1/questions?search=term
func SearchQuestions(loader *source.Loader) gin.HandlerFunc {
	return func(c *gin.Context) {
		term := c.Query("search")
		results := bank.Search(loader.Questions(), term)
		c.JSON(http.StatusOK, gin.H{"count": len(results), "results": results})
	}
}

// StartReviewSession opens a review session over the current bank.
// POST /api/v1/review_sessions
func StartReviewSession(loader *source.Loader, store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ReviewStartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		userEmail := c.GetString("user_email")

		id, err := store.StartReview(userEmail, loader.Questions(), session.Order(req.Order), req.StartOffset)
		if err != nil {
			if errors.Is(err, session.ErrNoQuestions) {
				c.JSON(http.StatusConflict, gin.H{"error": "no questions loaded"})
				return
			}
			log.Printf("Error starting review for %s: %v", userEmail, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start review session"})
			return
		}
		respondReviewView(c, store, id, userEmail)
	}
}

// GetReviewSession returns the current snapshot of a review session.
// GET /api/v1/review_sessions/:session_id
func GetReviewSession(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		respondReviewView(c, store, c.Param("session_id"), c.GetString("user_email"))
	}
}

// SelectReviewOption records the pending pick for the current question.
// POST /api/v1/review_sessions/:session_id/select
func SelectReviewOption(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ReviewSelectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		id, userEmail := c.Param("session_id"), c.GetString("user_email")

		err := store.WithReview(id, userEmail, func(r *session.Review) error {
			return r.Select(*req.OptionIndex)
		})
		if !respondReviewError(c, err) {
			respondReviewView(c, store, id, userEmail)
		}
	}
}

// CheckReviewAnswer reveals feedback for the recorded selection.
// POST /api/v1/review_sessions/:session_id/check
func CheckReviewAnswer(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, userEmail := c.Param("session_id"), c.GetString("user_email")

		err := store.WithReview(id, userEmail, func(r *session.Review) error {
			return r.Check()
		})
		if !respondReviewError(c, err) {
			respondReviewView(c, store, id, userEmail)
		}
	}
}

// NextReviewQuestion advances the cursor. At the end of the queue the
// session is dropped and the response reports exhaustion instead of a
// question, which is the client's cue to go back to the menu.
// POST /api/v1/review_sessions/:session_id/next
func NextReviewQuestion(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, userEmail := c.Param("session_id"), c.GetString("user_email")

		exhausted := false
		err := store.WithReview(id, userEmail, func(r *session.Review) error {
			exhausted = r.Next()
			return nil
		})
		if respondReviewError(c, err) {
			return
		}
		if exhausted {
			store.EndReview(id, userEmail)
			c.JSON(http.StatusOK, gin.H{"exhausted": true})
			return
		}
		respondReviewView(c, store, id, userEmail)
	}
}

// PreviousReviewQuestion moves the cursor back one question, a no-op at the
// first position.
// POST /api/v1/review_sessions/:session_id/previous
func PreviousReviewQuestion(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, userEmail := c.Param("session_id"), c.GetString("user_email")

		err := store.WithReview(id, userEmail, func(r *session.Review) error {
			r.Previous()
			return nil
		})
		if !respondReviewError(c, err) {
			respondReviewView(c, store, id, userEmail)
		}
	}
}

// StartExamSession draws a fresh timed exam from the current bank,
// replacing any exam the user already has running.
// POST /api/v1/exam_sessions
func StartExamSession(loader *source.Loader, store *session.Store, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userEmail := c.GetString("user_email")

		id, exam, err := store.StartExam(userEmail, loader.Questions(), cfg.Exam.QuestionCount, cfg.Exam.TimeSeconds)
		if err != nil {
			if errors.Is(err, session.ErrNoQuestions) {
				c.JSON(http.StatusConflict, gin.H{"error": "no questions loaded"})
				return
			}
			log.Printf("Error starting exam for %s: %v", userEmail, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start exam session"})
			return
		}

		views := make([]models.QuestionView, 0, len(exam.Questions()))
		for _, q := range exam.Questions() {
			views = append(views, q.View())
		}
		c.JSON(http.StatusCreated, models.ExamStartResponse{
			SessionID:        id,
			Questions:        views,
			RemainingSeconds: exam.Remaining(),
		})
	}
}

// AnswerExamQuestion upserts one answer while the exam is playing.
// POST /api/v1/exam_sessions/:session_id/answer
func AnswerExamQuestion(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ExamAnswerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		err := store.WithExam(c.Param("session_id"), c.GetString("user_email"), func(e *session.Exam) error {
			return e.Answer(req.QuestionID, *req.OptionIndex)
		})
		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{"recorded": true})
		case errors.Is(err, session.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "exam session not found"})
		case errors.Is(err, session.ErrExamNotPlaying):
			c.JSON(http.StatusConflict, gin.H{"error": "exam is already finished"})
		case errors.Is(err, session.ErrQuestionNotInSet), errors.Is(err, session.ErrInvalidOption):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record answer"})
		}
	}
}

// GetExamStatus reports progress and the countdown of an exam session.
// GET /api/v1/exam_sessions/:session_id/status
func GetExamStatus(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var status models.ExamStatusResponse
		err := store.WithExam(c.Param("session_id"), c.GetString("user_email"), func(e *session.Exam) error {
			status = models.ExamStatusResponse{
				Status:           string(e.Status()),
				AnsweredCount:    e.AnsweredCount(),
				RemainingCount:   len(e.Questions()) - e.AnsweredCount(),
				RemainingSeconds: e.Remaining(),
			}
			return nil
		})
		if errors.Is(err, session.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "exam session not found"})
			return
		}
		c.JSON(http.StatusOK, status)
	}
}

// SubmitExamSession finishes the exam, complete or not, and returns the
// score. Submitting an already finished exam just returns the score again.
// POST /api/v1/exam_sessions/:session_id/submit
func SubmitExamSession(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var result models.ExamResultResponse
		err := store.WithExam(c.Param("session_id"), c.GetString("user_email"), func(e *session.Exam) error {
			e.Submit()
			score, err := e.Score()
			if err != nil {
				return err
			}
			result = models.ExamResultResponse{Score: score, Total: len(e.Questions())}
			return nil
		})
		if err != nil {
			if errors.Is(err, session.ErrSessionNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "exam session not found"})
				return
			}
			log.Printf("Error submitting exam: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit exam"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// respondReviewView writes the session snapshot, holding the store lock
// only long enough to copy it out.
func respondReviewView(c *gin.Context, store *session.Store, id, userEmail string) {
	var view models.ReviewView
	err := store.WithReview(id, userEmail, func(r *session.Review) error {
		view = models.ReviewView{
			SessionID: id,
			Position:  r.Position(),
			Total:     r.Total(),
			Question:  r.Current().View(),
			Selection: r.Selection(),
			Feedback:  string(r.Feedback()),
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "review session not found"})
		return
	}
	c.JSON(http.StatusOK, view)
}

// respondReviewError maps review transition errors onto responses and
// reports whether one was written.
func respondReviewError(c *gin.Context, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, session.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "review session not found"})
	case errors.Is(err, session.ErrInvalidOption),
		errors.Is(err, session.ErrAlreadyChecked),
		errors.Is(err, session.ErrNoSelection):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("Review session error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "review session error"})
	}
	return true
}
