
package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"

	"qamaster-server/config"
	"qamaster-server/handlers"
	"qamaster-server/middleware"
	"qamaster-server/session"
	"qamaster-server/source"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	cols, err := config.LoadColumns(cfg.ColumnsPath)
	if err != nil {
		log.Fatalf("Error loading column map: %v", err)
	}
	if cfg.QuestionsURL == "" || cfg.AllowListURL == "" {
		log.Fatalf("QUESTIONS_URL and ALLOWLIST_URL must be configured")
	}

	// Wire the ingestion pipeline and session store
	fetcher := source.NewHTTPFetcher(cfg.FetchTimeout)
	loader := source.NewLoader(fetcher, cfg.QuestionsURL, cols)
	auth := source.NewAuthorizer(fetcher, cfg.AllowListURL)
	store := session.NewStore(rand.New(rand.NewSource(time.Now().UnixNano())))

	// Load the initial bank. A failure here is not fatal: the server comes
	// up empty and a later refresh can fill it.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout)
	if err := loader.Refresh(ctx); err != nil {
		log.Printf("Initial question load failed: %v", err)
	} else {
		log.Printf("Loaded %d questions", len(loader.Questions()))
	}
	cancel()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)
	// Initialize Gin router
	router := gin.Default()
	// Load HTML templates for the diagnostics view
	renderer := multitemplate.NewRenderer()
	renderer.AddFromFiles("diagnostics", "templates/layout.html", "templates/diagnostics.html")
	router.HTMLRender = renderer
	// Middleware
	router.Use(middleware.Logger())
	authMiddleware := middleware.AuthMiddleware(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer)

	// Login is the only unauthenticated route
	router.POST("/api/v1/login", handlers.Login(auth, cfg))

	// API Routes (version 1)
	apiV1 := router.Group("/api/v1")
	apiV1.Use(authMiddleware)
	{
		apiV1.GET("/questions", handlers.SearchQuestions(loader))
		apiV1.POST("/refresh", handlers.RefreshBank(loader))
		apiV1.GET("/diagnostics", handlers.Diagnostics(loader))
		apiV1.POST("/review_sessions", handlers.StartReviewSession(loader, store))
		apiV1.GET("/review_sessions/:session_id", handlers.GetReviewSession(store))
		apiV1.POST("/review_sessions/:session_id/select", handlers.SelectReviewOption(store))
		apiV1.POST("/review_sessions/:session_id/check", handlers.CheckReviewAnswer(store))
		apiV1.POST("/review_sessions/:session_id/next", handlers.NextReviewQuestion(store))
		apiV1.POST("/review_sessions/:session_id/previous", handlers.PreviousReviewQuestion(store))
		apiV1.POST("/exam_sessions", handlers.StartExamSession(loader, store, cfg))
		apiV1.POST("/exam_sessions/:session_id/answer", handlers.AnswerExamQuestion(store))
		apiV1.GET("/exam_sessions/:session_id/status", handlers.GetExamStatus(store))
		apiV1.POST("/exam_sessions/:session_id/submit", handlers.SubmitExamSession(store))
	}

	// Diagnostics HTML view
	diag := router.Group("/diag")
	diag.Use(authMiddleware)
	{
		diag.GET("/unresolved", handlers.DiagnosticsPage(loader))
	}

	// Background question-source refresh
	go func() {
		ticker := time.NewTicker(cfg.RefreshInterval)
		defer ticker.Stop()
		for range ticker.C {
			log.Println("Running scheduled question-source refresh...")
			ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout)
			if err := loader.Refresh(ctx); err != nil {
				log.Printf("Scheduled refresh failed: %v", err)
			} else {
				log.Printf("Refreshed question bank: %d questions", len(loader.Questions()))
			}
			cancel()
		}
	}()

	// Exam countdown scheduler: one tick per second for every live exam
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for range ticker.C {
			store.Tick()
		}
	}()

	// Start the server
	srv := &http.Server{
		Addr:    cfg.ServerPort,
		Handler: router,
	}
	// Goroutine to gracefully shut down the server
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()
	log.Printf("QAMASTER Server starting on %s", cfg.ServerPort)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server startup error: %v", err)
	}
	log.Println("Server exited gracefully.")
}
