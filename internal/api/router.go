package api

import (
	"net/http"

	"github.com/JacobChan182/NoMoreTears/internal/api/handler"
	custommw "github.com/JacobChan182/NoMoreTears/internal/api/middleware"
	"github.com/JacobChan182/NoMoreTears/internal/backboard"
	"github.com/JacobChan182/NoMoreTears/internal/config"
	"github.com/JacobChan182/NoMoreTears/internal/domain"
	mongorepo "github.com/JacobChan182/NoMoreTears/internal/repository/mongo"
	"github.com/JacobChan182/NoMoreTears/internal/repository/redis"
	"github.com/JacobChan182/NoMoreTears/internal/routing"
	"github.com/JacobChan182/NoMoreTears/internal/service"
	"github.com/JacobChan182/NoMoreTears/internal/twelvelabs"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Deps carries the optional backends the router is wired with. Mongo and
// Lectures are nil when persistent storage is unavailable, Limiter when
// Redis is.
type Deps struct {
	Store    domain.ChatStore
	Mongo    *mongorepo.Client
	Lectures domain.LectureRepository
	Limiter  *redis.RateLimiter
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, deps Deps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommw.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// External clients
	assistantClient := backboard.NewClient(cfg.Backboard)
	videoClient := twelvelabs.NewClient(cfg.TwelveLabs)

	// Services
	router := routing.NewRouter(cfg.Routing)
	chatService := service.NewChatService(deps.Store, assistantClient, router)
	videoService := service.NewVideoService(videoClient)

	var quizService *service.QuizService
	if deps.Lectures != nil {
		quizService = service.NewQuizService(deps.Lectures, cfg.Gemini)
	}

	// Handlers
	chatHandler := handler.NewChatHandler(chatService)
	sessionHandler := handler.NewSessionHandler(chatService)
	videoHandler := handler.NewVideoHandler(videoService)
	quizHandler := handler.NewQuizHandler(quizService)

	// typed-nil guard: a nil *mongorepo.Client must stay a nil Pinger
	var storage handler.Pinger
	if deps.Mongo != nil {
		storage = deps.Mongo
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)
		r.Get("/health/ready", handler.Readiness(storage))
		r.Get("/providers", handler.ListProviders(router))

		r.Route("/backboard", func(r chi.Router) {
			r.With(custommw.RateLimit(deps.Limiter)).Post("/chat", chatHandler.Chat)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", sessionHandler.List)
			r.Post("/", sessionHandler.Create)
			r.Delete("/{sessionID}", sessionHandler.Delete)
			r.Get("/{sessionID}/messages", sessionHandler.Messages)
		})

		r.Route("/videos", func(r chi.Router) {
			r.Post("/index", videoHandler.Index)
			r.Get("/tasks/{taskID}", videoHandler.TaskStatus)
		})

		r.Get("/quiz/{lectureID}", quizHandler.Generate)
	})

	return r
}
