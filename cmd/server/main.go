package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/JacobChan182/NoMoreTears/internal/api"
	"github.com/JacobChan182/NoMoreTears/internal/config"
	"github.com/JacobChan182/NoMoreTears/internal/repository/memory"
	mongorepo "github.com/JacobChan182/NoMoreTears/internal/repository/mongo"
	redisrepo "github.com/JacobChan182/NoMoreTears/internal/repository/redis"
	"github.com/joho/godotenv"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file - try multiple locations
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg.Logging)

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Msg("Starting NoMoreTears API server")

	if cfg.Backboard.APIKey == "" {
		log.Warn().Msg("BACKBOARD_API_KEY is not set, chat turns will fail upstream")
	}
	if cfg.TwelveLabs.APIKey == "" || cfg.TwelveLabs.IndexID == "" {
		log.Warn().Msg("TwelveLabs credentials are not set, video indexing will fail upstream")
	}

	deps := api.Deps{}

	// Persistent storage. When Mongo is unreachable the process runs on
	// the volatile in-memory store for its whole lifetime.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
	mongoClient, err := mongorepo.NewClient(ctx, cfg.Mongo)
	cancel()
	if err != nil {
		log.Warn().Err(err).Msg("Mongo unavailable, falling back to in-memory session store (history will not survive restarts)")
		deps.Store = memory.NewChatStore()
	} else {
		defer mongoClient.Close(context.Background())
		deps.Store = mongorepo.NewChatStore(mongoClient)
		deps.Mongo = mongoClient
		deps.Lectures = mongorepo.NewLectureRepository(mongoClient)
	}

	// Redis rate limiting is optional.
	redisClient, err := redisrepo.NewClient(context.Background(), cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, chat rate limiting disabled")
	} else {
		defer redisClient.Close()
		deps.Limiter = redisrepo.NewRateLimiter(redisClient, cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	}

	router := api.NewRouter(cfg, deps)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

// setupLogger configures zerolog: rotating files when a log dir is set,
// console output otherwise.
func setupLogger(cfg config.LoggingConfig) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if level, err := zerolog.ParseLevel(cfg.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	if cfg.Dir != "" {
		writer, err := rotatelogs.New(
			filepath.Join(cfg.Dir, "server.%Y%m%d.log"),
			rotatelogs.WithLinkName(filepath.Join(cfg.Dir, "server.log")),
			rotatelogs.WithMaxAge(7*24*time.Hour),
			rotatelogs.WithRotationTime(24*time.Hour),
		)
		if err == nil {
			log.Logger = log.Output(writer)
			return
		}
		fmt.Fprintf(os.Stderr, "failed to open rotating log, using stderr: %v\n", err)
	}

	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
