package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"festival/internal/api"
	"festival/internal/models"
	"festival/internal/realtime"
	"festival/internal/storage"
	"festival/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	// Get database config from environment
	// DB_BACKEND: "sqlite" or "turso" (auto-detects if not set)
	// For SQLite: SQLITE_PATH (defaults to "festival.db")
	// For Turso: TURSO_DATABASE_URL, TURSO_AUTH_TOKEN
	dbConfig := store.ConfigFromEnv()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	feed := realtime.NewFeed()

	s, err := store.New(dbConfig, feed)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize store")
	}
	defer s.Close()

	// Auto-create admin from environment variables if set and no users exist
	adminUsername := os.Getenv("ADMIN_USERNAME")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminUsername != "" && adminPassword != "" {
		userCount, err := s.CountUsers()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to count users")
		}
		if userCount == 0 {
			passwordHash, _ := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			admin := &models.User{
				Username:     adminUsername,
				PasswordHash: string(passwordHash),
				IsAdmin:      true,
			}
			if err := s.CreateUser(admin); err != nil {
				log.Fatal().Err(err).Msg("Failed to create admin user")
			}
			log.Info().Str("username", adminUsername).Msg("Admin user created")
		}
	}

	// Object storage is optional; without it media uploads are disabled.
	var st *storage.Storage
	storageConfig := storage.ConfigFromEnv()
	if storageConfig.Bucket != "" {
		st, err = storage.New(storageConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize object storage")
		}
	} else {
		log.Warn().Msg("Object storage not configured, media uploads disabled")
	}

	a := api.New(s, st)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to warm read caches")
	}
	defer a.Stop()

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*", "https://*.fly.dev"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Mount("/api", a.Routes())

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Info().Str("port", port).Msg("Festival server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Shutdown error")
	}
}
