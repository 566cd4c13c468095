package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/jwtauth/v5"

	"codeclash/internal/api/handler"
	"codeclash/internal/common/security"
)

func NewRouter(
	tokens *security.Tokens,
	authHandler *handler.AuthHandler,
	contestHandler *handler.ContestHandler,
	adminHandler *handler.AdminHandler,
) http.Handler {
	r := chi.NewRouter()

	logger := httplog.NewLogger("codeclash", httplog.Options{
		LogLevel:         slog.LevelInfo,
		Concise:          true,
		MessageFieldName: "message",
	})

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(chiMiddleware.Recoverer)
	// Bounds a full submit pass: every test case is one blocking round trip
	// to the execution service, so the budget is the sum of per-case
	// timeouts, not a single call's.
	r.Use(chiMiddleware.Timeout(5 * time.Minute))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
	}))

	// Puts verified claims in context; enforcement happens per route group.
	r.Use(jwtauth.Verifier(tokens.Auth()))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler.RegisterRoutes(v1)
		contestHandler.RegisterRoutes(v1)
		v1.Route("/admin", adminHandler.RegisterRoutes)
	})

	return r
}
