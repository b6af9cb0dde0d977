package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"

	"algorace/internal/api/handler"
	"algorace/internal/app/service"
	"algorace/internal/common/security"
)

func NewRouter(
	authService *service.AuthService,
	userService *service.UserService,
	problemService *service.ProblemService,
	solvedService *service.SolvedService,
	statsService *service.StatsService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger) // Chi's logger
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// The frontend is served from a different origin.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Verifies token, puts claims in context. Searches "Authorization: Bearer T".
	r.Use(jwtauth.Verifier(security.TokenAuth))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		// Session routes (public)
		authHandler := handler.NewAuthHandler(authService)
		v1.Group(func(publicAuth chi.Router) {
			authHandler.RegisterRoutes(publicAuth)
		})

		// Problem routes (authenticated; posting is admin-only)
		problemHandler := handler.NewProblemHandler(problemService, solvedService)
		v1.Route("/problems", problemHandler.RegisterRoutes)

		// Solved-marker routes (authenticated)
		solvedHandler := handler.NewSolvedHandler(solvedService)
		v1.Route("/solved", solvedHandler.RegisterRoutes)

		// Stats routes (authenticated)
		statsHandler := handler.NewStatsHandler(statsService)
		v1.Route("/stats", statsHandler.RegisterRoutes)

		// Profile routes (authenticated)
		userHandler := handler.NewUserHandler(userService)
		v1.Route("/users", userHandler.RegisterRoutes)

		// Admin routes (admin role)
		adminHandler := handler.NewAdminHandler(userService, statsService)
		v1.Route("/admin", adminHandler.RegisterRoutes)
	})

	return r
}
