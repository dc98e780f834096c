// Package expirytracker собирает HTTP-приложение трекера сроков годности.
package expirytracker

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/config"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/http/handlers/auth/signin"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/http/handlers/auth/signout"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/http/handlers/auth/signup"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/http/handlers/health"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/http/handlers/records/create"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/http/handlers/records/export"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/http/handlers/records/list"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/metrics"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/models"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/services/inventory"

	// Регистрация описания API для Swagger UI.
	_ "github.com/magabrotheeeer/pharmacy-expiry-tracker/docs"
)

// IdentityProvider локальный сервис аутентификации или gRPC-клиент к нему.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password string) error
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	SignOut(ctx context.Context, token string) error
	Validate(ctx context.Context, token string) (*models.Identity, error)
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(
	r chi.Router,
	logger *slog.Logger,
	identity IdentityProvider,
	inventoryService *inventory.Service,
	store health.Pinger,
	m *metrics.Metrics,
	limits config.RateLimit,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки с ограничением частоты
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger, limits.RPS, limits.Burst))
			r.Post("/signup", signup.New(logger, identity).ServeHTTP)
			r.Post("/signin", signin.New(logger, identity).ServeHTTP)
		})

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(identity, logger))
			r.Post("/signout", signout.New(logger, identity).ServeHTTP)
			r.Post("/records", create.New(logger, inventoryService).ServeHTTP)
			r.Get("/records", list.New(logger, inventoryService).ServeHTTP)
			r.Get("/records/export", export.New(logger, inventoryService).ServeHTTP)
		})
	})

	r.Method(http.MethodGet, "/health", health.New(logger, store))
	r.Handle("/metrics", m.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
