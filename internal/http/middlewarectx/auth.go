// Package middlewarectx содержит HTTP middleware трекера.
//
// JWTMiddleware проверяет токен из заголовка Authorization через провайдер идентификации
// и кладет личность владельца в контекст запроса. Обработчики получают владельца
// только из контекста и передают его в сервис явно.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/http/response"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// IdentityKey ключ для *models.Identity в контексте.
	IdentityKey Key = "identity"
	// TokenKey ключ для исходного токена сессии.
	TokenKey Key = "token"
)

// Validator проверяет токен сессии.
type Validator interface {
	Validate(ctx context.Context, token string) (*models.Identity, error)
}

// JWTMiddleware возвращает middleware, пропускающий только запросы с действующей сессией.
func JWTMiddleware(identity Validator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Info("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

			id, err := identity.Validate(r.Context(), token)
			if err != nil {
				log.Info("token rejected", sl.Err(err))
				response.RenderError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), IdentityKey, id)
			ctx = context.WithValue(ctx, TokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext возвращает личность, положенную JWTMiddleware.
func IdentityFromContext(ctx context.Context) (*models.Identity, bool) {
	id, ok := ctx.Value(IdentityKey).(*models.Identity)
	return id, ok && id != nil && id.UserID != ""
}

// OwnerFromContext возвращает идентификатор владельца записей.
func OwnerFromContext(ctx context.Context) (string, bool) {
	id, ok := IdentityFromContext(ctx)
	if !ok {
		return "", false
	}
	return id.UserID, true
}

// TokenFromContext возвращает токен текущей сессии.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	return token, ok && token != ""
}
