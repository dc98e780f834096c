// Package signout реализует HTTP-обработчик выхода из системы.
package signout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/http/response"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/lib/sl"
)

// Service отзывает токен сессии.
type Service interface {
	SignOut(ctx context.Context, token string) error
}

// Handler обрабатывает POST /signout. Требует JWTMiddleware.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Выход
// @Description Отзывает текущий токен до окончания срока его действия.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse "Токен недействителен"
// @Router /signout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.signout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token, ok := middlewarectx.TokenFromContext(r.Context())
	if !ok {
		log.Error("session token missing in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.SignOut(r.Context(), token); err != nil {
		log.Error("sign-out failed", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("signed out")
	render.JSON(w, r, response.OKWithData(map[string]any{"message": "signed out"}))
}
