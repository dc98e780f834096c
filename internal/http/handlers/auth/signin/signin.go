// Package signin реализует HTTP-обработчик входа. При успехе возвращает JWT сессии.
package signin

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/http/response"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/models"
)

// Request учетные данные пользователя.
type Request struct {
	Email    string `json:"email" validate:"required,email" example:"owner@pharmacy.ng"`
	Password string `json:"password" validate:"required" example:"secret123"`
}

// Service выполняет вход.
type Service interface {
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
}

// Handler обрабатывает POST /signin.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход пользователя
// @Description Проверяет email и пароль, возвращает JWT сессии.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Учетные данные"
// @Success 200 {object} response.Response{data=models.Session}
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /signin [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.signin"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	session, err := h.service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Info("sign-in failed", sl.Err(err), sl.Kind(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("signed in", slog.String("user_id", session.UserID))
	render.JSON(w, r, response.OKWithData(session))
}
