// Package create реализует HTTP-обработчик добавления записи о партии.
package create

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/http/handlers/records"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/http/response"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/intake"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/models"
)

// Service сохраняет запись владельца.
type Service interface {
	AddRecord(ctx context.Context, owner string, c intake.Candidate) (models.Record, error)
}

// Handler обрабатывает POST /records.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Добавить партию
// @Description Проверяет и сохраняет запись. Дата истечения принимается в свободной форме и приводится к YYYY-MM-DD.
// @Tags Records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body intake.Candidate true "Название, количество, дата истечения"
// @Success 201 {object} response.Response{data=records.Record}
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Нет сессии"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /records [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.records.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	owner, ok := middlewarectx.OwnerFromContext(r.Context())
	if !ok {
		log.Error("owner missing in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	var req intake.Candidate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	rec, err := h.service.AddRecord(r.Context(), owner, req)
	if err != nil {
		log.Info("failed to add record", sl.Err(err), sl.Kind(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("record created", slog.String("record_id", rec.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"record":  records.FromModel(rec),
		"message": fmt.Sprintf("Added %s with expiry %s!", rec.ProductName, rec.ExpiryDateString()),
	}))
}
