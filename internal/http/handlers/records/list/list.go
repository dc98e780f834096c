// Package list реализует HTTP-обработчик просмотра записей владельца.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/expiry"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/http/handlers/records"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/http/response"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/services/inventory"
)

// Service возвращает классифицированные записи.
type Service interface {
	View(ctx context.Context, owner string, view inventory.View) ([]expiry.Classified, error)
}

// Result тело успешного ответа.
type Result struct {
	View    string               `json:"view" example:"near-expiry"`
	Records []records.Classified `json:"records"`
	Message string               `json:"message,omitempty" example:"No products expiring within 6 months."`
}

// Handler обрабатывает GET /records.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список партий
// @Description Возвращает записи владельца со статусом срочности: все, в пределах 6 месяцев или по дате истечения.
// @Tags Records
// @Produce json
// @Security BearerAuth
// @Param view query string false "all | near-expiry | by-expiry" default(all)
// @Success 200 {object} response.Response{data=Result}
// @Failure 401 {object} response.ErrorResponse "Нет сессии"
// @Failure 422 {object} response.ErrorResponse "Неизвестное представление"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /records [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.records.list"

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

	view, err := inventory.ParseView(r.URL.Query().Get("view"))
	if err != nil {
		log.Info("invalid view", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	classified, err := h.service.View(r.Context(), owner, view)
	if err != nil {
		log.Error("failed to load records", sl.Err(err), sl.Kind(err))
		response.RenderError(w, r, err)
		return
	}

	result := Result{
		View:    string(view),
		Records: records.FromClassified(classified),
	}
	if len(result.Records) == 0 {
		result.Message = view.EmptyMessage()
	}

	log.Debug("records listed", slog.String("view", string(view)), slog.Int("count", len(result.Records)))
	render.JSON(w, r, response.OKWithData(result))
}
