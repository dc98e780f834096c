// Package export реализует выгрузку отчета о сроках годности в CSV.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/expiry"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/http/response"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/services/inventory"
)

// Service строит CSV-отчет.
type Service interface {
	Export(ctx context.Context, owner string, view inventory.View) ([]byte, error)
}

// Handler обрабатывает GET /records/export.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Скачать отчет NAFDAC
// @Description CSV с колонками product_name, quantity, expiry_date, status для выбранного представления.
// @Tags Records
// @Produce text/csv
// @Security BearerAuth
// @Param view query string false "all | near-expiry | by-expiry" default(all)
// @Success 200 {file} file
// @Failure 401 {object} response.ErrorResponse "Нет сессии"
// @Failure 422 {object} response.ErrorResponse "Неизвестное представление"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /records/export [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.records.export"

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

	report, err := h.service.Export(r.Context(), owner, view)
	if err != nil {
		log.Error("failed to build report", sl.Err(err), sl.Kind(err))
		response.RenderError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", expiry.ContentType+"; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", expiry.ReportFileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(report)))
	w.WriteHeader(http.StatusOK)
	if _, err = w.Write(report); err != nil {
		log.Error("failed to write report", sl.Err(err))
		return
	}
	log.Info("report exported", slog.String("view", string(view)), slog.Int("bytes", len(report)))
}
