// Package inventory связывает проверку ввода, хранилище записей и классификатор сроков.
package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/apperrors"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/expiry"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/intake"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/metrics"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/models"
)

// View способ показа записей владельца.
type View string

const (
	// ViewAll все записи в порядке хранилища.
	ViewAll View = "all"
	// ViewNearExpiry записи с истечением в пределах горизонта.
	ViewNearExpiry View = "near-expiry"
	// ViewByExpiry все записи по возрастанию даты истечения.
	ViewByExpiry View = "by-expiry"
)

// ParseView разбирает имя представления. Пустая строка означает ViewAll.
func ParseView(raw string) (View, error) {
	switch View(raw) {
	case "":
		return ViewAll, nil
	case ViewAll, ViewNearExpiry, ViewByExpiry:
		return View(raw), nil
	default:
		return "", apperrors.NewValidation("view", "must be one of all, near-expiry, by-expiry")
	}
}

// EmptyMessage возвращает текст для пустого результата.
func (v View) EmptyMessage() string {
	if v == ViewNearExpiry {
		return "No products expiring within 6 months."
	}
	return "No products in inventory."
}

// RecordStore описывает хранилище записей.
type RecordStore interface {
	InsertRecord(ctx context.Context, rec models.Record) error
	SelectByOwner(ctx context.Context, owner string, maxExpiry *time.Time) ([]models.Record, error)
}

// Archiver сохраняет копию выгруженного отчета.
type Archiver interface {
	Upload(ctx context.Context, owner, view string, at time.Time, report []byte) (string, error)
}

// Service выполняет действия пользователя над его записями.
type Service struct {
	store       RecordStore
	archive     Archiver
	metrics     *metrics.Metrics
	log         *slog.Logger
	horizonDays int
	now         func() time.Time
}

// Option настраивает Service.
type Option func(*Service)

// WithArchive включает архивирование выгрузок.
func WithArchive(a Archiver) Option {
	return func(s *Service) { s.archive = a }
}

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithHorizonDays задает горизонт представления near-expiry.
func WithHorizonDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.horizonDays = days
		}
	}
}

// New создает сервис.
func New(store RecordStore, m *metrics.Metrics, log *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:       store,
		metrics:     m,
		log:         log,
		horizonDays: expiry.DefaultHorizonDays,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddRecord проверяет кандидата и сохраняет запись владельца.
// Возвращает *apperrors.ValidationError или *apperrors.StoreError; повторов нет.
func (s *Service) AddRecord(ctx context.Context, owner string, c intake.Candidate) (models.Record, error) {
	const op = "services.inventory.AddRecord"

	rec, err := intake.Validate(c, owner)
	if err != nil {
		s.metrics.RecordsAdded.WithLabelValues(metrics.ResultValidationError).Inc()
		return models.Record{}, err
	}
	if err = s.store.InsertRecord(ctx, rec); err != nil {
		s.metrics.RecordsAdded.WithLabelValues(metrics.ResultStoreError).Inc()
		return models.Record{}, apperrors.NewStore(op, err)
	}
	s.metrics.RecordsAdded.WithLabelValues(metrics.ResultOK).Inc()

	s.log.Info("record added",
		slog.String("op", op),
		slog.String("record_id", rec.ID),
		slog.String("expiry_date", rec.ExpiryDateString()))
	return rec, nil
}

// View возвращает классифицированные записи владельца в выбранном представлении.
func (s *Service) View(ctx context.Context, owner string, view View) ([]expiry.Classified, error) {
	const op = "services.inventory.View"

	now := s.now()
	var maxExpiry *time.Time
	if view == ViewNearExpiry {
		limit := expiry.HorizonLimit(now, s.horizonDays)
		maxExpiry = &limit
	}

	records, err := s.store.SelectByOwner(ctx, owner, maxExpiry)
	if err != nil {
		return nil, apperrors.NewStore(op, err)
	}

	var classified []expiry.Classified
	switch view {
	case ViewNearExpiry:
		classified = expiry.Classify(expiry.FilterNearExpiry(records, now, s.horizonDays), now)
	case ViewByExpiry:
		classified = expiry.SortByExpiry(expiry.Classify(records, now))
	default:
		classified = expiry.Classify(records, now)
	}

	s.metrics.RecordViews.WithLabelValues(string(view)).Inc()
	for _, c := range classified {
		s.metrics.StatusBuckets.WithLabelValues(string(c.Status)).Inc()
	}
	return classified, nil
}

// Export возвращает CSV-отчет для представления. Если архив включен, отчет
// также загружается в него; ошибка загрузки только логируется.
func (s *Service) Export(ctx context.Context, owner string, view View) ([]byte, error) {
	const op = "services.inventory.Export"

	classified, err := s.View(ctx, owner, view)
	if err != nil {
		return nil, err
	}
	report, err := expiry.ToTabularExport(classified)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.Exports.WithLabelValues(string(view)).Inc()

	if s.archive != nil {
		key, err := s.archive.Upload(ctx, owner, string(view), s.now(), report)
		if err != nil {
			s.metrics.ArchiveUploads.WithLabelValues("error").Inc()
			s.log.Warn("failed to archive report", slog.String("op", op), sl.Err(err))
		} else {
			s.metrics.ArchiveUploads.WithLabelValues(metrics.ResultOK).Inc()
			s.log.Debug("report archived", slog.String("op", op), slog.String("key", key))
		}
	}
	return report, nil
}
