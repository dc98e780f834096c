// Package expiry реализует классификацию партий по срочности истечения срока годности,
// фильтр по горизонту, сортировку и табличный экспорт.
//
// Все функции чистые: не хранят состояние между вызовами, не изменяют входные данные
// и безопасны для одновременного использования.
package expiry

import (
	"sort"
	"time"

	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/models"
)

// Status корзина срочности.
type Status string

const (
	// StatusUrgent меньше 30 дней до истечения (включая уже просроченные).
	StatusUrgent Status = "URGENT"
	// StatusWarning от 30 до 90 дней.
	StatusWarning Status = "WARNING"
	// StatusSafe 90 дней и больше.
	StatusSafe Status = "SAFE"
)

const (
	urgentBelowDays  = 30
	warningBelowDays = 90

	// DefaultHorizonDays горизонт выборки "0-6 месяцев".
	DefaultHorizonDays = 180
)

const day = 24 * time.Hour

// Label возвращает подпись статуса для отображения пользователю.
func (s Status) Label() string {
	switch s {
	case StatusUrgent:
		return "Urgent: <1 month"
	case StatusWarning:
		return "Warning: 1-3 months"
	case StatusSafe:
		return "Safe: >3 months"
	default:
		return string(s)
	}
}

// Valid сообщает, является ли s одной из известных корзин.
func (s Status) Valid() bool {
	return s == StatusUrgent || s == StatusWarning || s == StatusSafe
}

// Classified запись с производными полями, вычисленными относительно момента now.
type Classified struct {
	models.Record
	DaysToExpiry int
	Status       Status
}

// StatusFor возвращает корзину для количества дней до истечения.
// Границы 30 и 90 относятся к следующей корзине.
func StatusFor(daysToExpiry int) Status {
	switch {
	case daysToExpiry < urgentBelowDays:
		return StatusUrgent
	case daysToExpiry < warningBelowDays:
		return StatusWarning
	default:
		return StatusSafe
	}
}

// DaysToExpiry возвращает целое число дней (с округлением вниз) от now до начала даты истечения.
// Показания часов now переносятся в UTC, переходы на летнее время на счет не влияют.
func DaysToExpiry(expiryDate, now time.Time) int {
	clock := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), time.UTC)
	diff := civilDate(expiryDate).Sub(clock)
	days := int(diff / day)
	if diff%day < 0 {
		days--
	}
	return days
}

// Classify дополняет каждую запись количеством дней до истечения и статусом.
// Порядок записей сохраняется, пустой вход дает пустой результат.
func Classify(records []models.Record, now time.Time) []Classified {
	result := make([]Classified, 0, len(records))
	for _, rec := range records {
		days := DaysToExpiry(rec.ExpiryDate, now)
		result = append(result, Classified{
			Record:       rec,
			DaysToExpiry: days,
			Status:       StatusFor(days),
		})
	}
	return result
}

// HorizonLimit возвращает последнюю календарную дату (полночь UTC), попадающую в горизонт.
func HorizonLimit(now time.Time, horizonDays int) time.Time {
	limit := now.AddDate(0, 0, horizonDays)
	return time.Date(limit.Year(), limit.Month(), limit.Day(), 0, 0, 0, 0, time.UTC)
}

// FilterNearExpiry оставляет записи с датой истечения не позже now + horizonDays включительно.
// Уже просроченные записи не исключаются.
func FilterNearExpiry(records []models.Record, now time.Time, horizonDays int) []models.Record {
	limit := HorizonLimit(now, horizonDays)
	result := make([]models.Record, 0, len(records))
	for _, rec := range records {
		if !civilDate(rec.ExpiryDate).After(limit) {
			result = append(result, rec)
		}
	}
	return result
}

// SortByExpiry возвращает новый срез, устойчиво отсортированный по возрастанию даты истечения.
func SortByExpiry(records []Classified) []Classified {
	sorted := make([]Classified, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return civilDate(sorted[i].ExpiryDate).Before(civilDate(sorted[j].ExpiryDate))
	})
	return sorted
}

func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
