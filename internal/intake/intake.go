// Package intake проверяет кандидата в записи перед передачей в хранилище:
// непустое название, количество не меньше единицы и дата, которую удается разобрать.
// Дата приводится к каноническому виду YYYY-MM-DD независимо от формата ввода.
package intake

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/apperrors"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/models"
)

// Candidate данные новой записи в том виде, в котором их ввел пользователь.
type Candidate struct {
	ProductName string `json:"product_name" validate:"required,max=200"`
	Quantity    int    `json:"quantity" validate:"gte=1"`
	ExpiryDate  string `json:"expiry_date" validate:"required"`
}

var validate = validator.New()

// Validate проверяет кандидата и возвращает запись, готовую к сохранению.
// Идентификатор записи генерируется здесь. Любое нарушение возвращается как *apperrors.ValidationError.
func Validate(c Candidate, owner string) (models.Record, error) {
	if strings.TrimSpace(owner) == "" {
		return models.Record{}, apperrors.NewValidation("owner", "must not be empty")
	}

	c.ProductName = strings.TrimSpace(c.ProductName)
	c.ExpiryDate = strings.TrimSpace(c.ExpiryDate)

	if err := validate.Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return models.Record{}, fieldError(errs[0])
		}
		return models.Record{}, apperrors.NewValidation("", err.Error())
	}

	expiry, err := NormalizeDate(c.ExpiryDate)
	if err != nil {
		return models.Record{}, err
	}

	return models.Record{
		ID:          uuid.NewString(),
		ProductName: c.ProductName,
		Quantity:    c.Quantity,
		ExpiryDate:  expiry,
		Owner:       owner,
	}, nil
}

// NormalizeDate разбирает дату в одном из распространенных текстовых форматов
// и возвращает календарную дату (полночь UTC).
func NormalizeDate(raw string) (time.Time, error) {
	parsed, err := dateparse.ParseIn(strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return time.Time{}, apperrors.NewValidation("expiry_date", "invalid date format, use YYYY-MM-DD")
	}
	return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), nil
}

func fieldError(fe validator.FieldError) *apperrors.ValidationError {
	field := jsonName(fe.Field())
	switch fe.Tag() {
	case "required":
		return apperrors.NewValidation(field, "is a required field")
	case "gte":
		return apperrors.NewValidation(field, "must be at least "+fe.Param())
	case "max":
		return apperrors.NewValidation(field, "must be at most "+fe.Param()+" characters")
	default:
		return apperrors.NewValidation(field, "is not valid")
	}
}

func jsonName(field string) string {
	switch field {
	case "ProductName":
		return "product_name"
	case "Quantity":
		return "quantity"
	case "ExpiryDate":
		return "expiry_date"
	default:
		return field
	}
}
