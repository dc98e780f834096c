// Package sl содержит вспомогательные атрибуты для логгера slog.
package sl

import (
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/apperrors"
)

// Err возвращает атрибут "error" с текстом ошибки. Для nil пишет пустую строку.
//
//	log.Error("failed to insert record", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// Kind возвращает атрибут "error_kind" с классом ошибки: validation, auth, store или internal.
func Kind(err error) slog.Attr {
	var (
		validationErr *apperrors.ValidationError
		authErr       *apperrors.AuthError
		storeErr      *apperrors.StoreError
	)
	switch {
	case errors.As(err, &validationErr):
		return slog.String("error_kind", "validation")
	case errors.As(err, &authErr):
		return slog.String("error_kind", "auth")
	case errors.As(err, &storeErr):
		return slog.String("error_kind", "store")
	default:
		return slog.String("error_kind", "internal")
	}
}
