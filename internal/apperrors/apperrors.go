// Package apperrors описывает таксономию ошибок приложения:
// ошибки валидации входных данных, ошибки хранилища и ошибки аутентификации.
// Все ошибки терминальны для действия пользователя, автоматических повторов нет.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError некорректные входные данные, пользователь может их исправить.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// StoreError хранилище недоступно или отклонило запрос. Пользователь может повторить действие.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: store failure: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// AuthError учетные данные или токен отклонены.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return e.Reason
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// NewValidation создает ValidationError для поля.
func NewValidation(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

// NewStore оборачивает ошибку хранилища.
func NewStore(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

// NewAuth создает AuthError с причиной, понятной пользователю.
func NewAuth(reason string, err error) *AuthError {
	return &AuthError{Reason: reason, Err: err}
}

// HTTPStatus возвращает HTTP-статус для ошибки из таксономии.
func HTTPStatus(err error) int {
	var (
		vErr *ValidationError
		sErr *StoreError
		aErr *AuthError
	)
	switch {
	case errors.As(err, &vErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &aErr):
		return http.StatusUnauthorized
	case errors.As(err, &sErr):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Message возвращает текст ошибки, безопасный для показа пользователю.
func Message(err error) string {
	var (
		vErr *ValidationError
		sErr *StoreError
		aErr *AuthError
	)
	switch {
	case errors.As(err, &vErr):
		return vErr.Error()
	case errors.As(err, &aErr):
		return aErr.Reason
	case errors.As(err, &sErr):
		return "record store is unavailable, please try again"
	default:
		return "internal error"
	}
}
