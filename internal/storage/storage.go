// Package storage объединяет общие ошибки хранилищ записей и пользователей.
// Реализации лежат в подпакетах postgresql и sqlite.
package storage

import "errors"

var (
	// ErrEmailTaken пользователь с таким email уже зарегистрирован.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUserNotFound пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
)

// RecordsTable имя таблицы с записями о сроках годности.
const RecordsTable = "expiry_tracker"
