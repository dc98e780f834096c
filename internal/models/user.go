package models

import "time"

// User представляет зарегистрированного пользователя (аптеку).
type User struct {
	UUID         string    // Уникальный идентификатор пользователя, используется как владелец записей
	Email        string    // Электронная почта, уникальна
	PasswordHash string    // bcrypt-хэш пароля
	CreatedAt    time.Time // Дата регистрации
}

// Identity проверенная личность, извлеченная из токена.
type Identity struct {
	UserID    string
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

// Session результат успешного входа.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}
