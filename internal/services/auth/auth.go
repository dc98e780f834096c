// Package auth содержит провайдер идентификации: регистрацию, вход, выход и проверку сессий.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/apperrors"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/lib/jwt"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/lib/password"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/models"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/storage"
)

// MinPasswordLength минимальная длина пароля при регистрации.
const MinPasswordLength = 6

const revokedKeyPrefix = "revoked:"

// UserRepository описывает хранилище пользователей.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// RevocationStore хранит отозванные идентификаторы токенов до истечения их срока.
type RevocationStore interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Get(ctx context.Context, key string, result any) (bool, error)
}

// AuthService отвечает за регистрацию, вход и проверку JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	revoked  RevocationStore
	now      func() time.Time
}

// NewAuthService создает новый экземпляр AuthService.
// revoked может быть nil: тогда выход из системы не отзывает токен на сервере.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, revoked RevocationStore) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		revoked:  revoked,
		now:      time.Now,
	}
}

// SignUp регистрирует пользователя с хэшированным паролем.
func (s *AuthService) SignUp(ctx context.Context, email, rawPassword string) error {
	const op = "services.auth.SignUp"

	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	if len(rawPassword) < MinPasswordLength {
		return apperrors.NewValidation("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
	hashed, err := password.GetHash(rawPassword)
	if errors.Is(err, password.ErrTooLong) {
		return apperrors.NewValidation("password", fmt.Sprintf("must be at most %d bytes", password.MaxLength))
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = s.users.CreateUser(ctx, models.User{
		UUID:         uuid.NewString(),
		Email:        email,
		PasswordHash: hashed,
	})
	if errors.Is(err, storage.ErrEmailTaken) {
		return apperrors.NewAuth("user already registered", err)
	}
	if err != nil {
		return apperrors.NewStore(op, err)
	}
	return nil
}

// SignIn проверяет пароль и выдает сессию.
func (s *AuthService) SignIn(ctx context.Context, email, rawPassword string) (*models.Session, error) {
	const op = "services.auth.SignIn"

	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrUserNotFound) {
		return nil, apperrors.NewAuth("invalid login credentials", err)
	}
	if err != nil {
		return nil, apperrors.NewStore(op, err)
	}
	if err = password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, apperrors.NewAuth("invalid login credentials", err)
	}

	token, claims, err := s.jwtMaker.GenerateToken(user.UUID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &models.Session{
		Token:     token,
		UserID:    user.UUID,
		Email:     user.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// SignOut отзывает токен до окончания его срока действия.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	const op = "services.auth.SignOut"

	identity, err := s.Validate(ctx, token)
	if err != nil {
		return err
	}
	if s.revoked == nil {
		return nil
	}
	ttl := identity.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err = s.revoked.Set(ctx, revokedKeyPrefix+identity.TokenID, identity.UserID, ttl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Validate проверяет токен и возвращает личность владельца.
func (s *AuthService) Validate(ctx context.Context, token string) (*models.Identity, error) {
	const op = "services.auth.Validate"

	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperrors.NewAuth("missing token", nil)
	}
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, apperrors.NewAuth("invalid or expired token", err)
	}
	if s.revoked != nil {
		var owner string
		found, err := s.revoked.Get(ctx, revokedKeyPrefix+claims.ID, &owner)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if found {
			return nil, apperrors.NewAuth("session has been signed out", nil)
		}
	}
	return &models.Identity{
		UserID:    claims.Subject,
		Email:     claims.Email,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", apperrors.NewValidation("email", "is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", apperrors.NewValidation("email", "must be a valid email address")
	}
	return email, nil
}
