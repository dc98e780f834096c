package middlewarectx_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/apperrors"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/models"
)

// Мок провайдера идентификации
type IdentityMock struct {
	mock.Mock
}

func (m *IdentityMock) Validate(ctx context.Context, token string) (*models.Identity, error) {
	args := m.Called(ctx, token)
	id, _ := args.Get(0).(*models.Identity)
	return id, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestJWTMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		authHeader     string
		mockID         *models.Identity
		mockErr        error
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "missing Authorization header",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "invalid Authorization header prefix",
			authHeader:     "Basic sometoken",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "token rejected",
			authHeader:     "Bearer token",
			mockErr:        apperrors.NewAuth("invalid or expired token", nil),
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "identity provider unreachable",
			authHeader:     "Bearer token",
			mockErr:        apperrors.NewStore("grpc", errors.New("unavailable")),
			wantStatusCode: http.StatusServiceUnavailable,
		},
		{
			name:           "valid token",
			authHeader:     "Bearer token",
			mockID:         &models.Identity{UserID: "user-1", Email: "owner@pharmacy.ng", TokenID: "jti"},
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity := new(IdentityMock)
			if tt.mockID != nil || tt.mockErr != nil {
				identity.On("Validate", mock.Anything, "token").Return(tt.mockID, tt.mockErr).Once()
			}

			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				owner, ok := middlewarectx.OwnerFromContext(r.Context())
				assert.True(t, ok)
				assert.Equal(t, "user-1", owner)
				token, ok := middlewarectx.TokenFromContext(r.Context())
				assert.True(t, ok)
				assert.Equal(t, "token", token)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/records", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			middlewarectx.JWTMiddleware(identity, newNoopLogger())(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatusCode, rr.Code)
			assert.Equal(t, tt.wantCalled, called)
			identity.AssertExpectations(t)
		})
	}
}

func TestOwnerFromContext_Missing(t *testing.T) {
	_, ok := middlewarectx.OwnerFromContext(context.Background())
	assert.False(t, ok)

	ctx := context.WithValue(context.Background(), middlewarectx.IdentityKey, &models.Identity{})
	_, ok = middlewarectx.OwnerFromContext(ctx)
	assert.False(t, ok)
}
