package signout

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

	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/http/middlewarectx"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) SignOut(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func TestHandler_ServeHTTP(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("revokes the session token", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("SignOut", mock.Anything, "jwt").Return(nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/signout", nil)
		req = req.WithContext(context.WithValue(req.Context(), middlewarectx.TokenKey, "jwt"))
		rr := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		svc.AssertExpectations(t)
	})

	t.Run("no token in context", func(t *testing.T) {
		svc := new(ServiceMock)
		rr := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/signout", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		svc.AssertNotCalled(t, "SignOut", mock.Anything, mock.Anything)
	})

	t.Run("revocation store failure", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("SignOut", mock.Anything, "jwt").Return(errors.New("redis: connection refused")).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/signout", nil)
		req = req.WithContext(context.WithValue(req.Context(), middlewarectx.TokenKey, "jwt"))
		rr := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
