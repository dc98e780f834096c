// Package client реализует gRPC-клиент провайдера идентификации для HTTP-приложения.
package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/apperrors"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/grpc/identity"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/models"
)

// AuthClient вызывает удаленный провайдер идентификации.
// Ошибки сервера возвращаются в виде apperrors, как у локального сервиса.
type AuthClient struct {
	conn        *grpc.ClientConn
	callTimeout time.Duration
}

// NewAuthClient создает клиента для addr. Соединение устанавливается лениво при первом вызове.
func NewAuthClient(addr string, callTimeout time.Duration, opts ...grpc.DialOption) (*AuthClient, error) {
	const op = "grpc.client.NewAuthClient"
	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(identity.CodecName)),
	}, opts...)

	conn, err := grpc.NewClient(addr, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &AuthClient{conn: conn, callTimeout: callTimeout}, nil
}

// Close закрывает соединение.
func (a *AuthClient) Close() error {
	return a.conn.Close()
}

// SignUp регистрирует пользователя.
func (a *AuthClient) SignUp(ctx context.Context, email, password string) error {
	out := new(identity.SignUpResponse)
	return a.invoke(ctx, identity.SignUpMethod, &identity.SignUpRequest{Email: email, Password: password}, out)
}

// SignIn выполняет вход и возвращает сессию.
func (a *AuthClient) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	out := new(identity.SignInResponse)
	if err := a.invoke(ctx, identity.SignInMethod, &identity.SignInRequest{Email: email, Password: password}, out); err != nil {
		return nil, err
	}
	expires, err := expiresAt(identity.SignInMethod, out.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &models.Session{
		Token:     out.Token,
		UserID:    out.UserID,
		Email:     out.Email,
		ExpiresAt: expires,
	}, nil
}

// SignOut отзывает токен.
func (a *AuthClient) SignOut(ctx context.Context, token string) error {
	out := new(identity.SignOutResponse)
	return a.invoke(ctx, identity.SignOutMethod, &identity.SignOutRequest{Token: token}, out)
}

// Validate проверяет токен.
func (a *AuthClient) Validate(ctx context.Context, token string) (*models.Identity, error) {
	out := new(identity.ValidateResponse)
	if err := a.invoke(ctx, identity.ValidateMethod, &identity.ValidateRequest{Token: token}, out); err != nil {
		return nil, err
	}
	expires, err := expiresAt(identity.ValidateMethod, out.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &models.Identity{
		UserID:    out.UserID,
		Email:     out.Email,
		TokenID:   out.TokenID,
		ExpiresAt: expires,
	}, nil
}

// expiresAt проверяет срок действия из ответа сервера.
func expiresAt(method string, ts *timestamppb.Timestamp) (time.Time, error) {
	if err := ts.CheckValid(); err != nil {
		return time.Time{}, fmt.Errorf("%s: invalid expires_at: %w", method, err)
	}
	return ts.AsTime(), nil
}

func (a *AuthClient) invoke(ctx context.Context, method string, in, out any) error {
	if a.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.callTimeout)
		defer cancel()
	}
	if err := a.conn.Invoke(ctx, method, in, out); err != nil {
		return fromStatus(method, err)
	}
	return nil
}

// fromStatus переводит gRPC-статус обратно в ошибки приложения.
func fromStatus(method string, err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%s: %w", method, err)
	}
	switch st.Code() {
	case codes.InvalidArgument:
		field, msg, found := strings.Cut(st.Message(), ": ")
		if !found {
			return apperrors.NewValidation("", st.Message())
		}
		return apperrors.NewValidation(field, msg)
	case codes.Unauthenticated:
		return apperrors.NewAuth(st.Message(), nil)
	case codes.Unavailable, codes.DeadlineExceeded:
		return apperrors.NewStore(method, errors.New(st.Message()))
	default:
		return fmt.Errorf("%s: %w", method, err)
	}
}
