// Package server реализует gRPC-сервер провайдера идентификации.
//
// Server принимает запросы регистрации, входа, выхода и проверки токена,
// делегирует их сервису аутентификации и переводит ошибки в gRPC-статусы.
package server

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/apperrors"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/grpc/identity"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/models"
)

// Provider описывает операции провайдера идентификации.
type Provider interface {
	SignUp(ctx context.Context, email, password string) error
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	SignOut(ctx context.Context, token string) error
	Validate(ctx context.Context, token string) (*models.Identity, error)
}

// Server реализует identity.IdentityServiceServer.
type Server struct {
	provider Provider
	log      *slog.Logger
}

// New создает Server.
func New(provider Provider, logger *slog.Logger) *Server {
	return &Server{provider: provider, log: logger}
}

// SignUp регистрирует пользователя.
func (s *Server) SignUp(ctx context.Context, req *identity.SignUpRequest) (*identity.SignUpResponse, error) {
	if err := s.provider.SignUp(ctx, req.Email, req.Password); err != nil {
		return nil, s.toStatus("SignUp", err)
	}
	s.log.Info("user signed up")
	return &identity.SignUpResponse{Success: true, Message: "user created successfully"}, nil
}

// SignIn проверяет пароль и выдает сессию.
func (s *Server) SignIn(ctx context.Context, req *identity.SignInRequest) (*identity.SignInResponse, error) {
	session, err := s.provider.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus("SignIn", err)
	}
	return &identity.SignInResponse{
		Token:     session.Token,
		UserID:    session.UserID,
		Email:     session.Email,
		ExpiresAt: timestamppb.New(session.ExpiresAt),
	}, nil
}

// SignOut отзывает токен.
func (s *Server) SignOut(ctx context.Context, req *identity.SignOutRequest) (*identity.SignOutResponse, error) {
	if err := s.provider.SignOut(ctx, req.Token); err != nil {
		return nil, s.toStatus("SignOut", err)
	}
	return &identity.SignOutResponse{Success: true}, nil
}

// Validate проверяет токен и возвращает личность.
func (s *Server) Validate(ctx context.Context, req *identity.ValidateRequest) (*identity.ValidateResponse, error) {
	id, err := s.provider.Validate(ctx, req.Token)
	if err != nil {
		return nil, s.toStatus("Validate", err)
	}
	return &identity.ValidateResponse{
		UserID:    id.UserID,
		Email:     id.Email,
		TokenID:   id.TokenID,
		ExpiresAt: timestamppb.New(id.ExpiresAt),
	}, nil
}

// toStatus переводит ошибку в gRPC-статус. Сообщения ошибок валидации и
// аутентификации передаются клиенту как есть, остальные скрываются.
func (s *Server) toStatus(method string, err error) error {
	var (
		vErr *apperrors.ValidationError
		aErr *apperrors.AuthError
		sErr *apperrors.StoreError
	)
	switch {
	case errors.As(err, &vErr):
		return status.Error(codes.InvalidArgument, vErr.Error())
	case errors.As(err, &aErr):
		s.log.Info("request rejected", slog.String("method", method), slog.String("reason", aErr.Reason))
		return status.Error(codes.Unauthenticated, aErr.Reason)
	case errors.As(err, &sErr):
		s.log.Error("store failure", slog.String("method", method), sl.Err(err))
		return status.Error(codes.Unavailable, "user store is unavailable")
	default:
		s.log.Error("internal error", slog.String("method", method), sl.Err(err))
		return status.Error(codes.Internal, "internal error")
	}
}
