// Package auth собирает отдельный gRPC-сервис провайдера идентификации.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/cache"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/config"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/grpc/identity"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/grpc/server"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/lib/jwt"
	authservice "github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/services/auth"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/storage/factory"
)

// App gRPC-сервер провайдера идентификации.
type App struct {
	grpcServer *grpc.Server
	listener   net.Listener
	logger     *slog.Logger
	store      factory.Store
	cache      *cache.Cache
}

// New подключает хранилище пользователей и Redis, регистрирует сервис и открывает порт.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.auth.New"
	if cfg.JWTSecretKey == "" {
		return nil, fmt.Errorf("%s: jwt_secret_key is required", op)
	}

	store, err := factory.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	revoked, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lis, err := net.Listen("tcp", cfg.ListenGRPC)
	if err != nil {
		_ = revoked.Close()
		_ = store.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.NewAuthService(store, jwtMaker, revoked)

	grpcServer := grpc.NewServer()
	identity.RegisterIdentityServiceServer(grpcServer, server.New(authService, logger))

	healthServer := health.NewServer()
	healthServer.SetServingStatus(identity.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	return &App{
		grpcServer: grpcServer,
		listener:   lis,
		logger:     logger,
		store:      store,
		cache:      revoked,
	}, nil
}

// Addr возвращает адрес, на котором слушает сервер.
func (a *App) Addr() string {
	return a.listener.Addr().String()
}

// Run обслуживает запросы до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("identity gRPC service listening on", slog.String("address", a.Addr()))
		errCh <- a.grpcServer.Serve(a.listener)
	}()

	var err error
	select {
	case <-ctx.Done():
		a.logger.Info("shutting down identity gRPC service gracefully")
		a.grpcServer.GracefulStop()
	case err = <-errCh:
	}

	return errors.Join(err, a.cache.Close(), a.store.Close())
}
