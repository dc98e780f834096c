package client

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/apperrors"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/cache"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/config"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/grpc/identity"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/grpc/server"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/lib/jwt"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/services/auth"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/storage/sqlite"
)

// startServer поднимает провайдер идентификации поверх bufconn с SQLite и miniredis.
func startServer(t *testing.T) *AuthClient {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := sqlite.New(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	revoked, err := cache.InitServer(ctx, config.RedisConnection{RedisAddress: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = revoked.Close() })

	svc := auth.NewAuthService(store, jwt.NewJWTMaker("test-secret", time.Hour), revoked)

	lis := bufconn.Listen(1024 * 1024)
	grpcServer := grpc.NewServer()
	identity.RegisterIdentityServiceServer(grpcServer, server.New(svc, logger))
	go func() {
		_ = grpcServer.Serve(lis)
	}()
	t.Cleanup(grpcServer.Stop)

	c, err := NewAuthClient("passthrough:///bufnet", 5*time.Second,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestAuthClient_FullSession(t *testing.T) {
	c := startServer(t)
	ctx := context.Background()

	require.NoError(t, c.SignUp(ctx, "Owner@Pharmacy.ng", "secret123"))

	session, err := c.SignIn(ctx, "owner@pharmacy.ng", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "owner@pharmacy.ng", session.Email)
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, time.Minute)

	id, err := c.Validate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.UserID, id.UserID)
	assert.NotEmpty(t, id.TokenID)

	require.NoError(t, c.SignOut(ctx, session.Token))

	_, err = c.Validate(ctx, session.Token)
	var aErr *apperrors.AuthError
	require.ErrorAs(t, err, &aErr)
	assert.Equal(t, "session has been signed out", aErr.Reason)
}

func TestAuthClient_Errors(t *testing.T) {
	c := startServer(t)
	ctx := context.Background()

	err := c.SignUp(ctx, "owner@pharmacy.ng", "123")
	var vErr *apperrors.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "password", vErr.Field)

	require.NoError(t, c.SignUp(ctx, "owner@pharmacy.ng", "secret123"))
	err = c.SignUp(ctx, "owner@pharmacy.ng", "secret123")
	assert.Equal(t, 401, apperrors.HTTPStatus(err))

	_, err = c.SignIn(ctx, "owner@pharmacy.ng", "wrong-password")
	var aErr *apperrors.AuthError
	require.ErrorAs(t, err, &aErr)
	assert.Equal(t, "invalid login credentials", aErr.Reason)
}

func TestAuthClient_ServerDown(t *testing.T) {
	lis := bufconn.Listen(1024)
	require.NoError(t, lis.Close())

	c, err := NewAuthClient("passthrough:///bufnet", time.Second,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	_, err = c.Validate(context.Background(), "token")
	var sErr *apperrors.StoreError
	assert.ErrorAs(t, err, &sErr)
}

func TestExpiresAt(t *testing.T) {
	want := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	got, err := expiresAt(identity.SignInMethod, timestamppb.New(want))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = expiresAt(identity.ValidateMethod, nil)
	assert.Error(t, err)

	_, err = expiresAt(identity.ValidateMethod, &timestamppb.Timestamp{Seconds: 1, Nanos: -1})
	assert.Error(t, err)
}
