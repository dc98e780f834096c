package expirytracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/archive"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/cache"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/config"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/grpc/client"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/lib/jwt"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/metrics"
	authservice "github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/services/auth"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/services/inventory"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/storage/factory"
)

const shutdownTimeout = 15 * time.Second

// App HTTP-сервер трекера и его зависимости.
type App struct {
	server  *http.Server
	logger  *slog.Logger
	store   factory.Store
	closers []io.Closer
}

// New подключает хранилище, провайдер идентификации и архив отчетов и собирает роутер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.expirytracker.New"

	store, err := factory.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	app := &App{logger: logger, store: store}

	identity, err := app.identityProvider(ctx, cfg)
	if err != nil {
		_ = app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m := metrics.New()
	opts := []inventory.Option{inventory.WithHorizonDays(cfg.HorizonDays)}
	if cfg.ArchiveEnabled() {
		reports, err := archive.New(ctx, cfg.ReportArchive)
		if err != nil {
			_ = app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		opts = append(opts, inventory.WithArchive(reports))
		logger.Info("report archive enabled", slog.String("bucket", cfg.Bucket))
	}
	inventoryService := inventory.New(store, m, logger, opts...)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, identity, inventoryService, store, m, cfg.RateLimit)

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

// identityProvider выбирает удаленный провайдер, если задан его адрес, иначе локальный сервис.
func (a *App) identityProvider(ctx context.Context, cfg *config.Config) (IdentityProvider, error) {
	if cfg.GRPCAddress != "" {
		authClient, err := client.NewAuthClient(cfg.GRPCAddress, cfg.CallTimeout)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, authClient)
		a.logger.Info("using remote identity provider", slog.String("address", cfg.GRPCAddress))
		return authClient, nil
	}

	revoked, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, revoked)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	return authservice.NewAuthService(a.store, jwtMaker, revoked), nil
}

// Handler возвращает корневой обработчик приложения.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run обслуживает HTTP до отмены ctx, затем плавно останавливает сервер.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err = a.server.Shutdown(timeoutCtx)
	}

	if closeErr := a.close(); closeErr != nil {
		a.logger.Error("failed to release resources", sl.Err(closeErr))
	}
	return err
}

func (a *App) close() error {
	errs := make([]error, 0, len(a.closers)+1)
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	errs = append(errs, a.store.Close())
	return errors.Join(errs...)
}
