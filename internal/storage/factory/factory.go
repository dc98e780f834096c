// Package factory открывает хранилище, выбранное в конфиге.
package factory

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/config"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/migrations"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/models"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/storage/postgresql"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/storage/sqlite"
)

// Store описывает общее поведение реализаций хранилища.
type Store interface {
	InsertRecord(ctx context.Context, rec models.Record) error
	SelectByOwner(ctx context.Context, owner string, maxExpiry *time.Time) ([]models.Record, error)
	CreateUser(ctx context.Context, user models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	Ping(ctx context.Context) error
	Close() error
}

// Open подключается к хранилищу. Для PostgreSQL применяет миграции из cfg.MigrationsPath.
func Open(ctx context.Context, cfg config.Storage) (Store, error) {
	const op = "storage.factory.Open"

	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := postgresql.New(ctx, cfg.ConnectionString)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return db, nil
	case config.DriverSQLite:
		db, err := sqlite.New(ctx, cfg.ConnectionString)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("%s: unknown driver %q", op, cfg.Driver)
	}
}
