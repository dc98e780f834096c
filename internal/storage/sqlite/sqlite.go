// Package sqlite реализует хранилище записей и пользователей на встроенном SQLite
// (modernc.org/sqlite, без cgo) для запуска трекера на одной машине.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/models"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	uid           TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS expiry_tracker (
	id           TEXT PRIMARY KEY,
	product_name TEXT NOT NULL,
	quantity     INTEGER NOT NULL,
	expiry_date  TEXT NOT NULL,
	user_id      TEXT NOT NULL,
	created_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_expiry_tracker_user_expiry ON expiry_tracker (user_id, expiry_date);
`

// Storage хранит записи в одном файле SQLite.
type Storage struct {
	DB  *sql.DB
	now func() time.Time
}

// New открывает базу по dsn (путь к файлу или ":memory:") и создает схему.
func New(ctx context.Context, dsn string) (*Storage, error) {
	const op = "storage.sqlite.New"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// SQLite допускает одного писателя; для ":memory:" у каждого соединения своя база.
	db.SetMaxOpenConns(1)

	if _, err = db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: create schema: %w", op, err)
	}
	return &Storage{DB: db, now: time.Now}, nil
}

// Ping проверяет соединение с базой.
func (s *Storage) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// Close закрывает базу.
func (s *Storage) Close() error {
	return s.DB.Close()
}

// InsertRecord сохраняет новую запись.
func (s *Storage) InsertRecord(ctx context.Context, rec models.Record) error {
	const op = "storage.sqlite.InsertRecord"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO expiry_tracker (id, product_name, quantity, expiry_date, user_id, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`
	_, err := s.DB.ExecContext(ctx, query,
		rec.ID, rec.ProductName, rec.Quantity, rec.ExpiryDateString(), rec.Owner,
		s.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SelectByOwner возвращает записи владельца в порядке добавления,
// при заданном maxExpiry только с датой истечения не позже него.
func (s *Storage) SelectByOwner(ctx context.Context, owner string, maxExpiry *time.Time) ([]models.Record, error) {
	const op = "storage.sqlite.SelectByOwner"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, product_name, quantity, expiry_date, user_id, created_at
			  FROM expiry_tracker
			  WHERE user_id = ?`
	args := []any{owner}
	if maxExpiry != nil {
		query += ` AND expiry_date <= ?`
		args = append(args, maxExpiry.Format(models.DateLayout))
	}
	query += ` ORDER BY rowid`

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Record, 0)
	for rows.Next() {
		var (
			rec       models.Record
			expiry    string
			createdAt string
		)
		if err := rows.Scan(&rec.ID, &rec.ProductName, &rec.Quantity, &expiry, &rec.Owner, &createdAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if rec.ExpiryDate, err = time.Parse(models.DateLayout, expiry); err != nil {
			return nil, fmt.Errorf("%s: expiry_date %q: %w", op, expiry, err)
		}
		if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("%s: created_at %q: %w", op, createdAt, err)
		}
		result = append(result, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CreateUser сохраняет нового пользователя. Повторный email возвращает storage.ErrEmailTaken.
func (s *Storage) CreateUser(ctx context.Context, user models.User) error {
	const op = "storage.sqlite.CreateUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (uid, email, password_hash, created_at) VALUES (?, ?, ?, ?)`
	_, err := s.DB.ExecContext(ctx, query, user.UUID, user.Email, user.PasswordHash,
		s.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		var sqliteErr *sqlite.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return fmt.Errorf("%s: %w", op, storage.ErrEmailTaken)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetUserByEmail возвращает пользователя по email или storage.ErrUserNotFound.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.sqlite.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var (
		u         models.User
		createdAt string
	)
	err := s.DB.QueryRowContext(ctx,
		`SELECT uid, email, password_hash, created_at FROM users WHERE email = ?`, email).
		Scan(&u.UUID, &u.Email, &u.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if u.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("%s: created_at %q: %w", op, createdAt, err)
	}
	return &u, nil
}
