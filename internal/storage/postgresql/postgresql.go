// Package postgresql реализует хранилище записей о сроках годности и пользователей
// на PostgreSQL через database/sql и драйвер pgx.
package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/models"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/storage"
)

// Storage инкапсулирует соединение с PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New открывает пул соединений и проверяет доступность базы.
func New(ctx context.Context, connectionString string) (*Storage, error) {
	const op = "storage.postgresql.New"

	db, err := sql.Open("pgx", connectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Storage{DB: db}, nil
}

// Ping проверяет соединение с базой.
func (s *Storage) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// Close закрывает пул соединений.
func (s *Storage) Close() error {
	return s.DB.Close()
}

// ===== RECORD METHODS =====

// InsertRecord сохраняет новую запись.
func (s *Storage) InsertRecord(ctx context.Context, rec models.Record) error {
	const op = "storage.postgresql.InsertRecord"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO expiry_tracker (id, product_name, quantity, expiry_date, user_id)
			  VALUES ($1, $2, $3, $4, $5)`
	_, err := s.DB.ExecContext(ctx, query,
		rec.ID, rec.ProductName, rec.Quantity, rec.ExpiryDateString(), rec.Owner)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SelectByOwner возвращает записи владельца в порядке добавления.
// Если maxExpiry задан, остаются только записи с датой истечения не позже него.
func (s *Storage) SelectByOwner(ctx context.Context, owner string, maxExpiry *time.Time) ([]models.Record, error) {
	const op = "storage.postgresql.SelectByOwner"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var limit *string
	if maxExpiry != nil {
		v := maxExpiry.Format(models.DateLayout)
		limit = &v
	}

	query := `SELECT id, product_name, quantity, expiry_date, user_id, created_at
			  FROM expiry_tracker
			  WHERE user_id = $1
			    AND ($2::date IS NULL OR expiry_date <= $2::date)
			  ORDER BY seq`
	rows, err := s.DB.QueryContext(ctx, query, owner, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Record, 0)
	for rows.Next() {
		var rec models.Record
		if err := rows.Scan(&rec.ID, &rec.ProductName, &rec.Quantity, &rec.ExpiryDate,
			&rec.Owner, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		rec.ExpiryDate = time.Date(rec.ExpiryDate.Year(), rec.ExpiryDate.Month(), rec.ExpiryDate.Day(), 0, 0, 0, 0, time.UTC)
		result = append(result, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ===== USER METHODS =====

// CreateUser сохраняет нового пользователя. Повторный email возвращает storage.ErrEmailTaken.
func (s *Storage) CreateUser(ctx context.Context, user models.User) error {
	const op = "storage.postgresql.CreateUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (uid, email, password_hash)
			  VALUES ($1, $2, $3)`
	_, err := s.DB.ExecContext(ctx, query, user.UUID, user.Email, user.PasswordHash)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%s: %w", op, storage.ErrEmailTaken)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetUserByEmail возвращает пользователя по email или storage.ErrUserNotFound.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.postgresql.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, password_hash, created_at
			  FROM users
			  WHERE email = $1`
	u := &models.User{}
	err := s.DB.QueryRowContext(ctx, query, email).
		Scan(&u.UUID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}
