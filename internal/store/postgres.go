package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"tortas-web/internal/models"

	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schemaSQL string

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, &StoreError{Op: "open", Err: fmt.Errorf("failed to open database: %w", err)}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &StoreError{Op: "open", Err: fmt.Errorf("failed to ping database: %w", err)}
	}

	return &PostgresStore{db: db}, nil
}

// RunMigrations creates the pending_dishes table if it doesn't exist.
func (s *PostgresStore) RunMigrations(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return &StoreError{Op: "migrate", Err: err}
	}
	return nil
}

func (s *PostgresStore) SavePending(ctx context.Context, p models.PendingDish) (int64, error) {
	failedAt := p.FailedAt
	if failedAt.IsZero() {
		failedAt = time.Now().UTC()
	}

	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO pending_dishes (nombre, tipo_cocina, ingredientes, precio, user_id, idempotency_key, reason, failed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		p.Dish.Name, p.Dish.CuisineType, p.Dish.Ingredients, p.Dish.Price, p.Dish.UserID,
		nullString(p.IdempotencyKey), nullString(p.Reason), failedAt,
	).Scan(&id)
	if err != nil {
		return 0, &StoreError{Op: "save", Err: err}
	}

	return id, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
