package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
)

const postgresUserDataSchema = `
	CREATE TABLE IF NOT EXISTS user_data (
		user_id    TEXT        NOT NULL,
		data_key   TEXT        NOT NULL,
		data_value JSONB,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (user_id, data_key)
	)`

// undefinedTable is returned by Postgres when the user_data schema was never applied.
const undefinedTable = "42P01"

var _ domain.UserDataRepository = (*PostgresUserDataRepository)(nil)

type PostgresUserDataRepository struct {
	db *sqlx.DB
}

func NewPostgresUserDataRepository(db *sqlx.DB) *PostgresUserDataRepository {
	return &PostgresUserDataRepository{db: db}
}

func (r *PostgresUserDataRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, postgresUserDataSchema); err != nil {
		return fmt.Errorf("repository: migrate user_data failed: %w", err)
	}
	return nil
}

type userDataRow struct {
	Value     []byte    `db:"data_value"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r *PostgresUserDataRepository) Get(ctx context.Context, userID, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var row userDataRow
	query := `
		SELECT data_value, updated_at
		FROM user_data
		WHERE user_id = $1 AND data_key = $2`

	err := r.db.GetContext(ctx, &row, query, userID, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDataNotFound
		}
		return nil, mapPostgresError("get user data", err)
	}
	if row.Value == nil {
		return nil, domain.ErrDataNotFound
	}
	return row.Value, nil
}

func (r *PostgresUserDataRepository) Set(ctx context.Context, userID, key string, value []byte) error {
	if userID == "" {
		return domain.ErrInvalidUserID
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `
		INSERT INTO user_data (user_id, data_key, data_value, updated_at)
		VALUES ($1, $2, $3::jsonb, $4)
		ON CONFLICT (user_id, data_key)
		DO UPDATE SET data_value = EXCLUDED.data_value,
		              updated_at = EXCLUDED.updated_at`

	_, err := r.db.ExecContext(ctx, query, userID, key, string(value), time.Now().UTC())
	if err != nil {
		return mapPostgresError("set user data", err)
	}
	return nil
}

func mapPostgresError(op string, err error) error {
	if postgresCode(err) == undefinedTable {
		return fmt.Errorf("repository: %s: %w", op, domain.ErrStoreUnavailable)
	}
	return fmt.Errorf("repository: %s failed: %w", op, err)
}

// postgresCode extracts the SQLSTATE from either driver's error type.
func postgresCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}
