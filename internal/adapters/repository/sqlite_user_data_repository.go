package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
)

const sqliteUserDataSchema = `
CREATE TABLE IF NOT EXISTS user_data (
	user_id    TEXT NOT NULL,
	data_key   TEXT NOT NULL,
	data_value TEXT,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (user_id, data_key)
);`

var _ domain.UserDataRepository = (*SQLiteUserDataRepository)(nil)

// SQLiteUserDataRepository is the on-device store. It is always written
// first in hybrid mode so the tracker keeps working offline.
type SQLiteUserDataRepository struct {
	db *sqlx.DB
}

func OpenSQLite(path string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	return db, nil
}

func NewSQLiteUserDataRepository(db *sqlx.DB) (*SQLiteUserDataRepository, error) {
	if _, err := db.Exec(sqliteUserDataSchema); err != nil {
		return nil, fmt.Errorf("create user_data table: %w", err)
	}
	return &SQLiteUserDataRepository{db: db}, nil
}

func (r *SQLiteUserDataRepository) Get(ctx context.Context, userID, key string) ([]byte, error) {
	var value sql.NullString
	err := r.db.GetContext(ctx, &value,
		`SELECT data_value FROM user_data WHERE user_id = ? AND data_key = ?`, userID, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDataNotFound
		}
		return nil, fmt.Errorf("repository: sqlite get failed: %w", err)
	}
	if !value.Valid {
		return nil, domain.ErrDataNotFound
	}
	return []byte(value.String), nil
}

func (r *SQLiteUserDataRepository) Set(ctx context.Context, userID, key string, value []byte) error {
	if userID == "" {
		return domain.ErrInvalidUserID
	}

	query := `
		INSERT INTO user_data (user_id, data_key, data_value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, data_key)
		DO UPDATE SET data_value = excluded.data_value, updated_at = excluded.updated_at`

	_, err := r.db.ExecContext(ctx, query, userID, key, string(value), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("repository: sqlite set failed: %w", err)
	}
	return nil
}
