package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ashureev/templog/internal/domain"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS temp_journal (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		operator TEXT NOT NULL,
		location_code TEXT NOT NULL,
		date TEXT NOT NULL,
		time TEXT NOT NULL,
		device_type TEXT NOT NULL,
		device_number INTEGER NOT NULL,
		temperature REAL NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_journal_user_date ON temp_journal(user_id, date);

	CREATE TABLE IF NOT EXISTS user_profiles (
		user_id TEXT PRIMARY KEY,
		location_code TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS mute_users (
		user_id TEXT PRIMARY KEY,
		muted_at INTEGER NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SaveReadingBatch stores all entries of a completed session in one transaction.
func (s *SQLiteStore) SaveReadingBatch(ctx context.Context, batch *domain.ReadingBatch) error {
	if len(batch.Entries) == 0 {
		return fmt.Errorf("refusing to save empty batch for user %s", batch.UserID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
	INSERT INTO temp_journal (
		user_id, operator, location_code,
		date, time, device_type,
		device_number, temperature, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	now := time.Now().Unix()
	for _, entry := range batch.Entries {
		_, err := tx.ExecContext(ctx, query,
			batch.UserID, batch.OperatorName, batch.LocationCode,
			batch.Date, batch.Time, entry.Device.SinkLabel(),
			entry.Sequence, entry.Temperature, now,
		)
		if err != nil {
			return fmt.Errorf("insert journal entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

// SaveUserLocation stores or replaces the user's sticky location choice.
func (s *SQLiteStore) SaveUserLocation(ctx context.Context, userID, locationCode string) error {
	query := `
	INSERT INTO user_profiles (user_id, location_code, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(user_id) DO UPDATE SET
		location_code = excluded.location_code,
		updated_at = excluded.updated_at`

	if _, err := s.db.ExecContext(ctx, query, userID, locationCode, time.Now().Unix()); err != nil {
		return fmt.Errorf("save user location: %w", err)
	}
	return nil
}

// GetUserLocation retrieves the user's saved location, or "" if none.
func (s *SQLiteStore) GetUserLocation(ctx context.Context, userID string) (string, error) {
	var code string
	err := s.db.QueryRowContext(ctx,
		`SELECT location_code FROM user_profiles WHERE user_id = ?`, userID,
	).Scan(&code)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get user location: %w", err)
	}
	return code, nil
}

// ListKnownUsers returns every user who has ever submitted a reading.
func (s *SQLiteStore) ListKnownUsers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT user_id FROM temp_journal`)
	if err != nil {
		return nil, fmt.Errorf("list known users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		users = append(users, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate known users: %w", err)
	}
	return users, nil
}

// SetMuted records whether a user has opted out of notifications.
func (s *SQLiteStore) SetMuted(ctx context.Context, userID string, muted bool) error {
	if muted {
		query := `
		INSERT INTO mute_users (user_id, muted_at)
		VALUES (?, ?)
		ON CONFLICT(user_id) DO NOTHING`
		if _, err := s.db.ExecContext(ctx, query, userID, time.Now().Unix()); err != nil {
			return fmt.Errorf("add to mute_users: %w", err)
		}
		return nil
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM mute_users WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("remove from mute_users: %w", err)
	}
	return nil
}

// IsMuted reports whether a user has opted out of notifications.
func (s *SQLiteStore) IsMuted(ctx context.Context, userID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM mute_users WHERE user_id = ?`, userID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check mute_users: %w", err)
	}
	return true, nil
}

// ListMuted returns every opted-out user.
func (s *SQLiteStore) ListMuted(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id FROM mute_users`)
	if err != nil {
		return nil, fmt.Errorf("list mute_users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan muted user id: %w", err)
		}
		users = append(users, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mute_users: %w", err)
	}
	return users, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
