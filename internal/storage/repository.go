package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"budgetbot/internal/core"
	"budgetbot/internal/log"
	"budgetbot/internal/sheets"

	_ "modernc.org/sqlite"
)

var _ sheets.Table = (*SQLiteRepository)(nil)

// SQLiteRepository is an expense table backed by a local SQLite file. It
// serves as a standalone table and as the archive behind the event worker.
type SQLiteRepository struct {
	db     *sql.DB
	logger *log.Logger
}

func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = log.Default(log.ComponentStorage)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single writer avoids SQLITE_BUSY between the bot and the worker.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:     db,
		logger: logger.WithComponent(log.ComponentStorage),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Append implements sheets.ExpenseAppender. The row reference is the row id.
func (r *SQLiteRepository) Append(ctx context.Context, e core.Expense) (string, error) {
	return r.insert(ctx, sql.NullString{}, e)
}

// Archive stores an expense received as an event. Redelivered events with an
// already stored eventID are ignored, and the returned bool is false.
func (r *SQLiteRepository) Archive(ctx context.Context, eventID string, e core.Expense) (bool, error) {
	ref, err := r.insert(ctx, sql.NullString{String: eventID, Valid: eventID != ""}, e)
	if err != nil {
		return false, err
	}
	return ref != "", nil
}

func (r *SQLiteRepository) insert(ctx context.Context, eventID sql.NullString, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	row := e.Row()

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (event_id, username, category, amount, raw_text, logged_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(event_id) DO NOTHING`,
		eventID, row.User, row.Category, row.Amount, row.RawText, row.Timestamp)
	if err != nil {
		return "", fmt.Errorf("insert expense: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		r.logger.DebugContext(ctx, "Duplicate expense event ignored", "event_id", eventID.String)
		return "", nil
	}

	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("last insert id: %w", err)
	}

	r.logger.DebugContext(ctx, "Expense saved to SQLite",
		"id", id,
		log.FieldUser, row.User,
		log.FieldCategory, row.Category,
		log.FieldAmount, row.Amount)

	return strconv.FormatInt(id, 10), nil
}

// ReadRows implements sheets.RowReader, in insertion order.
func (r *SQLiteRepository) ReadRows(ctx context.Context) ([]core.Row, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT username, category, amount, raw_text, logged_at
		FROM expenses
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Row
	for rows.Next() {
		var row core.Row
		if err := rows.Scan(&row.User, &row.Category, &row.Amount, &row.RawText, &row.Timestamp); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}

// Count returns the number of stored expenses.
func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM expenses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count expenses: %w", err)
	}
	return n, nil
}
