package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"spendtrack/internal/common"
	"spendtrack/internal/model"
)

// AddExpense validates and persists a new expense, allocating its id and
// audit timestamps. The stored record is returned.
func (s *SQLiteStorage) AddExpense(ctx context.Context, userID string, amount float64, category model.CategoryID, timestamp time.Time, notes, customCategory string) (*model.SpendEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateNewExpense(userID, amount, category, timestamp); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry := &model.SpendEntry{
		ID:             uuid.NewString(),
		UserID:         userID,
		Amount:         amount,
		Category:       category,
		CustomCategory: customCategory,
		Notes:          notes,
		Timestamp:      timestamp,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (
			id, user_id, amount, category, custom_category,
			notes, timestamp, created_at, updated_at, deleted
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0)
	`,
		entry.ID,
		entry.UserID,
		entry.Amount,
		string(entry.Category),
		entry.CustomCategory,
		entry.Notes,
		entry.Timestamp,
		entry.CreatedAt,
		entry.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert expense: %w", err)
	}

	return entry, nil
}

// UpdateExpense merges the given partial update into an existing expense.
// id, userId and createdAt are not representable in ExpenseUpdate, so they
// cannot change. Returns common.ErrNotFound for an unknown id.
func (s *SQLiteStorage) UpdateExpense(ctx context.Context, id string, update model.ExpenseUpdate) (*model.SpendEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	if err := validateUpdate(update); err != nil {
		return nil, err
	}

	setClauses := make([]string, 0, 7)
	args := make([]any, 0, 8)

	if update.Amount != nil {
		setClauses = append(setClauses, "amount = ?")
		args = append(args, *update.Amount)
	}
	if update.Category != nil {
		setClauses = append(setClauses, "category = ?")
		args = append(args, string(*update.Category))
	}
	if update.CustomCategory != nil {
		setClauses = append(setClauses, "custom_category = ?")
		args = append(args, *update.CustomCategory)
	}
	if update.Notes != nil {
		setClauses = append(setClauses, "notes = ?")
		args = append(args, *update.Notes)
	}
	if update.Timestamp != nil {
		setClauses = append(setClauses, "timestamp = ?")
		args = append(args, *update.Timestamp)
	}
	if update.Deleted != nil {
		setClauses = append(setClauses, "deleted = ?")
		args = append(args, *update.Deleted)
	}

	setClauses = append(setClauses, "updated_at = ?")
	args = append(args, time.Now().UTC())
	args = append(args, id)

	query := fmt.Sprintf("UPDATE expenses SET %s WHERE id = ?", strings.Join(setClauses, ", "))

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("expense %s: %w", id, common.ErrNotFound)
	}

	return s.GetExpenseByID(ctx, id)
}

// SoftDeleteExpense marks an expense deleted. The record stays retrievable
// by GetExpenseByID but disappears from every listing and aggregation.
func (s *SQLiteStorage) SoftDeleteExpense(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE expenses SET deleted = 1, updated_at = ? WHERE id = ?
	`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to soft delete expense: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense %s: %w", id, common.ErrNotFound)
	}

	return nil
}

// HardDeleteExpense physically removes an expense. Deleting an absent id
// is not an error.
func (s *SQLiteStorage) HardDeleteExpense(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to hard delete expense: %w", err)
	}

	return nil
}

// GetExpenseByID retrieves a single expense by id, including soft-deleted
// records.
func (s *SQLiteStorage) GetExpenseByID(ctx context.Context, id string) (*model.SpendEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, amount, category, custom_category,
		       notes, timestamp, created_at, updated_at, deleted
		FROM expenses
		WHERE id = ?
	`, id)

	entry, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return entry, nil
}

// ListExpenses returns all non-deleted expenses for a user. Ordering is
// the caller's responsibility.
func (s *SQLiteStorage) ListExpenses(ctx context.Context, userID string) ([]model.SpendEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, amount, category, custom_category,
		       notes, timestamp, created_at, updated_at, deleted
		FROM expenses
		WHERE user_id = ? AND deleted = 0
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanExpenses(rows)
}

// ListExpensesByDateRange returns non-deleted expenses whose timestamp
// falls within [start, end] inclusive.
func (s *SQLiteStorage) ListExpensesByDateRange(ctx context.Context, userID string, start, end time.Time) ([]model.SpendEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date %v is before start date %v", ErrInvalidDateRange, end, start)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, amount, category, custom_category,
		       notes, timestamp, created_at, updated_at, deleted
		FROM expenses
		WHERE user_id = ? AND deleted = 0 AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC
	`, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses by date range: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanExpenses(rows)
}

// ListExpensesByCategory returns non-deleted expenses matching a category,
// scoped to the user.
func (s *SQLiteStorage) ListExpensesByCategory(ctx context.Context, userID string, category model.CategoryID) ([]model.SpendEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, amount, category, custom_category,
		       notes, timestamp, created_at, updated_at, deleted
		FROM expenses
		WHERE user_id = ? AND category = ? AND deleted = 0
		ORDER BY timestamp DESC
	`, userID, string(category))
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses by category: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanExpenses(rows)
}

// CountExpenses returns the number of non-deleted expenses for a user.
func (s *SQLiteStorage) CountExpenses(ctx context.Context, userID string) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return 0, err
	}

	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM expenses WHERE user_id = ? AND deleted = 0
	`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	return count, nil
}

// ImportExpense upserts a fully-formed entry, keeping its id and audit
// timestamps exactly as given. Used when re-inserting a restored backup;
// an entry already present locally is overwritten with the backup copy.
func (s *SQLiteStorage) ImportExpense(ctx context.Context, entry model.SpendEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(entry.ID, "id"); err != nil {
		return err
	}
	if err := validateNewExpense(entry.UserID, entry.Amount, entry.Category, entry.Timestamp); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (
			id, user_id, amount, category, custom_category,
			notes, timestamp, created_at, updated_at, deleted
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			amount = excluded.amount,
			category = excluded.category,
			custom_category = excluded.custom_category,
			notes = excluded.notes,
			timestamp = excluded.timestamp,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			deleted = excluded.deleted
	`,
		entry.ID,
		entry.UserID,
		entry.Amount,
		string(entry.Category),
		entry.CustomCategory,
		entry.Notes,
		entry.Timestamp,
		entry.CreatedAt,
		entry.UpdatedAt,
		entry.Deleted,
	)
	if err != nil {
		return fmt.Errorf("failed to import expense: %w", err)
	}

	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*model.SpendEntry, error) {
	var entry model.SpendEntry
	var category string
	var customCategory sql.NullString
	var notes sql.NullString

	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Amount,
		&category,
		&customCategory,
		&notes,
		&entry.Timestamp,
		&entry.CreatedAt,
		&entry.UpdatedAt,
		&entry.Deleted,
	)
	if err != nil {
		return nil, err
	}

	entry.Category = model.CategoryID(category)
	if customCategory.Valid {
		entry.CustomCategory = customCategory.String
	}
	if notes.Valid {
		entry.Notes = notes.String
	}

	return &entry, nil
}

func scanExpenses(rows *sql.Rows) ([]model.SpendEntry, error) {
	var entries []model.SpendEntry
	for rows.Next() {
		entry, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}
