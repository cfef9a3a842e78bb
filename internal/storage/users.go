package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"spendtrack/internal/common"
	"spendtrack/internal/model"
)

// SaveUser inserts or updates a user profile. CreatedAt is preserved on
// update; UpdatedAt is always refreshed.
func (s *SQLiteStorage) SaveUser(ctx context.Context, user *model.User) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: user", common.ErrValidation)
	}
	if err := validateString(user.ID, "user.ID"); err != nil {
		return err
	}

	now := time.Now().UTC()
	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (
			id, name, email, profile_pic_url,
			theme, currency, date_format, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			profile_pic_url = excluded.profile_pic_url,
			theme = excluded.theme,
			currency = excluded.currency,
			date_format = excluded.date_format,
			updated_at = excluded.updated_at
	`,
		user.ID,
		user.Name,
		user.Email,
		user.ProfilePicURL,
		user.Preferences.Theme,
		user.Preferences.Currency,
		user.Preferences.DateFormat,
		createdAt,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	user.CreatedAt = createdAt
	user.UpdatedAt = now
	return nil
}

// GetUser retrieves a user profile by id.
func (s *SQLiteStorage) GetUser(ctx context.Context, id string) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var user model.User
	var picURL sql.NullString

	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, profile_pic_url,
		       theme, currency, date_format, created_at, updated_at
		FROM users
		WHERE id = ?
	`, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&picURL,
		&user.Preferences.Theme,
		&user.Preferences.Currency,
		&user.Preferences.DateFormat,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if picURL.Valid {
		user.ProfilePicURL = picURL.String
	}

	return &user, nil
}
