// Package storage provides the data persistence layer for spendtrack.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"spendtrack/internal/common"
	"spendtrack/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrInvalidDateRange = errors.New("start date must be before end date")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateNewExpense checks everything that must hold before a new entry
// is persisted. All failures wrap common.ErrValidation.
func validateNewExpense(userID string, amount float64, category model.CategoryID, timestamp time.Time) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: missing user ID", common.ErrValidation)
	}
	if err := model.ValidateAmount(amount); err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	if !category.Valid() {
		return fmt.Errorf("%w: unknown category %q", common.ErrValidation, category)
	}
	if timestamp.IsZero() {
		return fmt.Errorf("%w: missing timestamp", common.ErrValidation)
	}
	return nil
}

// validateUpdate checks the fields present in a partial update.
func validateUpdate(update model.ExpenseUpdate) error {
	if err := update.Validate(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	return nil
}
