// Package model defines the core domain types for spendtrack.
package model

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidAmount is returned when an expense amount is not a positive
// finite number.
var ErrInvalidAmount = errors.New("amount must be a positive finite number")

// SpendEntry represents a single logged expense.
type SpendEntry struct {
	Timestamp      time.Time  `json:"timestamp"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	ID             string     `json:"id"`
	UserID         string     `json:"userId"`
	Category       CategoryID `json:"category"`
	CustomCategory string     `json:"customCategory,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	Amount         float64    `json:"amount"`
	Deleted        bool       `json:"deleted,omitempty"`
}

// Validate checks the entry's business invariants before persistence.
func (e *SpendEntry) Validate() error {
	if err := ValidateAmount(e.Amount); err != nil {
		return err
	}
	if e.UserID == "" {
		return errors.New("missing user ID")
	}
	if e.Timestamp.IsZero() {
		return errors.New("missing timestamp")
	}
	return nil
}

// ValidateAmount rejects non-positive and non-finite amounts.
func ValidateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidAmount, amount)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidAmount, amount)
	}
	return nil
}

// ExpenseUpdate describes a partial update to an expense. Only the fields
// listed here may change; id, userId and createdAt are immutable and cannot
// be expressed at all. A nil field is left untouched.
type ExpenseUpdate struct {
	Amount         *float64
	Category       *CategoryID
	CustomCategory *string
	Notes          *string
	Timestamp      *time.Time
	Deleted        *bool
}

// IsEmpty reports whether the update changes nothing.
func (u *ExpenseUpdate) IsEmpty() bool {
	return u.Amount == nil &&
		u.Category == nil &&
		u.CustomCategory == nil &&
		u.Notes == nil &&
		u.Timestamp == nil &&
		u.Deleted == nil
}

// Validate checks the fields that are present.
func (u *ExpenseUpdate) Validate() error {
	if u.Amount != nil {
		if err := ValidateAmount(*u.Amount); err != nil {
			return err
		}
	}
	if u.Category != nil && !u.Category.Valid() {
		return fmt.Errorf("unknown category: %s", *u.Category)
	}
	return nil
}
