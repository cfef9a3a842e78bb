// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"spendtrack/internal/model"
)

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Expense operations
	AddExpense(ctx context.Context, userID string, amount float64, category model.CategoryID, timestamp time.Time, notes, customCategory string) (*model.SpendEntry, error)
	UpdateExpense(ctx context.Context, id string, update model.ExpenseUpdate) (*model.SpendEntry, error)
	SoftDeleteExpense(ctx context.Context, id string) error
	HardDeleteExpense(ctx context.Context, id string) error
	GetExpenseByID(ctx context.Context, id string) (*model.SpendEntry, error)
	ListExpenses(ctx context.Context, userID string) ([]model.SpendEntry, error)
	ListExpensesByDateRange(ctx context.Context, userID string, start, end time.Time) ([]model.SpendEntry, error)
	ListExpensesByCategory(ctx context.Context, userID string, category model.CategoryID) ([]model.SpendEntry, error)
	CountExpenses(ctx context.Context, userID string) (int, error)
	// ImportExpense upserts an entry preserving its id and timestamps,
	// used when re-inserting restored backups.
	ImportExpense(ctx context.Context, entry model.SpendEntry) error

	// User operations
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// BackupMetadata describes the remote backup file without its contents.
type BackupMetadata struct {
	ModifiedTime time.Time
	Size         int64
}

// BlobStore is the remote single-file backup storage. Exactly one backup
// file exists per user; Upload always replaces in place.
type BlobStore interface {
	Upload(ctx context.Context, backup *model.EncryptedBackup) error
	// Download returns common.ErrNoBackupFound when no backup exists.
	Download(ctx context.Context) (*model.EncryptedBackup, error)
	// Delete is idempotent; deleting an absent backup is not an error.
	Delete(ctx context.Context) error
	Metadata(ctx context.Context) (*BackupMetadata, error)
}

// Cipher encrypts and decrypts JSON-serializable payloads keyed by the
// live OAuth token. Ciphertext and IV are exchanged base64 encoded.
type Cipher interface {
	Encrypt(payload any, token string) (ciphertext, iv string, err error)
	Decrypt(ciphertext, iv, token string, v any) error
}

// RetryOptions configures retry behavior for remote operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
