// Package sync orchestrates the encrypted backup flow: local store →
// payload cipher → remote blob storage, and the reverse restore path.
// It is a full-snapshot, last-writer-wins model: every sync re-uploads
// the entire current expense set.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"spendtrack/internal/common"
	"spendtrack/internal/model"
	"spendtrack/internal/service"
)

// DefaultTimeout bounds each remote sync or restore operation so a stuck
// request cannot leave the state machine in progress forever.
const DefaultTimeout = 30 * time.Second

// Syncer drives backup and restore against the remote blob store. The
// in-progress flag is the only mutual exclusion in the system; it guards
// exactly one resource, the user's remote backup file.
type Syncer struct {
	store   service.Storage
	blob    service.BlobStore
	cipher  service.Cipher
	timeout time.Duration
	state   model.SyncState
	mu      sync.Mutex
}

// New creates a Syncer. A non-positive timeout falls back to
// DefaultTimeout.
func New(store service.Storage, blob service.BlobStore, cipher service.Cipher, timeout time.Duration) *Syncer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Syncer{
		store:   store,
		blob:    blob,
		cipher:  cipher,
		timeout: timeout,
	}
}

// State returns a snapshot of the current sync state.
func (s *Syncer) State() model.SyncState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SyncNow encrypts the user's full non-deleted entry set and uploads it,
// replacing whatever is remote. A second call while one is in flight is a
// logged no-op, as is a call without an authenticated token. A failed
// sync is not retried; the next call starts from scratch.
func (s *Syncer) SyncNow(ctx context.Context, userID, token string) error {
	if token == "" {
		slog.Info("No authenticated session, skipping sync")
		return nil
	}

	s.mu.Lock()
	if s.state.SyncInProgress {
		s.mu.Unlock()
		slog.Info("Sync already in progress, skipping", "user_id", userID)
		return nil
	}
	s.state.UserID = userID
	s.state.SyncInProgress = true
	s.mu.Unlock()

	err := s.doSync(ctx, userID, token)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SyncInProgress = false
	if err != nil {
		s.state.LastSyncSuccess = false
		s.state.LastError = err.Error()
		common.LogError(err, "Sync failed", common.Fields{"user_id": userID})
		return err
	}

	s.state.LastSyncSuccess = true
	s.state.LastSyncTimestamp = time.Now().UTC()
	s.state.LastError = ""
	s.state.PendingChanges = 0
	slog.Info("Sync completed", "user_id", userID)
	return nil
}

func (s *Syncer) doSync(ctx context.Context, userID, token string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	entries, err := s.store.ListExpenses(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to read expenses: %w", err)
	}
	if entries == nil {
		entries = []model.SpendEntry{}
	}

	payload := model.BackupPayload{
		UserID:  userID,
		Entries: entries,
	}

	ciphertext, iv, err := s.cipher.Encrypt(payload, token)
	if err != nil {
		return fmt.Errorf("failed to encrypt backup: %w", err)
	}

	backup := &model.EncryptedBackup{
		Version:       model.BackupVersion,
		EncryptedData: ciphertext,
		IV:            iv,
		Timestamp:     time.Now().UTC(),
		UserID:        userID,
	}

	if err := s.blob.Upload(ctx, backup); err != nil {
		return fmt.Errorf("failed to upload backup: %w", err)
	}

	slog.Debug("Uploaded backup", "user_id", userID, "entries", len(entries))
	return nil
}

// Restore downloads and decrypts the user's backup and returns its entry
// set for local re-insertion. The store is not mutated here. A backup
// whose embedded owner differs from userID aborts with
// common.ErrOwnershipMismatch; a missing backup surfaces as
// common.ErrNoBackupFound.
func (s *Syncer) Restore(ctx context.Context, userID, token string) ([]model.SpendEntry, error) {
	if token == "" {
		return nil, common.NewUserError("sign in before restoring a backup", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	backup, err := s.blob.Download(ctx)
	if err != nil {
		if errors.Is(err, common.ErrNoBackupFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to download backup: %w", err)
	}

	if backup.UserID != userID {
		return nil, fmt.Errorf("%w: backup owner %s, requester %s",
			common.ErrOwnershipMismatch, backup.UserID, userID)
	}

	var payload model.BackupPayload
	if err := s.cipher.Decrypt(backup.EncryptedData, backup.IV, token, &payload); err != nil {
		return nil, fmt.Errorf("failed to decrypt backup: %w", err)
	}

	// The ciphertext is bound to the owner too; check both layers.
	if payload.UserID != userID {
		return nil, fmt.Errorf("%w: payload owner %s, requester %s",
			common.ErrOwnershipMismatch, payload.UserID, userID)
	}

	slog.Info("Backup restored", "user_id", userID, "entries", len(payload.Entries))
	return payload.Entries, nil
}

// DeleteBackup removes the remote backup file. Idempotent.
func (s *Syncer) DeleteBackup(ctx context.Context, token string) error {
	if token == "" {
		return common.NewUserError("sign in before deleting a backup", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.blob.Delete(ctx)
}

// BackupMetadata fetches the remote backup's modified time and size
// without downloading it.
func (s *Syncer) BackupMetadata(ctx context.Context) (*service.BackupMetadata, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.blob.Metadata(ctx)
}
