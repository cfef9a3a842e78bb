package drive

import (
	"context"
	"sync"

	"spendtrack/internal/common"
	"spendtrack/internal/model"
	"spendtrack/internal/service"
)

// MockStore is an in-memory implementation of service.BlobStore for
// testing. Hooks allow tests to inject failures or block calls.
type MockStore struct {
	UploadFunc   func(ctx context.Context, backup *model.EncryptedBackup) error
	DownloadFunc func(ctx context.Context) (*model.EncryptedBackup, error)
	backup       *model.EncryptedBackup
	UploadCount  int
	mu           sync.Mutex
}

// NewMockStore creates an empty mock blob store.
func NewMockStore() *MockStore {
	return &MockStore{}
}

// Upload implements service.BlobStore.
func (m *MockStore) Upload(ctx context.Context, backup *model.EncryptedBackup) error {
	if m.UploadFunc != nil {
		if err := m.UploadFunc(ctx, backup); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.UploadCount++
	clone := *backup
	m.backup = &clone
	return nil
}

// Download implements service.BlobStore.
func (m *MockStore) Download(ctx context.Context) (*model.EncryptedBackup, error) {
	if m.DownloadFunc != nil {
		return m.DownloadFunc(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.backup == nil {
		return nil, common.ErrNoBackupFound
	}
	clone := *m.backup
	return &clone, nil
}

// Delete implements service.BlobStore.
func (m *MockStore) Delete(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.backup = nil
	return nil
}

// Metadata implements service.BlobStore.
func (m *MockStore) Metadata(_ context.Context) (*service.BackupMetadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.backup == nil {
		return nil, common.ErrNoBackupFound
	}
	return &service.BackupMetadata{
		ModifiedTime: m.backup.Timestamp,
		Size:         int64(len(m.backup.EncryptedData)),
	}, nil
}

// Stored returns the currently stored backup, or nil.
func (m *MockStore) Stored() *model.EncryptedBackup {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.backup == nil {
		return nil
	}
	clone := *m.backup
	return &clone
}
