package model

import "time"

// BackupVersion tags the EncryptedBackup schema.
const BackupVersion = "2.0.0"

// SyncState is the session-scoped status of the backup machinery. It is
// never persisted to the local store.
type SyncState struct {
	LastSyncTimestamp time.Time `json:"lastSyncTimestamp"`
	UserID            string    `json:"userId"`
	LastError         string    `json:"lastError,omitempty"`
	// PendingChanges is reserved for delta tracking; nothing increments
	// it today and a successful sync resets it to zero.
	PendingChanges  int  `json:"pendingChanges"`
	LastSyncSuccess bool `json:"lastSyncSuccess"`
	SyncInProgress  bool `json:"syncInProgress"`
}

// EncryptedBackup is the wire shape of the single per-user backup file.
// Ciphertext and IV are base64 encoded.
type EncryptedBackup struct {
	Version       string    `json:"version"`
	EncryptedData string    `json:"encryptedData"`
	IV            string    `json:"iv"`
	Timestamp     time.Time `json:"timestamp"`
	UserID        string    `json:"userId"`
}

// BackupPayload is what actually gets encrypted: the owner id plus the
// full non-deleted entry set. The embedded UserID is what restore checks
// against the requesting user.
type BackupPayload struct {
	UserID  string       `json:"userId"`
	Entries []SpendEntry `json:"entries"`
}

// SyncConflict models a local/remote divergence for a single entry. The
// shape is reserved for a future multi-device merge; no code path
// produces or consumes it yet.
type SyncConflict struct {
	DetectedAt    time.Time  `json:"detectedAt"`
	ID            string     `json:"id"`
	EntryID       string     `json:"entryId"`
	LocalVersion  SpendEntry `json:"localVersion"`
	RemoteVersion SpendEntry `json:"remoteVersion"`
	Resolved      bool       `json:"resolved"`
}

// CategorySummary is one row of a category breakdown.
type CategorySummary struct {
	Category CategoryID `json:"category"`
	Total    float64    `json:"total"`
	Count    int        `json:"count"`
}

// TrendPoint is one day of spending within a trend window. Date is a
// YYYY-MM-DD string so points sort lexicographically.
type TrendPoint struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}
