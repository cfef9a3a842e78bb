package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/oauth2"

	"spendtrack/internal/config"
	"spendtrack/internal/crypto"
	"spendtrack/internal/drive"
	"spendtrack/internal/model"
	"spendtrack/internal/service"
	"spendtrack/internal/storage"
	syncer "spendtrack/internal/sync"
)

// dataDir resolves the directory holding the database, device salt,
// OAuth token and session files.
func dataDir() string {
	dir := viper.GetString("data.dir")
	if dir == "" {
		dir = "$HOME/.local/share/spendtrack"
	}
	return config.ExpandPath(dir)
}

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = filepath.Join(dataDir(), "spendtrack.db")
	} else {
		dbPath = config.ExpandPath(dbPath)
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

func tokenFile() string {
	return filepath.Join(dataDir(), "token.json")
}

func sessionFile() string {
	return filepath.Join(dataDir(), "session.json")
}

func saltFile() string {
	return filepath.Join(dataDir(), "device-salt")
}

// session identifies the signed-in user for this installation.
type session struct {
	UserID string `json:"userId"`
}

func saveSession(userID string) error {
	if err := os.MkdirAll(dataDir(), 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	data, err := json.Marshal(session{UserID: userID})
	if err != nil {
		return err
	}
	return os.WriteFile(sessionFile(), data, 0600)
}

// currentUserID returns the signed-in user's id, or the demo sentinel
// when nobody has authenticated.
func currentUserID() string {
	data, err := os.ReadFile(sessionFile())
	if err != nil {
		return model.DemoUserID
	}
	var s session
	if err := json.Unmarshal(data, &s); err != nil || s.UserID == "" {
		return model.DemoUserID
	}
	return s.UserID
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// currentToken returns the stored OAuth token if it is still valid, or
// nil. Expiry ends the session; there is no refresh inside the sync path.
func currentToken() *oauth2.Token {
	token, err := drive.LoadToken(tokenFile())
	if err != nil {
		return nil
	}
	if !token.Valid() {
		return nil
	}
	return token
}

func retryOptions() service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  viper.GetInt("sync.retry_attempts"),
		InitialDelay: viper.GetDuration("sync.retry_delay"),
	}
}

func syncTimeout() time.Duration {
	if d := viper.GetDuration("sync.timeout"); d > 0 {
		return d
	}
	return syncer.DefaultTimeout
}

// initSyncer wires the full backup pipeline: store → cipher → Drive.
// Returns the syncer and the live access token it should be keyed by.
func initSyncer(ctx context.Context, store service.Storage) (*syncer.Syncer, string, error) {
	token := currentToken()
	if token == nil {
		return nil, "", fmt.Errorf("no authenticated session; run 'spendtrack auth' first")
	}

	cipher, err := crypto.NewPayloadCipher(saltFile())
	if err != nil {
		return nil, "", fmt.Errorf("failed to initialize cipher: %w", err)
	}
	if err := cipher.SelfTest(token.AccessToken); err != nil {
		return nil, "", fmt.Errorf("crypto self-test failed: %w", err)
	}

	client, err := drive.NewClient(ctx, drive.TokenSource(token), retryOptions())
	if err != nil {
		return nil, "", err
	}

	return syncer.New(store, client, cipher, syncTimeout()), token.AccessToken, nil
}
