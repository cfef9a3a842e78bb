// Package drive implements the remote backup storage on Google Drive's
// application data folder. Exactly one backup file exists per user;
// uploads always replace it in place.
package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"spendtrack/internal/common"
	"spendtrack/internal/model"
	"spendtrack/internal/service"
)

// BackupFilename is the fixed name of the single backup file within the
// app-scoped Drive folder.
const BackupFilename = "spendtrack-backup.json"

const appDataFolder = "appDataFolder"

// Client is a Drive-backed implementation of service.BlobStore.
type Client struct {
	svc   *drive.Service
	retry service.RetryOptions
}

// NewClient builds a Drive client from an OAuth token source.
func NewClient(ctx context.Context, ts oauth2.TokenSource, retry service.RetryOptions) (*Client, error) {
	svc, err := drive.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create drive service: %v", common.ErrRemoteUnavailable, err)
	}
	return &Client{svc: svc, retry: retry}, nil
}

// findBackupFile locates the backup file id, or returns "" when no backup
// exists yet.
func (c *Client) findBackupFile(ctx context.Context) (string, error) {
	var list *drive.FileList

	err := common.WithRetry(ctx, func() error {
		var apiErr error
		list, apiErr = c.svc.Files.List().
			Spaces(appDataFolder).
			Q(fmt.Sprintf("name = '%s'", BackupFilename)).
			Fields("files(id)").
			Context(ctx).
			Do()
		return apiErr
	}, c.retry)
	if err != nil {
		return "", fmt.Errorf("%w: failed to search for backup file: %v", common.ErrRemoteUnavailable, err)
	}

	if len(list.Files) == 0 {
		return "", nil
	}
	return list.Files[0].Id, nil
}

// Upload writes the encrypted backup as the single per-user backup file,
// overwriting any existing one (find-or-create by fixed name).
func (c *Client) Upload(ctx context.Context, backup *model.EncryptedBackup) error {
	body, err := json.Marshal(backup)
	if err != nil {
		return fmt.Errorf("failed to serialize backup: %w", err)
	}

	fileID, err := c.findBackupFile(ctx)
	if err != nil {
		return err
	}

	if fileID != "" {
		err = common.WithRetry(ctx, func() error {
			_, apiErr := c.svc.Files.Update(fileID, &drive.File{}).
				Media(bytes.NewReader(body)).
				Context(ctx).
				Do()
			return apiErr
		}, c.retry)
		if err != nil {
			return fmt.Errorf("%w: failed to update backup file: %v", common.ErrRemoteUnavailable, err)
		}
		slog.Debug("Updated remote backup", "file_id", fileID, "bytes", len(body))
		return nil
	}

	err = common.WithRetry(ctx, func() error {
		_, apiErr := c.svc.Files.Create(&drive.File{
			Name:     BackupFilename,
			Parents:  []string{appDataFolder},
			MimeType: "application/json",
		}).
			Media(bytes.NewReader(body)).
			Context(ctx).
			Do()
		return apiErr
	}, c.retry)
	if err != nil {
		return fmt.Errorf("%w: failed to create backup file: %v", common.ErrRemoteUnavailable, err)
	}

	slog.Debug("Created remote backup", "bytes", len(body))
	return nil
}

// Download fetches and decodes the backup file. A missing backup is the
// legitimate first-run state and surfaces as common.ErrNoBackupFound.
func (c *Client) Download(ctx context.Context) (*model.EncryptedBackup, error) {
	fileID, err := c.findBackupFile(ctx)
	if err != nil {
		return nil, err
	}
	if fileID == "" {
		return nil, common.ErrNoBackupFound
	}

	var body []byte
	err = common.WithRetry(ctx, func() error {
		resp, apiErr := c.svc.Files.Get(fileID).Context(ctx).Download()
		if apiErr != nil {
			return apiErr
		}
		defer func() { _ = resp.Body.Close() }()

		body, apiErr = io.ReadAll(resp.Body)
		return apiErr
	}, c.retry)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to download backup: %v", common.ErrRemoteUnavailable, err)
	}

	var backup model.EncryptedBackup
	if err := json.Unmarshal(body, &backup); err != nil {
		return nil, fmt.Errorf("%w: malformed backup file: %v", common.ErrRemoteUnavailable, err)
	}
	return &backup, nil
}

// Delete removes the remote backup file. Deleting an absent backup is a
// no-op.
func (c *Client) Delete(ctx context.Context) error {
	fileID, err := c.findBackupFile(ctx)
	if err != nil {
		return err
	}
	if fileID == "" {
		return nil
	}

	err = common.WithRetry(ctx, func() error {
		return c.svc.Files.Delete(fileID).Context(ctx).Do()
	}, c.retry)
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
			return nil
		}
		return fmt.Errorf("%w: failed to delete backup: %v", common.ErrRemoteUnavailable, err)
	}
	return nil
}

// Metadata returns the backup's modified time and size without
// downloading its contents.
func (c *Client) Metadata(ctx context.Context) (*service.BackupMetadata, error) {
	fileID, err := c.findBackupFile(ctx)
	if err != nil {
		return nil, err
	}
	if fileID == "" {
		return nil, common.ErrNoBackupFound
	}

	var file *drive.File
	err = common.WithRetry(ctx, func() error {
		var apiErr error
		file, apiErr = c.svc.Files.Get(fileID).
			Fields("modifiedTime, size").
			Context(ctx).
			Do()
		return apiErr
	}, c.retry)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get backup metadata: %v", common.ErrRemoteUnavailable, err)
	}

	modified, err := time.Parse(time.RFC3339, file.ModifiedTime)
	if err != nil {
		return nil, fmt.Errorf("%w: bad modified time %q: %v", common.ErrRemoteUnavailable, file.ModifiedTime, err)
	}

	return &service.BackupMetadata{
		ModifiedTime: modified,
		Size:         file.Size,
	}, nil
}
