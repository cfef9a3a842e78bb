package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"spendtrack/internal/cli"
	"spendtrack/internal/common"
)

func syncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Back up expenses to Google Drive",
		Long: `Encrypt the full expense set on this device and upload it to the
app's private Drive folder, replacing the previous backup.`,
		RunE: runSync,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the remote backup's metadata",
		RunE:  runSyncStatus,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete-backup",
		Short: "Delete the remote backup",
		RunE:  runSyncDelete,
	})

	return cmd
}

func runSync(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	userID := currentUserID()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	s, token, err := initSyncer(ctx, store)
	if err != nil {
		return err
	}

	if err := s.SyncNow(ctx, userID, token); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	count, err := store.CountExpenses(ctx, userID)
	if err != nil {
		return err
	}

	fmt.Printf("%s Backed up %d entries\n", cli.SuccessStyle.Render("✓"), count)
	return nil
}

func runSyncStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	s, _, err := initSyncer(ctx, store)
	if err != nil {
		return err
	}

	meta, err := s.BackupMetadata(ctx)
	if err != nil {
		if errors.Is(err, common.ErrNoBackupFound) {
			fmt.Println(cli.SubtleStyle.Render("No remote backup exists yet."))
			return nil
		}
		return err
	}

	fmt.Println(cli.TitleStyle.Render("Remote backup"))
	fmt.Printf("  modified  %s\n", meta.ModifiedTime.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("  size      %d bytes\n", meta.Size)
	return nil
}

func runSyncDelete(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	s, token, err := initSyncer(ctx, store)
	if err != nil {
		return err
	}

	if err := s.DeleteBackup(ctx, token); err != nil {
		return fmt.Errorf("failed to delete backup: %w", err)
	}

	fmt.Println(cli.SuccessStyle.Render("✓ Remote backup deleted."))
	return nil
}
