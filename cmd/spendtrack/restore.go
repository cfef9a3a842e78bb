package main

import (
	"errors"
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"spendtrack/internal/cli"
	"spendtrack/internal/common"
)

func restoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore",
		Short: "Restore expenses from the Drive backup",
		Long: `Download the remote backup, decrypt it on this device and write its
entries back into the local database. Entries already present locally
are overwritten with the backup copy.`,
		RunE: runRestore,
	}
}

func runRestore(cmd *cobra.Command, _ []string) error {
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

	entries, err := s.Restore(ctx, userID, token)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNoBackupFound):
			fmt.Println(cli.SubtleStyle.Render("No remote backup exists for this account."))
			return nil
		case errors.Is(err, common.ErrOwnershipMismatch):
			return common.NewUserError("the remote backup belongs to a different account", err)
		case errors.Is(err, common.ErrDecryptionFailed):
			return common.NewUserError("could not decrypt the backup on this device", err)
		default:
			return err
		}
	}

	if len(entries) == 0 {
		fmt.Println(cli.SubtleStyle.Render("The backup contains no entries."))
		return nil
	}

	bar := progressbar.NewOptions(len(entries),
		progressbar.OptionSetDescription("Restoring entries"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	for _, entry := range entries {
		if err := store.ImportExpense(ctx, entry); err != nil {
			return fmt.Errorf("failed to import entry %s: %w", entry.ID, err)
		}
		_ = bar.Add(1)
	}

	fmt.Printf("%s Restored %d entries\n", cli.SuccessStyle.Render("✓"), len(entries))
	return nil
}
