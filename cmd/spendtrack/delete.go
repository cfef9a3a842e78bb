package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"spendtrack/internal/cli"
)

func deleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense",
		Long: `Soft-delete an expense: it disappears from listings and summaries but
stays on disk until purged. Pass --hard to remove it physically.`,
		Args: cobra.ExactArgs(1),
		RunE: runDelete,
	}

	cmd.Flags().Bool("hard", false, "physically remove the record")

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id := args[0]

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	hard, _ := cmd.Flags().GetBool("hard")
	if hard {
		if err := store.HardDeleteExpense(ctx, id); err != nil {
			return err
		}
		fmt.Printf("%s Purged %s\n", cli.SuccessStyle.Render("✓"), cli.SubtleStyle.Render(id))
		return nil
	}

	if err := store.SoftDeleteExpense(ctx, id); err != nil {
		return err
	}
	fmt.Printf("%s Deleted %s\n", cli.SuccessStyle.Render("✓"), cli.SubtleStyle.Render(id))
	return nil
}
