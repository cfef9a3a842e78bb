package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"spendtrack/internal/cli"
	"spendtrack/internal/export"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all expenses as CSV",
		Long: `Write the user's full non-deleted expense history as CSV, newest
first. Output goes to stdout unless --output is given.`,
		RunE: runExport,
	}

	cmd.Flags().StringP("output", "o", "", "write to a file instead of stdout")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	userID := currentUserID()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	entries, err := store.ListExpenses(ctx, userID)
	if err != nil {
		return err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	csv := export.CSV(entries)

	outPath, _ := cmd.Flags().GetString("output")
	if outPath == "" {
		fmt.Println(csv)
		return nil
	}

	if err := os.WriteFile(outPath, []byte(csv+"\n"), 0600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	fmt.Printf("%s Exported %d entries to %s\n",
		cli.SuccessStyle.Render("✓"), len(entries), outPath)
	return nil
}
