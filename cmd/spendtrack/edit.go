package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"spendtrack/internal/cli"
	"spendtrack/internal/model"
)

func editCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update fields of an expense",
		Long: `Update an existing expense. Only the flags you pass are changed;
the entry's id, owner and creation time never change.`,
		Args: cobra.ExactArgs(1),
		RunE: runEdit,
	}

	cmd.Flags().StringP("amount", "a", "", "new amount")
	cmd.Flags().StringP("category", "c", "", "new category")
	cmd.Flags().String("custom-category", "", "new custom category label")
	cmd.Flags().StringP("notes", "n", "", "new notes")
	cmd.Flags().StringP("date", "d", "", "new spend date (YYYY-MM-DD)")

	return cmd
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id := args[0]

	var update model.ExpenseUpdate

	if cmd.Flags().Changed("amount") {
		raw, _ := cmd.Flags().GetString("amount")
		amount, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", raw, err)
		}
		update.Amount = &amount
	}

	if cmd.Flags().Changed("category") {
		raw, _ := cmd.Flags().GetString("category")
		category := model.CategoryID(raw)
		if !category.Valid() {
			return fmt.Errorf("unknown category %q", raw)
		}
		update.Category = &category
	}

	if cmd.Flags().Changed("custom-category") {
		raw, _ := cmd.Flags().GetString("custom-category")
		update.CustomCategory = &raw
	}

	if cmd.Flags().Changed("notes") {
		raw, _ := cmd.Flags().GetString("notes")
		update.Notes = &raw
	}

	if cmd.Flags().Changed("date") {
		raw, _ := cmd.Flags().GetString("date")
		timestamp, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", raw, err)
		}
		update.Timestamp = &timestamp
	}

	if update.IsEmpty() {
		return fmt.Errorf("nothing to update: pass at least one of --amount, --category, --custom-category, --notes, --date")
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	entry, err := store.UpdateExpense(ctx, id, update)
	if err != nil {
		return err
	}

	fmt.Printf("%s Updated %s (%s)\n",
		cli.SuccessStyle.Render("✓"),
		cli.AmountStyle.Render(formatAmount(entry.Amount)),
		cli.SubtleStyle.Render(entry.ID))
	return nil
}
