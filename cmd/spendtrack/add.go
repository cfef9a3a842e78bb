package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"spendtrack/internal/cli"
	"spendtrack/internal/model"
)

func addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Log a new expense",
		Long: `Log a new spend entry. When no --category is given the category is
guessed from the notes text, falling back to "custom".`,
		Args: cobra.ExactArgs(1),
		RunE: runAdd,
	}

	cmd.Flags().StringP("category", "c", "", "expense category (food, travel, bills, shopping, entertainment, health, custom)")
	cmd.Flags().String("custom-category", "", "free-text label used with the custom category")
	cmd.Flags().StringP("notes", "n", "", "free-text notes")
	cmd.Flags().StringP("date", "d", "", "when the spend occurred (YYYY-MM-DD, default: now)")

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", args[0], err)
	}

	notes, _ := cmd.Flags().GetString("notes")
	customCategory, _ := cmd.Flags().GetString("custom-category")

	categoryFlag, _ := cmd.Flags().GetString("category")
	var category model.CategoryID
	if categoryFlag != "" {
		category = model.CategoryID(categoryFlag)
		if !category.Valid() {
			return fmt.Errorf("unknown category %q", categoryFlag)
		}
	} else {
		category = model.DetectCategory(notes)
	}

	timestamp := time.Now()
	if dateFlag, _ := cmd.Flags().GetString("date"); dateFlag != "" {
		timestamp, err = time.ParseInLocation("2006-01-02", dateFlag, time.Local)
		if err != nil {
			return fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", dateFlag, err)
		}
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	entry, err := store.AddExpense(ctx, currentUserID(), amount, category, timestamp, notes, customCategory)
	if err != nil {
		return err
	}

	meta := model.CategoryByID(entry.Category)
	fmt.Printf("%s Logged %s %s %s (%s)\n",
		cli.SuccessStyle.Render("✓"),
		cli.AmountStyle.Render(formatAmount(entry.Amount)),
		meta.Icon,
		meta.Name,
		cli.SubtleStyle.Render(entry.ID))

	return nil
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
