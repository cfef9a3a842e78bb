package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"spendtrack/internal/analytics"
	"spendtrack/internal/cli"
	"spendtrack/internal/model"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses",
		RunE:  runList,
	}

	cmd.Flags().StringP("filter", "f", "", "time window (today, week, month, year; default: all)")
	cmd.Flags().StringP("category", "c", "", "only show one category")

	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	userID := currentUserID()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var entries []model.SpendEntry

	categoryFlag, _ := cmd.Flags().GetString("category")
	filterFlag, _ := cmd.Flags().GetString("filter")

	switch {
	case categoryFlag != "":
		category := model.CategoryID(categoryFlag)
		if !category.Valid() {
			return fmt.Errorf("unknown category %q", categoryFlag)
		}
		entries, err = store.ListExpensesByCategory(ctx, userID, category)
	case filterFlag != "":
		filter, parseErr := analytics.ParseFilter(filterFlag)
		if parseErr != nil {
			return parseErr
		}
		r, rangeErr := analytics.RangeFor(filter, time.Now())
		if rangeErr != nil {
			return rangeErr
		}
		entries, err = store.ListExpensesByDateRange(ctx, userID, r.Start, r.End)
	default:
		entries, err = store.ListExpenses(ctx, userID)
	}
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No expenses found."))
		return nil
	}

	// Newest first for display
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	fmt.Println(cli.TitleStyle.Render("Expenses"))
	for _, e := range entries {
		meta := model.CategoryByID(e.Category)
		label := meta.Name
		if e.CustomCategory != "" {
			label = e.CustomCategory
		}

		line := fmt.Sprintf("%s  %-10s %s %-14s %s",
			e.Timestamp.Format("2006-01-02"),
			formatAmount(e.Amount),
			meta.Icon,
			label,
			cli.SubtleStyle.Render(e.ID))
		fmt.Println(line)
		if e.Notes != "" {
			fmt.Println(cli.SubtleStyle.Render("            " + e.Notes))
		}
	}

	fmt.Printf("\n%d entries\n", len(entries))
	return nil
}
