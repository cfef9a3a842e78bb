package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"spendtrack/internal/analytics"
	"spendtrack/internal/cli"
	"spendtrack/internal/model"
)

func summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show spending totals and category breakdown",
		RunE:  runSummary,
	}

	cmd.Flags().StringP("filter", "f", "month", "breakdown window (today, week, month, year)")

	return cmd
}

func runSummary(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	userID := currentUserID()

	filterFlag, _ := cmd.Flags().GetString("filter")
	filter, err := analytics.ParseFilter(filterFlag)
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	queries := analytics.New(store)

	fmt.Println(cli.TitleStyle.Render("Spending Summary"))

	// Rolling-window totals
	for _, f := range []analytics.TimeFilter{
		analytics.FilterToday,
		analytics.FilterWeek,
		analytics.FilterMonth,
		analytics.FilterYear,
	} {
		total, totalErr := queries.TotalFor(ctx, userID, f)
		if totalErr != nil {
			return totalErr
		}
		fmt.Printf("  %-8s %s\n", f, cli.AmountStyle.Render(formatAmount(total)))
	}

	// Previous-period comparison: these windows are calendar-aligned,
	// unlike the rolling totals above.
	weekTotal, err := queries.TotalFor(ctx, userID, analytics.FilterWeek)
	if err != nil {
		return err
	}
	prevWeek, err := queries.PreviousWeekTotal(ctx, userID)
	if err != nil {
		return err
	}
	prevMonth, err := queries.PreviousMonthTotal(ctx, userID)
	if err != nil {
		return err
	}

	fmt.Printf("\n  last calendar week  %s\n", formatAmount(prevWeek))
	fmt.Printf("  last calendar month %s\n", formatAmount(prevMonth))
	if prevWeek > 0 && weekTotal < prevWeek {
		fmt.Println(cli.SuccessStyle.Render("  🎉 You're spending less than last week!"))
	}

	// Category breakdown
	breakdown, err := queries.CategoryBreakdown(ctx, userID, filter)
	if err != nil {
		return err
	}

	if len(breakdown) == 0 {
		fmt.Printf("\n%s\n", cli.SubtleStyle.Render("No expenses in the selected window."))
		return nil
	}

	fmt.Printf("\n%s\n", cli.BoldStyle.Render(fmt.Sprintf("By category (%s)", filter)))
	for _, c := range breakdown {
		meta := model.CategoryByID(c.Category)
		fmt.Printf("  %s %-14s %-10s %s\n",
			meta.Icon,
			meta.Name,
			formatAmount(c.Total),
			cli.SubtleStyle.Render(fmt.Sprintf("%d entries", c.Count)))
	}

	top, err := queries.TopCategory(ctx, userID, filter)
	if err != nil {
		return err
	}
	if top != nil {
		meta := model.CategoryByID(top.Category)
		fmt.Printf("\n  Top category: %s %s (%s)\n",
			meta.Icon,
			cli.BoldStyle.Render(meta.Name),
			formatAmount(top.Total))
	}

	return nil
}
