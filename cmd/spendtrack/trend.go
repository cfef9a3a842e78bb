package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"spendtrack/internal/analytics"
	"spendtrack/internal/cli"
)

const trendBarWidth = 40

func trendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Show per-day spending within a window",
		RunE:  runTrend,
	}

	cmd.Flags().StringP("filter", "f", "week", "window (today, week, month, year)")

	return cmd
}

func runTrend(cmd *cobra.Command, _ []string) error {
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

	points, err := analytics.New(store).Trend(ctx, userID, filter)
	if err != nil {
		return err
	}

	if len(points) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No expenses in the selected window."))
		return nil
	}

	var max float64
	for _, p := range points {
		if p.Amount > max {
			max = p.Amount
		}
	}

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Spending trend (%s)", filter)))
	for _, p := range points {
		width := int(p.Amount / max * trendBarWidth)
		if width < 1 {
			width = 1
		}
		fmt.Printf("  %s  %s %s\n",
			p.Date,
			cli.AmountStyle.Render(strings.Repeat("▇", width)),
			formatAmount(p.Amount))
	}

	return nil
}
