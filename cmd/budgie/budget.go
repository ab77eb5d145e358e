package main

import (
	"fmt"

	"github.com/Veraticus/budgie/internal/cli"
	"github.com/Veraticus/budgie/internal/common"
	"github.com/spf13/cobra"
)

func budgetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage monthly budgets",
	}
	cmd.AddCommand(setPlannedIncomeCmd(a))
	cmd.AddCommand(reviewBudgetCmd(a))
	return cmd
}

func setPlannedIncomeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "set-planned <MM/YYYY> <amount>",
		Short:   "Set the income you expect in a month",
		Long:    `Planned income counts towards the month's available balance.`,
		Example: `  budgie budget set-planned 12/2024 3500`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			my, err := parsePeriod(args[0])
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}

			s, err := a.openSession(cmd)
			if err != nil {
				return err
			}
			b, err := s.SetPlannedIncome(cmd.Context(), my.Month, my.Year, amount)
			if err != nil {
				return common.NewUserError("could not set planned income", err)
			}

			money := a.money()
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Planned income for %s set to %s (available: %s)",
				my, money.Format(b.PlannedIncome()), money.Format(b.AvailableBalance()))))
			return nil
		},
	}
}

func reviewBudgetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "review [MM/YYYY]",
		Short: "Run the month-close checks",
		Long: `Check a month against its planned income and the configured savings goal.
Raises at most one negative-balance and one missed-goal alert per month.
Defaults to the current month.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var period string
			if len(args) == 1 {
				period = args[0]
			}
			my, err := parsePeriod(period)
			if err != nil {
				return err
			}

			s, err := a.openSession(cmd)
			if err != nil {
				return err
			}
			alerts, err := s.ReviewMonth(cmd.Context(), my.Month, my.Year)
			if err != nil {
				return common.NewUserError("could not review "+my.String(), err)
			}

			out := cmd.OutOrStdout()
			if len(alerts) == 0 {
				fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("No new issues for %s", my)))
				return nil
			}
			fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("%d new alert(s) for %s", len(alerts), my)))
			printAlerts(out, alerts)
			return nil
		},
	}
}
