package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/budgie/internal/cli"
	"github.com/Veraticus/budgie/internal/ledger"
	"github.com/spf13/cobra"
)

func reportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summaries of your budgets",
	}
	cmd.PersistentFlags().StringP("output", "o", outputTable, "Output format (table, json, yaml)")

	cmd.AddCommand(monthReportCmd(a))
	cmd.AddCommand(compareReportCmd(a))
	cmd.AddCommand(statsReportCmd(a))
	return cmd
}

func outputFlag(cmd *cobra.Command) (string, error) {
	format, err := cmd.Flags().GetString("output")
	if err != nil {
		return "", err
	}
	return format, validateOutput(format)
}

func monthReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "month [MM/YYYY]",
		Short: "Report on one month",
		Long:  `Totals, balance, spending per category and payment method, and the running balance of one month. Defaults to the current month.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFlag(cmd)
			if err != nil {
				return err
			}
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

			r := s.MonthlyReport(my.Month, my.Year)
			if format != outputTable {
				return writeStructured(cmd.OutOrStdout(), format, r)
			}
			return a.renderMonth(cmd.OutOrStdout(), r)
		},
	}
}

func (a *app) renderMonth(out io.Writer, r ledger.MonthlyReport) error {
	if !r.Exists {
		fmt.Fprintln(out, cli.InfoStyle.Render(fmt.Sprintf("Nothing recorded for %s.", r.Period)))
		return nil
	}

	money := a.money()
	balance := money.Format(r.Balance)
	if r.Deficit {
		balance = cli.ErrorStyle.Render(balance + " (deficit)")
	}
	savings := cli.SubtleStyle.Render("n/a")
	if r.SavingsRate != nil {
		savings = money.Percent(*r.SavingsRate)
	}

	lines := []string{
		fmt.Sprintf("Income:            %s", money.Format(r.TotalIncome)),
		fmt.Sprintf("Expenses:          %s", money.Format(r.TotalExpense)),
		fmt.Sprintf("Balance:           %s", balance),
		fmt.Sprintf("Planned income:    %s", money.Format(r.PlannedIncome)),
		fmt.Sprintf("Available balance: %s", money.Format(r.AvailableBalance)),
		fmt.Sprintf("Savings rate:      %s", savings),
		fmt.Sprintf("Entries: %d  Alerts: %d", r.Entries, r.Alerts),
	}
	fmt.Fprintln(out, cli.RenderBox(cli.ChartIcon+" "+r.Period.String(), strings.Join(lines, "\n")))

	if len(r.ByCategory) > 0 {
		fmt.Fprintln(out)
		w := cli.NewTable(out, "CATEGORY", "SPENT", "SHARE", "LIMIT")
		for _, c := range r.ByCategory {
			limit := "-"
			if c.Limit != nil {
				limit = money.Format(*c.Limit)
			}
			if c.Exceeded {
				limit = cli.ErrorStyle.Render(limit + " exceeded")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Name, money.Format(c.Total), money.Percent(c.Percent), limit)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if len(r.ByPaymentMethod) > 0 {
		fmt.Fprintln(out)
		w := cli.NewTable(out, "PAYMENT METHOD", "SPENT")
		for _, p := range r.ByPaymentMethod {
			fmt.Fprintf(w, "%s\t%s\n", p.Method, money.Format(p.Total))
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if len(r.RunningBalance) > 0 {
		fmt.Fprintln(out)
		w := cli.NewTable(out, "DATE", "BALANCE")
		for _, d := range r.RunningBalance {
			fmt.Fprintf(w, "%s\t%s\n", d.Date.Format("02/01/2006"), money.Format(d.Balance))
		}
		return w.Flush()
	}
	return nil
}

func compareReportCmd(a *app) *cobra.Command {
	var months int

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the latest months",
		Long:  `Income, expenses and balance of the latest months, newest first, and the cheapest month on record.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFlag(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("months") {
				months = a.cfg.CompareMonths
			}

			s, err := a.openSession(cmd)
			if err != nil {
				return err
			}

			summaries := s.CompareReport(months)
			cheapest, hasCheapest := s.CheapestMonth()
			out := cmd.OutOrStdout()

			if format != outputTable {
				payload := struct {
					Cheapest *ledger.MonthSummary  `json:"cheapest,omitempty" yaml:"cheapest,omitempty"`
					Months   []ledger.MonthSummary `json:"months" yaml:"months"`
				}{Months: summaries}
				if hasCheapest {
					payload.Cheapest = &cheapest
				}
				return writeStructured(out, format, payload)
			}

			if len(summaries) == 0 {
				fmt.Fprintln(out, cli.InfoStyle.Render("No budgets yet."))
				return nil
			}

			money := a.money()
			w := cli.NewTable(out, "MONTH", "INCOME", "EXPENSES", "BALANCE", "")
			for _, m := range summaries {
				flag := ""
				if m.Deficit {
					flag = cli.ErrorStyle.Render("deficit")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					m.Period, money.Format(m.Income), money.Format(m.Expense), money.Format(m.Balance), flag)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if hasCheapest {
				fmt.Fprintln(out)
				fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Cheapest month: %s (%s spent)", cheapest.Period, money.Format(cheapest.Expense))))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&months, "months", "n", 3, "Number of months to compare, 0 for all (default from reports.compare_months)")
	return cmd
}

func statsReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Dataset-wide totals and counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFlag(cmd)
			if err != nil {
				return err
			}

			s, err := a.openSession(cmd)
			if err != nil {
				return err
			}

			st := s.Stats()
			out := cmd.OutOrStdout()
			if format != outputTable {
				return writeStructured(out, format, st)
			}

			money := a.money()
			lines := []string{
				fmt.Sprintf("Categories: %d (%d income, %d expense)", st.Categories, st.IncomeCategories, st.ExpenseCategories),
				fmt.Sprintf("Entries:    %d (%d income, %d expense)", st.Entries, st.Incomes, st.Expenses),
				fmt.Sprintf("Budgets:    %d (%d in deficit)", st.Budgets, st.DeficitMonths),
				fmt.Sprintf("Alerts:     %d (%d unread)", st.Alerts, st.UnreadAlerts),
				"",
				fmt.Sprintf("Total income:   %s", money.Format(st.TotalIncome)),
				fmt.Sprintf("Total expenses: %s", money.Format(st.TotalExpense)),
				fmt.Sprintf("Balance:        %s", money.Format(st.Balance)),
			}
			fmt.Fprintln(out, cli.RenderBox(cli.ChartIcon+" Statistics", strings.Join(lines, "\n")))
			return nil
		},
	}
}
