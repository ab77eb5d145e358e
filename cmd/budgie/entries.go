package main

import (
	"fmt"
	"strings"

	"github.com/Veraticus/budgie/internal/cli"
	"github.com/Veraticus/budgie/internal/common"
	"github.com/Veraticus/budgie/internal/ledger"
	"github.com/Veraticus/budgie/internal/model"
	"github.com/spf13/cobra"
)

func incomeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "income",
		Short: "Record income",
	}
	cmd.AddCommand(addEntryCmd(a, model.EntryKindIncome, model.PaymentInstantTransfer))
	return cmd
}

func expenseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Record expenses",
	}
	cmd.AddCommand(addEntryCmd(a, model.EntryKindExpense, model.PaymentDebitCard))
	return cmd
}

func addEntryCmd(a *app, kind model.EntryKind, defaultMethod model.PaymentMethod) *cobra.Command {
	var (
		amount      string
		category    string
		description string
		date        string
		method      string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: fmt.Sprintf("Add an %s entry", kind),
		Long: fmt.Sprintf(`Record an %s in the budget of its month. The category is looked up by name
among %s categories. Dates accept DD/MM/YYYY, YYYY-MM-DD or DD-MM-YYYY and
default to today.`, kind, kind),
		Example: fmt.Sprintf(`  budgie %s add --amount 42.50 --category Food --description "Market" --date 05/03/2024`, kind),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := ledger.EntryInput{CategoryName: category, Description: description}

			var err error
			if in.Amount, err = parseAmount(amount); err != nil {
				return err
			}
			if in.Date, err = parseDate(date); err != nil {
				return err
			}
			if in.PaymentMethod, err = model.ParsePaymentMethod(method); err != nil {
				return common.NewUserError(fmt.Sprintf("invalid payment method %q", method), err)
			}

			s, err := a.openSession(cmd)
			if err != nil {
				return err
			}

			add := s.AddExpense
			if kind == model.EntryKindIncome {
				add = s.AddIncome
			}
			e, alerts, err := add(cmd.Context(), in)
			if err != nil {
				return common.NewUserError(fmt.Sprintf("could not record %s", kind), err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Recorded %s %s on %s (%s) [%s]",
				kind, a.money().Format(e.Amount()), e.Date().Format("02/01/2006"), e.Description(), shortID(e.ID()))))
			printAlerts(out, alerts)
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "Amount (required)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Category name (required)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Description (required)")
	cmd.Flags().StringVar(&date, "date", "", "Date (default: today)")
	cmd.Flags().StringVar(&method, "method", string(defaultMethod), "Payment method (cash, debit_card, credit_card, instant_transfer)")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}

func entriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "List and delete recorded entries",
	}
	cmd.AddCommand(listEntriesCmd(a))
	cmd.AddCommand(deleteEntryCmd(a))
	return cmd
}

func listEntriesCmd(a *app) *cobra.Command {
	var (
		kind     string
		category string
		month    string
		year     int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := ledger.EntryFilter{Category: category, Year: year}
			if kind != "" {
				k, err := model.ParseEntryKind(kind)
				if err != nil {
					return common.NewUserError(fmt.Sprintf("invalid kind %q", kind), err)
				}
				filter.Kind = k
			}
			if month != "" {
				my, err := parsePeriod(month)
				if err != nil {
					return err
				}
				filter.Month, filter.Year = my.Month, my.Year
			}

			s, err := a.openSession(cmd)
			if err != nil {
				return err
			}

			entries := s.Entries(filter)
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, cli.InfoStyle.Render("No entries found."))
				return nil
			}

			money := a.money()
			w := cli.NewTable(out, "ID", "DATE", "KIND", "CATEGORY", "DESCRIPTION", "METHOD", "AMOUNT", "TAGS")
			for _, e := range entries {
				var tags []string
				if x, ok := e.(*model.Expense); ok {
					for _, t := range x.Tags() {
						tags = append(tags, string(t))
					}
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					shortID(e.ID()),
					e.Date().Format("02/01/2006"),
					e.Kind(),
					e.Category().Name(),
					e.Description(),
					e.PaymentMethod(),
					money.Format(e.Amount()),
					strings.Join(tags, ","))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Only list entries of this kind (income, expense)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Only list entries of this category")
	cmd.Flags().StringVarP(&month, "month", "m", "", "Only list entries of this month (MM/YYYY)")
	cmd.Flags().IntVar(&year, "year", 0, "Only list entries of this year")
	cmd.MarkFlagsMutuallyExclusive("month", "year")
	return cmd
}

func deleteEntryCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an entry",
		Long: `Delete an entry by its identifier or a unique prefix of it, as shown by
'budgie entries list'. Alerts the entry raised are kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession(cmd)
			if err != nil {
				return err
			}

			e, err := resolveID("entry", args[0], s.Entries(ledger.EntryFilter{}), model.Entry.ID)
			if err != nil {
				return err
			}

			ok, err := a.confirm(cmd, yes, "Delete "+e.String()+"?")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), cli.SubtitleStyle.Render("Deletion cancelled."))
				return nil
			}

			if _, err := s.DeleteEntry(cmd.Context(), e.ID()); err != nil {
				return fmt.Errorf("failed to delete entry: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted "+e.String()))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")
	return cmd
}
