package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/budgie/internal/cli"
	"github.com/Veraticus/budgie/internal/common"
	"github.com/Veraticus/budgie/internal/ledger"
	"github.com/Veraticus/budgie/internal/model"
	"github.com/Veraticus/budgie/internal/ofx"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const maxParallelParses = 4

func importCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import entries from bank statements",
	}
	cmd.AddCommand(importOFXCmd(a))
	return cmd
}

func importOFXCmd(a *app) *cobra.Command {
	var (
		incomeCategory  string
		expenseCategory string
		method          string
		dryRun          bool
		noCheckpoint    bool
	)

	cmd := &cobra.Command{
		Use:   "ofx <files...>",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import transactions from OFX or QFX files exported from your bank. Money in is
recorded as income, money out as an expense. Entries already recorded (same date
and description) are skipped. A checkpoint is taken before anything is written.`,
		Example: `  # Import single file
  budgie import ofx ~/Downloads/checking_2024_12.qfx

  # Import every statement in a directory into specific categories
  budgie import ofx ~/Downloads/*.qfx --expense-category Other --income-category Salary`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pm, err := model.ParsePaymentMethod(method)
			if err != nil {
				return common.NewUserError(fmt.Sprintf("invalid payment method %q", method), err)
			}

			files, err := expandFiles(args)
			if err != nil {
				return err
			}

			txs, err := parseStatements(cmd, files)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(txs) == 0 {
				fmt.Fprintln(out, cli.FormatWarning("No transactions found"))
				return nil
			}

			items := ofx.ImportItems(txs, ofx.Mapping{
				IncomeCategory:  incomeCategory,
				ExpenseCategory: expenseCategory,
				PaymentMethod:   pm,
			})

			if dryRun {
				money := a.money()
				w := cli.NewTable(out, "DATE", "KIND", "CATEGORY", "DESCRIPTION", "AMOUNT")
				for _, it := range items {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
						it.Date.Format("02/01/2006"), it.Kind, it.CategoryName, it.Description, money.Format(it.Amount))
				}
				if err := w.Flush(); err != nil {
					return err
				}
				fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Dry run: %d transaction(s) would be imported", len(items))))
				return nil
			}

			s, err := a.openSession(cmd)
			if err != nil {
				return err
			}

			if !noCheckpoint {
				manager, err := a.checkpoints()
				if err != nil {
					return err
				}
				info, err := manager.AutoCheckpoint(ctx, "import")
				if err != nil {
					return fmt.Errorf("failed to create checkpoint before import: %w", err)
				}
				fmt.Fprintln(out, cli.FormatInfo("Checkpoint "+info.ID+" created, restore it to undo this import"))
			}

			bar := progressbar.NewOptions(len(items),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Importing"),
				progressbar.OptionClearOnFinish(),
			)
			result, err := s.Import(ctx, items, ledger.WithProgress(func() { _ = bar.Add(1) }))
			_ = bar.Finish()
			if err != nil {
				return fmt.Errorf("import failed, nothing was saved: %w", err)
			}

			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d entries (%d duplicates skipped, %d failed)",
				result.Added, result.Duplicates, len(result.Failed))))
			for _, f := range result.Failed {
				fmt.Fprintln(out, "  "+cli.FormatError(fmt.Sprintf("%s: %v", f.Source, f.Err)))
			}
			printAlerts(out, result.Alerts)
			return nil
		},
	}

	cmd.Flags().StringVar(&incomeCategory, "income-category", "Salary", "Income category for money in")
	cmd.Flags().StringVar(&expenseCategory, "expense-category", "Other", "Expense category for money out")
	cmd.Flags().StringVar(&method, "method", string(model.PaymentDebitCard), "Payment method for bank account lines")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview import without saving")
	cmd.Flags().BoolVar(&noCheckpoint, "no-checkpoint", false, "Skip the checkpoint taken before importing")
	return cmd
}

// expandFiles resolves glob patterns; a pattern without matches must name an
// existing file.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, common.NewUserError(fmt.Sprintf("invalid pattern %s", pattern), err)
		}
		if len(matches) > 0 {
			files = append(files, matches...)
			continue
		}
		if _, err := os.Stat(pattern); err != nil {
			return nil, common.NewUserError(fmt.Sprintf("no file matches %s", pattern), err)
		}
		files = append(files, pattern)
	}
	return files, nil
}

// parseStatements parses files concurrently and returns their transactions in
// file order, dropping lines repeated across files (same account and FITID).
func parseStatements(cmd *cobra.Command, files []string) ([]ofx.Transaction, error) {
	parser := ofx.NewParser()
	perFile := make([][]ofx.Transaction, len(files))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(maxParallelParses)
	for i, path := range files {
		g.Go(func() error {
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer f.Close()

			txs, err := parser.ParseFile(ctx, filepath.Base(path), f)
			if err != nil {
				return err
			}
			perFile[i] = txs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var all []ofx.Transaction
	for i, txs := range perFile {
		kept := 0
		for _, tx := range txs {
			key := tx.AccountID + "/" + tx.FITID
			if tx.FITID != "" && seen[key] {
				continue
			}
			seen[key] = true
			all = append(all, tx)
			kept++
		}
		slog.Debug("statement parsed", "file", files[i], "transactions", len(txs), "kept", kept)
	}
	return all, nil
}
