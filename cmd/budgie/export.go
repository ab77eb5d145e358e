package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Veraticus/budgie/internal/cli"
	"github.com/Veraticus/budgie/internal/export"
	"github.com/Veraticus/budgie/internal/ledger"
	"github.com/Veraticus/budgie/internal/model"
	"github.com/spf13/cobra"
)

func exportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export your data",
	}
	cmd.AddCommand(exportXLSXCmd(a))
	return cmd
}

func exportXLSXCmd(a *app) *cobra.Command {
	var (
		output string
		year   int
	)

	cmd := &cobra.Command{
		Use:   "xlsx",
		Short: "Export entries and monthly totals to an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output == "" {
				output = fmt.Sprintf("budgie-%s.xlsx", time.Now().Format("20060102"))
			}

			s, err := a.openSession(cmd)
			if err != nil {
				return err
			}

			wb := export.Workbook{Entries: s.Entries(ledger.EntryFilter{Year: year})}
			for _, m := range s.CompareReport(0) {
				if year == 0 || m.Period.Year == year {
					wb.Months = append(wb.Months, m)
				}
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			if err := export.WriteXLSX(f, wb); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Exported %d entries and %d months to %s",
				len(wb.Entries), len(wb.Months), output)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: budgie-YYYYMMDD.xlsx)")
	cmd.Flags().IntVar(&year, "year", 0, fmt.Sprintf("Only export this year (%d-%d)", model.MinYear, model.MaxYear))
	return cmd
}
