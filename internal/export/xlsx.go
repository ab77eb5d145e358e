// Package export writes ledger data to spreadsheet files.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/budgie/internal/ledger"
	"github.com/Veraticus/budgie/internal/model"
	"github.com/xuri/excelize/v2"
)

// Sheet names.
const (
	EntriesSheet = "Entries"
	SummarySheet = "Summary"
)

var (
	entryHeaders   = []any{"Date", "Kind", "Category", "Description", "Payment method", "Amount", "Tags"}
	summaryHeaders = []any{"Month", "Income", "Expense", "Balance", "Deficit"}
)

// Workbook is the content of an export.
type Workbook struct {
	Entries []model.Entry
	Months  []ledger.MonthSummary
}

// WriteXLSX writes wb as an XLSX workbook with an entries sheet and a monthly
// summary sheet.
func WriteXLSX(w io.Writer, wb Workbook) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close workbook: %w", cerr)
		}
	}()

	if err := f.SetSheetName("Sheet1", EntriesSheet); err != nil {
		return fmt.Errorf("failed to name entries sheet: %w", err)
	}
	if err := writeEntries(f, wb.Entries); err != nil {
		return err
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeSummary(f, wb.Months); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeEntries(f *excelize.File, entries []model.Entry) error {
	if err := setRow(f, EntriesSheet, 1, entryHeaders); err != nil {
		return err
	}

	for i, e := range entries {
		var tags []string
		if x, ok := e.(*model.Expense); ok {
			for _, tag := range x.Tags() {
				tags = append(tags, string(tag))
			}
		}
		row := []any{
			e.Date().Format("2006-01-02"),
			string(e.Kind()),
			e.Category().Name(),
			e.Description(),
			string(e.PaymentMethod()),
			e.Amount().InexactFloat64(),
			strings.Join(tags, ", "),
		}
		if err := setRow(f, EntriesSheet, i+2, row); err != nil {
			return err
		}
	}

	widths := map[string]float64{"A": 12, "B": 10, "C": 15, "D": 30, "E": 16, "F": 12, "G": 24}
	for col, width := range widths {
		if err := f.SetColWidth(EntriesSheet, col, col, width); err != nil {
			return fmt.Errorf("failed to size column %s: %w", col, err)
		}
	}
	return nil
}

func writeSummary(f *excelize.File, months []ledger.MonthSummary) error {
	if err := setRow(f, SummarySheet, 1, summaryHeaders); err != nil {
		return err
	}
	for i, m := range months {
		row := []any{
			m.Period.String(),
			m.Income.InexactFloat64(),
			m.Expense.InexactFloat64(),
			m.Balance.InexactFloat64(),
			yesNo(m.Deficit),
		}
		if err := setRow(f, SummarySheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
