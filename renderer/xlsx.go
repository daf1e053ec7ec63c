package renderer

import (
	"fmt"
	"io"

	"github.com/etnz/goldbook"
	"github.com/xuri/excelize/v2"
)

// WriteXLSX writes the rows of v as a spreadsheet, one sheet named after the
// ledger, followed by a totals line. Amounts are written as numbers.
func WriteXLSX(w io.Writer, v *goldbook.LedgerView, opts Options) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := v.Unit.String()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	numFmt := "#,##0.000"
	if v.Unit == goldbook.Money {
		numFmt = "#,##0.00"
	}
	amount, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	header := []any{"ID", "Date", "Customer", "Description", "Carat", "Received", "Paid", "Balance", "Customer balance"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "I1", bold); err != nil {
		return err
	}

	row := 2
	for _, r := range v.Rows {
		var carat any
		if r.Carat != nil {
			carat = r.Carat.Float()
		}
		values := []any{r.ID, opts.day(r.When), r.Customer, r.Description, carat,
			r.Received.Float(), r.Paid.Float(), r.Balance.Float(), r.Persisted.Float()}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return err
		}
		row++
	}

	totals := []any{"", "", "", "Total", nil, v.Received.Float(), v.Paid.Float(), v.Closing.Float()}
	if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &totals); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("I%d", row), bold); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "F2", fmt.Sprintf("I%d", row), amount); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "D", 18); err != nil {
		return err
	}
	return f.Write(w)
}
