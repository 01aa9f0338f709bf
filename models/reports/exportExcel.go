package reports

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// PendingCustomer is one unpaid online customer row in the xlsx export the
// collection agents work from.
type PendingCustomer struct {
	Name   string
	Number string
	Amount decimal.Decimal
	Cycle  string
}

// ExportPendingXlsx writes the day's pending online customers to a dated
// spreadsheet next to the text report.
func ExportPendingXlsx(dir string, date time.Time, pending []PendingCustomer) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	if _, err := f.NewSheet(sheet); err != nil {
		return "", err
	}

	// Add headers
	f.SetCellValue(sheet, "A1", "Name")
	f.SetCellValue(sheet, "B1", "Number")
	f.SetCellValue(sheet, "C1", "Amount")
	f.SetCellValue(sheet, "D1", "Cycle")

	// Add data
	for i, p := range pending {
		row := fmt.Sprint(i + 2)
		f.SetCellValue(sheet, "A"+row, p.Name)
		f.SetCellValue(sheet, "B"+row, p.Number)
		f.SetCellValue(sheet, "C"+row, p.Amount.InexactFloat64())
		f.SetCellValue(sheet, "D"+row, p.Cycle)
	}

	path := filepath.Join(dir, fmt.Sprintf("pending_%s.xlsx", date.Format("20060102")))
	if err := f.SaveAs(path); err != nil {
		return "", err
	}
	return path, nil
}
