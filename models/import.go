package models

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"bitbucket.org/mmdatafocus/payment_reminder/config"
	"bitbucket.org/mmdatafocus/payment_reminder/utils"
)

var requiredColumns = []string{"number", "name", "amount", "cycle", "mode", "status"}

var optionalColumns = []string{"smartcard", "smartcard2", "customerstatus", "skipuntil"}

// normalizeHeader folds "Skip Until", "skip_until" and "SkipUntil" to the
// same key.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, " ", "")
	h = strings.ReplaceAll(h, "_", "")
	return h
}

// LoadCustomers reads the customer sheet (.xlsx via the configured sheet
// name, or .csv) into records. Missing required columns are fatal; missing
// optional columns degrade with one warning each.
func LoadCustomers(logger *logrus.Logger, path, sheet string) ([]*CustomerRecord, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = loadXlsxRows(path, sheet)
	case ".csv":
		rows, err = loadCSVRows(path)
	default:
		return nil, &utils.DataLoadError{Source: path, Reason: "unsupported file type (want .xlsx or .csv)"}
	}
	if err != nil {
		return nil, err
	}

	records, err := buildCustomers(logger, path, rows)
	if err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{"source": path, "records": len(records)}).Info("customer data loaded")
	return records, nil
}

func loadXlsxRows(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &utils.DataLoadError{Source: path, Reason: "unable to open spreadsheet", Err: err}
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &utils.DataLoadError{Source: path, Reason: fmt.Sprintf("unable to read sheet %q", sheet), Err: err}
	}
	return rows, nil
}

func loadCSVRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &utils.DataLoadError{Source: path, Reason: "unable to open file", Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // sheets exported by hand are often ragged
	rows, err := r.ReadAll()
	if err != nil {
		return nil, &utils.DataLoadError{Source: path, Reason: "unable to parse csv", Err: err}
	}
	return rows, nil
}

func buildCustomers(logger *logrus.Logger, source string, rows [][]string) ([]*CustomerRecord, error) {
	if len(rows) == 0 {
		return nil, &utils.DataLoadError{Source: source, Reason: "no header row"}
	}

	index := map[string]int{}
	for i, h := range rows[0] {
		index[normalizeHeader(h)] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &utils.DataLoadError{
			Source: source,
			Reason: fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")),
		}
	}
	for _, col := range optionalColumns {
		if _, ok := index[col]; !ok {
			config.LogWarn(logger, "import.go", "buildCustomers", "optional column absent", source, fmt.Sprintf("column %q not found, continuing without it", col))
		}
	}

	cell := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	records := make([]*CustomerRecord, 0, len(rows)-1)
	for n, row := range rows[1:] {
		rec := &CustomerRecord{
			Name:           cell(row, "name"),
			RawNumbers:     cell(row, "number"),
			RawAmount:      cell(row, "amount"),
			Cycle:          cell(row, "cycle"),
			RawMode:        cell(row, "mode"),
			RawStatus:      cell(row, "status"),
			Smartcard:      cell(row, "smartcard"),
			Smartcard2:     cell(row, "smartcard2"),
			CustomerStatus: cell(row, "customerstatus"),
			RawSkipUntil:   cell(row, "skipuntil"),
			Row:            n + 2, // 1-based, after header
		}
		records = append(records, rec)
	}
	return records, nil
}
