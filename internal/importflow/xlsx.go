package importflow

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/tealeg/xlsx/v3"
)

// errEmptyWorkbook is returned when a workbook has no sheets.
var errEmptyWorkbook = errors.New("workbook has no sheets")

func isWorkbook(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}

// csvName swaps the workbook extension for .csv.
func csvName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".csv"
}

// WorkbookToCSV converts the first sheet of an xlsx workbook to CSV.
func WorkbookToCSV(data []byte) ([]byte, error) {
	wb, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	if len(wb.Sheets) == 0 {
		return nil, errEmptyWorkbook
	}
	var buf bytes.Buffer
	if err := writeSheet(&buf, wb.Sheets[0]); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeSheet writes every non-blank row of sheet, padded to the sheet width.
func writeSheet(w io.Writer, sheet *xlsx.Sheet) error {
	out := csv.NewWriter(w)
	width := sheet.MaxCol
	err := sheet.ForEachRow(func(row *xlsx.Row) error {
		record := make([]string, width)
		blank := true
		for i := 0; i < width; i++ {
			record[i] = strings.TrimSpace(row.GetCell(i).String())
			if record[i] != "" {
				blank = false
			}
		}
		if blank {
			return nil
		}
		return out.Write(record)
	})
	if err != nil {
		return fmt.Errorf("convert sheet %q: %w", sheet.Name, err)
	}
	out.Flush()
	return out.Error()
}
