// Package export writes search results to spreadsheet files.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"g2b-bids/internal/g2b"
)

const (
	// FilePrefix starts every exported file name.
	FilePrefix = "나라장터_공사공고_"
	// ContentType is the MIME type of the generated workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	sheetName = "공사공고"
)

// FileName returns the download name for an export taken at t, e.g.
// 나라장터_공사공고_20251019_150405.xlsx.
func FileName(t time.Time) string {
	return FilePrefix + t.Format("20060102_150405") + ".xlsx"
}

// WriteXLSX writes t as a single-sheet workbook: one header row of display
// labels followed by one row per announcement, no index column.
func WriteXLSX(w io.Writer, t g2b.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := setRow(f, 1, t.Columns); err != nil {
		return err
	}
	for i, row := range t.Rows {
		if err := setRow(f, i+2, row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, n int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
		return fmt.Errorf("row %d: %w", n, err)
	}
	return nil
}
