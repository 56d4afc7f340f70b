// Package export produces CSV and Excel exports for the admin screens.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// SheetWriter writes one table per sheet to a spreadsheet file. Every
// export in this package is a single header row plus data rows, so the
// surface is a one-shot table write rather than a row cursor.
type SheetWriter interface {
	// WriteTable writes a bold header and the data rows onto a fresh
	// sheet with the given name.
	WriteTable(sheet string, columns []string, rows [][]string) error

	// Save writes the file to the writer.
	Save(w io.Writer) error

	// Close releases resources.
	Close() error
}

// ExcelizeWriter implements SheetWriter using the excelize library.
type ExcelizeWriter struct {
	file   *excelize.File
	sheets int
}

// NewExcelizeWriter creates a new Excel writer.
func NewExcelizeWriter() SheetWriter {
	return &ExcelizeWriter{file: excelize.NewFile()}
}

// WriteTable writes columns as a bold header row followed by rows.
func (w *ExcelizeWriter) WriteTable(sheet string, columns []string, rows [][]string) error {
	// Excel limits sheet names to 31 chars
	if len(sheet) > 31 {
		sheet = sheet[:31]
	}
	if w.sheets == 0 {
		// Rename default sheet
		w.file.SetSheetName("Sheet1", sheet)
	} else if _, err := w.file.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	w.sheets++

	header := make([]any, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	if err := w.file.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if style, err := w.file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	}); err == nil {
		endCell, _ := excelize.CoordinatesToCellName(len(columns), 1)
		_ = w.file.SetCellStyle(sheet, "A1", endCell, style)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := w.file.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

// Save writes the Excel file to the writer.
func (w *ExcelizeWriter) Save(wr io.Writer) error {
	return w.file.Write(wr)
}

// Close releases resources.
func (w *ExcelizeWriter) Close() error {
	return w.file.Close()
}
