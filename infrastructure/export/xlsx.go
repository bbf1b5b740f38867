package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Pawissanan/Get-YouTube-View/domain/model"
)

// SheetName is the worksheet holding the result table.
const SheetName = "Sheet1"

// DateFormat is the number format of the published date column.
const DateFormat = "yyyy-mm-dd"

// XLSXExporter writes a single-sheet workbook: a header row followed by one row per result.
type XLSXExporter struct{}

func NewXLSXExporter() *XLSXExporter { return &XLSXExporter{} }

func (e *XLSXExporter) Extension() string { return "xlsx" }

func (e *XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (e *XLSXExporter) Write(w io.Writer, table *model.ResultTable) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	header := make([]interface{}, len(model.Columns))
	for i, col := range model.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(model.Columns))
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	if table != nil && len(table.Rows) > 0 {
		for i, row := range table.Rows {
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return err
			}
			values := row.Values()
			values[3] = publishedDay(row.PublishedDate)
			if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
				return fmt.Errorf("failed to write row %d: %w", i+1, err)
			}
		}
		dateFmt := DateFormat
		dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
		if err != nil {
			return fmt.Errorf("failed to create date style: %w", err)
		}
		if err := f.SetCellStyle(SheetName, "D2", fmt.Sprintf("D%d", len(table.Rows)+1), dateStyle); err != nil {
			return fmt.Errorf("failed to style dates: %w", err)
		}
	}
	_ = f.SetColWidth(SheetName, "A", "B", 40)
	_ = f.SetColWidth(SheetName, "C", "D", 16)
	_ = f.SetColWidth(SheetName, "E", "E", 60)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// publishedDay drops the time part so the cell holds a whole-day serial.
func publishedDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
