package repository

import (
	"context"

	"github.com/Pawissanan/Get-YouTube-View/domain/model"
)

// SheetWriteResult reports where a table landed in a spreadsheet.
type SheetWriteResult struct {
	SpreadsheetID string
	UpdatedRange  string
	UpdatedRows   int64
}

// ISheetExporter replaces the contents of a spreadsheet tab with a result table.
type ISheetExporter interface {
	WriteTable(ctx context.Context, table *model.ResultTable) (*SheetWriteResult, error)
}
