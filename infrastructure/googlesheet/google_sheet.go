package googlesheet

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Pawissanan/Get-YouTube-View/domain/model"
	"github.com/Pawissanan/Get-YouTube-View/domain/repository"
	"github.com/Pawissanan/Get-YouTube-View/infrastructure/logger"
)

// Config identifies the target spreadsheet tab and the service account key.
type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsFile string
}

// GoogleSheet writes result tables to one tab of a Google spreadsheet.
type GoogleSheet struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
}

// NewGoogleSheet creates a Sheets client. Extra options override the credentials file.
func NewGoogleSheet(ctx context.Context, cfg Config, opts ...option.ClientOption) (*GoogleSheet, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("google sheet spreadsheet id is required")
	}
	var base []option.ClientOption
	if cfg.CredentialsFile != "" {
		base = append(base, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	base = append(base, option.WithScopes(sheets.SpreadsheetsScope))

	service, err := sheets.NewService(ctx, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	sheetName := cfg.SheetName
	if sheetName == "" {
		sheetName = "Sheet1"
	}
	return &GoogleSheet{service: service, spreadsheetID: cfg.SpreadsheetID, sheetName: sheetName}, nil
}

// WriteTable clears the tab and writes the header plus every row starting at A1.
func (g *GoogleSheet) WriteTable(ctx context.Context, table *model.ResultTable) (*repository.SheetWriteResult, error) {
	if _, err := g.service.Spreadsheets.Values.
		Clear(g.spreadsheetID, g.sheetName, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do(); err != nil {
		return nil, fmt.Errorf("failed to clear sheet: %w", err)
	}

	values := make([][]interface{}, 0, table.Len()+1)
	header := make([]interface{}, len(model.Columns))
	for i, col := range model.Columns {
		header[i] = col
	}
	values = append(values, header)
	if table != nil {
		for _, row := range table.Rows {
			values = append(values, row.Values())
		}
	}

	resp, err := g.service.Spreadsheets.Values.
		Update(g.spreadsheetID, g.sheetName+"!A1", &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update sheet: %w", err)
	}

	logger.GetLogger().
		WithField("spreadsheetId", g.spreadsheetID).
		WithField("updatedRange", resp.UpdatedRange).
		WithField("updatedRows", resp.UpdatedRows).
		Info("Google sheet updated")
	return &repository.SheetWriteResult{
		SpreadsheetID: g.spreadsheetID,
		UpdatedRange:  resp.UpdatedRange,
		UpdatedRows:   resp.UpdatedRows,
	}, nil
}
