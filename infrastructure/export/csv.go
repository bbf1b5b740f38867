package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/Pawissanan/Get-YouTube-View/domain/model"
)

// CSVExporter writes the table as RFC 4180 CSV with a header row.
type CSVExporter struct{}

func NewCSVExporter() *CSVExporter { return &CSVExporter{} }

func (e *CSVExporter) Extension() string { return "csv" }

func (e *CSVExporter) ContentType() string { return "text/csv; charset=utf-8" }

func (e *CSVExporter) Write(w io.Writer, table *model.ResultTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(model.Columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	if table != nil {
		for _, row := range table.Rows {
			record := []string{
				row.ChannelName,
				row.VideoTitle,
				strconv.FormatUint(row.ViewCount, 10),
				row.PublishedDay(),
				row.Description,
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write csv row: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
