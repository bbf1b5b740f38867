package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Pawissanan/Get-YouTube-View/domain/model"
	"github.com/Pawissanan/Get-YouTube-View/infrastructure/logger"
)

// IExporter renders a result table into a downloadable file format.
type IExporter interface {
	Extension() string
	ContentType() string
	Write(w io.Writer, table *model.ResultTable) error
}

// ForFormat returns the exporter for "xlsx" (default) or "csv".
func ForFormat(format string) (IExporter, error) {
	switch strings.ToLower(format) {
	case "", "xlsx":
		return NewXLSXExporter(), nil
	case "csv":
		return NewCSVExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// WriteFile writes the table to path using exp.
func WriteFile(path string, exp IExporter, table *model.ResultTable) error {
	f, err := os.Create(path)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while create file")
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := exp.Write(f, table); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
