package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Pawissanan/Get-YouTube-View/domain/model"
)

func sampleTable() *model.ResultTable {
	return &model.ResultTable{Rows: []model.ResultRow{
		{ChannelName: "Tech Talks", VideoTitle: "Launch, part 1", ViewCount: 1234, PublishedDate: time.Date(2023, 1, 10, 8, 0, 0, 0, time.UTC), Description: "#AI, #tech"},
		{ChannelName: "Tech Talks", VideoTitle: "Recap", ViewCount: 0, PublishedDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	}}
}

func TestXLSXExporter_Write(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewXLSXExporter().Write(&buf, sampleTable()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, model.Columns, rows[0])
	assert.Equal(t, []string{"Tech Talks", "Launch, part 1", "1234", "2023-01-10", "#AI, #tech"}, rows[1])
	assert.Equal(t, []string{"Tech Talks", "Recap", "0", "2024-02-01"}, rows[2])
}

func TestXLSXExporter_WritesDateCells(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewXLSXExporter().Write(&buf, sampleTable()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	raw, err := f.GetCellValue(SheetName, "D2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "44936", raw)

	styleID, err := f.GetCellStyle(SheetName, "D3")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.CustomNumFmt)
	assert.Equal(t, DateFormat, *style.CustomNumFmt)
}

func TestXLSXExporter_EmptyTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewXLSXExporter().Write(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestCSVExporter_Write(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVExporter().Write(&buf, sampleTable()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, model.Columns, records[0])
	assert.Equal(t, "Launch, part 1", records[1][1])
	assert.Equal(t, []string{"Tech Talks", "Recap", "0", "2024-02-01", ""}, records[2])
}

func TestForFormat(t *testing.T) {
	exp, err := ForFormat("")
	require.NoError(t, err)
	assert.Equal(t, "xlsx", exp.Extension())

	exp, err = ForFormat("CSV")
	require.NoError(t, err)
	assert.Equal(t, "csv", exp.Extension())
	assert.Contains(t, exp.ContentType(), "text/csv")

	_, err = ForFormat("pdf")
	assert.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "youtube_data_012023_062024.csv")
	require.NoError(t, WriteFile(path, NewCSVExporter(), sampleTable()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Channel Name,Video Title,View Count,Published Date,Description")
}
