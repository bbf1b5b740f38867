package dto

import (
	"github.com/Pawissanan/Get-YouTube-View/domain/model"
)

// Res is the error envelope used by middleware.
type Res struct {
	ResponseCode    string `json:"responseCode"`
	ResponseMessage string `json:"responseMessage"`
}

// ResultRow is a table row as rendered to API clients.
type ResultRow struct {
	ChannelName   string `json:"channel_name"`
	VideoTitle    string `json:"video_title"`
	ViewCount     uint64 `json:"view_count"`
	PublishedDate string `json:"published_date"`
	Description   string `json:"description"`
}

// ExtractionResponse is the JSON body returned for a run.
type ExtractionResponse struct {
	RunID     string                 `json:"run_id,omitempty"`
	Columns   []string               `json:"columns"`
	Rows      []ResultRow            `json:"rows"`
	Channels  []model.ChannelOutcome `json:"channels"`
	Warnings  []string               `json:"warnings"`
	Message   string                 `json:"message,omitempty"`
	Quota     model.QuotaEstimate    `json:"quota_estimate"`
	ExportURL string                 `json:"export_url,omitempty"`
}

// NewExtractionResponse renders a run result.
func NewExtractionResponse(res *model.RunResult, quota model.QuotaEstimate) *ExtractionResponse {
	out := &ExtractionResponse{
		RunID:    res.RunID,
		Columns:  model.Columns,
		Rows:     make([]ResultRow, 0, res.Table.Len()),
		Channels: res.Outcomes,
		Warnings: res.Warnings,
		Quota:    quota,
	}
	if out.Warnings == nil {
		out.Warnings = []string{}
	}
	for _, r := range res.Table.Rows {
		out.Rows = append(out.Rows, ResultRow{
			ChannelName:   r.ChannelName,
			VideoTitle:    r.VideoTitle,
			ViewCount:     r.ViewCount,
			PublishedDate: r.PublishedDay(),
			Description:   r.Description,
		})
	}
	if res.NoData() {
		out.Message = model.NoDataMessage
	}
	return out
}

// QuotaEstimateRequest asks for the quota estimate of a planned run.
type QuotaEstimateRequest struct {
	Channels  int `form:"channels" binding:"min=0"`
	MaxVideos int `form:"max_videos" binding:"min=0,max=500"`
}

// SheetExportResponse reports a Google Sheets export.
type SheetExportResponse struct {
	SpreadsheetID string   `json:"spreadsheet_id"`
	UpdatedRange  string   `json:"updated_range"`
	UpdatedRows   int64    `json:"updated_rows"`
	Warnings      []string `json:"warnings"`
	Message       string   `json:"message,omitempty"`
}
