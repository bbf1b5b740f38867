package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/go-querystring/query"
	"github.com/google/uuid"

	"github.com/Pawissanan/Get-YouTube-View/domain/dto"
	"github.com/Pawissanan/Get-YouTube-View/domain/model"
	"github.com/Pawissanan/Get-YouTube-View/domain/repository"
	"github.com/Pawissanan/Get-YouTube-View/infrastructure/export"
	"github.com/Pawissanan/Get-YouTube-View/infrastructure/logger"
	"github.com/Pawissanan/Get-YouTube-View/infrastructure/realtime"
	"github.com/Pawissanan/Get-YouTube-View/usecase"
)

// APIKeyHeader carries the YouTube credential on GET requests so it stays out of URLs.
const APIKeyHeader = "X-YouTube-API-Key"

const exportPath = "/api/extractions/export"

type IExtractionHandler interface {
	Run(ctx *gin.Context)
	Export(ctx *gin.Context)
	Sheet(ctx *gin.Context)
	Quota(ctx *gin.Context)
	Events(ctx *gin.Context)
}

// ExtractionDefaults fill request fields the caller left empty.
type ExtractionDefaults struct {
	APIKey    string
	// HasToken allows runs without an API key when an OAuth token is configured.
	HasToken  bool
	MaxVideos int
}

type ExtractionHandler struct {
	extractionUsecase usecase.IExtractionUsecase
	sheetExporter     repository.ISheetExporter
	hub               *realtime.Hub
	defaults          ExtractionDefaults
}

// NewExtractionHandler wires the extraction endpoints. sheetExporter may be nil
// when Google Sheets is not configured.
func NewExtractionHandler(
	extractionUsecase usecase.IExtractionUsecase,
	sheetExporter repository.ISheetExporter,
	hub *realtime.Hub,
	defaults ExtractionDefaults,
) IExtractionHandler {
	if defaults.MaxVideos <= 0 || defaults.MaxVideos > dto.MaxMaxVideos {
		defaults.MaxVideos = dto.DefaultMaxVideos
	}
	return &ExtractionHandler{
		extractionUsecase: extractionUsecase,
		sheetExporter:     sheetExporter,
		hub:               hub,
		defaults:          defaults,
	}
}

// Run handles POST /api/extractions
func (h *ExtractionHandler) Run(ctx *gin.Context) {
	var req dto.ExtractionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
		return
	}

	result, criteria, ok := h.run(ctx, &req)
	if !ok {
		return
	}

	res := dto.NewExtractionResponse(result, h.extractionUsecase.EstimateQuota(len(req.Channels()), criteria.MaxVideos))
	if !result.NoData() {
		res.ExportURL = exportURL(&req)
	}
	ctx.JSON(http.StatusOK, res)
}

// Export handles GET /api/extractions/export?format=xlsx|csv
func (h *ExtractionHandler) Export(ctx *gin.Context) {
	var req dto.ExtractionRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query", "message": err.Error()})
		return
	}
	if key := ctx.GetHeader(APIKeyHeader); key != "" {
		req.APIKey = key
	}

	exp, err := export.ForFormat(ctx.Query("format"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, _, ok := h.run(ctx, &req)
	if !ok {
		return
	}
	if result.NoData() {
		ctx.JSON(http.StatusNotFound, gin.H{"error": model.NoDataMessage, "warnings": result.Warnings})
		return
	}

	var buf bytes.Buffer
	if err := exp.Write(&buf, &result.Table); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while write export")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build export", "message": err.Error()})
		return
	}
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, req.ExportFileName(exp.Extension())))
	ctx.Data(http.StatusOK, exp.ContentType(), buf.Bytes())
}

// Sheet handles POST /api/extractions/sheet
func (h *ExtractionHandler) Sheet(ctx *gin.Context) {
	if h.sheetExporter == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google Sheets export is not configured"})
		return
	}
	var req dto.ExtractionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
		return
	}

	result, _, ok := h.run(ctx, &req)
	if !ok {
		return
	}
	res := dto.SheetExportResponse{Warnings: result.Warnings}
	if result.NoData() {
		res.Message = model.NoDataMessage
		ctx.JSON(http.StatusOK, res)
		return
	}

	written, err := h.sheetExporter.WriteTable(ctx.Request.Context(), &result.Table)
	if err != nil {
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "Failed to write Google Sheet", "message": err.Error()})
		return
	}
	res.SpreadsheetID = written.SpreadsheetID
	res.UpdatedRange = written.UpdatedRange
	res.UpdatedRows = written.UpdatedRows
	ctx.JSON(http.StatusOK, res)
}

// Quota handles GET /api/extractions/quota?channels=&max_videos=
func (h *ExtractionHandler) Quota(ctx *gin.Context) {
	var req dto.QuotaEstimateRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query", "message": err.Error()})
		return
	}
	if req.MaxVideos == 0 {
		req.MaxVideos = h.defaults.MaxVideos
	}
	ctx.JSON(http.StatusOK, h.extractionUsecase.EstimateQuota(req.Channels, req.MaxVideos))
}

// Events handles GET /api/extractions/:runId/events
func (h *ExtractionHandler) Events(ctx *gin.Context) {
	h.hub.Serve(ctx)
}

// run validates req and executes the pipeline. It writes the error response
// itself and reports ok=false when the caller should stop.
func (h *ExtractionHandler) run(ctx *gin.Context, req *dto.ExtractionRequest) (*model.RunResult, model.FilterCriteria, bool) {
	if req.MaxVideos == 0 {
		req.MaxVideos = h.defaults.MaxVideos
	}
	req.ApplyDefaults(h.defaults.APIKey, h.defaults.HasToken)
	criteria, err := req.Criteria()
	if err != nil {
		var verr *dto.ValidationError
		if errors.As(err, &verr) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "fields": verr.Fields})
		} else {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return nil, criteria, false
	}
	if req.RunID == "" {
		req.RunID = uuid.NewString()
	}

	result, err := h.extractionUsecase.Run(ctx.Request.Context(), usecase.RunInput{
		RunID:      req.RunID,
		APIKey:     req.APIKey,
		ChannelIDs: req.Channels(),
		Criteria:   criteria,
		Progress:   h.hub.Progress(req.RunID),
	})
	if err != nil {
		logger.GetLogger().WithField("error", err).WithField("runId", req.RunID).Error("Error while run extraction")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run extraction", "message": err.Error()})
		return nil, criteria, false
	}
	return result, criteria, true
}

// exportURL re-encodes the request so the same run can be downloaded. The API key is never included.
func exportURL(req *dto.ExtractionRequest) string {
	values, err := query.Values(req)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Error while encode export url")
		return ""
	}
	values.Set("format", "xlsx")
	return (&url.URL{Path: exportPath, RawQuery: values.Encode()}).String()
}
