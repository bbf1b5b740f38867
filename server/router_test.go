package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pawissanan/Get-YouTube-View/domain/model"
	"github.com/Pawissanan/Get-YouTube-View/infrastructure/metrics"
	"github.com/Pawissanan/Get-YouTube-View/infrastructure/realtime"
	"github.com/Pawissanan/Get-YouTube-View/infrastructure/utils"
	httpHandler "github.com/Pawissanan/Get-YouTube-View/interfaces/http"
	"github.com/Pawissanan/Get-YouTube-View/usecase"
)

type quotaOnlyUsecase struct{}

func (quotaOnlyUsecase) Run(context.Context, usecase.RunInput) (*model.RunResult, error) {
	return &model.RunResult{}, nil
}

func (quotaOnlyUsecase) EstimateQuota(channels, maxVideos int) model.QuotaEstimate {
	return model.EstimateQuota(channels, maxVideos)
}

func newRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := httpHandler.NewExtractionHandler(quotaOnlyUsecase{}, nil, realtime.NewProgressHub(), httpHandler.ExtractionDefaults{})
	return InitiateRouter(RouterConfig{SecretKey: secret}, h, httpHandler.NewHealthHandler(nil), metrics.New())
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_PublicRoutes(t *testing.T) {
	r := newRouter("s3cret")

	assert.Equal(t, http.StatusOK, get(r, "/healthz", "").Code)

	w := get(r, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestRouter_APIRequiresToken(t *testing.T) {
	r := newRouter("s3cret")

	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/extractions/quota?channels=1", "").Code)

	token, err := utils.IssueAPIToken("test", time.Minute, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, get(r, "/api/extractions/quota?channels=1", token).Code)
}

func TestRouter_OpenAPIWithoutSecret(t *testing.T) {
	r := newRouter("")

	assert.Equal(t, http.StatusOK, get(r, "/api/extractions/quota?channels=2&max_videos=10", "").Code)
}
