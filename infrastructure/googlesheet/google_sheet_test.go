package googlesheet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/Pawissanan/Get-YouTube-View/domain/model"
)

func TestWriteTable(t *testing.T) {
	var cleared bool
	var written struct {
		Values [][]interface{} `json:"values"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":clear"):
			cleared = true
			_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-1","clearedRange":"Data!A1:Z1000"}`))
		case r.Method == http.MethodPut && strings.Contains(r.URL.Path, "/v4/spreadsheets/sheet-1/values/"):
			assert.Equal(t, "RAW", r.URL.Query().Get("valueInputOption"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&written))
			_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-1","updatedRange":"Data!A1:E2","updatedRows":2}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	gs, err := NewGoogleSheet(context.Background(), Config{SpreadsheetID: "sheet-1", SheetName: "Data"},
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	table := &model.ResultTable{Rows: []model.ResultRow{{
		ChannelName: "Tech Talks", VideoTitle: "Launch", ViewCount: 12,
		PublishedDate: time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC), Description: "#AI",
	}}}
	res, err := gs.WriteTable(context.Background(), table)

	require.NoError(t, err)
	assert.True(t, cleared)
	assert.Equal(t, "Data!A1:E2", res.UpdatedRange)
	assert.Equal(t, int64(2), res.UpdatedRows)
	require.Len(t, written.Values, 2)
	assert.Equal(t, "Channel Name", written.Values[0][0])
	assert.Equal(t, "2023-01-10", written.Values[1][3])
	assert.Equal(t, float64(12), written.Values[1][2])
}

func TestWriteTable_ClearFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"caller does not have permission"}}`))
	}))
	defer srv.Close()

	gs, err := NewGoogleSheet(context.Background(), Config{SpreadsheetID: "sheet-1"},
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	_, err = gs.WriteTable(context.Background(), &model.ResultTable{})
	assert.ErrorContains(t, err, "failed to clear sheet")
}

func TestNewGoogleSheet_RequiresSpreadsheetID(t *testing.T) {
	_, err := NewGoogleSheet(context.Background(), Config{})
	assert.Error(t, err)
}
