package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pawissanan/Get-YouTube-View/domain/dto"
	"github.com/Pawissanan/Get-YouTube-View/domain/model"
)

func validRequest() *dto.ExtractionRequest {
	return &dto.ExtractionRequest{
		APIKey:         "key",
		ChannelIDs:     "UC1\n  UC2 \n\n",
		StartMonthYear: "012023",
		EndMonthYear:   "062024",
		Keyword:        "Launch",
		Hashtags:       "#AI, #Tech ,,",
	}
}

func TestExtractionRequestCriteria(t *testing.T) {
	req := validRequest()
	req.ApplyDefaults("", false)

	criteria, err := req.Criteria()
	require.NoError(t, err)

	assert.Equal(t, []string{"UC1", "UC2"}, req.Channels())
	assert.Equal(t, model.MonthYear{Month: 1, Year: 2023}, criteria.Window.Start)
	assert.Equal(t, model.MonthYear{Month: 6, Year: 2024}, criteria.Window.End)
	assert.Equal(t, "launch", criteria.Keyword)
	assert.Equal(t, []string{"#ai", "#tech"}, criteria.Hashtags)
	assert.True(t, criteria.IncludeDescription)
	assert.Equal(t, dto.DefaultMaxVideos, criteria.MaxVideos)
}

func TestExtractionRequestIncludeDescriptionFalse(t *testing.T) {
	req := validRequest()
	off := false
	req.IncludeDescription = &off
	req.MaxVideos = 10
	req.ApplyDefaults("", false)

	criteria, err := req.Criteria()
	require.NoError(t, err)
	assert.False(t, criteria.IncludeDescription)
	assert.Equal(t, 10, criteria.MaxVideos)
}

func TestExtractionRequestRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *dto.ExtractionRequest)
	}{
		{name: "missing api key", mutate: func(r *dto.ExtractionRequest) { r.APIKey = "" }},
		{name: "blank channels", mutate: func(r *dto.ExtractionRequest) { r.ChannelIDs = " \n \n" }},
		{name: "missing start", mutate: func(r *dto.ExtractionRequest) { r.StartMonthYear = "" }},
		{name: "missing end", mutate: func(r *dto.ExtractionRequest) { r.EndMonthYear = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			req.ApplyDefaults("", false)

			_, err := req.Criteria()

			var verr *dto.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, dto.RequiredFieldsMessage, verr.Message)
		})
	}
}

func TestExtractionRequestDefaultAPIKey(t *testing.T) {
	req := validRequest()
	req.APIKey = ""
	req.ApplyDefaults("configured-key", false)

	assert.Equal(t, "configured-key", req.APIKey)
	assert.NoError(t, req.Validate())
}

func TestExtractionRequestTokenOnlyCredential(t *testing.T) {
	req := &dto.ExtractionRequest{ChannelIDs: "UC1", StartMonthYear: "012023", EndMonthYear: "062024"}
	req.ApplyDefaults("", true)

	_, err := req.Criteria()
	require.NoError(t, err)
	assert.Empty(t, req.APIKey)

	req = &dto.ExtractionRequest{ChannelIDs: "UC1", StartMonthYear: "012023", EndMonthYear: "062024"}
	req.ApplyDefaults("", false)

	_, err = req.Criteria()
	var verr *dto.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"APIKey"}, verr.Fields)
}

func TestExtractionRequestTokenStillRequiresOtherFields(t *testing.T) {
	req := &dto.ExtractionRequest{ChannelIDs: "UC1", StartMonthYear: "012023"}
	req.ApplyDefaults("", true)

	_, err := req.Criteria()
	var verr *dto.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"EndMonthYear"}, verr.Fields)
}

func TestExtractionRequestInvalidValues(t *testing.T) {
	req := validRequest()
	req.MaxVideos = 501
	req.ApplyDefaults("", false)
	_, err := req.Criteria()
	var verr *dto.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "MaxVideos")

	req = validRequest()
	req.StartMonthYear = "132023"
	req.ApplyDefaults("", false)
	_, err = req.Criteria()
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"StartMonthYear"}, verr.Fields)
}

func TestExportFileName(t *testing.T) {
	req := validRequest()
	assert.Equal(t, "youtube_data_012023_062024.xlsx", req.ExportFileName("xlsx"))
}

func TestParseHashtagsEmpty(t *testing.T) {
	assert.Empty(t, dto.ParseHashtags(""))
	assert.Empty(t, dto.ParseHashtags(" , ,"))
}
