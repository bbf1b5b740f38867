package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pawissanan/Get-YouTube-View/domain/model"
)

func TestParseMonthYear(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    model.MonthYear
		wantErr bool
	}{
		{name: "january", input: "012023", want: model.MonthYear{Month: 1, Year: 2023}},
		{name: "december", input: "122024", want: model.MonthYear{Month: 12, Year: 2024}},
		{name: "too short", input: "12023", wantErr: true},
		{name: "month zero", input: "002023", wantErr: true},
		{name: "month thirteen", input: "132023", wantErr: true},
		{name: "letters", input: "ab2023", wantErr: true},
		{name: "bad year", input: "01yyyy", wantErr: true},
		{name: "signed month", input: "+12023", wantErr: true},
		{name: "signed year", input: "01-023", wantErr: true},
		{name: "spaces", input: " 12023", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := model.ParseMonthYear(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestDateWindowContains(t *testing.T) {
	window := model.DateWindow{
		Start: model.MonthYear{Month: 1, Year: 2023},
		End:   model.MonthYear{Month: 6, Year: 2024},
	}
	date := func(y int, m time.Month) time.Time { return time.Date(y, m, 15, 12, 0, 0, 0, time.UTC) }

	assert.True(t, window.Contains(date(2023, time.January)))
	assert.True(t, window.Contains(date(2023, time.March)))
	assert.True(t, window.Contains(date(2024, time.January)))
	assert.True(t, window.Contains(date(2024, time.June)))
	assert.False(t, window.Contains(date(2022, time.March)))
	assert.False(t, window.Contains(date(2025, time.March)))

	// Months are compared independently of years.
	assert.False(t, window.Contains(date(2023, time.November)))
	assert.False(t, window.Contains(date(2024, time.July)))
}

func TestDateWindowContainsAcrossYearBoundary(t *testing.T) {
	window := model.DateWindow{
		Start: model.MonthYear{Month: 11, Year: 2023},
		End:   model.MonthYear{Month: 2, Year: 2024},
	}
	// start month > end month admits nothing.
	assert.False(t, window.Contains(time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, window.Contains(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)))
}

func TestParsePublishedAt(t *testing.T) {
	got, err := model.ParsePublishedAt("2023-01-15T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, time.January, 15, 10, 30, 0, 0, time.UTC), got)

	got, err = model.ParsePublishedAt("2023-03-01T00:00:00.123Z")
	require.NoError(t, err)
	assert.Equal(t, time.March, got.Month())

	_, err = model.ParsePublishedAt("")
	assert.Error(t, err)
}
