package model

import (
	"strings"
	"time"
)

// PageSize is the number of playlist items requested per page.
const PageSize = 50

// FilterCriteria is the immutable set of filters applied to one run.
type FilterCriteria struct {
	Window DateWindow
	// Keyword is lower-cased; empty disables the keyword filter.
	Keyword string
	// Hashtags holds lower-cased tokens such as "#ai"; empty disables the hashtag filter.
	Hashtags []string
	// IncludeDescription controls hashtag extraction and the Description column.
	IncludeDescription bool
	// MaxVideos caps the rows emitted per channel.
	MaxVideos int
}

// MatchesKeyword reports whether the keyword occurs in title or description, ignoring case.
// It is always true when no keyword is set.
func (c FilterCriteria) MatchesKeyword(title, description string) bool {
	if c.Keyword == "" {
		return true
	}
	return strings.Contains(strings.ToLower(title), c.Keyword) ||
		strings.Contains(strings.ToLower(description), c.Keyword)
}

// MatchesHashtags reports whether at least one extracted hashtag is in the filter set.
// It is always true when the filter set is empty.
func (c FilterCriteria) MatchesHashtags(tags []string) bool {
	if len(c.Hashtags) == 0 {
		return true
	}
	for _, tag := range tags {
		lower := strings.ToLower(tag)
		for _, want := range c.Hashtags {
			if lower == want {
				return true
			}
		}
	}
	return false
}

// VideoRecord is a video that survived the date window, enriched with its details.
type VideoRecord struct {
	ID          string
	Title       string
	ViewCount   uint64
	PublishedAt time.Time
	Description string
	Hashtags    []string
}

// ResultRow is one row of the exported table.
type ResultRow struct {
	ChannelName   string    `json:"channel_name"`
	VideoTitle    string    `json:"video_title"`
	ViewCount     uint64    `json:"view_count"`
	PublishedDate time.Time `json:"published_date"`
	Description   string    `json:"description"`
}

// PublishedDay formats the published date without its time part.
func (r ResultRow) PublishedDay() string {
	return r.PublishedDate.Format("2006-01-02")
}

// Values returns the row in column order.
func (r ResultRow) Values() []interface{} {
	return []interface{}{r.ChannelName, r.VideoTitle, r.ViewCount, r.PublishedDay(), r.Description}
}

// Columns of the result table, in export order.
var Columns = []string{"Channel Name", "Video Title", "View Count", "Published Date", "Description"}

// ResultTable is the ordered concatenation of every channel's rows.
type ResultTable struct {
	Rows []ResultRow `json:"rows"`
}

// Len returns the number of rows.
func (t *ResultTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Append adds rows keeping their order.
func (t *ResultTable) Append(rows ...ResultRow) {
	t.Rows = append(t.Rows, rows...)
}

// ChannelStatus is the terminal state of one channel's processing.
type ChannelStatus string

const (
	ChannelSucceeded ChannelStatus = "succeeded"
	ChannelSkipped   ChannelStatus = "skipped"
	ChannelFailed    ChannelStatus = "failed"
)

// ChannelOutcome is the typed result of processing a single channel.
// Rows is empty unless Status is ChannelSucceeded.
type ChannelOutcome struct {
	ChannelID   string        `json:"channel_id"`
	ChannelName string        `json:"channel_name,omitempty"`
	Status      ChannelStatus `json:"status"`
	Rows        []ResultRow   `json:"-"`
	RowCount    int           `json:"row_count"`
	Reason      string        `json:"reason,omitempty"`
}

// Warning is the user-visible message for skipped and failed channels.
func (o ChannelOutcome) Warning() string {
	switch o.Status {
	case ChannelSkipped:
		return "No items found for channel ID: " + o.ChannelID
	case ChannelFailed:
		return "An error occurred: " + o.Reason
	default:
		return ""
	}
}

// NoDataMessage is shown when no channel yielded any row.
const NoDataMessage = "No data found for the selected period."

// RunResult is everything one pipeline run produces.
type RunResult struct {
	RunID    string           `json:"run_id,omitempty"`
	Table    ResultTable      `json:"table"`
	Outcomes []ChannelOutcome `json:"channels"`
	Warnings []string         `json:"warnings"`
}

// NoData reports whether every channel yielded zero rows.
func (r *RunResult) NoData() bool {
	return r == nil || r.Table.Len() == 0
}

// Summary condenses the run for notifications.
func (r *RunResult) Summary(criteria FilterCriteria, finishedAt time.Time) RunSummary {
	s := RunSummary{
		RunID:          r.RunID,
		StartMonthYear: criteria.Window.Start.String(),
		EndMonthYear:   criteria.Window.End.String(),
		Channels:       len(r.Outcomes),
		Rows:           r.Table.Len(),
		Warnings:       r.Warnings,
		FinishedAt:     finishedAt,
	}
	for _, o := range r.Outcomes {
		switch o.Status {
		case ChannelSucceeded:
			s.Succeeded++
		case ChannelSkipped:
			s.Skipped++
		case ChannelFailed:
			s.Failed++
		}
	}
	return s
}

// RunSummary is published once a run completes.
type RunSummary struct {
	RunID          string    `json:"run_id,omitempty"`
	StartMonthYear string    `json:"start_month_year"`
	EndMonthYear   string    `json:"end_month_year"`
	Channels       int       `json:"channels"`
	Succeeded      int       `json:"succeeded"`
	Skipped        int       `json:"skipped"`
	Failed         int       `json:"failed"`
	Rows           int       `json:"rows"`
	Warnings       []string  `json:"warnings,omitempty"`
	FinishedAt     time.Time `json:"finished_at"`
}

// ProgressStage identifies a progress event.
type ProgressStage string

const (
	ProgressChannelStarted  ProgressStage = "channel_started"
	ProgressChannelFinished ProgressStage = "channel_finished"
	ProgressRunFinished     ProgressStage = "run_finished"
)

// ProgressEvent reports pipeline progress to an optional observer.
type ProgressEvent struct {
	Stage        ProgressStage `json:"stage"`
	ChannelID    string        `json:"channel_id,omitempty"`
	ChannelIndex int           `json:"channel_index"`
	ChannelCount int           `json:"channel_count"`
	Status       ChannelStatus `json:"status,omitempty"`
	Rows         int           `json:"rows"`
}
