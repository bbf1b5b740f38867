package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Pawissanan/Get-YouTube-View/domain/model"
	"github.com/Pawissanan/Get-YouTube-View/domain/repository"
	"github.com/Pawissanan/Get-YouTube-View/infrastructure/logger"
)

// ProgressFunc observes pipeline progress. It is called synchronously from Run.
type ProgressFunc func(model.ProgressEvent)

// RunInput is everything one extraction run needs.
type RunInput struct {
	RunID      string
	APIKey     string
	ChannelIDs []string
	Criteria   model.FilterCriteria
	// Progress is optional.
	Progress ProgressFunc
}

// IExtractionUsecase runs the channel extraction pipeline.
type IExtractionUsecase interface {
	Run(ctx context.Context, in RunInput) (*model.RunResult, error)
	EstimateQuota(channels, maxVideos int) model.QuotaEstimate
}

// ExtractionUsecase resolves each channel, walks its uploads playlist and
// enriches the videos inside the date window, one API call at a time.
type ExtractionUsecase struct {
	newYouTube repository.YouTubeFactory
	notifiers  []repository.IRunNotifier
	now        func() time.Time
}

// NewExtractionUsecase creates the use case; factory is called once per run with the run's API key.
func NewExtractionUsecase(factory repository.YouTubeFactory) *ExtractionUsecase {
	return &ExtractionUsecase{newYouTube: factory, now: func() time.Time { return time.Now().UTC() }}
}

// WithNotifier adds a run-completed notifier (fluent). Nil notifiers are ignored.
func (u *ExtractionUsecase) WithNotifier(n repository.IRunNotifier) *ExtractionUsecase {
	if n != nil {
		u.notifiers = append(u.notifiers, n)
	}
	return u
}

// EstimateQuota returns the informational quota estimate for a run.
func (u *ExtractionUsecase) EstimateQuota(channels, maxVideos int) model.QuotaEstimate {
	return model.EstimateQuota(channels, maxVideos)
}

// Run processes every channel in order and concatenates their rows.
// Channel level failures are reported in the result; only a failure to build
// the provider or a cancelled context is returned as an error.
func (u *ExtractionUsecase) Run(ctx context.Context, in RunInput) (*model.RunResult, error) {
	yt, err := u.newYouTube(ctx, in.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube client: %w", err)
	}

	result := &model.RunResult{RunID: in.RunID, Warnings: []string{}}
	total := len(in.ChannelIDs)
	for i, channelID := range in.ChannelIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		in.emit(model.ProgressEvent{
			Stage:        model.ProgressChannelStarted,
			ChannelID:    channelID,
			ChannelIndex: i,
			ChannelCount: total,
			Rows:         result.Table.Len(),
		})

		outcome := u.processChannel(ctx, yt, channelID, in.Criteria)
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result.Outcomes = append(result.Outcomes, outcome)
		if outcome.Status == model.ChannelSucceeded {
			result.Table.Append(outcome.Rows...)
		} else {
			result.Warnings = append(result.Warnings, outcome.Warning())
			logger.GetLogger().WithFields(map[string]interface{}{
				"runId":     in.RunID,
				"channelId": channelID,
				"status":    outcome.Status,
				"reason":    outcome.Reason,
			}).Warn("Channel produced no rows")
		}

		in.emit(model.ProgressEvent{
			Stage:        model.ProgressChannelFinished,
			ChannelID:    channelID,
			ChannelIndex: i,
			ChannelCount: total,
			Status:       outcome.Status,
			Rows:         result.Table.Len(),
		})
	}

	in.emit(model.ProgressEvent{Stage: model.ProgressRunFinished, ChannelCount: total, Rows: result.Table.Len()})
	u.notify(ctx, result.Summary(in.Criteria, u.now()))

	logger.GetLogger().WithFields(map[string]interface{}{
		"runId":    in.RunID,
		"channels": total,
		"rows":     result.Table.Len(),
		"warnings": len(result.Warnings),
	}).Info("Extraction run finished")
	return result, nil
}

// processChannel contains every error of one channel behind a typed outcome.
func (u *ExtractionUsecase) processChannel(ctx context.Context, yt repository.IYouTube, channelID string, criteria model.FilterCriteria) model.ChannelOutcome {
	ref, err := yt.ResolveChannel(ctx, channelID)
	if errors.Is(err, repository.ErrChannelNotFound) {
		return model.ChannelOutcome{ChannelID: channelID, Status: model.ChannelSkipped, Reason: err.Error()}
	}
	if err != nil {
		return model.ChannelOutcome{ChannelID: channelID, Status: model.ChannelFailed, Reason: err.Error()}
	}

	rows, err := u.walkUploads(ctx, yt, ref, criteria)
	if err != nil {
		// partial rows of a failed channel are discarded
		return model.ChannelOutcome{ChannelID: channelID, ChannelName: ref.Title, Status: model.ChannelFailed, Reason: err.Error()}
	}
	return model.ChannelOutcome{
		ChannelID:   channelID,
		ChannelName: ref.Title,
		Status:      model.ChannelSucceeded,
		Rows:        rows,
		RowCount:    len(rows),
	}
}

// walkUploads pages through the uploads playlist until the listing ends or
// MaxVideos rows have been emitted. No page or video is fetched past the cap.
func (u *ExtractionUsecase) walkUploads(ctx context.Context, yt repository.IYouTube, ref *model.ChannelRef, criteria model.FilterCriteria) ([]model.ResultRow, error) {
	rows := make([]model.ResultRow, 0)
	pageToken := ""
	for len(rows) < criteria.MaxVideos {
		page, err := yt.ListPlaylistPage(ctx, ref.UploadsPlaylistID, pageToken)
		if err != nil {
			return nil, err
		}

		for _, item := range itemsInWindow(page.Items, criteria.Window) {
			if len(rows) >= criteria.MaxVideos {
				break
			}
			record, err := enrichVideo(ctx, yt, item, criteria)
			if err != nil {
				return nil, err
			}
			if record == nil {
				continue
			}
			rows = append(rows, newResultRow(ref.Title, record, criteria.IncludeDescription))
		}

		if page.NextPageToken == "" || page.NextPageToken == pageToken {
			break
		}
		pageToken = page.NextPageToken
	}
	return rows, nil
}

type windowedItem struct {
	videoID     string
	publishedAt time.Time
}

// itemsInWindow keeps page order. Items without a parsable timestamp cannot be
// placed in the window and are dropped.
func itemsInWindow(items []model.PlaylistItem, window model.DateWindow) []windowedItem {
	out := make([]windowedItem, 0, len(items))
	for _, item := range items {
		publishedAt, err := model.ParsePublishedAt(item.PublishedAt)
		if err != nil {
			logger.GetLogger().WithField("videoId", item.VideoID).WithField("error", err).Debug("Skipping playlist item without publish date")
			continue
		}
		if window.Contains(publishedAt) {
			out = append(out, windowedItem{videoID: item.VideoID, publishedAt: publishedAt})
		}
	}
	return out
}

// enrichVideo fetches one video and applies the keyword and hashtag filters.
// It returns nil when the video is filtered out or no longer exists.
func enrichVideo(ctx context.Context, yt repository.IYouTube, item windowedItem, criteria model.FilterCriteria) (*model.VideoRecord, error) {
	details, err := yt.GetVideoDetails(ctx, item.videoID)
	if errors.Is(err, repository.ErrVideoNotFound) {
		logger.GetLogger().WithField("videoId", item.videoID).Debug("Skipping video missing from videos.list")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	record := &model.VideoRecord{
		ID:          item.videoID,
		Title:       details.Title,
		ViewCount:   details.ViewCount,
		PublishedAt: item.publishedAt,
		Description: details.Description,
	}
	if !criteria.MatchesKeyword(record.Title, record.Description) {
		return nil, nil
	}
	if criteria.IncludeDescription {
		record.Hashtags = model.ExtractHashtags(record.Description)
		if !criteria.MatchesHashtags(record.Hashtags) {
			return nil, nil
		}
	}
	return record, nil
}

func newResultRow(channelName string, record *model.VideoRecord, includeDescription bool) model.ResultRow {
	row := model.ResultRow{
		ChannelName:   channelName,
		VideoTitle:    record.Title,
		ViewCount:     record.ViewCount,
		PublishedDate: record.PublishedAt,
	}
	if includeDescription {
		row.Description = model.JoinHashtags(record.Hashtags)
	}
	return row
}

func (u *ExtractionUsecase) notify(ctx context.Context, summary model.RunSummary) {
	for _, n := range u.notifiers {
		if err := n.NotifyRunCompleted(ctx, summary); err != nil {
			logger.GetLogger().WithField("error", err).WithField("runId", summary.RunID).Error("Failed to publish run summary")
		}
	}
}

func (in RunInput) emit(evt model.ProgressEvent) {
	if in.Progress != nil {
		in.Progress(evt)
	}
}
