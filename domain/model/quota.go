package model

// QuotaEstimate breaks down the expected API quota usage of a run.
// Every call the pipeline makes costs one unit.
type QuotaEstimate struct {
	ChannelUnits  int `json:"channel_units"`
	PlaylistUnits int `json:"playlist_units"`
	VideoUnits    int `json:"video_units"`
	Total         int `json:"total"`
}

// EstimateQuota returns channels + channels*ceil(maxVideos/PageSize) + channels*maxVideos.
// It is informational only; runs are never stopped on it.
func EstimateQuota(channels, maxVideos int) QuotaEstimate {
	if channels < 0 {
		channels = 0
	}
	if maxVideos < 0 {
		maxVideos = 0
	}
	pages := (maxVideos + PageSize - 1) / PageSize
	e := QuotaEstimate{
		ChannelUnits:  channels,
		PlaylistUnits: channels * pages,
		VideoUnits:    channels * maxVideos,
	}
	e.Total = e.ChannelUnits + e.PlaylistUnits + e.VideoUnits
	return e
}
