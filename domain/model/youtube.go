package model

// ChannelRef is a channel resolved to its uploads playlist.
type ChannelRef struct {
	ID                string `json:"id"`
	UploadsPlaylistID string `json:"uploads_playlist_id"`
	Title             string `json:"title"`
}

// PlaylistItem is one entry of an uploads playlist page.
// PublishedAt is the raw ISO-8601 timestamp reported by the API.
type PlaylistItem struct {
	VideoID     string `json:"video_id"`
	PublishedAt string `json:"published_at"`
}

// PlaylistPage is one page of an uploads playlist.
// An empty NextPageToken means there are no further pages.
type PlaylistPage struct {
	Items         []PlaylistItem `json:"items"`
	NextPageToken string         `json:"next_page_token,omitempty"`
}

// VideoDetails holds the snippet and statistics fields the extractor reads.
type VideoDetails struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PublishedAt string `json:"published_at"`
	ViewCount   uint64 `json:"view_count"`
	// Etag is the API's entity tag of the video resource.
	Etag        string `json:"etag,omitempty"`
}
