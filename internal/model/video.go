package model

import "time"

// VideoSample is one observed video as returned by the YouTube Data API.
// Immutable once fetched; the scoring core never mutates it.
type VideoSample struct {
	VideoID         string    `json:"videoId"`
	Title           string    `json:"title,omitempty"`
	ChannelID       string    `json:"channelId,omitempty"`
	ChannelTitle    string    `json:"channelTitle,omitempty"`
	ViewCount       int64     `json:"viewCount"`
	PublishedAt     time.Time `json:"publishedAt"`
	Thumbnail       string    `json:"thumbnail,omitempty"`
	DurationSeconds int       `json:"durationSeconds,omitempty"`
	Length          string    `json:"length,omitempty"`
	IsShort         bool      `json:"isShort,omitempty"`
}

// ScoredVideo is a VideoSample annotated with its outlier score.
type ScoredVideo struct {
	VideoSample
	OutlierScore float64 `json:"outlierScore"`
}

// ChannelVideosResponse is the API response for channel video listings.
type ChannelVideosResponse struct {
	ChannelID string        `json:"channelId"`
	Videos    []ScoredVideo `json:"videos"`
	FetchedAt time.Time     `json:"fetchedAt"`
}

// Outlier is a stored outlier discovery for a tracked channel: a video from
// another channel whose views are disproportionate to that channel's baseline.
type Outlier struct {
	VideoID      string    `json:"videoId"`
	ChannelID    string    `json:"channelId"`
	Title        string    `json:"title"`
	ChannelTitle string    `json:"channelTitle"`
	OutlierScore float64   `json:"outlierScore"`
	Views        int64     `json:"views"`
	PublishedAt  time.Time `json:"publishedAt"`
	CreatedAt    time.Time `json:"createdAt"`
}
