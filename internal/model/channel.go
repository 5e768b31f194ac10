package model

import "time"

// Channel holds the YouTube metadata for a channel.
type Channel struct {
	ChannelID       string `json:"channelId"`
	ChannelTitle    string `json:"channelTitle"`
	Description     string `json:"description,omitempty"`
	Avatar          string `json:"avatar,omitempty"`
	UploadsID       string `json:"-"`
	SubscriberCount int64  `json:"subscriberCount"`
	TotalViews      int64  `json:"totalViews"`
	TotalVideos     int64  `json:"totalVideos"`
}

// ChannelProfile is the stored analysis of a tracked channel, produced once
// by the LLM-analysis collaborator and treated as opaque input by the
// insight classifier.
type ChannelProfile struct {
	UserID                  string    `json:"-"`
	ChannelID               string    `json:"channelId"`
	ChannelTitle            string    `json:"channelTitle"`
	AnalyzedNiche           string    `json:"analyzedNiche"`
	AnalyzedStyle           string    `json:"analyzedStyle"`
	AnalyzedAttentionMarket string    `json:"analyzedAttentionMarket"`
	CreatedAt               time.Time `json:"createdAt"`
}

// NicheChannel is one channel in a niche search result set.
type NicheChannel struct {
	ChannelID       string  `json:"channelId"`
	ChannelTitle    string  `json:"channelTitle"`
	Avatar          string  `json:"avatar,omitempty"`
	SubscriberCount int64   `json:"subscriberCount"`
	Score           float64 `json:"score"`
}

// CompetitorList is a named group of competitor channels under a tracked channel.
type CompetitorList struct {
	ListID    string    `json:"listId"`
	ChannelID string    `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Competitor is one entry in a competitor list.
type Competitor struct {
	CompetitorChannelID string    `json:"competitorChannelId"`
	ChannelTitle        string    `json:"channelTitle"`
	Avatar              string    `json:"avatar,omitempty"`
	SubscriberCount     int64     `json:"subscriberCount"`
	LastChecked         time.Time `json:"-"`
	CreatedAt           time.Time `json:"createdAt"`
}

// Notification tells a user about a competitor's new upload.
type Notification struct {
	ID        int64     `json:"id"`
	ChannelID string    `json:"channelId"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}
