package youtube

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sosodev/duration"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/shrike012/Streamline/internal/model"
)

// ErrChannelNotFound is returned when a channel lookup yields no items.
var ErrChannelNotFound = errors.New("youtube: channel not found")

const (
	pageSize = 50

	// Durations at or below this are treated as Shorts.
	shortsMaxSeconds = 180
)

// Client wraps the YouTube Data API for the subset of reads the scoring
// engine consumes: channel resolution, channel metadata, upload listings,
// and video search.
type Client struct {
	svc *youtube.Service
	log zerolog.Logger
}

// NewClient builds a Data API client authenticated with an API key.
func NewClient(ctx context.Context, apiKey string, log zerolog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("youtube: API key not configured")
	}
	svc, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("youtube: create service: %w", err)
	}
	return &Client{svc: svc, log: log}, nil
}

// ResolveHandle finds the channel ID behind an @handle.
func (c *Client) ResolveHandle(ctx context.Context, handle string) (string, error) {
	res, err := c.svc.Search.List([]string{"snippet"}).
		Q("@" + handle).
		Type("channel").
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("youtube: search channel %q: %w", handle, err)
	}
	if len(res.Items) == 0 {
		return "", ErrChannelNotFound
	}
	return res.Items[0].Snippet.ChannelId, nil
}

// GetChannel fetches a channel's metadata and aggregate statistics.
func (c *Client) GetChannel(ctx context.Context, channelID string) (*model.Channel, error) {
	res, err := c.svc.Channels.List([]string{"snippet", "statistics", "contentDetails"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube: get channel %s: %w", channelID, err)
	}
	if len(res.Items) == 0 {
		return nil, ErrChannelNotFound
	}

	item := res.Items[0]
	ch := &model.Channel{
		ChannelID:    item.Id,
		ChannelTitle: item.Snippet.Title,
		Description:  item.Snippet.Description,
	}
	if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.Default != nil {
		ch.Avatar = strings.Replace(item.Snippet.Thumbnails.Default.Url, "http://", "https://", 1)
	}
	if item.Statistics != nil {
		ch.SubscriberCount = int64(item.Statistics.SubscriberCount)
		ch.TotalViews = int64(item.Statistics.ViewCount)
		ch.TotalVideos = int64(item.Statistics.VideoCount)
	}
	if item.ContentDetails != nil && item.ContentDetails.RelatedPlaylists != nil {
		ch.UploadsID = item.ContentDetails.RelatedPlaylists.Uploads
	}
	return ch, nil
}

// FetchUploads walks a channel's uploads playlist newest-first and returns
// up to maxVideos fully-detailed samples, preserving recency order.
func (c *Client) FetchUploads(ctx context.Context, uploadsID string, maxVideos int) ([]model.VideoSample, error) {
	var (
		videoIDs  []string
		pageToken string
		seen      = map[string]bool{}
	)

	for len(videoIDs) < maxVideos {
		call := c.svc.PlaylistItems.List([]string{"contentDetails"}).
			PlaylistId(uploadsID).
			MaxResults(int64(min(pageSize, maxVideos-len(videoIDs)))).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("youtube: list playlist %s: %w", uploadsID, err)
		}

		for _, item := range resp.Items {
			id := item.ContentDetails.VideoId
			if id != "" && !seen[id] {
				seen[id] = true
				videoIDs = append(videoIDs, id)
			}
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return c.VideoDetails(ctx, videoIDs)
}

// VideoDetails fetches full details for the given video IDs in API-sized
// chunks, preserving input order.
func (c *Client) VideoDetails(ctx context.Context, videoIDs []string) ([]model.VideoSample, error) {
	byID := make(map[string]model.VideoSample, len(videoIDs))

	for _, chunk := range chunkify(videoIDs, pageSize) {
		resp, err := c.svc.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
			Id(strings.Join(chunk, ",")).
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("youtube: video details: %w", err)
		}

		for _, item := range resp.Items {
			sample, err := parseVideoItem(item)
			if err != nil {
				c.log.Warn().Str("videoId", item.Id).Err(err).Msg("skipping unparseable video item")
				continue
			}
			byID[item.Id] = sample
		}
	}

	samples := make([]model.VideoSample, 0, len(videoIDs))
	for _, id := range videoIDs {
		if s, ok := byID[id]; ok {
			samples = append(samples, s)
		}
	}
	return samples, nil
}

// SearchOptions narrows a video search.
type SearchOptions struct {
	PublishedAfter time.Time
	VideoDuration  string // "short", "medium", "long"
	MaxResults     int64
}

// SearchVideos runs a view-count-ordered video search. Results carry only
// search-level fields; callers needing view counts follow up with
// VideoDetails.
func (c *Client) SearchVideos(ctx context.Context, query string, opts SearchOptions) ([]model.VideoSample, error) {
	if opts.MaxResults == 0 {
		opts.MaxResults = pageSize
	}

	call := c.svc.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		Order("viewCount").
		MaxResults(opts.MaxResults).
		Context(ctx)
	if !opts.PublishedAfter.IsZero() {
		call = call.PublishedAfter(opts.PublishedAfter.UTC().Format(time.RFC3339))
	}
	if opts.VideoDuration != "" {
		call = call.VideoDuration(opts.VideoDuration)
	}

	res, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("youtube: search %q: %w", query, err)
	}

	var out []model.VideoSample
	for _, item := range res.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		published, _ := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
		out = append(out, model.VideoSample{
			VideoID:      item.Id.VideoId,
			Title:        item.Snippet.Title,
			ChannelID:    item.Snippet.ChannelId,
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishedAt:  published,
		})
	}
	return out, nil
}

func parseVideoItem(item *youtube.Video) (model.VideoSample, error) {
	if item.Snippet == nil {
		return model.VideoSample{}, errors.New("missing snippet")
	}

	published, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
	if err != nil {
		return model.VideoSample{}, fmt.Errorf("parse publishedAt: %w", err)
	}

	var views int64
	if item.Statistics != nil {
		views = int64(item.Statistics.ViewCount)
	}

	var seconds int
	if item.ContentDetails != nil && item.ContentDetails.Duration != "" {
		d, err := duration.Parse(item.ContentDetails.Duration)
		if err == nil {
			seconds = int(d.ToTimeDuration().Seconds())
		}
	}

	var thumbnail string
	if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.High != nil {
		thumbnail = item.Snippet.Thumbnails.High.Url
	}

	return model.VideoSample{
		VideoID:         item.Id,
		Title:           item.Snippet.Title,
		ChannelID:       item.Snippet.ChannelId,
		ChannelTitle:    item.Snippet.ChannelTitle,
		ViewCount:       views,
		PublishedAt:     published,
		Thumbnail:       thumbnail,
		DurationSeconds: seconds,
		Length:          formatLength(seconds),
		IsShort:         seconds > 0 && seconds <= shortsMaxSeconds,
	}, nil
}

// formatLength renders seconds as m:ss or h:mm:ss.
func formatLength(totalSeconds int) string {
	mins, secs := totalSeconds/60, totalSeconds%60
	hrs, mins := mins/60, mins%60
	if hrs > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hrs, mins, secs)
	}
	return fmt.Sprintf("%d:%02d", mins, secs)
}

func chunkify(ids []string, size int) [][]string {
	var chunks [][]string
	for i := 0; i < len(ids); i += size {
		end := min(i+size, len(ids))
		chunks = append(chunks, ids[i:end])
	}
	return chunks
}
