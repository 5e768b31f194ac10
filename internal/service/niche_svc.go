package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shrike012/Streamline/internal/insight"
	"github.com/shrike012/Streamline/internal/model"
	"github.com/shrike012/Streamline/internal/scoring"
	"github.com/shrike012/Streamline/internal/youtube"
)

// Niche search gates. A channel must pass BOTH the embedding relevance
// filter and the engagement gate before it is scored at all.
const (
	MaxNicheChannels    = 30
	EngagementThreshold = 0.1
	RelevanceThreshold  = 0.25

	recentUploadsPerChannel = 10
	descriptionTruncate     = 500
)

// ErrInvalidTimeFrame is returned for an unrecognized search timeframe.
var ErrInvalidTimeFrame = errors.New("invalid time_frame")

// ErrInvalidVideoType is returned for an unrecognized video type.
var ErrInvalidVideoType = errors.New("invalid video_type")

var timeFrames = map[string]time.Duration{
	"last_week":    7 * 24 * time.Hour,
	"last_month":   30 * 24 * time.Hour,
	"last_year":    365 * 24 * time.Hour,
	"last_2_years": 730 * 24 * time.Hour,
}

// NicheService runs engagement- and relevance-filtered channel discovery
// over video search results.
type NicheService struct {
	yt       *youtube.Client
	embedder insight.Embedder
}

func NewNicheService(yt *youtube.Client, embedder insight.Embedder) *NicheService {
	return &NicheService{yt: yt, embedder: embedder}
}

// nicheCandidate accumulates per-channel state through the filter stages.
type nicheCandidate struct {
	channel      *model.Channel
	recentTitles []string
	recentViews  []int64
}

// Search finds channels active in a niche. It searches recent videos,
// filters hits by embedding relevance to the query, gathers the distinct
// channels behind them, gates on engagement and channel-level relevance,
// drops excluded channels, then ranks by composite score normalized to
// 0-100, sorted descending.
//
// Embedding failures abort the search and propagate: a silently unfiltered
// result would look identical to a filtered one.
func (s *NicheService) Search(ctx context.Context, query, timeFrame, videoType string) ([]model.NicheChannel, error) {
	lookback, ok := timeFrames[timeFrame]
	if !ok {
		return nil, ErrInvalidTimeFrame
	}

	publishedAfter := time.Now().UTC().Add(-lookback)

	videos, err := s.searchByType(ctx, query, videoType, publishedAfter)
	if err != nil {
		return nil, err
	}
	if len(videos) == 0 {
		return []model.NicheChannel{}, nil
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	relevant, err := s.filterRelevantVideos(ctx, queryVec, videos)
	if err != nil {
		return nil, err
	}

	candidates, err := s.collectChannels(ctx, relevant, videoType)
	if err != nil {
		return nil, err
	}

	// Engagement gate: the channel's best recent upload must reach a
	// minimum fraction of its subscriber base.
	engaged := candidates[:0]
	for _, c := range candidates {
		topViews := scoring.MaxViews(c.recentViews)
		if float64(topViews)/float64(c.channel.SubscriberCount+1) >= EngagementThreshold {
			engaged = append(engaged, c)
		}
	}

	engaged, err = s.filterRelevantChannels(ctx, queryVec, engaged)
	if err != nil {
		return nil, err
	}

	// Exclusion rules drop dead and mass accounts entirely.
	final := engaged[:0]
	for _, c := range engaged {
		if !scoring.Excluded(c.channel.SubscriberCount, c.channel.TotalVideos, c.recentViews) {
			final = append(final, c)
		}
	}

	return rankNicheChannels(final), nil
}

func (s *NicheService) searchByType(ctx context.Context, query, videoType string, publishedAfter time.Time) ([]model.VideoSample, error) {
	switch videoType {
	case "shorts":
		return s.yt.SearchVideos(ctx, query, youtube.SearchOptions{
			PublishedAfter: publishedAfter,
			VideoDuration:  "short",
			MaxResults:     50,
		})
	case "longform":
		// Longform spans the API's "medium" and "long" buckets.
		medium, err := s.yt.SearchVideos(ctx, query, youtube.SearchOptions{
			PublishedAfter: publishedAfter,
			VideoDuration:  "medium",
			MaxResults:     50,
		})
		if err != nil {
			return nil, err
		}
		long, err := s.yt.SearchVideos(ctx, query, youtube.SearchOptions{
			PublishedAfter: publishedAfter,
			VideoDuration:  "long",
			MaxResults:     50,
		})
		if err != nil {
			return nil, err
		}
		return append(medium, long...), nil
	default:
		return nil, ErrInvalidVideoType
	}
}

// filterRelevantVideos keeps search hits whose title+channel text embeds
// close enough to the query.
func (s *NicheService) filterRelevantVideos(ctx context.Context, queryVec []float64, videos []model.VideoSample) ([]model.VideoSample, error) {
	texts := make([]string, len(videos))
	for i, v := range videos {
		texts[i] = v.Title + " " + v.ChannelTitle
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed video texts: %w", err)
	}

	var relevant []model.VideoSample
	for i, v := range videos {
		if insight.CosineSimilarity(queryVec, vectors[i]) >= RelevanceThreshold {
			relevant = append(relevant, v)
		}
	}
	return relevant, nil
}

// collectChannels fetches stats and recent uploads for each distinct
// channel behind the relevant videos, capped at MaxNicheChannels. Recent
// views only count uploads of the requested type; titles count all uploads.
func (s *NicheService) collectChannels(ctx context.Context, videos []model.VideoSample, videoType string) ([]*nicheCandidate, error) {
	seen := map[string]bool{}
	var channelIDs []string
	for _, v := range videos {
		if v.ChannelID != "" && !seen[v.ChannelID] {
			seen[v.ChannelID] = true
			channelIDs = append(channelIDs, v.ChannelID)
		}
	}
	if len(channelIDs) > MaxNicheChannels {
		channelIDs = channelIDs[:MaxNicheChannels]
	}

	var candidates []*nicheCandidate
	for _, chID := range channelIDs {
		ch, err := s.yt.GetChannel(ctx, chID)
		if err != nil {
			log.Printf("niche-search: channel %s: %v", chID, err)
			continue
		}

		uploads, err := s.yt.FetchUploads(ctx, ch.UploadsID, recentUploadsPerChannel)
		if err != nil {
			log.Printf("niche-search: uploads for %s: %v", chID, err)
			continue
		}

		c := &nicheCandidate{channel: ch}
		for _, u := range uploads {
			c.recentTitles = append(c.recentTitles, u.Title)
			if matchesType(u, videoType) {
				c.recentViews = append(c.recentViews, u.ViewCount)
			}
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// filterRelevantChannels keeps channels whose aggregated recent titles,
// name, and truncated description embed close enough to the query.
func (s *NicheService) filterRelevantChannels(ctx context.Context, queryVec []float64, candidates []*nicheCandidate) ([]*nicheCandidate, error) {
	if len(candidates) == 0 {
		return candidates, nil
	}

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		desc := truncateRunes(strings.ReplaceAll(c.channel.Description, "\n", " "), descriptionTruncate)
		texts[i] = strings.Join(c.recentTitles, " ") + " " + c.channel.ChannelTitle + " " + desc
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed channel texts: %w", err)
	}

	var relevant []*nicheCandidate
	for i, c := range candidates {
		if insight.CosineSimilarity(queryVec, vectors[i]) >= RelevanceThreshold {
			relevant = append(relevant, c)
		}
	}
	return relevant, nil
}

// rankNicheChannels computes composite scores, normalizes them onto 0-100,
// and sorts descending.
func rankNicheChannels(candidates []*nicheCandidate) []model.NicheChannel {
	raw := make([]float64, len(candidates))
	for i, c := range candidates {
		raw[i] = scoring.ChannelScore(c.channel.SubscriberCount, c.channel.TotalViews, c.channel.TotalVideos, c.recentViews)
	}
	display := scoring.Normalize(raw)

	results := make([]model.NicheChannel, len(candidates))
	for i, c := range candidates {
		results[i] = model.NicheChannel{
			ChannelID:       c.channel.ChannelID,
			ChannelTitle:    c.channel.ChannelTitle,
			Avatar:          c.channel.Avatar,
			SubscriberCount: c.channel.SubscriberCount,
			Score:           display[i],
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results
}

func matchesType(v model.VideoSample, videoType string) bool {
	if videoType == "shorts" {
		return v.IsShort
	}
	return !v.IsShort
}

// truncateRunes shortens s to at most n runes without splitting a multibyte
// character.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
