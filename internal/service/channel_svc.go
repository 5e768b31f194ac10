package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shrike012/Streamline/internal/model"
	"github.com/shrike012/Streamline/internal/repository"
	"github.com/shrike012/Streamline/internal/scoring"
	"github.com/shrike012/Streamline/internal/youtube"
)

// ErrInvalidChannelURL is returned when a channel URL has no @handle.
var ErrInvalidChannelURL = errors.New("invalid channel URL")

// Channel listings fetch up to this many uploads for outlier annotation.
const maxChannelVideos = 500

type ChannelService struct {
	yt       *youtube.Client
	profiles *repository.ProfileRepo
	cache    *CacheService
	cfg      scoring.Config
}

func NewChannelService(yt *youtube.Client, profiles *repository.ProfileRepo, cache *CacheService, cfg scoring.Config) *ChannelService {
	return &ChannelService{yt: yt, profiles: profiles, cache: cache, cfg: cfg}
}

// VideosByURL resolves a channel URL, fetches its uploads (most recent
// first), and annotates each with its outlier score. Cache-aside keyed by
// channel ID.
func (s *ChannelService) VideosByURL(ctx context.Context, url string) (*model.ChannelVideosResponse, error) {
	handle, err := HandleFromURL(url)
	if err != nil {
		return nil, err
	}

	channelID, err := s.yt.ResolveHandle(ctx, handle)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if cached, err := s.cache.GetChannelVideos(ctx, channelID); err != nil {
			log.Printf("cache: channel videos get error: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	ch, err := s.yt.GetChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}

	samples, err := s.yt.FetchUploads(ctx, ch.UploadsID, maxChannelVideos)
	if err != nil {
		return nil, fmt.Errorf("fetch uploads: %w", err)
	}

	resp := &model.ChannelVideosResponse{
		ChannelID: channelID,
		Videos:    AnnotateOutlierScores(samples, s.cfg.Window),
		FetchedAt: time.Now().UTC(),
	}

	if s.cache != nil {
		if err := s.cache.SetChannelVideos(ctx, channelID, resp); err != nil {
			log.Printf("cache: channel videos set error: %v", err)
		}
	}

	return resp, nil
}

// Track stores the LLM-analysis result for a channel the user wants to
// follow. The analysis itself happens upstream; this applies the one local
// correction (kids-audience channels are always Kids Content) and persists.
func (s *ChannelService) Track(ctx context.Context, p *model.ChannelProfile) error {
	p.AnalyzedStyle = NormalizeStyle(p.AnalyzedStyle, p.AnalyzedAttentionMarket)
	return s.profiles.Upsert(ctx, p)
}

// Profiles returns the channels a user tracks.
func (s *ChannelService) Profiles(ctx context.Context, userID string) ([]model.ChannelProfile, error) {
	return s.profiles.ListByUser(ctx, userID)
}

// AnnotateOutlierScores pairs each sample with its outlier score. Input
// order (most recent first) is preserved.
func AnnotateOutlierScores(samples []model.VideoSample, window int) []model.ScoredVideo {
	views := make([]int64, len(samples))
	for i, v := range samples {
		views[i] = v.ViewCount
	}
	scores := scoring.ScoreSeriesWindow(views, window)

	scored := make([]model.ScoredVideo, len(samples))
	for i, v := range samples {
		scored[i] = model.ScoredVideo{VideoSample: v, OutlierScore: scores[i]}
	}
	return scored
}

// HandleFromURL extracts the @handle segment from a channel URL, e.g.
// "https://youtube.com/@somecreator/videos" -> "somecreator".
func HandleFromURL(url string) (string, error) {
	url = strings.TrimSpace(url)
	if !strings.Contains(url, "@") {
		return "", ErrInvalidChannelURL
	}
	handle := strings.SplitN(strings.SplitN(url, "@", 2)[1], "/", 2)[0]
	if handle == "" {
		return "", ErrInvalidChannelURL
	}
	return handle, nil
}

// NormalizeStyle forces the Kids Content style when the analyzed audience
// age group is kids, regardless of what the analysis said.
func NormalizeStyle(style, attentionMarket string) string {
	ageGroup := strings.ToLower(strings.TrimSpace(strings.SplitN(attentionMarket, ",", 2)[0]))
	if ageGroup == "kids" {
		return "Kids Content"
	}
	return style
}
