package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shrike012/Streamline/internal/insight"
	"github.com/shrike012/Streamline/internal/model"
	"github.com/shrike012/Streamline/internal/repository"
	"github.com/shrike012/Streamline/internal/scoring"
	"github.com/shrike012/Streamline/internal/youtube"
)

const (
	// Candidate searches look back this far.
	outlierSearchWindow = 30 * 24 * time.Hour

	// Baseline size: a candidate channel's most recent uploads.
	baselineUploads = 15
)

// OutlierService discovers outlier videos from other channels relative to
// their own channel's baseline, for surfacing to a tracked channel's owner.
type OutlierService struct {
	yt       *youtube.Client
	outliers *repository.OutlierRepo
	profiles *repository.ProfileRepo
	cfg      scoring.Config
}

func NewOutlierService(yt *youtube.Client, outliers *repository.OutlierRepo, profiles *repository.ProfileRepo, cfg scoring.Config) *OutlierService {
	return &OutlierService{yt: yt, outliers: outliers, profiles: profiles, cfg: cfg}
}

// List returns the stored outlier discoveries for a tracked channel.
// An empty result is data insufficiency, not an error: the scan may simply
// not have found anything yet.
func (s *OutlierService) List(ctx context.Context, userID, channelID string) ([]model.Outlier, error) {
	return s.outliers.List(ctx, userID, channelID)
}

// ScanProfile runs one outlier discovery pass for a tracked channel: search
// its niche, baseline every candidate against its own channel's recent
// uploads, keep candidates clearing both the score threshold and the
// absolute view floor, and replace the stored set.
func (s *OutlierService) ScanProfile(ctx context.Context, profile *model.ChannelProfile) error {
	timer := prometheus.NewTimer(outlierScanDuration)
	defer timer.ObserveDuration()

	ownChannels, err := s.ownChannelSet(ctx, profile.UserID)
	if err != nil {
		return fmt.Errorf("list own channels: %w", err)
	}

	candidates, err := s.searchCandidates(ctx, profile)
	if err != nil {
		return err
	}

	var found []model.Outlier
	for _, vid := range candidates {
		if ownChannels[vid.ChannelID] {
			continue
		}

		score, err := s.scoreCandidate(ctx, vid)
		if err != nil {
			log.Printf("outlier-scan: candidate channel %s: %v", vid.ChannelID, err)
			continue
		}

		if !s.cfg.Notable(score, vid.ViewCount) {
			continue
		}

		found = append(found, model.Outlier{
			VideoID:      vid.VideoID,
			ChannelID:    vid.ChannelID,
			Title:        vid.Title,
			ChannelTitle: vid.ChannelTitle,
			OutlierScore: roundTo2(score),
			Views:        vid.ViewCount,
			PublishedAt:  vid.PublishedAt,
		})
	}

	return s.outliers.Replace(ctx, profile.UserID, profile.ChannelID, found)
}

// searchCandidates queries the niche phrase and its main topic, dedupes the
// merged result, and fetches full details so view counts are available.
func (s *OutlierService) searchCandidates(ctx context.Context, profile *model.ChannelProfile) ([]model.VideoSample, error) {
	terms := searchTerms(profile.AnalyzedNiche)
	if len(terms) == 0 {
		return nil, nil
	}

	opts := youtube.SearchOptions{
		PublishedAfter: time.Now().UTC().Add(-outlierSearchWindow),
		VideoDuration:  "medium",
		MaxResults:     50,
	}

	seen := map[string]bool{}
	var videoIDs []string
	for _, term := range terms {
		results, err := s.yt.SearchVideos(ctx, term, opts)
		if err != nil {
			log.Printf("outlier-scan: search %q failed: %v", term, err)
			continue
		}
		for _, r := range results {
			if !seen[r.VideoID] {
				seen[r.VideoID] = true
				videoIDs = append(videoIDs, r.VideoID)
			}
		}
	}

	if len(videoIDs) == 0 {
		return nil, nil
	}
	return s.yt.VideoDetails(ctx, videoIDs)
}

// scoreCandidate computes a candidate video's outlier score against the
// median views of its own channel's recent uploads. A channel with no
// usable baseline scores 0 and is never surfaced.
func (s *OutlierService) scoreCandidate(ctx context.Context, vid model.VideoSample) (float64, error) {
	ch, err := s.yt.GetChannel(ctx, vid.ChannelID)
	if err != nil {
		return 0, err
	}

	recent, err := s.yt.FetchUploads(ctx, ch.UploadsID, baselineUploads)
	if err != nil {
		return 0, err
	}

	views := make([]int64, len(recent))
	for i, r := range recent {
		views[i] = r.ViewCount
	}

	med := scoring.MedianViews(views)
	if med <= 0 {
		return 0, nil
	}
	return float64(vid.ViewCount) / med, nil
}

func (s *OutlierService) ownChannelSet(ctx context.Context, userID string) (map[string]bool, error) {
	profiles, err := s.profiles.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	own := make(map[string]bool, len(profiles))
	for _, p := range profiles {
		own[p.ChannelID] = true
	}
	return own, nil
}

// searchTerms builds the candidate search queries from a niche phrase:
// the full phrase plus its main topic, skipping blanks and duplicates.
func searchTerms(niche string) []string {
	var terms []string
	phrase := strings.TrimSpace(niche)
	if phrase != "" {
		terms = append(terms, phrase)
		if topic := insight.MainTopic(phrase); topic != "unknown" && topic != phrase {
			terms = append(terms, topic)
		}
	}
	return terms
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
