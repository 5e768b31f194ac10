package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/shrike012/Streamline/internal/insight"
	"github.com/shrike012/Streamline/internal/model"
)

// ErrProfileMissing is returned when a channel has not been analyzed yet and
// no classification can be made.
var ErrProfileMissing = errors.New("channel has not been analyzed")

// ProfileFinder is the profile lookup surface the insight service needs.
// *repository.ProfileRepo satisfies it.
type ProfileFinder interface {
	Find(ctx context.Context, userID, channelID string) (*model.ChannelProfile, error)
	FindByChannel(ctx context.Context, channelID string) (*model.ChannelProfile, error)
}

// InsightService classifies competitor channels against a user's own
// analyzed channel.
type InsightService struct {
	profiles   ProfileFinder
	classifier *insight.Classifier
}

func NewInsightService(profiles ProfileFinder, classifier *insight.Classifier) *InsightService {
	return &InsightService{profiles: profiles, classifier: classifier}
}

// ClassifyCompetitor compares a competitor channel's analyzed profile against
// the user's own. Either side without a stored profile yields
// ErrProfileMissing.
func (s *InsightService) ClassifyCompetitor(ctx context.Context, userID, channelID, competitorChannelID string) (*insight.Classification, error) {
	mine, err := s.profiles.Find(ctx, userID, channelID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileMissing
	}
	if err != nil {
		return nil, fmt.Errorf("load own profile: %w", err)
	}

	theirs, err := s.profiles.FindByChannel(ctx, competitorChannelID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileMissing
	}
	if err != nil {
		return nil, fmt.Errorf("load competitor profile: %w", err)
	}

	return s.classifier.Classify(ctx, mine, theirs)
}
