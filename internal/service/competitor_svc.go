package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode"

	"github.com/shrike012/Streamline/internal/model"
	"github.com/shrike012/Streamline/internal/youtube"
)

const maxListNameLength = 50

var (
	// ErrListNameInvalid is returned for an empty or over-long list name.
	ErrListNameInvalid = errors.New("list name must be 1-50 characters")
	// ErrListNameTaken is returned when the formatted name collides with
	// another list under the same channel.
	ErrListNameTaken = errors.New("a list with that name already exists")
	// ErrListNotFound is returned when the list does not exist or belongs to
	// another user.
	ErrListNotFound = errors.New("list not found")
	// ErrCompetitorExists is returned when the channel is already in the list.
	ErrCompetitorExists = errors.New("channel is already in this list")
	// ErrCompetitorNotFound is returned when removing a channel not in the list.
	ErrCompetitorNotFound = errors.New("channel is not in this list")
)

// CompetitorStore is the persistence surface the competitor service needs.
// *repository.CompetitorRepo satisfies it.
type CompetitorStore interface {
	ListLists(ctx context.Context, userID, channelID string) ([]model.CompetitorList, error)
	NameExists(ctx context.Context, userID, channelID, name, excludeListID string) (bool, error)
	CreateList(ctx context.Context, userID, channelID, name string) (string, error)
	RenameList(ctx context.Context, userID, listID, name string) (int64, error)
	DeleteList(ctx context.Context, userID, listID string) (int64, error)
	OwnsList(ctx context.Context, userID, listID string) (bool, error)
	ListCompetitors(ctx context.Context, userID, listID string) ([]model.Competitor, error)
	AddCompetitor(ctx context.Context, listID string, c *model.Competitor) (int64, error)
	RemoveCompetitor(ctx context.Context, userID, listID, competitorChannelID string) (int64, error)
}

// CompetitorService manages named competitor lists and their entries.
type CompetitorService struct {
	repo  CompetitorStore
	yt    *youtube.Client
	cache *CacheService
}

func NewCompetitorService(repo CompetitorStore, yt *youtube.Client, cache *CacheService) *CompetitorService {
	return &CompetitorService{repo: repo, yt: yt, cache: cache}
}

// Lists returns the user's competitor lists for a tracked channel.
func (s *CompetitorService) Lists(ctx context.Context, userID, channelID string) ([]model.CompetitorList, error) {
	lists, err := s.repo.ListLists(ctx, userID, channelID)
	if err != nil {
		return nil, fmt.Errorf("list competitor lists: %w", err)
	}
	if lists == nil {
		lists = []model.CompetitorList{}
	}
	return lists, nil
}

// CreateList creates a named list. The name is normalized to Title Case and
// must be unique (case-insensitive) among the channel's lists.
func (s *CompetitorService) CreateList(ctx context.Context, userID, channelID, name string) (*model.CompetitorList, error) {
	formatted, err := FormatListName(name)
	if err != nil {
		return nil, err
	}

	taken, err := s.repo.NameExists(ctx, userID, channelID, formatted, "")
	if err != nil {
		return nil, fmt.Errorf("check list name: %w", err)
	}
	if taken {
		return nil, ErrListNameTaken
	}

	listID, err := s.repo.CreateList(ctx, userID, channelID, formatted)
	if err != nil {
		return nil, fmt.Errorf("create list: %w", err)
	}
	return &model.CompetitorList{ListID: listID, ChannelID: channelID, Name: formatted}, nil
}

// RenameList renames a list, applying the same normalization and uniqueness
// rules as CreateList.
func (s *CompetitorService) RenameList(ctx context.Context, userID, channelID, listID, name string) (string, error) {
	formatted, err := FormatListName(name)
	if err != nil {
		return "", err
	}

	taken, err := s.repo.NameExists(ctx, userID, channelID, formatted, listID)
	if err != nil {
		return "", fmt.Errorf("check list name: %w", err)
	}
	if taken {
		return "", ErrListNameTaken
	}

	rows, err := s.repo.RenameList(ctx, userID, listID, formatted)
	if err != nil {
		return "", fmt.Errorf("rename list: %w", err)
	}
	if rows == 0 {
		return "", ErrListNotFound
	}
	return formatted, nil
}

// DeleteList removes a list and everything in it.
func (s *CompetitorService) DeleteList(ctx context.Context, userID, listID string) error {
	rows, err := s.repo.DeleteList(ctx, userID, listID)
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	if rows == 0 {
		return ErrListNotFound
	}
	return nil
}

// Competitors returns the channels in a list.
func (s *CompetitorService) Competitors(ctx context.Context, userID, listID string) ([]model.Competitor, error) {
	comps, err := s.repo.ListCompetitors(ctx, userID, listID)
	if err != nil {
		return nil, fmt.Errorf("list competitors: %w", err)
	}
	if comps == nil {
		comps = []model.Competitor{}
	}
	return comps, nil
}

// AddCompetitor resolves the channel's current metadata and inserts it into
// the list. Metadata is served cache-aside with a daily TTL since titles and
// subscriber counts drift slowly. Ownership is verified before any metadata
// lookup so a foreign list ID never costs API quota.
func (s *CompetitorService) AddCompetitor(ctx context.Context, userID, listID, competitorChannelID string) (*model.Competitor, error) {
	owned, err := s.repo.OwnsList(ctx, userID, listID)
	if err != nil {
		return nil, fmt.Errorf("check list ownership: %w", err)
	}
	if !owned {
		return nil, ErrListNotFound
	}

	meta, err := s.channelMeta(ctx, competitorChannelID)
	if err != nil {
		return nil, err
	}

	comp := &model.Competitor{
		CompetitorChannelID: meta.ChannelID,
		ChannelTitle:        meta.ChannelTitle,
		Avatar:              meta.Avatar,
		SubscriberCount:     meta.SubscriberCount,
	}

	rows, err := s.repo.AddCompetitor(ctx, listID, comp)
	if err != nil {
		return nil, fmt.Errorf("add competitor: %w", err)
	}
	if rows == 0 {
		return nil, ErrCompetitorExists
	}
	return comp, nil
}

// RemoveCompetitor deletes a channel from a list.
func (s *CompetitorService) RemoveCompetitor(ctx context.Context, userID, listID, competitorChannelID string) error {
	rows, err := s.repo.RemoveCompetitor(ctx, userID, listID, competitorChannelID)
	if err != nil {
		return fmt.Errorf("remove competitor: %w", err)
	}
	if rows == 0 {
		return ErrCompetitorNotFound
	}
	return nil
}

func (s *CompetitorService) channelMeta(ctx context.Context, channelID string) (*model.Channel, error) {
	if cached, err := s.cache.GetChannelMeta(ctx, channelID); err == nil && cached != nil {
		return cached, nil
	}

	ch, err := s.yt.GetChannel(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("fetch channel %s: %w", channelID, err)
	}

	if err := s.cache.SetChannelMeta(ctx, channelID, ch); err != nil {
		log.Printf("cache channel meta %s: %v", channelID, err)
	}
	return ch, nil
}

// FormatListName collapses internal whitespace and converts the name to
// Title Case. Names longer than 50 characters after normalization are
// rejected.
func FormatListName(name string) (string, error) {
	words := strings.Fields(name)
	if len(words) == 0 {
		return "", ErrListNameInvalid
	}

	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}

	formatted := strings.Join(words, " ")
	if len(formatted) > maxListNameLength {
		return "", ErrListNameInvalid
	}
	return formatted, nil
}
