package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shrike012/Streamline/internal/model"
)

type stubCompetitorStore struct {
	ownedLists map[string]bool
	addedTo    string
}

func (s *stubCompetitorStore) ListLists(ctx context.Context, userID, channelID string) ([]model.CompetitorList, error) {
	return nil, nil
}

func (s *stubCompetitorStore) NameExists(ctx context.Context, userID, channelID, name, excludeListID string) (bool, error) {
	return false, nil
}

func (s *stubCompetitorStore) CreateList(ctx context.Context, userID, channelID, name string) (string, error) {
	return "", nil
}

func (s *stubCompetitorStore) RenameList(ctx context.Context, userID, listID, name string) (int64, error) {
	return 0, nil
}

func (s *stubCompetitorStore) DeleteList(ctx context.Context, userID, listID string) (int64, error) {
	return 0, nil
}

func (s *stubCompetitorStore) OwnsList(ctx context.Context, userID, listID string) (bool, error) {
	return s.ownedLists[userID+"/"+listID], nil
}

func (s *stubCompetitorStore) ListCompetitors(ctx context.Context, userID, listID string) ([]model.Competitor, error) {
	return nil, nil
}

func (s *stubCompetitorStore) AddCompetitor(ctx context.Context, listID string, c *model.Competitor) (int64, error) {
	s.addedTo = listID
	return 1, nil
}

func (s *stubCompetitorStore) RemoveCompetitor(ctx context.Context, userID, listID, competitorChannelID string) (int64, error) {
	return 0, nil
}

func TestAddCompetitor_ForeignListRejected(t *testing.T) {
	store := &stubCompetitorStore{ownedLists: map[string]bool{"owner/list-1": true}}
	svc := NewCompetitorService(store, nil, nil)

	_, err := svc.AddCompetitor(context.Background(), "intruder", "list-1", "UCtarget")
	if !errors.Is(err, ErrListNotFound) {
		t.Fatalf("err = %v, want ErrListNotFound", err)
	}
	if store.addedTo != "" {
		t.Errorf("insert reached the store for list %q", store.addedTo)
	}
}

func TestAddCompetitor_UnknownListRejected(t *testing.T) {
	svc := NewCompetitorService(&stubCompetitorStore{}, nil, nil)

	_, err := svc.AddCompetitor(context.Background(), "user-1", "no-such-list", "UCtarget")
	if !errors.Is(err, ErrListNotFound) {
		t.Fatalf("err = %v, want ErrListNotFound", err)
	}
}

func TestFormatListName_TitleCase(t *testing.T) {
	got, err := FormatListName("my main rivals")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "My Main Rivals" {
		t.Errorf("name = %q, want %q", got, "My Main Rivals")
	}
}

func TestFormatListName_CollapsesWhitespace(t *testing.T) {
	got, err := FormatListName("  big   GAMING   channels ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Big Gaming Channels" {
		t.Errorf("name = %q, want %q", got, "Big Gaming Channels")
	}
}

func TestFormatListName_Empty(t *testing.T) {
	if _, err := FormatListName("   "); err != ErrListNameInvalid {
		t.Errorf("err = %v, want ErrListNameInvalid", err)
	}
}

func TestFormatListName_TooLong(t *testing.T) {
	long := "abcdefghij abcdefghij abcdefghij abcdefghij abcdefghij"
	if _, err := FormatListName(long); err != ErrListNameInvalid {
		t.Errorf("err = %v, want ErrListNameInvalid", err)
	}
}

func TestFormatListName_ExactlyFifty(t *testing.T) {
	// 50 characters after normalization sits on the boundary and passes.
	name := "aaaaaaaaaaaaaaaaaaaaaaaa bbbbbbbbbbbbbbbbbbbbbbbbb"
	got, err := FormatListName(name)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 50 {
		t.Errorf("len = %d, want 50", len(got))
	}
}
