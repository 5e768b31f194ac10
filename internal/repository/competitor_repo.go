package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shrike012/Streamline/internal/model"
)

type CompetitorRepo struct {
	pool *pgxpool.Pool
}

func NewCompetitorRepo(pool *pgxpool.Pool) *CompetitorRepo {
	return &CompetitorRepo{pool: pool}
}

// ListLists returns the competitor lists under a tracked channel.
func (r *CompetitorRepo) ListLists(ctx context.Context, userID, channelID string) ([]model.CompetitorList, error) {
	query := `
		SELECT list_id, channel_id, name, created_at
		FROM competitor_lists
		WHERE user_id = $1 AND channel_id = $2
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, userID, channelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lists []model.CompetitorList
	for rows.Next() {
		var l model.CompetitorList
		if err := rows.Scan(&l.ListID, &l.ChannelID, &l.Name, &l.CreatedAt); err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	return lists, rows.Err()
}

// NameExists reports whether another list under the channel already uses the
// name (case-insensitive). excludeListID may be empty.
func (r *CompetitorRepo) NameExists(ctx context.Context, userID, channelID, name, excludeListID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM competitor_lists
			WHERE user_id = $1 AND channel_id = $2 AND LOWER(name) = LOWER($3)
			  AND ($4 = '' OR list_id::text <> $4)
		)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, userID, channelID, name, excludeListID).Scan(&exists)
	return exists, err
}

// OwnsList reports whether the list exists and belongs to the user.
func (r *CompetitorRepo) OwnsList(ctx context.Context, userID, listID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM competitor_lists
			WHERE user_id = $1 AND list_id = $2
		)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, userID, listID).Scan(&exists)
	return exists, err
}

// CreateList inserts a new competitor list and returns its ID.
func (r *CompetitorRepo) CreateList(ctx context.Context, userID, channelID, name string) (string, error) {
	listID := uuid.NewString()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO competitor_lists (list_id, user_id, channel_id, name, created_at)
		VALUES ($1, $2, $3, $4, NOW())`,
		listID, userID, channelID, name)
	if err != nil {
		return "", err
	}
	return listID, nil
}

// RenameList updates a list's name. Returns the number of rows touched so
// the caller can distinguish a missing list.
func (r *CompetitorRepo) RenameList(ctx context.Context, userID, listID, name string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE competitor_lists SET name = $1
		WHERE user_id = $2 AND list_id = $3`,
		name, userID, listID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteList removes a list and, via FK cascade, its competitors.
func (r *CompetitorRepo) DeleteList(ctx context.Context, userID, listID string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM competitor_lists
		WHERE user_id = $1 AND list_id = $2`,
		userID, listID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListCompetitors returns the competitors in a list.
func (r *CompetitorRepo) ListCompetitors(ctx context.Context, userID, listID string) ([]model.Competitor, error) {
	query := `
		SELECT c.competitor_channel_id, c.channel_title, c.avatar,
		       c.subscriber_count, c.last_checked, c.created_at
		FROM competitors c
		JOIN competitor_lists l ON l.list_id = c.list_id
		WHERE l.user_id = $1 AND c.list_id = $2
		ORDER BY c.created_at ASC`

	rows, err := r.pool.Query(ctx, query, userID, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comps []model.Competitor
	for rows.Next() {
		var c model.Competitor
		err := rows.Scan(&c.CompetitorChannelID, &c.ChannelTitle, &c.Avatar,
			&c.SubscriberCount, &c.LastChecked, &c.CreatedAt)
		if err != nil {
			return nil, err
		}
		comps = append(comps, c)
	}
	return comps, rows.Err()
}

// AddCompetitor inserts a competitor into a list. Duplicate entries conflict
// on the primary key and report zero rows.
func (r *CompetitorRepo) AddCompetitor(ctx context.Context, listID string, c *model.Competitor) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO competitors
			(list_id, competitor_channel_id, channel_title, avatar,
			 subscriber_count, last_checked, created_at)
		VALUES ($1, $2, $3, $4, $5, to_timestamp(0), NOW())
		ON CONFLICT (list_id, competitor_channel_id) DO NOTHING`,
		listID, c.CompetitorChannelID, c.ChannelTitle, c.Avatar, c.SubscriberCount)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// RemoveCompetitor deletes a competitor from a list.
func (r *CompetitorRepo) RemoveCompetitor(ctx context.Context, userID, listID, competitorChannelID string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM competitors c
		USING competitor_lists l
		WHERE l.list_id = c.list_id AND l.user_id = $1
		  AND c.list_id = $2 AND c.competitor_channel_id = $3`,
		userID, listID, competitorChannelID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// AllTracked returns every (user, tracked channel, competitor) triple for
// the upload poller.
type TrackedCompetitor struct {
	UserID              string
	ChannelID           string
	ListID              string
	CompetitorChannelID string
	ChannelTitle        string
	LastChecked         time.Time
}

func (r *CompetitorRepo) AllTracked(ctx context.Context) ([]TrackedCompetitor, error) {
	query := `
		SELECT l.user_id, l.channel_id, l.list_id,
		       c.competitor_channel_id, c.channel_title, c.last_checked
		FROM competitors c
		JOIN competitor_lists l ON l.list_id = c.list_id
		ORDER BY l.user_id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracked []TrackedCompetitor
	for rows.Next() {
		var t TrackedCompetitor
		err := rows.Scan(&t.UserID, &t.ChannelID, &t.ListID,
			&t.CompetitorChannelID, &t.ChannelTitle, &t.LastChecked)
		if err != nil {
			return nil, err
		}
		tracked = append(tracked, t)
	}
	return tracked, rows.Err()
}

// TouchLastChecked records that a competitor's uploads were polled.
func (r *CompetitorRepo) TouchLastChecked(ctx context.Context, listID, competitorChannelID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE competitors SET last_checked = NOW()
		WHERE list_id = $1 AND competitor_channel_id = $2`,
		listID, competitorChannelID)
	return err
}
