package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shrike012/Streamline/internal/model"
)

type OutlierRepo struct {
	pool *pgxpool.Pool
}

func NewOutlierRepo(pool *pgxpool.Pool) *OutlierRepo {
	return &OutlierRepo{pool: pool}
}

// Replace atomically swaps the stored outlier set for a tracked channel.
// Each scan recomputes the full set, so stale discoveries never linger.
func (r *OutlierRepo) Replace(ctx context.Context, userID, channelID string, outliers []model.Outlier) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`DELETE FROM outliers WHERE user_id = $1 AND tracked_channel_id = $2`,
		userID, channelID)
	if err != nil {
		return err
	}

	for _, o := range outliers {
		_, err = tx.Exec(ctx, `
			INSERT INTO outliers
				(user_id, tracked_channel_id, video_id, channel_id, title,
				 channel_title, outlier_score, views, published_at, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())`,
			userID, channelID, o.VideoID, o.ChannelID, o.Title,
			o.ChannelTitle, o.OutlierScore, o.Views, o.PublishedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// List returns stored outliers for a tracked channel, excluding any video
// published by one of the user's own channels.
func (r *OutlierRepo) List(ctx context.Context, userID, channelID string) ([]model.Outlier, error) {
	query := `
		SELECT o.video_id, o.channel_id, o.title, o.channel_title,
		       o.outlier_score, o.views, o.published_at, o.created_at
		FROM outliers o
		WHERE o.user_id = $1 AND o.tracked_channel_id = $2
		  AND o.channel_id NOT IN (
			SELECT channel_id FROM channel_profiles WHERE user_id = $1
		  )
		ORDER BY o.outlier_score DESC`

	rows, err := r.pool.Query(ctx, query, userID, channelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outliers []model.Outlier
	for rows.Next() {
		var o model.Outlier
		err := rows.Scan(&o.VideoID, &o.ChannelID, &o.Title, &o.ChannelTitle,
			&o.OutlierScore, &o.Views, &o.PublishedAt, &o.CreatedAt)
		if err != nil {
			return nil, err
		}
		outliers = append(outliers, o)
	}
	return outliers, rows.Err()
}
