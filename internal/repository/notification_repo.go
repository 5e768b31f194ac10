package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shrike012/Streamline/internal/model"
)

// Notifications are capped per user-channel pair; older entries are pruned
// on insert.
const maxNotificationsPerChannel = 20

type NotificationRepo struct {
	pool *pgxpool.Pool
}

func NewNotificationRepo(pool *pgxpool.Pool) *NotificationRepo {
	return &NotificationRepo{pool: pool}
}

// Insert stores a notification and prunes beyond the per-channel cap.
func (r *NotificationRepo) Insert(ctx context.Context, userID, channelID, message string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO notifications (user_id, channel_id, message, read, created_at)
		VALUES ($1, $2, $3, false, NOW())`,
		userID, channelID, message)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		DELETE FROM notifications
		WHERE user_id = $1 AND channel_id = $2 AND id NOT IN (
			SELECT id FROM notifications
			WHERE user_id = $1 AND channel_id = $2
			ORDER BY created_at DESC
			LIMIT $3
		)`,
		userID, channelID, maxNotificationsPerChannel)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ListByUser returns a user's notifications, newest first.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID string) ([]model.Notification, error) {
	query := `
		SELECT id, channel_id, message, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.ChannelID, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkAllRead flags every notification for a user as read.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE notifications SET read = true
		WHERE user_id = $1 AND read = false`,
		userID)
	return err
}
