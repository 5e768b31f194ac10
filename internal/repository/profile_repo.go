package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shrike012/Streamline/internal/model"
)

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

// Find returns one tracked channel profile for a user.
func (r *ProfileRepo) Find(ctx context.Context, userID, channelID string) (*model.ChannelProfile, error) {
	query := `
		SELECT user_id, channel_id, channel_title,
		       analyzed_niche, analyzed_style, analyzed_attention_market, created_at
		FROM channel_profiles
		WHERE user_id = $1 AND channel_id = $2`

	var p model.ChannelProfile
	err := r.pool.QueryRow(ctx, query, userID, channelID).Scan(
		&p.UserID, &p.ChannelID, &p.ChannelTitle,
		&p.AnalyzedNiche, &p.AnalyzedStyle, &p.AnalyzedAttentionMarket, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByChannel returns a profile by channel ID alone, regardless of which
// user tracks it. Used when classifying competitors whose profiles were
// analyzed under another user.
func (r *ProfileRepo) FindByChannel(ctx context.Context, channelID string) (*model.ChannelProfile, error) {
	query := `
		SELECT user_id, channel_id, channel_title,
		       analyzed_niche, analyzed_style, analyzed_attention_market, created_at
		FROM channel_profiles
		WHERE channel_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	var p model.ChannelProfile
	err := r.pool.QueryRow(ctx, query, channelID).Scan(
		&p.UserID, &p.ChannelID, &p.ChannelTitle,
		&p.AnalyzedNiche, &p.AnalyzedStyle, &p.AnalyzedAttentionMarket, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByUser returns every channel profile a user tracks.
func (r *ProfileRepo) ListByUser(ctx context.Context, userID string) ([]model.ChannelProfile, error) {
	query := `
		SELECT user_id, channel_id, channel_title,
		       analyzed_niche, analyzed_style, analyzed_attention_market, created_at
		FROM channel_profiles
		WHERE user_id = $1
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []model.ChannelProfile
	for rows.Next() {
		var p model.ChannelProfile
		err := rows.Scan(&p.UserID, &p.ChannelID, &p.ChannelTitle,
			&p.AnalyzedNiche, &p.AnalyzedStyle, &p.AnalyzedAttentionMarket, &p.CreatedAt)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// ListAll returns all tracked profiles across users, for the outlier scan
// worker.
func (r *ProfileRepo) ListAll(ctx context.Context) ([]model.ChannelProfile, error) {
	query := `
		SELECT user_id, channel_id, channel_title,
		       analyzed_niche, analyzed_style, analyzed_attention_market, created_at
		FROM channel_profiles
		ORDER BY user_id, created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []model.ChannelProfile
	for rows.Next() {
		var p model.ChannelProfile
		err := rows.Scan(&p.UserID, &p.ChannelID, &p.ChannelTitle,
			&p.AnalyzedNiche, &p.AnalyzedStyle, &p.AnalyzedAttentionMarket, &p.CreatedAt)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// Upsert stores or refreshes a channel profile. Analysis runs once per
// channel; a re-analysis simply overwrites the previous result.
func (r *ProfileRepo) Upsert(ctx context.Context, p *model.ChannelProfile) error {
	query := `
		INSERT INTO channel_profiles
			(user_id, channel_id, channel_title,
			 analyzed_niche, analyzed_style, analyzed_attention_market, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (user_id, channel_id) DO UPDATE SET
			channel_title = EXCLUDED.channel_title,
			analyzed_niche = EXCLUDED.analyzed_niche,
			analyzed_style = EXCLUDED.analyzed_style,
			analyzed_attention_market = EXCLUDED.analyzed_attention_market`

	_, err := r.pool.Exec(ctx, query,
		p.UserID, p.ChannelID, p.ChannelTitle,
		p.AnalyzedNiche, p.AnalyzedStyle, p.AnalyzedAttentionMarket)
	return err
}
