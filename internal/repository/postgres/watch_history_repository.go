package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidstream/backend/internal/domain"
)

type WatchHistoryRepository struct {
	db *pgxpool.Pool
}

func NewWatchHistoryRepository(db *pgxpool.Pool) *WatchHistoryRepository {
	return &WatchHistoryRepository{db: db}
}

func (r *WatchHistoryRepository) Add(userID, videoID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Re-watching bumps the entry to the front instead of duplicating it.
	query := `
		INSERT INTO watch_history (user_id, video_id, watched_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, video_id) DO UPDATE SET watched_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, userID, videoID)
	return err
}

func (r *WatchHistoryRepository) List(userID uuid.UUID, limit, offset int) ([]*domain.WatchHistoryEntry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	query := `
		SELECT wh.video_id, v.title, COALESCE(v.thumbnail_url, ''), wh.watched_at,
		       u.username, u.full_name, u.avatar_url
		FROM watch_history wh
		JOIN videos v ON v.id = wh.video_id
		JOIN users u ON u.id = v.owner_id
		WHERE wh.user_id = $1
		ORDER BY wh.watched_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.WatchHistoryEntry
	for rows.Next() {
		entry := &domain.WatchHistoryEntry{}
		if err := rows.Scan(
			&entry.VideoID,
			&entry.Title,
			&entry.ThumbnailURL,
			&entry.WatchedAt,
			&entry.Owner.Username,
			&entry.Owner.FullName,
			&entry.Owner.AvatarURL,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (r *WatchHistoryRepository) Clear(userID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `DELETE FROM watch_history WHERE user_id = $1`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}
