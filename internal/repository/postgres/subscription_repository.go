package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SubscriptionRepository struct {
	db *pgxpool.Pool
}

func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(subscriberID, channelID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
		INSERT INTO subscriptions (subscriber_id, channel_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (subscriber_id, channel_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, subscriberID, channelID)
	return err
}

func (r *SubscriptionRepository) Delete(subscriberID, channelID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2`
	_, err := r.db.Exec(ctx, query, subscriberID, channelID)
	return err
}

func (r *SubscriptionRepository) Exists(subscriberID, channelID uuid.UUID) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `SELECT EXISTS (SELECT 1 FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, subscriberID, channelID).Scan(&exists)
	return exists, err
}

func (r *SubscriptionRepository) CountSubscribers(channelID uuid.UUID) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1`, channelID).Scan(&count)
	return count, err
}

func (r *SubscriptionRepository) CountSubscribedTo(subscriberID uuid.UUID) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM subscriptions WHERE subscriber_id = $1`, subscriberID).Scan(&count)
	return count, err
}
