package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidstream/backend/internal/domain"
)

type LoginEventRepository struct {
	db *pgxpool.Pool
}

func NewLoginEventRepository(db *pgxpool.Pool) *LoginEventRepository {
	return &LoginEventRepository{db: db}
}

func (r *LoginEventRepository) Create(event *domain.LoginEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.CreatedAt = time.Now()

	query := `
		INSERT INTO login_events (id, user_id, event, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query,
		event.ID, event.UserID, event.Event, event.IPAddress, event.UserAgent, event.CreatedAt,
	)
	return err
}

func (r *LoginEventRepository) ListByUser(userID uuid.UUID, limit int) ([]*domain.LoginEvent, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	query := `
		SELECT id, user_id, event, ip_address, user_agent, created_at
		FROM login_events
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.LoginEvent
	for rows.Next() {
		event := &domain.LoginEvent{}
		if err := rows.Scan(
			&event.ID, &event.UserID, &event.Event, &event.IPAddress, &event.UserAgent, &event.CreatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}
