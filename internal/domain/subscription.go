package domain

import (
	"time"

	"github.com/google/uuid"
)

type Subscription struct {
	SubscriberID uuid.UUID `json:"subscriberId"`
	ChannelID    uuid.UUID `json:"channelId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ChannelProfile is the public view of a user as a channel, as seen by a
// particular viewer.
type ChannelProfile struct {
	ID                uuid.UUID `json:"id"`
	Username          string    `json:"username"`
	FullName          string    `json:"fullName"`
	Email             string    `json:"email"`
	AvatarURL         string    `json:"avatar"`
	CoverImageURL     string    `json:"coverImage,omitempty"`
	SubscriberCount   int       `json:"subscriberCount"`
	SubscribedToCount int       `json:"subscribedToCount"`
	IsSubscribed      bool      `json:"isSubscribed"`
}

type SubscriptionRepository interface {
	Create(subscriberID, channelID uuid.UUID) error
	Delete(subscriberID, channelID uuid.UUID) error
	Exists(subscriberID, channelID uuid.UUID) (bool, error)
	CountSubscribers(channelID uuid.UUID) (int, error)
	CountSubscribedTo(subscriberID uuid.UUID) (int, error)
}
