package usecase

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/vidstream/backend/internal/domain"
)

var (
	ErrChannelNotFound = errors.New("channel not found")
	ErrSelfSubscribe   = errors.New("cannot subscribe to own channel")
	ErrNotSubscribed   = errors.New("not subscribed")
)

type UserUsecase struct {
	userRepo    domain.UserRepository
	subRepo     domain.SubscriptionRepository
	historyRepo domain.WatchHistoryRepository
}

func NewUserUsecase(userRepo domain.UserRepository, subRepo domain.SubscriptionRepository, historyRepo domain.WatchHistoryRepository) *UserUsecase {
	return &UserUsecase{
		userRepo:    userRepo,
		subRepo:     subRepo,
		historyRepo: historyRepo,
	}
}

// UpdateAccount patches the mutable profile fields. Empty inputs keep the
// current value. The password is never touched here, so no re-hash happens.
func (u *UserUsecase) UpdateAccount(userID uuid.UUID, fullName, email, username string) (*domain.User, error) {
	user, err := u.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if fullName = strings.TrimSpace(fullName); fullName != "" {
		user.FullName = fullName
	}

	// Each changed field is checked against its own unique column. A single
	// combined lookup can return the caller's own row and mask a collision
	// with another user.
	if username = strings.ToLower(strings.TrimSpace(username)); username != "" && username != user.Username {
		other, err := u.userRepo.GetByUsername(username)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, ErrUserExists
		}
		user.Username = username
	}
	if email = strings.ToLower(strings.TrimSpace(email)); email != "" && email != user.Email {
		other, err := u.userRepo.GetByEmail(email)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, ErrUserExists
		}
		user.Email = email
	}

	if err := u.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *UserUsecase) UpdateAvatar(userID uuid.UUID, avatarURL string) (*domain.User, error) {
	if err := u.userRepo.UpdateAvatar(userID, avatarURL); err != nil {
		return nil, err
	}
	return u.userRepo.GetByID(userID)
}

func (u *UserUsecase) UpdateCoverImage(userID uuid.UUID, coverImageURL string) (*domain.User, error) {
	if err := u.userRepo.UpdateCoverImage(userID, coverImageURL); err != nil {
		return nil, err
	}
	return u.userRepo.GetByID(userID)
}

// ChannelProfile assembles the public channel view for a viewer. viewerID may
// be uuid.Nil for anonymous viewers.
func (u *UserUsecase) ChannelProfile(username string, viewerID uuid.UUID) (*domain.ChannelProfile, error) {
	channel, err := u.userRepo.GetByUsername(strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		return nil, err
	}
	if channel == nil {
		return nil, ErrChannelNotFound
	}

	subscribers, err := u.subRepo.CountSubscribers(channel.ID)
	if err != nil {
		return nil, err
	}
	subscribedTo, err := u.subRepo.CountSubscribedTo(channel.ID)
	if err != nil {
		return nil, err
	}

	isSubscribed := false
	if viewerID != uuid.Nil {
		isSubscribed, err = u.subRepo.Exists(viewerID, channel.ID)
		if err != nil {
			return nil, err
		}
	}

	return &domain.ChannelProfile{
		ID:                channel.ID,
		Username:          channel.Username,
		FullName:          channel.FullName,
		Email:             channel.Email,
		AvatarURL:         channel.AvatarURL,
		CoverImageURL:     channel.CoverImageURL,
		SubscriberCount:   subscribers,
		SubscribedToCount: subscribedTo,
		IsSubscribed:      isSubscribed,
	}, nil
}

func (u *UserUsecase) Subscribe(subscriberID uuid.UUID, channelUsername string) error {
	channel, err := u.userRepo.GetByUsername(strings.ToLower(strings.TrimSpace(channelUsername)))
	if err != nil {
		return err
	}
	if channel == nil {
		return ErrChannelNotFound
	}
	if channel.ID == subscriberID {
		return ErrSelfSubscribe
	}
	return u.subRepo.Create(subscriberID, channel.ID)
}

func (u *UserUsecase) Unsubscribe(subscriberID uuid.UUID, channelUsername string) error {
	channel, err := u.userRepo.GetByUsername(strings.ToLower(strings.TrimSpace(channelUsername)))
	if err != nil {
		return err
	}
	if channel == nil {
		return ErrChannelNotFound
	}

	exists, err := u.subRepo.Exists(subscriberID, channel.ID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotSubscribed
	}
	return u.subRepo.Delete(subscriberID, channel.ID)
}

func (u *UserUsecase) WatchHistory(userID uuid.UUID, limit, offset int) ([]*domain.WatchHistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	return u.historyRepo.List(userID, limit, offset)
}

func (u *UserUsecase) AddToWatchHistory(userID, videoID uuid.UUID) error {
	return u.historyRepo.Add(userID, videoID)
}

func (u *UserUsecase) ClearWatchHistory(userID uuid.UUID) error {
	return u.historyRepo.Clear(userID)
}
