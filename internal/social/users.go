package social

import (
	"context"

	"github.com/zfogg/trellis/internal/errors"
	"github.com/zfogg/trellis/internal/models"
)

// UserByUsername returns the profile of username as seen by the viewer
func (s *Service) UserByUsername(ctx context.Context, viewerID, username string) (UserProfile, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.Where("LOWER(username) = LOWER(?)", username).First(&user).Error; err != nil {
		return UserProfile{}, errors.FromDB(err, "user")
	}

	profile := UserProfile{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Bio:         user.Bio,
		AvatarURL:   user.AvatarURL,
		CreatedAt:   user.CreatedAt,
	}

	if err := db.Model(&models.Post{}).Where("user_id = ?", user.ID).Count(&profile.Posts).Error; err != nil {
		return UserProfile{}, errors.Infrastructure("failed to count posts", err)
	}
	if err := db.Model(&models.Follow{}).Where("follower_id = ?", user.ID).Count(&profile.Following).Error; err != nil {
		return UserProfile{}, errors.Infrastructure("failed to count following", err)
	}

	info, err := s.FollowerInfo(ctx, viewerID, user.ID)
	if err != nil {
		return UserProfile{}, err
	}
	profile.FollowState = info
	return profile, nil
}

// WhoToFollow suggests up to five users the viewer does not follow yet,
// newest accounts first
func (s *Service) WhoToFollow(ctx context.Context, viewerID string) ([]models.User, error) {
	followed := s.db.Model(&models.Follow{}).Select("following_id").Where("follower_id = ?", viewerID)

	var users []models.User
	err := s.db.WithContext(ctx).
		Where("id <> ? AND id NOT IN (?)", viewerID, followed).
		Order("created_at DESC, id DESC").
		Limit(whoToFollowMax).
		Find(&users).Error
	if err != nil {
		return nil, errors.Infrastructure("failed to load suggestions", err)
	}
	return users, nil
}
