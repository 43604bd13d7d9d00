package social

import (
	"context"

	"github.com/zfogg/trellis/internal/errors"
	"github.com/zfogg/trellis/internal/models"
	"gorm.io/gorm"
)

// Follow makes the viewer follow userID and notifies them
func (s *Service) Follow(ctx context.Context, viewerID, userID string) (FollowerInfo, error) {
	if viewerID == userID {
		return FollowerInfo{}, errors.ValidationError("userId", "you cannot follow yourself")
	}

	err := s.mutate(ctx, "follow", viewerID, userID, func(tx *gorm.DB) (bool, []models.Notification, error) {
		if err := requireUser(tx, userID); err != nil {
			return false, nil, err
		}

		inserted, err := insertIgnore(tx, &models.Follow{FollowerID: viewerID, FollowingID: userID})
		if err != nil || !inserted {
			return false, nil, err
		}

		n := models.Notification{
			RecipientID: userID,
			IssuerID:    viewerID,
			Type:        models.NotificationFollow,
		}
		if err := tx.Create(&n).Error; err != nil {
			return false, nil, err
		}
		return true, []models.Notification{n}, nil
	})
	if err != nil {
		return FollowerInfo{}, err
	}
	return s.FollowerInfo(ctx, viewerID, userID)
}

// Unfollow removes the follow and the notification it produced
func (s *Service) Unfollow(ctx context.Context, viewerID, userID string) (FollowerInfo, error) {
	if viewerID == userID {
		return FollowerInfo{}, errors.ValidationError("userId", "you cannot unfollow yourself")
	}

	err := s.mutate(ctx, "unfollow", viewerID, userID, func(tx *gorm.DB) (bool, []models.Notification, error) {
		if err := requireUser(tx, userID); err != nil {
			return false, nil, err
		}

		res := tx.Where("follower_id = ? AND following_id = ?", viewerID, userID).Delete(&models.Follow{})
		if res.Error != nil {
			return false, nil, res.Error
		}

		err := tx.Where("issuer_id = ? AND recipient_id = ? AND type = ?",
			viewerID, userID, models.NotificationFollow).
			Delete(&models.Notification{}).Error
		if err != nil {
			return false, nil, err
		}
		return res.RowsAffected > 0, nil, nil
	})
	if err != nil {
		return FollowerInfo{}, err
	}
	s.invalidateUnread(ctx, userID)
	return s.FollowerInfo(ctx, viewerID, userID)
}

// FollowerInfo returns the follower count of userID and whether the viewer follows them
func (s *Service) FollowerInfo(ctx context.Context, viewerID, userID string) (FollowerInfo, error) {
	db := s.db.WithContext(ctx)
	if err := requireUser(db, userID); err != nil {
		return FollowerInfo{}, errors.FromDB(err, "user")
	}

	var info FollowerInfo
	if err := db.Model(&models.Follow{}).Where("following_id = ?", userID).Count(&info.Followers).Error; err != nil {
		return FollowerInfo{}, errors.Infrastructure("failed to count followers", err)
	}

	var mine int64
	err := db.Model(&models.Follow{}).Where("following_id = ? AND follower_id = ?", userID, viewerID).Count(&mine).Error
	if err != nil {
		return FollowerInfo{}, errors.Infrastructure("failed to load follow", err)
	}
	info.IsFollowedByUser = mine > 0
	return info, nil
}
