package social

import (
	"context"

	"github.com/zfogg/trellis/internal/errors"
	"github.com/zfogg/trellis/internal/models"
	"gorm.io/gorm"
)

// Like records that the viewer likes postID and notifies the author.
// Liking an already liked post changes nothing.
func (s *Service) Like(ctx context.Context, viewerID, postID string) (LikeInfo, error) {
	err := s.mutate(ctx, "like", viewerID, postID, func(tx *gorm.DB) (bool, []models.Notification, error) {
		post, err := loadPost(tx, postID)
		if err != nil {
			return false, nil, err
		}

		inserted, err := insertIgnore(tx, &models.Like{UserID: viewerID, PostID: postID})
		if err != nil || !inserted {
			return false, nil, err
		}

		if post.UserID == viewerID {
			return true, nil, nil
		}
		n := models.Notification{
			RecipientID: post.UserID,
			IssuerID:    viewerID,
			PostID:      &post.ID,
			Type:        models.NotificationLike,
		}
		if err := tx.Create(&n).Error; err != nil {
			return false, nil, err
		}
		return true, []models.Notification{n}, nil
	})
	if err != nil {
		return LikeInfo{}, err
	}
	return s.LikeInfo(ctx, viewerID, postID)
}

// Unlike removes the viewer's like on postID and the notification it produced
func (s *Service) Unlike(ctx context.Context, viewerID, postID string) (LikeInfo, error) {
	err := s.mutate(ctx, "unlike", viewerID, postID, func(tx *gorm.DB) (bool, []models.Notification, error) {
		post, err := loadPost(tx, postID)
		if err != nil {
			return false, nil, err
		}

		res := tx.Where("user_id = ? AND post_id = ?", viewerID, postID).Delete(&models.Like{})
		if res.Error != nil {
			return false, nil, res.Error
		}

		err = tx.Where("issuer_id = ? AND recipient_id = ? AND post_id = ? AND type = ?",
			viewerID, post.UserID, postID, models.NotificationLike).
			Delete(&models.Notification{}).Error
		if err != nil {
			return false, nil, err
		}
		return res.RowsAffected > 0, nil, nil
	})
	if err != nil {
		return LikeInfo{}, err
	}
	s.invalidateUnreadForPost(ctx, postID)
	return s.LikeInfo(ctx, viewerID, postID)
}

// LikeInfo returns the like count of postID and whether the viewer likes it
func (s *Service) LikeInfo(ctx context.Context, viewerID, postID string) (LikeInfo, error) {
	db := s.db.WithContext(ctx)
	if _, err := loadPost(db, postID); err != nil {
		return LikeInfo{}, err
	}

	var info LikeInfo
	if err := db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&info.Likes).Error; err != nil {
		return LikeInfo{}, errors.Infrastructure("failed to count likes", err)
	}

	var mine int64
	err := db.Model(&models.Like{}).Where("post_id = ? AND user_id = ?", postID, viewerID).Count(&mine).Error
	if err != nil {
		return LikeInfo{}, errors.Infrastructure("failed to load like", err)
	}
	info.IsLikedByUser = mine > 0
	return info, nil
}

// invalidateUnreadForPost drops the cached unread count of the post author,
// whose notifications may have shrunk
func (s *Service) invalidateUnreadForPost(ctx context.Context, postID string) {
	if !s.cache.Enabled() {
		return
	}
	var post models.Post
	if err := s.db.WithContext(ctx).Select("user_id").Where("id = ?", postID).First(&post).Error; err == nil {
		s.invalidateUnread(ctx, post.UserID)
	}
}
