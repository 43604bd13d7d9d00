package social

import (
	"context"

	"github.com/zfogg/trellis/internal/errors"
	"github.com/zfogg/trellis/internal/models"
	"gorm.io/gorm"
)

// Bookmark saves postID for the viewer
func (s *Service) Bookmark(ctx context.Context, viewerID, postID string) (BookmarkInfo, error) {
	err := s.mutate(ctx, "bookmark", viewerID, postID, func(tx *gorm.DB) (bool, []models.Notification, error) {
		if _, err := loadPost(tx, postID); err != nil {
			return false, nil, err
		}
		inserted, err := insertIgnore(tx, &models.Bookmark{UserID: viewerID, PostID: postID})
		return inserted, nil, err
	})
	if err != nil {
		return BookmarkInfo{}, err
	}
	return BookmarkInfo{IsBookmarkedByUser: true}, nil
}

// Unbookmark removes postID from the viewer's bookmarks
func (s *Service) Unbookmark(ctx context.Context, viewerID, postID string) (BookmarkInfo, error) {
	err := s.mutate(ctx, "unbookmark", viewerID, postID, func(tx *gorm.DB) (bool, []models.Notification, error) {
		if _, err := loadPost(tx, postID); err != nil {
			return false, nil, err
		}
		res := tx.Where("user_id = ? AND post_id = ?", viewerID, postID).Delete(&models.Bookmark{})
		return res.RowsAffected > 0, nil, res.Error
	})
	if err != nil {
		return BookmarkInfo{}, err
	}
	return BookmarkInfo{IsBookmarkedByUser: false}, nil
}

// BookmarkInfo reports whether the viewer bookmarked postID
func (s *Service) BookmarkInfo(ctx context.Context, viewerID, postID string) (BookmarkInfo, error) {
	db := s.db.WithContext(ctx)
	if _, err := loadPost(db, postID); err != nil {
		return BookmarkInfo{}, err
	}

	var n int64
	err := db.Model(&models.Bookmark{}).Where("user_id = ? AND post_id = ?", viewerID, postID).Count(&n).Error
	if err != nil {
		return BookmarkInfo{}, errors.Infrastructure("failed to load bookmark", err)
	}
	return BookmarkInfo{IsBookmarkedByUser: n > 0}, nil
}
