package social

import (
	"context"

	"github.com/zfogg/trellis/internal/errors"
	"github.com/zfogg/trellis/internal/models"
	"github.com/zfogg/trellis/internal/util"
	"gorm.io/gorm"
)

// CreatePost publishes content as the viewer
func (s *Service) CreatePost(ctx context.Context, viewerID, content string) (*models.Post, error) {
	content, err := util.ValidateContent("content", content, util.MaxPostLength)
	if err != nil {
		return nil, err
	}

	post := &models.Post{UserID: viewerID, Content: content}
	err = s.mutate(ctx, "create_post", viewerID, "", func(tx *gorm.DB) (bool, []models.Notification, error) {
		if err := requireUser(tx, viewerID); err != nil {
			return false, nil, err
		}
		return true, nil, tx.Create(post).Error
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost deletes postID and everything attached to it. Only the author
// may delete a post.
func (s *Service) DeletePost(ctx context.Context, viewerID, postID string) error {
	err := s.mutate(ctx, "delete_post", viewerID, postID, func(tx *gorm.DB) (bool, []models.Notification, error) {
		post, err := loadPost(tx, postID)
		if err != nil {
			return false, nil, err
		}
		if post.UserID != viewerID {
			return false, nil, errors.Forbidden("only the author can delete this post")
		}

		for _, model := range []interface{}{&models.Like{}, &models.Bookmark{}, &models.Comment{}, &models.Notification{}} {
			if err := tx.Where("post_id = ?", postID).Delete(model).Error; err != nil {
				return false, nil, err
			}
		}
		if err := tx.Delete(&models.Post{}, "id = ?", postID).Error; err != nil {
			return false, nil, err
		}
		return true, nil, nil
	})
	if err != nil {
		return err
	}
	// Notifications on the post were addressed to its author
	s.invalidateUnread(ctx, viewerID)
	return nil
}

// CreateComment adds a comment by the viewer to postID and notifies the
// post author
func (s *Service) CreateComment(ctx context.Context, viewerID, postID, content string) (*models.Comment, error) {
	content, err := util.ValidateContent("content", content, util.MaxCommentLength)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{PostID: postID, UserID: viewerID, Content: content}
	err = s.mutate(ctx, "comment", viewerID, postID, func(tx *gorm.DB) (bool, []models.Notification, error) {
		post, err := loadPost(tx, postID)
		if err != nil {
			return false, nil, err
		}
		if err := tx.Create(comment).Error; err != nil {
			return false, nil, err
		}
		if post.UserID == viewerID {
			return true, nil, nil
		}

		n := models.Notification{
			RecipientID: post.UserID,
			IssuerID:    viewerID,
			PostID:      &post.ID,
			Type:        models.NotificationComment,
		}
		if err := tx.Create(&n).Error; err != nil {
			return false, nil, err
		}
		return true, []models.Notification{n}, nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Preload("User").Where("id = ?", comment.ID).First(comment).Error; err != nil {
		return nil, errors.FromDB(err, "comment")
	}
	return comment, nil
}

// DeleteComment deletes commentID. Only the comment author may delete it.
func (s *Service) DeleteComment(ctx context.Context, viewerID, commentID string) error {
	return s.mutate(ctx, "delete_comment", viewerID, commentID, func(tx *gorm.DB) (bool, []models.Notification, error) {
		var comment models.Comment
		if err := tx.Where("id = ?", commentID).First(&comment).Error; err != nil {
			return false, nil, errors.FromDB(err, "comment")
		}
		if comment.UserID != viewerID {
			return false, nil, errors.Forbidden("only the author can delete this comment")
		}
		return true, nil, tx.Delete(&models.Comment{}, "id = ?", commentID).Error
	})
}
