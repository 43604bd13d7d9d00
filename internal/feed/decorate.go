package feed

import (
	"context"

	"github.com/zfogg/trellis/internal/errors"
	"github.com/zfogg/trellis/internal/models"
	"gorm.io/gorm"
)

type postCount struct {
	PostID string
	N      int64
}

// decorate attaches viewer-relative state to posts with one grouped query
// per relation, regardless of page size.
func decorate(ctx context.Context, db *gorm.DB, viewerID string, posts []models.Post) ([]PostView, error) {
	views := make([]PostView, len(posts))
	if len(posts) == 0 {
		return views, nil
	}

	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	likes, err := countByPost(ctx, db, "likes", ids)
	if err != nil {
		return nil, err
	}
	comments, err := countByPost(ctx, db, "comments", ids)
	if err != nil {
		return nil, err
	}
	liked, err := viewerPostSet(ctx, db, "likes", viewerID, ids)
	if err != nil {
		return nil, err
	}
	bookmarked, err := viewerPostSet(ctx, db, "bookmarks", viewerID, ids)
	if err != nil {
		return nil, err
	}

	for i, p := range posts {
		views[i] = PostView{
			ID:                 p.ID,
			Content:            p.Content,
			CreatedAt:          p.CreatedAt,
			Author:             NewAuthor(p.User),
			LikeCount:          likes[p.ID],
			CommentCount:       comments[p.ID],
			IsLikedByUser:      liked[p.ID],
			IsBookmarkedByUser: bookmarked[p.ID],
		}
	}
	return views, nil
}

func countByPost(ctx context.Context, db *gorm.DB, table string, ids []string) (map[string]int64, error) {
	var rows []postCount
	err := db.WithContext(ctx).
		Table(table).
		Select("post_id, COUNT(*) AS n").
		Where("post_id IN ?", ids).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Infrastructure("failed to count "+table, err)
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.PostID] = r.N
	}
	return counts, nil
}

func viewerPostSet(ctx context.Context, db *gorm.DB, table, viewerID string, ids []string) (map[string]bool, error) {
	var postIDs []string
	err := db.WithContext(ctx).
		Table(table).
		Where("user_id = ? AND post_id IN ?", viewerID, ids).
		Pluck("post_id", &postIDs).Error
	if err != nil {
		return nil, errors.Infrastructure("failed to load "+table, err)
	}

	set := make(map[string]bool, len(postIDs))
	for _, id := range postIDs {
		set[id] = true
	}
	return set, nil
}
