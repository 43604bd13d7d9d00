// Package feed serves the paginated lists of the network: the for-you,
// following, profile, bookmark, notification, comment and search feeds.
package feed

import (
	"context"
	"strings"
	"time"

	"github.com/zfogg/trellis/internal/errors"
	"github.com/zfogg/trellis/internal/logger"
	"github.com/zfogg/trellis/internal/metrics"
	"github.com/zfogg/trellis/internal/models"
	"github.com/zfogg/trellis/internal/paging"
	"github.com/zfogg/trellis/internal/telemetry"
	"github.com/zfogg/trellis/internal/util"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feed types, used as metric and span labels
const (
	TypeForYou        = "for-you"
	TypeFollowing     = "following"
	TypeUserPosts     = "user-posts"
	TypeBookmarks     = "bookmarks"
	TypeNotifications = "notifications"
	TypeComments      = "comments"
	TypeSearch        = "search"
)

var (
	postKeyset         = paging.ByCreatedAt("posts")
	bookmarkKeyset     = paging.ByCreatedAt("bookmarks")
	notificationKeyset = paging.ByCreatedAt("notifications")
	commentKeyset      = paging.ByCreatedAt("comments")
)

// Service loads feed pages. Every operation takes the viewer explicitly.
type Service struct {
	db     *gorm.DB
	events *telemetry.BusinessEvents
}

// NewService creates a feed service over db
func NewService(db *gorm.DB) *Service {
	return &Service{
		db:     db,
		events: telemetry.NewBusinessEvents(),
	}
}

func postID(p models.Post) string { return p.ID }

// observe wraps one page load with a span, metrics and a debug log line
func (s *Service) observe(ctx context.Context, feedType, viewerID string, req paging.Request, load func(ctx context.Context) (int, bool, error)) error {
	ctx, span := s.events.TraceFeedPage(ctx, feedType, req.Cursor, req.PageSize)
	defer span.End()

	start := time.Now()
	items, hasMore, err := load(ctx)
	if err != nil {
		span.RecordError(err)
		return err
	}

	telemetry.RecordPage(span, items, hasMore)
	metrics.RecordFeedPage(feedType, time.Since(start), items, hasMore)
	logger.Log.Debug("feed page served",
		zap.String("feed", feedType),
		logger.WithUserID(viewerID),
		logger.WithCursor(req.Cursor),
		zap.Int("items", items),
		zap.Bool("has_more", hasMore),
	)
	return nil
}

// postPage fetches, trims and decorates one page of posts matching query
func (s *Service) postPage(ctx context.Context, feedType, viewerID string, query *gorm.DB, req paging.Request) (paging.Page[PostView], error) {
	var out paging.Page[PostView]
	err := s.observe(ctx, feedType, viewerID, req, func(ctx context.Context) (int, bool, error) {
		rows, err := paging.Fetch[models.Post](ctx, query.Preload("User"), postKeyset, req)
		if err != nil {
			return 0, false, err
		}
		page := paging.Trim(rows, req.PageSize, postID)

		views, err := decorate(ctx, s.db, viewerID, page.Items)
		if err != nil {
			return 0, false, err
		}
		out = paging.Page[PostView]{Items: views, NextCursor: page.NextCursor}
		return len(views), out.NextCursor != nil, nil
	})
	return out, err
}

// ForYou returns every post, newest first
func (s *Service) ForYou(ctx context.Context, viewerID string, req paging.Request) (paging.Page[PostView], error) {
	return s.postPage(ctx, TypeForYou, viewerID, s.db.Model(&models.Post{}), req)
}

// Following returns posts by users the viewer follows, newest first
func (s *Service) Following(ctx context.Context, viewerID string, req paging.Request) (paging.Page[PostView], error) {
	followed := s.db.Model(&models.Follow{}).Select("following_id").Where("follower_id = ?", viewerID)
	query := s.db.Model(&models.Post{}).Where("posts.user_id IN (?)", followed)
	return s.postPage(ctx, TypeFollowing, viewerID, query, req)
}

// UserPosts returns the posts of userID, newest first
func (s *Service) UserPosts(ctx context.Context, viewerID, userID string, req paging.Request) (paging.Page[PostView], error) {
	if err := s.requireExists(ctx, &models.User{}, userID, "user"); err != nil {
		return paging.Page[PostView]{}, err
	}
	query := s.db.Model(&models.Post{}).Where("posts.user_id = ?", userID)
	return s.postPage(ctx, TypeUserPosts, viewerID, query, req)
}

// Post returns a single post as seen by the viewer
func (s *Service) Post(ctx context.Context, viewerID, postID string) (PostView, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).Preload("User").Where("id = ?", postID).First(&post).Error; err != nil {
		return PostView{}, errors.FromDB(err, "post")
	}
	views, err := decorate(ctx, s.db, viewerID, []models.Post{post})
	if err != nil {
		return PostView{}, err
	}
	return views[0], nil
}

// Bookmarks returns the viewer's bookmarked posts ordered by bookmark time.
// The cursor is a bookmark id, not a post id.
func (s *Service) Bookmarks(ctx context.Context, viewerID string, req paging.Request) (paging.Page[PostView], error) {
	var out paging.Page[PostView]
	err := s.observe(ctx, TypeBookmarks, viewerID, req, func(ctx context.Context) (int, bool, error) {
		query := s.db.Model(&models.Bookmark{}).
			Where("bookmarks.user_id = ?", viewerID).
			Preload("Post").
			Preload("Post.User")

		rows, err := paging.Fetch[models.Bookmark](ctx, query, bookmarkKeyset, req)
		if err != nil {
			return 0, false, err
		}
		page := paging.Trim(rows, req.PageSize, func(b models.Bookmark) string { return b.ID })

		posts := make([]models.Post, len(page.Items))
		for i, b := range page.Items {
			posts[i] = b.Post
		}
		views, err := decorate(ctx, s.db, viewerID, posts)
		if err != nil {
			return 0, false, err
		}
		out = paging.Page[PostView]{Items: views, NextCursor: page.NextCursor}
		return len(views), out.NextCursor != nil, nil
	})
	return out, err
}

// Notifications returns the viewer's notifications, newest first
func (s *Service) Notifications(ctx context.Context, viewerID string, req paging.Request) (paging.Page[NotificationView], error) {
	var out paging.Page[NotificationView]
	err := s.observe(ctx, TypeNotifications, viewerID, req, func(ctx context.Context) (int, bool, error) {
		query := s.db.Model(&models.Notification{}).
			Where("notifications.recipient_id = ?", viewerID).
			Preload("Issuer").
			Preload("Post")

		rows, err := paging.Fetch[models.Notification](ctx, query, notificationKeyset, req)
		if err != nil {
			return 0, false, err
		}
		page := paging.Trim(rows, req.PageSize, func(n models.Notification) string { return n.ID })
		out = paging.Map(page, newNotificationView)
		return len(out.Items), out.NextCursor != nil, nil
	})
	return out, err
}

// Comments returns a page of comments on postID. The newest comments are
// loaded first and returned oldest first; PreviousCursor walks backward to
// older comments.
func (s *Service) Comments(ctx context.Context, viewerID, postID string, req paging.Request) (CommentPage, error) {
	if err := s.requireExists(ctx, &models.Post{}, postID, "post"); err != nil {
		return CommentPage{}, err
	}

	var out CommentPage
	err := s.observe(ctx, TypeComments, viewerID, req, func(ctx context.Context) (int, bool, error) {
		query := s.db.Model(&models.Comment{}).
			Where("comments.post_id = ?", postID).
			Preload("User")

		rows, err := paging.Fetch[models.Comment](ctx, query, commentKeyset, req)
		if err != nil {
			return 0, false, err
		}
		page := paging.TrimReversed(rows, req.PageSize, func(c models.Comment) string { return c.ID })
		views := paging.Map(page, newCommentView)

		out = CommentPage{Comments: views.Items, PreviousCursor: views.NextCursor}
		return len(out.Comments), out.PreviousCursor != nil, nil
	})
	return out, err
}

// Search returns posts matching every word of q in the content or in the
// author's username or display name, newest first
func (s *Service) Search(ctx context.Context, viewerID, q string, req paging.Request) (paging.Page[PostView], error) {
	terms := util.ParseSearchTerms(q)
	if len(terms) == 0 {
		return paging.Page[PostView]{}, errors.ValidationError("q", "search query is required")
	}

	query := s.db.Model(&models.Post{})
	for _, term := range terms {
		pattern := "%" + escapeLike(term) + "%"
		authors := s.db.Model(&models.User{}).
			Select("id").
			Where(`LOWER(username) LIKE ? ESCAPE '\' OR LOWER(display_name) LIKE ? ESCAPE '\'`, pattern, pattern)
		query = query.Where(`(LOWER(posts.content) LIKE ? ESCAPE '\' OR posts.user_id IN (?))`, pattern, authors)
	}
	return s.postPage(ctx, TypeSearch, viewerID, query, req)
}

func (s *Service) requireExists(ctx context.Context, model interface{}, id, resource string) error {
	var n int64
	if err := s.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return errors.FromDB(err, resource)
	}
	if n == 0 {
		return errors.NotFound(resource)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
