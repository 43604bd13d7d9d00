package feed

import (
	"time"

	"github.com/zfogg/trellis/internal/models"
)

// Author is the public summary of a user shown next to their content
type Author struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// PostView is a post as seen by one viewer
type PostView struct {
	ID                 string    `json:"id"`
	Content            string    `json:"content"`
	CreatedAt          time.Time `json:"createdAt"`
	Author             Author    `json:"user"`
	LikeCount          int64     `json:"likes"`
	CommentCount       int64     `json:"comments"`
	IsLikedByUser      bool      `json:"isLikedByUser"`
	IsBookmarkedByUser bool      `json:"isBookmarkedByUser"`
}

// CommentView is a comment with its author
type CommentView struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	Author    Author    `json:"user"`
}

// NotificationView is a notification with its issuer and, for likes and
// comments, the post it refers to
type NotificationView struct {
	ID          string                  `json:"id"`
	Type        models.NotificationType `json:"type"`
	Read        bool                    `json:"read"`
	CreatedAt   time.Time               `json:"createdAt"`
	Issuer      Author                  `json:"issuer"`
	PostID      *string                 `json:"postId,omitempty"`
	PostContent string                  `json:"postContent,omitempty"`
}

// CommentPage holds the newest comments of a page in display order
// (oldest first). PreviousCursor names the page of older comments.
type CommentPage struct {
	Comments       []CommentView `json:"comments"`
	PreviousCursor *string       `json:"previousCursor"`
}

// NewAuthor summarises u
func NewAuthor(u models.User) Author {
	return Author{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
	}
}

func newCommentView(c models.Comment) CommentView {
	return CommentView{
		ID:        c.ID,
		PostID:    c.PostID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		Author:    NewAuthor(c.User),
	}
}

func newNotificationView(n models.Notification) NotificationView {
	view := NotificationView{
		ID:        n.ID,
		Type:      n.Type,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
		Issuer:    NewAuthor(n.Issuer),
		PostID:    n.PostID,
	}
	if n.Post != nil {
		view.PostContent = n.Post.Content
	}
	return view
}
