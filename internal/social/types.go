package social

import (
	"context"
	"time"

	"github.com/zfogg/trellis/internal/models"
)

// LikeInfo is the like state of a post for one viewer
type LikeInfo struct {
	Likes         int64 `json:"likes"`
	IsLikedByUser bool  `json:"isLikedByUser"`
}

// FollowerInfo is the follow state of a user for one viewer
type FollowerInfo struct {
	Followers        int64 `json:"followers"`
	IsFollowedByUser bool  `json:"isFollowedByUser"`
}

// BookmarkInfo is the bookmark state of a post for one viewer
type BookmarkInfo struct {
	IsBookmarkedByUser bool `json:"isBookmarkedByUser"`
}

// UserProfile is a user page as seen by one viewer
type UserProfile struct {
	ID          string       `json:"id"`
	Username    string       `json:"username"`
	DisplayName string       `json:"displayName"`
	Bio         string       `json:"bio,omitempty"`
	AvatarURL   string       `json:"avatarUrl,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	Posts       int64        `json:"posts"`
	Following   int64        `json:"following"`
	FollowState FollowerInfo `json:"followers"`
}

// Trend is a hashtag and the number of recent posts using it
type Trend struct {
	Hashtag string `json:"hashtag"`
	Count   int    `json:"count"`
}

// Notifier pushes freshly created notifications to connected clients
type Notifier interface {
	NotifyUser(ctx context.Context, userID string, n models.Notification)
}
