package apiclient

import "time"

// Author is the compact user shown next to posts and comments
type Author struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// Post carries viewer-relative state
type Post struct {
	ID                 string    `json:"id"`
	Content            string    `json:"content"`
	CreatedAt          time.Time `json:"createdAt"`
	Author             Author    `json:"user"`
	Likes              int64     `json:"likes"`
	Comments           int64     `json:"comments"`
	IsLikedByUser      bool      `json:"isLikedByUser"`
	IsBookmarkedByUser bool      `json:"isBookmarkedByUser"`
}

// PostPage is one page of a post feed
type PostPage struct {
	Posts      []Post  `json:"posts"`
	NextCursor *string `json:"nextCursor"`
}

// Comment on a post
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	Author    Author    `json:"user"`
}

// CommentPage walks backwards from the newest comment
type CommentPage struct {
	Comments       []Comment `json:"comments"`
	PreviousCursor *string   `json:"previousCursor"`
}

// Notification about a like, follow or comment
type Notification struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"createdAt"`
	Issuer      Author    `json:"issuer"`
	PostID      *string   `json:"postId,omitempty"`
	PostContent string    `json:"postContent,omitempty"`
}

// NotificationPage is one page of notifications
type NotificationPage struct {
	Notifications []Notification `json:"notifications"`
	NextCursor    *string        `json:"nextCursor"`
}

// LikeInfo for a post
type LikeInfo struct {
	Likes         int64 `json:"likes"`
	IsLikedByUser bool  `json:"isLikedByUser"`
}

// FollowerInfo for a user
type FollowerInfo struct {
	Followers        int64 `json:"followers"`
	IsFollowedByUser bool  `json:"isFollowedByUser"`
}

// BookmarkInfo for a post
type BookmarkInfo struct {
	IsBookmarkedByUser bool `json:"isBookmarkedByUser"`
}

// Profile is a user page header
type Profile struct {
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

// Trend is a hashtag and how many recent posts used it
type Trend struct {
	Hashtag string `json:"hashtag"`
	Count   int    `json:"count"`
}

// ChatToken authorizes the chat SDK
type ChatToken struct {
	Token     string    `json:"token"`
	APIKey    string    `json:"apiKey"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type postEnvelope struct {
	Post Post `json:"post"`
}

type commentEnvelope struct {
	Comment Comment `json:"comment"`
}

type profileEnvelope struct {
	User Profile `json:"user"`
}

type usersEnvelope struct {
	Users []Author `json:"users"`
}

type trendsEnvelope struct {
	Trends []Trend `json:"trends"`
}

type unreadEnvelope struct {
	UnreadCount int64 `json:"unreadCount"`
}

type markedEnvelope struct {
	Marked int64 `json:"marked"`
}

type contentRequest struct {
	Content string `json:"content"`
}
