package optimistic

// LikeState is the client's view of a post's likes
type LikeState struct {
	Likes         int64
	IsLikedByUser bool
}

// ToggleLike flips the viewer's like and adjusts the count to match
func ToggleLike(s LikeState) LikeState {
	if s.IsLikedByUser {
		return LikeState{Likes: max(s.Likes-1, 0), IsLikedByUser: false}
	}
	return LikeState{Likes: s.Likes + 1, IsLikedByUser: true}
}

// FollowState is the client's view of a user's followers
type FollowState struct {
	Followers        int64
	IsFollowedByUser bool
}

// ToggleFollow flips the viewer's follow and adjusts the count to match
func ToggleFollow(s FollowState) FollowState {
	if s.IsFollowedByUser {
		return FollowState{Followers: max(s.Followers-1, 0), IsFollowedByUser: false}
	}
	return FollowState{Followers: s.Followers + 1, IsFollowedByUser: true}
}

// BookmarkState is the client's view of a post's bookmark
type BookmarkState struct {
	IsBookmarkedByUser bool
}

// ToggleBookmark flips the viewer's bookmark
func ToggleBookmark(s BookmarkState) BookmarkState {
	return BookmarkState{IsBookmarkedByUser: !s.IsBookmarkedByUser}
}
