package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zfogg/trellis/pkg/apiclient"
	"github.com/zfogg/trellis/pkg/optimistic"
)

var likeCmd = &cobra.Command{
	Use:   "like <post-id>",
	Short: "Toggle your like on a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		return toggleLike(commandContext(cmd), client, args[0])
	},
}

var bookmarkCmd = &cobra.Command{
	Use:   "bookmark <post-id>",
	Short: "Toggle a bookmark on a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		return toggleBookmark(commandContext(cmd), client, args[0])
	},
}

var followCmd = &cobra.Command{
	Use:   "follow <username>",
	Short: "Toggle following a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		return toggleFollow(commandContext(cmd), client, args[0])
	},
}

func warnRollback(key string, err error) {
	warning.Printf("⚠ Could not update %s, change undone: %v\n", key, err)
}

func toggleLike(ctx context.Context, client *apiclient.Client, postID string) error {
	info, err := client.LikeInfo(ctx, postID)
	if err != nil {
		return err
	}

	cache := optimistic.NewCache[optimistic.LikeState]()
	cache.Set(postID, optimistic.LikeState{Likes: info.Likes, IsLikedByUser: info.IsLikedByUser})
	mutator := optimistic.NewMutator(cache, optimistic.OnRollback[optimistic.LikeState](warnRollback))

	state, err := mutator.Do(ctx, postID, optimistic.ToggleLike, func(ctx context.Context, next optimistic.LikeState) error {
		printLikeState(next, true)
		if next.IsLikedByUser {
			_, err := client.Like(ctx, postID)
			return err
		}
		_, err := client.Unlike(ctx, postID)
		return err
	})
	if err != nil {
		return err
	}
	return render(state, func() { printLikeState(state, false) })
}

func printLikeState(s optimistic.LikeState, pending bool) {
	if output == "json" {
		return
	}
	label := "Unliked"
	if s.IsLikedByUser {
		label = heart.Sprint("♥ Liked")
	}
	if pending {
		faint.Printf("%s (%d likes)…\n", label, s.Likes)
		return
	}
	success.Print("✓ ")
	fmt.Printf("%s (%d likes)\n", label, s.Likes)
}

func toggleBookmark(ctx context.Context, client *apiclient.Client, postID string) error {
	info, err := client.BookmarkInfo(ctx, postID)
	if err != nil {
		return err
	}

	cache := optimistic.NewCache[optimistic.BookmarkState]()
	cache.Set(postID, optimistic.BookmarkState{IsBookmarkedByUser: info.IsBookmarkedByUser})
	mutator := optimistic.NewMutator(cache, optimistic.OnRollback[optimistic.BookmarkState](warnRollback))

	state, err := mutator.Do(ctx, postID, optimistic.ToggleBookmark, func(ctx context.Context, next optimistic.BookmarkState) error {
		if next.IsBookmarkedByUser {
			_, err := client.Bookmark(ctx, postID)
			return err
		}
		_, err := client.Unbookmark(ctx, postID)
		return err
	})
	if err != nil {
		return err
	}
	return render(state, func() {
		if state.IsBookmarkedByUser {
			success.Println("✓ Saved to bookmarks")
		} else {
			success.Println("✓ Removed from bookmarks")
		}
	})
}

func toggleFollow(ctx context.Context, client *apiclient.Client, username string) error {
	profile, err := client.UserByUsername(ctx, username)
	if err != nil {
		return err
	}

	cache := optimistic.NewCache[optimistic.FollowState]()
	cache.Set(profile.ID, optimistic.FollowState{
		Followers:        profile.FollowState.Followers,
		IsFollowedByUser: profile.FollowState.IsFollowedByUser,
	})
	mutator := optimistic.NewMutator(cache, optimistic.OnRollback[optimistic.FollowState](func(_ string, err error) {
		warnRollback("@"+profile.Username, err)
	}))

	state, err := mutator.Do(ctx, profile.ID, optimistic.ToggleFollow, func(ctx context.Context, next optimistic.FollowState) error {
		if next.IsFollowedByUser {
			_, err := client.Follow(ctx, profile.ID)
			return err
		}
		_, err := client.Unfollow(ctx, profile.ID)
		return err
	})
	if err != nil {
		return err
	}
	return render(state, func() {
		verb := "Unfollowed"
		if state.IsFollowedByUser {
			verb = "Following"
		}
		success.Printf("✓ %s @%s", verb, profile.Username)
		faint.Printf(" (%d followers)\n", state.Followers)
	})
}
