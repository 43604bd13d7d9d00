package main

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zfogg/trellis/pkg/apiclient"
	"github.com/zfogg/trellis/pkg/assembler"
)

var feedPages int

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Feed commands",
	Long:  "Read feeds page by page. --pages controls how many pages are loaded.",
}

var feedForYouCmd = &cobra.Command{
	Use:   "for-you",
	Short: "View every post, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showPostFeed(cmd, "For You", func(c *apiclient.Client) postFetcher { return c.ForYou })
	},
}

var feedFollowingCmd = &cobra.Command{
	Use:   "following",
	Short: "View posts from people you follow",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showPostFeed(cmd, "Following", func(c *apiclient.Client) postFetcher { return c.Following })
	},
}

var feedBookmarksCmd = &cobra.Command{
	Use:   "bookmarks",
	Short: "View your saved posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showPostFeed(cmd, "Bookmarks", func(c *apiclient.Client) postFetcher { return c.Bookmarked })
	},
}

var feedUserCmd = &cobra.Command{
	Use:   "user <username>",
	Short: "View one user's posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		profile, err := client.UserByUsername(commandContext(cmd), args[0])
		if err != nil {
			return err
		}
		return showPostFeed(cmd, "@"+profile.Username, func(c *apiclient.Client) postFetcher {
			return func(ctx context.Context, cursor *string) (*apiclient.PostPage, error) {
				return c.UserPosts(ctx, profile.ID, cursor)
			}
		})
	},
}

var feedSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search posts by content or author",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		return showPostFeed(cmd, "Results for \""+query+"\"", func(c *apiclient.Client) postFetcher {
			return func(ctx context.Context, cursor *string) (*apiclient.PostPage, error) {
				return c.Search(ctx, query, cursor)
			}
		})
	},
}

var feedCommentsCmd = &cobra.Command{
	Use:   "comments <post-id>",
	Short: "View comments on a post, oldest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		comments := assembler.New(func(ctx context.Context, cursor *string) (assembler.Page[apiclient.Comment], error) {
			page, err := client.Comments(ctx, args[0], cursor)
			if err != nil {
				return assembler.Page[apiclient.Comment]{}, err
			}
			return assembler.Page[apiclient.Comment]{Items: page.Comments, NextCursor: page.PreviousCursor}, nil
		})
		if err := loadPages(commandContext(cmd), comments); err != nil {
			return err
		}

		// Each page is oldest first and later pages hold older comments
		items := comments.ItemsBackward()
		return render(items, func() {
			bold.Printf("Comments (%d)\n", len(items))
			for _, c := range items {
				printComment(c)
			}
			if comments.HasMore() {
				faint.Println("more comments available, raise --pages")
			}
		})
	},
}

type postFetcher func(ctx context.Context, cursor *string) (*apiclient.PostPage, error)

func init() {
	feedCmd.PersistentFlags().IntVar(&feedPages, "pages", 1, "Number of pages to load")

	feedCmd.AddCommand(feedForYouCmd)
	feedCmd.AddCommand(feedFollowingCmd)
	feedCmd.AddCommand(feedBookmarksCmd)
	feedCmd.AddCommand(feedUserCmd)
	feedCmd.AddCommand(feedSearchCmd)
	feedCmd.AddCommand(feedCommentsCmd)
}

func showPostFeed(cmd *cobra.Command, title string, source func(*apiclient.Client) postFetcher) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	fetch := source(client)

	feed := assembler.New(func(ctx context.Context, cursor *string) (assembler.Page[apiclient.Post], error) {
		page, err := fetch(ctx, cursor)
		if err != nil {
			return assembler.Page[apiclient.Post]{}, err
		}
		return assembler.Page[apiclient.Post]{Items: page.Posts, NextCursor: page.NextCursor}, nil
	})
	if err := loadPages(commandContext(cmd), feed); err != nil {
		return err
	}

	posts := feed.Items()
	return render(posts, func() {
		printPosts(title, posts)
		if feed.HasMore() {
			faint.Printf("loaded %d pages, more available\n", feed.PageCount())
		}
	})
}

// loadPages fetches up to --pages pages, stopping early at the end of the feed
func loadPages[T any](ctx context.Context, a *assembler.Assembler[T]) error {
	for i := 0; i < feedPages; i++ {
		err := a.FetchMore(ctx)
		if errors.Is(err, assembler.ErrExhausted) {
			return nil
		}
		if err != nil {
			return err
		}
		logger.Debug("Loaded page", "page", i+1, "items", len(a.Items()))
	}
	return nil
}
