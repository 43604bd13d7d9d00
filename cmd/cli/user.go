package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zfogg/trellis/pkg/apiclient"
	"github.com/zfogg/trellis/pkg/assembler"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "User commands",
}

var userShowCmd = &cobra.Command{
	Use:   "show <username>",
	Short: "Show a user's profile",
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
		return render(profile, func() {
			bold.Println(profile.DisplayName)
			faint.Printf("@%s\n", profile.Username)
			if profile.Bio != "" {
				fmt.Println(profile.Bio)
			}
			fmt.Printf("%d posts · %d followers · %d following\n",
				profile.Posts, profile.FollowState.Followers, profile.Following)
			if profile.FollowState.IsFollowedByUser {
				accent.Println("You follow this user")
			}
		})
	},
}

var userSuggestionsCmd = &cobra.Command{
	Use:   "suggestions",
	Short: "Users you might want to follow",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		users, err := client.WhoToFollow(commandContext(cmd))
		if err != nil {
			return err
		}
		return render(users, func() {
			bold.Println("Who to follow")
			if len(users) == 0 {
				fmt.Println("No suggestions right now.")
			}
			for _, u := range users {
				fmt.Printf("  %s ", u.DisplayName)
				faint.Printf("@%s\n", u.Username)
			}
		})
	},
}

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Trending hashtags",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		trends, err := client.Trends(commandContext(cmd))
		if err != nil {
			return err
		}
		return render(trends, func() {
			bold.Println("Trending")
			for i, t := range trends {
				fmt.Printf("%2d. %s ", i+1, accent.Sprint(t.Hashtag))
				faint.Printf("%d posts\n", t.Count)
			}
		})
	},
}

var chatTokenCmd = &cobra.Command{
	Use:   "chat-token",
	Short: "Issue a chat SDK token for the current user",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		token, err := client.ChatToken(commandContext(cmd))
		if err != nil {
			return err
		}
		return render(token, func() {
			fmt.Println(token.Token)
			faint.Printf("api key %s, expires %s\n", token.APIKey, token.ExpiresAt.Local().Format("15:04:05"))
		})
	},
}

var notificationsMarkRead bool

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "List your notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		ctx := commandContext(cmd)

		notes := assembler.New(func(ctx context.Context, cursor *string) (assembler.Page[apiclient.Notification], error) {
			page, err := client.Notifications(ctx, cursor)
			if err != nil {
				return assembler.Page[apiclient.Notification]{}, err
			}
			return assembler.Page[apiclient.Notification]{Items: page.Notifications, NextCursor: page.NextCursor}, nil
		})
		if err := loadPages(ctx, notes); err != nil {
			return err
		}

		items := notes.Items()
		if err := render(items, func() {
			bold.Println("Notifications")
			if len(items) == 0 {
				fmt.Println("You're all caught up.")
			}
			for _, n := range items {
				printNotification(n)
			}
		}); err != nil {
			return err
		}

		if notificationsMarkRead {
			if _, err := client.MarkAllRead(ctx); err != nil {
				return err
			}
			logger.Debug("Marked notifications read")
		}
		return nil
	},
}

var notificationsUnreadCmd = &cobra.Command{
	Use:   "unread",
	Short: "Show the unread notification count",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		n, err := client.UnreadCount(commandContext(cmd))
		if err != nil {
			return err
		}
		return render(map[string]int64{"unreadCount": n}, func() {
			fmt.Printf("%d unread\n", n)
		})
	},
}

var notificationsReadCmd = &cobra.Command{
	Use:   "read",
	Short: "Mark every notification read",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		n, err := client.MarkAllRead(commandContext(cmd))
		if err != nil {
			return err
		}
		success.Printf("✓ Marked %d notifications read\n", n)
		return nil
	},
}

func init() {
	userCmd.AddCommand(userShowCmd)
	userCmd.AddCommand(userSuggestionsCmd)

	notificationsCmd.Flags().IntVar(&feedPages, "pages", 1, "Number of pages to load")
	notificationsCmd.Flags().BoolVar(&notificationsMarkRead, "mark-read", false, "Mark all notifications read after listing")
	notificationsCmd.AddCommand(notificationsUnreadCmd)
	notificationsCmd.AddCommand(notificationsReadCmd)
}
