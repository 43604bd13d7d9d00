package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Post commands",
}

var postCreateCmd = &cobra.Command{
	Use:   "create <text...>",
	Short: "Publish a post",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		post, err := client.CreatePost(commandContext(cmd), strings.Join(args, " "))
		if err != nil {
			return err
		}
		return render(post, func() {
			success.Println("✓ Posted")
			printPost(*post)
		})
	},
}

var postShowCmd = &cobra.Command{
	Use:   "show <post-id>",
	Short: "Show one post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		post, err := client.Post(commandContext(cmd), args[0])
		if err != nil {
			return err
		}
		return render(post, func() { printPost(*post) })
	},
}

var postDeleteCmd = &cobra.Command{
	Use:   "delete <post-id>",
	Short: "Delete one of your posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		if err := client.DeletePost(commandContext(cmd), args[0]); err != nil {
			return err
		}
		success.Println("✓ Post deleted")
		return nil
	},
}

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Comment commands",
}

var commentAddCmd = &cobra.Command{
	Use:   "add <post-id> <text...>",
	Short: "Comment on a post",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		comment, err := client.CreateComment(commandContext(cmd), args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		return render(comment, func() {
			success.Println("✓ Comment added")
			printComment(*comment)
		})
	},
}

var commentDeleteCmd = &cobra.Command{
	Use:   "delete <comment-id>",
	Short: "Delete one of your comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		if err := client.DeleteComment(commandContext(cmd), args[0]); err != nil {
			return err
		}
		success.Println("✓ Comment deleted")
		return nil
	},
}

func init() {
	postCmd.AddCommand(postCreateCmd)
	postCmd.AddCommand(postShowCmd)
	postCmd.AddCommand(postDeleteCmd)

	commentCmd.AddCommand(commentAddCmd)
	commentCmd.AddCommand(commentDeleteCmd)
}
