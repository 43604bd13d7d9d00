package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/term"
	"github.com/zfogg/trellis/pkg/apiclient"
)

var (
	bold    = color.New(color.Bold)
	faint   = color.New(color.Faint)
	success = color.New(color.FgGreen)
	warning = color.New(color.FgYellow)
	accent  = color.New(color.FgCyan)
	heart   = color.New(color.FgRed)
)

func printJSON(v interface{}) error {
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// render prints v as JSON when --output=json, otherwise calls text
func render(v interface{}, text func()) error {
	if output == "json" {
		return printJSON(v)
	}
	text()
	return nil
}

func ago(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

func printPost(p apiclient.Post) {
	bold.Printf("%s", p.Author.DisplayName)
	faint.Printf(" @%s · %s\n", p.Author.Username, ago(p.CreatedAt))
	fmt.Println(p.Content)

	likes := fmt.Sprintf("♡ %d", p.Likes)
	if p.IsLikedByUser {
		likes = heart.Sprintf("♥ %d", p.Likes)
	}
	mark := ""
	if p.IsBookmarkedByUser {
		mark = accent.Sprint("  ⚑ saved")
	}
	fmt.Printf("%s  💬 %d%s\n", likes, p.Comments, mark)
	faint.Printf("id: %s\n\n", p.ID)
}

func printPosts(title string, posts []apiclient.Post) {
	bold.Println(title)
	fmt.Println(strings.Repeat("─", 40))
	if len(posts) == 0 {
		fmt.Println("Nothing here yet.")
		return
	}
	for _, p := range posts {
		printPost(p)
	}
}

func printComment(c apiclient.Comment) {
	bold.Printf("%s", c.Author.DisplayName)
	faint.Printf(" @%s · %s\n", c.Author.Username, ago(c.CreatedAt))
	fmt.Printf("  %s\n", c.Content)
	faint.Printf("  id: %s\n", c.ID)
}

func printNotification(n apiclient.Notification) {
	marker := "  "
	if !n.Read {
		marker = accent.Sprint("● ")
	}
	var verb string
	switch n.Type {
	case "LIKE":
		verb = "liked your post"
	case "FOLLOW":
		verb = "followed you"
	case "COMMENT":
		verb = "commented on your post"
	default:
		verb = strings.ToLower(n.Type)
	}
	fmt.Printf("%s%s %s", marker, bold.Sprintf("@%s", n.Issuer.Username), verb)
	if n.PostContent != "" {
		faint.Printf(": %q", truncate(n.PostContent, previewWidth(int(os.Stdout.Fd()))))
	}
	faint.Printf(" · %s\n", ago(n.CreatedAt))
}

const defaultPreviewWidth = 40

// previewWidth sizes post previews to half the terminal behind fd
func previewWidth(fd int) int {
	if !term.IsTerminal(fd) {
		return defaultPreviewWidth
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return defaultPreviewWidth
	}
	return min(max(width/2, 20), 120)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
