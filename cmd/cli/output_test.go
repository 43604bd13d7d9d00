package main

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "héll…", truncate("héllo wörld", 5))
}

func TestPreviewWidthOffTerminal(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	assert.Equal(t, defaultPreviewWidth, previewWidth(int(w.Fd())))
}

func TestAgo(t *testing.T) {
	assert.Equal(t, "just now", ago(time.Now()))
	assert.Equal(t, "5m", ago(time.Now().Add(-5*time.Minute-time.Second)))
	assert.Equal(t, "3h", ago(time.Now().Add(-3*time.Hour-time.Minute)))
	assert.Equal(t, "2d", ago(time.Now().Add(-49*time.Hour)))
}

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"feed", "for-you"},
		{"feed", "comments"},
		{"like"},
		{"follow"},
		{"notifications", "unread"},
		{"token"},
	} {
		cmd, _, err := rootCmd.Find(path)
		assert.NoError(t, err, path)
		assert.NotNil(t, cmd, path)
	}
}
