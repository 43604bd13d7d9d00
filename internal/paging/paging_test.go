package paging

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/zfogg/trellis/internal/errors"
	"github.com/zfogg/trellis/internal/models"
	"github.com/zfogg/trellis/internal/testutil"
	"gorm.io/gorm"
)

func postID(p models.Post) string { return p.ID }

func TestDecodeCursor(t *testing.T) {
	id := uuid.New().String()

	got, err := DecodeCursor(id)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	got, err = DecodeCursor("  ")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = DecodeCursor("1; DROP TABLE posts")
	assert.True(t, errors.IsCode(err, errors.ErrValidation))
}

func TestNewRequestBounds(t *testing.T) {
	req, err := NewRequest("", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, req.PageSize)

	req, err = NewRequest("", 500)
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, req.PageSize)

	req, err = NewRequest("", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, req.PageSize)
}

func TestTrim(t *testing.T) {
	ids := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = string(rune('a' + i))
		}
		return out
	}
	self := func(s string) string { return s }

	page := Trim(ids(4), 3, self)
	assert.Equal(t, []string{"a", "b", "c"}, page.Items)
	require.NotNil(t, page.NextCursor)
	assert.Equal(t, "d", *page.NextCursor)

	page = Trim(ids(3), 3, self)
	assert.Len(t, page.Items, 3)
	assert.Nil(t, page.NextCursor)

	page = Trim[string](nil, 3, self)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Nil(t, page.NextCursor)
}

func TestTrimReversed(t *testing.T) {
	self := func(s string) string { return s }

	page := TrimReversed([]string{"e", "d", "c", "b"}, 3, self)
	assert.Equal(t, []string{"c", "d", "e"}, page.Items)
	require.NotNil(t, page.NextCursor)
	assert.Equal(t, "b", *page.NextCursor)

	page = TrimReversed([]string{"b", "a"}, 3, self)
	assert.Equal(t, []string{"a", "b"}, page.Items)
	assert.Nil(t, page.NextCursor)
}

func TestMapKeepsCursor(t *testing.T) {
	next := "x"
	page := Map(Page[int]{Items: []int{1, 2}, NextCursor: &next}, func(i int) int { return i * 10 })
	assert.Equal(t, []int{10, 20}, page.Items)
	assert.Equal(t, &next, page.NextCursor)
}

// FetchSuite runs the fetcher against an in-memory store
type FetchSuite struct {
	suite.Suite
	db    *gorm.DB
	user  *models.User
	posts []*models.Post
}

func TestFetchSuite(t *testing.T) {
	suite.Run(t, new(FetchSuite))
}

func (s *FetchSuite) SetupTest() {
	s.db = testutil.NewDB(s.T())
	s.user = testutil.CreateUser(s.T(), s.db, "pager")
	s.posts = testutil.CreatePosts(s.T(), s.db, s.user.ID, 25)
}

func (s *FetchSuite) page(cursor string, size int) Page[models.Post] {
	req, err := NewRequest(cursor, size)
	s.Require().NoError(err)
	rows, err := Fetch[models.Post](context.Background(), s.db.Model(&models.Post{}), ByCreatedAt("posts"), req)
	s.Require().NoError(err)
	return Trim(rows, req.PageSize, postID)
}

func (s *FetchSuite) TestTwentyFiveRowsInPagesOfTen() {
	first := s.page("", 10)
	s.Len(first.Items, 10)
	s.Require().NotNil(first.NextCursor)
	s.Equal(s.posts[10].ID, *first.NextCursor)

	second := s.page(*first.NextCursor, 10)
	s.Len(second.Items, 10)
	s.Require().NotNil(second.NextCursor)
	s.Equal(s.posts[20].ID, *second.NextCursor)

	third := s.page(*second.NextCursor, 10)
	s.Len(third.Items, 5)
	s.Nil(third.NextCursor)
}

func (s *FetchSuite) TestCursorChainVisitsEveryRowOnce() {
	for _, size := range []int{1, 3, 7, 10, 24, 25, 26, 50} {
		seen := make(map[string]int)
		var ordered []string
		cursor := ""
		for {
			page := s.page(cursor, size)
			s.LessOrEqual(len(page.Items), size)
			for _, p := range page.Items {
				seen[p.ID]++
				ordered = append(ordered, p.ID)
			}
			if page.NextCursor == nil {
				break
			}
			cursor = *page.NextCursor
		}

		s.Len(ordered, len(s.posts), "page size %d", size)
		for id, n := range seen {
			s.Equal(1, n, "post %s seen %d times with page size %d", id, n, size)
		}
		for i, p := range s.posts {
			s.Equal(p.ID, ordered[i])
		}
	}
}

func (s *FetchSuite) TestNextCursorNilOnlyWhenExhausted() {
	page := s.page("", 25)
	s.Len(page.Items, 25)
	s.Nil(page.NextCursor)

	page = s.page("", 24)
	s.Len(page.Items, 24)
	s.NotNil(page.NextCursor)
}

func (s *FetchSuite) TestTiesBrokenByID() {
	other := testutil.CreateUser(s.T(), s.db, "ties")
	ts := 90 * time.Minute
	for i := 0; i < 6; i++ {
		testutil.CreatePost(s.T(), s.db, other.ID, "same instant", ts)
	}

	var total int64
	s.Require().NoError(s.db.Model(&models.Post{}).Count(&total).Error)

	seen := make(map[string]bool)
	cursor := ""
	for {
		page := s.page(cursor, 4)
		for _, p := range page.Items {
			s.False(seen[p.ID], "duplicate %s", p.ID)
			seen[p.ID] = true
		}
		if page.NextCursor == nil {
			break
		}
		cursor = *page.NextCursor
	}
	s.Len(seen, int(total))
}

func (s *FetchSuite) TestFilteredQuery() {
	other := testutil.CreateUser(s.T(), s.db, "other")
	testutil.CreatePosts(s.T(), s.db, other.ID, 3)

	req, err := NewRequest("", 10)
	s.Require().NoError(err)
	rows, err := Fetch[models.Post](context.Background(),
		s.db.Model(&models.Post{}).Where("posts.user_id = ?", other.ID), ByCreatedAt("posts"), req)
	s.Require().NoError(err)
	s.Len(rows, 3)
}

func (s *FetchSuite) TestDeletedCursorIsNotFound() {
	first := s.page("", 10)
	s.Require().NotNil(first.NextCursor)
	s.Require().NoError(s.db.Delete(&models.Post{}, "id = ?", *first.NextCursor).Error)

	req, err := NewRequest(*first.NextCursor, 10)
	s.Require().NoError(err)
	_, err = Fetch[models.Post](context.Background(), s.db.Model(&models.Post{}), ByCreatedAt("posts"), req)
	s.True(errors.IsCode(err, errors.ErrNotFound))
}

func (s *FetchSuite) TestAscendingKeyset() {
	ks := ByCreatedAt("posts")
	ks.Direction = Ascending

	req, err := NewRequest("", 10)
	s.Require().NoError(err)
	rows, err := Fetch[models.Post](context.Background(), s.db.Model(&models.Post{}), ks, req)
	s.Require().NoError(err)
	page := Trim(rows, 10, postID)
	s.Equal(s.posts[24].ID, page.Items[0].ID)
	s.Require().NotNil(page.NextCursor)

	req, err = NewRequest(*page.NextCursor, 10)
	s.Require().NoError(err)
	rows, err = Fetch[models.Post](context.Background(), s.db.Model(&models.Post{}), ks, req)
	s.Require().NoError(err)
	s.Equal(s.posts[14].ID, rows[0].ID)
}
