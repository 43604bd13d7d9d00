package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/zfogg/trellis/internal/auth"
	"github.com/zfogg/trellis/internal/chat"
	"github.com/zfogg/trellis/internal/feed"
	"github.com/zfogg/trellis/internal/middleware"
	"github.com/zfogg/trellis/internal/models"
	"github.com/zfogg/trellis/internal/social"
	"github.com/zfogg/trellis/internal/testutil"
	"gorm.io/gorm"
)

type postsResponse struct {
	Posts      []feed.PostView `json:"posts"`
	NextCursor *string         `json:"nextCursor"`
}

type errorResponse struct {
	Code  string `json:"code"`
	Field string `json:"field"`
}

// HandlersTestSuite runs the API against an in-memory store
type HandlersTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	chat   *chat.MockClient

	alice *models.User
	bob   *models.User
}

func TestHandlersSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}

func (s *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	s.db = testutil.NewDB(s.T())
	s.alice = testutil.CreateUser(s.T(), s.db, "alice")
	s.bob = testutil.CreateUser(s.T(), s.db, "bob")

	validator := auth.NewMockAuthService()
	validator.AddUser("alice-token", s.alice)
	validator.AddUser("bob-token", s.bob)

	s.chat = chat.NewMockClient()
	h := NewHandlers(feed.NewService(s.db), social.NewService(s.db), chat.NewService(s.chat, "key"))

	s.router = gin.New()
	s.router.GET("/health", Health(s.db, nil))
	api := s.router.Group("/api/v1", middleware.AuthMiddleware(validator))
	h.RegisterRoutes(api, func(c *gin.Context) { c.Next() })
}

func (s *HandlersTestSuite) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlersTestSuite) decode(w *httptest.ResponseRecorder, dst interface{}) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}

func (s *HandlersTestSuite) TestRequiresAuthentication() {
	w := s.do(http.MethodGet, "/api/v1/posts/for-you", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/v1/posts/for-you", "wrong", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlersTestSuite) TestForYouCursorChain() {
	posts := testutil.CreatePosts(s.T(), s.db, s.bob.ID, 25)

	var lengths []int
	var cursors []*string
	path := "/api/v1/posts/for-you?limit=10"
	for {
		w := s.do(http.MethodGet, path, "alice-token", nil)
		s.Require().Equal(http.StatusOK, w.Code)

		var page postsResponse
		s.decode(w, &page)
		lengths = append(lengths, len(page.Posts))
		cursors = append(cursors, page.NextCursor)
		if page.NextCursor == nil {
			break
		}
		path = "/api/v1/posts/for-you?limit=10&cursor=" + *page.NextCursor
	}

	s.Equal([]int{10, 10, 5}, lengths)
	s.Require().Len(cursors, 3)
	s.Equal(posts[10].ID, *cursors[0])
	s.Equal(posts[20].ID, *cursors[1])
	s.Nil(cursors[2])
}

func (s *HandlersTestSuite) TestEmptyFeedHasNullCursor() {
	w := s.do(http.MethodGet, "/api/v1/posts/following", "alice-token", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"posts":[],"nextCursor":null}`, w.Body.String())
}

func (s *HandlersTestSuite) TestMalformedCursor() {
	w := s.do(http.MethodGet, "/api/v1/posts/for-you?cursor=not-an-id", "alice-token", nil)
	s.Equal(http.StatusUnprocessableEntity, w.Code)

	var resp errorResponse
	s.decode(w, &resp)
	s.Equal("VALIDATION_ERROR", resp.Code)
	s.Equal("cursor", resp.Field)
}

func (s *HandlersTestSuite) TestLikeUnlike() {
	post := testutil.CreatePost(s.T(), s.db, s.bob.ID, "like me", 0)
	path := "/api/v1/posts/" + post.ID + "/likes"

	w := s.do(http.MethodPost, path, "alice-token", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"likes":1,"isLikedByUser":true}`, w.Body.String())

	w = s.do(http.MethodGet, path, "bob-token", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"likes":1,"isLikedByUser":false}`, w.Body.String())

	w = s.do(http.MethodDelete, path, "alice-token", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"likes":0,"isLikedByUser":false}`, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/posts/00000000-0000-0000-0000-000000000000/likes", "alice-token", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlersTestSuite) TestFollowAndNotifications() {
	w := s.do(http.MethodPost, "/api/v1/users/"+s.alice.ID+"/followers", "alice-token", nil)
	s.Equal(http.StatusUnprocessableEntity, w.Code)

	w = s.do(http.MethodPost, "/api/v1/users/"+s.bob.ID+"/followers", "alice-token", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"followers":1,"isFollowedByUser":true}`, w.Body.String())

	w = s.do(http.MethodGet, "/api/v1/notifications/unread-count", "bob-token", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"unreadCount":1}`, w.Body.String())

	w = s.do(http.MethodGet, "/api/v1/notifications", "bob-token", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var page struct {
		Notifications []feed.NotificationView `json:"notifications"`
		NextCursor    *string                 `json:"nextCursor"`
	}
	s.decode(w, &page)
	s.Require().Len(page.Notifications, 1)
	s.Equal(models.NotificationFollow, page.Notifications[0].Type)
	s.Equal("alice", page.Notifications[0].Issuer.Username)
	s.Nil(page.NextCursor)

	w = s.do(http.MethodPatch, "/api/v1/notifications/mark-as-read", "bob-token", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"marked":1}`, w.Body.String())

	w = s.do(http.MethodGet, "/api/v1/notifications/unread-count", "bob-token", nil)
	s.JSONEq(`{"unreadCount":0}`, w.Body.String())
}

func (s *HandlersTestSuite) TestCreateAndDeletePost() {
	w := s.do(http.MethodPost, "/api/v1/posts", "alice-token", contentRequest{Content: "hello #world"})
	s.Require().Equal(http.StatusCreated, w.Code)

	var created struct {
		Post feed.PostView `json:"post"`
	}
	s.decode(w, &created)
	s.Equal("hello #world", created.Post.Content)
	s.Equal("alice", created.Post.Author.Username)

	w = s.do(http.MethodPost, "/api/v1/posts", "alice-token", contentRequest{Content: "  "})
	s.Equal(http.StatusUnprocessableEntity, w.Code)

	w = s.do(http.MethodDelete, "/api/v1/posts/"+created.Post.ID, "bob-token", nil)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodDelete, "/api/v1/posts/"+created.Post.ID, "alice-token", nil)
	s.Equal(http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, "/api/v1/posts/"+created.Post.ID, "alice-token", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlersTestSuite) TestComments() {
	post := testutil.CreatePost(s.T(), s.db, s.bob.ID, "discuss", 0)
	path := "/api/v1/posts/" + post.ID + "/comments"

	w := s.do(http.MethodPost, path, "alice-token", contentRequest{Content: "first"})
	s.Require().Equal(http.StatusCreated, w.Code)
	var created struct {
		Comment feed.CommentView `json:"comment"`
	}
	s.decode(w, &created)
	s.Equal("alice", created.Comment.Author.Username)

	w = s.do(http.MethodGet, path, "bob-token", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var page feed.CommentPage
	s.decode(w, &page)
	s.Require().Len(page.Comments, 1)
	s.Equal("first", page.Comments[0].Content)
	s.Nil(page.PreviousCursor)
	s.Contains(w.Body.String(), `"previousCursor":null`)

	w = s.do(http.MethodDelete, "/api/v1/comments/"+created.Comment.ID, "bob-token", nil)
	s.Equal(http.StatusForbidden, w.Code)
	w = s.do(http.MethodDelete, "/api/v1/comments/"+created.Comment.ID, "alice-token", nil)
	s.Equal(http.StatusNoContent, w.Code)
}

func (s *HandlersTestSuite) TestBookmarks() {
	post := testutil.CreatePost(s.T(), s.db, s.bob.ID, "save me", 0)

	w := s.do(http.MethodPost, "/api/v1/posts/"+post.ID+"/bookmark", "alice-token", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"isBookmarkedByUser":true}`, w.Body.String())

	w = s.do(http.MethodGet, "/api/v1/posts/bookmarked", "alice-token", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var page postsResponse
	s.decode(w, &page)
	s.Require().Len(page.Posts, 1)
	s.True(page.Posts[0].IsBookmarkedByUser)

	w = s.do(http.MethodDelete, "/api/v1/posts/"+post.ID+"/bookmark", "alice-token", nil)
	s.JSONEq(`{"isBookmarkedByUser":false}`, w.Body.String())
}

func (s *HandlersTestSuite) TestUsers() {
	w := s.do(http.MethodGet, "/api/v1/users/username/bob", "alice-token", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var resp struct {
		User social.UserProfile `json:"user"`
	}
	s.decode(w, &resp)
	s.Equal(s.bob.ID, resp.User.ID)

	w = s.do(http.MethodGet, "/api/v1/users/username/nobody", "alice-token", nil)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/v1/users/suggestions", "alice-token", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var suggestions struct {
		Users []feed.Author `json:"users"`
	}
	s.decode(w, &suggestions)
	s.Require().Len(suggestions.Users, 1)
	s.Equal("bob", suggestions.Users[0].Username)
}

func (s *HandlersTestSuite) TestSearchAndTrends() {
	testutil.CreatePost(s.T(), s.db, s.bob.ID, "gophers love #golang", 0)

	w := s.do(http.MethodGet, "/api/v1/search?q=gophers", "alice-token", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var page postsResponse
	s.decode(w, &page)
	s.Len(page.Posts, 1)

	w = s.do(http.MethodGet, "/api/v1/search?q=", "alice-token", nil)
	s.Equal(http.StatusUnprocessableEntity, w.Code)

	w = s.do(http.MethodGet, "/api/v1/trends", "alice-token", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"trends":[{"hashtag":"#golang","count":1}]}`, w.Body.String())
}

func (s *HandlersTestSuite) TestChatToken() {
	w := s.do(http.MethodGet, "/api/v1/chat/token", "alice-token", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var resp chat.TokenResponse
	s.decode(w, &resp)
	s.Equal(s.alice.ID, resp.UserID)
	s.Equal("key", resp.APIKey)
	s.NotEmpty(resp.Token)
	s.Len(s.chat.GetCallsForMethod("UpsertUser"), 1)
}

func (s *HandlersTestSuite) TestChatTokenUnconfigured() {
	validator := auth.NewMockAuthService()
	validator.AddUser("alice-token", s.alice)

	h := NewHandlers(feed.NewService(s.db), social.NewService(s.db), chat.NewService(nil, ""))
	r := gin.New()
	h.RegisterRoutes(r.Group("/api/v1", middleware.AuthMiddleware(validator)), func(c *gin.Context) { c.Next() })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/chat/token", nil)
	req.Header.Set("Authorization", "Bearer alice-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	s.Equal(http.StatusServiceUnavailable, w.Code)
}

func (s *HandlersTestSuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var resp struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	s.decode(w, &resp)
	s.Equal("healthy", resp.Status)
	s.Equal("disabled", resp.Checks["cache"])
}
