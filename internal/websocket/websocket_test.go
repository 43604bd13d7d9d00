package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zfogg/trellis/internal/auth"
	"github.com/zfogg/trellis/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeStore struct {
	unread int64
}

func (f *fakeStore) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	n := f.unread
	f.unread = 0
	return n, nil
}

func (f *fakeStore) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return f.unread, nil
}

func newTestServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()

	hub := NewHub()
	hub.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = hub.Shutdown(ctx)
	})

	validator := auth.NewMockAuthService()
	validator.AddUser("alice-token", &models.User{ID: "user-alice", Username: "alice"})

	handler := NewHandler(hub, validator, nil)
	handler.RegisterNotificationHandlers(&fakeStore{unread: 3})

	r := gin.New()
	r.GET("/ws", handler.HandleWebSocket)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var msg Message
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	return msg
}

func TestHandleWebSocketRejectsMissingToken(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/ws")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp2, err := http.Get(srv.URL + "/ws?token=bogus")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp2.StatusCode)
}

func TestNotifyUserReachesConnectedClient(t *testing.T) {
	hub, srv := newTestServer(t)
	conn := dial(t, srv, "alice-token")

	welcome := readMessage(t, conn)
	assert.Equal(t, MessageTypeSystem, welcome.Type)

	require.Eventually(t, func() bool { return hub.IsUserOnline("user-alice") }, 2*time.Second, 10*time.Millisecond)

	postID := "post-1"
	hub.NotifyUser(context.Background(), "user-alice", models.Notification{
		ID:          "n-1",
		RecipientID: "user-alice",
		IssuerID:    "user-bob",
		PostID:      &postID,
		Type:        models.NotificationLike,
		CreatedAt:   time.Now(),
	})

	msg := readMessage(t, conn)
	assert.Equal(t, MessageTypeNotification, msg.Type)

	var payload NotificationPayload
	require.NoError(t, msg.ParsePayload(&payload))
	assert.Equal(t, "n-1", payload.ID)
	assert.Equal(t, models.NotificationLike, payload.Type)
	assert.Equal(t, "user-bob", payload.IssuerID)
	require.NotNil(t, payload.PostID)
	assert.Equal(t, postID, *payload.PostID)
}

func TestNotificationReadReplyCarriesUnreadCount(t *testing.T) {
	_, srv := newTestServer(t)
	conn := dial(t, srv, "alice-token")
	readMessage(t, conn)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, wsjson.Write(ctx, conn, map[string]interface{}{
		"type": MessageTypeNotificationRead,
		"id":   "req-1",
	}))

	msg := readMessage(t, conn)
	assert.Equal(t, MessageTypeNotificationCount, msg.Type)
	assert.Equal(t, "req-1", msg.ReplyTo)

	var payload NotificationCountPayload
	require.NoError(t, msg.ParsePayload(&payload))
	assert.Zero(t, payload.UnreadCount)
}

func TestPingGetsPong(t *testing.T) {
	_, srv := newTestServer(t)
	conn := dial(t, srv, "alice-token")
	readMessage(t, conn)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, wsjson.Write(ctx, conn, map[string]interface{}{
		"type":    MessageTypePing,
		"payload": map[string]int64{"client_time": 1000},
	}))

	msg := readMessage(t, conn)
	assert.Equal(t, MessageTypePong, msg.Type)

	var pong PongPayload
	require.NoError(t, msg.ParsePayload(&pong))
	assert.Equal(t, int64(1000), pong.ClientTime)
}

func TestUnknownMessageType(t *testing.T) {
	_, srv := newTestServer(t)
	conn := dial(t, srv, "alice-token")
	readMessage(t, conn)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, wsjson.Write(ctx, conn, map[string]string{"type": "dance"}))

	msg := readMessage(t, conn)
	assert.Equal(t, MessageTypeError, msg.Type)

	var payload ErrorPayload
	require.NoError(t, msg.ParsePayload(&payload))
	assert.Equal(t, "unknown_type", payload.Code)
}

func TestNotifyOfflineUserIsDropped(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Shutdown(context.Background())

	hub.NotifyUser(context.Background(), "nobody", models.Notification{ID: "n"})
	assert.False(t, hub.IsUserOnline("nobody"))
	assert.Equal(t, 0, hub.GetUserConnectionCount("nobody"))
}

func TestNotifyUserHonoursCallerContext(t *testing.T) {
	// Never started, so the unicast buffer eventually fills up
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 300; i++ {
			hub.NotifyUser(ctx, "user", models.Notification{})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("NotifyUser blocked on a cancelled context")
	}
}

func TestFlexibleTime(t *testing.T) {
	var ft FlexibleTime
	require.NoError(t, json.Unmarshal([]byte(`1700000000000`), &ft))
	assert.Equal(t, int64(1700000000000), ft.UnixMilli())

	require.NoError(t, json.Unmarshal([]byte(`"2024-01-01T12:00:00Z"`), &ft))
	assert.Equal(t, 2024, ft.Year())

	assert.Error(t, json.Unmarshal([]byte(`true`), &ft))
}

func TestStatsString(t *testing.T) {
	hub := NewHub()
	assert.Contains(t, hub.GetStats().String(), "connections=0/0")
}

func TestDefaultRateLimitConfig(t *testing.T) {
	config := DefaultRateLimitConfig()
	assert.Equal(t, 10, config.MaxMessagesPerSecond)
	assert.Equal(t, 20, config.BurstSize)
}
