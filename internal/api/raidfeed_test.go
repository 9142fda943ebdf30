package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"dopamind/internal/service"
	"dopamind/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialFeed(t *testing.T, serverURL string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(serverURL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, feed *RaidFeed, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		feed.mu.RLock()
		n := len(feed.clients)
		feed.mu.RUnlock()
		if n == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("feed never reached %d clients", want)
}

func TestRaidFeed_ConcurrentBroadcasts(t *testing.T) {
	require.NoError(t, logger.Initialize("error"))

	feed := NewRaidFeed()
	srv := httptest.NewServer(http.HandlerFunc(feed.Handle))
	defer srv.Close()

	first := dialFeed(t, srv.URL)
	second := dialFeed(t, srv.URL)
	waitForClients(t, feed, 2)

	const broadcasts = 25

	var wg sync.WaitGroup
	for i := 0; i < broadcasts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			feed.BroadcastDamage("u1", &service.DamageResult{DamageDealt: 5, NewHP: 100})
		}()
	}
	wg.Wait()

	for _, conn := range []*websocket.Conn{first, second} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		for i := 0; i < broadcasts; i++ {
			_, data, err := conn.ReadMessage()
			require.NoError(t, err)

			var message FeedMessage
			require.NoError(t, json.Unmarshal(data, &message))
			assert.Equal(t, "raid_damage", message.Type)
			assert.EqualValues(t, 5, message.Payload["damage"])
		}
	}
}

func TestRaidFeed_SkipsEmptyResults(t *testing.T) {
	require.NoError(t, logger.Initialize("error"))

	feed := NewRaidFeed()
	srv := httptest.NewServer(http.HandlerFunc(feed.Handle))
	defer srv.Close()

	conn := dialFeed(t, srv.URL)
	waitForClients(t, feed, 1)

	feed.BroadcastDamage("u1", nil)
	feed.BroadcastDamage("u1", &service.DamageResult{DamageDealt: 0, NewHP: 100})
	feed.BroadcastDamage("u1", &service.DamageResult{DamageDealt: 7, NewHP: 93})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var message FeedMessage
	require.NoError(t, json.Unmarshal(data, &message))
	assert.EqualValues(t, 7, message.Payload["damage"])
}
