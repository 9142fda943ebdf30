package api

import (
	"net/http"
	"sync"

	"dopamind/internal/service"
	"dopamind/pkg/logger"
	"go.uber.org/zap"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type FeedMessage struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

// RaidFeed pushes live boss HP updates to every connected client.
type RaidFeed struct {
	clients map[*websocket.Conn]struct{}
	mu      sync.RWMutex
}

func NewRaidFeed() *RaidFeed {
	return &RaidFeed{
		clients: make(map[*websocket.Conn]struct{}),
	}
}

func (f *RaidFeed) add(conn *websocket.Conn) {
	f.mu.Lock()
	f.clients[conn] = struct{}{}
	f.mu.Unlock()
}

func (f *RaidFeed) remove(conn *websocket.Conn) {
	f.mu.Lock()
	delete(f.clients, conn)
	f.mu.Unlock()
	conn.Close()
}

// BroadcastDamage fans a damage result out to the feed. A nil result (no
// active raid) is ignored.
func (f *RaidFeed) BroadcastDamage(userID string, damage *service.DamageResult) {
	if damage == nil || damage.DamageDealt == 0 {
		return
	}

	f.broadcast(FeedMessage{
		Type: "raid_damage",
		Payload: map[string]any{
			"user_id":  userID,
			"damage":   damage.DamageDealt,
			"new_hp":   damage.NewHP,
			"defeated": damage.Defeated,
		},
	})
}

func (f *RaidFeed) broadcast(message FeedMessage) {
	log := logger.Logger()

	data, err := json.Marshal(message)
	if err != nil {
		log.Error("failed to marshal feed message", zap.Error(err))
		return
	}

	// Writes stay under the lock: a connection allows at most one
	// concurrent writer.
	f.mu.Lock()
	defer f.mu.Unlock()
	for conn := range f.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Info("dropping feed client", zap.Error(err))
			delete(f.clients, conn)
			conn.Close()
		}
	}
}

// Handle upgrades the connection and keeps it registered until it closes.
func (f *RaidFeed) Handle(w http.ResponseWriter, r *http.Request) {
	log := logger.Logger()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	f.add(conn)

	go func() {
		defer f.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Info("websocket unexpected close", zap.Error(err))
				}
				return
			}
		}
	}()
}
