// Manual smoke client for the boss raid feed. Run the server, then this,
// then complete tasks through the HTTP API and watch the damage events.
package main

import (
	"log"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

type feedMessage struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

func main() {
	url := "ws://localhost:8080/api/v1/boss/ws"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer conn.Close()

	messageQueue := make(chan []byte)

	go func() {
		defer close(messageQueue)
		for {
			_, p, err := conn.ReadMessage()
			if err != nil {
				log.Println("read error:", err)
				return
			}

			messageQueue <- p
		}
	}()

	for raw := range messageQueue {
		var message feedMessage
		if err := json.Unmarshal(raw, &message); err != nil {
			log.Printf("Received (unparsed):\n%s\n", raw)
			continue
		}

		pretty, err := json.MarshalIndent(message, "", "  ")
		if err != nil {
			log.Println("json marshal error:", err)
			continue
		}
		log.Printf("Received %s:\n%s\n", message.Type, pretty)
	}
}
