package main

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
)

type stateUpdate struct {
	Type  string `json:"type"`
	Data  string `json:"data"`
	Error string `json:"error"`
	State struct {
		Inning    int    `json:"inning"`
		Half      string `json:"half"`
		HomeScore int    `json:"home_score"`
		AwayScore int    `json:"away_score"`
		LastPlay  string `json:"last_play"`
		Complete  bool   `json:"game_complete"`
	} `json:"state"`
}

type command struct {
	Type string `json:"type"`
}

// viewer-bot drives a bridge from the outside: it asks for a play on a fixed
// interval and prints whatever the bridge broadcasts back.
func main() {
	wsURL := getenv("WS_URL", "ws://localhost:8080/ws")
	interval := time.Duration(getenvInt("PLAY_INTERVAL_MS", 2000)) * time.Millisecond

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			payload, _ := json.Marshal(command{Type: "play_ball"})
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var m stateUpdate
		if err := json.Unmarshal(data, &m); err != nil {
			continue
		}
		switch m.Type {
		case "state_update", "connection_established":
			log.Printf("[%s %d] away %d - home %d | %s",
				m.State.Half, m.State.Inning, m.State.AwayScore, m.State.HomeScore, m.State.LastPlay)
			if m.State.Complete {
				log.Print("game complete, resetting")
				payload, _ := json.Marshal(command{Type: "reset_game"})
				_ = conn.WriteMessage(websocket.TextMessage, payload)
			}
		case "live_intelligence_update":
			log.Printf("booth: %s", m.Data)
		case "error":
			log.Printf("bridge error: %s", m.Error)
		}
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
