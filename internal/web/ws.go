package web

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API is intended for the local network; same-origin checks would
	// only block the common curl/file:// debugging flows.
	CheckOrigin: func(*http.Request) bool { return true },
}

// servePositionWS pushes the latest snapshot on a fixed interval until the
// peer goes away.
func servePositionWS(src SnapshotSource, interval time.Duration, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	// Drain control/close frames so WriteJSON notices a closed peer.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if err := conn.WriteJSON(src.Snapshot()); err != nil {
				return
			}
		}
	}
}
