// Package web exposes the GPS feed state over a small HTTP API: a JSON
// status endpoint for polling and a websocket that pushes the latest
// validated position.
package web

import (
	"encoding/json"
	"net/http"
	"time"

	"gpstap/internal/gps"
)

// SnapshotSource supplies the latest published GPS snapshot. *gps.Service
// satisfies it.
type SnapshotSource interface {
	Snapshot() gps.Snapshot
}

type statusResponse struct {
	Service   string       `json:"service"`
	NowUTC    string       `json:"now_utc"`
	UptimeSec int64        `json:"uptime_sec"`
	GPS       gps.Snapshot `json:"gps"`
}

func Handler(src SnapshotSource, start time.Time, pushInterval time.Duration) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		now := time.Now().UTC()
		resp := statusResponse{
			Service:   "gpstap",
			NowUTC:    now.Format(time.RFC3339Nano),
			UptimeSec: int64(now.Sub(start).Seconds()),
			GPS:       src.Snapshot(),
		}
		b, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			http.Error(w, "marshal failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(b)
		_, _ = w.Write([]byte("\n"))
	})

	mux.HandleFunc("/api/position/ws", func(w http.ResponseWriter, r *http.Request) {
		servePositionWS(src, pushInterval, w, r)
	})

	return mux
}
