// Package net exposes the HTTP surface: health, diagnostics, and the
// spectator WebSocket stream.
package net

import (
	"encoding/json"
	"log"
	nethttp "net/http"
	"time"

	"github.com/gorilla/websocket"

	server "grove-and-grain/server"
)

type HTTPHandlerConfig struct {
	Logger *log.Logger
}

// NewHTTPHandler builds the full route mux around a hub.
func NewHTTPHandler(hub *server.Hub, cfg HTTPHandlerConfig) nethttp.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(*nethttp.Request) bool { return true },
	}

	mux := nethttp.NewServeMux()

	mux.HandleFunc("/health", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/diagnostics", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		payload := struct {
			Status     string `json:"status"`
			ServerTime int64  `json:"serverTime"`
			World      any    `json:"world"`
		}{
			Status:     "ok",
			ServerTime: time.Now().UnixMilli(),
			World:      hub.DiagnosticsSnapshot(),
		}

		data, err := json.Marshal(payload)
		if err != nil {
			httpError(w, "failed to encode", nethttp.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	mux.HandleFunc("/ws", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Printf("websocket upgrade failed: %v", err)
			return
		}

		id, sub, welcome := hub.Subscribe(conn)
		if err := hub.SendWelcome(sub, welcome); err != nil {
			logger.Printf("failed to send welcome to %s: %v", id, err)
			hub.Disconnect(id)
			return
		}

		// Spectators send nothing meaningful; the read loop only
		// notices the connection going away.
		go func() {
			defer hub.Disconnect(id)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	})

	return mux
}

func httpError(w nethttp.ResponseWriter, message string, code int) {
	nethttp.Error(w, message, code)
}
