package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"siteforge/internal/status"
)

const (
	statusWSWriteWait = 10 * time.Second
	statusWSPongWait  = 60 * time.Second
	statusWSPingEvery = (statusWSPongWait * 9) / 10
)

var statusUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard runs on its own origin in development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type statusWSOutbound struct {
	Type   string         `json:"type"`
	Status *status.Status `json:"status,omitempty"`
}

// HandleStream upgrades to a websocket and pushes a fresh status snapshot on
// every tracker transition until the client goes away.
func (h *StatusHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := statusUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("status ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(statusWSPongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(statusWSPongWait))
		return nil
	})

	writeCh := make(chan statusWSOutbound, 32)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		ping := time.NewTicker(statusWSPingEvery)
		defer ping.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-writeCh:
				conn.SetWriteDeadline(time.Now().Add(statusWSWriteWait))
				if err := conn.WriteJSON(msg); err != nil {
					cancel()
					return
				}
			case <-ping.C:
				conn.SetWriteDeadline(time.Now().Add(statusWSWriteWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					cancel()
					return
				}
			}
		}
	}()

	// Subscribe before the initial snapshot so no transition can fall
	// between the two.
	events := h.tracker.Subscribe(ctx)

	snap := h.tracker.Snapshot()
	pushStatusWS(writeCh, statusWSOutbound{Type: "status", Status: &snap})

	go func() {
		for range events {
			s := h.tracker.Snapshot()
			pushStatusWS(writeCh, statusWSOutbound{Type: "status", Status: &s})
		}
	}()

	for {
		var in struct {
			Type string `json:"type"`
		}
		if err := conn.ReadJSON(&in); err != nil {
			break
		}
		if in.Type == "ping" {
			pushStatusWS(writeCh, statusWSOutbound{Type: "pong"})
		}
	}

	cancel()
	<-writerDone
}

// pushStatusWS never blocks the tracker: when the buffer is full the oldest
// pending message is dropped in favor of the newer one.
func pushStatusWS(ch chan statusWSOutbound, msg statusWSOutbound) {
	select {
	case ch <- msg:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- msg:
	default:
	}
}
