package main

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/thiagohernandez/flight-me/internal/flights"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS policy already gates the API; the upgrade accepts any origin
	// the middleware let through.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWebSocket streams flight board snapshots to the browser as they
// are produced, replacing HTTP polling for connected clients.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	updates, unsubscribe := s.poller.Subscribe()
	defer unsubscribe()

	// Reader goroutine: the client sends nothing meaningful, but reading
	// is what surfaces close frames and pong responses.
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Seed the connection with the current snapshot so the board renders
	// before the next poll cycle.
	if err := s.writeSnapshot(conn, s.poller.Snapshot()); err != nil {
		return
	}

	pings := time.NewTicker(wsPingPeriod)
	defer pings.Stop()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case snap := <-updates:
			if err := s.writeSnapshot(conn, snap); err != nil {
				return
			}
		case <-pings.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) writeSnapshot(conn *websocket.Conn, snap flights.Snapshot) error {
	targetLoc, targetRadius := s.currentTarget()
	payload := flightsPayload{
		Flights:   snap.Flights,
		Count:     len(snap.Flights),
		Location:  targetLoc,
		RadiusKm:  targetRadius,
		UpdatedAt: snap.UpdatedAt,
		Stale:     snap.Err != nil,
	}
	if snap.Err != nil {
		payload.Error = snap.Err.Error()
	}
	if payload.Flights == nil {
		payload.Flights = []flights.Record{}
	}

	conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(payload)
}
