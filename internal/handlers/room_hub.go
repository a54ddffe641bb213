// internal/handlers/room_hub.go
package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/jason-s-yu/mafia/internal/game"
	"github.com/sirupsen/logrus"
)

// socket is the part of *websocket.Conn the hub writes to.
type socket interface {
	Write(ctx context.Context, typ websocket.MessageType, p []byte) error
	Close(code websocket.StatusCode, reason string) error
}

type outbound struct {
	to   uuid.UUID // uuid.Nil means everyone
	typ  game.GameEventType
	data []byte
}

// RoomHub fans a room's events out to its connected players.
// Events leave in the order they were queued; one goroutine does all the writes.
type RoomHub struct {
	roomID uuid.UUID
	logger *logrus.Logger

	mu    sync.Mutex
	conns map[uuid.UUID]socket

	sendMu      sync.RWMutex
	closed      bool
	closeReason string
	out         chan outbound
	done        chan struct{}
}

func NewRoomHub(roomID uuid.UUID, logger *logrus.Logger) *RoomHub {
	h := &RoomHub{
		roomID: roomID,
		logger: logger,
		conns:  make(map[uuid.UUID]socket),
		out:    make(chan outbound, 256),
		done:   make(chan struct{}),
	}
	go h.pump()
	return h
}

// Register attaches userID's connection, replacing an older one.
// It reports false once the hub is closed.
func (h *RoomHub) Register(userID uuid.UUID, c socket) bool {
	h.sendMu.RLock()
	defer h.sendMu.RUnlock()
	if h.closed {
		return false
	}
	h.mu.Lock()
	h.conns[userID] = c
	h.mu.Unlock()
	return true
}

// Unregister detaches c if it is still userID's current connection.
func (h *RoomHub) Unregister(userID uuid.UUID, c socket) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[userID] == c {
		delete(h.conns, userID)
	}
}

// Broadcast queues ev for every connected player.
func (h *RoomHub) Broadcast(ev game.GameEvent) {
	h.enqueue(outbound{to: uuid.Nil, typ: ev.Type, data: game.EncodeEvent(ev)})
}

// SendTo queues ev for a single player.
func (h *RoomHub) SendTo(userID uuid.UUID, ev game.GameEvent) {
	h.enqueue(outbound{to: userID, typ: ev.Type, data: game.EncodeEvent(ev)})
}

func (h *RoomHub) enqueue(msg outbound) {
	h.sendMu.RLock()
	defer h.sendMu.RUnlock()
	if h.closed {
		return
	}
	h.out <- msg
}

// Close flushes queued events and then disconnects every player.
func (h *RoomHub) Close(reason string) {
	h.sendMu.Lock()
	if h.closed {
		h.sendMu.Unlock()
		return
	}
	h.closed = true
	h.closeReason = reason
	close(h.out)
	h.sendMu.Unlock()
}

// Done is closed once every connection has been closed.
func (h *RoomHub) Done() <-chan struct{} {
	return h.done
}

func (h *RoomHub) pump() {
	defer close(h.done)
	for msg := range h.out {
		h.mu.Lock()
		targets := make(map[uuid.UUID]socket, len(h.conns))
		for id, c := range h.conns {
			if msg.to == uuid.Nil || msg.to == id {
				targets[id] = c
			}
		}
		h.mu.Unlock()

		for id, c := range targets {
			h.write(id, c, msg)
		}
	}

	h.mu.Lock()
	conns := h.conns
	h.conns = make(map[uuid.UUID]socket)
	h.mu.Unlock()
	for _, c := range conns {
		c.Close(websocket.StatusNormalClosure, h.closeReason)
	}
}

func (h *RoomHub) write(userID uuid.UUID, c socket, msg outbound) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.Write(ctx, websocket.MessageText, msg.data); err != nil {
		h.logger.WithFields(logrus.Fields{
			"room_id": h.roomID,
			"user_id": userID,
			"event":   msg.typ,
		}).WithError(err).Warn("failed to write event")
	}
}
