// internal/handlers/room_server.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/jason-s-yu/mafia/internal/auth"
	"github.com/jason-s-yu/mafia/internal/game"
	"github.com/jason-s-yu/mafia/internal/models"
	"github.com/sirupsen/logrus"
)

// RoomServer owns every live room: its actor in the registry and its socket hub.
type RoomServer struct {
	Registry *game.RoomRegistry
	Store    game.RoomStateStore
	Gateway  game.PersistenceGateway
	Config   game.Config
	Logger   *logrus.Logger

	mu   sync.Mutex
	hubs map[uuid.UUID]*RoomHub
}

func NewRoomServer(store game.RoomStateStore, gateway game.PersistenceGateway, cfg game.Config, logger *logrus.Logger) *RoomServer {
	return &RoomServer{
		Registry: game.NewRoomRegistry(),
		Store:    store,
		Gateway:  gateway,
		Config:   cfg,
		Logger:   logger,
		hubs:     make(map[uuid.UUID]*RoomHub),
	}
}

// CreateRoom seats players (in the given order, seats from 1) in a new room and starts its actor.
func (rs *RoomServer) CreateRoom(ctx context.Context, players []models.SeatedPlayer) (*game.RoomActor, error) {
	roomID := uuid.New()
	seated := make([]models.SeatedPlayer, len(players))
	for i, p := range players {
		p.Seat = i + 1
		seated[i] = p
	}

	actor := game.NewRoomActor(roomID, rs.Store, rs.Gateway, rs.Config, rs.Logger)
	hub := NewRoomHub(roomID, rs.Logger)
	actor.BroadcastFn = hub.Broadcast
	actor.BroadcastToPlayerFn = hub.SendTo
	actor.OnFinish = func(id uuid.UUID, outcome models.Outcome) {
		rs.Registry.Delete(id)
		rs.mu.Lock()
		delete(rs.hubs, id)
		rs.mu.Unlock()
		hub.Close("game over: " + string(outcome.Winner) + " wins")
	}
	actor.Start()

	if _, err := actor.Submit(ctx, game.SeatPlayers{Players: seated}); err != nil {
		actor.Stop()
		hub.Close("room setup failed")
		return nil, err
	}

	rs.Registry.Add(actor)
	rs.mu.Lock()
	rs.hubs[roomID] = hub
	rs.mu.Unlock()

	rs.Logger.WithFields(logrus.Fields{"room_id": roomID, "players": len(seated)}).Info("room created")
	return actor, nil
}

// Room returns the live actor and hub for roomID.
func (rs *RoomServer) Room(roomID uuid.UUID) (*game.RoomActor, *RoomHub, bool) {
	actor, ok := rs.Registry.Get(roomID)
	if !ok {
		return nil, nil, false
	}
	rs.mu.Lock()
	hub, ok := rs.hubs[roomID]
	rs.mu.Unlock()
	return actor, hub, ok
}

// Shutdown stops every room and closes their sockets.
func (rs *RoomServer) Shutdown() {
	rs.Registry.StopAll()
	rs.mu.Lock()
	defer rs.mu.Unlock()
	for id, hub := range rs.hubs {
		hub.Close("server shutting down")
		delete(rs.hubs, id)
	}
}

type createRoomRequest struct {
	Players []models.SeatedPlayer `json:"players"`
}

// CreateRoomHandler handles POST /room/create. The caller must be one of the seated players.
func CreateRoomHandler(rs *RoomServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		userID, err := auth.UserFromRequest(r)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createRoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if len(req.Players) == 0 {
			http.Error(w, "no players", http.StatusBadRequest)
			return
		}
		seen := make(map[uuid.UUID]bool, len(req.Players))
		for _, p := range req.Players {
			if p.UserID == uuid.Nil || seen[p.UserID] {
				http.Error(w, "invalid or duplicate player", http.StatusBadRequest)
				return
			}
			seen[p.UserID] = true
		}
		if !seen[userID] {
			http.Error(w, "creator must be seated", http.StatusForbidden)
			return
		}

		actor, err := rs.CreateRoom(r.Context(), req.Players)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, game.ErrStoreFailure) {
				status = http.StatusServiceUnavailable
			}
			rs.Logger.WithError(err).Error("failed to create room")
			http.Error(w, "failed to create room", status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"room_id": actor.ID})
	}
}
