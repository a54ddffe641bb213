// internal/handlers/room_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/jason-s-yu/mafia/internal/auth"
	"github.com/jason-s-yu/mafia/internal/game"
	"github.com/jason-s-yu/mafia/internal/middleware"
	"github.com/sirupsen/logrus"
)

// RoomMessage is an inbound action from a player's socket.
// The acting seat is never taken from the client; it is the authenticated user's seat.
type RoomMessage struct {
	Type        string `json:"type"`
	Target      int    `json:"target,omitempty"`
	Vote        *bool  `json:"vote,omitempty"`
	PlayerCount int    `json:"playerCount,omitempty"`
}

var errBadMessage = errors.New("bad message")

// toAction maps a socket message to a room action for the user seated at seat.
func toAction(msg RoomMessage, userID uuid.UUID, seat int) (game.Action, error) {
	switch msg.Type {
	case "assign_roles":
		return game.AssignRoles{PlayerCount: msg.PlayerCount}, nil
	case "mafia_vote":
		return game.MafiaVote{ActorSeat: seat, TargetSeat: msg.Target}, nil
	case "doctor_heal":
		return game.DoctorHeal{ActorSeat: seat, TargetSeat: msg.Target}, nil
	case "police_check":
		return game.PoliceCheck{ActorSeat: seat, TargetSeat: msg.Target}, nil
	case "accusation_vote":
		return game.AccusationVote{VoterSeat: seat, TargetSeat: msg.Target}, nil
	case "punishment_vote":
		if msg.Vote == nil {
			return nil, fmt.Errorf("%w: punishment_vote needs a vote", errBadMessage)
		}
		return game.PunishmentVote{VoterSeat: seat, Vote: *msg.Vote}, nil
	case "leave":
		return game.Leave{UserID: userID}, nil
	case "sync":
		return game.Sync{UserID: userID}, nil
	}
	return nil, fmt.Errorf("%w: unknown action type %q", errBadMessage, msg.Type)
}

// RoomWSHandler upgrades GET /room/ws/{room_id} for a seated player and relays their actions
// to the room's actor. Closing the socket during a running game counts as leaving.
func RoomWSHandler(logger *logrus.Logger, rs *RoomServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pathParts := strings.Split(strings.TrimPrefix(r.URL.Path, "/room/ws/"), "/")
		if len(pathParts) < 1 || pathParts[0] == "" {
			http.Error(w, "Missing room_id in path (/room/ws/{room_id})", http.StatusBadRequest)
			return
		}
		roomID, err := uuid.Parse(pathParts[0])
		if err != nil {
			http.Error(w, "Invalid room_id format", http.StatusBadRequest)
			return
		}
		actor, hub, ok := rs.Room(roomID)
		if !ok {
			http.Error(w, "Room not found", http.StatusNotFound)
			return
		}
		userID, err := auth.UserFromRequest(r)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"mafia"},
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			logger.WithError(err).WithField("room_id", roomID).Warn("websocket accept failed")
			return
		}
		defer c.Close(websocket.StatusInternalError, "internal error")

		if c.Subprotocol() != "mafia" {
			c.Close(BadSubprotocolError, "client must use the 'mafia' subprotocol")
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		seatVal, err := actor.Submit(ctx, game.SeatOf{UserID: userID})
		if err != nil {
			if errors.Is(err, game.ErrGameNotFound) {
				c.Close(InvalidRoomIDError, "room has ended")
			} else {
				c.Close(InvalidUserIDError, "you are not seated in this room")
			}
			return
		}
		seat := seatVal.(int)

		if !hub.Register(userID, c) {
			c.Close(InvalidRoomIDError, "room has ended")
			return
		}
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)
		log := logger.WithFields(logrus.Fields{"room_id": roomID, "user_id": userID, "seat": seat})

		sendSync(ctx, c, actor, userID, log)
		readErr := readRoomMessages(ctx, c, actor, userID, seat, log)

		hub.Unregister(userID, c)
		if _, err := actor.Submit(context.Background(), game.Leave{UserID: userID}); err != nil &&
			!errors.Is(err, game.ErrWrongPhase) && !errors.Is(err, game.ErrGameNotFound) &&
			!errors.Is(err, game.ErrDuplicateAction) {
			log.WithError(err).Warn("failed to record leave on disconnect")
		}
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, readErr)
	}
}

func sendSync(ctx context.Context, c *websocket.Conn, actor *game.RoomActor, userID uuid.UUID, log *logrus.Entry) {
	v, err := actor.Submit(ctx, game.Sync{UserID: userID})
	if err != nil {
		log.WithError(err).Warn("failed to build sync state")
		return
	}
	state := v.(game.ObfGameState)
	sendWsMessage(ctx, c, game.GameEvent{Type: game.EventPrivateSyncState, State: &state})
}

// readRoomMessages reads actions until the socket closes. Each action is answered with
// an ack or an error on the same socket; events flow separately through the hub.
func readRoomMessages(ctx context.Context, c *websocket.Conn, actor *game.RoomActor, userID uuid.UUID, seat int, log *logrus.Entry) error {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				return nil
			}
			return err
		}
		if msgType != websocket.MessageText {
			continue
		}

		var msg RoomMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			sendWsError(ctx, c, "bad_message", "Invalid JSON format.")
			continue
		}
		if msg.Type == "ping" {
			sendWsMessage(ctx, c, map[string]string{"type": "pong"})
			continue
		}

		action, err := toAction(msg, userID, seat)
		if err != nil {
			sendWsError(ctx, c, "bad_message", err.Error())
			continue
		}

		log.WithField("action", msg.Type).Debug("room action received")
		v, err := actor.Submit(ctx, action)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			code := game.ErrorCode(err)
			text := err.Error()
			if code == "internal_error" {
				log.WithError(err).Error("room action failed")
				text = "Internal server error."
			}
			sendWsError(ctx, c, code, text)
			continue
		}

		switch val := v.(type) {
		case game.ObfGameState:
			sendWsMessage(ctx, c, game.GameEvent{Type: game.EventPrivateSyncState, State: &val})
		default:
			sendWsMessage(ctx, c, map[string]interface{}{"type": "ack", "action": msg.Type})
		}
		if msg.Type == "leave" {
			c.Close(websocket.StatusNormalClosure, "left the room")
			return nil
		}
	}
}
