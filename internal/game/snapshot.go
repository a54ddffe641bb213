package game

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jason-s-yu/mafia/internal/models"
)

// ObfPlayerState is one seat as seen by a particular viewer. Role is only filled in
// where the viewer is allowed to know it.
type ObfPlayerState struct {
	UserID   uuid.UUID     `json:"userId"`
	Seat     int           `json:"seat"`
	Nickname string        `json:"nickname"`
	Alive    bool          `json:"alive"`
	Status   models.Status `json:"status"`
	Role     models.Role   `json:"role,omitempty"`
}

// ObfGameState is the room as seen by one viewer, sent on connect and on request.
type ObfGameState struct {
	RoomID   uuid.UUID        `json:"room_id"`
	Phase    Phase            `json:"phase"`
	PhaseEnd int64            `json:"phaseEnd,omitempty"`
	Seat     int              `json:"seat,omitempty"`
	Role     models.Role      `json:"role,omitempty"`
	Players  []ObfPlayerState `json:"players"`
}

// Sync asks for the viewer's ObfGameState.
type Sync struct {
	UserID uuid.UUID
}

func (s Sync) apply(ctx context.Context, a *RoomActor) (any, error) {
	obf := ObfGameState{RoomID: a.ID, Phase: a.phase}
	if a.phase != PhaseWaiting && a.phase != PhaseFinished {
		obf.PhaseEnd = a.phaseEnds.UnixMilli()
	}

	players, err := a.state.Players(ctx)
	if errors.Is(err, ErrGameNotFound) && a.phase == PhaseWaiting {
		seated, err := a.state.SeatedPlayers(ctx)
		if err != nil {
			return nil, err
		}
		for _, sp := range seated {
			if sp.UserID == s.UserID {
				obf.Seat = sp.Seat
			}
			obf.Players = append(obf.Players, ObfPlayerState{
				UserID:   sp.UserID,
				Seat:     sp.Seat,
				Nickname: sp.Nickname,
				Alive:    true,
				Status:   models.StatusActive,
			})
		}
		return obf, nil
	}
	if err != nil {
		return nil, err
	}
	return viewFor(obf, players, s.UserID), nil
}

// viewFor fills in the player list for viewer. Mafia members see each other's roles.
func viewFor(obf ObfGameState, players []models.PlayerState, viewer uuid.UUID) ObfGameState {
	var self *models.PlayerState
	for i := range players {
		if players[i].UserID == viewer {
			self = &players[i]
		}
	}
	if self != nil {
		obf.Seat = self.Seat
		obf.Role = self.Role
	}

	obf.Players = make([]ObfPlayerState, 0, len(players))
	for _, p := range players {
		ps := ObfPlayerState{
			UserID:   p.UserID,
			Seat:     p.Seat,
			Nickname: p.Nickname,
			Alive:    p.Alive,
			Status:   p.Status,
		}
		if self != nil && (p.UserID == viewer || (self.Role == models.RoleMafia && p.Role == models.RoleMafia)) {
			ps.Role = p.Role
		}
		obf.Players = append(obf.Players, ps)
	}
	return obf
}
