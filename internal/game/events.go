package game

import "github.com/google/uuid"

// GameEventType names an outbound event. Types prefixed with private_ go to a single player.
type GameEventType string

const (
	EventRolesAssigned       GameEventType = "game_roles_assigned"
	EventPrivateRoleAssigned GameEventType = "private_role_assigned"
	EventPrivateMafiaRoster  GameEventType = "private_mafia_roster"
	EventPhaseStart          GameEventType = "game_phase_start"
	EventNightOutcome        GameEventType = "game_night_outcome"
	EventPrivatePoliceResult GameEventType = "private_police_result"
	EventAccusationTally     GameEventType = "game_accusation_tally"
	EventPunishmentTally     GameEventType = "game_punishment_tally"
	EventPlayerLeft          GameEventType = "game_player_left"
	EventPrivateSyncState    GameEventType = "private_sync_state"
	EventGameEnd             GameEventType = "game_end"
)

// EventUser identifies a player in an event.
type EventUser struct {
	ID   uuid.UUID `json:"id"`
	Seat int       `json:"seat"`
}

// GameEvent is the envelope every outbound event is sent in.
type GameEvent struct {
	Type    GameEventType          `json:"type"`
	User    *EventUser             `json:"user,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	State   *ObfGameState          `json:"state,omitempty"`
}
