package game

import (
	"errors"
	"fmt"
)

// Errors returned to the submitting client. The first group is caller misuse and is
// never retried; ErrStoreFailure wraps the underlying store error.
var (
	// ErrInvalidActor means the acting player's role or state does not permit the action.
	ErrInvalidActor = errors.New("actor may not perform this action")

	// ErrGameNotFound means the room, or its state in the store, does not exist.
	ErrGameNotFound = errors.New("game not found")

	// ErrInvalidTarget means the target seat is dead, left, or out of range.
	ErrInvalidTarget = errors.New("invalid target")

	// ErrStoreFailure means a room state store operation failed.
	ErrStoreFailure = errors.New("room state store failure")

	// ErrWrongPhase means the action does not belong to the room's current phase.
	ErrWrongPhase = errors.New("action not allowed in current phase")

	// ErrDuplicateAction means the seat already cast this ballot during the phase.
	ErrDuplicateAction = errors.New("action already submitted this phase")

	// ErrRoomTooSmall means fewer players are seated than the configured minimum.
	ErrRoomTooSmall = errors.New("not enough players to start")

	// ErrPlayerCountMismatch means AssignRoles named a count different from the seated players.
	ErrPlayerCountMismatch = errors.New("player count does not match seated players")
)

// storeFailure wraps err so that errors.Is(err, ErrStoreFailure) holds.
func storeFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreFailure, op, err)
}

// ErrorCode maps an engine error to the short code sent over the socket.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidActor):
		return "invalid_actor"
	case errors.Is(err, ErrGameNotFound):
		return "game_not_found"
	case errors.Is(err, ErrInvalidTarget):
		return "invalid_target"
	case errors.Is(err, ErrWrongPhase):
		return "wrong_phase"
	case errors.Is(err, ErrDuplicateAction):
		return "duplicate_action"
	case errors.Is(err, ErrRoomTooSmall):
		return "room_too_small"
	case errors.Is(err, ErrPlayerCountMismatch):
		return "player_count_mismatch"
	default:
		return "internal_error"
	}
}
