package game

import (
	"context"

	"github.com/google/uuid"
	"github.com/jason-s-yu/mafia/internal/models"
)

// Field names of the room hash. Every room lives under one composite key (see RoomKey).
const (
	FieldPlayer             = "player"
	FieldPlayerJob          = "playerJob"
	FieldMafiaSuspects      = "mafiaSuspects"
	FieldMafiaVotes         = "mafiaVotes"
	FieldDoctorTarget       = "doctorTarget"
	FieldAccusationVotes    = "accusationVotes"
	FieldAccusationTally    = "accusationTally"
	FieldPunishmentVotes    = "punishmentVotes"
	FieldExitLeaveLog       = "exitLeaveLog"
	FieldExitDeathLog       = "exitDeathLog"
	FieldActionCounter      = "actionCounter"
	FieldPlayerCountCounter = "playerCountCounter"
	FieldActedSeats         = "actedSeats"
	FieldPhase              = "phase"
)

// RoomStateStore is the external key-value collaborator holding room state.
// Values are opaque bytes; IncrField must be atomic. Nothing else is transactional,
// so callers serialize access per key.
type RoomStateStore interface {
	GetField(ctx context.Context, key, field string) ([]byte, bool, error)
	SetField(ctx context.Context, key, field string, value []byte) error
	IncrField(ctx context.Context, key, field string, by int64) (int64, error)
	DeleteFields(ctx context.Context, key string, fields ...string) error
	DeleteRoom(ctx context.Context, key string) error
}

// PersistenceGateway receives the durable writes of a match.
type PersistenceGateway interface {
	RecordLeave(ctx context.Context, roomID uuid.UUID, player models.PlayerState) error
	RecordRoleAssignment(ctx context.Context, roomID uuid.UUID, players []models.PlayerState) error
	SaveFinalScore(ctx context.Context, roomID uuid.UUID, players []models.PlayerState, winner models.Team) error
}

// RoomKey builds the store key for a room.
func RoomKey(roomID uuid.UUID) string {
	return "game:" + roomID.String()
}
