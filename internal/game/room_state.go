package game

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jason-s-yu/mafia/internal/models"
)

// ActionKind names a night action that leaves no ballot behind.
// Mafia votes and day ballots carry their voter instead.
type ActionKind string

const (
	KindDoctorHeal  ActionKind = "doctor_heal"
	KindPoliceCheck ActionKind = "police_check"
)

// ActedSeat records that a seat has used its action of the given kind this night.
type ActedSeat struct {
	Kind ActionKind `json:"kind"`
	Seat int        `json:"seat"`
}

// RoomState gives typed access to one room's fields in a RoomStateStore.
// Every method is a plain read or read-modify-write; only the owning RoomActor calls them.
type RoomState struct {
	store RoomStateStore
	key   string
}

// NewRoomState binds a store to a room key.
func NewRoomState(store RoomStateStore, key string) *RoomState {
	return &RoomState{store: store, key: key}
}

// Key returns the room's store key.
func (s *RoomState) Key() string { return s.key }

func (s *RoomState) getJSON(ctx context.Context, field string, dst any) (bool, error) {
	raw, ok, err := s.store.GetField(ctx, s.key, field)
	if err != nil {
		return false, storeFailure("get "+field, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, storeFailure("decode "+field, err)
	}
	return true, nil
}

func (s *RoomState) setJSON(ctx context.Context, field string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", field, err)
	}
	if err := s.store.SetField(ctx, s.key, field, raw); err != nil {
		return storeFailure("set "+field, err)
	}
	return nil
}

func (s *RoomState) del(ctx context.Context, fields ...string) error {
	if err := s.store.DeleteFields(ctx, s.key, fields...); err != nil {
		return storeFailure("delete fields", err)
	}
	return nil
}

func (s *RoomState) incr(ctx context.Context, field string) (int64, error) {
	return s.incrBy(ctx, field, 1)
}

func (s *RoomState) incrBy(ctx context.Context, field string, by int64) (int64, error) {
	n, err := s.store.IncrField(ctx, s.key, field, by)
	if err != nil {
		return 0, storeFailure("incr "+field, err)
	}
	return n, nil
}

// SeatedPlayers returns the `player` field. A missing field means the room does not exist.
func (s *RoomState) SeatedPlayers(ctx context.Context) ([]models.SeatedPlayer, error) {
	var seated []models.SeatedPlayer
	ok, err := s.getJSON(ctx, FieldPlayer, &seated)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrGameNotFound
	}
	return seated, nil
}

func (s *RoomState) SetSeatedPlayers(ctx context.Context, seated []models.SeatedPlayer) error {
	return s.setJSON(ctx, FieldPlayer, seated)
}

// Players returns the `playerJob` field ordered by seat.
func (s *RoomState) Players(ctx context.Context) ([]models.PlayerState, error) {
	var players []models.PlayerState
	ok, err := s.getJSON(ctx, FieldPlayerJob, &players)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrGameNotFound
	}
	return players, nil
}

func (s *RoomState) SetPlayers(ctx context.Context, players []models.PlayerState) error {
	return s.setJSON(ctx, FieldPlayerJob, players)
}

func (s *RoomState) MafiaRoster(ctx context.Context) ([]models.PlayerState, error) {
	var roster []models.PlayerState
	if _, err := s.getJSON(ctx, FieldMafiaSuspects, &roster); err != nil {
		return nil, err
	}
	return roster, nil
}

func (s *RoomState) SetMafiaRoster(ctx context.Context, roster []models.PlayerState) error {
	return s.setJSON(ctx, FieldMafiaSuspects, roster)
}

// NightRecord assembles the night fields. Missing fields read as empty.
func (s *RoomState) NightRecord(ctx context.Context) (models.NightActionRecord, error) {
	var rec models.NightActionRecord
	if _, err := s.getJSON(ctx, FieldMafiaVotes, &rec.MafiaVotes); err != nil {
		return rec, err
	}
	var target int
	ok, err := s.getJSON(ctx, FieldDoctorTarget, &target)
	if err != nil {
		return rec, err
	}
	if ok {
		rec.DoctorTarget = &target
	}
	return rec, nil
}

func (s *RoomState) SetMafiaVotes(ctx context.Context, votes []models.Ballot) error {
	return s.setJSON(ctx, FieldMafiaVotes, votes)
}

func (s *RoomState) SetDoctorTarget(ctx context.Context, seat int) error {
	return s.setJSON(ctx, FieldDoctorTarget, seat)
}

func (s *RoomState) ClearDoctorTarget(ctx context.Context) error {
	return s.del(ctx, FieldDoctorTarget)
}

// DayRecord assembles the day fields. Missing fields read as empty.
func (s *RoomState) DayRecord(ctx context.Context) (models.DayVoteRecord, error) {
	var rec models.DayVoteRecord
	if _, err := s.getJSON(ctx, FieldAccusationVotes, &rec.AccusationVotes); err != nil {
		return rec, err
	}
	if _, err := s.getJSON(ctx, FieldPunishmentVotes, &rec.PunishmentVotes); err != nil {
		return rec, err
	}
	return rec, nil
}

func (s *RoomState) SetAccusationVotes(ctx context.Context, votes []models.Ballot) error {
	return s.setJSON(ctx, FieldAccusationVotes, votes)
}

func (s *RoomState) SetPunishmentVotes(ctx context.Context, votes []models.Verdict) error {
	return s.setJSON(ctx, FieldPunishmentVotes, votes)
}

func (s *RoomState) AccusationTally(ctx context.Context) ([]models.SeatCount, error) {
	var tally []models.SeatCount
	if _, err := s.getJSON(ctx, FieldAccusationTally, &tally); err != nil {
		return nil, err
	}
	return tally, nil
}

func (s *RoomState) SetAccusationTally(ctx context.Context, tally []models.SeatCount) error {
	return s.setJSON(ctx, FieldAccusationTally, tally)
}

func (s *RoomState) LeaveLog(ctx context.Context) ([]models.PlayerState, error) {
	var log []models.PlayerState
	if _, err := s.getJSON(ctx, FieldExitLeaveLog, &log); err != nil {
		return nil, err
	}
	return log, nil
}

func (s *RoomState) DeathLog(ctx context.Context) ([]models.PlayerState, error) {
	var log []models.PlayerState
	if _, err := s.getJSON(ctx, FieldExitDeathLog, &log); err != nil {
		return nil, err
	}
	return log, nil
}

func (s *RoomState) appendExit(ctx context.Context, field string, p models.PlayerState) error {
	var log []models.PlayerState
	if _, err := s.getJSON(ctx, field, &log); err != nil {
		return err
	}
	return s.setJSON(ctx, field, append(log, p))
}

// IncrActionCounter counts distinct night actors.
func (s *RoomState) IncrActionCounter(ctx context.Context) (int64, error) {
	return s.incr(ctx, FieldActionCounter)
}

// IncrPlayerCountCounter counts day ballots.
func (s *RoomState) IncrPlayerCountCounter(ctx context.Context) (int64, error) {
	return s.incr(ctx, FieldPlayerCountCounter)
}

// DecrActionCounter takes back a night actor who left after acting.
func (s *RoomState) DecrActionCounter(ctx context.Context) error {
	_, err := s.incrBy(ctx, FieldActionCounter, -1)
	return err
}

// DecrPlayerCountCounter takes back the ballot of a voter who left.
func (s *RoomState) DecrPlayerCountCounter(ctx context.Context) error {
	_, err := s.incrBy(ctx, FieldPlayerCountCounter, -1)
	return err
}

// MarkActed records kind/seat for the current phase and reports whether it was already there.
func (s *RoomState) MarkActed(ctx context.Context, kind ActionKind, seat int) (bool, error) {
	var acted []ActedSeat
	if _, err := s.getJSON(ctx, FieldActedSeats, &acted); err != nil {
		return false, err
	}
	for _, a := range acted {
		if a.Kind == kind && a.Seat == seat {
			return true, nil
		}
	}
	return false, s.setJSON(ctx, FieldActedSeats, append(acted, ActedSeat{Kind: kind, Seat: seat}))
}

// HasActed reports whether kind/seat is recorded for the current night.
func (s *RoomState) HasActed(ctx context.Context, kind ActionKind, seat int) (bool, error) {
	var acted []ActedSeat
	if _, err := s.getJSON(ctx, FieldActedSeats, &acted); err != nil {
		return false, err
	}
	for _, a := range acted {
		if a.Kind == kind && a.Seat == seat {
			return true, nil
		}
	}
	return false, nil
}

func (s *RoomState) SetPhase(ctx context.Context, p Phase) error {
	return s.setJSON(ctx, FieldPhase, p)
}

// ClearNight deletes every field of the night record along with its bookkeeping.
func (s *RoomState) ClearNight(ctx context.Context) error {
	return s.del(ctx, FieldMafiaVotes, FieldDoctorTarget, FieldActionCounter, FieldActedSeats)
}

// ClearBallots resets the ballot counter between the two day votes.
func (s *RoomState) ClearBallots(ctx context.Context) error {
	return s.del(ctx, FieldPlayerCountCounter)
}

// ClearDay deletes every field of the day record along with its bookkeeping.
func (s *RoomState) ClearDay(ctx context.Context) error {
	return s.del(ctx, FieldAccusationVotes, FieldAccusationTally, FieldPunishmentVotes,
		FieldPlayerCountCounter)
}

// Delete drops the whole room hash.
func (s *RoomState) Delete(ctx context.Context) error {
	if err := s.store.DeleteRoom(ctx, s.key); err != nil {
		return storeFailure("delete room", err)
	}
	return nil
}

// ActionCount reads actionCounter without changing it.
func (s *RoomState) ActionCount(ctx context.Context) (int64, error) {
	n, err := s.store.IncrField(ctx, s.key, FieldActionCounter, 0)
	if err != nil {
		return 0, storeFailure("read "+FieldActionCounter, err)
	}
	return n, nil
}

// BallotCount reads playerCountCounter without changing it.
func (s *RoomState) BallotCount(ctx context.Context) (int64, error) {
	n, err := s.store.IncrField(ctx, s.key, FieldPlayerCountCounter, 0)
	if err != nil {
		return 0, storeFailure("read "+FieldPlayerCountCounter, err)
	}
	return n, nil
}
