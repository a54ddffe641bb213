package game

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jason-s-yu/mafia/internal/models"
)

// seatIndex finds the slice index for a 1-based seat.
func seatIndex(players []models.PlayerState, seat int) (int, error) {
	for i := range players {
		if players[i].Seat == seat {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: seat %d does not exist", ErrInvalidTarget, seat)
}

// targetInPlay returns the player at seat if it exists and is neither dead nor gone.
func targetInPlay(players []models.PlayerState, seat int) (models.PlayerState, error) {
	i, err := seatIndex(players, seat)
	if err != nil {
		return models.PlayerState{}, err
	}
	if !players[i].InPlay() {
		return models.PlayerState{}, fmt.Errorf("%w: seat %d is out of play", ErrInvalidTarget, seat)
	}
	return players[i], nil
}

func seatOfUser(players []models.PlayerState, userID uuid.UUID) (int, bool) {
	for _, p := range players {
		if p.UserID == userID {
			return p.Seat, true
		}
	}
	return 0, false
}

// MarkLeft flips the player at seat to StatusLeft in place and returns the updated snapshot.
func MarkLeft(players []models.PlayerState, seat int) (models.PlayerState, error) {
	i, err := seatIndex(players, seat)
	if err != nil {
		return models.PlayerState{}, err
	}
	players[i].Status = models.StatusLeft
	return players[i], nil
}

// MarkDead flips the player at seat to dead in place and returns the updated snapshot.
func MarkDead(players []models.PlayerState, seat int) (models.PlayerState, error) {
	i, err := seatIndex(players, seat)
	if err != nil {
		return models.PlayerState{}, err
	}
	players[i].Alive = false
	return players[i], nil
}

// RecordLeave marks the seat as left, saves the players and appends to the leave log.
func (s *RoomState) RecordLeave(ctx context.Context, players []models.PlayerState, seat int) (models.PlayerState, error) {
	p, err := MarkLeft(players, seat)
	if err != nil {
		return p, err
	}
	if err := s.SetPlayers(ctx, players); err != nil {
		return p, err
	}
	return p, s.appendExit(ctx, FieldExitLeaveLog, p)
}

// RecordDeath marks the seat as dead, saves the players and appends to the death log.
func (s *RoomState) RecordDeath(ctx context.Context, players []models.PlayerState, seat int) (models.PlayerState, error) {
	p, err := MarkDead(players, seat)
	if err != nil {
		return p, err
	}
	if err := s.SetPlayers(ctx, players); err != nil {
		return p, err
	}
	return p, s.appendExit(ctx, FieldExitDeathLog, p)
}

// ReconciledLivingCount is the number of seats that have not exited.
// A seat in both logs counts once.
func ReconciledLivingCount(total int, deathLog, leaveLog []models.PlayerState) int {
	exited := make(map[int]struct{}, len(deathLog)+len(leaveLog))
	for _, p := range deathLog {
		exited[p.Seat] = struct{}{}
	}
	for _, p := range leaveLog {
		exited[p.Seat] = struct{}{}
	}
	return total - len(exited)
}
