package game

import (
	"testing"

	"github.com/jason-s-yu/mafia/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dayPlayers() []models.PlayerState {
	return []models.PlayerState{
		{Seat: 1, Alive: true, Status: models.StatusActive},
		{Seat: 2, Alive: true, Status: models.StatusActive},
		{Seat: 3, Alive: false, Status: models.StatusActive},
		{Seat: 4, Alive: true, Status: models.StatusLeft},
		{Seat: 5, Alive: true, Status: models.StatusActive},
	}
}

func TestSubmitAccusation(t *testing.T) {
	var rec models.DayVoteRecord
	players := dayPlayers()

	require.NoError(t, SubmitAccusation(&rec, players, 2, 1))
	require.NoError(t, SubmitAccusation(&rec, players, 5, 2))
	assert.Equal(t, []models.Ballot{{Voter: 1, Target: 2}, {Voter: 2, Target: 5}}, rec.AccusationVotes)
	assert.ErrorIs(t, SubmitAccusation(&rec, players, 5, 1), ErrDuplicateAction, "one accusation per voter")

	assert.ErrorIs(t, SubmitAccusation(&rec, players, 3, 1), ErrInvalidTarget, "dead")
	assert.ErrorIs(t, SubmitAccusation(&rec, players, 4, 1), ErrInvalidTarget, "left")
	assert.ErrorIs(t, SubmitAccusation(&rec, players, 0, 1), ErrInvalidTarget, "out of range")
	assert.ErrorIs(t, SubmitAccusation(&rec, players, 6, 1), ErrInvalidTarget, "out of range")
	assert.Len(t, rec.AccusationVotes, 2)
}

func TestTallyAccusations(t *testing.T) {
	tally := TallyAccusations([]int{2, 2, 5, 2, 5})
	assert.Equal(t, []models.SeatCount{{Seat: 2, Count: 3}, {Seat: 5, Count: 2}}, tally)
	assert.Equal(t, 2, tally[0].Seat)
}

func TestTallyAccusationsTieGoesToLowestSeat(t *testing.T) {
	tally := TallyAccusations([]int{7, 3, 7, 3, 1})
	require.Len(t, tally, 3)
	assert.Equal(t, models.SeatCount{Seat: 3, Count: 2}, tally[0])
	assert.Equal(t, models.SeatCount{Seat: 7, Count: 2}, tally[1])
	assert.Equal(t, models.SeatCount{Seat: 1, Count: 1}, tally[2])
}

func TestTallyAccusationsEmpty(t *testing.T) {
	assert.Empty(t, TallyAccusations(nil))
}

func TestPunishment(t *testing.T) {
	var rec models.DayVoteRecord
	require.NoError(t, SubmitPunishment(&rec, 1, true))
	require.NoError(t, SubmitPunishment(&rec, 2, false))
	require.NoError(t, SubmitPunishment(&rec, 5, true))
	assert.ErrorIs(t, SubmitPunishment(&rec, 2, true), ErrDuplicateAction)
	assert.Len(t, rec.PunishmentVotes, 3)
	assert.Equal(t, 2, TallyPunishment(rec.PunishmentVotes))
	assert.Equal(t, 0, TallyPunishment(nil))
}

func TestWithdrawBallot(t *testing.T) {
	ballots := []models.Ballot{{Voter: 1, Target: 2}, {Voter: 3, Target: 2}, {Voter: 4, Target: 1}}

	rest, ok := withdrawBallot(ballots, 3)
	require.True(t, ok)
	assert.Equal(t, []models.Ballot{{Voter: 1, Target: 2}, {Voter: 4, Target: 1}}, rest)
	assert.Len(t, ballots, 3, "input is left untouched")
	assert.Equal(t, 3, ballots[1].Voter)

	_, ok = withdrawBallot(ballots, 9)
	assert.False(t, ok)
	assert.Equal(t, []int{2, 2, 1}, Targets(ballots))

	verdicts, ok := withdrawVerdict([]models.Verdict{{Voter: 1, Yes: true}, {Voter: 2}}, 1)
	require.True(t, ok)
	assert.Equal(t, []models.Verdict{{Voter: 2}}, verdicts)
}

func TestStrictMajority(t *testing.T) {
	assert.True(t, StrictMajority(3, 5))
	assert.False(t, StrictMajority(2, 4))
	assert.True(t, StrictMajority(3, 4))
	assert.False(t, StrictMajority(0, 0))
}
