package score

import (
	"testing"

	"github.com/jason-s-yu/mafia/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSplitsWinnersAndLosers(t *testing.T) {
	players := []models.PlayerState{
		{ProfileID: 1, Team: models.TeamMafia, Status: models.StatusActive},
		{ProfileID: 2, Team: models.TeamCitizen, Status: models.StatusActive},
		{ProfileID: 3, Team: models.TeamCitizen, Alive: true, Status: models.StatusLeft},
	}

	results := Compute(players, models.TeamCitizen)
	require.Len(t, results, 3)

	assert.Equal(t, Result{ProfileID: 1, ExpGained: LossExp, MannerDelta: FinishManner}, results[0])
	assert.Equal(t, Result{ProfileID: 2, Won: true, ExpGained: WinExp, MannerDelta: FinishManner}, results[1])
	assert.Equal(t, Result{ProfileID: 3, Left: true}, results[2], "leavers forfeit")
}

func TestDeadPlayersStillScore(t *testing.T) {
	players := []models.PlayerState{
		{ProfileID: 9, Team: models.TeamMafia, Alive: false, Status: models.StatusActive},
		{ProfileID: 10, Team: models.TeamMafia, Alive: false, Status: models.StatusLeft},
	}
	results := Compute(players, models.TeamMafia)
	for _, r := range results {
		assert.False(t, r.Left, "profile %d", r.ProfileID)
		assert.True(t, r.Won)
		assert.Equal(t, WinExp, r.ExpGained)
		assert.Equal(t, FinishManner, r.MannerDelta)
	}
}

func TestForfeits(t *testing.T) {
	assert.True(t, Forfeits(models.PlayerState{Alive: true, Status: models.StatusLeft}))
	assert.False(t, Forfeits(models.PlayerState{Alive: false, Status: models.StatusLeft}), "closing the tab after dying is free")
	assert.False(t, Forfeits(models.PlayerState{Alive: true, Status: models.StatusActive}))
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, 1, LevelFor(0))
	assert.Equal(t, 1, LevelFor(99))
	assert.Equal(t, 2, LevelFor(100))
	assert.Equal(t, 4, LevelFor(350))
	assert.Equal(t, 1, LevelFor(-10))
}

func TestApply(t *testing.T) {
	p := models.Profile{ID: 1, Manner: 50, Level: 1, Exp: 90}

	p = Apply(p, Result{ExpGained: WinExp, MannerDelta: FinishManner})
	assert.Equal(t, 140, p.Exp)
	assert.Equal(t, 2, p.Level)
	assert.Equal(t, 51, p.Manner)
}

func TestApplyClampsManner(t *testing.T) {
	low := Apply(models.Profile{Manner: 3}, LeavePenalty(models.PlayerState{ProfileID: 1}))
	assert.Equal(t, MinManner, low.Manner)

	high := Apply(models.Profile{Manner: MaxManner}, Result{MannerDelta: FinishManner})
	assert.Equal(t, MaxManner, high.Manner)
}
