package game

import (
	"testing"

	"github.com/jason-s-yu/mafia/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	assert.Equal(t, models.TeamCitizen, Evaluate(models.TeamCounts{Mafia: 0, Citizen: 3}).Winner)
	assert.Equal(t, models.TeamMafia, Evaluate(models.TeamCounts{Mafia: 2, Citizen: 2}).Winner)
	assert.Equal(t, models.TeamMafia, Evaluate(models.TeamCounts{Mafia: 2, Citizen: 1}).Winner)
	assert.True(t, Evaluate(models.TeamCounts{Mafia: 1, Citizen: 3}).Undetermined())
}

func TestLivingCountsSkipsDeadAndLeft(t *testing.T) {
	players := []models.PlayerState{
		{Team: models.TeamMafia, Alive: true, Status: models.StatusActive},
		{Team: models.TeamMafia, Alive: true, Status: models.StatusLeft},
		{Team: models.TeamCitizen, Alive: true, Status: models.StatusActive},
		{Team: models.TeamCitizen, Alive: false, Status: models.StatusActive},
		{Team: models.TeamCitizen, Alive: true, Status: models.StatusActive},
	}
	assert.Equal(t, models.TeamCounts{Mafia: 1, Citizen: 2}, LivingCounts(players))
}
