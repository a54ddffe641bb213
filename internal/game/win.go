package game

import "github.com/jason-s-yu/mafia/internal/models"

// LivingCounts counts players still in play on each team.
func LivingCounts(players []models.PlayerState) models.TeamCounts {
	var c models.TeamCounts
	for _, p := range players {
		if !p.InPlay() {
			continue
		}
		if p.Team == models.TeamMafia {
			c.Mafia++
		} else {
			c.Citizen++
		}
	}
	return c
}

// Evaluate returns the winning side, if any.
func Evaluate(c models.TeamCounts) models.Outcome {
	switch {
	case c.Mafia == 0:
		return models.Outcome{Winner: models.TeamCitizen}
	case c.Mafia >= c.Citizen:
		return models.Outcome{Winner: models.TeamMafia}
	}
	return models.Outcome{}
}
