package game

import (
	"math/rand"
	"sort"

	"github.com/jason-s-yu/mafia/internal/models"
)

// ComputeQuota returns the role counts dealt to playerCount players.
// Below four players the citizen count is pinned to 1 and the counts no longer add up;
// RoomActor refuses such rooms before calling this.
func ComputeQuota(playerCount int) models.RoleQuota {
	q := models.RoleQuota{Mafia: 1, Doctor: 1, Police: 1}
	if playerCount > 6 {
		q.Mafia = 2
	}
	if playerCount < 4 {
		q.Citizen = 1
	} else {
		q.Citizen = playerCount - (q.Mafia + q.Doctor + q.Police)
	}
	return q
}

// DealRoles expands the quota in citizen, mafia, doctor, police order and shuffles it.
// Entry i belongs to seat i+1. Seats left over once the quota runs dry are citizens.
func DealRoles(rng *rand.Rand, playerCount int, quota models.RoleQuota) []models.Role {
	remaining := []struct {
		role  models.Role
		count int
	}{
		{models.RoleCitizen, quota.Citizen},
		{models.RoleMafia, quota.Mafia},
		{models.RoleDoctor, quota.Doctor},
		{models.RolePolice, quota.Police},
	}

	ordered := make([]models.Role, 0, playerCount)
	idx := 0
	for len(ordered) < playerCount {
		for idx < len(remaining) && remaining[idx].count <= 0 {
			idx++
		}
		if idx == len(remaining) {
			ordered = append(ordered, models.RoleCitizen)
			continue
		}
		ordered = append(ordered, remaining[idx].role)
		remaining[idx].count--
	}

	// Pop-based shuffle: swap a random survivor into the last slot and pop it.
	out := make([]models.Role, 0, playerCount)
	for n := len(ordered); n > 0; n-- {
		j := rng.Intn(n)
		ordered[j], ordered[n-1] = ordered[n-1], ordered[j]
		out = append(out, ordered[n-1])
		ordered = ordered[:n-1]
	}
	return out
}

// BuildPlayers pairs seated players (ordered by seat) with the shuffled roles.
func BuildPlayers(seated []models.SeatedPlayer, roles []models.Role) []models.PlayerState {
	sorted := make([]models.SeatedPlayer, len(seated))
	copy(sorted, seated)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Seat < sorted[j].Seat })

	players := make([]models.PlayerState, len(sorted))
	for i, sp := range sorted {
		role := roles[i]
		players[i] = models.PlayerState{
			UserID:    sp.UserID,
			ProfileID: sp.ProfileID,
			Nickname:  sp.Nickname,
			Seat:      sp.Seat,
			Role:      role,
			Team:      role.Team(),
			Alive:     true,
			Status:    models.StatusActive,
		}
	}
	return players
}

// MafiaRoster returns the mafia members among players.
func MafiaRoster(players []models.PlayerState) []models.PlayerState {
	var roster []models.PlayerState
	for _, p := range players {
		if p.Role == models.RoleMafia {
			roster = append(roster, p)
		}
	}
	return roster
}
