package game

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/jason-s-yu/mafia/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeQuotaSumsForPlayableRooms(t *testing.T) {
	for n := 4; n <= 20; n++ {
		q := ComputeQuota(n)
		assert.GreaterOrEqual(t, q.Citizen, 0, "n=%d", n)
		assert.Equal(t, n, q.Total(), "n=%d", n)
	}
}

func TestComputeQuotaTables(t *testing.T) {
	assert.Equal(t, models.RoleQuota{Citizen: 4, Mafia: 2, Doctor: 1, Police: 1}, ComputeQuota(8))
	assert.Equal(t, models.RoleQuota{Citizen: 3, Mafia: 1, Doctor: 1, Police: 1}, ComputeQuota(6))
	assert.Equal(t, models.RoleQuota{Citizen: 6, Mafia: 2, Doctor: 1, Police: 1}, ComputeQuota(10))
	assert.Equal(t, models.RoleQuota{Citizen: 3, Mafia: 2, Doctor: 1, Police: 1}, ComputeQuota(7))
}

func TestComputeQuotaSmallRoomFallback(t *testing.T) {
	q := ComputeQuota(3)
	assert.Equal(t, 1, q.Citizen)
	assert.Equal(t, 4, q.Total(), "the small-room rule does not add up; rooms below four are refused upstream")
}

func countRoles(roles []models.Role) map[models.Role]int {
	m := make(map[models.Role]int)
	for _, r := range roles {
		m[r]++
	}
	return m
}

func TestDealRolesIsPermutationOfQuota(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		for _, n := range []int{4, 6, 8, 13} {
			q := ComputeQuota(n)
			roles := DealRoles(rand.New(rand.NewSource(seed)), n, q)
			require.Len(t, roles, n)
			got := countRoles(roles)
			assert.Equal(t, q.Citizen, got[models.RoleCitizen], "seed=%d n=%d", seed, n)
			assert.Equal(t, q.Mafia, got[models.RoleMafia], "seed=%d n=%d", seed, n)
			assert.Equal(t, q.Doctor, got[models.RoleDoctor], "seed=%d n=%d", seed, n)
			assert.Equal(t, q.Police, got[models.RolePolice], "seed=%d n=%d", seed, n)
		}
	}
}

func TestDealRolesShuffles(t *testing.T) {
	q := ComputeQuota(10)
	seen := make(map[string]bool)
	for seed := int64(0); seed < 20; seed++ {
		roles := DealRoles(rand.New(rand.NewSource(seed)), 10, q)
		key := ""
		for _, r := range roles {
			key += string(r[0])
		}
		seen[key] = true
	}
	assert.Greater(t, len(seen), 1, "different seeds should produce different orders")
}

func TestDealRolesFillsShortQuotaWithCitizens(t *testing.T) {
	roles := DealRoles(rand.New(rand.NewSource(1)), 5, models.RoleQuota{Mafia: 1})
	got := countRoles(roles)
	assert.Equal(t, 1, got[models.RoleMafia])
	assert.Equal(t, 4, got[models.RoleCitizen])
}

func TestBuildPlayersSortsBySeat(t *testing.T) {
	seated := []models.SeatedPlayer{
		{UserID: uuid.New(), Seat: 2, Nickname: "b"},
		{UserID: uuid.New(), Seat: 1, Nickname: "a"},
	}
	players := BuildPlayers(seated, []models.Role{models.RoleMafia, models.RoleDoctor})
	require.Len(t, players, 2)

	assert.Equal(t, 1, players[0].Seat)
	assert.Equal(t, models.RoleMafia, players[0].Role)
	assert.Equal(t, models.TeamMafia, players[0].Team)
	assert.Equal(t, models.TeamCitizen, players[1].Team)
	for _, p := range players {
		assert.True(t, p.Alive)
		assert.Equal(t, models.StatusActive, p.Status)
	}
	assert.Equal(t, 2, seated[0].Seat, "input order untouched")
}

func TestTeamDerivedFromRole(t *testing.T) {
	for _, r := range []models.Role{models.RoleCitizen, models.RoleMafia, models.RoleDoctor, models.RolePolice} {
		if r == models.RoleMafia {
			assert.Equal(t, models.TeamMafia, r.Team())
		} else {
			assert.Equal(t, models.TeamCitizen, r.Team())
		}
	}
}

func TestMafiaRoster(t *testing.T) {
	players := []models.PlayerState{
		{Seat: 1, Role: models.RoleCitizen},
		{Seat: 2, Role: models.RoleMafia},
		{Seat: 3, Role: models.RoleMafia},
	}
	roster := MafiaRoster(players)
	require.Len(t, roster, 2)
	assert.Equal(t, 2, roster[0].Seat)
	assert.Equal(t, 3, roster[1].Seat)
}
