package models

import "github.com/google/uuid"

// Role is the hidden job a seated player receives at round start.
type Role string

const (
	RoleCitizen Role = "citizen"
	RoleMafia   Role = "mafia"
	RoleDoctor  Role = "doctor"
	RolePolice  Role = "police"
)

// Team derives the faction from the role. Only mafia members are on the mafia team.
func (r Role) Team() Team {
	if r == RoleMafia {
		return TeamMafia
	}
	return TeamCitizen
}

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleMafia, RoleDoctor, RolePolice:
		return true
	}
	return false
}

// Team is a faction. It doubles as the winning side of a finished game.
type Team string

const (
	TeamMafia   Team = "mafia"
	TeamCitizen Team = "citizen"
)

// Status tracks whether a player is still connected to the match.
// A player who leaves keeps their seat and is marked StatusLeft.
type Status string

const (
	StatusActive Status = "active"
	StatusLeft   Status = "left"
)

// SeatedPlayer is an entry of the room's `player` field, written before roles exist.
type SeatedPlayer struct {
	UserID    uuid.UUID `json:"userId"`
	ProfileID int64     `json:"profileId"`
	Nickname  string    `json:"nickname"`
	Seat      int       `json:"seat"`
}

// PlayerState is an entry of the room's `playerJob` field.
type PlayerState struct {
	UserID    uuid.UUID `json:"userId"`
	ProfileID int64     `json:"profileId"`
	Nickname  string    `json:"nickname"`
	Seat      int       `json:"seat"` // 1-based, stable for the match
	Role      Role      `json:"role"`
	Team      Team      `json:"team"`
	Alive     bool      `json:"alive"`
	Status    Status    `json:"status"`
}

// InPlay reports whether the player still counts as living: alive and not left.
func (p PlayerState) InPlay() bool {
	return p.Alive && p.Status == StatusActive
}
