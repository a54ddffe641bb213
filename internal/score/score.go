// Package score turns a finished match into profile experience, level and manner changes.
package score

import "github.com/jason-s-yu/mafia/internal/models"

const (
	WinExp      = 50
	LossExp     = 20
	ExpPerLevel = 100

	// Manner is kept in [MinManner, MaxManner]; new profiles start at 50.
	MinManner       = 0
	MaxManner       = 100
	FinishManner    = 1
	LeaveMannerCost = 5
)

// Result is the change owed to one player's profile.
type Result struct {
	ProfileID   int64 `json:"profileId"`
	Won         bool  `json:"won"`
	Left        bool  `json:"left"`
	ExpGained   int   `json:"expGained"`
	MannerDelta int   `json:"mannerDelta"`
}

// Compute scores every player of a match won by winner.
// Players who walked out alive forfeit: no experience and no finishing bonus. Their manner
// cost is charged separately, when they leave (see LeavePenalty). A player who was already
// dead when they left is scored like everyone else.
func Compute(players []models.PlayerState, winner models.Team) []Result {
	results := make([]Result, 0, len(players))
	for _, p := range players {
		r := Result{ProfileID: p.ProfileID, Left: Forfeits(p)}
		if !r.Left {
			r.Won = p.Team == winner
			r.MannerDelta = FinishManner
			if r.Won {
				r.ExpGained = WinExp
			} else {
				r.ExpGained = LossExp
			}
		}
		results = append(results, r)
	}
	return results
}

// Forfeits reports whether p walked out of the match while still alive.
func Forfeits(p models.PlayerState) bool {
	return p.Status == models.StatusLeft && p.Alive
}

// LeavePenalty is the result charged when a player walks out of a running match.
func LeavePenalty(p models.PlayerState) Result {
	return Result{ProfileID: p.ProfileID, Left: true, MannerDelta: -LeaveMannerCost}
}

// LevelFor returns the level reached with exp experience. Level 1 starts at zero.
func LevelFor(exp int) int {
	if exp < 0 {
		exp = 0
	}
	return 1 + exp/ExpPerLevel
}

// Apply returns profile updated by r.
func Apply(profile models.Profile, r Result) models.Profile {
	profile.Exp += r.ExpGained
	profile.Level = LevelFor(profile.Exp)
	profile.Manner = clamp(profile.Manner+r.MannerDelta, MinManner, MaxManner)
	return profile
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
