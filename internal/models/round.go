package models

// RoleQuota is the number of each role dealt for a given player count.
type RoleQuota struct {
	Citizen int `json:"citizen"`
	Mafia   int `json:"mafia"`
	Doctor  int `json:"doctor"`
	Police  int `json:"police"`
}

// Total returns the number of roles the quota deals.
func (q RoleQuota) Total() int {
	return q.Citizen + q.Mafia + q.Doctor + q.Police
}

// Ballot is one seat's vote against a target seat.
type Ballot struct {
	Voter  int `json:"voter"`
	Target int `json:"target"`
}

// Verdict is one seat's yes/no punishment ballot.
type Verdict struct {
	Voter int  `json:"voter"`
	Yes   bool `json:"yes"`
}

// NightActionRecord holds the secret actions collected during one night.
type NightActionRecord struct {
	MafiaVotes   []Ballot `json:"mafiaVotes"`
	DoctorTarget *int     `json:"doctorTarget,omitempty"`
}

// DayVoteRecord holds the public ballots collected during one day.
type DayVoteRecord struct {
	AccusationVotes []Ballot  `json:"accusationVotes"`
	PunishmentVotes []Verdict `json:"punishmentVotes"`
}

// SeatCount is one row of an accusation tally.
type SeatCount struct {
	Seat  int `json:"seat"`
	Count int `json:"count"`
}

// TeamCounts is the number of players still in play on each side.
type TeamCounts struct {
	Mafia   int `json:"mafia"`
	Citizen int `json:"citizen"`
}

// Outcome is the result of a win check. The empty value means the round continues.
type Outcome struct {
	Winner Team `json:"winner,omitempty"`
}

// Undetermined reports whether neither side has won yet.
func (o Outcome) Undetermined() bool {
	return o.Winner == ""
}
