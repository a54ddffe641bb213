package game

import (
	"sort"

	"github.com/jason-s-yu/mafia/internal/models"
)

// ExecutionPolicy decides whether a punishment vote executes the accused.
type ExecutionPolicy func(yes, living int) bool

// StrictMajority executes when more than half of the living players voted yes.
func StrictMajority(yes, living int) bool {
	return yes*2 > living
}

// SubmitAccusation appends voterSeat's accusation against target. The target must still be
// in play and each voter accuses once.
func SubmitAccusation(rec *models.DayVoteRecord, players []models.PlayerState, target, voterSeat int) error {
	if _, err := targetInPlay(players, target); err != nil {
		return err
	}
	if hasBallot(rec.AccusationVotes, voterSeat) {
		return ErrDuplicateAction
	}
	rec.AccusationVotes = append(rec.AccusationVotes, models.Ballot{Voter: voterSeat, Target: target})
	return nil
}

// TallyAccusations counts votes per seat, highest count first and lowest seat first on ties.
func TallyAccusations(votes []int) []models.SeatCount {
	counts := make(map[int]int, len(votes))
	for _, seat := range votes {
		counts[seat]++
	}
	tally := make([]models.SeatCount, 0, len(counts))
	for seat, n := range counts {
		tally = append(tally, models.SeatCount{Seat: seat, Count: n})
	}
	sort.Slice(tally, func(i, j int) bool {
		if tally[i].Count != tally[j].Count {
			return tally[i].Count > tally[j].Count
		}
		return tally[i].Seat < tally[j].Seat
	})
	return tally
}

// SubmitPunishment appends voterSeat's yes/no execution ballot. One per voter.
func SubmitPunishment(rec *models.DayVoteRecord, voterSeat int, vote bool) error {
	for _, v := range rec.PunishmentVotes {
		if v.Voter == voterSeat {
			return ErrDuplicateAction
		}
	}
	rec.PunishmentVotes = append(rec.PunishmentVotes, models.Verdict{Voter: voterSeat, Yes: vote})
	return nil
}

// TallyPunishment returns the number of yes ballots.
func TallyPunishment(votes []models.Verdict) int {
	yes := 0
	for _, v := range votes {
		if v.Yes {
			yes++
		}
	}
	return yes
}

// Targets lists the target seat of each ballot, in casting order.
func Targets(ballots []models.Ballot) []int {
	out := make([]int, len(ballots))
	for i, b := range ballots {
		out[i] = b.Target
	}
	return out
}

func hasBallot(ballots []models.Ballot, voter int) bool {
	for _, b := range ballots {
		if b.Voter == voter {
			return true
		}
	}
	return false
}

// withdrawBallot drops voter's ballot and reports whether there was one.
func withdrawBallot(ballots []models.Ballot, voter int) ([]models.Ballot, bool) {
	for i, b := range ballots {
		if b.Voter == voter {
			return append(ballots[:i:i], ballots[i+1:]...), true
		}
	}
	return ballots, false
}

// withdrawVerdict drops voter's verdict and reports whether there was one.
func withdrawVerdict(verdicts []models.Verdict, voter int) ([]models.Verdict, bool) {
	for i, v := range verdicts {
		if v.Voter == voter {
			return append(verdicts[:i:i], verdicts[i+1:]...), true
		}
	}
	return verdicts, false
}
