package game

import (
	"fmt"

	"github.com/jason-s-yu/mafia/internal/models"
)

// NightResult is the resolved outcome of a night.
// Consensus is false when the mafia did not agree; nothing else is set then.
type NightResult struct {
	Consensus bool `json:"consensus"`
	Seat      int  `json:"seat,omitempty"`
	Alive     bool `json:"alive"`
	Saved     bool `json:"saved,omitempty"`
}

// SubmitMafiaVote appends voter's kill vote for target. Only mafia may call it, once a night.
func SubmitMafiaVote(rec *models.NightActionRecord, voter, target int, actingRole models.Role) error {
	if actingRole != models.RoleMafia {
		return fmt.Errorf("%w: %s cannot cast a mafia vote", ErrInvalidActor, actingRole)
	}
	if hasBallot(rec.MafiaVotes, voter) {
		return ErrDuplicateAction
	}
	rec.MafiaVotes = append(rec.MafiaVotes, models.Ballot{Voter: voter, Target: target})
	return nil
}

// SubmitDoctorHeal overwrites the doctor's protected seat. Last write wins.
func SubmitDoctorHeal(rec *models.NightActionRecord, target int, actingRole models.Role) error {
	if actingRole != models.RoleDoctor {
		return fmt.Errorf("%w: %s cannot heal", ErrInvalidActor, actingRole)
	}
	t := target
	rec.DoctorTarget = &t
	return nil
}

// InspectRole reveals the role seated at target to the police.
func InspectRole(players []models.PlayerState, target int, actingRole models.Role) (models.Role, error) {
	if actingRole != models.RolePolice {
		return "", fmt.Errorf("%w: %s cannot investigate", ErrInvalidActor, actingRole)
	}
	p, err := targetInPlay(players, target)
	if err != nil {
		return "", err
	}
	return p.Role, nil
}

// ResolveNight decides the night. A kill needs every living mafia member on the same seat.
func ResolveNight(rec models.NightActionRecord, livingMafia int) NightResult {
	if livingMafia <= 0 || len(rec.MafiaVotes) != livingMafia {
		return NightResult{}
	}
	target := rec.MafiaVotes[0].Target
	for _, v := range rec.MafiaVotes[1:] {
		if v.Target != target {
			return NightResult{}
		}
	}
	if rec.DoctorTarget != nil && *rec.DoctorTarget == target {
		return NightResult{Consensus: true, Seat: target, Alive: true, Saved: true}
	}
	return NightResult{Consensus: true, Seat: target, Alive: false}
}
