package game

import (
	"context"

	"github.com/google/uuid"
	"github.com/jason-s-yu/mafia/internal/models"
	"github.com/sirupsen/logrus"
)

// nightActors is the number of in-play players with a night action.
func nightActors(players []models.PlayerState) int64 {
	var n int64
	for _, p := range players {
		if p.InPlay() && p.Role != models.RoleCitizen {
			n++
		}
	}
	return n
}

// expectedBallots is the number of day ballots that closes a vote early.
func (a *RoomActor) expectedBallots(ctx context.Context, players []models.PlayerState) (int64, error) {
	deaths, err := a.state.DeathLog(ctx)
	if err != nil {
		return 0, err
	}
	leaves, err := a.state.LeaveLog(ctx)
	if err != nil {
		return 0, err
	}
	return int64(ReconciledLivingCount(len(players), deaths, leaves)), nil
}

// nightAction loads the players and validates the actor and target of a night action.
func (a *RoomActor) nightAction(ctx context.Context, role models.Role, actorSeat, targetSeat int) ([]models.PlayerState, models.PlayerState, error) {
	if err := a.requirePhase(PhaseNight); err != nil {
		return nil, models.PlayerState{}, err
	}
	players, err := a.state.Players(ctx)
	if err != nil {
		return nil, models.PlayerState{}, err
	}
	actor, err := actorInPlay(players, actorSeat)
	if err != nil {
		return nil, models.PlayerState{}, err
	}
	if actor.Role != role {
		return nil, models.PlayerState{}, ErrInvalidActor
	}
	if _, err := targetInPlay(players, targetSeat); err != nil {
		return nil, models.PlayerState{}, err
	}
	return players, actor, nil
}

// countNightActor bumps actionCounter and resolves the night once every actor is in.
func (a *RoomActor) countNightActor(ctx context.Context, players []models.PlayerState) error {
	n, err := a.state.IncrActionCounter(ctx)
	if err != nil {
		return err
	}
	if n >= nightActors(players) {
		return a.resolveNight(ctx)
	}
	return nil
}

// MafiaVote is one mafia member's kill vote. Each member votes once per night.
type MafiaVote struct {
	ActorSeat  int
	TargetSeat int
}

func (m MafiaVote) apply(ctx context.Context, a *RoomActor) (any, error) {
	players, actor, err := a.nightAction(ctx, models.RoleMafia, m.ActorSeat, m.TargetSeat)
	if err != nil {
		return nil, err
	}
	rec, err := a.state.NightRecord(ctx)
	if err != nil {
		return nil, err
	}
	if err := SubmitMafiaVote(&rec, actor.Seat, m.TargetSeat, actor.Role); err != nil {
		return nil, err
	}
	if err := a.state.SetMafiaVotes(ctx, rec.MafiaVotes); err != nil {
		return nil, err
	}
	return nil, a.countNightActor(ctx, players)
}

// DoctorHeal protects a seat for the night. A later heal replaces an earlier one.
type DoctorHeal struct {
	ActorSeat  int
	TargetSeat int
}

func (d DoctorHeal) apply(ctx context.Context, a *RoomActor) (any, error) {
	players, actor, err := a.nightAction(ctx, models.RoleDoctor, d.ActorSeat, d.TargetSeat)
	if err != nil {
		return nil, err
	}
	var rec models.NightActionRecord
	if err := SubmitDoctorHeal(&rec, d.TargetSeat, actor.Role); err != nil {
		return nil, err
	}
	if err := a.state.SetDoctorTarget(ctx, *rec.DoctorTarget); err != nil {
		return nil, err
	}
	acted, err := a.state.MarkActed(ctx, KindDoctorHeal, actor.Seat)
	if err != nil {
		return nil, err
	}
	if acted {
		return nil, nil
	}
	return nil, a.countNightActor(ctx, players)
}

// PoliceCheck privately reveals the target's role to the police. Once per night.
// The value is the revealed models.Role.
type PoliceCheck struct {
	ActorSeat  int
	TargetSeat int
}

func (p PoliceCheck) apply(ctx context.Context, a *RoomActor) (any, error) {
	players, actor, err := a.nightAction(ctx, models.RolePolice, p.ActorSeat, p.TargetSeat)
	if err != nil {
		return nil, err
	}
	role, err := InspectRole(players, p.TargetSeat, actor.Role)
	if err != nil {
		return nil, err
	}
	acted, err := a.state.MarkActed(ctx, KindPoliceCheck, actor.Seat)
	if err != nil {
		return nil, err
	}
	if acted {
		return nil, ErrDuplicateAction
	}
	a.sendTo(actor.UserID, GameEvent{
		Type:    EventPrivatePoliceResult,
		User:    &EventUser{ID: actor.UserID, Seat: actor.Seat},
		Payload: map[string]interface{}{"seat": p.TargetSeat, "role": role},
	})
	return role, a.countNightActor(ctx, players)
}

// resolveNight applies the night record, clears it and moves on to the accusation vote.
func (a *RoomActor) resolveNight(ctx context.Context) error {
	players, err := a.state.Players(ctx)
	if err != nil {
		return err
	}
	rec, err := a.state.NightRecord(ctx)
	if err != nil {
		return err
	}
	result := ResolveNight(rec, LivingCounts(players).Mafia)
	if result.Consensus && !result.Alive {
		if _, err := targetInPlay(players, result.Seat); err != nil {
			// The target left before dawn.
			result = NightResult{}
		}
	}
	if err := a.state.ClearNight(ctx); err != nil {
		return err
	}

	a.log.WithFields(logrus.Fields{
		"consensus": result.Consensus,
		"seat":      result.Seat,
		"saved":     result.Saved,
	}).Info("night resolved")

	if result.Consensus {
		if !result.Alive {
			if _, err := a.state.RecordDeath(ctx, players, result.Seat); err != nil {
				return err
			}
		}
		a.broadcast(GameEvent{
			Type: EventNightOutcome,
			Payload: map[string]interface{}{
				"seat":  result.Seat,
				"alive": result.Alive,
				"saved": result.Saved,
			},
		})
		if !result.Alive && a.checkWin(ctx, players) {
			return nil
		}
	}
	return a.startPhase(ctx, PhaseAccusation)
}

// dayVoter loads the players and validates a day voter.
func (a *RoomActor) dayVoter(ctx context.Context, phase Phase, voterSeat int) ([]models.PlayerState, models.PlayerState, error) {
	if err := a.requirePhase(phase); err != nil {
		return nil, models.PlayerState{}, err
	}
	players, err := a.state.Players(ctx)
	if err != nil {
		return nil, models.PlayerState{}, err
	}
	voter, err := actorInPlay(players, voterSeat)
	if err != nil {
		return nil, models.PlayerState{}, err
	}
	return players, voter, nil
}

// countBallot bumps playerCountCounter and reports whether every living player has voted.
func (a *RoomActor) countBallot(ctx context.Context, players []models.PlayerState) (bool, error) {
	n, err := a.state.IncrPlayerCountCounter(ctx)
	if err != nil {
		return false, err
	}
	expected, err := a.expectedBallots(ctx, players)
	if err != nil {
		return false, err
	}
	return n >= expected, nil
}

// AccusationVote names the player a voter wants put on trial. One per voter per day.
type AccusationVote struct {
	VoterSeat  int
	TargetSeat int
}

func (v AccusationVote) apply(ctx context.Context, a *RoomActor) (any, error) {
	players, voter, err := a.dayVoter(ctx, PhaseAccusation, v.VoterSeat)
	if err != nil {
		return nil, err
	}
	rec, err := a.state.DayRecord(ctx)
	if err != nil {
		return nil, err
	}
	if err := SubmitAccusation(&rec, players, v.TargetSeat, voter.Seat); err != nil {
		return nil, err
	}
	if err := a.state.SetAccusationVotes(ctx, rec.AccusationVotes); err != nil {
		return nil, err
	}
	complete, err := a.countBallot(ctx, players)
	if err != nil || !complete {
		return nil, err
	}
	return nil, a.resolveAccusation(ctx)
}

// resolveAccusation tallies the accusations. With no accused in play the day ends.
func (a *RoomActor) resolveAccusation(ctx context.Context) error {
	players, err := a.state.Players(ctx)
	if err != nil {
		return err
	}
	rec, err := a.state.DayRecord(ctx)
	if err != nil {
		return err
	}
	tally := TallyAccusations(Targets(rec.AccusationVotes))
	if err := a.state.SetAccusationTally(ctx, tally); err != nil {
		return err
	}

	payload := map[string]interface{}{"tally": tally}
	if len(tally) > 0 {
		payload["accused"] = tally[0].Seat
	}
	a.broadcast(GameEvent{Type: EventAccusationTally, Payload: payload})

	if len(tally) == 0 {
		return a.endDay(ctx)
	}
	if _, err := targetInPlay(players, tally[0].Seat); err != nil {
		return a.endDay(ctx)
	}
	if err := a.state.ClearBallots(ctx); err != nil {
		return err
	}
	return a.startPhase(ctx, PhasePunishment)
}

// PunishmentVote is a yes/no ballot on executing the accused. One per voter per day.
type PunishmentVote struct {
	VoterSeat int
	Vote      bool
}

func (v PunishmentVote) apply(ctx context.Context, a *RoomActor) (any, error) {
	players, voter, err := a.dayVoter(ctx, PhasePunishment, v.VoterSeat)
	if err != nil {
		return nil, err
	}
	rec, err := a.state.DayRecord(ctx)
	if err != nil {
		return nil, err
	}
	if err := SubmitPunishment(&rec, voter.Seat, v.Vote); err != nil {
		return nil, err
	}
	if err := a.state.SetPunishmentVotes(ctx, rec.PunishmentVotes); err != nil {
		return nil, err
	}
	complete, err := a.countBallot(ctx, players)
	if err != nil || !complete {
		return nil, err
	}
	return nil, a.resolvePunishment(ctx)
}

// resolvePunishment counts the ballots and executes the accused if the policy allows.
func (a *RoomActor) resolvePunishment(ctx context.Context) error {
	players, err := a.state.Players(ctx)
	if err != nil {
		return err
	}
	tally, err := a.state.AccusationTally(ctx)
	if err != nil {
		return err
	}
	rec, err := a.state.DayRecord(ctx)
	if err != nil {
		return err
	}
	if len(tally) == 0 {
		return a.endDay(ctx)
	}

	accused := tally[0].Seat
	counts := LivingCounts(players)
	yes := TallyPunishment(rec.PunishmentVotes)
	executed := a.cfg.Execution(yes, counts.Mafia+counts.Citizen)
	if _, err := targetInPlay(players, accused); err != nil {
		executed = false
	}

	a.broadcast(GameEvent{
		Type: EventPunishmentTally,
		Payload: map[string]interface{}{
			"seat":     accused,
			"yes":      yes,
			"no":       len(rec.PunishmentVotes) - yes,
			"executed": executed,
		},
	})
	a.log.WithFields(logrus.Fields{"seat": accused, "yes": yes, "executed": executed}).Info("punishment resolved")

	if !executed {
		return a.endDay(ctx)
	}
	if _, err := a.state.RecordDeath(ctx, players, accused); err != nil {
		return err
	}
	if err := a.state.ClearDay(ctx); err != nil {
		return err
	}
	if a.checkWin(ctx, players) {
		return nil
	}
	return a.startPhase(ctx, PhaseNight)
}

func (a *RoomActor) endDay(ctx context.Context) error {
	if err := a.state.ClearDay(ctx); err != nil {
		return err
	}
	return a.startPhase(ctx, PhaseNight)
}

// Leave marks the user's seat as left. It counts as a removal for the win check.
type Leave struct {
	UserID uuid.UUID
}

func (l Leave) apply(ctx context.Context, a *RoomActor) (any, error) {
	switch a.phase {
	case PhaseWaiting:
		return nil, ErrWrongPhase
	case PhaseFinished:
		return nil, ErrGameNotFound
	}
	players, err := a.state.Players(ctx)
	if err != nil {
		return nil, err
	}
	seat, ok := seatOfUser(players, l.UserID)
	if !ok {
		return nil, ErrInvalidActor
	}
	i, _ := seatIndex(players, seat)
	if players[i].Status == models.StatusLeft {
		return nil, ErrDuplicateAction
	}

	wasAlive := players[i].Alive
	left, err := a.state.RecordLeave(ctx, players, seat)
	if err != nil {
		return nil, err
	}
	// The dead have nothing left to forfeit.
	if wasAlive && a.gateway != nil {
		if err := a.gateway.RecordLeave(ctx, a.ID, left); err != nil {
			a.log.WithError(err).Warn("failed to record leave")
		}
	}
	a.log.WithField("seat", seat).Info("player left")
	a.broadcast(GameEvent{
		Type: EventPlayerLeft,
		User: &EventUser{ID: l.UserID, Seat: seat},
	})

	if a.checkWin(ctx, players) {
		return nil, nil
	}
	if wasAlive {
		if err := a.withdraw(ctx, left); err != nil {
			return nil, err
		}
	}
	return nil, a.resolveIfComplete(ctx, players)
}

// withdraw takes back whatever p cast in the current phase, so that the phase waits for,
// and is decided by, the players still in play.
func (a *RoomActor) withdraw(ctx context.Context, p models.PlayerState) error {
	switch a.phase {
	case PhaseNight:
		return a.withdrawNight(ctx, p)
	case PhaseAccusation:
		rec, err := a.state.DayRecord(ctx)
		if err != nil {
			return err
		}
		votes, ok := withdrawBallot(rec.AccusationVotes, p.Seat)
		if !ok {
			return nil
		}
		if err := a.state.SetAccusationVotes(ctx, votes); err != nil {
			return err
		}
		return a.state.DecrPlayerCountCounter(ctx)
	case PhasePunishment:
		rec, err := a.state.DayRecord(ctx)
		if err != nil {
			return err
		}
		verdicts, ok := withdrawVerdict(rec.PunishmentVotes, p.Seat)
		if !ok {
			return nil
		}
		if err := a.state.SetPunishmentVotes(ctx, verdicts); err != nil {
			return err
		}
		return a.state.DecrPlayerCountCounter(ctx)
	}
	return nil
}

func (a *RoomActor) withdrawNight(ctx context.Context, p models.PlayerState) error {
	switch p.Role {
	case models.RoleMafia:
		rec, err := a.state.NightRecord(ctx)
		if err != nil {
			return err
		}
		votes, ok := withdrawBallot(rec.MafiaVotes, p.Seat)
		if !ok {
			return nil
		}
		if err := a.state.SetMafiaVotes(ctx, votes); err != nil {
			return err
		}
	case models.RoleDoctor:
		acted, err := a.state.HasActed(ctx, KindDoctorHeal, p.Seat)
		if err != nil || !acted {
			return err
		}
		if err := a.state.ClearDoctorTarget(ctx); err != nil {
			return err
		}
	case models.RolePolice:
		// The result is already out; only the count is taken back.
		acted, err := a.state.HasActed(ctx, KindPoliceCheck, p.Seat)
		if err != nil || !acted {
			return err
		}
	default:
		return nil
	}
	return a.state.DecrActionCounter(ctx)
}

// resolveIfComplete closes the current phase early when the remaining players have all acted.
func (a *RoomActor) resolveIfComplete(ctx context.Context, players []models.PlayerState) error {
	switch a.phase {
	case PhaseNight:
		n, err := a.state.ActionCount(ctx)
		if err != nil {
			return err
		}
		if n > 0 && n >= nightActors(players) {
			return a.resolveNight(ctx)
		}
	case PhaseAccusation, PhasePunishment:
		n, err := a.state.BallotCount(ctx)
		if err != nil {
			return err
		}
		expected, err := a.expectedBallots(ctx, players)
		if err != nil {
			return err
		}
		if n > 0 && n >= expected {
			if a.phase == PhaseAccusation {
				return a.resolveAccusation(ctx)
			}
			return a.resolvePunishment(ctx)
		}
	}
	return nil
}
