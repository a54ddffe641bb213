package game

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/mafia/internal/models"
	"github.com/sirupsen/logrus"
)

// Phase is the stage a room is in.
type Phase string

const (
	PhaseWaiting    Phase = "waiting"
	PhaseNight      Phase = "night"
	PhaseAccusation Phase = "accusation"
	PhasePunishment Phase = "punishment"
	PhaseFinished   Phase = "finished"
)

// Config holds the per-room tunables.
type Config struct {
	PhaseDuration time.Duration
	MinPlayers    int
	StoreTimeout  time.Duration
	Execution     ExecutionPolicy
}

// DefaultConfig returns one-minute phases, four-player rooms and strict-majority executions.
func DefaultConfig() Config {
	return Config{
		PhaseDuration: time.Minute,
		MinPlayers:    4,
		StoreTimeout:  3 * time.Second,
		Execution:     StrictMajority,
	}
}

// OnFinishFunc is invoked once the actor has stopped after a decided game.
type OnFinishFunc func(roomID uuid.UUID, outcome models.Outcome)

// Action is an inbound message processed by a RoomActor.
type Action interface {
	apply(ctx context.Context, a *RoomActor) (any, error)
}

type actionResult struct {
	value any
	err   error
}

type envelope struct {
	action Action
	reply  chan actionResult
}

// RoomActor owns one room. Every read and write of the room's state runs on its goroutine,
// one action at a time, in arrival order.
type RoomActor struct {
	ID uuid.UUID

	cfg     Config
	state   *RoomState
	gateway PersistenceGateway
	log     *logrus.Entry
	rng     *rand.Rand

	// BroadcastFn sends an event to every player in the room. If nil, nothing is sent.
	BroadcastFn func(ev GameEvent)

	// BroadcastToPlayerFn sends an event to one user.
	BroadcastToPlayerFn func(userID uuid.UUID, ev GameEvent)

	// OnFinish runs after the game is decided, persisted and torn down.
	OnFinish OnFinishFunc

	inbox  chan envelope
	done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc

	// Owned by the run loop.
	phase      Phase
	phaseSeq   int
	phaseEnds  time.Time
	phaseTimer *time.Timer
	outcome    models.Outcome
}

// NewRoomActor builds an actor for roomID. Call Start to begin processing.
func NewRoomActor(roomID uuid.UUID, store RoomStateStore, gateway PersistenceGateway, cfg Config, logger *logrus.Logger) *RoomActor {
	if cfg.Execution == nil {
		cfg.Execution = StrictMajority
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &RoomActor{
		ID:      roomID,
		cfg:     cfg,
		state:   NewRoomState(store, RoomKey(roomID)),
		gateway: gateway,
		log:     logger.WithField("room_id", roomID),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		inbox:   make(chan envelope),
		done:    make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
		phase:   PhaseWaiting,
	}
}

// Start launches the actor goroutine.
func (a *RoomActor) Start() {
	go a.run()
}

// Stop tears the actor down without deciding the game.
func (a *RoomActor) Stop() {
	a.cancel()
}

// Done is closed when the actor goroutine has exited.
func (a *RoomActor) Done() <-chan struct{} {
	return a.done
}

// Submit queues an action and waits for its result.
// Once the actor has stopped, Submit returns ErrGameNotFound.
func (a *RoomActor) Submit(ctx context.Context, action Action) (any, error) {
	env := envelope{action: action, reply: make(chan actionResult, 1)}
	select {
	case a.inbox <- env:
	case <-a.done:
		return nil, ErrGameNotFound
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case res := <-env.reply:
		return res.value, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (a *RoomActor) run() {
	defer func() {
		a.stopTimer()
		close(a.done)
		if !a.outcome.Undetermined() && a.OnFinish != nil {
			a.OnFinish(a.ID, a.outcome)
		}
	}()

	for {
		select {
		case env := <-a.inbox:
			ctx, cancel := context.WithTimeout(a.ctx, a.cfg.StoreTimeout)
			v, err := env.action.apply(ctx, a)
			cancel()
			if err != nil && !isCallerError(err) {
				a.log.WithError(err).Error("room action failed")
			}
			env.reply <- actionResult{value: v, err: err}
			if a.phase == PhaseFinished {
				a.cancel()
				return
			}
		case <-a.ctx.Done():
			return
		}
	}
}

func isCallerError(err error) bool {
	return errors.Is(err, ErrInvalidActor) || errors.Is(err, ErrInvalidTarget) ||
		errors.Is(err, ErrWrongPhase) || errors.Is(err, ErrDuplicateAction) ||
		errors.Is(err, ErrRoomTooSmall) || errors.Is(err, ErrPlayerCountMismatch) ||
		errors.Is(err, ErrGameNotFound)
}

func (a *RoomActor) broadcast(ev GameEvent) {
	if a.BroadcastFn != nil {
		a.BroadcastFn(ev)
	}
}

func (a *RoomActor) sendTo(userID uuid.UUID, ev GameEvent) {
	if a.BroadcastToPlayerFn != nil {
		a.BroadcastToPlayerFn(userID, ev)
	}
}

func (a *RoomActor) stopTimer() {
	if a.phaseTimer != nil {
		a.phaseTimer.Stop()
		a.phaseTimer = nil
	}
}

// startPhase moves the room into p and arms the phase timer.
func (a *RoomActor) startPhase(ctx context.Context, p Phase) error {
	a.stopTimer()
	a.phase = p
	a.phaseSeq++
	if err := a.state.SetPhase(ctx, p); err != nil {
		return err
	}

	start := time.Now()
	a.phaseEnds = start.Add(a.cfg.PhaseDuration)
	seq := a.phaseSeq
	a.phaseTimer = time.AfterFunc(a.cfg.PhaseDuration, func() {
		a.post(phaseTimeout{seq: seq})
	})

	a.log.WithFields(logrus.Fields{"phase": p, "seq": seq}).Debug("phase started")
	a.broadcast(GameEvent{
		Type: EventPhaseStart,
		Payload: map[string]interface{}{
			"phase": p,
			"start": start.UnixMilli(),
			"end":   a.phaseEnds.UnixMilli(),
		},
	})
	return nil
}

// post delivers an internal action without waiting for its result.
func (a *RoomActor) post(action Action) {
	env := envelope{action: action, reply: make(chan actionResult, 1)}
	select {
	case a.inbox <- env:
	case <-a.done:
	}
}

type phaseTimeout struct{ seq int }

func (t phaseTimeout) apply(ctx context.Context, a *RoomActor) (any, error) {
	if t.seq != a.phaseSeq {
		return nil, nil
	}
	a.log.WithField("phase", a.phase).Debug("phase timer expired")
	switch a.phase {
	case PhaseNight:
		return nil, a.resolveNight(ctx)
	case PhaseAccusation:
		return nil, a.resolveAccusation(ctx)
	case PhasePunishment:
		return nil, a.resolvePunishment(ctx)
	}
	return nil, nil
}

// actorInPlay returns the acting player at seat, who must be alive and present.
func actorInPlay(players []models.PlayerState, seat int) (models.PlayerState, error) {
	i, err := seatIndex(players, seat)
	if err != nil || !players[i].InPlay() {
		return models.PlayerState{}, ErrInvalidActor
	}
	return players[i], nil
}

func (a *RoomActor) requirePhase(p Phase) error {
	if a.phase != p {
		if a.phase == PhaseFinished {
			return ErrGameNotFound
		}
		return ErrWrongPhase
	}
	return nil
}

// checkWin evaluates the board and, when a side has won, finishes the game.
func (a *RoomActor) checkWin(ctx context.Context, players []models.PlayerState) bool {
	outcome := Evaluate(LivingCounts(players))
	if outcome.Undetermined() {
		return false
	}
	a.finish(ctx, players, outcome)
	return true
}

// finish persists the final score, discards the room state and announces the winner.
// Persistence and cleanup failures are logged; the room is torn down regardless.
func (a *RoomActor) finish(ctx context.Context, players []models.PlayerState, outcome models.Outcome) {
	a.stopTimer()
	a.phase = PhaseFinished
	a.outcome = outcome

	if a.gateway != nil {
		if err := a.gateway.SaveFinalScore(ctx, a.ID, players, outcome.Winner); err != nil {
			a.log.WithError(err).Error("failed to save final score")
		}
	}
	if err := a.state.Delete(ctx); err != nil {
		a.log.WithError(err).Error("failed to delete room state")
	}

	a.log.WithField("winner", outcome.Winner).Info("game finished")
	a.broadcast(GameEvent{
		Type: EventGameEnd,
		Payload: map[string]interface{}{
			"winner":  outcome.Winner,
			"players": players,
		},
	})
}

// SeatPlayers writes the room's seated players. Only valid before roles are dealt.
type SeatPlayers struct {
	Players []models.SeatedPlayer
}

func (s SeatPlayers) apply(ctx context.Context, a *RoomActor) (any, error) {
	if err := a.requirePhase(PhaseWaiting); err != nil {
		return nil, err
	}
	return nil, a.state.SetSeatedPlayers(ctx, s.Players)
}

// SeatOf resolves a user to their seat. The value is an int.
type SeatOf struct {
	UserID uuid.UUID
}

func (s SeatOf) apply(ctx context.Context, a *RoomActor) (any, error) {
	seated, err := a.state.SeatedPlayers(ctx)
	if err != nil {
		return nil, err
	}
	for _, sp := range seated {
		if sp.UserID == s.UserID {
			return sp.Seat, nil
		}
	}
	return nil, ErrInvalidActor
}

// AssignRoles deals roles to every seated player and opens the first night.
type AssignRoles struct {
	PlayerCount int
}

func (r AssignRoles) apply(ctx context.Context, a *RoomActor) (any, error) {
	if err := a.requirePhase(PhaseWaiting); err != nil {
		return nil, err
	}
	seated, err := a.state.SeatedPlayers(ctx)
	if err != nil {
		return nil, err
	}
	if len(seated) < a.cfg.MinPlayers {
		return nil, ErrRoomTooSmall
	}
	if r.PlayerCount != len(seated) {
		return nil, ErrPlayerCountMismatch
	}

	quota := ComputeQuota(r.PlayerCount)
	players := BuildPlayers(seated, DealRoles(a.rng, r.PlayerCount, quota))
	roster := MafiaRoster(players)
	if err := a.state.SetPlayers(ctx, players); err != nil {
		return nil, err
	}
	if err := a.state.SetMafiaRoster(ctx, roster); err != nil {
		return nil, err
	}

	if a.gateway != nil {
		if err := a.gateway.RecordRoleAssignment(ctx, a.ID, players); err != nil {
			a.log.WithError(err).Warn("failed to record role assignment")
		}
	}

	a.broadcast(GameEvent{
		Type:    EventRolesAssigned,
		Payload: map[string]interface{}{"quota": quota},
	})
	for _, p := range players {
		a.sendTo(p.UserID, GameEvent{
			Type: EventPrivateRoleAssigned,
			User: &EventUser{ID: p.UserID, Seat: p.Seat},
			Payload: map[string]interface{}{
				"role": p.Role,
				"team": p.Team,
			},
		})
	}
	for _, m := range roster {
		a.sendTo(m.UserID, GameEvent{
			Type:    EventPrivateMafiaRoster,
			Payload: map[string]interface{}{"roster": roster},
		})
	}

	a.log.WithField("players", len(players)).Info("roles assigned")
	return quota, a.startPhase(ctx, PhaseNight)
}
