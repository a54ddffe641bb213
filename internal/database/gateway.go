// internal/database/gateway.go
package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jason-s-yu/mafia/internal/models"
	"github.com/jason-s-yu/mafia/internal/score"
)

// Gateway writes match results to Postgres. It expects:
//
//	profiles(id bigint primary key, user_id uuid, nickname text, manner int, level int, exp int)
//	game_members(room_id uuid, profile_id bigint, seat int, role text, team text,
//	             left_at timestamptz, won boolean, primary key (room_id, profile_id))
type Gateway struct {
	pool *pgxpool.Pool
}

func NewGateway(pool *pgxpool.Pool) *Gateway {
	return &Gateway{pool: pool}
}

// RecordRoleAssignment inserts one game_members row per player.
func (g *Gateway) RecordRoleAssignment(ctx context.Context, roomID uuid.UUID, players []models.PlayerState) error {
	err := pgx.BeginTxFunc(ctx, g.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `
			INSERT INTO game_members (room_id, profile_id, seat, role, team)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (room_id, profile_id)
			DO UPDATE SET seat=$3, role=$4, team=$5
		`
		for _, p := range players {
			if _, e := tx.Exec(ctx, q, roomID, p.ProfileID, p.Seat, string(p.Role), string(p.Team)); e != nil {
				return e
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tx record role assignment: %w", err)
	}
	return nil
}

// RecordLeave stamps the member's departure and charges the leave manner penalty.
func (g *Gateway) RecordLeave(ctx context.Context, roomID uuid.UUID, player models.PlayerState) error {
	penalty := score.LeavePenalty(player)
	err := pgx.BeginTxFunc(ctx, g.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if _, e := tx.Exec(ctx,
			`UPDATE game_members SET left_at = now() WHERE room_id=$1 AND profile_id=$2`,
			roomID, player.ProfileID); e != nil {
			return e
		}
		return applyResult(ctx, tx, penalty)
	})
	if err != nil {
		return fmt.Errorf("tx record leave: %w", err)
	}
	return nil
}

// SaveFinalScore records who won and applies every player's experience and manner change.
func (g *Gateway) SaveFinalScore(ctx context.Context, roomID uuid.UUID, players []models.PlayerState, winner models.Team) error {
	results := score.Compute(players, winner)
	err := pgx.BeginTxFunc(ctx, g.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, r := range results {
			if _, e := tx.Exec(ctx,
				`UPDATE game_members SET won=$3 WHERE room_id=$1 AND profile_id=$2`,
				roomID, r.ProfileID, r.Won); e != nil {
				return e
			}
			if r.Left {
				continue
			}
			if e := applyResult(ctx, tx, r); e != nil {
				return e
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tx save final score: %w", err)
	}
	return nil
}

// applyResult locks the profile row, applies r and writes it back.
func applyResult(ctx context.Context, tx pgx.Tx, r score.Result) error {
	var p models.Profile
	row := tx.QueryRow(ctx,
		`SELECT id, manner, level, exp FROM profiles WHERE id=$1 FOR UPDATE`, r.ProfileID)
	if err := row.Scan(&p.ID, &p.Manner, &p.Level, &p.Exp); err != nil {
		return fmt.Errorf("load profile %d: %w", r.ProfileID, err)
	}
	p = score.Apply(p, r)
	_, err := tx.Exec(ctx,
		`UPDATE profiles SET manner=$2, level=$3, exp=$4 WHERE id=$1`,
		p.ID, p.Manner, p.Level, p.Exp)
	return err
}
