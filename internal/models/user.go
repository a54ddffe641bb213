package models

import "github.com/google/uuid"

// Profile is the game-facing part of a user account, updated once per finished match.
type Profile struct {
	ID       int64     `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	Nickname string    `json:"nickname"`

	Manner int `json:"manner"`
	Level  int `json:"level"`
	Exp    int `json:"exp"`
}
