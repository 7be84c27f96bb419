package models

import "encoding/json"

// Mark is the symbol assigned to a player for the lifetime of one game.
type Mark string

const (
	MarkX Mark = "X"
	MarkO Mark = "O"
	Empty Mark = ""
)

// MarshalJSON encodes an empty cell as null, the wire representation
// clients expect for unclaimed board positions.
func (m Mark) MarshalJSON() ([]byte, error) {
	if m == Empty {
		return []byte("null"), nil
	}
	return json.Marshal(string(m))
}

func (m *Mark) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*m = Empty
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*m = Mark(s)
	return nil
}

// Board represents the 3x3 game board, indexed row-major (row*3 + col).
type Board [9]Mark

// Full reports whether no empty cell remains.
func (b Board) Full() bool {
	for _, cell := range b {
		if cell == Empty {
			return false
		}
	}
	return true
}

// Status is the lifecycle phase of a game. Transitions only move
// forward: pending -> ongoing -> finished.
type Status string

const (
	StatusPending  Status = "pending"
	StatusOngoing  Status = "ongoing"
	StatusFinished Status = "finished"
)

// Game is the full state of one two-player match. Players[0] is the
// inviter and always plays X; Players[1] is the invitee and plays O.
// The pair is fixed at creation.
type Game struct {
	ID      string    `json:"id"`
	Players [2]string `json:"players"`
	Board   Board     `json:"board"`
	Turn    string    `json:"turn"`
	Status  Status    `json:"status"`
	Winner  Mark      `json:"winner"`
}

// NewGame creates a pending game between inviter and invitee, with the
// inviter holding the first turn.
func NewGame(id, inviter, invitee string) *Game {
	return &Game{
		ID:      id,
		Players: [2]string{inviter, invitee},
		Board:   Board{},
		Turn:    inviter,
		Status:  StatusPending,
		Winner:  Empty,
	}
}

// MarkOf returns the mark owned by token, or Empty for a non-participant.
func (g *Game) MarkOf(token string) Mark {
	switch token {
	case g.Players[0]:
		return MarkX
	case g.Players[1]:
		return MarkO
	}
	return Empty
}

// Opponent returns the other participant's token.
func (g *Game) Opponent(token string) string {
	if token == g.Players[0] {
		return g.Players[1]
	}
	return g.Players[0]
}
