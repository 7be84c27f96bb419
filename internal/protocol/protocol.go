// Package protocol defines the websocket wire messages. Inbound
// payloads are decoded once at the boundary into a closed set of typed
// commands; anything else is a protocol error.
package protocol

import (
	"encoding/json"
	"fmt"

	"tictacarena/internal/models"
)

// Inbound is the closed set of client commands.
type Inbound interface {
	isInbound()
}

// Login binds an issued token to the sending connection.
type Login struct {
	Token string `json:"token"`
}

// GetOnlineUsers asks for the identities available for matchmaking.
type GetOnlineUsers struct{}

// Invite asks to start a game against another online identity.
type Invite struct {
	InviteeToken string `json:"inviteeToken"`
}

// AcceptInvite accepts a previously received invitation.
type AcceptInvite struct {
	GameID string `json:"gameId"`
}

// MakeMove places the sender's mark at position [row, col].
type MakeMove struct {
	GameID   string `json:"gameId"`
	Position [2]int `json:"position"`
}

func (Login) isInbound()          {}
func (GetOnlineUsers) isInbound() {}
func (Invite) isInbound()         {}
func (AcceptInvite) isInbound()   {}
func (MakeMove) isInbound()       {}

type envelope struct {
	Type string `json:"type"`
}

// Decode parses a raw client frame into its typed command.
func Decode(raw []byte) (Inbound, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("malformed message: %w", err)
	}

	var (
		msg Inbound
		err error
	)
	switch env.Type {
	case "login":
		var m Login
		err = json.Unmarshal(raw, &m)
		msg = m
	case "getOnlineUsers":
		msg = GetOnlineUsers{}
	case "invite":
		var m Invite
		err = json.Unmarshal(raw, &m)
		msg = m
	case "acceptInvite":
		var m AcceptInvite
		err = json.Unmarshal(raw, &m)
		msg = m
	case "makeMove":
		var m MakeMove
		err = json.Unmarshal(raw, &m)
		msg = m
	default:
		return nil, fmt.Errorf("unknown message type %q", env.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("malformed %s message: %w", env.Type, err)
	}
	return msg, nil
}

// UserEntry is one row of the online-users view.
type UserEntry struct {
	Username  string `json:"username"`
	IsPlaying bool   `json:"isPlaying"`
}

// Outbound message shapes. Each carries its own type discriminator so
// a struct can be handed straight to the connection writer.

type LoginSuccess struct {
	Type     string `json:"type"`
	Username string `json:"username"`
}

type OnlineUsers struct {
	Type  string      `json:"type"`
	Users []UserEntry `json:"users"`
}

type Invitation struct {
	Type    string `json:"type"`
	GameID  string `json:"gameId"`
	Inviter string `json:"inviter"`
}

type GameStart struct {
	Type   string       `json:"type"`
	GameID string       `json:"gameId"`
	Board  models.Board `json:"board"`
	Turn   string       `json:"turn"`
}

type MoveResult struct {
	Type  string       `json:"type"`
	Board models.Board `json:"board"`
	Turn  string       `json:"turn"`
}

type GameOver struct {
	Type   string       `json:"type"`
	Winner models.Mark  `json:"winner"`
	Board  models.Board `json:"board"`
}

type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewLoginSuccess(username string) LoginSuccess {
	return LoginSuccess{Type: "loginSuccess", Username: username}
}

func NewOnlineUsers(users []UserEntry) OnlineUsers {
	if users == nil {
		users = []UserEntry{}
	}
	return OnlineUsers{Type: "onlineUsers", Users: users}
}

func NewInvitation(gameID, inviter string) Invitation {
	return Invitation{Type: "invitation", GameID: gameID, Inviter: inviter}
}

func NewGameStart(gameID string, board models.Board, turn string) GameStart {
	return GameStart{Type: "gameStart", GameID: gameID, Board: board, Turn: turn}
}

func NewMoveResult(board models.Board, turn string) MoveResult {
	return MoveResult{Type: "moveResult", Board: board, Turn: turn}
}

func NewGameOver(winner models.Mark, board models.Board) GameOver {
	return GameOver{Type: "gameOver", Winner: winner, Board: board}
}

func NewError(message string) Error {
	return Error{Type: "error", Message: message}
}
