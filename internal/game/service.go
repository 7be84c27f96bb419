package game

import (
	"errors"

	"tictacarena/internal/models"

	"github.com/google/uuid"
)

var (
	ErrGameNotFound    = errors.New("game not found")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrNotOngoing      = errors.New("game is not in progress")
	ErrInvalidPosition = errors.New("position out of range")
	ErrPositionTaken   = errors.New("position already taken")
	ErrNotInvitee      = errors.New("only the invited player may accept")
	ErrAlreadyStarted  = errors.New("game already accepted")
)

// winConditions defines all possible winning lines
var winConditions = [][]int{
	{0, 1, 2}, // top row
	{3, 4, 5}, // middle row
	{6, 7, 8}, // bottom row
	{0, 3, 6}, // left column
	{1, 4, 7}, // middle column
	{2, 5, 8}, // right column
	{0, 4, 8}, // diagonal
	{2, 4, 6}, // anti-diagonal
}

// Service runs the matchmaking handshake and the per-game state
// machine on top of the Store.
type Service struct {
	store *Store
}

// NewService creates a game service backed by store.
func NewService(store *Store) *Service {
	return &Service{store: store}
}

// Store exposes the backing store, used for reaping finished games.
func (s *Service) Store() *Store {
	return s.store
}

// Invite creates a pending game between inviter and invitee. The
// inviter plays X and holds the first turn.
func (s *Service) Invite(inviter, invitee string) models.Game {
	g := models.NewGame(uuid.NewString(), inviter, invitee)
	s.store.Create(g)
	return *g
}

// Accept transitions a pending game to ongoing. Only the invitee may
// accept, and only once.
func (s *Service) Accept(gameID, token string) (models.Game, error) {
	return s.store.Update(gameID, func(g *models.Game) error {
		if token != g.Players[1] {
			return ErrNotInvitee
		}
		if g.Status != models.StatusPending {
			return ErrAlreadyStarted
		}
		g.Status = models.StatusOngoing
		return nil
	})
}

// MoveOutcome is the result of a successfully applied move.
type MoveOutcome struct {
	Game   models.Game
	Over   bool
	Winner models.Mark // Empty on a draw
	Draw   bool
}

// ApplyMove validates and applies a move by token at (row, col). On a
// winning line the game finishes with a winner; on a full board with no
// winner it finishes as a draw; otherwise the turn flips.
func (s *Service) ApplyMove(gameID, token string, row, col int) (MoveOutcome, error) {
	var out MoveOutcome
	g, err := s.store.Update(gameID, func(g *models.Game) error {
		if token != g.Turn {
			return ErrNotYourTurn
		}
		if g.Status != models.StatusOngoing {
			return ErrNotOngoing
		}
		if row < 0 || row > 2 || col < 0 || col > 2 {
			return ErrInvalidPosition
		}
		idx := row*3 + col
		if g.Board[idx] != models.Empty {
			return ErrPositionTaken
		}

		g.Board[idx] = g.MarkOf(token)

		if winner := winnerOf(g.Board); winner != models.Empty {
			g.Status = models.StatusFinished
			g.Winner = winner
			out.Over = true
			out.Winner = winner
		} else if g.Board.Full() {
			g.Status = models.StatusFinished
			out.Over = true
			out.Draw = true
		} else {
			g.Turn = g.Opponent(token)
		}
		return nil
	})
	if err != nil {
		return MoveOutcome{}, err
	}
	out.Game = g
	return out, nil
}

// Get returns a snapshot of a game by id.
func (s *Service) Get(gameID string) (models.Game, bool) {
	return s.store.Get(gameID)
}

// winnerOf checks the eight lines for three equal non-empty marks.
func winnerOf(board models.Board) models.Mark {
	for _, condition := range winConditions {
		a, b, c := condition[0], condition[1], condition[2]
		if board[a] != models.Empty && board[a] == board[b] && board[b] == board[c] {
			return board[a]
		}
	}
	return models.Empty
}
