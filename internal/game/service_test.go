package game

import (
	"testing"

	"tictacarena/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tokenA = "token-alice"
	tokenB = "token-bob"
)

func newTestService() *Service {
	return NewService(NewStore())
}

func startedGame(t *testing.T, s *Service) models.Game {
	t.Helper()
	g := s.Invite(tokenA, tokenB)
	g, err := s.Accept(g.ID, tokenB)
	require.NoError(t, err)
	return g
}

func TestInviteCreatesPendingGame(t *testing.T) {
	s := newTestService()
	g := s.Invite(tokenA, tokenB)

	assert.NotEmpty(t, g.ID)
	assert.Equal(t, [2]string{tokenA, tokenB}, g.Players)
	assert.Equal(t, models.StatusPending, g.Status)
	assert.Equal(t, tokenA, g.Turn)
	assert.Equal(t, models.Empty, g.Winner)
	for _, cell := range g.Board {
		assert.Equal(t, models.Empty, cell)
	}
}

func TestAcceptOnlyByInvitee(t *testing.T) {
	s := newTestService()
	g := s.Invite(tokenA, tokenB)

	_, err := s.Accept(g.ID, tokenA)
	assert.ErrorIs(t, err, ErrNotInvitee)
	_, err = s.Accept(g.ID, "token-stranger")
	assert.ErrorIs(t, err, ErrNotInvitee)

	accepted, err := s.Accept(g.ID, tokenB)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOngoing, accepted.Status)

	_, err = s.Accept(g.ID, tokenB)
	assert.ErrorIs(t, err, ErrAlreadyStarted)
}

func TestAcceptUnknownGame(t *testing.T) {
	s := newTestService()
	_, err := s.Accept("no-such-game", tokenB)
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestMoveRejectsBeforeAccept(t *testing.T) {
	s := newTestService()
	g := s.Invite(tokenA, tokenB)

	_, err := s.ApplyMove(g.ID, tokenA, 0, 0)
	assert.ErrorIs(t, err, ErrNotOngoing)
}

func TestMoveValidation(t *testing.T) {
	s := newTestService()
	g := startedGame(t, s)

	_, err := s.ApplyMove("no-such-game", tokenA, 0, 0)
	assert.ErrorIs(t, err, ErrGameNotFound)

	_, err = s.ApplyMove(g.ID, tokenB, 0, 0)
	assert.ErrorIs(t, err, ErrNotYourTurn)

	_, err = s.ApplyMove(g.ID, "token-stranger", 0, 0)
	assert.ErrorIs(t, err, ErrNotYourTurn)

	_, err = s.ApplyMove(g.ID, tokenA, 3, 0)
	assert.ErrorIs(t, err, ErrInvalidPosition)
	_, err = s.ApplyMove(g.ID, tokenA, 0, -1)
	assert.ErrorIs(t, err, ErrInvalidPosition)

	_, err = s.ApplyMove(g.ID, tokenA, 1, 1)
	require.NoError(t, err)
	_, err = s.ApplyMove(g.ID, tokenB, 1, 1)
	assert.ErrorIs(t, err, ErrPositionTaken)

	// a rejected move leaves the board untouched
	snap, ok := s.Get(g.ID)
	require.True(t, ok)
	assert.Equal(t, models.MarkX, snap.Board[4])
	for i, cell := range snap.Board {
		if i != 4 {
			assert.Equal(t, models.Empty, cell)
		}
	}
}

func TestTurnAlternates(t *testing.T) {
	s := newTestService()
	g := startedGame(t, s)

	out, err := s.ApplyMove(g.ID, tokenA, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, tokenB, out.Game.Turn)
	assert.Equal(t, models.MarkX, out.Game.Board[0])

	out, err = s.ApplyMove(g.ID, tokenB, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, tokenA, out.Game.Turn)
	assert.Equal(t, models.MarkO, out.Game.Board[3])
}

func TestWinOnTopRow(t *testing.T) {
	s := newTestService()
	g := startedGame(t, s)

	moves := []struct {
		token    string
		row, col int
	}{
		{tokenA, 0, 0},
		{tokenB, 1, 0},
		{tokenA, 0, 1},
		{tokenB, 1, 1},
		{tokenA, 0, 2},
	}
	var out MoveOutcome
	var err error
	for _, m := range moves {
		out, err = s.ApplyMove(g.ID, m.token, m.row, m.col)
		require.NoError(t, err)
	}

	assert.True(t, out.Over)
	assert.False(t, out.Draw)
	assert.Equal(t, models.MarkX, out.Winner)
	assert.Equal(t, models.StatusFinished, out.Game.Status)
	assert.Equal(t, models.MarkX, out.Game.Winner)
}

func TestWinnerOfAllLines(t *testing.T) {
	lines := [][3]int{
		{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
		{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
		{0, 4, 8}, {2, 4, 6},
	}
	for _, line := range lines {
		var board models.Board
		for _, i := range line {
			board[i] = models.MarkO
		}
		assert.Equal(t, models.MarkO, winnerOf(board), "line %v", line)
	}

	var empty models.Board
	assert.Equal(t, models.Empty, winnerOf(empty))
}

func TestDrawFinishesWithoutWinner(t *testing.T) {
	s := newTestService()
	g := startedGame(t, s)

	// X O X
	// X O O
	// O X X
	moves := []struct {
		token    string
		row, col int
	}{
		{tokenA, 0, 0},
		{tokenB, 0, 1},
		{tokenA, 0, 2},
		{tokenB, 1, 1},
		{tokenA, 1, 0},
		{tokenB, 1, 2},
		{tokenA, 2, 1},
		{tokenB, 2, 0},
		{tokenA, 2, 2},
	}
	var out MoveOutcome
	var err error
	for _, m := range moves {
		out, err = s.ApplyMove(g.ID, m.token, m.row, m.col)
		require.NoError(t, err)
	}

	assert.True(t, out.Over)
	assert.True(t, out.Draw)
	assert.Equal(t, models.Empty, out.Winner)
	assert.Equal(t, models.StatusFinished, out.Game.Status)
	assert.True(t, out.Game.Board.Full())
}

func TestFinishedGameRejectsMoves(t *testing.T) {
	s := newTestService()
	g := startedGame(t, s)

	for _, m := range []struct {
		token    string
		row, col int
	}{
		{tokenA, 0, 0}, {tokenB, 1, 0}, {tokenA, 0, 1}, {tokenB, 1, 1}, {tokenA, 0, 2},
	} {
		_, err := s.ApplyMove(g.ID, m.token, m.row, m.col)
		require.NoError(t, err)
	}

	before, ok := s.Get(g.ID)
	require.True(t, ok)

	_, err := s.ApplyMove(g.ID, tokenA, 2, 2)
	assert.ErrorIs(t, err, ErrNotOngoing)
	_, err = s.ApplyMove(g.ID, tokenB, 2, 2)
	assert.ErrorIs(t, err, ErrNotYourTurn)

	after, ok := s.Get(g.ID)
	require.True(t, ok)
	assert.Equal(t, before.Board, after.Board)
}

func TestPlayersFixedAtCreation(t *testing.T) {
	s := newTestService()
	g := startedGame(t, s)

	_, err := s.ApplyMove(g.ID, tokenA, 1, 1)
	require.NoError(t, err)
	_, err = s.ApplyMove(g.ID, tokenB, 0, 0)
	require.NoError(t, err)

	snap, ok := s.Get(g.ID)
	require.True(t, ok)
	assert.Equal(t, [2]string{tokenA, tokenB}, snap.Players)
	assert.Equal(t, models.MarkX, snap.MarkOf(tokenA))
	assert.Equal(t, models.MarkO, snap.MarkOf(tokenB))
}
