package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkJSONRoundTrip(t *testing.T) {
	board := Board{MarkX, MarkO}
	buf, err := json.Marshal(board)
	require.NoError(t, err)
	assert.JSONEq(t, `["X","O",null,null,null,null,null,null,null]`, string(buf))

	var decoded Board
	require.NoError(t, json.Unmarshal(buf, &decoded))
	assert.Equal(t, board, decoded)
}

func TestBoardFull(t *testing.T) {
	var board Board
	assert.False(t, board.Full())

	for i := range board {
		board[i] = MarkX
	}
	assert.True(t, board.Full())

	board[4] = Empty
	assert.False(t, board.Full())
}

func TestNewGame(t *testing.T) {
	g := NewGame("g1", "tok-a", "tok-b")
	assert.Equal(t, StatusPending, g.Status)
	assert.Equal(t, "tok-a", g.Turn)
	assert.Equal(t, Empty, g.Winner)

	assert.Equal(t, MarkX, g.MarkOf("tok-a"))
	assert.Equal(t, MarkO, g.MarkOf("tok-b"))
	assert.Equal(t, Empty, g.MarkOf("tok-c"))

	assert.Equal(t, "tok-b", g.Opponent("tok-a"))
	assert.Equal(t, "tok-a", g.Opponent("tok-b"))
}
