package ws

import (
	"context"
	"errors"

	"tictacarena/internal/broadcast"
	"tictacarena/internal/game"
	"tictacarena/internal/presence"
	"tictacarena/internal/protocol"

	"github.com/rs/zerolog/log"
)

// Dispatcher decodes inbound frames and routes them to the registry,
// the matchmaking handshake, or the game state machine. Each
// connection's read loop calls Dispatch serially, so presence updates
// issued by one connection are applied in issuance order.
type Dispatcher struct {
	registry *broadcast.Registry
	games    *game.Service
	presence presence.Store
}

// NewDispatcher wires a dispatcher to its collaborators.
func NewDispatcher(registry *broadcast.Registry, games *game.Service, store presence.Store) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		games:    games,
		presence: store,
	}
}

// Dispatch handles one inbound frame from conn. Unknown or malformed
// frames are logged and dropped; the connection stays open.
func (d *Dispatcher) Dispatch(ctx context.Context, conn broadcast.Conn, raw []byte) {
	msg, err := protocol.Decode(raw)
	if err != nil {
		log.Debug().Err(err).Msg("dropping undecodable message")
		return
	}

	switch m := msg.(type) {
	case protocol.Login:
		d.handleLogin(ctx, conn, m.Token)
	case protocol.GetOnlineUsers:
		d.handleGetOnlineUsers(ctx, conn)
	case protocol.Invite:
		d.handleInvite(ctx, conn, m.InviteeToken)
	case protocol.AcceptInvite:
		d.handleAccept(ctx, conn, m.GameID)
	case protocol.MakeMove:
		d.handleMove(ctx, conn, m)
	}
}

func (d *Dispatcher) handleLogin(ctx context.Context, conn broadcast.Conn, token string) {
	rec, err := d.presence.GetByToken(ctx, token)
	if errors.Is(err, presence.ErrNotFound) {
		conn.Send(protocol.NewError("invalid token"))
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("login lookup failed")
		conn.Send(protocol.NewError("store error"))
		return
	}

	d.registry.Register(rec.Token, conn)
	conn.Send(protocol.NewLoginSuccess(rec.Username))
	log.Info().Str("username", rec.Username).Msg("user logged in")
}

func (d *Dispatcher) handleGetOnlineUsers(ctx context.Context, conn broadcast.Conn) {
	users, err := d.onlineUsers(ctx)
	if err != nil {
		log.Error().Err(err).Msg("online users query failed")
		conn.Send(protocol.NewError("store error"))
		return
	}
	conn.Send(protocol.NewOnlineUsers(users))
}

func (d *Dispatcher) handleInvite(ctx context.Context, conn broadcast.Conn, inviteeToken string) {
	inviter, ok := d.registry.Token(conn)
	if !ok {
		conn.Send(protocol.NewError("login required"))
		return
	}
	if inviteeToken == inviter {
		conn.Send(protocol.NewError("cannot invite yourself"))
		return
	}
	inviteeConn, ok := d.registry.Lookup(inviteeToken)
	if !ok {
		conn.Send(protocol.NewError("player is not online"))
		return
	}

	g := d.games.Invite(inviter, inviteeToken)
	inviteeConn.Send(protocol.NewInvitation(g.ID, inviter))
	log.Info().Str("game", g.ID).Msg("invitation sent")
}

func (d *Dispatcher) handleAccept(ctx context.Context, conn broadcast.Conn, gameID string) {
	token, ok := d.registry.Token(conn)
	if !ok {
		conn.Send(protocol.NewError("login required"))
		return
	}

	g, err := d.games.Accept(gameID, token)
	if err != nil {
		conn.Send(protocol.NewError(err.Error()))
		return
	}

	// The ongoing transition stands even if the flag update fails;
	// the divergence heals on the players' next disconnect.
	if err := d.presence.SetPlaying(ctx, g.Players[:], true); err != nil {
		log.Error().Err(err).Str("game", g.ID).Msg("presence update failed on accept")
		conn.Send(protocol.NewError("store error"))
	}

	start := protocol.NewGameStart(g.ID, g.Board, g.Turn)
	for _, p := range g.Players {
		d.registry.SendTo(p, start)
	}
	log.Info().Str("game", g.ID).Msg("game started")
}

func (d *Dispatcher) handleMove(ctx context.Context, conn broadcast.Conn, m protocol.MakeMove) {
	token, ok := d.registry.Token(conn)
	if !ok {
		conn.Send(protocol.NewError("login required"))
		return
	}

	out, err := d.games.ApplyMove(m.GameID, token, m.Position[0], m.Position[1])
	if err != nil {
		conn.Send(protocol.NewError(err.Error()))
		return
	}
	g := out.Game

	if !out.Over {
		result := protocol.NewMoveResult(g.Board, g.Turn)
		for _, p := range g.Players {
			d.registry.SendTo(p, result)
		}
		return
	}

	if err := d.presence.SetPlaying(ctx, g.Players[:], false); err != nil {
		log.Error().Err(err).Str("game", g.ID).Msg("presence update failed on game over")
		conn.Send(protocol.NewError("store error"))
	}

	over := protocol.NewGameOver(out.Winner, g.Board)
	for _, p := range g.Players {
		d.registry.SendTo(p, over)
	}

	// Finished games are never played again; reap them.
	d.games.Store().Delete(g.ID)
	log.Info().Str("game", g.ID).Str("winner", string(out.Winner)).Bool("draw", out.Draw).Msg("game over")
}

// Disconnect handles a transport close: the binding is dropped, the
// identity is flagged as not playing, and every remaining connection
// gets a refreshed online-user view. Games the identity was part of
// stay in the store untouched.
func (d *Dispatcher) Disconnect(ctx context.Context, conn broadcast.Conn) {
	token, ok := d.registry.Unregister(conn)
	if !ok {
		return
	}
	log.Info().Msg("user disconnected")

	if err := d.presence.SetPlaying(ctx, []string{token}, false); err != nil {
		log.Error().Err(err).Msg("presence update failed on disconnect")
	}

	users, err := d.onlineUsers(ctx)
	if err != nil {
		log.Error().Err(err).Msg("online users query failed after disconnect")
		return
	}
	d.registry.Broadcast(protocol.NewOnlineUsers(users))
}

// onlineUsers derives the matchmaking view: identities flagged as not
// playing that also hold a live connection. Both sources are
// consulted; presence in only one excludes the identity.
func (d *Dispatcher) onlineUsers(ctx context.Context) ([]protocol.UserEntry, error) {
	records, err := d.presence.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	active := d.registry.ActiveTokens()

	users := make([]protocol.UserEntry, 0, len(records))
	for _, r := range records {
		if !active[r.Token] {
			continue
		}
		users = append(users, protocol.UserEntry{Username: r.Username, IsPlaying: r.IsPlaying})
	}
	return users, nil
}
