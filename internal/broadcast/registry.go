// Package broadcast tracks which identity is reachable over which live
// connection and pushes outbound messages to them.
package broadcast

import "sync"

// Conn is the outbound side of one live client connection. Send
// reports whether the message was accepted; implementations must
// deliver accepted messages in the order they were accepted.
type Conn interface {
	Send(v any) bool
}

// Registry is the bidirectional token <-> connection index; the single
// source of truth for who is reachable right now. Each token maps to
// at most one connection. A later login for the same token supersedes
// the earlier binding; the earlier handle is orphaned, not closed.
type Registry struct {
	mu      sync.RWMutex
	byToken map[string]Conn
	byConn  map[Conn]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byToken: make(map[string]Conn),
		byConn:  make(map[Conn]string),
	}
}

// Register binds token to conn, replacing any prior binding for either
// side. Always succeeds.
func (r *Registry) Register(token string, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.byToken[token]; ok {
		delete(r.byConn, prev)
	}
	if prevToken, ok := r.byConn[conn]; ok {
		delete(r.byToken, prevToken)
	}
	r.byToken[token] = conn
	r.byConn[conn] = token
}

// Lookup returns the live connection for token, if any.
func (r *Registry) Lookup(token string) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.byToken[token]
	return conn, ok
}

// Token identifies the actor behind a connection.
func (r *Registry) Token(conn Conn) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	token, ok := r.byConn[conn]
	return token, ok
}

// Unregister removes the binding for conn and returns the token it
// held. No-op for connections that never logged in or were superseded.
func (r *Registry) Unregister(conn Conn) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	token, ok := r.byConn[conn]
	if !ok {
		return "", false
	}
	delete(r.byConn, conn)
	delete(r.byToken, token)
	return token, true
}

// ActiveTokens returns every token currently bound to a live connection.
func (r *Registry) ActiveTokens() map[string]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	active := make(map[string]bool, len(r.byToken))
	for token := range r.byToken {
		active[token] = true
	}
	return active
}

// SendTo pushes a message to the connection bound to token, if any.
func (r *Registry) SendTo(token string, v any) bool {
	conn, ok := r.Lookup(token)
	if !ok {
		return false
	}
	return conn.Send(v)
}

// Broadcast pushes a message to every registered connection.
func (r *Registry) Broadcast(v any) {
	r.mu.RLock()
	conns := make([]Conn, 0, len(r.byConn))
	for conn := range r.byConn {
		conns = append(conns, conn)
	}
	r.mu.RUnlock()

	for _, conn := range conns {
		conn.Send(v)
	}
}
