package gateway

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/quizduel/quizduel/internal/events"
)

// conn is the slice of a client the registry needs: a non-blocking enqueue.
// Send reports false when the client's outbound buffer is full or closed.
type conn interface {
	Send(data []byte) bool
}

// Registry tracks which player owns which live connection and which players
// sit in which session room. It implements events.Sink for the services and
// the matchmaking presence check.
type Registry struct {
	logger *zap.Logger

	mu    sync.RWMutex
	conns map[string]conn
	// rooms maps sessionID -> set of playerIDs
	rooms map[string]map[string]struct{}
	// memberships maps playerID -> set of sessionIDs, for disconnect cleanup
	memberships map[string]map[string]struct{}
}

// NewRegistry creates an empty connection registry
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Registry{
		logger:      logger,
		conns:       make(map[string]conn),
		rooms:       make(map[string]map[string]struct{}),
		memberships: make(map[string]map[string]struct{}),
	}
}

// Bind associates a player with a connection, returning the connection it
// displaced. A player holds at most one live connection; the newest wins.
func (r *Registry) Bind(playerID string, c conn) conn {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous := r.conns[playerID]
	r.conns[playerID] = c
	return previous
}

// Unbind removes a player's binding, but only if it still points at the
// given connection. A newer connection's binding survives the old one's
// teardown.
func (r *Registry) Unbind(playerID string, c conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conns[playerID] != c {
		return
	}
	delete(r.conns, playerID)

	for sessionID := range r.memberships[playerID] {
		delete(r.rooms[sessionID], playerID)
		if len(r.rooms[sessionID]) == 0 {
			delete(r.rooms, sessionID)
		}
	}
	delete(r.memberships, playerID)
}

// Owns reports whether the player's binding still points at the given
// connection. A stale connection must not run disconnect cleanup for a
// player who already reconnected.
func (r *Registry) Owns(playerID string, c conn) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.conns[playerID] == c
}

// Online reports whether the player has an active connection
func (r *Registry) Online(playerID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.conns[playerID]
	return ok
}

// JoinRoom adds a player to a session room
func (r *Registry) JoinRoom(sessionID, playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rooms[sessionID] == nil {
		r.rooms[sessionID] = make(map[string]struct{})
	}
	r.rooms[sessionID][playerID] = struct{}{}

	if r.memberships[playerID] == nil {
		r.memberships[playerID] = make(map[string]struct{})
	}
	r.memberships[playerID][sessionID] = struct{}{}
}

// LeaveRoom removes a player from a session room
func (r *Registry) LeaveRoom(sessionID, playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.rooms[sessionID], playerID)
	if len(r.rooms[sessionID]) == 0 {
		delete(r.rooms, sessionID)
	}
	delete(r.memberships[playerID], sessionID)
}

// Publish delivers an event to a single player's connection.
// Returns events.ErrPlayerOffline when the player is not reachable.
func (r *Registry) Publish(_ context.Context, playerID string, event events.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	r.mu.RLock()
	c, ok := r.conns[playerID]
	r.mu.RUnlock()

	if !ok || !c.Send(data) {
		return events.ErrPlayerOffline
	}
	return nil
}

// Broadcast delivers an event to every member of a session room, best effort
func (r *Registry) Broadcast(_ context.Context, sessionID string, event events.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		r.logger.Error("failed to marshal broadcast event",
			zap.String("session_id", sessionID),
			zap.String("type", string(event.Type)),
			zap.Error(err))
		return
	}

	r.mu.RLock()
	targets := make([]conn, 0, len(r.rooms[sessionID]))
	missed := 0
	for playerID := range r.rooms[sessionID] {
		if c, ok := r.conns[playerID]; ok {
			targets = append(targets, c)
		} else {
			missed++
		}
	}
	r.mu.RUnlock()

	for _, c := range targets {
		c.Send(data)
	}

	if missed > 0 {
		r.logger.Debug("broadcast skipped offline room members",
			zap.String("session_id", sessionID),
			zap.Int("missed", missed))
	}
}
