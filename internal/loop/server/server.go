package server

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/skyshooter/internal/loop/config"
)

// Registry is the interface clients use to talk to the session registry.
// Decouples the Client from the concrete Server so tests can run a client
// against a fake.
type Registry interface {
	Register(username string) *Session
	Unregister(id int)
	ReportScore(id int, score int)
	Stats() *Stats
}

// Server tracks connected sessions and the shared leaderboard. Each session
// runs its own game; the server only sees what sessions report.
type Server struct {
	mu       sync.RWMutex
	sessions map[int]*Session
	nextID   int
	best     map[int]TopScoreEntry // Best score per session ID while it is on the board
	stats    atomic.Pointer[Stats]
	logger   *log.Logger
}

// Compile-time check that Server implements Registry.
var _ Registry = (*Server)(nil)

// Session represents one connected player.
type Session struct {
	ID       int
	Username string
	EventsCh chan SessionEvent // Events sent to the session (shutdown)
}

// SessionEvent represents an event sent from the server to a session.
type SessionEvent struct {
	Type SessionEventType
}

// SessionEventType identifies the type of session event.
type SessionEventType int

const (
	EventServerShutdown SessionEventType = iota
)

// NewServer creates an empty registry.
func NewServer(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		sessions: make(map[int]*Session),
		nextID:   1,
		best:     make(map[int]TopScoreEntry),
		logger:   logger,
	}
	s.stats.Store(&Stats{})
	return s
}

// Register adds a session with the given username and returns it.
func (s *Server) Register(username string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := &Session{
		ID:       s.nextID,
		Username: username,
		EventsCh: make(chan SessionEvent, 16),
	}
	s.nextID++
	s.sessions[session.ID] = session
	s.publishLocked()

	s.logger.Info("session registered", "id", session.ID, "user", username, "players", len(s.sessions))
	return session
}

// Unregister removes a session and closes its event channel. Unknown IDs are ignored.
func (s *Server) Unregister(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return
	}
	close(session.EventsCh)
	delete(s.sessions, id)
	s.publishLocked()

	s.logger.Info("session closed", "id", id, "players", len(s.sessions))
}

// ReportScore records a finished game. Only a session's best score is kept.
func (s *Server) ReportScore(id int, score int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return
	}
	if prev, ok := s.best[id]; ok && prev.Score >= score {
		return
	}
	s.best[id] = TopScoreEntry{Username: session.Username, Score: score, sessionID: id}
	s.publishLocked()
}

// Stats returns the latest registry snapshot. Safe for concurrent use.
func (s *Server) Stats() *Stats {
	return s.stats.Load()
}

// Players returns the number of connected sessions.
func (s *Server) Players() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Shutdown notifies every session that the server is going away and waits
// for them to disconnect, up to timeout.
func (s *Server) Shutdown(timeout time.Duration) {
	s.mu.RLock()
	for _, session := range s.sessions {
		select {
		case session.EventsCh <- SessionEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		if s.Players() == 0 {
			return
		}
		select {
		case <-deadline:
			s.logger.Warn("shutdown timed out", "remaining", s.Players())
			return
		case <-ticker.C:
		}
	}
}

// publishLocked stores a fresh Stats snapshot. Must be called with the lock held.
func (s *Server) publishLocked() {
	entries := make([]TopScoreEntry, 0, len(s.best))
	for _, e := range s.best {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].sessionID < entries[j].sessionID
	})
	if len(entries) > config.TopScoresCount {
		// Scores below the board can never climb back onto it
		for _, e := range entries[config.TopScoresCount:] {
			delete(s.best, e.sessionID)
		}
		entries = entries[:config.TopScoresCount]
	}

	s.stats.Store(&Stats{
		Players:   len(s.sessions),
		TopScores: entries,
	})
}
