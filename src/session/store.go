package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session binds an opaque client-held identifier to an authenticated user.
type Session struct {
	ID        string
	UserID    int64
	Email     string
	CreatedAt time.Time
	LastSeen  time.Time
}

// Store is the session lifecycle contract. The in-memory implementation
// below is process-lifetime only; a persistent backend can be swapped in
// without touching callers.
type Store interface {
	Create(userID int64, email string) Session
	Resolve(id string) (Session, bool)
	Destroy(id string)
}

// MemoryStore keeps sessions in a process-wide map. A session expires once
// it has seen no activity for the configured TTL; resolving a live session
// refreshes its last-seen time (rolling expiry). Safe for concurrent use.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	done     chan struct{}
	once     sync.Once
}

func NewMemoryStore(ttl, sweepInterval time.Duration) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		done:     make(chan struct{}),
	}
	if sweepInterval > 0 {
		go s.sweep(sweepInterval)
	}
	return s
}

func (s *MemoryStore) Create(userID int64, email string) Session {
	now := time.Now()
	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Email:     email,
		CreatedAt: now,
		LastSeen:  now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return *sess
}

// Resolve returns the session for id, or false if it does not exist or has
// expired. An expired entry is removed on the spot so it can never resolve
// again, even before the sweeper runs.
func (s *MemoryStore) Resolve(id string) (Session, bool) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	if now.Sub(sess.LastSeen) > s.ttl {
		delete(s.sessions, id)
		return Session{}, false
	}
	sess.LastSeen = now
	return *sess, true
}

// Destroy is idempotent: destroying an unknown id is not an error.
func (s *MemoryStore) Destroy(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Close stops the background sweeper.
func (s *MemoryStore) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *MemoryStore) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.purgeExpired(time.Now())
		case <-s.done:
			return
		}
	}
}

func (s *MemoryStore) purgeExpired(now time.Time) {
	s.mu.Lock()
	for id, sess := range s.sessions {
		if now.Sub(sess.LastSeen) > s.ttl {
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()
}
