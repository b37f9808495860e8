package session

import (
	"context"
	"sync"
	"time"

	"github.com/pocketprof/profreplay/internal/core"
	"github.com/pocketprof/profreplay/pkg/log"
)

const (
	DefaultMaxIdle       = 24 * time.Hour
	DefaultSweepInterval = time.Hour
)

// Config controls eviction and lets tests inject a clock.
type Config struct {
	MaxIdle       time.Duration
	SweepInterval time.Duration
	Now           func() time.Time
}

// Store is the process-wide session registry. Records are replaced whole under
// the lock, never mutated field by field, so concurrent readers and the sweep
// can interleave arbitrarily without observing a partial write.
//
// There is no capacity bound: the periodic sweep is the only garbage
// collection, so memory grows with the number of sessions created per idle
// window.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]core.Session

	maxIdle       time.Duration
	sweepInterval time.Duration
	now           func() time.Time
}

func NewStore(cfg Config) *Store {
	if cfg.MaxIdle <= 0 {
		cfg.MaxIdle = DefaultMaxIdle
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultSweepInterval
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Store{
		sessions:      make(map[string]core.Session),
		maxIdle:       cfg.MaxIdle,
		sweepInterval: cfg.SweepInterval,
		now:           cfg.Now,
	}
}

// Create registers a session under s.ID, overwriting any previous record with
// the same id.
func (s *Store) Create(ctx context.Context, sess core.Session) {
	now := s.now()
	sess.CreatedAt = now
	sess.LastAccessedAt = now

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	log.FromCtx(ctx).Info().Str("session", sess.ID).Int("slides", sess.SlideCount()).Msg("session created")
}

// Get returns a copy of the session and refreshes its last-access time.
func (s *Store) Get(id string) (core.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return core.Session{}, false
	}
	sess.LastAccessedAt = s.now()
	s.sessions[id] = sess
	return sess, true
}

// Update is a field-by-field merge written back as a whole record. Updating a
// missing id is a silent no-op.
type Update struct {
	Transcript *string
	Knowledge  *core.Knowledge
	Slides     [][]byte
}

func (s *Store) Update(ctx context.Context, id string, u Update) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		log.FromCtx(ctx).Debug().Str("session", id).Msg("update of unknown session ignored")
		return
	}
	if u.Transcript != nil {
		sess.Transcript = *u.Transcript
	}
	if u.Knowledge != nil {
		sess.Knowledge = *u.Knowledge
	}
	if u.Slides != nil {
		sess.Slides = u.Slides
	}
	sess.LastAccessedAt = s.now()
	s.sessions[id] = sess
}

func (s *Store) Delete(ctx context.Context, id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	log.FromCtx(ctx).Info().Str("session", id).Msg("session deleted")
}

func (s *Store) ListIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Sweep deletes every session idle longer than MaxIdle and returns how many
// were evicted.
func (s *Store) Sweep(ctx context.Context) int {
	now := s.now()

	s.mu.Lock()
	var evicted []string
	for id, sess := range s.sessions {
		if now.Sub(sess.LastAccessedAt) > s.maxIdle {
			delete(s.sessions, id)
			evicted = append(evicted, id)
		}
	}
	s.mu.Unlock()

	if len(evicted) > 0 {
		log.FromCtx(ctx).Info().Strs("sessions", evicted).Msg("evicted idle sessions")
	}
	return len(evicted)
}

// Start runs the periodic sweep until ctx is canceled. Implements srv.Service.
func (s *Store) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

func (s *Store) Shutdown(ctx context.Context) error {
	return nil
}
