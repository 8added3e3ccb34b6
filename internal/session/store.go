// Package session keeps the authentication state of every browser session.
//
// Each session is either anonymous or authenticated with a bearer token and
// the user it was issued to. Mutations replace the whole value under a lock,
// so a reader never observes a token without its user. The persistence
// repository is written after every mutation but is never the source of
// truth: its failures are logged and ignored.
package session

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"time"

	"go.uber.org/zap"

	"artshare/internal/models"
	"artshare/internal/repository"
)

var (
	ErrNotAuthenticated = errors.New("session is not authenticated")
	ErrSessionChanged   = errors.New("session token changed")
)

// State is a read-only snapshot of one session.
type State struct {
	User  *models.User
	Token string
}

func (s State) IsAuthenticated() bool {
	return s.Token != ""
}

type entry struct {
	user      *models.User
	token     string
	updatedAt time.Time
	loaded    bool
	flashes   []Flash
	inFlight  map[string]struct{}
}

// idle entries carry nothing the repository cannot give back.
func (e *entry) idle() bool {
	return e.token == "" && len(e.flashes) == 0 && len(e.inFlight) == 0
}

// writeStripes orders repository traffic per session id.
const writeStripes = 64

type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	writes  [writeStripes]sync.Mutex

	repo   repository.SessionRepository
	logger *zap.Logger
	ttl    time.Duration
	now    func() time.Time
}

// NewStore builds a store over repo. Sessions older than ttl since their
// last login or elevation expire; a ttl of zero disables that.
func NewStore(repo repository.SessionRepository, ttl time.Duration, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		entries: make(map[string]*entry),
		repo:    repo,
		logger:  logger,
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *Store) stripe(id string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return &s.writes[h.Sum32()%writeStripes]
}

func (s *Store) entryLocked(id string) *entry {
	e, ok := s.entries[id]
	if !ok {
		e = &entry{}
		s.entries[id] = e
	}
	return e
}

// pruneLocked drops the entry of id once it is idle.
func (s *Store) pruneLocked(id string) {
	if e, ok := s.entries[id]; ok && e.idle() {
		delete(s.entries, id)
	}
}

func copyUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}

func (s *Store) snapshotLocked(e *entry) State {
	return State{User: copyUser(e.user), Token: e.token}
}

// load reads the persisted copy of id unless memory already holds it. Only
// an authenticated copy creates an entry, so anonymous visitors leave
// nothing behind.
func (s *Store) load(ctx context.Context, id string) {
	s.mu.Lock()
	e, ok := s.entries[id]
	loaded := ok && e.loaded
	s.mu.Unlock()
	if loaded {
		return
	}

	w := s.stripe(id)
	w.Lock()
	defer w.Unlock()

	persisted, err := s.repo.Get(ctx, id)
	if err != nil && !errors.Is(err, repository.ErrSessionNotFound) {
		s.logger.Warn("failed to read persisted session", zap.Error(err))
	}
	valid := persisted != nil && persisted.Token != "" && persisted.User != nil

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok = s.entries[id]
	switch {
	case ok && e.loaded:
		return
	case !ok && !valid:
		return
	case !ok:
		e = s.entryLocked(id)
	}
	e.loaded = true
	if valid && e.token == "" {
		e.user = copyUser(persisted.User)
		e.token = persisted.Token
		e.updatedAt = persisted.UpdatedAt
	}
	s.pruneLocked(id)
}

func (s *Store) expiredLocked(e *entry) bool {
	if e.token == "" {
		return false
	}
	now := s.now()
	if s.ttl > 0 && !e.updatedAt.IsZero() && now.Sub(e.updatedAt) > s.ttl {
		return true
	}
	return tokenExpired(e.token, now)
}

// Get returns the current state of id, rehydrating it from the repository on
// first access. An expired session is logged out and read as anonymous.
func (s *Store) Get(ctx context.Context, id string) State {
	s.load(ctx, id)

	s.mu.Lock()
	e, ok := s.entries[id]
	if !ok {
		s.mu.Unlock()
		return State{}
	}
	if !s.expiredLocked(e) {
		st := s.snapshotLocked(e)
		s.mu.Unlock()
		return st
	}
	e.user, e.token, e.updatedAt = nil, "", time.Time{}
	e.flashes = append(e.flashes, Flash{Kind: FlashError, Title: "Session expired", Message: "Please log in again."})
	s.mu.Unlock()

	s.logger.Info("session expired")
	s.sync(ctx, id)
	return State{}
}

// Login replaces the session with token and user. An incomplete pair never
// produces a half-authenticated session; it resets the session to anonymous.
func (s *Store) Login(ctx context.Context, id, token string, user *models.User) {
	if token == "" || user == nil {
		s.Logout(ctx, id)
		return
	}

	s.mu.Lock()
	e := s.entryLocked(id)
	e.user, e.token, e.updatedAt, e.loaded = copyUser(user), token, s.now(), true
	s.mu.Unlock()

	s.sync(ctx, id)
}

func (s *Store) Logout(ctx context.Context, id string) {
	s.mu.Lock()
	if e, ok := s.entries[id]; ok {
		e.user, e.token, e.updatedAt, e.loaded = nil, "", time.Time{}, true
		s.pruneLocked(id)
	}
	s.mu.Unlock()

	s.sync(ctx, id)
}

// Elevate swaps the token of an authenticated session for newToken, but only
// while it still carries expectedToken.
func (s *Store) Elevate(ctx context.Context, id, expectedToken, newToken string, user *models.User) error {
	if newToken == "" || user == nil {
		return errors.New("elevation requires a token and a user")
	}

	s.load(ctx, id)

	s.mu.Lock()
	e, ok := s.entries[id]
	switch {
	case !ok || e.token == "":
		s.mu.Unlock()
		return ErrNotAuthenticated
	case e.token != expectedToken:
		s.mu.Unlock()
		return ErrSessionChanged
	}
	e.user, e.token, e.updatedAt = copyUser(user), newToken, s.now()
	s.mu.Unlock()

	s.sync(ctx, id)
	return nil
}

// Begin marks action as running for id. ok is false when the same action is
// still outstanding; otherwise done must be called once it finishes.
func (s *Store) Begin(id, action string) (done func(), ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entryLocked(id)
	if e.inFlight == nil {
		e.inFlight = make(map[string]struct{})
	}
	if _, busy := e.inFlight[action]; busy {
		return func() {}, false
	}
	e.inFlight[action] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(e.inFlight, action)
			s.pruneLocked(id)
			s.mu.Unlock()
		})
	}, true
}

// sync writes the current state of id to the repository. Writes of one id
// are serialized and each one reads the state when it runs, so the last
// write always matches memory.
func (s *Store) sync(ctx context.Context, id string) {
	w := s.stripe(id)
	w.Lock()
	defer w.Unlock()

	s.mu.Lock()
	var persisted *models.Session
	if e, ok := s.entries[id]; ok && e.token != "" {
		persisted = &models.Session{
			ID:        id,
			User:      copyUser(e.user),
			Token:     e.token,
			UpdatedAt: e.updatedAt,
		}
	}
	s.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	if persisted == nil {
		if err := s.repo.Delete(ctx, id); err != nil {
			s.logger.Warn("failed to delete persisted session", zap.String("repo", s.repo.Kind()), zap.Error(err))
		}
		return
	}
	if err := s.repo.Save(ctx, persisted); err != nil {
		s.logger.Warn("failed to persist session", zap.String("repo", s.repo.Kind()), zap.Error(err))
	}
}
