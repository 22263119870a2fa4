// Package session owns the bearer credential and the user profile derived
// from it. At most one credential is authoritative at a time, and the
// persisted copy is written before any profile refresh begins.
package session

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/teukusulthan/ninetyn-client/internal/api"
	"github.com/teukusulthan/ninetyn-client/internal/model"
	"github.com/teukusulthan/ninetyn-client/internal/store"
)

// Backend is the slice of the API client the session needs.
type Backend interface {
	Me(ctx context.Context) (*model.UserProfile, error)
}

type Session struct {
	mu      sync.Mutex
	backend Backend
	local   store.Store

	token   string
	user    *model.UserProfile
	loading bool
	// settled is open while a refresh is in flight and closed once it has
	// come to rest, so waiters can block on profile arrival.
	settled chan struct{}
}

// New restores the persisted credential and cached profile. The cached
// profile seeds the in-memory state until the first refresh replaces it; a
// profile without a credential is discarded.
func New(backend Backend, local store.Store) *Session {
	s := &Session{backend: backend, local: local, settled: closedChan()}

	if token, ok, err := local.Get(store.KeyToken); err == nil && ok {
		s.token = token
	}
	if s.token != "" {
		if raw, ok, err := local.Get(store.KeyUser); err == nil && ok {
			var u model.UserProfile
			if json.Unmarshal([]byte(raw), &u) == nil {
				s.user = &u
			}
		}
	}
	return s
}

// Start kicks off the initial profile refresh when a persisted credential
// survived the restart.
func (s *Session) Start() {
	s.mu.Lock()
	has := s.token != ""
	if has {
		s.beginLoadingLocked()
	}
	s.mu.Unlock()

	if has {
		go s.refresh()
	}
}

// SetCredential replaces the active credential. An empty token clears the
// session. The new credential is persisted before the asynchronous profile
// refresh starts.
func (s *Session) SetCredential(token string) error {
	s.mu.Lock()

	if token == "" {
		s.token = ""
		s.user = nil
		s.endLoadingLocked()
		err := s.eraseLocked()
		s.mu.Unlock()
		return err
	}

	s.token = token
	err := s.local.Put(store.KeyToken, token)
	s.beginLoadingLocked()
	s.mu.Unlock()

	go s.refresh()
	return err
}

// Logout clears credential and profile unconditionally, with no backend
// call.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	s.endLoadingLocked()
	if err := s.eraseLocked(); err != nil {
		log.Printf("session: erase persisted state: %v", err)
	}
}

// RefreshProfile revalidates the credential against the backend. An explicit
// 401 is the only outcome that tears the session down; transient failures
// keep credential and profile so a flaky network cannot log the user out.
func (s *Session) RefreshProfile(ctx context.Context) error {
	s.mu.Lock()
	token := s.token
	if token == "" {
		s.user = nil
		s.endLoadingLocked()
		s.mu.Unlock()
		return nil
	}
	s.beginLoadingLocked()
	s.mu.Unlock()

	u, err := s.backend.Me(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.endLoadingLocked()

	if s.token != token {
		// The credential changed while the request was in flight; the
		// response belongs to a session that no longer exists.
		return nil
	}

	if err != nil {
		if api.IsUnauthorized(err) {
			s.token = ""
			s.user = nil
			if eerr := s.eraseLocked(); eerr != nil {
				log.Printf("session: erase persisted state: %v", eerr)
			}
			return err
		}
		log.Printf("session: profile refresh failed (keeping credential): %v", err)
		return err
	}

	s.user = u
	if raw, merr := json.Marshal(u); merr == nil {
		if perr := s.local.Put(store.KeyUser, string(raw)); perr != nil {
			log.Printf("session: persist profile: %v", perr)
		}
	}
	return nil
}

// Token returns the active credential, or "" when logged out.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns a copy of the current profile, nil when none is known.
func (s *Session) User() *model.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneProfile(s.user)
}

// Loading reports whether a profile refresh is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// WaitProfile blocks until the in-flight refresh settles or ctx expires,
// then returns the freshest profile snapshot and the loading flag.
func (s *Session) WaitProfile(ctx context.Context) (*model.UserProfile, bool) {
	s.mu.Lock()
	ch := s.settled
	s.mu.Unlock()

	select {
	case <-ch:
	case <-ctx.Done():
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneProfile(s.user), s.loading
}

func (s *Session) refresh() {
	_ = s.RefreshProfile(context.Background())
}

func (s *Session) beginLoadingLocked() {
	if !s.loading {
		s.loading = true
		s.settled = make(chan struct{})
	}
}

func (s *Session) endLoadingLocked() {
	if s.loading {
		s.loading = false
		close(s.settled)
	}
}

func (s *Session) eraseLocked() error {
	if err := s.local.Delete(store.KeyToken); err != nil {
		return err
	}
	return s.local.Delete(store.KeyUser)
}

func cloneProfile(u *model.UserProfile) *model.UserProfile {
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
