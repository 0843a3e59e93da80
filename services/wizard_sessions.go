package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session_not_found")

// WizardSessionService is the registry of live wizard sessions. Each session
// owns its draft exclusively; the registry only adds lookup and expiry.
type WizardSessionService struct {
	mu       sync.RWMutex
	sessions map[string]*Wizard
	backend  ReservationBackend
	ttl      time.Duration
}

func NewWizardSessionService(backend ReservationBackend, ttl time.Duration) *WizardSessionService {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &WizardSessionService{
		sessions: make(map[string]*Wizard),
		backend:  backend,
		ttl:      ttl,
	}
}

// Start opens a session: a fresh draft, or one hydrated from an existing
// reservation when reservationID is set (edit mode).
func (s *WizardSessionService) Start(ctx context.Context, reservationID *uint) (*Wizard, error) {
	var w *Wizard
	if reservationID != nil && *reservationID != 0 {
		raw, err := s.backend.GetReservation(ctx, *reservationID)
		if err != nil {
			return nil, err
		}
		w = NewWizard(uuid.NewString(), raw, s.backend)
	} else {
		w = NewWizard(uuid.NewString(), nil, s.backend)
	}

	s.mu.Lock()
	s.sessions[w.ID] = w
	s.mu.Unlock()
	return w, nil
}

// Get returns a live session, expiring it lazily when stale.
func (s *WizardSessionService) Get(id string) (*Wizard, error) {
	s.mu.RLock()
	w, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if time.Since(w.LastTouch()) > s.ttl {
		s.Delete(id)
		return nil, ErrSessionNotFound
	}
	return w, nil
}

// Delete drops a session (submit success or cancel).
func (s *WizardSessionService) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// PurgeExpired removes stale sessions and returns how many were dropped.
func (s *WizardSessionService) PurgeExpired() int {
	cutoff := time.Now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	dropped := 0
	for id, w := range s.sessions {
		if w.LastTouch().Before(cutoff) {
			delete(s.sessions, id)
			dropped++
		}
	}
	return dropped
}

// StartSweeper purges stale sessions on a ticker until ctx is cancelled.
func (s *WizardSessionService) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.PurgeExpired()
			}
		}
	}()
}
