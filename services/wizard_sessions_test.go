package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"agence-backend/models"
)

func TestWizardSessions_StartFresh(t *testing.T) {
	svc := NewWizardSessionService(&fakeBackend{}, time.Hour)

	w, err := svc.Start(context.Background(), nil)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if w.ID == "" {
		t.Fatal("sessions must get an id")
	}
	if d := w.Draft(); d.Type != models.TypeFlightTicket || d.ID != nil {
		t.Fatalf("expected a fresh draft, got %+v", d)
	}

	got, err := svc.Get(w.ID)
	if err != nil || got != w {
		t.Fatalf("lookup must return the same session, got %v / %v", got, err)
	}
}

func TestWizardSessions_StartEditFetchesReservation(t *testing.T) {
	backend := &fakeBackend{
		getReservation: func(id uint) (*models.Reservation, error) {
			if id != 12 {
				t.Fatalf("expected fetch of 12, got %d", id)
			}
			return &models.Reservation{ID: 12, ClientID: 3, Type: models.TypeHotel, NombrePersonnes: 2}, nil
		},
	}
	svc := NewWizardSessionService(backend, time.Hour)

	rid := uint(12)
	w, err := svc.Start(context.Background(), &rid)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if d := w.Draft(); d.ID == nil || *d.ID != 12 || d.Type != models.TypeHotel {
		t.Fatalf("expected a draft hydrated from reservation 12, got %+v", d)
	}
}

func TestWizardSessions_StartEditFetchFailure(t *testing.T) {
	backend := &fakeBackend{
		getReservation: func(uint) (*models.Reservation, error) {
			return nil, errors.New("reservation_not_found")
		},
	}
	svc := NewWizardSessionService(backend, time.Hour)

	rid := uint(999)
	if _, err := svc.Start(context.Background(), &rid); err == nil {
		t.Fatal("a failed fetch must not open a session")
	}
}

func TestWizardSessions_DeleteAndMiss(t *testing.T) {
	svc := NewWizardSessionService(&fakeBackend{}, time.Hour)
	w, _ := svc.Start(context.Background(), nil)

	svc.Delete(w.ID)
	if _, err := svc.Get(w.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected session_not_found, got %v", err)
	}
	if _, err := svc.Get("jamais-vu"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected session_not_found, got %v", err)
	}
}

func TestWizardSessions_Expiry(t *testing.T) {
	svc := NewWizardSessionService(&fakeBackend{}, time.Millisecond)
	w, _ := svc.Start(context.Background(), nil)

	time.Sleep(5 * time.Millisecond)

	if n := svc.PurgeExpired(); n != 1 {
		t.Fatalf("expected 1 purged session, got %d", n)
	}
	if _, err := svc.Get(w.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected session_not_found, got %v", err)
	}
}

func TestWizardSessions_LazyExpiryOnGet(t *testing.T) {
	svc := NewWizardSessionService(&fakeBackend{}, time.Millisecond)
	w, _ := svc.Start(context.Background(), nil)

	time.Sleep(5 * time.Millisecond)

	if _, err := svc.Get(w.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("stale sessions must expire on lookup, got %v", err)
	}
}
