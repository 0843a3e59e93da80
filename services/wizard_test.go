package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"agence-backend/models"
)

// fakeBackend substitutes the gorm services in wizard and deposit tests.
// Unset hooks fail the call, so each test wires exactly what it expects.
type fakeBackend struct {
	createReservation func(payload map[string]any) (*models.Reservation, error)
	updateReservation func(id uint, payload map[string]any) (*models.Reservation, error)
	getReservation    func(id uint) (*models.Reservation, error)
	createInvoice     func(reservationID uint, date time.Time) (*models.Invoice, error)
	issueInvoice      func(invoiceID uint) error
	registerPayment   func(invoiceID uint, req PaymentRequest) (*models.Payment, error)
}

var errNotWired = errors.New("not wired")

func (f *fakeBackend) CreateReservation(ctx context.Context, payload map[string]any) (*models.Reservation, error) {
	if f.createReservation == nil {
		return nil, errNotWired
	}
	return f.createReservation(payload)
}

func (f *fakeBackend) UpdateReservation(ctx context.Context, id uint, payload map[string]any) (*models.Reservation, error) {
	if f.updateReservation == nil {
		return nil, errNotWired
	}
	return f.updateReservation(id, payload)
}

func (f *fakeBackend) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	if f.getReservation == nil {
		return nil, errNotWired
	}
	return f.getReservation(id)
}

func (f *fakeBackend) CreateInvoiceForReservation(ctx context.Context, reservationID uint, date time.Time) (*models.Invoice, error) {
	if f.createInvoice == nil {
		return nil, errNotWired
	}
	return f.createInvoice(reservationID, date)
}

func (f *fakeBackend) IssueInvoice(ctx context.Context, invoiceID uint) error {
	if f.issueInvoice == nil {
		return errNotWired
	}
	return f.issueInvoice(invoiceID)
}

func (f *fakeBackend) RegisterPayment(ctx context.Context, invoiceID uint, req PaymentRequest) (*models.Payment, error) {
	if f.registerPayment == nil {
		return nil, errNotWired
	}
	return f.registerPayment(invoiceID, req)
}

func validHotelDraft() ReservationDraft {
	return ReservationDraft{
		ClientMode:      ClientModeExisting,
		ClientID:        uintPtr(7),
		Type:            models.TypeHotel,
		HeadCount:       1,
		LinkedProductID: uintPtr(3),
		Total:           150000,
	}
}

func TestWizard_GoNextBlockedByValidation(t *testing.T) {
	w := NewWizard("s1", nil, &fakeBackend{})

	// Fresh draft: flight_ticket with no client selected.
	stepErr := w.GoNext()
	if stepErr == nil {
		t.Fatal("expected a validation error on the first step")
	}
	if stepErr.Step != StepClientAndType {
		t.Fatalf("error must reference step 0, got %d", stepErr.Step)
	}
	if w.Current() != StepClientAndType {
		t.Fatalf("a failed advance must not move, got step %d", w.Current())
	}
}

func TestWizard_GoNextInlineClientRules(t *testing.T) {
	w := NewWizard("s1", nil, &fakeBackend{})

	d := w.Draft()
	d.ClientMode = ClientModeNew
	d.ClientInline = &InlineClient{Nom: ""}
	w.ApplyDraft(d)
	if err := w.GoNext(); err == nil || err.Step != StepClientAndType {
		t.Fatalf("blank inline name must fail step 0, got %v", err)
	}

	d.ClientInline = &InlineClient{Nom: "Meziane"}
	w.ApplyDraft(d)
	if err := w.GoNext(); err == nil {
		t.Fatal("inline client without any contact must fail")
	}

	d.ClientInline = &InlineClient{Nom: "Meziane", Telephone: "0550 00 00 00"}
	w.ApplyDraft(d)
	if err := w.GoNext(); err != nil {
		t.Fatalf("name plus phone must pass, got %v", err)
	}
	if w.Current() != StepDetails {
		t.Fatalf("expected step 1, got %d", w.Current())
	}
}

func TestWizard_GoPrevNeverValidates(t *testing.T) {
	w := NewWizard("s1", nil, &fakeBackend{})
	if err := w.JumpTo(int(StepAmount)); err != nil {
		t.Fatalf("jump failed: %v", err)
	}

	// Draft is invalid on several steps, going back must still work.
	w.GoPrev()
	if w.Current() != StepBeneficiary {
		t.Fatalf("expected step 2, got %d", w.Current())
	}

	w.JumpTo(0)
	w.GoPrev()
	if w.Current() != StepClientAndType {
		t.Fatalf("step must floor at 0, got %d", w.Current())
	}
}

func TestWizard_JumpToBounds(t *testing.T) {
	w := NewWizard("s1", nil, &fakeBackend{})
	if err := w.JumpTo(4); err != nil {
		t.Fatalf("step 4 is valid: %v", err)
	}
	if err := w.JumpTo(5); !errors.Is(err, ErrStepOutOfRange) {
		t.Fatalf("expected out-of-range, got %v", err)
	}
	if err := w.JumpTo(-1); !errors.Is(err, ErrStepOutOfRange) {
		t.Fatalf("expected out-of-range, got %v", err)
	}
}

func TestWizard_ApplyDraftPreservesEditID(t *testing.T) {
	raw := &models.Reservation{ID: 12, ClientID: 3, Type: models.TypeHotel, NombrePersonnes: 1}
	w := NewWizard("s1", raw, &fakeBackend{})

	d := w.Draft()
	other := uint(99)
	d.ID = &other
	got := w.ApplyDraft(d)
	if got.ID == nil || *got.ID != 12 {
		t.Fatalf("the session's reservation id must not be swappable, got %v", got.ID)
	}
}

func TestWizard_ApplyDraftReEnforcesInvariants(t *testing.T) {
	w := NewWizard("s1", nil, &fakeBackend{})

	d := validHotelDraft()
	d.Flight = &FlightDraft{DepartureCity: "Alger"} // stale cross-type leftover
	got := w.ApplyDraft(d)
	if got.Flight != nil {
		t.Fatal("hotel drafts must not carry a flight block")
	}
}

func TestWizard_SubmitParksOnFirstFailingStep(t *testing.T) {
	w := NewWizard("s1", nil, &fakeBackend{})

	d := validHotelDraft()
	d.LinkedProductID = nil // step 1 failure
	d.Total = 0             // step 3 failure, must not be the one reported
	w.ApplyDraft(d)
	w.JumpTo(int(StepDeposit))

	_, err := w.Submit(context.Background())
	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("expected a step error, got %v", err)
	}
	if stepErr.Step != StepDetails {
		t.Fatalf("the first failing step wins, expected 1, got %d", stepErr.Step)
	}
	if w.Current() != StepDetails {
		t.Fatalf("the wizard must park on the failing step, got %d", w.Current())
	}
}

func TestWizard_SubmitCreateBuildsPayload(t *testing.T) {
	var seen map[string]any
	backend := &fakeBackend{
		createReservation: func(payload map[string]any) (*models.Reservation, error) {
			seen = payload
			return &models.Reservation{ID: 41, Type: models.TypeHotel}, nil
		},
	}
	w := NewWizard("s1", nil, backend)
	w.ApplyDraft(validHotelDraft())

	res, err := w.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if res.Reservation == nil || res.Reservation.ID != 41 {
		t.Fatalf("expected the saved reservation back, got %+v", res.Reservation)
	}
	if res.Deposit != nil || res.DepositError != nil {
		t.Fatal("no deposit requested, none may be recorded")
	}
	if seen["client_id"] != uint(7) || seen["produit_id"] != uint(3) {
		t.Fatalf("unexpected payload: %v", seen)
	}
}

func TestWizard_SubmitEditUsesUpdate(t *testing.T) {
	var updatedID uint
	backend := &fakeBackend{
		updateReservation: func(id uint, payload map[string]any) (*models.Reservation, error) {
			updatedID = id
			return &models.Reservation{ID: id, Type: models.TypeHotel}, nil
		},
	}
	raw := &models.Reservation{ID: 12, ClientID: 7, Type: models.TypeHotel, ProduitID: uintPtr(3), MontantTotal: 150000, NombrePersonnes: 1}
	w := NewWizard("s1", raw, backend)

	if _, err := w.Submit(context.Background()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if updatedID != 12 {
		t.Fatalf("expected update on id 12, got %d", updatedID)
	}
}

func TestWizard_SubmitFailureKeepsDraft(t *testing.T) {
	backend := &fakeBackend{
		createReservation: func(map[string]any) (*models.Reservation, error) {
			return nil, errors.New("backend down")
		},
	}
	w := NewWizard("s1", nil, backend)
	w.ApplyDraft(validHotelDraft())

	if _, err := w.Submit(context.Background()); err == nil {
		t.Fatal("expected the backend error to surface")
	}
	if d := w.Draft(); d.ClientID == nil || *d.ClientID != 7 || d.Total != 150000 {
		t.Fatalf("a failed submit must keep the draft intact, got %+v", d)
	}

	// And the session must accept a retry.
	backend.createReservation = func(map[string]any) (*models.Reservation, error) {
		return &models.Reservation{ID: 77}, nil
	}
	if _, err := w.Submit(context.Background()); err != nil {
		t.Fatalf("retry must be possible, got %v", err)
	}
}

func TestWizard_SubmitInFlightRejected(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	backend := &fakeBackend{
		createReservation: func(map[string]any) (*models.Reservation, error) {
			close(started)
			<-release
			return &models.Reservation{ID: 5}, nil
		},
	}
	w := NewWizard("s1", nil, backend)
	w.ApplyDraft(validHotelDraft())

	done := make(chan error, 1)
	go func() {
		_, err := w.Submit(context.Background())
		done <- err
	}()

	<-started
	if _, err := w.Submit(context.Background()); !errors.Is(err, ErrSubmitInFlight) {
		t.Fatalf("expected submit_in_flight, got %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
}

func TestWizard_SubmitWithDeposit(t *testing.T) {
	backend := &fakeBackend{
		createReservation: func(map[string]any) (*models.Reservation, error) {
			return &models.Reservation{ID: 41}, nil
		},
		createInvoice: func(reservationID uint, date time.Time) (*models.Invoice, error) {
			return &models.Invoice{ID: 9, ReservationID: reservationID}, nil
		},
		issueInvoice: func(uint) error { return nil },
		registerPayment: func(invoiceID uint, req PaymentRequest) (*models.Payment, error) {
			return &models.Payment{ID: 3, FactureID: invoiceID, Montant: req.Amount, Statut: req.Status}, nil
		},
	}
	w := NewWizard("s1", nil, backend)
	d := validHotelDraft()
	d.Deposit = &DepositDraft{Amount: 50000, Method: "especes"}
	w.ApplyDraft(d)

	res, err := w.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if res.DepositError != nil {
		t.Fatalf("unexpected deposit error: %v", res.DepositError)
	}
	if res.Deposit == nil || res.Deposit.Montant != 50000 {
		t.Fatalf("expected the recorded acompte back, got %+v", res.Deposit)
	}
}

func TestWizard_SubmitDepositFailureDoesNotFailSubmit(t *testing.T) {
	backend := &fakeBackend{
		createReservation: func(map[string]any) (*models.Reservation, error) {
			return &models.Reservation{ID: 41}, nil
		},
		createInvoice: func(uint, time.Time) (*models.Invoice, error) {
			return nil, errors.New("facture service down")
		},
	}
	w := NewWizard("s1", nil, backend)
	d := validHotelDraft()
	d.Deposit = &DepositDraft{Amount: 50000, Method: "especes"}
	w.ApplyDraft(d)

	res, err := w.Submit(context.Background())
	if err != nil {
		t.Fatal("the reservation was saved, submit must not fail")
	}
	if res.Reservation == nil || res.Reservation.ID != 41 {
		t.Fatalf("expected the saved reservation, got %+v", res.Reservation)
	}
	if !errors.Is(res.DepositError, ErrDepositFailed) {
		t.Fatalf("expected deposit_failed, got %v", res.DepositError)
	}
}

func TestWizard_ZeroDepositSkipped(t *testing.T) {
	created := false
	backend := &fakeBackend{
		createReservation: func(map[string]any) (*models.Reservation, error) {
			return &models.Reservation{ID: 41}, nil
		},
		createInvoice: func(uint, time.Time) (*models.Invoice, error) {
			created = true
			return &models.Invoice{ID: 9}, nil
		},
	}
	w := NewWizard("s1", nil, backend)
	d := validHotelDraft()
	d.Deposit = &DepositDraft{Amount: 0}
	w.ApplyDraft(d)

	if _, err := w.Submit(context.Background()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if created {
		t.Fatal("a zero acompte must not create a facture")
	}
}

func TestWizardStep_String(t *testing.T) {
	if StepClientAndType.String() != "clientAndType" || StepDeposit.String() != "deposit" {
		t.Fatal("unexpected step names")
	}
	if WizardStep(9).String() != "unknown" {
		t.Fatal("out-of-range steps must print unknown")
	}
}
