package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"agence-backend/models"
)

// Wizard steps, in order.
type WizardStep int

const (
	StepClientAndType WizardStep = iota
	StepDetails
	StepBeneficiary
	StepAmount
	StepDeposit

	stepCount
)

var stepNames = [...]string{"clientAndType", "details", "beneficiary", "amount", "deposit"}

func (s WizardStep) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return "unknown"
	}
	return stepNames[s]
}

// StepError is a recoverable validation failure tied to one step. It blocks
// forward navigation and submission, nothing else.
type StepError struct {
	Step    WizardStep `json:"step"`
	Message string     `json:"message"`
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %s", e.Step, e.Step, e.Message)
}

var (
	ErrSubmitInFlight = errors.New("submit_in_flight")
	ErrStepOutOfRange = errors.New("step_out_of_range")
)

// SubmitResult reports the outcome of a wizard submit. The reservation is
// never rolled back on deposit failure: DepositError set means "saved, but
// the acompte could not be recorded".
type SubmitResult struct {
	Reservation  *models.Reservation
	Deposit      *models.Payment
	DepositError error
}

// Wizard drives one reservation composition session. It owns its draft
// exclusively for the session's lifetime.
type Wizard struct {
	ID string

	mu         sync.Mutex
	draft      ReservationDraft
	current    WizardStep
	submitting bool
	lastTouch  time.Time

	backend ReservationBackend
}

// NewWizard starts a session. raw is nil for a fresh reservation or the
// fetched one when editing.
func NewWizard(id string, raw *models.Reservation, backend ReservationBackend) *Wizard {
	return &Wizard{
		ID:        id,
		draft:     NormalizeDraft(raw),
		current:   StepClientAndType,
		lastTouch: time.Now(),
		backend:   backend,
	}
}

// Draft returns a copy of the current draft.
func (w *Wizard) Draft() ReservationDraft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

// Current returns the active step.
func (w *Wizard) Current() WizardStep {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// LastTouch is used by the session sweeper.
func (w *Wizard) LastTouch() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastTouch
}

// ApplyDraft replaces the draft with the submitted one, re-running the
// type-switch reset when the type changed and re-enforcing the hard
// invariants either way. The id of an edit session cannot be swapped out.
func (w *Wizard) ApplyDraft(next ReservationDraft) ReservationDraft {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastTouch = time.Now()

	next.ID = w.draft.ID
	// Re-enforcing the type invariants here is what makes a type switch safe:
	// whatever stale cross-type fields the client still carried get cleared.
	next.EnforceTypeInvariants()
	w.draft = next
	return w.draft
}

// GoNext advances one step after validating the current one.
func (w *Wizard) GoNext() *StepError {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastTouch = time.Now()

	if err := validateStep(w.draft, w.current); err != nil {
		return err
	}
	if w.current < stepCount-1 {
		w.current++
	}
	return nil
}

// GoPrev steps back. Never validated: going backward is always allowed.
func (w *Wizard) GoPrev() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastTouch = time.Now()

	if w.current > 0 {
		w.current--
	}
}

// JumpTo moves to any step indicator without validating the ones in between.
// Validation catches up at GoNext and Submit time.
func (w *Wizard) JumpTo(step int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastTouch = time.Now()

	if step < 0 || step >= int(stepCount) {
		return ErrStepOutOfRange
	}
	w.current = WizardStep(step)
	return nil
}

// ValidateStep runs one step's validator without moving.
func (w *Wizard) ValidateStep(step WizardStep) *StepError {
	w.mu.Lock()
	defer w.mu.Unlock()
	return validateStep(w.draft, step)
}

// Submit re-validates every step in order; the first failure parks the wizard
// on that step and aborts before any network call. On success the payload is
// built and persisted, then the optional acompte is orchestrated. Only one
// submit may be in flight per session.
func (w *Wizard) Submit(ctx context.Context) (SubmitResult, error) {
	w.mu.Lock()
	if w.submitting {
		w.mu.Unlock()
		return SubmitResult{}, ErrSubmitInFlight
	}

	for step := StepClientAndType; step < stepCount; step++ {
		if err := validateStep(w.draft, step); err != nil {
			w.current = step
			w.mu.Unlock()
			return SubmitResult{}, err
		}
	}

	w.submitting = true
	draft := w.draft
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.submitting = false
		w.mu.Unlock()
	}()

	isEdit := draft.ID != nil
	payload := BuildPayload(draft, isEdit)

	var (
		saved *models.Reservation
		err   error
	)
	if isEdit {
		saved, err = w.backend.UpdateReservation(ctx, *draft.ID, payload)
	} else {
		saved, err = w.backend.CreateReservation(ctx, payload)
	}
	if err != nil {
		// Draft kept intact so the user can retry without re-entering data.
		return SubmitResult{}, err
	}

	result := SubmitResult{Reservation: saved}
	if draft.Deposit != nil && draft.Deposit.Amount > 0 {
		payment, depErr := ApplyDeposit(ctx, w.backend, saved.ID, *draft.Deposit)
		result.Deposit = payment
		result.DepositError = depErr
	}
	return result, nil
}

//
// ---------------------------------------------------------------------------
// Per-step validators. Messages are what the console displays, tied to the
// step they belong to.
// ---------------------------------------------------------------------------
//

func validateStep(d ReservationDraft, step WizardStep) *StepError {
	switch step {
	case StepClientAndType:
		return validateClientAndType(d)
	case StepDetails:
		return validateDetails(d)
	case StepBeneficiary:
		return validateBeneficiary(d)
	case StepAmount:
		return validateAmount(d)
	case StepDeposit:
		return validateDeposit(d)
	}
	return &StepError{Step: step, Message: "étape inconnue"}
}

func validateClientAndType(d ReservationDraft) *StepError {
	fail := func(msg string) *StepError { return &StepError{Step: StepClientAndType, Message: msg} }

	if !IsKnownType(d.Type) {
		return fail("veuillez choisir un type de réservation")
	}
	switch d.ClientMode {
	case ClientModeExisting:
		if d.ClientID == nil || *d.ClientID == 0 {
			return fail("veuillez sélectionner un client")
		}
	case ClientModeNew:
		if d.ClientInline == nil || strings.TrimSpace(d.ClientInline.Nom) == "" {
			return fail("le nom du nouveau client est requis")
		}
		if strings.TrimSpace(d.ClientInline.Telephone) == "" && strings.TrimSpace(d.ClientInline.Email) == "" {
			return fail("au moins un contact (téléphone ou email) est requis")
		}
	default:
		return fail("mode client invalide")
	}
	return nil
}

func validateDetails(d ReservationDraft) *StepError {
	fail := func(msg string) *StepError { return &StepError{Step: StepDetails, Message: msg} }

	policy := PolicyFor(d.Type)
	switch policy.RequiresLinkedEntity {
	case LinkedProduct:
		if d.LinkedProductID == nil || *d.LinkedProductID == 0 {
			return fail("veuillez sélectionner un produit")
		}
	case LinkedForfait:
		if d.LinkedForfaitID == nil || *d.LinkedForfaitID == 0 {
			return fail("veuillez sélectionner un forfait")
		}
	}

	if d.Type == models.TypeFlightTicket {
		f := d.Flight
		if f == nil || strings.TrimSpace(f.DepartureCity) == "" {
			return fail("la ville de départ est requise")
		}
		if strings.TrimSpace(f.ArrivalCity) == "" {
			return fail("la ville d'arrivée est requise")
		}
		if strings.TrimSpace(f.DepartureDate) == "" {
			return fail("la date de départ est requise")
		}
	}
	return nil
}

func validateBeneficiary(d ReservationDraft) *StepError {
	if d.Type != models.TypeFlightTicket || d.Flight == nil {
		return nil
	}
	if d.Flight.Beneficiary == BeneficiaryOther && strings.TrimSpace(d.Flight.PassengerName) == "" {
		return &StepError{Step: StepBeneficiary, Message: "le nom du passager est requis"}
	}
	return nil
}

func validateAmount(d ReservationDraft) *StepError {
	fail := func(msg string) *StepError { return &StepError{Step: StepAmount, Message: msg} }

	if PolicyFor(d.Type).AmountShape == AmountSubtotalPlusTaxes {
		if d.PurchaseSubtotal <= 0 {
			return fail("le sous-total d'achat doit être supérieur à 0")
		}
		if d.Surcharge < 0 {
			return fail("les taxes ne peuvent pas être négatives")
		}
		return nil
	}
	if d.Total <= 0 {
		return fail("le montant total doit être supérieur à 0")
	}
	return nil
}

func validateDeposit(d ReservationDraft) *StepError {
	if d.Deposit == nil {
		return nil
	}
	if d.Deposit.Amount < 0 {
		return &StepError{Step: StepDeposit, Message: "l'acompte ne peut pas être négatif"}
	}
	if d.Deposit.Amount > 0 && strings.TrimSpace(d.Deposit.Method) == "" {
		return &StepError{Step: StepDeposit, Message: "le mode de paiement de l'acompte est requis"}
	}
	return nil
}
