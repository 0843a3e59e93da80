package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agence-backend/config"
	"agence-backend/models"

	"github.com/sirupsen/logrus"
)

// ErrDepositFailed marks a deposit that could not be recorded after the
// reservation itself was saved. Callers must report it distinctly from a
// reservation-save failure: the reservation exists and is never rolled back.
var ErrDepositFailed = errors.New("deposit_failed")

// ApplyDeposit records an acompte against a freshly saved reservation:
//
//  1. create a facture dated today,
//  2. try to issue it; a failure here is swallowed, an un-issued facture is
//     an acceptable intermediate state for a deposit,
//  3. register a received payment for the deposit amount.
//
// The three calls run strictly in sequence. Failures of steps 1 and 3
// propagate wrapped in ErrDepositFailed.
func ApplyDeposit(ctx context.Context, backend ReservationBackend, reservationID uint, dep DepositDraft) (*models.Payment, error) {
	today := time.Now().Truncate(24 * time.Hour)

	invoice, err := backend.CreateInvoiceForReservation(ctx, reservationID, today)
	if err != nil {
		return nil, fmt.Errorf("%w: création de la facture: %v", ErrDepositFailed, err)
	}

	if err := backend.IssueInvoice(ctx, invoice.ID); err != nil {
		// Best-effort by contract. Logged, not surfaced, not retried.
		config.GetLogger().WithFields(logrus.Fields{
			"module":         "deposit",
			"reservation_id": reservationID,
			"facture_id":     invoice.ID,
		}).Warnf("émission de la facture échouée, acompte enregistré sur facture brouillon: %v", err)
	}

	payment, err := backend.RegisterPayment(ctx, invoice.ID, PaymentRequest{
		Amount:    dep.Amount,
		Method:    dep.Method,
		Reference: dep.Reference,
		Status:    models.PaymentStatusReceived,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: enregistrement du paiement: %v", ErrDepositFailed, err)
	}

	return payment, nil
}
