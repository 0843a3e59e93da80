package services

import (
	"context"
	"time"

	"agence-backend/models"

	"gorm.io/gorm"
)

// GormBackend bundles the persistence services into the single collaborator
// surface the wizard core consumes.
type GormBackend struct {
	Reservations *ReservationService
	Factures     *FactureService
	Paiements    *PaymentService
}

func NewGormBackend(db *gorm.DB) *GormBackend {
	return &GormBackend{
		Reservations: NewReservationService(db),
		Factures:     NewFactureService(db),
		Paiements:    NewPaymentService(db),
	}
}

var _ ReservationBackend = (*GormBackend)(nil)

func (b *GormBackend) CreateReservation(ctx context.Context, payload map[string]any) (*models.Reservation, error) {
	return b.Reservations.CreateReservation(ctx, payload)
}

func (b *GormBackend) UpdateReservation(ctx context.Context, id uint, payload map[string]any) (*models.Reservation, error) {
	return b.Reservations.UpdateReservation(ctx, id, payload)
}

func (b *GormBackend) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	return b.Reservations.GetReservation(ctx, id)
}

func (b *GormBackend) CreateInvoiceForReservation(ctx context.Context, reservationID uint, date time.Time) (*models.Invoice, error) {
	return b.Factures.CreateForReservation(ctx, reservationID, date)
}

func (b *GormBackend) IssueInvoice(ctx context.Context, invoiceID uint) error {
	return b.Factures.Issue(ctx, invoiceID)
}

func (b *GormBackend) RegisterPayment(ctx context.Context, invoiceID uint, req PaymentRequest) (*models.Payment, error) {
	return b.Paiements.Register(ctx, invoiceID, req)
}
