package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"agence-backend/models"

	"gorm.io/gorm"
)

// PaymentService registers and lists paiements against factures.
type PaymentService struct {
	DB *gorm.DB
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{DB: db}
}

// Register records a payment against a facture. Status defaults to received;
// cancelled factures refuse new payments.
func (s *PaymentService) Register(ctx context.Context, invoiceID uint, req PaymentRequest) (*models.Payment, error) {
	if req.Amount <= 0 {
		return nil, errors.New("validation: le montant du paiement doit être supérieur à 0")
	}
	if strings.TrimSpace(req.Method) == "" {
		return nil, errors.New("validation: le mode de paiement est requis")
	}
	status := req.Status
	switch status {
	case "":
		status = models.PaymentStatusReceived
	case models.PaymentStatusReceived, models.PaymentStatusPending, models.PaymentStatusCancelled:
	default:
		return nil, fmt.Errorf("validation: statut de paiement inconnu: %q", status)
	}

	var payment models.Payment
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var invoice models.Invoice
		if err := tx.First(&invoice, invoiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("facture_not_found")
			}
			return fmt.Errorf("failed to load facture: %w", err)
		}
		if invoice.Statut == models.InvoiceStatusCancelled {
			return errors.New("facture_cancelled")
		}

		now := time.Now()
		payment = models.Payment{
			FactureID:    invoiceID,
			Montant:      req.Amount,
			Methode:      strings.TrimSpace(req.Method),
			Reference:    strings.TrimSpace(req.Reference),
			Statut:       status,
			DatePaiement: &now,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// CancelPayment flips a payment to cancelled so it stops counting toward the
// settlement without losing history.
func (s *PaymentService) CancelPayment(ctx context.Context, paymentID uint) error {
	res := s.DB.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ?", paymentID).
		Update("statut", models.PaymentStatusCancelled)
	if res.Error != nil {
		return fmt.Errorf("failed to cancel payment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.New("payment_not_found")
	}
	return nil
}

// ListByFacture returns a facture's payments oldest first.
func (s *PaymentService) ListByFacture(ctx context.Context, invoiceID uint) ([]models.Payment, error) {
	var list []models.Payment
	if err := s.DB.WithContext(ctx).
		Where("facture_id = ?", invoiceID).
		Order("created_at ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve payments: %w", err)
	}
	return list, nil
}

// List returns payments newest first with their facture attached.
func (s *PaymentService) List(ctx context.Context, limit, offset int) ([]models.Payment, error) {
	tx := s.DB.WithContext(ctx).Preload("Facture").Order("created_at DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if offset > 0 {
		tx = tx.Offset(offset)
	}
	var list []models.Payment
	if err := tx.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve payments: %w", err)
	}
	return list, nil
}
