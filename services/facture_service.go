package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"agence-backend/config"
	"agence-backend/models"
	"agence-backend/utils"

	"gorm.io/gorm"
)

// FactureService handles invoice persistence and the draft -> issued
// transition.
type FactureService struct {
	DB *gorm.DB
}

func NewFactureService(db *gorm.DB) *FactureService {
	return &FactureService{DB: db}
}

// CreateForReservation opens a draft facture for a reservation, amounting to
// the reservation's montant_total at that moment.
func (s *FactureService) CreateForReservation(ctx context.Context, reservationID uint, date time.Time) (*models.Invoice, error) {
	var invoice models.Invoice

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var r models.Reservation
		if err := tx.First(&r, reservationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("reservation_not_found")
			}
			return fmt.Errorf("failed to load reservation: %w", err)
		}

		if date.IsZero() {
			date = time.Now()
		}

		invoice = models.Invoice{
			ReservationID: reservationID,
			Statut:        models.InvoiceStatusDraft,
			DateFacture:   date,
			MontantTotal:  r.MontantTotal,
		}

		// Numero collisions are possible under concurrent creation, retry a
		// few times like any unique-code generator here.
		maxRetries := 5
		var createErr error
		for attempt := 0; attempt < maxRetries; attempt++ {
			var seq int64
			year := date.Year()
			if err := tx.Model(&models.Invoice{}).
				Where("numero LIKE ?", fmt.Sprintf("FAC-%d-%%", year)).
				Count(&seq).Error; err != nil {
				return fmt.Errorf("failed to count factures: %w", err)
			}
			invoice.Numero = utils.FormatInvoiceNumber(year, seq+1+int64(attempt))

			createErr = tx.Create(&invoice).Error
			if createErr == nil {
				return nil
			}
			lc := strings.ToLower(createErr.Error())
			if strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique") {
				config.GetLogger().Warnf("facture numero collision on %s (attempt %d), retrying", invoice.Numero, attempt+1)
				continue
			}
			return fmt.Errorf("failed to create facture: %w", createErr)
		}
		config.LogError(config.GetLogger(), "facture", "CreateForReservation", "numero generation exhausted retries", reservationID, createErr)
		return fmt.Errorf("failed to create facture after retries: %w", createErr)
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// Issue transitions a draft facture to issued. Idempotent on already-issued
// factures; cancelled ones refuse.
func (s *FactureService) Issue(ctx context.Context, invoiceID uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var invoice models.Invoice
		if err := tx.First(&invoice, invoiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("facture_not_found")
			}
			return fmt.Errorf("failed to load facture: %w", err)
		}

		switch invoice.Statut {
		case models.InvoiceStatusIssued:
			return nil
		case models.InvoiceStatusCancelled:
			return errors.New("facture_cancelled")
		}

		now := time.Now()
		return tx.Model(&invoice).Updates(map[string]interface{}{
			"statut":     models.InvoiceStatusIssued,
			"date_emise": now,
		}).Error
	})
}

// Cancel marks a facture cancelled. Received payments keep their history.
func (s *FactureService) Cancel(ctx context.Context, invoiceID uint) error {
	res := s.DB.WithContext(ctx).Model(&models.Invoice{}).
		Where("id = ?", invoiceID).
		Update("statut", models.InvoiceStatusCancelled)
	if res.Error != nil {
		return fmt.Errorf("failed to cancel facture: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.New("facture_not_found")
	}
	return nil
}

func (s *FactureService) Get(ctx context.Context, id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := s.DB.WithContext(ctx).Preload("Paiements").Preload("Reservation").Preload("Reservation.Client").
		First(&invoice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("facture_not_found")
		}
		return nil, fmt.Errorf("failed to retrieve facture: %w", err)
	}
	view := ComputeSettlement(invoice.MontantTotal, invoice.Paiements)
	invoice.Settlement = &view
	return &invoice, nil
}

// FactureFilter narrows List.
type FactureFilter struct {
	ReservationID uint
	Statut        string
	Limit         int
	Offset        int
}

// List returns factures newest first, each carrying its settlement view.
func (s *FactureService) List(ctx context.Context, f FactureFilter) ([]models.Invoice, error) {
	tx := s.DB.WithContext(ctx).Preload("Paiements").Preload("Reservation").Preload("Reservation.Client").
		Order("created_at DESC")

	if f.ReservationID != 0 {
		tx = tx.Where("reservation_id = ?", f.ReservationID)
	}
	if f.Statut != "" {
		tx = tx.Where("statut = ?", f.Statut)
	}
	if f.Limit > 0 {
		tx = tx.Limit(f.Limit)
	}
	if f.Offset > 0 {
		tx = tx.Offset(f.Offset)
	}

	var list []models.Invoice
	if err := tx.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve factures: %w", err)
	}
	for i := range list {
		view := ComputeSettlement(list[i].MontantTotal, list[i].Paiements)
		list[i].Settlement = &view
	}
	return list, nil
}
