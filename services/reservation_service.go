package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"agence-backend/models"
	"agence-backend/utils"

	"gorm.io/gorm"
)

// ReservationService wraps *gorm.DB for reservation persistence. It is the
// in-process implementation of the create/update/get side of the backend
// contract the wizard talks to.
type ReservationService struct {
	DB *gorm.DB
}

func NewReservationService(db *gorm.DB) *ReservationService {
	return &ReservationService{DB: db}
}

var reservationPreloads = []string{"Client", "Produit", "Forfait", "Factures", "Factures.Paiements"}

func (s *ReservationService) withPreloads(tx *gorm.DB) *gorm.DB {
	for _, p := range reservationPreloads {
		tx = tx.Preload(p)
	}
	return tx
}

// resolveInlineClient turns a payload "client" block into a persisted client
// and a client_id key. Exactly one of the two ways of naming the client
// survives in the stored row.
func (s *ReservationService) resolveInlineClient(tx *gorm.DB, payload map[string]any) error {
	raw, ok := payload["client"].(map[string]any)
	if !ok {
		return nil
	}
	nom := stringFrom(raw, "nom")
	if nom == "" {
		return errors.New("validation: le nom du client est requis")
	}
	client := models.Client{
		Nom:       nom,
		Telephone: stringFrom(raw, "telephone"),
		Email:     stringFrom(raw, "email"),
	}
	if err := tx.Create(&client).Error; err != nil {
		return fmt.Errorf("failed to create inline client: %w", err)
	}
	delete(payload, "client")
	payload["client_id"] = client.ID
	return nil
}

func (s *ReservationService) validatePayload(payload map[string]any) error {
	t := stringFrom(payload, "type")
	if !IsKnownType(t) {
		return fmt.Errorf("validation: type de réservation inconnu: %q", t)
	}
	return nil
}

// CreateReservation persists a payload as shaped by BuildPayload (or posted
// directly). A blank reference is auto-generated server-side.
func (s *ReservationService) CreateReservation(ctx context.Context, payload map[string]any) (*models.Reservation, error) {
	if err := s.validatePayload(payload); err != nil {
		return nil, err
	}

	var created models.Reservation
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.resolveInlineClient(tx, payload); err != nil {
			return err
		}
		if id, ok := uintFrom(payload, "client_id"); !ok || id == 0 {
			return errors.New("validation: client requis")
		}

		r := models.Reservation{Statut: "confirmee"}
		ApplyPayloadToReservation(&r, payload, false)

		if strings.TrimSpace(r.Reference) == "" {
			ref, err := utils.GenerateReference("RES")
			if err != nil {
				return fmt.Errorf("failed to generate reference: %w", err)
			}
			r.Reference = ref
		}

		if err := tx.Create(&r).Error; err != nil {
			return fmt.Errorf("failed to create reservation: %w", err)
		}
		created = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetReservation(ctx, created.ID)
}

// UpdateReservation applies the update contract: flight fields flat, no
// passenger/beneficiary mutation.
func (s *ReservationService) UpdateReservation(ctx context.Context, id uint, payload map[string]any) (*models.Reservation, error) {
	if err := s.validatePayload(payload); err != nil {
		return nil, err
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.resolveInlineClient(tx, payload); err != nil {
			return err
		}

		var r models.Reservation
		if err := tx.First(&r, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("reservation_not_found")
			}
			return fmt.Errorf("failed to load reservation: %w", err)
		}

		ApplyPayloadToReservation(&r, payload, true)

		if err := tx.Save(&r).Error; err != nil {
			return fmt.Errorf("failed to update reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetReservation(ctx, id)
}

func (s *ReservationService) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	var r models.Reservation
	if err := s.withPreloads(s.DB.WithContext(ctx)).First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("reservation_not_found")
		}
		return nil, fmt.Errorf("failed to retrieve reservation: %w", err)
	}
	SettleReservation(&r)
	return &r, nil
}

// ReservationFilter narrows List.
type ReservationFilter struct {
	Type     string
	ClientID uint
	Query    string
	Limit    int
	Offset   int
}

// List returns reservations newest first, each with the settlement view of
// its latest facture attached.
func (s *ReservationService) List(ctx context.Context, f ReservationFilter) ([]models.Reservation, error) {
	tx := s.withPreloads(s.DB.WithContext(ctx)).Order("created_at DESC")

	if f.Type != "" {
		tx = tx.Where("type = ?", f.Type)
	}
	if f.ClientID != 0 {
		tx = tx.Where("client_id = ?", f.ClientID)
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Joins("LEFT JOIN clients ON clients.id = reservations.client_id").
			Where("LOWER(reservations.reference) LIKE ? OR LOWER(clients.nom) LIKE ?", like, like)
	}
	if f.Limit > 0 {
		tx = tx.Limit(f.Limit)
	}
	if f.Offset > 0 {
		tx = tx.Offset(f.Offset)
	}

	var list []models.Reservation
	if err := tx.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve reservations: %w", err)
	}
	for i := range list {
		SettleReservation(&list[i])
	}
	return list, nil
}

func (s *ReservationService) Delete(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.Reservation{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete reservation: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.New("reservation_not_found")
	}
	return nil
}
