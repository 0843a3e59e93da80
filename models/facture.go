package models

import (
	"time"

	"gorm.io/gorm"
)

// Invoice (facture) lifecycle. A facture starts as a draft, is issued
// (emitted) to become payable, and may end up cancelled.
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusIssued    = "issued"
	InvoiceStatusCancelled = "cancelled"
)

type Invoice struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Numero        string      `gorm:"column:numero;size:64;uniqueIndex" json:"numero"`
	ReservationID uint        `gorm:"index;column:reservation_id" json:"reservation_id"`
	Reservation   Reservation `gorm:"foreignKey:ReservationID" json:"reservation,omitempty"`

	Statut      string     `gorm:"column:statut;size:32;default:draft" json:"statut"`
	DateFacture time.Time  `gorm:"column:date_facture" json:"date_facture"`
	DateEmise   *time.Time `gorm:"column:date_emise" json:"date_emise,omitempty"`

	MontantTotal float64 `gorm:"column:montant_total" json:"montant_total"`

	Paiements []Payment `gorm:"foreignKey:FactureID" json:"paiements,omitempty"`

	// Derived, recomputed on read. Never persisted.
	Settlement *SettlementView `gorm:"-" json:"reglement,omitempty"`
}

func (Invoice) TableName() string { return "factures" }

// SettlementView is the derived paid/remaining state of a facture. It is
// recomputed from the payment list on every read and never stored.
type SettlementView struct {
	Total     float64 `json:"total"`
	Paid      float64 `json:"paye"`
	Remaining float64 `json:"restant"`
	Percent   int     `json:"pourcentage"`
	Status    string  `json:"statut"`
}

// Settlement statuses.
const (
	SettlementUnpaid  = "unpaid"
	SettlementPartial = "partial"
	SettlementPaid    = "paid"
)
