package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment statuses. Legacy rows have an empty statut and count as received.
const (
	PaymentStatusReceived  = "received"
	PaymentStatusPending   = "pending"
	PaymentStatusCancelled = "cancelled"
)

type Payment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	FactureID uint    `gorm:"index;column:facture_id" json:"facture_id"`
	Facture   Invoice `gorm:"foreignKey:FactureID" json:"facture,omitempty"`

	Montant      float64    `gorm:"column:montant" json:"montant"`
	Methode      string     `gorm:"column:methode;size:64" json:"methode"`
	Reference    string     `gorm:"column:reference;size:128" json:"reference,omitempty"`
	Statut       string     `gorm:"column:statut;size:32" json:"statut"`
	DatePaiement *time.Time `gorm:"column:date_paiement" json:"date_paiement,omitempty"`
}

func (Payment) TableName() string { return "paiements" }

// Counts reports whether this payment contributes to the paid amount.
func (p Payment) Counts() bool {
	return p.Statut == "" || p.Statut == PaymentStatusReceived
}
