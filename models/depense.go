package models

import (
	"time"

	"gorm.io/gorm"
)

// Expense (depense) is an agency outgoing, optionally tied to a reservation.
type Expense struct {
	gorm.Model

	ID            uint       `gorm:"primaryKey" json:"id"`
	Libelle       string     `json:"libelle" gorm:"size:255"`
	Categorie     string     `json:"categorie,omitempty" gorm:"size:64"`
	Montant       float64    `json:"montant"`
	DateDepense   *time.Time `json:"date_depense,omitempty"`
	ReservationID *uint      `json:"reservation_id,omitempty" gorm:"index"`
	Notes         string     `json:"notes,omitempty" gorm:"type:text"`
}

func (Expense) TableName() string { return "depenses" }
