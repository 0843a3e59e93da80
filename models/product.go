package models

import (
	"gorm.io/gorm"
)

// Product (produit) is a sellable catalog entry of a given reservation type
// (hotel, car, event). Flight tickets and forfaits don't link products.
type Product struct {
	gorm.Model

	ID          uint    `gorm:"primaryKey" json:"id"`
	Nom         string  `json:"nom" gorm:"size:255"`
	Type        string  `json:"type" gorm:"size:32;index"`
	Prix        float64 `json:"prix"`
	Fournisseur string  `json:"fournisseur,omitempty" gorm:"size:255"`
	Description string  `json:"description,omitempty" gorm:"type:text"`
	Actif       bool    `json:"actif" gorm:"default:true"`
}
