package models

import (
	"time"

	"gorm.io/gorm"
)

// TravelPackage (forfait) is a bundled trip sold as one unit.
type TravelPackage struct {
	gorm.Model

	ID          uint       `gorm:"primaryKey" json:"id"`
	Nom         string     `json:"nom" gorm:"size:255"`
	Destination string     `json:"destination" gorm:"size:255"`
	Prix        float64    `json:"prix"`
	DateDebut   *time.Time `json:"date_debut,omitempty"`
	DateFin     *time.Time `json:"date_fin,omitempty"`
	PlacesMax   int        `json:"places_max,omitempty"`
	Description string     `json:"description,omitempty" gorm:"type:text"`
	Actif       bool       `json:"actif" gorm:"default:true"`
}

func (TravelPackage) TableName() string { return "forfaits" }
