package models

import (
	"gorm.io/gorm"
)

type Client struct {
	gorm.Model

	ID        uint   `gorm:"primaryKey" json:"id"`
	Nom       string `json:"nom" gorm:"size:255;index"`
	Telephone string `json:"telephone" gorm:"size:64"`
	Email     string `json:"email" gorm:"size:255"`
	Adresse   string `json:"adresse" gorm:"type:text"`
	Notes     string `json:"notes,omitempty" gorm:"type:text"`
}

// ClientBasic is the trimmed shape used by selector endpoints.
type ClientBasic struct {
	ID        uint   `json:"id"`
	Nom       string `json:"nom"`
	Telephone string `json:"telephone"`
	Email     string `json:"email"`
}
