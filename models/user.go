package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model

	ID       uint   `gorm:"primaryKey" json:"id"`
	FullName string `json:"fullName"`
	Username string `json:"username" gorm:"size:255;uniqueIndex"`
	Password string `json:"-"`
	Role     string `json:"role" gorm:"size:64;default:agent"`
}
