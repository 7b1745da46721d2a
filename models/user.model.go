package models

import "gorm.io/gorm"

// User model
type User struct {
	gorm.Model
	Name      string `json:"name"`
	Email     string `json:"email" gorm:"uniqueIndex"`
	Mobile    string `json:"mobile"`
	Role      string `json:"role" gorm:"default:'USER'"` // USER, INSTRUCTOR, ADMIN
	IsDeleted bool   `gorm:"default:false"`
}
