package models

import (
	"time"

	"rvpark/src/types"
)

type User struct {
	ID            uint       `gorm:"primarykey" json:"id"`
	Name          string     `json:"name,omitempty"`
	Email         string     `gorm:"uniqueIndex" json:"email,omitempty"`
	Role          types.Role `gorm:"default:'guest'" json:"role,omitempty"`
	UID           string     `gorm:"index" json:"uid,omitempty"`
	EmailVerified bool       `json:"email_verified,omitempty"`
	LastActive    *time.Time `json:"last_active,omitempty"`

	Reservations []Reservation `gorm:"foreignKey:guest_id" json:"reservations,omitempty"`

	types.Timestamps
}
