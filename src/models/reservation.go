package models

import (
	"time"

	"rvpark/src/daterange"
	"rvpark/src/types"

	"github.com/google/uuid"
)

type Reservation struct {
	ID           uint                    `gorm:"primarykey" json:"id"`
	Code         uuid.UUID               `gorm:"type:uuid;uniqueIndex" json:"code"`
	GuestID      *uint                   `gorm:"index" json:"guest_id,omitempty"`
	GuestName    string                  `json:"guest_name,omitempty"`
	ContactEmail string                  `json:"contact_email,omitempty"`
	CheckIn      time.Time               `gorm:"type:date;index" json:"check_in"`
	CheckOut     time.Time               `gorm:"type:date" json:"check_out"`
	PartySize    uint8                   `json:"party_size,omitempty"`
	SiteClass    types.SiteClass         `gorm:"index" json:"site_class,omitempty"`
	Status       types.ReservationStatus `gorm:"default:'pending';index" json:"status,omitempty"`

	Guest *User `gorm:"foreignKey:GuestID" json:"guest,omitempty"`

	types.Timestamps
}

// Range returns the reservation's stay as a half-open day interval.
func (r *Reservation) Range() daterange.Range {
	return daterange.Range{Start: daterange.Day(r.CheckIn), End: daterange.Day(r.CheckOut)}
}

// Active reports whether the reservation still occupies its dates.
func (r *Reservation) Active() bool {
	return r.Status == types.RESERVATION_PENDING || r.Status == types.RESERVATION_CONFIRMED
}
