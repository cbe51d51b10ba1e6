package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type SiteClass string

const (
	SITE_STANDARD SiteClass = "standard"
	SITE_LARGE    SiteClass = "large"
	SITE_PREMIUM  SiteClass = "premium"
)

func (s SiteClass) Valid() bool {
	switch s {
	case SITE_STANDARD, SITE_LARGE, SITE_PREMIUM:
		return true
	}
	return false
}

type ReservationStatus string

const (
	RESERVATION_PENDING   ReservationStatus = "pending"
	RESERVATION_CONFIRMED ReservationStatus = "confirmed"
	RESERVATION_CANCELLED ReservationStatus = "cancelled"
)

// CanTransition encodes the reservation state machine: pending may be
// confirmed or cancelled, confirmed may only be cancelled, cancelled is
// terminal.
func (s ReservationStatus) CanTransition(next ReservationStatus) bool {
	switch s {
	case RESERVATION_PENDING:
		return next == RESERVATION_CONFIRMED || next == RESERVATION_CANCELLED
	case RESERVATION_CONFIRMED:
		return next == RESERVATION_CANCELLED
	}
	return false
}

type Role string

const (
	ROLE_GUEST Role = "guest"
	ROLE_ADMIN Role = "admin"
)

// Amenity is the closed set of park amenities rendered on the info pages.
type Amenity string

const (
	AMENITY_FULL_HOOKUPS   Amenity = "full_hookups"
	AMENITY_WIFI           Amenity = "wifi"
	AMENITY_LAUNDRY        Amenity = "laundry"
	AMENITY_SHOWERS        Amenity = "showers"
	AMENITY_DUMP_STATION   Amenity = "dump_station"
	AMENITY_PET_AREA       Amenity = "pet_area"
	AMENITY_PICNIC_SHELTER Amenity = "picnic_shelter"
	AMENITY_RIVER_ACCESS   Amenity = "river_access"
)

func Amenities() []Amenity {
	return []Amenity{
		AMENITY_FULL_HOOKUPS,
		AMENITY_WIFI,
		AMENITY_LAUNDRY,
		AMENITY_SHOWERS,
		AMENITY_DUMP_STATION,
		AMENITY_PET_AREA,
		AMENITY_PICNIC_SHELTER,
		AMENITY_RIVER_ACCESS,
	}
}

// SiteRate is the flat display pricing for one site class. No rate-plan
// math happens anywhere; these are brochure numbers.
type SiteRate struct {
	SiteClass SiteClass `json:"site_class"`
	Daily     float32   `json:"daily"`
	Weekly    float32   `json:"weekly"`
	Monthly   float32   `json:"monthly"`
	Capacity  uint8     `json:"capacity"`
}

func SiteRates() []SiteRate {
	return []SiteRate{
		{SiteClass: SITE_STANDARD, Daily: 45, Weekly: 270, Monthly: 950, Capacity: 6},
		{SiteClass: SITE_LARGE, Daily: 55, Weekly: 330, Monthly: 1150, Capacity: 8},
		{SiteClass: SITE_PREMIUM, Daily: 70, Weekly: 420, Monthly: 1400, Capacity: 10},
	}
}

// CapacityFor returns the maximum party size a site class accommodates.
func CapacityFor(class SiteClass) uint8 {
	for _, r := range SiteRates() {
		if r.SiteClass == class {
			return r.Capacity
		}
	}
	return 0
}

type CreateReservationRequestBody struct {
	GuestName    string `json:"guest_name" binding:"required"`
	ContactEmail string `json:"contact_email" binding:"required,email"`
	CheckIn      string `json:"check_in" binding:"required,staydate"`
	CheckOut     string `json:"check_out" binding:"required,staydate"`
	PartySize    int    `json:"party_size" binding:"required"`
	SiteClass    string `json:"site_class" binding:"required,siteclass"`
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type CodeRequestParams struct {
	Code string `uri:"code" binding:"required,uuid"`
}

type AvailabilityQueryParams struct {
	SiteClass string `form:"site_class" binding:"required,siteclass"`
	From      string `form:"from" binding:"required,staydate"`
	To        string `form:"to" binding:"required,staydate"`
}

type CalendarQueryParams struct {
	SiteClass string `form:"site_class" binding:"required,siteclass"`
	Month     string `form:"month" binding:"required"`
}

type LoginRequestBody struct {
	IDToken string `json:"id_token" binding:"required"`
}

type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required"`
}

// ChatRequestBody carries the widget's append-only message log; the last
// entry is the question being asked.
type ChatRequestBody struct {
	Messages []ChatMessage `json:"messages" binding:"required,min=1,dive"`
}

type CreatePhotoRequestBody struct {
	Title   string `form:"title" binding:"required"`
	Caption string `form:"caption,omitempty"`
}

type Environment string

const (
	Production  Environment = "production"
	Development Environment = "development"
	Local       Environment = "local"
	Test        Environment = "test"
)
