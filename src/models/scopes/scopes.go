package scopes

import "gorm.io/gorm"

func WithID(id uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", id)
	}
}

func WithGuest(guestID uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("guest_id = ?", guestID)
	}
}

// ActiveOnly keeps reservations that still occupy their dates.
func ActiveOnly(db *gorm.DB) *gorm.DB {
	return db.Where("status IN ?", []string{"pending", "confirmed"})
}

func WithPendingStatus(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", "pending")
}
