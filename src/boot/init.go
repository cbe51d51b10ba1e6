package boot

import (
	"context"
	"log"
	"time"

	"rvpark/src/booking"
	"rvpark/src/db"
	"rvpark/src/lib"
	"rvpark/src/models"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Reservation{},
		&models.Photo{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

// InitScheduler starts the background job that releases stale pending
// reservations every hour.
func InitScheduler(workflow *booking.Workflow) {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Fatalf("error initializing scheduler: %s", err.Error())
	}
	_, err = lib.CreateCronJob(func() {
		expired, err := workflow.ExpireStalePending(context.Background())
		if err != nil {
			log.Printf("[boot] expiry job failed: %s\n", err.Error())
			return
		}
		if expired > 0 {
			log.Printf("[boot] released %d stale pending reservations\n", expired)
		}
	}, time.Hour)
	if err != nil {
		log.Fatalf("error scheduling expiry job: %s", err.Error())
	}
	sched.Start()
}
