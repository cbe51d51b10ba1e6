package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"rvpark/src/daterange"
	"rvpark/src/models"
	"rvpark/src/models/scopes"
	"rvpark/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("reservation not found")

type InvalidTransitionError struct {
	From types.ReservationStatus
	To   types.ReservationStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}

// StorageError wraps a store-layer failure. Writes are never retried, so a
// StorageError on a write means the caller must resubmit explicitly.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %s", e.Op, e.Err.Error())
}
func (e *StorageError) Unwrap() error { return e.Err }

const readRetryBackoff = 100 * time.Millisecond

// ReservationStore is the single source of truth for reservations.
type ReservationStore struct {
	db *gorm.DB
}

func New(db *gorm.DB) *ReservationStore {
	return &ReservationStore{db: db}
}

func (s *ReservationStore) Insert(ctx context.Context, r *models.Reservation) (uint, error) {
	if r.Code == uuid.Nil {
		r.Code = uuid.New()
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(r).Error
	})
	if err != nil {
		return 0, &StorageError{Op: "insert", Err: err}
	}
	return r.ID, nil
}

func (s *ReservationStore) Get(ctx context.Context, id uint) (*models.Reservation, error) {
	var r models.Reservation
	err := s.retryRead(func() error {
		return s.db.WithContext(ctx).
			Model(&models.Reservation{}).
			Scopes(scopes.WithID(id)).
			First(&r).
			Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, &StorageError{Op: "get", Err: err}
	}
	return &r, nil
}

func (s *ReservationStore) GetByCode(ctx context.Context, code uuid.UUID) (*models.Reservation, error) {
	var r models.Reservation
	err := s.retryRead(func() error {
		return s.db.WithContext(ctx).
			Model(&models.Reservation{}).
			Where("code = ?", code).
			First(&r).
			Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, &StorageError{Op: "get", Err: err}
	}
	return &r, nil
}

// ListByGuest returns a guest's reservations, most recent check-in first.
func (s *ReservationStore) ListByGuest(ctx context.Context, guestID uint) ([]models.Reservation, error) {
	var rs []models.Reservation
	err := s.retryRead(func() error {
		return s.db.WithContext(ctx).
			Model(&models.Reservation{}).
			Scopes(scopes.WithGuest(guestID)).
			Order("check_in DESC").
			Find(&rs).
			Error
	})
	if err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	return rs, nil
}

// ListAll returns every reservation with its owning guest, most recent
// check-in first. Admin listing only.
func (s *ReservationStore) ListAll(ctx context.Context) ([]models.Reservation, error) {
	var rs []models.Reservation
	err := s.retryRead(func() error {
		return s.db.WithContext(ctx).
			Model(&models.Reservation{}).
			Preload("Guest").
			Order("check_in DESC").
			Find(&rs).
			Error
	})
	if err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	return rs, nil
}

// ListActiveInRange returns active reservations of the given site class
// whose stay overlaps rng.
func (s *ReservationStore) ListActiveInRange(ctx context.Context, siteClass types.SiteClass, rng daterange.Range) ([]models.Reservation, error) {
	var rs []models.Reservation
	err := s.retryRead(func() error {
		return ActiveInRange(s.db.WithContext(ctx), siteClass, rng).Find(&rs).Error
	})
	if err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	return rs, nil
}

// ActiveInRange builds the half-open overlap query on tx. The booking
// workflow runs it inside its own serializable transaction, so the
// predicate lives here rather than in two places.
func ActiveInRange(tx *gorm.DB, siteClass types.SiteClass, rng daterange.Range) *gorm.DB {
	return tx.
		Model(&models.Reservation{}).
		Scopes(scopes.ActiveOnly).
		Where("site_class = ?", siteClass).
		Where("check_in < ? AND check_out > ?", rng.End, rng.Start)
}

// UpdateStatus transitions a reservation through the status state machine.
// The row is locked for the duration of the check so concurrent updates
// cannot race past each other.
func (s *ReservationStore) UpdateStatus(ctx context.Context, id uint, next types.ReservationStatus) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var r models.Reservation
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Model(&models.Reservation{}).
			Scopes(scopes.WithID(id)).
			First(&r).
			Error; err != nil {
			return err
		}
		if !r.Status.CanTransition(next) {
			return &InvalidTransitionError{From: r.Status, To: next}
		}
		return tx.
			Model(&models.Reservation{}).
			Scopes(scopes.WithID(id)).
			Update("status", next).
			Error
	})
	if err != nil {
		var transition *InvalidTransitionError
		if errors.As(err, &transition) {
			return transition
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return &StorageError{Op: "update", Err: err}
	}
	return nil
}

// retryRead runs a read once more after a short backoff when it fails with
// something other than a missing row. Writes go through unretried.
func (s *ReservationStore) retryRead(read func() error) error {
	err := read()
	if err == nil || errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	log.Printf("retrying read after error: %s\n", err.Error())
	time.Sleep(readRetryBackoff)
	return read()
}
