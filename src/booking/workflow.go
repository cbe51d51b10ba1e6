package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"rvpark/src/availability"
	"rvpark/src/config"
	"rvpark/src/daterange"
	"rvpark/src/lib/mailer"
	"rvpark/src/models"
	"rvpark/src/store"
	"rvpark/src/types"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var ErrForbidden = errors.New("not allowed to modify this reservation")

type PartyTooLargeError struct {
	Size  int
	Limit int
}

func (e *PartyTooLargeError) Error() string {
	return fmt.Sprintf("party size %d is outside the allowed range %d-%d", e.Size, config.MIN_PARTY_SIZE, e.Limit)
}

// DateConflictError reports the stays blocking a requested range so the
// caller can suggest nearby open dates.
type DateConflictError struct {
	Requested daterange.Range
	Conflicts []daterange.Range
}

func (e *DateConflictError) Error() string {
	return fmt.Sprintf("dates %s are no longer available", e.Requested)
}

type RequestInput struct {
	GuestID      *uint
	GuestName    string
	ContactEmail string
	CheckIn      string
	CheckOut     string
	PartySize    int
	SiteClass    types.SiteClass
}

// Workflow owns the booking lifecycle: validate, conflict-check, persist,
// notify. The conflict check and the insert run in one serializable
// transaction against the store, so two concurrent requests for
// overlapping dates can never both commit.
type Workflow struct {
	db       *gorm.DB
	store    *store.ReservationStore
	index    *availability.Index
	notifier mailer.Notifier
	now      func() time.Time
}

func New(db *gorm.DB, s *store.ReservationStore, ix *availability.Index, n mailer.Notifier) *Workflow {
	return &Workflow{db: db, store: s, index: ix, notifier: n, now: time.Now}
}

// NewWithClock is for tests that pin "today".
func NewWithClock(db *gorm.DB, s *store.ReservationStore, ix *availability.Index, n mailer.Notifier, now func() time.Time) *Workflow {
	w := New(db, s, ix, n)
	w.now = now
	return w
}

func (w *Workflow) Request(ctx context.Context, input *RequestInput) (*models.Reservation, error) {
	rng, err := daterange.Normalize(input.CheckIn, input.CheckOut)
	if err != nil {
		return nil, err
	}
	if rng.Start.Before(daterange.Day(w.now())) {
		return nil, &daterange.InvalidRangeError{Reason: "check-in date is in the past"}
	}
	if !input.SiteClass.Valid() {
		return nil, fmt.Errorf("unknown site class %q", input.SiteClass)
	}
	capacity := int(types.CapacityFor(input.SiteClass))
	if input.PartySize < config.MIN_PARTY_SIZE || input.PartySize > capacity {
		return nil, &PartyTooLargeError{Size: input.PartySize, Limit: capacity}
	}

	code := uuid.New()
	var reservation models.Reservation
	insert := func() error {
		return w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var active []models.Reservation
			if err := store.ActiveInRange(tx, input.SiteClass, rng).Find(&active).Error; err != nil {
				return err
			}
			if len(active) > 0 {
				conflicts := make([]daterange.Range, 0, len(active))
				for i := range active {
					conflicts = append(conflicts, active[i].Range())
				}
				return &DateConflictError{Requested: rng, Conflicts: conflicts}
			}
			// Built fresh per attempt: an aborted first run may have
			// populated gorm-managed fields like ID.
			reservation = models.Reservation{
				Code:         code,
				GuestID:      input.GuestID,
				GuestName:    input.GuestName,
				ContactEmail: input.ContactEmail,
				CheckIn:      rng.Start,
				CheckOut:     rng.End,
				PartySize:    uint8(input.PartySize),
				SiteClass:    input.SiteClass,
				Status:       types.RESERVATION_PENDING,
			}
			return tx.Create(&reservation).Error
		}, &sql.TxOptions{Isolation: sql.LevelSerializable})
	}

	err = insert()
	// A serialization abort means a concurrent writer won the range; the
	// insert did not commit, so one re-run is safe and will surface the
	// winner's stay as a conflict.
	if err != nil && isSerializationFailure(err) {
		log.Printf("[booking] serialization conflict on %s, re-checking\n", rng)
		err = insert()
	}
	if err != nil {
		var conflict *DateConflictError
		if errors.As(err, &conflict) {
			return nil, conflict
		}
		return nil, &store.StorageError{Op: "request", Err: err}
	}

	w.index.Invalidate(ctx, reservation.SiteClass, rng)
	go func(r models.Reservation) {
		subject, body := mailer.BookingReceivedBody(&r)
		w.notifier.Fire(&r, subject, body)
	}(reservation)

	return &reservation, nil
}

// Cancel releases a reservation's dates. Only the owning guest or an
// administrator may cancel; anonymous reservations are admin-only.
func (w *Workflow) Cancel(ctx context.Context, id uint, requesterID uint, role types.Role) (*models.Reservation, error) {
	reservation, err := w.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if role != types.ROLE_ADMIN {
		if reservation.GuestID == nil || *reservation.GuestID != requesterID {
			return nil, ErrForbidden
		}
	}
	if err := w.store.UpdateStatus(ctx, id, types.RESERVATION_CANCELLED); err != nil {
		return nil, err
	}
	reservation.Status = types.RESERVATION_CANCELLED

	w.index.Invalidate(ctx, reservation.SiteClass, reservation.Range())
	go func(r models.Reservation) {
		subject, body := mailer.BookingCancelledBody(&r)
		w.notifier.Fire(&r, subject, body)
	}(*reservation)

	return reservation, nil
}

// Confirm moves a pending reservation to confirmed. Admin capability is
// checked by the caller's route guard.
func (w *Workflow) Confirm(ctx context.Context, id uint) (*models.Reservation, error) {
	reservation, err := w.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := w.store.UpdateStatus(ctx, id, types.RESERVATION_CONFIRMED); err != nil {
		return nil, err
	}
	reservation.Status = types.RESERVATION_CONFIRMED

	w.index.Invalidate(ctx, reservation.SiteClass, reservation.Range())
	go func(r models.Reservation) {
		subject, body := mailer.BookingConfirmedBody(&r)
		w.notifier.Fire(&r, subject, body)
	}(*reservation)

	return reservation, nil
}

// ExpireStalePending cancels pending reservations older than the hold
// window so abandoned requests release their dates. Runs from the
// scheduler, not from any request path.
func (w *Workflow) ExpireStalePending(ctx context.Context) (int, error) {
	cutoff := w.now().Add(-config.PENDING_HOLD_HOURS * time.Hour)
	var stale []models.Reservation
	err := w.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("status = ?", types.RESERVATION_PENDING).
		Where("created_at < ?", cutoff).
		Find(&stale).
		Error
	if err != nil {
		return 0, &store.StorageError{Op: "expire", Err: err}
	}
	expired := 0
	for i := range stale {
		if err := w.store.UpdateStatus(ctx, stale[i].ID, types.RESERVATION_CANCELLED); err != nil {
			log.Printf("[booking] could not expire reservation %d: %s\n", stale[i].ID, err.Error())
			continue
		}
		w.index.Invalidate(ctx, stale[i].SiteClass, stale[i].Range())
		expired++
	}
	return expired, nil
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001"
	}
	return strings.Contains(err.Error(), "could not serialize access")
}
