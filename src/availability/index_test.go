package availability

import (
	"context"
	"log"
	"testing"
	"time"

	"rvpark/src/daterange"
	"rvpark/src/models"
	"rvpark/src/store"
	"rvpark/src/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockdb, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: mockdb}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}
	return gormDB, mock
}

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func reservationRows(stays ...[2]string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "check_in", "check_out", "site_class", "status"})
	for i, s := range stays {
		rows.AddRow(uint(i+1), day(s[0]), day(s[1]), "standard", "pending")
	}
	return rows
}

func TestOccupiedDaySet(t *testing.T) {
	window := daterange.Month(2024, time.June)
	reservations := []models.Reservation{
		{CheckIn: day("2024-06-10"), CheckOut: day("2024-06-13")},
		{CheckIn: day("2024-06-12"), CheckOut: day("2024-06-14")},
		{CheckIn: day("2024-05-30"), CheckOut: day("2024-06-02")},
	}
	days := OccupiedDaySet(reservations, window)
	assert.Equal(t, []string{"2024-06-01", "2024-06-10", "2024-06-11", "2024-06-12", "2024-06-13"}, days)
}

func TestOccupiedDaySetEmpty(t *testing.T) {
	window := daterange.Month(2024, time.June)
	assert.Empty(t, OccupiedDaySet(nil, window))
}

func TestIsFreeNoConflicts(t *testing.T) {
	gdb, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT (.+) FROM "reservations"`).WillReturnRows(reservationRows())

	ix := New(store.New(gdb), nil)
	rng, _ := daterange.Normalize("2024-06-01", "2024-06-05")
	free, conflicts, err := ix.IsFree(context.Background(), types.SITE_STANDARD, rng)
	assert.NoError(t, err)
	assert.True(t, free)
	assert.Empty(t, conflicts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsFreeReportsConflicts(t *testing.T) {
	gdb, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT (.+) FROM "reservations"`).
		WillReturnRows(reservationRows([2]string{"2024-06-03", "2024-06-07"}))

	ix := New(store.New(gdb), nil)
	rng, _ := daterange.Normalize("2024-06-01", "2024-06-05")
	free, conflicts, err := ix.IsFree(context.Background(), types.SITE_STANDARD, rng)
	assert.NoError(t, err)
	assert.False(t, free)
	assert.Len(t, conflicts, 1)
	assert.Equal(t, "2024-06-03..2024-06-07", conflicts[0].String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOccupiedDaysCacheHit(t *testing.T) {
	gdb, dbMock := newMockDB(t)
	cache, cacheMock := redismock.NewClientMock()
	cacheMock.ExpectGet("availability:standard:2024-06").SetVal(`["2024-06-02"]`)

	ix := New(store.New(gdb), cache)
	days, err := ix.OccupiedDays(context.Background(), types.SITE_STANDARD, 2024, time.June)
	assert.NoError(t, err)
	assert.Equal(t, []string{"2024-06-02"}, days)
	assert.NoError(t, cacheMock.ExpectationsWereMet())
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestOccupiedDaysCacheMiss(t *testing.T) {
	gdb, dbMock := newMockDB(t)
	dbMock.ExpectQuery(`SELECT (.+) FROM "reservations"`).
		WillReturnRows(reservationRows([2]string{"2024-06-10", "2024-06-12"}))

	cache, cacheMock := redismock.NewClientMock()
	cacheMock.ExpectGet("availability:standard:2024-06").RedisNil()
	cacheMock.ExpectSet("availability:standard:2024-06", `["2024-06-10","2024-06-11"]`, cacheTTL).SetVal("OK")

	ix := New(store.New(gdb), cache)
	days, err := ix.OccupiedDays(context.Background(), types.SITE_STANDARD, 2024, time.June)
	assert.NoError(t, err)
	assert.Equal(t, []string{"2024-06-10", "2024-06-11"}, days)
	assert.NoError(t, cacheMock.ExpectationsWereMet())
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestInvalidateDropsEveryTouchedMonth(t *testing.T) {
	cache, cacheMock := redismock.NewClientMock()
	cacheMock.ExpectDel("availability:standard:2024-06").SetVal(1)
	cacheMock.ExpectDel("availability:standard:2024-07").SetVal(1)

	ix := New(nil, cache)
	rng, _ := daterange.Normalize("2024-06-25", "2024-07-03")
	ix.Invalidate(context.Background(), types.SITE_STANDARD, rng)
	assert.NoError(t, cacheMock.ExpectationsWereMet())
}
