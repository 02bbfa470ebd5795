package attendance

import (
	"errors"
	"strconv"
	"time"
)

var (
	ErrNoRecordToday     = errors.New("no attendance record for today")
	ErrNotCheckedIn      = errors.New("not checked in yet")
	ErrAlreadyCheckedOut = errors.New("already checked out")
)

// TodayRecord picks the record whose date falls on the same calendar day as
// now, in now's location. At most one such record is expected per employee.
func TodayRecord(records []Record, now time.Time) (Record, bool) {
	y, m, d := now.Date()
	for _, rec := range records {
		ry, rm, rd := rec.Date.In(now.Location()).Date()
		if ry == y && rm == m && rd == d {
			return rec, true
		}
	}
	return Record{}, false
}

// CanCheckOut enforces the local check-out guards: a record for today exists,
// it has a check-in time, and it is not already checked out. The backend
// remains authoritative; this only avoids sending a request that cannot
// succeed.
func CanCheckOut(rec Record, found bool) error {
	if !found {
		return ErrNoRecordToday
	}
	if rec.CheckInTime == nil || rec.CheckInTime.IsZero() {
		return ErrNotCheckedIn
	}
	if rec.Status == StatusCheckedOut {
		return ErrAlreadyCheckedOut
	}
	return nil
}

// FormatLocation renders the fixed free-text location string attached to
// field check-ins.
func FormatLocation(longitude, latitude float64) string {
	return "Longitude:" + strconv.FormatFloat(longitude, 'f', -1, 64) +
		", Latitude:" + strconv.FormatFloat(latitude, 'f', -1, 64)
}
