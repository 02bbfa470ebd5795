// Package checkin orchestrates attendance recording. An office check-in is a
// single submission; a field check-in is a strictly ordered sequence of
// location fix, camera capture, image upload, and submission. Platform
// capabilities reach the flow only through the CameraSource and
// LocationSource seams, so the same flow runs against any device backend.
package checkin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"hrclient/internal/domain/attendance"
)

var (
	// ErrPermissionDenied is returned by device backends when the user or
	// platform refuses camera or location access.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrAlreadyCheckedIn is the best-effort local guard; the backend's
	// duplicate rejection stays authoritative.
	ErrAlreadyCheckedIn = errors.New("already checked in today")

	// ErrBusy means a submission for this flow is already in flight.
	ErrBusy = errors.New("check-in already in progress")
)

// Position is one geolocation fix.
type Position struct {
	Longitude float64
	Latitude  float64
}

// LocationSource yields the device's current position. Implementations
// surface permission denial as ErrPermissionDenied.
type LocationSource interface {
	Current(ctx context.Context) (Position, error)
}

// CameraSource acquires the device camera. The returned Camera owns the
// device until Release; the flow guarantees Release runs on every exit path.
type CameraSource interface {
	Acquire(ctx context.Context) (Camera, error)
}

type Camera interface {
	Capture(ctx context.Context) (image.Image, error)
	Release() error
}

// Backend is the slice of the API client the flow needs.
type Backend interface {
	AttendanceRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Record, error)
	CheckIn(ctx context.Context, req attendance.CheckInRequest) error
	CheckOut(ctx context.Context, recordID string, at time.Time) error
	UploadAttendanceImage(ctx context.Context, filename string, image io.Reader) (string, error)
}

const uploadFilename = "check-in-image.jpg"

type Flow struct {
	backend  Backend
	camera   CameraSource
	location LocationSource
	log      *slog.Logger

	employeeID  string
	historyDays int
	quality     int
	maxEdge     int

	now func() time.Time

	// busy blocks re-entry while a submission is in flight, standing in for
	// the disabled button of the original surfaces.
	busy atomic.Bool
}

type Options struct {
	EmployeeID  string
	HistoryDays int
	Quality     int
	MaxEdge     int
	Now         func() time.Time
	Logger      *slog.Logger
}

func NewFlow(backend Backend, camera CameraSource, location LocationSource, opts Options) *Flow {
	if opts.HistoryDays <= 0 {
		opts.HistoryDays = 15
	}
	if opts.Quality <= 0 {
		opts.Quality = 80
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Flow{
		backend:     backend,
		camera:      camera,
		location:    location,
		log:         opts.Logger,
		employeeID:  opts.EmployeeID,
		historyDays: opts.HistoryDays,
		quality:     opts.Quality,
		maxEdge:     opts.MaxEdge,
		now:         opts.Now,
	}
}

// History returns the recent attendance window the screens display.
func (f *Flow) History(ctx context.Context) ([]attendance.Record, error) {
	now := f.now()
	from := now.AddDate(0, 0, -f.historyDays)
	fromDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	toDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, time.UTC)
	return f.backend.AttendanceRange(ctx, f.employeeID, fromDay, toDay)
}

// Today returns today's record, if any.
func (f *Flow) Today(ctx context.Context) (attendance.Record, bool, error) {
	records, err := f.History(ctx)
	if err != nil {
		return attendance.Record{}, false, err
	}
	rec, ok := attendance.TodayRecord(records, f.now())
	return rec, ok, nil
}

// Office records an office check-in: timestamp only, no media.
func (f *Flow) Office(ctx context.Context) error {
	if !f.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer f.busy.Store(false)

	if err := f.guardNotCheckedIn(ctx); err != nil {
		return err
	}
	return f.backend.CheckIn(ctx, attendance.CheckInRequest{
		EmployeeID:  f.employeeID,
		CheckInType: attendance.TypeOffice,
		CheckInTime: f.now().UTC(),
	})
}

// Field records a field check-in. Steps run strictly in order: location fix,
// camera acquisition, capture, upload, submission. Any failure aborts the
// flow with no partial state, leaving the caller free to retry. The camera is
// released on every exit path once acquired.
func (f *Flow) Field(ctx context.Context) error {
	if !f.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer f.busy.Store(false)

	if err := f.guardNotCheckedIn(ctx); err != nil {
		return err
	}

	pos, err := f.location.Current(ctx)
	if err != nil {
		return fmt.Errorf("checkin: location: %w", err)
	}
	location := attendance.FormatLocation(pos.Longitude, pos.Latitude)

	cam, err := f.camera.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("checkin: camera: %w", err)
	}
	defer func() {
		if releaseErr := cam.Release(); releaseErr != nil {
			f.log.Warn("camera release failed", "err", releaseErr)
		}
	}()

	frame, err := cam.Capture(ctx)
	if err != nil {
		return fmt.Errorf("checkin: capture: %w", err)
	}

	photo, err := encodePhoto(frame, f.quality, f.maxEdge)
	if err != nil {
		return fmt.Errorf("checkin: encode photo: %w", err)
	}

	imageURL, err := f.backend.UploadAttendanceImage(ctx, uploadFilename, bytes.NewReader(photo))
	if err != nil {
		return fmt.Errorf("checkin: upload: %w", err)
	}

	return f.backend.CheckIn(ctx, attendance.CheckInRequest{
		EmployeeID:  f.employeeID,
		CheckInType: attendance.TypeField,
		CheckInTime: f.now().UTC(),
		ImageURL:    imageURL,
		Location:    location,
	})
}

// CheckOut submits a check-out for today's record after the local guards
// pass. No media or location is involved.
func (f *Flow) CheckOut(ctx context.Context) error {
	if !f.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer f.busy.Store(false)

	rec, found, err := f.Today(ctx)
	if err != nil {
		return err
	}
	if err := attendance.CanCheckOut(rec, found); err != nil {
		return err
	}
	return f.backend.CheckOut(ctx, rec.ID, f.now().UTC())
}

// guardNotCheckedIn refuses a second check-in when today's record is already
// known locally. A failing lookup does not block the attempt; the backend
// rejects duplicates authoritatively.
func (f *Flow) guardNotCheckedIn(ctx context.Context) error {
	rec, found, err := f.Today(ctx)
	if err != nil {
		f.log.Warn("pre-check of today's attendance failed, deferring to backend", "err", err)
		return nil
	}
	if found && rec.CheckInTime != nil {
		return ErrAlreadyCheckedIn
	}
	return nil
}
