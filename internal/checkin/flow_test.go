package checkin

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"log/slog"
	"testing"
	"time"

	"hrclient/internal/domain/attendance"
)

var testNow = time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)

type checkOutCall struct {
	ID string
	At time.Time
}

type fakeBackend struct {
	records  []attendance.Record
	rangeErr error

	checkIns   []attendance.CheckInRequest
	checkInErr error

	checkOuts []checkOutCall

	uploads   int
	uploadURL string
	uploadErr error
}

func (b *fakeBackend) AttendanceRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Record, error) {
	if b.rangeErr != nil {
		return nil, b.rangeErr
	}
	return b.records, nil
}

func (b *fakeBackend) CheckIn(ctx context.Context, req attendance.CheckInRequest) error {
	if b.checkInErr != nil {
		return b.checkInErr
	}
	b.checkIns = append(b.checkIns, req)
	return nil
}

func (b *fakeBackend) CheckOut(ctx context.Context, recordID string, at time.Time) error {
	b.checkOuts = append(b.checkOuts, checkOutCall{ID: recordID, At: at})
	return nil
}

func (b *fakeBackend) UploadAttendanceImage(ctx context.Context, filename string, image io.Reader) (string, error) {
	b.uploads++
	if b.uploadErr != nil {
		return "", b.uploadErr
	}
	return b.uploadURL, nil
}

type fakeLocation struct {
	pos   Position
	err   error
	calls int
}

func (l *fakeLocation) Current(ctx context.Context) (Position, error) {
	l.calls++
	if l.err != nil {
		return Position{}, l.err
	}
	return l.pos, nil
}

type fakeCamera struct {
	acquireErr error
	captureErr error
	frame      image.Image

	acquired bool
	captured bool
	released bool
}

func (c *fakeCamera) Acquire(ctx context.Context) (Camera, error) {
	if c.acquireErr != nil {
		return nil, c.acquireErr
	}
	c.acquired = true
	return c, nil
}

func (c *fakeCamera) Capture(ctx context.Context) (image.Image, error) {
	c.captured = true
	if c.captureErr != nil {
		return nil, c.captureErr
	}
	return c.frame, nil
}

func (c *fakeCamera) Release() error {
	c.released = true
	return nil
}

func testFrame() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	return img
}

func newTestFlow(backend *fakeBackend, camera *fakeCamera, location *fakeLocation) *Flow {
	return NewFlow(backend, camera, location, Options{
		EmployeeID: "e-1",
		Quality:    80,
		MaxEdge:    1280,
		Now:        func() time.Time { return testNow },
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestFieldCheckInHappyPath(t *testing.T) {
	backend := &fakeBackend{uploadURL: "https://cdn.example.com/u/img-1.jpg"}
	camera := &fakeCamera{frame: testFrame()}
	location := &fakeLocation{pos: Position{Longitude: 77.5946, Latitude: 12.9716}}
	flow := newTestFlow(backend, camera, location)

	if err := flow.Field(context.Background()); err != nil {
		t.Fatalf("field check-in failed: %v", err)
	}

	if len(backend.checkIns) != 1 {
		t.Fatalf("expected one check-in, got %d", len(backend.checkIns))
	}
	req := backend.checkIns[0]
	if req.CheckInType != attendance.TypeField {
		t.Fatalf("expected FIELD type, got %s", req.CheckInType)
	}
	if req.ImageURL != "https://cdn.example.com/u/img-1.jpg" {
		t.Fatalf("uploaded URL not attached: %q", req.ImageURL)
	}
	if req.Location != "Longitude:77.5946, Latitude:12.9716" {
		t.Fatalf("unexpected location format: %q", req.Location)
	}
	if req.EmployeeID != "e-1" || !req.CheckInTime.Equal(testNow) {
		t.Fatalf("unexpected submission: %+v", req)
	}
	if !camera.released {
		t.Fatal("camera must be released after a successful flow")
	}
}

func TestFieldLocationDeniedAbortsBeforeCamera(t *testing.T) {
	backend := &fakeBackend{uploadURL: "u"}
	camera := &fakeCamera{frame: testFrame()}
	location := &fakeLocation{err: ErrPermissionDenied}
	flow := newTestFlow(backend, camera, location)

	err := flow.Field(context.Background())
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if camera.acquired {
		t.Fatal("camera must not be acquired after location denial")
	}
	if backend.uploads != 0 || len(backend.checkIns) != 0 {
		t.Fatal("no upload or submission may happen after an aborted step")
	}
}

func TestFieldCameraDeniedAborts(t *testing.T) {
	backend := &fakeBackend{uploadURL: "u"}
	camera := &fakeCamera{acquireErr: ErrPermissionDenied}
	location := &fakeLocation{pos: Position{Longitude: 1, Latitude: 2}}
	flow := newTestFlow(backend, camera, location)

	err := flow.Field(context.Background())
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if backend.uploads != 0 || len(backend.checkIns) != 0 {
		t.Fatal("flow must abort at the camera step")
	}
}

func TestFieldUploadFailureStillReleasesCamera(t *testing.T) {
	backend := &fakeBackend{uploadErr: errors.New("upload failed")}
	camera := &fakeCamera{frame: testFrame()}
	location := &fakeLocation{pos: Position{Longitude: 1, Latitude: 2}}
	flow := newTestFlow(backend, camera, location)

	if err := flow.Field(context.Background()); err == nil {
		t.Fatal("expected upload error")
	}
	if !camera.released {
		t.Fatal("camera must be released on the error path")
	}
	if len(backend.checkIns) != 0 {
		t.Fatal("no submission after a failed upload")
	}
}

func TestOfficeCheckIn(t *testing.T) {
	backend := &fakeBackend{}
	flow := newTestFlow(backend, &fakeCamera{}, &fakeLocation{})

	if err := flow.Office(context.Background()); err != nil {
		t.Fatalf("office check-in failed: %v", err)
	}

	if len(backend.checkIns) != 1 {
		t.Fatalf("expected one check-in, got %d", len(backend.checkIns))
	}
	req := backend.checkIns[0]
	if req.CheckInType != attendance.TypeOffice {
		t.Fatalf("expected OFFICE type, got %s", req.CheckInType)
	}
	if req.ImageURL != "" || req.Location != "" {
		t.Fatalf("office check-in carries no media: %+v", req)
	}
}

func TestGuardRefusesSecondCheckIn(t *testing.T) {
	checkIn := testNow.Add(-2 * time.Hour)
	backend := &fakeBackend{records: []attendance.Record{{
		ID:          "rec-1",
		Date:        testNow,
		CheckInTime: &checkIn,
		Status:      attendance.StatusCheckedIn,
	}}}
	flow := newTestFlow(backend, &fakeCamera{}, &fakeLocation{})

	if err := flow.Office(context.Background()); !errors.Is(err, ErrAlreadyCheckedIn) {
		t.Fatalf("expected ErrAlreadyCheckedIn, got %v", err)
	}
	if len(backend.checkIns) != 0 {
		t.Fatal("no submission after the guard fires")
	}
}

func TestGuardDefersToBackendWhenLookupFails(t *testing.T) {
	backend := &fakeBackend{rangeErr: errors.New("network down")}
	flow := newTestFlow(backend, &fakeCamera{}, &fakeLocation{})

	if err := flow.Office(context.Background()); err != nil {
		t.Fatalf("a failing pre-check must not block the attempt: %v", err)
	}
	if len(backend.checkIns) != 1 {
		t.Fatal("check-in should still be submitted")
	}
}

func TestCheckOut(t *testing.T) {
	checkIn := testNow.Add(-4 * time.Hour)
	backend := &fakeBackend{records: []attendance.Record{{
		ID:          "rec-1",
		Date:        testNow,
		CheckInTime: &checkIn,
		Status:      attendance.StatusCheckedIn,
	}}}
	flow := newTestFlow(backend, &fakeCamera{}, &fakeLocation{})

	if err := flow.CheckOut(context.Background()); err != nil {
		t.Fatalf("check-out failed: %v", err)
	}
	if len(backend.checkOuts) != 1 || backend.checkOuts[0].ID != "rec-1" {
		t.Fatalf("unexpected check-out calls: %+v", backend.checkOuts)
	}
}

func TestCheckOutGuards(t *testing.T) {
	flow := newTestFlow(&fakeBackend{}, &fakeCamera{}, &fakeLocation{})
	if err := flow.CheckOut(context.Background()); !errors.Is(err, attendance.ErrNoRecordToday) {
		t.Fatalf("expected ErrNoRecordToday, got %v", err)
	}

	backend := &fakeBackend{records: []attendance.Record{{ID: "rec-1", Date: testNow}}}
	flow = newTestFlow(backend, &fakeCamera{}, &fakeLocation{})
	if err := flow.CheckOut(context.Background()); !errors.Is(err, attendance.ErrNotCheckedIn) {
		t.Fatalf("expected ErrNotCheckedIn, got %v", err)
	}

	checkIn := testNow.Add(-8 * time.Hour)
	backend = &fakeBackend{records: []attendance.Record{{
		ID:          "rec-1",
		Date:        testNow,
		CheckInTime: &checkIn,
		Status:      attendance.StatusCheckedOut,
	}}}
	flow = newTestFlow(backend, &fakeCamera{}, &fakeLocation{})
	if err := flow.CheckOut(context.Background()); !errors.Is(err, attendance.ErrAlreadyCheckedOut) {
		t.Fatalf("expected ErrAlreadyCheckedOut, got %v", err)
	}
	if len(backend.checkOuts) != 0 {
		t.Fatal("guarded check-out must not reach the backend")
	}
}

func TestFlowRefusesReentry(t *testing.T) {
	backend := &fakeBackend{}
	flow := newTestFlow(backend, &fakeCamera{}, &fakeLocation{})
	flow.busy.Store(true)

	if err := flow.Office(context.Background()); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	if err := flow.Field(context.Background()); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	if err := flow.CheckOut(context.Background()); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
}
