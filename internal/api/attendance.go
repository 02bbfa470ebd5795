package api

import (
	"context"
	"io"
	"net/http"
	"time"

	"hrclient/internal/domain/attendance"
)

// AttendanceRange lists an employee's records between two instants.
func (c *Client) AttendanceRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Record, error) {
	query := attendance.RangeQuery{EmployeeID: employeeID, FromDate: from, ToDate: to}
	var records []attendance.Record
	if err := c.doJSON(ctx, http.MethodPost, "/attendance/employee/", query, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) CheckIn(ctx context.Context, req attendance.CheckInRequest) error {
	return c.doJSON(ctx, http.MethodPost, "/attendance/check-in", req, nil)
}

func (c *Client) CheckOut(ctx context.Context, recordID string, at time.Time) error {
	req := attendance.CheckOutRequest{ID: recordID, CheckOutTime: at}
	return c.doJSON(ctx, http.MethodPost, "/attendance/check-out", req, nil)
}

// UploadAttendanceImage sends the captured check-in photo as multipart
// content and returns the stored image's URL; the URL, not the image, is what
// gets attached to the check-in record.
func (c *Client) UploadAttendanceImage(ctx context.Context, filename string, image io.Reader) (string, error) {
	return c.uploadFile(ctx, "/attendance/upload", filename, image)
}
