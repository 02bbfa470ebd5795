package attendance

import "time"

type Status string

const (
	StatusCheckedIn  Status = "CHECKED_IN"
	StatusCheckedOut Status = "CHECKED_OUT"
)

type Type string

const (
	TypeOffice Type = "OFFICE"
	TypeField  Type = "FIELD"
)

// Record is a read-only projection of a backend attendance row.
type Record struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employee_id"`
	Date         time.Time  `json:"attendance_date"`
	CheckInTime  *time.Time `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time"`
	Status       Status     `json:"attendance_status"`
	CheckInType  Type       `json:"check_in_type,omitempty"`
	ImageURL     string     `json:"image_url,omitempty"`
	Location     string     `json:"location,omitempty"`
}

// CheckInRequest is the check-in submission. Office check-ins carry no image
// or location, so both keys must be absent from the encoded payload.
type CheckInRequest struct {
	EmployeeID  string    `json:"employee_id"`
	CheckInType Type      `json:"check_in_type"`
	CheckInTime time.Time `json:"check_in_time"`
	ImageURL    string    `json:"image_url,omitempty"`
	Location    string    `json:"location,omitempty"`
}

type CheckOutRequest struct {
	ID           string    `json:"id"`
	CheckOutTime time.Time `json:"check_out_time"`
}

// RangeQuery selects an employee's records between two instants, inclusive.
type RangeQuery struct {
	EmployeeID string    `json:"employee_id"`
	FromDate   time.Time `json:"from_date"`
	ToDate     time.Time `json:"to_date"`
}
