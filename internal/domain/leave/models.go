package leave

import "time"

type RequestType string

const (
	RequestLeave RequestType = "LEAVE"
	RequestOD    RequestType = "OD"
)

type Category string

const (
	CategoryCasual    Category = "CASUAL_LEAVE"
	CategorySick      Category = "SICK_LEAVE"
	CategoryEarned    Category = "EARNED_LEAVE"
	CategoryMaternity Category = "MATERNITY_LEAVE"
)

type DayType string

const (
	FullDay DayType = "FULL_DAY"
	HalfDay DayType = "HALF_DAY"
)

type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "PENDING"
	StatusApproved ApprovalStatus = "APPROVED"
	StatusRejected ApprovalStatus = "REJECTED"
)

// Application is an employee's leave/on-duty submission. Category and day
// type are only meaningful for LEAVE requests and stay absent for OD.
type Application struct {
	EmployeeID           string         `json:"employee_id"`
	RequestType          RequestType    `json:"request_type"`
	Category             Category       `json:"leave_category,omitempty"`
	DayType              DayType        `json:"leave_type,omitempty"`
	Duration             float64        `json:"duration"`
	StartDate            time.Time      `json:"start_date"`
	EndDate              time.Time      `json:"end_date"`
	DepartmentApprovedBy string         `json:"department_approved_by"`
	Status               ApprovalStatus `json:"leave_status"`
	Reason               string         `json:"reason"`
}

// Request is the backend's view of a submitted request, including both
// approval stages.
type Request struct {
	ID                        string         `json:"id"`
	EmployeeID                string         `json:"employee_id"`
	RequestType               RequestType    `json:"request_type,omitempty"`
	Category                  Category       `json:"leave_category,omitempty"`
	DayType                   DayType        `json:"leave_type,omitempty"`
	Duration                  float64        `json:"duration,omitempty"`
	StartDate                 time.Time      `json:"start_date"`
	EndDate                   time.Time      `json:"end_date"`
	Reason                    string         `json:"reason,omitempty"`
	Status                    ApprovalStatus `json:"leave_status,omitempty"`
	RequestDate               *time.Time     `json:"request_date,omitempty"`
	DepartmentApprovedBy      string         `json:"department_approved_by,omitempty"`
	DepartmentApprovalStatus  ApprovalStatus `json:"department_approval_status,omitempty"`
	DepartmentRejectionReason string         `json:"department_rejection_reason,omitempty"`
	HRApprovalStatus          ApprovalStatus `json:"hr_approval_status,omitempty"`
	HRRejectionReason         string         `json:"hr_rejection_reason,omitempty"`
}

// Balance is the per-employee leave balance, read-only on the client.
type Balance struct {
	EmployeeID     string  `json:"employee_id,omitempty"`
	CasualLeave    float64 `json:"casual_leave"`
	EarnedLeave    float64 `json:"earned_leave"`
	SickLeave      float64 `json:"sick_leave"`
	MaternityLeave float64 `json:"maternity_leave"`
}

// Filter narrows HR/department request listings.
type Filter struct {
	EmployeeID               string         `json:"employee_id,omitempty"`
	DayType                  DayType        `json:"leave_type,omitempty"`
	DepartmentApprovalStatus ApprovalStatus `json:"department_approval_status,omitempty"`
	HRApprovalStatus         ApprovalStatus `json:"hr_approval_status,omitempty"`
}
