package leave

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

var (
	ErrMissingFields      = errors.New("all required fields must be filled")
	ErrMissingLeaveDetail = errors.New("leave category and leave type are required for leave requests")
	ErrInvalidDuration    = errors.New("duration must be a positive number")
)

// ParseDuration parses user-entered duration text. Non-numeric or
// non-positive input is rejected before any request is sent.
func ParseDuration(raw string) (float64, error) {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, ErrInvalidDuration
	}
	if value <= 0 {
		return 0, ErrInvalidDuration
	}
	return value, nil
}

// Validate applies the local submission rules; a failing application is never
// sent to the backend.
func (a Application) Validate() error {
	if a.RequestType == "" || a.StartDate.IsZero() || a.EndDate.IsZero() || a.DepartmentApprovedBy == "" {
		return ErrMissingFields
	}
	if a.RequestType == RequestLeave && (a.Category == "" || a.DayType == "") {
		return ErrMissingLeaveDetail
	}
	if a.Duration <= 0 {
		return ErrInvalidDuration
	}
	if a.EndDate.Before(a.StartDate) {
		return fmt.Errorf("end date before start date")
	}
	return nil
}

type Stage string

const (
	StageDepartment Stage = "department"
	StageHR         Stage = "hr"
)

// Decision is an approver's action on a pending request. Reason is only
// attached on rejection; CategoryOverride lets an approver reclassify the
// leave on approval.
type Decision struct {
	Stage            Stage
	Status           ApprovalStatus
	DecidedBy        string
	Reason           string
	CategoryOverride Category
}

// DecisionPatch is the PATCH body for /leave/requests/{id}; exactly one
// stage's fields are populated.
type DecisionPatch struct {
	DepartmentApprovalStatus  ApprovalStatus `json:"department_approval_status,omitempty"`
	DepartmentApprovedAt      *time.Time     `json:"department_approved_at,omitempty"`
	DepartmentApprovedBy      string         `json:"department_approved_by,omitempty"`
	DepartmentRejectionReason string         `json:"department_rejection_reason,omitempty"`
	HRApprovalStatus          ApprovalStatus `json:"hr_approval_status,omitempty"`
	HRApprovedAt              *time.Time     `json:"hr_approved_at,omitempty"`
	HRApprovedBy              string         `json:"hr_approved_by,omitempty"`
	HRRejectionReason         string         `json:"hr_rejection_reason,omitempty"`
	Category                  Category       `json:"leave_category,omitempty"`
}

func (d Decision) Patch(now time.Time) (DecisionPatch, error) {
	if d.Status != StatusApproved && d.Status != StatusRejected {
		return DecisionPatch{}, fmt.Errorf("invalid decision status %q", d.Status)
	}
	if d.DecidedBy == "" {
		return DecisionPatch{}, errors.New("decision requires an approver id")
	}

	patch := DecisionPatch{Category: d.CategoryOverride}
	switch d.Stage {
	case StageDepartment:
		patch.DepartmentApprovalStatus = d.Status
		patch.DepartmentApprovedAt = &now
		patch.DepartmentApprovedBy = d.DecidedBy
		if d.Status == StatusRejected {
			patch.DepartmentRejectionReason = d.Reason
		}
	case StageHR:
		patch.HRApprovalStatus = d.Status
		patch.HRApprovedAt = &now
		patch.HRApprovedBy = d.DecidedBy
		if d.Status == StatusRejected {
			patch.HRRejectionReason = d.Reason
		}
	default:
		return DecisionPatch{}, fmt.Errorf("invalid approval stage %q", d.Stage)
	}
	return patch, nil
}
