package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"hrclient/internal/domain/attendance"
	"hrclient/internal/domain/employee"
	"hrclient/internal/domain/leave"
)

func formatClock(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "--:--"
	}
	return t.Local().Format("3:04 PM")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (a *app) renderRecords(records []attendance.Record) error {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tIN\tOUT\tTYPE\tSTATUS")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			rec.Date.Format("Jan 02"),
			formatClock(rec.CheckInTime),
			formatClock(rec.CheckOutTime),
			orDash(string(rec.CheckInType)),
			orDash(string(rec.Status)),
		)
	}
	return w.Flush()
}

func (a *app) renderRequests(requests []leave.Request) error {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tFROM\tTO\tDAYS\tDEPT\tHR")
	for _, req := range requests {
		reqType := string(req.RequestType)
		if req.RequestType == leave.RequestLeave && req.Category != "" {
			reqType = string(req.Category)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1f\t%s\t%s\n",
			req.ID,
			orDash(reqType),
			req.StartDate.Format("Jan 02"),
			req.EndDate.Format("Jan 02"),
			req.Duration,
			orDash(string(req.DepartmentApprovalStatus)),
			orDash(string(req.HRApprovalStatus)),
		)
	}
	return w.Flush()
}

func (a *app) renderEmployees(emps []employee.Employee) error {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tNAME\tDESIGNATION\tDEPARTMENT\tEMAIL")
	for _, emp := range emps {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			emp.EmployeeCode,
			emp.FullName(),
			orDash(emp.Designation),
			orDash(emp.DepartmentName),
			orDash(emp.Email),
		)
	}
	return w.Flush()
}

func (a *app) renderEmployee(emp employee.Employee) {
	fmt.Fprintf(a.out, "%s (%s)\n", emp.FullName(), emp.EmployeeCode)
	fmt.Fprintf(a.out, "Email:       %s\n", orDash(emp.Email))
	fmt.Fprintf(a.out, "Mobile:      %s\n", orDash(emp.Mobile))
	fmt.Fprintf(a.out, "Designation: %s\n", orDash(emp.Designation))
	fmt.Fprintf(a.out, "Department:  %s\n", orDash(emp.DepartmentName))
	fmt.Fprintf(a.out, "Gender:      %s\n", orDash(emp.Gender))
	fmt.Fprintf(a.out, "Blood group: %s\n", orDash(emp.BloodGroup))
	fmt.Fprintf(a.out, "Joined:      %s\n", orDash(emp.JoiningDate))
}
