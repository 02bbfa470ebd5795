package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"hrclient/internal/domain/attendance"
	"hrclient/internal/domain/employee"
	"hrclient/internal/domain/leave"
)

const dateLayout = "2006-01-02"

func (a *app) login(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("login", flag.ContinueOnError)
	username := flags.String("u", "", "username (employee code)")
	password := flags.String("p", "", "password")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*username) == "" || *password == "" {
		return fmt.Errorf("please fill in all fields: -u and -p are required")
	}

	claims, err := a.client.Login(ctx, *username, *password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Signed in as %s\n", claims.Username)
	if claims.IsHR() {
		fmt.Fprintln(a.out, "Role: HR — employees, departments and leave approvals are available.")
	} else {
		fmt.Fprintln(a.out, "Role: employee — attendance, leave and profile are available.")
	}
	return nil
}

func (a *app) logout() error {
	if err := a.client.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	emp, err := a.self(ctx)
	if err != nil {
		return err
	}
	claims := a.store.Current().Claims
	fmt.Fprintf(a.out, "%s (%s)\n", emp.FullName(), emp.EmployeeCode)
	fmt.Fprintf(a.out, "Designation: %s\nDepartment:  %s\nRole:        %s\n", emp.Designation, emp.DepartmentName, claims.Role)
	if len(claims.Permissions) > 0 {
		fmt.Fprintf(a.out, "Permissions: %s\n", strings.Join(claims.Permissions, ", "))
	}
	return nil
}

func (a *app) attendance(ctx context.Context) error {
	emp, err := a.self(ctx)
	if err != nil {
		return err
	}
	flow := a.flow(emp)

	records, err := flow.History(ctx)
	if err != nil {
		return err
	}

	today, found := attendance.TodayRecord(records, time.Now())
	fmt.Fprintln(a.out, "Today's attendance")
	if found {
		fmt.Fprintf(a.out, "  Status:    %s\n", today.Status)
		fmt.Fprintf(a.out, "  Clock in:  %s\n", formatClock(today.CheckInTime))
		fmt.Fprintf(a.out, "  Clock out: %s\n", formatClock(today.CheckOutTime))
	} else {
		fmt.Fprintln(a.out, "  Status:    Not Checked In")
	}

	fmt.Fprintln(a.out)
	return a.renderRecords(records)
}

func (a *app) checkIn(ctx context.Context, args []string) error {
	if len(args) != 1 || (args[0] != "office" && args[0] != "field") {
		return fmt.Errorf("usage: hrctl checkin office|field")
	}

	emp, err := a.self(ctx)
	if err != nil {
		return err
	}
	flow := a.flow(emp)

	if args[0] == "office" {
		if err := flow.Office(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Clocked in (office).")
		return nil
	}

	if err := flow.Field(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Clocked in (field) with photo and location.")
	return nil
}

func (a *app) checkOut(ctx context.Context) error {
	emp, err := a.self(ctx)
	if err != nil {
		return err
	}
	if err := a.flow(emp).CheckOut(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Clocked out.")
	return nil
}

func (a *app) leave(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: hrctl leave apply|list|balance|upcoming|approve|reject")
	}
	switch args[0] {
	case "apply":
		return a.leaveApply(ctx, args[1:])
	case "list":
		return a.leaveList(ctx)
	case "balance":
		return a.leaveBalance(ctx)
	case "upcoming":
		return a.leaveUpcoming(ctx)
	case "approve":
		return a.leaveDecide(ctx, args[1:], leave.StatusApproved)
	case "reject":
		return a.leaveDecide(ctx, args[1:], leave.StatusRejected)
	default:
		return fmt.Errorf("unknown leave command %q", args[0])
	}
}

func (a *app) leaveApply(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("leave apply", flag.ContinueOnError)
	requestType := flags.String("type", "", "LEAVE or OD")
	category := flags.String("category", "", "CASUAL_LEAVE, SICK_LEAVE, EARNED_LEAVE or MATERNITY_LEAVE")
	dayType := flags.String("day", "", "FULL_DAY or HALF_DAY")
	duration := flags.String("duration", "", "number of days, e.g. 1, 0.5, 1.5")
	from := flags.String("from", "", "start date (2006-01-02)")
	to := flags.String("to", "", "end date (2006-01-02)")
	approver := flags.String("approver", "", "department approver employee id")
	reason := flags.String("reason", "", "reason")
	if err := flags.Parse(args); err != nil {
		return err
	}

	days, err := leave.ParseDuration(*duration)
	if err != nil {
		return err
	}
	startDate, err := time.ParseInLocation(dateLayout, *from, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid -from date: %w", err)
	}
	endDate, err := time.ParseInLocation(dateLayout, *to, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid -to date: %w", err)
	}

	emp, err := a.self(ctx)
	if err != nil {
		return err
	}

	application := leave.Application{
		EmployeeID:           emp.ID,
		RequestType:          leave.RequestType(strings.ToUpper(*requestType)),
		Category:             leave.Category(strings.ToUpper(*category)),
		DayType:              leave.DayType(strings.ToUpper(*dayType)),
		Duration:             days,
		StartDate:            startDate,
		EndDate:              endDate,
		DepartmentApprovedBy: *approver,
		Status:               leave.StatusPending,
		Reason:               *reason,
	}
	if err := a.client.ApplyLeave(ctx, application); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Leave request submitted.")
	return nil
}

func (a *app) leaveList(ctx context.Context) error {
	emp, err := a.self(ctx)
	if err != nil {
		return err
	}
	requests, err := a.client.LeaveRequests(ctx, leave.Filter{EmployeeID: emp.ID})
	if err != nil {
		return err
	}
	return a.renderRequests(requests)
}

func (a *app) leaveBalance(ctx context.Context) error {
	emp, err := a.self(ctx)
	if err != nil {
		return err
	}
	balance, err := a.client.LeaveBalance(ctx, emp.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Casual:    %.1f\nSick:      %.1f\nEarned:    %.1f\nMaternity: %.1f\n",
		balance.CasualLeave, balance.SickLeave, balance.EarnedLeave, balance.MaternityLeave)
	return nil
}

func (a *app) leaveUpcoming(ctx context.Context) error {
	requests, err := a.client.UpcomingLeaves(ctx)
	if err != nil {
		return err
	}
	return a.renderRequests(requests)
}

func (a *app) leaveDecide(ctx context.Context, args []string, status leave.ApprovalStatus) error {
	flags := flag.NewFlagSet("leave decide", flag.ContinueOnError)
	stage := flags.String("stage", "hr", "approval stage: department or hr")
	reason := flags.String("reason", "", "rejection reason")
	category := flags.String("category", "", "leave category override on approval")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return fmt.Errorf("usage: hrctl leave %s [-stage department|hr] <request-id>", strings.ToLower(string(status)))
	}

	emp, err := a.self(ctx)
	if err != nil {
		return err
	}

	decision := leave.Decision{
		Stage:            leave.Stage(strings.ToLower(*stage)),
		Status:           status,
		DecidedBy:        emp.ID,
		Reason:           *reason,
		CategoryOverride: leave.Category(strings.ToUpper(*category)),
	}
	if err := a.client.DecideLeave(ctx, flags.Arg(0), decision); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Leave request %s.\n", strings.ToLower(string(status)))
	return nil
}

func (a *app) employees(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		emps, err := a.client.Employees(ctx)
		if err != nil {
			return err
		}
		return a.renderEmployees(emps)
	case "show":
		if len(args) != 2 {
			return fmt.Errorf("usage: hrctl employees show <id>")
		}
		emp, err := a.client.Employee(ctx, args[1])
		if err != nil {
			return err
		}
		a.renderEmployee(emp)
		return nil
	case "filter":
		flags := flag.NewFlagSet("employees filter", flag.ContinueOnError)
		company := flags.String("company", "", "company id")
		department := flags.String("department", "", "department id")
		if err := flags.Parse(args[1:]); err != nil {
			return err
		}
		emps, err := a.client.FilterEmployees(ctx, employee.Filter{CompanyID: *company, DepartmentID: *department})
		if err != nil {
			return err
		}
		return a.renderEmployees(emps)
	default:
		return fmt.Errorf("unknown employees command %q", args[0])
	}
}

func (a *app) departments(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("departments", flag.ContinueOnError)
	company := flags.String("company", "", "company id")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *company == "" {
		return fmt.Errorf("usage: hrctl departments -company <id>")
	}

	departments, err := a.client.DepartmentsByCompany(ctx, *company)
	if err != nil {
		return err
	}
	for _, dept := range departments {
		fmt.Fprintf(a.out, "%s\t%s\n", dept.ID, dept.Name)
	}
	return nil
}

func (a *app) companies(ctx context.Context) error {
	companies, err := a.client.Companies(ctx)
	if err != nil {
		return err
	}
	for _, company := range companies {
		fmt.Fprintf(a.out, "%s\t%s\n", company.ID, company.Name)
	}
	return nil
}

func (a *app) profile(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"show"}
	}
	switch args[0] {
	case "show":
		emp, err := a.self(ctx)
		if err != nil {
			return err
		}
		a.renderEmployee(emp)
		return nil
	case "update":
		flags := flag.NewFlagSet("profile update", flag.ContinueOnError)
		first := flags.String("first", "", "first name")
		last := flags.String("last", "", "last name")
		email := flags.String("email", "", "email")
		mobile := flags.String("mobile", "", "mobile")
		designation := flags.String("designation", "", "designation")
		blood := flags.String("blood", "", "blood group")
		if err := flags.Parse(args[1:]); err != nil {
			return err
		}

		patch := employee.Patch{
			FirstName:   *first,
			LastName:    *last,
			Email:       *email,
			Mobile:      *mobile,
			Designation: *designation,
			BloodGroup:  *blood,
		}
		if patch == (employee.Patch{}) {
			return fmt.Errorf("nothing to update")
		}

		emp, err := a.self(ctx)
		if err != nil {
			return err
		}
		if err := a.client.UpdateEmployee(ctx, emp.ID, patch); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Profile updated.")
		return nil
	default:
		return fmt.Errorf("unknown profile command %q", args[0])
	}
}
