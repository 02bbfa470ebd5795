package api

import (
	"context"
	"net/http"
	"time"

	"hrclient/internal/domain/leave"
)

// ApplyLeave submits a validated leave application. Validation failures never
// reach the wire.
func (c *Client) ApplyLeave(ctx context.Context, app leave.Application) error {
	if err := app.Validate(); err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodPost, "/leave/apply", app, nil)
}

// LeaveRequests lists requests visible to the caller, narrowed by filter.
func (c *Client) LeaveRequests(ctx context.Context, filter leave.Filter) ([]leave.Request, error) {
	var requests []leave.Request
	if err := c.doJSON(ctx, http.MethodPost, "/leave/requests", filter, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// LeaveBalance fetches the employee's current balances; the backend is
// authoritative, this is display-only.
func (c *Client) LeaveBalance(ctx context.Context, employeeID string) (leave.Balance, error) {
	var balance leave.Balance
	if err := c.doJSON(ctx, http.MethodGet, "/leave/employee/"+employeeID, nil, &balance); err != nil {
		return leave.Balance{}, err
	}
	return balance, nil
}

// DecideLeave records a department or HR decision on a pending request.
func (c *Client) DecideLeave(ctx context.Context, requestID string, decision leave.Decision) error {
	patch, err := decision.Patch(time.Now().UTC())
	if err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodPatch, "/leave/requests/"+requestID, patch, nil)
}

// UpcomingLeaves lists approved leaves starting soon, shown on dashboards.
func (c *Client) UpcomingLeaves(ctx context.Context) ([]leave.Request, error) {
	var requests []leave.Request
	if err := c.doJSON(ctx, http.MethodGet, "/leave/upcoming", nil, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}
