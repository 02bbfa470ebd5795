package api

import (
	"context"
	"io"
	"net/http"

	"hrclient/internal/domain/employee"
)

// EmployeeByUser resolves the employee profile behind a login's user id.
func (c *Client) EmployeeByUser(ctx context.Context, userID string) (employee.Employee, error) {
	var emp employee.Employee
	if err := c.doJSON(ctx, http.MethodGet, "/employees/user/"+userID, nil, &emp); err != nil {
		return employee.Employee{}, err
	}
	return emp, nil
}

func (c *Client) Employee(ctx context.Context, id string) (employee.Employee, error) {
	var emp employee.Employee
	if err := c.doJSON(ctx, http.MethodGet, "/employees/"+id, nil, &emp); err != nil {
		return employee.Employee{}, err
	}
	return emp, nil
}

func (c *Client) Employees(ctx context.Context) ([]employee.Employee, error) {
	var emps []employee.Employee
	if err := c.doJSON(ctx, http.MethodGet, "/employees", nil, &emps); err != nil {
		return nil, err
	}
	return emps, nil
}

// FilterEmployees narrows the directory by company and department, as the
// leave form does when listing a department's approvers.
func (c *Client) FilterEmployees(ctx context.Context, filter employee.Filter) ([]employee.Employee, error) {
	var emps []employee.Employee
	if err := c.doJSON(ctx, http.MethodPost, "/employees/filter", filter, &emps); err != nil {
		return nil, err
	}
	return emps, nil
}

func (c *Client) CreateEmployee(ctx context.Context, emp employee.Employee) error {
	return c.doJSON(ctx, http.MethodPost, "/employees", emp, nil)
}

// UpdateEmployee submits a partial profile update for self or HR edits.
func (c *Client) UpdateEmployee(ctx context.Context, id string, patch employee.Patch) error {
	return c.doJSON(ctx, http.MethodPatch, "/employees/"+id, patch, nil)
}

// UploadEmployeeImage replaces the employee's avatar and returns its URL.
func (c *Client) UploadEmployeeImage(ctx context.Context, id, filename string, image io.Reader) (string, error) {
	return c.uploadFile(ctx, "/employees/"+id+"/upload-image", filename, image)
}

func (c *Client) Companies(ctx context.Context) ([]employee.Company, error) {
	var companies []employee.Company
	if err := c.doJSON(ctx, http.MethodGet, "/companies", nil, &companies); err != nil {
		return nil, err
	}
	return companies, nil
}

func (c *Client) DepartmentsByCompany(ctx context.Context, companyID string) ([]employee.Department, error) {
	var departments []employee.Department
	if err := c.doJSON(ctx, http.MethodGet, "/departments/company/"+companyID, nil, &departments); err != nil {
		return nil, err
	}
	return departments, nil
}

func (c *Client) CreateDepartment(ctx context.Context, dept employee.Department) error {
	return c.doJSON(ctx, http.MethodPost, "/departments", dept, nil)
}
