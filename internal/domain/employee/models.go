// Package employee holds read-only projections of backend directory state.
// The backend owns every field; the client displays them and submits partial
// updates for self-service or HR edits.
package employee

type Employee struct {
	ID                 string   `json:"id"`
	UserID             string   `json:"user_id"`
	FirstName          string   `json:"first_name"`
	LastName           string   `json:"last_name"`
	Email              string   `json:"email"`
	EmployeeCode       string   `json:"employee_code"`
	Role               string   `json:"role"`
	Designation        string   `json:"designation"`
	Mobile             string   `json:"mobile"`
	Avatar             string   `json:"avatar"`
	Gender             string   `json:"gender"`
	BloodGroup         string   `json:"blood_group"`
	DOB                string   `json:"dob"`
	JoiningDate        string   `json:"joining_date"`
	CompanyID          string   `json:"company_id"`
	DepartmentID       string   `json:"department_id"`
	DepartmentName     string   `json:"department_name"`
	ReportingManagerID string   `json:"reporting_manager_id,omitempty"`
	Permissions        []string `json:"permission"`
}

func (e Employee) FullName() string {
	if e.FirstName == "" {
		return e.LastName
	}
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// Patch is a partial employee update; zero fields are left untouched by the
// backend.
type Patch struct {
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	Email        string `json:"email,omitempty"`
	Mobile       string `json:"mobile,omitempty"`
	Designation  string `json:"designation,omitempty"`
	BloodGroup   string `json:"blood_group,omitempty"`
	DepartmentID string `json:"department_id,omitempty"`
	Role         string `json:"role,omitempty"`
}

// Department rows arrive with exported-style keys, a quirk of the backend's
// serializer that the client has to match.
type Department struct {
	ID        string `json:"ID"`
	Name      string `json:"Name"`
	CompanyID string `json:"CompanyID"`
}

type Company struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Filter selects employees by organisational placement.
type Filter struct {
	CompanyID    string `json:"company_id,omitempty"`
	DepartmentID string `json:"department_id,omitempty"`
}
