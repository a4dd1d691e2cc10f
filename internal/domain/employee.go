package domain

import (
	"context"
	"time"

	"github.com/locvowork/employee_management_sample/gridexport/pkg/gridexport"
)

// Employee is a row of the employees table.
type Employee struct {
	EmpNo     int       `json:"emp_no" db:"emp_no"`
	BirthDate time.Time `json:"birth_date" db:"birth_date"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Gender    string    `json:"gender" db:"gender"`
	HireDate  time.Time `json:"hire_date" db:"hire_date"`
	Salary    *int64    `json:"salary,omitempty" db:"salary"`
	DeptName  string    `json:"dept_name,omitempty" db:"dept_name"`
}

// PrimaryKey is the key used when the employee is read through a cursor.
func (e Employee) PrimaryKey() any { return e.EmpNo }

// ID is the key used when the employee is read page by page.
func (e Employee) ID() any { return e.EmpNo }

// FullName joins first and last name.
func (e Employee) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// EmployeeFilter narrows an employee export.
type EmployeeFilter struct {
	DeptName    string
	HiredAfter  *time.Time
	HiredBefore *time.Time
}

// EmployeeRepository reads employees for export.
type EmployeeRepository interface {
	// ExportQuery returns a batch query over the employees matching filter.
	ExportQuery(filter EmployeeFilter) gridexport.BatchQuery
	CountEmployees(ctx context.Context, filter EmployeeFilter) (int, error)
}
