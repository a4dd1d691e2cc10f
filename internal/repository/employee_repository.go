package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/locvowork/employee_management_sample/gridexport/internal/domain"
	"github.com/locvowork/employee_management_sample/gridexport/pkg/gridexport"
)

const employeeSelect = `SELECT e.emp_no, e.birth_date, e.first_name, e.last_name, e.gender, e.hire_date,
	s.salary, COALESCE(d.dept_name, '')
FROM employees e
LEFT JOIN salaries s ON s.emp_no = e.emp_no AND s.to_date = '9999-01-01'
LEFT JOIN dept_emp de ON de.emp_no = e.emp_no AND de.to_date = '9999-01-01'
LEFT JOIN departments d ON d.dept_no = de.dept_no`

type employeeRepository struct {
	db *sql.DB
}

func NewEmployeeRepository(db *sql.DB) domain.EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) ExportQuery(filter domain.EmployeeFilter) gridexport.BatchQuery {
	return &EmployeeQuery{db: r.db, filter: filter}
}

func (r *employeeRepository) CountEmployees(ctx context.Context, filter domain.EmployeeFilter) (int, error) {
	where, args := filterClause(filter, nil)
	query := `SELECT COUNT(*)
FROM employees e
LEFT JOIN dept_emp de ON de.emp_no = e.emp_no AND de.to_date = '9999-01-01'
LEFT JOIN departments d ON d.dept_no = de.dept_no`
	if len(where) > 0 {
		query += "\nWHERE " + strings.Join(where, " AND ")
	}

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	return n, nil
}

// EmployeeQuery reads employees in emp_no order using keyset pagination, so
// each batch is a fresh bounded query instead of one long-lived result set.
type EmployeeQuery struct {
	db     *sql.DB
	filter domain.EmployeeFilter
}

func (q *EmployeeQuery) Batch(ctx context.Context, size int) (gridexport.BatchCursor, error) {
	if size <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", size)
	}
	return &employeeCursor{query: q, size: size}, nil
}

type employeeCursor struct {
	query *EmployeeQuery
	size  int
	last  int
	done  bool
}

func (c *employeeCursor) NextBatch(ctx context.Context) ([]any, error) {
	if c.done {
		return nil, nil
	}

	args := []any{c.last}
	where, args := filterClause(c.query.filter, args)
	where = append([]string{"e.emp_no > $1"}, where...)
	args = append(args, c.size)
	query := fmt.Sprintf("%s\nWHERE %s\nORDER BY e.emp_no\nLIMIT $%d",
		employeeSelect, strings.Join(where, " AND "), len(args))

	rows, err := c.query.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	batch := make([]any, 0, c.size)
	for rows.Next() {
		var e domain.Employee
		if err := rows.Scan(&e.EmpNo, &e.BirthDate, &e.FirstName, &e.LastName, &e.Gender, &e.HireDate, &e.Salary, &e.DeptName); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		batch = append(batch, e)
		c.last = e.EmpNo
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	if len(batch) < c.size {
		c.done = true
	}
	return batch, nil
}

func (c *employeeCursor) Close() error {
	c.done = true
	return nil
}

// filterClause appends the filter's predicates to args and returns them
// with placeholders numbered after the existing args.
func filterClause(filter domain.EmployeeFilter, args []any) ([]string, []any) {
	var where []string
	add := func(expr string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(expr, len(args)))
	}
	if filter.DeptName != "" {
		add("d.dept_name = $%d", filter.DeptName)
	}
	if filter.HiredAfter != nil {
		add("e.hire_date >= $%d", *filter.HiredAfter)
	}
	if filter.HiredBefore != nil {
		add("e.hire_date < $%d", *filter.HiredBefore)
	}
	return where, args
}
