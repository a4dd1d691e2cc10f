package service

import (
	"fmt"
	"html"

	"github.com/locvowork/employee_management_sample/gridexport/internal/domain"
	"github.com/locvowork/employee_management_sample/gridexport/pkg/gridexport"
)

var genderLabels = map[string]string{
	"M": "Male",
	"F": "Female",
}

// EmployeeColumns is the employee grid. The name column renders a link on
// screen and plain text in exports.
func EmployeeColumns() []gridexport.Column {
	salary := gridexport.DataColumn("Salary", "Current Salary", gridexport.FormatCurrency)
	salary.Footer = "Confidential"

	return []gridexport.Column{
		{Kind: gridexport.KindCheckbox},
		gridexport.SerialColumn("#"),
		gridexport.DataColumn("EmpNo", "Employee No", gridexport.FormatText),
		{
			Kind:   gridexport.KindGeneric,
			Header: "Name",
			Footer: "Employees",
			Value: func(record any, key any, _ int) (any, error) {
				e, ok := record.(domain.Employee)
				if !ok {
					return nil, fmt.Errorf("unexpected record %T", record)
				}
				return fmt.Sprintf(`<a href="/employees/%v">%s</a>`, key, html.EscapeString(e.FullName())), nil
			},
			ExportValue: func(record any, _ any, _ int) (any, error) {
				e, ok := record.(domain.Employee)
				if !ok {
					return nil, fmt.Errorf("unexpected record %T", record)
				}
				return e.FullName(), nil
			},
		},
		{
			Kind:      gridexport.KindPlain,
			Attribute: "Gender",
			ExportValue: func(record any, _ any, _ int) (any, error) {
				g := gridexport.AttributeValue(record, "Gender")
				if label, ok := genderLabels[fmt.Sprint(g)]; ok {
					return label, nil
				}
				return g, nil
			},
		},
		gridexport.DataColumn("BirthDate", "", gridexport.FormatDate),
		gridexport.DataColumn("HireDate", "Hired", gridexport.FormatDate),
		gridexport.DataColumn("DeptName", "Department", gridexport.FormatText),
		salary,
		{Kind: gridexport.KindAction, Header: "Actions"},
	}
}

// TaskColumns is the task grid.
func TaskColumns() []gridexport.Column {
	return []gridexport.Column{
		gridexport.SerialColumn("#"),
		gridexport.DataColumn("ID", "Task ID", gridexport.FormatText),
		gridexport.DataColumn("Description", "", gridexport.FormatNText),
		gridexport.DataColumn("Priority", "", gridexport.FormatInteger),
		gridexport.DataColumn("Done", "", gridexport.FormatBoolean),
		gridexport.DataColumn("CreatedAt", "Created", gridexport.FormatDatetime),
		{Kind: gridexport.KindMenu, Header: "More"},
	}
}
