package entity

import "time"

// SubjectRecord is the employee a case is about, as seen by the lifecycle module.
type SubjectRecord struct {
	ID             string       `json:"id" db:"id"`
	EmployeeNumber string       `json:"employee_number" db:"employee_number"`
	FirstName      string       `json:"first_name" db:"first_name"`
	LastName       string       `json:"last_name" db:"last_name"`
	Email          string       `json:"email" db:"email"`
	Role           EmployeeRole `json:"role" db:"role"`
	DepartmentID   *string      `json:"department_id,omitempty" db:"department_id"`
	ManagerID      *string      `json:"manager_id,omitempty" db:"manager_id"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
}

func (s *SubjectRecord) FullName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

type EmployeeRole string

const (
	RoleHRAdmin   EmployeeRole = "hr_admin"
	RoleHRManager EmployeeRole = "hr_manager"
	RoleManager   EmployeeRole = "manager"
	RoleEmployee  EmployeeRole = "employee"
)

func (r EmployeeRole) IsValid() bool {
	switch r {
	case RoleHRAdmin, RoleHRManager, RoleManager, RoleEmployee:
		return true
	}
	return false
}
