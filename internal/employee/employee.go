package employee

import (
	"context"
	"time"

	employeeDatamodel "github.com/frahmantamala/onboarding-portal/internal/core/datamodel/employee"
)

type Employee = employeeDatamodel.Employee

type RepositoryAPI interface {
	// List returns employees without document payloads, newest first.
	List(ctx context.Context, activeOnly bool) ([]*Employee, error)
	// ActiveExcept returns every active employee other than the given record id.
	ActiveExcept(ctx context.Context, excludeID int64) ([]*Employee, error)
}

// Contact is the slice of an employee the notification fan-out needs.
type Contact struct {
	ID        int64
	FirstName string
	FullName  string
	Email     string
}

type EmployeeResponse struct {
	ID               int64      `json:"id"`
	EmployeeID       string     `json:"employeeId"`
	FirstName        string     `json:"firstName"`
	LastName         string     `json:"lastName"`
	FullName         string     `json:"fullName"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone,omitempty"`
	Department       string     `json:"department"`
	Position         string     `json:"position"`
	ReportingManager string     `json:"reportingManager,omitempty"`
	JoiningDate      *time.Time `json:"joiningDate,omitempty"`
	IsActive         bool       `json:"isActive"`
	CreatedAt        time.Time  `json:"createdAt"`
}

func toResponse(e *Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:               e.ID,
		EmployeeID:       e.EmployeeID,
		FirstName:        e.FirstName,
		LastName:         e.LastName,
		FullName:         e.FullName,
		Email:            e.Email,
		Phone:            e.Phone,
		Department:       e.Department,
		Position:         e.Position,
		ReportingManager: e.ReportingManager,
		JoiningDate:      e.JoiningDate,
		IsActive:         e.IsActive,
		CreatedAt:        e.CreatedAt,
	}
}
