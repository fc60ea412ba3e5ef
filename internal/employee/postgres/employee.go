package postgres

import (
	"context"

	"github.com/frahmantamala/onboarding-portal/internal/employee"
	"gorm.io/gorm"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.RepositoryAPI {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) List(ctx context.Context, activeOnly bool) ([]*employee.Employee, error) {
	var employees []*employee.Employee
	q := r.db.WithContext(ctx)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Order("created_at DESC").Order("id DESC").Find(&employees).Error
	return employees, err
}

func (r *EmployeeRepository) ActiveExcept(ctx context.Context, excludeID int64) ([]*employee.Employee, error) {
	var employees []*employee.Employee
	err := r.db.WithContext(ctx).
		Select("id", "first_name", "full_name", "email").
		Where("is_active = ? AND id <> ?", true, excludeID).
		Order("id ASC").
		Find(&employees).Error
	return employees, err
}
