package employee

import (
	"context"

	"github.com/frahmantamala/onboarding-portal/internal"
)

type Service struct {
	repo RepositoryAPI
}

func NewService(repo RepositoryAPI) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListEmployees(ctx context.Context, activeOnly bool) ([]EmployeeResponse, error) {
	employees, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, internal.NewInternalError("failed to list employees", err)
	}
	out := make([]EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		out = append(out, toResponse(e))
	}
	return out, nil
}

// Colleagues lists the active employees a new joiner should be announced to.
func (s *Service) Colleagues(ctx context.Context, newJoinerID int64) ([]Contact, error) {
	employees, err := s.repo.ActiveExcept(ctx, newJoinerID)
	if err != nil {
		return nil, err
	}
	contacts := make([]Contact, 0, len(employees))
	for _, e := range employees {
		contacts = append(contacts, Contact{ID: e.ID, FirstName: e.FirstName, FullName: e.FullName, Email: e.Email})
	}
	return contacts, nil
}
