package dashboard

import (
	"context"

	"github.com/frahmantamala/onboarding-portal/internal"
	"github.com/frahmantamala/onboarding-portal/internal/query"
)

type Service struct {
	counter Counter
}

func NewService(counter Counter) *Service {
	return &Service{counter: counter}
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	counts := []struct {
		dst        *int64
		collection string
		filters    query.Filters
	}{
		{&stats.TotalCandidates, query.CollectionCandidates, nil},
		{&stats.AcceptedOffers, query.CollectionCandidates, query.Filters{"offerStatus": "ACCEPTED"}},
		{&stats.PendingSubmissions, query.CollectionOnboardingSubmissions, query.Filters{"status": "SUBMITTED"}},
		{&stats.TotalEmployees, query.CollectionEmployees, nil},
		{&stats.ActiveEmployees, query.CollectionEmployees, query.Filters{"isActive": true}},
	}

	for _, c := range counts {
		n, err := s.counter.CountDocuments(ctx, c.collection, c.filters)
		if err != nil {
			return nil, internal.NewInternalError("failed to compute dashboard stats", err)
		}
		*c.dst = n
	}
	return stats, nil
}
