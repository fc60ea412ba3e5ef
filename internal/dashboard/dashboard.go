package dashboard

import (
	"context"

	"github.com/frahmantamala/onboarding-portal/internal/query"
)

// Counter is the count operation of the query gateway.
type Counter interface {
	CountDocuments(ctx context.Context, collection string, filters query.Filters) (int64, error)
}

type Stats struct {
	TotalCandidates    int64 `json:"totalCandidates"`
	AcceptedOffers     int64 `json:"acceptedOffers"`
	PendingSubmissions int64 `json:"pendingSubmissions"`
	TotalEmployees     int64 `json:"totalEmployees"`
	ActiveEmployees    int64 `json:"activeEmployees"`
}
