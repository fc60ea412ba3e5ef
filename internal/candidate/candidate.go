package candidate

import (
	"context"
	"time"

	"github.com/frahmantamala/onboarding-portal/internal"
	candidateDatamodel "github.com/frahmantamala/onboarding-portal/internal/core/datamodel/candidate"
	"github.com/frahmantamala/onboarding-portal/internal/user"
)

type Candidate = candidateDatamodel.Candidate

const (
	OfferStatusOffered  = "OFFERED"
	OfferStatusAccepted = "ACCEPTED"
	OfferStatusRejected = "REJECTED"
	OfferStatusExpired  = "EXPIRED"
)

type RepositoryAPI interface {
	Create(ctx context.Context, c *Candidate) error
	GetByID(ctx context.Context, id int64) (*Candidate, error)
	GetByEmail(ctx context.Context, email string) (*Candidate, error)
	GetByAcceptToken(ctx context.Context, token string) (*Candidate, error)
	List(ctx context.Context) ([]*Candidate, error)
	// MarkAccepted flips an OFFERED candidate to ACCEPTED; false when it was not OFFERED.
	MarkAccepted(ctx context.Context, id int64, at time.Time) (bool, error)
	// MarkJoiningTriggered sets the flag once; false when it was already set.
	MarkJoiningTriggered(ctx context.Context, id int64, at time.Time) (bool, error)
	// ClearJoiningTriggered undoes MarkJoiningTriggered.
	ClearJoiningTriggered(ctx context.Context, id int64) error
}

type AccountService interface {
	CreateAccount(ctx context.Context, email, fullName, passwordHash string, role internal.Role) (*user.User, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
}
