package onboarding

import (
	"context"
	"time"

	candidateDatamodel "github.com/frahmantamala/onboarding-portal/internal/core/datamodel/candidate"
	employeeDatamodel "github.com/frahmantamala/onboarding-portal/internal/core/datamodel/employee"
	onboardingDatamodel "github.com/frahmantamala/onboarding-portal/internal/core/datamodel/onboarding"
	userDatamodel "github.com/frahmantamala/onboarding-portal/internal/core/datamodel/user"
)

type Submission = onboardingDatamodel.Submission
type Document = onboardingDatamodel.Document

const (
	StatusSubmitted    = "SUBMITTED"
	StatusPassSent     = "PASS_SENT"
	StatusPassAccepted = "PASS_ACCEPTED"
	StatusRejected     = "REJECTED"
)

const (
	maxMultiDocuments = 5
	maxAboutMeLength  = 500
)

// RequiredDocuments must each carry exactly one file on submit.
var RequiredDocuments = []string{
	"tenthCertificate",
	"intermediateCertificate",
	"degreeCertificate",
	"aadhaarDocument",
	"panDocument",
	"addressProof",
	"profilePhoto",
}

var OptionalDocuments = []string{
	"semester1_1", "semester1_2",
	"semester2_1", "semester2_2",
	"semester3_1", "semester3_2",
	"semester4_1", "semester4_2",
	"provisionalCertificate",
}

const (
	FieldAdditionalCertificates = "additionalCertificates"
	FieldExperienceLetters      = "experienceLetters"
)

// MultiDocuments accept up to maxMultiDocuments files each.
var MultiDocuments = []string{FieldAdditionalCertificates, FieldExperienceLetters}

// DocumentFields lists every accepted upload field in display order.
func DocumentFields() []string {
	fields := make([]string, 0, len(RequiredDocuments)+len(OptionalDocuments)+len(MultiDocuments))
	fields = append(fields, RequiredDocuments...)
	fields = append(fields, OptionalDocuments...)
	fields = append(fields, MultiDocuments...)
	return fields
}

func isMultiDocument(field string) bool {
	for _, f := range MultiDocuments {
		if f == field {
			return true
		}
	}
	return false
}

// Review is the set of columns written by an approve or reject decision.
type Review struct {
	Status             string
	Remarks            string
	ReviewerID         int64
	ReviewedAt         time.Time
	PassToken          string
	PassTokenExpiresAt *time.Time
	DateOfJoining      *time.Time
}

// ActivationPlan is everything the pass acceptance writes, committed together.
type ActivationPlan struct {
	SubmissionID int64
	AccountID    int64
	PasswordHash string
	IDPrefix     string
	Employee     *employeeDatamodel.Employee
	AcceptedAt   time.Time
}

type RepositoryAPI interface {
	Create(ctx context.Context, submission *Submission) error
	GetByID(ctx context.Context, id int64, withDocuments bool) (*Submission, error)
	GetByPassToken(ctx context.Context, token string, withDocuments bool) (*Submission, error)
	LatestForCandidate(ctx context.Context, candidateID int64) (*Submission, error)
	HasActiveForCandidate(ctx context.Context, candidateID int64) (bool, error)
	List(ctx context.Context) ([]*Submission, error)
	// ApplyReview updates the submission only while it is still in fromStatus.
	ApplyReview(ctx context.Context, id int64, fromStatus string, review Review) (bool, error)
	// Activate creates the employee, updates the account and marks the submission
	// accepted in one transaction, returning the generated employee id.
	Activate(ctx context.Context, plan ActivationPlan) (string, error)
}

type CandidateLookup interface {
	GetByEmail(ctx context.Context, email string) (*candidateDatamodel.Candidate, error)
	GetByID(ctx context.Context, id int64) (*candidateDatamodel.Candidate, error)
}

type AccountLookup interface {
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
}
