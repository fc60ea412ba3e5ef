package onboarding_test

import (
	"context"
	"errors"
	"sync"

	candidateDatamodel "github.com/frahmantamala/onboarding-portal/internal/core/datamodel/candidate"
	userDatamodel "github.com/frahmantamala/onboarding-portal/internal/core/datamodel/user"
	"github.com/frahmantamala/onboarding-portal/internal/core/events"
	"github.com/frahmantamala/onboarding-portal/internal/onboarding"
)

// MockRepository keeps submissions in memory and mirrors the conditional updates
// of the gorm repository.
type MockRepository struct {
	submissions map[int64]*onboarding.Submission
	nextID      int64
	employees   int
	activations []onboarding.ActivationPlan
	failError   error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{submissions: make(map[int64]*onboarding.Submission)}
}

func (m *MockRepository) Create(ctx context.Context, s *onboarding.Submission) error {
	if m.failError != nil {
		return m.failError
	}
	m.nextID++
	s.ID = m.nextID
	m.submissions[s.ID] = s
	return nil
}

func (m *MockRepository) GetByID(ctx context.Context, id int64, withDocuments bool) (*onboarding.Submission, error) {
	if m.failError != nil {
		return nil, m.failError
	}
	return m.submissions[id], nil
}

func (m *MockRepository) GetByPassToken(ctx context.Context, token string, withDocuments bool) (*onboarding.Submission, error) {
	for _, s := range m.submissions {
		if s.PassToken == token {
			return s, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) LatestForCandidate(ctx context.Context, candidateID int64) (*onboarding.Submission, error) {
	var latest *onboarding.Submission
	for _, s := range m.submissions {
		if s.CandidateID == candidateID && (latest == nil || s.ID > latest.ID) {
			latest = s
		}
	}
	return latest, nil
}

func (m *MockRepository) HasActiveForCandidate(ctx context.Context, candidateID int64) (bool, error) {
	for _, s := range m.submissions {
		if s.CandidateID == candidateID && s.Status != onboarding.StatusRejected {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockRepository) List(ctx context.Context) ([]*onboarding.Submission, error) {
	var out []*onboarding.Submission
	for _, s := range m.submissions {
		out = append(out, s)
	}
	return out, nil
}

func (m *MockRepository) ApplyReview(ctx context.Context, id int64, fromStatus string, review onboarding.Review) (bool, error) {
	s, ok := m.submissions[id]
	if !ok || s.Status != fromStatus {
		return false, nil
	}
	reviewedAt := review.ReviewedAt
	reviewer := review.ReviewerID
	s.Status = review.Status
	s.HRRemarks = review.Remarks
	s.ReviewedBy = &reviewer
	s.ReviewedAt = &reviewedAt
	if review.PassToken != "" {
		s.PassToken = review.PassToken
		s.PassTokenExpiresAt = review.PassTokenExpiresAt
		s.PassSentAt = &reviewedAt
		s.DateOfJoining = review.DateOfJoining
	}
	return true, nil
}

func (m *MockRepository) Activate(ctx context.Context, plan onboarding.ActivationPlan) (string, error) {
	s, ok := m.submissions[plan.SubmissionID]
	if !ok || s.Status != onboarding.StatusPassSent {
		return "", errors.New("submission not claimable")
	}
	m.employees++
	id := plan.IDPrefix + []string{"00001", "00002", "00003"}[m.employees-1]
	s.Status = onboarding.StatusPassAccepted
	s.EmployeeCreated = true
	s.EmployeeID = &id
	m.activations = append(m.activations, plan)
	return id, nil
}

type MockCandidates struct {
	byEmail map[string]*candidateDatamodel.Candidate
}

func (m *MockCandidates) GetByEmail(ctx context.Context, email string) (*candidateDatamodel.Candidate, error) {
	return m.byEmail[email], nil
}

func (m *MockCandidates) GetByID(ctx context.Context, id int64) (*candidateDatamodel.Candidate, error) {
	for _, c := range m.byEmail {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

type MockAccounts struct {
	byEmail map[string]*userDatamodel.User
}

func (m *MockAccounts) GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error) {
	return m.byEmail[email], nil
}

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

func completeInput() *onboarding.SubmitInput {
	docs := make(map[string][]onboarding.DocumentUpload)
	for _, field := range onboarding.RequiredDocuments {
		docs[field] = []onboarding.DocumentUpload{{
			Filename:    field + ".pdf",
			ContentType: "application/pdf",
			Data:        []byte("%PDF-" + field),
		}}
	}
	return &onboarding.SubmitInput{
		FirstName:         "Priya",
		LastName:          "Sharma",
		DateOfBirth:       "1996-04-12",
		Phone:             "+91 9876543210",
		BankAccountNumber: "123456789012",
		BankIFSC:          "hdfc0001234",
		TenthPercentage:   91.5,
		TwelfthPercentage: 88,
		DegreePercentage:  79.25,
		AadhaarNumber:     "123412341234",
		PANNumber:         "abcde1234f",
		AboutMe:           "Backend engineer.",
		Documents:         docs,
	}
}
