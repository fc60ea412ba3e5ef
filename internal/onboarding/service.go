package onboarding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/frahmantamala/onboarding-portal/internal"
	"github.com/frahmantamala/onboarding-portal/internal/core/common/validation"
	employeeDatamodel "github.com/frahmantamala/onboarding-portal/internal/core/datamodel/employee"
	"github.com/frahmantamala/onboarding-portal/internal/core/events"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var (
	aadhaarPattern = regexp.MustCompile(`^\d{12}$`)
	panPattern     = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
)

type Service struct {
	repo       RepositoryAPI
	candidates CandidateLookup
	accounts   AccountLookup
	hasher     PasswordHasher
	publisher  events.Publisher
	config     internal.OnboardingConfig
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(
	repo RepositoryAPI,
	candidates CandidateLookup,
	accounts AccountLookup,
	hasher PasswordHasher,
	publisher events.Publisher,
	config internal.OnboardingConfig,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:       repo,
		candidates: candidates,
		accounts:   accounts,
		hasher:     hasher,
		publisher:  publisher,
		config:     config,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock overrides the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Submit creates a SUBMITTED packet for the candidate behind the authenticated user.
func (s *Service) Submit(ctx context.Context, user *internal.User, input *SubmitInput) (*ReviewResult, error) {
	candidate, err := s.candidates.GetByEmail(ctx, user.Email)
	if err != nil {
		return nil, internal.NewInternalError("failed to load candidate", err)
	}
	if candidate == nil {
		return nil, internal.ErrCandidateNotFound
	}

	active, err := s.repo.HasActiveForCandidate(ctx, candidate.ID)
	if err != nil {
		return nil, internal.NewInternalError("failed to check existing submission", err)
	}
	if active {
		return nil, internal.ErrSubmissionExists
	}

	if err := validateDocuments(input); err != nil {
		return nil, err
	}

	dob, err := s.validateFields(input)
	if err != nil {
		return nil, err
	}

	companies, err := json.Marshal(nonNilCompanies(input.PreviousCompanies))
	if err != nil {
		return nil, internal.NewInternalError("failed to encode previous companies", err)
	}

	submission := &Submission{
		CandidateID:       candidate.ID,
		UserID:            user.ID,
		Status:            StatusSubmitted,
		PreviousCompanies: datatypes.JSON(companies),
		Documents:         buildDocuments(input.Documents),
	}
	p := &submission.Profile
	p.FirstName = strings.TrimSpace(input.FirstName)
	p.MiddleName = strings.TrimSpace(input.MiddleName)
	p.LastName = strings.TrimSpace(input.LastName)
	p.FullName = candidate.FullName
	p.Email = candidate.Email
	p.Department = candidate.Department
	p.Position = candidate.Position
	p.Phone = strings.TrimSpace(input.Phone)
	p.DateOfBirth = dob
	p.LinkedinURL = input.LinkedinURL
	p.Address = input.Address
	p.City = input.City
	p.State = input.State
	p.Pincode = input.Pincode
	p.EmergencyContactName = input.EmergencyContactName
	p.EmergencyContactPhone = input.EmergencyContactPhone
	p.EmergencyContactRelation = input.EmergencyContactRelation
	p.BankAccountNumber = input.BankAccountNumber
	p.BankName = input.BankName
	p.BankIFSC = strings.ToUpper(input.BankIFSC)
	p.SelfDescription = input.SelfDescription
	p.TenthPercentage = input.TenthPercentage
	p.TwelfthPercentage = input.TwelfthPercentage
	p.DegreePercentage = input.DegreePercentage
	p.TotalExperience = input.TotalExperience
	p.AadhaarNumber = input.AadhaarNumber
	p.PANNumber = strings.ToUpper(input.PANNumber)
	p.AboutMe = input.AboutMe

	if err := s.repo.Create(ctx, submission); err != nil {
		if errors.Is(err, internal.ErrSubmissionExists) {
			return nil, internal.ErrSubmissionExists
		}
		return nil, internal.NewInternalError("failed to save submission", err)
	}

	s.logger.Info("onboarding submitted",
		"submission_id", submission.ID,
		"candidate_id", candidate.ID,
		"documents", len(submission.Documents))

	return &ReviewResult{ID: submission.ID, Status: submission.Status}, nil
}

func validateDocuments(input *SubmitInput) error {
	for _, field := range RequiredDocuments {
		if len(input.Documents[field]) == 0 {
			return internal.ErrMissingDocuments
		}
	}

	for field, files := range input.Documents {
		limit := 1
		if isMultiDocument(field) {
			limit = maxMultiDocuments
		}
		if len(files) > limit {
			return internal.NewValidationFieldError(field,
				fmt.Sprintf("%s accepts at most %d file(s)", field, limit),
				internal.ErrCodeTooManyDocuments)
		}
		for _, f := range files {
			if len(f.Data) == 0 {
				return internal.NewValidationFieldError(field, fmt.Sprintf("%s is empty", field), internal.ErrCodeMissingDocument)
			}
		}
	}

	if input.TotalExperience > 0 && len(input.Documents[FieldExperienceLetters]) == 0 {
		return internal.ErrMissingExperienceDocs
	}
	return nil
}

func (s *Service) validateFields(input *SubmitInput) (*time.Time, error) {
	dob, dateErr := validation.ParseDate("dateOfBirth", input.DateOfBirth)
	if dateErr != nil {
		return nil, dateErr
	}

	input.PANNumber = strings.ToUpper(strings.TrimSpace(input.PANNumber))
	input.AadhaarNumber = strings.TrimSpace(input.AadhaarNumber)

	v := validation.NewValidator()
	v.Field("firstName", input.FirstName).Required().MaxLength(100)
	v.Field("lastName", input.LastName).Required().MaxLength(100)
	v.Field("phone", input.Phone).Required().MaxLength(20)
	v.Field("dateOfBirth", dob).Required().NotFuture()
	v.Field("aadhaarNumber", input.AadhaarNumber).Required().Matches(aadhaarPattern, "aadhaarNumber must be 12 digits")
	v.Field("panNumber", input.PANNumber).Required().Matches(panPattern, "panNumber must look like ABCDE1234F")
	v.Field("aboutMe", input.AboutMe).MaxLength(maxAboutMeLength)
	v.Field("tenthPercentage", input.TenthPercentage).Between(0, 100)
	v.Field("twelthPercentage", input.TwelfthPercentage).Between(0, 100)
	v.Field("degreePercentage", input.DegreePercentage).Between(0, 100)
	v.Field("totalExperience", input.TotalExperience).Between(0, 60)

	if err := v.Validate(); err != nil {
		return nil, err
	}
	return dob, nil
}

func buildDocuments(uploads map[string][]DocumentUpload) []Document {
	var docs []Document
	for _, field := range DocumentFields() {
		for i, f := range uploads[field] {
			contentType := f.ContentType
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			docs = append(docs, Document{
				Field:       field,
				Position:    i,
				Filename:    f.Filename,
				ContentType: contentType,
				Data:        f.Data,
			})
		}
	}
	return docs
}

func nonNilCompanies(list []PreviousCompany) []PreviousCompany {
	if list == nil {
		return []PreviousCompany{}
	}
	return list
}

func (s *Service) GetMySubmission(ctx context.Context, user *internal.User) (*MySubmissionResponse, error) {
	candidate, err := s.candidates.GetByEmail(ctx, user.Email)
	if err != nil {
		return nil, internal.NewInternalError("failed to load candidate", err)
	}
	if candidate == nil {
		return nil, internal.ErrCandidateNotFound
	}

	resp := &MySubmissionResponse{
		Candidate: CandidateSummary{
			FullName:   candidate.FullName,
			Email:      candidate.Email,
			Position:   candidate.Position,
			Department: candidate.Department,
		},
	}

	submission, err := s.repo.LatestForCandidate(ctx, candidate.ID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load submission", err)
	}
	if submission != nil {
		resp.Submission = toResponse(submission)
	}
	return resp, nil
}

func (s *Service) ListSubmissions(ctx context.Context) ([]SubmissionSummary, error) {
	submissions, err := s.repo.List(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to list submissions", err)
	}
	out := make([]SubmissionSummary, 0, len(submissions))
	for _, sub := range submissions {
		out = append(out, toSummary(sub))
	}
	return out, nil
}

func (s *Service) GetSubmission(ctx context.Context, id int64) (*SubmissionResponse, error) {
	submission, err := s.repo.GetByID(ctx, id, true)
	if err != nil {
		return nil, internal.NewInternalError("failed to load submission", err)
	}
	if submission == nil {
		return nil, internal.ErrSubmissionNotFound
	}
	return toResponse(submission), nil
}

// Approve issues the onboarding pass. Only SUBMITTED packets can be approved.
func (s *Service) Approve(ctx context.Context, id int64, reviewer *internal.User, req ApproveRequest) (*ReviewResult, error) {
	submission, err := s.repo.GetByID(ctx, id, false)
	if err != nil {
		return nil, internal.NewInternalError("failed to load submission", err)
	}
	if submission == nil {
		return nil, internal.ErrSubmissionNotFound
	}

	switch submission.Status {
	case StatusSubmitted:
	case StatusPassSent, StatusPassAccepted:
		return nil, internal.ErrSubmissionApproved
	default:
		return nil, internal.ErrSubmissionNotPending
	}

	if strings.TrimSpace(req.DateOfJoining) == "" {
		return nil, internal.NewValidationFieldError("dateOfJoining", "Date of Joining is required", internal.ErrCodeValidationFailed)
	}
	doj, dateErr := validation.ParseDate("dateOfJoining", req.DateOfJoining)
	if dateErr != nil {
		return nil, dateErr
	}

	now := s.now().UTC()
	expiresAt := now.Add(s.config.PassTokenTTL)
	review := Review{
		Status:             StatusPassSent,
		Remarks:            strings.TrimSpace(req.Remarks),
		ReviewerID:         reviewer.ID,
		ReviewedAt:         now,
		PassToken:          uuid.NewString(),
		PassTokenExpiresAt: &expiresAt,
		DateOfJoining:      doj,
	}

	applied, err := s.repo.ApplyReview(ctx, submission.ID, StatusSubmitted, review)
	if err != nil {
		return nil, internal.NewInternalError("failed to approve submission", err)
	}
	if !applied {
		return nil, internal.ErrSubmissionNotPending
	}

	s.logger.Info("submission approved",
		"submission_id", submission.ID,
		"reviewer_id", reviewer.ID,
		"date_of_joining", doj.Format("2006-01-02"))

	event := events.NewPassIssuedEvent(submission.ID, submission.Profile.FullName, submission.Profile.Email, review.PassToken, *doj)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish pass issued event", "submission_id", submission.ID, "error", err)
	}

	return &ReviewResult{
		ID:       submission.ID,
		Status:   StatusPassSent,
		FullName: submission.Profile.FullName,
		Email:    submission.Profile.Email,
	}, nil
}

// Reject closes a SUBMITTED packet; the candidate may submit again afterwards.
func (s *Service) Reject(ctx context.Context, id int64, reviewer *internal.User, req RejectRequest) (*ReviewResult, error) {
	remarks := strings.TrimSpace(req.Remarks)
	if remarks == "" {
		return nil, internal.NewValidationFieldError("remarks", "Rejection remarks are required", internal.ErrCodeValidationFailed)
	}

	submission, err := s.repo.GetByID(ctx, id, false)
	if err != nil {
		return nil, internal.NewInternalError("failed to load submission", err)
	}
	if submission == nil {
		return nil, internal.ErrSubmissionNotFound
	}
	if submission.Status != StatusSubmitted {
		return nil, internal.ErrSubmissionNotPending
	}

	applied, err := s.repo.ApplyReview(ctx, submission.ID, StatusSubmitted, Review{
		Status:     StatusRejected,
		Remarks:    remarks,
		ReviewerID: reviewer.ID,
		ReviewedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, internal.NewInternalError("failed to reject submission", err)
	}
	if !applied {
		return nil, internal.ErrSubmissionNotPending
	}

	s.logger.Info("submission rejected", "submission_id", submission.ID, "reviewer_id", reviewer.ID)

	return &ReviewResult{ID: submission.ID, Status: StatusRejected, Remarks: remarks}, nil
}

func (s *Service) PassDetails(ctx context.Context, token string) (*PassDetails, error) {
	submission, err := s.loadPass(ctx, token, false)
	if err != nil {
		return nil, err
	}
	if submission == nil {
		return nil, internal.ErrInvalidPassToken
	}

	first, last := submission.Profile.FirstName, submission.Profile.LastName
	if first == "" {
		first, last = splitName(submission.Profile.FullName)
	}
	return &PassDetails{
		FirstName:     first,
		LastName:      last,
		Email:         submission.Profile.Email,
		Department:    submission.Profile.Department,
		DateOfJoining: submission.DateOfJoining,
	}, nil
}

// AcceptPass turns an issued pass into an employee record and permanent credentials.
func (s *Service) AcceptPass(ctx context.Context, token string) (*ActivatedEmployee, error) {
	submission, err := s.loadPass(ctx, token, true)
	if err != nil {
		return nil, err
	}
	if submission == nil {
		return nil, internal.ErrPassNotAcceptable
	}

	profile := submission.Profile
	account, err := s.accounts.GetByEmail(ctx, profile.Email)
	if err != nil {
		return nil, internal.NewInternalError("failed to load account", err)
	}
	if account == nil {
		return nil, internal.ErrAccountNotFound
	}

	position := s.config.DefaultPosition
	candidate, err := s.candidates.GetByID(ctx, submission.CandidateID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load candidate", err)
	}
	if candidate != nil && candidate.Position != "" {
		position = candidate.Position
	}

	password := InitialPassword(profile.FullName, s.config.PasswordSuffix)
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	employee := s.buildEmployee(submission, account.ID, position)
	employeeID, err := s.repo.Activate(ctx, ActivationPlan{
		SubmissionID: submission.ID,
		AccountID:    account.ID,
		PasswordHash: hash,
		IDPrefix:     s.config.EmployeeIDPrefix,
		Employee:     employee,
		AcceptedAt:   s.now().UTC(),
	})
	if err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		return nil, internal.NewInternalError("failed to activate employee", err)
	}

	s.logger.Info("onboarding pass accepted",
		"submission_id", submission.ID,
		"employee_id", employeeID,
		"account_id", account.ID)

	event := events.NewPassAcceptedEvent(submission.ID, employee.ID, employeeID, employee.FullName,
		employee.FirstName, employee.Email, employee.Department, employee.Position, password)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish pass accepted event", "submission_id", submission.ID, "error", err)
	}

	return &ActivatedEmployee{
		EmployeeID: employeeID,
		FullName:   employee.FullName,
		Email:      employee.Email,
		Department: employee.Department,
	}, nil
}

// loadPass returns nil when the token is unknown, consumed or expired.
func (s *Service) loadPass(ctx context.Context, token string, withDocuments bool) (*Submission, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}
	submission, err := s.repo.GetByPassToken(ctx, token, withDocuments)
	if err != nil {
		return nil, internal.NewInternalError("failed to load onboarding pass", err)
	}
	if submission == nil || submission.Status != StatusPassSent {
		return nil, nil
	}
	if submission.PassTokenExpiresAt != nil && !s.now().Before(*submission.PassTokenExpiresAt) {
		s.logger.Info("onboarding pass expired", "submission_id", submission.ID)
		return nil, nil
	}
	return submission, nil
}

func (s *Service) buildEmployee(submission *Submission, accountID int64, position string) *employeeDatamodel.Employee {
	p := submission.Profile
	first, last := p.FirstName, p.LastName
	if first == "" || last == "" {
		splitFirst, splitLast := splitName(p.FullName)
		if first == "" {
			first = splitFirst
		}
		if last == "" {
			last = splitLast
		}
	}
	aboutMe := p.SelfDescription
	if aboutMe == "" {
		aboutMe = p.AboutMe
	}

	accountRef := accountID
	employee := &employeeDatamodel.Employee{
		UserID:                 &accountRef,
		OnboardingSubmissionID: submission.ID,
		FirstName:              first,
		MiddleName:             p.MiddleName,
		LastName:               last,
		FullName:               p.FullName,
		Email:                  p.Email,
		Phone:                  p.Phone,
		DateOfBirth:            p.DateOfBirth,
		LinkedinURL:            p.LinkedinURL,
		Department:             p.Department,
		Position:               position,
		AboutMe:                aboutMe,
		JoiningDate:            submission.DateOfJoining,
		IsActive:               true,
	}
	for _, d := range submission.Documents {
		employee.Documents = append(employee.Documents, employeeDatamodel.Document{
			Field:       d.Field,
			Position:    d.Position,
			Filename:    d.Filename,
			ContentType: d.ContentType,
			Data:        d.Data,
		})
	}
	return employee
}
