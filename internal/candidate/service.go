package candidate

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/onboarding-portal/internal"
	"github.com/frahmantamala/onboarding-portal/internal/core/events"
	"github.com/frahmantamala/onboarding-portal/internal/onboarding"
	"github.com/google/uuid"
)

type Service struct {
	repo      RepositoryAPI
	accounts  AccountService
	hasher    PasswordHasher
	publisher events.Publisher
	config    internal.OnboardingConfig
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(
	repo RepositoryAPI,
	accounts AccountService,
	hasher PasswordHasher,
	publisher events.Publisher,
	config internal.OnboardingConfig,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:      repo,
		accounts:  accounts,
		hasher:    hasher,
		publisher: publisher,
		config:    config,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateCandidate records an offer and sends the offer email.
func (s *Service) CreateCandidate(ctx context.Context, creator *internal.User, req CreateCandidateRequest, letter *OfferLetter) (*CandidateResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, internal.NewInternalError("failed to check candidate", err)
	}
	if existing != nil {
		return nil, internal.ErrCandidateExists
	}

	c := &Candidate{
		FullName:             req.FullName,
		Email:                req.Email,
		Phone:                req.Phone,
		Position:             req.Position,
		Department:           req.Department,
		OfferStatus:          OfferStatusOffered,
		AcceptToken:          uuid.NewString(),
		AcceptTokenExpiresAt: s.now().UTC().Add(s.config.OfferTokenTTL),
		CreatedBy:            creator.ID,
	}
	if letter != nil && len(letter.Data) > 0 {
		c.OfferLetterFilename = letter.Filename
		c.OfferLetterContentType = letter.ContentType
		c.OfferLetter = letter.Data
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, internal.NewInternalError("failed to create candidate", err)
	}

	s.logger.Info("candidate created", "candidate_id", c.ID, "created_by", creator.ID)

	event := events.NewOfferCreatedEvent(c.ID, c.FullName, c.Email, c.Position, c.Department, c.AcceptToken, c.AcceptTokenExpiresAt)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish offer created event", "candidate_id", c.ID, "error", err)
	}

	resp := toResponse(c)
	return &resp, nil
}

func (s *Service) ListCandidates(ctx context.Context) ([]CandidateResponse, error) {
	candidates, err := s.repo.List(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to list candidates", err)
	}
	out := make([]CandidateResponse, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, toResponse(c))
	}
	return out, nil
}

func (s *Service) AcceptOffer(ctx context.Context, token string) (*CandidateResponse, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, internal.ErrInvalidOfferToken
	}

	c, err := s.repo.GetByAcceptToken(ctx, token)
	if err != nil {
		return nil, internal.NewInternalError("failed to load candidate", err)
	}
	if c == nil || !s.now().Before(c.AcceptTokenExpiresAt) {
		return nil, internal.ErrInvalidOfferToken
	}
	if c.OfferStatus == OfferStatusAccepted {
		return nil, internal.ErrOfferAlreadyAccepted
	}
	if c.OfferStatus != OfferStatusOffered {
		return nil, internal.ErrInvalidOfferToken
	}

	at := s.now().UTC()
	ok, err := s.repo.MarkAccepted(ctx, c.ID, at)
	if err != nil {
		return nil, internal.NewInternalError("failed to accept offer", err)
	}
	if !ok {
		return nil, internal.ErrOfferAlreadyAccepted
	}

	c.OfferStatus = OfferStatusAccepted
	c.OfferAcceptedAt = &at
	s.logger.Info("offer accepted", "candidate_id", c.ID)

	resp := toResponse(c)
	return &resp, nil
}

// TriggerJoining opens an EMPLOYEE account for an accepted candidate. The plaintext
// password is returned once and only its hash is stored.
func (s *Service) TriggerJoining(ctx context.Context, id int64) (*JoiningCredentials, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load candidate", err)
	}
	if c == nil {
		return nil, internal.ErrCandidateNotFound
	}
	if c.OfferStatus != OfferStatusAccepted {
		return nil, internal.ErrOfferNotAccepted
	}
	if c.JoiningTriggered {
		return nil, internal.ErrJoiningAlreadyTriggered
	}

	password := onboarding.InitialPassword(c.FullName, s.config.PasswordSuffix)
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	// Claiming the flag first keeps concurrent triggers from both creating accounts.
	ok, err := s.repo.MarkJoiningTriggered(ctx, c.ID, s.now().UTC())
	if err != nil {
		return nil, internal.NewInternalError("failed to mark joining", err)
	}
	if !ok {
		return nil, internal.ErrJoiningAlreadyTriggered
	}

	account, err := s.accounts.CreateAccount(ctx, c.Email, c.FullName, hash, internal.RoleEmployee)
	if err != nil {
		if clearErr := s.repo.ClearJoiningTriggered(ctx, c.ID); clearErr != nil {
			s.logger.Error("failed to release joining flag", "candidate_id", c.ID, "error", clearErr)
		}
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		return nil, internal.NewInternalError("failed to create account", err)
	}

	s.logger.Info("joining triggered", "candidate_id", c.ID, "account_id", account.ID)

	if err := s.publisher.Publish(ctx, events.NewJoiningTriggeredEvent(c.ID, c.FullName, c.Email, password)); err != nil {
		s.logger.Error("failed to publish joining triggered event", "candidate_id", c.ID, "error", err)
	}

	return &JoiningCredentials{Email: c.Email, TempPassword: password}, nil
}
