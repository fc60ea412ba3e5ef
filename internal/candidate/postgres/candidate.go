package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/onboarding-portal/internal/candidate"
	"gorm.io/gorm"
)

type CandidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) candidate.RepositoryAPI {
	return &CandidateRepository{db: db}
}

func (r *CandidateRepository) Create(ctx context.Context, c *candidate.Candidate) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CandidateRepository) GetByID(ctx context.Context, id int64) (*candidate.Candidate, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *CandidateRepository) GetByEmail(ctx context.Context, email string) (*candidate.Candidate, error) {
	return r.first(ctx, "LOWER(email) = LOWER(?)", email)
}

func (r *CandidateRepository) GetByAcceptToken(ctx context.Context, token string) (*candidate.Candidate, error) {
	return r.first(ctx, "accept_token = ?", token)
}

// List omits offer letter payloads.
func (r *CandidateRepository) List(ctx context.Context) ([]*candidate.Candidate, error) {
	var candidates []*candidate.Candidate
	err := r.db.WithContext(ctx).
		Omit("offer_letter_data").
		Order("created_at DESC").Order("id DESC").
		Find(&candidates).Error
	return candidates, err
}

func (r *CandidateRepository) MarkAccepted(ctx context.Context, id int64, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&candidate.Candidate{}).
		Where("id = ? AND offer_status = ?", id, candidate.OfferStatusOffered).
		Updates(map[string]interface{}{
			"offer_status":      candidate.OfferStatusAccepted,
			"offer_accepted_at": at,
		})
	return result.RowsAffected > 0, result.Error
}

func (r *CandidateRepository) MarkJoiningTriggered(ctx context.Context, id int64, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&candidate.Candidate{}).
		Where("id = ? AND joining_triggered = ?", id, false).
		Updates(map[string]interface{}{
			"joining_triggered":    true,
			"joining_triggered_at": at,
		})
	return result.RowsAffected > 0, result.Error
}

func (r *CandidateRepository) ClearJoiningTriggered(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&candidate.Candidate{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"joining_triggered":    false,
			"joining_triggered_at": nil,
		}).Error
}

func (r *CandidateRepository) first(ctx context.Context, query string, args ...interface{}) (*candidate.Candidate, error) {
	var c candidate.Candidate
	err := r.db.WithContext(ctx).Where(query, args...).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
