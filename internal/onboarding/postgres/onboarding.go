package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/onboarding-portal/internal"
	employeeDatamodel "github.com/frahmantamala/onboarding-portal/internal/core/datamodel/employee"
	userDatamodel "github.com/frahmantamala/onboarding-portal/internal/core/datamodel/user"
	"github.com/frahmantamala/onboarding-portal/internal/onboarding"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const employeeSequence = "employee_id"

type OnboardingRepository struct {
	db *gorm.DB
}

func NewOnboardingRepository(db *gorm.DB) onboarding.RepositoryAPI {
	return &OnboardingRepository{db: db}
}

// Create inserts the packet with its documents. At most one non-rejected packet
// may exist per candidate; a second one fails with ErrSubmissionExists.
func (r *OnboardingRepository) Create(ctx context.Context, submission *onboarding.Submission) error {
	err := r.db.WithContext(ctx).Create(submission).Error
	if isUniqueViolation(err) {
		return internal.ErrSubmissionExists
	}
	return err
}

func (r *OnboardingRepository) GetByID(ctx context.Context, id int64, withDocuments bool) (*onboarding.Submission, error) {
	return r.first(ctx, withDocuments, "id = ?", id)
}

func (r *OnboardingRepository) GetByPassToken(ctx context.Context, token string, withDocuments bool) (*onboarding.Submission, error) {
	return r.first(ctx, withDocuments, "pass_token = ?", token)
}

func (r *OnboardingRepository) LatestForCandidate(ctx context.Context, candidateID int64) (*onboarding.Submission, error) {
	var submission onboarding.Submission
	err := withDocuments(r.db.WithContext(ctx)).
		Where("candidate_id = ?", candidateID).
		Order("created_at DESC").Order("id DESC").
		First(&submission).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &submission, nil
}

// HasActiveForCandidate reports whether the candidate holds any submission that was not rejected.
func (r *OnboardingRepository) HasActiveForCandidate(ctx context.Context, candidateID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&onboarding.Submission{}).
		Where("candidate_id = ? AND status <> ?", candidateID, onboarding.StatusRejected).
		Count(&count).Error
	return count > 0, err
}

func (r *OnboardingRepository) List(ctx context.Context) ([]*onboarding.Submission, error) {
	var submissions []*onboarding.Submission
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&submissions).Error
	return submissions, err
}

func (r *OnboardingRepository) ApplyReview(ctx context.Context, id int64, fromStatus string, review onboarding.Review) (bool, error) {
	updates := map[string]interface{}{
		"status":      review.Status,
		"hr_remarks":  review.Remarks,
		"reviewed_by": review.ReviewerID,
		"reviewed_at": review.ReviewedAt,
	}
	if review.PassToken != "" {
		updates["pass_token"] = review.PassToken
		updates["pass_token_expires_at"] = review.PassTokenExpiresAt
		updates["pass_sent_at"] = review.ReviewedAt
		updates["date_of_joining"] = review.DateOfJoining
	}

	result := r.db.WithContext(ctx).Model(&onboarding.Submission{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Activate claims the pass, allocates the next employee id and links the account
// inside one transaction. A pass claimed concurrently rolls everything back.
func (r *OnboardingRepository) Activate(ctx context.Context, plan onboarding.ActivationPlan) (string, error) {
	var employeeID string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		claim := tx.Model(&onboarding.Submission{}).
			Where("id = ? AND status = ?", plan.SubmissionID, onboarding.StatusPassSent).
			Updates(map[string]interface{}{
				"status":           onboarding.StatusPassAccepted,
				"pass_accepted_at": plan.AcceptedAt,
			})
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return internal.ErrPassNotAcceptable
		}

		next, err := nextSequenceValue(tx, employeeSequence)
		if err != nil {
			return fmt.Errorf("allocate employee id: %w", err)
		}
		employeeID = fmt.Sprintf("%s%05d", plan.IDPrefix, next)

		plan.Employee.EmployeeID = employeeID
		if err := tx.Create(plan.Employee).Error; err != nil {
			return fmt.Errorf("create employee: %w", err)
		}

		account := tx.Model(&userDatamodel.User{}).
			Where("id = ?", plan.AccountID).
			Updates(map[string]interface{}{
				"password_hash": plan.PasswordHash,
				"employee_id":   employeeID,
			})
		if account.Error != nil {
			return fmt.Errorf("update account: %w", account.Error)
		}
		if account.RowsAffected == 0 {
			return internal.ErrAccountNotFound
		}

		return tx.Model(&onboarding.Submission{}).
			Where("id = ?", plan.SubmissionID).
			Updates(map[string]interface{}{
				"employee_created": true,
				"employee_id":      employeeID,
			}).Error
	})
	if err != nil {
		return "", err
	}
	return employeeID, nil
}

// nextSequenceValue increments the named counter, seeding it from the current
// employee count the first time it is used.
func nextSequenceValue(tx *gorm.DB, name string) (int64, error) {
	bump := tx.Model(&employeeDatamodel.Sequence{}).
		Where("name = ?", name).
		Update("value", gorm.Expr("value + 1"))
	if bump.Error != nil {
		return 0, bump.Error
	}

	if bump.RowsAffected == 0 {
		var existing int64
		if err := tx.Model(&employeeDatamodel.Employee{}).Count(&existing).Error; err != nil {
			return 0, err
		}
		seq := employeeDatamodel.Sequence{Name: name, Value: existing + 1}
		if err := tx.Create(&seq).Error; err != nil {
			return 0, err
		}
		return seq.Value, nil
	}

	var seq employeeDatamodel.Sequence
	if err := tx.Where("name = ?", name).First(&seq).Error; err != nil {
		return 0, err
	}
	return seq.Value, nil
}

func (r *OnboardingRepository) first(ctx context.Context, documents bool, query string, args ...interface{}) (*onboarding.Submission, error) {
	db := r.db.WithContext(ctx)
	if documents {
		db = withDocuments(db)
	}
	var submission onboarding.Submission
	if err := db.Where(query, args...).First(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &submission, nil
}

func withDocuments(db *gorm.DB) *gorm.DB {
	return db.Preload("Documents", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	})
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
