package candidate

import (
	"regexp"
	"strings"
	"time"

	"github.com/frahmantamala/onboarding-portal/internal"
	"github.com/frahmantamala/onboarding-portal/internal/core/common/validation"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9 ()-]{7,20}$`)

type CreateCandidateRequest struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Position   string `json:"position"`
	Department string `json:"department"`
}

// Validate normalizes the request in place and checks every field.
func (req *CreateCandidateRequest) Validate() *internal.AppError {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	req.Position = strings.TrimSpace(req.Position)
	req.Department = strings.TrimSpace(req.Department)

	v := validation.NewValidator()
	v.Field("fullName", req.FullName).Required().MaxLength(150)
	v.Field("email", req.Email).Required().Email()
	v.Field("phone", req.Phone).Required().Matches(phonePattern, "phone must be a valid phone number")
	v.Field("position", req.Position).Required().MaxLength(100)
	v.Field("department", req.Department).Required().MaxLength(100)
	return v.Validate()
}

type OfferLetter struct {
	Filename    string
	ContentType string
	Data        []byte
}

type CandidateResponse struct {
	ID               int64      `json:"id"`
	FullName         string     `json:"fullName"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone"`
	Position         string     `json:"position"`
	Department       string     `json:"department"`
	OfferStatus      string     `json:"offerStatus"`
	HasOfferLetter   bool       `json:"hasOfferLetter"`
	OfferAcceptedAt  *time.Time `json:"offerAcceptedAt,omitempty"`
	JoiningTriggered bool       `json:"joiningTriggered"`
	CreatedAt        time.Time  `json:"createdAt"`
}

type JoiningCredentials struct {
	Email        string `json:"email"`
	TempPassword string `json:"tempPassword"`
}

func toResponse(c *Candidate) CandidateResponse {
	return CandidateResponse{
		ID:               c.ID,
		FullName:         c.FullName,
		Email:            c.Email,
		Phone:            c.Phone,
		Position:         c.Position,
		Department:       c.Department,
		OfferStatus:      c.OfferStatus,
		HasOfferLetter:   len(c.OfferLetter) > 0,
		OfferAcceptedAt:  c.OfferAcceptedAt,
		JoiningTriggered: c.JoiningTriggered,
		CreatedAt:        c.CreatedAt,
	}
}
