package onboarding

import (
	"encoding/json"
	"time"
)

type DocumentUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

type PreviousCompany struct {
	CompanyName string `json:"companyName"`
	Designation string `json:"designation"`
	Duration    string `json:"duration"`
}

// SubmitInput is the parsed multipart submission.
type SubmitInput struct {
	FirstName                string
	MiddleName               string
	LastName                 string
	DateOfBirth              string
	Phone                    string
	LinkedinURL              string
	Address                  string
	City                     string
	State                    string
	Pincode                  string
	EmergencyContactName     string
	EmergencyContactPhone    string
	EmergencyContactRelation string
	BankAccountNumber        string
	BankName                 string
	BankIFSC                 string
	SelfDescription          string
	TenthPercentage          float64
	TwelfthPercentage        float64
	DegreePercentage         float64
	TotalExperience          float64
	PreviousCompanies        []PreviousCompany
	AadhaarNumber            string
	PANNumber                string
	AboutMe                  string
	Documents                map[string][]DocumentUpload
}

type ApproveRequest struct {
	Remarks       string `json:"remarks"`
	DateOfJoining string `json:"dateOfJoining"`
}

type RejectRequest struct {
	Remarks string `json:"remarks"`
}

// DocumentResponse renders Data as base64 through encoding/json.
type DocumentResponse struct {
	Field       string `json:"field"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"data,omitempty"`
}

type SubmissionSummary struct {
	ID              int64      `json:"id"`
	CandidateID     int64      `json:"candidateId"`
	FullName        string     `json:"fullName"`
	Email           string     `json:"email"`
	Department      string     `json:"department"`
	Position        string     `json:"position"`
	Status          string     `json:"status"`
	DateOfJoining   *time.Time `json:"dateOfJoining,omitempty"`
	ReviewedAt      *time.Time `json:"reviewedAt,omitempty"`
	EmployeeCreated bool       `json:"employeeCreated"`
	EmployeeID      *string    `json:"employeeId,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

type SubmissionResponse struct {
	SubmissionSummary
	FirstName                string             `json:"firstName"`
	MiddleName               string             `json:"middleName,omitempty"`
	LastName                 string             `json:"lastName"`
	Phone                    string             `json:"phone"`
	DateOfBirth              *time.Time         `json:"dateOfBirth,omitempty"`
	LinkedinURL              string             `json:"linkedinUrl,omitempty"`
	Address                  string             `json:"address,omitempty"`
	City                     string             `json:"city,omitempty"`
	State                    string             `json:"state,omitempty"`
	Pincode                  string             `json:"pincode,omitempty"`
	EmergencyContactName     string             `json:"emergencyContactName,omitempty"`
	EmergencyContactPhone    string             `json:"emergencyContactPhone,omitempty"`
	EmergencyContactRelation string             `json:"emergencyContactRelation,omitempty"`
	BankAccountNumber        string             `json:"bankAccountNumber,omitempty"`
	BankName                 string             `json:"bankName,omitempty"`
	BankIFSC                 string             `json:"bankIFSC,omitempty"`
	SelfDescription          string             `json:"selfDescription,omitempty"`
	TenthPercentage          float64            `json:"tenthPercentage"`
	TwelfthPercentage        float64            `json:"twelthPercentage"`
	DegreePercentage         float64            `json:"degreePercentage"`
	TotalExperience          float64            `json:"totalExperience"`
	PreviousCompanies        []PreviousCompany  `json:"previousCompanies"`
	AadhaarNumber            string             `json:"aadhaarNumber,omitempty"`
	PANNumber                string             `json:"panNumber,omitempty"`
	AboutMe                  string             `json:"aboutMe,omitempty"`
	HRRemarks                string             `json:"hrRemarks,omitempty"`
	ReviewedBy               *int64             `json:"reviewedBy,omitempty"`
	PassSentAt               *time.Time         `json:"passSentAt,omitempty"`
	PassAcceptedAt           *time.Time         `json:"passAcceptedAt,omitempty"`
	Documents                []DocumentResponse `json:"documents"`
}

type CandidateSummary struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Position   string `json:"position"`
	Department string `json:"department"`
}

type MySubmissionResponse struct {
	Submission *SubmissionResponse `json:"submission"`
	Candidate  CandidateSummary    `json:"candidate"`
}

type ReviewResult struct {
	ID       int64  `json:"id"`
	Status   string `json:"status"`
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
	Remarks  string `json:"remarks,omitempty"`
}

type PassDetails struct {
	FirstName     string     `json:"firstName"`
	LastName      string     `json:"lastName"`
	Email         string     `json:"email"`
	Department    string     `json:"department"`
	DateOfJoining *time.Time `json:"dateOfJoining"`
}

type ActivatedEmployee struct {
	EmployeeID string `json:"employeeId"`
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

func toSummary(s *Submission) SubmissionSummary {
	return SubmissionSummary{
		ID:              s.ID,
		CandidateID:     s.CandidateID,
		FullName:        s.Profile.FullName,
		Email:           s.Profile.Email,
		Department:      s.Profile.Department,
		Position:        s.Profile.Position,
		Status:          s.Status,
		DateOfJoining:   s.DateOfJoining,
		ReviewedAt:      s.ReviewedAt,
		EmployeeCreated: s.EmployeeCreated,
		EmployeeID:      s.EmployeeID,
		CreatedAt:       s.CreatedAt,
	}
}

func toResponse(s *Submission) *SubmissionResponse {
	p := s.Profile
	resp := &SubmissionResponse{
		SubmissionSummary:        toSummary(s),
		FirstName:                p.FirstName,
		MiddleName:               p.MiddleName,
		LastName:                 p.LastName,
		Phone:                    p.Phone,
		DateOfBirth:              p.DateOfBirth,
		LinkedinURL:              p.LinkedinURL,
		Address:                  p.Address,
		City:                     p.City,
		State:                    p.State,
		Pincode:                  p.Pincode,
		EmergencyContactName:     p.EmergencyContactName,
		EmergencyContactPhone:    p.EmergencyContactPhone,
		EmergencyContactRelation: p.EmergencyContactRelation,
		BankAccountNumber:        p.BankAccountNumber,
		BankName:                 p.BankName,
		BankIFSC:                 p.BankIFSC,
		SelfDescription:          p.SelfDescription,
		TenthPercentage:          p.TenthPercentage,
		TwelfthPercentage:        p.TwelfthPercentage,
		DegreePercentage:         p.DegreePercentage,
		TotalExperience:          p.TotalExperience,
		PreviousCompanies:        []PreviousCompany{},
		AadhaarNumber:            p.AadhaarNumber,
		PANNumber:                p.PANNumber,
		AboutMe:                  p.AboutMe,
		HRRemarks:                s.HRRemarks,
		ReviewedBy:               s.ReviewedBy,
		PassSentAt:               s.PassSentAt,
		PassAcceptedAt:           s.PassAcceptedAt,
		Documents:                make([]DocumentResponse, 0, len(s.Documents)),
	}
	if len(s.PreviousCompanies) > 0 {
		_ = json.Unmarshal(s.PreviousCompanies, &resp.PreviousCompanies)
	}
	for _, d := range s.Documents {
		resp.Documents = append(resp.Documents, DocumentResponse{
			Field:       d.Field,
			Filename:    d.Filename,
			ContentType: d.ContentType,
			Data:        d.Data,
		})
	}
	return resp
}
