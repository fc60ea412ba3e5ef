package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	OfferCreatedEventType     = "candidate.offer_created"
	JoiningTriggeredEventType = "candidate.joining_triggered"
	PassIssuedEventType       = "onboarding.pass_issued"
	PassAcceptedEventType     = "onboarding.pass_accepted"
)

type OfferCreatedEvent struct {
	BaseEvent
	CandidateID int64     `json:"candidate_id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	Position    string    `json:"position"`
	Department  string    `json:"department"`
	AcceptToken string    `json:"accept_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (e OfferCreatedEvent) Payload() interface{} {
	return e
}

func NewOfferCreatedEvent(candidateID int64, fullName, email, position, department, token string, expiresAt time.Time) *OfferCreatedEvent {
	return &OfferCreatedEvent{
		BaseEvent:   newBaseEvent(OfferCreatedEventType),
		CandidateID: candidateID,
		FullName:    fullName,
		Email:       email,
		Position:    position,
		Department:  department,
		AcceptToken: token,
		ExpiresAt:   expiresAt,
	}
}

// JoiningTriggeredEvent carries the one-time temporary password for the credentials mail.
type JoiningTriggeredEvent struct {
	BaseEvent
	CandidateID  int64  `json:"candidate_id"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	TempPassword string `json:"-"`
}

func (e JoiningTriggeredEvent) Payload() interface{} {
	return e
}

func NewJoiningTriggeredEvent(candidateID int64, fullName, email, tempPassword string) *JoiningTriggeredEvent {
	return &JoiningTriggeredEvent{
		BaseEvent:    newBaseEvent(JoiningTriggeredEventType),
		CandidateID:  candidateID,
		FullName:     fullName,
		Email:        email,
		TempPassword: tempPassword,
	}
}

type PassIssuedEvent struct {
	BaseEvent
	SubmissionID  int64     `json:"submission_id"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
	PassToken     string    `json:"pass_token"`
	DateOfJoining time.Time `json:"date_of_joining"`
}

func (e PassIssuedEvent) Payload() interface{} {
	return e
}

func NewPassIssuedEvent(submissionID int64, fullName, email, token string, dateOfJoining time.Time) *PassIssuedEvent {
	return &PassIssuedEvent{
		BaseEvent:     newBaseEvent(PassIssuedEventType),
		SubmissionID:  submissionID,
		FullName:      fullName,
		Email:         email,
		PassToken:     token,
		DateOfJoining: dateOfJoining,
	}
}

type PassAcceptedEvent struct {
	BaseEvent
	SubmissionID     int64  `json:"submission_id"`
	EmployeeRecordID int64  `json:"employee_record_id"`
	EmployeeID       string `json:"employee_id"`
	FullName         string `json:"full_name"`
	FirstName        string `json:"first_name"`
	Email            string `json:"email"`
	Department       string `json:"department"`
	Position         string `json:"position"`
	Password         string `json:"-"`
}

func (e PassAcceptedEvent) Payload() interface{} {
	return e
}

func NewPassAcceptedEvent(submissionID, employeeRecordID int64, employeeID, fullName, firstName, email, department, position, password string) *PassAcceptedEvent {
	return &PassAcceptedEvent{
		BaseEvent:        newBaseEvent(PassAcceptedEventType),
		SubmissionID:     submissionID,
		EmployeeRecordID: employeeRecordID,
		EmployeeID:       employeeID,
		FullName:         fullName,
		FirstName:        firstName,
		Email:            email,
		Department:       department,
		Position:         position,
		Password:         password,
	}
}

func newBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
	}
}
