package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
	ErrorTypeExternal     ErrorType = "EXTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeInvalidFormat    ErrorCode = "INVALID_FORMAT"
	ErrCodeOutOfRange       ErrorCode = "OUT_OF_RANGE"
	ErrCodeMissingDocument  ErrorCode = "MISSING_DOCUMENT"
	ErrCodeTooManyDocuments ErrorCode = "TOO_MANY_DOCUMENTS"

	ErrCodeCandidateNotFound       ErrorCode = "CANDIDATE_NOT_FOUND"
	ErrCodeCandidateExists         ErrorCode = "CANDIDATE_EXISTS"
	ErrCodeInvalidOfferToken       ErrorCode = "INVALID_OFFER_TOKEN"
	ErrCodeOfferAlreadyAccepted    ErrorCode = "OFFER_ALREADY_ACCEPTED"
	ErrCodeOfferNotAccepted        ErrorCode = "OFFER_NOT_ACCEPTED"
	ErrCodeJoiningAlreadyTriggered ErrorCode = "JOINING_ALREADY_TRIGGERED"

	ErrCodeSubmissionNotFound      ErrorCode = "SUBMISSION_NOT_FOUND"
	ErrCodeSubmissionExists        ErrorCode = "SUBMISSION_EXISTS"
	ErrCodeSubmissionAlreadyIssued ErrorCode = "SUBMISSION_ALREADY_APPROVED"
	ErrCodeInvalidSubmissionStatus ErrorCode = "INVALID_SUBMISSION_STATUS"
	ErrCodeInvalidPassToken        ErrorCode = "INVALID_PASS_TOKEN"

	ErrCodeAccountNotFound ErrorCode = "ACCOUNT_NOT_FOUND"
	ErrCodeAccountExists   ErrorCode = "ACCOUNT_EXISTS"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	ErrCodeForbiddenRole      ErrorCode = "FORBIDDEN_ROLE"

	ErrCodeAssistantNotConfigured ErrorCode = "ASSISTANT_NOT_CONFIGURED"
	ErrCodeAssistantFailed        ErrorCode = "ASSISTANT_FAILED"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause returns a copy so shared sentinels are never mutated.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// Is matches copies produced by WithCause against their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code && e.Message == t.Message
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewConflictError reports a state conflict. The portal clients expect 400 for these.
func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewExternalError(message string, code ErrorCode, status int) *AppError {
	return &AppError{
		Type:       ErrorTypeExternal,
		Code:       code,
		Message:    message,
		StatusCode: status,
	}
}

var (
	ErrCandidateNotFound       = NewNotFoundError("Candidate not found", ErrCodeCandidateNotFound)
	ErrCandidateExists         = NewConflictError("Candidate with this email already exists", ErrCodeCandidateExists)
	ErrInvalidOfferToken       = NewValidationError("Invalid or expired token", ErrCodeInvalidOfferToken)
	ErrOfferAlreadyAccepted    = NewConflictError("Offer already accepted", ErrCodeOfferAlreadyAccepted)
	ErrOfferNotAccepted        = NewConflictError("Candidate has not accepted the offer yet", ErrCodeOfferNotAccepted)
	ErrJoiningAlreadyTriggered = NewConflictError("Joining already triggered for this candidate", ErrCodeJoiningAlreadyTriggered)

	ErrSubmissionNotFound    = NewNotFoundError("Submission not found", ErrCodeSubmissionNotFound)
	ErrSubmissionExists      = NewConflictError("Onboarding already submitted", ErrCodeSubmissionExists)
	ErrSubmissionApproved    = NewConflictError("Submission already approved", ErrCodeSubmissionAlreadyIssued)
	ErrSubmissionNotPending  = NewConflictError("Submission is no longer awaiting review", ErrCodeInvalidSubmissionStatus)
	ErrInvalidPassToken      = NewValidationError("Invalid or expired onboarding pass", ErrCodeInvalidPassToken)
	ErrPassNotAcceptable     = NewValidationError("Invalid onboarding pass token or already accepted", ErrCodeInvalidPassToken)
	ErrMissingDocuments      = NewValidationError("All required documents must be uploaded", ErrCodeMissingDocument)
	ErrMissingExperienceDocs = NewValidationError("Experience letters are required for experienced candidates", ErrCodeMissingDocument)

	ErrAccountNotFound = NewNotFoundError("Linked account not found", ErrCodeAccountNotFound)
	ErrAccountExists   = NewConflictError("An account with this email already exists", ErrCodeAccountExists)

	ErrInvalidCredentials = NewUnauthorizedError("Invalid email or password", ErrCodeInvalidCredentials)
	ErrUserInactive       = NewForbiddenError("User account is inactive", ErrCodeUserInactive)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
	ErrForbiddenRole      = NewForbiddenError("You do not have access to this resource", ErrCodeForbiddenRole)

	ErrAssistantNotConfigured = NewExternalError("Chatbot is not configured", ErrCodeAssistantNotConfigured, http.StatusServiceUnavailable)
	ErrAssistantFailed        = NewExternalError("Failed to get response from chatbot. Please try again.", ErrCodeAssistantFailed, http.StatusInternalServerError)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Code    ErrorCode         `json:"code,omitempty"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	resp := Response{
		Success: false,
		Message: e.GetDetailedMessage(),
		Code:    e.Code,
	}
	if details, ok := e.Details.(ValidationErrors); ok {
		resp.Errors = details.Errors
	}
	return e.StatusCode, resp
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
