package onboarding

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/frahmantamala/onboarding-portal/internal"
	"github.com/frahmantamala/onboarding-portal/internal/transport"
	"github.com/go-chi/chi"
)

const defaultMaxUploadBytes = 50 << 20

type ServiceAPI interface {
	Submit(ctx context.Context, user *internal.User, input *SubmitInput) (*ReviewResult, error)
	GetMySubmission(ctx context.Context, user *internal.User) (*MySubmissionResponse, error)
	ListSubmissions(ctx context.Context) ([]SubmissionSummary, error)
	GetSubmission(ctx context.Context, id int64) (*SubmissionResponse, error)
	Approve(ctx context.Context, id int64, reviewer *internal.User, req ApproveRequest) (*ReviewResult, error)
	Reject(ctx context.Context, id int64, reviewer *internal.User, req RejectRequest) (*ReviewResult, error)
	PassDetails(ctx context.Context, token string) (*PassDetails, error)
	AcceptPass(ctx context.Context, token string) (*ActivatedEmployee, error)
}

type Handler struct {
	*transport.BaseHandler
	Service        ServiceAPI
	MaxUploadBytes int64
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{
		BaseHandler:    baseHandler,
		Service:        service,
		MaxUploadBytes: maxUploadBytes,
	}
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	user, ok := h.CurrentUser(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		h.Logger.Warn("Submit: invalid multipart form", "error", err)
		h.WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	input, err := parseSubmitForm(r.MultipartForm)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	result, err := h.Service.Submit(r.Context(), user, input)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, "Onboarding submitted successfully", map[string]interface{}{
		"submission": result,
	})
}

func (h *Handler) GetMySubmission(w http.ResponseWriter, r *http.Request) {
	user, ok := h.CurrentUser(w, r)
	if !ok {
		return
	}

	resp, err := h.Service.GetMySubmission(r.Context(), user)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "", map[string]interface{}{
		"submission": resp.Submission,
		"candidate":  resp.Candidate,
	})
}

func (h *Handler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	submissions, err := h.Service.ListSubmissions(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "", map[string]interface{}{"submissions": submissions})
}

func (h *Handler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	id, ok := h.submissionID(w, r)
	if !ok {
		return
	}

	submission, err := h.Service.GetSubmission(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "", map[string]interface{}{"submission": submission})
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	reviewer, ok := h.CurrentUser(w, r)
	if !ok {
		return
	}
	id, ok := h.submissionID(w, r)
	if !ok {
		return
	}
	var req ApproveRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.Service.Approve(r.Context(), id, reviewer, req)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK,
		"Onboarding approved. Employee needs to accept onboarding pass to complete the process.",
		map[string]interface{}{"submission": result})
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	reviewer, ok := h.CurrentUser(w, r)
	if !ok {
		return
	}
	id, ok := h.submissionID(w, r)
	if !ok {
		return
	}
	var req RejectRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.Service.Reject(r.Context(), id, reviewer, req)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Submission rejected", map[string]interface{}{"submission": result})
}

func (h *Handler) PassDetails(w http.ResponseWriter, r *http.Request) {
	details, err := h.Service.PassDetails(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "", map[string]interface{}{"data": details})
}

func (h *Handler) AcceptPass(w http.ResponseWriter, r *http.Request) {
	employee, err := h.Service.AcceptPass(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK,
		"Onboarding pass accepted! Welcome to WinWire. You will receive onboarding emails shortly.",
		map[string]interface{}{"employee": employee})
}

func (h *Handler) submissionID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.WriteError(w, http.StatusBadRequest, "Invalid submission id")
		return 0, false
	}
	return id, true
}

func parseSubmitForm(form *multipart.Form) (*SubmitInput, error) {
	value := func(key string) string {
		if v := form.Value[key]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}

	input := &SubmitInput{
		FirstName:                value("firstName"),
		MiddleName:               value("middleName"),
		LastName:                 value("lastName"),
		DateOfBirth:              value("dateOfBirth"),
		Phone:                    value("phone"),
		LinkedinURL:              value("linkedinUrl"),
		Address:                  value("address"),
		City:                     value("city"),
		State:                    value("state"),
		Pincode:                  value("pincode"),
		EmergencyContactName:     value("emergencyContactName"),
		EmergencyContactPhone:    value("emergencyContactPhone"),
		EmergencyContactRelation: value("emergencyContactRelation"),
		BankAccountNumber:        value("bankAccountNumber"),
		BankName:                 value("bankName"),
		BankIFSC:                 value("bankIFSC"),
		SelfDescription:          value("selfDescription"),
		AadhaarNumber:            value("aadhaarNumber"),
		PANNumber:                value("panNumber"),
		AboutMe:                  value("aboutMe"),
		Documents:                make(map[string][]DocumentUpload),
	}

	numbers := []struct {
		field string
		dst   *float64
	}{
		{"tenthPercentage", &input.TenthPercentage},
		{"twelthPercentage", &input.TwelfthPercentage},
		{"degreePercentage", &input.DegreePercentage},
		{"totalExperience", &input.TotalExperience},
	}
	for _, n := range numbers {
		raw := value(n.field)
		if raw == "" {
			continue
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, internal.NewValidationFieldError(n.field, n.field+" must be a number", internal.ErrCodeInvalidFormat)
		}
		*n.dst = f
	}

	if raw := value("previousCompanies"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &input.PreviousCompanies); err != nil {
			return nil, internal.NewValidationFieldError("previousCompanies", "previousCompanies must be a JSON array", internal.ErrCodeInvalidFormat)
		}
	}

	for _, field := range DocumentFields() {
		for _, fh := range form.File[field] {
			upload, err := readUpload(fh)
			if err != nil {
				return nil, internal.NewInternalError("failed to read uploaded file", err)
			}
			input.Documents[field] = append(input.Documents[field], upload)
		}
	}

	return input, nil
}

func readUpload(fh *multipart.FileHeader) (DocumentUpload, error) {
	f, err := fh.Open()
	if err != nil {
		return DocumentUpload{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return DocumentUpload{}, err
	}
	return DocumentUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
