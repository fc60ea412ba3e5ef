package onboarding_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"

	"github.com/frahmantamala/onboarding-portal/internal"
	"github.com/frahmantamala/onboarding-portal/internal/onboarding"
	"github.com/frahmantamala/onboarding-portal/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubService struct {
	submitted *onboarding.SubmitInput
	approved  onboarding.ApproveRequest
	err       error
}

func (s *stubService) Submit(ctx context.Context, user *internal.User, input *onboarding.SubmitInput) (*onboarding.ReviewResult, error) {
	s.submitted = input
	if s.err != nil {
		return nil, s.err
	}
	return &onboarding.ReviewResult{ID: 3, Status: onboarding.StatusSubmitted}, nil
}

func (s *stubService) GetMySubmission(ctx context.Context, user *internal.User) (*onboarding.MySubmissionResponse, error) {
	return &onboarding.MySubmissionResponse{}, s.err
}

func (s *stubService) ListSubmissions(ctx context.Context) ([]onboarding.SubmissionSummary, error) {
	return []onboarding.SubmissionSummary{}, s.err
}

func (s *stubService) GetSubmission(ctx context.Context, id int64) (*onboarding.SubmissionResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &onboarding.SubmissionResponse{
		SubmissionSummary: onboarding.SubmissionSummary{ID: id, Status: onboarding.StatusSubmitted},
		Documents: []onboarding.DocumentResponse{
			{Field: "panDocument", Filename: "pan.png", ContentType: "image/png", Data: []byte("png-bytes")},
		},
	}, nil
}

func (s *stubService) Approve(ctx context.Context, id int64, reviewer *internal.User, req onboarding.ApproveRequest) (*onboarding.ReviewResult, error) {
	s.approved = req
	if s.err != nil {
		return nil, s.err
	}
	return &onboarding.ReviewResult{ID: id, Status: onboarding.StatusPassSent}, nil
}

func (s *stubService) Reject(ctx context.Context, id int64, reviewer *internal.User, req onboarding.RejectRequest) (*onboarding.ReviewResult, error) {
	return &onboarding.ReviewResult{ID: id, Status: onboarding.StatusRejected}, s.err
}

func (s *stubService) PassDetails(ctx context.Context, token string) (*onboarding.PassDetails, error) {
	return nil, internal.ErrInvalidPassToken
}

func (s *stubService) AcceptPass(ctx context.Context, token string) (*onboarding.ActivatedEmployee, error) {
	return &onboarding.ActivatedEmployee{EmployeeID: "WW00001"}, s.err
}

var _ = Describe("Onboarding Handler", func() {
	var (
		service *stubService
		handler *onboarding.Handler
		router  chi.Router
		user    *internal.User
	)

	withUser := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(internal.ContextWithUser(r.Context(), user)))
		})
	}

	decode := func(w *httptest.ResponseRecorder) map[string]interface{} {
		var body map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		return body
	}

	BeforeEach(func() {
		service = &stubService{}
		user = &internal.User{ID: 5, Email: "neha@example.com", Role: internal.RoleEmployee}
		base := transport.NewBaseHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
		handler = onboarding.NewHandler(base, service, 1<<20)

		router = chi.NewRouter()
		router.With(withUser).Post("/onboarding/submit", handler.Submit)
		router.With(withUser).Post("/admin/submissions/{id}/approve", handler.Approve)
		router.Get("/admin/submissions/{id}", handler.GetSubmission)
		router.Get("/admin/onboarding-pass-details/{token}", handler.PassDetails)
		router.Post("/admin/accept-onboarding-pass/{token}", handler.AcceptPass)
	})

	Describe("Submit", func() {
		buildForm := func() (*bytes.Buffer, string) {
			body := &bytes.Buffer{}
			mw := multipart.NewWriter(body)
			Expect(mw.WriteField("firstName", "Neha")).To(Succeed())
			Expect(mw.WriteField("totalExperience", "1.5")).To(Succeed())
			Expect(mw.WriteField("twelthPercentage", "82.4")).To(Succeed())
			Expect(mw.WriteField("previousCompanies", `[{"companyName":"Acme","designation":"Dev","duration":"1y"}]`)).To(Succeed())

			header := textproto.MIMEHeader{}
			header.Set("Content-Disposition", `form-data; name="panDocument"; filename="pan.pdf"`)
			header.Set("Content-Type", "application/pdf")
			part, err := mw.CreatePart(header)
			Expect(err).NotTo(HaveOccurred())
			_, err = part.Write([]byte("%PDF-1.4"))
			Expect(err).NotTo(HaveOccurred())

			for _, name := range []string{"one.pdf", "two.pdf"} {
				part, err := mw.CreateFormFile("experienceLetters", name)
				Expect(err).NotTo(HaveOccurred())
				_, err = part.Write([]byte(name))
				Expect(err).NotTo(HaveOccurred())
			}

			part, err = mw.CreateFormFile("unknownField", "x.bin")
			Expect(err).NotTo(HaveOccurred())
			_, err = part.Write([]byte("ignored"))
			Expect(err).NotTo(HaveOccurred())

			Expect(mw.Close()).To(Succeed())
			return body, mw.FormDataContentType()
		}

		It("parses fields and files into the submit input", func() {
			body, contentType := buildForm()
			req := httptest.NewRequest(http.MethodPost, "/onboarding/submit", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(decode(w)["message"]).To(Equal("Onboarding submitted successfully"))

			in := service.submitted
			Expect(in.FirstName).To(Equal("Neha"))
			Expect(in.TotalExperience).To(Equal(1.5))
			Expect(in.TwelfthPercentage).To(Equal(82.4))
			Expect(in.PreviousCompanies).To(HaveLen(1))
			Expect(in.Documents["panDocument"][0].ContentType).To(Equal("application/pdf"))
			Expect(in.Documents["panDocument"][0].Data).To(Equal([]byte("%PDF-1.4")))
			Expect(in.Documents["experienceLetters"]).To(HaveLen(2))
			Expect(in.Documents).NotTo(HaveKey("unknownField"))
		})

		It("maps service errors to the envelope", func() {
			service.err = internal.ErrMissingDocuments
			body, contentType := buildForm()
			req := httptest.NewRequest(http.MethodPost, "/onboarding/submit", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			resp := decode(w)
			Expect(resp["success"]).To(BeFalse())
			Expect(resp["message"]).To(Equal("All required documents must be uploaded"))
		})

		It("rejects non-numeric percentages", func() {
			body := &bytes.Buffer{}
			mw := multipart.NewWriter(body)
			Expect(mw.WriteField("tenthPercentage", "ninety")).To(Succeed())
			Expect(mw.Close()).To(Succeed())

			req := httptest.NewRequest(http.MethodPost, "/onboarding/submit", body)
			req.Header.Set("Content-Type", mw.FormDataContentType())
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(service.submitted).To(BeNil())
		})
	})

	It("renders document payloads as base64", func() {
		req := httptest.NewRequest(http.MethodGet, "/admin/submissions/12", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		submission := decode(w)["submission"].(map[string]interface{})
		doc := submission["documents"].([]interface{})[0].(map[string]interface{})
		Expect(doc["data"]).To(Equal("cG5nLWJ5dGVz"))
		Expect(doc["contentType"]).To(Equal("image/png"))
	})

	It("rejects non-numeric submission ids", func() {
		req := httptest.NewRequest(http.MethodPost, "/admin/submissions/abc/approve", bytes.NewBufferString(`{}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("passes the approve body through", func() {
		req := httptest.NewRequest(http.MethodPost, "/admin/submissions/12/approve",
			bytes.NewBufferString(`{"remarks":"ok","dateOfJoining":"2025-01-01"}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(service.approved.DateOfJoining).To(Equal("2025-01-01"))
		Expect(decode(w)["submission"]).To(HaveKeyWithValue("status", onboarding.StatusPassSent))
	})

	It("answers invalid pass tokens with 400", func() {
		req := httptest.NewRequest(http.MethodGet, "/admin/onboarding-pass-details/stale", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(decode(w)["message"]).To(Equal("Invalid or expired onboarding pass"))
	})

	It("returns the activated employee", func() {
		req := httptest.NewRequest(http.MethodPost, "/admin/accept-onboarding-pass/tok", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)["employee"]).To(HaveKeyWithValue("employeeId", "WW00001"))
	})
})
