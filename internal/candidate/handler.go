package candidate

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/frahmantamala/onboarding-portal/internal"
	"github.com/frahmantamala/onboarding-portal/internal/transport"
	"github.com/go-chi/chi"
)

const maxOfferLetterBytes = 10 << 20

type ServiceAPI interface {
	CreateCandidate(ctx context.Context, creator *internal.User, req CreateCandidateRequest, letter *OfferLetter) (*CandidateResponse, error)
	ListCandidates(ctx context.Context) ([]CandidateResponse, error)
	AcceptOffer(ctx context.Context, token string) (*CandidateResponse, error)
	TriggerJoining(ctx context.Context, id int64) (*JoiningCredentials, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// CreateCandidate accepts JSON or a multipart form carrying an optional offerLetter file.
func (h *Handler) CreateCandidate(w http.ResponseWriter, r *http.Request) {
	creator, ok := h.CurrentUser(w, r)
	if !ok {
		return
	}

	var (
		req    CreateCandidateRequest
		letter *OfferLetter
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, maxOfferLetterBytes)
		if err := r.ParseMultipartForm(maxOfferLetterBytes); err != nil {
			h.WriteError(w, http.StatusBadRequest, "Invalid multipart form")
			return
		}
		defer r.MultipartForm.RemoveAll()

		req = CreateCandidateRequest{
			FullName:   r.FormValue("fullName"),
			Email:      r.FormValue("email"),
			Phone:      r.FormValue("phone"),
			Position:   r.FormValue("position"),
			Department: r.FormValue("department"),
		}
		var err error
		letter, err = readOfferLetter(r)
		if err != nil {
			h.Logger.Error("CreateCandidate: failed to read offer letter", "error", err)
			h.WriteError(w, http.StatusBadRequest, "Invalid offer letter upload")
			return
		}
	} else if !h.DecodeJSON(w, r, &req) {
		return
	}

	candidate, err := h.Service.CreateCandidate(r.Context(), creator, req, letter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, "Candidate created and offer sent", map[string]interface{}{
		"candidate": candidate,
	})
}

func (h *Handler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.Service.ListCandidates(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "", map[string]interface{}{"candidates": candidates})
}

func (h *Handler) AcceptOffer(w http.ResponseWriter, r *http.Request) {
	candidate, err := h.Service.AcceptOffer(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Offer accepted successfully", map[string]interface{}{
		"candidate": candidate,
	})
}

func (h *Handler) TriggerJoining(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.WriteError(w, http.StatusBadRequest, "Invalid candidate id")
		return
	}

	creds, err := h.Service.TriggerJoining(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Joining triggered. Login credentials have been sent to the candidate.",
		map[string]interface{}{"credentials": creds})
}

func readOfferLetter(r *http.Request) (*OfferLetter, error) {
	file, header, err := r.FormFile("offerLetter")
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return &OfferLetter{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
