package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tyrecheck/tyrecheck-go/internal/model"
	"github.com/tyrecheck/tyrecheck-go/internal/query"
	"github.com/tyrecheck/tyrecheck-go/internal/service"
)

// ClaimHandler handles claim listing, viewing, review and export.
type ClaimHandler struct {
	service *service.ClaimService
}

// NewClaimHandler creates a new ClaimHandler.
func NewClaimHandler(svc *service.ClaimService) *ClaimHandler {
	return &ClaimHandler{service: svc}
}

// HandleListClaims handles POST /claim/details?per_page=N requests.
func (h *ClaimHandler) HandleListClaims(w http.ResponseWriter, r *http.Request) {
	perPage := query.DefaultPerPage
	if raw := r.URL.Query().Get("per_page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse(query.ErrInvalidPerPage.Error()))
			return
		}
		perPage = n
	}

	var req model.ClaimFilterRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}

	resp, err := h.service.ListClaims(r.Context(), req, perPage)
	if err != nil {
		if errors.Is(err, service.ErrInvalidFilter) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		internalError(w, r, "listing claims", err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleGetClaim handles GET /viewClaim/Claim_ID=* requests. The claim id is
// the rest of the path, so ids may contain slashes.
func (h *ClaimHandler) HandleGetClaim(w http.ResponseWriter, r *http.Request) {
	claimID := chi.URLParam(r, "*")
	// chi matches against RawPath when it is set, leaving the param escaped.
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(claimID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse("invalid claim id"))
			return
		}
		claimID = unescaped
	}

	rows, err := h.service.GetClaim(r.Context(), claimID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClaimIDRequired), errors.Is(err, service.ErrClaimNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse("no records found for claim "+claimID))
		default:
			internalError(w, r, "fetching claim", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, rows)
}

// HandleUpdateClaim handles POST /viewClaim/updateClaimResult requests.
func (h *ClaimHandler) HandleUpdateClaim(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateClaimRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	if err := h.service.UpdateClaim(r.Context(), req); err != nil {
		switch {
		case errors.Is(err, service.ErrClaimIDRequired):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrClaimNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		default:
			internalError(w, r, "updating claim", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Data Updated Successfully"})
}

// HandleExport handles POST /claim/export_pdf requests. The rows are returned
// as JSON; rendering the document is left to the client.
func (h *ClaimHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	var req model.ExportRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}

	rows, err := h.service.ExportClaims(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidFilter) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		internalError(w, r, "exporting claims", err)
		return
	}

	writeJSON(w, http.StatusOK, rows)
}
